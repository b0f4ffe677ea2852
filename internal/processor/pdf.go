package processor

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"nba-chat/internal/formatter"
	"nba-chat/internal/models"
)

const (
	// DefaultChunkSize is the target size of a chunk in characters
	DefaultChunkSize = 1000
	// MaxHeadingLength is the longest line still treated as a section heading
	MaxHeadingLength = 100

	ChunkTypeSection   = "section"
	ChunkTypeParagraph = "paragraph"
)

var (
	spaceRe    = regexp.MustCompile(`\s+`)
	pageMarkRe = regexp.MustCompile(`(?i)^(page\s+\d+(\s+of\s+\d+)?|\d+)$`)
)

// DocumentProcessor turns knowledge documents into chunks ready for embedding
type DocumentProcessor struct {
	ChunkSize int
}

// NewDocumentProcessor creates a new document processor
func NewDocumentProcessor(chunkSize int) *DocumentProcessor {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &DocumentProcessor{ChunkSize: chunkSize}
}

// ExtractPages extracts the plain text of every page of a PDF file
func (p *DocumentProcessor) ExtractPages(filePath string) ([]string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to extract text of page %d: %w", i, err)
		}
		pages = append(pages, text)
	}

	return pages, nil
}

// ProcessPDF reads a PDF file and returns its chunks tagged with index
func (p *DocumentProcessor) ProcessPDF(ctx context.Context, filePath, index string) ([]models.TextChunk, error) {
	pages, err := p.ExtractPages(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return p.Chunk(filepath.Base(filePath), index, pages), nil
}

// Chunk splits page texts into chunks. Chunks end at paragraph boundaries
// and at section headings; a paragraph longer than ChunkSize is split at
// word boundaries. A heading starts the content of its section's first
// chunk, which may exceed ChunkSize by the heading's length, so no source
// text is lost.
func (p *DocumentProcessor) Chunk(source, index string, pages []string) []models.TextChunk {
	var (
		chunks  []models.TextChunk
		current strings.Builder
		meta    models.Metadata
		section string
	)
	// current holds only a heading, which stays with the text after it
	headingOnly := false

	flush := func() {
		if current.Len() == 0 {
			return
		}
		chunks = append(chunks, models.TextChunk{
			ID:       len(chunks) + 1,
			Content:  current.String(),
			Metadata: meta,
		})
		current.Reset()
	}

	add := func(text string, page int) {
		if current.Len() > 0 && !headingOnly && current.Len()+len(text)+2 > p.ChunkSize {
			flush()
		}
		if current.Len() == 0 {
			chunkType := ChunkTypeParagraph
			if section != "" && (len(chunks) == 0 || chunks[len(chunks)-1].Metadata.Section != section) {
				chunkType = ChunkTypeSection
			}
			meta = models.Metadata{
				Index:      index,
				Source:     source,
				PageNumber: page,
				Section:    section,
				ChunkType:  chunkType,
			}
		} else {
			current.WriteString("\n\n")
		}
		current.WriteString(text)
		headingOnly = false
	}

	for i, page := range pages {
		for _, para := range paragraphs(removeHeadersFooters(page)) {
			if isHeading(para) {
				flush()
				section = strings.TrimSuffix(para, ":")
				add(para, i+1)
				headingOnly = true
				continue
			}
			for _, part := range splitLong(para, p.ChunkSize) {
				add(part, i+1)
			}
		}
	}
	flush()

	return chunks
}

// removeHeadersFooters drops page numbers and running headers or footers
// from the first two and last two lines of a page.
func removeHeadersFooters(page string) string {
	lines := strings.Split(page, "\n")

	isMarginal := func(line string) bool {
		t := strings.TrimSpace(line)
		if t == "" || len(t) >= 50 {
			return false
		}
		return pageMarkRe.MatchString(t) || strings.Contains(t, "©") ||
			strings.Contains(strings.ToLower(t), "confidential")
	}

	start := 0
	for start < len(lines) && start < 2 && isMarginal(lines[start]) {
		start++
	}
	end := len(lines)
	for end > start && end > len(lines)-2 && isMarginal(lines[end-1]) {
		end--
	}

	return strings.Join(lines[start:end], "\n")
}

// paragraphs splits text on blank lines and normalizes the whitespace
// inside each paragraph.
func paragraphs(text string) []string {
	var out []string
	var lines []string

	emit := func() {
		if len(lines) > 0 {
			if para := normalizeWhitespace(strings.Join(lines, " ")); para != "" {
				out = append(out, para)
			}
			lines = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			emit()
			continue
		}
		// a heading line stands alone even without surrounding blank lines
		if t := normalizeWhitespace(line); isHeading(t) {
			emit()
			out = append(out, t)
			continue
		}
		lines = append(lines, line)
	}
	emit()

	return out
}

func normalizeWhitespace(text string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
}

// isHeading reports whether a paragraph is a section heading, using the
// same header rules the chat formatter applies to answers.
func isHeading(para string) bool {
	if len(para) > MaxHeadingLength || !strings.ContainsFunc(para, isLetter) {
		return false
	}
	entry, ok := formatter.Classify(para, 0)
	return ok && entry.Category == formatter.CategoryHeader
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// splitLong splits text into parts of at most size characters at word
// boundaries. A single word longer than size is kept whole.
func splitLong(text string, size int) []string {
	if len(text) <= size {
		return []string{text}
	}

	var parts []string
	var sb strings.Builder
	for _, word := range strings.Fields(text) {
		if sb.Len() > 0 && sb.Len()+1+len(word) > size {
			parts = append(parts, sb.String())
			sb.Reset()
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(word)
	}
	if sb.Len() > 0 {
		parts = append(parts, sb.String())
	}

	return parts
}
