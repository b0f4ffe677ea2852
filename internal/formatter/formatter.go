// Package formatter turns a plain-text agent answer into display blocks.
//
// Every non-empty line is classified on its own by a fixed, first-match
// rule list, then adjacent list items of the same coarse kind are grouped
// into a single list block.
package formatter

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Category is the classification of a single line
type Category string

const (
	CategoryBullet       Category = "bullet"
	CategoryBulletNested Category = "bullet-nested"
	CategoryNumbered     Category = "numbered"
	CategoryLettered     Category = "lettered"
	CategoryRoman        Category = "roman"
	CategoryHeader       Category = "header"
	CategoryEmphasis     Category = "emphasis"
	CategoryParagraph    Category = "paragraph"
)

// Kind is the variant of a display block
type Kind string

const (
	KindList      Kind = "list"
	KindHeader    Kind = "header"
	KindParagraph Kind = "paragraph"
)

// ListKind is the coarse kind of a list block
type ListKind string

const (
	ListBullet   ListKind = "bullet"
	ListNumbered ListKind = "numbered"
)

// Entry is one classified line
type Entry struct {
	Category      Category `json:"category"`
	Content       string   `json:"content"`
	OriginalIndex int      `json:"original_index"`
}

// Block is a display block. Which fields are set depends on Kind:
// lists carry ListKind and Items, headers and paragraphs carry Text.
type Block struct {
	Kind       Kind     `json:"kind"`
	ListKind   ListKind `json:"list_kind,omitempty"`
	Items      []Entry  `json:"items,omitempty"`
	Text       string   `json:"text,omitempty"`
	Emphasized bool     `json:"emphasized,omitempty"`
}

var (
	numberedRe   = regexp.MustCompile(`^\d+\.`)
	letteredRe   = regexp.MustCompile(`^[a-z]\. `)
	romanRe      = regexp.MustCompile(`^(i|ii|iii|iv|v)\. `)
	capsHeaderRe = regexp.MustCompile(`^[A-Z\s]+:$`)
)

// Classify classifies a raw line. It reports false for blank lines.
func Classify(raw string, index int) (Entry, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Entry{}, false
	}

	entry := Entry{OriginalIndex: index}

	switch {
	case strings.HasPrefix(trimmed, "- ") && !isIndented(raw):
		entry.Category = CategoryBullet
		entry.Content = trimmed[2:]
	case strings.HasPrefix(trimmed, "- "):
		entry.Category = CategoryBulletNested
		entry.Content = strings.TrimSpace(strings.TrimPrefix(trimmed, "- "))
	case numberedRe.MatchString(trimmed):
		entry.Category = CategoryNumbered
		entry.Content = trimmed
	case letteredRe.MatchString(trimmed):
		entry.Category = CategoryLettered
		entry.Content = trimmed
	case romanRe.MatchString(trimmed):
		entry.Category = CategoryRoman
		entry.Content = trimmed
	case isHeader(trimmed):
		entry.Category = CategoryHeader
		entry.Content = strings.TrimSuffix(strings.TrimPrefix(trimmed, "### "), ":")
	case isWrapped(trimmed, '"', '"') || isWrapped(trimmed, '(', ')'):
		entry.Category = CategoryEmphasis
		entry.Content = trimmed
	default:
		entry.Category = CategoryParagraph
		entry.Content = trimmed
	}

	return entry, true
}

// isIndented reports whether raw starts with whitespace, using the same
// definition of whitespace as strings.TrimSpace.
func isIndented(raw string) bool {
	return raw != strings.TrimLeftFunc(raw, unicode.IsSpace)
}

func isHeader(s string) bool {
	if strings.HasSuffix(s, ":") || capsHeaderRe.MatchString(s) || strings.HasPrefix(s, "###") {
		return true
	}
	return strings.ToUpper(s) == s && utf8.RuneCountInString(s) > 3
}

func isWrapped(s string, open, close byte) bool {
	return len(s) >= 2 && s[0] == open && s[len(s)-1] == close
}

// Format converts text into an ordered sequence of display blocks
func Format(text string) []Block {
	if text == "" {
		return nil
	}

	var (
		blocks   []Block
		bullets  []Entry
		numbered []Entry
	)

	flushBullets := func() {
		if len(bullets) > 0 {
			blocks = append(blocks, Block{Kind: KindList, ListKind: ListBullet, Items: bullets})
			bullets = nil
		}
	}
	flushNumbered := func() {
		if len(numbered) > 0 {
			blocks = append(blocks, Block{Kind: KindList, ListKind: ListNumbered, Items: numbered})
			numbered = nil
		}
	}

	for i, line := range strings.Split(text, "\n") {
		entry, ok := Classify(line, i)
		if !ok {
			continue
		}

		switch entry.Category {
		case CategoryBullet, CategoryBulletNested:
			flushNumbered()
			bullets = append(bullets, entry)
		case CategoryNumbered, CategoryLettered, CategoryRoman:
			flushBullets()
			numbered = append(numbered, entry)
		case CategoryHeader:
			flushBullets()
			flushNumbered()
			blocks = append(blocks, Block{Kind: KindHeader, Text: entry.Content})
		default:
			flushBullets()
			flushNumbered()
			blocks = append(blocks, Block{
				Kind:       KindParagraph,
				Text:       entry.Content,
				Emphasized: entry.Category == CategoryEmphasis,
			})
		}
	}

	flushBullets()
	flushNumbered()

	return blocks
}

// EntryCount returns the number of source lines represented by blocks
func EntryCount(blocks []Block) int {
	n := 0
	for _, b := range blocks {
		if b.Kind == KindList {
			n += len(b.Items)
		} else {
			n++
		}
	}
	return n
}
