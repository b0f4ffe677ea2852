package processor

import (
	"context"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"nba-chat/internal/models"
)

func TestRemoveHeadersFooters(t *testing.T) {
	tests := []struct {
		name string
		page string
		want string
	}{
		{"page numbers", "Page 1\nBody line\nmore\n3", "Body line\nmore"},
		{"confidential footer", "Text\nCompany Confidential", "Text"},
		{"page of pages", "Page 2 of 9\n© Acme Corp\nBody", "Body"},
		{"nothing to strip", "Intro\nBody", "Intro\nBody"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := removeHeadersFooters(tt.page); got != tt.want {
				t.Errorf("removeHeadersFooters() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParagraphs(t *testing.T) {
	got := paragraphs("first line\nsecond line\n\nTHRESHOLDS\nvalue is   10")
	want := []string{"first line second line", "THRESHOLDS", "value is 10"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("paragraphs() = %q, want %q", got, want)
	}
}

func TestIsHeading(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"ORDER RULES", true},
		{"Credit limits:", true},
		{"### Overview", true},
		{"2024", false},
		{"Orders above the limit are held.", false},
	}
	for _, tt := range tests {
		if got := isHeading(tt.in); got != tt.want {
			t.Errorf("isHeading(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSplitLong(t *testing.T) {
	got := splitLong("one two three four five six seven", 20)
	want := []string{"one two three four", "five six seven"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitLong() = %q, want %q", got, want)
	}

	if got := splitLong("abcdefghij", 4); len(got) != 1 || got[0] != "abcdefghij" {
		t.Errorf("long word should stay whole, got %q", got)
	}
}

func TestChunkSections(t *testing.T) {
	p := NewDocumentProcessor(40)
	pages := []string{
		"Page 1\nINTRO\nAlpha beta gamma.\n\nDelta epsilon.",
		"ORDER RULES:\nHold orders above limit.",
	}

	got := p.Chunk("rules.pdf", "threshold", pages)
	want := []models.TextChunk{
		{
			ID:      1,
			Content: "INTRO\n\nAlpha beta gamma.\n\nDelta epsilon.",
			Metadata: models.Metadata{
				Index: "threshold", Source: "rules.pdf", PageNumber: 1,
				Section: "INTRO", ChunkType: ChunkTypeSection,
			},
		},
		{
			ID:      2,
			Content: "ORDER RULES:\n\nHold orders above limit.",
			Metadata: models.Metadata{
				Index: "threshold", Source: "rules.pdf", PageNumber: 2,
				Section: "ORDER RULES", ChunkType: ChunkTypeSection,
			},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Chunk() =\n%+v\nwant\n%+v", got, want)
	}
}

func TestChunkSizeBoundaries(t *testing.T) {
	p := NewDocumentProcessor(20)

	got := p.Chunk("a.pdf", "idx", []string{"one two three four five six seven"})
	if len(got) != 2 {
		t.Fatalf("got %d chunks, want 2", len(got))
	}
	if got[0].Content != "one two three four" || got[1].Content != "five six seven" {
		t.Errorf("contents = %q, %q", got[0].Content, got[1].Content)
	}
	for _, c := range got {
		if c.Metadata.ChunkType != ChunkTypeParagraph || c.Metadata.Section != "" {
			t.Errorf("chunk %d metadata = %+v", c.ID, c.Metadata)
		}
	}

	got = p.Chunk("a.pdf", "idx", []string{"LIMITS\nfirst paragraph here\n\nsecond paragraph"})
	if len(got) != 2 {
		t.Fatalf("got %d chunks, want 2", len(got))
	}
	if got[0].Metadata.ChunkType != ChunkTypeSection || got[1].Metadata.ChunkType != ChunkTypeParagraph {
		t.Errorf("chunk types = %s, %s", got[0].Metadata.ChunkType, got[1].Metadata.ChunkType)
	}
	if got[0].Content != "LIMITS\n\nfirst paragraph here" {
		t.Errorf("heading should lead its section's first chunk, got %q", got[0].Content)
	}
	if got[1].Metadata.Section != "LIMITS" {
		t.Errorf("section = %q, want LIMITS", got[1].Metadata.Section)
	}
}

func TestChunkEmpty(t *testing.T) {
	p := NewDocumentProcessor(0)
	if p.ChunkSize != DefaultChunkSize {
		t.Errorf("ChunkSize = %d, want %d", p.ChunkSize, DefaultChunkSize)
	}
	if got := p.Chunk("a.pdf", "idx", []string{"", "  \n "}); len(got) != 0 {
		t.Errorf("got %d chunks from blank pages", len(got))
	}
}

func TestProcessPDFMissingFile(t *testing.T) {
	p := NewDocumentProcessor(100)
	_, err := p.ProcessPDF(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"), "idx")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestChunkKeepsAllText(t *testing.T) {
	tests := []struct {
		name  string
		size  int
		pages []string
		want  string
	}{
		{
			name:  "sentence ending in colon",
			size:  1000,
			pages: []string{"If the hold is not released, contact the following teams:\nCredit Team and Finance Team handle releases."},
			want:  "If the hold is not released, contact the following teams: Credit Team and Finance Team handle releases.",
		},
		{
			name: "consecutive headings and split paragraphs",
			size: 30,
			pages: []string{
				"OVERVIEW\nNOTES:\nalpha beta gamma delta epsilon zeta eta theta iota kappa",
				"Page 2\nlambda mu\n\nWhen escalating:\nnu xi",
			},
			want: "OVERVIEW NOTES: alpha beta gamma delta epsilon zeta eta theta iota kappa lambda mu When escalating: nu xi",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := NewDocumentProcessor(tt.size).Chunk("a.pdf", "idx", tt.pages)

			var contents []string
			for _, c := range chunks {
				contents = append(contents, c.Content)
			}
			got := strings.Fields(strings.Join(contents, " "))
			if want := strings.Fields(tt.want); !reflect.DeepEqual(got, want) {
				t.Errorf("chunk text = %q\nwant %q", got, want)
			}
		})
	}
}
