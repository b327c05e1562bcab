package knowledge

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/cloudwego/eino-ext/components/document/transformer/splitter/recursive"
	"github.com/cloudwego/eino/components/document"
	"github.com/cloudwego/eino/schema"
)

// Default chunking parameters.
const (
	DefaultChunkSize    = 256
	DefaultChunkOverlap = 50
)

// DefaultSeparators are tried in order: paragraphs, lines, words, characters.
var DefaultSeparators = []string{"\n\n", "\n", " ", ""}

// sourceDocID is the id of the whole document; chunks derive their ids from it.
const sourceDocID = "knowledge"

// Splitter breaks text into chunks of at most ChunkSize runes, trying coarser
// separators first and overlapping neighbouring chunks by up to ChunkOverlap runes.
type Splitter struct {
	ChunkSize    int
	ChunkOverlap int
	Separators   []string

	transformer document.Transformer
}

// NewSplitter returns a Splitter with the default separators. A non-positive
// size uses DefaultChunkSize; an overlap outside [0, size) is dropped.
func NewSplitter(ctx context.Context, size, overlap int) (*Splitter, error) {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}
	t, err := recursive.NewSplitter(ctx, &recursive.Config{
		ChunkSize:   size,
		OverlapSize: overlap,
		Separators:  DefaultSeparators,
		LenFunc:     utf8.RuneCountInString,
		KeepType:    recursive.KeepTypeNone,
		IDGenerator: chunkID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create splitter: %w", err)
	}
	return &Splitter{ChunkSize: size, ChunkOverlap: overlap, Separators: DefaultSeparators, transformer: t}, nil
}

// Split returns the non-empty chunks of text as documents with trimmed content.
func (s *Splitter) Split(ctx context.Context, text string) ([]*schema.Document, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	docs, err := s.transformer.Transform(ctx, []*schema.Document{{ID: sourceDocID, Content: text}})
	if err != nil {
		return nil, fmt.Errorf("failed to split document: %w", err)
	}
	chunks := docs[:0]
	for _, d := range docs {
		if d == nil {
			continue
		}
		if d.Content = strings.TrimSpace(d.Content); d.Content != "" {
			chunks = append(chunks, d)
		}
	}
	return chunks, nil
}

func chunkID(_ context.Context, originalID string, splitIndex int) string {
	return fmt.Sprintf("%s-%d", originalID, splitIndex)
}

func contents(docs []*schema.Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.Content
	}
	return out
}
