// Package knowledge answers advisor questions from a static clean energy
// document: the document is loaded once, split into overlapping chunks and
// ranked per query with BM25, or by embedding similarity when an embedder is
// configured.
package knowledge

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultTopK is the number of passages returned per query.
const DefaultTopK = 5

// NoResults is returned by Run when nothing matches.
const NoResults = "No relevant documents found."

const (
	embedBatchSize   = 32
	embedConcurrency = 4
)

// Passage is one retrieved chunk.
type Passage struct {
	Index   int
	ID      string
	Content string
	Score   float64
}

// Config configures a Retriever.
type Config struct {
	Path         string
	ChunkSize    int
	ChunkOverlap int
	TopK         int
	// Embedder enables dense ranking; nil ranks with BM25 only.
	Embedder embedding.Embedder
	Logger   *zap.Logger
}

// Retriever ranks document chunks against queries. It is read-only after
// construction and safe for concurrent use.
type Retriever struct {
	docs     []*schema.Document
	chunks   []string
	lexical  *lexicalIndex
	vectors  [][]float64
	embedder embedding.Embedder
	topK     int
	logger   *zap.Logger
}

// Open loads the document at cfg.Path and indexes it.
func Open(ctx context.Context, cfg Config) (*Retriever, error) {
	text, err := LoadDocument(cfg.Path)
	if err != nil {
		return nil, err
	}
	return NewRetriever(ctx, text, cfg)
}

// NewRetriever splits text and indexes the chunks. When an embedder is set the
// chunks are embedded up front.
func NewRetriever(ctx context.Context, text string, cfg Config) (*Retriever, error) {
	size := cfg.ChunkSize
	if size == 0 {
		size = DefaultChunkSize
	}
	overlap := cfg.ChunkOverlap
	if overlap == 0 && cfg.ChunkSize == 0 {
		overlap = DefaultChunkOverlap
	}
	splitter, err := NewSplitter(ctx, size, overlap)
	if err != nil {
		return nil, err
	}
	docs, err := splitter.Split(ctx, text)
	if err != nil {
		return nil, err
	}
	r := &Retriever{
		docs:     docs,
		chunks:   contents(docs),
		embedder: cfg.Embedder,
		topK:     cfg.TopK,
		logger:   cfg.Logger,
	}
	if r.topK <= 0 {
		r.topK = DefaultTopK
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	r.lexical = newLexicalIndex(r.chunks)

	if r.embedder != nil && len(r.chunks) > 0 {
		vectors, err := r.embedChunks(ctx)
		if err != nil {
			return nil, err
		}
		r.vectors = vectors
	}

	r.logger.Debug("knowledge index built",
		zap.Int("chunks", len(r.chunks)),
		zap.Bool("dense", r.vectors != nil))
	return r, nil
}

// embedChunks embeds chunks in batches with bounded concurrency.
func (r *Retriever) embedChunks(ctx context.Context) ([][]float64, error) {
	vectors := make([][]float64, len(r.chunks))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)

	for start := 0; start < len(r.chunks); start += embedBatchSize {
		start := start
		end := min(start+embedBatchSize, len(r.chunks))
		g.Go(func() error {
			out, err := r.embedder.EmbedStrings(gCtx, r.chunks[start:end])
			if err != nil {
				return &EmbedError{Message: fmt.Sprintf("chunks %d-%d", start, end-1), Cause: err}
			}
			if len(out) != end-start {
				return &EmbedError{Message: fmt.Sprintf("expected %d vectors, got %d", end-start, len(out))}
			}
			copy(vectors[start:end], out)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}

// Len returns the number of indexed chunks.
func (r *Retriever) Len() int {
	return len(r.chunks)
}

// Retrieve returns up to TopK passages for query, best first. No match is an
// empty result, not an error. A failing query embedding falls back to BM25.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]Passage, error) {
	if strings.TrimSpace(query) == "" || len(r.chunks) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scores := r.lexical.scores(query)
	if r.vectors != nil {
		dense, err := r.denseScores(ctx, query)
		if err != nil {
			r.logger.Warn("query embedding failed, using lexical ranking", zap.Error(err))
		} else {
			scores = dense
		}
	}

	ranked := topK(scores, r.topK)
	passages := make([]Passage, 0, len(ranked))
	for _, s := range ranked {
		doc := r.docs[s.index]
		passages = append(passages, Passage{Index: s.index, ID: doc.ID, Content: doc.Content, Score: s.score})
	}
	return passages, nil
}

func (r *Retriever) denseScores(ctx context.Context, query string) ([]float64, error) {
	out, err := r.embedder.EmbedStrings(ctx, []string{query})
	if err != nil {
		return nil, &EmbedError{Message: "query", Cause: err}
	}
	if len(out) == 0 {
		return nil, &EmbedError{Message: "no embedding returned"}
	}
	scores := make([]float64, len(r.vectors))
	for i, v := range r.vectors {
		scores[i] = CosineSimilarity(out[0], v)
	}
	return scores, nil
}

// Run retrieves and renders passages for the advisor. Errors are rendered
// rather than returned.
func (r *Retriever) Run(ctx context.Context, query string) string {
	passages, err := r.Retrieve(ctx, query)
	if err != nil {
		r.logger.Warn("retrieval failed", zap.String("query", query), zap.Error(err))
		return "Error during retrieval: " + err.Error()
	}
	return FormatPassages(passages)
}

// FormatPassages renders passages as numbered documents.
func FormatPassages(passages []Passage) string {
	if len(passages) == 0 {
		return NoResults
	}
	parts := make([]string, len(passages))
	for i, p := range passages {
		parts[i] = fmt.Sprintf("[Document %d]\n%s", i+1, strings.TrimSpace(p.Content))
	}
	return strings.Join(parts, "\n\n")
}
