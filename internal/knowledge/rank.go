package knowledge

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// BM25 parameters.
const (
	bm25K1 = 1.5
	bm25B  = 0.75
)

var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true, "be": true,
	"by": true, "for": true, "from": true, "how": true, "i": true, "in": true, "is": true,
	"it": true, "of": true, "on": true, "or": true, "that": true, "the": true, "this": true,
	"to": true, "what": true, "with": true, "my": true, "me": true, "do": true, "can": true,
}

// tokenize lowercases text and splits it on anything that is not a letter or
// digit, dropping stopwords.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if !stopwords[f] {
			out = append(out, f)
		}
	}
	return out
}

// lexicalIndex scores chunks against a query with Okapi BM25.
type lexicalIndex struct {
	terms  []map[string]int
	lens   []int
	avgLen float64
	df     map[string]int
}

func newLexicalIndex(chunks []string) *lexicalIndex {
	idx := &lexicalIndex{
		terms: make([]map[string]int, len(chunks)),
		lens:  make([]int, len(chunks)),
		df:    make(map[string]int),
	}
	total := 0
	for i, chunk := range chunks {
		tf := make(map[string]int)
		tokens := tokenize(chunk)
		for _, tok := range tokens {
			tf[tok]++
		}
		for tok := range tf {
			idx.df[tok]++
		}
		idx.terms[i] = tf
		idx.lens[i] = len(tokens)
		total += len(tokens)
	}
	if len(chunks) > 0 {
		idx.avgLen = float64(total) / float64(len(chunks))
	}
	return idx
}

// scores returns one BM25 score per chunk.
func (idx *lexicalIndex) scores(query string) []float64 {
	out := make([]float64, len(idx.terms))
	n := float64(len(idx.terms))
	seen := make(map[string]bool)
	for _, term := range tokenize(query) {
		if seen[term] {
			continue
		}
		seen[term] = true
		df := float64(idx.df[term])
		if df == 0 {
			continue
		}
		idf := math.Log(1 + (n-df+0.5)/(df+0.5))
		for i, tf := range idx.terms {
			f := float64(tf[term])
			if f == 0 {
				continue
			}
			norm := 1 - bm25B
			if idx.avgLen > 0 {
				norm += bm25B * float64(idx.lens[i]) / idx.avgLen
			}
			out[i] += idf * f * (bm25K1 + 1) / (f + bm25K1*norm)
		}
	}
	return out
}

// CosineSimilarity returns the cosine of the angle between a and b, or 0 for
// mismatched or zero vectors.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

type scored struct {
	index int
	score float64
}

// topK returns the indexes of the k highest positive scores, best first. Ties
// keep document order.
func topK(scores []float64, k int) []scored {
	ranked := make([]scored, 0, len(scores))
	for i, s := range scores {
		if s > 0 {
			ranked = append(ranked, scored{index: i, score: s})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if k > 0 && len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}
