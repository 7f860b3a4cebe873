// Package textvec turns free text into sparse TF-IDF vectors.
//
// Vectors are L2-normalized, so the dot product of two vectors is their
// cosine similarity. A Vectorizer is immutable once fitted and safe for
// concurrent use.
package textvec

import (
	"errors"
	"math"
	"sort"
	"strings"
	"unicode"
)

// ErrEmptyCorpus is returned by Fit when no document yields a token.
var ErrEmptyCorpus = errors.New("textvec: corpus has no tokens")

// Vector is a sparse vector keyed by vocabulary index. Sums over a Vector
// must walk Indices so results do not depend on map iteration order.
type Vector map[int]float64

// Indices returns the populated indices in ascending order.
func (v Vector) Indices() []int {
	idx := make([]int, 0, len(v))
	for i := range v {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}

// Dot returns the inner product of two sparse vectors, summed in ascending
// index order.
func Dot(a, b Vector) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for _, i := range a.Indices() {
		if y, ok := b[i]; ok {
			sum += a[i] * y
		}
	}
	return sum
}

// Tokenize lower-cases text and splits it into runs of letters, digits and
// underscores. Runs shorter than two runes are dropped.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	out := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) >= 2 {
			out = append(out, f)
		}
	}
	return out
}

// Vectorizer holds a fitted vocabulary and its inverse document frequencies.
type Vectorizer struct {
	vocab map[string]int
	terms []string
	idf   []float64
}

// Fit builds a vocabulary over docs. Terms are indexed in sorted order so
// that fitting the same corpus twice yields identical vectors.
func Fit(docs []string) (*Vectorizer, error) {
	df := make(map[string]int)
	for _, d := range docs {
		seen := make(map[string]struct{})
		for _, tok := range Tokenize(d) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	if len(df) == 0 {
		return nil, ErrEmptyCorpus
	}

	terms := make([]string, 0, len(df))
	for t := range df {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	n := float64(len(docs))
	v := &Vectorizer{
		vocab: make(map[string]int, len(terms)),
		terms: terms,
		idf:   make([]float64, len(terms)),
	}
	for i, t := range terms {
		v.vocab[t] = i
		// smoothed idf, as if one extra document contained every term
		v.idf[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}
	return v, nil
}

// Len returns the vocabulary size.
func (v *Vectorizer) Len() int { return len(v.terms) }

// Terms returns a copy of the vocabulary in index order.
func (v *Vectorizer) Terms() []string {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}

// Transform maps text onto the fitted vocabulary. Unknown tokens are
// ignored; text with no known tokens yields an empty vector.
func (v *Vectorizer) Transform(text string) Vector {
	out := make(Vector)
	for _, tok := range Tokenize(text) {
		if i, ok := v.vocab[tok]; ok {
			out[i]++
		}
	}
	var norm float64
	for _, i := range out.Indices() {
		w := out[i] * v.idf[i]
		out[i] = w
		norm += w * w
	}
	if norm == 0 {
		return out
	}
	norm = math.Sqrt(norm)
	for i := range out {
		out[i] /= norm
	}
	return out
}

// TransformAll vectorizes each document in order.
func (v *Vectorizer) TransformAll(docs []string) []Vector {
	out := make([]Vector, len(docs))
	for i, d := range docs {
		out[i] = v.Transform(d)
	}
	return out
}
