package severity

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/linnemanlabs/supportflow/internal/textvec"
)

// smoothing is the additive (Laplace) smoothing constant.
const smoothing = 1.0

// Example is one labeled training complaint.
type Example struct {
	Text string `json:"text"`
	Tier Tier   `json:"tier"`
}

// Model is a trained TF-IDF multinomial naive Bayes classifier. It is
// immutable after Train returns and safe for concurrent use.
type Model struct {
	vec      *textvec.Vectorizer
	classes  []Tier
	logPrior []float64
	logProb  [][]float64 // class -> term -> log P(term|class)
	examples int
}

// Train fits a Model on examples. The result depends only on the multiset
// of examples, so training twice on the same corpus predicts identically.
func Train(examples []Example) (*Model, error) {
	if len(examples) == 0 {
		return nil, &TrainingError{Reason: "empty corpus"}
	}

	docs := make([]string, len(examples))
	counts := make(map[Tier]int)
	for i, ex := range examples {
		if strings.TrimSpace(ex.Text) == "" {
			return nil, &TrainingError{Reason: fmt.Sprintf("example %d has no text", i)}
		}
		if !ex.Tier.Valid() {
			return nil, &TrainingError{Reason: fmt.Sprintf("example %d has invalid tier %d", i, int(ex.Tier))}
		}
		docs[i] = ex.Text
		counts[ex.Tier]++
	}

	vec, err := textvec.Fit(docs)
	if err != nil {
		return nil, &TrainingError{Reason: "no usable tokens", Err: err}
	}

	classes := make([]Tier, 0, len(counts))
	for tier := range counts {
		classes = append(classes, tier)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })

	classIdx := make(map[Tier]int, len(classes))
	for i, c := range classes {
		classIdx[c] = i
	}

	n := vec.Len()
	featureCount := make([][]float64, len(classes))
	for i := range featureCount {
		featureCount[i] = make([]float64, n)
	}
	for i, doc := range docs {
		row := featureCount[classIdx[examples[i].Tier]]
		for j, w := range vec.Transform(doc) {
			row[j] += w
		}
	}

	m := &Model{
		vec:      vec,
		classes:  classes,
		logPrior: make([]float64, len(classes)),
		logProb:  make([][]float64, len(classes)),
		examples: len(examples),
	}
	for ci, c := range classes {
		m.logPrior[ci] = math.Log(float64(counts[c]) / float64(len(examples)))

		var total float64
		for _, w := range featureCount[ci] {
			total += w
		}
		denom := total + smoothing*float64(n)
		m.logProb[ci] = make([]float64, n)
		for j, w := range featureCount[ci] {
			m.logProb[ci][j] = math.Log((w + smoothing) / denom)
		}
	}
	return m, nil
}

// Classify returns the most probable tier and its posterior probability.
// Ties go to the less severe tier. Text with no known terms is decided by
// the class priors alone.
func (m *Model) Classify(text string) (Tier, float64) {
	x := m.vec.Transform(text)
	terms := x.Indices()

	jll := make([]float64, len(m.classes))
	for ci := range m.classes {
		s := m.logPrior[ci]
		for _, j := range terms {
			s += x[j] * m.logProb[ci][j]
		}
		jll[ci] = s
	}

	best := 0
	for ci := 1; ci < len(jll); ci++ {
		if jll[ci] > jll[best] {
			best = ci
		}
	}

	// softmax relative to the max for numerical stability
	var z float64
	for _, v := range jll {
		z += math.Exp(v - jll[best])
	}
	return m.classes[best], 1 / z
}

// Classes returns the tiers the model can predict, in ascending order.
func (m *Model) Classes() []Tier {
	out := make([]Tier, len(m.classes))
	copy(out, m.classes)
	return out
}

// VocabularySize returns the number of distinct training terms.
func (m *Model) VocabularySize() int { return m.vec.Len() }

// Examples returns the number of examples the model was trained on.
func (m *Model) Examples() int { return m.examples }
