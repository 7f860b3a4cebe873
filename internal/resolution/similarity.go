package resolution

import (
	"errors"
	"fmt"
	"strings"

	"github.com/linnemanlabs/supportflow/internal/textvec"
)

const (
	// Acknowledgment is returned for empty or whitespace-only complaints.
	Acknowledgment = "We will review the details and follow up with next steps shortly."

	// SuggestFallback is returned when a suggestion cannot be computed.
	SuggestFallback = "We will review your request."
)

// Exemplar pairs a representative complaint with its canned response.
type Exemplar struct {
	Query    string `json:"query"`
	Response string `json:"response"`
}

// DefaultExemplars returns the built-in exemplars.
func DefaultExemplars() []Exemplar {
	return []Exemplar{
		{
			"payment failed but money deducted",
			"We have flagged the charge and will verify the transaction with our billing provider. If confirmed as duplicate, a refund will be issued within 3-5 business days.",
		},
		{
			"cannot login or reset password",
			"Please use the 'Forgot Password' option to reset your credentials. If 2FA is still failing, we can verify your account and reset it on our end.",
		},
		{
			"app crashes on startup",
			"Please update to the latest version and clear the application cache. If the crash persists, share the device model and OS version so we can reproduce and escalate.",
		},
		{
			"feature request or suggestion",
			"We have logged your request for our quarterly roadmap review. We'll keep you updated as we evaluate it.",
		},
	}
}

// SimilarityModel picks the canned response whose exemplar is most similar
// to a complaint. It is immutable after construction.
type SimilarityModel struct {
	vec       *textvec.Vectorizer
	vectors   []textvec.Vector
	responses []string
}

// NewSimilarityModel vectorizes exemplars once.
func NewSimilarityModel(exemplars []Exemplar) (*SimilarityModel, error) {
	if len(exemplars) == 0 {
		return nil, errors.New("no exemplars")
	}

	queries := make([]string, len(exemplars))
	responses := make([]string, len(exemplars))
	for i, ex := range exemplars {
		if strings.TrimSpace(ex.Query) == "" || strings.TrimSpace(ex.Response) == "" {
			return nil, fmt.Errorf("exemplar %d: query and response are required", i)
		}
		queries[i] = ex.Query
		responses[i] = ex.Response
	}

	vec, err := textvec.Fit(queries)
	if err != nil {
		return nil, fmt.Errorf("vectorize exemplars: %w", err)
	}

	return &SimilarityModel{
		vec:       vec,
		vectors:   vec.TransformAll(queries),
		responses: responses,
	}, nil
}

// Suggest returns the response of the most similar exemplar, the first one
// on ties. Empty input yields Acknowledgment without vectorizing.
func (m *SimilarityModel) Suggest(text string) (out string) {
	if strings.TrimSpace(text) == "" {
		return Acknowledgment
	}

	defer func() {
		if r := recover(); r != nil {
			out = SuggestFallback
		}
	}()

	q := m.vec.Transform(text)
	best, bestScore := 0, -1.0
	for i, v := range m.vectors {
		if s := textvec.Dot(q, v); s > bestScore {
			best, bestScore = i, s
		}
	}
	return m.responses[best]
}

// Len returns the number of exemplars.
func (m *SimilarityModel) Len() int { return len(m.responses) }
