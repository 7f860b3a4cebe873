// Package corpus loads the data bundle behind the classifier and resolver:
// keyword lexicon, policy knowledge base, resolution exemplars and labeled
// training examples. A default bundle is embedded in the binary.
package corpus

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/linnemanlabs/supportflow/internal/policy"
	"github.com/linnemanlabs/supportflow/internal/resolution"
	"github.com/linnemanlabs/supportflow/internal/severity"
)

//go:embed default.yaml
var defaultBundle []byte

// ErrInvalidBundle marks bundle content that decodes badly or fails
// validation, as opposed to a file that cannot be read.
var ErrInvalidBundle = errors.New("invalid corpus bundle")

// Bundle is the decoded data file.
type Bundle struct {
	Lexicon   Lexicon         `yaml:"lexicon"`
	Policies  Policies        `yaml:"policies"`
	Exemplars []ExemplarEntry `yaml:"exemplars"`
	Examples  []ExampleEntry  `yaml:"examples"`
}

// Lexicon lists keyword triggers per tier.
type Lexicon struct {
	High   []string `yaml:"high"`
	Medium []string `yaml:"medium"`
}

// Policies is the policy knowledge base section.
type Policies struct {
	Fallback string        `yaml:"fallback"`
	Entries  []PolicyEntry `yaml:"entries"`
}

// PolicyEntry is one keyword-triggered policy.
type PolicyEntry struct {
	Keyword string `yaml:"keyword"`
	Text    string `yaml:"text"`
}

// ExemplarEntry pairs a representative complaint with a canned response.
type ExemplarEntry struct {
	Query    string `yaml:"query"`
	Response string `yaml:"response"`
}

// ExampleEntry is one labeled complaint. Tier is a tier name or number.
type ExampleEntry struct {
	Text string `yaml:"text"`
	Tier string `yaml:"tier"`
}

// Default returns the embedded bundle.
func Default() *Bundle {
	b, err := decode(bytes.NewReader(defaultBundle))
	if err != nil {
		panic(fmt.Sprintf("corpus: embedded bundle: %v", err))
	}
	return b
}

// Parse decodes a bundle from r. Sections missing from r are taken from the
// embedded default. The result is validated.
func Parse(r io.Reader) (*Bundle, error) {
	b, err := decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBundle, err)
	}

	def := Default()
	if len(b.Lexicon.High) == 0 && len(b.Lexicon.Medium) == 0 {
		b.Lexicon = def.Lexicon
	}
	if len(b.Policies.Entries) == 0 {
		b.Policies.Entries = def.Policies.Entries
	}
	if b.Policies.Fallback == "" {
		b.Policies.Fallback = def.Policies.Fallback
	}
	if len(b.Exemplars) == 0 {
		b.Exemplars = def.Exemplars
	}
	if len(b.Examples) == 0 {
		b.Examples = def.Examples
	}

	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBundle, err)
	}
	return b, nil
}

// LoadFile reads and parses a bundle file.
func LoadFile(path string) (*Bundle, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("open corpus file: %w", err)
	}
	defer func() { _ = f.Close() }()

	b, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("corpus file %s: %w", path, err)
	}
	return b, nil
}

func decode(r io.Reader) (*Bundle, error) {
	var b Bundle
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&b); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode corpus: %w", err)
	}
	return &b, nil
}

// Validate checks that every section is usable.
func (b *Bundle) Validate() error {
	var errs []error

	if len(b.Examples) == 0 {
		errs = append(errs, errors.New("examples: at least one labeled example is required"))
	}
	for i, ex := range b.Examples {
		if strings.TrimSpace(ex.Text) == "" {
			errs = append(errs, fmt.Errorf("examples[%d]: text is required", i))
		}
		if _, err := severity.ParseTier(ex.Tier); err != nil {
			errs = append(errs, fmt.Errorf("examples[%d]: %w", i, err))
		}
	}

	if len(b.Exemplars) == 0 {
		errs = append(errs, errors.New("exemplars: at least one exemplar is required"))
	}
	for i, ex := range b.Exemplars {
		if strings.TrimSpace(ex.Query) == "" || strings.TrimSpace(ex.Response) == "" {
			errs = append(errs, fmt.Errorf("exemplars[%d]: query and response are required", i))
		}
	}

	for i, p := range b.Policies.Entries {
		if strings.TrimSpace(p.Keyword) == "" || strings.TrimSpace(p.Text) == "" {
			errs = append(errs, fmt.Errorf("policies.entries[%d]: keyword and text are required", i))
		}
	}

	return errors.Join(errs...)
}

// TrainingExamples converts the labeled examples.
func (b *Bundle) TrainingExamples() ([]severity.Example, error) {
	out := make([]severity.Example, 0, len(b.Examples))
	for i, ex := range b.Examples {
		tier, err := severity.ParseTier(ex.Tier)
		if err != nil {
			return nil, fmt.Errorf("examples[%d]: %w", i, err)
		}
		out = append(out, severity.Example{Text: ex.Text, Tier: tier})
	}
	return out, nil
}

// RuleLexicon builds the keyword matcher.
func (b *Bundle) RuleLexicon() *severity.Lexicon {
	return severity.NewLexicon(map[severity.Tier][]string{
		severity.High:   b.Lexicon.High,
		severity.Medium: b.Lexicon.Medium,
	})
}

// KnowledgeBase builds the policy lookup.
func (b *Bundle) KnowledgeBase() *policy.KnowledgeBase {
	entries := make([]policy.Entry, len(b.Policies.Entries))
	for i, p := range b.Policies.Entries {
		entries[i] = policy.Entry{Keyword: p.Keyword, Text: p.Text}
	}
	return policy.New(entries, b.Policies.Fallback)
}

// ResolutionExemplars converts the exemplars.
func (b *Bundle) ResolutionExemplars() []resolution.Exemplar {
	out := make([]resolution.Exemplar, len(b.Exemplars))
	for i, ex := range b.Exemplars {
		out[i] = resolution.Exemplar{Query: ex.Query, Response: ex.Response}
	}
	return out
}

// FileSource re-reads a bundle file on every call, so edits to the file
// take effect on the next retrain.
type FileSource struct {
	Path string
}

// Examples loads the file and returns its labeled examples. Content that
// fails validation is reported as a *severity.TrainingError.
func (s FileSource) Examples(_ context.Context) ([]severity.Example, error) {
	b, err := LoadFile(s.Path)
	if errors.Is(err, ErrInvalidBundle) {
		return nil, &severity.TrainingError{Reason: "invalid corpus file", Err: err}
	}
	if err != nil {
		return nil, err
	}
	return b.TrainingExamples()
}
