package resolution

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/go-core/xerrors"

	"github.com/linnemanlabs/supportflow/internal/severity"
)

var tracer = otel.Tracer("github.com/linnemanlabs/supportflow/internal/resolution")

// DefaultDraftTimeout bounds a single Drafter call when Config.DraftTimeout is unset.
const DefaultDraftTimeout = 30 * time.Second

// Source records which path produced a Draft.
type Source string

const (
	SourceGenerated      Source = "generated"
	SourceTemplate       Source = "template"
	SourceAcknowledgment Source = "acknowledgment"
)

// SeverityClassifier scores complaint text.
type SeverityClassifier interface {
	Classify(ctx context.Context, text string) (severity.Result, error)
}

// PolicyLookup returns the policy context for complaint text.
type PolicyLookup interface {
	Lookup(text string) string
}

// Suggester returns a canned recommended action for complaint text.
type Suggester interface {
	Suggest(text string) string
}

// Draft is a resolution for one complaint.
type Draft struct {
	ID            string           `json:"id"`
	Text          string           `json:"suggestion"`
	Source        Source           `json:"source"`
	Provider      string           `json:"provider,omitempty"`
	Severity      *severity.Result `json:"severity,omitempty"`
	PolicyContext string           `json:"policy_context,omitempty"`
}

// Hooks are optional callbacks fired by the Resolver. Nil hooks are skipped.
type Hooks struct {
	OnResolve func(e *ResolveEvent)
	OnDraft   func(e *DraftEvent)
}

// ResolveEvent describes one completed resolution.
type ResolveEvent struct {
	Source   Source
	Provider string
	Priority string
	Duration float64
}

// DraftEvent describes one Drafter call. Reason is empty on success.
type DraftEvent struct {
	Provider string
	Reason   FailureReason
	Duration float64
}

// Config wires a Resolver. Drafter is optional.
type Config struct {
	Classifier   SeverityClassifier
	Policies     PolicyLookup
	Suggester    Suggester
	Drafter      Drafter
	DraftTimeout time.Duration
	Logger       log.Logger
	Hooks        Hooks
}

// Resolver sequences classification, policy lookup and drafting.
type Resolver struct {
	classifier SeverityClassifier
	policies   PolicyLookup
	suggester  Suggester
	drafter    Drafter
	timeout    time.Duration
	logger     log.Logger
	hooks      Hooks
}

// NewResolver creates a Resolver. It panics if a required collaborator is missing.
func NewResolver(c Config) *Resolver {
	if c.Classifier == nil || c.Policies == nil || c.Suggester == nil {
		panic(xerrors.New("resolution: classifier, policies and suggester are required"))
	}
	if c.DraftTimeout <= 0 {
		c.DraftTimeout = DefaultDraftTimeout
	}
	if c.Logger == nil {
		c.Logger = log.Nop()
	}
	return &Resolver{
		classifier: c.Classifier,
		policies:   c.Policies,
		suggester:  c.Suggester,
		drafter:    c.Drafter,
		timeout:    c.DraftTimeout,
		logger:     c.Logger,
		hooks:      c.Hooks,
	}
}

// Resolve drafts a resolution for text. Exactly one of the generative or
// templated paths produces the text. The only error is a severity
// classifier that could not be trained.
func (r *Resolver) Resolve(ctx context.Context, text string) (*Draft, error) {
	start := time.Now()
	d := &Draft{ID: ulid.Make().String()}

	ctx, span := tracer.Start(ctx, "resolution.resolve", trace.WithAttributes(
		attribute.String("supportflow.resolution.id", d.ID),
	))
	defer span.End()

	if strings.TrimSpace(text) == "" {
		d.Text = Acknowledgment
		d.Source = SourceAcknowledgment
		r.complete(ctx, span, d, start)
		return d, nil
	}

	sev, err := r.classifier.Classify(ctx, text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("classify severity: %w", err)
	}
	d.Severity = &sev
	d.PolicyContext = r.policies.Lookup(text)

	span.SetAttributes(
		attribute.Int("supportflow.severity.score", sev.Score),
		attribute.String("supportflow.severity.priority", sev.Priority.String()),
	)

	if r.drafter != nil {
		out, err := r.draft(ctx, &DraftRequest{
			Complaint:     text,
			Score:         sev.Score,
			PolicyContext: d.PolicyContext,
			Tone:          ToneFor(sev.Score),
		})
		if err == nil {
			d.Text = out
			d.Source = SourceGenerated
			d.Provider = r.drafter.Name()
			r.complete(ctx, span, d, start)
			return d, nil
		}
		r.logger.Warn(ctx, "drafting failed, using template",
			"resolution_id", d.ID,
			"provider", err.Provider,
			"reason", string(err.Reason),
			"error", err.Err,
		)
	}

	d.Text = Compose(text, d.PolicyContext, sev.Score, r.suggester.Suggest(text))
	d.Source = SourceTemplate
	r.complete(ctx, span, d, start)
	return d, nil
}

// draft calls the Drafter under the configured timeout. An empty reply
// counts as malformed.
func (r *Resolver) draft(ctx context.Context, req *DraftRequest) (string, *DraftingFailure) {
	provider := r.drafter.Name()
	start := time.Now()

	ctx, span := tracer.Start(ctx, "resolution.draft", trace.WithAttributes(
		attribute.String("gen_ai.operation.name", "chat"),
		attribute.String("gen_ai.system", provider),
		attribute.Int("supportflow.severity.score", req.Score),
		attribute.String("supportflow.draft.tone", string(req.Tone)),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	out, err := r.drafter.Draft(ctx, req)

	var failure *DraftingFailure
	switch {
	case err != nil:
		failure = Failure(ctx, provider, err)
	case strings.TrimSpace(out) == "":
		failure = Malformed(provider, "empty completion")
	}

	ev := &DraftEvent{Provider: provider, Duration: time.Since(start).Seconds()}
	if failure != nil {
		ev.Reason = failure.Reason
		span.RecordError(failure)
		span.SetStatus(codes.Error, string(failure.Reason))
		span.SetAttributes(attribute.String("supportflow.draft.failure", string(failure.Reason)))
	}
	if r.hooks.OnDraft != nil {
		r.hooks.OnDraft(ev)
	}
	if failure != nil {
		return "", failure
	}
	return out, nil
}

func (r *Resolver) complete(ctx context.Context, span trace.Span, d *Draft, start time.Time) {
	span.SetAttributes(attribute.String("supportflow.resolution.source", string(d.Source)))
	if d.Provider != "" {
		span.SetAttributes(attribute.String("gen_ai.system", d.Provider))
	}

	ev := &ResolveEvent{
		Source:   d.Source,
		Provider: d.Provider,
		Duration: time.Since(start).Seconds(),
	}
	if d.Severity != nil {
		ev.Priority = d.Severity.Priority.String()
	}
	if r.hooks.OnResolve != nil {
		r.hooks.OnResolve(ev)
	}

	r.logger.Info(ctx, "resolution drafted",
		"resolution_id", d.ID,
		"source", string(d.Source),
		"provider", d.Provider,
		"priority", ev.Priority,
		"duration", ev.Duration,
	)
}
