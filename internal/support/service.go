package support

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/go-core/xerrors"

	"github.com/linnemanlabs/supportflow/internal/resolution"
	"github.com/linnemanlabs/supportflow/internal/severity"
)

// ErrNoCorpusSource is returned by Retrain when no source is configured.
var ErrNoCorpusSource = errors.New("no corpus source configured")

const notifyTimeout = 15 * time.Second

// Classifier scores complaints and can be retrained.
type Classifier interface {
	Classify(ctx context.Context, text string) (severity.Result, error)
	Retrain(ctx context.Context, examples []severity.Example) error
}

// Resolver drafts resolutions.
type Resolver interface {
	Resolve(ctx context.Context, text string) (*resolution.Draft, error)
}

// CorpusSource supplies labeled examples for retraining.
type CorpusSource interface {
	Examples(ctx context.Context) ([]severity.Example, error)
}

// Escalation is a High-priority complaint handed to a Notifier.
type Escalation struct {
	ID            string
	Text          string
	Severity      severity.Result
	PolicyContext string
	CreatedAt     time.Time
}

// Notifier delivers escalations.
type Notifier interface {
	Notify(ctx context.Context, e *Escalation) error
}

// Hooks are optional callbacks fired by the Service. Nil hooks are skipped.
type Hooks struct {
	// OnEscalate receives "sent" or "failed" per notification attempt.
	OnEscalate func(outcome string)
}

// RetrainResult summarizes a successful retrain.
type RetrainResult struct {
	Examples int `json:"examples"`
}

// Config wires a Service. Source and Notifier are optional.
type Config struct {
	Classifier Classifier
	Resolver   Resolver
	Policies   resolution.PolicyLookup
	Source     CorpusSource
	Notifier   Notifier
	Logger     log.Logger
	Hooks      Hooks
}

// Service is the business boundary for complaint operations.
type Service struct {
	classifier Classifier
	resolver   Resolver
	policies   resolution.PolicyLookup
	source     CorpusSource
	notifier   Notifier
	logger     log.Logger
	hooks      Hooks

	wg sync.WaitGroup
}

// NewService creates a Service. It panics if a required collaborator is missing.
func NewService(c Config) *Service {
	if c.Classifier == nil || c.Resolver == nil || c.Policies == nil {
		panic(xerrors.New("support: classifier, resolver and policies are required"))
	}
	if c.Logger == nil {
		c.Logger = log.Nop()
	}
	return &Service{
		classifier: c.Classifier,
		resolver:   c.Resolver,
		policies:   c.Policies,
		source:     c.Source,
		notifier:   c.Notifier,
		logger:     c.Logger,
		hooks:      c.Hooks,
	}
}

// Classify scores a complaint. High-priority results are escalated in the
// background when a Notifier is configured.
func (s *Service) Classify(ctx context.Context, text string) (severity.Result, error) {
	res, err := s.classifier.Classify(ctx, text)
	if err != nil {
		return severity.Result{}, err
	}

	if res.Priority == severity.High && s.notifier != nil {
		e := &Escalation{
			ID:            ulid.Make().String(),
			Text:          text,
			Severity:      res,
			PolicyContext: s.policies.Lookup(text),
			CreatedAt:     time.Now(),
		}
		s.wg.Add(1)
		// detach from the request so the notification outlives the response
		go s.escalate(context.WithoutCancel(ctx), e)
	}
	return res, nil
}

// Suggest drafts a resolution for a complaint.
func (s *Service) Suggest(ctx context.Context, text string) (*resolution.Draft, error) {
	return s.resolver.Resolve(ctx, text)
}

// Retrain reloads examples from the corpus source and swaps the model.
// On failure the current model keeps serving.
func (s *Service) Retrain(ctx context.Context) (*RetrainResult, error) {
	if s.source == nil {
		return nil, ErrNoCorpusSource
	}

	examples, err := s.source.Examples(ctx)
	if err != nil {
		s.logger.Error(ctx, err, "failed to load retraining corpus")
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	if err := s.classifier.Retrain(ctx, examples); err != nil {
		return nil, err
	}
	return &RetrainResult{Examples: len(examples)}, nil
}

// Wait blocks until in-flight escalations have finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) escalate(ctx context.Context, e *Escalation) {
	defer s.wg.Done()

	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	outcome := "sent"
	if err := s.notifier.Notify(ctx, e); err != nil {
		outcome = "failed"
		s.logger.Error(ctx, err, "escalation notification failed", "escalation_id", e.ID, "score", e.Severity.Score)
	}
	if s.hooks.OnEscalate != nil {
		s.hooks.OnEscalate(outcome)
	}
}
