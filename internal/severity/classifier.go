package severity

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/go-core/xerrors"
)

// Hooks are optional callbacks fired by the Classifier. Nil hooks are skipped.
type Hooks struct {
	OnClassify func(e *ClassifyEvent)
	OnTrain    func(e *TrainEvent)
}

// ClassifyEvent describes one classification.
type ClassifyEvent struct {
	Result      Result
	Statistical Tier
	Confidence  float64
	Keyword     Tier
	// Overridden is set when the keyword tier outranked the model.
	Overridden bool
}

// TrainEvent describes one training attempt.
type TrainEvent struct {
	Phase      string // "initialize" or "retrain"
	Examples   int
	Vocabulary int
	Classes    int
	Duration   float64
	Err        error
}

// Classifier is the hybrid severity classifier. The trained model is
// published through an atomic pointer so reads never lock; training and
// retraining are serialized and swap in a fresh model when done.
type Classifier struct {
	matcher RuleMatcher
	logger  log.Logger
	hooks   Hooks

	model atomic.Pointer[Model]

	mu       sync.Mutex // serializes training and guards the fields below
	corpus   []Example
	initDone bool
	initErr  error
}

// NewClassifier creates an untrained Classifier over corpus. Call Initialize
// before serving; Classify trains lazily if that was skipped.
func NewClassifier(matcher RuleMatcher, corpus []Example, logger log.Logger, hooks Hooks) *Classifier {
	if matcher == nil {
		panic(xerrors.New("severity rule matcher is required"))
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &Classifier{
		matcher: matcher,
		logger:  logger,
		hooks:   hooks,
		corpus:  append([]Example(nil), corpus...),
	}
}

// Initialize trains the model on the startup corpus. Only the first call
// trains; later calls return the first outcome.
func (c *Classifier) Initialize(ctx context.Context) error {
	if c.model.Load() != nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.model.Load() != nil {
		return nil
	}
	if c.initDone {
		return c.initErr
	}

	m, err := c.train(ctx, "initialize", c.corpus)
	c.initDone = true
	if err != nil {
		c.initErr = err
		return err
	}
	c.model.Store(m)
	return nil
}

// Retrain builds a model from examples and swaps it in. On failure the
// current model stays in place.
func (c *Classifier) Retrain(ctx context.Context, examples []Example) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, err := c.train(ctx, "retrain", examples)
	if err != nil {
		return err
	}
	c.corpus = append([]Example(nil), examples...)
	c.initDone = true
	c.initErr = nil
	c.model.Store(m)
	return nil
}

// Model returns the current model, or nil before training.
func (c *Classifier) Model() *Model {
	return c.model.Load()
}

// Classify scores text. It only fails when no model exists and training
// the startup corpus fails.
func (c *Classifier) Classify(ctx context.Context, text string) (Result, error) {
	m := c.model.Load()
	if m == nil {
		if err := c.Initialize(ctx); err != nil {
			return Result{}, fmt.Errorf("%w: %w", ErrNotTrained, err)
		}
		m = c.model.Load()
	}

	statTier, confidence := m.Classify(text)
	keywordTier := c.matcher.Match(text)
	res := Fuse(statTier, confidence, keywordTier)

	if c.hooks.OnClassify != nil {
		c.hooks.OnClassify(&ClassifyEvent{
			Result:      res,
			Statistical: statTier,
			Confidence:  confidence,
			Keyword:     keywordTier,
			Overridden:  keywordTier > statTier,
		})
	}
	return res, nil
}

func (c *Classifier) train(ctx context.Context, phase string, examples []Example) (*Model, error) {
	start := time.Now()
	m, err := Train(examples)
	dur := time.Since(start).Seconds()

	ev := &TrainEvent{Phase: phase, Examples: len(examples), Duration: dur, Err: err}
	if err != nil {
		c.logger.Error(ctx, err, "severity model training failed", "phase", phase, "examples", len(examples))
	} else {
		ev.Vocabulary = m.VocabularySize()
		ev.Classes = len(m.classes)
		c.logger.Info(ctx, "severity model trained",
			"phase", phase,
			"examples", ev.Examples,
			"vocabulary", ev.Vocabulary,
			"classes", ev.Classes,
			"duration", dur,
		)
	}
	if c.hooks.OnTrain != nil {
		c.hooks.OnTrain(ev)
	}
	return m, err
}
