package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/linnemanlabs/go-core/log"

	sc "github.com/linnemanlabs/supportflow/internal/cfg"
	"github.com/linnemanlabs/supportflow/internal/corpus"
	"github.com/linnemanlabs/supportflow/internal/corpus/pgcorpus"
	"github.com/linnemanlabs/supportflow/internal/llm/claude"
	"github.com/linnemanlabs/supportflow/internal/llm/openrouter"
	"github.com/linnemanlabs/supportflow/internal/postgres"
	"github.com/linnemanlabs/supportflow/internal/resolution"
	"github.com/linnemanlabs/supportflow/internal/support"
)

// loadBundle reads the corpus file, or the embedded bundle when unset.
func loadBundle(appCfg *sc.Config) (*corpus.Bundle, error) {
	if appCfg.CorpusFile == "" {
		return corpus.Default(), nil
	}
	return corpus.LoadFile(appCfg.CorpusFile)
}

// newDrafter returns the configured generative drafter, or nil when
// drafting is disabled and only the local template is used.
func newDrafter(appCfg *sc.Config) resolution.Drafter {
	switch appCfg.Drafter() {
	case sc.ProviderClaude:
		return claude.New(appCfg.ClaudeAPIKey, appCfg.ClaudeModel)
	case sc.ProviderOpenRouter:
		return openrouter.New(appCfg.OpenRouterAPIKey, appCfg.OpenRouterModel, appCfg.OpenRouterBaseURL)
	default:
		return nil
	}
}

// newCorpusSource picks where Retrain reloads examples from: the complaints
// table when a database is configured, else the corpus file, else nothing.
// The returned close func is never nil.
func newCorpusSource(ctx context.Context, appCfg *sc.Config, reg prometheus.Registerer, L log.Logger) (support.CorpusSource, func(), error) {
	switch {
	case appCfg.DatabaseURL != "":
		pool, err := newPool(ctx, appCfg.DatabaseURL, reg)
		if err != nil {
			return nil, func() {}, fmt.Errorf("postgres pool: %w", err)
		}
		src := pgcorpus.New(pool, pgcorpus.Options{
			Table:        appCfg.CorpusTable,
			ResolvedOnly: appCfg.CorpusResolvedOnly,
			Limit:        appCfg.CorpusLimit,
		}, L)
		L.Info(ctx, "retrain corpus source", "type", "postgres", "table", appCfg.CorpusTable)
		return src, pool.Close, nil
	case appCfg.CorpusFile != "":
		L.Info(ctx, "retrain corpus source", "type", "file", "path", appCfg.CorpusFile)
		return corpus.FileSource{Path: appCfg.CorpusFile}, func() {}, nil
	default:
		L.Info(ctx, "retrain disabled (no database-url or corpus-file configured)")
		return nil, func() {}, nil
	}
}

// newPool opens the corpus database with a per-query duration histogram.
func newPool(ctx context.Context, databaseURL string, reg prometheus.Registerer) (*pgxpool.Pool, error) {
	dbQueryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "supportflow_db_query_duration_seconds",
		Help:    "Duration of individual database queries.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "route", "outcome"})
	reg.MustRegister(dbQueryDuration)

	return postgres.NewPool(ctx, databaseURL, postgres.Options{
		MaxConns: 4,
		Observer: postgres.QueryObserverFunc(
			func(_ context.Context, operation, route, outcome string, dur time.Duration) {
				dbQueryDuration.WithLabelValues(operation, route, outcome).Observe(dur.Seconds())
			},
		),
	})
}
