// Package pgcorpus reads labeled training examples from the complaints
// table of the surrounding support application.
package pgcorpus

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linnemanlabs/go-core/log"

	"github.com/linnemanlabs/supportflow/internal/severity"
)

var tracer = otel.Tracer("github.com/linnemanlabs/supportflow/internal/corpus/pgcorpus")

// DefaultTable is the table read when Options.Table is empty.
const DefaultTable = "complaints"

// Options select which rows become examples.
type Options struct {
	// Table holding description and priority columns.
	Table string
	// ResolvedOnly restricts the corpus to complaints with status 'Resolved',
	// whose priority has been reviewed by an agent.
	ResolvedOnly bool
	// Limit caps the number of rows, newest first. Zero means no limit.
	Limit int
}

// Source reads labeled examples from PostgreSQL for retraining.
type Source struct {
	pool   *pgxpool.Pool
	opts   Options
	logger log.Logger
}

// New creates a Source over an existing pool. The caller owns the pool.
func New(pool *pgxpool.Pool, opts Options, logger log.Logger) *Source {
	if opts.Table == "" {
		opts.Table = DefaultTable
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &Source{pool: pool, opts: opts, logger: logger}
}

// Query returns the SQL statement used by Examples.
func (s *Source) Query() string {
	var b strings.Builder
	b.WriteString("SELECT description, priority FROM ")
	b.WriteString(pgx.Identifier{s.opts.Table}.Sanitize())
	b.WriteString(" WHERE btrim(description) <> ''")
	if s.opts.ResolvedOnly {
		b.WriteString(" AND status = 'Resolved'")
	}
	b.WriteString(" ORDER BY created_at DESC, id DESC")
	if s.opts.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", s.opts.Limit)
	}
	return b.String()
}

// Examples reads every labeled complaint. Rows with an unknown priority
// are skipped; an empty result is an error.
func (s *Source) Examples(ctx context.Context) ([]severity.Example, error) {
	ctx, span := tracer.Start(ctx, "pgcorpus.Examples", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
		attribute.String("db.collection.name", s.opts.Table),
	))
	defer span.End()

	out, skipped, err := s.read(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("supportflow.corpus.examples", len(out)),
		attribute.Int("supportflow.corpus.skipped", skipped),
	)

	if skipped > 0 {
		s.logger.Warn(ctx, "skipped complaints with unknown priority", "table", s.opts.Table, "skipped", skipped)
	}
	if len(out) == 0 {
		err := fmt.Errorf("table %s has no labeled complaints", s.opts.Table)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return out, nil
}

func (s *Source) read(ctx context.Context) ([]severity.Example, int, error) {
	rows, err := s.pool.Query(ctx, s.Query())
	if err != nil {
		return nil, 0, fmt.Errorf("query complaints: %w", err)
	}
	defer rows.Close()

	var (
		out     []severity.Example
		skipped int
	)
	for rows.Next() {
		var text, priority string
		if err := rows.Scan(&text, &priority); err != nil {
			return nil, 0, fmt.Errorf("scan complaint: %w", err)
		}
		tier, err := severity.ParseTier(priority)
		if err != nil {
			skipped++
			continue
		}
		out = append(out, severity.Example{Text: text, Tier: tier})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate complaints: %w", err)
	}
	return out, skipped, nil
}
