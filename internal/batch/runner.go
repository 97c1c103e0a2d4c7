// Package batch computes many matchups concurrently with a bounded number of
// workers, resolving franchise identities and optionally persisting results.
package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/totals-engine/internal/engine"
	"github.com/yourusername/totals-engine/internal/metrics"
	"github.com/yourusername/totals-engine/internal/models"
)

// Matchup is one line of batch input.
type Matchup struct {
	SportID string     `json:"sport_id" validate:"required"`
	TeamA   int64      `json:"team_a" validate:"required,gt=0"`
	TeamB   int64      `json:"team_b" validate:"required,gt=0,nefield=TeamA"`
	AsOf    *time.Time `json:"as_of,omitempty"`
}

// ReadMatchups decodes and validates a JSON array of matchups.
func ReadMatchups(r io.Reader) ([]Matchup, error) {
	var matchups []Matchup
	if err := json.NewDecoder(r).Decode(&matchups); err != nil {
		return nil, fmt.Errorf("failed to decode matchups: %w", err)
	}

	v := validator.New()
	for i := range matchups {
		if err := v.Struct(matchups[i]); err != nil {
			return nil, fmt.Errorf("matchup %d is invalid: %w", i, err)
		}
	}
	return matchups, nil
}

// Computer computes one matchup.
type Computer interface {
	Compute(ctx context.Context, req engine.Request) (*models.Result, error)
}

// PairResolver fills in franchise ids for both sides of a matchup.
type PairResolver interface {
	ResolvePair(ctx context.Context, sportID string, a, b models.TeamRef) (models.TeamRef, models.TeamRef, error)
}

// ResultStore persists computed results.
type ResultStore interface {
	Save(ctx context.Context, key models.MatchupKey, asOf time.Time, result *models.Result) (uuid.UUID, error)
}

// Outcome is the result of one batch entry.
type Outcome struct {
	Matchup  Matchup        `json:"matchup"`
	Result   *models.Result `json:"result,omitempty"`
	ResultID *uuid.UUID     `json:"result_id,omitempty"`
	Error    string         `json:"error,omitempty"`

	err error
}

// Err returns the failure for this entry, if any.
func (o Outcome) Err() error {
	return o.err
}

// Options tunes a batch run.
type Options struct {
	Concurrency     int
	ComputeTimeout  time.Duration
	ContinueOnError bool
	// Progress is called after every entry with running totals.
	Progress func(completed, failed, total int64)
}

// Runner executes batches.
type Runner struct {
	computer Computer
	resolver PairResolver
	store    ResultStore
	opts     Options
	log      *logrus.Entry
}

// NewRunner creates a batch runner. resolver and store may be nil.
func NewRunner(computer Computer, resolver PairResolver, store ResultStore, opts Options, log *logrus.Logger) *Runner {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &Runner{
		computer: computer,
		resolver: resolver,
		store:    store,
		opts:     opts,
		log:      log.WithField("component", "batch"),
	}
}

// Run computes every matchup, using defaultAsOf where an entry has none.
// Outcomes are returned in input order. Unless ContinueOnError is set, the
// first failure cancels the remaining work and is returned.
func (r *Runner) Run(ctx context.Context, matchups []Matchup, defaultAsOf time.Time) ([]Outcome, error) {
	outcomes := make([]Outcome, len(matchups))
	total := int64(len(matchups))
	var completed, failed, inFlight int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)

	for i, m := range matchups {
		i, m := i, m
		g.Go(func() error {
			metrics.UpdateBatchInFlight(float64(atomic.AddInt64(&inFlight, 1)))
			defer func() { metrics.UpdateBatchInFlight(float64(atomic.AddInt64(&inFlight, -1))) }()

			outcome := r.runOne(gctx, m, defaultAsOf)
			outcomes[i] = outcome

			done := atomic.AddInt64(&completed, 1)
			bad := atomic.LoadInt64(&failed)
			if outcome.err != nil {
				bad = atomic.AddInt64(&failed, 1)
			}
			if r.opts.Progress != nil {
				r.opts.Progress(done, bad, total)
			}

			if outcome.err != nil && !r.opts.ContinueOnError {
				return fmt.Errorf("matchup %s %d-%d: %w", m.SportID, m.TeamA, m.TeamB, outcome.err)
			}
			return nil
		})
	}

	err := g.Wait()
	r.log.WithFields(logrus.Fields{
		"total":     total,
		"completed": atomic.LoadInt64(&completed),
		"failed":    atomic.LoadInt64(&failed),
	}).Info("Batch finished")
	return outcomes, err
}

func (r *Runner) runOne(ctx context.Context, m Matchup, defaultAsOf time.Time) Outcome {
	out := Outcome{Matchup: m}
	fail := func(err error) Outcome {
		out.err = err
		out.Error = err.Error()
		return out
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	asOf := defaultAsOf
	if m.AsOf != nil {
		asOf = *m.AsOf
	}

	a, b := models.TeamRef{TeamID: m.TeamA}, models.TeamRef{TeamID: m.TeamB}
	if r.resolver != nil {
		var err error
		if a, b, err = r.resolver.ResolvePair(ctx, m.SportID, a, b); err != nil {
			return fail(err)
		}
	}

	cctx := ctx
	if r.opts.ComputeTimeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, r.opts.ComputeTimeout)
		defer cancel()
	}

	result, err := r.computer.Compute(cctx, engine.Request{SportID: m.SportID, TeamA: a, TeamB: b, AsOf: asOf})
	out.Result = result
	if err != nil {
		return fail(err)
	}

	if r.store != nil {
		key, err := models.NewMatchupKey(m.SportID, a, b)
		if err != nil {
			return fail(err)
		}
		id, err := r.store.Save(ctx, key, asOf, result)
		if err != nil {
			return fail(models.NewCollaboratorError("save result", err))
		}
		out.ResultID = &id
	}
	return out
}
