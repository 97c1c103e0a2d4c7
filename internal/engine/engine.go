// Package engine orchestrates a single matchup computation: it runs the
// estimation strategies in priority order, falls back to one hydration
// attempt, and attaches a confidence score to whatever estimate wins.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/totals-engine/internal/confidence"
	"github.com/yourusername/totals-engine/internal/estimator"
	"github.com/yourusername/totals-engine/internal/logger"
	"github.com/yourusername/totals-engine/internal/metrics"
	"github.com/yourusername/totals-engine/internal/models"
	"github.com/yourusername/totals-engine/internal/percentile"
	"github.com/yourusername/totals-engine/internal/roster"
	"github.com/yourusername/totals-engine/internal/segments"
)

// Hydrator asks an external fetcher to backfill history for a matchup.
type Hydrator interface {
	TriggerHydration(ctx context.Context, key models.MatchupKey, yearsBack int) (models.HydrationResult, error)
}

// Hydration outcomes used for metrics
const (
	HydrationInserted = "inserted"
	HydrationEmpty    = "empty"
	HydrationFailed   = "failed"
	HydrationTimeout  = "timeout"
)

// Options tunes strategy thresholds and hydration.
type Options struct {
	EnableRecencyWeighted bool
	MinSample             int
	WeightedMinGames      int
	HybridGameLimit       int
	HybridMinGames        int
	HydrationYearsBack    int
	HydrationTimeout      time.Duration
}

// DefaultOptions returns the production thresholds.
func DefaultOptions() Options {
	return Options{
		EnableRecencyWeighted: false,
		MinSample:             estimator.DefaultMinSample,
		WeightedMinGames:      estimator.DefaultWeightedMinGames,
		HybridGameLimit:       estimator.DefaultHybridGameLimit,
		HybridMinGames:        estimator.DefaultHybridMinGames,
		HydrationYearsBack:    10,
		HydrationTimeout:      30 * time.Second,
	}
}

// Request identifies one matchup to compute. AsOf anchors every time window
// so repeated computations over the same data give the same answer.
type Request struct {
	SportID string
	TeamA   models.TeamRef
	TeamB   models.TeamRef
	AsOf    time.Time
}

// key validates the request and builds its canonical matchup key. A zero AsOf
// would turn every rolling window into all-time history.
func (r Request) key() (models.MatchupKey, error) {
	if r.AsOf.IsZero() {
		return models.MatchupKey{}, fmt.Errorf("%w: as_of is required", models.ErrInvalidMatchup)
	}
	return models.NewMatchupKey(r.SportID, r.TeamA, r.TeamB)
}

// Engine computes percentile estimates for matchups. It holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	observations estimator.ObservationSource
	pipeline     *estimator.Pipeline
	rosters      *roster.Tracker
	hydrator     Hydrator
	opts         Options
	log          *logger.EngineLogger
	audit        *logger.AuditLogger
}

// New creates a new engine. rosterSource and hydrator may be nil.
func New(
	observations estimator.ObservationSource,
	teamGames estimator.TeamGameSource,
	rosterSource roster.Source,
	hydrator Hydrator,
	opts Options,
	log *logrus.Logger,
) *Engine {
	if log == nil {
		log = logger.Discard()
	}

	var weighted estimator.Strategy
	if opts.EnableRecencyWeighted {
		weighted = estimator.NewRecencyWeightedEstimator(observations, opts.WeightedMinGames)
	}
	var hybrid estimator.Strategy
	if teamGames != nil {
		hybrid = estimator.NewHybridFormEstimator(teamGames, opts.HybridGameLimit, opts.HybridMinGames)
	}

	var tracker *roster.Tracker
	if rosterSource != nil {
		tracker = roster.NewTracker(rosterSource)
	}

	return &Engine{
		observations: observations,
		pipeline: estimator.NewPipeline(
			weighted,
			estimator.NewLadderSelector(observations, opts.MinSample),
			hybrid,
		),
		rosters:  tracker,
		hydrator: hydrator,
		opts:     opts,
		log:      logger.NewEngineLogger(log),
		audit:    logger.NewAuditLogger(log),
	}
}

// Strategies returns the strategy names in the order they are tried.
func (e *Engine) Strategies() []string {
	return e.pipeline.Strategies()
}

// Compute returns the estimate for a matchup. When a collaborator or the
// hydration attempt fails, the insufficient result is returned together with
// the error so callers can still render something.
func (e *Engine) Compute(ctx context.Context, req Request) (*models.Result, error) {
	started := time.Now()

	key, err := req.key()
	if err != nil {
		return models.InsufficientResult(), err
	}
	in := estimator.Input{Key: key, TeamA: req.TeamA, TeamB: req.TeamB, AsOf: req.AsOf}

	est, err := e.runStrategies(ctx, in)
	if err != nil {
		return e.fail(key, err)
	}

	hydrated := false
	if est == nil && e.hydrator != nil {
		hydrated = true
		inserted, err := e.hydrate(ctx, key)
		if err != nil {
			e.log.LogInsufficient(key.String(), e.Strategies(), hydrated)
			return models.InsufficientResult(), err
		}
		if inserted > 0 {
			est, err = e.runStrategies(ctx, in)
			if err != nil {
				return e.fail(key, err)
			}
		}
	}

	if est == nil {
		e.log.LogInsufficient(key.String(), e.Strategies(), hydrated)
		result := models.InsufficientResult()
		metrics.RecordComputation(result.SegmentUsed, 0, time.Since(started).Seconds())
		return result, nil
	}

	conf, err := e.score(ctx, req, est)
	if err != nil {
		return e.fail(key, err)
	}

	result := models.NewResult(est.Stats, conf)
	elapsed := time.Since(started)
	metrics.RecordComputation(result.SegmentUsed, conf.Score, elapsed.Seconds())
	metrics.RecordSampleSize(result.SegmentUsed, result.NUsed)
	e.log.LogSegmentSelected(key.String(), result.SegmentUsed, result.NUsed, conf.Score, conf.Label,
		float64(elapsed.Microseconds())/1000)
	return result, nil
}

func (e *Engine) runStrategies(ctx context.Context, in estimator.Input) (*estimator.Estimate, error) {
	est, attempts, err := e.pipeline.Run(ctx, in)
	for _, a := range attempts {
		outcome := metrics.OutcomeInsufficient
		switch {
		case a.Err != nil:
			outcome = metrics.OutcomeError
		case a.Found:
			outcome = metrics.OutcomeFound
		}
		metrics.RecordStrategyAttempt(a.Strategy, outcome)
		e.log.LogStrategyAttempt(in.Key.String(), a.Strategy, outcome)
	}
	return est, err
}

// hydrate makes the single hydration attempt, bounded by the configured timeout.
func (e *Engine) hydrate(ctx context.Context, key models.MatchupKey) (int, error) {
	hctx := ctx
	if e.opts.HydrationTimeout > 0 {
		var cancel context.CancelFunc
		hctx, cancel = context.WithTimeout(ctx, e.opts.HydrationTimeout)
		defer cancel()
	}

	yearsBack := e.opts.HydrationYearsBack
	started := time.Now()
	res, err := e.hydrator.TriggerHydration(hctx, key, yearsBack)
	if err != nil {
		outcome := HydrationFailed
		if errors.Is(err, context.DeadlineExceeded) {
			outcome = HydrationTimeout
		}
		metrics.RecordHydration(outcome, 0)
		e.audit.LogHydrationFailure(key.String(), yearsBack, err)
		return 0, fmt.Errorf("%w: %s: %w", models.ErrHydration, key, models.NewCollaboratorError("trigger hydration", err))
	}

	outcome := HydrationEmpty
	if res.InsertedCount > 0 {
		outcome = HydrationInserted
	}
	metrics.RecordHydration(outcome, res.InsertedCount)
	e.audit.LogHydration(key.String(), yearsBack, res.InsertedCount, res.TotalCount,
		float64(time.Since(started).Microseconds())/1000)
	return res.InsertedCount, nil
}

func (e *Engine) score(ctx context.Context, req Request, est *estimator.Estimate) (models.ConfidenceResult, error) {
	in := confidence.Input{
		SegmentUsed: est.SegmentUsed(),
		NGames:      est.Stats.NGames,
	}
	if est.Observations != nil {
		buckets := confidence.BucketObservations(est.Observations, req.AsOf)
		in.Buckets = &buckets
	}

	var err error
	in.ContinuityTeamA, err = e.rosters.LatestContinuity(ctx, req.TeamA.TeamID, req.SportID)
	if err != nil {
		return models.ConfidenceResult{}, err
	}
	in.ContinuityTeamB, err = e.rosters.LatestContinuity(ctx, req.TeamB.TeamID, req.SportID)
	if err != nil {
		return models.ConfidenceResult{}, err
	}

	return confidence.Score(in), nil
}

func (e *Engine) fail(key models.MatchupKey, err error) (*models.Result, error) {
	var collab *models.CollaboratorError
	if errors.As(err, &collab) {
		metrics.RecordCollaboratorError(collab.Op)
		e.log.LogCollaboratorFailure(key.String(), collab.Op, collab.Err)
	}
	return models.InsufficientResult(), fmt.Errorf("failed to compute %s: %w", key, err)
}

// Breakdown returns stats for every catalog segment, rolling and decade,
// whose sample reaches the minimum size. Segments are returned in catalog order.
func (e *Engine) Breakdown(ctx context.Context, req Request) ([]models.SegmentStats, error) {
	key, err := req.key()
	if err != nil {
		return nil, err
	}

	minSample := e.opts.MinSample
	if minSample <= 0 {
		minSample = estimator.DefaultMinSample
	}

	out := make([]models.SegmentStats, 0)
	for _, seg := range segments.All() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		window := seg.Window(req.AsOf)
		obs, err := e.observations.FetchObservations(ctx, key, window)
		if err != nil {
			return nil, models.NewCollaboratorError("fetch observations "+seg.Key, err)
		}
		obs = window.Filter(obs)
		if len(obs) < minSample {
			continue
		}
		stats, err := percentile.Compute(seg.Key, models.Totals(obs))
		if err != nil {
			return nil, err
		}
		out = append(out, stats)
	}
	return out, nil
}
