package estimator

import (
	"context"

	"github.com/yourusername/totals-engine/internal/models"
	"github.com/yourusername/totals-engine/internal/percentile"
	"github.com/yourusername/totals-engine/internal/segments"
)

// Recency-weighted defaults.
const (
	DefaultWeightedMinGames = 8
	RecencyLookbackSeasons  = 5
)

// seasonWeights is indexed by seasons ago; anything older uses the last entry.
var seasonWeights = []float64{1.0, 0.9, 0.7, 0.5, 0.3}

// SeasonWeight returns the decay weight for a game played yearDiff seasons ago.
// Future seasons are treated as current.
func SeasonWeight(yearDiff int) float64 {
	if yearDiff < 0 {
		yearDiff = 0
	}
	if yearDiff >= len(seasonWeights) {
		return seasonWeights[len(seasonWeights)-1]
	}
	return seasonWeights[yearDiff]
}

// RecencyWeightedEstimator summarizes up to five seasons of head-to-head
// history with recent seasons weighted more heavily.
type RecencyWeightedEstimator struct {
	source   ObservationSource
	minGames int
}

// NewRecencyWeightedEstimator creates a new recency-weighted strategy
func NewRecencyWeightedEstimator(source ObservationSource, minGames int) *RecencyWeightedEstimator {
	if minGames <= 0 {
		minGames = DefaultWeightedMinGames
	}
	return &RecencyWeightedEstimator{source: source, minGames: minGames}
}

// Name returns the strategy name
func (r *RecencyWeightedEstimator) Name() string {
	return segments.KeyRecencyWeighted
}

// Estimate returns weighted stats, or nil when fewer than minGames observations exist.
func (r *RecencyWeightedEstimator) Estimate(ctx context.Context, in Input) (*Estimate, error) {
	currentYear := in.AsOf.Year()
	window := models.Window{End: in.AsOf, MinSeason: currentYear - RecencyLookbackSeasons}

	obs, err := r.source.FetchObservations(ctx, in.Key, window)
	if err != nil {
		return nil, models.NewCollaboratorError("fetch observations "+segments.KeyRecencyWeighted, err)
	}
	obs = window.Filter(obs)
	if len(obs) < r.minGames {
		return nil, nil
	}

	values := make([]percentile.WeightedValue, len(obs))
	for i, o := range obs {
		values[i] = percentile.WeightedValue{
			Value:  o.Total,
			Weight: SeasonWeight(currentYear - o.SeasonYear),
		}
	}

	stats, err := percentile.ComputeWeighted(segments.KeyRecencyWeighted, values)
	if err != nil {
		return nil, err
	}
	return &Estimate{Stats: stats, Observations: obs}, nil
}
