package estimator

import (
	"context"

	"github.com/yourusername/totals-engine/internal/models"
	"github.com/yourusername/totals-engine/internal/percentile"
	"github.com/yourusername/totals-engine/internal/segments"
)

// DefaultMinSample is the smallest head-to-head sample a ladder segment accepts.
const DefaultMinSample = 5

// LadderSelector walks the rolling segments from narrowest to broadest and
// accepts the first one with enough games. It never blends windows: a thin
// narrow window simply hands off to the next one.
type LadderSelector struct {
	source    ObservationSource
	segments  []segments.Segment
	minSample int
}

// NewLadderSelector creates a ladder over the catalog's rolling segments
func NewLadderSelector(source ObservationSource, minSample int) *LadderSelector {
	if minSample <= 0 {
		minSample = DefaultMinSample
	}
	return &LadderSelector{
		source:    source,
		segments:  segments.Ladder(),
		minSample: minSample,
	}
}

// Name returns the strategy name
func (l *LadderSelector) Name() string {
	return "segment_ladder"
}

// Estimate returns stats for the first qualifying segment, or nil.
func (l *LadderSelector) Estimate(ctx context.Context, in Input) (*Estimate, error) {
	for _, seg := range l.segments {
		window := seg.Window(in.AsOf)
		obs, err := l.source.FetchObservations(ctx, in.Key, window)
		if err != nil {
			return nil, models.NewCollaboratorError("fetch observations "+seg.Key, err)
		}
		obs = window.Filter(obs)
		if len(obs) < l.minSample {
			continue
		}

		stats, err := percentile.Compute(seg.Key, models.Totals(obs))
		if err != nil {
			return nil, err
		}
		return &Estimate{Stats: stats, Observations: obs}, nil
	}
	return nil, nil
}
