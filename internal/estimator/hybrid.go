package estimator

import (
	"context"
	"fmt"

	"github.com/yourusername/totals-engine/internal/models"
	"github.com/yourusername/totals-engine/internal/percentile"
	"github.com/yourusername/totals-engine/internal/segments"
)

// Hybrid-form defaults.
const (
	DefaultHybridGameLimit = 20
	DefaultHybridMinGames  = 10
)

// HybridFormEstimator pools each team's recent games against any opponent.
// It is the weakest strategy: the sample says nothing about this matchup.
type HybridFormEstimator struct {
	source    TeamGameSource
	gameLimit int
	minGames  int
}

// NewHybridFormEstimator creates a new hybrid-form strategy
func NewHybridFormEstimator(source TeamGameSource, gameLimit, minGames int) *HybridFormEstimator {
	if gameLimit <= 0 {
		gameLimit = DefaultHybridGameLimit
	}
	if minGames <= 0 {
		minGames = DefaultHybridMinGames
	}
	return &HybridFormEstimator{source: source, gameLimit: gameLimit, minGames: minGames}
}

// Name returns the strategy name
func (h *HybridFormEstimator) Name() string {
	return segments.KeyHybridForm
}

// Estimate returns pooled stats, or nil unless both teams have minGames recent games.
func (h *HybridFormEstimator) Estimate(ctx context.Context, in Input) (*Estimate, error) {
	pooled := make([]float64, 0, 2*h.gameLimit)
	for _, team := range []models.TeamRef{in.TeamA, in.TeamB} {
		games, err := h.source.FetchTeamRecentGames(ctx, team.TeamID, h.gameLimit)
		if err != nil {
			return nil, models.NewCollaboratorError(fmt.Sprintf("fetch recent games team %d", team.TeamID), err)
		}
		if len(games) > h.gameLimit {
			games = games[:h.gameLimit]
		}
		if len(games) < h.minGames {
			return nil, nil
		}
		for _, g := range games {
			pooled = append(pooled, g.Total)
		}
	}

	stats, err := percentile.Compute(segments.KeyHybridForm, pooled)
	if err != nil {
		return nil, err
	}
	return &Estimate{Stats: stats}, nil
}
