package models

import "time"

// HistoricalObservation is one completed game's combined score. For head-to-head
// history it is a game between the two matchup entities.
type HistoricalObservation struct {
	Total      float64   `db:"total" json:"total"`
	PlayedAt   time.Time `db:"played_at" json:"played_at"`
	SeasonYear int       `db:"season_year" json:"season_year"`
}

// TeamGame is a team's combined score against any opponent, used for recent-form estimates.
type TeamGame struct {
	Total    float64   `db:"total" json:"total"`
	PlayedAt time.Time `db:"played_at" json:"played_at"`
}

// Window restricts an observation query. Zero values leave a bound open.
// Start is inclusive, End is exclusive.
type Window struct {
	Start     time.Time
	End       time.Time
	MinSeason int
}

// Contains reports whether an observation falls inside the window
func (w Window) Contains(obs HistoricalObservation) bool {
	if !w.Start.IsZero() && obs.PlayedAt.Before(w.Start) {
		return false
	}
	if !w.End.IsZero() && !obs.PlayedAt.Before(w.End) {
		return false
	}
	if w.MinSeason > 0 && obs.SeasonYear < w.MinSeason {
		return false
	}
	return true
}

// Filter keeps the observations inside the window, preserving order.
func (w Window) Filter(observations []HistoricalObservation) []HistoricalObservation {
	out := observations[:0:0]
	for _, obs := range observations {
		if w.Contains(obs) {
			out = append(out, obs)
		}
	}
	return out
}

// Totals extracts the totals from a list of observations
func Totals(observations []HistoricalObservation) []float64 {
	totals := make([]float64, len(observations))
	for i, obs := range observations {
		totals[i] = obs.Total
	}
	return totals
}

// HydrationResult reports what a hydration run added to the historical store.
type HydrationResult struct {
	InsertedCount int `json:"inserted_count"`
	TotalCount    int `json:"total_count"`
}

// Game is a stored completed game. Observations are derived from it.
type Game struct {
	SportID         string    `json:"sport_id"`
	HomeTeamID      int64     `json:"home_team_id"`
	AwayTeamID      int64     `json:"away_team_id"`
	HomeFranchiseID *int64    `json:"home_franchise_id,omitempty"`
	AwayFranchiseID *int64    `json:"away_franchise_id,omitempty"`
	HomeScore       int       `json:"home_score"`
	AwayScore       int       `json:"away_score"`
	PlayedAt        time.Time `json:"played_at"`
	SeasonYear      int       `json:"season_year"`
	Status          string    `json:"status"`
}

// GameStatusFinal marks a completed game.
const GameStatusFinal = "final"

// Total returns the combined score
func (g Game) Total() float64 {
	return float64(g.HomeScore + g.AwayScore)
}
