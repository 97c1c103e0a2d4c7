package models

// Era tags describing a team's multi-year roster trajectory.
const (
	EraStable     = "stable"
	EraTransition = "transition"
	EraRetooling  = "retooling"
	EraRebuild    = "rebuild"
)

// Player is one roster entry as supplied by the roster collaborator.
type Player struct {
	PlayerID        int64  `json:"player_id"`
	Name            string `json:"name,omitempty"`
	Position        string `json:"position"`
	ExperienceYears int    `json:"experience_years"`
}

// RosterSnapshot captures one team's key players for a season.
type RosterSnapshot struct {
	TeamID          int64    `db:"team_id" json:"team_id"`
	SportID         string   `db:"sport_id" json:"sport_id"`
	SeasonYear      int      `db:"season_year" json:"season_year"`
	ContinuityScore *float64 `db:"continuity_score" json:"continuity_score"`
	KeyPlayers      []Player `db:"key_players" json:"key_players"`
	EraTag          string   `db:"era_tag" json:"era_tag"`
	EraStartYear    int      `db:"era_start_year" json:"era_start_year"`
}

// PlayerIDs returns the ids of the snapshot's key players
func (s *RosterSnapshot) PlayerIDs() []int64 {
	ids := make([]int64, len(s.KeyPlayers))
	for i, p := range s.KeyPlayers {
		ids[i] = p.PlayerID
	}
	return ids
}
