package models

import (
	"fmt"
)

// KeyedBy identifies which id space a MatchupKey addresses.
type KeyedBy string

const (
	// KeyedByTeam addresses history by raw team ids
	KeyedByTeam KeyedBy = "team"
	// KeyedByFranchise addresses history by franchise ids, stable across relocations
	KeyedByFranchise KeyedBy = "franchise"
)

// TeamRef identifies one side of a matchup. FranchiseID is nil when the team
// has no franchise mapping.
type TeamRef struct {
	TeamID      int64  `json:"team_id" validate:"required,gt=0"`
	FranchiseID *int64 `json:"franchise_id,omitempty"`
}

// MatchupKey is the canonical, order-independent address of a head-to-head history.
type MatchupKey struct {
	SportID string  `json:"sport_id" validate:"required"`
	LowID   int64   `json:"entity_low_id" validate:"required,gt=0"`
	HighID  int64   `json:"entity_high_id" validate:"required,gt=0"`
	KeyedBy KeyedBy `json:"keyed_by" validate:"oneof=team franchise"`
}

// NewMatchupKey builds the canonical key for two teams. Franchise ids are used
// only when both sides carry distinct ones; otherwise both sides fall back to
// team ids. Two teams sharing a franchise are addressed by team.
func NewMatchupKey(sportID string, a, b TeamRef) (MatchupKey, error) {
	if sportID == "" {
		return MatchupKey{}, fmt.Errorf("%w: sport id is required", ErrInvalidMatchup)
	}
	if a.TeamID <= 0 || b.TeamID <= 0 {
		return MatchupKey{}, fmt.Errorf("%w: team ids must be positive", ErrInvalidMatchup)
	}
	if a.TeamID == b.TeamID {
		return MatchupKey{}, fmt.Errorf("%w: team %d cannot play itself", ErrInvalidMatchup, a.TeamID)
	}

	first, second, keyedBy := a.TeamID, b.TeamID, KeyedByTeam
	if a.FranchiseID != nil && b.FranchiseID != nil &&
		*a.FranchiseID > 0 && *b.FranchiseID > 0 && *a.FranchiseID != *b.FranchiseID {
		first, second, keyedBy = *a.FranchiseID, *b.FranchiseID, KeyedByFranchise
	}

	if first > second {
		first, second = second, first
	}

	return MatchupKey{SportID: sportID, LowID: first, HighID: second, KeyedBy: keyedBy}, nil
}

// IsFranchise reports whether the key addresses franchise history
func (k MatchupKey) IsFranchise() bool {
	return k.KeyedBy == KeyedByFranchise
}

// String returns string representation of the key
func (k MatchupKey) String() string {
	return fmt.Sprintf("%s:%s:%d:%d", k.SportID, k.KeyedBy, k.LowID, k.HighID)
}

// Team is a stored team with its optional franchise.
type Team struct {
	ID          int64  `db:"id" json:"id"`
	SportID     string `db:"sport_id" json:"sport_id"`
	Name        string `db:"name" json:"name"`
	FranchiseID *int64 `db:"franchise_id" json:"franchise_id,omitempty"`
}
