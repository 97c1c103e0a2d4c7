package roster

import (
	"sort"
	"strings"

	"github.com/yourusername/totals-engine/internal/models"
)

// KeyPlayerCount is the number of players tracked per team and season.
const KeyPlayerCount = 5

// keyPositions lists the positions that drive scoring in each sport.
var keyPositions = map[string]map[string]bool{
	"nfl":   set("QB", "RB", "WR", "TE", "CB", "S"),
	"ncaaf": set("QB", "RB", "WR", "TE", "CB", "S"),
	"nba":   set("PG", "SG", "SF", "PF", "C", "G", "F"),
	"wnba":  set("PG", "SG", "SF", "PF", "C", "G", "F"),
	"ncaab": set("PG", "SG", "SF", "PF", "C", "G", "F"),
	"nhl":   set("C", "LW", "RW", "D", "G"),
	"mlb":   set("SP", "C", "1B", "SS", "CF", "DH"),
	"mls":   set("ST", "FW", "AM", "GK"),
}

func set(values ...string) map[string]bool {
	out := make(map[string]bool, len(values))
	for _, v := range values {
		out[v] = true
	}
	return out
}

// IsKeyPosition reports whether a position counts as key for the sport
func IsKeyPosition(sportID, position string) bool {
	positions, ok := keyPositions[strings.ToLower(sportID)]
	if !ok {
		return false
	}
	return positions[strings.ToUpper(position)]
}

// KeyPlayers picks the five most experienced players at the sport's key
// positions, padding with the most experienced remaining players when fewer
// than five key-position players exist. Ties go to the lower player id.
func KeyPlayers(sportID string, players []models.Player) []models.Player {
	ranked := make([]models.Player, 0, len(players))
	seen := make(map[int64]bool, len(players))
	for _, p := range players {
		if seen[p.PlayerID] {
			continue
		}
		seen[p.PlayerID] = true
		ranked = append(ranked, p)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].ExperienceYears != ranked[j].ExperienceYears {
			return ranked[i].ExperienceYears > ranked[j].ExperienceYears
		}
		return ranked[i].PlayerID < ranked[j].PlayerID
	})

	selected := make([]models.Player, 0, KeyPlayerCount)
	rest := make([]models.Player, 0, len(ranked))
	for _, p := range ranked {
		if len(selected) < KeyPlayerCount && IsKeyPosition(sportID, p.Position) {
			selected = append(selected, p)
			continue
		}
		rest = append(rest, p)
	}
	for _, p := range rest {
		if len(selected) >= KeyPlayerCount {
			break
		}
		selected = append(selected, p)
	}
	return selected
}
