package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWindowFilter(t *testing.T) {
	asOf := time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)
	obs := []HistoricalObservation{
		{Total: 1, PlayedAt: asOf, SeasonYear: 2026},
		{Total: 2, PlayedAt: asOf.AddDate(0, -1, 0), SeasonYear: 2026},
		{Total: 3, PlayedAt: asOf.AddDate(-1, 0, 0), SeasonYear: 2025},
		{Total: 4, PlayedAt: asOf.AddDate(-2, 0, 0), SeasonYear: 2024},
	}

	// start inclusive, end exclusive
	w := Window{Start: asOf.AddDate(-1, 0, 0), End: asOf}
	assert.Equal(t, []float64{2, 3}, Totals(w.Filter(obs)))

	seasons := Window{MinSeason: 2025}
	assert.Equal(t, []float64{1, 2, 3}, Totals(seasons.Filter(obs)))

	assert.Len(t, Window{}.Filter(obs), 4)
	assert.Empty(t, w.Filter(nil))
}
