package segments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var asOf = time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)

func TestLadderOrder(t *testing.T) {
	keys := make([]string, 0)
	for _, s := range Ladder() {
		keys = append(keys, s.Key)
	}
	assert.Equal(t, []string{"h2h_1y", "h2h_3y", "h2h_5y", "h2h_10y", "h2h_20y", "h2h_all"}, keys)
}

func TestLadderReturnsCopy(t *testing.T) {
	l := Ladder()
	l[0].Key = "changed"
	assert.Equal(t, "h2h_1y", Ladder()[0].Key)
}

func TestRecencyWeightsDecreaseDownTheLadder(t *testing.T) {
	ladder := Ladder()
	for i := 1; i < len(ladder); i++ {
		assert.Less(t, ladder[i].RecencyWeight, ladder[i-1].RecencyWeight, ladder[i].Key)
	}
}

func TestRollingWindow(t *testing.T) {
	s, ok := Lookup("h2h_3y")
	require.True(t, ok)

	w := s.Window(asOf)
	assert.Equal(t, time.Date(2023, time.March, 15, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, asOf, w.End)
	assert.Zero(t, w.MinSeason)
}

func TestAllTimeWindowHasNoStart(t *testing.T) {
	s, ok := Lookup("h2h_all")
	require.True(t, ok)

	w := s.Window(asOf)
	assert.True(t, w.Start.IsZero())
	assert.Equal(t, asOf, w.End)
}

func TestDecadeWindow(t *testing.T) {
	s, ok := Lookup("decade_1990s")
	require.True(t, ok)
	assert.True(t, s.IsDecade())

	w := s.Window(asOf)
	assert.Equal(t, time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC), w.End)
}

func TestCurrentDecadeIsCappedAtAsOf(t *testing.T) {
	s, ok := Lookup("decade_2020s")
	require.True(t, ok)

	w := s.Window(asOf)
	assert.Equal(t, asOf, w.End)
}

func TestDecades(t *testing.T) {
	d := Decades()
	require.Len(t, d, 6)
	assert.Equal(t, "decade_1970s", d[0].Key)
	assert.Equal(t, "decade_2020s", d[len(d)-1].Key)
	assert.Len(t, All(), len(Ladder())+len(d))
}

func TestRecencyWeight(t *testing.T) {
	tests := []struct {
		key  string
		want float64
	}{
		{"h2h_1y", 1.00},
		{"h2h_all", 0.40},
		{"decade_1980s", 0.30},
		{KeyRecencyWeighted, 0.90},
		{KeyHybridForm, 0.30},
		{KeyInsufficient, 0.10},
		{"unknown", 0.10},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, RecencyWeight(tt.key))
		})
	}
}
