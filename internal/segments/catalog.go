// Package segments defines the static historical windows the engine can draw totals from.
package segments

import (
	"fmt"
	"time"

	"github.com/yourusername/totals-engine/internal/models"
)

// Segment keys produced by the engine outside the rolling catalog.
const (
	KeyRecencyWeighted = "recency_weighted"
	KeyHybridForm      = "hybrid_form"
	KeyInsufficient    = models.SegmentInsufficient
)

// Segment is a named historical window. YearsBack nil means all time. Decade
// segments carry an explicit [Start, End) range instead.
type Segment struct {
	Key           string
	YearsBack     *int
	Label         string
	RecencyWeight float64
	Start         time.Time
	End           time.Time
}

// IsDecade checks if the segment is an explicit decade range
func (s Segment) IsDecade() bool {
	return !s.Start.IsZero()
}

// Window returns the observation window for the segment relative to asOf.
// asOf is the exclusive upper bound for rolling segments.
func (s Segment) Window(asOf time.Time) models.Window {
	if s.IsDecade() {
		end := s.End
		if !asOf.IsZero() && asOf.Before(end) {
			end = asOf
		}
		return models.Window{Start: s.Start, End: end}
	}
	w := models.Window{End: asOf}
	if s.YearsBack != nil {
		w.Start = asOf.AddDate(-*s.YearsBack, 0, 0)
	}
	return w
}

func years(n int) *int { return &n }

// rolling is ordered narrowest and most recent first.
var rolling = []Segment{
	{Key: "h2h_1y", YearsBack: years(1), Label: "Last 12 months", RecencyWeight: 1.00},
	{Key: "h2h_3y", YearsBack: years(3), Label: "Last 3 years", RecencyWeight: 0.95},
	{Key: "h2h_5y", YearsBack: years(5), Label: "Last 5 years", RecencyWeight: 0.85},
	{Key: "h2h_10y", YearsBack: years(10), Label: "Last 10 years", RecencyWeight: 0.75},
	{Key: "h2h_20y", YearsBack: years(20), Label: "Last 20 years", RecencyWeight: 0.55},
	{Key: "h2h_all", YearsBack: nil, Label: "All time", RecencyWeight: 0.40},
}

const (
	firstDecade  = 1970
	lastDecade   = 2020
	decadeWeight = 0.30
)

var decades = buildDecades()

func buildDecades() []Segment {
	out := make([]Segment, 0, (lastDecade-firstDecade)/10+1)
	for year := firstDecade; year <= lastDecade; year += 10 {
		out = append(out, Segment{
			Key:           fmt.Sprintf("decade_%ds", year),
			Label:         fmt.Sprintf("%ds", year),
			RecencyWeight: decadeWeight,
			Start:         time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
			End:           time.Date(year+10, time.January, 1, 0, 0, 0, 0, time.UTC),
		})
	}
	return out
}

// Special keys that are not catalog windows but still map to a recency weight.
var derivedWeights = map[string]float64{
	KeyRecencyWeighted: 0.90,
	KeyHybridForm:      0.30,
	KeyInsufficient:    0.10,
}

// Ladder returns the rolling segments in priority order.
func Ladder() []Segment {
	out := make([]Segment, len(rolling))
	copy(out, rolling)
	return out
}

// Decades returns the explicit decade segments, oldest first.
func Decades() []Segment {
	out := make([]Segment, len(decades))
	copy(out, decades)
	return out
}

// All returns the rolling ladder followed by the decades.
func All() []Segment {
	return append(Ladder(), Decades()...)
}

// Lookup finds a catalog segment by key
func Lookup(key string) (Segment, bool) {
	for _, s := range rolling {
		if s.Key == key {
			return s, true
		}
	}
	for _, s := range decades {
		if s.Key == key {
			return s, true
		}
	}
	return Segment{}, false
}

// RecencyWeight returns the weight for any segment key the engine can emit.
// Unknown keys get the insufficient weight.
func RecencyWeight(key string) float64 {
	if s, ok := Lookup(key); ok {
		return s.RecencyWeight
	}
	if w, ok := derivedWeights[key]; ok {
		return w
	}
	return derivedWeights[KeyInsufficient]
}
