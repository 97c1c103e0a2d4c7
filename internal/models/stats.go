package models

// SegmentStats summarizes the totals distribution of one historical segment.
type SegmentStats struct {
	SegmentKey string  `json:"segment_key"`
	NGames     int     `json:"n_games"`
	P05        float64 `json:"p05"`
	P95        float64 `json:"p95"`
	Median     float64 `json:"median"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
}

// ConfidenceFactors holds the three 0-100 sub-scores behind a confidence value.
type ConfidenceFactors struct {
	SampleSizeScore       float64 `json:"sample_size_score"`
	RecencyScore          float64 `json:"recency_score"`
	RosterContinuityScore float64 `json:"roster_continuity_score"`
}

// ConfidenceResult is the combined confidence score and its label
type ConfidenceResult struct {
	Score   int               `json:"score"`
	Label   string            `json:"label"`
	Factors ConfidenceFactors `json:"factors"`
}
