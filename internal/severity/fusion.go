package severity

import "math"

// keywordBoost is the confidence floor applied when the rule matcher
// outranks the statistical model.
const keywordBoost = 0.85

// Result is the fused severity decision for one complaint.
type Result struct {
	Score    int    `json:"score"`
	Priority Tier   `json:"priority"`
	SLA      string `json:"sla"`
}

// scoreBand is the closed score range and confidence multiplier of a tier.
type scoreBand struct {
	min, max int
	factor   float64
}

var bands = map[Tier]scoreBand{
	High:   {min: 8, max: 10, factor: 2},
	Medium: {min: 5, max: 7, factor: 2},
	Low:    {min: 1, max: 4, factor: 3},
}

// ScoreRange returns the closed score range for tier.
func ScoreRange(t Tier) (lo, hi int) {
	b := bands[clampTier(t)]
	return b.min, b.max
}

// Fuse combines the statistical prediction with the keyword tier. The final
// tier is the more severe of the two; when the keyword tier is higher the
// confidence is raised to at least 0.85.
func Fuse(statTier Tier, statConfidence float64, keywordTier Tier) Result {
	statTier = clampTier(statTier)
	keywordTier = clampTier(keywordTier)

	final := max(statTier, keywordTier)
	confidence := clamp01(statConfidence)
	if keywordTier > statTier {
		confidence = max(confidence, keywordBoost)
	}

	b := bands[final]
	score := b.min + int(math.Floor(confidence*b.factor))
	score = min(max(score, b.min), b.max)

	return Result{
		Score:    score,
		Priority: final,
		SLA:      final.SLA(),
	}
}

func clamp01(f float64) float64 {
	if math.IsNaN(f) || f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func clampTier(t Tier) Tier {
	return min(max(t, Low), High)
}
