package severity

import (
	"math"
	"testing"
)

func TestFuse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		stat       Tier
		confidence float64
		keyword    Tier
		wantScore  int
		wantTier   Tier
	}{
		{"high full confidence", High, 1.0, High, 10, High},
		{"high low confidence", High, 0.2, Low, 8, High},
		{"high mid confidence", High, 0.5, Medium, 9, High},
		{"medium half", Medium, 0.5, Medium, 6, Medium},
		{"medium full", Medium, 1.0, Low, 7, Medium},
		{"low zero", Low, 0.0, Low, 1, Low},
		{"low near one", Low, 0.99, Low, 3, Low},
		{"low full", Low, 1.0, Low, 4, Low},
		{"keyword lifts low to high with boost", Low, 0.2, High, 9, High},
		{"keyword lifts low to medium with boost", Low, 0.3, Medium, 6, Medium},
		{"keyword lifts medium to high keeps higher confidence", Medium, 0.99, High, 9, High},
		{"keyword lifts with full confidence", Medium, 1.0, High, 10, High},
		{"no boost when model is higher", High, 0.1, Medium, 8, High},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Fuse(tt.stat, tt.confidence, tt.keyword)
			if got.Score != tt.wantScore {
				t.Errorf("Score = %d, want %d", got.Score, tt.wantScore)
			}
			if got.Priority != tt.wantTier {
				t.Errorf("Priority = %v, want %v", got.Priority, tt.wantTier)
			}
			if got.SLA != tt.wantTier.SLA() {
				t.Errorf("SLA = %q, want %q", got.SLA, tt.wantTier.SLA())
			}
		})
	}
}

func TestFuse_ScoreAlwaysInTierRange(t *testing.T) {
	t.Parallel()

	confidences := []float64{-1, 0, 1e-9, 0.25, 0.333, 0.4999, 0.5, 0.6667, 0.85, 0.9999, 1, 1.5, math.NaN(), math.Inf(1)}
	for i := 0; i <= 1000; i++ {
		confidences = append(confidences, float64(i)/1000)
	}

	for _, stat := range []Tier{Low, Medium, High} {
		for _, kw := range []Tier{Low, Medium, High} {
			for _, c := range confidences {
				got := Fuse(stat, c, kw)
				lo, hi := ScoreRange(got.Priority)
				if got.Score < lo || got.Score > hi {
					t.Fatalf("Fuse(%v, %v, %v) score %d outside [%d,%d]", stat, c, kw, got.Score, lo, hi)
				}
			}
		}
	}
}

func TestFuse_MonotonicInKeywordTier(t *testing.T) {
	t.Parallel()

	for _, stat := range []Tier{Low, Medium, High} {
		for i := 0; i <= 100; i++ {
			c := float64(i) / 100
			prev := Fuse(stat, c, Low)
			for _, kw := range []Tier{Medium, High} {
				got := Fuse(stat, c, kw)
				if got.Priority < prev.Priority {
					t.Fatalf("Fuse(%v, %v, %v) tier %v < tier %v for lower keyword tier", stat, c, kw, got.Priority, prev.Priority)
				}
				if got.Score < prev.Score {
					t.Fatalf("Fuse(%v, %v, %v) score %d < %d for lower keyword tier", stat, c, kw, got.Score, prev.Score)
				}
				prev = got
			}
		}
	}
}

func TestFuse_ClampsOutOfRangeTiers(t *testing.T) {
	t.Parallel()

	got := Fuse(Tier(9), 0.5, Tier(-3))
	if got.Priority != High {
		t.Errorf("Priority = %v, want High", got.Priority)
	}
	got = Fuse(Tier(-1), 0.5, Tier(-1))
	if got.Priority != Low {
		t.Errorf("Priority = %v, want Low", got.Priority)
	}
}

func TestScoreRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tier   Tier
		lo, hi int
	}{
		{High, 8, 10},
		{Medium, 5, 7},
		{Low, 1, 4},
	}
	for _, tt := range tests {
		lo, hi := ScoreRange(tt.tier)
		if lo != tt.lo || hi != tt.hi {
			t.Errorf("ScoreRange(%v) = [%d,%d], want [%d,%d]", tt.tier, lo, hi, tt.lo, tt.hi)
		}
	}
}
