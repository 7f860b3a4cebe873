package severity

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Tier is an ordered severity level. Higher values are more severe.
type Tier int

const (
	// Low covers questions and cosmetic problems.
	Low Tier = iota

	// Medium covers degraded but working functionality.
	Medium

	// High covers outages, money and account access.
	High
)

// Tiers lists all tiers in descending severity.
var Tiers = []Tier{High, Medium, Low}

func (t Tier) String() string {
	switch t {
	case Low:
		return "Low"
	case Medium:
		return "Medium"
	case High:
		return "High"
	default:
		return fmt.Sprintf("Tier(%d)", int(t))
	}
}

// Valid reports whether t is one of the defined tiers.
func (t Tier) Valid() bool { return t >= Low && t <= High }

// SLA returns the turnaround estimate for the tier.
func (t Tier) SLA() string {
	switch t {
	case High:
		return "2-4 hours"
	case Medium:
		return "24 hours"
	default:
		return "48 hours"
	}
}

// ParseTier accepts a tier name (case-insensitive) or its numeric label.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "0":
		return Low, nil
	case "medium", "1":
		return Medium, nil
	case "high", "2":
		return High, nil
	}
	return 0, fmt.Errorf("unknown severity tier %q", s)
}

// MarshalText encodes the tier as its name.
func (t Tier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid severity tier %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText decodes a tier name or numeric label.
func (t *Tier) UnmarshalText(b []byte) error {
	v, err := ParseTier(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// UnmarshalJSON also accepts bare integers, which is how labeled corpora
// exported from the old pipeline encode tiers.
func (t *Tier) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		if !Tier(n).Valid() {
			return fmt.Errorf("invalid severity tier %d", n)
		}
		*t = Tier(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("severity tier: %w", err)
	}
	return t.UnmarshalText([]byte(s))
}
