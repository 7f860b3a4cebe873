package severity

import "strings"

// RuleMatcher assigns a tier from lexical rules alone.
type RuleMatcher interface {
	Match(text string) Tier
}

// Lexicon maps tiers to trigger substrings. Triggers are matched
// case-insensitively anywhere in the text; the most severe matching tier
// wins. Low needs no triggers, it is the default.
type Lexicon struct {
	triggers map[Tier][]string
}

// NewLexicon builds a Lexicon, lower-casing triggers and dropping blanks.
func NewLexicon(triggers map[Tier][]string) *Lexicon {
	l := &Lexicon{triggers: make(map[Tier][]string, len(triggers))}
	for tier, words := range triggers {
		for _, w := range words {
			w = strings.ToLower(strings.TrimSpace(w))
			if w == "" {
				continue
			}
			l.triggers[tier] = append(l.triggers[tier], w)
		}
	}
	return l
}

// DefaultLexicon returns the built-in trigger lists.
func DefaultLexicon() *Lexicon {
	return NewLexicon(map[Tier][]string{
		High: {
			"outage", "breach", "hacked", "data loss", "fraud", "unauthorized",
			"double charged", "charged twice", "payment failed", "cannot login",
			"service down", "crash", "crashes", "blocked", "critical",
		},
		Medium: {
			"slow", "lag", "delayed", "not received", "missing",
			"issue", "inconsistent", "misaligned", "bug", "error",
		},
	})
}

// Triggers returns a copy of the triggers for tier.
func (l *Lexicon) Triggers(tier Tier) []string {
	out := make([]string, len(l.triggers[tier]))
	copy(out, l.triggers[tier])
	return out
}

// Match returns the most severe tier with a trigger present in text, or Low.
func (l *Lexicon) Match(text string) Tier {
	lowered := strings.ToLower(text)
	for _, tier := range Tiers {
		for _, w := range l.triggers[tier] {
			if strings.Contains(lowered, w) {
				return tier
			}
		}
	}
	return Low
}
