// Package policy maps complaint text to internal support policy text.
package policy

import "strings"

// Separator joins the texts of several matching policies.
const Separator = " | "

// DefaultFallback is returned when no policy keyword matches.
const DefaultFallback = "Standard Support Policy: Treat with empathy and escalate if unresolved after 15 minutes of troubleshooting."

// Entry is one policy keyed by a trigger keyword.
type Entry struct {
	Keyword string `json:"keyword"`
	Text    string `json:"text"`
}

// KnowledgeBase is an ordered, immutable set of policy entries.
type KnowledgeBase struct {
	entries  []Entry
	fallback string
}

// New builds a KnowledgeBase. Keywords are lower-cased; entries with a blank
// keyword or text are skipped. An empty fallback selects DefaultFallback.
func New(entries []Entry, fallback string) *KnowledgeBase {
	kb := &KnowledgeBase{
		entries:  make([]Entry, 0, len(entries)),
		fallback: strings.TrimSpace(fallback),
	}
	if kb.fallback == "" {
		kb.fallback = DefaultFallback
	}
	for _, e := range entries {
		kw := strings.ToLower(strings.TrimSpace(e.Keyword))
		text := strings.TrimSpace(e.Text)
		if kw == "" || text == "" {
			continue
		}
		kb.entries = append(kb.entries, Entry{Keyword: kw, Text: text})
	}
	return kb
}

// DefaultEntries returns the built-in policy entries in lookup order.
func DefaultEntries() []Entry {
	return []Entry{
		{"billing", "Refunds are processed within 3-5 business days for unauthorized charges. Subscription cancellations must be done 24h before renewal."},
		{"login", "Users should reset passwords via the 'Forgot Password' link. If 2FA fails, verify server time is synced."},
		{"crash", "Ensure the application is updated to the latest version (v2.5). Clear cache if issues persist."},
		{"bug", "Report bugs with reproduction steps. Critical bugs are patched within 24 hours."},
		{"feature", "Feature requests are logged for the next quarterly roadmap review."},
	}
}

// Default returns a KnowledgeBase over DefaultEntries.
func Default() *KnowledgeBase {
	return New(DefaultEntries(), "")
}

// Entries returns a copy of the entries in lookup order.
func (kb *KnowledgeBase) Entries() []Entry {
	return append([]Entry(nil), kb.entries...)
}

// Fallback returns the text used when nothing matches.
func (kb *KnowledgeBase) Fallback() string { return kb.fallback }

// Lookup returns the text of every entry whose keyword occurs in text,
// joined by Separator in entry order, or the fallback when none does.
func (kb *KnowledgeBase) Lookup(text string) string {
	lowered := strings.ToLower(text)

	var matched []string
	for _, e := range kb.entries {
		if strings.Contains(lowered, e.Keyword) {
			matched = append(matched, e.Text)
		}
	}
	if len(matched) == 0 {
		return kb.fallback
	}
	return strings.Join(matched, Separator)
}
