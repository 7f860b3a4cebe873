package resolution

import (
	"strings"
	"testing"
)

func TestCompose(t *testing.T) {
	t.Parallel()

	got := Compose("Double charged", "Refunds take 3-5 days.", 9, "We flagged the charge.")
	want := "Dear Customer,\n\n" +
		"We sincerely apologize for the inconvenience caused.\n\n" +
		"Regarding your issue: \"Double charged\"\n\n" +
		"Based on our assessment:\nRefunds take 3-5 days.\n\n" +
		"Recommended action:\nWe flagged the charge.\n\n" +
		"We are prioritizing this request. Please allow us some time to verify the details and resolve this for you.\n\n" +
		"Best Regards,\nSupport Team"
	if got != want {
		t.Errorf("Compose mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestOpening(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score int
		want  string
	}{
		{10, apologyOpening},
		{8, apologyOpening},
		{7, thankYouOpening},
		{1, thankYouOpening},
	}
	for _, tt := range tests {
		if got := Opening(tt.score); got != tt.want {
			t.Errorf("Opening(%d) = %q, want %q", tt.score, got, tt.want)
		}
		if got := Compose("x", "p", tt.score, "s"); !strings.Contains(got, "\n\n"+tt.want+"\n\n") {
			t.Errorf("Compose(score=%d) missing opening %q", tt.score, tt.want)
		}
	}
}

func TestCompose_Verbatim(t *testing.T) {
	t.Parallel()

	// format verbs and quotes in inputs pass through untouched
	complaint := `100% "broken" %s`
	policy := "A | B %d"
	got := Compose(complaint, policy, 5, "try %v")
	for _, part := range []string{complaint, policy, "try %v"} {
		if !strings.Contains(got, part) {
			t.Errorf("Compose output missing %q", part)
		}
	}
	if Compose(complaint, policy, 5, "s") != Compose(complaint, policy, 5, "s") {
		t.Error("Compose is not reproducible")
	}
}
