package resolution

import "fmt"

const (
	apologyOpening  = "We sincerely apologize for the inconvenience caused."
	thankYouOpening = "Thank you for bringing this to our attention."
	escalationScore = 8
	composeTemplate = `Dear Customer,

%s

Regarding your issue: "%s"

Based on our assessment:
%s

Recommended action:
%s

We are prioritizing this request. Please allow us some time to verify the details and resolve this for you.

Best Regards,
Support Team`
)

// Opening returns the first line of a templated reply for score.
func Opening(score int) string {
	if score >= escalationScore {
		return apologyOpening
	}
	return thankYouOpening
}

// Compose renders the templated reply. The complaint, policy context and
// suggestion are inserted verbatim.
func Compose(complaint, policyContext string, score int, suggestion string) string {
	return fmt.Sprintf(composeTemplate, Opening(score), complaint, policyContext, suggestion)
}
