package resolution

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// SystemPrompt is the system instruction sent to generative drafters.
const SystemPrompt = "You are a helpful support agent."

// Tone is the register a drafted reply should take.
type Tone string

const (
	ToneUrgent       Tone = "urgent-and-apologetic"
	ToneProfessional Tone = "professional-and-helpful"
)

// ToneFor returns the tone for a severity score.
func ToneFor(score int) Tone {
	if score >= escalationScore {
		return ToneUrgent
	}
	return ToneProfessional
}

// Phrase returns the tone as prose, e.g. "urgent and apologetic".
func (t Tone) Phrase() string {
	return strings.ReplaceAll(string(t), "-", " ")
}

// DraftRequest is the input to a Drafter.
type DraftRequest struct {
	Complaint     string
	Score         int
	PolicyContext string
	Tone          Tone
}

// Drafter generates a reply with an external text generation service.
// Implementations report every failure as a *DraftingFailure.
type Drafter interface {
	Name() string
	Draft(ctx context.Context, req *DraftRequest) (string, error)
}

// FailureReason categorizes a DraftingFailure.
type FailureReason string

const (
	ReasonTimeout     FailureReason = "timeout"
	ReasonCanceled    FailureReason = "canceled"
	ReasonUnavailable FailureReason = "unavailable"
	ReasonMalformed   FailureReason = "malformed"
)

// DraftingFailure reports that a Drafter could not produce a reply. It is
// always recoverable: callers fall back to a templated reply.
type DraftingFailure struct {
	Provider string
	Reason   FailureReason
	Err      error
}

func (e *DraftingFailure) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("drafting via %s failed: %s", e.Provider, e.Reason)
	}
	return fmt.Sprintf("drafting via %s failed: %s: %v", e.Provider, e.Reason, e.Err)
}

func (e *DraftingFailure) Unwrap() error { return e.Err }

// Failure wraps err as a DraftingFailure, deriving the reason from ctx and
// err. Deadline and cancellation map to timeout and canceled; everything
// else is unavailable. An existing DraftingFailure is returned as is.
func Failure(ctx context.Context, provider string, err error) *DraftingFailure {
	var df *DraftingFailure
	if errors.As(err, &df) {
		return df
	}

	reason := ReasonUnavailable
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		reason = ReasonTimeout
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		reason = ReasonCanceled
	}
	return &DraftingFailure{Provider: provider, Reason: reason, Err: err}
}

// Malformed reports a response that arrived but could not be used.
func Malformed(provider, format string, args ...any) *DraftingFailure {
	return &DraftingFailure{Provider: provider, Reason: ReasonMalformed, Err: fmt.Errorf(format, args...)}
}

// BuildPrompt renders the user instruction for a drafting request.
func BuildPrompt(req *DraftRequest) string {
	var b strings.Builder
	b.WriteString("You are a professional customer support agent for 'SupportFlow'.\n\n")
	fmt.Fprintf(&b, "Complaint: \"%s\"\n", req.Complaint)
	fmt.Fprintf(&b, "Severity Score: %d/10\n", req.Score)
	fmt.Fprintf(&b, "Internal Policy Context: %s\n\n", req.PolicyContext)
	b.WriteString("Task: Write a polite, concise, and helpful email response to the customer.\n")
	fmt.Fprintf(&b, "- Use a %s tone.\n", req.Tone.Phrase())
	b.WriteString("- Address the specific issue.\n")
	b.WriteString("- Use the policy context to explain the next steps or solution.\n")
	b.WriteString("- Sign off as 'Support Team'.\n")
	b.WriteString("- Do NOT include subject lines or placeholders like [Customer Name]. Start with 'Dear Customer,'.\n")
	return b.String()
}
