// ABOUTME: Narrative generator adapter interface
// ABOUTME: Produces human-sounding bot messages from a topic; absence is not an error for callers

package narrative

import "context"

// Generator produces a human-sounding message for a topic/instruction string.
// An empty string means no text was produced; callers must substitute their
// deterministic fallback text in that case. Errors carry diagnostic detail
// but callers treat them the same as absence.
type Generator interface {
	Generate(ctx context.Context, topic string) (string, error)
}

// Disabled is a Generator that never produces text, forcing every call site
// onto its fallback template. Used when no provider is configured and in tests.
type Disabled struct{}

// Generate always reports absence.
func (Disabled) Generate(ctx context.Context, topic string) (string, error) {
	return "", nil
}
