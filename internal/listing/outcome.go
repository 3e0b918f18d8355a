// Package listing implements the marketplace listing-publication
// pipeline: category resolution, condition mapping, aspect auto-fill,
// image preparation, and the inventory/offer/publish sequence.
package listing

// OutcomeKind tags how a pipeline stage concluded.
type OutcomeKind string

// Stage outcome kinds. Degraded means the stage produced a usable value
// by falling back, Failed means it produced nothing usable.
const (
	OutcomeOK       OutcomeKind = "ok"
	OutcomeDegraded OutcomeKind = "degraded"
	OutcomeFailed   OutcomeKind = "failed"
)

// Outcome is the structured result tag every fallback-tolerant stage
// returns alongside its value, so the orchestrator can log and count
// fallbacks without inspecting log text.
type Outcome struct {
	Kind   OutcomeKind
	Reason string
}

// OK reports a fully successful stage.
func OK() Outcome {
	return Outcome{Kind: OutcomeOK}
}

// Degraded reports a stage that fell back but still produced a value.
func Degraded(reason string) Outcome {
	return Outcome{Kind: OutcomeDegraded, Reason: reason}
}

// Failed reports a stage that produced nothing usable.
func Failed(reason string) Outcome {
	return Outcome{Kind: OutcomeFailed, Reason: reason}
}
