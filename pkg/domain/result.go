package domain

// Phase identifies which side of the built-in action a handler runs on.
type Phase string

const (
	// PhasePre runs before the built-in action. Its handler may veto the
	// action or rewrite its input.
	PhasePre Phase = "pre"

	// PhasePost runs after the built-in action completed. Its handler's
	// return value becomes the final outcome of the trigger.
	PhasePost Phase = "post"
)

// PhaseResult is the engine's reading of a handler's resolved return value.
type PhaseResult struct {
	// Canceled reports that the handler vetoed the built-in action.
	Canceled bool

	// Value is the substituted input (PRE) or the final outcome (POST).
	// Meaningful only when Canceled is false; nil is a legal value.
	Value any
}

// ResultOf converts a handler return value into a PhaseResult. Only the
// literal boolean false cancels; every other value proceeds and carries the
// value through, nil and true included.
func ResultOf(v any) PhaseResult {
	if b, ok := v.(bool); ok && !b {
		return PhaseResult{Canceled: true}
	}
	return PhaseResult{Value: v}
}

// Status classifies the outcome of a trigger.
type Status string

const (
	// StatusCompleted means the built-in action ran and the sequence finished.
	StatusCompleted Status = "completed"

	// StatusCanceled means a PRE handler vetoed the built-in action. This is
	// a normal outcome, not an error.
	StatusCanceled Status = "canceled"

	// StatusFailed means a handler or the built-in action itself failed.
	StatusFailed Status = "failed"
)

// Result is the outcome of a trigger: the terminal status plus the value the
// host should proceed with.
type Result struct {
	Status Status `json:"status"`
	Value  any    `json:"value,omitempty"`
}
