package runtime

import "github.com/aretw0/keypad/pkg/domain"

// Trigger classifies the input that fires an edge of the transition table.
type Trigger string

const (
	TriggerDigit   Trigger = "digit"
	TriggerUnary   Trigger = "unary"
	TriggerBinary  Trigger = "binary"
	TriggerCompute Trigger = "compute"
	TriggerInvalid Trigger = "invalid"
	TriggerReset   Trigger = "reset"
)

// Edge is one row of the transition table.
type Edge struct {
	From    domain.StateKind
	Trigger Trigger
	To      domain.StateKind
}

// Edges describes the machine as data, for diagrams and documentation.
// Error only leaves through reset; reset from the other states is implied.
func Edges() []Edge {
	const (
		initial  = domain.KindInitial
		first    = domain.KindEnteringFirst
		partial  = domain.KindPartialResult
		second   = domain.KindEnteringSecond
		errState = domain.KindError
	)
	return []Edge{
		{initial, TriggerDigit, first},
		{initial, TriggerUnary, initial},
		{initial, TriggerBinary, partial},
		{initial, TriggerCompute, initial},

		{first, TriggerDigit, first},
		{first, TriggerUnary, initial},
		{first, TriggerBinary, partial},
		{first, TriggerCompute, first},

		{partial, TriggerDigit, second},
		{partial, TriggerUnary, partial},
		{partial, TriggerBinary, partial},
		{partial, TriggerCompute, initial},

		{second, TriggerDigit, second},
		{second, TriggerUnary, partial},
		{second, TriggerBinary, partial},
		{second, TriggerCompute, initial},

		{initial, TriggerInvalid, errState},
		{first, TriggerInvalid, errState},
		{partial, TriggerInvalid, errState},
		{second, TriggerInvalid, errState},

		{errState, TriggerReset, initial},
	}
}
