package domain

// StateKind identifies the active variant of the calculator state machine.
type StateKind string

const (
	KindInitial        StateKind = "initial"         // No pending operand or operator
	KindEnteringFirst  StateKind = "entering_first"  // First operand being typed
	KindPartialResult  StateKind = "partial_result"  // Binary operator pending a second operand
	KindEnteringSecond StateKind = "entering_second" // Second operand being typed
	KindError          StateKind = "error"           // Terminal until reset
)

// Kinds lists every state kind in transition-table order.
func Kinds() []StateKind {
	return []StateKind{KindInitial, KindEnteringFirst, KindPartialResult, KindEnteringSecond, KindError}
}

// Valid reports whether k names a known state.
func (k StateKind) Valid() bool {
	switch k {
	case KindInitial, KindEnteringFirst, KindPartialResult, KindEnteringSecond, KindError:
		return true
	}
	return false
}

// Action names the user action that drove a transition.
type Action string

const (
	ActionDigit    Action = "digit"
	ActionOperator Action = "operator"
	ActionCompute  Action = "compute"
	ActionReset    Action = "reset"
	ActionRestore  Action = "restore"
)
