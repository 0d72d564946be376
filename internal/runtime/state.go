package runtime

import (
	"github.com/aretw0/keypad/pkg/domain"
	"github.com/aretw0/keypad/pkg/operators"
)

// State is one of the five calculator states: Initial, EnteringFirst,
// PartialResult, EnteringSecond or Error. The set is closed.
type State interface {
	Kind() domain.StateKind
	state()
}

// Initial holds a settled value with no pending operator.
type Initial struct {
	Value float64
}

// EnteringFirst is typing the first operand.
type EnteringFirst struct {
	Buffer Buffer
}

// PartialResult has a first operand and binary operator fixed.
// Current starts as a copy of First and absorbs unary operators.
type PartialResult struct {
	First   float64
	Current float64
	Op      operators.Binary
}

// EnteringSecond is typing the second operand of a pending binary operator.
type EnteringSecond struct {
	First  float64
	Op     operators.Binary
	Buffer Buffer
}

// Error absorbs every action until reset.
type Error struct{}

func (Initial) Kind() domain.StateKind        { return domain.KindInitial }
func (EnteringFirst) Kind() domain.StateKind  { return domain.KindEnteringFirst }
func (PartialResult) Kind() domain.StateKind  { return domain.KindPartialResult }
func (EnteringSecond) Kind() domain.StateKind { return domain.KindEnteringSecond }
func (Error) Kind() domain.StateKind          { return domain.KindError }

func (Initial) state()        {}
func (EnteringFirst) state()  {}
func (PartialResult) state()  {}
func (EnteringSecond) state() {}
func (Error) state()          {}

// Start is the state of a freshly reset calculator.
func Start() State {
	return Initial{Value: 0}
}
