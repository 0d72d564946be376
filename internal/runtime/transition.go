package runtime

import (
	"fmt"

	"github.com/aretw0/keypad/pkg/domain"
	"github.com/aretw0/keypad/pkg/operators"
)

// Digit applies a digit or decimal point token. It never fails; tokens that
// are not digits leave the state unchanged.
func Digit(s State, token string) State {
	if !domain.IsDigitToken(token) {
		return s
	}
	switch st := s.(type) {
	case Initial:
		return EnteringFirst{Buffer: NewBuffer(token)}
	case EnteringFirst:
		st.Buffer = st.Buffer.Append(token)
		return st
	case PartialResult:
		return EnteringSecond{First: st.First, Op: st.Op, Buffer: NewBuffer(token)}
	case EnteringSecond:
		st.Buffer = st.Buffer.Append(token)
		return st
	case Error:
		return st
	default:
		panic(unknownState(s))
	}
}

// Operator applies an operator token. Unknown tokens fail with
// domain.ErrInvalidOperator; the caller decides what the failure means.
func Operator(s State, token string) (State, error) {
	if _, ok := s.(Error); ok {
		return s, nil
	}

	unary, isUnary := operators.LookupUnary(token)
	binary, isBinary := operators.LookupBinary(token)
	if !isUnary && !isBinary {
		return nil, operators.InvalidOperator(token)
	}

	switch st := s.(type) {
	case Initial:
		if isUnary {
			return Initial{Value: unary.Apply(st.Value)}, nil
		}
		return PartialResult{First: st.Value, Current: st.Value, Op: binary}, nil

	case EnteringFirst:
		n, err := st.Buffer.Value()
		if err != nil {
			return nil, err
		}
		if isUnary {
			return Initial{Value: unary.Apply(n)}, nil
		}
		return PartialResult{First: n, Current: n, Op: binary}, nil

	case PartialResult:
		if isUnary {
			st.Current = unary.Apply(st.Current)
			return st, nil
		}
		st.Op = binary
		return st, nil

	case EnteringSecond:
		n, err := st.Buffer.Value()
		if err != nil {
			return nil, err
		}
		if isUnary {
			return PartialResult{First: st.First, Current: unary.Apply(n), Op: st.Op}, nil
		}
		r := st.Op.Apply(st.First, n)
		return PartialResult{First: r, Current: r, Op: binary}, nil

	default:
		panic(unknownState(s))
	}
}

// Compute resolves the pending binary operator, if any.
func Compute(s State) (State, error) {
	switch st := s.(type) {
	case Initial, EnteringFirst, Error:
		return s, nil
	case PartialResult:
		return Initial{Value: st.Op.Apply(st.First, st.Current)}, nil
	case EnteringSecond:
		n, err := st.Buffer.Value()
		if err != nil {
			return nil, err
		}
		return Initial{Value: st.Op.Apply(st.First, n)}, nil
	default:
		panic(unknownState(s))
	}
}

// Display returns what s shows: a Number for settled states, the literal
// operand text while typing, or the error sentinel.
func Display(s State) domain.Value {
	switch st := s.(type) {
	case Initial:
		return domain.NumberValue(st.Value)
	case EnteringFirst:
		return domain.TextValue(st.Buffer.Display())
	case PartialResult:
		return domain.NumberValue(st.Current)
	case EnteringSecond:
		return domain.TextValue(st.Buffer.Display())
	case Error:
		return domain.ErrorValue()
	default:
		panic(unknownState(s))
	}
}

func unknownState(s State) string {
	return fmt.Sprintf("runtime: unknown state %T", s)
}
