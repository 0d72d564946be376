package runtime

import (
	"fmt"

	"github.com/aretw0/keypad/pkg/domain"
	"github.com/aretw0/keypad/pkg/operators"
)

// ToSnapshot flattens s into its serializable form.
func ToSnapshot(s State) domain.Snapshot {
	snap := domain.Snapshot{Kind: s.Kind()}
	switch st := s.(type) {
	case Initial:
		snap.Value = domain.Number(st.Value)
	case EnteringFirst:
		snap.Buffer = st.Buffer.Display()
	case PartialResult:
		snap.First = domain.Number(st.First)
		snap.Current = domain.Number(st.Current)
		snap.Op = st.Op.Symbol
	case EnteringSecond:
		snap.First = domain.Number(st.First)
		snap.Op = st.Op.Symbol
		snap.Buffer = st.Buffer.Display()
	case Error:
	default:
		panic(unknownState(s))
	}
	return snap
}

// FromSnapshot rebuilds the state captured by snap.
// Buffers are replayed through Append, so only texts the machine itself could
// have produced are accepted.
func FromSnapshot(snap domain.Snapshot) (State, error) {
	switch snap.Kind {
	case domain.KindInitial:
		return Initial{Value: float64(snap.Value)}, nil

	case domain.KindEnteringFirst:
		buf, err := replay(snap.Buffer)
		if err != nil {
			return nil, err
		}
		return EnteringFirst{Buffer: buf}, nil

	case domain.KindPartialResult:
		op, err := snapshotOp(snap.Op)
		if err != nil {
			return nil, err
		}
		return PartialResult{First: float64(snap.First), Current: float64(snap.Current), Op: op}, nil

	case domain.KindEnteringSecond:
		op, err := snapshotOp(snap.Op)
		if err != nil {
			return nil, err
		}
		buf, err := replay(snap.Buffer)
		if err != nil {
			return nil, err
		}
		return EnteringSecond{First: float64(snap.First), Op: op, Buffer: buf}, nil

	case domain.KindError:
		return Error{}, nil
	}
	return nil, fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidSnapshot, snap.Kind)
}

func snapshotOp(symbol string) (operators.Binary, error) {
	op, ok := operators.LookupBinary(symbol)
	if !ok {
		return operators.Binary{}, fmt.Errorf("%w: operator %q", domain.ErrInvalidSnapshot, symbol)
	}
	return op, nil
}

func replay(text string) (Buffer, error) {
	var buf Buffer
	for _, r := range text {
		buf = buf.Append(string(r))
	}
	if buf.Empty() || buf.Display() != text {
		return Buffer{}, fmt.Errorf("%w: buffer %q", domain.ErrInvalidSnapshot, text)
	}
	return buf, nil
}
