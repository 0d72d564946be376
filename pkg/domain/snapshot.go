package domain

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
)

// Number is a float64 that survives JSON encoding even when it is NaN or infinite.
// Non-finite values are written as the strings "NaN", "+Inf" and "-Inf".
type Number float64

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	switch {
	case math.IsNaN(f):
		return []byte(`"NaN"`), nil
	case math.IsInf(f, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(f, -1):
		return []byte(`"-Inf"`), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	raw := string(bytes.Trim(data, `"`))
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("%w: number %s", ErrInvalidSnapshot, data)
	}
	*n = Number(f)
	return nil
}

// Snapshot is a flat, serializable capture of one calculator state.
// Only the fields relevant to Kind are meaningful.
type Snapshot struct {
	Kind    StateKind `json:"kind" yaml:"kind"`
	Value   Number    `json:"value" yaml:"value"`
	First   Number    `json:"first" yaml:"first"`
	Current Number    `json:"current" yaml:"current"`
	Op      string    `json:"op,omitempty" yaml:"op,omitempty"`
	Buffer  string    `json:"buffer,omitempty" yaml:"buffer,omitempty"`
}

// InitialSnapshot is the snapshot of a freshly reset calculator.
func InitialSnapshot() Snapshot {
	return Snapshot{Kind: KindInitial}
}
