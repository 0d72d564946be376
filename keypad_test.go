package keypad_test

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/aretw0/keypad"
	"github.com/aretw0/keypad/internal/logging"
	"github.com/aretw0/keypad/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// press feeds a sequence of keys the way a keypad would.
func press(c *keypad.Calculator, keys ...string) {
	for _, k := range keys {
		c.Press(k)
	}
}

func checkNumber(t *testing.T, c *keypad.Calculator, want float64) {
	t.Helper()
	v := c.CurrentValue()
	require.Equal(t, domain.ValueNumber, v.Kind, "value: %v, state: %+v", v, c.Snapshot())
	assert.Equal(t, want, v.Number)
}

func TestCalculator_Scenarios(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want float64
	}{
		{"add", []string{"2", "+", "3", "="}, 5},
		{"subtract", []string{"1", "0", "-", "4", "="}, 6},
		{"multiply", []string{"3", "*", "3", "="}, 9},
		{"divide", []string{"8", "/", "2", "="}, 4},
		{"left to right", []string{"2", "+", "3", "*", "4", "="}, 20},
		{"decimal operands", []string{"1", ".", "5", "+", ".", "5", "="}, 2},
		{"operator replaced", []string{"6", "+", "-", "2", "="}, 4},
		{"compute repeats operand", []string{"3", "*", "="}, 9},
		{"unary on second operand", []string{"1", "0", "-", "4", "s", "="}, 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := keypad.New()
			press(c, tt.keys...)
			checkNumber(t, c, tt.want)
		})
	}
}

func TestCalculator_ChainedComputations(t *testing.T) {
	// A computed result is the starting point of the next operation.
	c := keypad.New()
	press(c, "2", "+", "3", "=")
	checkNumber(t, c, 5)

	press(c, "*", "2", "=")
	checkNumber(t, c, 10)

	// Typing a digit after a result starts a fresh operand.
	press(c, "1", "0", "-", "4", "=")
	checkNumber(t, c, 6)
}

func TestCalculator_UnaryOperators(t *testing.T) {
	c := keypad.New()
	c.EnterDigit("5")
	c.EnterOperator("s")
	checkNumber(t, c, -5)
	assert.Equal(t, domain.KindInitial, c.Kind())

	c.EnterOperator("r")
	assert.Equal(t, domain.KindInitial, c.Kind(), "NaN must not route to Error")
	v := c.CurrentValue()
	require.Equal(t, domain.ValueNumber, v.Kind)
	assert.True(t, math.IsNaN(v.Number))
	assert.Equal(t, "NaN", v.String())
}

func TestCalculator_DivisionByZero(t *testing.T) {
	c := keypad.New()
	press(c, "1", "/", "0", "=")
	assert.Equal(t, domain.KindInitial, c.Kind())
	assert.True(t, math.IsInf(c.CurrentValue().Number, 1))
}

func TestCalculator_OverflowingOperand(t *testing.T) {
	nines := strings.Split(strings.Repeat("9", 400), "")

	c := keypad.New()
	press(c, nines...)
	press(c, "+")
	assert.Equal(t, domain.KindPartialResult, c.Kind())
	assert.True(t, math.IsInf(c.CurrentValue().Number, 1))

	press(c, "1", "=")
	assert.Equal(t, domain.KindInitial, c.Kind())
	assert.Equal(t, "+Inf", c.CurrentValue().String())

	c = keypad.New()
	press(c, nines...)
	press(c, "s")
	assert.Equal(t, domain.KindInitial, c.Kind())
	assert.True(t, math.IsInf(c.CurrentValue().Number, -1))
}

func TestCalculator_InProgressDisplay(t *testing.T) {
	c := keypad.New()
	press(c, "0", "0", "1", "2", ".")
	assert.Equal(t, domain.TextValue("12."), c.CurrentValue())

	press(c, "5", ".", "0")
	assert.Equal(t, "12.50", c.CurrentValue().String())

	c.EnterOperator("+")
	checkNumber(t, c, 12.5)

	c.EnterDigit(".")
	assert.Equal(t, "0.", c.CurrentValue().String())
}

func TestCalculator_InvalidOperator(t *testing.T) {
	prefixes := [][]string{
		{},
		{"2"},
		{"2", "+"},
		{"2", "+", "3"},
	}
	for _, prefix := range prefixes {
		t.Run(strings.Join(prefix, ""), func(t *testing.T) {
			c := keypad.New()
			press(c, prefix...)
			c.EnterOperator("%")

			assert.Equal(t, domain.KindError, c.Kind())
			assert.True(t, c.CurrentValue().IsError())
			assert.Equal(t, domain.ErrorSentinel, c.CurrentValue().String())
		})
	}
}

func TestCalculator_ErrorAbsorbsUntilReset(t *testing.T) {
	c := keypad.New()
	press(c, "2", "%")
	require.Equal(t, domain.KindError, c.Kind())

	press(c, "1", "+", "s", "=", ".")
	c.EnterOperator("%")
	assert.Equal(t, domain.KindError, c.Kind())
	assert.Equal(t, domain.ErrorSentinel, c.CurrentValue().String())

	c.Reset()
	checkNumber(t, c, 0)
	assert.Equal(t, domain.KindInitial, c.Kind())
}

func TestCalculator_ResetFromEveryState(t *testing.T) {
	prefixes := [][]string{{}, {"9"}, {"9", "+"}, {"9", "+", "1"}, {"9", "%"}}
	for _, prefix := range prefixes {
		c := keypad.New()
		press(c, prefix...)
		c.Reset()
		checkNumber(t, c, 0)
	}
}

func TestCalculator_ResetKeys(t *testing.T) {
	for _, key := range []string{"c", "C", "AC"} {
		c := keypad.New()
		press(c, "9", key)
		checkNumber(t, c, 0)
	}
}

func TestCalculator_CurrentValueIsIdempotent(t *testing.T) {
	c := keypad.New()
	press(c, "7", "*", "6")

	before := c.Snapshot()
	first := c.CurrentValue()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, c.CurrentValue())
	}
	assert.Equal(t, before, c.Snapshot())
}

func TestCalculator_ZeroValue(t *testing.T) {
	var c keypad.Calculator
	checkNumber(t, &c, 0)

	press(&c, "4", "+", "4", "=")
	checkNumber(t, &c, 8)
}

func TestCalculator_SnapshotRestore(t *testing.T) {
	src := keypad.New()
	press(src, "9", "-", "2", ".")

	dst := keypad.New()
	require.NoError(t, dst.Restore(src.Snapshot()))
	assert.Equal(t, src.CurrentValue(), dst.CurrentValue())
	assert.Equal(t, src.Kind(), dst.Kind())

	press(dst, "5", "=")
	checkNumber(t, dst, 6.5)
}

func TestResume(t *testing.T) {
	src := keypad.New()
	press(src, "7", "*", "3")

	var events int
	hooks := domain.LifecycleHooks{OnTransition: func(*domain.TransitionEvent) { events++ }}
	c, err := keypad.Resume(src.Snapshot(), keypad.WithLifecycleHooks(hooks))
	require.NoError(t, err)
	assert.Equal(t, 0, events)
	assert.Equal(t, domain.KindEnteringSecond, c.Kind())

	press(c, "=")
	checkNumber(t, c, 21)
	assert.Equal(t, 1, events)

	_, err = keypad.Resume(domain.Snapshot{Kind: "bogus"})
	assert.ErrorIs(t, err, domain.ErrInvalidSnapshot)
}

func TestCalculator_RestoreRejectsInvalid(t *testing.T) {
	c := keypad.New()
	press(c, "3")

	err := c.Restore(domain.Snapshot{Kind: domain.KindPartialResult, Op: "^"})
	assert.ErrorIs(t, err, domain.ErrInvalidSnapshot)
	assert.Equal(t, "3", c.CurrentValue().String())
}

func TestCalculator_Hooks(t *testing.T) {
	var (
		transitions []domain.TransitionEvent
		errs        []domain.ErrorEvent
	)
	hooks := domain.LifecycleHooks{
		OnTransition: func(e *domain.TransitionEvent) { transitions = append(transitions, *e) },
		OnError:      func(e *domain.ErrorEvent) { errs = append(errs, *e) },
	}

	c := keypad.New(keypad.WithLifecycleHooks(hooks))
	press(c, "2", "+", "%")

	require.Len(t, transitions, 3)
	assert.Equal(t, domain.KindInitial, transitions[0].From)
	assert.Equal(t, domain.KindEnteringFirst, transitions[0].To)
	assert.Equal(t, domain.KindPartialResult, transitions[1].To)
	assert.Equal(t, domain.KindError, transitions[2].To)

	require.Len(t, errs, 1)
	assert.Equal(t, "%", errs[0].Token)
	assert.Equal(t, domain.KindPartialResult, errs[0].From)
	assert.ErrorIs(t, errs[0].Err, domain.ErrInvalidOperator)
}

func TestCalculator_LogsForcedErrors(t *testing.T) {
	var buf bytes.Buffer
	c := keypad.New(keypad.WithLogger(logging.NewWithWriter(&buf, 0)))
	press(c, "2", "%")

	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "err=")
	assert.Contains(t, buf.String(), "token=%")
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, keypad.Version)
	assert.NotContains(t, keypad.Version, "\n")
}
