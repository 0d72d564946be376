package keypad

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/keypad/internal/logging"
	"github.com/aretw0/keypad/internal/runtime"
	"github.com/aretw0/keypad/pkg/domain"
)

// Calculator is the façade over the calculator state machine.
// It owns the single active state and never lets a failed transition escape:
// operator and compute failures switch the machine to the Error state instead.
//
// A Calculator is not safe for concurrent use. The zero value is ready to use
// and starts at Initial(0).
type Calculator struct {
	state  runtime.State
	logger *slog.Logger
	hooks  domain.LifecycleHooks
}

// Option defines a functional option for configuring the Calculator.
type Option func(*Calculator)

// WithLogger sets a custom structured logger for the calculator.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Calculator) {
		c.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Calculator) {
		c.hooks = hooks
	}
}

// New creates a calculator in the Initial(0) state.
func New(opts ...Option) *Calculator {
	c := &Calculator{state: runtime.Start()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resume creates a calculator already in the state captured by snap.
// Unlike Restore it reports no transition, so hosts that rebuild a calculator
// per request do not count the rebuild as activity.
func Resume(snap domain.Snapshot, opts ...Option) (*Calculator, error) {
	s, err := runtime.FromSnapshot(snap)
	if err != nil {
		return nil, fmt.Errorf("resume: %w", err)
	}
	c := New(opts...)
	c.state = s
	return c, nil
}

// Reset returns to Initial(0) from any state, including Error.
func (c *Calculator) Reset() {
	from := c.current().Kind()
	c.state = runtime.Start()
	c.emit(domain.ActionReset, "", from)
}

// EnterDigit types a digit or the decimal point. Other tokens are ignored.
func (c *Calculator) EnterDigit(token string) {
	from := c.current().Kind()
	c.state = runtime.Digit(c.current(), token)
	c.emit(domain.ActionDigit, token, from)
}

// EnterOperator applies a unary or binary operator.
// Unrecognized tokens switch the calculator to the Error state.
func (c *Calculator) EnterOperator(token string) {
	next, err := runtime.Operator(c.current(), token)
	c.install(domain.ActionOperator, token, next, err)
}

// Compute resolves the pending operation, if any.
func (c *Calculator) Compute() {
	next, err := runtime.Compute(c.current())
	c.install(domain.ActionCompute, "", next, err)
}

// CurrentValue reports what the calculator shows. It never changes state.
func (c *Calculator) CurrentValue() domain.Value {
	return runtime.Display(c.current())
}

// Kind reports which state is active.
func (c *Calculator) Kind() domain.StateKind {
	return c.current().Kind()
}

// Press dispatches a single key as a host surface would: digits and the
// decimal point are typed, "=" computes, "c", "C" and "AC" reset, and
// everything else is treated as an operator.
func (c *Calculator) Press(key string) {
	switch {
	case domain.IsDigitToken(key):
		c.EnterDigit(key)
	case key == domain.KeyCompute:
		c.Compute()
	case domain.IsResetToken(key):
		c.Reset()
	default:
		c.EnterOperator(key)
	}
}

// Snapshot captures the active state.
func (c *Calculator) Snapshot() domain.Snapshot {
	return runtime.ToSnapshot(c.current())
}

// Restore installs the state captured by snap.
// Invalid snapshots are rejected and leave the calculator untouched.
func (c *Calculator) Restore(snap domain.Snapshot) error {
	s, err := runtime.FromSnapshot(snap)
	if err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	from := c.current().Kind()
	c.state = s
	c.emit(domain.ActionRestore, "", from)
	return nil
}

func (c *Calculator) current() runtime.State {
	if c.state == nil {
		c.state = runtime.Start()
	}
	return c.state
}

func (c *Calculator) log() *slog.Logger {
	if c.logger == nil {
		c.logger = logging.NewNop()
	}
	return c.logger
}

// install replaces the state with the outcome of a fallible transition.
func (c *Calculator) install(action domain.Action, token string, next runtime.State, err error) {
	from := c.current().Kind()
	if err != nil {
		c.state = runtime.Error{}
		c.log().Warn("Transition failed, entering error state",
			"action", action,
			"token", token,
			"from", from,
			"err", err,
		)
		if c.hooks.OnError != nil {
			c.hooks.OnError(&domain.ErrorEvent{
				EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventError},
				Action:    action,
				Token:     token,
				From:      from,
				Err:       err,
			})
		}
		c.emit(action, token, from)
		return
	}
	c.state = next
	c.emit(action, token, from)
}

func (c *Calculator) emit(action domain.Action, token string, from domain.StateKind) {
	to := c.state.Kind()
	c.log().Debug("Transition",
		"action", action,
		"token", token,
		"from", from,
		"to", to,
	)
	if c.hooks.OnTransition != nil {
		c.hooks.OnTransition(&domain.TransitionEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventTransition},
			Action:    action,
			Token:     token,
			From:      from,
			To:        to,
		})
	}
}
