package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/keypad"
	"github.com/aretw0/keypad/pkg/domain"
	"github.com/aretw0/keypad/pkg/runner"
	"gopkg.in/yaml.v3"
)

// Output formats for Eval results.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// EvalResult is the machine-readable outcome of a key sequence.
type EvalResult struct {
	Display  string           `json:"display" yaml:"display"`
	Kind     domain.StateKind `json:"kind" yaml:"kind"`
	Error    bool             `json:"error" yaml:"error"`
	Snapshot domain.Snapshot  `json:"snapshot" yaml:"snapshot"`
}

// Eval presses every key of args in order. Each arg may hold several keys ("12+3=").
func Eval(args []string, logger *slog.Logger) (EvalResult, error) {
	calc := keypad.New(keypad.WithLogger(logger))
	if err := press(calc, args); err != nil {
		return EvalResult{}, err
	}

	v := calc.CurrentValue()
	return EvalResult{
		Display:  v.String(),
		Kind:     calc.Kind(),
		Error:    v.IsError(),
		Snapshot: calc.Snapshot(),
	}, nil
}

// WriteResult prints res in the requested format.
func WriteResult(w io.Writer, res EvalResult, format string) error {
	switch format {
	case FormatText, "":
		_, err := fmt.Fprintln(w, res.Display)
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}

// Trace returns the state kinds a fresh calculator passes through while
// pressing args, starting with initial.
func Trace(args []string) ([]domain.StateKind, error) {
	visited := []domain.StateKind{domain.KindInitial}
	calc := keypad.New(keypad.WithLifecycleHooks(domain.LifecycleHooks{
		OnTransition: func(e *domain.TransitionEvent) { visited = append(visited, e.To) },
	}))
	if err := press(calc, args); err != nil {
		return nil, err
	}
	return visited, nil
}

func press(calc *keypad.Calculator, args []string) error {
	for _, arg := range args {
		clean, err := runner.SanitizeInput(arg)
		if err != nil {
			return fmt.Errorf("argument %q: %w", arg, err)
		}
		for _, key := range runner.Tokenize(clean) {
			calc.Press(key)
		}
	}
	return nil
}
