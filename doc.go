/*
Package keypad is the input state machine of a four-function pocket calculator.

It turns a stream of key presses (digits, a decimal point, operators, compute and
reset) into a displayed value. Binary operations apply strictly left to right with
no precedence, so 2 + 3 * 4 = shows 20.

# Concept

A Calculator is always in exactly one of five states: initial, entering_first,
partial_result, entering_second and error. Every key maps the current state to the
next one. An unrecognized operator forces the error state, which ignores everything
but reset. Division by zero and square roots of negatives are not errors: they
produce ±Inf and NaN like any float64 arithmetic.

The machine itself lives in internal/runtime as immutable values. Calculator is the
mutable façade that hosts (the REPL, the HTTP API, the MCP server) drive. Hosts that
keep many calculators persist them as Snapshots through a ports.SessionStore.

# Usage

	package main

	import (
		"fmt"

		"github.com/aretw0/keypad"
	)

	func main() {
		calc := keypad.New()
		for _, key := range []string{"2", "+", "3", "*", "4", "="} {
			calc.Press(key)
		}
		fmt.Println(calc.CurrentValue()) // 20
	}

Lifecycle hooks observe every transition and every forced error, for logging or
metrics:

	calc := keypad.New(keypad.WithLifecycleHooks(domain.LifecycleHooks{
		OnError: func(e *domain.ErrorEvent) { log.Println(e.Token, e.Err) },
	}))
*/
package keypad
