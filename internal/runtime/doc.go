// Package runtime implements the calculator state machine.
//
// States are plain values behind the sealed State interface. The transition
// functions Digit, Operator and Compute take the active state and return the
// next one; they never mutate their argument. Operator and Compute report
// failures as errors instead of switching to Error themselves, leaving that
// policy to the caller.
package runtime
