package keypad_test

import (
	"fmt"

	"github.com/aretw0/keypad"
)

func Example() {
	calc := keypad.New()

	// 2 + 3 * 4 evaluates strictly left to right.
	for _, key := range []string{"2", "+", "3", "*", "4", "="} {
		calc.Press(key)
	}
	fmt.Println(calc.CurrentValue())

	calc.Reset()
	calc.EnterDigit("5")
	calc.EnterOperator("s")
	fmt.Println(calc.CurrentValue())

	calc.EnterOperator("%")
	fmt.Println(calc.CurrentValue())

	// Output:
	// 20
	// -5
	// - Error -
}

func ExampleCalculator_CurrentValue() {
	calc := keypad.New()
	calc.EnterDigit(".")
	calc.EnterDigit("5")
	fmt.Println(calc.CurrentValue(), calc.Kind())

	// Output:
	// 0.5 entering_first
}
