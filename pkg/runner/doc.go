/*
Package runner implements the interactive loop that drives a keypad Calculator
from a line-oriented input stream.

Each line is sanitized, split into keys and fed to the calculator; the display is
printed after every line. Lines starting with ':' are commands (:help, :state,
:quit).

# Usage

	r := runner.NewRunner(
		runner.WithIO(os.Stdin, os.Stdout),
		runner.WithPrompt("> "),
	)

	if err := r.Run(ctx, keypad.New()); err != nil {
		log.Fatal(err)
	}
*/
package runner
