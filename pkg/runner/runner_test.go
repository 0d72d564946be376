package runner_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/keypad"
	"github.com/aretw0/keypad/pkg/domain"
	"github.com/aretw0/keypad/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, input string, opts ...runner.Option) string {
	t.Helper()
	var out bytes.Buffer
	opts = append([]runner.Option{runner.WithIO(strings.NewReader(input), &out)}, opts...)
	r := runner.NewRunner(opts...)
	require.NoError(t, r.Run(context.Background(), keypad.New()))
	return out.String()
}

func TestRunner_Lines(t *testing.T) {
	out := run(t, "2 + 3\n=\n* 4 =\n")
	assert.Equal(t, "3\n5\n20\n", out)
}

func TestRunner_CompactKeys(t *testing.T) {
	out := run(t, "2+3*4=\n")
	assert.Equal(t, "20\n", out)
}

func TestRunner_ErrorAndReset(t *testing.T) {
	out := run(t, "2 %\n1\nAC\n9\n")
	assert.Equal(t, domain.ErrorSentinel+"\n"+domain.ErrorSentinel+"\n0\n9\n", out)
}

func TestRunner_QuitStopsReading(t *testing.T) {
	out := run(t, "7\n:quit\n8\n")
	assert.Equal(t, "7\n", out)
}

func TestRunner_Prompt(t *testing.T) {
	out := run(t, "1\n", runner.WithPrompt("> "))
	assert.Equal(t, "> 1\n> ", out)
}

func TestRunner_Commands(t *testing.T) {
	out := run(t, ":help\n:bogus\n5 +\n:state\n")
	assert.Contains(t, out, "| `r` | sqrt |")
	assert.Contains(t, out, "unknown command :bogus")
	assert.Contains(t, out, "partial_result")
}

func TestRunner_Styler(t *testing.T) {
	styler := func(v domain.Value) string { return "[" + v.String() + "]" }
	out := run(t, "4\n", runner.WithStyler(styler))
	assert.Equal(t, "[4]\n", out)
}

func TestRunner_Renderer(t *testing.T) {
	renderer := func(s string) (string, error) { return "RENDERED", nil }
	out := run(t, "?\n", runner.WithRenderer(renderer))
	assert.Equal(t, "RENDERED\n", out)
}

func TestRunner_RejectsOversizedLine(t *testing.T) {
	t.Setenv(runner.EnvMaxInputSize, "8")
	out := run(t, "123456789\n1\n")
	assert.Contains(t, out, "rejected")
	assert.True(t, strings.HasSuffix(out, "1\n"))
}

// blockingReader never returns, like an idle terminal.
type blockingReader struct{ done chan struct{} }

func (b blockingReader) Read([]byte) (int, error) {
	<-b.done
	return 0, nil
}

func TestRunner_ContextCancel(t *testing.T) {
	in := blockingReader{done: make(chan struct{})}
	defer close(in.done)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	r := runner.NewRunner(runner.WithIO(in, &bytes.Buffer{}))
	err := r.Run(ctx, keypad.New())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
