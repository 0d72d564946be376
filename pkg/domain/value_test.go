package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValue_String(t *testing.T) {
	assert.Equal(t, "20", NumberValue(20).String())
	assert.Equal(t, "0.333333333333", NumberValue(1.0/3).String())
	assert.Equal(t, "+Inf", NumberValue(math.Inf(1)).String())
	assert.Equal(t, "NaN", NumberValue(math.NaN()).String())
	assert.Equal(t, "12.", TextValue("12.").String())
	assert.Equal(t, ErrorSentinel, ErrorValue().String())
}

func TestValue_Float(t *testing.T) {
	n, ok := NumberValue(4).Float()
	assert.True(t, ok)
	assert.Equal(t, 4.0, n)

	n, ok = TextValue("12.").Float()
	assert.True(t, ok)
	assert.Equal(t, 12.0, n)

	_, ok = ErrorValue().Float()
	assert.False(t, ok)
	assert.True(t, ErrorValue().IsError())
}

func TestStateKind_Valid(t *testing.T) {
	for _, k := range Kinds() {
		assert.True(t, k.Valid(), k)
	}
	assert.False(t, StateKind("done").Valid())
	assert.False(t, StateKind("").Valid())
}
