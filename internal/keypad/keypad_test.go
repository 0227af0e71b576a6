package keypad

import (
	"math"
	"strings"
	"testing"

	"go-chi-calculator/internal/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pressAll(t *testing.T, k *Keypad, keys ...string) {
	t.Helper()
	for _, key := range keys {
		_, err := k.Press(key)
		require.NoError(t, err, "key %q", key)
	}
}

func TestNewKeypadShowsZero(t *testing.T) {
	k := New()
	assert.Equal(t, "0", k.Display())

	s := k.Snapshot()
	assert.Equal(t, engine.Idle, s.State)
	assert.False(t, s.HasOperand)
	assert.False(t, s.HasPending)
}

func TestDigitEntry(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want string
	}{
		{name: "digits append", keys: []string{"1", "2", "3"}, want: "123"},
		{name: "single decimal point", keys: []string{"3", ".", "1", ".", "4"}, want: "3.14"},
		{name: "leading decimal point", keys: []string{".", "5"}, want: "0.5"},
		{name: "leading zero replaced", keys: []string{"0", "7"}, want: "7"},
		{name: "zero then decimal", keys: []string{"0", ".", "0", "5"}, want: "0.05"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			k := New()
			pressAll(t, k, tc.keys...)
			assert.Equal(t, tc.want, k.Display())
		})
	}
}

func TestBinaryOperationThroughKeypad(t *testing.T) {
	k := New()
	pressAll(t, k, "1", "2", "+")
	assert.Equal(t, "12", k.Display(), "display is unchanged while waiting")

	pressAll(t, k, "3", ".", "5", "=")
	assert.Equal(t, "15.5", k.Display())
}

func TestRepeatedEqualsChainsOnDisplayedResult(t *testing.T) {
	k := New()
	pressAll(t, k, "5", "+", "3")

	res, err := k.Press("=")
	require.NoError(t, err)
	assert.Equal(t, engine.Result{Value: 8, Ok: true}, res)

	res, err = k.Press("=")
	require.NoError(t, err)
	assert.Equal(t, engine.Result{Value: 13, Ok: true}, res)
	assert.Equal(t, "13", k.Display())
}

func TestDigitAfterResultStartsNewNumber(t *testing.T) {
	k := New()
	pressAll(t, k, "2", "×", "4", "=", "9")
	assert.Equal(t, "9", k.Display())
}

func TestImmediateOperators(t *testing.T) {
	k := New()
	pressAll(t, k, "5", "0", "%")
	assert.Equal(t, "0.5", k.Display())

	pressAll(t, k, "+/-")
	assert.Equal(t, "-0.5", k.Display())

	pressAll(t, k, "AC")
	assert.Equal(t, "0", k.Display())
}

func TestClearKeepsPendingOperation(t *testing.T) {
	k := New()
	pressAll(t, k, "7", "-", "4", "AC", "2", "=")
	assert.Equal(t, "5", k.Display())
}

func TestDivisionByZeroShowsInfinity(t *testing.T) {
	k := New()
	pressAll(t, k, "1", "0", "÷", "0", "=")
	assert.Equal(t, "+Inf", k.Display())

	v, err := k.Value()
	require.NoError(t, err)
	assert.True(t, math.IsInf(v, 1))
}

func TestEqualsWithoutPendingLeavesDisplay(t *testing.T) {
	k := New()
	pressAll(t, k, "4", "2")

	res, err := k.Press("=")
	require.NoError(t, err)
	assert.False(t, res.Ok)
	assert.Equal(t, "42", k.Display())
}

func TestAliasesAreAccepted(t *testing.T) {
	k := New()
	pressAll(t, k, "9", "/", "3", "=")
	assert.Equal(t, "3", k.Display())

	pressAll(t, k, "*", "3", "=")
	assert.Equal(t, "9", k.Display())
}

func TestInvalidKeys(t *testing.T) {
	k := New()
	pressAll(t, k, "4")

	_, err := k.Press("sqrt")
	assert.ErrorIs(t, err, ErrInvalidKey)

	assert.ErrorIs(t, k.PressDigit("+"), ErrInvalidKey)
	assert.ErrorIs(t, k.PressDigit("12"), ErrInvalidKey)
	assert.Equal(t, "4", k.Display())
	assert.Equal(t, engine.Idle, k.Snapshot().State)
}

func TestInvalidDisplayIsRecoverable(t *testing.T) {
	k := New()
	pressAll(t, k, strings.Split(strings.Repeat("9", 400), "")...)

	_, err := k.Press("+")
	require.ErrorIs(t, err, ErrInvalidDisplay)
	assert.False(t, k.Snapshot().HasOperand, "engine untouched")

	pressAll(t, k, "AC")
	assert.Equal(t, "0", k.Display())
}

func TestEnter(t *testing.T) {
	k := New()
	k.Enter(2.5)
	assert.Equal(t, "2.5", k.Display())

	pressAll(t, k, "7")
	assert.Equal(t, "7", k.Display(), "entered value is replaced by typing")
}

func TestSnapshotReflectsEngine(t *testing.T) {
	k := New()
	pressAll(t, k, "6", "÷")

	s := k.Snapshot()
	assert.Equal(t, engine.AwaitingSecondOperand, s.State)
	assert.True(t, s.HasPending)
	assert.Equal(t, engine.Pending{LeftOperand: 6, Operator: engine.SymbolDivide}, s.Pending)
	assert.True(t, s.HasOperand)
	assert.Equal(t, 6.0, s.Operand)
}

func TestDisplayRoundTrip(t *testing.T) {
	for _, v := range []float64{0, -3, 0.1 + 0.2, 1e21, 123456.789, math.Inf(-1)} {
		got, err := ParseDisplay(FormatDisplay(v))
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}

	got, err := ParseDisplay(FormatDisplay(math.NaN()))
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got))

	_, err = ParseDisplay("1.2.3")
	assert.ErrorIs(t, err, ErrInvalidDisplay)
}
