// Package keypad is the input surface in front of the calculator engine.
//
// A Keypad owns the display text. Digit keys edit the number being typed;
// operator keys hand the displayed value and the symbol to the engine and
// show whatever result comes back.
package keypad

import (
	"errors"
	"fmt"
	"strings"

	"go-chi-calculator/internal/engine"
)

// ErrInvalidKey is returned for keys outside the calculator vocabulary.
var ErrInvalidKey = errors.New("invalid key")

const decimalPoint = "."

// Snapshot is a read-only view of a keypad and its engine.
type Snapshot struct {
	Display    string
	State      engine.State
	Operand    float64
	HasOperand bool
	Pending    engine.Pending
	HasPending bool
}

// Keypad is a headless calculator front panel wrapping one Engine.
type Keypad struct {
	engine  *engine.Engine
	display string
	// typing is true while digits are being appended to the display.
	typing bool
}

// New returns a Keypad showing "0" with a fresh engine.
func New() *Keypad {
	return &Keypad{
		engine:  engine.New(),
		display: "0",
	}
}

// Display returns the current display text.
func (k *Keypad) Display() string {
	return k.display
}

// Value parses the current display.
func (k *Keypad) Value() (float64, error) {
	return ParseDisplay(k.display)
}

// Press dispatches key to PressDigit or PressOperator.
func (k *Keypad) Press(key string) (engine.Result, error) {
	if isDigitKey(key) {
		return engine.Result{}, k.PressDigit(key)
	}
	return k.PressOperator(key)
}

// PressDigit handles 0-9 and the decimal point. A second decimal point in
// the same number is ignored.
func (k *Keypad) PressDigit(key string) error {
	if !isDigitKey(key) {
		return fmt.Errorf("digit %q: %w", key, ErrInvalidKey)
	}

	if !k.typing {
		k.typing = true
		if key == decimalPoint {
			k.display = "0" + decimalPoint
		} else {
			k.display = key
		}
		return nil
	}

	switch {
	case key == decimalPoint && strings.Contains(k.display, decimalPoint):
		return nil
	case k.display == "0" && key != decimalPoint:
		k.display = key
	default:
		k.display += key
	}
	return nil
}

// PressOperator feeds the displayed value and symbol to the engine. The
// display changes only when the engine returns a result.
func (k *Keypad) PressOperator(symbol string) (engine.Result, error) {
	canonical, ok := engine.Canonical(symbol)
	if !ok {
		return engine.Result{}, fmt.Errorf("operator %q: %w", symbol, ErrInvalidKey)
	}

	value, err := k.Value()
	if err != nil {
		// AC must always be able to recover an unreadable display.
		if canonical != engine.SymbolClear {
			return engine.Result{}, err
		}
		value = 0
	}

	k.typing = false
	k.engine.SetOperand(value)

	res, err := k.engine.Apply(canonical)
	if err != nil {
		return engine.Result{}, err
	}
	if res.Ok {
		k.display = FormatDisplay(res.Value)
	}
	return res, nil
}

// Enter replaces the display with v as if it had just been computed.
func (k *Keypad) Enter(v float64) {
	k.display = FormatDisplay(v)
	k.typing = false
}

// Snapshot captures the display and engine state.
func (k *Keypad) Snapshot() Snapshot {
	s := Snapshot{
		Display: k.display,
		State:   k.engine.State(),
	}
	s.Operand, s.HasOperand = k.engine.Operand()
	s.Pending, s.HasPending = k.engine.Pending()
	return s
}

func isDigitKey(key string) bool {
	if key == decimalPoint {
		return true
	}
	return len(key) == 1 && key[0] >= '0' && key[0] <= '9'
}
