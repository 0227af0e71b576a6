// Package engine implements the calculator state machine.
//
// An Engine holds at most one pending binary operation. Applying a binary
// operator stores the current operand as its left side; applying "=" computes
// the result against the most recent operand. The pending operation is never
// cleared, only overwritten, so repeated "=" presses re-apply the last
// operator and "AC" resets the display without forgetting it.
//
// An Engine is not safe for concurrent use.
package engine

import (
	"errors"
	"fmt"
)

// ErrUnsupportedOperator is returned when "=" meets a stored operator that is
// not one of + - × ÷.
var ErrUnsupportedOperator = errors.New("unsupported operator")

// State is the engine's position in its two-state machine.
type State int

const (
	Idle State = iota
	AwaitingSecondOperand
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingSecondOperand:
		return "awaiting_second_operand"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Pending is a left operand and operator waiting for a right operand.
type Pending struct {
	LeftOperand float64
	Operator    string
}

// Result is the outcome of Apply. Ok is false when there is nothing to
// display and the caller should leave its display unchanged.
type Result struct {
	Value float64
	Ok    bool
}

func some(v float64) Result {
	return Result{Value: v, Ok: true}
}

// Engine is the calculator state machine. The zero value is ready to use.
type Engine struct {
	operand    float64
	hasOperand bool

	pending    Pending
	hasPending bool
}

// New returns an Engine with no operand and no pending operation.
func New() *Engine {
	return &Engine{}
}

// SetOperand overwrites the current operand.
func (e *Engine) SetOperand(value float64) {
	e.operand = value
	e.hasOperand = true
}

// Apply runs symbol against the current operand.
//
// Without a current operand the result is empty. Any symbol outside
// "+/-", "AC", "%" and "=" is stored as the pending operator; callers that
// want to reject unknown symbols must check Known first.
func (e *Engine) Apply(symbol string) (Result, error) {
	if !e.hasOperand {
		return Result{}, nil
	}
	n := e.operand

	switch symbol {
	case SymbolNegate:
		return some(n * -1), nil
	case SymbolClear:
		return some(0), nil
	case SymbolPercent:
		return some(n * 0.01), nil
	case SymbolEquals:
		return e.evaluate(n)
	default:
		e.pending = Pending{LeftOperand: n, Operator: symbol}
		e.hasPending = true
		return Result{}, nil
	}
}

func (e *Engine) evaluate(right float64) (Result, error) {
	if !e.hasPending {
		return Result{}, nil
	}
	left := e.pending.LeftOperand

	switch e.pending.Operator {
	case SymbolAdd:
		return some(left + right), nil
	case SymbolSubtract:
		return some(left - right), nil
	case SymbolMultiply:
		return some(left * right), nil
	case SymbolDivide:
		return some(left / right), nil
	default:
		return Result{}, fmt.Errorf("evaluate %q: %w", e.pending.Operator, ErrUnsupportedOperator)
	}
}

// Operand returns the current operand, if one has been set.
func (e *Engine) Operand() (float64, bool) {
	return e.operand, e.hasOperand
}

// Pending returns the stored operation, if any.
func (e *Engine) Pending() (Pending, bool) {
	return e.pending, e.hasPending
}

// State reports whether a binary operation is waiting for its right operand.
func (e *Engine) State() State {
	if e.hasPending {
		return AwaitingSecondOperand
	}
	return Idle
}

// Evaluate computes a symbol b on a fresh engine.
func Evaluate(a float64, symbol string, b float64) (float64, error) {
	if !IsBinary(symbol) {
		return 0, fmt.Errorf("evaluate %q: %w", symbol, ErrUnsupportedOperator)
	}

	e := New()
	e.SetOperand(a)
	if _, err := e.Apply(symbol); err != nil {
		return 0, err
	}
	e.SetOperand(b)

	res, err := e.Apply(SymbolEquals)
	if err != nil {
		return 0, err
	}
	return res.Value, nil
}
