package calculator

import (
	"encoding/json"
	"math"

	"go-chi-calculator/internal/engine"
	"go-chi-calculator/internal/keypad"
)

// Number is a float64 whose JSON form survives division by zero: finite
// values encode as numbers, ±Inf and NaN as "+Inf", "-Inf" and "NaN".
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return json.Marshal(keypad.FormatDisplay(f))
	}
	return json.Marshal(f)
}

func numberPtr(v float64) *Number {
	n := Number(v)
	return &n
}

// CalcRequest is the JSON body for binary operations (add, subtract, multiply, divide).
type CalcRequest struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// CalcResponse is the JSON response for binary operations.
type CalcResponse struct {
	Operation string  `json:"operation"`
	Symbol    string  `json:"symbol"`
	A         float64 `json:"a"`
	B         float64 `json:"b"`
	Result    Number  `json:"result"`
}

// ChainStep describes a single step in a chained calculation.
type ChainStep struct {
	Op    string  `json:"op"`    // operation name ("add") or symbol ("+", "%", "+/-")
	Value float64 `json:"value"` // right operand; ignored by immediate symbols
}

// ChainRequest is the JSON body for POST /calculator/chain.
type ChainRequest struct {
	Initial float64     `json:"initial"` // starting value
	Steps   []ChainStep `json:"steps"`
}

// ChainResponse is the JSON response for POST /calculator/chain.
type ChainResponse struct {
	Initial float64       `json:"initial"`
	Steps   []ChainResult `json:"steps"`
	Result  Number        `json:"result"`
}

// ChainResult records one executed step.
type ChainResult struct {
	Op     string  `json:"op"`
	Symbol string  `json:"symbol"`
	Value  float64 `json:"value"`
	Result Number  `json:"result"`
}

// KeysRequest is the JSON body for POST /calculator/sessions/{id}/keys.
type KeysRequest struct {
	Keys []string `json:"keys"`
}

// ApplyRequest is the JSON body for POST /calculator/sessions/{id}/apply.
// When Operand is set it replaces the display before Symbol is applied.
type ApplyRequest struct {
	Operand *float64 `json:"operand,omitempty"`
	Symbol  string   `json:"symbol"`
}

// ApplyResponse reports the engine's answer. Result is omitted when the
// engine is waiting for another operand.
type ApplyResponse struct {
	HasResult bool        `json:"has_result"`
	Result    *Number     `json:"result,omitempty"`
	Session   SessionView `json:"session"`
}

// PendingView is the stored half of a binary operation.
type PendingView struct {
	LeftOperand Number `json:"left_operand"`
	Operator    string `json:"operator"`
}

// SessionView is the JSON representation of a calculator session.
type SessionView struct {
	ID      string       `json:"id"`
	Display string       `json:"display"`
	State   string       `json:"state"`
	Operand *Number      `json:"operand,omitempty"`
	Pending *PendingView `json:"pending,omitempty"`
}

func newSessionView(id string, s keypad.Snapshot) SessionView {
	v := SessionView{
		ID:      id,
		Display: s.Display,
		State:   s.State.String(),
	}
	if s.HasOperand {
		v.Operand = numberPtr(s.Operand)
	}
	if s.HasPending {
		v.Pending = &PendingView{
			LeftOperand: Number(s.Pending.LeftOperand),
			Operator:    s.Pending.Operator,
		}
	}
	return v
}

func newApplyResponse(id string, res engine.Result, s keypad.Snapshot) ApplyResponse {
	resp := ApplyResponse{
		HasResult: res.Ok,
		Session:   newSessionView(id, s),
	}
	if res.Ok {
		resp.Result = numberPtr(res.Value)
	}
	return resp
}
