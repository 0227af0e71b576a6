package engine

// Symbols understood by the engine.
const (
	SymbolNegate   = "+/-"
	SymbolClear    = "AC"
	SymbolPercent  = "%"
	SymbolEquals   = "="
	SymbolAdd      = "+"
	SymbolSubtract = "-"
	SymbolMultiply = "×"
	SymbolDivide   = "÷"
)

var binarySymbols = map[string]struct{}{
	SymbolAdd:      {},
	SymbolSubtract: {},
	SymbolMultiply: {},
	SymbolDivide:   {},
}

var immediateSymbols = map[string]struct{}{
	SymbolNegate:  {},
	SymbolClear:   {},
	SymbolPercent: {},
}

// aliases lets ASCII-only clients reach every symbol.
var aliases = map[string]string{
	"*":  SymbolMultiply,
	"x":  SymbolMultiply,
	"X":  SymbolMultiply,
	"/":  SymbolDivide,
	"+-": SymbolNegate,
	"C":  SymbolClear,
	"c":  SymbolClear,
}

// operations maps operation names used by the HTTP API to symbols.
var operations = map[string]string{
	"add":      SymbolAdd,
	"subtract": SymbolSubtract,
	"multiply": SymbolMultiply,
	"divide":   SymbolDivide,
	"negate":   SymbolNegate,
	"percent":  SymbolPercent,
	"clear":    SymbolClear,
}

// IsBinary reports whether symbol needs a second operand.
func IsBinary(symbol string) bool {
	_, ok := binarySymbols[symbol]
	return ok
}

// IsImmediate reports whether symbol acts on the current operand alone.
func IsImmediate(symbol string) bool {
	_, ok := immediateSymbols[symbol]
	return ok
}

// Known reports whether symbol is part of the calculator vocabulary.
func Known(symbol string) bool {
	return IsBinary(symbol) || IsImmediate(symbol) || symbol == SymbolEquals
}

// Canonical resolves aliases and reports whether the result is a known symbol.
func Canonical(symbol string) (string, bool) {
	if Known(symbol) {
		return symbol, true
	}
	if s, ok := aliases[symbol]; ok {
		return s, true
	}
	return symbol, false
}

// SymbolForOperation returns the symbol for an operation name such as "add"
// or "negate". There is no name for "=".
func SymbolForOperation(name string) (string, bool) {
	s, ok := operations[name]
	return s, ok
}
