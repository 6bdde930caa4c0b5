package ui

// Unicode symbols for status indicators.
const (
	SymbolFail     = "✗" // Phase failed
	SymbolPending  = "○" // Phase not yet started
	SymbolComplete = "●" // Phase done
)
