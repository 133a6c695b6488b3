// Package discount validates the fixed set of percentage discount codes.
package discount

import "strings"

var defaultCodes = map[string]int{
	"STUDENT10": 10,
	"STUDENT":   10,
	"SAVE15":    15,
	"WELCOME20": 20,
	"WELCOME":   20,
	"FIRST25":   25,
	"NEWUSER":   25,
}

type Engine struct {
	codes map[string]int
}

func NewEngine() *Engine {
	return &Engine{codes: defaultCodes}
}

// NewEngineWithCodes builds an engine over a custom code table. Codes are
// matched case-insensitively.
func NewEngineWithCodes(codes map[string]int) *Engine {
	normalized := make(map[string]int, len(codes))
	for code, pct := range codes {
		normalized[normalize(code)] = pct
	}
	return &Engine{codes: normalized}
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Lookup returns the percentage for code and whether the code exists.
func (e *Engine) Lookup(code string) (int, bool) {
	pct, ok := e.codes[normalize(code)]
	return pct, ok
}

// Validate returns the percentage for code, or 0 for an unknown code.
func (e *Engine) Validate(code string) int {
	pct, _ := e.Lookup(code)
	return pct
}

// Apply returns originalPrice reduced by percent, rounded down to a whole toman.
func Apply(originalPrice int64, percent int) int64 {
	if percent <= 0 {
		return originalPrice
	}
	if percent >= 100 {
		return 0
	}
	return originalPrice * int64(100-percent) / 100
}
