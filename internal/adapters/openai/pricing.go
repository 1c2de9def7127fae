package openai

import (
	"slices"
	"unicode/utf8"
)

// Price is the USD cost per one million tokens.
type Price struct {
	Input  float64
	Output float64
}

// prices is keyed by model identifier.
var prices = map[string]Price{
	"gpt-4.1-nano": {Input: 0.10, Output: 0.40},
	"gpt-4.1-mini": {Input: 0.40, Output: 1.60},
	"gpt-4o-mini":  {Input: 0.15, Output: 0.60},
	"gpt-5-nano":   {Input: 0.05, Output: 0.40},
	"gpt-5-mini":   {Input: 0.25, Output: 2.00},
}

// PriceFor returns the price of model and whether it is known.
func PriceFor(model string) (Price, bool) {
	p, ok := prices[model]
	return p, ok
}

// Models lists the priced models in name order.
func Models() []string {
	out := make([]string, 0, len(prices))
	for m := range prices {
		out = append(out, m)
	}
	slices.Sort(out)
	return out
}

// Cost computes the charge for reported usage.
func Cost(model string, promptTokens, completionTokens int) float64 {
	p := prices[model]
	return float64(promptTokens)*p.Input/1e6 + float64(completionTokens)*p.Output/1e6
}

// Estimate is a pre-flight preview of a request's input cost. It is a
// character-count heuristic and is never used for reporting real usage.
type Estimate struct {
	Tokens int
	Cost   float64
}

// EstimateInput approximates tokens as characters/4 and prices them at the input rate.
func EstimateInput(model, text string) Estimate {
	tokens := utf8.RuneCountInString(text) / 4
	return Estimate{
		Tokens: tokens,
		Cost:   float64(tokens) * prices[model].Input / 1e6,
	}
}
