package gateway

// ModelPrice is the USD cost per million input/output tokens.
type ModelPrice struct {
	Input  float64
	Output float64
}

// PriceTable maps exact model identifiers to prices. Unknown identifiers
// price at zero rather than failing.
type PriceTable map[string]ModelPrice

// DefaultPrices returns the built-in price table.
func DefaultPrices() PriceTable {
	return PriceTable{
		"gpt-4.1":                  {Input: 2.00, Output: 8.00},
		"gpt-4.1-mini":             {Input: 0.40, Output: 1.60},
		"gpt-4o":                   {Input: 2.50, Output: 10.00},
		"gpt-4o-mini":              {Input: 0.15, Output: 0.60},
		"claude-sonnet-4-20250514": {Input: 3.00, Output: 15.00},
		"claude-3-5-haiku-latest":  {Input: 0.80, Output: 4.00},
	}
}

// Cost converts accumulated usage into dollars for the given model.
func (t PriceTable) Cost(model string, u Usage) float64 {
	price := t[model]
	perInput := price.Input / 1_000_000
	perOutput := price.Output / 1_000_000
	return float64(u.InputTokens)*perInput + float64(u.OutputTokens)*perOutput
}
