package core

// Currency is display configuration for a currency code. It carries no
// behavior; amounts themselves are currency-agnostic.
type Currency struct {
	Code   string
	Symbol string
	Name   string
}

var currencies = map[string]Currency{
	"USD": {Code: "USD", Symbol: "$", Name: "US Dollar"},
	"INR": {Code: "INR", Symbol: "₹", Name: "Indian Rupee"},
	"EUR": {Code: "EUR", Symbol: "€", Name: "Euro"},
	"JPY": {Code: "JPY", Symbol: "¥", Name: "Japanese Yen"},
	"NPR": {Code: "NPR", Symbol: "रू", Name: "Nepali Rupee"},
}

// LookupCurrency returns display configuration for a currency code,
// falling back to USD for unrecognized codes.
func LookupCurrency(code string) Currency {
	if c, ok := currencies[code]; ok {
		return c
	}
	return currencies["USD"]
}
