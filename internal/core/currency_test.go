package core

import "testing"

func TestLookupCurrency(t *testing.T) {
	tests := []struct {
		code       string
		wantSymbol string
	}{
		{code: "USD", wantSymbol: "$"},
		{code: "INR", wantSymbol: "₹"},
		{code: "EUR", wantSymbol: "€"},
		{code: "JPY", wantSymbol: "¥"},
		{code: "NPR", wantSymbol: "रू"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			c := LookupCurrency(tt.code)
			if c.Code != tt.code || c.Symbol != tt.wantSymbol {
				t.Errorf("LookupCurrency(%q) = %+v", tt.code, c)
			}
		})
	}

	t.Run("unknown code falls back to USD", func(t *testing.T) {
		c := LookupCurrency("XYZ")
		if c.Code != "USD" {
			t.Errorf("fallback = %q, want USD", c.Code)
		}
	})
}
