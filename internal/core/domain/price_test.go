package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantAmount   float64
		wantCurrency string
		wantOK       bool
	}{
		{
			name:         "euro with space thousands and decimal comma",
			input:        "1 234,56 €",
			wantAmount:   1234.56,
			wantCurrency: "EUR",
			wantOK:       true,
		},
		{
			name:         "bare number falls back to default currency",
			input:        "999",
			wantAmount:   999.0,
			wantCurrency: "EUR",
			wantOK:       true,
		},
		{
			name:   "not available marker",
			input:  "N/A",
			wantOK: false,
		},
		{
			name:         "non-breaking space thousands",
			input:        "12 500 €",
			wantAmount:   12500,
			wantCurrency: "EUR",
			wantOK:       true,
		},
		{
			name:         "currency code prefix with decimal dot",
			input:        "EUR 120.50",
			wantAmount:   120.5,
			wantCurrency: "EUR",
			wantOK:       true,
		},
		{
			name:         "dollar symbol",
			input:        "$49.99",
			wantAmount:   49.99,
			wantCurrency: "USD",
			wantOK:       true,
		},
		{
			name:         "rouble symbol",
			input:        "10 000 ₽",
			wantAmount:   10000,
			wantCurrency: "RUB",
			wantOK:       true,
		},
		{
			name:         "thousands commas with no decimals",
			input:        "1,234,567",
			wantAmount:   1234567,
			wantCurrency: "EUR",
			wantOK:       true,
		},
		{
			name:         "thousands dots European style",
			input:        "1.234.567",
			wantAmount:   1234567,
			wantCurrency: "EUR",
			wantOK:       true,
		},
		{
			name:         "both separators with comma decimals",
			input:        "1.234,56",
			wantAmount:   1234.56,
			wantCurrency: "EUR",
			wantOK:       true,
		},
		{
			name:         "both separators with dot decimals",
			input:        "1,234.56",
			wantAmount:   1234.56,
			wantCurrency: "EUR",
			wantOK:       true,
		},
		{
			name:         "surrounding text",
			input:        "от 250 € за штуку",
			wantAmount:   250,
			wantCurrency: "EUR",
			wantOK:       true,
		},
		{
			name:   "empty input",
			input:  "",
			wantOK: false,
		},
		{
			name:   "no digits at all",
			input:  "по запросу",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, ok := ParsePrice(tt.input, "EUR")

			if !tt.wantOK {
				assert.False(t, ok)
				assert.Nil(t, price)
				return
			}

			require.True(t, ok)
			require.NotNil(t, price)
			assert.InDelta(t, tt.wantAmount, price.Amount, 0.001)
			assert.Equal(t, tt.wantCurrency, price.Currency)
		})
	}
}

func TestParsePrice_DefaultCurrency(t *testing.T) {
	price, ok := ParsePrice("42", "USD")

	require.True(t, ok)
	assert.Equal(t, "USD", price.Currency)
	assert.InDelta(t, 42.0, price.Amount, 0.001)
}

func TestPrice_String(t *testing.T) {
	p := Price{Amount: 1234.56, Currency: "EUR"}
	assert.Equal(t, "1234.56 EUR", p.String())
}
