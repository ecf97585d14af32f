package domain

import (
	"strconv"
	"strings"
)

// Currency markers recognised in free-text prices. Checked in order so that
// multi-character markers win over single symbols.
var currencyMarkers = []struct {
	marker   string
	currency string
}{
	{"EUR", "EUR"},
	{"USD", "USD"},
	{"RUB", "RUB"},
	{"GBP", "GBP"},
	{"€", "EUR"},
	{"$", "USD"},
	{"₽", "RUB"},
	{"£", "GBP"},
}

// ParsePrice extracts a numeric amount and currency from free-text price
// input such as "1 234,56 €", "999" or "EUR 120.50".
//
// It handles dot or comma as decimal separator, space and non-breaking-space
// thousands separators, and infers the currency from surrounding symbols or
// codes, falling back to defaultCurrency when the text carries none.
// Ambiguous or unparseable input returns (nil, false) rather than an error.
func ParsePrice(text, defaultCurrency string) (*Price, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}

	currency := ""
	upper := strings.ToUpper(text)
	for _, cm := range currencyMarkers {
		if strings.Contains(upper, cm.marker) {
			currency = cm.currency
			upper = strings.ReplaceAll(upper, cm.marker, " ")
			break
		}
	}
	if currency == "" {
		currency = defaultCurrency
	}

	amount, ok := parseAmount(upper)
	if !ok {
		return nil, false
	}
	return &Price{Amount: amount, Currency: currency}, true
}

// parseAmount extracts the first numeric token from text and normalises its
// separators. Returns false when no usable number is present.
func parseAmount(text string) (float64, bool) {
	// Collapse the space-like thousands separators so "1 234,56" scans as
	// one token. U+00A0 is the non-breaking space, U+202F the narrow one.
	for _, sep := range []string{" ", " "} {
		text = strings.ReplaceAll(text, sep, " ")
	}

	start := -1
	end := -1
	for i, r := range text {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			end = i + 1
			continue
		}
		if start >= 0 && (r == '.' || r == ',' || r == ' ') {
			// Separators are only part of the token while digits follow.
			continue
		}
		if start >= 0 {
			break
		}
	}
	if start < 0 {
		return 0, false
	}

	token := strings.TrimRight(text[start:end], ".,")
	token = strings.ReplaceAll(token, " ", "")

	lastComma := strings.LastIndex(token, ",")
	lastDot := strings.LastIndex(token, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		// Both present: the later one is the decimal separator.
		if lastComma > lastDot {
			token = strings.ReplaceAll(token, ".", "")
			token = strings.Replace(token, ",", ".", 1)
		} else {
			token = strings.ReplaceAll(token, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(token, ",") == 1 && len(token)-lastComma-1 <= 2 {
			// Decimal comma: "1234,56"
			token = strings.Replace(token, ",", ".", 1)
		} else {
			// Thousands commas: "1,234,567"
			token = strings.ReplaceAll(token, ",", "")
		}
	case lastDot >= 0:
		if strings.Count(token, ".") > 1 {
			// Thousands dots: "1.234.567"
			token = strings.ReplaceAll(token, ".", "")
		}
	}

	amount, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}
