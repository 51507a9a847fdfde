// Package format renders numbers as display text for reports.
package format

import (
	"fmt"
	"math"
	"strings"
)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	return CurrencyWithSymbol(amount, "$")
}

// CurrencyWithSymbol returns a currency string with the given prefix symbol.
// A symbol starting with a space is used as a suffix instead (e.g., " руб." gives "1,234.56 руб.").
func CurrencyWithSymbol(amount float64, symbol string) string {
	formatted := formatPositiveCurrency(math.Abs(amount))
	sign := ""
	if amount < 0 {
		sign = "-"
	}
	if strings.HasPrefix(symbol, " ") {
		return sign + formatted + symbol
	}
	return sign + symbol + formatted
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	return CurrencyWithSymbol(amount, "")
}

// Percent returns a signed percentage with two decimals (e.g., "+21.00%").
func Percent(value float64) string {
	return fmt.Sprintf("%+.2f%%", value)
}

// Delta returns a signed amount with separators (e.g., "+1,050.00").
func Delta(amount float64) string {
	if amount >= 0 {
		return "+" + NumericCurrency(amount)
	}
	return NumericCurrency(amount)
}

func formatPositiveCurrency(value float64) string {
	formatted := fmt.Sprintf("%.2f", value)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
