package utils

import "github.com/shopspring/decimal"

// FormatWithPrecision formats an amount with the given number of decimal
// places. Used when stringifying monetary values and percentages for the
// settings audit log.
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	return amount.Round(int32(precision)).String()
}

// FormatAmount formats a monetary amount with the standard two decimal
// places.
func FormatAmount(amount decimal.Decimal) string {
	return FormatWithPrecision(amount, 2)
}
