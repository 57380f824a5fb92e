package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var germanPrinter = message.NewPrinter(language.German)

// FormatDollars renders an amount with German digit grouping, e.g. $1.234.
func FormatDollars(amount int64) string {
	return "$" + germanPrinter.Sprintf("%d", amount)
}

// Truncate shortens s to at most max runes, marking the cut with "...".
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// FormatCount renders n with German digit grouping.
func FormatCount(n int64) string {
	return germanPrinter.Sprintf("%d", n)
}
