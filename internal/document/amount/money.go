package amount

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is the label printed after every amount.
const Currency = "FCFA"

// FormatMoney renders a whole-franc amount with space digit grouping,
// e.g. 1234567 → "1 234 567 FCFA".
func FormatMoney(v decimal.Decimal) string {
	return FormatNumber(v) + " " + Currency
}

// FormatNumber is FormatMoney without the currency label.
func FormatNumber(v decimal.Decimal) string {
	digits := v.Round(0).String()
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	if digits == "0" {
		sign = ""
	}

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
