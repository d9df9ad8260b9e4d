package domain

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Number is a lenient decimal. It decodes from JSON numbers, numeric strings
// and null; anything else decodes to zero instead of failing the document.
type Number struct {
	decimal.Decimal
}

func NewNumber(v int64) Number {
	return Number{decimal.NewFromInt(v)}
}

func NumberFromDecimal(d decimal.Decimal) Number {
	return Number{d}
}

func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.Decimal.String()), nil
}

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0, bytes.Equal(b, []byte("null")):
		n.Decimal = decimal.Zero
	case b[0] == '"':
		var raw string
		if err := json.Unmarshal(b, &raw); err != nil {
			n.Decimal = decimal.Zero
			return nil
		}
		n.Decimal = ParseNumber(raw)
	default:
		d, err := decimal.NewFromString(string(b))
		if err != nil {
			d = decimal.Zero
		}
		n.Decimal = finite(d)
	}
	return nil
}

// Bounds of a finite float64, in powers of ten. Outside them a value reads as
// zero, like Infinity does.
const (
	maxMagnitude = 308
	minMagnitude = -324
)

func finite(d decimal.Decimal) decimal.Decimal {
	if d.IsZero() {
		return d
	}
	magnitude := int64(d.Exponent()) + int64(d.NumDigits()) - 1
	if magnitude > maxMagnitude || magnitude < minMagnitude {
		return decimal.Zero
	}
	return d
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

var digitGroupSeparators = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "")

// ParseNumber reads the leading decimal number of raw, the way a float parser
// reading user input would: "12.5 FCFA" is 12.5 and "abc" is 0. Space-like
// digit group separators are dropped first so "10 000" reads as 10000, and
// values outside the float64 range read as 0.
func ParseNumber(raw string) decimal.Decimal {
	raw = digitGroupSeparators.Replace(strings.TrimSpace(raw))
	match := leadingNumber.FindString(raw)
	if match == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(match)
	if err != nil {
		return decimal.Zero
	}
	return finite(d)
}

// RawAmount keeps the receipt amount as typed. It also accepts a JSON number.
type RawAmount string

func (a *RawAmount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0, bytes.Equal(b, []byte("null")):
		*a = ""
	case b[0] == '"':
		var raw string
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		*a = RawAmount(raw)
	default:
		*a = RawAmount(b)
	}
	return nil
}

// Value is the parsed amount, zero when unparseable.
func (a RawAmount) Value() decimal.Decimal {
	return ParseNumber(string(a))
}
