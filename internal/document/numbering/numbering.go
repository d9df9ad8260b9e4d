// Package numbering assigns sequential document numbers per type and year.
package numbering

import (
	"strconv"
	"strings"
	"time"

	"github.com/smallbiznis/facturier/internal/document/domain"
)

var prefixes = map[domain.DocumentType]string{
	domain.TypeInvoice: "FAC",
	domain.TypeQuote:   "DEV",
	domain.TypeReceipt: "REC",
}

// Prefix returns the number prefix of t, "DOC" for unknown types.
func Prefix(t domain.DocumentType) string {
	if p, ok := prefixes[t]; ok {
		return p
	}
	return "DOC"
}

// Next returns the number following the highest one already issued for
// docType in the year of now. Numbers of other years are ignored, so each
// type restarts at 001 every January.
func Next(docType domain.DocumentType, existing []domain.Document, now time.Time) string {
	prefix := Prefix(docType)
	scope := prefix + "-" + now.Format("2006") + "-"

	var highest int64
	for _, doc := range existing {
		if doc.Type != docType || !strings.HasPrefix(doc.Number, scope) {
			continue
		}
		seq, ok := trailingSequence(doc.Number)
		if ok && seq > highest {
			highest = seq
		}
	}

	number, err := Format(DefaultTemplate, prefix, now, highest+1)
	if err != nil {
		// DefaultTemplate always resolves and the sequence is positive.
		panic(err)
	}
	return number
}

// trailingSequence reads the leading digits of the last dash separated
// segment, so "FAC-2024-007" gives 7 and "FAC-2024-x" gives nothing.
func trailingSequence(number string) (int64, bool) {
	segment := number[strings.LastIndex(number, "-")+1:]
	end := 0
	for end < len(segment) && segment[end] >= '0' && segment[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	seq, err := strconv.ParseInt(segment[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return seq, true
}
