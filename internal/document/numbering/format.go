package numbering

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	seqPadRe = regexp.MustCompile(`\{SEQ(\d+)\}`)
)

// DefaultTemplate renders numbers such as FAC-2024-001.
const DefaultTemplate = "{PREFIX}-{YYYY}-{SEQ3}"

// Format renders a document number from a template, the issue time and a
// positive sequence. Padded sequences widen past their width rather than
// being truncated, so {SEQ3} renders 1000 as "1000".
//
// This function is PURE:
// - No side effects
// - No storage access
// - Fully deterministic
func Format(
	template string,
	prefix string,
	issuedAt time.Time,
	seq int64,
) (string, error) {

	if template == "" {
		return "", fmt.Errorf("document number template is empty")
	}

	if seq <= 0 {
		return "", fmt.Errorf("invalid document sequence: %d", seq)
	}

	out := template

	out = strings.ReplaceAll(out, "{PREFIX}", prefix)

	// Date tokens
	out = strings.ReplaceAll(out, "{YYYY}", issuedAt.Format("2006"))
	out = strings.ReplaceAll(out, "{YY}", issuedAt.Format("06"))
	out = strings.ReplaceAll(out, "{MM}", issuedAt.Format("01"))
	out = strings.ReplaceAll(out, "{DD}", issuedAt.Format("02"))

	out = strings.ReplaceAll(out, "{SEQ}", strconv.FormatInt(seq, 10))

	out = seqPadRe.ReplaceAllStringFunc(out, func(m string) string {
		match := seqPadRe.FindStringSubmatch(m)
		if len(match) != 2 {
			return m
		}

		width, err := strconv.Atoi(match[1])
		if err != nil || width <= 0 {
			return m
		}

		return fmt.Sprintf("%0*d", width, seq)
	})

	if strings.Contains(out, "{") || strings.Contains(out, "}") {
		return "", fmt.Errorf("unresolved token in document number format: %s", out)
	}

	return out, nil
}
