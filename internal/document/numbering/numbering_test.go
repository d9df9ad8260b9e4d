package numbering

import (
	"fmt"
	"testing"
	"time"

	"github.com/smallbiznis/facturier/internal/document/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docs(t domain.DocumentType, numbers ...string) []domain.Document {
	out := make([]domain.Document, 0, len(numbers))
	for _, n := range numbers {
		out = append(out, domain.Document{Type: t, Number: n})
	}
	return out
}

func TestNext(t *testing.T) {
	at2024 := time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		docType  domain.DocumentType
		existing []domain.Document
		now      time.Time
		want     string
	}{
		{
			name:     "continues after highest",
			docType:  domain.TypeInvoice,
			existing: docs(domain.TypeInvoice, "FAC-2024-001", "FAC-2024-003"),
			now:      at2024,
			want:     "FAC-2024-004",
		},
		{
			name:    "first quote",
			docType: domain.TypeQuote,
			now:     at2024,
			want:    "DEV-2024-001",
		},
		{
			name:     "prior years are ignored",
			docType:  domain.TypeInvoice,
			existing: docs(domain.TypeInvoice, "FAC-2023-041"),
			now:      at2024,
			want:     "FAC-2024-001",
		},
		{
			name:     "other types are ignored",
			docType:  domain.TypeReceipt,
			existing: docs(domain.TypeInvoice, "REC-2024-009"),
			now:      at2024,
			want:     "REC-2024-001",
		},
		{
			name:     "non numeric suffixes are discarded",
			docType:  domain.TypeInvoice,
			existing: docs(domain.TypeInvoice, "FAC-2024-abc", "FAC-2024-002"),
			now:      at2024,
			want:     "FAC-2024-003",
		},
		{
			name:     "widens past 999",
			docType:  domain.TypeInvoice,
			existing: docs(domain.TypeInvoice, "FAC-2024-999"),
			now:      at2024,
			want:     "FAC-2024-1000",
		},
		{
			name:    "unknown type falls back to DOC",
			docType: domain.DocumentType("CREDIT"),
			now:     at2024,
			want:    "DOC-2024-001",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Next(tc.docType, tc.existing, tc.now))
		})
	}
}

func TestNext_SequenceIgnoresOtherTypes(t *testing.T) {
	now := time.Date(2024, time.November, 3, 15, 0, 0, 0, time.UTC)
	others := []domain.DocumentType{domain.TypeQuote, domain.TypeReceipt}

	var history []domain.Document
	for i := 1; i <= 1005; i++ {
		// interleave quotes and receipts between invoices, sometimes several
		for j := 0; j < i%3; j++ {
			other := others[(i+j)%2]
			history = append(history, domain.Document{Type: other, Number: Next(other, history, now)})
		}

		number := Next(domain.TypeInvoice, history, now)
		seq, ok := trailingSequence(number)
		require.True(t, ok, number)
		require.Equal(t, int64(i), seq, number)
		if i < 1000 {
			require.Equal(t, fmt.Sprintf("FAC-2024-%03d", i), number)
		}
		history = append(history, domain.Document{Type: domain.TypeInvoice, Number: number})
	}
	assert.Equal(t, "FAC-2024-1005", history[len(history)-1].Number)
}

func TestNext_IsDeterministic(t *testing.T) {
	now := time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)
	existing := docs(domain.TypeQuote, "DEV-2025-002", "DEV-2025-010")
	first := Next(domain.TypeQuote, existing, now)
	second := Next(domain.TypeQuote, existing, now)
	assert.Equal(t, first, second)
	assert.Equal(t, "DEV-2025-011", first)
}

func TestFormat(t *testing.T) {
	at := time.Date(2024, time.March, 7, 0, 0, 0, 0, time.UTC)

	got, err := Format("{PREFIX}{YY}{MM}{DD}/{SEQ}", "FAC", at, 12)
	require.NoError(t, err)
	assert.Equal(t, "FAC240307/12", got)

	got, err = Format(DefaultTemplate, "REC", at, 5)
	require.NoError(t, err)
	assert.Equal(t, "REC-2024-005", got)

	_, err = Format("", "FAC", at, 1)
	assert.Error(t, err)

	_, err = Format(DefaultTemplate, "FAC", at, 0)
	assert.Error(t, err)

	_, err = Format("{PREFIX}-{UNKNOWN}", "FAC", at, 1)
	assert.Error(t, err)
}
