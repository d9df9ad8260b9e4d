package backup

import (
	"context"
	"fmt"
	"io"

	"github.com/smallbiznis/facturier/internal/document/amount"
	"github.com/smallbiznis/facturier/internal/document/domain"
	"github.com/xuri/excelize/v2"
)

const (
	documentsSheet = "Documents"
	summarySheet   = "Summary"
)

var documentHeadings = []string{"Number", "Type", "Status", "Date", "Recipient", "Total", "Advance", "Balance"}

// Workbook writes the history as an XLSX file with a documents sheet and a
// summary sheet.
func (s *Service) Workbook(ctx context.Context, w io.Writer) error {
	docs, err := s.history.All(ctx)
	if err != nil {
		return fmt.Errorf("workbook documents: %w", err)
	}

	f, err := buildWorkbook(docs)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func buildWorkbook(docs []domain.Document) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", documentsSheet); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeRow(f, documentsSheet, 1, stringsToCells(documentHeadings)); err != nil {
		f.Close()
		return nil, err
	}

	for i, doc := range docs {
		row := []any{
			doc.Number,
			string(doc.Type),
			string(doc.Status),
			doc.Date,
			doc.Recipient.Name,
			amount.DocumentTotal(doc).InexactFloat64(),
			doc.Advance.InexactFloat64(),
			amount.Balance(doc).InexactFloat64(),
		}
		if err := writeRow(f, documentsSheet, i+2, row); err != nil {
			f.Close()
			return nil, err
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		f.Close()
		return nil, err
	}
	summary := amount.Summarize(docs)
	rows := [][]any{
		{"Cash collected", summary.Cash.InexactFloat64()},
		{"Outstanding", summary.Outstanding.InexactFloat64()},
		{"Revenue", summary.Revenue.InexactFloat64()},
		{"Documents", summary.DocumentCount},
		{"Currency", amount.Currency},
	}
	for i, row := range rows {
		if err := writeRow(f, summarySheet, i+1, row); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func writeRow(f *excelize.File, sheet string, rowNo int, values []any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, rowNo)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func stringsToCells(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
