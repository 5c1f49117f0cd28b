package banksalad

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ledgerSheetName is the sheet BankSalad exports ledger rows into. A
// workbook without it produces an empty summary with one issue.
const ledgerSheetName = "가계부 내역"

// ParseWorkbook parses a BankSalad .xlsx export. Workbook bytes that cannot
// be opened at all are an error; everything past that point degrades to
// issues in the summary, never a failed parse.
func ParseWorkbook(data []byte, opts Options) (*ParseSummary, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := ""
	for _, name := range f.GetSheetList() {
		if name == ledgerSheetName {
			sheet = name
			break
		}
	}

	if sheet == "" {
		return &ParseSummary{
			Items:          []Record{},
			Issues:         []string{fmt.Sprintf("sheet %q not found in workbook", ledgerSheetName)},
			Counts:         map[TxnType]int{},
			SuspectedPairs: []SuspectedPair{},
		}, nil
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return &ParseSummary{
			Items:          []Record{},
			Issues:         []string{fmt.Sprintf("failed to read sheet %q: %v", sheet, err)},
			Counts:         map[TxnType]int{},
			SuspectedPairs: []SuspectedPair{},
		}, nil
	}

	return ParseRows(rows, opts), nil
}

// ParseCSV parses a statement exported as CSV, feeding the same pipeline the
// workbook path uses.
func ParseCSV(r io.Reader, opts Options) (*ParseSummary, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv statement: %w", err)
	}

	return ParseRows(rows, opts), nil
}
