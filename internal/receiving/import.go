package receiving

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"receiving-dashboard/internal/validation"

	"github.com/xuri/excelize/v2"
)

// Layouts accepted for the date column; spreadsheets rarely keep ISO dates.
var importDateLayouts = []string{DateLayout, "1/2/2006", "01-02-06", "1/2/06", "2006/01/02"}

type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type ImportResult struct {
	Imported int        `json:"imported"`
	Skipped  int        `json:"skipped"`
	Errors   []RowError `json:"errors"`
}

// ImportXLSX upserts every row of the first sheet: date | orders received | estimated units.
// A leading header row is skipped. Bad rows are reported and skipped; good rows are still saved.
func (s *Store) ImportXLSX(ctx context.Context, r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, validation.New("file", "spreadsheet could not be read: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, validation.New("file", "spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, validation.New("file", "sheet could not be read: %v", err)
	}

	res := &ImportResult{Errors: make([]RowError, 0)}
	for i, row := range rows {
		rowNum := i + 1
		if isBlank(row) {
			continue
		}
		if i == 0 && !looksLikeDate(cell(row, 0)) {
			continue
		}

		entry, err := parseRow(row)
		if err == nil {
			_, err = s.Upsert(ctx, entry)
		}
		if err != nil {
			if vErr, ok := validation.As(err); ok {
				res.Skipped++
				res.Errors = append(res.Errors, RowError{Row: rowNum, Message: vErr.Message})
				continue
			}
			return res, fmt.Errorf("import row %d: %w", rowNum, err)
		}
		res.Imported++
	}
	s.metrics.ObserveImport(res.Imported, res.Skipped)
	return res, nil
}

func parseRow(row []string) (Entry, error) {
	d, err := parseImportDate(cell(row, 0))
	if err != nil {
		return Entry{}, err
	}
	orders, err := parseCount("orders_received", cell(row, 1))
	if err != nil {
		return Entry{}, err
	}
	units, err := parseCount("estimated_units", cell(row, 2))
	if err != nil {
		return Entry{}, err
	}
	return Entry{Date: d, OrdersReceived: orders, EstimatedUnits: units}, nil
}

func parseImportDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range importDateLayouts {
		if d, err := time.Parse(layout, raw); err == nil {
			return d.UTC(), nil
		}
	}
	return time.Time{}, validation.New("date", "date %q is not a recognised date", raw)
}

func looksLikeDate(raw string) bool {
	_, err := parseImportDate(raw)
	return err == nil
}

func parseCount(field, raw string) (int, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if raw == "" {
		return 0, validation.New(field, "%s is required", field)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, validation.New(field, "%s %q is not a whole number", field, raw)
	}
	return n, nil
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
