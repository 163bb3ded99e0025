package metrics

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const trendSheet = "Trend"

// ExportTrendXLSX writes the month's trend as a spreadsheet with a line chart of the daily rate.
func (e *Engine) ExportTrendXLSX(ctx context.Context, year int, month time.Month, w io.Writer) error {
	points, err := e.MonthlyTrend(ctx, year, month)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", trendSheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	header := []any{"Date", "Orders Received", "Estimated Units", "Problem Units", "Error Rate"}
	if err := f.SetSheetRow(trendSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, p := range points {
		cellName, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{p.Date.Format(dayKey), p.OrdersReceived, p.EstimatedUnits, p.ProblemUnits, p.Rate}
		if err := f.SetSheetRow(trendSheet, cellName, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if len(points) > 0 {
		last := len(points) + 1
		style, err := f.NewStyle(&excelize.Style{NumFmt: 10}) // 0.00%
		if err != nil {
			return fmt.Errorf("rate style: %w", err)
		}
		if err := f.SetCellStyle(trendSheet, "E2", fmt.Sprintf("E%d", last), style); err != nil {
			return fmt.Errorf("apply rate style: %w", err)
		}

		err = f.AddChart(trendSheet, "G2", &excelize.Chart{
			Type: excelize.Line,
			Series: []excelize.ChartSeries{{
				Name:       fmt.Sprintf("%s!$E$1", trendSheet),
				Categories: fmt.Sprintf("%s!$A$2:$A$%d", trendSheet, last),
				Values:     fmt.Sprintf("%s!$E$2:$E$%d", trendSheet, last),
			}},
		})
		if err != nil {
			return fmt.Errorf("add chart: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write spreadsheet: %w", err)
	}
	return nil
}
