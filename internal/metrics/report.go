package metrics

import (
	"context"
	"fmt"
	"io"
	"time"

	"receiving-dashboard/internal/models"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// WriteMonthlyReportPDF renders the month's summary and daily trend as a printable report.
func (e *Engine) WriteMonthlyReportPDF(ctx context.Context, year int, month time.Month, w io.Writer) error {
	sum, err := e.MonthlySummary(ctx, year, month)
	if err != nil {
		return err
	}
	points, err := e.MonthlyTrend(ctx, year, month)
	if err != nil {
		return err
	}

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()
	m := maroto.New(cfg)

	title := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
	m.AddRow(20,
		text.NewCol(12, "Receiving Error Rate: "+title, props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(30,
		col.New(6).Add(
			text.New(fmt.Sprintf("Error rate: %s", formatRate(sum.Rate)), props.Text{Style: fontstyle.Bold}),
			text.New(fmt.Sprintf("Problem units: %d", sum.ProblemUnits), props.Text{Top: 6}),
			text.New(fmt.Sprintf("Estimated units received: %d", sum.EstimatedUnits), props.Text{Top: 11}),
			text.New(fmt.Sprintf("Orders received: %d", sum.OrdersReceived), props.Text{Top: 16}),
		),
		col.New(6).Add(
			text.New(fmt.Sprintf("Days with a receiving record: %d", sum.DaysWithBaseline), props.Text{}),
			text.New(fmt.Sprintf("Days without usable units: %d", len(sum.UnbaselinedDays)), props.Text{Top: 6}),
			text.New(fmt.Sprintf("Units on those days: %d", sum.UnbaselinedUnits), props.Text{Top: 11}),
		),
	)

	m.AddRow(10, text.NewCol(12, "Problem units by type", props.Text{Style: fontstyle.Bold, Size: 11}))
	for _, pt := range models.ProblemTypes {
		m.AddRow(7,
			text.NewCol(6, string(pt), props.Text{Size: 9}),
			text.NewCol(2, fmt.Sprintf("%d", sum.ByProblemType[pt]), props.Text{Size: 9, Align: align.Right}),
			col.New(4),
		)
	}

	m.AddRow(14, text.NewCol(12, "Daily trend", props.Text{Style: fontstyle.Bold, Size: 11, Top: 6}))
	m.AddRow(8,
		text.NewCol(3, "Date", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Orders", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(3, "Est. units", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Problems", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Rate", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	if len(points) == 0 {
		m.AddRow(8, text.NewCol(12, "No receiving records for this month.", props.Text{Size: 9}))
	}
	for _, p := range points {
		rate := p.Rate
		m.AddRow(7,
			text.NewCol(3, p.Date.Format(dayKey), props.Text{Size: 9}),
			text.NewCol(2, fmt.Sprintf("%d", p.OrdersReceived), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(3, fmt.Sprintf("%d", p.EstimatedUnits), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, fmt.Sprintf("%d", p.ProblemUnits), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, formatRate(&rate), props.Text{Size: 9, Align: align.Right}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	if _, err := w.Write(doc.GetBytes()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func formatRate(rate *float64) string {
	if rate == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", *rate*100)
}
