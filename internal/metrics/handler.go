package metrics

import (
	"bytes"
	"fmt"

	"receiving-dashboard/internal/receiving"

	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/slug"
)

type DailyRateResponse struct {
	Date    string   `json:"date"`
	Rate    *float64 `json:"rate"` // null when the day has no usable baseline
	Defined bool     `json:"defined"`
}

type TrendPointResponse struct {
	Date           string  `json:"date"`
	OrdersReceived int     `json:"orders_received"`
	EstimatedUnits int     `json:"estimated_units"`
	ProblemUnits   int     `json:"problem_units"`
	Rate           float64 `json:"rate"`
}

type TrendResponse struct {
	Year   int                  `json:"year"`
	Month  int                  `json:"month"`
	Points []TrendPointResponse `json:"points"`
}

type SummaryResponse struct {
	Year             int            `json:"year"`
	Month            int            `json:"month"`
	DaysWithBaseline int            `json:"days_with_baseline"`
	OrdersReceived   int            `json:"orders_received"`
	EstimatedUnits   int            `json:"estimated_units"`
	ProblemUnits     int            `json:"problem_units"`
	Rate             *float64       `json:"rate"`
	UnbaselinedDays  []string       `json:"unbaselined_days"`
	UnbaselinedUnits int            `json:"unbaselined_units"`
	ByProblemType    map[string]int `json:"by_problem_type"`
}

// GET /api/metrics/daily/:date
func DailyRateHandler(engine *Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, err := receiving.ParseDate("date", c.Params("date"))
		if err != nil {
			return err
		}

		rate, ok, err := engine.DailyErrorRate(c.UserContext(), d)
		if err != nil {
			return err
		}

		resp := DailyRateResponse{Date: d.Format(dayKey), Defined: ok}
		if ok {
			resp.Rate = &rate
		}
		return c.JSON(resp)
	}
}

// GET /api/metrics/monthly?year=2024&month=1
func MonthlyTrendHandler(engine *Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		year, month, err := receiving.YearMonthFromQuery(c)
		if err != nil {
			return err
		}

		points, err := engine.MonthlyTrend(c.UserContext(), year, month)
		if err != nil {
			return err
		}

		resp := TrendResponse{Year: year, Month: int(month), Points: make([]TrendPointResponse, 0, len(points))}
		for _, p := range points {
			resp.Points = append(resp.Points, TrendPointResponse{
				Date:           p.Date.Format(dayKey),
				OrdersReceived: p.OrdersReceived,
				EstimatedUnits: p.EstimatedUnits,
				ProblemUnits:   p.ProblemUnits,
				Rate:           p.Rate,
			})
		}
		return c.JSON(resp)
	}
}

// GET /api/metrics/monthly/summary?year=2024&month=1
func MonthlySummaryHandler(engine *Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		year, month, err := receiving.YearMonthFromQuery(c)
		if err != nil {
			return err
		}

		sum, err := engine.MonthlySummary(c.UserContext(), year, month)
		if err != nil {
			return err
		}

		resp := SummaryResponse{
			Year:             sum.Year,
			Month:            int(sum.Month),
			DaysWithBaseline: sum.DaysWithBaseline,
			OrdersReceived:   sum.OrdersReceived,
			EstimatedUnits:   sum.EstimatedUnits,
			ProblemUnits:     sum.ProblemUnits,
			Rate:             sum.Rate,
			UnbaselinedDays:  make([]string, 0, len(sum.UnbaselinedDays)),
			UnbaselinedUnits: sum.UnbaselinedUnits,
			ByProblemType:    make(map[string]int, len(sum.ByProblemType)),
		}
		for _, d := range sum.UnbaselinedDays {
			resp.UnbaselinedDays = append(resp.UnbaselinedDays, d.Format(dayKey))
		}
		for t, q := range sum.ByProblemType {
			resp.ByProblemType[string(t)] = q
		}
		return c.JSON(resp)
	}
}

// GET /api/metrics/monthly/export?year=2024&month=1
func ExportTrendHandler(engine *Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		year, month, err := receiving.YearMonthFromQuery(c)
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		if err := engine.ExportTrendXLSX(c.UserContext(), year, month, &buf); err != nil {
			return err
		}

		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, attachment("error rate", year, int(month), "xlsx"))
		return c.Send(buf.Bytes())
	}
}

// GET /api/metrics/monthly/report?year=2024&month=1
func MonthlyReportHandler(engine *Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		year, month, err := receiving.YearMonthFromQuery(c)
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		if err := engine.WriteMonthlyReportPDF(c.UserContext(), year, month, &buf); err != nil {
			return err
		}

		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, attachment("receiving report", year, int(month), "pdf"))
		return c.Send(buf.Bytes())
	}
}

func attachment(title string, year, month int, ext string) string {
	name := slug.Make(fmt.Sprintf("%s %04d %02d", title, year, month))
	return fmt.Sprintf(`attachment; filename="%s.%s"`, name, ext)
}
