package metrics

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"receiving-dashboard/internal/models"
	"receiving-dashboard/internal/receiving"

	"gorm.io/gorm"
)

const dayKey = "2006-01-02"

// TrendPoint is one day of the error-rate trend.
type TrendPoint struct {
	Date           time.Time
	ProblemUnits   int
	EstimatedUnits int
	OrdersReceived int
	Rate           float64
}

type MonthlySummary struct {
	Year             int
	Month            time.Month
	DaysWithBaseline int
	OrdersReceived   int
	EstimatedUnits   int
	// Problem units on days that have a baseline; the numerator of Rate.
	ProblemUnits int
	// Problem tags found on days without a receiving record or with zero estimated units.
	UnbaselinedDays  []time.Time
	UnbaselinedUnits int
	// Rate is nil when the month has no estimated units.
	Rate          *float64
	ByProblemType map[models.ProblemType]int
}

// Engine computes error rates from problem tag quantities over the daily receiving baseline.
type Engine struct {
	db        *gorm.DB
	receiving *receiving.Store
}

func NewEngine(db *gorm.DB, receivingStore *receiving.Store) *Engine {
	return &Engine{db: db, receiving: receivingStore}
}

// DailyErrorRate is problem units found on date over that date's estimated units.
// ok is false when the day has no receiving record or zero estimated units.
func (e *Engine) DailyErrorRate(ctx context.Context, date time.Time) (rate float64, ok bool, err error) {
	day := receiving.Day(date)

	rec, err := e.receiving.Get(ctx, day)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("load baseline: %w", err)
	}
	if rec.EstimatedUnits <= 0 {
		return 0, false, nil
	}

	var total int64
	err = e.db.WithContext(ctx).
		Model(&models.ProblemTagLine{}).
		Joins("JOIN problem_tag_submissions ON problem_tag_submissions.id = problem_tag_lines.submission_id").
		Where("problem_tag_submissions.date_found = ?", day).
		Select("COALESCE(SUM(problem_tag_lines.quantity), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, false, fmt.Errorf("sum problem units: %w", err)
	}

	return float64(total) / float64(rec.EstimatedUnits), true, nil
}

// MonthlyTrend returns one point per day of the month that has a defined rate, ascending.
// Days with problem tags but no receiving record are left out.
func (e *Engine) MonthlyTrend(ctx context.Context, year int, month time.Month) ([]TrendPoint, error) {
	from, to := monthBounds(year, month)

	baselines, err := e.receiving.ListRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	units, _, err := e.problemUnits(ctx, from, to)
	if err != nil {
		return nil, err
	}

	points := make([]TrendPoint, 0, len(baselines))
	for _, b := range baselines {
		if b.EstimatedUnits <= 0 {
			continue
		}
		day := receiving.Day(b.Date)
		pu := units[day.Format(dayKey)]
		points = append(points, TrendPoint{
			Date:           day,
			ProblemUnits:   pu,
			EstimatedUnits: b.EstimatedUnits,
			OrdersReceived: b.OrdersReceived,
			Rate:           float64(pu) / float64(b.EstimatedUnits),
		})
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points, nil
}

// MonthlySummary rolls the month up into totals and an overall rate.
func (e *Engine) MonthlySummary(ctx context.Context, year int, month time.Month) (*MonthlySummary, error) {
	from, to := monthBounds(year, month)

	baselines, err := e.receiving.ListRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	units, byType, err := e.problemUnits(ctx, from, to)
	if err != nil {
		return nil, err
	}

	sum := &MonthlySummary{
		Year:            year,
		Month:           month,
		UnbaselinedDays: make([]time.Time, 0),
		ByProblemType:   byType,
	}

	// A record with zero estimated units has no defined rate; its units count as unbaselined.
	baselined := make(map[string]bool, len(baselines))
	for _, b := range baselines {
		sum.OrdersReceived += b.OrdersReceived
		if b.EstimatedUnits <= 0 {
			continue
		}
		key := receiving.Day(b.Date).Format(dayKey)
		baselined[key] = true
		sum.DaysWithBaseline++
		sum.EstimatedUnits += b.EstimatedUnits
		sum.ProblemUnits += units[key]
	}

	for key, u := range units {
		if baselined[key] {
			continue
		}
		d, _ := time.Parse(dayKey, key)
		sum.UnbaselinedDays = append(sum.UnbaselinedDays, d)
		sum.UnbaselinedUnits += u
	}
	sort.Slice(sum.UnbaselinedDays, func(i, j int) bool { return sum.UnbaselinedDays[i].Before(sum.UnbaselinedDays[j]) })

	if sum.EstimatedUnits > 0 {
		r := float64(sum.ProblemUnits) / float64(sum.EstimatedUnits)
		sum.Rate = &r
	}
	return sum, nil
}

// problemUnits totals line quantities per found-date and per problem type for [from, to).
func (e *Engine) problemUnits(ctx context.Context, from, to time.Time) (map[string]int, map[models.ProblemType]int, error) {
	var subs []models.ProblemTagSubmission
	err := e.db.WithContext(ctx).
		Where("date_found >= ? AND date_found < ?", from, to).
		Preload("Lines").
		Find(&subs).Error
	if err != nil {
		return nil, nil, fmt.Errorf("load problem tags: %w", err)
	}

	byDay := make(map[string]int)
	byType := make(map[models.ProblemType]int)
	for _, s := range subs {
		key := receiving.Day(s.DateFound).Format(dayKey)
		for _, ln := range s.Lines {
			byDay[key] += ln.Quantity
			byType[ln.ProblemType] += ln.Quantity
		}
	}
	return byDay, byType, nil
}

func monthBounds(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, 0)
}
