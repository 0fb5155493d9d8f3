// Package aggregate enriches pre-computed per-product period statistics
// into weekly, monthly and yearly rollup records. The change fields come
// from the earliest and latest daily observation inside the period's date
// range, never from the period average.
package aggregate

import (
	"context"
	"time"

	"agriprice/internal/calendar"
	"agriprice/internal/models"
	"agriprice/internal/pricing"

	"go.uber.org/zap"
)

// PeriodStats is one pre-aggregated statistics row for a product and
// period, as produced by a GROUP BY over the daily table.
type PeriodStats struct {
	ProductCode string
	PriceCount  int64
	AvgPrice    float64
	MinPrice    int64
	MaxPrice    int64
}

// PriceRange is the slice of the daily-price store the aggregators need.
type PriceRange interface {
	FirstPriceInRange(ctx context.Context, productCode string, start, end time.Time) (price int64, found bool, err error)
	LastPriceInRange(ctx context.Context, productCode string, start, end time.Time) (price int64, found bool, err error)
}

type Aggregator struct {
	prices PriceRange
	logger *zap.Logger
}

func New(prices PriceRange, logger *zap.Logger) *Aggregator {
	return &Aggregator{prices: prices, logger: logger}
}

// endpoints resolves the first and last daily price of a period. A missing
// endpoint is logged and reported as not-ok; it is a data gap, not an
// error.
func (a *Aggregator) endpoints(ctx context.Context, productCode string, start, end time.Time) (first, last int64, ok bool, err error) {
	first, foundFirst, err := a.prices.FirstPriceInRange(ctx, productCode, start, end)
	if err != nil {
		return 0, 0, false, err
	}
	last, foundLast, err := a.prices.LastPriceInRange(ctx, productCode, start, end)
	if err != nil {
		return 0, 0, false, err
	}
	if !foundFirst || !foundLast {
		a.logger.Warn("period endpoints missing, defaulting change to zero",
			zap.String("productCode", productCode),
			zap.Time("start", start),
			zap.Time("end", end))
		return 0, 0, false, nil
	}
	return first, last, true, nil
}

// periodChange derives the change fields from period endpoints. A missing
// or non-positive start price yields zeros.
func periodChange(first, last int64, ok bool) (change int64, rate float64) {
	if !ok || first <= 0 {
		return 0, 0
	}
	change = last - first
	return change, pricing.ChangeRate(change, first)
}

// Weekly builds the rollup for an ISO (year, week). A stats row with a
// zero count produces no record.
func (a *Aggregator) Weekly(ctx context.Context, stats PeriodStats, year, week int) (*models.WeeklyPrice, error) {
	if stats.PriceCount == 0 {
		return nil, nil
	}

	start := calendar.WeekStart(year, week)
	end := calendar.WeekEnd(year, week)
	first, last, ok, err := a.endpoints(ctx, stats.ProductCode, start, end)
	if err != nil {
		return nil, err
	}
	change, rate := periodChange(first, last, ok)

	return &models.WeeklyPrice{
		ProductCode:     stats.ProductCode,
		PriceYear:       year,
		WeekNumber:      week,
		StartDate:       start,
		EndDate:         end,
		AvgPrice:        stats.AvgPrice,
		MinPrice:        stats.MinPrice,
		MaxPrice:        stats.MaxPrice,
		PriceCount:      stats.PriceCount,
		PriceChange:     change,
		PriceChangeRate: rate,
	}, nil
}

// Monthly builds the rollup for a calendar (year, month).
func (a *Aggregator) Monthly(ctx context.Context, stats PeriodStats, year, month int) (*models.MonthlyPrice, error) {
	if stats.PriceCount == 0 {
		return nil, nil
	}

	start := calendar.MonthStart(year, time.Month(month))
	end := calendar.MonthEnd(year, time.Month(month))
	first, last, ok, err := a.endpoints(ctx, stats.ProductCode, start, end)
	if err != nil {
		return nil, err
	}
	change, rate := periodChange(first, last, ok)

	return &models.MonthlyPrice{
		ProductCode:     stats.ProductCode,
		PriceYear:       year,
		PriceMonth:      month,
		AvgPrice:        stats.AvgPrice,
		MinPrice:        stats.MinPrice,
		MaxPrice:        stats.MaxPrice,
		PriceCount:      stats.PriceCount,
		PriceChange:     change,
		PriceChangeRate: rate,
	}, nil
}

// Yearly builds the rollup for a calendar year, recording the raw start
// and end prices; a missing endpoint leaves them zero.
func (a *Aggregator) Yearly(ctx context.Context, stats PeriodStats, year int) (*models.YearlyPrice, error) {
	if stats.PriceCount == 0 {
		return nil, nil
	}

	start := calendar.YearStart(year)
	end := calendar.YearEnd(year)
	first, last, ok, err := a.endpoints(ctx, stats.ProductCode, start, end)
	if err != nil {
		return nil, err
	}
	if !ok {
		first, last = 0, 0
	}

	return &models.YearlyPrice{
		ProductCode: stats.ProductCode,
		PriceYear:   year,
		AvgPrice:    stats.AvgPrice,
		MinPrice:    stats.MinPrice,
		MaxPrice:    stats.MaxPrice,
		StartPrice:  first,
		EndPrice:    last,
		PriceCount:  stats.PriceCount,
	}, nil
}
