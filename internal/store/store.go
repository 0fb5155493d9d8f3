// Package store is the persistence layer for products, price
// observations, rollups and job runs, backed by MySQL through gorm.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agriprice/internal/aggregate"
	"agriprice/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrRunInProgress reports that a run with identical parameters is already
// live; overlapping triggers are rejected, not queued.
var ErrRunInProgress = errors.New("store: job run already in progress")

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// --- products ---

// ProductByCode returns nil without error when the code is unknown.
func (s *Store) ProductByCode(ctx context.Context, productCode string) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).Where("product_code = ?", productCode).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	return s.db.WithContext(ctx).Create(product).Error
}

// --- daily prices ---

func (s *Store) DailyPriceExists(ctx context.Context, productCode string, date time.Time) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.DailyPrice{}).
		Where("product_code = ? AND price_date = ?", productCode, date).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// LatestPriceBefore returns the most recent price strictly before date.
func (s *Store) LatestPriceBefore(ctx context.Context, productCode string, date time.Time) (int64, bool, error) {
	var row models.DailyPrice
	err := s.db.WithContext(ctx).
		Where("product_code = ? AND price_date < ?", productCode, date).
		Order("price_date DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return row.Price, true, nil
}

// FirstPriceInRange returns the earliest price within [start, end].
func (s *Store) FirstPriceInRange(ctx context.Context, productCode string, start, end time.Time) (int64, bool, error) {
	return s.priceInRange(ctx, productCode, start, end, "price_date ASC")
}

// LastPriceInRange returns the latest price within [start, end].
func (s *Store) LastPriceInRange(ctx context.Context, productCode string, start, end time.Time) (int64, bool, error) {
	return s.priceInRange(ctx, productCode, start, end, "price_date DESC")
}

func (s *Store) priceInRange(ctx context.Context, productCode string, start, end time.Time, order string) (int64, bool, error) {
	var row models.DailyPrice
	err := s.db.WithContext(ctx).
		Where("product_code = ? AND price_date BETWEEN ? AND ?", productCode, start, end).
		Order(order).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return row.Price, true, nil
}

// InsertDailyPrices bulk-inserts a batch, silently skipping rows whose
// (product, date) key already exists, and reports rows actually written.
func (s *Store) InsertDailyPrices(ctx context.Context, records []models.DailyPrice) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&records)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// StatsInRange aggregates the daily table per product over [start, end].
// Products without observations in the range produce no row.
func (s *Store) StatsInRange(ctx context.Context, start, end time.Time) ([]aggregate.PeriodStats, error) {
	var stats []aggregate.PeriodStats
	err := s.db.WithContext(ctx).Model(&models.DailyPrice{}).
		Select("product_code, COUNT(*) AS price_count, AVG(price) AS avg_price, MIN(price) AS min_price, MAX(price) AS max_price").
		Where("price_date BETWEEN ? AND ?", start, end).
		Group("product_code").
		Order("product_code").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// --- rollups ---

func (s *Store) UpsertWeeklyPrice(ctx context.Context, row *models.WeeklyPrice) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(row).Error
}

func (s *Store) UpsertMonthlyPrice(ctx context.Context, row *models.MonthlyPrice) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(row).Error
}

func (s *Store) UpsertYearlyPrice(ctx context.Context, row *models.YearlyPrice) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(row).Error
}

// MonthlyPricesByYear lists a year's monthly rollups for export.
func (s *Store) MonthlyPricesByYear(ctx context.Context, year int) ([]models.MonthlyPrice, error) {
	var rows []models.MonthlyPrice
	err := s.db.WithContext(ctx).
		Where("price_year = ?", year).
		Order("product_code, price_month").
		Find(&rows).Error
	return rows, err
}

// --- job runs ---

// BeginRun registers a live run. The unique index on running_key turns a
// concurrent duplicate into ErrRunInProgress.
func (s *Store) BeginRun(ctx context.Context, jobType, paramsKey string) (*models.JobRun, error) {
	key := jobType + ":" + paramsKey
	run := &models.JobRun{
		JobType:    jobType,
		ParamsKey:  paramsKey,
		RunningKey: &key,
		Status:     models.RunStatusRunning,
		StartedAt:  time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(run).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s %s", ErrRunInProgress, jobType, paramsKey)
		}
		return nil, err
	}
	return run, nil
}

// FinishRun closes a run, clearing its running key so the parameter set
// becomes triggerable again.
func (s *Store) FinishRun(ctx context.Context, run *models.JobRun, runErr error) error {
	status := models.RunStatusCompleted
	errText := ""
	if runErr != nil {
		status = models.RunStatusFailed
		errText = runErr.Error()
	}
	now := time.Now()
	return s.db.WithContext(ctx).Model(run).Updates(map[string]interface{}{
		"running_key": nil,
		"status":      status,
		"error":       errText,
		"finished_at": now,
	}).Error
}
