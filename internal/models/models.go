package models

import (
	"time"
)

// ProductCodePrefix is prepended to the item/kind/rank triple when deriving
// a product code, so codes cannot collide with raw item codes.
const ProductCodePrefix = "P"

// Product is one canonical commodity, identified by the external
// item/kind/rank triple. Rows are created on first sight of a triple and
// never updated or deleted by the pipeline.
type Product struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	ProductCode string    `json:"product_code" gorm:"uniqueIndex;size:32;not null"`
	ItemCode    string    `json:"item_code" gorm:"size:8;not null"`
	KindCode    string    `json:"kind_code" gorm:"size:8;not null"`
	RankCode    string    `json:"rank_code" gorm:"size:8;not null"`
	ItemName    string    `json:"item_name"`
	KindName    string    `json:"kind_name"`
	Rank        string    `json:"rank"`
	Unit        string    `json:"unit"`
	CreatedAt   time.Time `json:"created_at"`
}

// DailyPrice is one observation per product and date. Prices are integral
// KRW; PriceChange/PriceChangeRate compare against the latest prior
// observation for the same product.
type DailyPrice struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	ProductCode     string    `json:"product_code" gorm:"size:32;not null;uniqueIndex:uq_daily_product_date,priority:1"`
	PriceDate       time.Time `json:"price_date" gorm:"type:date;not null;uniqueIndex:uq_daily_product_date,priority:2"`
	Price           int64     `json:"price" gorm:"not null"`
	PriceChange     int64     `json:"price_change"`
	PriceChangeRate float64   `json:"price_change_rate"`
	CreatedAt       time.Time `json:"created_at"`
}

// WeeklyPrice is the ISO-week rollup of DailyPrice rows.
type WeeklyPrice struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	ProductCode     string    `json:"product_code" gorm:"size:32;not null;uniqueIndex:uq_weekly_product_period,priority:1"`
	PriceYear       int       `json:"price_year" gorm:"not null;uniqueIndex:uq_weekly_product_period,priority:2"`
	WeekNumber      int       `json:"week_number" gorm:"not null;uniqueIndex:uq_weekly_product_period,priority:3"`
	StartDate       time.Time `json:"start_date" gorm:"type:date"`
	EndDate         time.Time `json:"end_date" gorm:"type:date"`
	AvgPrice        float64   `json:"avg_price"`
	MinPrice        int64     `json:"min_price"`
	MaxPrice        int64     `json:"max_price"`
	PriceCount      int64     `json:"price_count"`
	PriceChange     int64     `json:"price_change"`
	PriceChangeRate float64   `json:"price_change_rate"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// MonthlyPrice is the calendar-month rollup of DailyPrice rows.
type MonthlyPrice struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	ProductCode     string    `json:"product_code" gorm:"size:32;not null;uniqueIndex:uq_monthly_product_period,priority:1"`
	PriceYear       int       `json:"price_year" gorm:"not null;uniqueIndex:uq_monthly_product_period,priority:2"`
	PriceMonth      int       `json:"price_month" gorm:"not null;uniqueIndex:uq_monthly_product_period,priority:3"`
	AvgPrice        float64   `json:"avg_price"`
	MinPrice        int64     `json:"min_price"`
	MaxPrice        int64     `json:"max_price"`
	PriceCount      int64     `json:"price_count"`
	PriceChange     int64     `json:"price_change"`
	PriceChangeRate float64   `json:"price_change_rate"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// YearlyPrice is the calendar-year rollup of DailyPrice rows. It keeps the
// raw first and last observed prices of the year instead of derived change
// fields; consumers compute the year-over-year delta themselves.
type YearlyPrice struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	ProductCode string    `json:"product_code" gorm:"size:32;not null;uniqueIndex:uq_yearly_product_period,priority:1"`
	PriceYear   int       `json:"price_year" gorm:"not null;uniqueIndex:uq_yearly_product_period,priority:2"`
	AvgPrice    float64   `json:"avg_price"`
	MinPrice    int64     `json:"min_price"`
	MaxPrice    int64     `json:"max_price"`
	StartPrice  int64     `json:"start_price"`
	EndPrice    int64     `json:"end_price"`
	PriceCount  int64     `json:"price_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// JobRun records one execution of a scheduled or manually triggered job.
// RunningKey holds jobType+params while the run is live and is cleared on
// completion; the unique index on it rejects a second concurrent run with
// identical parameters (MySQL unique indexes admit any number of NULLs).
type JobRun struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	JobType    string     `json:"job_type" gorm:"size:16;not null;index"`
	ParamsKey  string     `json:"params_key" gorm:"size:128;not null"`
	RunningKey *string    `json:"-" gorm:"size:160;uniqueIndex"`
	Status     string     `json:"status" gorm:"size:16;not null"` // running, completed, failed
	Error      string     `json:"error" gorm:"type:text"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`
}

// Job run statuses.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// ProductCode derives the canonical code for an item/kind/rank triple.
// The same triple always yields the same code.
func ProductCode(itemCode, kindCode, rankCode string) string {
	return ProductCodePrefix + itemCode + kindCode + rankCode
}
