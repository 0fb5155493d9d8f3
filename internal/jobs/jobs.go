// Package jobs orchestrates the scheduled pipeline runs: daily ingestion
// plus the weekly, monthly and yearly rollup jobs. Each run is a single
// sequential read → transform → write pipeline working in bounded chunks.
package jobs

import (
	"context"
	"fmt"
	"time"

	"agriprice/internal/aggregate"
	"agriprice/internal/calendar"
	"agriprice/internal/config"
	"agriprice/internal/ingest"
	"agriprice/internal/marketapi"
	"agriprice/internal/models"
	"agriprice/internal/store"

	"go.uber.org/zap"
)

// Job type identifiers, recorded on job_runs rows.
const (
	JobDaily   = "daily"
	JobWeekly  = "weekly"
	JobMonthly = "monthly"
	JobYearly  = "yearly"
)

type Runner struct {
	store  *store.Store
	client *marketapi.Client
	agg    *aggregate.Aggregator
	cfg    *config.Config
	logger *zap.Logger
}

func NewRunner(st *store.Store, client *marketapi.Client, cfg *config.Config, logger *zap.Logger) *Runner {
	return &Runner{
		store:  st,
		client: client,
		agg:    aggregate.New(st, logger),
		cfg:    cfg,
		logger: logger,
	}
}

// begin resolves parameters into a run-lock registration. Parameter
// violations and duplicate live runs both surface here, before any I/O.
func (r *Runner) begin(ctx context.Context, jobType, paramsKey string) (func(error), error) {
	run, err := r.store.BeginRun(ctx, jobType, paramsKey)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	finish := func(runErr error) {
		if err := r.store.FinishRun(ctx, run, runErr); err != nil {
			r.logger.Error("failed to close job run",
				zap.String("jobType", jobType),
				zap.Error(err))
		}
		r.logger.Info("job run finished",
			zap.String("jobType", jobType),
			zap.String("params", paramsKey),
			zap.Duration("took", time.Since(started)),
			zap.Bool("failed", runErr != nil))
	}
	return finish, nil
}

// RunDaily ingests one target date. With an explicit category option only
// that category is read; otherwise every configured category is drained in
// order.
func (r *Runner) RunDaily(ctx context.Context, opts ingest.Options) error {
	params, err := ingest.Resolve(opts, time.Now(), r.cfg.DefaultCategory)
	if err != nil {
		return err
	}

	categories := r.cfg.CategoryCodes
	scope := "all"
	if opts.CategoryCode != "" {
		categories = []string{params.CategoryCode}
		scope = params.CategoryCode
	}

	paramsKey := params.TargetDate.Format("2006-01-02") + "|" + scope
	finish, err := r.begin(ctx, JobDaily, paramsKey)
	if err != nil {
		return err
	}

	var runErr error
	defer func() { finish(runErr) }()

	source := ingest.NewSource(r.client, r.logger, params.TargetDate, categories)
	processor := ingest.NewProcessor(r.store, r.logger)
	writer := ingest.NewWriter(r.store, r.logger)

	var (
		batch     = make([]models.DailyPrice, 0, r.cfg.ChunkSize)
		processed int
		inserted  int64
		failed    int
	)
	for {
		item, ok := source.Next(ctx)
		if !ok {
			break
		}
		processed++

		record, err := processor.Process(ctx, item, params.TargetDate)
		if err != nil {
			// Fatal for this item only; unrelated records continue.
			failed++
			r.logger.Error("item processing failed",
				zap.String("itemCode", item.ItemCode),
				zap.Error(err))
			continue
		}
		if record == nil {
			continue
		}

		batch = append(batch, *record)
		if len(batch) >= r.cfg.ChunkSize {
			inserted += writer.Write(ctx, batch)
			batch = batch[:0]
		}
	}
	inserted += writer.Write(ctx, batch)

	r.logger.Info("daily ingestion complete",
		zap.Time("targetDate", params.TargetDate),
		zap.Strings("categories", categories),
		zap.Int("itemsRead", processed),
		zap.Int64("rowsInserted", inserted),
		zap.Int("itemsFailed", failed))
	return nil
}

// RunWeekly rolls up one ISO (year, week).
func (r *Runner) RunWeekly(ctx context.Context, opts ingest.Options) error {
	params, err := ingest.Resolve(opts, time.Now(), r.cfg.DefaultCategory)
	if err != nil {
		return err
	}

	paramsKey := fmt.Sprintf("%04d-W%02d", params.Year, params.Week)
	finish, err := r.begin(ctx, JobWeekly, paramsKey)
	if err != nil {
		return err
	}

	var runErr error
	defer func() { finish(runErr) }()

	start := calendar.WeekStart(params.Year, params.Week)
	end := calendar.WeekEnd(params.Year, params.Week)
	runErr = r.rollup(ctx, paramsKey, start, end, func(ctx context.Context, stats aggregate.PeriodStats) error {
		row, err := r.agg.Weekly(ctx, stats, params.Year, params.Week)
		if err != nil || row == nil {
			return err
		}
		return r.store.UpsertWeeklyPrice(ctx, row)
	})
	return runErr
}

// RunMonthly rolls up one calendar (year, month).
func (r *Runner) RunMonthly(ctx context.Context, opts ingest.Options) error {
	params, err := ingest.Resolve(opts, time.Now(), r.cfg.DefaultCategory)
	if err != nil {
		return err
	}

	paramsKey := fmt.Sprintf("%04d-%02d", params.Year, params.Month)
	finish, err := r.begin(ctx, JobMonthly, paramsKey)
	if err != nil {
		return err
	}

	var runErr error
	defer func() { finish(runErr) }()

	start := calendar.MonthStart(params.Year, time.Month(params.Month))
	end := calendar.MonthEnd(params.Year, time.Month(params.Month))
	runErr = r.rollup(ctx, paramsKey, start, end, func(ctx context.Context, stats aggregate.PeriodStats) error {
		row, err := r.agg.Monthly(ctx, stats, params.Year, params.Month)
		if err != nil || row == nil {
			return err
		}
		return r.store.UpsertMonthlyPrice(ctx, row)
	})
	return runErr
}

// RunYearly rolls up one calendar year.
func (r *Runner) RunYearly(ctx context.Context, opts ingest.Options) error {
	params, err := ingest.Resolve(opts, time.Now(), r.cfg.DefaultCategory)
	if err != nil {
		return err
	}

	paramsKey := fmt.Sprintf("%04d", params.Year)
	finish, err := r.begin(ctx, JobYearly, paramsKey)
	if err != nil {
		return err
	}

	var runErr error
	defer func() { finish(runErr) }()

	start := calendar.YearStart(params.Year)
	end := calendar.YearEnd(params.Year)
	runErr = r.rollup(ctx, paramsKey, start, end, func(ctx context.Context, stats aggregate.PeriodStats) error {
		row, err := r.agg.Yearly(ctx, stats, params.Year)
		if err != nil || row == nil {
			return err
		}
		return r.store.UpsertYearlyPrice(ctx, row)
	})
	return runErr
}

// rollup drives one aggregation run: fetch the period's stats rows, then
// enrich and upsert per product. A failure on one product is logged and
// the rest proceed; the run only fails when the stats query itself fails.
func (r *Runner) rollup(ctx context.Context, paramsKey string, start, end time.Time, apply func(context.Context, aggregate.PeriodStats) error) error {
	statsRows, err := r.store.StatsInRange(ctx, start, end)
	if err != nil {
		return fmt.Errorf("stats query for %s: %w", paramsKey, err)
	}
	if len(statsRows) == 0 {
		r.logger.Info("no observations in period, nothing to roll up",
			zap.String("period", paramsKey))
		return nil
	}

	var failed int
	for _, stats := range statsRows {
		if err := apply(ctx, stats); err != nil {
			failed++
			r.logger.Error("rollup failed for product",
				zap.String("period", paramsKey),
				zap.String("productCode", stats.ProductCode),
				zap.Error(err))
		}
	}

	r.logger.Info("rollup complete",
		zap.String("period", paramsKey),
		zap.Int("products", len(statsRows)),
		zap.Int("failed", failed))
	return nil
}
