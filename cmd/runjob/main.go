// runjob executes a single pipeline job and exits, for backfills and
// manual reruns. Parameters mirror the HTTP trigger API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"agriprice/internal/config"
	"agriprice/internal/database"
	"agriprice/internal/ingest"
	"agriprice/internal/jobs"
	"agriprice/internal/logging"
	"agriprice/internal/marketapi"
	"agriprice/internal/store"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	jobType := flag.String("job", "", "job to run: daily, weekly, monthly or yearly")
	date := flag.String("date", "", "target date for daily ingestion (YYYY-MM-DD, default yesterday)")
	category := flag.String("category", "", "restrict daily ingestion to one category code")
	year := flag.String("year", "", "rollup year")
	month := flag.String("month", "", "rollup month (monthly job)")
	week := flag.String("week", "", "rollup ISO week (weekly job)")
	timeout := flag.Duration("timeout", 30*time.Minute, "abort the run after this long")
	flag.Parse()

	if *jobType == "" {
		fmt.Fprintln(os.Stderr, "usage: runjob -job daily|weekly|monthly|yearly [options]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := logging.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	st := store.New(db)
	client := marketapi.NewClient(cfg.MarketAPIBaseURL, cfg.MarketAPIKey,
		time.Duration(cfg.MarketAPITimeout)*time.Second)
	runner := jobs.NewRunner(st, client, cfg, logger)

	opts := ingest.Options{
		TargetDate:   *date,
		CategoryCode: *category,
		Year:         *year,
		Month:        *month,
		Week:         *week,
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	switch *jobType {
	case jobs.JobDaily:
		err = runner.RunDaily(ctx, opts)
	case jobs.JobWeekly:
		err = runner.RunWeekly(ctx, opts)
	case jobs.JobMonthly:
		err = runner.RunMonthly(ctx, opts)
	case jobs.JobYearly:
		err = runner.RunYearly(ctx, opts)
	default:
		logger.Fatal("unknown job type", zap.String("jobType", *jobType))
	}
	if err != nil {
		logger.Fatal("job run failed", zap.String("jobType", *jobType), zap.Error(err))
	}
}
