package ingest

import (
	"context"
	"errors"
	"time"

	"agriprice/internal/marketapi"

	"go.uber.org/zap"
)

// Fetcher is the slice of the quote API the source needs.
type Fetcher interface {
	DailyPricesByCategory(ctx context.Context, date time.Time, categoryCode string) ([]marketapi.PriceItem, error)
}

// Source yields raw quote items for one target date across a queue of
// category codes. It is a lazy, finite, non-restartable sequence: the
// current category is drained before the next one is fetched, and a failed
// or empty category only ends that sub-sequence. One bad category never
// stops ingestion of the rest.
type Source struct {
	fetcher Fetcher
	logger  *zap.Logger
	date    time.Time
	queue   []string
	buf     []marketapi.PriceItem
	pos     int
}

func NewSource(fetcher Fetcher, logger *zap.Logger, date time.Time, categoryCodes []string) *Source {
	queue := make([]string, len(categoryCodes))
	copy(queue, categoryCodes)

	return &Source{
		fetcher: fetcher,
		logger:  logger,
		date:    date,
		queue:   queue,
	}
}

// Next returns the next raw item, or ok=false once every category is
// exhausted. Remote failures are logged and skipped, never surfaced.
func (s *Source) Next(ctx context.Context) (marketapi.PriceItem, bool) {
	for {
		if s.pos < len(s.buf) {
			item := s.buf[s.pos]
			s.pos++
			return item, true
		}

		if len(s.queue) == 0 {
			return marketapi.PriceItem{}, false
		}

		category := s.queue[0]
		s.queue = s.queue[1:]

		items, err := s.fetcher.DailyPricesByCategory(ctx, s.date, category)
		switch {
		case errors.Is(err, marketapi.ErrNoData):
			s.logger.Info("no quotes for category, skipping",
				zap.String("category", category),
				zap.Time("date", s.date))
			continue
		case err != nil:
			s.logger.Warn("category fetch failed, skipping",
				zap.String("category", category),
				zap.Time("date", s.date),
				zap.Error(err))
			continue
		}

		s.buf = items
		s.pos = 0
	}
}
