package ingest

import (
	"context"

	"agriprice/internal/models"

	"go.uber.org/zap"
)

// BulkInserter persists a batch of daily prices, reporting how many rows
// actually landed.
type BulkInserter interface {
	InsertDailyPrices(ctx context.Context, records []models.DailyPrice) (int64, error)
}

// Writer persists bounded batches write-optimistically: a failed or
// partial insert is logged and the run moves on. Idempotency of future
// runs comes from the processor's existence check, not from the writer.
type Writer struct {
	inserter BulkInserter
	logger   *zap.Logger
}

func NewWriter(inserter BulkInserter, logger *zap.Logger) *Writer {
	return &Writer{inserter: inserter, logger: logger}
}

// Write persists one batch and returns the number of rows inserted.
func (w *Writer) Write(ctx context.Context, batch []models.DailyPrice) int64 {
	if len(batch) == 0 {
		return 0
	}

	inserted, err := w.inserter.InsertDailyPrices(ctx, batch)
	if err != nil {
		w.logger.Warn("batch insert failed, continuing with next batch",
			zap.Int("batchSize", len(batch)),
			zap.Error(err))
		return 0
	}
	if inserted < int64(len(batch)) {
		w.logger.Warn("partial batch insert",
			zap.Int("batchSize", len(batch)),
			zap.Int64("inserted", inserted))
	}

	return inserted
}
