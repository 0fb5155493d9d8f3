package ingest

import (
	"context"
	"fmt"
	"time"

	"agriprice/internal/marketapi"
	"agriprice/internal/models"
	"agriprice/internal/pricing"

	"go.uber.org/zap"
)

// Store is the slice of persistence the processor needs.
type Store interface {
	// ProductByCode returns nil without error when the code is unknown.
	ProductByCode(ctx context.Context, productCode string) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	DailyPriceExists(ctx context.Context, productCode string, date time.Time) (bool, error)
	// LatestPriceBefore returns the most recent price strictly before date.
	LatestPriceBefore(ctx context.Context, productCode string, date time.Time) (price int64, found bool, err error)
}

// Processor turns raw quote items into DailyPrice values: parse, resolve
// the product identity, drop already-ingested dates, derive the
// day-over-day change. Dropped items return (nil, nil); only persistence
// failures return an error, and only for the affected item.
type Processor struct {
	store  Store
	logger *zap.Logger
}

func NewProcessor(store Store, logger *zap.Logger) *Processor {
	return &Processor{store: store, logger: logger}
}

// Process handles one raw item for the target date. The returned
// DailyPrice is fully formed; callers persist it as-is.
func (p *Processor) Process(ctx context.Context, item marketapi.PriceItem, targetDate time.Time) (*models.DailyPrice, error) {
	price, ok := pricing.ParsePrice(item.PriceToday)
	if !ok {
		// No trade reported for this item on this day.
		p.logger.Debug("dropping item without a price",
			zap.String("itemCode", item.ItemCode),
			zap.String("raw", item.PriceToday))
		return nil, nil
	}

	product, err := p.resolveProduct(ctx, item)
	if err != nil {
		return nil, err
	}

	exists, err := p.store.DailyPriceExists(ctx, product.ProductCode, targetDate)
	if err != nil {
		return nil, fmt.Errorf("existence check for %s: %w", product.ProductCode, err)
	}
	if exists {
		// Idempotent re-run: the observation is already on record.
		return nil, nil
	}

	var priceChange int64
	var priceChangeRate float64
	prior, found, err := p.store.LatestPriceBefore(ctx, product.ProductCode, targetDate)
	if err != nil {
		return nil, fmt.Errorf("prior price lookup for %s: %w", product.ProductCode, err)
	}
	if found {
		priceChange = price - prior
		priceChangeRate = pricing.ChangeRate(priceChange, prior)
	}

	return &models.DailyPrice{
		ProductCode:     product.ProductCode,
		PriceDate:       targetDate,
		Price:           price,
		PriceChange:     priceChange,
		PriceChangeRate: priceChangeRate,
	}, nil
}

// resolveProduct maps the item/kind/rank triple to its canonical product,
// creating the product record on first sight.
func (p *Processor) resolveProduct(ctx context.Context, item marketapi.PriceItem) (*models.Product, error) {
	code := models.ProductCode(item.ItemCode, item.KindCode, item.RankCode)

	product, err := p.store.ProductByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("product lookup for %s: %w", code, err)
	}
	if product != nil {
		return product, nil
	}

	product = &models.Product{
		ProductCode: code,
		ItemCode:    item.ItemCode,
		KindCode:    item.KindCode,
		RankCode:    item.RankCode,
		ItemName:    item.ItemName,
		KindName:    item.KindName,
		Rank:        item.Rank,
		Unit:        item.Unit,
	}
	if err := p.store.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("product creation for %s: %w", code, err)
	}

	p.logger.Info("created product",
		zap.String("productCode", code),
		zap.String("itemName", item.ItemName))
	return product, nil
}
