package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"agriprice/internal/marketapi"
	"agriprice/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	products     map[string]*models.Product
	existing     map[string]bool  // productCode|date
	priors       map[string]int64 // productCode -> latest prior price
	createErr    error
	createdCodes []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products: map[string]*models.Product{},
		existing: map[string]bool{},
		priors:   map[string]int64{},
	}
}

func (f *fakeStore) ProductByCode(_ context.Context, code string) (*models.Product, error) {
	return f.products[code], nil
}

func (f *fakeStore) CreateProduct(_ context.Context, product *models.Product) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.products[product.ProductCode] = product
	f.createdCodes = append(f.createdCodes, product.ProductCode)
	return nil
}

func (f *fakeStore) DailyPriceExists(_ context.Context, code string, date time.Time) (bool, error) {
	return f.existing[code+"|"+date.Format("2006-01-02")], nil
}

func (f *fakeStore) LatestPriceBefore(_ context.Context, code string, _ time.Time) (int64, bool, error) {
	price, ok := f.priors[code]
	return price, ok, nil
}

var (
	targetDate = time.Date(2023, 5, 2, 0, 0, 0, 0, time.UTC)
	rawItem    = marketapi.PriceItem{
		ItemCode: "225", KindCode: "00", RankCode: "04",
		ItemName: "Watermelon", Unit: "1 ea", PriceToday: "1,100",
	}
)

func TestProcessComputesChangeAgainstPrior(t *testing.T) {
	store := newFakeStore()
	store.priors["P2250004"] = 1000

	processor := NewProcessor(store, zap.NewNop())
	record, err := processor.Process(context.Background(), rawItem, targetDate)
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.Equal(t, "P2250004", record.ProductCode)
	assert.Equal(t, targetDate, record.PriceDate)
	assert.Equal(t, int64(1100), record.Price)
	assert.Equal(t, int64(100), record.PriceChange)
	assert.Equal(t, 10.0, record.PriceChangeRate)
}

func TestProcessFirstObservationHasZeroChange(t *testing.T) {
	processor := NewProcessor(newFakeStore(), zap.NewNop())

	record, err := processor.Process(context.Background(), rawItem, targetDate)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, int64(0), record.PriceChange)
	assert.Equal(t, 0.0, record.PriceChangeRate)
}

func TestProcessDropsUnparseablePrice(t *testing.T) {
	store := newFakeStore()
	processor := NewProcessor(store, zap.NewNop())

	for _, raw := range []string{"-", "", "   "} {
		item := rawItem
		item.PriceToday = raw
		record, err := processor.Process(context.Background(), item, targetDate)
		require.NoError(t, err)
		assert.Nil(t, record, "raw=%q", raw)
	}
	// Nothing reached the product resolver.
	assert.Empty(t, store.createdCodes)
}

func TestProcessSkipsAlreadyIngestedDate(t *testing.T) {
	store := newFakeStore()
	store.existing["P2250004|2023-05-02"] = true

	processor := NewProcessor(store, zap.NewNop())
	record, err := processor.Process(context.Background(), rawItem, targetDate)
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestProcessResolvesProductDeterministically(t *testing.T) {
	store := newFakeStore()
	processor := NewProcessor(store, zap.NewNop())

	first, err := processor.Process(context.Background(), rawItem, targetDate)
	require.NoError(t, err)
	second, err := processor.Process(context.Background(), rawItem, targetDate.AddDate(0, 0, 1))
	require.NoError(t, err)

	assert.Equal(t, first.ProductCode, second.ProductCode)
	// The product row was only created once.
	assert.Equal(t, []string{"P2250004"}, store.createdCodes)
}

func TestProcessProductCreationFailure(t *testing.T) {
	store := newFakeStore()
	store.createErr = errors.New("duplicate entry")

	processor := NewProcessor(store, zap.NewNop())
	record, err := processor.Process(context.Background(), rawItem, targetDate)
	require.Error(t, err)
	assert.Nil(t, record)
}
