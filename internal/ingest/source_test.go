package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"agriprice/internal/marketapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeFetcher struct {
	items map[string][]marketapi.PriceItem
	errs  map[string]error
	calls []string
}

func (f *fakeFetcher) DailyPricesByCategory(_ context.Context, _ time.Time, categoryCode string) ([]marketapi.PriceItem, error) {
	f.calls = append(f.calls, categoryCode)
	if err, ok := f.errs[categoryCode]; ok {
		return nil, err
	}
	items, ok := f.items[categoryCode]
	if !ok || len(items) == 0 {
		return nil, marketapi.ErrNoData
	}
	return items, nil
}

func drain(t *testing.T, s *Source) []marketapi.PriceItem {
	t.Helper()
	var out []marketapi.PriceItem
	for {
		item, ok := s.Next(context.Background())
		if !ok {
			return out
		}
		out = append(out, item)
	}
}

func TestSourceDrainsCategoriesInOrder(t *testing.T) {
	fetcher := &fakeFetcher{items: map[string][]marketapi.PriceItem{
		"100": {{ItemCode: "111"}, {ItemCode: "112"}},
		"200": {{ItemCode: "221"}},
	}}

	source := NewSource(fetcher, zap.NewNop(), time.Now(), []string{"100", "200"})
	items := drain(t, source)

	require.Len(t, items, 3)
	assert.Equal(t, "111", items[0].ItemCode)
	assert.Equal(t, "112", items[1].ItemCode)
	assert.Equal(t, "221", items[2].ItemCode)
	assert.Equal(t, []string{"100", "200"}, fetcher.calls)
}

func TestSourceSkipsFailingCategory(t *testing.T) {
	fetcher := &fakeFetcher{
		items: map[string][]marketapi.PriceItem{
			"200": {{ItemCode: "221"}, {ItemCode: "222"}},
		},
		errs: map[string]error{"100": errors.New("connection reset")},
	}

	source := NewSource(fetcher, zap.NewNop(), time.Now(), []string{"100", "200"})
	items := drain(t, source)

	require.Len(t, items, 2)
	assert.Equal(t, "221", items[0].ItemCode)
	assert.Equal(t, "222", items[1].ItemCode)
}

func TestSourceEmptyEverywhere(t *testing.T) {
	fetcher := &fakeFetcher{}
	source := NewSource(fetcher, zap.NewNop(), time.Now(), []string{"100", "200", "300"})

	assert.Empty(t, drain(t, source))
	assert.Equal(t, []string{"100", "200", "300"}, fetcher.calls)

	// The sequence is finite and stays ended.
	_, ok := source.Next(context.Background())
	assert.False(t, ok)
}
