// Package marketapi wraps the remote daily quote API. Quotes are queried
// one category at a time for a single trade date.
package marketapi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrNoData is returned when the API answered but carried no price items
// for the requested (date, category). Many categories legitimately report
// no trade on a given day.
var ErrNoData = errors.New("marketapi: no price items returned")

const dateFormat = "2006-01-02"

// PriceItem is one raw quote row. The API ships seven historical snapshots
// per item (today back to the yearly average); ingestion only consumes
// PriceToday. Snapshot fields stay strings because the API mixes numbers
// with placeholders such as "-".
type PriceItem struct {
	ItemName      string `json:"item_name"`
	ItemCode      string `json:"item_code"`
	KindName      string `json:"kind_name"`
	KindCode      string `json:"kind_code"`
	Rank          string `json:"rank"`
	RankCode      string `json:"rank_code"`
	Unit          string `json:"unit"`
	PriceToday    string `json:"dpr1"` // target date
	PriceDayAgo   string `json:"dpr2"` // -1 day
	PriceWeekAgo  string `json:"dpr3"` // -1 week
	Price2WeekAgo string `json:"dpr4"` // -2 weeks
	PriceMonthAgo string `json:"dpr5"` // -1 month
	PriceYearAgo  string `json:"dpr6"` // -1 year
	PriceYearAvg  string `json:"dpr7"` // yearly average
}

type quoteResponse struct {
	ErrorCode string      `json:"error_code"`
	Message   string      `json:"message"`
	Items     []PriceItem `json:"items"`
}

type Client struct {
	apiKey string
	client *resty.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)

	return &Client{
		apiKey: apiKey,
		client: client,
	}
}

// DailyPricesByCategory fetches all quote rows for one category on one
// date. ErrNoData distinguishes an empty answer from a transport failure.
func (c *Client) DailyPricesByCategory(ctx context.Context, date time.Time, categoryCode string) ([]PriceItem, error) {
	var result quoteResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"regday":        date.Format(dateFormat),
			"category_code": categoryCode,
			"cert_key":      c.apiKey,
		}).
		SetResult(&result).
		Get("/api/v1/daily-prices")
	if err != nil {
		return nil, fmt.Errorf("marketapi: request failed for category %s: %w", categoryCode, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("marketapi: unexpected status %d for category %s", resp.StatusCode(), categoryCode)
	}
	if result.ErrorCode != "" && result.ErrorCode != "000" {
		return nil, fmt.Errorf("marketapi: error %s for category %s: %s", result.ErrorCode, categoryCode, result.Message)
	}
	if len(result.Items) == 0 {
		return nil, ErrNoData
	}

	return result.Items, nil
}
