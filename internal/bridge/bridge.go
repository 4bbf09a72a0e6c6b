package bridge

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/dalfonso89/rolimons-bridge/internal/logger"
)

// Fixed upstream endpoints
const (
	ItemDetailsURL = "https://api.rolimons.com/items/v1/itemdetails"
	LatestRatesURL = "https://api.frankfurter.app/latest"
	ratesField     = "rates"
)

// Fetcher performs one GET and returns the body of a 2xx response
type Fetcher interface {
	Get(ctx context.Context, url string) (string, error)
}

// Bridge implements the commands the UI shell can invoke.
// It keeps no state between invocations.
type Bridge struct {
	fetcher  Fetcher
	logger   *logger.Logger
	itemsURL string
	ratesURL string
}

// Option configures a Bridge
type Option func(*Bridge)

// WithItemsURL points GetRolimonItems at another catalog endpoint
func WithItemsURL(itemsURL string) Option {
	return func(b *Bridge) {
		b.itemsURL = itemsURL
	}
}

// WithRatesURL points GetExchangeRate at another conversion endpoint
func WithRatesURL(ratesURL string) Option {
	return func(b *Bridge) {
		b.ratesURL = ratesURL
	}
}

// New creates a bridge over fetcher
func New(fetcher Fetcher, logger *logger.Logger, options ...Option) *Bridge {
	b := &Bridge{
		fetcher:  fetcher,
		logger:   logger,
		itemsURL: ItemDetailsURL,
		ratesURL: LatestRatesURL,
	}
	for _, option := range options {
		option(b)
	}
	return b
}

// GetRolimonItems returns the item catalog body untouched
func (b *Bridge) GetRolimonItems(ctx context.Context) (string, error) {
	b.logger.Debug("Fetching Rolimons item details")
	return b.fetcher.Get(ctx, b.itemsURL)
}

// GetExchangeRate converts amount from one currency to another and returns
// the value upstream reports at rates.{to}. Codes and amount are passed through.
func (b *Bridge) GetExchangeRate(ctx context.Context, from, to string, amount float64) (float64, error) {
	b.logger.Debugf("Fetching exchange rate %s -> %s for amount %v", from, to, amount)
	body, err := b.fetcher.Get(ctx, b.exchangeRateURL(from, to, amount))
	if err != nil {
		return 0, err
	}

	var document interface{}
	if err := json.Unmarshal([]byte(body), &document); err != nil {
		return 0, &ShapeError{Err: err}
	}

	rate, ok := lookupRate(document, to)
	if !ok {
		return 0, &ShapeError{Err: ErrRateNotFound}
	}
	return rate, nil
}

// exchangeRateURL builds latest?amount=&from=&to= with the shortest decimal amount
func (b *Bridge) exchangeRateURL(from, to string, amount float64) string {
	query := url.Values{}
	query.Set("amount", strconv.FormatFloat(amount, 'f', -1, 64))
	query.Set("from", from)
	query.Set("to", to)
	return b.ratesURL + "?" + query.Encode()
}

func lookupRate(document interface{}, to string) (float64, bool) {
	object, ok := document.(map[string]interface{})
	if !ok {
		return 0, false
	}
	rates, ok := object[ratesField].(map[string]interface{})
	if !ok {
		return 0, false
	}
	rate, ok := rates[to].(float64)
	return rate, ok
}
