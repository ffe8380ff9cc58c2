package model

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrMarketPriceNotFound = errors.New("market price not found")

type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendStable     Trend = "stable"
	TrendDecreasing Trend = "decreasing"
)

func (t Trend) Valid() bool {
	return t == TrendIncreasing || t == TrendStable || t == TrendDecreasing
}

// MarketPrice is a published price point. Suggestions are placeholders typed
// in by the admin, not computed.
type MarketPrice struct {
	Product    string          `json:"product"`
	Market     string          `json:"market"`
	Price      decimal.Decimal `json:"price"`
	Trend      Trend           `json:"trend"`
	Suggestion string          `json:"suggestion,omitempty"`
	Updated    time.Time       `json:"updated"`
}

type MarketPriceRepository interface {
	Save(price *MarketPrice) error
	FindByProduct(product string) (*MarketPrice, error)
	List() ([]MarketPrice, error)
}
