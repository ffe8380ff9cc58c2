package service

import (
	"errors"
	"strings"
	"time"

	"farmconnect/pkg/domain/model"
)

var (
	ErrPriceEntryIncomplete = errors.New("product, market, price and trend are required")
	ErrInvalidTrend         = errors.New("trend must be increasing, stable or decreasing")
)

type MarketService interface {
	AddEntry(product, market, rawPrice string, trend model.Trend, suggestion string) (*model.MarketPrice, error)
	UpdatePrice(product, rawPrice string) (*model.MarketPrice, error)
	List() ([]model.MarketPrice, error)
}

func NewMarketService(repo model.MarketPriceRepository, dispatcher EventDispatcher) MarketService {
	return &marketService{repo: repo, dispatcher: dispatcher}
}

type marketService struct {
	repo       model.MarketPriceRepository
	dispatcher EventDispatcher
}

func (s *marketService) AddEntry(product, market, rawPrice string, trend model.Trend, suggestion string) (*model.MarketPrice, error) {
	if strings.TrimSpace(product) == "" || strings.TrimSpace(market) == "" || strings.TrimSpace(rawPrice) == "" || trend == "" {
		return nil, ErrPriceEntryIncomplete
	}
	if !trend.Valid() {
		return nil, ErrInvalidTrend
	}
	price, err := ParsePrice(rawPrice)
	if err != nil {
		return nil, err
	}

	entry := &model.MarketPrice{
		Product:    product,
		Market:     market,
		Price:      price,
		Trend:      trend,
		Suggestion: suggestion,
		Updated:    time.Now().UTC(),
	}
	if err := s.repo.Save(entry); err != nil {
		return nil, err
	}

	dispatch(s.dispatcher, model.MarketPriceUpdated{Product: product, Market: market, Price: price})
	return entry, nil
}

// UpdatePrice validates the number before looking anything up.
func (s *marketService) UpdatePrice(product, rawPrice string) (*model.MarketPrice, error) {
	price, err := ParsePrice(rawPrice)
	if err != nil {
		return nil, err
	}

	entry, err := s.repo.FindByProduct(product)
	if err != nil {
		return nil, err
	}

	entry.Price = price
	entry.Updated = time.Now().UTC()
	if err := s.repo.Save(entry); err != nil {
		return nil, err
	}

	dispatch(s.dispatcher, model.MarketPriceUpdated{Product: entry.Product, Market: entry.Market, Price: price})
	return entry, nil
}

func (s *marketService) List() ([]model.MarketPrice, error) {
	return s.repo.List()
}
