package service

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"farmconnect/pkg/domain/model"
)

var (
	ErrInvalidPrice       = errors.New("price must be a non-negative number")
	ErrInvalidQuantity    = errors.New("quantity cannot be negative")
	ErrProductNameMissing = errors.New("product name is required")
)

type NewProduct struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Unit        string          `json:"unit"`
	HarvestDate *time.Time      `json:"harvestDate,omitempty"`
	Farm        string          `json:"farm"`
	Organic     bool            `json:"organic"`
}

type CatalogService interface {
	Add(input NewProduct) (*model.Product, error)
	Update(productID int64, patch model.ProductPatch) (*model.Product, error)
	ChangePrice(productID int64, rawPrice string) (*model.Product, error)
	SetPrice(productID int64, price decimal.Decimal) (*model.Product, error)
	Remove(productID int64) error
	Find(productID int64) (*model.Product, error)
	FindByName(name string) (*model.Product, error)
	Filter(predicate func(model.Product) bool) ([]model.Product, error)
	Search(term string) ([]model.Product, error)
	List() ([]model.Product, error)
}

func NewCatalogService(repo model.ProductRepository, dispatcher EventDispatcher) CatalogService {
	return &catalogService{repo: repo, dispatcher: dispatcher}
}

type catalogService struct {
	repo       model.ProductRepository
	dispatcher EventDispatcher
}

// ParsePrice rejects anything that is not a non-negative decimal, so callers
// can refuse bad input before touching state.
func ParsePrice(raw string) (decimal.Decimal, error) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "$")
	if raw == "" {
		return decimal.Zero, ErrInvalidPrice
	}
	price, err := decimal.NewFromString(raw)
	if err != nil || price.IsNegative() {
		return decimal.Zero, ErrInvalidPrice
	}
	return price, nil
}

func (s *catalogService) Add(input NewProduct) (*model.Product, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrProductNameMissing
	}
	if input.Price.IsNegative() {
		return nil, ErrInvalidPrice
	}
	if input.Quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	productID, err := s.repo.NextID()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &model.Product{
		ID:          productID,
		Name:        input.Name,
		Category:    input.Category,
		Quantity:    input.Quantity,
		Price:       input.Price,
		Unit:        input.Unit,
		Status:      model.Available,
		HarvestDate: input.HarvestDate,
		Farm:        input.Farm,
		Organic:     input.Organic,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(product); err != nil {
		return nil, err
	}

	dispatch(s.dispatcher, model.ProductAdded{ProductID: productID, Name: product.Name})
	return product, nil
}

func (s *catalogService) Update(productID int64, patch model.ProductPatch) (*model.Product, error) {
	if patch.Price != nil && patch.Price.IsNegative() {
		return nil, ErrInvalidPrice
	}
	if patch.Quantity != nil && *patch.Quantity < 0 {
		return nil, ErrInvalidQuantity
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, ErrProductNameMissing
	}

	product, err := s.repo.Find(productID)
	if err != nil {
		return nil, err
	}

	oldPrice := product.Price
	patch.Apply(product)

	if err := s.updateProduct(product); err != nil {
		return nil, err
	}

	events := []Event{model.ProductUpdated{ProductID: productID}}
	if !oldPrice.Equal(product.Price) {
		events = append(events, model.ProductPriceChanged{ProductID: productID, OldPrice: oldPrice, NewPrice: product.Price})
	}
	dispatch(s.dispatcher, events...)
	return product, nil
}

func (s *catalogService) ChangePrice(productID int64, rawPrice string) (*model.Product, error) {
	price, err := ParsePrice(rawPrice)
	if err != nil {
		return nil, err
	}
	return s.SetPrice(productID, price)
}

func (s *catalogService) SetPrice(productID int64, price decimal.Decimal) (*model.Product, error) {
	if price.IsNegative() {
		return nil, ErrInvalidPrice
	}

	product, err := s.repo.Find(productID)
	if err != nil {
		return nil, err
	}

	oldPrice := product.Price
	product.Price = price

	if err := s.updateProduct(product); err != nil {
		return nil, err
	}

	dispatch(s.dispatcher, model.ProductPriceChanged{ProductID: productID, OldPrice: oldPrice, NewPrice: price})
	return product, nil
}

func (s *catalogService) Remove(productID int64) error {
	if err := s.repo.Delete(productID); err != nil {
		return err
	}

	dispatch(s.dispatcher, model.ProductRemoved{ProductID: productID})
	return nil
}

func (s *catalogService) Find(productID int64) (*model.Product, error) {
	return s.repo.Find(productID)
}

func (s *catalogService) FindByName(name string) (*model.Product, error) {
	return s.repo.FindByName(name)
}

func (s *catalogService) Filter(predicate func(model.Product) bool) ([]model.Product, error) {
	products, err := s.repo.List()
	if err != nil {
		return nil, err
	}

	filtered := make([]model.Product, 0, len(products))
	for _, p := range products {
		if predicate(p) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// Search matches the term against product names, ignoring case.
func (s *catalogService) Search(term string) ([]model.Product, error) {
	return s.Filter(model.ProductFilter{Search: term}.Match)
}

func (s *catalogService) List() ([]model.Product, error) {
	return s.repo.List()
}

func (s *catalogService) updateProduct(product *model.Product) error {
	product.Version++
	product.UpdatedAt = time.Now().UTC()
	return s.repo.Update(product)
}
