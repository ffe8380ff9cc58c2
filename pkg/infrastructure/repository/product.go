package repository

import (
	"strings"

	"farmconnect/pkg/domain/model"
)

var _ model.ProductRepository = &productRepository{}

type productRepository struct {
	products *collection[model.Product]
	seq      *sequences
}

func productID(p model.Product) int64 { return p.ID }

func (r *productRepository) NextID() (int64, error) {
	return nextID(r.seq, r.products, productID)
}

func (r *productRepository) Create(product *model.Product) error {
	return r.products.update(func(items []model.Product) ([]model.Product, error) {
		return append(items, *product), nil
	})
}

// Update refuses writes that are not newer than what is stored.
func (r *productRepository) Update(product *model.Product) error {
	return r.products.replace(*product,
		func(p model.Product) bool { return p.ID == product.ID },
		func(stored model.Product) error {
			if stored.Version >= product.Version {
				return model.ErrOptimisticLock
			}
			return nil
		},
		model.ErrProductNotFound,
	)
}

func (r *productRepository) Delete(id int64) error {
	return r.products.update(func(items []model.Product) ([]model.Product, error) {
		for i, p := range items {
			if p.ID == id {
				return append(items[:i], items[i+1:]...), nil
			}
		}
		return nil, model.ErrProductNotFound
	})
}

func (r *productRepository) Find(id int64) (*model.Product, error) {
	return r.products.find(func(p model.Product) bool { return p.ID == id }, model.ErrProductNotFound)
}

// FindByName matches the exact name, case and spacing included.
func (r *productRepository) FindByName(name string) (*model.Product, error) {
	return r.products.find(func(p model.Product) bool { return p.Name == name }, model.ErrProductNotFound)
}

func (r *productRepository) List() ([]model.Product, error) {
	return r.products.list()
}

var _ model.FarmRepository = &farmRepository{}

type farmRepository struct {
	farms *collection[model.Farm]
}

func (r *farmRepository) Update(farm *model.Farm) error {
	return r.farms.replace(*farm, func(f model.Farm) bool { return f.ID == farm.ID }, nil, model.ErrFarmNotFound)
}

func (r *farmRepository) Find(id int64) (*model.Farm, error) {
	return r.farms.find(func(f model.Farm) bool { return f.ID == id }, model.ErrFarmNotFound)
}

func (r *farmRepository) List() ([]model.Farm, error) {
	return r.farms.list()
}

var _ model.MarketPriceRepository = &marketPriceRepository{}

// marketPriceRepository keeps one entry per product, matched case-insensitively.
type marketPriceRepository struct {
	prices *collection[model.MarketPrice]
}

func (r *marketPriceRepository) Save(price *model.MarketPrice) error {
	return r.prices.update(func(items []model.MarketPrice) ([]model.MarketPrice, error) {
		for i := range items {
			if strings.EqualFold(items[i].Product, price.Product) {
				items[i] = *price
				return items, nil
			}
		}
		return append(items, *price), nil
	})
}

func (r *marketPriceRepository) FindByProduct(product string) (*model.MarketPrice, error) {
	product = strings.TrimSpace(product)
	return r.prices.find(func(p model.MarketPrice) bool { return strings.EqualFold(p.Product, product) }, model.ErrMarketPriceNotFound)
}

func (r *marketPriceRepository) List() ([]model.MarketPrice, error) {
	return r.prices.list()
}
