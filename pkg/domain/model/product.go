package model

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrOptimisticLock  = errors.New("record has been modified by another transaction")
)

type ProductStatus int

const (
	Available ProductStatus = iota
	Unavailable
)

var productStatusNames = []string{"available", "unavailable"}

func (s ProductStatus) String() string { return enumName(productStatusNames, int(s)) }

func (s ProductStatus) Valid() bool { return enumValid(productStatusNames, int(s)) }

func (s ProductStatus) MarshalText() ([]byte, error) {
	return marshalEnum("product status", productStatusNames, int(s))
}

func (s *ProductStatus) UnmarshalText(text []byte) error {
	v, err := parseEnum("product status", productStatusNames, text)
	*s = ProductStatus(v)
	return err
}

type Product struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Quantity       int             `json:"quantity"`
	Price          decimal.Decimal `json:"price"`
	Unit           string          `json:"unit"`
	Status         ProductStatus   `json:"status"`
	HarvestDate    *time.Time      `json:"harvestDate,omitempty"`
	Farm           string          `json:"farm,omitempty"`
	Organic        bool            `json:"organic"`
	Certifications []string        `json:"certifications,omitempty"`
	Version        int             `json:"version"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// ProductPatch holds the fields an update overwrites; nil means untouched.
type ProductPatch struct {
	Name        *string          `json:"name,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Quantity    *int             `json:"quantity,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Unit        *string          `json:"unit,omitempty"`
	Status      *ProductStatus   `json:"status,omitempty"`
	HarvestDate *time.Time       `json:"harvestDate,omitempty"`
	Farm        *string          `json:"farm,omitempty"`
	Organic     *bool            `json:"organic,omitempty"`
}

func (p ProductPatch) Apply(product *Product) {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Category != nil {
		product.Category = *p.Category
	}
	if p.Quantity != nil {
		product.Quantity = *p.Quantity
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.Unit != nil {
		product.Unit = *p.Unit
	}
	if p.Status != nil {
		product.Status = *p.Status
	}
	if p.HarvestDate != nil {
		product.HarvestDate = p.HarvestDate
	}
	if p.Farm != nil {
		product.Farm = *p.Farm
	}
	if p.Organic != nil {
		product.Organic = *p.Organic
	}
}

type ProductFilter struct {
	Search   string
	Category string
	Farm     string
	Status   *ProductStatus
}

func (f ProductFilter) Match(p Product) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Farm != "" && p.Farm != f.Farm {
		return false
	}
	if f.Status != nil && p.Status != *f.Status {
		return false
	}
	return true
}

type ProductRepository interface {
	NextID() (int64, error)
	Create(product *Product) error
	Update(product *Product) error
	Delete(id int64) error
	Find(id int64) (*Product, error)
	FindByName(name string) (*Product, error)
	List() ([]Product, error)
}
