package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BuyerProfile is the buyer's local state. Nothing here is synchronised with
// the catalog; checkout only snapshots what the cart holds.
type BuyerProfile struct {
	Cart          []Product `json:"cart"`
	Orders        []Order   `json:"orders"`
	Notifications []string  `json:"notifications"`
}

func (b *BuyerProfile) AddToCart(p Product) []Product {
	b.Cart = append(b.Cart, p)
	return b.Cart
}

// RemoveFromCart drops the first cart entry for the product.
func (b *BuyerProfile) RemoveFromCart(productID int64) bool {
	for i, p := range b.Cart {
		if p.ID == productID {
			b.Cart = append(b.Cart[:i], b.Cart[i+1:]...)
			return true
		}
	}
	return false
}

func (b *BuyerProfile) CartTotal() decimal.Decimal {
	total := decimal.Zero
	for _, p := range b.Cart {
		total = total.Add(p.Price)
	}
	return total
}

func (b *BuyerProfile) Checkout(id uuid.UUID, buyerEmail string, now time.Time) (*Order, bool) {
	if len(b.Cart) == 0 {
		return nil, false
	}

	order := NewOrder(id, buyerEmail, now)
	for _, p := range b.Cart {
		_ = order.AddProduct(p)
	}

	b.Orders = append(b.Orders, *order)
	b.Cart = []Product{}
	return order, true
}

func (b *BuyerProfile) Notify(message string) {
	b.Notifications = append(b.Notifications, message)
}
