package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderCannotBeModified = errors.New("order cannot be modified in its current state")
	ErrOrderItemNotFound     = errors.New("order item not found")
)

type OrderStatus int

const (
	OrderPending OrderStatus = iota
	OrderConfirmed
	OrderCancelled
)

var orderStatusNames = []string{"pending", "confirmed", "cancelled"}

func (s OrderStatus) String() string { return enumName(orderStatusNames, int(s)) }

func (s OrderStatus) Valid() bool { return enumValid(orderStatusNames, int(s)) }

func (s OrderStatus) MarshalText() ([]byte, error) {
	return marshalEnum("order status", orderStatusNames, int(s))
}

func (s *OrderStatus) UnmarshalText(text []byte) error {
	v, err := parseEnum("order status", orderStatusNames, text)
	*s = OrderStatus(v)
	return err
}

func (s OrderStatus) Terminal() bool { return s == OrderConfirmed || s == OrderCancelled }

type LineItemKind string

const (
	LineProduct LineItemKind = "product"
	LineMealKit LineItemKind = "mealkit"
)

type LineItem struct {
	Kind  LineItemKind    `json:"kind"`
	RefID int64           `json:"refId"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type Order struct {
	ID           uuid.UUID       `json:"id"`
	BuyerEmail   string          `json:"buyerEmail,omitempty"`
	Items        []LineItem      `json:"items"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	Status       OrderStatus     `json:"status"`
	CancelReason string          `json:"cancelReason,omitempty"`
	OrderDate    time.Time       `json:"orderDate"`
	Version      int             `json:"version"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// NewOrderID returns a time-ordered id.
func NewOrderID() (uuid.UUID, error) {
	return uuid.NewV7()
}

func NewOrder(id uuid.UUID, buyerEmail string, now time.Time) *Order {
	return &Order{
		ID:          id,
		BuyerEmail:  buyerEmail,
		Items:       []LineItem{},
		TotalAmount: decimal.Zero,
		Status:      OrderPending,
		OrderDate:   now,
		Version:     1,
		UpdatedAt:   now,
	}
}

func (o *Order) AddProduct(p Product) error {
	return o.addItem(LineItem{Kind: LineProduct, RefID: p.ID, Name: p.Name, Price: p.Price})
}

func (o *Order) AddMealKit(k MealKit) error {
	return o.addItem(LineItem{Kind: LineMealKit, RefID: k.ID, Name: k.Name, Price: k.Price})
}

func (o *Order) RemoveItem(index int) error {
	if o.Status.Terminal() {
		return ErrOrderCannotBeModified
	}
	if index < 0 || index >= len(o.Items) {
		return ErrOrderItemNotFound
	}
	o.Items = append(o.Items[:index], o.Items[index+1:]...)
	o.recalculateTotal()
	return nil
}

func (o *Order) Confirm() error {
	if o.Status != OrderPending {
		return ErrOrderCannotBeModified
	}
	o.Status = OrderConfirmed
	return nil
}

func (o *Order) Cancel(reason string) error {
	if o.Status != OrderPending {
		return ErrOrderCannotBeModified
	}
	o.Status = OrderCancelled
	o.CancelReason = reason
	return nil
}

func (o *Order) addItem(item LineItem) error {
	if o.Status.Terminal() {
		return ErrOrderCannotBeModified
	}
	o.Items = append(o.Items, item)
	o.recalculateTotal()
	return nil
}

func (o *Order) recalculateTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Price)
	}
	o.TotalAmount = total
}

type OrderRepository interface {
	Create(order *Order) error
	Update(order *Order) error
	Find(id uuid.UUID) (*Order, error)
	List() ([]Order, error)
}
