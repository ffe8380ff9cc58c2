package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"farmconnect/pkg/domain/model"
)

type OrderService interface {
	Place(order *model.Order) error
	AddMealKit(orderID uuid.UUID, mealKitID int64) (*model.Order, error)
	Confirm(orderID uuid.UUID) (*model.Order, error)
	Cancel(orderID uuid.UUID, reason string) (*model.Order, error)
	Find(orderID uuid.UUID) (*model.Order, error)
	List() ([]model.Order, error)
	ForBuyer(email string) ([]model.Order, error)
	Revenue() (decimal.Decimal, error)
}

func NewOrderService(repo model.OrderRepository, mealKits model.MealKitRepository, dispatcher EventDispatcher) OrderService {
	return &orderService{repo: repo, mealKits: mealKits, dispatcher: dispatcher}
}

type orderService struct {
	repo       model.OrderRepository
	mealKits   model.MealKitRepository
	dispatcher EventDispatcher
}

func (s *orderService) Place(order *model.Order) error {
	if err := s.repo.Create(order); err != nil {
		return err
	}

	dispatch(s.dispatcher, model.OrderPlaced{OrderID: order.ID, BuyerEmail: order.BuyerEmail, TotalAmount: order.TotalAmount})
	return nil
}

func (s *orderService) AddMealKit(orderID uuid.UUID, mealKitID int64) (*model.Order, error) {
	kit, err := s.mealKits.Find(mealKitID)
	if err != nil {
		return nil, err
	}
	return s.executeOnOrder(orderID, func(o *model.Order) error {
		return o.AddMealKit(*kit)
	})
}

func (s *orderService) Confirm(orderID uuid.UUID) (*model.Order, error) {
	order, err := s.executeOnOrder(orderID, func(o *model.Order) error {
		return o.Confirm()
	})
	if err != nil {
		return nil, err
	}

	dispatch(s.dispatcher, model.OrderStatusChanged{OrderID: orderID, NewStatus: model.OrderConfirmed})
	return order, nil
}

func (s *orderService) Cancel(orderID uuid.UUID, reason string) (*model.Order, error) {
	order, err := s.executeOnOrder(orderID, func(o *model.Order) error {
		return o.Cancel(reason)
	})
	if err != nil {
		return nil, err
	}

	dispatch(s.dispatcher, model.OrderStatusChanged{OrderID: orderID, NewStatus: model.OrderCancelled, Reason: reason})
	return order, nil
}

func (s *orderService) Find(orderID uuid.UUID) (*model.Order, error) {
	return s.repo.Find(orderID)
}

func (s *orderService) List() ([]model.Order, error) {
	return s.repo.List()
}

func (s *orderService) ForBuyer(email string) ([]model.Order, error) {
	orders, err := s.repo.List()
	if err != nil {
		return nil, err
	}

	mine := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if o.BuyerEmail == email {
			mine = append(mine, o)
		}
	}
	return mine, nil
}

// Revenue counts every order that has not been cancelled.
func (s *orderService) Revenue() (decimal.Decimal, error) {
	orders, err := s.repo.List()
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, o := range orders {
		if o.Status != model.OrderCancelled {
			total = total.Add(o.TotalAmount)
		}
	}
	return total, nil
}

func (s *orderService) executeOnOrder(orderID uuid.UUID, action func(o *model.Order) error) (*model.Order, error) {
	order, err := s.repo.Find(orderID)
	if err != nil {
		return nil, err
	}

	if err := action(order); err != nil {
		return nil, err
	}

	order.Version++
	order.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(order); err != nil {
		return nil, err
	}
	return order, nil
}
