package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"farmconnect/pkg/domain/model"
)

var (
	ErrCapabilityDenied = errors.New("role does not carry this capability")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrNotOrderOwner    = errors.New("order belongs to another buyer")
)

// Services is everything the console dispatches to.
type Services struct {
	Session       SessionService
	Accounts      AccountService
	Catalog       CatalogService
	Requests      RequestService
	Orders        OrderService
	MealKits      MealKitService
	Weather       WeatherService
	Farms         FarmService
	Market        MarketService
	Forum         ForumService
	Notifications NotificationService
	Dashboard     DashboardService
}

type FarmerCapabilities interface {
	RequestAddProduct(input NewProduct) (Acknowledgement, error)
	RequestUpdateProduct(productID int64, description string, change model.RequestedChange) (Acknowledgement, error)
	RequestRemoveProduct(productID int64, reason string) (Acknowledgement, error)
	MyRequests() ([]model.FarmerRequest, error)
	WeatherAlerts() ([]model.WeatherAlert, error)
	MarketPrices() ([]model.MarketPrice, error)
}

type BuyerCapabilities interface {
	Browse(filter model.ProductFilter) ([]model.Product, error)
	AddToCart(productID int64) ([]model.Product, error)
	RemoveFromCart(productID int64) ([]model.Product, error)
	Cart() ([]model.Product, decimal.Decimal, error)
	Checkout() (*model.Order, error)
	Orders() ([]model.Order, error)
	CancelOrder(orderID uuid.UUID, reason string) (*model.Order, error)
	Notifications() ([]model.Notification, error)
	MealKits() ([]model.MealKit, error)
	SubscribeMealKit(mealKitID int64, frequency string) (*model.MealKit, error)
}

type AdminCapabilities interface {
	AddProduct(input NewProduct) (*model.Product, error)
	UpdateProduct(productID int64, patch model.ProductPatch) (*model.Product, error)
	ChangeProductPrice(productID int64, rawPrice string) (*model.Product, error)
	RemoveProduct(productID int64) error
	UpdateFarm(farmID int64, patch model.FarmPatch) (*model.Farm, error)
	PublishMarketPrice(product, market, rawPrice string, trend model.Trend, suggestion string) (*model.MarketPrice, error)
	UpdateMarketPrice(product, rawPrice string) (*model.MarketPrice, error)
	PublishWeatherAlert(input NewWeatherAlert) (*model.WeatherAlert, error)
	RetireWeatherAlert(alertID int64) (*model.WeatherAlert, error)
	ApproveRequest(requestID int64, approval Approval) (*model.FarmerRequest, error)
	RejectRequest(requestID int64, reason string) (*model.FarmerRequest, error)
	ApproveAccount(accountID int64) (*model.Account, error)
	RejectAccount(accountID int64, reason string) (*model.Account, error)
	BanAccount(accountID int64, reason string) (*model.Account, error)
	UnbanAccount(accountID int64) (*model.Account, error)
	ConfirmOrder(orderID uuid.UUID) (*model.Order, error)
	Dashboard() (DashboardStats, error)
}

// Console hands out the capability set that matches the logged-in role.
type Console struct {
	services Services
}

func NewConsole(services Services) *Console {
	return &Console{services: services}
}

func (c *Console) Services() Services {
	return c.services
}

func (c *Console) Farmer() (FarmerCapabilities, error) {
	user, err := c.actor(model.RoleFarmer)
	if err != nil {
		return nil, err
	}
	return &farmerActor{services: c.services, user: user}, nil
}

func (c *Console) Buyer() (BuyerCapabilities, error) {
	user, err := c.actor(model.RoleBuyer)
	if err != nil {
		return nil, err
	}
	return &buyerActor{services: c.services, email: user.Email}, nil
}

func (c *Console) Admin() (AdminCapabilities, error) {
	if _, err := c.actor(model.RoleAdmin); err != nil {
		return nil, err
	}
	return &adminActor{services: c.services}, nil
}

func (c *Console) actor(role model.Role) (*model.User, error) {
	user, ok, err := c.services.Session.CurrentUser()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoSession
	}
	if user.Role != role {
		return nil, ErrCapabilityDenied
	}
	return user, nil
}

type farmerActor struct {
	services Services
	user     *model.User
}

func (a *farmerActor) submission(product string, productID *int64, request string, change model.RequestedChange) FarmerSubmission {
	farm := ""
	if a.user.Farmer != nil {
		farm = a.user.Farmer.FarmName
	}
	return FarmerSubmission{
		Farmer:      a.user.Name,
		FarmerEmail: a.user.Email,
		Farm:        farm,
		Product:     product,
		ProductID:   productID,
		Request:     request,
		Change:      change,
	}
}

func (a *farmerActor) RequestAddProduct(input NewProduct) (Acknowledgement, error) {
	if strings.TrimSpace(input.Name) == "" {
		return Acknowledgement{Success: false, Message: ErrProductNameMissing.Error()}, ErrProductNameMissing
	}
	text := fmt.Sprintf("Add new product: %s, %d %s at $%s/%s", input.Name, input.Quantity, input.Unit, input.Price.StringFixed(2), input.Unit)
	return a.services.Requests.Submit(a.submission(input.Name, nil, text, model.RequestedChange{Kind: model.ChangeAddProduct}))
}

func (a *farmerActor) RequestUpdateProduct(productID int64, description string, change model.RequestedChange) (Acknowledgement, error) {
	product, err := a.services.Catalog.Find(productID)
	if err != nil {
		return Acknowledgement{Success: false, Message: err.Error()}, err
	}
	return a.services.Requests.Submit(a.submission(product.Name, &product.ID, description, change))
}

func (a *farmerActor) RequestRemoveProduct(productID int64, reason string) (Acknowledgement, error) {
	product, err := a.services.Catalog.Find(productID)
	if err != nil {
		return Acknowledgement{Success: false, Message: err.Error()}, err
	}
	text := "Remove product from listing"
	if strings.TrimSpace(reason) != "" {
		text += ": " + reason
	}
	return a.services.Requests.Submit(a.submission(product.Name, &product.ID, text, model.RequestedChange{Kind: model.ChangeRemoveProduct}))
}

func (a *farmerActor) MyRequests() ([]model.FarmerRequest, error) {
	return a.services.Requests.List(model.RequestFilter{FarmerEmail: a.user.Email})
}

func (a *farmerActor) WeatherAlerts() ([]model.WeatherAlert, error) {
	return a.services.Weather.Active()
}

func (a *farmerActor) MarketPrices() ([]model.MarketPrice, error) {
	return a.services.Market.List()
}

// buyerActor reloads the session on every call; the cart lives in the
// session slot.
type buyerActor struct {
	services Services
	email    string
}

func (a *buyerActor) Browse(filter model.ProductFilter) ([]model.Product, error) {
	return a.services.Catalog.Filter(filter.Match)
}

func (a *buyerActor) AddToCart(productID int64) ([]model.Product, error) {
	product, err := a.services.Catalog.Find(productID)
	if err != nil {
		return nil, err
	}

	var cart []model.Product
	err = a.withProfile(func(profile *model.BuyerProfile) error {
		cart = append([]model.Product{}, profile.AddToCart(*product)...)
		return nil
	})
	return cart, err
}

func (a *buyerActor) RemoveFromCart(productID int64) ([]model.Product, error) {
	var cart []model.Product
	err := a.withProfile(func(profile *model.BuyerProfile) error {
		if !profile.RemoveFromCart(productID) {
			return model.ErrProductNotFound
		}
		cart = append([]model.Product{}, profile.Cart...)
		return nil
	})
	return cart, err
}

func (a *buyerActor) Cart() ([]model.Product, decimal.Decimal, error) {
	user, err := a.current()
	if err != nil {
		return nil, decimal.Zero, err
	}
	return append([]model.Product{}, user.Buyer.Cart...), user.Buyer.CartTotal(), nil
}

// Checkout snapshots the cart into a pending order and empties it.
// The emptied cart is saved before the order is placed; a failed place
// puts the cart back.
func (a *buyerActor) Checkout() (*model.Order, error) {
	orderID, err := model.NewOrderID()
	if err != nil {
		return nil, err
	}

	user, err := a.current()
	if err != nil {
		return nil, err
	}
	profile := user.Buyer
	cart := append([]model.Product{}, profile.Cart...)
	orders, notes := len(profile.Orders), len(profile.Notifications)

	order, ok := profile.Checkout(orderID, a.email, time.Now().UTC())
	if !ok {
		return nil, ErrEmptyCart
	}
	profile.Notify(fmt.Sprintf("Order %s placed, total $%s", order.ID, order.TotalAmount.StringFixed(2)))
	if err := a.services.Session.Save(user); err != nil {
		return nil, err
	}

	if err := a.services.Orders.Place(order); err != nil {
		profile.Cart = cart
		profile.Orders = profile.Orders[:orders]
		profile.Notifications = profile.Notifications[:notes]
		if restoreErr := a.services.Session.Save(user); restoreErr != nil {
			log.WithError(restoreErr).WithField("order", order.ID).Error("failed to restore cart")
		}
		return nil, err
	}

	if err := a.services.Notifications.NotifyOrderPlaced(*order); err != nil {
		log.WithError(err).WithField("order", order.ID).Warn("failed to notify buyer")
	}
	return order, nil
}

func (a *buyerActor) Orders() ([]model.Order, error) {
	return a.services.Orders.ForBuyer(a.email)
}

func (a *buyerActor) CancelOrder(orderID uuid.UUID, reason string) (*model.Order, error) {
	order, err := a.services.Orders.Find(orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerEmail != a.email {
		return nil, ErrNotOrderOwner
	}
	return a.services.Orders.Cancel(orderID, reason)
}

func (a *buyerActor) Notifications() ([]model.Notification, error) {
	return a.services.Notifications.ListFor(a.email)
}

func (a *buyerActor) MealKits() ([]model.MealKit, error) {
	return a.services.MealKits.List()
}

func (a *buyerActor) SubscribeMealKit(mealKitID int64, frequency string) (*model.MealKit, error) {
	return a.services.MealKits.Subscribe(mealKitID, frequency)
}

func (a *buyerActor) current() (*model.User, error) {
	user, ok, err := a.services.Session.CurrentUser()
	if err != nil {
		return nil, err
	}
	if !ok || user.Email != a.email {
		return nil, ErrNoSession
	}
	if user.Role != model.RoleBuyer || user.Buyer == nil {
		return nil, ErrCapabilityDenied
	}
	return user, nil
}

func (a *buyerActor) withProfile(action func(profile *model.BuyerProfile) error) error {
	user, err := a.current()
	if err != nil {
		return err
	}
	if err := action(user.Buyer); err != nil {
		return err
	}
	return a.services.Session.Save(user)
}

type adminActor struct {
	services Services
}

func (a *adminActor) AddProduct(input NewProduct) (*model.Product, error) {
	return a.services.Catalog.Add(input)
}

func (a *adminActor) UpdateProduct(productID int64, patch model.ProductPatch) (*model.Product, error) {
	return a.services.Catalog.Update(productID, patch)
}

func (a *adminActor) ChangeProductPrice(productID int64, rawPrice string) (*model.Product, error) {
	return a.services.Catalog.ChangePrice(productID, rawPrice)
}

func (a *adminActor) RemoveProduct(productID int64) error {
	return a.services.Catalog.Remove(productID)
}

func (a *adminActor) UpdateFarm(farmID int64, patch model.FarmPatch) (*model.Farm, error) {
	return a.services.Farms.Update(farmID, patch)
}

func (a *adminActor) PublishMarketPrice(product, market, rawPrice string, trend model.Trend, suggestion string) (*model.MarketPrice, error) {
	return a.services.Market.AddEntry(product, market, rawPrice, trend, suggestion)
}

func (a *adminActor) UpdateMarketPrice(product, rawPrice string) (*model.MarketPrice, error) {
	return a.services.Market.UpdatePrice(product, rawPrice)
}

func (a *adminActor) PublishWeatherAlert(input NewWeatherAlert) (*model.WeatherAlert, error) {
	return a.services.Weather.Publish(input)
}

func (a *adminActor) RetireWeatherAlert(alertID int64) (*model.WeatherAlert, error) {
	return a.services.Weather.Retire(alertID)
}

func (a *adminActor) ApproveRequest(requestID int64, approval Approval) (*model.FarmerRequest, error) {
	return a.services.Requests.Approve(requestID, approval)
}

func (a *adminActor) RejectRequest(requestID int64, reason string) (*model.FarmerRequest, error) {
	return a.services.Requests.Reject(requestID, reason)
}

func (a *adminActor) ApproveAccount(accountID int64) (*model.Account, error) {
	return a.services.Accounts.Approve(accountID)
}

func (a *adminActor) RejectAccount(accountID int64, reason string) (*model.Account, error) {
	return a.services.Accounts.Reject(accountID, reason)
}

func (a *adminActor) BanAccount(accountID int64, reason string) (*model.Account, error) {
	return a.services.Accounts.Ban(accountID, reason)
}

func (a *adminActor) UnbanAccount(accountID int64) (*model.Account, error) {
	return a.services.Accounts.Unban(accountID)
}

func (a *adminActor) ConfirmOrder(orderID uuid.UUID) (*model.Order, error) {
	return a.services.Orders.Confirm(orderID)
}

func (a *adminActor) Dashboard() (DashboardStats, error) {
	return a.services.Dashboard.Stats()
}
