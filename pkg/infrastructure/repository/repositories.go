package repository

import (
	"time"

	"farmconnect/pkg/domain/model"
	"farmconnect/pkg/infrastructure/storage"
)

// Repositories are the slot-backed implementations of every domain
// repository, sharing one store.
type Repositories struct {
	Products      model.ProductRepository
	Farms         model.FarmRepository
	MarketPrices  model.MarketPriceRepository
	Requests      model.FarmerRequestRepository
	Accounts      model.AccountRepository
	Notifications model.NotificationRepository
	Orders        model.OrderRepository
	MealKits      model.MealKitRepository
	WeatherAlerts model.WeatherAlertRepository
	ForumPosts    model.ForumPostRepository
	Session       model.SessionStore
}

func New(store storage.Store, timeout time.Duration) *Repositories {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	seq := &sequences{store: store, timeout: timeout}

	return &Repositories{
		Products:      &productRepository{products: newCollection[model.Product](store, storage.SlotProducts, timeout), seq: seq},
		Farms:         &farmRepository{farms: newCollection[model.Farm](store, storage.SlotFarms, timeout)},
		MarketPrices:  &marketPriceRepository{prices: newCollection[model.MarketPrice](store, storage.SlotMarketPrices, timeout)},
		Requests:      &requestRepository{requests: newCollection[model.FarmerRequest](store, storage.SlotFarmerRequests, timeout), seq: seq},
		Accounts:      &accountRepository{accounts: newCollection[model.Account](store, storage.SlotUsers, timeout), seq: seq},
		Notifications: &notificationRepository{notifications: newCollection[model.Notification](store, storage.SlotNotifications, timeout)},
		Orders:        &orderRepository{orders: newCollection[model.Order](store, storage.SlotOrders, timeout)},
		MealKits:      &mealKitRepository{kits: newCollection[model.MealKit](store, storage.SlotMealKits, timeout), seq: seq},
		WeatherAlerts: &weatherAlertRepository{alerts: newCollection[model.WeatherAlert](store, storage.SlotWeatherAlerts, timeout), seq: seq},
		ForumPosts:    &forumPostRepository{posts: newCollection[model.ForumPost](store, storage.SlotForumPosts, timeout), seq: seq},
		Session:       &sessionStore{store: store, timeout: timeout},
	}
}
