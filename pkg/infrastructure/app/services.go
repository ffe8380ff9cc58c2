package app

import (
	"farmconnect/pkg/domain/model"
	"farmconnect/pkg/domain/service"
	"farmconnect/pkg/infrastructure/repository"
)

type Dependencies struct {
	Repositories *repository.Repositories
	Passwords    model.PasswordManager
	Sender       model.NotificationSender
	Dispatcher   service.EventDispatcher
}

// NewConsole builds every domain service over the repositories and returns
// the role-gated console in front of them.
func NewConsole(deps Dependencies) *service.Console {
	repos := deps.Repositories
	dispatcher := deps.Dispatcher

	notifications := service.NewNotificationService(repos.Notifications, deps.Sender, dispatcher)
	sessions := service.NewSessionService(repos.Session, dispatcher)
	catalog := service.NewCatalogService(repos.Products, dispatcher)
	requests := service.NewRequestService(repos.Requests, catalog, notifications, dispatcher)
	accounts := service.NewAccountService(repos.Accounts, deps.Passwords, sessions, notifications, dispatcher)
	orders := service.NewOrderService(repos.Orders, repos.MealKits, dispatcher)
	weather := service.NewWeatherService(repos.WeatherAlerts, dispatcher)

	return service.NewConsole(service.Services{
		Session:       sessions,
		Accounts:      accounts,
		Catalog:       catalog,
		Requests:      requests,
		Orders:        orders,
		MealKits:      service.NewMealKitService(repos.MealKits, dispatcher),
		Weather:       weather,
		Farms:         service.NewFarmService(repos.Farms, dispatcher),
		Market:        service.NewMarketService(repos.MarketPrices, dispatcher),
		Forum:         service.NewForumService(repos.ForumPosts, dispatcher),
		Notifications: notifications,
		Dashboard:     service.NewDashboardService(accounts, requests, catalog, weather, orders),
	})
}
