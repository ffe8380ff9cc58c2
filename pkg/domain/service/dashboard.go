package service

import (
	"github.com/shopspring/decimal"

	"farmconnect/pkg/domain/model"
)

type DashboardStats struct {
	TotalUsers      int             `json:"totalUsers"`
	PendingRequests int             `json:"pendingRequests"`
	ActiveProducts  int             `json:"activeProducts"`
	ActiveAlerts    int             `json:"activeAlerts"`
	Revenue         decimal.Decimal `json:"revenue"`
}

type DashboardService interface {
	Stats() (DashboardStats, error)
}

func NewDashboardService(
	accounts AccountService,
	requests RequestService,
	catalog CatalogService,
	weather WeatherService,
	orders OrderService,
) DashboardService {
	return &dashboardService{accounts: accounts, requests: requests, catalog: catalog, weather: weather, orders: orders}
}

type dashboardService struct {
	accounts AccountService
	requests RequestService
	catalog  CatalogService
	weather  WeatherService
	orders   OrderService
}

// Stats is computed from the stores on every call, so the pending badge
// always agrees with the request queue.
func (s *dashboardService) Stats() (DashboardStats, error) {
	users, err := s.accounts.Filter(model.AccountFilter{})
	if err != nil {
		return DashboardStats{}, err
	}
	pending, err := s.requests.PendingCount()
	if err != nil {
		return DashboardStats{}, err
	}
	products, err := s.catalog.Filter(func(p model.Product) bool { return p.Status == model.Available })
	if err != nil {
		return DashboardStats{}, err
	}
	alerts, err := s.weather.Active()
	if err != nil {
		return DashboardStats{}, err
	}
	revenue, err := s.orders.Revenue()
	if err != nil {
		return DashboardStats{}, err
	}

	return DashboardStats{
		TotalUsers:      len(users),
		PendingRequests: pending,
		ActiveProducts:  len(products),
		ActiveAlerts:    len(alerts),
		Revenue:         revenue,
	}, nil
}
