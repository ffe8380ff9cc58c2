package tests

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/google/uuid"

	"farmconnect/pkg/domain/model"
	"farmconnect/pkg/domain/service"
)

type fixture struct {
	products      *mockProductRepository
	requests      *mockRequestRepository
	accounts      *mockAccountRepository
	orders        *mockOrderRepository
	mealKits      *mockMealKitRepository
	alerts        *mockWeatherAlertRepository
	farms         *mockFarmRepository
	prices        *mockMarketPriceRepository
	posts         *mockForumPostRepository
	notifications *mockNotificationRepository
	session       *mockSessionStore
	sender        *mockNotificationSender
	dispatcher    *mockEventDispatcher

	services service.Services
	console  *service.Console
}

func setup(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		products:      &mockProductRepository{store: make(map[int64]*model.Product)},
		requests:      &mockRequestRepository{store: make(map[int64]*model.FarmerRequest)},
		accounts:      &mockAccountRepository{store: make(map[int64]*model.Account)},
		orders:        &mockOrderRepository{store: make(map[uuid.UUID]*model.Order)},
		mealKits:      &mockMealKitRepository{store: make(map[int64]*model.MealKit)},
		alerts:        &mockWeatherAlertRepository{store: make(map[int64]*model.WeatherAlert)},
		farms:         &mockFarmRepository{store: make(map[int64]*model.Farm)},
		prices:        &mockMarketPriceRepository{store: make(map[string]*model.MarketPrice)},
		posts:         &mockForumPostRepository{store: make(map[int64]*model.ForumPost)},
		notifications: &mockNotificationRepository{store: make(map[uuid.UUID]*model.Notification)},
		session:       &mockSessionStore{},
		sender:        &mockNotificationSender{},
		dispatcher:    &mockEventDispatcher{},
	}

	notifications := service.NewNotificationService(f.notifications, f.sender, f.dispatcher)
	sessions := service.NewSessionService(f.session, f.dispatcher)
	catalog := service.NewCatalogService(f.products, f.dispatcher)
	requests := service.NewRequestService(f.requests, catalog, notifications, f.dispatcher)
	accounts := service.NewAccountService(f.accounts, &mockPasswordManager{}, sessions, notifications, f.dispatcher)
	orders := service.NewOrderService(f.orders, f.mealKits, f.dispatcher)
	weather := service.NewWeatherService(f.alerts, f.dispatcher)

	f.services = service.Services{
		Session:       sessions,
		Accounts:      accounts,
		Catalog:       catalog,
		Requests:      requests,
		Orders:        orders,
		MealKits:      service.NewMealKitService(f.mealKits, f.dispatcher),
		Weather:       weather,
		Farms:         service.NewFarmService(f.farms, f.dispatcher),
		Market:        service.NewMarketService(f.prices, f.dispatcher),
		Forum:         service.NewForumService(f.posts, f.dispatcher),
		Notifications: notifications,
		Dashboard:     service.NewDashboardService(accounts, requests, catalog, weather, orders),
	}
	f.console = service.NewConsole(f.services)
	return f
}

func (f *fixture) eventTypes() []string {
	types := make([]string, 0, len(f.dispatcher.events))
	for _, e := range f.dispatcher.events {
		types = append(types, e.Type())
	}
	return types
}

var _ model.ProductRepository = &mockProductRepository{}

type mockProductRepository struct {
	store     map[int64]*model.Product
	lastID    int64
	updateErr error
}

func (m *mockProductRepository) NextID() (int64, error) {
	m.lastID++
	return m.lastID, nil
}

func (m *mockProductRepository) Create(product *model.Product) error {
	if _, exists := m.store[product.ID]; exists {
		return errors.New("product with this ID already exists")
	}
	clone := *product
	m.store[product.ID] = &clone
	if product.ID > m.lastID {
		m.lastID = product.ID
	}
	return nil
}

func (m *mockProductRepository) Update(product *model.Product) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	existing, ok := m.store[product.ID]
	if !ok {
		return model.ErrProductNotFound
	}
	if existing.Version >= product.Version {
		return model.ErrOptimisticLock
	}
	clone := *product
	m.store[product.ID] = &clone
	return nil
}

func (m *mockProductRepository) Delete(id int64) error {
	if _, ok := m.store[id]; !ok {
		return model.ErrProductNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *mockProductRepository) Find(id int64) (*model.Product, error) {
	if product, ok := m.store[id]; ok {
		clone := *product
		return &clone, nil
	}
	return nil, model.ErrProductNotFound
}

func (m *mockProductRepository) FindByName(name string) (*model.Product, error) {
	for _, id := range sortedKeys(m.store) {
		if m.store[id].Name == name {
			clone := *m.store[id]
			return &clone, nil
		}
	}
	return nil, model.ErrProductNotFound
}

func (m *mockProductRepository) List() ([]model.Product, error) {
	products := make([]model.Product, 0, len(m.store))
	for _, id := range sortedKeys(m.store) {
		products = append(products, *m.store[id])
	}
	return products, nil
}

var _ model.FarmerRequestRepository = &mockRequestRepository{}

type mockRequestRepository struct {
	store  map[int64]*model.FarmerRequest
	lastID int64
}

func (m *mockRequestRepository) NextID() (int64, error) {
	m.lastID++
	return m.lastID, nil
}

func (m *mockRequestRepository) Create(request *model.FarmerRequest) error {
	clone := *request
	m.store[request.ID] = &clone
	return nil
}

func (m *mockRequestRepository) Update(request *model.FarmerRequest) error {
	if _, ok := m.store[request.ID]; !ok {
		return model.ErrRequestNotFound
	}
	clone := *request
	m.store[request.ID] = &clone
	return nil
}

func (m *mockRequestRepository) Find(id int64) (*model.FarmerRequest, error) {
	if request, ok := m.store[id]; ok {
		clone := *request
		return &clone, nil
	}
	return nil, model.ErrRequestNotFound
}

func (m *mockRequestRepository) List() ([]model.FarmerRequest, error) {
	requests := make([]model.FarmerRequest, 0, len(m.store))
	for _, id := range sortedKeys(m.store) {
		requests = append(requests, *m.store[id])
	}
	return requests, nil
}

var _ model.AccountRepository = &mockAccountRepository{}

type mockAccountRepository struct {
	store  map[int64]*model.Account
	lastID int64
}

func (m *mockAccountRepository) NextID() (int64, error) {
	m.lastID++
	return m.lastID, nil
}

func (m *mockAccountRepository) Create(account *model.Account) error {
	clone := *account
	m.store[account.ID] = &clone
	if account.ID > m.lastID {
		m.lastID = account.ID
	}
	return nil
}

func (m *mockAccountRepository) Update(account *model.Account) error {
	if _, ok := m.store[account.ID]; !ok {
		return model.ErrAccountNotFound
	}
	clone := *account
	m.store[account.ID] = &clone
	return nil
}

func (m *mockAccountRepository) Find(id int64) (*model.Account, error) {
	if account, ok := m.store[id]; ok {
		clone := *account
		return &clone, nil
	}
	return nil, model.ErrAccountNotFound
}

func (m *mockAccountRepository) FindByEmail(email string) (*model.Account, error) {
	for _, account := range m.store {
		if strings.EqualFold(account.Email, email) {
			clone := *account
			return &clone, nil
		}
	}
	return nil, model.ErrAccountNotFound
}

func (m *mockAccountRepository) List() ([]model.Account, error) {
	accounts := make([]model.Account, 0, len(m.store))
	for _, id := range sortedKeys(m.store) {
		accounts = append(accounts, *m.store[id])
	}
	return accounts, nil
}

var _ model.OrderRepository = &mockOrderRepository{}

type mockOrderRepository struct {
	store     map[uuid.UUID]*model.Order
	createErr error
}

func (m *mockOrderRepository) Create(order *model.Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, exists := m.store[order.ID]; exists {
		return errors.New("order with this ID already exists")
	}
	clone := *order
	clone.Items = append([]model.LineItem{}, order.Items...)
	m.store[order.ID] = &clone
	return nil
}

func (m *mockOrderRepository) Update(order *model.Order) error {
	existing, ok := m.store[order.ID]
	if !ok {
		return model.ErrOrderNotFound
	}
	if existing.Version >= order.Version {
		return model.ErrOptimisticLock
	}
	clone := *order
	clone.Items = append([]model.LineItem{}, order.Items...)
	m.store[order.ID] = &clone
	return nil
}

func (m *mockOrderRepository) Find(id uuid.UUID) (*model.Order, error) {
	if order, ok := m.store[id]; ok {
		clone := *order
		clone.Items = append([]model.LineItem{}, order.Items...)
		return &clone, nil
	}
	return nil, model.ErrOrderNotFound
}

func (m *mockOrderRepository) List() ([]model.Order, error) {
	orders := make([]model.Order, 0, len(m.store))
	for _, order := range m.store {
		orders = append(orders, *order)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID.String() < orders[j].ID.String() })
	return orders, nil
}

var _ model.MealKitRepository = &mockMealKitRepository{}

type mockMealKitRepository struct {
	store  map[int64]*model.MealKit
	lastID int64
}

func (m *mockMealKitRepository) NextID() (int64, error) {
	m.lastID++
	return m.lastID, nil
}

func (m *mockMealKitRepository) Create(kit *model.MealKit) error {
	clone := *kit
	clone.Ingredients = append([]string{}, kit.Ingredients...)
	m.store[kit.ID] = &clone
	return nil
}

func (m *mockMealKitRepository) Update(kit *model.MealKit) error {
	if _, ok := m.store[kit.ID]; !ok {
		return model.ErrMealKitNotFound
	}
	return m.Create(kit)
}

func (m *mockMealKitRepository) Find(id int64) (*model.MealKit, error) {
	if kit, ok := m.store[id]; ok {
		clone := *kit
		clone.Ingredients = append([]string{}, kit.Ingredients...)
		return &clone, nil
	}
	return nil, model.ErrMealKitNotFound
}

func (m *mockMealKitRepository) List() ([]model.MealKit, error) {
	kits := make([]model.MealKit, 0, len(m.store))
	for _, id := range sortedKeys(m.store) {
		kits = append(kits, *m.store[id])
	}
	return kits, nil
}

var _ model.WeatherAlertRepository = &mockWeatherAlertRepository{}

type mockWeatherAlertRepository struct {
	store  map[int64]*model.WeatherAlert
	lastID int64
}

func (m *mockWeatherAlertRepository) NextID() (int64, error) {
	m.lastID++
	return m.lastID, nil
}

func (m *mockWeatherAlertRepository) Create(alert *model.WeatherAlert) error {
	clone := *alert
	m.store[alert.ID] = &clone
	return nil
}

func (m *mockWeatherAlertRepository) Update(alert *model.WeatherAlert) error {
	if _, ok := m.store[alert.ID]; !ok {
		return model.ErrAlertNotFound
	}
	return m.Create(alert)
}

func (m *mockWeatherAlertRepository) Find(id int64) (*model.WeatherAlert, error) {
	if alert, ok := m.store[id]; ok {
		clone := *alert
		return &clone, nil
	}
	return nil, model.ErrAlertNotFound
}

func (m *mockWeatherAlertRepository) List() ([]model.WeatherAlert, error) {
	alerts := make([]model.WeatherAlert, 0, len(m.store))
	for _, id := range sortedKeys(m.store) {
		alerts = append(alerts, *m.store[id])
	}
	return alerts, nil
}

var _ model.FarmRepository = &mockFarmRepository{}

type mockFarmRepository struct {
	store map[int64]*model.Farm
}

func (m *mockFarmRepository) Update(farm *model.Farm) error {
	if _, ok := m.store[farm.ID]; !ok {
		return model.ErrFarmNotFound
	}
	clone := *farm
	m.store[farm.ID] = &clone
	return nil
}

func (m *mockFarmRepository) Find(id int64) (*model.Farm, error) {
	if farm, ok := m.store[id]; ok {
		clone := *farm
		return &clone, nil
	}
	return nil, model.ErrFarmNotFound
}

func (m *mockFarmRepository) List() ([]model.Farm, error) {
	farms := make([]model.Farm, 0, len(m.store))
	for _, id := range sortedKeys(m.store) {
		farms = append(farms, *m.store[id])
	}
	return farms, nil
}

var _ model.MarketPriceRepository = &mockMarketPriceRepository{}

type mockMarketPriceRepository struct {
	store map[string]*model.MarketPrice
}

func (m *mockMarketPriceRepository) Save(price *model.MarketPrice) error {
	clone := *price
	m.store[strings.ToLower(price.Product)] = &clone
	return nil
}

func (m *mockMarketPriceRepository) FindByProduct(product string) (*model.MarketPrice, error) {
	if price, ok := m.store[strings.ToLower(product)]; ok {
		clone := *price
		return &clone, nil
	}
	return nil, model.ErrMarketPriceNotFound
}

func (m *mockMarketPriceRepository) List() ([]model.MarketPrice, error) {
	prices := make([]model.MarketPrice, 0, len(m.store))
	for _, price := range m.store {
		prices = append(prices, *price)
	}
	sort.Slice(prices, func(i, j int) bool { return prices[i].Product < prices[j].Product })
	return prices, nil
}

var _ model.ForumPostRepository = &mockForumPostRepository{}

type mockForumPostRepository struct {
	store  map[int64]*model.ForumPost
	lastID int64
}

func (m *mockForumPostRepository) NextID() (int64, error) {
	m.lastID++
	return m.lastID, nil
}

func (m *mockForumPostRepository) Create(post *model.ForumPost) error {
	clone := *post
	clone.Answers = append([]model.Answer{}, post.Answers...)
	m.store[post.ID] = &clone
	return nil
}

func (m *mockForumPostRepository) Update(post *model.ForumPost) error {
	if _, ok := m.store[post.ID]; !ok {
		return model.ErrPostNotFound
	}
	return m.Create(post)
}

func (m *mockForumPostRepository) Find(id int64) (*model.ForumPost, error) {
	if post, ok := m.store[id]; ok {
		clone := *post
		clone.Answers = append([]model.Answer{}, post.Answers...)
		return &clone, nil
	}
	return nil, model.ErrPostNotFound
}

func (m *mockForumPostRepository) List() ([]model.ForumPost, error) {
	posts := make([]model.ForumPost, 0, len(m.store))
	for _, id := range sortedKeys(m.store) {
		posts = append(posts, *m.store[id])
	}
	return posts, nil
}

var _ model.NotificationRepository = &mockNotificationRepository{}

type mockNotificationRepository struct {
	store map[uuid.UUID]*model.Notification
}

func (m *mockNotificationRepository) Create(notification *model.Notification) error {
	if _, exists := m.store[notification.ID]; exists {
		return errors.New("notification with this ID already exists")
	}
	clone := *notification
	m.store[notification.ID] = &clone
	return nil
}

func (m *mockNotificationRepository) Update(notification *model.Notification) error {
	if _, exists := m.store[notification.ID]; !exists {
		return errors.New("notification not found")
	}
	clone := *notification
	m.store[notification.ID] = &clone
	return nil
}

func (m *mockNotificationRepository) ListFor(recipient string) ([]model.Notification, error) {
	var found []model.Notification
	for _, n := range m.store {
		if n.Recipient == recipient {
			found = append(found, *n)
		}
	}
	return found, nil
}

var _ model.NotificationSender = &mockNotificationSender{}

type mockNotificationSender struct {
	ShouldError   bool
	SendCount     int
	LastRecipient string
	LastSubject   string
}

func (m *mockNotificationSender) Send(recipient, subject, body string) error {
	m.SendCount++
	m.LastRecipient = recipient
	m.LastSubject = subject
	if m.ShouldError {
		return errors.New("failed to send")
	}
	return nil
}

var _ model.SessionStore = &mockSessionStore{}

// mockSessionStore keeps the identity serialized, like the real slot does.
type mockSessionStore struct {
	data    []byte
	saveErr error
}

func (m *mockSessionStore) Save(user *model.User) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	m.data = data
	return nil
}

func (m *mockSessionStore) Load() (*model.User, error) {
	if m.data == nil {
		return nil, nil
	}
	var user model.User
	if err := json.Unmarshal(m.data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (m *mockSessionStore) Clear() error {
	m.data = nil
	return nil
}

var _ model.PasswordManager = &mockPasswordManager{}

type mockPasswordManager struct{}

func (m *mockPasswordManager) Hash(plainTextPassword string) (string, error) {
	return "hashed:" + plainTextPassword, nil
}

func (m *mockPasswordManager) Check(hashedPassword, plainTextPassword string) (bool, error) {
	return hashedPassword == "hashed:"+plainTextPassword, nil
}

var _ service.EventDispatcher = &mockEventDispatcher{}

type mockEventDispatcher struct {
	events []service.Event
}

func (m *mockEventDispatcher) Dispatch(event service.Event) error {
	m.events = append(m.events, event)
	return nil
}

func (m *mockEventDispatcher) Reset() {
	m.events = nil
}

func sortedKeys[V any](store map[int64]V) []int64 {
	keys := make([]int64, 0, len(store))
	for k := range store {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
