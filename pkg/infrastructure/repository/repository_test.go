package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmconnect/pkg/domain/model"
	"farmconnect/pkg/infrastructure/storage"
)

func setup(t *testing.T) (*Repositories, storage.Store) {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return New(store, time.Second), store
}

func createProduct(t *testing.T, repos *Repositories, name string) *model.Product {
	t.Helper()
	id, err := repos.Products.NextID()
	require.NoError(t, err)
	product := &model.Product{ID: id, Name: name, Price: decimal.RequireFromString("2.50"), Unit: "kg", Version: 1}
	require.NoError(t, repos.Products.Create(product))
	return product
}

func TestProductIDsAreNeverReused(t *testing.T) {
	repos, store := setup(t)

	first := createProduct(t, repos, "Tomatoes")
	second := createProduct(t, repos, "Carrots")
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)

	require.NoError(t, repos.Products.Delete(second.ID))
	third := createProduct(t, repos, "Lettuce")
	assert.Equal(t, int64(3), third.ID)

	t.Run("Survives a restart", func(t *testing.T) {
		reopened := New(store, time.Second)
		require.NoError(t, reopened.Products.Delete(third.ID))
		id, err := reopened.Products.NextID()
		require.NoError(t, err)
		assert.Equal(t, int64(4), id)
	})

	t.Run("Sequences are per collection", func(t *testing.T) {
		id, err := repos.Requests.NextID()
		require.NoError(t, err)
		assert.Equal(t, int64(1), id)
	})

	assert.ErrorIs(t, repos.Products.Delete(99), model.ErrProductNotFound)
}

func TestSequenceFloorFollowsSeededIDs(t *testing.T) {
	repos, _ := setup(t)
	require.NoError(t, repos.Products.Create(&model.Product{ID: 40, Name: "Seeded", Version: 1}))

	id, err := repos.Products.NextID()
	require.NoError(t, err)
	assert.Equal(t, int64(41), id)
}

func TestProductOptimisticLock(t *testing.T) {
	repos, _ := setup(t)
	product := createProduct(t, repos, "Tomatoes")

	stale := *product
	product.Quantity = 10
	product.Version = 2
	require.NoError(t, repos.Products.Update(product))

	stale.Quantity = 5
	assert.ErrorIs(t, repos.Products.Update(&stale), model.ErrOptimisticLock)

	stored, err := repos.Products.Find(product.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.Quantity)

	missing := model.Product{ID: 77, Version: 2}
	assert.ErrorIs(t, repos.Products.Update(&missing), model.ErrProductNotFound)
}

func TestNameAndEmailLookups(t *testing.T) {
	repos, _ := setup(t)
	createProduct(t, repos, "Organic Tomatoes")

	product, err := repos.Products.FindByName("Organic Tomatoes")
	require.NoError(t, err)
	assert.Equal(t, "Organic Tomatoes", product.Name)

	_, err = repos.Products.FindByName("organic tomatoes")
	assert.ErrorIs(t, err, model.ErrProductNotFound)
	_, err = repos.Products.FindByName(" Organic Tomatoes ")
	assert.ErrorIs(t, err, model.ErrProductNotFound)

	require.NoError(t, repos.Accounts.Create(&model.Account{ID: 1, Role: model.RoleBuyer, Name: "Sarah", Email: "Sarah@Example.com"}))
	account, err := repos.Accounts.FindByEmail("sarah@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), account.ID)

	err = repos.Accounts.Create(&model.Account{ID: 2, Role: model.RoleBuyer, Name: "Other", Email: "SARAH@example.com"})
	assert.ErrorIs(t, err, model.ErrEmailTaken)

	require.NoError(t, repos.MarketPrices.Save(&model.MarketPrice{Product: "Tomatoes", Market: "City", Price: decimal.RequireFromString("2.10")}))
	require.NoError(t, repos.MarketPrices.Save(&model.MarketPrice{Product: "tomatoes", Market: "Farm Gate", Price: decimal.RequireFromString("2.30")}))
	prices, err := repos.MarketPrices.List()
	require.NoError(t, err)
	require.Len(t, prices, 1)
	assert.Equal(t, "Farm Gate", prices[0].Market)
}

func TestOrderOptimisticLock(t *testing.T) {
	repos, _ := setup(t)
	id, err := model.NewOrderID()
	require.NoError(t, err)

	order := model.NewOrder(id, "sarah@example.com", time.Now().UTC())
	require.NoError(t, repos.Orders.Create(order))

	confirmed := *order
	require.NoError(t, confirmed.Confirm())
	confirmed.Version++
	require.NoError(t, repos.Orders.Update(&confirmed))
	assert.ErrorIs(t, repos.Orders.Update(order), model.ErrOptimisticLock)

	stored, err := repos.Orders.Find(id)
	require.NoError(t, err)
	assert.Equal(t, model.OrderConfirmed, stored.Status)

	_, err = repos.Orders.Find(uuid.New())
	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}

func TestSessionRoundTrip(t *testing.T) {
	repos, store := setup(t)

	user, err := repos.Session.Load()
	require.NoError(t, err)
	assert.Nil(t, user)

	farmer := model.NewFarmer("John", "john@farm.com", "Green Valley", "vegetables")
	farmer.IsLoggedIn = true
	require.NoError(t, repos.Session.Save(farmer))

	user, err = New(store, time.Second).Session.Load()
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, model.RoleFarmer, user.Role)
	assert.Equal(t, "Green Valley", user.Farmer.FarmName)
	assert.True(t, user.IsLoggedIn)

	require.NoError(t, repos.Session.Clear())
	user, err = repos.Session.Load()
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestNotificationsByRecipient(t *testing.T) {
	repos, _ := setup(t)

	note := &model.Notification{ID: uuid.New(), Recipient: "a@example.com", Subject: "Hi"}
	require.NoError(t, repos.Notifications.Create(note))
	require.NoError(t, repos.Notifications.Create(&model.Notification{ID: uuid.New(), Recipient: "b@example.com"}))

	note.Status = model.DeliverySent
	require.NoError(t, repos.Notifications.Update(note))

	found, err := repos.Notifications.ListFor("A@example.com")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, model.DeliverySent, found[0].Status)

	missing := &model.Notification{ID: uuid.New()}
	assert.ErrorIs(t, repos.Notifications.Update(missing), model.ErrNotificationNotFound)
}

func TestCorruptSlotSurfacesAsError(t *testing.T) {
	repos, store := setup(t)
	require.NoError(t, store.Set(t.Context(), storage.SlotForumPosts, []byte("{not json")))

	_, err := repos.ForumPosts.List()
	assert.Error(t, err)
}

func TestOutOfRangeEnumNeverReachesSlot(t *testing.T) {
	repos, _ := setup(t)
	require.NoError(t, repos.WeatherAlerts.Create(&model.WeatherAlert{ID: 1, Type: "Rain", Severity: model.SeverityHigh, Regions: []string{"North"}}))

	err := repos.WeatherAlerts.Create(&model.WeatherAlert{ID: 2, Type: "Hail", Severity: model.Severity(7), Regions: []string{"North"}})
	assert.ErrorContains(t, err, "invalid severity 7")

	alerts, err := repos.WeatherAlerts.List()
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, model.SeverityHigh, alerts[0].Severity)

	err = repos.Requests.Create(&model.FarmerRequest{ID: 1, Product: "Carrots", Change: model.RequestedChange{Kind: model.ChangeKind(9)}})
	assert.Error(t, err)
	requests, err := repos.Requests.List()
	require.NoError(t, err)
	assert.Empty(t, requests)
}
