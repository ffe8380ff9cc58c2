package tests

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmconnect/pkg/domain/model"
	"farmconnect/pkg/domain/service"
)

func TestCapabilityDenied(t *testing.T) {
	f := setup(t)

	_, err := f.console.Admin()
	assert.ErrorIs(t, err, service.ErrNoSession)

	require.NoError(t, f.services.Session.Login(model.NewBuyer("Sarah", "sarah@example.com")))
	_, err = f.console.Admin()
	assert.ErrorIs(t, err, service.ErrCapabilityDenied)
	_, err = f.console.Farmer()
	assert.ErrorIs(t, err, service.ErrCapabilityDenied)
	_, err = f.console.Buyer()
	assert.NoError(t, err)
}

func TestBuyerCheckout(t *testing.T) {
	f := setup(t)
	tomatoes, err := f.services.Catalog.Add(service.NewProduct{Name: "Tomatoes", Price: price("2.75")})
	require.NoError(t, err)
	milk, err := f.services.Catalog.Add(service.NewProduct{Name: "Milk", Price: price("1.90")})
	require.NoError(t, err)

	require.NoError(t, f.services.Session.Login(model.NewBuyer("Sarah", "sarah@example.com")))
	buyer, err := f.console.Buyer()
	require.NoError(t, err)

	t.Run("Empty cart fails", func(t *testing.T) {
		_, err := buyer.Checkout()
		assert.ErrorIs(t, err, service.ErrEmptyCart)
		assert.Empty(t, f.orders.store)
	})

	t.Run("Cart lives in the session", func(t *testing.T) {
		_, err := buyer.AddToCart(tomatoes.ID)
		require.NoError(t, err)
		_, err = buyer.AddToCart(milk.ID)
		require.NoError(t, err)
		_, err = buyer.AddToCart(milk.ID)
		require.NoError(t, err)

		cart, err := buyer.RemoveFromCart(milk.ID)
		require.NoError(t, err)
		assert.Len(t, cart, 2)

		cart, total, err := buyer.Cart()
		require.NoError(t, err)
		assert.Len(t, cart, 2)
		assert.True(t, price("4.65").Equal(total))

		_, err = buyer.RemoveFromCart(999)
		assert.ErrorIs(t, err, model.ErrProductNotFound)
	})

	t.Run("Checkout places a pending order", func(t *testing.T) {
		f.dispatcher.Reset()
		order, err := buyer.Checkout()
		require.NoError(t, err)
		assert.Equal(t, model.OrderPending, order.Status)
		assert.True(t, price("4.65").Equal(order.TotalAmount))
		assert.Contains(t, f.orders.store, order.ID)
		assert.Contains(t, f.eventTypes(), "OrderPlaced")

		cart, total, err := buyer.Cart()
		require.NoError(t, err)
		assert.Empty(t, cart)
		assert.True(t, decimal.Zero.Equal(total))

		current, _, err := f.services.Session.CurrentUser()
		require.NoError(t, err)
		assert.Len(t, current.Buyer.Orders, 1)
		assert.Len(t, current.Buyer.Notifications, 1)

		orders, err := buyer.Orders()
		require.NoError(t, err)
		assert.Len(t, orders, 1)

		notifications, err := buyer.Notifications()
		require.NoError(t, err)
		assert.Len(t, notifications, 1)
	})

	t.Run("Stale actor after logout", func(t *testing.T) {
		require.NoError(t, f.services.Session.Logout())
		_, err := buyer.AddToCart(tomatoes.ID)
		assert.ErrorIs(t, err, service.ErrNoSession)
	})
}

func TestCheckoutNeverDuplicatesOrders(t *testing.T) {
	f := setup(t)
	tomatoes, err := f.services.Catalog.Add(service.NewProduct{Name: "Tomatoes", Price: price("2.75")})
	require.NoError(t, err)

	require.NoError(t, f.services.Session.Login(model.NewBuyer("Sarah", "sarah@example.com")))
	buyer, err := f.console.Buyer()
	require.NoError(t, err)
	_, err = buyer.AddToCart(tomatoes.ID)
	require.NoError(t, err)

	t.Run("Session write fails before any order exists", func(t *testing.T) {
		diskFull := errors.New("disk full")
		f.session.saveErr = diskFull
		defer func() { f.session.saveErr = nil }()

		_, err := buyer.Checkout()
		assert.ErrorIs(t, err, diskFull)
		assert.Empty(t, f.orders.store)
	})

	t.Run("Failed order keeps the cart", func(t *testing.T) {
		f.dispatcher.Reset()
		f.orders.createErr = model.ErrOptimisticLock
		defer func() { f.orders.createErr = nil }()

		_, err := buyer.Checkout()
		assert.ErrorIs(t, err, model.ErrOptimisticLock)
		assert.Empty(t, f.orders.store)
		assert.NotContains(t, f.eventTypes(), "OrderPlaced")

		current, _, err := f.services.Session.CurrentUser()
		require.NoError(t, err)
		assert.Len(t, current.Buyer.Cart, 1)
		assert.Empty(t, current.Buyer.Orders)
		assert.Empty(t, current.Buyer.Notifications)
	})

	t.Run("Retry places exactly one order", func(t *testing.T) {
		order, err := buyer.Checkout()
		require.NoError(t, err)
		assert.Len(t, f.orders.store, 1)
		assert.Contains(t, f.orders.store, order.ID)

		_, err = buyer.Checkout()
		assert.ErrorIs(t, err, service.ErrEmptyCart)
		assert.Len(t, f.orders.store, 1)

		current, _, err := f.services.Session.CurrentUser()
		require.NoError(t, err)
		assert.Empty(t, current.Buyer.Cart)
		assert.Len(t, current.Buyer.Orders, 1)
	})
}

func TestBuyerCancelsOnlyOwnOrders(t *testing.T) {
	f := setup(t)
	foreign := placeOrder(t, f, "5.00")

	require.NoError(t, f.services.Session.Login(model.NewBuyer("Mike", "mike@example.com")))
	buyer, err := f.console.Buyer()
	require.NoError(t, err)

	_, err = buyer.CancelOrder(foreign.ID, "mine now")
	assert.ErrorIs(t, err, service.ErrNotOrderOwner)
	assert.Equal(t, model.OrderPending, f.orders.store[foreign.ID].Status)
}

func TestFarmerRequests(t *testing.T) {
	f := setup(t)
	product := addTomatoes(t, f)
	require.NoError(t, f.services.Session.Login(model.NewFarmer("John Smith", "john@greenvalley.com", "Green Valley Farm", "organic")))

	farmer, err := f.console.Farmer()
	require.NoError(t, err)

	ack, err := farmer.RequestUpdateProduct(product.ID, "Update price to $3.00/kg", model.RequestedChange{})
	require.NoError(t, err)
	assert.True(t, ack.Success)

	_, err = farmer.RequestAddProduct(service.NewProduct{Name: "Kale", Quantity: 10, Unit: "bunch", Price: price("1.25")})
	require.NoError(t, err)

	_, err = farmer.RequestRemoveProduct(product.ID, "season over")
	require.NoError(t, err)

	_, err = farmer.RequestRemoveProduct(404, "")
	assert.ErrorIs(t, err, model.ErrProductNotFound)

	mine, err := farmer.MyRequests()
	require.NoError(t, err)
	require.Len(t, mine, 3)
	assert.Equal(t, "Green Valley Farm", mine[0].Farm)
	assert.Equal(t, model.ChangeAddProduct, mine[1].Change.Kind)
	assert.Equal(t, model.ChangeRemoveProduct, mine[2].Change.Kind)

	// Only the admin can decide.
	require.NoError(t, f.services.Session.Login(model.NewAdmin("Admin", "admin@agrivision.com")))
	admin, err := f.console.Admin()
	require.NoError(t, err)

	_, err = admin.ApproveRequest(mine[0].ID, service.Approval{Confirmed: true})
	require.NoError(t, err)
	assert.True(t, price("3.00").Equal(f.products.store[product.ID].Price))

	// A remove request is approved without touching the catalog.
	_, err = admin.ApproveRequest(mine[2].ID, service.Approval{Confirmed: true})
	require.NoError(t, err)
	assert.Contains(t, f.products.store, product.ID)

	stats, err := admin.Dashboard()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.PendingRequests)
	assert.Equal(t, 1, stats.ActiveProducts)
}
