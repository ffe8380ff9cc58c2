package tests

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmconnect/pkg/domain/model"
	"farmconnect/pkg/domain/service"
)

func TestWeatherAlerts(t *testing.T) {
	f := setup(t)

	t.Run("Fail without regions", func(t *testing.T) {
		_, err := f.services.Weather.Publish(service.NewWeatherAlert{Type: "Frost", Message: "Cold night"})
		assert.ErrorIs(t, err, service.ErrAlertIncomplete)
	})

	t.Run("Fail on unknown severity", func(t *testing.T) {
		_, err := f.services.Weather.Publish(service.NewWeatherAlert{
			Type:     "Frost",
			Severity: model.Severity(7),
			Message:  "Cold night",
			Regions:  []string{"North"},
		})
		assert.ErrorIs(t, err, service.ErrInvalidSeverity)
		assert.Empty(t, f.alerts.store)
		assert.Zero(t, f.alerts.lastID)
	})

	alert, err := f.services.Weather.Publish(service.NewWeatherAlert{
		Type:     "Frost",
		Severity: model.SeverityHigh,
		Message:  "Protect seedlings",
		Regions:  []string{"North Valley", "Central Plains"},
	})
	require.NoError(t, err)
	assert.True(t, alert.Active)
	assert.Equal(t, time.Now().UTC().Truncate(24*time.Hour), alert.Date)

	regional, err := f.services.Weather.ForRegion("North Valley")
	require.NoError(t, err)
	assert.Len(t, regional, 1)

	regional, err = f.services.Weather.ForRegion("Coast")
	require.NoError(t, err)
	assert.Empty(t, regional)

	f.dispatcher.Reset()
	_, err = f.services.Weather.Retire(alert.ID)
	require.NoError(t, err)
	_, err = f.services.Weather.Retire(alert.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"WeatherAlertRetired"}, f.eventTypes())

	active, err := f.services.Weather.Active()
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := f.services.Weather.List()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMarketPrices(t *testing.T) {
	f := setup(t)

	t.Run("All fields required", func(t *testing.T) {
		_, err := f.services.Market.AddEntry("Tomatoes", "", "2.10", model.TrendStable, "")
		assert.ErrorIs(t, err, service.ErrPriceEntryIncomplete)
		_, err = f.services.Market.AddEntry("Tomatoes", "City Market", "2.10", "sideways", "")
		assert.ErrorIs(t, err, service.ErrInvalidTrend)
	})

	entry, err := f.services.Market.AddEntry("Tomatoes", "City Market", "$2.10", model.TrendIncreasing, "Hold stock")
	require.NoError(t, err)
	assert.True(t, price("2.10").Equal(entry.Price))

	t.Run("Numeric check runs before the lookup", func(t *testing.T) {
		_, err := f.services.Market.UpdatePrice("Unknown", "abc")
		assert.ErrorIs(t, err, service.ErrInvalidPrice)
		_, err = f.services.Market.UpdatePrice("Unknown", "1.00")
		assert.ErrorIs(t, err, model.ErrMarketPriceNotFound)
	})

	updated, err := f.services.Market.UpdatePrice("tomatoes", "2.40")
	require.NoError(t, err)
	assert.True(t, price("2.40").Equal(updated.Price))
	assert.Equal(t, "City Market", updated.Market)
}

func TestForum(t *testing.T) {
	f := setup(t)

	_, err := f.services.Forum.Ask("", "soil", "John")
	assert.ErrorIs(t, err, service.ErrPostIncomplete)

	post, err := f.services.Forum.Ask("Best cover crop?", "soil", "John")
	require.NoError(t, err)
	assert.Empty(t, post.Answers)

	post, err = f.services.Forum.Answer(post.ID, "Maria", "Crimson clover")
	require.NoError(t, err)
	require.Len(t, post.Answers, 1)
	assert.Equal(t, "Maria", post.Answers[0].Author)

	_, err = f.services.Forum.Answer(77, "Maria", "hello")
	assert.ErrorIs(t, err, model.ErrPostNotFound)
}

func TestUpdateFarm(t *testing.T) {
	f := setup(t)
	f.farms.store[1] = &model.Farm{ID: 1, Name: "Green Valley Farm", Location: "North Valley"}

	location := "South Ridge"
	farm, err := f.services.Farms.Update(1, model.FarmPatch{Location: &location})
	require.NoError(t, err)
	assert.Equal(t, "South Ridge", farm.Location)
	assert.Equal(t, "Green Valley Farm", f.farms.store[1].Name)
	assert.Equal(t, []string{"FarmUpdated"}, f.eventTypes())

	_, err = f.services.Farms.Update(2, model.FarmPatch{Location: &location})
	assert.ErrorIs(t, err, model.ErrFarmNotFound)
}

func TestNotificationDelivery(t *testing.T) {
	f := setup(t)

	t.Run("Sent", func(t *testing.T) {
		require.NoError(t, f.services.Notifications.Broadcast([]string{"a@example.com"}, "Maintenance tonight"))
		sent, err := f.services.Notifications.ListFor("a@example.com")
		require.NoError(t, err)
		require.Len(t, sent, 1)
		assert.Equal(t, model.DeliverySent, sent[0].Status)
		assert.NotNil(t, sent[0].SentAt)
	})

	t.Run("Sender fails", func(t *testing.T) {
		f.sender.ShouldError = true
		f.dispatcher.Reset()
		require.NoError(t, f.services.Notifications.Broadcast([]string{"b@example.com"}, "Maintenance tonight"))

		failed, err := f.services.Notifications.ListFor("b@example.com")
		require.NoError(t, err)
		require.Len(t, failed, 1)
		assert.Equal(t, model.DeliveryFailed, failed[0].Status)
		assert.Equal(t, "failed to send", failed[0].FailureReason)
		assert.Equal(t, []string{"NotificationFailed"}, f.eventTypes())
	})
}

func TestDashboardStats(t *testing.T) {
	f := setup(t)
	registerBuyer(t, f)
	addTomatoes(t, f)
	placeOrder(t, f, "2.00", "3.50")
	_, err := f.services.Weather.Publish(service.NewWeatherAlert{Type: "Heat", Message: "Irrigate", Regions: []string{"Central Plains"}})
	require.NoError(t, err)

	stats, err := f.services.Dashboard.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalUsers)
	assert.Equal(t, 0, stats.PendingRequests)
	assert.Equal(t, 1, stats.ActiveProducts)
	assert.Equal(t, 1, stats.ActiveAlerts)
	assert.True(t, price("5.50").Equal(stats.Revenue))
}

func TestRequestedPrice(t *testing.T) {
	cases := []struct {
		name    string
		request model.FarmerRequest
		want    string
		ok      bool
	}{
		{"legacy text", model.FarmerRequest{Request: "Update PRICE to $3.00/kg"}, "3.00", true},
		{"first amount wins", model.FarmerRequest{Request: "price from $2 to $4"}, "2", true},
		{"trailing dot", model.FarmerRequest{Request: "price now $5."}, "5", true},
		{"no keyword", model.FarmerRequest{Request: "Sell for $3"}, "", false},
		{"no amount", model.FarmerRequest{Request: "Lower the price"}, "", false},
		{"structured", model.FarmerRequest{Change: model.RequestedChange{Kind: model.ChangePrice, Value: "$1.75"}}, "1.75", true},
		{"structured garbage", model.FarmerRequest{Change: model.RequestedChange{Kind: model.ChangePrice, Value: "cheap"}}, "", false},
		{"other structured kind", model.FarmerRequest{Request: "price $9", Change: model.RequestedChange{Kind: model.ChangeQuantity, Value: "9"}}, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.request.RequestedPrice()
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.True(t, price(tc.want).Equal(got), got.String())
			}
		})
	}
}
