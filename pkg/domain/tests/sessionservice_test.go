package tests

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmconnect/pkg/domain/model"
	"farmconnect/pkg/domain/service"
)

func TestSession(t *testing.T) {
	f := setup(t)

	t.Run("Empty session", func(t *testing.T) {
		user, ok, err := f.services.Session.CurrentUser()
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, user)
	})

	t.Run("Login replaces the slot", func(t *testing.T) {
		require.NoError(t, f.services.Session.Login(model.NewBuyer("Sarah", "sarah@example.com")))
		require.NoError(t, f.services.Session.Login(model.NewFarmer("John", "john@greenvalley.com", "Green Valley Farm", "organic")))

		user, ok, err := f.services.Session.CurrentUser()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, model.RoleFarmer, user.Role)
		require.NotNil(t, user.Farmer)
		assert.Equal(t, "Green Valley Farm", user.Farmer.FarmName)
	})

	t.Run("CurrentUser is idempotent", func(t *testing.T) {
		first, _, err := f.services.Session.CurrentUser()
		require.NoError(t, err)
		second, _, err := f.services.Session.CurrentUser()
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("Save requires the same identity", func(t *testing.T) {
		err := f.services.Session.Save(model.NewBuyer("Sarah", "sarah@example.com"))
		assert.ErrorIs(t, err, service.ErrNoSession)
	})

	t.Run("Logout clears the slot", func(t *testing.T) {
		f.dispatcher.Reset()
		require.NoError(t, f.services.Session.Logout())
		_, ok, err := f.services.Session.CurrentUser()
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, []string{"UserLoggedOut"}, f.eventTypes())
	})
}

func TestUserJSONShape(t *testing.T) {
	user := model.NewFarmer("John", "john@greenvalley.com", "Green Valley Farm", "organic")
	user.IsLoggedIn = true

	data, err := json.Marshal(user)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "farmer", raw["type"])
	assert.Equal(t, "Green Valley Farm", raw["farmName"])
	assert.Equal(t, true, raw["isLoggedIn"])
	assert.NotContains(t, raw, "cart")

	var decoded model.User
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, user.Farmer, decoded.Farmer)
	assert.Nil(t, decoded.Buyer)

	require.Error(t, json.Unmarshal([]byte(`{"type":"wizard"}`), &decoded))
}

func TestEntryPoint(t *testing.T) {
	assert.Equal(t, "farmer.html", model.EntryPoint(model.RoleFarmer))
	assert.Equal(t, "buyer.html", model.EntryPoint(model.RoleBuyer))
	assert.Equal(t, "admin.html", model.EntryPoint(model.RoleAdmin))
	assert.Equal(t, "index.html", model.EntryPoint(""))
}
