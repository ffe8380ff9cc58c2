package storage

import (
	"context"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("slot not found")

const (
	SlotCurrentUser    = "currentUser"
	SlotUsers          = "users"
	SlotProducts       = "products"
	SlotForumPosts     = "forumPosts"
	SlotFarmerRequests = "farmerRequests"
	SlotWeatherAlerts  = "weatherAlerts"
	SlotFarms          = "farms"
	SlotOrders         = "orders"
	SlotMealKits       = "mealKits"
	SlotMarketPrices   = "marketPrices"
	SlotNotifications  = "notifications"
	SlotSequences      = "sequences"
)

// Slots lists every slot the console persists.
var Slots = []string{
	SlotCurrentUser,
	SlotUsers,
	SlotProducts,
	SlotForumPosts,
	SlotFarmerRequests,
	SlotWeatherAlerts,
	SlotFarms,
	SlotOrders,
	SlotMealKits,
	SlotMarketPrices,
	SlotNotifications,
	SlotSequences,
}

// Store is a string-keyed document store. Every Set overwrites the whole slot.
type Store interface {
	Get(ctx context.Context, slot string) ([]byte, error)
	Set(ctx context.Context, slot string, value []byte) error
	Remove(ctx context.Context, slot string) error
	Close() error
}

// Has reports whether the slot holds a value.
func Has(ctx context.Context, store Store, slot string) (bool, error) {
	_, err := store.Get(ctx, slot)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return false, err
}
