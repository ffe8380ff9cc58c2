package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductAdded struct {
	ProductID int64
	Name      string
}

func (e ProductAdded) Type() string { return "ProductAdded" }

type ProductUpdated struct {
	ProductID int64
}

func (e ProductUpdated) Type() string { return "ProductUpdated" }

type ProductPriceChanged struct {
	ProductID int64
	OldPrice  decimal.Decimal
	NewPrice  decimal.Decimal
}

func (e ProductPriceChanged) Type() string { return "ProductPriceChanged" }

type ProductRemoved struct {
	ProductID int64
}

func (e ProductRemoved) Type() string { return "ProductRemoved" }

type FarmerRequestSubmitted struct {
	RequestID   int64
	FarmerEmail string
	Product     string
}

func (e FarmerRequestSubmitted) Type() string { return "FarmerRequestSubmitted" }

type FarmerRequestApproved struct {
	RequestID int64
	ProductID *int64
	Comment   string
}

func (e FarmerRequestApproved) Type() string { return "FarmerRequestApproved" }

type FarmerRequestRejected struct {
	RequestID int64
	Reason    string
}

func (e FarmerRequestRejected) Type() string { return "FarmerRequestRejected" }

type AccountRegistered struct {
	AccountID int64
	Email     string
	Role      Role
}

func (e AccountRegistered) Type() string { return "AccountRegistered" }

type AccountStatusChanged struct {
	AccountID int64
	OldStatus AccountStatus
	NewStatus AccountStatus
	Reason    string
}

func (e AccountStatusChanged) Type() string { return "AccountStatusChanged" }

type UserLoggedIn struct {
	Email string
	Role  Role
}

func (e UserLoggedIn) Type() string { return "UserLoggedIn" }

type UserLoggedOut struct {
	Email string
}

func (e UserLoggedOut) Type() string { return "UserLoggedOut" }

type OrderPlaced struct {
	OrderID     uuid.UUID
	BuyerEmail  string
	TotalAmount decimal.Decimal
}

func (e OrderPlaced) Type() string { return "OrderPlaced" }

type OrderStatusChanged struct {
	OrderID   uuid.UUID
	NewStatus OrderStatus
	Reason    string
}

func (e OrderStatusChanged) Type() string { return "OrderStatusChanged" }

type MealKitChanged struct {
	MealKitID int64
	Price     decimal.Decimal
}

func (e MealKitChanged) Type() string { return "MealKitChanged" }

type WeatherAlertPublished struct {
	AlertID  int64
	Severity Severity
	Regions  []string
}

func (e WeatherAlertPublished) Type() string { return "WeatherAlertPublished" }

type WeatherAlertRetired struct {
	AlertID int64
}

func (e WeatherAlertRetired) Type() string { return "WeatherAlertRetired" }

type MarketPriceUpdated struct {
	Product string
	Market  string
	Price   decimal.Decimal
}

func (e MarketPriceUpdated) Type() string { return "MarketPriceUpdated" }

type FarmUpdated struct {
	FarmID int64
}

func (e FarmUpdated) Type() string { return "FarmUpdated" }

type ForumPostCreated struct {
	PostID int64
	Author string
}

func (e ForumPostCreated) Type() string { return "ForumPostCreated" }

type ForumPostAnswered struct {
	PostID int64
	Author string
}

func (e ForumPostAnswered) Type() string { return "ForumPostAnswered" }

type NotificationSent struct {
	NotificationID uuid.UUID
	Recipient      string
}

func (e NotificationSent) Type() string { return "NotificationSent" }

type NotificationFailed struct {
	NotificationID uuid.UUID
	Recipient      string
	Reason         string
}

func (e NotificationFailed) Type() string { return "NotificationFailed" }
