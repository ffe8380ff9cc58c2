package model

import (
	"encoding/json"
	"errors"
)

var ErrUnknownRole = errors.New("unknown user role")

type Role string

const (
	RoleFarmer Role = "farmer"
	RoleBuyer  Role = "buyer"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleFarmer, RoleBuyer, RoleAdmin:
		return true
	}
	return false
}

// User is the logged-in identity. Exactly one of Farmer, Buyer and Admin is
// set and it always matches Role.
type User struct {
	Role       Role
	Name       string
	Email      string
	IsLoggedIn bool

	Farmer *FarmerProfile
	Buyer  *BuyerProfile
	Admin  *AdminProfile
}

type FarmerProfile struct {
	FarmName string  `json:"farmName"`
	FarmType string  `json:"farmType"`
	Products []int64 `json:"products"`
}

type AdminProfile struct {
	Permissions []string `json:"permissions"`
}

func NewFarmer(name, email, farmName, farmType string) *User {
	return &User{
		Role:   RoleFarmer,
		Name:   name,
		Email:  email,
		Farmer: &FarmerProfile{FarmName: farmName, FarmType: farmType, Products: []int64{}},
	}
}

func NewBuyer(name, email string) *User {
	return &User{
		Role:  RoleBuyer,
		Name:  name,
		Email: email,
		Buyer: &BuyerProfile{Cart: []Product{}, Orders: []Order{}, Notifications: []string{}},
	}
}

func NewAdmin(name, email string) *User {
	return &User{
		Role:  RoleAdmin,
		Name:  name,
		Email: email,
		Admin: &AdminProfile{Permissions: []string{"all"}},
	}
}

type userHeader struct {
	Role       Role   `json:"type"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	IsLoggedIn bool   `json:"isLoggedIn"`
}

// MarshalJSON flattens the role payload next to the common fields, the shape
// the dashboards keep in the currentUser slot.
func (u User) MarshalJSON() ([]byte, error) {
	header := userHeader{Role: u.Role, Name: u.Name, Email: u.Email, IsLoggedIn: u.IsLoggedIn}
	switch u.Role {
	case RoleFarmer:
		return json.Marshal(struct {
			userHeader
			*FarmerProfile
		}{header, u.farmerProfile()})
	case RoleBuyer:
		return json.Marshal(struct {
			userHeader
			*BuyerProfile
		}{header, u.buyerProfile()})
	case RoleAdmin:
		return json.Marshal(struct {
			userHeader
			*AdminProfile
		}{header, u.adminProfile()})
	}
	return nil, ErrUnknownRole
}

func (u *User) UnmarshalJSON(data []byte) error {
	var header userHeader
	if err := json.Unmarshal(data, &header); err != nil {
		return err
	}

	*u = User{Role: header.Role, Name: header.Name, Email: header.Email, IsLoggedIn: header.IsLoggedIn}
	switch header.Role {
	case RoleFarmer:
		u.Farmer = &FarmerProfile{}
		return json.Unmarshal(data, u.Farmer)
	case RoleBuyer:
		u.Buyer = &BuyerProfile{}
		return json.Unmarshal(data, u.Buyer)
	case RoleAdmin:
		u.Admin = &AdminProfile{}
		return json.Unmarshal(data, u.Admin)
	}
	return ErrUnknownRole
}

func (u User) farmerProfile() *FarmerProfile {
	if u.Farmer == nil {
		return &FarmerProfile{}
	}
	return u.Farmer
}

func (u User) buyerProfile() *BuyerProfile {
	if u.Buyer == nil {
		return &BuyerProfile{}
	}
	return u.Buyer
}

func (u User) adminProfile() *AdminProfile {
	if u.Admin == nil {
		return &AdminProfile{}
	}
	return u.Admin
}

// EntryPoint is the dashboard page reachable for the role.
func EntryPoint(role Role) string {
	switch role {
	case RoleFarmer:
		return "farmer.html"
	case RoleBuyer:
		return "buyer.html"
	case RoleAdmin:
		return "admin.html"
	}
	return "index.html"
}
