package model

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrEmailTaken      = errors.New("email is already taken")
)

type AccountStatus int

const (
	AccountPending AccountStatus = iota
	AccountActive
	AccountRejected
	AccountBanned
)

var accountStatusNames = []string{"pending", "active", "rejected", "banned"}

func (s AccountStatus) String() string { return enumName(accountStatusNames, int(s)) }

func (s AccountStatus) Valid() bool { return enumValid(accountStatusNames, int(s)) }

func (s AccountStatus) MarshalText() ([]byte, error) {
	return marshalEnum("account status", accountStatusNames, int(s))
}

func (s *AccountStatus) UnmarshalText(text []byte) error {
	v, err := parseEnum("account status", accountStatusNames, text)
	*s = AccountStatus(v)
	return err
}

// Account is a record of the user directory kept in the "users" slot.
type Account struct {
	ID           int64         `json:"id"`
	Role         Role          `json:"type"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	Password     string        `json:"password"`
	Phone        string        `json:"phone,omitempty"`
	FarmName     string        `json:"farmName,omitempty"`
	FarmType     string        `json:"farmType,omitempty"`
	Status       AccountStatus `json:"status"`
	StatusReason string        `json:"statusReason,omitempty"`
	Registered   time.Time     `json:"registered"`
}

// Identity builds the role variant for the account.
func (a Account) Identity() (*User, error) {
	switch a.Role {
	case RoleFarmer:
		return NewFarmer(a.Name, a.Email, a.FarmName, a.FarmType), nil
	case RoleBuyer:
		return NewBuyer(a.Name, a.Email), nil
	case RoleAdmin:
		return NewAdmin(a.Name, a.Email), nil
	}
	return nil, ErrUnknownRole
}

type AccountFilter struct {
	Search string
	Role   Role
	Status *AccountStatus
}

func (f AccountFilter) Match(a Account) bool {
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(a.Name), term) && !strings.Contains(strings.ToLower(a.Email), term) {
			return false
		}
	}
	if f.Role != "" && a.Role != f.Role {
		return false
	}
	if f.Status != nil && a.Status != *f.Status {
		return false
	}
	return true
}

type AccountRepository interface {
	NextID() (int64, error)
	Create(account *Account) error
	Update(account *Account) error
	Find(id int64) (*Account, error)
	FindByEmail(email string) (*Account, error)
	List() ([]Account, error)
}

type PasswordManager interface {
	Hash(plainTextPassword string) (string, error)
	Check(hashedPassword, plainTextPassword string) (bool, error)
}
