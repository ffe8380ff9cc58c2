package password

import (
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"farmconnect/pkg/domain/model"
)

var _ model.PasswordManager = &BcryptManager{}

type BcryptManager struct {
	cost int
}

// NewBcryptManager falls back to bcrypt.DefaultCost for costs outside the
// range bcrypt accepts.
func NewBcryptManager(cost int) *BcryptManager {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptManager{cost: cost}
}

func (m *BcryptManager) Hash(plainTextPassword string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), m.cost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(hashed), nil
}

func (m *BcryptManager) Check(hashedPassword, plainTextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainTextPassword))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "check password")
	}
	return true, nil
}
