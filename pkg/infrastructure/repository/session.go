package repository

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"

	"farmconnect/pkg/domain/model"
	"farmconnect/pkg/infrastructure/storage"
)

var _ model.SessionStore = &sessionStore{}

// sessionStore keeps the active identity in the currentUser slot.
type sessionStore struct {
	mu      sync.Mutex
	store   storage.Store
	timeout time.Duration
}

func (s *sessionStore) Save(user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return errors.Wrap(err, "encode current user")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return errors.Wrap(s.store.Set(ctx, storage.SlotCurrentUser, data), "save current user")
}

func (s *sessionStore) Load() (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	data, err := s.store.Get(ctx, storage.SlotCurrentUser)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "load current user")
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, errors.Wrap(err, "decode current user")
	}
	return &user, nil
}

func (s *sessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return errors.Wrap(s.store.Remove(ctx, storage.SlotCurrentUser), "clear current user")
}
