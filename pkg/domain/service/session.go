package service

import (
	"errors"

	"farmconnect/pkg/domain/model"
)

var ErrNoSession = errors.New("nobody is logged in")

type SessionService interface {
	Login(user *model.User) error
	Logout() error
	CurrentUser() (*model.User, bool, error)
	Save(user *model.User) error
}

func NewSessionService(store model.SessionStore, dispatcher EventDispatcher) SessionService {
	return &sessionService{store: store, dispatcher: dispatcher}
}

type sessionService struct {
	store      model.SessionStore
	dispatcher EventDispatcher
}

// Login replaces whatever identity was stored before.
func (s *sessionService) Login(user *model.User) error {
	user.IsLoggedIn = true
	if err := s.store.Save(user); err != nil {
		user.IsLoggedIn = false
		return err
	}

	dispatch(s.dispatcher, model.UserLoggedIn{Email: user.Email, Role: user.Role})
	return nil
}

func (s *sessionService) Logout() error {
	current, err := s.store.Load()
	if err != nil {
		return err
	}
	if err := s.store.Clear(); err != nil {
		return err
	}
	if current != nil {
		current.IsLoggedIn = false
		dispatch(s.dispatcher, model.UserLoggedOut{Email: current.Email})
	}
	return nil
}

// CurrentUser reports false when nobody is logged in; callers send the actor
// back to the entry page instead of failing.
func (s *sessionService) CurrentUser() (*model.User, bool, error) {
	user, err := s.store.Load()
	if err != nil {
		return nil, false, err
	}
	if user == nil {
		return nil, false, nil
	}
	return user, true, nil
}

// Save rewrites the active identity, e.g. after the cart changed.
func (s *sessionService) Save(user *model.User) error {
	current, err := s.store.Load()
	if err != nil {
		return err
	}
	if current == nil || current.Email != user.Email {
		return ErrNoSession
	}
	user.IsLoggedIn = true
	return s.store.Save(user)
}
