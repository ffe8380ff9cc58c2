package service

import (
	"errors"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"farmconnect/pkg/domain/model"
)

var (
	ErrValidation          = errors.New("registration form is invalid")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrAccountLocked       = errors.New("account is banned or rejected")
	ErrAccountNotBanned    = errors.New("account is not banned")
	ErrUnsupportedRole     = errors.New("role cannot self-register")
	ErrAccountNameRequired = errors.New("name is required")
)

type Registration struct {
	Role     model.Role `json:"type"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Phone    string     `json:"phone,omitempty"`
	FarmName string     `json:"farmName,omitempty"`
	FarmType string     `json:"farmType,omitempty"`
}

// ValidationError carries the form messages in display order.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string { return strings.Join(e.Messages, "; ") }

func (e *ValidationError) Unwrap() error { return ErrValidation }

type AccountService interface {
	Register(registration Registration) (*model.Account, error)
	Authenticate(email, password string) (*model.User, error)
	Approve(accountID int64) (*model.Account, error)
	Reject(accountID int64, reason string) (*model.Account, error)
	Ban(accountID int64, reason string) (*model.Account, error)
	Unban(accountID int64) (*model.Account, error)
	Find(accountID int64) (*model.Account, error)
	Filter(filter model.AccountFilter) ([]model.Account, error)
}

func NewAccountService(
	repo model.AccountRepository,
	passManager model.PasswordManager,
	sessions SessionService,
	notifications NotificationService,
	dispatcher EventDispatcher,
) AccountService {
	return &accountService{
		repo:          repo,
		passManager:   passManager,
		sessions:      sessions,
		notifications: notifications,
		dispatcher:    dispatcher,
	}
}

type accountService struct {
	repo          model.AccountRepository
	passManager   model.PasswordManager
	sessions      SessionService
	notifications NotificationService
	dispatcher    EventDispatcher
}

// Register creates a pending account for a farmer or buyer; admins only come
// from seeding.
func (s *accountService) Register(registration Registration) (*model.Account, error) {
	if registration.Role != model.RoleFarmer && registration.Role != model.RoleBuyer {
		return nil, ErrUnsupportedRole
	}
	if strings.TrimSpace(registration.Name) == "" {
		return nil, ErrAccountNameRequired
	}
	if messages := ValidateForm(FormData{
		Email:    registration.Email,
		Password: registration.Password,
		Phone:    registration.Phone,
	}); len(messages) > 0 {
		return nil, &ValidationError{Messages: messages}
	}

	if _, err := s.repo.FindByEmail(registration.Email); err == nil {
		return nil, model.ErrEmailTaken
	} else if !errors.Is(err, model.ErrAccountNotFound) {
		return nil, err
	}

	hashedPassword, err := s.passManager.Hash(registration.Password)
	if err != nil {
		return nil, err
	}

	accountID, err := s.repo.NextID()
	if err != nil {
		return nil, err
	}

	account := &model.Account{
		ID:         accountID,
		Role:       registration.Role,
		Name:       registration.Name,
		Email:      registration.Email,
		Password:   hashedPassword,
		Phone:      registration.Phone,
		FarmName:   registration.FarmName,
		FarmType:   registration.FarmType,
		Status:     model.AccountPending,
		Registered: time.Now().UTC(),
	}

	if err := s.repo.Create(account); err != nil {
		return nil, err
	}

	dispatch(s.dispatcher, model.AccountRegistered{AccountID: accountID, Email: account.Email, Role: account.Role})
	return account, nil
}

func (s *accountService) Authenticate(email, password string) (*model.User, error) {
	account, err := s.repo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := s.passManager.Check(account.Password, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if account.Status == model.AccountBanned || account.Status == model.AccountRejected {
		return nil, ErrAccountLocked
	}

	user, err := account.Identity()
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Login(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *accountService) Approve(accountID int64) (*model.Account, error) {
	return s.changeStatus(accountID, model.AccountActive, "")
}

func (s *accountService) Reject(accountID int64, reason string) (*model.Account, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrReasonRequired
	}
	return s.changeStatus(accountID, model.AccountRejected, reason)
}

func (s *accountService) Ban(accountID int64, reason string) (*model.Account, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrReasonRequired
	}
	return s.changeStatus(accountID, model.AccountBanned, reason)
}

func (s *accountService) Unban(accountID int64) (*model.Account, error) {
	account, err := s.repo.Find(accountID)
	if err != nil {
		return nil, err
	}
	if account.Status != model.AccountBanned {
		return nil, ErrAccountNotBanned
	}
	return s.changeStatus(accountID, model.AccountActive, "")
}

func (s *accountService) Find(accountID int64) (*model.Account, error) {
	return s.repo.Find(accountID)
}

func (s *accountService) Filter(filter model.AccountFilter) ([]model.Account, error) {
	accounts, err := s.repo.List()
	if err != nil {
		return nil, err
	}

	filtered := make([]model.Account, 0, len(accounts))
	for _, a := range accounts {
		if filter.Match(a) {
			filtered = append(filtered, a)
		}
	}
	return filtered, nil
}

func (s *accountService) changeStatus(accountID int64, newStatus model.AccountStatus, reason string) (*model.Account, error) {
	account, err := s.repo.Find(accountID)
	if err != nil {
		return nil, err
	}

	oldStatus := account.Status
	if oldStatus == newStatus {
		return account, nil
	}

	account.Status = newStatus
	account.StatusReason = reason

	if err := s.repo.Update(account); err != nil {
		return nil, err
	}

	dispatch(s.dispatcher, model.AccountStatusChanged{
		AccountID: accountID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		Reason:    reason,
	})

	if err := s.notifications.NotifyAccountStatus(*account); err != nil {
		log.WithError(err).WithField("account", accountID).Warn("failed to notify account owner")
	}
	return account, nil
}
