package repository

import (
	"strings"

	"farmconnect/pkg/domain/model"
)

var _ model.FarmerRequestRepository = &requestRepository{}

type requestRepository struct {
	requests *collection[model.FarmerRequest]
	seq      *sequences
}

func (r *requestRepository) NextID() (int64, error) {
	return nextID(r.seq, r.requests, func(req model.FarmerRequest) int64 { return req.ID })
}

func (r *requestRepository) Create(request *model.FarmerRequest) error {
	return r.requests.update(func(items []model.FarmerRequest) ([]model.FarmerRequest, error) {
		return append(items, *request), nil
	})
}

func (r *requestRepository) Update(request *model.FarmerRequest) error {
	return r.requests.replace(*request,
		func(req model.FarmerRequest) bool { return req.ID == request.ID },
		nil,
		model.ErrRequestNotFound,
	)
}

func (r *requestRepository) Find(id int64) (*model.FarmerRequest, error) {
	return r.requests.find(func(req model.FarmerRequest) bool { return req.ID == id }, model.ErrRequestNotFound)
}

func (r *requestRepository) List() ([]model.FarmerRequest, error) {
	return r.requests.list()
}

var _ model.AccountRepository = &accountRepository{}

type accountRepository struct {
	accounts *collection[model.Account]
	seq      *sequences
}

func (r *accountRepository) NextID() (int64, error) {
	return nextID(r.seq, r.accounts, func(a model.Account) int64 { return a.ID })
}

func (r *accountRepository) Create(account *model.Account) error {
	return r.accounts.update(func(items []model.Account) ([]model.Account, error) {
		for _, a := range items {
			if strings.EqualFold(a.Email, account.Email) {
				return nil, model.ErrEmailTaken
			}
		}
		return append(items, *account), nil
	})
}

func (r *accountRepository) Update(account *model.Account) error {
	return r.accounts.replace(*account, func(a model.Account) bool { return a.ID == account.ID }, nil, model.ErrAccountNotFound)
}

func (r *accountRepository) Find(id int64) (*model.Account, error) {
	return r.accounts.find(func(a model.Account) bool { return a.ID == id }, model.ErrAccountNotFound)
}

func (r *accountRepository) FindByEmail(email string) (*model.Account, error) {
	email = strings.TrimSpace(email)
	return r.accounts.find(func(a model.Account) bool { return strings.EqualFold(a.Email, email) }, model.ErrAccountNotFound)
}

func (r *accountRepository) List() ([]model.Account, error) {
	return r.accounts.list()
}

var _ model.NotificationRepository = &notificationRepository{}

type notificationRepository struct {
	notifications *collection[model.Notification]
}

func (r *notificationRepository) Create(notification *model.Notification) error {
	return r.notifications.update(func(items []model.Notification) ([]model.Notification, error) {
		return append(items, *notification), nil
	})
}

func (r *notificationRepository) Update(notification *model.Notification) error {
	return r.notifications.replace(*notification,
		func(n model.Notification) bool { return n.ID == notification.ID },
		nil,
		model.ErrNotificationNotFound,
	)
}

func (r *notificationRepository) ListFor(recipient string) ([]model.Notification, error) {
	items, err := r.notifications.list()
	if err != nil {
		return nil, err
	}

	found := make([]model.Notification, 0)
	for _, n := range items {
		if strings.EqualFold(n.Recipient, recipient) {
			found = append(found, n)
		}
	}
	return found, nil
}
