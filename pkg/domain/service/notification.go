package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"farmconnect/pkg/domain/model"
)

type NotificationService interface {
	NotifyRequestApproved(request model.FarmerRequest) error
	NotifyRequestRejected(request model.FarmerRequest) error
	NotifyAccountStatus(account model.Account) error
	NotifyOrderPlaced(order model.Order) error
	Broadcast(recipients []string, message string) error
	ListFor(recipient string) ([]model.Notification, error)
}

func NewNotificationService(repo model.NotificationRepository, sender model.NotificationSender, dispatcher EventDispatcher) NotificationService {
	return &notificationService{repo: repo, sender: sender, dispatcher: dispatcher}
}

type notificationService struct {
	repo       model.NotificationRepository
	sender     model.NotificationSender
	dispatcher EventDispatcher
}

func (s *notificationService) NotifyRequestApproved(request model.FarmerRequest) error {
	subject := fmt.Sprintf("Your request for %s was approved", request.Product)
	body := fmt.Sprintf("Request: %s", request.Request)
	if request.Comment != "" {
		body += fmt.Sprintf("\nComment: %s", request.Comment)
	}
	return s.orchestrateSend(request.FarmerEmail, subject, body)
}

func (s *notificationService) NotifyRequestRejected(request model.FarmerRequest) error {
	subject := fmt.Sprintf("Your request for %s was rejected", request.Product)
	body := fmt.Sprintf("Request: %s\nReason: %s", request.Request, request.RejectionReason)
	return s.orchestrateSend(request.FarmerEmail, subject, body)
}

func (s *notificationService) NotifyAccountStatus(account model.Account) error {
	subject := fmt.Sprintf("Your account is now %s", account.Status)
	body := fmt.Sprintf("Hi %s, your FarmConnect account status changed to %s.", account.Name, account.Status)
	if account.StatusReason != "" {
		body += fmt.Sprintf(" Reason: %s", account.StatusReason)
	}
	return s.orchestrateSend(account.Email, subject, body)
}

func (s *notificationService) NotifyOrderPlaced(order model.Order) error {
	subject := fmt.Sprintf("Order %s received", order.ID)
	body := fmt.Sprintf("We have received your order of %d item(s), total $%s.", len(order.Items), order.TotalAmount.StringFixed(2))
	return s.orchestrateSend(order.BuyerEmail, subject, body)
}

func (s *notificationService) Broadcast(recipients []string, message string) error {
	for _, recipient := range recipients {
		if err := s.orchestrateSend(recipient, "System notification", message); err != nil {
			return err
		}
	}
	return nil
}

func (s *notificationService) ListFor(recipient string) ([]model.Notification, error) {
	return s.repo.ListFor(recipient)
}

func (s *notificationService) orchestrateSend(recipient, subject, body string) error {
	notification := &model.Notification{
		ID:        uuid.New(),
		Recipient: recipient,
		Subject:   subject,
		Body:      body,
		Status:    model.DeliveryPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(notification); err != nil {
		return err
	}

	if err := s.sender.Send(recipient, subject, body); err != nil {
		notification.Status = model.DeliveryFailed
		notification.FailureReason = err.Error()
		dispatch(s.dispatcher, model.NotificationFailed{
			NotificationID: notification.ID, Recipient: recipient, Reason: err.Error(),
		})
	} else {
		now := time.Now().UTC()
		notification.Status = model.DeliverySent
		notification.SentAt = &now
		dispatch(s.dispatcher, model.NotificationSent{NotificationID: notification.ID, Recipient: recipient})
	}

	return s.repo.Update(notification)
}
