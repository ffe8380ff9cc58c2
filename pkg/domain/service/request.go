package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"farmconnect/pkg/domain/model"
)

var (
	ErrRequestClosed        = errors.New("farmer request is no longer pending")
	ErrReasonRequired       = errors.New("a reason is required")
	ErrConfirmationRequired = errors.New("approval must be confirmed")
	ErrSubmissionIncomplete = errors.New("product and request description are required")
	ErrInvalidChange        = errors.New("unknown requested change")
)

// FarmerSubmission is what a farmer fills in; it never reaches the catalog
// directly.
type FarmerSubmission struct {
	Farmer      string                `json:"farmer"`
	FarmerEmail string                `json:"farmerEmail"`
	Farm        string                `json:"farm,omitempty"`
	Product     string                `json:"product"`
	ProductID   *int64                `json:"productId,omitempty"`
	Request     string                `json:"request"`
	Change      model.RequestedChange `json:"change"`
}

type Acknowledgement struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	RequestID int64  `json:"requestId,omitempty"`
}

// Approval is the admin's explicit decision. Nothing happens unless Confirmed.
type Approval struct {
	Confirmed bool   `json:"confirmed"`
	Comment   string `json:"comment,omitempty"`
}

type RequestService interface {
	Submit(submission FarmerSubmission) (Acknowledgement, error)
	Approve(requestID int64, approval Approval) (*model.FarmerRequest, error)
	Reject(requestID int64, reason string) (*model.FarmerRequest, error)
	Find(requestID int64) (*model.FarmerRequest, error)
	List(filter model.RequestFilter) ([]model.FarmerRequest, error)
	Pending() ([]model.FarmerRequest, error)
	PendingCount() (int, error)
}

func NewRequestService(
	repo model.FarmerRequestRepository,
	catalog CatalogService,
	notifications NotificationService,
	dispatcher EventDispatcher,
) RequestService {
	return &requestService{repo: repo, catalog: catalog, notifications: notifications, dispatcher: dispatcher}
}

type requestService struct {
	repo          model.FarmerRequestRepository
	catalog       CatalogService
	notifications NotificationService
	dispatcher    EventDispatcher
}

func (s *requestService) Submit(submission FarmerSubmission) (Acknowledgement, error) {
	if strings.TrimSpace(submission.Product) == "" || strings.TrimSpace(submission.Request) == "" {
		return Acknowledgement{Success: false, Message: ErrSubmissionIncomplete.Error()}, ErrSubmissionIncomplete
	}
	if !submission.Change.Kind.Valid() {
		return Acknowledgement{Success: false, Message: ErrInvalidChange.Error()}, ErrInvalidChange
	}

	requestID, err := s.repo.NextID()
	if err != nil {
		return Acknowledgement{}, err
	}

	request := &model.FarmerRequest{
		ID:          requestID,
		Farmer:      submission.Farmer,
		FarmerEmail: submission.FarmerEmail,
		Farm:        submission.Farm,
		Product:     submission.Product,
		ProductID:   submission.ProductID,
		Request:     submission.Request,
		Change:      submission.Change,
		Status:      model.RequestPending,
		Date:        time.Now().UTC(),
	}

	if err := s.repo.Create(request); err != nil {
		return Acknowledgement{}, err
	}

	dispatch(s.dispatcher, model.FarmerRequestSubmitted{
		RequestID:   requestID,
		FarmerEmail: submission.FarmerEmail,
		Product:     submission.Product,
	})

	return Acknowledgement{
		Success:   true,
		Message:   fmt.Sprintf("Request for %s sent to admin for review", submission.Product),
		RequestID: requestID,
	}, nil
}

func (s *requestService) Approve(requestID int64, approval Approval) (*model.FarmerRequest, error) {
	request, err := s.repo.Find(requestID)
	if err != nil {
		return nil, err
	}
	if request.Status.Terminal() {
		return nil, ErrRequestClosed
	}
	if !approval.Confirmed {
		return nil, ErrConfirmationRequired
	}

	// The catalog goes first: if it fails the request stays pending and a
	// retried approval writes the same price again.
	productID, err := s.applyToCatalog(*request)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	request.Status = model.RequestApproved
	request.Comment = approval.Comment
	request.DecidedAt = &now

	if err := s.repo.Update(request); err != nil {
		return nil, err
	}

	dispatch(s.dispatcher, model.FarmerRequestApproved{RequestID: requestID, ProductID: productID, Comment: approval.Comment})
	s.notify(s.notifications.NotifyRequestApproved, *request)
	return request, nil
}

func (s *requestService) Reject(requestID int64, reason string) (*model.FarmerRequest, error) {
	request, err := s.repo.Find(requestID)
	if err != nil {
		return nil, err
	}
	if request.Status.Terminal() {
		return nil, ErrRequestClosed
	}
	if strings.TrimSpace(reason) == "" {
		return nil, ErrReasonRequired
	}

	now := time.Now().UTC()
	request.Status = model.RequestRejected
	request.RejectionReason = reason
	request.DecidedAt = &now

	if err := s.repo.Update(request); err != nil {
		return nil, err
	}

	dispatch(s.dispatcher, model.FarmerRequestRejected{RequestID: requestID, Reason: reason})
	s.notify(s.notifications.NotifyRequestRejected, *request)
	return request, nil
}

func (s *requestService) Find(requestID int64) (*model.FarmerRequest, error) {
	return s.repo.Find(requestID)
}

func (s *requestService) List(filter model.RequestFilter) ([]model.FarmerRequest, error) {
	requests, err := s.repo.List()
	if err != nil {
		return nil, err
	}

	filtered := make([]model.FarmerRequest, 0, len(requests))
	for _, r := range requests {
		if filter.Match(r) {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

func (s *requestService) Pending() ([]model.FarmerRequest, error) {
	pending := model.RequestPending
	return s.List(model.RequestFilter{Status: &pending})
}

func (s *requestService) PendingCount() (int, error) {
	pending, err := s.Pending()
	if err != nil {
		return 0, err
	}
	return len(pending), nil
}

// applyToCatalog performs the only automated side effect of an approval: a
// requested price change on the matching product. It returns the id of the
// matched product, if any. A request that matches no product is not an error.
func (s *requestService) applyToCatalog(request model.FarmerRequest) (*int64, error) {
	product, err := s.matchProduct(request)
	if errors.Is(err, model.ErrProductNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	price, ok := request.RequestedPrice()
	if !ok {
		return &product.ID, nil
	}

	if _, err := s.catalog.SetPrice(product.ID, price); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"request": request.ID,
			"product": product.ID,
		}).Error("failed to apply approved price change")
		return nil, err
	}
	return &product.ID, nil
}

func (s *requestService) matchProduct(request model.FarmerRequest) (*model.Product, error) {
	if request.ProductID != nil {
		product, err := s.catalog.Find(*request.ProductID)
		if err == nil || !errors.Is(err, model.ErrProductNotFound) {
			return product, err
		}
	}
	return s.catalog.FindByName(request.Product)
}

func (s *requestService) notify(send func(model.FarmerRequest) error, request model.FarmerRequest) {
	if request.FarmerEmail == "" {
		return
	}
	if err := send(request); err != nil {
		log.WithError(err).WithField("request", request.ID).Warn("failed to notify farmer")
	}
}
