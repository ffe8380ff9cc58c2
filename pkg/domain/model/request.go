package model

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrRequestNotFound = errors.New("farmer request not found")

type RequestStatus int

const (
	RequestPending RequestStatus = iota
	RequestApproved
	RequestRejected
)

var requestStatusNames = []string{"pending", "approved", "rejected"}

func (s RequestStatus) String() string { return enumName(requestStatusNames, int(s)) }

func (s RequestStatus) Valid() bool { return enumValid(requestStatusNames, int(s)) }

func (s RequestStatus) MarshalText() ([]byte, error) {
	return marshalEnum("request status", requestStatusNames, int(s))
}

func (s *RequestStatus) UnmarshalText(text []byte) error {
	v, err := parseEnum("request status", requestStatusNames, text)
	*s = RequestStatus(v)
	return err
}

func (s RequestStatus) Terminal() bool { return s != RequestPending }

type ChangeKind int

const (
	ChangeOther ChangeKind = iota
	ChangePrice
	ChangeQuantity
	ChangeCertification
	ChangeAddProduct
	ChangeRemoveProduct
)

var changeKindNames = []string{"other", "price", "quantity", "certification", "add", "remove"}

func (k ChangeKind) String() string { return enumName(changeKindNames, int(k)) }

func (k ChangeKind) Valid() bool { return enumValid(changeKindNames, int(k)) }

func (k ChangeKind) MarshalText() ([]byte, error) {
	return marshalEnum("change kind", changeKindNames, int(k))
}

func (k *ChangeKind) UnmarshalText(text []byte) error {
	v, err := parseEnum("change kind", changeKindNames, text)
	*k = ChangeKind(v)
	return err
}

// RequestedChange is the structured form of what the farmer asks for.
type RequestedChange struct {
	Kind  ChangeKind `json:"kind"`
	Value string     `json:"value,omitempty"`
}

type FarmerRequest struct {
	ID              int64           `json:"id"`
	Farmer          string          `json:"farmer"`
	FarmerEmail     string          `json:"farmerEmail"`
	Farm            string          `json:"farm,omitempty"`
	Product         string          `json:"product"`
	ProductID       *int64          `json:"productId,omitempty"`
	Request         string          `json:"request"`
	Change          RequestedChange `json:"change"`
	Status          RequestStatus   `json:"status"`
	Date            time.Time       `json:"date"`
	Comment         string          `json:"comment,omitempty"`
	RejectionReason string          `json:"rejectionReason,omitempty"`
	DecidedAt       *time.Time      `json:"decidedAt,omitempty"`
}

var legacyPricePattern = regexp.MustCompile(`\$(\d+\.?\d*)`)

// RequestedPrice returns the new price the request asks for. A structured
// price change wins; otherwise free text that talks about a price is scanned
// for the first "$<number>".
func (r FarmerRequest) RequestedPrice() (decimal.Decimal, bool) {
	if r.Change.Kind == ChangePrice {
		price, err := decimal.NewFromString(strings.TrimPrefix(strings.TrimSpace(r.Change.Value), "$"))
		if err != nil || price.IsNegative() {
			return decimal.Zero, false
		}
		return price, true
	}
	if r.Change.Kind != ChangeOther {
		return decimal.Zero, false
	}
	if !strings.Contains(strings.ToLower(r.Request), "price") {
		return decimal.Zero, false
	}

	match := legacyPricePattern.FindStringSubmatch(r.Request)
	if match == nil {
		return decimal.Zero, false
	}
	price, err := decimal.NewFromString(strings.TrimSuffix(match[1], "."))
	if err != nil {
		return decimal.Zero, false
	}
	return price, true
}

type RequestFilter struct {
	Status      *RequestStatus
	FarmerEmail string
}

func (f RequestFilter) Match(r FarmerRequest) bool {
	if f.Status != nil && r.Status != *f.Status {
		return false
	}
	if f.FarmerEmail != "" && !strings.EqualFold(r.FarmerEmail, f.FarmerEmail) {
		return false
	}
	return true
}

type FarmerRequestRepository interface {
	NextID() (int64, error)
	Create(request *FarmerRequest) error
	Update(request *FarmerRequest) error
	Find(id int64) (*FarmerRequest, error)
	List() ([]FarmerRequest, error)
}
