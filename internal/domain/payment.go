package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	StatusPending   PaymentStatus = "pending"
	StatusPaid      PaymentStatus = "paid"
	StatusCancelled PaymentStatus = "cancelled"
	StatusExpired   PaymentStatus = "expired"
)

const (
	CurrencyVND = "VND"
	MethodPayOS = "payos"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// Rank orders statuses for the status column. Cancelled and expired share
// the last rank.
func (s PaymentStatus) Rank() int {
	switch s {
	case StatusPaid:
		return 0
	case StatusPending:
		return 1
	default:
		return 2
	}
}

type PaymentRecord struct {
	ID                 string
	SubscriptionID     string
	ParentID           string
	Amount             decimal.Decimal
	Currency           string
	PaymentMethod      string
	Status             PaymentStatus
	PaymentDate        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
	PayOSOrderCode     string
	PayOSTransactionID string
	QRCodeURL          string
	CheckoutURL        string
	CustomerName       string
	CustomerEmail      string
	PlanName           string
}

var (
	ErrNonPositiveAmount = errors.New("amount must be > 0")
	ErrUnknownStatus     = errors.New("unknown payment status")
	ErrPaymentDate       = errors.New("payment date must be set iff status is paid")
	ErrUpdatedBefore     = errors.New("updated_at before created_at")
)

func (p PaymentRecord) Validate() error {
	if !p.Amount.IsPositive() {
		return ErrNonPositiveAmount
	}
	if !p.Status.Valid() {
		return ErrUnknownStatus
	}
	if (p.Status == StatusPaid) != (p.PaymentDate != nil) {
		return ErrPaymentDate
	}
	if p.UpdatedAt.Before(p.CreatedAt) {
		return ErrUpdatedBefore
	}
	return nil
}

type Plan struct {
	Name   string
	Amount decimal.Decimal
}

var Plans = []Plan{
	{Name: "Basic Plan", Amount: decimal.NewFromInt(99000)},
	{Name: "Premium Plan", Amount: decimal.NewFromInt(199000)},
	{Name: "Family Plan", Amount: decimal.NewFromInt(299000)},
}
