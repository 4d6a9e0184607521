package order

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// PaymentStatus tracks how far an order's payment has progressed.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "Pending"
	PaymentAuthorized PaymentStatus = "Authorized"
	PaymentPaid       PaymentStatus = "Paid"
	PaymentRefunded   PaymentStatus = "Refunded"
	PaymentVoided     PaymentStatus = "Voided"
)

// Order is the slice of the platform's order the gateway integration reads
// and updates. The GUID doubles as the merchant reference sent to PayPoint.
type Order struct {
	ID                   int64
	GUID                 uuid.UUID
	Total                float64
	CurrencyCode         string
	PaymentStatus        PaymentStatus
	CaptureTransactionID string
	CreatedAt            time.Time
}

// ErrNotFound is returned when no order matches the given reference.
var ErrNotFound = errors.New("order not found")

// Store looks orders up by their unique reference and records gateway data on them.
type Store interface {
	GetByGUID(ctx context.Context, guid uuid.UUID) (Order, error)
	SetCaptureTransactionID(ctx context.Context, orderID int64, transactionID string) error
}

// Settlement owns the payable-state rule and the idempotent mark-paid transition.
type Settlement interface {
	CanMarkPaid(o Order) bool
	MarkPaid(ctx context.Context, o Order) error
}
