package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/nopStation/paypoint-plugin-for-nopcommerce/internal/order"
)

// ErrNotSupported marks gateway operations PayPoint's hosted integration does
// not offer. Funds settle on the hosted page; there is nothing to capture,
// refund or void from this side.
var ErrNotSupported = fmt.Errorf("operation not supported by the PayPoint hosted integration")

// Capture is not supported.
func (s *Service) Capture(context.Context, order.Order) error {
	return fmt.Errorf("capture: %w", ErrNotSupported)
}

// Refund is not supported.
func (s *Service) Refund(context.Context, order.Order, float64) error {
	return fmt.Errorf("refund: %w", ErrNotSupported)
}

// Void is not supported.
func (s *Service) Void(context.Context, order.Order) error {
	return fmt.Errorf("void: %w", ErrNotSupported)
}

// ProcessRecurring is not supported.
func (s *Service) ProcessRecurring(context.Context, order.Order) error {
	return fmt.Errorf("recurring payment: %w", ErrNotSupported)
}

// CanRepostPayment reports whether the shopper may re-trigger the hosted
// redirect for an order: payment must still be pending and at least a minute
// must have passed since the order was placed, giving an in-flight callback
// time to land first.
func CanRepostPayment(ord order.Order, now time.Time) bool {
	if ord.PaymentStatus != order.PaymentPending {
		return false
	}
	return now.Sub(ord.CreatedAt) >= time.Minute
}
