package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nopStation/paypoint-plugin-for-nopcommerce/internal/order"
)

func TestCanRepostPayment(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		status order.PaymentStatus
		age    time.Duration
		want   bool
	}{
		{"pending and old enough", order.PaymentPending, 2 * time.Minute, true},
		{"pending exactly one minute", order.PaymentPending, time.Minute, true},
		{"pending but too fresh", order.PaymentPending, 30 * time.Second, false},
		{"already paid", order.PaymentPaid, 2 * time.Minute, false},
		{"voided", order.PaymentVoided, 2 * time.Minute, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ord := order.Order{PaymentStatus: tc.status, CreatedAt: now.Add(-tc.age)}
			if got := CanRepostPayment(ord, now); got != tc.want {
				t.Errorf("CanRepostPayment = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestUnsupportedOperations(t *testing.T) {
	svc := &Service{}
	ctx := context.Background()
	ord := order.Order{ID: 1}

	if err := svc.Capture(ctx, ord); !errors.Is(err, ErrNotSupported) {
		t.Errorf("Capture err = %v", err)
	}
	if err := svc.Refund(ctx, ord, 5); !errors.Is(err, ErrNotSupported) {
		t.Errorf("Refund err = %v", err)
	}
	if err := svc.Void(ctx, ord); !errors.Is(err, ErrNotSupported) {
		t.Errorf("Void err = %v", err)
	}
	if err := svc.ProcessRecurring(ctx, ord); !errors.Is(err, ErrNotSupported) {
		t.Errorf("ProcessRecurring err = %v", err)
	}
}
