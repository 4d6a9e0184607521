package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Processing implements Settlement against the orders table. MarkPaid guards
// the transition in SQL so concurrent callbacks for the same order settle at
// most once.
type Processing struct {
	Pool *pgxpool.Pool
}

// CanMarkPaid reports whether payment capture is currently permissible.
func (p *Processing) CanMarkPaid(o Order) bool {
	return o.PaymentStatus == PaymentPending
}

// MarkPaid transitions a pending order to paid. Calling it on an order that
// has already settled is a no-op.
func (p *Processing) MarkPaid(ctx context.Context, o Order) error {
	if p == nil || p.Pool == nil {
		return errors.New("order processing not configured")
	}
	if !p.CanMarkPaid(o) {
		return nil
	}
	_, err := p.Pool.Exec(ctx, `
		UPDATE orders
		SET payment_status = $2, paid_at = now(), updated_at = now()
		WHERE id = $1 AND payment_status = $3`,
		o.ID, string(PaymentPaid), string(PaymentPending),
	)
	if err != nil {
		return fmt.Errorf("mark order paid: %w", err)
	}
	return nil
}
