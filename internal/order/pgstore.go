package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore implements Store on top of the platform's orders table.
type PGStore struct {
	Pool *pgxpool.Pool
}

// GetByGUID fetches an order by its unique reference token.
func (s *PGStore) GetByGUID(ctx context.Context, guid uuid.UUID) (Order, error) {
	var zero Order
	if s == nil || s.Pool == nil {
		return zero, errors.New("order store not configured")
	}
	row := s.Pool.QueryRow(ctx, `
		SELECT id, guid, total, currency_code, payment_status, COALESCE(capture_transaction_id, ''), created_at
		FROM orders
		WHERE guid = $1`,
		pgtype.UUID{Bytes: guid, Valid: true},
	)
	var (
		o      Order
		rowID  pgtype.UUID
		status string
	)
	if err := row.Scan(&o.ID, &rowID, &o.Total, &o.CurrencyCode, &status, &o.CaptureTransactionID, &o.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, ErrNotFound
		}
		return zero, fmt.Errorf("get order by guid: %w", err)
	}
	o.GUID = uuid.UUID(rowID.Bytes)
	o.PaymentStatus = PaymentStatus(status)
	return o, nil
}

// SetCaptureTransactionID records the gateway transaction id on the order.
func (s *PGStore) SetCaptureTransactionID(ctx context.Context, orderID int64, transactionID string) error {
	if s == nil || s.Pool == nil {
		return errors.New("order store not configured")
	}
	tag, err := s.Pool.Exec(ctx, `
		UPDATE orders
		SET capture_transaction_id = $2, updated_at = now()
		WHERE id = $1`,
		orderID, transactionID,
	)
	if err != nil {
		return fmt.Errorf("set capture transaction id: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
