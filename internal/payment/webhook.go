package payment

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nopStation/paypoint-plugin-for-nopcommerce/internal/obs"
	"github.com/nopStation/paypoint-plugin-for-nopcommerce/internal/order"
	"github.com/nopStation/paypoint-plugin-for-nopcommerce/internal/paypoint"
)

// Webhook processes the gateway's asynchronous transaction notification.
//
// Every outcome acknowledges with a bare 200: the gateway cannot tell our
// failures apart from successes, and anything else would make it retry
// indefinitely on payloads we will never accept. Failures surface through the
// log and the callback counter instead.
//
// The callback carries no signature or shared secret; authenticity rests
// entirely on the merchant reference matching a known, still-payable order.
type Webhook struct {
	Orders     order.Store
	Settlement order.Settlement
	Log        zerolog.Logger
}

// Handle validates the notification and settles the referenced order.
func (h Webhook) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var cb paypoint.Callback
	if err := json.NewDecoder(r.Body).Decode(&cb); err != nil {
		h.Log.Error().Err(err).Msg("paypoint callback error: malformed payload")
		ack(w, "malformed")
		return
	}

	if cb.Transaction.Status != paypoint.StatusSuccess {
		h.Log.Error().
			Str("status", string(cb.Transaction.Status)).
			Msgf("paypoint callback error: transaction is %s", cb.Transaction.Status)
		ack(w, "not_success")
		return
	}

	guid, err := uuid.Parse(cb.Transaction.MerchantRef)
	if err != nil {
		h.Log.Error().
			Str("merchant_ref", cb.Transaction.MerchantRef).
			Msg("paypoint callback error: merchant reference is not a valid order token")
		ack(w, "bad_reference")
		return
	}

	ord, err := h.Orders.GetByGUID(ctx, guid)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			// Stale or foreign callback; expected noise, not worth a log line.
			ack(w, "unknown_order")
			return
		}
		h.Log.Error().Err(err).Str("merchant_ref", cb.Transaction.MerchantRef).Msg("paypoint callback: order lookup failed")
		ack(w, "store_error")
		return
	}

	if !h.Settlement.CanMarkPaid(ord) {
		ack(w, "not_payable")
		return
	}

	if err := h.Orders.SetCaptureTransactionID(ctx, ord.ID, cb.Transaction.TransactionID); err != nil {
		h.Log.Error().Err(err).Int64("order_id", ord.ID).Msg("paypoint callback: record transaction id failed")
		ack(w, "store_error")
		return
	}
	ord.CaptureTransactionID = cb.Transaction.TransactionID
	if err := h.Settlement.MarkPaid(ctx, ord); err != nil {
		h.Log.Error().Err(err).Int64("order_id", ord.ID).Msg("paypoint callback: mark paid failed")
		ack(w, "store_error")
		return
	}

	ack(w, "settled")
}

func ack(w http.ResponseWriter, outcome string) {
	if obs.PaymentCallbackTotal != nil {
		obs.PaymentCallbackTotal.WithLabelValues(outcome).Inc()
	}
	w.WriteHeader(http.StatusOK)
}
