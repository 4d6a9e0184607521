package payment

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nopStation/paypoint-plugin-for-nopcommerce/internal/common"
	"github.com/nopStation/paypoint-plugin-for-nopcommerce/internal/order"
)

// Handler exposes the shopper-facing entry points: starting the hosted
// redirect after checkout and checking whether it may be re-triggered.
type Handler struct {
	Svc        *Service
	Orders     order.Store
	Storefront Storefront
}

// Pay begins a payment session for the order and redirects the shopper to
// the hosted page. When the gateway rejects the session the shopper gets no
// redirect and the order stays pending; the rejection has already been logged.
func (h *Handler) Pay(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Svc == nil || h.Orders == nil {
		common.JSONError(w, http.StatusInternalServerError, "PAYMENT_NOT_CONFIGURED", "payment handler unavailable", nil)
		return
	}
	ord, ok := h.lookupOrder(w, r)
	if !ok {
		return
	}
	sf := h.storefront(r)
	redirectURL, err := h.Svc.BeginPayment(r.Context(), ord, sf)
	if err != nil {
		var appErr *common.AppError
		if errors.As(err, &appErr) {
			common.JSONError(w, appErr.HTTPStatus, appErr.Code, appErr.Message, nil)
			return
		}
		common.JSONError(w, http.StatusBadGateway, "GATEWAY_ERROR", "payment session could not be created", nil)
		return
	}
	if redirectURL == "" {
		common.JSON(w, http.StatusOK, map[string]string{"redirectUrl": ""})
		return
	}
	http.Redirect(w, r, redirectURL, http.StatusFound)
}

// CanRepost reports whether the hosted redirect may be re-triggered for the order.
func (h *Handler) CanRepost(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Orders == nil {
		common.JSONError(w, http.StatusInternalServerError, "PAYMENT_NOT_CONFIGURED", "payment handler unavailable", nil)
		return
	}
	ord, ok := h.lookupOrder(w, r)
	if !ok {
		return
	}
	common.JSON(w, http.StatusOK, map[string]bool{"canRepost": CanRepostPayment(ord, time.Now().UTC())})
}

func (h *Handler) lookupOrder(w http.ResponseWriter, r *http.Request) (order.Order, bool) {
	raw := strings.TrimSpace(chi.URLParam(r, "orderGuid"))
	guid, err := uuid.Parse(raw)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid order reference", nil)
		return order.Order{}, false
	}
	ord, err := h.Orders.GetByGUID(r.Context(), guid)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, "ORDER_NOT_FOUND", "order not found", nil)
			return order.Order{}, false
		}
		common.JSONError(w, http.StatusInternalServerError, "ORDER_FETCH_ERROR", err.Error(), nil)
		return order.Order{}, false
	}
	return ord, true
}

func (h *Handler) storefront(r *http.Request) Storefront {
	sf := h.Storefront
	if raw := strings.TrimSpace(r.URL.Query().Get("storeId")); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			sf.StoreID = id
		}
	}
	return sf
}
