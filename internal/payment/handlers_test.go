package payment

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nopStation/paypoint-plugin-for-nopcommerce/internal/order"
	"github.com/nopStation/paypoint-plugin-for-nopcommerce/internal/paypoint"
)

func paymentRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Post("/Pay/{orderGuid}", h.Pay)
	r.Get("/CanRepost/{orderGuid}", h.CanRepost)
	return r
}

func TestPayRedirectsToHostedPage(t *testing.T) {
	store := pendingOrderStore()
	gw := &stubGateway{resp: paypoint.SessionResponse{
		Status:      paypoint.StatusSuccess,
		RedirectURL: "https://hosted.example/session/abc",
	}}
	h := &Handler{
		Svc:        &Service{Gateway: gw, Settings: &stubSettings{cfg: testGatewaySettings()}, Log: zerolog.Nop()},
		Orders:     store,
		Storefront: testStorefront(),
	}

	req := httptest.NewRequest(http.MethodPost, "/Pay/"+callbackGUID, nil)
	rec := httptest.NewRecorder()
	paymentRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "https://hosted.example/session/abc" {
		t.Errorf("location = %q", loc)
	}
}

func TestPayGatewayRejectionReturnsEmptyRedirect(t *testing.T) {
	gw := &stubGateway{resp: paypoint.SessionResponse{Status: paypoint.StatusFailed, ReasonCode: "A400"}}
	h := &Handler{
		Svc:        &Service{Gateway: gw, Settings: &stubSettings{cfg: testGatewaySettings()}, Log: zerolog.Nop()},
		Orders:     pendingOrderStore(),
		Storefront: testStorefront(),
	}

	req := httptest.NewRequest(http.MethodPost, "/Pay/"+callbackGUID, nil)
	rec := httptest.NewRecorder()
	paymentRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["redirectUrl"] != "" {
		t.Errorf("redirectUrl = %q, want empty", body["redirectUrl"])
	}
}

func TestPayTransportFailureIsBadGateway(t *testing.T) {
	gw := &stubGateway{err: errors.New("connection refused")}
	h := &Handler{
		Svc:        &Service{Gateway: gw, Settings: &stubSettings{cfg: testGatewaySettings()}, Log: zerolog.Nop()},
		Orders:     pendingOrderStore(),
		Storefront: testStorefront(),
	}

	req := httptest.NewRequest(http.MethodPost, "/Pay/"+callbackGUID, nil)
	rec := httptest.NewRecorder()
	paymentRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestPaySettingsFailureIsInternalError(t *testing.T) {
	h := &Handler{
		Svc:        &Service{Gateway: &stubGateway{}, Settings: &stubSettings{err: errors.New("db down")}, Log: zerolog.Nop()},
		Orders:     pendingOrderStore(),
		Storefront: testStorefront(),
	}

	req := httptest.NewRequest(http.MethodPost, "/Pay/"+callbackGUID, nil)
	rec := httptest.NewRecorder()
	paymentRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "SETTINGS_LOAD_ERROR") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestPayUnknownOrder(t *testing.T) {
	h := &Handler{
		Svc:        &Service{Gateway: &stubGateway{}, Settings: &stubSettings{}, Log: zerolog.Nop()},
		Orders:     &stubOrderStore{orders: map[uuid.UUID]order.Order{}},
		Storefront: testStorefront(),
	}

	req := httptest.NewRequest(http.MethodPost, "/Pay/"+callbackGUID, nil)
	rec := httptest.NewRecorder()
	paymentRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestPayInvalidGUID(t *testing.T) {
	h := &Handler{
		Svc:        &Service{Gateway: &stubGateway{}, Settings: &stubSettings{}, Log: zerolog.Nop()},
		Orders:     pendingOrderStore(),
		Storefront: testStorefront(),
	}

	req := httptest.NewRequest(http.MethodPost, "/Pay/not-a-guid", nil)
	rec := httptest.NewRecorder()
	paymentRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestPayStoreScopeFromQuery(t *testing.T) {
	gw := &stubGateway{resp: paypoint.SessionResponse{Status: paypoint.StatusSuccess, RedirectURL: "x"}}
	cfg := &stubSettings{cfg: testGatewaySettings()}
	h := &Handler{
		Svc:        &Service{Gateway: gw, Settings: cfg, Log: zerolog.Nop()},
		Orders:     pendingOrderStore(),
		Storefront: testStorefront(),
	}

	req := httptest.NewRequest(http.MethodPost, "/Pay/"+callbackGUID+"?storeId=3", nil)
	rec := httptest.NewRecorder()
	paymentRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if cfg.gotID != 3 {
		t.Errorf("settings scope = %d, want 3", cfg.gotID)
	}
}

func TestCanRepostEndpoint(t *testing.T) {
	guid := uuid.MustParse(callbackGUID)
	store := &stubOrderStore{orders: map[uuid.UUID]order.Order{
		guid: {
			ID:            42,
			GUID:          guid,
			PaymentStatus: order.PaymentPending,
			CreatedAt:     time.Now().UTC().Add(-5 * time.Minute),
		},
	}}
	h := &Handler{
		Svc:        &Service{Gateway: &stubGateway{}, Settings: &stubSettings{}, Log: zerolog.Nop()},
		Orders:     store,
		Storefront: testStorefront(),
	}

	req := httptest.NewRequest(http.MethodGet, "/CanRepost/"+callbackGUID, nil)
	rec := httptest.NewRecorder()
	paymentRouter(h).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]bool
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !body["canRepost"] {
		t.Error("old pending order should be repostable")
	}
}
