package payment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nopStation/paypoint-plugin-for-nopcommerce/internal/common"
	"github.com/nopStation/paypoint-plugin-for-nopcommerce/internal/obs"
	"github.com/nopStation/paypoint-plugin-for-nopcommerce/internal/order"
	"github.com/nopStation/paypoint-plugin-for-nopcommerce/internal/paypoint"
	"github.com/nopStation/paypoint-plugin-for-nopcommerce/internal/settings"
)

// GatewayClient is the outbound surface of the PayPoint hosted API.
type GatewayClient interface {
	CreateSession(ctx context.Context, creds paypoint.Credentials, req paypoint.SessionRequest) (paypoint.SessionResponse, error)
}

// SettingsSource loads the gateway configuration for a storefront scope.
type SettingsSource interface {
	Load(ctx context.Context, storeID int64) (settings.Settings, error)
}

// Storefront is the per-request storefront context a checkout runs in.
type Storefront struct {
	StoreID  int64
	BaseURL  string
	Currency string
	Locale   string
}

// Service builds payment sessions and is the only component that performs
// network egress to the gateway.
type Service struct {
	Gateway  GatewayClient
	Settings SettingsSource
	Log      zerolog.Logger
}

// BeginPayment registers a payment session for the order and returns the
// hosted page URL the shopper should be redirected to. A gateway rejection is
// not an error: it is logged with the gateway's reason and an empty redirect
// URL is returned, leaving the order pending.
func (s *Service) BeginPayment(ctx context.Context, ord order.Order, sf Storefront) (string, error) {
	if s == nil || s.Gateway == nil || s.Settings == nil {
		return "", errors.New("payment service not configured")
	}
	if ord.ID <= 0 || ord.GUID == uuid.Nil {
		return "", errors.New("order is missing an identifier")
	}
	if ord.Total <= 0 {
		return "", fmt.Errorf("order %d has a non-positive total", ord.ID)
	}

	cfg, err := s.Settings.Load(ctx, sf.StoreID)
	if err != nil {
		return "", common.NewAppError("SETTINGS_LOAD_ERROR", "gateway settings unavailable", http.StatusInternalServerError, err)
	}

	base := sf.BaseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	req := paypoint.SessionRequest{
		Locale:   sf.Locale,
		Customer: paypoint.Customer{Registered: false},
		Transaction: paypoint.Transaction{
			MerchantReference: ord.GUID.String(),
			Money: paypoint.Money{
				Currency: sf.Currency,
				Amount:   paypoint.Amount{Fixed: round2(ord.Total)},
			},
			Description: fmt.Sprintf("Order #%d", ord.ID),
		},
		Session: paypoint.Session{
			ReturnURL: paypoint.URL{URL: fmt.Sprintf("%scheckout/completed/%d", base, ord.ID)},
			CancelURL: paypoint.URL{URL: fmt.Sprintf("%sorderdetails/%d", base, ord.ID)},
			TransactionNotification: paypoint.Notification{
				Format: paypoint.FormatRESTJSON,
				URL:    base + "Plugins/PaymentPayPoint/Callback",
			},
		},
	}

	resp, err := s.Gateway.CreateSession(ctx, paypoint.Credentials{
		APIUsername:    cfg.APIUsername,
		APIPassword:    cfg.APIPassword,
		InstallationID: cfg.InstallationID,
		UseSandbox:     cfg.UseSandbox,
	}, req)
	if err != nil {
		countSession("error")
		return "", common.NewAppError("GATEWAY_ERROR", "payment session could not be created", http.StatusBadGateway, err)
	}

	if resp.Status != paypoint.StatusSuccess {
		s.Log.Error().
			Str("reason_code", resp.ReasonCode).
			Str("reason_message", resp.ReasonMessage).
			Int64("order_id", ord.ID).
			Msgf("PayPoint transaction failed. %s - %s", resp.ReasonCode, resp.ReasonMessage)
		countSession("rejected")
		return "", nil
	}

	countSession("success")
	return resp.RedirectURL, nil
}

func countSession(result string) {
	if obs.PaymentSessionTotal != nil {
		obs.PaymentSessionTotal.WithLabelValues(result).Inc()
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
