package settings

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	validator "github.com/go-playground/validator/v10"

	"github.com/nopStation/paypoint-plugin-for-nopcommerce/internal/common"
)

// Handler exposes the admin configuration surface for the gateway settings.
type Handler struct {
	Store    Store
	Validate *validator.Validate
}

type configurationModel struct {
	APIUsername             string  `json:"apiUsername" validate:"required"`
	APIPassword             string  `json:"apiPassword" validate:"required"`
	InstallationID          string  `json:"installationId" validate:"required"`
	UseSandbox              bool    `json:"useSandbox"`
	AdditionalFee           float64 `json:"additionalFee" validate:"gte=0"`
	AdditionalFeePercentage bool    `json:"additionalFeePercentage"`

	InstallationIDOverrideForStore          bool `json:"installationIdOverrideForStore"`
	UseSandboxOverrideForStore              bool `json:"useSandboxOverrideForStore"`
	AdditionalFeeOverrideForStore           bool `json:"additionalFeeOverrideForStore"`
	AdditionalFeePercentageOverrideForStore bool `json:"additionalFeePercentageOverrideForStore"`
}

// Configure returns the settings for the requested store scope together with
// its override flags.
func (h *Handler) Configure(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "SETTINGS_NOT_CONFIGURED", "settings handler unavailable", nil)
		return
	}
	storeID, err := storeScope(r)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid storeId", nil)
		return
	}
	cfg, err := h.Store.Load(r.Context(), storeID)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "SETTINGS_LOAD_ERROR", err.Error(), nil)
		return
	}
	ov, err := h.Store.Overrides(r.Context(), storeID)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "SETTINGS_LOAD_ERROR", err.Error(), nil)
		return
	}
	common.JSON(w, http.StatusOK, configurationModel{
		APIUsername:             cfg.APIUsername,
		APIPassword:             cfg.APIPassword,
		InstallationID:          cfg.InstallationID,
		UseSandbox:              cfg.UseSandbox,
		AdditionalFee:           cfg.AdditionalFee,
		AdditionalFeePercentage: cfg.AdditionalFeePercentage,

		InstallationIDOverrideForStore:          ov.InstallationID,
		UseSandboxOverrideForStore:              ov.UseSandbox,
		AdditionalFeeOverrideForStore:           ov.AdditionalFee,
		AdditionalFeePercentageOverrideForStore: ov.AdditionalFeePercentage,
	})
}

// SaveConfigure validates and persists settings for the requested store scope.
func (h *Handler) SaveConfigure(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "SETTINGS_NOT_CONFIGURED", "settings handler unavailable", nil)
		return
	}
	storeID, err := storeScope(r)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid storeId", nil)
		return
	}
	var model configurationModel
	if err := json.NewDecoder(r.Body).Decode(&model); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid body", nil)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(model); err != nil {
			common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION_FAILED", err.Error(), nil)
			return
		}
	}
	err = h.Store.Save(r.Context(), storeID, Settings{
		APIUsername:             strings.TrimSpace(model.APIUsername),
		APIPassword:             model.APIPassword,
		InstallationID:          strings.TrimSpace(model.InstallationID),
		UseSandbox:              model.UseSandbox,
		AdditionalFee:           model.AdditionalFee,
		AdditionalFeePercentage: model.AdditionalFeePercentage,
	}, Overrides{
		InstallationID:          model.InstallationIDOverrideForStore,
		UseSandbox:              model.UseSandboxOverrideForStore,
		AdditionalFee:           model.AdditionalFeeOverrideForStore,
		AdditionalFeePercentage: model.AdditionalFeePercentageOverrideForStore,
	})
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "SETTINGS_SAVE_ERROR", err.Error(), nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]bool{"saved": true})
}

func storeScope(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("storeId"))
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}
