package settings

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	validator "github.com/go-playground/validator/v10"
)

func newHandler(store Store) *Handler {
	return &Handler{Store: store, Validate: validator.New()}
}

func TestConfigureReturnsScopedSettings(t *testing.T) {
	store := &stubStore{
		cfg: Settings{
			APIUsername:    "u",
			APIPassword:    "p",
			InstallationID: "123",
			UseSandbox:     true,
			AdditionalFee:  1.5,
		},
		ov: Overrides{InstallationID: true},
	}
	h := newHandler(store)

	req := httptest.NewRequest(http.MethodGet, "/Configure?storeId=5", nil)
	rec := httptest.NewRecorder()
	h.Configure(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["installationId"] != "123" {
		t.Errorf("installationId = %v", body["installationId"])
	}
	if body["useSandbox"] != true {
		t.Errorf("useSandbox = %v", body["useSandbox"])
	}
	if body["installationIdOverrideForStore"] != true {
		t.Errorf("override flag = %v", body["installationIdOverrideForStore"])
	}
}

func TestConfigureInvalidStoreID(t *testing.T) {
	h := newHandler(&stubStore{})
	req := httptest.NewRequest(http.MethodGet, "/Configure?storeId=abc", nil)
	rec := httptest.NewRecorder()
	h.Configure(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSaveConfigurePersists(t *testing.T) {
	store := &stubStore{}
	h := newHandler(store)

	payload := `{
		"apiUsername": " u ",
		"apiPassword": "p",
		"installationId": " 123 ",
		"useSandbox": true,
		"additionalFee": 1.5,
		"additionalFeePercentage": true,
		"installationIdOverrideForStore": true
	}`
	req := httptest.NewRequest(http.MethodPost, "/Configure?storeId=5", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	h.SaveConfigure(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if store.saveCalls != 1 || store.savedID != 5 {
		t.Fatalf("save calls = %d, store id = %d", store.saveCalls, store.savedID)
	}
	if store.savedS.APIUsername != "u" || store.savedS.InstallationID != "123" {
		t.Errorf("credentials not trimmed: %+v", store.savedS)
	}
	if !store.savedS.UseSandbox || store.savedS.AdditionalFee != 1.5 || !store.savedS.AdditionalFeePercentage {
		t.Errorf("saved = %+v", store.savedS)
	}
	if !store.savedOv.InstallationID || store.savedOv.UseSandbox {
		t.Errorf("overrides = %+v", store.savedOv)
	}
}

func TestSaveConfigureValidation(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"missing credentials", `{"useSandbox": true}`},
		{"negative fee", `{"apiUsername":"u","apiPassword":"p","installationId":"123","additionalFee":-1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &stubStore{}
			h := newHandler(store)
			req := httptest.NewRequest(http.MethodPost, "/Configure", strings.NewReader(tc.payload))
			rec := httptest.NewRecorder()
			h.SaveConfigure(rec, req)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Errorf("status = %d, want 422", rec.Code)
			}
			if store.saveCalls != 0 {
				t.Error("invalid payload must not be saved")
			}
		})
	}
}

func TestSaveConfigureBadBody(t *testing.T) {
	h := newHandler(&stubStore{})
	req := httptest.NewRequest(http.MethodPost, "/Configure", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.SaveConfigure(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
