package settings

import "context"

// Settings holds the PayPoint gateway configuration for one storefront scope.
type Settings struct {
	APIUsername             string  `json:"apiUsername"`
	APIPassword             string  `json:"apiPassword"`
	InstallationID          string  `json:"installationId"`
	UseSandbox              bool    `json:"useSandbox"`
	AdditionalFee           float64 `json:"additionalFee"`
	AdditionalFeePercentage bool    `json:"additionalFeePercentage"`
}

// Overrides records which overridable fields a non-global store scope has
// pinned to its own value instead of inheriting the global one.
type Overrides struct {
	InstallationID          bool `json:"installationId"`
	UseSandbox              bool `json:"useSandbox"`
	AdditionalFee           bool `json:"additionalFee"`
	AdditionalFeePercentage bool `json:"additionalFeePercentage"`
}

// Store loads and persists gateway settings per storefront scope. Store id 0
// is the global scope; other scopes inherit from it field by field.
type Store interface {
	Load(ctx context.Context, storeID int64) (Settings, error)
	Save(ctx context.Context, storeID int64, s Settings, ov Overrides) error
	Overrides(ctx context.Context, storeID int64) (Overrides, error)
}
