package payment

import "github.com/nopStation/paypoint-plugin-for-nopcommerce/internal/settings"

// AdditionalFee computes the handling fee charged on top of the cart total,
// either a fixed amount or a percentage of the total depending on the
// configured mode.
func AdditionalFee(cartTotal float64, cfg settings.Settings) float64 {
	if cfg.AdditionalFeePercentage {
		return round2(cartTotal * cfg.AdditionalFee / 100)
	}
	return round2(cfg.AdditionalFee)
}
