package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Setting names mirror the keys the plugin has always persisted under.
const settingPrefix = "paypointpaymentsettings."

const (
	keyAPIUsername             = settingPrefix + "apiusername"
	keyAPIPassword             = settingPrefix + "apipassword"
	keyInstallationID          = settingPrefix + "installationid"
	keyUseSandbox              = settingPrefix + "usesandbox"
	keyAdditionalFee           = settingPrefix + "additionalfee"
	keyAdditionalFeePercentage = settingPrefix + "additionalfeepercentage"
)

// PGStore persists settings as name/value rows keyed by setting name and
// storefront id, the layout the host platform's settings service uses.
type PGStore struct {
	Pool *pgxpool.Pool
}

// Load returns the settings for the given store scope, falling back to the
// global scope for any field the store has not overridden.
func (s *PGStore) Load(ctx context.Context, storeID int64) (Settings, error) {
	var zero Settings
	if s == nil || s.Pool == nil {
		return zero, errors.New("settings store not configured")
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT name, store_id, value
		FROM plugin_settings
		WHERE name LIKE $1 AND store_id IN (0, $2)
		ORDER BY store_id`,
		settingPrefix+"%", storeID,
	)
	if err != nil {
		return zero, fmt.Errorf("load settings: %w", err)
	}
	defer rows.Close()

	// Rows are ordered global first, so store-scoped values overwrite.
	values := map[string]string{}
	for rows.Next() {
		var (
			name  string
			scope int64
			value string
		)
		if err := rows.Scan(&name, &scope, &value); err != nil {
			return zero, fmt.Errorf("scan setting: %w", err)
		}
		values[name] = value
	}
	if err := rows.Err(); err != nil {
		return zero, fmt.Errorf("load settings: %w", err)
	}

	return Settings{
		APIUsername:             values[keyAPIUsername],
		APIPassword:             values[keyAPIPassword],
		InstallationID:          values[keyInstallationID],
		UseSandbox:              parseBool(values[keyUseSandbox]),
		AdditionalFee:           parseFloat(values[keyAdditionalFee]),
		AdditionalFeePercentage: parseBool(values[keyAdditionalFeePercentage]),
	}, nil
}

// Save persists the settings at the given scope. Credentials are always
// written to the scope being edited; overridable fields are written only when
// their override flag is set (or the scope is global), and the store-scoped
// row is removed otherwise so the field falls back to the global value.
func (s *PGStore) Save(ctx context.Context, storeID int64, cfg Settings, ov Overrides) error {
	if s == nil || s.Pool == nil {
		return errors.New("settings store not configured")
	}
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	upsert := func(name, value string) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO plugin_settings (name, store_id, value)
			VALUES ($1, $2, $3)
			ON CONFLICT (name, store_id) DO UPDATE SET value = EXCLUDED.value`,
			name, storeID, value,
		)
		return err
	}
	remove := func(name string) error {
		_, err := tx.Exec(ctx, `DELETE FROM plugin_settings WHERE name = $1 AND store_id = $2`, name, storeID)
		return err
	}
	overridable := func(name, value string, override bool) error {
		if storeID == 0 || override {
			return upsert(name, value)
		}
		return remove(name)
	}

	if err := upsert(keyAPIUsername, cfg.APIUsername); err != nil {
		return fmt.Errorf("save api username: %w", err)
	}
	if err := upsert(keyAPIPassword, cfg.APIPassword); err != nil {
		return fmt.Errorf("save api password: %w", err)
	}
	if err := overridable(keyInstallationID, cfg.InstallationID, ov.InstallationID); err != nil {
		return fmt.Errorf("save installation id: %w", err)
	}
	if err := overridable(keyUseSandbox, formatBool(cfg.UseSandbox), ov.UseSandbox); err != nil {
		return fmt.Errorf("save sandbox flag: %w", err)
	}
	if err := overridable(keyAdditionalFee, formatFloat(cfg.AdditionalFee), ov.AdditionalFee); err != nil {
		return fmt.Errorf("save additional fee: %w", err)
	}
	if err := overridable(keyAdditionalFeePercentage, formatBool(cfg.AdditionalFeePercentage), ov.AdditionalFeePercentage); err != nil {
		return fmt.Errorf("save fee percentage flag: %w", err)
	}

	return tx.Commit(ctx)
}

// Overrides reports which overridable fields have a store-scoped row.
func (s *PGStore) Overrides(ctx context.Context, storeID int64) (Overrides, error) {
	var zero Overrides
	if s == nil || s.Pool == nil {
		return zero, errors.New("settings store not configured")
	}
	if storeID == 0 {
		return zero, nil
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT name FROM plugin_settings WHERE name LIKE $1 AND store_id = $2`,
		settingPrefix+"%", storeID,
	)
	if err != nil {
		return zero, fmt.Errorf("load overrides: %w", err)
	}
	defer rows.Close()

	var ov Overrides
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return zero, fmt.Errorf("scan override: %w", err)
		}
		switch name {
		case keyInstallationID:
			ov.InstallationID = true
		case keyUseSandbox:
			ov.UseSandbox = true
		case keyAdditionalFee:
			ov.AdditionalFee = true
		case keyAdditionalFeePercentage:
			ov.AdditionalFeePercentage = true
		}
	}
	if err := rows.Err(); err != nil {
		return zero, fmt.Errorf("load overrides: %w", err)
	}
	return ov, nil
}

// EnsureDefaults seeds the global scope on first start, leaving any existing
// configuration untouched.
func (s *PGStore) EnsureDefaults(ctx context.Context, cfg Settings) error {
	if s == nil || s.Pool == nil {
		return errors.New("settings store not configured")
	}
	defaults := map[string]string{
		keyAPIUsername:             cfg.APIUsername,
		keyAPIPassword:             cfg.APIPassword,
		keyInstallationID:          cfg.InstallationID,
		keyUseSandbox:              formatBool(cfg.UseSandbox),
		keyAdditionalFee:           formatFloat(cfg.AdditionalFee),
		keyAdditionalFeePercentage: formatBool(cfg.AdditionalFeePercentage),
	}
	for name, value := range defaults {
		if _, err := s.Pool.Exec(ctx, `
			INSERT INTO plugin_settings (name, store_id, value)
			VALUES ($1, 0, $2)
			ON CONFLICT (name, store_id) DO NOTHING`,
			name, value,
		); err != nil {
			return fmt.Errorf("seed setting %s: %w", name, err)
		}
	}
	return nil
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func parseFloat(value string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return f
}

func formatBool(v bool) string {
	return strconv.FormatBool(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
