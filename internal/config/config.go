package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/topsheet/internal/api"
	"github.com/Veraticus/topsheet/internal/common"
	"github.com/Veraticus/topsheet/internal/plaid"
)

// EnvPrefix prefixes every environment override, e.g. TOPSHEET_API_KEY.
const EnvPrefix = "TOPSHEET"

// Config is the full application configuration.
type Config struct {
	Logging  LoggingConfig
	Database DatabaseConfig
	Plaid    plaid.Config
	Export   ExportConfig
	API      api.Config
}

// LoggingConfig selects the slog level and handler.
type LoggingConfig struct {
	Level  string
	Format string
}

// DatabaseConfig locates the local preference store.
type DatabaseConfig struct {
	Path string
}

// ExportConfig holds budget export defaults.
type ExportConfig struct {
	Phases    []string
	Columns   []string
	LineTypes []string
	Format    string
	NoHeaders bool
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", api.DefaultBaseURL)
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("api.requests_per_minute", 0)
	v.SetDefault("database.path", filepath.Join(DataDir(), "topsheet.db"))
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("export.format", "csv")
	v.SetDefault("plaid.environment", "sandbox")
}

// BindEnv makes nested keys overridable as TOPSHEET_SECTION_KEY.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// Load builds a Config from v. Credentials are not validated here so that
// commands which never call the API still work without them.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		API: api.Config{
			BaseURL:           v.GetString("api.base_url"),
			APIKey:            v.GetString("api.key"),
			BearerToken:       v.GetString("api.token"),
			WorkspaceID:       v.GetString("api.workspace_id"),
			UserAgent:         v.GetString("api.user_agent"),
			Timeout:           v.GetDuration("api.timeout"),
			RequestsPerMinute: v.GetInt("api.requests_per_minute"),
		},
		Database: DatabaseConfig{
			Path: ExpandPath(v.GetString("database.path")),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
		Export: ExportConfig{
			Phases:    v.GetStringSlice("export.phases"),
			Columns:   v.GetStringSlice("export.columns"),
			LineTypes: v.GetStringSlice("export.line_types"),
			Format:    v.GetString("export.format"),
			NoHeaders: v.GetBool("export.no_headers"),
		},
		Plaid: plaid.Config{
			ClientID:        v.GetString("plaid.client_id"),
			Secret:          v.GetString("plaid.secret"),
			Environment:     v.GetString("plaid.environment"),
			AccessToken:     v.GetString("plaid.access_token"),
			AccountIDs:      v.GetStringSlice("plaid.account_ids"),
			BudgetAccountID: v.GetString("plaid.budget_account_id"),
			IncludePending:  v.GetBool("plaid.include_pending"),
		},
	}

	if _, err := common.ParseLevel(cfg.Logging.Level); err != nil {
		return nil, err
	}
	if cfg.API.Timeout < 0 {
		return nil, fmt.Errorf("%w: api.timeout must not be negative", common.ErrInvalidConfig)
	}
	if cfg.API.RequestsPerMinute < 0 {
		return nil, fmt.Errorf("%w: api.requests_per_minute must not be negative", common.ErrInvalidConfig)
	}
	switch cfg.Export.Format {
	case "csv", "xlsx", "sheets":
	default:
		return nil, fmt.Errorf("%w: export.format %q", common.ErrInvalidConfig, cfg.Export.Format)
	}

	return cfg, nil
}
