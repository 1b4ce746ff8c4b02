package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/Veraticus/topsheet/internal/sheets"
)

// DefaultSheetsTokenFile is where the interactive OAuth flow saves its token.
func DefaultSheetsTokenFile() string {
	return filepath.Join(Dir(), "sheets-token.json")
}

// LoadSheetsConfig loads Google Sheets settings. Values set through viper
// (config file or TOPSHEET_SHEETS_* variables) win over the GOOGLE_SHEETS_*
// variables. Validation is left to the caller.
func LoadSheetsConfig(v *viper.Viper) *sheets.Config {
	config := sheets.DefaultConfig()

	config.ServiceAccountPath = ExpandPath(firstSet(v.GetString("sheets.service_account_path"), os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH")))
	config.ClientID = firstSet(v.GetString("sheets.client_id"), os.Getenv("GOOGLE_SHEETS_CLIENT_ID"))
	config.ClientSecret = firstSet(v.GetString("sheets.client_secret"), os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET"))
	config.RefreshToken = firstSet(v.GetString("sheets.refresh_token"), os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN"))
	config.SpreadsheetID = firstSet(v.GetString("sheets.spreadsheet_id"), os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID"))
	if name := firstSet(v.GetString("sheets.spreadsheet_name"), os.Getenv("GOOGLE_SHEETS_SPREADSHEET_NAME")); name != "" {
		config.SpreadsheetName = name
	}
	if tz := v.GetString("sheets.time_zone"); tz != "" {
		config.TimeZone = tz
	}

	if config.ServiceAccountPath == "" {
		config.TokenFile = ExpandPath(firstSet(v.GetString("sheets.token_file"), DefaultSheetsTokenFile()))
	}

	return &config
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
