package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/topsheet/internal/cli"
	"github.com/Veraticus/topsheet/internal/config"
	"github.com/Veraticus/topsheet/internal/sheets"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with external services",
	}

	cmd.AddCommand(authSheetsCmd())

	return cmd
}

func authSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Authenticate with Google Sheets",
		Long: `Authenticate with Google Sheets using OAuth2.

This command will:
1. Print a Google consent URL to open in your browser
2. Receive the authorization code on a local callback server
3. Save the token (including its refresh token) for later exports

Run it once before using 'topsheet budget export --format sheets'.`,
		RunE: runAuthSheets,
	}

	cmd.Flags().String("client-id", "", "OAuth2 Client ID (overrides config)")
	cmd.Flags().String("client-secret", "", "OAuth2 Client Secret (overrides config)")
	cmd.Flags().String("callback-addr", sheets.DefaultCallbackAddr, "address for the local OAuth callback server")

	return cmd
}

func runAuthSheets(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := config.LoadSheetsConfig(viper.GetViper())

	if flagID, _ := cmd.Flags().GetString("client-id"); flagID != "" {
		cfg.ClientID = flagID
	}
	if flagSecret, _ := cmd.Flags().GetString("client-secret"); flagSecret != "" {
		cfg.ClientSecret = flagSecret
	}
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return fmt.Errorf("OAuth2 credentials not found. Please set sheets.client_id and sheets.client_secret in config or use --client-id and --client-secret flags")
	}

	tokenFile := cfg.TokenFile
	if tokenFile == "" {
		tokenFile = config.DefaultSheetsTokenFile()
	}
	callbackAddr, _ := cmd.Flags().GetString("callback-addr")

	slog.Info("Starting Google Sheets authentication", "token_file", tokenFile)

	w := cmd.ErrOrStderr()
	token, err := sheets.AuthenticateOAuth2Interactive(ctx, sheets.OAuth2Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenFile:    tokenFile,
		CallbackAddr: callbackAddr,
		Prompt: func(url string) {
			fmt.Fprintln(w, cli.FormatInfo("Open this URL in your browser to authorize topsheet:"))
			fmt.Fprintln(w, url)
		},
	})
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	viper.Set("sheets.client_id", cfg.ClientID)
	viper.Set("sheets.client_secret", cfg.ClientSecret)
	viper.Set("sheets.token_file", tokenFile)
	if token.RefreshToken != "" {
		viper.Set("sheets.refresh_token", token.RefreshToken)
	}

	if err := saveConfig(); err != nil {
		slog.Warn("Failed to update config file", "error", err)
		fmt.Fprintln(w, cli.FormatWarning("Token saved, but the config file could not be updated"))
	}

	fmt.Fprintln(w, cli.FormatSuccess("Google Sheets authentication complete"))
	return nil
}

func saveConfig() error {
	path := configFilePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return viper.WriteConfigAs(path)
}
