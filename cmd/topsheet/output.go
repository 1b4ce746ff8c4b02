package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Veraticus/topsheet/internal/common"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// outputFormat returns the --output flag value.
func outputFormat(cmd *cobra.Command) string {
	format, _ := cmd.Flags().GetString("output")
	return strings.ToLower(format)
}

// printOutput writes v to w as indented JSON or YAML.
func printOutput(w io.Writer, format string, v any) error {
	switch format {
	case "", formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	case formatYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(toYAMLValue(v)); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: output format %q", common.ErrUnsupportedInput, format)
	}
}

// toYAMLValue routes raw JSON through a generic value so it renders as a
// YAML document rather than a byte list.
func toYAMLValue(v any) any {
	raw, ok := v.(json.RawMessage)
	if !ok {
		return v
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return string(raw)
	}
	return generic
}

// render writes v in the command's output format.
func render(cmd *cobra.Command, v any) error {
	return printOutput(cmd.OutOrStdout(), outputFormat(cmd), v)
}
