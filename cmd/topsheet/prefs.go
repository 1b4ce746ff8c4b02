package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/topsheet/internal/cli"
	"github.com/Veraticus/topsheet/internal/service"
)

func prefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "prefs",
		Aliases: []string{"preferences"},
		Short:   "Manage remembered CSV column mappings",
	}

	cmd.AddCommand(prefsListCmd())
	cmd.AddCommand(prefsForgetCmd())
	cmd.AddCommand(prefsClearCmd())

	return cmd
}

// preferenceView is the printable form of an ImportPreference.
type preferenceView struct {
	UpdatedAt      time.Time      `json:"updatedAt" yaml:"updatedAt"`
	Mapping        map[string]any `json:"mapping" yaml:"mapping"`
	Signature      string         `json:"signature" yaml:"signature"`
	Columns        []string       `json:"columns" yaml:"columns"`
	ImportFirstRow bool           `json:"importFirstRow" yaml:"importFirstRow"`
	Replace        bool           `json:"replaceExistingActuals" yaml:"replaceExistingActuals"`
}

func viewPreferences(prefs []service.ImportPreference) []preferenceView {
	views := make([]preferenceView, len(prefs))
	for i, p := range prefs {
		views[i] = preferenceView{
			Signature:      p.Signature,
			Columns:        p.Columns,
			Mapping:        p.Mapping,
			ImportFirstRow: p.ImportFirstRow,
			Replace:        p.ReplaceExistingActuals,
			UpdatedAt:      p.UpdatedAt,
		}
	}
	return views
}

func prefsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List remembered mappings, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			prefs, err := store.ListImportPreferences(cmd.Context())
			if err != nil {
				return err
			}
			return render(cmd, viewPreferences(prefs))
		},
	}
}

func prefsForgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forget SIGNATURE",
		Short: "Forget the mapping for one header layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteImportPreference(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatSuccess("Forgot mapping "+args[0]))
			return nil
		},
	}
}

func prefsClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget every remembered mapping",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.ErrOrStderr()
			if !yes {
				ok, err := cli.NewNonBlockingReader(cmd.InOrStdin()).
					Confirm(cmd.Context(), w, "Forget all remembered CSV mappings?")
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
			}

			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			n, err := store.ClearImportPreferences(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(w, cli.FormatSuccess(fmt.Sprintf("Forgot %d mappings", n)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}
