package main

import (
	"context"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Veraticus/topsheet/internal/api"
	"github.com/Veraticus/topsheet/internal/model"
)

func projectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "List and inspect projects",
	}

	cmd.AddCommand(projectsListCmd())
	cmd.AddCommand(projectsGetCmd())
	cmd.AddCommand(projectsSummaryCmd())

	return cmd
}

func projectsListCmd() *cobra.Command {
	var params api.ListProjectsParams
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects in the workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}
			defer client.Close()

			params.Status = model.ProjectStatus(status)
			projects, err := fetch(cmd.Context(), func(ctx context.Context) ([]model.Project, error) {
				return client.ListProjects(ctx, params)
			})
			if err != nil {
				return err
			}
			return render(cmd, projects)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status (active, archived)")
	cmd.Flags().StringVar(&params.Search, "search", "", "search by name or code")
	cmd.Flags().StringSliceVar(&params.Labels, "label", nil, "filter by label (repeatable)")
	cmd.Flags().IntVar(&params.Page, "page", 0, "page number")
	cmd.Flags().IntVar(&params.Limit, "limit", 0, "page size")

	return cmd
}

func projectsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get PROJECT_ID",
		Short: "Show one project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}
			defer client.Close()

			project, err := fetch(cmd.Context(), func(ctx context.Context) (*model.Project, error) {
				return client.GetProject(ctx, args[0])
			})
			if err != nil {
				return err
			}
			return render(cmd, project)
		},
	}
}

// projectSummary is the printable form of an api.ProjectSnapshot.
type projectSummary struct {
	Errors         map[string]string `json:"errors,omitempty" yaml:"errors,omitempty"`
	ProjectID      string            `json:"projectId" yaml:"projectId"`
	Phases         []string          `json:"phases" yaml:"phases"`
	Accounts       int               `json:"accounts" yaml:"accounts"`
	Actuals        int               `json:"actuals" yaml:"actuals"`
	PurchaseOrders int               `json:"purchaseOrders" yaml:"purchaseOrders"`
}

func summarize(projectID string, snap *api.ProjectSnapshot) projectSummary {
	summary := projectSummary{
		ProjectID:      projectID,
		Phases:         []string{},
		Accounts:       len(snap.Budget.Accounts),
		Actuals:        len(snap.Actuals),
		PurchaseOrders: len(snap.PurchaseOrders),
	}
	for _, phase := range snap.Budget.Phases {
		summary.Phases = append(summary.Phases, phase.Name)
	}

	if !snap.OK() {
		summary.Errors = make(map[string]string, len(snap.Errors))
		resources := make([]string, 0, len(snap.Errors))
		for resource := range snap.Errors {
			resources = append(resources, resource)
		}
		sort.Strings(resources)
		for _, resource := range resources {
			summary.Errors[resource] = snap.Errors[resource].Error()
		}
	}
	return summary
}

func projectsSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary PROJECT_ID",
		Short: "Count a project's budget accounts, actuals and purchase orders",
		Long: `Fetch a project's budget, actuals and purchase orders concurrently and print
their counts. Resources that fail to load are listed under "errors" instead of
failing the whole command.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}
			defer client.Close()

			snap := client.FetchProjectSnapshot(cmd.Context(), args[0])
			return render(cmd, summarize(args[0], snap))
		},
	}
}
