package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Veraticus/topsheet/internal/api"
	"github.com/Veraticus/topsheet/internal/model"
)

// getCmd builds a "get ID" subcommand for a single-resource lookup.
func getCmd[T any](short string, get func(*api.Client, context.Context, string) (T, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}
			defer client.Close()

			out, err := fetch(cmd.Context(), func(ctx context.Context) (T, error) {
				return get(client, ctx, args[0])
			})
			if err != nil {
				return err
			}
			return render(cmd, out)
		},
	}
}

func contactsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "List and inspect workspace contacts",
	}

	var params api.ListContactsParams
	list := &cobra.Command{
		Use:   "list",
		Short: "List contacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}
			defer client.Close()

			contacts, err := fetch(cmd.Context(), func(ctx context.Context) ([]model.Contact, error) {
				return client.ListContacts(ctx, params)
			})
			if err != nil {
				return err
			}
			return render(cmd, contacts)
		},
	}
	list.Flags().StringVar(&params.Search, "search", "", "search by name or company")
	list.Flags().StringVar(&params.Type, "type", "", "filter by contact type")
	list.Flags().StringSliceVar(&params.Tags, "tag", nil, "filter by tag (repeatable)")

	cmd.AddCommand(list)
	cmd.AddCommand(getCmd("Show one contact", (*api.Client).GetContact))
	return cmd
}

func ratesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "List and inspect the rate book",
	}

	var search string
	list := &cobra.Command{
		Use:   "list",
		Short: "List rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}
			defer client.Close()

			rates, err := fetch(cmd.Context(), func(ctx context.Context) ([]model.Rate, error) {
				return client.ListRates(ctx, search)
			})
			if err != nil {
				return err
			}
			return render(cmd, rates)
		},
	}
	list.Flags().StringVar(&search, "search", "", "search by description")

	cmd.AddCommand(list)
	cmd.AddCommand(getCmd("Show one rate", (*api.Client).GetRate))
	return cmd
}

func purchaseOrdersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "purchase-orders",
		Aliases: []string{"pos"},
		Short:   "List and inspect a project's purchase orders",
	}

	var params api.ListPurchaseOrdersParams
	list := &cobra.Command{
		Use:   "list PROJECT_ID",
		Short: "List purchase orders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}
			defer client.Close()

			pos, err := fetch(cmd.Context(), func(ctx context.Context) ([]model.PurchaseOrder, error) {
				return client.ListPurchaseOrders(ctx, args[0], params)
			})
			if err != nil {
				return err
			}
			return render(cmd, pos)
		},
	}
	list.Flags().StringVar(&params.Status, "status", "", "filter by status")
	list.Flags().StringVar(&params.Search, "search", "", "search by number or vendor")
	list.Flags().StringSliceVar(&params.Tags, "tag", nil, "filter by tag (repeatable)")

	get := &cobra.Command{
		Use:   "get PROJECT_ID PO_ID",
		Short: "Show one purchase order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}
			defer client.Close()

			po, err := fetch(cmd.Context(), func(ctx context.Context) (*model.PurchaseOrder, error) {
				return client.GetPurchaseOrder(ctx, args[0], args[1])
			})
			if err != nil {
				return err
			}
			return render(cmd, po)
		},
	}

	cmd.AddCommand(list)
	cmd.AddCommand(get)
	return cmd
}

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "List and inspect synced bank and card transactions",
	}

	var params api.ListTransactionsParams
	list := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}
			defer client.Close()

			txns, err := fetch(cmd.Context(), func(ctx context.Context) ([]model.Transaction, error) {
				return client.ListTransactions(ctx, params)
			})
			if err != nil {
				return err
			}
			return render(cmd, txns)
		},
	}
	list.Flags().StringVar(&params.ProjectID, "project", "", "filter by project id")
	list.Flags().StringVar(&params.Status, "status", "", "filter by status")
	list.Flags().StringVar(&params.From, "from", "", "start date (YYYY-MM-DD)")
	list.Flags().StringVar(&params.To, "to", "", "end date (YYYY-MM-DD)")
	list.Flags().IntVar(&params.Page, "page", 0, "page number")
	list.Flags().IntVar(&params.Limit, "limit", 0, "page size")

	cmd.AddCommand(list)
	cmd.AddCommand(getCmd("Show one transaction", (*api.Client).GetTransaction))
	return cmd
}
