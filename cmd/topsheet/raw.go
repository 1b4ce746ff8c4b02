package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/topsheet/internal/api"
	"github.com/Veraticus/topsheet/internal/common"
)

func apiCmd() *cobra.Command {
	var data string
	var params, headers []string

	cmd := &cobra.Command{
		Use:   "api METHOD PATH",
		Short: "Send a raw request to the budgeting API",
		Long: `Send one authenticated request and print the response.

Examples:
  topsheet api GET /projects --param status=active
  topsheet api POST /projects/prj_123/actuals --data '{"description":"Grip truck","amount":900,"date":"2024-03-01"}'
  topsheet api PATCH /rates/rate_1 --data @rate.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			method := strings.ToUpper(args[0])
			query, err := parsePairs(params)
			if err != nil {
				return err
			}
			reqHeaders, err := parsePairs(headers)
			if err != nil {
				return err
			}

			var body any
			if data != "" {
				raw := []byte(data)
				if strings.HasPrefix(data, "@") {
					if raw, err = readInput(cmd, strings.TrimPrefix(data, "@")); err != nil {
						return err
					}
				}
				if !json.Valid(raw) {
					return fmt.Errorf("%w: --data is not valid JSON", common.ErrUnsupportedInput)
				}
				body = json.RawMessage(raw)
			}

			var opts []api.RequestOption
			for k, v := range reqHeaders {
				opts = append(opts, api.WithRequestHeader(k, fmt.Sprint(v)))
			}

			client, err := newAPIClient()
			if err != nil {
				return err
			}
			defer client.Close()

			var result *api.Result
			send := func() error {
				var err error
				result, err = client.Request(cmd.Context(), method, args[1], body, query, opts...)
				return err
			}
			if method == http.MethodGet {
				err = withAPIRetry(cmd.Context(), send)
			} else {
				err = send()
			}
			if err != nil {
				return err
			}

			if result.IsJSON() {
				return render(cmd, result.JSON)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), result.Text)
			return err
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "JSON request body, or @file (@- for stdin)")
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "query parameter key=value (repeatable; repeat a key for arrays)")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, "request header key=value (repeatable)")

	return cmd
}

// parsePairs reads key=value flags. A repeated key collects its values
// into a list so it encodes as an array parameter.
func parsePairs(pairs []string) (api.Params, error) {
	out := api.Params{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: expected key=value, got %q", common.ErrUnsupportedInput, pair)
		}
		switch existing := out[key].(type) {
		case nil:
			out[key] = value
		case string:
			out[key] = []string{existing, value}
		case []string:
			out[key] = append(existing, value)
		}
	}
	return out, nil
}
