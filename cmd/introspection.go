package cmd

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/qenerate/qenerate/introspection"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (c *CommandLine) newIntrospectionCmd() *cobra.Command {
	var headers http.Header

	cmd := &cobra.Command{
		Use:   "introspection url",
		Short: "Fetch the introspection result of a GraphQL endpoint",
		Long: `Fetch the introspection result of a GraphQL endpoint.

http(s) endpoints are queried with a POST request, ws(s) endpoints over the
graphql-transport-ws protocol. Header values may reference environment
variables, e.g. -H 'Authorization=Bearer $TOKEN'.`,
		Example: "qenerate introspection -H 'Authorization=Bearer $TOKEN' https://example.com/graphql > introspection.json",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.introspect(cmd, args[0], headers)
		},
	}

	cmd.Flags().VarP(newHeaderFlag(&headers), "header", "H", "HTTP header sent to the endpoint, may be repeated")
	cmd.Flags().StringP("out", "o", "", "Write the result to a file instead of stdout")
	cmd.Flags().Duration("timeout", time.Minute, "Timeout for fetching the result")

	return cmd
}

func (c *CommandLine) introspect(cmd *cobra.Command, rawURL string, headers http.Header) error {
	endpoint, err := url.Parse(rawURL)
	if err != nil {
		return err
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	zap.L().Info("fetching introspection result", zap.String("endpoint", endpoint.Redacted()))
	b, err := introspection.Fetch(ctx, c.client, endpoint, expandHeaders(headers))
	if err != nil {
		return fmt.Errorf("qenerate: %s: %w", endpoint.Redacted(), err)
	}
	b = append(b, '\n')

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		_, err = cmd.OutOrStdout().Write(b)
		return err
	}
	return afero.WriteFile(c.fs, out, b, 0644)
}
