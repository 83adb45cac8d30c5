package cmd

import (
	"github.com/spf13/cobra"
	"github.com/vektah/gqlparser/v2/formatter"
)

func (c *CommandLine) newSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "schema -i introspection.json",
		Short:   "Print the schema of an introspection result as GraphQL SDL",
		Example: "qenerate schema -i introspection.json",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			name, _ := cmd.Flags().GetString("introspection")
			raw, err := c.loadIntrospection(name)
			if err != nil {
				return err
			}

			schema, err := raw.Build()
			if err != nil {
				return err
			}

			formatter.NewFormatter(cmd.OutOrStdout()).FormatSchema(schema)
			return nil
		},
	}

	cmd.Flags().StringP("introspection", "i", "", "Introspection result to print")
	cmd.MarkFlagRequired("introspection")

	return cmd
}
