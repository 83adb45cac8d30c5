package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func (c *CommandLine) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qenerate",
		Short: "Generate typed data classes for GraphQL queries",
		Long: `qenerate generates typed data classes for GraphQL queries.

Every *.gql file below the given directories is validated against the schema
of an introspection result and a sibling *.py file is generated for it.

The plugin generating a file is selected by a comment in the file:
	# qenerate: plugin=pydantic_v1

Plugins unknown to qenerate are run as external executables named
<plugin-prefix><plugin>, e.g. qenerate-plugin-pydantic_v2.`,
		Example:           "qenerate code -i introspection.json ./queries",
		SilenceUsage:      true,
		PersistentPreRunE: chainPreRunEs(c.initLogger, c.loadEnv, c.initPlugins),
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Output logging")
	cmd.PersistentFlags().String("env-file", "", "Load environment variables from a dotenv file")
	cmd.PersistentFlags().String("plugin-prefix", c.prefix, "Prefix of external plugin executables, empty disables them")
	cmd.SetUsageTemplate(usageTmpl)

	return cmd
}

func chainPreRunEs(preRunEs ...func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		for i := 0; i < len(preRunEs) && err == nil; i++ {
			err = preRunEs[i](cmd, args)
		}
		return
	}
}

// initLogger installs the global zap logger. Only warnings and errors
// are logged unless --verbose is set.
//
func (c *CommandLine) initLogger(cmd *cobra.Command, _ []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("qenerate: unable to create logger: %w", err)
	}
	zap.ReplaceGlobals(l)
	return nil
}

// loadEnv sets the variables of the --env-file which are not already
// set in the environment.
//
func (c *CommandLine) loadEnv(cmd *cobra.Command, _ []string) error {
	name, _ := cmd.Flags().GetString("env-file")
	if name == "" {
		return nil
	}

	f, err := c.fs.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	env, err := godotenv.Parse(f)
	if err != nil {
		return fmt.Errorf("qenerate: malformed env file %s: %w", name, err)
	}

	for k, v := range env {
		if _, exists := os.LookupEnv(k); exists {
			continue
		}
		if err = os.Setenv(k, v); err != nil {
			return err
		}
	}
	zap.L().Debug("loaded env file", zap.String("name", name), zap.Int("vars", len(env)))
	return nil
}

func (c *CommandLine) initPlugins(cmd *cobra.Command, _ []string) error {
	prefix, _ := cmd.Flags().GetString("plugin-prefix")
	c.externalPlugins(prefix)
	return nil
}
