package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/qenerate/qenerate/featureflag"
	"github.com/qenerate/qenerate/gen"
	"github.com/qenerate/qenerate/introspection"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	queryExt  = ".gql"
	outputExt = ".py"
)

func (c *CommandLine) newCodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "code -i introspection.json dir...",
		Short: "Generate code for every query file in the given directories",
		Long: `Generate code for every *.gql file found below the given directories.

The generated code is written next to the query, e.g. queries/pets.gql
becomes queries/pets.py. Anonymous queries and queries which fail schema
validation are reported and skipped.`,
		Example: "qenerate code -i introspection.json ./queries",
		Args:    cobra.MinimumNArgs(1),
		RunE:    c.code,
	}

	cmd.Flags().StringP("introspection", "i", "", "Introspection result to validate queries against")
	cmd.Flags().IntP("jobs", "j", runtime.NumCPU(), "Number of files generated in parallel")
	cmd.MarkFlagRequired("introspection")

	return cmd
}

func (c *CommandLine) code(cmd *cobra.Command, dirs []string) error {
	log := zap.L().Named("code")

	name, _ := cmd.Flags().GetString("introspection")
	jobs, _ := cmd.Flags().GetInt("jobs")
	if jobs < 1 {
		return fmt.Errorf("qenerate: --jobs must be positive, got: %d", jobs)
	}

	raw, err := c.loadIntrospection(name)
	if err != nil {
		return err
	}

	var files []string
	for _, dir := range dirs {
		found, err := findQueryFiles(c.fs, dir)
		if err != nil {
			return err
		}
		files = append(files, found...)
	}
	log.Info("found query files", zap.Int("count", len(files)))

	// Messages about skipped files are printed from several workers.
	var mu sync.Mutex
	skip := func(format string, args ...interface{}) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(jobs)
	for _, file := range files {
		file := file
		g.Go(func() (err error) {
			defer recoverPanic(&err)

			err = c.generate(ctx, file, raw)

			var invalid *gen.InvalidQueryError
			switch {
			case err == nil:
				return nil
			case errors.Is(err, gen.ErrAnonymousQuery):
				log.Warn("skipping anonymous query", zap.String("file", file))
				skip("[Skipping File] Query in %s is anonymous. Qenerate does not support anonymous queries. Please name the query.", file)
				return nil
			case errors.As(err, &invalid):
				for _, qerr := range invalid.Errors {
					log.Warn("query validation failed", zap.String("file", file), zap.Error(qerr))
				}
				skip("[Skipping File] Schema validation failed for query %s.", file)
				return nil
			}
			return err
		})
	}
	return g.Wait()
}

// generate generates the code of a single query file and writes it next to the file.
func (c *CommandLine) generate(ctx context.Context, file string, raw *introspection.Result) error {
	log := zap.L().Named("code").With(zap.String("file", file))

	b, err := afero.ReadFile(c.fs, file)
	if err != nil {
		return err
	}
	content := string(b)

	flags := featureflag.Parse(content)
	p, err := c.plugins.Lookup(flags.Plugin)
	if err != nil {
		return fmt.Errorf("qenerate: %s: %w", file, err)
	}

	log.Debug("generating", zap.String("plugin", flags.Plugin))
	out, err := p.Generate(gen.WithFile(ctx, file), content, raw)
	if err != nil {
		var (
			gerr    gen.GeneratorError
			invalid *gen.InvalidQueryError
		)
		switch {
		case errors.Is(err, gen.ErrAnonymousQuery), errors.As(err, &invalid), errors.As(err, &gerr):
			return err
		}
		return gen.GeneratorError{File: file, Plugin: flags.Plugin, Msg: err.Error(), Err: err}
	}

	outName := strings.TrimSuffix(file, queryExt) + outputExt
	log.Info("writing generated code", zap.String("out", outName))
	return afero.WriteFile(c.fs, outName, []byte(out), 0644)
}

func (c *CommandLine) loadIntrospection(name string) (*introspection.Result, error) {
	f, err := c.fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	raw, err := introspection.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("qenerate: %s: %w", name, err)
	}
	return raw, nil
}

// findQueryFiles returns the query files below dir in lexical order.
func findQueryFiles(fs afero.Fs, dir string) ([]string, error) {
	var files []string
	err := afero.Walk(fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == queryExt {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
