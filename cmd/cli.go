// Package cmd implements the command line interface for qenerate.
package cmd

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime/debug"
	"sync"

	"github.com/qenerate/qenerate/gen"
	"github.com/qenerate/qenerate/plugin"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type option func(*CommandLine)

// WithFS configures the underlying afero.FS used to read/write files.
func WithFS(fs afero.Fs) option {
	return func(c *CommandLine) {
		c.fs = fs
	}
}

// WithOutput configures where command output is written. (default: os.Stdout)
func WithOutput(w io.Writer) option {
	return func(c *CommandLine) {
		c.out = w
	}
}

// WithHTTPClient configures the client used to fetch introspection results.
func WithHTTPClient(client *http.Client) option {
	return func(c *CommandLine) {
		c.client = client
	}
}

// CommandLine provides a convenient API for adding plugins to qenerate.
type CommandLine struct {
	prefix string
	fs     afero.Fs
	out    io.Writer
	client *http.Client

	plugins *gen.Registry

	// external caches the external plugins by name so each
	// executable is only looked up once.
	external sync.Map
}

// NewCLI returns a CommandLine implementation.
func NewCLI(opts ...option) (c *CommandLine) {
	c = &CommandLine{plugins: gen.NewRegistry()}

	for _, opt := range opts {
		opt(c)
	}

	if c.fs == nil {
		c.fs = afero.NewOsFs()
	}
	if c.out == nil {
		c.out = os.Stdout
	}
	if c.client == nil {
		c.client = http.DefaultClient
	}

	return
}

// AllowPlugins sets the default plugin prefix to be used
// when looking up plugin executables. An empty prefix disables
// external plugins.
//
func (c *CommandLine) AllowPlugins(prefix string) { c.prefix = prefix }

// RegisterPlugin registers a plugin under the name selected by
// the plugin feature flag of query files.
//
func (c *CommandLine) RegisterPlugin(name string, p gen.Plugin) {
	c.plugins.Register(name, p)
}

// externalPlugins enables external plugins for names unknown to the registry.
func (c *CommandLine) externalPlugins(prefix string) {
	if prefix == "" {
		c.plugins.Fallback(nil)
		return
	}

	c.plugins.Fallback(func(name string) gen.Plugin {
		p, _ := c.external.LoadOrStore(prefix+name, plugin.New(prefix, name))
		return p.(gen.Plugin)
	})
}

func (c *CommandLine) build() *cobra.Command {
	cmd := c.newRootCmd()
	cmd.AddCommand(
		c.newCodeCmd(),
		c.newIntrospectionCmd(),
		c.newSchemaCmd(),
		c.newVersionCmd(),
	)
	cmd.SetOut(c.out)
	return cmd
}

func wrapPanic(err error, stack []byte) error {
	return fmt.Errorf("qenerate: recovered from unexpected panic: %w\n\n%s", err, stack)
}

// recoverPanic turns a panic into an error stored in err.
func recoverPanic(err *error) {
	r := recover()
	if r == nil {
		return
	}
	stack := debug.Stack()

	rerr, ok := r.(error)
	if ok {
		*err = wrapPanic(rerr, stack)
		return
	}

	*err = wrapPanic(fmt.Errorf("%#v", r), stack)
}

// Run executes qenerate.
func (c *CommandLine) Run(args []string) (err error) {
	defer recoverPanic(&err)

	cmd := c.build()

	cmd.SetArgs(args[1:])
	return cmd.Execute()
}
