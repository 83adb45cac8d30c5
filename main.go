package main

import (
	"fmt"
	"os"

	"github.com/qenerate/qenerate/cmd"
	"github.com/qenerate/qenerate/plugin"
	"github.com/qenerate/qenerate/pydantic"
)

func main() {
	cli := cmd.NewCLI()
	cli.AllowPlugins(plugin.DefaultPrefix)

	// Register pydantic v1 plugin
	cli.RegisterPlugin(pydantic.Name, new(pydantic.Generator))

	if err := cli.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
