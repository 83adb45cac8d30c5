package cmd

import (
	"strings"
	"text/template"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const usageTmpl = `Usage:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if .HasAvailableSubCommands}}

Available Commands:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{$flags := filter .LocalFlags "plugin" false}}{{if gt (len $flags.FlagUsages) 0}}

Flags:
{{$flags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{$inherited := filter .InheritedFlags "plugin" false}}{{if gt (len $inherited.FlagUsages) 0}}

Global Flags:
{{$inherited.FlagUsages | trimTrailingWhitespaces}}{{end}}{{$pflags := filter (merge .LocalFlags .InheritedFlags) "plugin" true}}{{if gt (len $pflags.FlagUsages) 0}}

Plugin Flags:
{{$pflags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasExample}}

Example:
  {{.Example}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`

// filterFlags returns the flags whose name contains key, or, if ex is
// false, the flags whose name does not contain key.
//
func filterFlags(set *pflag.FlagSet, key string, ex bool) *pflag.FlagSet {
	fs := new(pflag.FlagSet)
	set.VisitAll(func(flag *pflag.Flag) {
		if strings.Contains(flag.Name, key) == ex {
			fs.AddFlag(flag)
		}
	})
	return fs
}

func mergeFlags(sets ...*pflag.FlagSet) *pflag.FlagSet {
	fs := new(pflag.FlagSet)
	for _, set := range sets {
		fs.AddFlagSet(set)
	}
	return fs
}

func init() {
	cobra.AddTemplateFuncs(template.FuncMap{
		"filter": filterFlags,
		"merge":  mergeFlags,
	})
}
