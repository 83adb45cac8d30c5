// Package featureflag reads the generator options embedded as comments in
// query files, e.g.
//
//	# qenerate: plugin=pydantic_v1
//
package featureflag

import (
	"regexp"

	"github.com/qenerate/qenerate/gen"
)

var pluginFlag = regexp.MustCompile(`(?m)^[ \t]*#[ \t]*qenerate:[ \t]*plugin[ \t]*=[ \t]*([\w-]+)[ \t]*\r?$`)

// Flags are the options selected by a query file.
type Flags struct {
	// Plugin names the plugin generating the file. (default: pydantic_v1)
	Plugin string
}

// Parse returns the flags found in content. The first occurrence of a flag wins.
func Parse(content string) Flags {
	flags := Flags{Plugin: gen.DefaultPlugin}
	if m := pluginFlag.FindStringSubmatch(content); m != nil {
		flags.Plugin = m[1]
	}
	return flags
}
