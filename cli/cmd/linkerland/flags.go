package main

import (
	"github.com/grafana/regexp"

	"linkerland.dev/cli/cmd/linkerland/cmdutil"
	"linkerland.dev/pkg/symexport"
)

func sortFlag() *cmdutil.Oneof {
	return &cmdutil.Oneof{
		Value:   string(symexport.BySize),
		Allowed: []string{string(symexport.BySize), string(symexport.ByName), string(symexport.ByPath)},
		Flag:    "sort",
		Desc:    "Sort key",
	}
}

func orderFlag() *cmdutil.Oneof {
	return &cmdutil.Oneof{
		Value:   string(symexport.Desc),
		Allowed: []string{string(symexport.Asc), string(symexport.Desc)},
		Flag:    "order",
		Desc:    "Sort order",
	}
}

func unitsFlag() *cmdutil.Oneof {
	return &cmdutil.Oneof{
		Value:   "human",
		Allowed: []string{"human", "hex"},
		Flag:    "units",
		Desc:    "How sizes are shown",
	}
}

// compileFilter compiles a --filter value. An empty pattern matches everything.
func compileFilter(pattern string) *regexp.Regexp {
	if pattern == "" {
		return nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		cmdutil.Fatalf("invalid --filter: %v", err)
	}
	return re
}
