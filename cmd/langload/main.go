/*
langload is a console utility for GtkSourceView language definitions.
Usage is

	langload [--config <file>] [--search-path <dir>]... [--log-level <level>] <command>

Commands:

	list [--all]                  list languages found in search paths;
	meta <id|file>                print language metadata as YAML;
	check [<id>...]               compile languages (all by default) and print grammar errors;
	dump [<id>] [--mime <type>] [--filename <name>] [--format yaml|json]
	                              print the compiled context graph of a language.

Search paths default to GtkSourceView language-specs directories. Options are also read from
~/.config/langload/config.yaml (or --config file) and LANGLOAD_* environment variables.
*/
package main

import (
	"os"

	"github.com/spf13/afero"
)

func main() {
	if e := newRootCmd(afero.NewOsFs()).Execute(); e != nil {
		os.Exit(1)
	}
}
