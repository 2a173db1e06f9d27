package main

import (
	"fmt"
	"os"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
)

const configFlag = "config"

// configFlags are registered on every subcommand.
var configFlags = map[string]cobraflags.Flag{
	configFlag: &cobraflags.StringFlag{
		Name:  configFlag,
		Value: "",
		Usage: "YAML file with KEY: value defaults (environment variables win)",
	},
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "classifieds",
		Short:         "Classifieds backend: ads, categories, selections, users and locations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCommand(), newMigrateCommand())
	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
