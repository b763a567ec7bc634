package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/sahib/grass/version"
	"github.com/urfave/cli"
)

func handleVersion(ctx *cli.Context) error {
	row := func(name, value string) {
		if value == "" {
			value = color.YellowString("(unknown)")
		}

		fmt.Fprintf(stdout, "%12s: %s\n", name, value)
	}

	row("Version", version.String())
	row("Rev", version.GitRev)
	row("Build time", version.BuildTime)
	return nil
}
