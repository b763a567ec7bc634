package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sahib/grass/version"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

// RunCmdline starts a grass commandline tool.
func RunCmdline(args []string) int {
	// A .env file in the working directory may back the env vars below.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("failed to load .env: %v", err)
	}

	app := cli.NewApp()
	app.Name = "grass"
	app.Usage = "Interactive client for a remote file serving peer"
	app.UsageText = "grass [global options] HOST PORT\n   grass [global options] command [arguments...]"
	app.Version = version.String()
	app.HideVersion = true
	app.CommandNotFound = commandNotFound

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "config,c",
			Usage:  "Path of the config file (default: ~/.config/grass/config.yml)",
			EnvVar: "GRASS_CONFIG",
		},
		cli.StringFlag{
			Name:   "log-path,l",
			Usage:  "Where to output the log. May be 'stderr' (default), 'stdout' or a file",
			Value:  "stderr",
			EnvVar: "GRASS_LOG",
		},
		cli.BoolFlag{
			Name:  "verbose,V",
			Usage: "Print debug output and what grass is doing",
		},
	}

	app.Action = handleSession
	app.Commands = []cli.Command{
		{
			Name:  "config",
			Usage: "View and modify config options",
			Subcommands: []cli.Command{
				{
					Name:   "list",
					Usage:  "Show all config keys with their values and docs",
					Action: handleConfigList,
				},
				{
					Name:      "get",
					Usage:     "Show the value of a config key",
					ArgsUsage: "<key>",
					Action:    withArgCheck(needAtLeast(1), handleConfigGet),
				},
				{
					Name:      "set",
					Usage:     "Set a config key to a new value",
					ArgsUsage: "<key> <value>",
					Action:    withArgCheck(needAtLeast(2), handleConfigSet),
				},
				{
					Name:      "doc",
					Usage:     "Show the documentation of a config key",
					ArgsUsage: "<key>",
					Action:    withArgCheck(needAtLeast(1), handleConfigDoc),
				},
			},
		},
		{
			Name:   "history",
			Usage:  "Show the most recent transfers",
			Action: handleHistory,
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "limit,n",
					Usage: "How many transfers to show (0 for all)",
					Value: 20,
				},
			},
		},
		{
			Name:   "version",
			Usage:  "Show the version of grass",
			Action: handleVersion,
		},
	}

	app.Before = func(ctx *cli.Context) error {
		return setLogPath(ctx.GlobalString("log-path"))
	}

	if err := app.Run(args); err != nil {
		if exitErr, ok := err.(ExitCode); ok {
			if exitErr.Message != "" {
				fmt.Fprintln(stderr, exitErr.Message)
			}

			return exitErr.Code
		}

		fmt.Fprintln(stderr, err)
		return UnknownError
	}

	return Success
}
