package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	isatty "github.com/mattn/go-isatty"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/sahib/config"
	"github.com/sahib/grass/defaults"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

const (
	defaultConfigPath = "~/.config/grass/config.yml"
)

// stdout is where everything meant for the user goes.
var stdout io.Writer = os.Stdout

// stderr receives error messages and notes about the session.
var stderr io.Writer = os.Stderr

// ExitCode is an error that maps to a specific process exit code
type ExitCode struct {
	Code    int
	Message string
}

func (err ExitCode) Error() string {
	return err.Message
}

func yesify(val bool) string {
	if val {
		return color.GreenString("yes")
	}

	return color.RedString("no")
}

func stdoutIsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd())
}

func stderrIsTerminal() bool {
	return isatty.IsTerminal(os.Stderr.Fd())
}

// expandPath resolves a leading ~ to the home directory.
func expandPath(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("failed to expand home dir in `%s`: %v", path, err)
	}

	return expanded, nil
}

// configPath finds the config file by using a number of sources.
func configPath(ctx *cli.Context) (string, error) {
	if argPath := ctx.GlobalString("config"); argPath != "" {
		return expandPath(argPath)
	}

	return expandPath(defaultConfigPath)
}

func loadConfig(ctx *cli.Context) (*config.Config, string, error) {
	path, err := configPath(ctx)
	if err != nil {
		return nil, "", ExitCode{BadArgs, err.Error()}
	}

	cfg, err := defaults.OpenMigratedConfig(path)
	if err != nil {
		return nil, "", ExitCode{BadArgs, fmt.Sprintf("failed to load config %s: %v", path, err)}
	}

	log.Debugf("using config at %s", path)
	return cfg, path, nil
}

type checkFunc func(ctx *cli.Context) error

func withArgCheck(checker checkFunc, handler cli.ActionFunc) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		if err := checker(ctx); err != nil {
			return err
		}

		return handler(ctx)
	}
}

func needAtLeast(min int) checkFunc {
	return func(ctx *cli.Context) error {
		if ctx.NArg() < min {
			if min == 1 {
				return ExitCode{BadArgs, fmt.Sprintf("need at least %d argument", min)}
			}

			return ExitCode{BadArgs, fmt.Sprintf("need at least %d arguments", min)}
		}

		return nil
	}
}

// parsePort checks that `s` is a valid TCP port.
func parsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("port is not a number: %s", s)
	}

	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("port out of range: %d", port)
	}

	return port, nil
}
