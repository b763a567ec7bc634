package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/sahib/config"
	"github.com/sahib/grass/defaults"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

func printConfigDocEntry(cfg *config.Config, key string) {
	entry := cfg.GetDefault(key)

	current := cfg.Uncast(key)
	defaultVal := fmt.Sprintf("%v", entry.Default)

	val := current
	if val == "" {
		val = color.YellowString("(empty)")
	}

	defaultMarker := ""
	if current == defaultVal {
		defaultMarker = color.CyanString("(default)")
	}

	fmt.Fprintf(stdout, "%s: %v %s\n", color.GreenString(key), val, defaultMarker)

	if defaultVal == "" {
		defaultVal = color.YellowString("(empty)")
	}

	fmt.Fprintf(stdout, "  Default:       %v\n", defaultVal)
	fmt.Fprintf(stdout, "  Documentation: %v\n", entry.Docs)
	fmt.Fprintf(stdout, "  Needs restart: %v\n", yesify(entry.NeedsRestart))
}

func validKey(cfg *config.Config, key string) error {
	if !cfg.IsValidKey(key) {
		msg := fmt.Sprintf("invalid key: %v", key)
		if hint := formatSuggestions(findSimilar(key, cfg.Keys())); hint != "" {
			msg += "\n" + hint
		}

		return ExitCode{BadArgs, msg}
	}

	return nil
}

func handleConfigList(ctx *cli.Context) error {
	cfg, _, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	for _, key := range cfg.Keys() {
		printConfigDocEntry(cfg, key)
	}

	return nil
}

func handleConfigGet(ctx *cli.Context) error {
	cfg, _, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	key := ctx.Args().Get(0)
	if err := validKey(cfg, key); err != nil {
		return err
	}

	for _, elem := range strings.Split(cfg.Uncast(key), " ;; ") {
		fmt.Fprintln(stdout, elem)
	}

	return nil
}

func handleConfigSet(ctx *cli.Context) error {
	cfg, path, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	key := ctx.Args().Get(0)
	if err := validKey(cfg, key); err != nil {
		return err
	}

	rawVal := ctx.Args().Get(1)
	if len(ctx.Args()) > 2 {
		rawVal = strings.Join(ctx.Args()[1:], " ;; ")
	}

	val, err := cfg.Cast(key, rawVal)
	if err != nil {
		return ExitCode{BadArgs, fmt.Sprintf("config set: %v", err)}
	}

	log.Debugf("config: set `%s` to `%v`", key, val)
	if err := cfg.Set(key, val); err != nil {
		return ExitCode{BadArgs, fmt.Sprintf("config set: %v", err)}
	}

	if err := defaults.SaveConfig(path, cfg); err != nil {
		return ExitCode{UnknownError, fmt.Sprintf("config set: %v", err)}
	}

	logVerbose(ctx, "wrote %s", path)
	if cfg.GetDefault(key).NeedsRestart {
		fmt.Fprintln(stdout, "NOTE: This option takes effect in the next session.")
	}

	return nil
}

func handleConfigDoc(ctx *cli.Context) error {
	cfg, _, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	key := ctx.Args().Get(0)
	if err := validKey(cfg, key); err != nil {
		return err
	}

	printConfigDocEntry(cfg, key)
	return nil
}
