package cmd

import (
	"fmt"
	"os"
	"strings"

	colorlog "github.com/sahib/grass/util/log"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

func init() {
	log.SetOutput(os.Stderr)
	log.SetLevel(log.WarnLevel)
	log.SetFormatter(&colorlog.FancyLogFormatter{
		UseColors: stderrIsTerminal(),
	})
}

func logVerbose(ctx *cli.Context, format string, args ...interface{}) {
	if !ctx.GlobalBool("verbose") {
		return
	}

	if !strings.HasSuffix(format, "\n") {
		format = format + "\n"
	}

	fmt.Fprintf(os.Stderr, "-- "+format, args...)
}

func setLogPath(path string) error {
	switch path {
	case "stdout":
		log.SetOutput(os.Stdout)
	case "stderr", "":
		log.SetOutput(os.Stderr)
	default:
		fd, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}

		// Colors are of no use in a file.
		log.SetFormatter(&colorlog.FancyLogFormatter{UseColors: false})
		log.SetOutput(fd)
	}

	return nil
}

// setLogLevel applies the level from the config, unless --verbose was given.
func setLogLevel(ctx *cli.Context, name string) error {
	if ctx.GlobalBool("verbose") {
		log.SetLevel(log.DebugLevel)
		return nil
	}

	level, err := colorlog.ParseLevel(name)
	if err != nil {
		return err
	}

	log.SetLevel(level)
	return nil
}
