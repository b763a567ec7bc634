package cmd

import (
	"fmt"
	"net"
	"strconv"

	humanize "github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/sahib/grass/journal"
	"github.com/urfave/cli"
)

func statusSymbol(status string) string {
	switch status {
	case journal.StatusOK:
		return color.GreenString("✔")
	case journal.StatusShort:
		return color.YellowString("⚠")
	default:
		return color.RedString("✘")
	}
}

func handleHistory(ctx *cli.Context) error {
	cfg, _, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	jr, err := openJournal(cfg)
	if err != nil {
		return ExitCode{UnknownError, fmt.Sprintf("failed to open journal: %v", err)}
	}

	defer jr.Close()

	entries, err := jr.List(ctx.Int("limit"))
	if err != nil {
		return ExitCode{UnknownError, fmt.Sprintf("history: %v", err)}
	}

	for _, entry := range entries {
		fmt.Fprintf(
			stdout,
			"%s %s %-3s %s %s/%s %s (%s, %v)\n",
			statusSymbol(entry.Status),
			entry.Started.Format("2006-01-02 15:04:05"),
			entry.Kind,
			color.CyanString(entry.Name),
			humanize.Bytes(uint64(entry.Transferred)),
			humanize.Bytes(uint64(entry.Size)),
			net.JoinHostPort(entry.Host, strconv.Itoa(entry.Port)),
			humanize.Time(entry.Started),
			entry.Duration,
		)

		if entry.Error != "" {
			fmt.Fprintf(stdout, "    %s\n", color.RedString(entry.Error))
		}
	}

	return nil
}
