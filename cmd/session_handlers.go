package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/sahib/config"
	"github.com/sahib/grass/client"
	"github.com/sahib/grass/journal"
	"github.com/sahib/grass/transfer"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

func openJournal(cfg *config.Config) (*journal.Journal, error) {
	path, err := expandPath(cfg.String("journal.path"))
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, err
	}

	return journal.Open(path)
}

// buildWorker prepares the transfer worker as configured.
// The returned func releases the journal again.
func buildWorker(ctx *cli.Context, cfg *config.Config) (*transfer.Worker, func(), error) {
	dir, err := expandPath(cfg.String("transfer.directory"))
	if err != nil {
		return nil, nil, ExitCode{BadArgs, err.Error()}
	}

	worker := &transfer.Worker{Dir: dir}
	if cfg.Bool("transfer.progress") && stderrIsTerminal() {
		worker.Progress = transfer.NewProgressBar(os.Stderr)
	}

	release := func() {}
	if !cfg.Bool("journal.enabled") {
		return worker, release, nil
	}

	jr, err := openJournal(cfg)
	if err != nil {
		// Another session might hold the lock; transfers work without it.
		log.Warnf("transfers will not be recorded: %v", err)
		return worker, release, nil
	}

	logVerbose(ctx, "recording transfers in %s", cfg.String("journal.path"))
	worker.Journal = jr
	release = func() {
		if err := jr.Close(); err != nil {
			log.Warnf("failed to close journal: %v", err)
		}
	}

	return worker, release, nil
}

func handleSession(ctx *cli.Context) error {
	// Without a valid port, the first argument is more likely a mistyped command.
	withHint := func(msg string) error {
		if hint := suggestCommand(ctx, ctx.Args().First()); hint != "" {
			msg += "\n" + hint
		}

		return ExitCode{BadArgs, msg}
	}

	if ctx.NArg() != 2 {
		return withHint("Usage: grass [HOST] [PORT]")
	}

	host := ctx.Args().Get(0)
	port, err := parsePort(ctx.Args().Get(1))
	if err != nil {
		return withHint(err.Error())
	}

	cfg, _, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	if err := setLogLevel(ctx, cfg.String("log.level")); err != nil {
		return ExitCode{BadArgs, fmt.Sprintf("bad log level: %v", err)}
	}

	useColor := cfg.Bool("shell.color") && stdoutIsTerminal()
	color.NoColor = !useColor

	worker, release, err := buildWorker(ctx, cfg)
	if err != nil {
		return err
	}

	defer release()

	opts := client.Options{
		Output:     stdout,
		DrainGrace: cfg.Duration("shell.drain_grace"),
		Worker:     worker,
	}

	if cfg.Bool("shell.legacy_matching") {
		opts.Matching = client.MatchSubstring
	}

	runCtx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)
	defer cancel()

	logVerbose(ctx, "connecting to %s:%d", host, port)
	cl, err := client.Dial(runCtx, host, port, opts)
	if err != nil {
		return ExitCode{ConnectionFailed, err.Error()}
	}

	lines, err := newLineSource(cfg, useColor)
	if err != nil {
		if exitErr := cl.Exit(); exitErr != nil {
			log.Warnf("failed to end session: %v", exitErr)
		}

		return ExitCode{UnknownError, fmt.Sprintf("failed to read input: %v", err)}
	}

	defer lines.Close()

	err = client.NewSession(cl).Run(runCtx, lines)
	switch {
	case err == nil:
		return nil
	case client.IsDisconnected(err):
		fmt.Fprintln(stderr, "connection closed by peer")
		return nil
	case err == context.Canceled:
		logVerbose(ctx, "interrupted")
		return nil
	default:
		return ExitCode{UnknownError, err.Error()}
	}
}
