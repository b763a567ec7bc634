package cmd

import (
	"bufio"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	isatty "github.com/mattn/go-isatty"
	"github.com/sahib/config"
	"github.com/sahib/grass/client"
	log "github.com/sirupsen/logrus"
)

type lineSource interface {
	client.LineSource
	io.Closer
}

// newLineSource is replaced in tests.
var newLineSource = func(cfg *config.Config, useColor bool) (lineSource, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return newScanSource(os.Stdin), nil
	}

	return newReadlineSource(cfg, useColor)
}

type readlineSource struct {
	rl *readline.Instance
}

func newReadlineSource(cfg *config.Config, useColor bool) (*readlineSource, error) {
	prompt := cfg.String("shell.prompt")
	if useColor {
		prompt = color.GreenString(prompt)
	}

	historyPath, err := expandPath(cfg.String("shell.history_file"))
	if err != nil {
		log.Warnf("not using input history: %v", err)
		historyPath = ""
	}

	completer := readline.NewPrefixCompleter(
		readline.PcItem("get"),
		readline.PcItem("put"),
		readline.PcItem("exit"),
	)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyPath,
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})

	if err != nil {
		return nil, err
	}

	return &readlineSource{rl: rl}, nil
}

func (rs *readlineSource) ReadLine() (string, error) {
	line, err := rs.rl.Readline()
	if err == readline.ErrInterrupt {
		// Ctrl-C on an empty line ends the input,
		// otherwise it only discards what was typed.
		if len(line) == 0 {
			return "", io.EOF
		}

		return "", nil
	}

	return line, err
}

func (rs *readlineSource) Close() error {
	return rs.rl.Close()
}

// scanSource reads lines from a pipe or file.
type scanSource struct {
	scanner *bufio.Scanner
}

func newScanSource(r io.Reader) *scanSource {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 4096), 1024*1024)
	return &scanSource{scanner: scanner}
}

func (ss *scanSource) ReadLine() (string, error) {
	if ss.scanner.Scan() {
		return ss.scanner.Text(), nil
	}

	if err := ss.scanner.Err(); err != nil {
		return "", err
	}

	return "", io.EOF
}

func (ss *scanSource) Close() error {
	return nil
}
