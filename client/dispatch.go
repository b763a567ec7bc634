package client

import (
	"context"
	"strings"

	e "github.com/pkg/errors"
	"github.com/sahib/grass/protocol"
	log "github.com/sirupsen/logrus"
)

// MatchMode decides when a line counts as a command.
type MatchMode int

const (
	// MatchToken matches if the first word of the line is the keyword.
	MatchToken = MatchMode(iota)
	// MatchSubstring matches if the keyword occurs anywhere in the line.
	// "budget" is a get command in this mode.
	MatchSubstring
)

// Classify returns the command `line` stands for.
// Keywords are tested in the order of protocol.Keywords; the first match wins.
func Classify(line string, mode MatchMode) protocol.Command {
	first := ""
	if fields := strings.Fields(line); len(fields) > 0 {
		first = fields[0]
	}

	for _, kw := range protocol.Keywords {
		switch mode {
		case MatchSubstring:
			if strings.Contains(line, kw.Word) {
				return kw.ID
			}
		default:
			if first == kw.Word {
				return kw.ID
			}
		}
	}

	return protocol.CommandRaw
}

// Outcome tells the caller what to do after a line was dispatched.
type Outcome struct {
	// Quit is true if the session should end.
	Quit bool
}

// Dispatch sends `line` to the peer and handles the reply.
// Exactly one request goes out per call. Transfers are started in the
// background; Dispatch only blocks while a transfer of the same kind is
// still running. Returned errors mean the control connection is unusable.
func (cl *Client) Dispatch(ctx context.Context, line string) (Outcome, error) {
	cmd := Classify(line, cl.mode)
	log.Debugf("dispatching `%s` as %s", line, cmd)

	switch cmd {
	case protocol.CommandGet, protocol.CommandPut:
		return Outcome{}, cl.negotiate(ctx, cmd, line)
	case protocol.CommandExit:
		if err := protocol.WriteExit(cl.conn); err != nil {
			return Outcome{Quit: true}, e.Wrap(err, "failed to send exit notice")
		}

		return Outcome{Quit: true}, nil
	default:
		if err := protocol.WriteFrame(cl.conn, line); err != nil {
			return Outcome{}, e.Wrap(err, "send")
		}

		return Outcome{}, cl.drain()
	}
}
