package client

import (
	"context"
	"io"
	"strings"
	"sync/atomic"

	"github.com/sahib/grass/protocol"
	log "github.com/sirupsen/logrus"
)

// State is the life cycle state of a session.
type State int32

const (
	// StateConnected means the control connection is up,
	// but the welcome banner was not read yet.
	StateConnected = State(iota)
	// StateInteractive means user input is read and dispatched.
	StateInteractive
	// StateClosing means no more input is read; running transfers
	// are waited for.
	StateClosing
	// StateTerminated means all transfers are done and
	// the control connection is closed.
	StateTerminated
)

func (st State) String() string {
	switch st {
	case StateConnected:
		return "connected"
	case StateInteractive:
		return "interactive"
	case StateClosing:
		return "closing"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// LineSource delivers lines of user input.
// io.EOF signals the end of input.
type LineSource interface {
	ReadLine() (string, error)
}

// Session runs the interactive loop on top of a Client.
type Session struct {
	cl    *Client
	state int32
}

// NewSession returns a session in StateConnected.
func NewSession(cl *Client) *Session {
	return &Session{cl: cl}
}

// State returns the current state. It's safe to call from any goroutine.
func (s *Session) State() State {
	return State(atomic.LoadInt32(&s.state))
}

func (s *Session) setState(st State) {
	log.Debugf("session is %s", st)
	atomic.StoreInt32(&s.state, int32(st))
}

func isInputChar(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
	case c >= 'a' && c <= 'z':
	case c >= 'A' && c <= 'Z':
	case c == ' ' || c == '_' || c == '.' || c == '-':
	default:
		return false
	}

	return true
}

// Sanitize cuts `line` at the first character that is not allowed in a
// command and limits it to what fits into one frame.
// Surrounding blanks are removed.
func Sanitize(line string) string {
	end := 0
	for end < len(line) && end < protocol.MaxNameLen && isInputChar(line[end]) {
		end++
	}

	return strings.Trim(line[:end], " ")
}

// Run drains the welcome banner of the peer and then dispatches every line of
// `lines` until the user exits, the input ends or the peer hangs up.
// Run returns only after all transfers finished and the control connection
// was closed. A clean exit or the end of input return nil.
// Canceling `ctx` ends the session even while waiting for input.
func (s *Session) Run(ctx context.Context, lines LineSource) error {
	// Canceling the context interrupts blocking reads on the control connection.
	watchDone := make(chan struct{})
	defer close(watchDone)

	go func() {
		select {
		case <-ctx.Done():
			s.cl.conn.Close()
		case <-watchDone:
		}
	}()

	err := s.loop(ctx, lines)

	s.setState(StateClosing)
	if closeErr := s.cl.Close(); closeErr != nil {
		log.Debugf("failed to close control connection: %v", closeErr)
	}

	s.setState(StateTerminated)

	if ctx.Err() != nil {
		return ctx.Err()
	}

	return err
}

type lineResult struct {
	line string
	err  error
}

// nextLine waits for the next line of input or until `ctx` is canceled.
// The read itself runs in the background since most sources cannot be
// interrupted; it ends once the source is closed by its owner.
func nextLine(ctx context.Context, lines LineSource) (string, error) {
	resultCh := make(chan lineResult, 1)
	go func() {
		line, err := lines.ReadLine()
		resultCh <- lineResult{line: line, err: err}
	}()

	select {
	case res := <-resultCh:
		return res.line, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (s *Session) loop(ctx context.Context, lines LineSource) error {
	if err := s.cl.drain(); err != nil {
		return err
	}

	s.setState(StateInteractive)

	for {
		line, err := nextLine(ctx, lines)
		if err != nil {
			if ctx.Err() != nil {
				// The watcher already closed the control connection.
				return ctx.Err()
			}

			if exitErr := protocol.WriteExit(s.cl.conn); exitErr != nil {
				log.Debugf("failed to send exit notice: %v", exitErr)
			}

			if err == io.EOF {
				return nil
			}

			return err
		}

		line = Sanitize(line)
		if line == "" {
			continue
		}

		outcome, err := s.cl.Dispatch(ctx, line)
		if err != nil {
			return err
		}

		if outcome.Quit {
			return nil
		}
	}
}
