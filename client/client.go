// Package client talks to a file serving peer over a single control
// connection. Lines typed by the user are classified, sent as fixed size
// frames and either answered with plain text or negotiated into a transfer
// that runs in the background while the control connection stays usable.
package client

import (
	"context"
	"io"
	"net"
	"os"
	"strconv"
	"time"

	e "github.com/pkg/errors"
	"github.com/sahib/grass/protocol"
	"github.com/sahib/grass/transfer"
	log "github.com/sirupsen/logrus"
)

const (
	// DefaultDrainGrace is how long we wait for more output of the peer
	// after the first chunk of a reply arrived.
	DefaultDrainGrace = 25 * time.Millisecond
)

// Options change the behaviour of a Client.
type Options struct {
	// Output receives everything the peer sends as text.
	// Defaults to os.Stdout.
	Output io.Writer

	// Matching decides how commands are recognized.
	Matching MatchMode

	// DrainGrace is the time window for further output of the peer.
	DrainGrace time.Duration

	// Worker executes transfers. A zero worker writes into the
	// current directory and dials with a plain net.Dialer.
	Worker *transfer.Worker
}

// Client is a helper API that owns the control connection and
// all transfers negotiated over it.
type Client struct {
	conn   net.Conn
	out    io.Writer
	mode   MatchMode
	grace  time.Duration
	guard  *transfer.Guard
	worker *transfer.Worker
}

// New wraps an already established control connection.
func New(conn net.Conn, opts Options) *Client {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	if opts.DrainGrace <= 0 {
		opts.DrainGrace = DefaultDrainGrace
	}

	if opts.Worker == nil {
		opts.Worker = &transfer.Worker{}
	}

	return &Client{
		conn:   conn,
		out:    opts.Output,
		mode:   opts.Matching,
		grace:  opts.DrainGrace,
		guard:  transfer.NewGuard(),
		worker: opts.Worker,
	}
}

// Dial connects to the peer at `host`:`port`.
func Dial(ctx context.Context, host string, port int, opts Options) (*Client, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, e.Wrapf(err, "failed to connect to %s", addr)
	}

	log.Debugf("connected to %s", addr)
	return New(conn, opts), nil
}

// LocalAddr return info about the local addr
func (cl *Client) LocalAddr() net.Addr {
	return cl.conn.LocalAddr()
}

// RemoteAddr return info about the remote addr
func (cl *Client) RemoteAddr() net.Addr {
	return cl.conn.RemoteAddr()
}

// Busy reports whether a transfer of `kind` is running.
func (cl *Client) Busy(kind transfer.Kind) bool {
	return cl.guard.Busy(kind)
}

// Close waits for all running transfers and closes the control connection.
func (cl *Client) Close() error {
	if err := cl.guard.Drain(); err != nil {
		log.Warnf("last transfer error: %v", err)
	}

	return cl.conn.Close()
}

// Exit sends the exit notice to the peer and closes the client.
// Failing to send the notice is not fatal; the connection is closed anyway.
func (cl *Client) Exit() error {
	if err := protocol.WriteExit(cl.conn); err != nil {
		log.Debugf("failed to send exit notice: %v", err)
	}

	return cl.Close()
}
