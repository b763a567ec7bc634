// Package clienttest provides a fake file serving peer for tests.
// It speaks the control protocol over real localhost TCP connections
// and serves every transfer on its own data port.
package clienttest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sahib/grass/protocol"
	"github.com/sahib/grass/util/server"
	log "github.com/sirupsen/logrus"
)

// Peer is a fake peer. Configure its exported fields before calling Start.
type Peer struct {
	// Banner is sent right after a client connected.
	Banner string

	// Echo returns the segments that are sent back for a passthrough line.
	// By default the line itself is sent back.
	Echo func(line string) []string

	// SegmentDelay is the pause between two echo segments.
	SegmentDelay time.Duration

	// HangupOn closes the control connection when this line is received.
	HangupOn string

	// Gate is called before a transfer starts streaming data.
	// Blocking in it holds back the transfer.
	Gate func(kind, name string)

	mu        sync.Mutex
	files     map[string][]byte
	lines     []string
	exits     int
	conns     map[net.Conn]struct{}
	listeners map[net.Listener]struct{}

	srv    *server.Server
	cancel context.CancelFunc
	done   chan error
}

// NewPeer returns an unstarted peer that greets with "welcome".
func NewPeer() *Peer {
	return &Peer{
		Banner:    "welcome",
		files:     make(map[string][]byte),
		conns:     make(map[net.Conn]struct{}),
		listeners: make(map[net.Listener]struct{}),
	}
}

// Start listens on a random localhost port.
func (p *Peer) Start() error {
	lst, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan error, 1)
	p.srv = server.NewServer(lst, server.HandlerFunc(p.handle), 0)

	go func() {
		p.done <- p.srv.Serve(ctx)
	}()

	return nil
}

// Host returns the host the peer listens on.
func (p *Peer) Host() string {
	return "127.0.0.1"
}

// Port returns the control port.
func (p *Peer) Port() int {
	return p.srv.Addr().(*net.TCPAddr).Port
}

// Close shuts down the peer including all open connections.
func (p *Peer) Close() error {
	p.cancel()

	p.mu.Lock()
	for conn := range p.conns {
		conn.Close()
	}

	for lst := range p.listeners {
		lst.Close()
	}
	p.mu.Unlock()

	closeErr := p.srv.Close()
	if err := <-p.done; err != nil {
		return err
	}

	return closeErr
}

// SetFile makes `data` available for download under `name`.
func (p *Peer) SetFile(name string, data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.files[name] = data
}

// File returns the contents of `name`, if present.
func (p *Peer) File(name string) ([]byte, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	data, ok := p.files[name]
	return data, ok
}

// WaitFile waits until `name` is available (e.g. after an upload finished).
func (p *Peer) WaitFile(name string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if _, ok := p.File(name); ok {
			return true
		}

		time.Sleep(5 * time.Millisecond)
	}

	return false
}

// Lines returns all command lines received so far.
func (p *Peer) Lines() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]string{}, p.lines...)
}

// Exits returns how many exit notices were received.
func (p *Peer) Exits() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.exits
}

func (p *Peer) gate(kind, name string) {
	if p.Gate != nil {
		p.Gate(kind, name)
	}
}

// readFrame reads a single command frame.
// The exit notice is shorter than a frame and reported separately.
func readFrame(conn net.Conn) (string, bool, error) {
	buf := make([]byte, protocol.FrameSize)
	n, err := conn.Read(buf)
	if err != nil {
		return "", false, err
	}

	if bytes.Equal(buf[:n], protocol.ExitNotice) {
		return "", true, nil
	}

	if _, err := io.ReadFull(conn, buf[n:]); err != nil {
		return "", false, err
	}

	text := protocol.DecodeText(buf)
	return text, text == "exit", nil
}

func (p *Peer) handle(ctx context.Context, conn net.Conn) {
	p.mu.Lock()
	p.conns[conn] = struct{}{}
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		delete(p.conns, conn)
		p.mu.Unlock()
	}()

	if p.Banner != "" {
		if _, err := conn.Write([]byte(p.Banner)); err != nil {
			return
		}
	}

	for {
		line, isExit, err := readFrame(conn)
		if err != nil {
			if err != io.EOF {
				log.Debugf("peer: read failed: %v", err)
			}

			return
		}

		if isExit {
			p.mu.Lock()
			p.exits++
			p.mu.Unlock()
			return
		}

		p.mu.Lock()
		p.lines = append(p.lines, line)
		p.mu.Unlock()

		if p.HangupOn != "" && line == p.HangupOn {
			return
		}

		if err := p.answer(conn, line); err != nil {
			log.Debugf("peer: write failed: %v", err)
			return
		}
	}
}

func (p *Peer) answer(conn net.Conn, line string) error {
	fields := strings.Fields(line)
	switch {
	case len(fields) > 0 && fields[0] == "get":
		return p.answerGet(conn, fields)
	case len(fields) > 0 && fields[0] == "put":
		return p.answerPut(conn, fields)
	}

	segments := []string{line}
	if p.Echo != nil {
		segments = p.Echo(line)
	}

	for idx, segment := range segments {
		if idx > 0 && p.SegmentDelay > 0 {
			time.Sleep(p.SegmentDelay)
		}

		if _, err := conn.Write([]byte(segment)); err != nil {
			return err
		}
	}

	return nil
}

func (p *Peer) answerGet(conn net.Conn, fields []string) error {
	if len(fields) != 2 {
		return writeString(conn, "error: usage: get <name>")
	}

	name := fields[1]
	content, ok := p.File(name)
	if !ok {
		return writeString(conn, "error: no such file: "+name)
	}

	port, err := p.serveData(func(dataConn net.Conn) {
		p.gate("get", name)
		if _, err := dataConn.Write(content); err != nil {
			log.Debugf("peer: failed to send %s: %v", name, err)
		}
	})

	if err != nil {
		return writeString(conn, "error: "+err.Error())
	}

	return writeString(conn, fmt.Sprintf("get port: %d size: %d", port, len(content)))
}

func (p *Peer) answerPut(conn net.Conn, fields []string) error {
	if len(fields) != 3 {
		return writeString(conn, "error: usage: put <name> <size>")
	}

	name := fields[1]
	size, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil || size < 0 {
		return writeString(conn, "error: bad size: "+fields[2])
	}

	port, err := p.serveData(func(dataConn net.Conn) {
		p.gate("put", name)

		buf := &bytes.Buffer{}
		if _, err := io.CopyN(buf, dataConn, size); err != nil {
			log.Debugf("peer: upload of %s ended early: %v", name, err)
			return
		}

		p.SetFile(name, buf.Bytes())
	})

	if err != nil {
		return writeString(conn, "error: "+err.Error())
	}

	return writeString(conn, fmt.Sprintf("put port: %d", port))
}

// serveData accepts a single data connection on a fresh port
// and hands it to `fn` in the background.
func (p *Peer) serveData(fn func(conn net.Conn)) (int, error) {
	lst, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}

	p.mu.Lock()
	p.listeners[lst] = struct{}{}
	p.mu.Unlock()

	go func() {
		defer func() {
			lst.Close()
			p.mu.Lock()
			delete(p.listeners, lst)
			p.mu.Unlock()
		}()

		conn, err := lst.Accept()
		if err != nil {
			return
		}

		defer conn.Close()
		fn(conn)
	}()

	return lst.Addr().(*net.TCPAddr).Port, nil
}

func writeString(conn net.Conn, text string) error {
	_, err := conn.Write([]byte(text))
	return err
}
