// Package server implements a small accept loop that hands every
// connection to a Handler in its own goroutine.
package server

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"

	e "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	// MaxConnections is the default number of connections handled at once.
	MaxConnections = 10
)

// Handler is called for every accepted connection.
// The connection is closed after Handle returned.
type Handler interface {
	Handle(ctx context.Context, conn net.Conn)
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, conn net.Conn)

// Handle calls fn(ctx, conn)
func (fn HandlerFunc) Handle(ctx context.Context, conn net.Conn) {
	fn(ctx, conn)
}

// DeadlineListener is a listener that allows to set a deadline
// for calling Accept(). This is used to check periodically for a quit signal.
type DeadlineListener interface {
	net.Listener

	SetDeadline(deadline time.Time) error
}

// Server is a generic server implementation that
// listens on a certain port and starts a new go routine
// for each new accepted connection.
// Whatever the goroutine does is defined by the user-defined handler.
type Server struct {
	lst     net.Listener
	handler Handler
	rateCh  chan struct{}
	wg      sync.WaitGroup
	closed  int32
}

// NewServer returns a server that accepts on `lst`.
// At most `maxConns` connections are handled in parallel,
// MaxConnections is used when it is <= 0.
func NewServer(lst net.Listener, handler Handler, maxConns int) *Server {
	if maxConns <= 0 {
		maxConns = MaxConnections
	}

	return &Server{
		lst:     lst,
		handler: handler,
		rateCh:  make(chan struct{}, maxConns),
	}
}

// Addr returns the address the server listens on.
func (sv *Server) Addr() net.Addr {
	return sv.lst.Addr()
}

func (sv *Server) accept(ctx context.Context) error {
	if deadLst, ok := sv.lst.(DeadlineListener); ok {
		deadline := time.Now().Add(100 * time.Millisecond)
		if err := deadLst.SetDeadline(deadline); err != nil {
			return err
		}
	}

	conn, err := sv.lst.Accept()
	if err != nil {
		if opErr, ok := err.(*net.OpError); ok && opErr.Timeout() {
			return nil
		}

		// Something else happened.
		return err
	}

	sv.rateCh <- struct{}{}
	sv.wg.Add(1)

	go func() {
		defer func() {
			conn.Close()
			<-sv.rateCh
			sv.wg.Done()
		}()

		sv.handler.Handle(ctx, conn)
	}()

	return nil
}

// Serve accepts connections until `ctx` is canceled or the listener
// was closed. It returns after all running handlers returned.
func (sv *Server) Serve(ctx context.Context) error {
	defer sv.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			log.Debugf("will not accept new connections on %s", sv.Addr())
			return nil
		default:
		}

		if err := sv.accept(ctx); err != nil {
			if atomic.LoadInt32(&sv.closed) > 0 || ctx.Err() != nil {
				return nil
			}

			return e.Wrap(err, "accept")
		}
	}
}

// Close stops accepting new connections.
func (sv *Server) Close() error {
	atomic.StoreInt32(&sv.closed, 1)
	return sv.lst.Close()
}
