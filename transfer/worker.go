package transfer

import (
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
	"time"

	humanize "github.com/dustin/go-humanize"
	e "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Outcome describes a finished transfer.
type Outcome struct {
	Kind        Kind
	Request     Request
	Transferred int64
	Started     time.Time
	Duration    time.Duration
	Err         error
}

// Recorder keeps track of finished transfers.
type Recorder interface {
	Record(outcome Outcome) error
}

// Worker runs a single transfer at a time.
// The same Worker may be used by several goroutines.
type Worker struct {
	// Dialer opens the data connections. Defaults to a plain net.Dialer.
	Dialer Dialer
	// Dir is the directory where files are read from and written to.
	Dir string
	// Progress is optional.
	Progress ProgressFunc
	// Journal is optional.
	Journal Recorder
}

func (w *Worker) dial(ctx context.Context, req Request) (net.Conn, error) {
	dialer := w.Dialer
	if dialer == nil {
		dialer = &net.Dialer{}
	}

	conn, err := dialer.DialContext(ctx, "tcp", req.Addr())
	if err != nil {
		return nil, ErrConnection{Addr: req.Addr(), Err: err}
	}

	return conn, nil
}

func (w *Worker) localPath(name string) string {
	dir := w.Dir
	if dir == "" {
		dir = "."
	}

	return filepath.Join(dir, name)
}

// progress wraps `wr` so that everything written is also shown as progress.
func (w *Worker) progress(kind Kind, req Request, wr io.Writer) (io.Writer, func()) {
	if w.Progress == nil {
		return wr, func() {}
	}

	bar := w.Progress(kind, req.Name, req.Size)
	return io.MultiWriter(wr, bar), func() {
		if err := bar.Close(); err != nil {
			log.Debugf("failed to close progress: %v", err)
		}
	}
}

func (w *Worker) download(ctx context.Context, req Request) (int64, error) {
	conn, err := w.dial(ctx, req)
	if err != nil {
		return 0, err
	}

	defer conn.Close()

	path := w.localPath(req.Name)
	fd, err := os.Create(path)
	if err != nil {
		return 0, ErrLocalFile{Path: path, Err: err}
	}

	dst, done := w.progress(KindGet, req, fd)
	n, err := Download(conn, dst, req.Size)
	done()

	if closeErr := fd.Close(); closeErr != nil && err == nil {
		err = e.Wrapf(closeErr, "close %s", path)
	}

	return n, err
}

func (w *Worker) upload(ctx context.Context, req Request) (int64, error) {
	// The source has to be there before we bother the peer.
	path := w.localPath(req.Name)
	fd, err := os.Open(path)
	if err != nil {
		return 0, ErrLocalFile{Path: path, Err: err}
	}

	defer fd.Close()

	conn, err := w.dial(ctx, req)
	if err != nil {
		return 0, err
	}

	defer conn.Close()

	dst, done := w.progress(KindPut, req, conn)
	defer done()

	return Upload(fd, dst, req.Size)
}

// Run executes the transfer described by `req` in the direction of `kind`.
// Failures are logged and recorded, but never printed to the user;
// the error is returned for the caller's bookkeeping.
func (w *Worker) Run(ctx context.Context, kind Kind, req Request) error {
	started := time.Now()

	var n int64
	var err error

	switch kind {
	case KindGet:
		n, err = w.download(ctx, req)
	case KindPut:
		n, err = w.upload(ctx, req)
	default:
		err = e.Errorf("bad transfer kind: %d", kind)
	}

	logger := log.WithFields(log.Fields{
		"kind": kind,
		"name": req.Name,
		"port": req.Port,
	})

	switch {
	case err == nil:
		logger.Infof(
			"transferred %s in %v",
			humanize.Bytes(uint64(n)),
			time.Since(started),
		)
	case IsShortTransfer(err):
		logger.Warnf("transfer ended early: %v", err)
	default:
		logger.Warnf("transfer failed: %v", err)
	}

	if w.Journal != nil {
		outcome := Outcome{
			Kind:        kind,
			Request:     req,
			Transferred: n,
			Started:     started,
			Duration:    time.Since(started),
			Err:         err,
		}

		if recErr := w.Journal.Record(outcome); recErr != nil {
			logger.Warnf("failed to record transfer: %v", recErr)
		}
	}

	return err
}
