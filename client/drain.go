package client

import (
	"net"
	"time"

	e "github.com/pkg/errors"
	"github.com/sahib/grass/protocol"
)

func isTimeout(err error) bool {
	netErr, ok := err.(net.Error)
	return ok && netErr.Timeout()
}

// drain prints everything the peer has to say right now.
// It blocks until the first chunk arrives and then keeps reading as long as
// more data shows up within the grace window. Every chunk is printed up to
// its first NUL byte; the whole output is terminated by one line break.
func (cl *Client) drain() error {
	buf := make([]byte, protocol.FrameSize)

	n, err := cl.conn.Read(buf)
	if n <= 0 {
		return disconnected(err)
	}

	if _, werr := cl.out.Write([]byte(protocol.DecodeText(buf[:n]))); werr != nil {
		return e.Wrap(werr, "output")
	}

	var readErr error
	if err != nil {
		readErr = disconnected(err)
	}

	for readErr == nil {
		if err := cl.conn.SetReadDeadline(time.Now().Add(cl.grace)); err != nil {
			return e.Wrap(err, "deadline")
		}

		n, err := cl.conn.Read(buf)
		if n > 0 {
			if _, werr := cl.out.Write([]byte(protocol.DecodeText(buf[:n]))); werr != nil {
				return e.Wrap(werr, "output")
			}
		}

		if err != nil {
			if !isTimeout(err) {
				readErr = disconnected(err)
			}

			break
		}

		if n == 0 {
			readErr = disconnected(nil)
		}
	}

	if _, err := cl.out.Write([]byte{'\n'}); err != nil {
		return e.Wrap(err, "output")
	}

	if readErr != nil {
		return readErr
	}

	return cl.conn.SetReadDeadline(time.Time{})
}
