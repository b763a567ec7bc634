package client

import (
	"io"

	e "github.com/pkg/errors"
)

// ErrDisconnected is returned when the peer closed the control connection
// or reading from it failed.
var ErrDisconnected = e.New("control connection closed")

// IsDisconnected checks if `err` (or its cause) is ErrDisconnected.
func IsDisconnected(err error) bool {
	return e.Cause(err) == ErrDisconnected
}

func disconnected(err error) error {
	if err == nil || err == io.EOF {
		return ErrDisconnected
	}

	return e.Wrapf(ErrDisconnected, "%v", err)
}
