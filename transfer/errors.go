package transfer

import (
	"fmt"

	e "github.com/pkg/errors"
)

// ErrConnection is returned when the data connection could not be opened.
type ErrConnection struct {
	Addr string
	Err  error
}

func (err ErrConnection) Error() string {
	return fmt.Sprintf("failed to connect to %s: %v", err.Addr, err.Err)
}

// ErrLocalFile is returned when the local side of a transfer
// could not be opened or created.
type ErrLocalFile struct {
	Path string
	Err  error
}

func (err ErrLocalFile) Error() string {
	return fmt.Sprintf("cannot use local file %s: %v", err.Path, err.Err)
}

// ErrShortTransfer is returned when the stream ended before `Want` bytes
// were moved.
type ErrShortTransfer struct {
	Want int64
	Got  int64
}

func (err ErrShortTransfer) Error() string {
	return fmt.Sprintf("short transfer: got %d of %d bytes", err.Got, err.Want)
}

// IsConnection checks if `err` (or its cause) is a ErrConnection.
func IsConnection(err error) bool {
	_, ok := e.Cause(err).(ErrConnection)
	return ok
}

// IsLocalFile checks if `err` (or its cause) is a ErrLocalFile.
func IsLocalFile(err error) bool {
	_, ok := e.Cause(err).(ErrLocalFile)
	return ok
}

// IsShortTransfer checks if `err` (or its cause) is a ErrShortTransfer.
func IsShortTransfer(err error) bool {
	_, ok := e.Cause(err).(ErrShortTransfer)
	return ok
}
