// Package protocol implements the text protocol spoken on the control
// connection. Every command is sent as a fixed size frame of ASCII text that is
// padded with NUL bytes (or truncated) to FrameSize. Replies are plain text,
// possibly NUL padded as well.
//
// Lines are parsed exactly once into tagged variants (see Request and Reply),
// so callers never scan the raw text twice.
package protocol

import (
	"bytes"
	"io"

	e "github.com/pkg/errors"
)

const (
	// FrameSize is the size of every command frame on the control connection.
	// It is also the chunk size used for streaming file data.
	FrameSize = 1024

	// MaxNameLen is the longest file name that fits into a frame.
	MaxNameLen = FrameSize - 1
)

// ExitNotice is sent to the peer when the session is about to end.
var ExitNotice = []byte{'e', 'x', 'i', 't', 0, 0}

var (
	// ErrShortWrite is returned when the connection accepted less than a frame.
	ErrShortWrite = e.New("short write on control connection")
)

// EncodeFrame returns `line` as a NUL padded frame of exactly FrameSize bytes.
// Longer lines are truncated.
func EncodeFrame(line string) []byte {
	frame := make([]byte, FrameSize)
	copy(frame, line)
	return frame
}

// WriteFrame sends `line` as one frame to `w`.
func WriteFrame(w io.Writer, line string) error {
	return writeAll(w, EncodeFrame(line))
}

// WriteExit sends the exit notice to `w`.
func WriteExit(w io.Writer) error {
	return writeAll(w, ExitNotice)
}

func writeAll(w io.Writer, data []byte) error {
	n, err := w.Write(data)
	if err != nil {
		return err
	}

	if n < len(data) {
		return ErrShortWrite
	}

	return nil
}

// DecodeText returns the text in `buf` up to the first NUL byte.
func DecodeText(buf []byte) string {
	if idx := bytes.IndexByte(buf, 0); idx >= 0 {
		buf = buf[:idx]
	}

	return string(buf)
}
