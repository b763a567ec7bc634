package transfer

import (
	"io"

	e "github.com/pkg/errors"
	"github.com/sahib/grass/protocol"
)

// ChunkSize is the maximum number of bytes moved per read.
const ChunkSize = protocol.FrameSize

func chunkLen(left int64) int64 {
	if left > ChunkSize {
		return ChunkSize
	}

	return left
}

// Download reads exactly `size` bytes from `src` and writes them to `dst`.
// It never reads more than what is still missing, so `src` is not consumed
// beyond the announced size. If `src` ends early, ErrShortTransfer is returned
// along with the number of bytes that were written.
func Download(src io.Reader, dst io.Writer, size int64) (int64, error) {
	buf := make([]byte, ChunkSize)
	got := int64(0)

	for got < size {
		n, err := src.Read(buf[:chunkLen(size-got)])
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return got, e.Wrap(werr, "write")
			}

			got += int64(n)
		}

		if err == io.EOF || (n == 0 && err == nil) {
			break
		}

		if err != nil {
			return got, e.Wrap(err, "read")
		}
	}

	if got < size {
		return got, ErrShortTransfer{Want: size, Got: got}
	}

	return got, nil
}

// Upload sends exactly `size` bytes from `src` to `dst`.
// A source that is shorter than `size` yields ErrShortTransfer.
func Upload(src io.Reader, dst io.Writer, size int64) (int64, error) {
	buf := make([]byte, ChunkSize)
	sent := int64(0)

	for sent < size {
		n, err := src.Read(buf[:chunkLen(size-sent)])
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return sent, e.Wrap(werr, "send")
			}

			sent += int64(n)
		}

		if err == io.EOF || (n == 0 && err == nil) {
			break
		}

		if err != nil {
			return sent, e.Wrap(err, "read")
		}
	}

	if sent < size {
		return sent, ErrShortTransfer{Want: size, Got: sent}
	}

	return sent, nil
}
