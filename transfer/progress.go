package transfer

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"
)

// ProgressFunc creates a sink that is fed with every transferred byte.
// The returned writer is closed once the transfer is over.
type ProgressFunc func(kind Kind, name string, size int64) io.WriteCloser

// NewProgressBar returns a ProgressFunc that draws a progress bar to `w`.
func NewProgressBar(w io.Writer) ProgressFunc {
	return func(kind Kind, name string, size int64) io.WriteCloser {
		return progressbar.NewOptions64(
			size,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription(fmt.Sprintf("%s %s", kind, name)),
			progressbar.OptionShowBytes(true),
			progressbar.OptionClearOnFinish(),
		)
	}
}
