package transfer

import (
	"bytes"
	"io"
	"testing"
	"testing/iotest"

	"github.com/sahib/grass/util/testutil"
	"github.com/stretchr/testify/require"
)

// limitCheckReader fails the test if more than ChunkSize bytes are requested.
type limitCheckReader struct {
	t *testing.T
	r io.Reader
}

func (lcr *limitCheckReader) Read(buf []byte) (int, error) {
	require.True(lcr.t, len(buf) <= ChunkSize, "read of %d bytes", len(buf))
	return lcr.r.Read(buf)
}

func TestDownloadExact(t *testing.T) {
	data := testutil.CreateDummyBuf(3*ChunkSize + 17)
	trailer := []byte("not meant for us")

	src := bytes.NewReader(append(append([]byte{}, data...), trailer...))
	dst := &bytes.Buffer{}

	n, err := Download(&limitCheckReader{t, src}, dst, int64(len(data)))
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), n)
	require.Equal(t, data, dst.Bytes())

	// Nothing after the announced size may be consumed.
	require.Equal(t, len(trailer), src.Len())
}

func TestDownloadSmallReads(t *testing.T) {
	data := testutil.CreateDummyBuf(2 * ChunkSize)
	dst := &bytes.Buffer{}

	n, err := Download(iotest.OneByteReader(bytes.NewReader(data)), dst, int64(len(data)))
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), n)
	require.Equal(t, data, dst.Bytes())
}

func TestDownloadShort(t *testing.T) {
	data := testutil.CreateDummyBuf(100)
	dst := &bytes.Buffer{}

	n, err := Download(bytes.NewReader(data), dst, 200)
	require.True(t, IsShortTransfer(err))
	require.Equal(t, ErrShortTransfer{Want: 200, Got: 100}, err)
	require.Equal(t, int64(100), n)
	require.Equal(t, data, dst.Bytes())
}

func TestDownloadEmpty(t *testing.T) {
	src := bytes.NewReader([]byte("abc"))
	dst := &bytes.Buffer{}

	n, err := Download(src, dst, 0)
	require.NoError(t, err)
	require.Equal(t, int64(0), n)
	require.Equal(t, 0, dst.Len())
	require.Equal(t, 3, src.Len())
}

func TestDownloadReadError(t *testing.T) {
	_, err := Download(iotest.ErrReader(io.ErrClosedPipe), &bytes.Buffer{}, 10)
	require.Error(t, err)
	require.False(t, IsShortTransfer(err))
}

func TestUploadExact(t *testing.T) {
	data := testutil.CreateDummyBuf(ChunkSize + 1)
	src := bytes.NewReader(data)
	dst := &bytes.Buffer{}

	n, err := Upload(&limitCheckReader{t, src}, dst, ChunkSize)
	require.NoError(t, err)
	require.Equal(t, int64(ChunkSize), n)
	require.Equal(t, data[:ChunkSize], dst.Bytes())
	require.Equal(t, 1, src.Len())
}

func TestUploadShortSource(t *testing.T) {
	data := testutil.CreateDummyBuf(10)
	dst := &bytes.Buffer{}

	n, err := Upload(bytes.NewReader(data), dst, 11)
	require.True(t, IsShortTransfer(err))
	require.Equal(t, int64(10), n)
	require.Equal(t, data, dst.Bytes())
}

func TestUploadEmpty(t *testing.T) {
	dst := &bytes.Buffer{}
	n, err := Upload(bytes.NewReader(nil), dst, 0)
	require.NoError(t, err)
	require.Equal(t, int64(0), n)
}
