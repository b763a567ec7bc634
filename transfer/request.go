package transfer

import (
	"net"
	"strconv"
)

// Kind is the direction of a transfer.
type Kind int

const (
	// KindGet downloads a file from the peer.
	KindGet = Kind(iota)
	// KindPut uploads a file to the peer.
	KindPut
)

func (k Kind) String() string {
	switch k {
	case KindGet:
		return "get"
	case KindPut:
		return "put"
	default:
		return "unknown"
	}
}

// Request describes a single negotiated transfer.
type Request struct {
	// Host is the address of the peer, taken from the control connection.
	Host string
	// Port is the data port the peer announced.
	Port int
	// Name of the file, relative to the transfer directory.
	Name string
	// Size is the exact number of bytes to move.
	Size int64
}

// Addr returns the dialable address of the data connection.
func (req Request) Addr() string {
	return net.JoinHostPort(req.Host, strconv.Itoa(req.Port))
}
