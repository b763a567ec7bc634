package transfer

import (
	"context"
	"net"

	e "github.com/pkg/errors"
)

// Dialer opens data connections.
// *net.Dialer implements it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// PeerHost returns the host part of the remote address of `conn`.
// Data connections always go to the same host as the control connection.
func PeerHost(conn net.Conn) (string, error) {
	addr := conn.RemoteAddr()
	if addr == nil {
		return "", e.New("connection has no remote address")
	}

	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return "", e.Wrapf(err, "bad remote address `%s`", addr)
	}

	return host, nil
}
