// Package transfer moves whole files over short lived data connections.
//
// The control connection negotiates a port (and for downloads the size); the
// Worker then dials the peer on that port, streams exactly the announced number
// of bytes and closes the connection again. At most one worker per Kind runs at
// any time, which is enforced by the Guard.
package transfer
