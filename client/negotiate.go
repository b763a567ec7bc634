package client

import (
	"context"
	"fmt"

	e "github.com/pkg/errors"
	"github.com/sahib/grass/protocol"
	"github.com/sahib/grass/transfer"
	log "github.com/sirupsen/logrus"
)

// readReply reads a single reply of the peer.
// Replies are expected to arrive in one piece.
func (cl *Client) readReply() (string, error) {
	buf := make([]byte, protocol.FrameSize)
	n, err := cl.conn.Read(buf)
	if n <= 0 {
		return "", disconnected(err)
	}

	return protocol.DecodeText(buf[:n]), nil
}

// negotiate handles get and put: the line is sent, the peer answers with
// the data port and the transfer is handed to the guard.
func (cl *Client) negotiate(ctx context.Context, cmd protocol.Command, line string) error {
	if err := protocol.WriteFrame(cl.conn, line); err != nil {
		return e.Wrap(err, "send")
	}

	text, err := cl.readReply()
	if err != nil {
		return err
	}

	reply := protocol.ParseReply(cmd, text)
	if opaque, ok := reply.(protocol.OpaqueReply); ok {
		// Usually an error message of the peer.
		fmt.Fprintln(cl.out, opaque.Text)
	}

	request, err := protocol.ParseRequest(cmd, line)
	if err != nil {
		fmt.Fprintln(cl.out, err)
		return nil
	}

	host, err := transfer.PeerHost(cl.conn)
	if err != nil {
		return err
	}

	var kind transfer.Kind
	var req transfer.Request

	switch r := reply.(type) {
	case protocol.GetReply:
		kind = transfer.KindGet
		req = transfer.Request{
			Host: host,
			Port: r.Port,
			Name: request.(protocol.GetRequest).Name,
			Size: r.Size,
		}
	case protocol.PutReply:
		put := request.(protocol.PutRequest)
		kind = transfer.KindPut
		req = transfer.Request{
			Host: host,
			Port: r.Port,
			Name: put.Name,
			Size: put.Size,
		}
	default:
		return nil
	}

	log.WithFields(log.Fields{
		"kind": kind,
		"name": req.Name,
		"port": req.Port,
	}).Debugf("launching transfer of %d bytes", req.Size)

	cl.guard.Launch(kind, func() error {
		return cl.worker.Run(ctx, kind, req)
	})

	return nil
}
