package protocol

import (
	"math"
	"regexp"
	"strconv"
)

var (
	getReplyPattern = regexp.MustCompile(`^\s*get\s+port:\s*([0-9]+)\s+size:\s*([0-9]+)`)
	putReplyPattern = regexp.MustCompile(`^\s*put\s+port:\s*([0-9]+)`)
)

// Reply is the parsed answer of the peer to a command.
type Reply interface {
	isReply()
}

// GetReply tells on which port the peer serves a download of `Size` bytes.
type GetReply struct {
	Port int
	Size int64
}

// PutReply tells on which port the peer waits for an upload.
type PutReply struct {
	Port int
}

// OpaqueReply is any reply that carries no transfer parameters,
// usually an error message of the peer.
type OpaqueReply struct {
	Text string
}

func (GetReply) isReply()    {}
func (PutReply) isReply()    {}
func (OpaqueReply) isReply() {}

func parsePort(s string) (int, bool) {
	port, err := strconv.Atoi(s)
	if err != nil || port < 1 || port > math.MaxUint16 {
		return 0, false
	}

	return port, true
}

// ParseReply parses the reply `text` that was received after sending `cmd`.
// Everything that does not match the expected reply is an OpaqueReply.
func ParseReply(cmd Command, text string) Reply {
	switch cmd {
	case CommandGet:
		match := getReplyPattern.FindStringSubmatch(text)
		if match == nil {
			break
		}

		port, ok := parsePort(match[1])
		if !ok {
			break
		}

		size, err := strconv.ParseUint(match[2], 10, 64)
		if err != nil || size > math.MaxInt64 {
			break
		}

		return GetReply{Port: port, Size: int64(size)}
	case CommandPut:
		match := putReplyPattern.FindStringSubmatch(text)
		if match == nil {
			break
		}

		port, ok := parsePort(match[1])
		if !ok {
			break
		}

		return PutReply{Port: port}
	}

	return OpaqueReply{Text: text}
}
