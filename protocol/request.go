package protocol

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

var (
	getPattern = regexp.MustCompile(`^get\s+([A-Za-z0-9_.-]+)(?:\s|$)`)
	putPattern = regexp.MustCompile(`^put\s+([A-Za-z0-9_.-]+)\s+([0-9]+)(?:\s|$)`)
)

// ErrBadRequest is returned when a command has malformed arguments.
type ErrBadRequest struct {
	Line  string
	Usage string
}

func (e ErrBadRequest) Error() string {
	return fmt.Sprintf("malformed command `%s` (usage: %s)", e.Line, e.Usage)
}

// IsBadRequest returns true if `err` is a ErrBadRequest error.
func IsBadRequest(err error) bool {
	_, ok := err.(ErrBadRequest)
	return ok
}

// Request is a parsed line of user input.
type Request interface {
	Command() Command
}

// GetRequest asks the peer to serve `Name`.
type GetRequest struct {
	Name string
}

// PutRequest announces an upload of `Size` bytes under `Name`.
type PutRequest struct {
	Name string
	Size int64
}

// ExitRequest ends the session.
type ExitRequest struct{}

// RawRequest is forwarded to the peer as is.
type RawRequest struct {
	Line string
}

func (GetRequest) Command() Command  { return CommandGet }
func (PutRequest) Command() Command  { return CommandPut }
func (ExitRequest) Command() Command { return CommandExit }
func (RawRequest) Command() Command  { return CommandRaw }

// validName rejects names that would point outside the transfer directory
// or that do not fit into a single frame.
func validName(name string) bool {
	if len(name) > MaxNameLen {
		return false
	}

	return name != "." && name != ".."
}

// ParseRequest converts `line` into the request variant for `cmd`.
// `cmd` is usually the result of classifying the line.
func ParseRequest(cmd Command, line string) (Request, error) {
	switch cmd {
	case CommandGet:
		match := getPattern.FindStringSubmatch(line)
		if match == nil || !validName(match[1]) {
			return nil, ErrBadRequest{line, "get <name>"}
		}

		return GetRequest{Name: match[1]}, nil
	case CommandPut:
		match := putPattern.FindStringSubmatch(line)
		if match == nil || !validName(match[1]) {
			return nil, ErrBadRequest{line, "put <name> <size>"}
		}

		size, err := strconv.ParseUint(match[2], 10, 64)
		if err != nil || size > math.MaxInt64 {
			return nil, ErrBadRequest{line, "put <name> <size>"}
		}

		return PutRequest{Name: match[1], Size: int64(size)}, nil
	case CommandExit:
		return ExitRequest{}, nil
	default:
		return RawRequest{Line: line}, nil
	}
}
