package protocol

// Command identifies what kind of request a line of user input is.
type Command int

const (
	// CommandRaw is any line that is not a known command.
	// It is forwarded to the peer verbatim.
	CommandRaw = Command(iota)
	// CommandGet downloads a file from the peer.
	CommandGet
	// CommandPut uploads a file to the peer.
	CommandPut
	// CommandExit ends the session.
	CommandExit
)

// Keyword is the text that triggers a command.
type Keyword struct {
	Word string
	ID   Command
}

// Keywords is the ordered list of known commands.
// When classifying a line, the first match wins.
var Keywords = []Keyword{
	{"get", CommandGet},
	{"put", CommandPut},
	{"exit", CommandExit},
}

func (c Command) String() string {
	switch c {
	case CommandGet:
		return "get"
	case CommandPut:
		return "put"
	case CommandExit:
		return "exit"
	default:
		return "raw"
	}
}
