package cmd

const (
	// Success is the same as EXIT_SUCCESS in C
	Success = iota

	// BadArgs passed to cli; not our fault.
	BadArgs

	// ConnectionFailed means the peer could not be reached.
	ConnectionFailed

	// UnknownError is an uncategorized error, probably our fault.
	UnknownError
)
