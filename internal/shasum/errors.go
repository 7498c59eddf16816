package shasum

import "errors"

var (
	// ErrUsage indicates a command usage failure.
	ErrUsage = errors.New("usage error")
	// ErrUnknownAlgorithm is returned for names LookupAlgorithm cannot resolve.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
	// ErrMalformedLine is returned when a manifest line matches neither the
	// GNU nor the BSD layout.
	ErrMalformedLine = errors.New("malformed checksum line")
	// ErrChecksumMismatch is returned by Check when any entry fails.
	ErrChecksumMismatch = errors.New("checksum mismatch")
)

// ExitCode maps an error to a process exit code: 0 on success, 2 for usage
// errors and 1 for everything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, ErrUsage) {
		return 2
	}
	return 1
}
