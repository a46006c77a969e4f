package seed

import (
	"errors"
	"fmt"
)

// Process exit statuses reported by the sync command.
const (
	ExitOK              = 0
	ExitMissingToken    = 2
	ExitFileNotFound    = 3
	ExitInvalidJSON     = 4
	ExitUnsupportedFile = 5
	ExitNoHTMLFiles     = 6
	ExitNoDresses       = 7
	ExitDeliveryFailed  = 10
)

var (
	ErrMissingToken    = errors.New("admin token not provided, use --token=TOKEN or set ADMIN_TOKEN")
	ErrFileNotFound    = errors.New("file not found")
	ErrInvalidJSON     = errors.New("invalid JSON file")
	ErrUnsupportedFile = errors.New("unsupported file type, use .json or .html")
	ErrNoHTMLFiles     = errors.New("no HTML files found to parse")
	ErrNoDresses       = errors.New("no dresses parsed from source")
)

// ExitError is a fatal sync failure carrying the process exit status.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func exitf(code int, sentinel error, format string, args ...any) *ExitError {
	if format == "" {
		return &ExitError{Code: code, Err: sentinel}
	}
	return &ExitError{Code: code, Err: fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...)}
}

// ExitCode returns the exit status for err: 0 for nil, the carried code for
// an *ExitError and 1 for anything else.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}
