package swiftpm

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// ConfigError reports an invalid or unsupported combination of options.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

func configErrorf(format string, args ...interface{}) error {
	return &ConfigError{Message: fmt.Sprintf(format, args...)}
}

// CommandError reports a subprocess that couldn't be started or exited with a non-zero status.
type CommandError struct {
	Args []string
	// Status is the exit status or -1 if the process never ran.
	Status int
	// Stderr holds the captured error output of quiet commands.
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command %s failed", strings.Join(e.Args, " "))
	if e.Status >= 0 {
		msg = fmt.Sprintf("%s with exit status %d", msg, e.Status)
	} else if e.Err != nil {
		msg = fmt.Sprintf("%s: %s", msg, e.Err)
	}

	if e.Stderr != "" {
		msg += "\n" + e.Stderr
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err (or anything it wraps) is a *ConfigError.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return eris.As(err, &cfgErr)
}

// IsCommandError reports whether err (or anything it wraps) is a *CommandError.
func IsCommandError(err error) bool {
	var cmdErr *CommandError
	return eris.As(err, &cmdErr)
}
