package dirstat

import (
	"fmt"

	"emperror.dev/errors"
)

// ErrPartial is returned when some paths could not be fully read.
// Output was still produced for everything that could.
const ErrPartial = errors.Sentinel("some paths could not be fully read")

// OpenDirError reports a directory whose entries could not be read.
type OpenDirError struct {
	Path string
	Err  error
}

func (e *OpenDirError) Error() string {
	return fmt.Sprintf("cannot read directory %q: %v", e.Path, e.Err)
}

func (e *OpenDirError) Unwrap() error {
	return e.Err
}

// PatternError reports an exclusion pattern that does not compile.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("compiling exclusion pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// Diagnostics returns the individual errors accumulated in err.
func Diagnostics(err error) []error {
	if err == nil {
		return nil
	}

	return errors.GetErrors(err)
}
