package dataset

import (
	"errors"
	"fmt"
)

// ErrDataUnavailable is matched by every load failure: missing file,
// unreadable content or a header without the survey columns.
var ErrDataUnavailable = errors.New("data unavailable")

// UnavailableError describes why the survey file could not be loaded.
type UnavailableError struct {
	Path   string
	Reason string
	Err    error
}

func (e *UnavailableError) Error() string {
	if e == nil {
		return ErrDataUnavailable.Error()
	}
	msg := fmt.Sprintf("%s: %s", ErrDataUnavailable, e.Reason)
	if e.Path != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrDataUnavailable) match any UnavailableError.
func (e *UnavailableError) Is(target error) bool { return target == ErrDataUnavailable }

func unavailable(path, reason string, err error) error {
	return &UnavailableError{Path: path, Reason: reason, Err: err}
}
