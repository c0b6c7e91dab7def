package mutate

import (
	"errors"
	"fmt"
)

var ErrTitleRequired = errors.New("title required")
var ErrDecisionClosed = errors.New("decision is not open")
var ErrNoSyncSession = errors.New("no sync session to update")

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// NoticeError wraps a failed remote write with the transient, generically
// worded message shown to the user after rollback ("Failed to toggle action
// item", ...). Nothing past the mutation boundary re-throws it; callers
// display Notice and move on.
type NoticeError struct {
	Notice string
	Err    error
}

func (e *NoticeError) Error() string {
	if e.Err == nil {
		return e.Notice
	}
	return fmt.Sprintf("%s: %v", e.Notice, e.Err)
}

func (e *NoticeError) Unwrap() error { return e.Err }

// UserNotice extracts the display message from an error returned by the
// coordinator; falls back to a generic network notice.
func UserNotice(err error) string {
	var ne *NoticeError
	if errors.As(err, &ne) {
		return ne.Notice
	}
	if err != nil {
		return "Network error — changes reverted"
	}
	return ""
}
