package services

import "errors"

// Navigator receives fire-and-forget route-change requests from the
// controllers. The web layer turns them into client redirect hints.
type Navigator interface {
	NavigateTo(path string)
}

// NopNavigator ignores navigation requests.
type NopNavigator struct{}

func (NopNavigator) NavigateTo(string) {}

// ErrIdentityNotReady is returned when an operation needs a signed-in
// user but the identity gate has not resolved yet. The state behind the
// operation is untouched; the user retries once sign-in completes.
var ErrIdentityNotReady = errors.New("sign-in is still loading, try again")

var (
	ErrNoOpenDialog    = errors.New("no add dialog is open")
	ErrConfirmRequired = errors.New("confirmation is required to clear the schedule")
	ErrUnknownType     = errors.New("unknown action type")
	ErrBadDirection    = errors.New("direction must be prev, next, or today")
	ErrBadDateKey      = errors.New("date must be in YYYY-MM-DD form")
)
