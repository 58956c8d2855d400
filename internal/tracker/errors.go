package tracker

import "errors"

var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrDueDateInPast    = errors.New("due date is before today")
	ErrNoReportWriter   = errors.New("report writer not configured")

	errUnchanged = errors.New("unchanged")
)
