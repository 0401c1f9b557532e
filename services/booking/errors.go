package booking

import "errors"

var (
	// ErrCancelTooLate rejects a cancellation less than a day before the booked date.
	ErrCancelTooLate = errors.New("you can only cancel at least 1 day before the booking date")
	// ErrDateRequired rejects a booking or reschedule without a date.
	ErrDateRequired = errors.New("please select a booking date")
	// ErrDateInPast rejects dates before today.
	ErrDateInPast = errors.New("booking date cannot be in the past")
)

// IsRuleViolation reports whether err is one of the client-side booking rules, as opposed
// to a failure of the remote API.
func IsRuleViolation(err error) bool {
	return errors.Is(err, ErrCancelTooLate) || errors.Is(err, ErrDateRequired) || errors.Is(err, ErrDateInPast)
}
