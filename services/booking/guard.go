package booking

import "time"

// CancelNotice is the minimum lead time for a cancellation.
const CancelNotice = 24 * time.Hour

// CanCancel allows cancelling only while the booked date is at least a full day after
// now. The remote API may still refuse; this check only avoids a doomed request.
func CanCancel(date, now time.Time) error {
	if date.Sub(now) < CancelNotice {
		return ErrCancelTooLate
	}
	return nil
}

// ValidateDate is applied when creating or rescheduling: a date is required and may not
// fall before the start of today in now's location.
func ValidateDate(date, now time.Time) error {
	if date.IsZero() {
		return ErrDateRequired
	}
	y, m, d := now.Date()
	startOfToday := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	if date.Before(startOfToday) {
		return ErrDateInPast
	}
	return nil
}
