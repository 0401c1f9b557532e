package booking

import (
	"errors"
	"testing"
	"time"
)

func TestCanCancel(t *testing.T) {
	now := time.Date(2030, 3, 10, 15, 30, 0, 0, time.UTC)
	tests := []struct {
		name string
		date time.Time
		want error
	}{
		{"today", now, ErrCancelTooLate},
		{"later today", now.Add(8 * time.Hour), ErrCancelTooLate},
		{"yesterday", now.AddDate(0, 0, -1), ErrCancelTooLate},
		{"just under a day", now.Add(CancelNotice - time.Second), ErrCancelTooLate},
		{"tomorrow", now.AddDate(0, 0, 1), nil},
		{"next week", now.AddDate(0, 0, 7), nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := CanCancel(tc.date, now); !errors.Is(err, tc.want) {
				t.Fatalf("CanCancel = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestValidateDate(t *testing.T) {
	now := time.Date(2030, 3, 10, 15, 30, 0, 0, time.UTC)
	tests := []struct {
		name string
		date time.Time
		want error
	}{
		{"zero", time.Time{}, ErrDateRequired},
		{"yesterday", now.AddDate(0, 0, -1), ErrDateInPast},
		{"earlier today", time.Date(2030, 3, 10, 0, 0, 0, 0, time.UTC), nil},
		{"tomorrow", now.AddDate(0, 0, 1), nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateDate(tc.date, now)
			if !errors.Is(err, tc.want) {
				t.Fatalf("ValidateDate = %v, want %v", err, tc.want)
			}
			if tc.want != nil && !IsRuleViolation(err) {
				t.Fatal("IsRuleViolation = false")
			}
		})
	}
}
