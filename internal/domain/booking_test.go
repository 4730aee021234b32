package domain

import (
	"testing"
	"time"
)

func ts(hour int) time.Time {
	return time.Date(2025, 6, 1, hour, 0, 0, 0, time.UTC)
}

func TestBookingOverlaps(t *testing.T) {
	existing := &Booking{StartAt: ts(10), EndAt: ts(12)}

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{"identical interval", ts(10), ts(12), true},
		{"contained inside", ts(10).Add(30 * time.Minute), ts(11), true},
		{"straddles start", ts(9), ts(11), true},
		{"straddles end", ts(11), ts(13), true},
		{"touching at end is free", ts(12), ts(13), false},
		{"touching at start is free", ts(8), ts(10), false},
		{"fully before", ts(7), ts(8), false},
		{"fully after", ts(13), ts(14), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := existing.Overlaps(tt.start, tt.end); got != tt.want {
				t.Errorf("Overlaps(%v, %v) = %v, want %v", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestResolveBookingStatus(t *testing.T) {
	tests := []struct {
		requiresApproval bool
		overlap          bool
		want             BookingStatus
	}{
		{false, false, BookingApproved},
		{true, false, BookingPending},
		{false, true, BookingPending},
		{true, true, BookingPending},
	}

	for _, tt := range tests {
		if got := ResolveBookingStatus(tt.requiresApproval, tt.overlap); got != tt.want {
			t.Errorf("ResolveBookingStatus(%v, %v) = %v, want %v", tt.requiresApproval, tt.overlap, got, tt.want)
		}
	}
}

func TestBookingCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{"pending to approved", BookingPending, BookingApproved, true},
		{"pending to rejected", BookingPending, BookingRejected, true},
		{"pending to canceled", BookingPending, BookingCanceled, true},
		{"approved to canceled", BookingApproved, BookingCanceled, true},
		{"approved to rejected", BookingApproved, BookingRejected, false},
		{"approved to approved", BookingApproved, BookingApproved, false},
		{"rejected to canceled", BookingRejected, BookingCanceled, false},
		{"canceled to approved", BookingCanceled, BookingApproved, false},
		{"anything to pending", BookingApproved, BookingPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Booking{Status: tt.from}
			if got := b.CanTransition(tt.to); got != tt.want {
				t.Errorf("CanTransition(%v -> %v) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}
