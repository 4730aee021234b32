package domain

import "time"

type Amenity struct {
	ID               string `json:"id"`
	CircleID         string `json:"circle_id"`
	Name             string `json:"name"`
	Kind             string `json:"kind"`
	Capacity         int    `json:"capacity"`
	SlotMins         int    `json:"slot_mins"`
	RequiresApproval bool   `json:"requires_approval"`
	CancelWindowMins int    `json:"cancel_window_mins"`
}

type BookingStatus string

const (
	BookingPending  BookingStatus = "PENDING"
	BookingApproved BookingStatus = "APPROVED"
	BookingRejected BookingStatus = "REJECTED"
	BookingCanceled BookingStatus = "CANCELED"
)

func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case BookingPending, BookingApproved, BookingRejected, BookingCanceled:
		return BookingStatus(s), true
	default:
		return "", false
	}
}

// Active reports whether the booking holds its amenity slot for the
// purposes of conflict detection.
func (s BookingStatus) Active() bool {
	return s == BookingPending || s == BookingApproved
}

type Booking struct {
	ID          string        `json:"id"`
	CircleID    string        `json:"circle_id"`
	AmenityID   string        `json:"amenity_id"`
	UserID      string        `json:"user_id"`
	StartAt     time.Time     `json:"start_at"`
	EndAt       time.Time     `json:"end_at"`
	Status      BookingStatus `json:"status"`
	ApprovedBy  string        `json:"approved_by,omitempty"`
	ApprovedAt  *time.Time    `json:"approved_at,omitempty"`
	CheckedInAt *time.Time    `json:"checked_in_at,omitempty"`
	CanceledAt  *time.Time    `json:"canceled_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// Overlaps tests half-open interval intersection against another active
// booking. Touching endpoints do not conflict.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return start.Before(b.EndAt) && end.After(b.StartAt)
}

// ResolveBookingStatus applies the reservation policy: approval-required
// amenities and conflicting requests both land in PENDING for manual
// review; nothing is auto-rejected.
func ResolveBookingStatus(requiresApproval, overlap bool) BookingStatus {
	if requiresApproval || overlap {
		return BookingPending
	}
	return BookingApproved
}

// CanTransition enumerates the legal status moves: PENDING may be
// approved or rejected, and any active booking may be canceled.
func (b *Booking) CanTransition(to BookingStatus) bool {
	switch to {
	case BookingApproved, BookingRejected:
		return b.Status == BookingPending
	case BookingCanceled:
		return b.Status.Active()
	default:
		return false
	}
}

type BookingCreateReq struct {
	CircleID  string    `json:"circle_id"`
	AmenityID string    `json:"amenity_id"`
	UserID    string    `json:"user_id,omitempty"`
	StartAt   time.Time `json:"start_at"`
	EndAt     time.Time `json:"end_at"`
}
