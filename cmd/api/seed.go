package main

import (
	"context"

	"github.com/circlehq/circles-api/internal/domain"
	"github.com/circlehq/circles-api/internal/repo"
	"github.com/circlehq/circles-api/pkg/logger"
)

// seed loads the demo dataset so a fresh instance is immediately usable.
// The memory repositories honor pre-set ids, which keeps the fixtures
// stable across restarts.
func seed(
	ctx context.Context,
	userRepo repo.UserRepo,
	circleRepo repo.CircleRepo,
	membershipRepo repo.MembershipRepo,
	amenityRepo repo.AmenityRepo,
) error {
	users := []domain.User{
		{ID: "u1", Email: "maya@example.com", DisplayName: "Maya"},
		{ID: "u2", Email: "admin@example.com", DisplayName: "Alex (Admin)"},
		{ID: "u3", Email: "staff@hotel.example.com", DisplayName: "Sam (Staff)"},
		{ID: "u4", Email: "staff@office.example.com", DisplayName: "Omar (Staff)"},
	}
	for i := range users {
		if _, err := userRepo.Create(ctx, &users[i]); err != nil {
			return err
		}
	}

	circles := []domain.Circle{
		{ID: "apt-1", Name: "Maple Court Apartments", Type: domain.CircleApartment, Features: []string{"feed", "bookings", "polls"}},
		{ID: "hotel-1", Name: "Harborview Hotel", Type: domain.CircleHotel, Features: []string{"bookings", "incidents"}},
		{ID: "office-1", Name: "Beacon Works", Type: domain.CircleOffice, Features: []string{"feed", "events"}},
	}
	for i := range circles {
		if _, err := circleRepo.Create(ctx, &circles[i]); err != nil {
			return err
		}
	}

	memberships := []domain.Membership{
		{ID: "m1", CircleID: "apt-1", UserID: "u1", Role: domain.RoleResident, Unit: "4B", Verified: true},
		{ID: "m2", CircleID: "apt-1", UserID: "u2", Role: domain.RoleAdmin, Verified: true},
		{ID: "m3", CircleID: "hotel-1", UserID: "u3", Role: domain.RoleStaff, Verified: true},
		{ID: "m4", CircleID: "office-1", UserID: "u4", Role: domain.RoleStaff, Verified: true},
	}
	for i := range memberships {
		if _, err := membershipRepo.Create(ctx, &memberships[i]); err != nil {
			return err
		}
	}

	amenities := []domain.Amenity{
		{ID: "am-1", CircleID: "apt-1", Name: "Gym", Kind: "fitness", Capacity: 10, SlotMins: 60, RequiresApproval: false, CancelWindowMins: 60},
		{ID: "am-2", CircleID: "apt-1", Name: "Rooftop Lounge", Kind: "social", Capacity: 25, SlotMins: 120, RequiresApproval: true, CancelWindowMins: 240},
	}
	for i := range amenities {
		if _, err := amenityRepo.Create(ctx, &amenities[i]); err != nil {
			return err
		}
	}

	logger.Info("Seeded demo data",
		"users", len(users),
		"circles", len(circles),
		"memberships", len(memberships),
		"amenities", len(amenities),
	)
	return nil
}
