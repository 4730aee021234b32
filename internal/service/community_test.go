package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/circlehq/circles-api/internal/domain"
)

func makeEvent(t *testing.T, f *fixture, createdBy string) *domain.Event {
	t.Helper()
	e, err := f.community.CreateEvent(context.Background(), &domain.Event{
		CircleID:  "c1",
		Title:     "Rooftop movie night",
		StartsAt:  time.Date(2025, 6, 7, 20, 0, 0, 0, time.UTC),
		EndsAt:    time.Date(2025, 6, 7, 23, 0, 0, 0, time.UTC),
		CreatedBy: createdBy,
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	return e
}

func TestEventRSVPUpsert(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	event := makeEvent(t, f, "u2")

	rsvp, created, err := f.community.RSVP(ctx, event.ID, "u1", domain.RSVPGoing)
	if err != nil {
		t.Fatalf("rsvp: %v", err)
	}
	if !created || rsvp.Status != domain.RSVPGoing {
		t.Errorf("first rsvp = %+v created=%v", rsvp, created)
	}

	changed, created, err := f.community.RSVP(ctx, event.ID, "u1", domain.RSVPDeclined)
	if err != nil {
		t.Fatalf("re-rsvp: %v", err)
	}
	if created {
		t.Error("re-rsvp should update in place")
	}
	if changed.ID != rsvp.ID || changed.Status != domain.RSVPDeclined {
		t.Errorf("re-rsvp = %+v", changed)
	}

	if _, _, err := f.community.RSVP(ctx, event.ID, "u1", "MAYBE"); !domain.IsValidation(err) {
		t.Errorf("bad status: got %v, want validation error", err)
	}
	if _, _, err := f.community.RSVP(ctx, event.ID, "stranger", domain.RSVPGoing); !errors.Is(err, domain.ErrNotMember) {
		t.Errorf("non-member rsvp: got %v, want ErrNotMember", err)
	}

	full, err := f.community.GetEvent(ctx, event.ID)
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if full.RSVPCounts[domain.RSVPDeclined] != 1 || full.RSVPCounts[domain.RSVPGoing] != 0 {
		t.Errorf("rsvp counts = %v", full.RSVPCounts)
	}

	mine, _ := f.community.ListMyEvents(ctx, "u1")
	if len(mine) != 1 || mine[0].ID != event.ID {
		t.Errorf("my events = %+v", mine)
	}
}

func TestEventValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.community.CreateEvent(ctx, &domain.Event{
		CircleID:  "c1",
		Title:     "Backwards",
		StartsAt:  time.Date(2025, 6, 7, 23, 0, 0, 0, time.UTC),
		EndsAt:    time.Date(2025, 6, 7, 20, 0, 0, 0, time.UTC),
		CreatedBy: "u1",
	})
	if !domain.IsValidation(err) {
		t.Errorf("inverted interval: got %v, want validation error", err)
	}
}

func TestAnnouncementPinning(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.community.CreateAnnouncement(ctx, &domain.Announcement{
		CircleID: "c1", Title: "Water shutoff", Pinned: true,
	}, "u1"); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Errorf("resident announcing: got %v, want ErrPermissionDenied", err)
	}

	first, err := f.community.CreateAnnouncement(ctx, &domain.Announcement{
		CircleID: "c1", Title: "Water shutoff", Pinned: true,
	}, "u2")
	if err != nil {
		t.Fatalf("announce: %v", err)
	}

	if _, err := f.community.CreateAnnouncement(ctx, &domain.Announcement{
		CircleID: "c1", Title: "Elevator maintenance", Pinned: true,
	}, "u2"); err != nil {
		t.Fatalf("second announce: %v", err)
	}

	list, _ := f.community.ListAnnouncements(ctx, "c1")
	pinned := 0
	for _, a := range list {
		if a.Pinned {
			pinned++
			if a.ID == first.ID {
				t.Error("older announcement should have been unpinned")
			}
		}
	}
	if pinned != 1 {
		t.Errorf("pinned count = %d, want exactly 1", pinned)
	}
}
