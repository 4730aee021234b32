package service

import (
	"context"
	"errors"
	"testing"

	"github.com/circlehq/circles-api/internal/domain"
	"github.com/circlehq/circles-api/internal/repo"
)

func reportIncident(t *testing.T, f *fixture, reporter string, severity domain.IncidentSeverity) *domain.Incident {
	t.Helper()
	inc, err := f.incidents.Create(context.Background(), &domain.Incident{
		CircleID:    "c1",
		ReporterID:  reporter,
		Type:        "noise",
		Severity:    severity,
		Description: "loud music on the roof",
	})
	if err != nil {
		t.Fatalf("create incident: %v", err)
	}
	return inc
}

func TestIncidentLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inc := reportIncident(t, f, "u1", domain.SeverityMedium)
	if inc.Status != domain.IncidentOpen {
		t.Fatalf("new incident status = %v, want OPEN", inc.Status)
	}

	// Only administrative roles drive the lifecycle.
	if _, err := f.incidents.Advance(ctx, inc.ID, "u1"); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Errorf("reporter advancing: got %v, want ErrPermissionDenied", err)
	}

	step1, err := f.incidents.Advance(ctx, inc.ID, "u2")
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if step1.Status != domain.IncidentInProgress || step1.ResolvedAt != nil {
		t.Errorf("first advance = %+v, want IN_PROGRESS", step1)
	}

	step2, err := f.incidents.Advance(ctx, inc.ID, "u2")
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if step2.Status != domain.IncidentResolved || step2.ResolvedAt == nil {
		t.Errorf("second advance = %+v, want RESOLVED with timestamp", step2)
	}

	// RESOLVED is terminal; advancing again keeps the original timestamp.
	step3, err := f.incidents.Advance(ctx, inc.ID, "u2")
	if err != nil {
		t.Fatalf("advance resolved: %v", err)
	}
	if step3.Status != domain.IncidentResolved || !step3.ResolvedAt.Equal(*step2.ResolvedAt) {
		t.Errorf("terminal advance = %+v", step3)
	}
}

func TestIncidentValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.incidents.Create(ctx, &domain.Incident{
		CircleID: "c1", ReporterID: "u1", Type: "noise", Severity: "SHRUG", Description: "?",
	})
	if !domain.IsValidation(err) {
		t.Errorf("bad severity: got %v, want validation error", err)
	}

	_, err = f.incidents.Create(ctx, &domain.Incident{
		CircleID: "c1", ReporterID: "stranger", Type: "noise", Severity: domain.SeverityLow, Description: "hmm",
	})
	if !errors.Is(err, domain.ErrNotMember) {
		t.Errorf("non-member reporter: got %v, want ErrNotMember", err)
	}
}

func TestIncidentListsAndFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	reportIncident(t, f, "u1", domain.SeverityLow)
	reportIncident(t, f, "u1", domain.SeverityCritical)
	reportIncident(t, f, "u3", domain.SeverityHigh)

	mine, err := f.incidents.ListMine(ctx, "u1")
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("mine = %d incidents, want 2", len(mine))
	}

	// Circle-scoped admin listing is gated.
	if _, err := f.incidents.ListAdmin(ctx, "u1", repo.IncidentFilter{CircleID: "c1"}); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Errorf("resident admin list: got %v, want ErrPermissionDenied", err)
	}

	minSev := domain.SeverityHigh
	high, err := f.incidents.ListAdmin(ctx, "u2", repo.IncidentFilter{CircleID: "c1", MinSeverity: &minSev})
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(high) != 2 {
		t.Errorf("high severity = %d incidents, want 2", len(high))
	}
	for _, i := range high {
		if i.Severity.Rank() < minSev.Rank() {
			t.Errorf("severity filter leaked %v", i.Severity)
		}
	}
}
