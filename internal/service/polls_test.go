package service

import (
	"context"
	"errors"
	"testing"

	"github.com/circlehq/circles-api/internal/domain"
)

func TestPollLastVoteWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	poll, err := f.polls.Create(ctx, "c1", "u2", "Paint color for the lobby?", []string{"Sage", "Terracotta"}, false)
	if err != nil {
		t.Fatalf("create poll: %v", err)
	}
	sage, terracotta := poll.Options[0].ID, poll.Options[1].ID

	if err := f.polls.Vote(ctx, poll.ID, sage, "u1"); err != nil {
		t.Fatalf("vote: %v", err)
	}
	if err := f.polls.Vote(ctx, poll.ID, terracotta, "u1"); err != nil {
		t.Fatalf("revote: %v", err)
	}
	if err := f.polls.Vote(ctx, poll.ID, sage, "u3"); err != nil {
		t.Fatalf("second voter: %v", err)
	}

	got, err := f.polls.Get(ctx, poll.ID, "u1")
	if err != nil {
		t.Fatalf("get poll: %v", err)
	}
	if got.Summary.Total != 2 {
		t.Errorf("total votes = %d, want 2 (revote replaced)", got.Summary.Total)
	}
	if got.Summary.YouVoted != terracotta {
		t.Errorf("you_voted = %s, want %s", got.Summary.YouVoted, terracotta)
	}

	counts := map[string]int{}
	for _, c := range got.Summary.ByOption {
		counts[c.OptionID] = c.Count
	}
	if counts[sage] != 1 || counts[terracotta] != 1 {
		t.Errorf("counts = %v", counts)
	}
}

func TestPollValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.polls.Create(ctx, "c1", "u2", "One-sided?", []string{"Yes"}, false); !domain.IsValidation(err) {
		t.Errorf("single option: got %v, want validation error", err)
	}
	if _, err := f.polls.Create(ctx, "c1", "stranger", "Q?", []string{"A", "B"}, false); !errors.Is(err, domain.ErrNotMember) {
		t.Errorf("non-member creator: got %v, want ErrNotMember", err)
	}

	poll, _ := f.polls.Create(ctx, "c1", "u2", "Q?", []string{"A", "B"}, false)

	if err := f.polls.Vote(ctx, poll.ID, "not-an-option", "u1"); !domain.IsValidation(err) {
		t.Errorf("foreign option: got %v, want validation error", err)
	}
	if err := f.polls.Vote(ctx, poll.ID, poll.Options[0].ID, "stranger"); !errors.Is(err, domain.ErrNotMember) {
		t.Errorf("non-member voter: got %v, want ErrNotMember", err)
	}
	if err := f.polls.Vote(ctx, "ghost", poll.Options[0].ID, "u1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown poll: got %v, want ErrNotFound", err)
	}
}
