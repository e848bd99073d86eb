package core

import (
	"context"
	"errors"
	"sync"
	"testing"

	"ecotrack-backend-go/internal/models"
)

func TestParticipationJoin(t *testing.T) {
	store := newStore()
	c := seedChallenge(store, nil)
	svc := NewParticipationService(store.Participations(), store.Challenges(), &recordingPublisher{})
	ctx := context.Background()

	p, err := svc.Join(ctx, stranger, c.ID)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if p.Status != models.StatusNotStarted || p.Progress != 0 || p.UserID != stranger.Email || !p.JoinDate.Equal(p.UpdatedAt) {
		t.Fatalf("unexpected participation %+v", p)
	}
	if p.ID != ParticipationID(stranger.Email, c.ID) {
		t.Fatalf("participation id is not derived from the pair: %s", p.ID)
	}

	stored, err := store.Challenges().GetByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !stored.HasParticipant(stranger.Email) {
		t.Fatal("joining must add the caller to the challenge participants")
	}

	if _, err := svc.Join(ctx, stranger, c.ID); !errors.Is(err, ErrAlreadyJoined) || !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrAlreadyJoined, got %v", err)
	}
	if _, err := svc.Join(ctx, stranger, "2f1c5b7e-8a77-4a57-9d53-8f1a4f0b8c11"); !errors.Is(err, ErrChallengeNotFound) {
		t.Fatalf("expected ErrChallengeNotFound, got %v", err)
	}
	if _, err := svc.Join(ctx, stranger, "bogus"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestParticipationConcurrentDuplicateJoin(t *testing.T) {
	store := newStore()
	c := seedChallenge(store, nil)
	svc := NewParticipationService(store.Participations(), store.Challenges(), &recordingPublisher{})

	const callers = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok        int
		conflicts int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Join(context.Background(), stranger, c.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrConflict):
				conflicts++
			default:
				t.Errorf("Join: %v", err)
			}
		}()
	}
	wg.Wait()

	if ok != 1 || conflicts != callers-1 {
		t.Fatalf("expected 1 success and %d conflicts, got %d and %d", callers-1, ok, conflicts)
	}
	if n := store.ParticipationCount(); n != 1 {
		t.Fatalf("expected exactly one record, got %d", n)
	}
}

func TestParticipationJoinFailureLeavesNoRecord(t *testing.T) {
	store := newStore()
	c := seedChallenge(store, nil)
	pub := &recordingPublisher{}
	svc := NewParticipationService(store.Participations(), store.Challenges(), pub)
	ctx := context.Background()

	store.ChallengeWriteErr = errors.New("rpc error: code = Unavailable")
	_, err := svc.Join(ctx, stranger, c.ID)
	if err == nil || errors.Is(err, ErrConflict) || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected an internal error, got %v", err)
	}
	if n := store.ParticipationCount(); n != 0 {
		t.Fatalf("a failed join left %d participation records", n)
	}
	if len(pub.types()) != 0 {
		t.Fatal("a failed join must not publish")
	}

	// The retry succeeds and both writes land.
	store.ChallengeWriteErr = nil
	if _, err := svc.Join(ctx, stranger, c.ID); err != nil {
		t.Fatalf("retry after a failed join: %v", err)
	}
	stored, err := store.Challenges().GetByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.ParticipantCount != 1 || store.ParticipationCount() != 1 {
		t.Fatalf("expected one participant and one record, got %v and %d", stored.Participants, store.ParticipationCount())
	}
}

func TestParticipationJoinDeletedChallenge(t *testing.T) {
	store := newStore()
	c := seedChallenge(store, nil)
	svc := NewParticipationService(store.Participations(), store.Challenges(), &recordingPublisher{})
	ctx := context.Background()

	if err := store.Challenges().Delete(ctx, c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Join(ctx, stranger, c.ID); !errors.Is(err, ErrChallengeNotFound) {
		t.Fatalf("expected ErrChallengeNotFound, got %v", err)
	}
	if n := store.ParticipationCount(); n != 0 {
		t.Fatalf("expected no record for a deleted challenge, got %d", n)
	}
}

func TestParticipationUpdateProgress(t *testing.T) {
	store := newStore()
	c := seedChallenge(store, nil)
	svc := NewParticipationService(store.Participations(), store.Challenges(), &recordingPublisher{})
	ctx := context.Background()

	p, err := svc.Join(ctx, owner, c.ID)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}

	cases := []struct {
		name   string
		caller Identity
		id     string
		req    models.UpdateProgressRequest
		want   error
	}{
		{name: "unknown status", caller: owner, id: p.ID, req: models.UpdateProgressRequest{Status: ptr("Done")}, want: ErrInvalidArgument},
		{name: "progress too high", caller: owner, id: p.ID, req: models.UpdateProgressRequest{Progress: ptr(101)}, want: ErrInvalidArgument},
		{name: "negative progress", caller: owner, id: p.ID, req: models.UpdateProgressRequest{Progress: ptr(-1)}, want: ErrInvalidArgument},
		{name: "missing", caller: owner, id: ParticipationID(owner.Email, "other"), req: models.UpdateProgressRequest{Progress: ptr(5)}, want: ErrNotFound},
		{name: "admin is not the participant", caller: admin, id: p.ID, req: models.UpdateProgressRequest{Progress: ptr(5)}, want: ErrForbidden},
		{name: "owner", caller: owner, id: p.ID, req: models.UpdateProgressRequest{Status: ptr(models.StatusInProgress), Progress: ptr(40)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.UpdateProgress(ctx, tc.caller, tc.id, tc.req)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if tc.want == nil && (got.Status != models.StatusInProgress || got.Progress != 40) {
				t.Fatalf("update not applied: %+v", got)
			}
		})
	}
}
