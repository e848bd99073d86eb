package db

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"ecotrack-backend-go/internal/models"
)

// newEmulatorClient connects to the local Firestore emulator, skipping the
// test when none is configured.
func newEmulatorClient(t *testing.T) *firestore.Client {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	client, err := firestore.NewClient(context.Background(), "ecotrack-test")
	if err != nil {
		t.Fatalf("firestore.NewClient: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestChallengeRepositoryEmulator(t *testing.T) {
	client := newEmulatorClient(t)
	repo := NewFirestoreChallengeRepository(client)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	c := &models.Challenge{
		ID:           uuid.NewString(),
		Title:        "Plastic-free week",
		Category:     "waste-" + uuid.NewString(),
		ImpactMetric: "5 kg plastic saved",
		StartDate:    now.Add(-time.Hour),
		EndDate:      now.Add(24 * time.Hour),
		CreatedBy:    "owner@example.com",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := repo.Create(ctx, c); err != nil {
		t.Fatalf("Create: %v", err)
	}

	for i := 0; i < 2; i++ {
		got, err := repo.AddParticipant(ctx, c.ID, "a@example.com", now)
		if err != nil {
			t.Fatalf("AddParticipant: %v", err)
		}
		if got.ParticipantCount != 1 {
			t.Fatalf("expected one participant, got %v", got.Participants)
		}
	}

	list, err := repo.List(ctx, models.ChallengeQuery{Categories: []string{c.Category}})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].ID != c.ID {
		t.Fatalf("unexpected list %v", list)
	}

	got, err := repo.GetByIDs(ctx, []string{c.ID, uuid.NewString()})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected missing ids to be skipped, got %d", len(got))
	}

	if err := repo.Delete(ctx, c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	if _, err := repo.GetByID(ctx, c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestParticipationRepositoryRejectsDuplicatesEmulator(t *testing.T) {
	client := newEmulatorClient(t)
	repo := NewFirestoreParticipationRepository(client)
	challenges := NewFirestoreChallengeRepository(client)
	ctx := context.Background()
	id := uuid.NewString()

	now := time.Now().UTC().Truncate(time.Millisecond)
	c := &models.Challenge{ID: uuid.NewString(), Title: "t", Category: "c", StartDate: now, EndDate: now, CreatedAt: now, UpdatedAt: now}
	if err := challenges.Create(ctx, c); err != nil {
		t.Fatalf("Create challenge: %v", err)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.CreateAndJoin(ctx, &models.Participation{
				ID: id, UserID: "a@example.com", ChallengeID: c.ID, Status: models.StatusNotStarted,
				JoinDate: time.Now(), UpdatedAt: time.Now(),
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, ErrAlreadyExists):
				conflicts++
			default:
				t.Errorf("CreateAndJoin: %v", err)
			}
		}()
	}
	wg.Wait()
	if created != 1 || conflicts != 7 {
		t.Fatalf("expected 1 create and 7 conflicts, got %d and %d", created, conflicts)
	}
	got, err := challenges.GetByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ParticipantCount != 1 {
		t.Fatalf("expected one participant, got %v", got.Participants)
	}

	// A missing challenge aborts the transaction before anything is written.
	orphan := &models.Participation{ID: uuid.NewString(), UserID: "b@example.com", ChallengeID: uuid.NewString(), JoinDate: now, UpdatedAt: now}
	if err := repo.CreateAndJoin(ctx, orphan); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.GetByID(ctx, orphan.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected no record for a missing challenge, got %v", err)
	}
}

func TestEventRepositoryCapacityEmulator(t *testing.T) {
	client := newEmulatorClient(t)
	repo := NewFirestoreEventRepository(client)
	ctx := context.Background()
	now := time.Now().UTC()

	e := &models.Event{ID: uuid.NewString(), Title: "Beach cleanup", Date: now.Add(48 * time.Hour), MaxParticipants: 1, CreatedBy: "o@example.com", CreatedAt: now, UpdatedAt: now}
	if err := repo.Create(ctx, e); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := repo.AddAttendee(ctx, e.ID, "a@example.com", now); err != nil {
		t.Fatalf("AddAttendee: %v", err)
	}
	if _, err := repo.AddAttendee(ctx, e.ID, "a@example.com", now); err != nil {
		t.Fatalf("repeat AddAttendee should be idempotent: %v", err)
	}
	if _, err := repo.AddAttendee(ctx, e.ID, "b@example.com", now); !errors.Is(err, ErrCapacityReached) {
		t.Fatalf("expected ErrCapacityReached, got %v", err)
	}
}

func TestUserRepositoryUpsertEmulator(t *testing.T) {
	client := newEmulatorClient(t)
	repo := NewFirestoreUserRepository(client)
	ctx := context.Background()
	email := uuid.NewString() + "@example.com"

	u, created, err := repo.Upsert(ctx, models.SyncProfile{Email: email, DisplayName: "A"}, time.Now())
	if err != nil || !created || u.Role != models.RoleUser {
		t.Fatalf("first Upsert: user=%+v created=%v err=%v", u, created, err)
	}
	u.Role = models.RoleAdmin
	if err := repo.Update(ctx, u); err != nil {
		t.Fatalf("Update: %v", err)
	}
	u, created, err = repo.Upsert(ctx, models.SyncProfile{Email: email, DisplayName: "B"}, time.Now())
	if err != nil || created {
		t.Fatalf("second Upsert: created=%v err=%v", created, err)
	}
	if u.Role != models.RoleAdmin || u.DisplayName != "B" {
		t.Fatalf("sync must refresh profile and keep role, got %+v", u)
	}
}
