package core

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"ecotrack-backend-go/internal/models"
)

func TestDashboardEmpty(t *testing.T) {
	store := newStore()
	store.PutTip(models.Tip{ID: uuid.NewString(), Title: "liked", Likes: []string{stranger.Email}})
	svc := NewDashboardService(store.Participations(), store.Challenges(), store.Tips(), store.Events())

	dash, err := svc.Dashboard(context.Background(), stranger.Email)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if dash.Challenges == nil || len(dash.Challenges) != 0 {
		t.Fatalf("expected empty challenges, got %v", dash.Challenges)
	}
	if len(dash.Tips) != 1 {
		t.Fatalf("tips must be computed independently, got %d", len(dash.Tips))
	}

	body, err := json.Marshal(dash)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(body), `"challenges":[]`) || !strings.Contains(string(body), `"events":[]`) {
		t.Fatalf("empty lists must encode as []: %s", body)
	}
}

func TestDashboardJoinsAndDropsOrphans(t *testing.T) {
	store := newStore()
	kept := seedChallenge(store, nil)
	user := stranger.Email
	base := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	store.PutParticipation(models.Participation{ID: ParticipationID(user, kept.ID), UserID: user, ChallengeID: kept.ID, Status: models.StatusInProgress, Progress: 50, JoinDate: base, UpdatedAt: base})
	orphanID := uuid.NewString()
	store.PutParticipation(models.Participation{ID: ParticipationID(user, orphanID), UserID: user, ChallengeID: orphanID, Status: models.StatusNotStarted, JoinDate: base.Add(time.Hour), UpdatedAt: base})
	store.PutParticipation(models.Participation{ID: ParticipationID(owner.Email, kept.ID), UserID: owner.Email, ChallengeID: kept.ID, JoinDate: base})

	store.PutTip(models.Tip{ID: uuid.NewString(), Title: "old", Likes: []string{user}, CreatedAt: base})
	store.PutTip(models.Tip{ID: uuid.NewString(), Title: "new", Likes: []string{user}, CreatedAt: base.Add(time.Hour)})
	store.PutTip(models.Tip{ID: uuid.NewString(), Title: "other", Likes: []string{owner.Email}, CreatedAt: base})
	store.PutEvent(models.Event{ID: uuid.NewString(), Title: "later", Attendees: []string{user}, Date: base.AddDate(0, 0, 10)})
	store.PutEvent(models.Event{ID: uuid.NewString(), Title: "sooner", Attendees: []string{user}, Date: base.AddDate(0, 0, 1)})

	svc := NewDashboardService(store.Participations(), store.Challenges(), store.Tips(), store.Events())
	dash, err := svc.Dashboard(context.Background(), user)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}

	if len(dash.Challenges) != 1 {
		t.Fatalf("expected the orphan to be dropped, got %d entries", len(dash.Challenges))
	}
	entry := dash.Challenges[0]
	if entry.Challenge.ID != kept.ID || entry.Progress != 50 || entry.UserChallengeID != ParticipationID(user, kept.ID) {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if len(dash.Tips) != 2 || dash.Tips[0].Title != "new" {
		t.Fatalf("expected liked tips newest first, got %v", dash.Tips)
	}
	if len(dash.Events) != 2 || dash.Events[0].Title != "sooner" {
		t.Fatalf("expected attended events soonest first, got %v", dash.Events)
	}
}

func TestDashboardPropagatesStoreErrors(t *testing.T) {
	store := newStore()
	store.Err = errors.New("firestore unavailable")
	svc := NewDashboardService(store.Participations(), store.Challenges(), store.Tips(), store.Events())

	if _, err := svc.Dashboard(context.Background(), stranger.Email); err == nil {
		t.Fatal("expected an error")
	}
}

func TestImpactStatsBaselines(t *testing.T) {
	svc := NewDashboardService(newStore().Participations(), newStore().Challenges(), newStore().Tips(), newStore().Events())
	stats, err := svc.ImpactStats(context.Background())
	if err != nil {
		t.Fatalf("ImpactStats: %v", err)
	}
	want := models.ImpactStats{CO2Saved: 40, PlasticReduced: 20, EnergySaved: 30}
	if *stats != want {
		t.Fatalf("expected %+v, got %+v", want, *stats)
	}
}

func TestImpactStatsAggregation(t *testing.T) {
	store := newStore()
	participants := func(n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = uuid.NewString()
		}
		return out
	}
	seedChallenge(store, func(c *models.Challenge) { c.ImpactMetric = "5 kg plastic saved"; c.Participants = participants(4) })
	seedChallenge(store, func(c *models.Challenge) { c.ImpactMetric = "2.5 liters of water"; c.Participants = participants(2) })
	seedChallenge(store, func(c *models.Challenge) { c.ImpactMetric = "10kWh"; c.Participants = participants(3) })
	seedChallenge(store, func(c *models.Challenge) { c.ImpactMetric = "no number here"; c.Participants = participants(9) })
	seedChallenge(store, func(c *models.Challenge) { c.ImpactMetric = "3 trees"; c.Participants = participants(9) })
	seedChallenge(store, func(c *models.Challenge) { c.ImpactMetric = "CO2 saved: 10 kg"; c.Participants = participants(9) })

	svc := NewDashboardService(store.Participations(), store.Challenges(), store.Tips(), store.Events())
	stats, err := svc.ImpactStats(context.Background())
	if err != nil {
		t.Fatalf("ImpactStats: %v", err)
	}
	want := models.ImpactStats{CO2Saved: 40 + 5, PlasticReduced: 20 + 20, EnergySaved: 30 + 30}
	if *stats != want {
		t.Fatalf("expected %+v, got %+v", want, *stats)
	}
}

func TestParseImpactMetric(t *testing.T) {
	cases := []struct {
		metric    string
		magnitude float64
		unit      string
		bucket    impactBucket
		ok        bool
	}{
		{metric: "5 kg plastic saved", magnitude: 5, unit: "kg", bucket: bucketMass, ok: true},
		{metric: "10kWh", magnitude: 10, unit: "kwh", bucket: bucketEnergy, ok: true},
		{metric: "Save 20 L of water", magnitude: 20, unit: "l", bucket: bucketVolume, ok: true},
		{metric: "~1,5 KG", magnitude: 15, unit: "kg", bucket: bucketMass, ok: true},
		// "kcal" contains "l" and is counted as volume.
		{metric: "300 kcal burned", magnitude: 300, unit: "kcal", bucket: bucketVolume, ok: true},
		// Only the first token holding a digit is read, so "CO2" shadows the
		// real quantity and the metric lands in no bucket.
		{metric: "CO2 saved: 10 kg", magnitude: 2, unit: "saved:", bucket: bucketNone, ok: true},
		{metric: "1.2.3 kg", ok: false},
		{metric: "plenty", ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.metric, func(t *testing.T) {
			magnitude, unit, ok := parseImpactMetric(tc.metric)
			if ok != tc.ok {
				t.Fatalf("expected ok=%v, got %v", tc.ok, ok)
			}
			if !ok {
				return
			}
			if magnitude != tc.magnitude || unit != tc.unit {
				t.Fatalf("expected %v %q, got %v %q", tc.magnitude, tc.unit, magnitude, unit)
			}
			if got := classifyUnit(unit); got != tc.bucket {
				t.Fatalf("expected bucket %v, got %v", tc.bucket, got)
			}
		})
	}
}
