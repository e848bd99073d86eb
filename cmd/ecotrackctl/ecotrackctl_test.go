package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"ecotrack-backend-go/internal/core"
	"ecotrack-backend-go/internal/db/dbtest"
	"ecotrack-backend-go/internal/models"
)

func run(t *testing.T, store *dbtest.Store, args ...string) (string, error) {
	t.Helper()
	closed := false
	open := func(context.Context) (*backend, error) {
		return &backend{
			users:     core.NewUserService(store.Users()),
			dashboard: core.NewDashboardService(store.Participations(), store.Challenges(), store.Tips(), store.Events()),
			close:     func() error { closed = true; return nil },
		}, nil
	}

	var out bytes.Buffer
	cmd := newRootCmd(open)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err == nil && !closed {
		t.Errorf("%v: backend was not closed", args)
	}
	return out.String(), err
}

func TestRolesMigrate(t *testing.T) {
	store := dbtest.NewStore()
	store.PutUser(models.User{Email: "a@example.com"})
	store.PutUser(models.User{Email: "b@example.com", Role: models.RoleAdmin})
	store.PutUser(models.User{Email: "c@example.com"})

	out, err := run(t, store, "roles", "migrate")
	if err != nil {
		t.Fatalf("roles migrate: %v", err)
	}
	if !strings.Contains(out, "Migrated 2 of 3 users.") {
		t.Fatalf("unexpected output %q", out)
	}

	out, err = run(t, store, "roles", "list")
	if err != nil {
		t.Fatalf("roles list: %v", err)
	}
	want := "a@example.com: user\nb@example.com: admin\nc@example.com: user\n"
	if out != want {
		t.Fatalf("roles list = %q, want %q", out, want)
	}
}

func TestRolesSet(t *testing.T) {
	store := dbtest.NewStore()
	store.PutUser(models.User{Email: "a@example.com", Role: models.RoleUser})

	out, err := run(t, store, "--json", "roles", "set", "a@example.com", "admin")
	if err != nil {
		t.Fatalf("roles set: %v", err)
	}
	var user models.User
	if err := json.Unmarshal([]byte(out), &user); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if user.Role != models.RoleAdmin {
		t.Fatalf("expected admin, got %+v", user)
	}

	if _, err := run(t, store, "roles", "set", "a@example.com", "root"); err == nil {
		t.Fatal("expected an error for an unknown role")
	}
	if _, err := run(t, store, "roles", "set", "ghost@example.com", "user"); err == nil {
		t.Fatal("expected an error for an unknown user")
	}
	if _, err := run(t, store, "roles", "set", "a@example.com"); err == nil {
		t.Fatal("expected an argument count error")
	}
}

func TestStats(t *testing.T) {
	store := dbtest.NewStore()
	store.PutChallenge(models.Challenge{ID: "c1", Title: "Refill", ImpactMetric: "2 L water", Participants: []string{"a", "b", "c"}})

	out, err := run(t, store, "stats")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	for _, line := range []string{"CO2 saved:        46", "Plastic reduced:  20", "Energy saved:     30"} {
		if !strings.Contains(out, line) {
			t.Errorf("missing %q in %q", line, out)
		}
	}
}
