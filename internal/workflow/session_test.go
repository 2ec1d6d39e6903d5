package workflow

import (
	"errors"
	"testing"
	"time"

	"github.com/rahul4469/coverage-advisor/internal/models"
)

func newTestStore(t *testing.T, duration time.Duration) (*SessionStore, *time.Time) {
	t.Helper()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ss := NewSessionStore(duration, func() *Machine {
		return newTestMachine(t, &stubAnalyzer{}, &stubReporter{})
	})
	ss.now = func() time.Time { return now }
	return ss, &now
}

func TestSessionStore_CreateAndLookup(t *testing.T) {
	ss, _ := newTestStore(t, time.Hour)

	created, err := ss.Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Token == "" || created.Machine == nil {
		t.Fatalf("incomplete session %+v", created)
	}
	if created.TokenHash == created.Token {
		t.Fatal("token must not be stored in clear")
	}

	found, err := ss.Lookup(created.Token)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if found.Machine != created.Machine {
		t.Fatal("lookup returned a different machine")
	}
	if found.Token != "" {
		t.Fatal("lookup should not carry the raw token")
	}
}

func TestSessionStore_DistinctMachines(t *testing.T) {
	ss, _ := newTestStore(t, time.Hour)

	a, err := ss.Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	b, err := ss.Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.Token == b.Token || a.Machine == b.Machine {
		t.Fatal("sessions must not share tokens or machines")
	}
	if ss.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", ss.Len())
	}
}

func TestSessionStore_UnknownToken(t *testing.T) {
	ss, _ := newTestStore(t, time.Hour)
	if _, err := ss.Lookup("nope"); !errors.Is(err, models.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionStore_Expiry(t *testing.T) {
	ss, now := newTestStore(t, time.Hour)

	s, err := ss.Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// A lookup slides the expiry forward.
	*now = now.Add(50 * time.Minute)
	if _, err := ss.Lookup(s.Token); err != nil {
		t.Fatalf("lookup within lifetime: %v", err)
	}
	*now = now.Add(50 * time.Minute)
	if _, err := ss.Lookup(s.Token); err != nil {
		t.Fatalf("lookup after extension: %v", err)
	}

	*now = now.Add(2 * time.Hour)
	if _, err := ss.Lookup(s.Token); !errors.Is(err, models.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if _, err := ss.Lookup(s.Token); !errors.Is(err, models.ErrSessionNotFound) {
		t.Fatalf("expired session should be removed, got %v", err)
	}
}

func TestSessionStore_CreateSweepsExpired(t *testing.T) {
	ss, now := newTestStore(t, time.Hour)
	if _, err := ss.Create(); err != nil {
		t.Fatalf("create: %v", err)
	}

	*now = now.Add(3 * time.Hour)
	if _, err := ss.Create(); err != nil {
		t.Fatalf("create: %v", err)
	}
	if ss.Len() != 1 {
		t.Fatalf("expected expired session swept, have %d", ss.Len())
	}
}

func TestNewSessionStore_DefaultDuration(t *testing.T) {
	ss := NewSessionStore(0, nil)
	if ss.SessionDuration != DefaultSessionDuration {
		t.Fatalf("got %v", ss.SessionDuration)
	}
}
