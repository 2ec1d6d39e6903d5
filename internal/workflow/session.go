package workflow

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"github.com/rahul4469/coverage-advisor/internal/models"
)

const (
	// MinBytesPerToken is the minimum number of bytes for a session token
	MinBytesPerToken = 32
	// DefaultSessionDuration is how long an idle session lives
	DefaultSessionDuration = 24 * time.Hour
)

// Session ties a browser to its interaction state machine.
type Session struct {
	// Token is only set when the session is created. Lookups leave it
	// empty; the store keeps only the hash.
	Token     string
	TokenHash string
	CreatedAt time.Time
	ExpiresAt time.Time
	Machine   *Machine
}

// SessionStore keeps advisor sessions in memory. Nothing is persisted;
// a restart starts every browser afresh.
type SessionStore struct {
	BytesPerToken   int
	SessionDuration time.Duration

	newMachine func() *Machine
	now        func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessionStore creates a store that builds a fresh machine per session.
func NewSessionStore(duration time.Duration, newMachine func() *Machine) *SessionStore {
	if duration <= 0 {
		duration = DefaultSessionDuration
	}
	return &SessionStore{
		BytesPerToken:   MinBytesPerToken,
		SessionDuration: duration,
		newMachine:      newMachine,
		now:             time.Now,
		sessions:        make(map[string]*Session),
	}
}

// Create starts a new session and returns it with its raw token.
func (ss *SessionStore) Create() (*Session, error) {
	bytesPerToken := ss.BytesPerToken
	if bytesPerToken < MinBytesPerToken {
		bytesPerToken = MinBytesPerToken
	}
	token, err := ss.generateToken(bytesPerToken)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	now := ss.now()
	session := &Session{
		TokenHash: ss.hash(token),
		CreatedAt: now,
		ExpiresAt: now.Add(ss.SessionDuration),
		Machine:   ss.newMachine(),
	}

	ss.mu.Lock()
	ss.sweepLocked(now)
	ss.sessions[session.TokenHash] = session
	ss.mu.Unlock()

	out := *session
	out.Token = token
	return &out, nil
}

// Lookup finds the session for token and extends its expiry.
func (ss *SessionStore) Lookup(token string) (*Session, error) {
	tokenHash := ss.hash(token)
	now := ss.now()

	ss.mu.Lock()
	defer ss.mu.Unlock()
	session, ok := ss.sessions[tokenHash]
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	if !now.Before(session.ExpiresAt) {
		delete(ss.sessions, tokenHash)
		return nil, models.ErrSessionExpired
	}
	session.ExpiresAt = now.Add(ss.SessionDuration)

	out := *session
	return &out, nil
}

// Len returns the number of live sessions.
func (ss *SessionStore) Len() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.sessions)
}

func (ss *SessionStore) sweepLocked(now time.Time) {
	for h, s := range ss.sessions {
		if !now.Before(s.ExpiresAt) {
			delete(ss.sessions, h)
		}
	}
}

func (ss *SessionStore) generateToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func (ss *SessionStore) hash(token string) string {
	hash := sha256.Sum256([]byte(token))
	return base64.URLEncoding.EncodeToString(hash[:])
}
