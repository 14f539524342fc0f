// Package session holds the authenticated user context for one run of
// the client: the bearer credential, the user identity, and a session
// epoch that increments on every login and logout. Dependents subscribe
// to be told when the session changes so they can discard per-session
// state; gateway results tagged with an old epoch are dropped.
package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Rebornbugkiller/tick/internal/logging"
)

// User identifies the authenticated account.
type User struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// Session is the explicit session context threaded into every component
// that talks to the remote service.
type Session struct {
	mu          sync.Mutex
	id          string
	token       string
	expiresAt   time.Time
	user        *User
	epoch       uint64
	subscribers []func()
}

// New returns an empty, logged-out session.
func New() *Session {
	return &Session{}
}

// Login installs a credential and user identity, starting a new session
// epoch. The token's expiry is read from its claims without verifying
// the signature; verification is the server's job, the client only
// needs to know when to stop sending a dead token.
func (s *Session) Login(token string, user User) {
	s.mu.Lock()
	s.id = uuid.NewString()
	s.token = token
	s.expiresAt = tokenExpiry(token)
	s.user = &user
	s.epoch++
	subscribers := append([]func(){}, s.subscribers...)
	s.mu.Unlock()

	logging.Debug("session started", "user", user.Username, "session_id", s.id)
	notify(subscribers)
}

// Logout discards the credential and identity and starts a new epoch.
// Safe to call when already logged out.
func (s *Session) Logout() {
	s.mu.Lock()
	wasActive := s.token != ""
	s.id = ""
	s.token = ""
	s.expiresAt = time.Time{}
	s.user = nil
	s.epoch++
	subscribers := append([]func(){}, s.subscribers...)
	s.mu.Unlock()

	if wasActive {
		logging.Debug("session ended")
	}
	notify(subscribers)
}

// Invalidate is the logout path used by collaborators that detect a
// dead credential, such as the API client on a 401 response.
func (s *Session) Invalidate() {
	s.Logout()
}

// Token returns the current bearer credential. The second return is
// false when no credential is present or the credential has expired; an
// expired credential is dropped as if the user had logged out.
func (s *Session) Token() (string, bool) {
	s.mu.Lock()
	token := s.token
	expired := token != "" && !s.expiresAt.IsZero() && time.Now().After(s.expiresAt)
	s.mu.Unlock()

	if expired {
		logging.Debug("session token expired")
		s.Logout()
		return "", false
	}
	if token == "" {
		return "", false
	}
	return token, true
}

// User returns the current user identity, if known.
func (s *Session) User() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// SetUser refreshes the identity without changing the epoch, for when
// the identity probe completes after login.
func (s *Session) SetUser(user User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return
	}
	s.user = &user
}

// ID returns the identifier of the current login, or "" when logged out.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Epoch returns the session generation counter. It increments on every
// login and logout; in-flight work captures it and discards results
// whose epoch no longer matches.
func (s *Session) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// Subscribe registers fn to run after every login and logout.
func (s *Session) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func notify(subscribers []func()) {
	for _, fn := range subscribers {
		fn()
	}
}

// tokenExpiry extracts the exp claim from a JWT without verifying it.
// Returns the zero time when the token carries no readable expiry, in
// which case the client treats it as non-expiring and lets the server
// decide.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return time.Time{}
	}
	return expiry.Time
}
