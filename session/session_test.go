package session

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"testing"
	"time"
)

// makeJWT builds an unsigned JWT with the given expiry, enough for the
// client-side expiry check which never verifies signatures.
func makeJWT(t *testing.T, exp time.Time) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	payload, err := json.Marshal(map[string]any{"sub": "alice", "exp": exp.Unix()})
	if err != nil {
		t.Fatalf("marshal claims: %v", err)
	}
	claims := base64.RawURLEncoding.EncodeToString(payload)
	return fmt.Sprintf("%s.%s.", header, claims)
}

func TestLoginLogout(t *testing.T) {
	s := New()

	if _, ok := s.Token(); ok {
		t.Error("new session should have no token")
	}
	if _, ok := s.User(); ok {
		t.Error("new session should have no user")
	}

	s.Login("tok", User{ID: 7, Username: "alice"})

	token, ok := s.Token()
	if !ok || token != "tok" {
		t.Errorf("Token() = %q, %v", token, ok)
	}
	user, ok := s.User()
	if !ok || user.Username != "alice" || user.ID != 7 {
		t.Errorf("User() = %+v, %v", user, ok)
	}
	if s.ID() == "" {
		t.Error("a live session has an ID")
	}

	s.Logout()

	if _, ok := s.Token(); ok {
		t.Error("token should be gone after logout")
	}
	if _, ok := s.User(); ok {
		t.Error("user should be gone after logout")
	}
	if s.ID() != "" {
		t.Error("session ID should be cleared on logout")
	}
}

func TestEpochAdvancesOnEveryTransition(t *testing.T) {
	s := New()
	start := s.Epoch()

	s.Login("tok", User{Username: "alice"})
	afterLogin := s.Epoch()
	if afterLogin <= start {
		t.Error("login must advance the epoch")
	}

	s.Logout()
	if s.Epoch() <= afterLogin {
		t.Error("logout must advance the epoch")
	}

	// logging in again starts a distinct session
	s.Login("tok2", User{Username: "alice"})
	if s.Epoch() <= afterLogin+1 {
		t.Error("relogin must advance the epoch again")
	}
}

func TestSubscribersRunOnTransitions(t *testing.T) {
	s := New()
	calls := 0
	s.Subscribe(func() { calls++ })

	s.Login("tok", User{Username: "alice"})
	if calls != 1 {
		t.Errorf("calls after login = %d, want 1", calls)
	}

	s.Logout()
	if calls != 2 {
		t.Errorf("calls after logout = %d, want 2", calls)
	}
}

func TestExpiredTokenIsDropped(t *testing.T) {
	s := New()
	s.Login(makeJWT(t, time.Now().Add(-time.Minute)), User{Username: "alice"})

	if _, ok := s.Token(); ok {
		t.Fatal("expired token must not be handed out")
	}
	if _, ok := s.User(); ok {
		t.Error("expiry behaves like a logout")
	}
}

func TestUnexpiredJWTIsKept(t *testing.T) {
	s := New()
	token := makeJWT(t, time.Now().Add(time.Hour))
	s.Login(token, User{Username: "alice"})

	got, ok := s.Token()
	if !ok || got != token {
		t.Errorf("Token() = %q, %v", got, ok)
	}
}

func TestOpaqueTokenNeverExpiresLocally(t *testing.T) {
	s := New()
	s.Login("not-a-jwt", User{Username: "alice"})

	if _, ok := s.Token(); !ok {
		t.Error("a token without readable claims is kept until the server rejects it")
	}
}

func TestInvalidateEndsTheSession(t *testing.T) {
	s := New()
	s.Login("tok", User{Username: "alice"})
	before := s.Epoch()

	s.Invalidate()

	if _, ok := s.Token(); ok {
		t.Error("invalidate must drop the token")
	}
	if s.Epoch() <= before {
		t.Error("invalidate must advance the epoch")
	}
}

func TestSetUserRequiresLiveSession(t *testing.T) {
	s := New()
	s.SetUser(User{Username: "ghost"})
	if _, ok := s.User(); ok {
		t.Error("SetUser on a logged-out session is a no-op")
	}

	s.Login("tok", User{Username: "alice"})
	s.SetUser(User{ID: 9, Username: "alice", PhoneNumber: "13812345678"})
	user, ok := s.User()
	if !ok || user.ID != 9 || user.PhoneNumber != "13812345678" {
		t.Errorf("User() = %+v, %v", user, ok)
	}
}
