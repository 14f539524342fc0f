package state

import (
	"os"
	"sync"
	"testing"
	"time"
)

func TestStore_LoadEmpty(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewStore(tmpDir)

	st, err := store.Load()
	if err != nil {
		t.Fatalf("failed to load empty state: %v", err)
	}

	if st == nil {
		t.Fatal("expected non-nil state")
	}

	if st.SignedIn() {
		t.Error("expected empty state to be signed out")
	}
}

func TestStore_SaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewStore(tmpDir)

	st := &State{
		ServerURL:   "http://localhost:8000",
		AccessToken: "token-abc",
		Username:    "alice",
		UserID:      7,
	}

	if err := store.Save(st); err != nil {
		t.Fatalf("failed to save state: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("failed to load state: %v", err)
	}

	if !loaded.SignedIn() {
		t.Fatal("expected loaded state to be signed in")
	}
	if loaded.ServerURL != "http://localhost:8000" {
		t.Errorf("server url mismatch: %q", loaded.ServerURL)
	}
	if loaded.AccessToken != "token-abc" {
		t.Errorf("access token mismatch: %q", loaded.AccessToken)
	}
	if loaded.Username != "alice" {
		t.Errorf("username mismatch: %q", loaded.Username)
	}
	if loaded.UserID != 7 {
		t.Errorf("user id mismatch: %d", loaded.UserID)
	}
}

func TestStore_SaveNoChange(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewStore(tmpDir)

	st := &State{AccessToken: "token-abc"}

	if err := store.Save(st); err != nil {
		t.Fatalf("failed to save initial state: %v", err)
	}

	statePath := store.statePath()
	oldTime := time.Unix(1, 0)
	if err := os.Chtimes(statePath, oldTime, oldTime); err != nil {
		t.Fatalf("failed to set mod time: %v", err)
	}

	if err := store.Save(st); err != nil {
		t.Fatalf("failed to save identical state: %v", err)
	}

	info, err := os.Stat(statePath)
	if err != nil {
		t.Fatalf("failed to stat state file: %v", err)
	}

	if !info.ModTime().Equal(oldTime) {
		t.Errorf("expected mod time to stay %v, got %v", oldTime, info.ModTime())
	}
}

func TestStore_SaveSession(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewStore(tmpDir)

	if err := store.SaveSession("http://localhost:8000", "token-abc", "alice", 7); err != nil {
		t.Fatalf("failed to save session: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("failed to load state: %v", err)
	}

	if loaded.AccessToken != "token-abc" || loaded.Username != "alice" {
		t.Errorf("session did not persist: %+v", loaded)
	}
	if loaded.UpdatedAt.IsZero() {
		t.Error("expected UpdatedAt to be set")
	}
}

func TestStore_Clear(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewStore(tmpDir)

	if err := store.SaveSession("http://localhost:8000", "token-abc", "alice", 7); err != nil {
		t.Fatalf("failed to save session: %v", err)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("failed to clear state: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("failed to load state: %v", err)
	}

	if loaded.SignedIn() {
		t.Error("expected cleared state to be signed out")
	}
	if loaded.Username != "" || loaded.UserID != 0 {
		t.Errorf("expected account info to be cleared, got %+v", loaded)
	}
	if loaded.ServerURL != "http://localhost:8000" {
		t.Errorf("expected server url to survive clear, got %q", loaded.ServerURL)
	}
}

func TestStore_ConcurrentUpdates(t *testing.T) {
	tmpDir := t.TempDir()
	store := NewStore(tmpDir)

	var wg sync.WaitGroup
	numGoroutines := 10
	updatesPerGoroutine := 10

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < updatesPerGoroutine; j++ {
				err := store.Update(func(st *State) error {
					st.AccessToken = "updated"
					return nil
				})
				if err != nil {
					t.Errorf("concurrent update failed: %v", err)
				}
			}
		}()
	}

	wg.Wait()

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("failed to load final state: %v", err)
	}

	if loaded.AccessToken != "updated" {
		t.Error("final state is corrupted")
	}
}
