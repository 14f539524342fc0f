package api

import (
	"context"
	"testing"
	"time"

	"github.com/Rebornbugkiller/tick/internal/testsupport"
	"github.com/Rebornbugkiller/tick/session"
	"github.com/Rebornbugkiller/tick/todo"
)

// signIn logs a fresh session in against the fake server and returns a
// client bound to it.
func signIn(t *testing.T, server *testsupport.FakeServer) (*Client, *session.Session) {
	t.Helper()
	sess := session.New()
	client := NewClient(server.URL(), sess, 5*time.Second)

	token, err := client.LogIn(context.Background(), "alice", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	sess.Login(token.AccessToken, session.User{Username: "alice"})
	return client, sess
}

func newServer(t *testing.T) *testsupport.FakeServer {
	t.Helper()
	server := testsupport.NewFakeServer()
	server.AddAccount("alice", "password123", "13812345678")
	t.Cleanup(server.Close)
	return server
}

func TestLogInRejectsBadPassword(t *testing.T) {
	server := newServer(t)
	sess := session.New()
	client := NewClient(server.URL(), sess, 5*time.Second)

	if _, err := client.LogIn(context.Background(), "alice", "wrong"); err == nil {
		t.Fatal("expected an error for a bad password")
	}
}

func TestRegisterAndMe(t *testing.T) {
	server := newServer(t)
	sess := session.New()
	client := NewClient(server.URL(), sess, 5*time.Second)

	created, err := client.Register(context.Background(), "bob", "hunter2plus", "13900001111")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if created.Username != "bob" || created.ID == 0 {
		t.Errorf("created = %+v", created)
	}

	token, err := client.LogIn(context.Background(), "bob", "hunter2plus")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	sess.Login(token.AccessToken, session.User{Username: "bob"})

	me, err := client.Me(context.Background())
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if me.Username != "bob" || me.PhoneNumber != "13900001111" {
		t.Errorf("me = %+v", me)
	}
}

func TestTodoRoundTrip(t *testing.T) {
	server := newServer(t)
	client, _ := signIn(t, server)
	ctx := context.Background()

	due := time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)
	created, err := client.Create(ctx, todo.Draft{
		Title:    "pay rent",
		Priority: todo.PriorityHigh,
		Category: "bills",
		DueDate:  &due,
	}, 1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 || created.Title != "pay rent" || created.Order != 1 {
		t.Errorf("created = %+v", created)
	}

	items, err := client.FetchAll(ctx)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(items) != 1 || items[0].ID != created.ID {
		t.Fatalf("items = %+v", items)
	}
	if items[0].DueDate == nil || !items[0].DueDate.Equal(due) {
		t.Errorf("due date did not survive the round trip: %+v", items[0].DueDate)
	}

	created.Completed = true
	updated, err := client.Update(ctx, *created)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Completed {
		t.Error("update lost the completed flag")
	}

	if err := client.DeleteCompleted(ctx); err != nil {
		t.Fatalf("delete completed: %v", err)
	}
	items, err = client.FetchAll(ctx)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected an empty collection, got %+v", items)
	}
}

func TestDelete(t *testing.T) {
	server := newServer(t)
	client, _ := signIn(t, server)
	ctx := context.Background()

	created, err := client.Create(ctx, todo.Draft{Title: "temp", Priority: todo.PriorityLow}, 1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := client.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	items, err := client.FetchAll(ctx)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty collection after delete, got %+v", items)
	}
}

func TestRejectedTokenEndsSession(t *testing.T) {
	server := newServer(t)
	sess := session.New()
	client := NewClient(server.URL(), sess, 5*time.Second)
	sess.Login("forged-token", session.User{Username: "alice"})

	if _, err := client.FetchAll(context.Background()); err == nil {
		t.Fatal("expected an error for a rejected token")
	}
	if _, ok := sess.Token(); ok {
		t.Error("a rejected token must end the session")
	}
}
