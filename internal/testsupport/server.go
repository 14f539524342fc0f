package testsupport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Rebornbugkiller/tick/todo"
)

// FakeServer is an in-memory stand-in for the todo service, good enough
// for CLI and client tests. It speaks the same wire format: form login
// at /token, JSON everywhere else, errors as {"detail": "..."}.
type FakeServer struct {
	Server *httptest.Server

	mu       sync.Mutex
	accounts map[string]account
	tokens   map[string]string
	todos    map[string][]todo.Todo
	nextUser int64
	nextTodo int64
}

type account struct {
	id          int64
	password    string
	phoneNumber string
}

// NewFakeServer starts a fake todo server. The caller owns shutdown via
// Close.
func NewFakeServer() *FakeServer {
	fs := &FakeServer{
		accounts: map[string]account{},
		tokens:   map[string]string{},
		todos:    map[string][]todo.Todo{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/token", fs.handleToken)
	mux.HandleFunc("/users/", fs.handleUsers)
	mux.HandleFunc("/users/me/", fs.handleMe)
	mux.HandleFunc("/todos/", fs.handleTodos)
	mux.HandleFunc("/todos/completed", fs.handleDeleteCompleted)

	fs.Server = httptest.NewServer(mux)
	return fs
}

// URL returns the server's base URL.
func (fs *FakeServer) URL() string {
	return fs.Server.URL
}

// Close shuts the server down.
func (fs *FakeServer) Close() {
	fs.Server.Close()
}

// AddAccount registers a user without going through the HTTP surface.
func (fs *FakeServer) AddAccount(username, password, phoneNumber string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.nextUser++
	fs.accounts[username] = account{id: fs.nextUser, password: password, phoneNumber: phoneNumber}
}

// Todos returns a copy of a user's collection sorted by order.
func (fs *FakeServer) Todos(username string) []todo.Todo {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	items := append([]todo.Todo(nil), fs.todos[username]...)
	sort.SliceStable(items, func(i, j int) bool { return items[i].Order < items[j].Order })
	return items
}

func (fs *FakeServer) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusBadRequest, "bad form")
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	fs.mu.Lock()
	defer fs.mu.Unlock()
	acct, ok := fs.accounts[username]
	if !ok || acct.password != password {
		writeDetail(w, http.StatusUnauthorized, "Incorrect username or password")
		return
	}
	token := fmt.Sprintf("token-%s-%d", username, time.Now().UnixNano())
	fs.tokens[token] = username
	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

func (fs *FakeServer) handleUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var payload struct {
		Username    string `json:"username"`
		Password    string `json:"password"`
		PhoneNumber string `json:"phone_number"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeDetail(w, http.StatusBadRequest, "bad json")
		return
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	if _, exists := fs.accounts[payload.Username]; exists {
		writeDetail(w, http.StatusBadRequest, "Username already registered")
		return
	}
	fs.nextUser++
	fs.accounts[payload.Username] = account{
		id:          fs.nextUser,
		password:    payload.Password,
		phoneNumber: payload.PhoneNumber,
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":           fs.nextUser,
		"username":     payload.Username,
		"phone_number": payload.PhoneNumber,
	})
}

func (fs *FakeServer) handleMe(w http.ResponseWriter, r *http.Request) {
	username, ok := fs.authenticate(r)
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}
	fs.mu.Lock()
	acct := fs.accounts[username]
	fs.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"id":           acct.id,
		"username":     username,
		"phone_number": acct.phoneNumber,
	})
}

func (fs *FakeServer) handleTodos(w http.ResponseWriter, r *http.Request) {
	username, ok := fs.authenticate(r)
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/todos/")
	if rest != "" {
		fs.handleTodoByID(w, r, username, rest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, fs.Todos(username))
	case http.MethodPost:
		var item todo.Todo
		if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
			writeDetail(w, http.StatusBadRequest, "bad json")
			return
		}
		fs.mu.Lock()
		fs.nextTodo++
		item.ID = fs.nextTodo
		item.CreatedAt = time.Now().UTC()
		fs.todos[username] = append(fs.todos[username], item)
		fs.mu.Unlock()
		writeJSON(w, http.StatusOK, item)
	default:
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (fs *FakeServer) handleTodoByID(w http.ResponseWriter, r *http.Request, username, rest string) {
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Todo not found")
		return
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	items := fs.todos[username]
	idx := -1
	for i := range items {
		if items[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		writeDetail(w, http.StatusNotFound, "Todo not found")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var item todo.Todo
		if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
			writeDetail(w, http.StatusBadRequest, "bad json")
			return
		}
		item.ID = id
		item.CreatedAt = items[idx].CreatedAt
		items[idx] = item
		writeJSON(w, http.StatusOK, item)
	case http.MethodDelete:
		fs.todos[username] = append(items[:idx], items[idx+1:]...)
		writeJSON(w, http.StatusOK, map[string]string{"detail": "deleted"})
	default:
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (fs *FakeServer) handleDeleteCompleted(w http.ResponseWriter, r *http.Request) {
	username, ok := fs.authenticate(r)
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}
	if r.Method != http.MethodDelete {
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	kept := fs.todos[username][:0]
	for _, item := range fs.todos[username] {
		if !item.Completed {
			kept = append(kept, item)
		}
	}
	fs.todos[username] = kept
	writeJSON(w, http.StatusOK, map[string]string{"detail": "cleared"})
}

func (fs *FakeServer) authenticate(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "", false
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	username, ok := fs.tokens[token]
	return username, ok
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
