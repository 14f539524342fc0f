package main

import (
	"fmt"
	"time"

	"github.com/Rebornbugkiller/tick/api"
	"github.com/Rebornbugkiller/tick/internal/config"
	"github.com/Rebornbugkiller/tick/internal/logging"
	"github.com/Rebornbugkiller/tick/internal/paths"
	"github.com/Rebornbugkiller/tick/internal/state"
	"github.com/Rebornbugkiller/tick/session"
	"github.com/Rebornbugkiller/tick/todo"
)

// app bundles the wiring every command needs: configuration, the
// persisted state file, the in-memory session, the API client, and the
// todo store built on top of them.
type app struct {
	cfg        *config.Config
	serverURL  string
	stateStore *state.Store
	sess       *session.Session
	client     *api.Client
	store      *todo.Store
}

// newApp loads configuration and persisted state, restores the saved
// session when it matches the configured server, and wires up the API
// client and todo store.
func newApp(prompter todo.Prompter) (*app, error) {
	cwd, err := paths.WorkingDir()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return nil, err
	}

	serverURL := cfg.Server.URL
	if rootServer != "" {
		serverURL = rootServer
	}

	stateDir, err := paths.DefaultStateDir()
	if err != nil {
		return nil, err
	}
	stateStore := state.NewStore(stateDir)

	st, err := stateStore.Load()
	if err != nil {
		return nil, err
	}

	sess := session.New()
	if st.SignedIn() && st.ServerURL == serverURL {
		sess.Login(st.AccessToken, session.User{ID: st.UserID, Username: st.Username})
		logging.Debug("restored session", "server", serverURL, "username", st.Username)
	}

	timeout := time.Duration(cfg.Server.TimeoutSeconds) * time.Second
	client := api.NewClient(serverURL, sess, timeout)
	store := todo.NewStore(client, sess, todo.Options{Prompter: prompter})

	return &app{
		cfg:        cfg,
		serverURL:  serverURL,
		stateStore: stateStore,
		sess:       sess,
		client:     client,
		store:      store,
	}, nil
}

// requireSession returns an error when no one is signed in.
func (a *app) requireSession() error {
	if _, ok := a.sess.Token(); !ok {
		return fmt.Errorf("%w: run 'tick login' first", todo.ErrNoSession)
	}
	return nil
}

// forgetSession drops the persisted credential. Used after a logout and
// after the server rejects the saved token.
func (a *app) forgetSession() error {
	a.sess.Logout()
	return a.stateStore.Clear()
}
