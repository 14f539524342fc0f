// Package state persists the signed-in session between command
// invocations.
//
// The state file (~/.local/state/tick/state.json) holds the bearer
// token from the last login plus enough account info to greet the user
// without a network round trip. All access is serialized through file
// locking to allow safe concurrent access from multiple processes.
package state

import "time"

// State represents the persisted state file.
type State struct {
	// ServerURL is the server the token was issued by. A restored token
	// is only used against the same server.
	ServerURL string `json:"server_url,omitempty"`

	// AccessToken is the bearer token from the last login. Empty means
	// signed out.
	AccessToken string `json:"access_token,omitempty"`

	// Username and UserID identify the signed-in account.
	Username string `json:"username,omitempty"`
	UserID   int64  `json:"user_id,omitempty"`

	// UpdatedAt records when the state last changed.
	UpdatedAt time.Time `json:"updated_at"`
}

// SignedIn reports whether the state carries a credential.
func (st *State) SignedIn() bool {
	return st.AccessToken != ""
}
