package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Rebornbugkiller/tick/session"
)

// Token is the server's answer to a successful login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// userRecord is the wire shape of a user account.
type userRecord struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	PhoneNumber string `json:"phone_number"`
}

func (r userRecord) user() session.User {
	return session.User{
		ID:          r.ID,
		Username:    r.Username,
		PhoneNumber: r.PhoneNumber,
	}
}

// LogIn exchanges a username and password for a bearer token. The
// endpoint takes form fields, not JSON. A rejection here is a bad
// credential, not an expired session, so the current session is left
// alone.
func (c *Client) LogIn(ctx context.Context, username, password string) (*Token, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var token Token
	if err := c.postForm(ctx, "/token", form, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// registerPayload is the wire shape for creating an account.
type registerPayload struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phone_number"`
}

// Register creates a new account and returns its record.
func (c *Client) Register(ctx context.Context, username, password, phoneNumber string) (*session.User, error) {
	payload := registerPayload{
		Username:    username,
		Password:    password,
		PhoneNumber: phoneNumber,
	}
	var record userRecord
	if err := c.postJSON(ctx, "/users/", payload, &record); err != nil {
		return nil, err
	}
	user := record.user()
	return &user, nil
}

// Me returns the account behind the current token. It doubles as a
// cheap probe for whether a restored token is still accepted.
func (c *Client) Me(ctx context.Context) (*session.User, error) {
	var record userRecord
	if err := c.do(ctx, http.MethodGet, "/users/me/", nil, &record); err != nil {
		return nil, err
	}
	user := record.user()
	return &user, nil
}
