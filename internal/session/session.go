// Package session implements the admin login gate: a single compiled-in
// credential pair that, when matched, yields a fixed bearer token.
package session

import (
	"crypto/subtle"
	"strings"
)

// Default credentials and the token handed out for them.
const (
	DefaultUsername = "admin"
	DefaultPassword = "admin123"
	DemoToken       = "demo-token-123"
)

// Gate checks credentials and tokens. It holds no per-session state:
// every successful login returns the same token.
type Gate struct {
	username string
	password string
	token    string
}

// NewGate returns a gate for the given credentials. Empty values fall back
// to the defaults.
func NewGate(username, password string) *Gate {
	if username == "" {
		username = DefaultUsername
	}
	if password == "" {
		password = DefaultPassword
	}
	return &Gate{username: username, password: password, token: DemoToken}
}

// Authenticate reports whether the credentials match and, if so, returns the token.
func (g *Gate) Authenticate(username, password string) (string, bool) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(g.username))
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(g.password))
	if userOK&passOK != 1 {
		return "", false
	}
	return g.token, true
}

// Valid reports whether token is the gate's token.
func (g *Gate) Valid(token string) bool {
	return token != "" && subtle.ConstantTimeCompare([]byte(token), []byte(g.token)) == 1
}

// Token returns the token handed out on successful login.
func (g *Gate) Token() string {
	return g.token
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header value. ok is false for a missing header or another scheme.
func BearerToken(header string) (token string, ok bool) {
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(header, "Bearer "), true
}
