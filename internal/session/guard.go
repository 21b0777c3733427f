// Package session implements the shared-secret session guard.
package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/starford/mannaz/internal/digest"
)

// Guard gates board access behind one shared login secret. A successful
// login issues an opaque token marking that browser session authenticated;
// there is no per-user identity. Tokens stay valid until logout or process
// restart.
type Guard struct {
	secretDigest string

	mu     sync.Mutex
	active map[string]struct{}
}

// NewGuard creates a Guard for the given shared secret. Only the digest of
// the secret is retained.
func NewGuard(secret string) *Guard {
	return &Guard{
		secretDigest: digest.Sum(secret),
		active:       make(map[string]struct{}),
	}
}

// Login compares password against the shared secret and, on match, issues a
// new authenticated session token. On mismatch no session state changes.
func (g *Guard) Login(password string) (string, bool) {
	if !digest.Match(g.secretDigest, password) {
		return "", false
	}
	token := uuid.NewString()
	g.mu.Lock()
	g.active[token] = struct{}{}
	g.mu.Unlock()
	return token, true
}

// Authenticated reports whether token belongs to a logged-in session.
func (g *Guard) Authenticated(token string) bool {
	if token == "" {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.active[token]
	return ok
}

// Logout revokes the token unconditionally. Idempotent.
func (g *Guard) Logout(token string) {
	g.mu.Lock()
	delete(g.active, token)
	g.mu.Unlock()
}
