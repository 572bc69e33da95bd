package application

import (
	"sync"

	"github.com/buslinehq/busline/internal/account/domain"
	pkgDomain "github.com/buslinehq/busline/pkg/domain"
)

// Session is one authenticated identity. A token resolves to at most one
// session; an unresolvable token means anonymous.
type Session struct {
	Token  string `json:"token"`
	UserID int64  `json:"userId"`
	Role   string `json:"role"`
}

func (s Session) IsAdmin() bool {
	return s.Role == domain.RoleAdmin
}

// SessionRegistry holds the live sessions in process memory. Nothing
// survives a restart and there is no expiry, matching the desk-app
// lifetime the service replaces.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]Session
	tokens   pkgDomain.IDGenerator[string]
}

func NewSessionRegistry(tokens pkgDomain.IDGenerator[string]) *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]Session),
		tokens:   tokens,
	}
}

// Begin opens a session for the user and returns it with a fresh token.
func (r *SessionRegistry) Begin(user domain.User) Session {
	session := Session{
		Token:  r.tokens(),
		UserID: user.ID,
		Role:   user.Role,
	}

	r.mu.Lock()
	r.sessions[session.Token] = session
	r.mu.Unlock()

	return session
}

func (r *SessionRegistry) Resolve(token string) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[token]
	return session, ok
}

// End logs the session out. Ending an unknown token is a no-op.
func (r *SessionRegistry) End(token string) {
	r.mu.Lock()
	delete(r.sessions, token)
	r.mu.Unlock()
}
