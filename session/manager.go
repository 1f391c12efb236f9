package session

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
)

// CookieName is the name of the session cookie.
const CookieName = "user-session"

const (
	keyAuthenticated = "authenticated"
	keyUsername      = "username"
)

// UserLookup reports whether a username is registered.
type UserLookup interface {
	Exists(username string) bool
}

// Manager loads and saves State through a gorilla/sessions store.
type Manager struct {
	store sessions.Store
	users UserLookup
	log   *slog.Logger
}

// Options configures the cookie store.
type Options struct {
	HashKey  []byte
	BlockKey []byte
	MaxAge   int
	Secure   bool
}

// NewManager builds a Manager backed by an encrypted cookie store.
func NewManager(opts Options, users UserLookup, log *slog.Logger) *Manager {
	store := sessions.NewCookieStore(opts.HashKey, opts.BlockKey)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   opts.MaxAge,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return NewManagerWithStore(store, users, log)
}

// NewManagerWithStore builds a Manager on an existing store.
func NewManagerWithStore(store sessions.Store, users UserLookup, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{store: store, users: users, log: log}
}

// Load returns the State for the request. Unreadable cookies and users that
// are no longer registered (the store does not survive restarts) yield
// Unauthenticated.
func (m *Manager) Load(r *http.Request) State {
	sess, err := m.store.Get(r, CookieName)
	if err != nil {
		m.log.Debug("session.decode_failed", "err", err)
		return Unauthenticated()
	}

	authenticated, _ := sess.Values[keyAuthenticated].(bool)
	username, _ := sess.Values[keyUsername].(string)
	st := State{Authenticated: authenticated, User: username}
	if !st.Valid() || (st.Authenticated && !m.users.Exists(st.User)) {
		return Unauthenticated()
	}
	return st
}

// Save writes st to the response cookie.
func (m *Manager) Save(w http.ResponseWriter, r *http.Request, st State) error {
	sess, err := m.store.Get(r, CookieName)
	if err != nil {
		// A stale cookie still yields a fresh session to write into.
		m.log.Debug("session.decode_failed", "err", err)
	}

	if st.Authenticated {
		sess.Values[keyAuthenticated] = true
		sess.Values[keyUsername] = st.User
	} else {
		delete(sess.Values, keyAuthenticated)
		delete(sess.Values, keyUsername)
	}
	return sess.Save(r, w)
}
