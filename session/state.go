package session

// State is the per-browser authentication state. The zero value is
// Unauthenticated.
type State struct {
	Authenticated bool
	User          string
}

// Unauthenticated returns the initial state.
func Unauthenticated() State { return State{} }

// SignIn moves to Authenticated(user). Signing in again switches the user.
func (s *State) SignIn(user string) {
	if user == "" {
		return
	}
	s.Authenticated = true
	s.User = user
}

// Logout moves to Unauthenticated. It is a no-op when already logged out.
func (s *State) Logout() {
	s.Authenticated = false
	s.User = ""
}

// Valid reports whether the state holds its invariant: User is set iff
// Authenticated.
func (s State) Valid() bool {
	return s.Authenticated == (s.User != "")
}
