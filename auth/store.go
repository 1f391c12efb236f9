package auth

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"bfsiocr/encryption"
	"bfsiocr/models"
)

// Store is the in-memory credential store. It starts empty and is discarded
// with the process.
type Store struct {
	mu    sync.RWMutex
	users map[string]models.Credential
	now   func() time.Time
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		users: make(map[string]models.Credential),
		now:   time.Now,
	}
}

// Register adds a user. Checks run in order: empty fields, duplicate
// username, confirmation mismatch, password policy.
func (s *Store) Register(req models.SignUpRequest) error {
	const op = "auth.register"

	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return models.NewError(op, models.KindInvalidInput, fmt.Errorf("username and password cannot be empty"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[username]; ok {
		return models.NewError(op, models.KindDuplicateUser, fmt.Errorf("user %q", username))
	}
	if req.Password != req.ConfirmPassword {
		return models.NewError(op, models.KindPasswordMismatch, nil)
	}
	if !PasswordValid(req.Password) {
		return models.NewError(op, models.KindWeakPassword, nil)
	}

	salt, err := encryption.NewSalt()
	if err != nil {
		return fmt.Errorf("%s: generate salt: %w", op, err)
	}
	digest, err := encryption.HashPassword(req.Password, salt)
	if err != nil {
		return fmt.Errorf("%s: hash password: %w", op, err)
	}

	s.users[username] = models.Credential{
		Username:  username,
		Digest:    digest,
		Salt:      salt,
		CreatedAt: s.now().UTC(),
	}
	return nil
}

// Verify reports whether username exists and password matches.
func (s *Store) Verify(username, password string) bool {
	s.mu.RLock()
	cred, ok := s.users[strings.TrimSpace(username)]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	return encryption.ComparePassword(cred.Digest, cred.Salt, password)
}

// Authenticate is Verify with an InvalidCredentials error on failure.
func (s *Store) Authenticate(req models.LoginRequest) (string, error) {
	if !s.Verify(req.Username, req.Password) {
		return "", models.NewError("auth.authenticate", models.KindInvalidCredentials, nil)
	}
	return strings.TrimSpace(req.Username), nil
}

// Exists reports whether username is registered.
func (s *Store) Exists(username string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[username]
	return ok
}

// Len returns the number of registered users.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
