// Package auth manages admin accounts and the bearer tokens that guard the
// management API.
package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	internalErrors "github.com/gcbaptista/findmyjob/internal/errors"
	"github.com/gcbaptista/findmyjob/internal/persistence"
	"github.com/gcbaptista/findmyjob/model"
	"github.com/gcbaptista/findmyjob/services"
)

const (
	// AccountsFile is the admin accounts file inside the data directory
	AccountsFile = "admins.gob"

	defaultTokenTTL = 24 * time.Hour
)

// Service implements services.AdminAuthenticator. Accounts are persisted when a
// data file is configured; sessions live in memory only.
type Service struct {
	mu           sync.RWMutex
	admins       map[string]model.Admin // keyed by username
	sessions     map[string]model.Session
	tokenTTL     time.Duration
	bcryptCost   int
	dummyHash    []byte // compared against for unknown usernames
	now          func() time.Time
	dataFilePath string
	logger       *slog.Logger
}

var _ services.AdminAuthenticator = (*Service)(nil)

// Option configures a Service.
type Option func(*Service)

// WithTokenTTL sets how long issued tokens stay valid. Default is 24h.
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
	}
}

// WithBcryptCost sets the hashing cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.bcryptCost = cost }
}

// WithClock sets the time source. Default is time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithDataFile persists admin accounts to path
func WithDataFile(path string) Option {
	return func(s *Service) { s.dataFilePath = path }
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger.With("component", "auth")
		}
	}
}

// NewService creates the service and loads persisted accounts
func NewService(opts ...Option) (*Service, error) {
	s := &Service{
		admins:     make(map[string]model.Admin),
		sessions:   make(map[string]model.Session),
		tokenTTL:   defaultTokenTTL,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
		logger:     slog.Default().With("component", "auth"),
	}
	for _, opt := range opts {
		opt(s)
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash placeholder password: %w", err)
	}
	s.dummyHash = dummy

	if s.dataFilePath != "" {
		var admins map[string]model.Admin
		err := persistence.LoadGob(s.dataFilePath, &admins)
		switch {
		case err == nil:
			if admins != nil {
				s.admins = admins
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("load admin accounts: %w", err)
		}
	}
	return s, nil
}

// Register creates an admin account and signs it in
func (s *Service) Register(username, email, password string) (model.Session, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" {
		return model.Session{}, internalErrors.NewValidationError("username", "username is required")
	}
	if email == "" {
		return model.Session{}, internalErrors.NewValidationError("email", "email is required")
	}
	if password == "" {
		return model.Session{}, internalErrors.NewValidationError("password", "password is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return model.Session{}, internalErrors.NewValidationError("password", "password must be at most 72 bytes")
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.admins[username]; exists {
		return model.Session{}, internalErrors.NewAdminExistsError("username", username)
	}
	for _, a := range s.admins {
		if strings.EqualFold(a.Email, email) {
			return model.Session{}, internalErrors.NewAdminExistsError("email", email)
		}
	}

	admin := model.Admin{Username: username, Email: email, PasswordHash: hash, CreatedAt: s.now().UTC()}
	s.admins[username] = admin
	if err := s.saveLocked(); err != nil {
		delete(s.admins, username)
		return model.Session{}, err
	}

	s.logger.Info("admin registered", "username", username)
	return s.issueLocked(admin), nil
}

// EnsureAdmin creates the account unless the username already exists.
// It is used for the bootstrap admin from configuration.
func (s *Service) EnsureAdmin(username, email, password string) error {
	s.mu.RLock()
	_, exists := s.admins[username]
	s.mu.RUnlock()
	if exists {
		s.logger.Debug("bootstrap admin already exists", "username", username)
		return nil
	}

	_, err := s.Register(username, email, password)
	if errors.Is(err, internalErrors.ErrAdminExists) {
		return nil
	}
	return err
}

// Login checks the credentials and issues a new token
func (s *Service) Login(username, password string) (model.Session, error) {
	s.mu.RLock()
	admin, ok := s.admins[strings.TrimSpace(username)]
	s.mu.RUnlock()

	if !ok {
		// Same bcrypt work as a wrong password
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return model.Session{}, fmt.Errorf("invalid username or password: %w", internalErrors.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword(admin.PasswordHash, []byte(password)); err != nil {
		return model.Session{}, fmt.Errorf("invalid username or password: %w", internalErrors.ErrUnauthorized)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueLocked(admin), nil
}

// Validate resolves a token to its session. Expired tokens are forgotten.
func (s *Service) Validate(token string) (model.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return model.Session{}, fmt.Errorf("missing token: %w", internalErrors.ErrUnauthorized)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[token]
	if !ok {
		return model.Session{}, fmt.Errorf("invalid or expired token: %w", internalErrors.ErrUnauthorized)
	}
	if !s.now().Before(session.ExpiresAt) {
		delete(s.sessions, token)
		return model.Session{}, fmt.Errorf("invalid or expired token: %w", internalErrors.ErrUnauthorized)
	}
	if _, exists := s.admins[session.Username]; !exists {
		delete(s.sessions, token)
		return model.Session{}, fmt.Errorf("invalid or expired token: %w", internalErrors.ErrUnauthorized)
	}
	return session, nil
}

// Logout revokes a token. Unknown tokens are ignored.
func (s *Service) Logout(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// issueLocked also drops expired sessions so abandoned tokens do not accumulate.
func (s *Service) issueLocked(admin model.Admin) model.Session {
	s.pruneExpiredLocked()

	session := model.Session{
		Token:     uuid.New().String(),
		Username:  admin.Username,
		Email:     admin.Email,
		ExpiresAt: s.now().Add(s.tokenTTL).UTC(),
	}
	s.sessions[session.Token] = session
	return session
}

func (s *Service) pruneExpiredLocked() {
	now := s.now()
	removed := 0
	for token, session := range s.sessions {
		if !now.Before(session.ExpiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Debug("expired sessions removed", "count", removed)
	}
}

func (s *Service) saveLocked() error {
	if s.dataFilePath == "" {
		return nil
	}
	if err := persistence.SaveGob(s.dataFilePath, s.admins); err != nil {
		return fmt.Errorf("save admin accounts: %w", err)
	}
	return nil
}
