package service

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// AdminAPI is the slice of the remote service answering admin lookups.
type AdminAPI interface {
	IsAdmin(ctx context.Context, username string) (bool, error)
}

// UserService holds the session identity. Its username feeds both the
// identity header on every outbound request and the created_by field of new
// documents.
type UserService struct {
	remote AdminAPI
	logger *zap.Logger

	mu       sync.RWMutex
	username string
	isAdmin  bool
}

// NewUserService constructs the session service.
func NewUserService(remote AdminAPI, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{remote: remote, logger: logger}
}

// SetUsername records the session identity.
func (s *UserService) SetUsername(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.username = name
}

// Username returns the session identity; safe to pass as an identity
// provider callback.
func (s *UserService) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.username
}

// IsAdmin returns the last resolved admin flag.
func (s *UserService) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isAdmin
}

// CheckIsAdmin resolves the admin flag against the registry. Lookup
// failures downgrade to non-admin rather than blocking the session.
func (s *UserService) CheckIsAdmin(ctx context.Context) bool {
	username := s.Username()
	if username == "" {
		return false
	}
	isAdmin, err := s.remote.IsAdmin(ctx, username)
	if err != nil {
		s.logger.Warn("admin check failed", zap.String("username", username), zap.Error(err))
		isAdmin = false
	}
	s.mu.Lock()
	s.isAdmin = isAdmin
	s.mu.Unlock()
	return isAdmin
}
