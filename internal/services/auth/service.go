// Package auth implements quick-access PIN login for child profiles: PIN
// management, verification with rate limiting, and device sessions.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ollieshotz/shotz/internal/dependencies/clock"
	"github.com/ollieshotz/shotz/internal/model"
	"github.com/ollieshotz/shotz/internal/store"
)

// Errors
var (
	ErrInvalidPin      = errors.New("invalid PIN")
	ErrPinFormat       = errors.New("PIN must be exactly 6 digits")
	ErrTooManyAttempts = errors.New("too many PIN attempts, try again later")
)

// AttemptStore rate-limits PIN verification per source (typically client IP)
type AttemptStore interface {
	// Allow records an attempt and reports whether it is within the limit
	Allow(source string) bool
}

// Service handles PIN management and PIN sessions
type Service struct {
	store    store.Store
	clock    clock.Clock
	attempts AttemptStore
	logger   *slog.Logger
}

// New creates a new auth service
func New(st store.Store, clk clock.Clock, attempts AttemptStore, logger *slog.Logger) *Service {
	return &Service{
		store:    st,
		clock:    clk,
		attempts: attempts,
		logger:   logger,
	}
}

// SetPin sets or replaces the quick-access PIN for a child profile
func (s *Service) SetPin(ctx context.Context, childID model.ProfileID, pin string) error {
	if !validPinFormat(pin) {
		return ErrPinFormat
	}

	profile, err := s.store.GetProfile(ctx, childID)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	updated := *profile
	updated.PinHash = string(hash)
	updated.PinEnabled = true

	if err := s.store.SaveProfile(ctx, &updated); err != nil {
		return err
	}

	s.logger.Info("PIN enabled", slog.String("child_id", string(childID)))
	return nil
}

// DisablePin removes the PIN from a child profile
func (s *Service) DisablePin(ctx context.Context, childID model.ProfileID) error {
	profile, err := s.store.GetProfile(ctx, childID)
	if err != nil {
		return err
	}

	updated := *profile
	updated.PinHash = ""
	updated.PinEnabled = false

	if err := s.store.SaveProfile(ctx, &updated); err != nil {
		return err
	}

	s.logger.Info("PIN disabled", slog.String("child_id", string(childID)))
	return nil
}

// VerifyPin checks a PIN against all pin-enabled profiles and creates a
// device session on a match. Attempts are rate limited per source.
func (s *Service) VerifyPin(ctx context.Context, pin, deviceInfo, source string) (*model.PinSession, *model.ChildProfile, error) {
	if !s.attempts.Allow(source) {
		s.logger.Warn("PIN attempt rate limited", slog.String("source", source))
		return nil, nil, ErrTooManyAttempts
	}
	if !validPinFormat(pin) {
		return nil, nil, ErrPinFormat
	}

	profiles, err := s.store.ListPinEnabledProfiles(ctx)
	if err != nil {
		return nil, nil, err
	}

	for _, profile := range profiles {
		if bcrypt.CompareHashAndPassword([]byte(profile.PinHash), []byte(pin)) != nil {
			continue
		}

		now := s.clock.Now()
		session := &model.PinSession{
			ID:         model.PinSessionID(generateID("psess_")),
			ChildID:    profile.ID,
			Token:      generateID("pt_"),
			DeviceInfo: deviceInfo,
			CreatedAt:  now,
			LastUsedAt: now,
		}
		if err := s.store.SavePinSession(ctx, session); err != nil {
			return nil, nil, err
		}

		s.logger.Info("PIN session created",
			slog.String("child_id", string(profile.ID)),
			slog.String("session_id", string(session.ID)))
		return session, profile, nil
	}

	return nil, nil, ErrInvalidPin
}

// ValidatePinSession resolves a session token, bumping its last-used time.
// Revoked or unknown tokens are ErrUnauthorized.
func (s *Service) ValidatePinSession(ctx context.Context, token string) (*model.PinSession, error) {
	session, err := s.store.GetPinSessionByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if session.Revoked {
		return nil, model.ErrUnauthorized
	}

	updated := *session
	updated.LastUsedAt = s.clock.Now()
	if err := s.store.SavePinSession(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// RevokePinSession permanently invalidates a session token
func (s *Service) RevokePinSession(ctx context.Context, token string) error {
	session, err := s.store.GetPinSessionByToken(ctx, token)
	if err != nil {
		return err
	}
	if session.Revoked {
		return nil
	}

	updated := *session
	updated.Revoked = true
	updated.RevokedAt = s.clock.Now()
	if err := s.store.SavePinSession(ctx, &updated); err != nil {
		return err
	}

	s.logger.Info("PIN session revoked", slog.String("session_id", string(session.ID)))
	return nil
}

func validPinFormat(pin string) bool {
	if len(pin) != 6 {
		return false
	}
	for _, c := range pin {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// generateID generates a random ID with a prefix
func generateID(prefix string) string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return prefix + base64.RawURLEncoding.EncodeToString(b)
}

// MemoryAttemptStore is an in-process sliding-window rate limiter
type MemoryAttemptStore struct {
	clock clock.Clock
	limit int
	win   time.Duration

	mu       sync.Mutex
	attempts map[string][]time.Time
}

// NewMemoryAttemptStore creates a limiter allowing limit attempts per window
func NewMemoryAttemptStore(clk clock.Clock, limit int, window time.Duration) *MemoryAttemptStore {
	return &MemoryAttemptStore{
		clock:    clk,
		limit:    limit,
		win:      window,
		attempts: make(map[string][]time.Time),
	}
}

// Ensure MemoryAttemptStore implements AttemptStore
var _ AttemptStore = (*MemoryAttemptStore)(nil)

// Allow records an attempt for source and reports whether it fit the window
func (m *MemoryAttemptStore) Allow(source string) bool {
	now := m.clock.Now()
	cutoff := now.Add(-m.win)

	m.mu.Lock()
	defer m.mu.Unlock()

	recent := m.attempts[source][:0]
	for _, t := range m.attempts[source] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= m.limit {
		m.attempts[source] = recent
		return false
	}

	m.attempts[source] = append(recent, now)
	return true
}
