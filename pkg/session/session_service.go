package session

import (
	"context"
	"errors"
	"time"

	"recipe-feed/domain"
	"recipe-feed/entities"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultTTL = 30 * 24 * time.Hour

type (
	SessionService interface {
		CreateSession(ctx context.Context, userID string) (domain.SessionInfo, error)
		ValidateSession(ctx context.Context, sessionID string) (domain.SessionInfo, error)
		InvalidateSession(ctx context.Context, sessionID string) error
		InvalidateUserSessions(ctx context.Context, userID string) error
		DeleteExpiredSessions(ctx context.Context) (int64, error)
		TTL() time.Duration
	}

	sessionService struct {
		sessionRepository SessionRepository
		cache             Cache
		ttl               time.Duration
		now               func() time.Time
	}
)

// NewSessionService builds the service. cache may be nil, ttl <= 0 falls back
// to DefaultTTL.
func NewSessionService(sessionRepository SessionRepository, cache Cache, ttl time.Duration) SessionService {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &sessionService{
		sessionRepository: sessionRepository,
		cache:             cache,
		ttl:               ttl,
		now:               time.Now,
	}
}

func (s *sessionService) TTL() time.Duration {
	return s.ttl
}

func (s *sessionService) CreateSession(ctx context.Context, userID string) (domain.SessionInfo, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.SessionInfo{}, domain.ErrParseUUID
	}

	now := s.now()
	session := &entities.Session{
		ID:        uuid.NewString(),
		UserID:    userUUID,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.sessionRepository.CreateSession(ctx, session); err != nil {
		return domain.SessionInfo{}, err
	}

	return domain.SessionInfo{
		SessionID: session.ID,
		UserID:    userID,
		ExpiresAt: session.ExpiresAt,
		Fresh:     true,
	}, nil
}

// ValidateSession resolves a cookie token. Expired sessions are deleted.
// Sessions in the second half of their lifetime are extended by a full TTL
// and come back with Fresh set.
func (s *sessionService) ValidateSession(ctx context.Context, sessionID string) (domain.SessionInfo, error) {
	if sessionID == "" {
		return domain.SessionInfo{}, domain.ErrSessionNotFound
	}
	now := s.now()

	if info := s.cachedSession(ctx, sessionID); info != nil && !s.needsExtension(info.ExpiresAt, now) {
		return *info, nil
	}

	session, err := s.sessionRepository.GetSessionByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.forget(ctx, sessionID)
			return domain.SessionInfo{}, domain.ErrSessionNotFound
		}
		return domain.SessionInfo{}, err
	}

	if session.Expired(now) {
		if err := s.InvalidateSession(ctx, sessionID); err != nil {
			log.Warnf("failed to delete expired session: %v", err)
		}
		return domain.SessionInfo{}, domain.ErrSessionExpired
	}

	info := domain.SessionInfo{
		SessionID: session.ID,
		UserID:    session.UserID.String(),
		ExpiresAt: session.ExpiresAt,
	}
	if session.User != nil {
		info.Username = session.User.Username
	}

	if s.needsExtension(session.ExpiresAt, now) {
		info.ExpiresAt = now.Add(s.ttl)
		if err := s.sessionRepository.UpdateSessionExpiry(ctx, session.ID, info.ExpiresAt); err != nil {
			return domain.SessionInfo{}, err
		}
		info.Fresh = true
	}

	s.remember(ctx, info)
	return info, nil
}

func (s *sessionService) needsExtension(expiresAt, now time.Time) bool {
	return expiresAt.Sub(now) < s.ttl/2
}

func (s *sessionService) InvalidateSession(ctx context.Context, sessionID string) error {
	s.forget(ctx, sessionID)
	return s.sessionRepository.DeleteSession(ctx, sessionID)
}

func (s *sessionService) InvalidateUserSessions(ctx context.Context, userID string) error {
	if s.cache != nil {
		ids, err := s.sessionRepository.GetSessionIDsByUser(ctx, userID)
		if err != nil {
			return err
		}
		s.forget(ctx, ids...)
	}
	return s.sessionRepository.DeleteSessionsByUser(ctx, userID)
}

func (s *sessionService) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessionRepository.DeleteExpiredSessions(ctx, s.now())
}

func (s *sessionService) cachedSession(ctx context.Context, sessionID string) *domain.SessionInfo {
	if s.cache == nil {
		return nil
	}
	info, err := s.cache.Get(ctx, sessionID)
	if err != nil {
		log.Warnf("session cache get: %v", err)
		return nil
	}
	return info
}

func (s *sessionService) remember(ctx context.Context, info domain.SessionInfo) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, info); err != nil {
		log.Warnf("session cache set: %v", err)
	}
}

func (s *sessionService) forget(ctx context.Context, sessionIDs ...string) {
	if s.cache == nil || len(sessionIDs) == 0 {
		return
	}
	if err := s.cache.Delete(ctx, sessionIDs...); err != nil {
		log.Warnf("session cache delete: %v", err)
	}
}
