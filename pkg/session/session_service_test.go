package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"recipe-feed/domain"
	"recipe-feed/entities"
	"recipe-feed/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testTTL = 30 * 24 * time.Hour

type memoryCache struct {
	mu    sync.Mutex
	items map[string]domain.SessionInfo
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string]domain.SessionInfo{}}
}

func (c *memoryCache) Get(_ context.Context, sessionID string) (*domain.SessionInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	info, ok := c.items[sessionID]
	if !ok {
		return nil, nil
	}
	return &info, nil
}

func (c *memoryCache) Set(_ context.Context, info domain.SessionInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	info.Fresh = false
	c.items[info.SessionID] = info
	return nil
}

func (c *memoryCache) Delete(_ context.Context, sessionIDs ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range sessionIDs {
		delete(c.items, id)
	}
	return nil
}

func createUser(t *testing.T, db *gorm.DB, username string) *entities.User {
	t.Helper()
	user := &entities.User{ID: uuid.New(), Username: username, HashedPassword: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func newTestService(t *testing.T, cache Cache) (*sessionService, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	svc := NewSessionService(NewSessionRepository(db), cache, testTTL).(*sessionService)
	return svc, db
}

func TestCreateAndValidateSession(t *testing.T) {
	svc, db := newTestService(t, nil)
	user := createUser(t, db, "ana")
	ctx := context.Background()

	created, err := svc.CreateSession(ctx, user.ID.String())
	require.NoError(t, err)
	assert.True(t, created.Fresh)
	assert.NotEmpty(t, created.SessionID)

	info, err := svc.ValidateSession(ctx, created.SessionID)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), info.UserID)
	assert.Equal(t, "ana", info.Username)
	assert.False(t, info.Fresh)
}

func TestValidateSessionUnknown(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.ValidateSession(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = svc.ValidateSession(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestValidateSessionExpiredIsDeleted(t *testing.T) {
	svc, db := newTestService(t, nil)
	user := createUser(t, db, "ana")
	ctx := context.Background()

	created, err := svc.CreateSession(ctx, user.ID.String())
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(testTTL + time.Hour) }
	_, err = svc.ValidateSession(ctx, created.SessionID)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)

	var count int64
	require.NoError(t, db.Model(&entities.Session{}).Where("id = ?", created.SessionID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestValidateSessionExtendsInSecondHalf(t *testing.T) {
	svc, db := newTestService(t, nil)
	user := createUser(t, db, "ana")
	ctx := context.Background()

	created, err := svc.CreateSession(ctx, user.ID.String())
	require.NoError(t, err)

	later := time.Now().Add(20 * 24 * time.Hour)
	svc.now = func() time.Time { return later }

	info, err := svc.ValidateSession(ctx, created.SessionID)
	require.NoError(t, err)
	assert.True(t, info.Fresh)
	assert.WithinDuration(t, later.Add(testTTL), info.ExpiresAt, time.Second)

	var stored entities.Session
	require.NoError(t, db.Where("id = ?", created.SessionID).First(&stored).Error)
	assert.WithinDuration(t, later.Add(testTTL), stored.ExpiresAt, time.Second)

	// a second check right after the extension leaves the session alone
	again, err := svc.ValidateSession(ctx, created.SessionID)
	require.NoError(t, err)
	assert.False(t, again.Fresh)
}

func TestInvalidateSession(t *testing.T) {
	cache := newMemoryCache()
	svc, db := newTestService(t, cache)
	user := createUser(t, db, "ana")
	ctx := context.Background()

	created, err := svc.CreateSession(ctx, user.ID.String())
	require.NoError(t, err)
	_, err = svc.ValidateSession(ctx, created.SessionID)
	require.NoError(t, err)

	cached, _ := cache.Get(ctx, created.SessionID)
	require.NotNil(t, cached)

	require.NoError(t, svc.InvalidateSession(ctx, created.SessionID))

	cached, _ = cache.Get(ctx, created.SessionID)
	assert.Nil(t, cached)
	_, err = svc.ValidateSession(ctx, created.SessionID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestInvalidateUserSessions(t *testing.T) {
	cache := newMemoryCache()
	svc, db := newTestService(t, cache)
	ana := createUser(t, db, "ana")
	bob := createUser(t, db, "bob")
	ctx := context.Background()

	first, err := svc.CreateSession(ctx, ana.ID.String())
	require.NoError(t, err)
	second, err := svc.CreateSession(ctx, ana.ID.String())
	require.NoError(t, err)
	other, err := svc.CreateSession(ctx, bob.ID.String())
	require.NoError(t, err)

	for _, id := range []string{first.SessionID, second.SessionID, other.SessionID} {
		_, err := svc.ValidateSession(ctx, id)
		require.NoError(t, err)
	}

	require.NoError(t, svc.InvalidateUserSessions(ctx, ana.ID.String()))

	for _, id := range []string{first.SessionID, second.SessionID} {
		_, err := svc.ValidateSession(ctx, id)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	}
	_, err = svc.ValidateSession(ctx, other.SessionID)
	assert.NoError(t, err)
}

func TestDeleteExpiredSessions(t *testing.T) {
	svc, db := newTestService(t, nil)
	user := createUser(t, db, "ana")
	now := time.Now()

	require.NoError(t, db.Create(&entities.Session{
		ID: "old", UserID: user.ID, ExpiresAt: now.Add(-time.Hour), CreatedAt: now.Add(-testTTL),
	}).Error)
	require.NoError(t, db.Create(&entities.Session{
		ID: "live", UserID: user.ID, ExpiresAt: now.Add(time.Hour), CreatedAt: now,
	}).Error)

	deleted, err := svc.DeleteExpiredSessions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var ids []string
	require.NoError(t, db.Model(&entities.Session{}).Pluck("id", &ids).Error)
	assert.Equal(t, []string{"live"}, ids)
}

func TestSessionsCascadeWithUser(t *testing.T) {
	svc, db := newTestService(t, nil)
	user := createUser(t, db, "ana")
	ctx := context.Background()

	created, err := svc.CreateSession(ctx, user.ID.String())
	require.NoError(t, err)

	require.NoError(t, db.Where("id = ?", user.ID).Delete(&entities.User{}).Error)

	_, err = svc.ValidateSession(ctx, created.SessionID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
