package store

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"linkwrap-platform/internal/model"
	"linkwrap-platform/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newGormStore(t *testing.T) *GormStore {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.InitSQLite(dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return NewGormStore(db)
}

func newLink(id string) *model.WrappedLink {
	return &model.WrappedLink{
		ShortID:     id,
		OriginalURL: "https://example.com/" + id,
		Kind:        model.KindNormal,
		Domain:      "example.com",
		Category:    "other",
	}
}

func TestGormStore_CreateAndFind(t *testing.T) {
	s := newGormStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, newLink("abc1234")))

	got, err := s.FindByShortID(ctx, "abc1234")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/abc1234", got.OriginalURL)
	assert.Equal(t, model.KindNormal, got.Kind)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = s.FindByShortID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStore_DuplicateShortID(t *testing.T) {
	s := newGormStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, newLink("dup0001")))
	err := s.Create(ctx, newLink("dup0001"))
	assert.ErrorIs(t, err, ErrDuplicateShortID)
}

func TestGormStore_ExistsIncludesExpired(t *testing.T) {
	s := newGormStore(t)
	ctx := context.Background()

	past := time.Now().Add(-time.Hour)
	link := newLink("old0001")
	link.ExpiresAt = &past
	require.NoError(t, s.Create(ctx, link))

	ok, err := s.Exists(ctx, "old0001")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Exists(ctx, "new0001")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGormStore_ClicksAndRecords(t *testing.T) {
	s := newGormStore(t)
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, newLink("clk0001")))

	for i := 0; i < 3; i++ {
		require.NoError(t, s.IncrementClickCount(ctx, "clk0001"))
	}
	got, err := s.FindByShortID(ctx, "clk0001")
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.ClickCount)

	assert.ErrorIs(t, s.IncrementClickCount(ctx, "nope"), ErrNotFound)

	require.NoError(t, s.RecordClick(ctx, &model.ClickRecord{ShortID: "clk0001", Route: "go", IsBot: true, BotCategory: "search_crawler"}))
	require.NoError(t, s.Ping(ctx))
}

// countingStore 记录回源次数
type countingStore struct {
	LinkStore
	finds int
}

func (c *countingStore) FindByShortID(ctx context.Context, id string) (*model.WrappedLink, error) {
	c.finds++
	return c.LinkStore.FindByShortID(ctx, id)
}

func TestCachedStore_LocalCache(t *testing.T) {
	inner := &countingStore{LinkStore: newGormStore(t)}
	local, err := NewLocalCache(100)
	require.NoError(t, err)
	defer local.Close()

	s := NewCachedStore(inner, local, nil, time.Hour, zap.NewNop().Sugar())
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, newLink("cache01")))

	first, err := s.FindByShortID(ctx, "cache01")
	require.NoError(t, err)
	local.Wait()

	first.OriginalURL = "mutated"
	second, err := s.FindByShortID(ctx, "cache01")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/cache01", second.OriginalURL, "缓存返回的应是副本")
	assert.Equal(t, 1, inner.finds)

	ok, err := s.Exists(ctx, "cache01")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCachedStore_NotFoundIsNotCached(t *testing.T) {
	inner := &countingStore{LinkStore: newGormStore(t)}
	local, err := NewLocalCache(100)
	require.NoError(t, err)
	defer local.Close()

	s := NewCachedStore(inner, local, nil, time.Hour, zap.NewNop().Sugar())
	ctx := context.Background()

	_, err = s.FindByShortID(ctx, "later01")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Create(ctx, newLink("later01")))
	got, err := s.FindByShortID(ctx, "later01")
	require.NoError(t, err)
	assert.Equal(t, "later01", got.ShortID)
	assert.Equal(t, 2, inner.finds)
}

func TestCachedStore_TTLBoundedByExpiry(t *testing.T) {
	s := NewCachedStore(nil, nil, nil, time.Hour, zap.NewNop().Sugar())

	soon := time.Now().Add(time.Minute)
	link := newLink("ttl0001")
	link.ExpiresAt = &soon
	assert.LessOrEqual(t, s.ttlFor(link), time.Minute)

	past := time.Now().Add(-time.Minute)
	link.ExpiresAt = &past
	assert.LessOrEqual(t, s.ttlFor(link), time.Duration(0))

	link.ExpiresAt = nil
	assert.Equal(t, time.Hour, s.ttlFor(link))
}
