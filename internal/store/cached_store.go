package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"linkwrap-platform/internal/model"

	"github.com/dgraph-io/ristretto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "wraplink:"

// LocalCache 进程内 L1 缓存
type LocalCache struct {
	cache *ristretto.Cache
}

// NewLocalCache 按条目数限制容量, 每条记录成本记为 1
func NewLocalCache(maxItems int64) (*LocalCache, error) {
	maxItems = max(1, maxItems)
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxItems * 10,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &LocalCache{cache: cache}, nil
}

func (c *LocalCache) Get(shortID string) (*model.WrappedLink, bool) {
	val, found := c.cache.Get(shortID)
	if !found {
		return nil, false
	}
	link, ok := val.(model.WrappedLink)
	if !ok {
		return nil, false
	}
	return &link, true
}

// Set ristretto 把 0 视为永不过期, 这里直接忽略非正数
func (c *LocalCache) Set(link *model.WrappedLink, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.cache.SetWithTTL(link.ShortID, *link, 1, ttl)
}

// Wait 等待写缓冲区落盘, 测试使用
func (c *LocalCache) Wait() {
	c.cache.Wait()
}

func (c *LocalCache) Close() {
	c.cache.Close()
}

// CachedStore 在 LinkStore 外包一层读缓存.
// 记录不可变, 所以只缓存读; 未找到的结果不缓存; 缓存故障时直接回源
type CachedStore struct {
	next   LinkStore
	local  *LocalCache
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.SugaredLogger
}

// NewCachedStore local 与 redisClient 均可为 nil
func NewCachedStore(next LinkStore, local *LocalCache, redisClient *redis.Client, ttl time.Duration, logger *zap.SugaredLogger) *CachedStore {
	return &CachedStore{
		next:   next,
		local:  local,
		redis:  redisClient,
		ttl:    ttl,
		logger: logger.Named("link_cache"),
	}
}

func (s *CachedStore) Create(ctx context.Context, link *model.WrappedLink) error {
	return s.next.Create(ctx, link)
}

func (s *CachedStore) FindByShortID(ctx context.Context, shortID string) (*model.WrappedLink, error) {
	if s.local != nil {
		if link, ok := s.local.Get(shortID); ok {
			return link, nil
		}
	}

	if s.redis != nil {
		if link, ok := s.getRemote(ctx, shortID); ok {
			if s.local != nil {
				s.local.Set(link, s.ttlFor(link))
			}
			return link, nil
		}
	}

	link, err := s.next.FindByShortID(ctx, shortID)
	if err != nil {
		return nil, err
	}
	s.fill(ctx, link)
	return link, nil
}

func (s *CachedStore) Exists(ctx context.Context, shortID string) (bool, error) {
	if s.local != nil {
		if _, ok := s.local.Get(shortID); ok {
			return true, nil
		}
	}
	return s.next.Exists(ctx, shortID)
}

func (s *CachedStore) IncrementClickCount(ctx context.Context, shortID string) error {
	return s.next.IncrementClickCount(ctx, shortID)
}

func (s *CachedStore) RecordClick(ctx context.Context, record *model.ClickRecord) error {
	return s.next.RecordClick(ctx, record)
}

func (s *CachedStore) Ping(ctx context.Context) error {
	if err := s.next.Ping(ctx); err != nil {
		return err
	}
	if s.redis != nil {
		ctx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := s.redis.Ping(ctx).Err(); err != nil {
			// 缓存不可用不影响跳转
			s.logger.Warnf("Redis 不可用: %v", err)
		}
	}
	return nil
}

func (s *CachedStore) getRemote(ctx context.Context, shortID string) (*model.WrappedLink, bool) {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	data, err := s.redis.Get(ctx, cacheKeyPrefix+shortID).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warnf("读取缓存失败 %s: %v", shortID, err)
		}
		return nil, false
	}
	var link model.WrappedLink
	if err := json.Unmarshal(data, &link); err != nil {
		s.logger.Warnf("缓存数据损坏 %s: %v", shortID, err)
		return nil, false
	}
	return &link, true
}

func (s *CachedStore) fill(ctx context.Context, link *model.WrappedLink) {
	ttl := s.ttlFor(link)
	if ttl <= 0 {
		return
	}
	if s.local != nil {
		s.local.Set(link, ttl)
	}
	if s.redis != nil {
		data, err := json.Marshal(link)
		if err != nil {
			return
		}
		ctx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := s.redis.Set(ctx, cacheKeyPrefix+link.ShortID, data, ttl).Err(); err != nil {
			s.logger.Warnf("写入缓存失败 %s: %v", link.ShortID, err)
		}
	}
}

// ttlFor 缓存时间不超过链接剩余有效期
func (s *CachedStore) ttlFor(link *model.WrappedLink) time.Duration {
	ttl := s.ttl
	if link.ExpiresAt != nil {
		if remaining := time.Until(*link.ExpiresAt); remaining < ttl {
			ttl = remaining
		}
	}
	return ttl
}
