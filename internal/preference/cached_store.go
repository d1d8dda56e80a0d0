package preference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cachePrefix = "grid:pref:"

// CachedStore кэширует настройки в Redis поверх основного хранилища.
// Ошибки Redis не ломают запрос: чтение уходит в основное хранилище
type CachedStore struct {
	next   Store
	rdb    goredis.UniversalClient
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedStore(next Store, rdb goredis.UniversalClient, ttl time.Duration, logger *zap.Logger) *CachedStore {
	return &CachedStore{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func cacheKey(userID int64, gridID string) string {
	return fmt.Sprintf("%s%d:%s", cachePrefix, userID, gridID)
}

func (s *CachedStore) Get(ctx context.Context, userID int64, gridID string) (*Preference, error) {
	key := cacheKey(userID, gridID)

	raw, err := s.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var pref Preference
		if err := json.Unmarshal(raw, &pref); err == nil {
			return &pref, nil
		}
		s.logger.Warn("Corrupted preference cache entry", zap.String("key", key))
	case !errors.Is(err, goredis.Nil):
		s.logger.Warn("Preference cache read failed", zap.String("key", key), zap.Error(err))
	}

	pref, err := s.next.Get(ctx, userID, gridID)
	if err != nil || pref == nil {
		return pref, err
	}

	s.store(ctx, key, *pref)
	return pref, nil
}

func (s *CachedStore) Set(ctx context.Context, userID int64, gridID string, pref Preference) error {
	if err := s.next.Set(ctx, userID, gridID, pref); err != nil {
		return err
	}

	s.store(ctx, cacheKey(userID, gridID), pref)
	return nil
}

func (s *CachedStore) store(ctx context.Context, key string, pref Preference) {
	raw, err := json.Marshal(pref)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		s.logger.Warn("Preference cache write failed", zap.String("key", key), zap.Error(err))
	}
}
