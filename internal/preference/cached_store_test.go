package preference

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Недоступный Redis: чтение и запись идут в основное хранилище
func TestCachedStore_RedisDown(t *testing.T) {
	bolt := openTestStore(t)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	store := NewCachedStore(bolt, rdb, time.Hour, zap.NewNop())
	ctx := context.Background()

	got, err := store.Get(ctx, 1, "grading")
	require.NoError(t, err)
	assert.Nil(t, got)

	want := Preference{SortColumn: "fullname", SortDesc: true, Collapsed: []string{"notes"}}
	require.NoError(t, store.Set(ctx, 1, "grading", want))

	got, err = store.Get(ctx, 1, "grading")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, want.Equal(*got))
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "grid:pref:42:mod_scheduler_grading", cacheKey(42, "mod_scheduler_grading"))
}
