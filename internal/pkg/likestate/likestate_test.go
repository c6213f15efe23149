package likestate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlip(t *testing.T) {
	assert.Equal(t, Snapshot{LikesCount: 4, UserLiked: true}, Flip(Snapshot{LikesCount: 3}))
	assert.Equal(t, Snapshot{LikesCount: 2}, Flip(Snapshot{LikesCount: 3, UserLiked: true}))
	assert.Equal(t, Snapshot{}, Flip(Snapshot{UserLiked: true}))
}

func TestReconcileAlwaysAdoptsAuthoritative(t *testing.T) {
	guess := Snapshot{LikesCount: 1, UserLiked: true}

	out := Reconcile(guess, guess)
	assert.Equal(t, guess, out.Displayed)
	assert.False(t, out.Drift)

	// 其他人同时点了赞
	server := Snapshot{LikesCount: 2, UserLiked: true}
	out = Reconcile(guess, server)
	assert.Equal(t, server, out.Displayed)
	assert.True(t, out.Drift)
}

func TestTrackerClickThenResolve(t *testing.T) {
	var transitions []Phase
	tr := NewTracker(func(_ Key, _, to Phase) { transitions = append(transitions, to) })
	key := Key{Kind: KindComment, ID: 7}
	tr.Seed(key, Snapshot{LikesCount: 0})

	shown := tr.Click(key)
	assert.Equal(t, Snapshot{LikesCount: 1, UserLiked: true}, shown)
	assert.Equal(t, Pending, tr.Phase(key))

	out := tr.Resolve(key, Snapshot{LikesCount: 3, UserLiked: true})
	assert.True(t, out.Drift)
	assert.Equal(t, Synced, tr.Phase(key))
	displayed, ok := tr.Displayed(key)
	require.True(t, ok)
	assert.Equal(t, Snapshot{LikesCount: 3, UserLiked: true}, displayed)
	assert.Equal(t, []Phase{Pending, Reconciling, Synced}, transitions)
}

func TestTrackerFailRevertsToAuthoritative(t *testing.T) {
	tr := NewTracker(nil)
	key := Key{Kind: KindPost, ID: 42}
	tr.Seed(key, Snapshot{LikesCount: 5, UserLiked: true})

	assert.Equal(t, Snapshot{LikesCount: 4}, tr.Click(key))
	assert.Equal(t, Snapshot{LikesCount: 5, UserLiked: true}, tr.Fail(key))
	assert.Equal(t, Synced, tr.Phase(key))
}

func TestTrackerRapidClicksKeepLatestGuess(t *testing.T) {
	tr := NewTracker(nil)
	key := Key{Kind: KindComment, ID: 1}
	tr.Seed(key, Snapshot{LikesCount: 10})

	tr.Click(key)
	second := tr.Click(key)
	assert.Equal(t, Snapshot{LikesCount: 10}, second)
	assert.Equal(t, 2, tr.InFlight(key))

	// 第一个请求返回时另一个仍在途，展示值保持最新猜测
	out := tr.Resolve(key, Snapshot{LikesCount: 11, UserLiked: true})
	assert.Equal(t, second, out.Displayed)
	assert.Equal(t, Pending, tr.Phase(key))
	assert.Equal(t, Snapshot{LikesCount: 11, UserLiked: true}, tr.Authoritative(key))

	out = tr.Resolve(key, Snapshot{LikesCount: 10})
	assert.Equal(t, Snapshot{LikesCount: 10}, out.Displayed)
	assert.Equal(t, Synced, tr.Phase(key))
}

func TestTrackerFailWhileOthersInFlight(t *testing.T) {
	tr := NewTracker(nil)
	key := Key{Kind: KindComment, ID: 2}
	tr.Seed(key, Snapshot{LikesCount: 1})

	tr.Click(key)
	guess := tr.Click(key)
	assert.Equal(t, guess, tr.Fail(key))
	assert.Equal(t, Pending, tr.Phase(key))

	assert.Equal(t, Snapshot{LikesCount: 1}, tr.Fail(key))
	assert.Equal(t, Synced, tr.Phase(key))
}

func TestSeedDoesNotOverrideOptimisticGuess(t *testing.T) {
	tr := NewTracker(nil)
	key := Key{Kind: KindComment, ID: 3}
	tr.Seed(key, Snapshot{})
	guess := tr.Click(key)

	tr.Seed(key, Snapshot{LikesCount: 8})
	displayed, _ := tr.Displayed(key)
	assert.Equal(t, guess, displayed)
}

func TestStatsCacheExpiry(t *testing.T) {
	cache, err := NewStatsCache(2)
	require.NoError(t, err)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	key := Key{Kind: KindComment, ID: 7}
	cache.Put(key, Snapshot{LikesCount: 2})

	got, ok := cache.Get(key, time.Minute)
	require.True(t, ok)
	assert.Equal(t, int64(2), got.LikesCount)

	now = now.Add(2 * time.Minute)
	_, ok = cache.Get(key, time.Minute)
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len())
}

func TestStatsCacheInvalidateAndEvict(t *testing.T) {
	cache, err := NewStatsCache(2)
	require.NoError(t, err)

	a, b, c := Key{KindComment, 1}, Key{KindComment, 2}, Key{KindComment, 3}
	cache.Put(a, Snapshot{LikesCount: 1})
	cache.Put(b, Snapshot{LikesCount: 2})
	cache.Put(c, Snapshot{LikesCount: 3})

	_, ok := cache.Get(a, 0)
	assert.False(t, ok)

	cache.Invalidate(b)
	_, ok = cache.Get(b, 0)
	assert.False(t, ok)

	cache.Purge()
	assert.Equal(t, 0, cache.Len())
}
