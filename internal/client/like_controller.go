package client

import (
	"Amem/internal/pkg/likestate"
	"context"
	log "log/slog"
	"time"
)

const DefaultStatsMaxAge = 30 * time.Second

// LikeController 组合 API 客户端、乐观状态与统计缓存，提供点赞的即时反馈
type LikeController struct {
	api     *Client
	tracker *likestate.Tracker
	cache   *likestate.StatsCache
	maxAge  time.Duration
}

func NewLikeController(api *Client, tracker *likestate.Tracker, cache *likestate.StatsCache, maxAge time.Duration) *LikeController {
	if maxAge <= 0 {
		maxAge = DefaultStatsMaxAge
	}
	return &LikeController{
		api:     api,
		tracker: tracker,
		cache:   cache,
		maxAge:  maxAge,
	}
}

func (c *LikeController) Tracker() *likestate.Tracker {
	return c.tracker
}

// CommentStats 缓存未过期时直接返回，否则回源
func (c *LikeController) CommentStats(ctx context.Context, commentID uint64) (likestate.Snapshot, error) {
	return c.stats(ctx, likestate.Key{Kind: likestate.KindComment, ID: commentID})
}

func (c *LikeController) PostStats(ctx context.Context, postID uint64) (likestate.Snapshot, error) {
	return c.stats(ctx, likestate.Key{Kind: likestate.KindPost, ID: postID})
}

func (c *LikeController) ToggleComment(ctx context.Context, commentID uint64) (likestate.Outcome, error) {
	return c.toggle(ctx, likestate.Key{Kind: likestate.KindComment, ID: commentID})
}

func (c *LikeController) TogglePost(ctx context.Context, postID uint64) (likestate.Outcome, error) {
	return c.toggle(ctx, likestate.Key{Kind: likestate.KindPost, ID: postID})
}

func (c *LikeController) stats(ctx context.Context, key likestate.Key) (likestate.Snapshot, error) {
	if s, ok := c.cache.Get(key, c.maxAge); ok {
		c.tracker.Seed(key, s)
		return s, nil
	}
	s, err := c.fetch(ctx, key)
	if err != nil {
		return likestate.Snapshot{}, err
	}
	c.tracker.Seed(key, s)
	return s, nil
}

// toggle 先乐观翻转，请求成功后失效缓存并重新拉取服务端值对账，失败则回退
func (c *LikeController) toggle(ctx context.Context, key likestate.Key) (likestate.Outcome, error) {
	if _, ok := c.tracker.Displayed(key); !ok {
		if _, err := c.stats(ctx, key); err != nil {
			return likestate.Outcome{}, err
		}
	}

	c.tracker.Click(key)

	liked, err := c.send(ctx, key)
	if err != nil {
		shown := c.tracker.Fail(key)
		return likestate.Outcome{Displayed: shown}, err
	}

	c.cache.Invalidate(key)
	authoritative, err := c.fetch(ctx, key)
	if err != nil {
		log.WarnContext(ctx, "refetch like stats failed", "key", key.String(), "err", err)
		authoritative = deriveAuthoritative(c.tracker.Authoritative(key), liked)
	}
	return c.tracker.Resolve(key, authoritative), nil
}

func (c *LikeController) send(ctx context.Context, key likestate.Key) (bool, error) {
	if key.Kind == likestate.KindPost {
		return c.api.TogglePostLike(ctx, key.ID)
	}
	return c.api.ToggleCommentLike(ctx, key.ID)
}

func (c *LikeController) fetch(ctx context.Context, key likestate.Key) (likestate.Snapshot, error) {
	var s likestate.Snapshot
	if key.Kind == likestate.KindPost {
		stats, err := c.api.PostStats(ctx, key.ID)
		if err != nil {
			return s, err
		}
		s = likestate.Snapshot{LikesCount: stats.LikesCount, UserLiked: stats.UserLiked}
	} else {
		stats, err := c.api.CommentStats(ctx, key.ID)
		if err != nil {
			return s, err
		}
		s = likestate.Snapshot{LikesCount: stats.LikesCount, UserLiked: stats.UserLiked}
	}
	c.cache.Put(key, s)
	return s, nil
}

// deriveAuthoritative 切换已生效但统计拉取失败时，用切换结果修正上一次的服务端值
func deriveAuthoritative(prev likestate.Snapshot, liked bool) likestate.Snapshot {
	if prev.UserLiked == liked {
		return prev
	}
	return likestate.Flip(prev)
}
