package service

import (
	"Amem/internal/pkg/consts"
	"Amem/internal/pkg/redis"
	"Amem/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"
)

const (
	postStatsExpiration        = 10 * time.Minute
	postStatsVersionExpiration = 24 * time.Hour
)

const (
	fieldLikes    = "likes"
	fieldComments = "comments"
	fieldShares   = "shares"
)

func postStatsKey(postID uint64) string {
	return consts.PostStatsKey + strconv.FormatUint(postID, 10)
}

func postStatsVersionKey(postID uint64) string {
	return consts.PostStatsVersionKey + strconv.FormatUint(postID, 10)
}

// InvalidatePostStats 计数变更提交后删除缓存并递增版本号，下次读取回源数据库
func InvalidatePostStats(ctx context.Context, postIDs ...uint64) {
	keys := make([]string, 0, len(postIDs))
	versionKeys := make([]string, 0, len(postIDs))
	for _, id := range postIDs {
		keys = append(keys, postStatsKey(id))
		versionKeys = append(versionKeys, postStatsVersionKey(id))
	}
	if err := redis.DeleteAndBump(ctx, keys, versionKeys, postStatsVersionExpiration); err != nil {
		log.WarnContext(ctx, "invalidate post stats cache failed", "postIDs", postIDs, "err", err)
	}
}

// cacheVersion 回源前读取版本号，读取失败时不回填缓存
func cacheVersion(ctx context.Context, postID uint64) (string, bool) {
	ver, err := redis.GetVersion(ctx, postStatsVersionKey(postID))
	if err != nil {
		log.WarnContext(ctx, "read post stats version failed", "postID", postID, "err", err)
		return "", false
	}
	return ver, true
}

// loadCachedCounters 缓存不完整或读取失败时返回 false
func loadCachedCounters(ctx context.Context, postID uint64) (*repository.PostCounters, bool) {
	values, err := redis.HGetAll(ctx, postStatsKey(postID))
	if err != nil {
		log.WarnContext(ctx, "read post stats cache failed", "postID", postID, "err", err)
		return nil, false
	}
	if len(values) < 3 {
		return nil, false
	}
	var c repository.PostCounters
	var e1, e2, e3 error
	c.LikesCount, e1 = strconv.ParseInt(values[fieldLikes], 10, 64)
	c.CommentsCount, e2 = strconv.ParseInt(values[fieldComments], 10, 64)
	c.SharesCount, e3 = strconv.ParseInt(values[fieldShares], 10, 64)
	if e1 != nil || e2 != nil || e3 != nil {
		return nil, false
	}
	return &c, true
}

// storeCachedCounters 回源期间发生过失效则放弃写入，避免旧计数覆盖
func storeCachedCounters(ctx context.Context, postID uint64, version string, c *repository.PostCounters) {
	stored, err := redis.HSetIfVersion(ctx, postStatsKey(postID), postStatsVersionKey(postID), version, map[string]interface{}{
		fieldLikes:    c.LikesCount,
		fieldComments: c.CommentsCount,
		fieldShares:   c.SharesCount,
	}, postStatsExpiration)
	if err != nil {
		log.WarnContext(ctx, "write post stats cache failed", "postID", postID, "err", err)
		return
	}
	if !stored {
		log.DebugContext(ctx, "post stats changed while loading, skip cache", "postID", postID)
	}
}
