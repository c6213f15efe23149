package consts

const (
	PostStatsKey        = "post:stats:"
	PostStatsVersionKey = "post:stats:ver:"
	TokenBlacklistKey   = "auth:blacklist:"
)

const (
	CommentCountJobLock = "lock:job:comment:count"
)
