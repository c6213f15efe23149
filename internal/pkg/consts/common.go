package consts

const (
	UserIDKey = "user_id"
)

// 通知类型
const (
	NotifyPostLike     int8 = 1
	NotifyPostComment  int8 = 3
	NotifyCommentLike  int8 = 4
	NotifyCommentReply int8 = 6
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)
