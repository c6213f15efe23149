package dto

// SysBoxDTO 系统通知返回对象
type SysBoxDTO struct {
	ID         string         `json:"id"`
	SenderID   uint64         `json:"senderId"`
	SenderName string         `json:"senderName"`
	Type       int8           `json:"type"`     // 1-帖子点赞, 3-帖子评论, 4-评论点赞, 6-评论回复
	TargetID   uint64         `json:"targetId"` // 关联的帖子ID
	Content    string         `json:"content"`  // 预览内容
	Payload    map[string]any `json:"payload"`  // 扩展字段
	IsRead     bool           `json:"isRead"`
	CreatedAt  string         `json:"createdAt"`
}

// SysBoxUnreadDTO 未读数返回
type SysBoxUnreadDTO struct {
	UnreadCount int64 `json:"unreadCount"`
}

// SysBoxReadReq 标记已读请求
type SysBoxReadReq struct {
	MsgID string `json:"msgId" binding:"required"`
}
