package dto

// CommentCreateDTO 创建评论/回复请求
type CommentCreateDTO struct {
	Content         string  `json:"content" binding:"max=1000"`
	ParentCommentID *uint64 `json:"parentCommentId"` // 为空表示一级评论
}

// CommentUpdateDTO 编辑评论请求
type CommentUpdateDTO struct {
	Content string `json:"content" binding:"max=1000"`
}

// CommentDTO 评论返回详情，一级评论携带按时间排序的回复
type CommentDTO struct {
	ID              uint64  `json:"id"`
	PostID          uint64  `json:"postId"`
	UserID          uint64  `json:"userId"`
	Nickname        string  `json:"nickname"`
	Content         string  `json:"content"`
	ContentHTML     string  `json:"contentHtml"`
	ParentCommentID *uint64 `json:"parentCommentId"`
	LikesCount      int64   `json:"likesCount"`
	UserLiked       bool    `json:"userLiked"`
	Edited          bool    `json:"edited"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`

	Replies []*CommentDTO `json:"replies"`
}

// CommentStatsDTO 评论统计
type CommentStatsDTO struct {
	LikesCount int64 `json:"likesCount"`
	UserLiked  bool  `json:"userLiked"`
}

// LikeToggleDTO 点赞切换结果
type LikeToggleDTO struct {
	Liked bool `json:"liked"`
}
