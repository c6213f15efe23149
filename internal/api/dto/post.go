package dto

// PostCreateDTO 发帖请求
type PostCreateDTO struct {
	Content   string `json:"content" binding:"required,max=5000"`
	ImageURL  string `json:"imageUrl" binding:"omitempty,url,max=512"`
	Community string `json:"community" binding:"max=50"`
}

// PostUpdateDTO 编辑帖子请求
type PostUpdateDTO struct {
	Content string `json:"content" binding:"required,max=5000"`
}

// PostDTO 帖子详情
type PostDTO struct {
	ID            uint64 `json:"id"`
	UserID        uint64 `json:"userId"`
	Nickname      string `json:"nickname"`
	Content       string `json:"content"`
	ContentHTML   string `json:"contentHtml"`
	ImageURL      string `json:"imageUrl"`
	PostType      string `json:"postType"`
	Community     string `json:"community"`
	LikesCount    int64  `json:"likesCount"`
	CommentsCount int64  `json:"commentsCount"`
	SharesCount   int64  `json:"sharesCount"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

// PostListDTO 帖子分页列表
type PostListDTO struct {
	List     []*PostDTO `json:"list"`
	Page     int        `json:"page"`
	PageSize int        `json:"pageSize"`
}

// PostStatsDTO 帖子统计
type PostStatsDTO struct {
	LikesCount    int64 `json:"likesCount"`
	CommentsCount int64 `json:"commentsCount"`
	SharesCount   int64 `json:"sharesCount"`
	UserLiked     bool  `json:"userLiked"`
}
