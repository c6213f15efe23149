package handler

import (
	"Amem/internal/api/dto"
	"Amem/internal/pkg/response"
	"Amem/internal/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postSvc service.PostService
}

func NewPostHandler(postSvc service.PostService) *PostHandler {
	return &PostHandler{
		postSvc: postSvc,
	}
}

func (s *PostHandler) ListPosts(c *gin.Context) {
	page, pageSize := pageQuery(c, 20)

	posts, err := s.postSvc.ListPosts(c.Request.Context(), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, posts)
}

func (s *PostHandler) CreatePost(c *gin.Context) {
	var req dto.PostCreateDTO
	if !bindJSON(c, &req) {
		return
	}

	post, err := s.postSvc.CreatePost(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

func (s *PostHandler) GetPost(c *gin.Context) {
	postID, ok := pathID(c, "post_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	post, err := s.postSvc.GetPost(c.Request.Context(), postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

func (s *PostHandler) UpdatePostContent(c *gin.Context) {
	postID, ok := pathID(c, "post_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	var req dto.PostUpdateDTO
	if !bindJSON(c, &req) {
		return
	}

	if err := s.postSvc.UpdatePost(c.Request.Context(), currentUserID(c), postID, &req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *PostHandler) DeletePost(c *gin.Context) {
	postID, ok := pathID(c, "post_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.postSvc.DeletePost(c.Request.Context(), currentUserID(c), postID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// LikePost 帖子 Amém 点赞切换
func (s *PostHandler) LikePost(c *gin.Context) {
	postID, ok := pathID(c, "post_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	res, err := s.postSvc.TogglePostLike(c.Request.Context(), currentUserID(c), postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *PostHandler) SharePost(c *gin.Context) {
	postID, ok := pathID(c, "post_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.postSvc.SharePost(c.Request.Context(), currentUserID(c), postID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *PostHandler) GetStats(c *gin.Context) {
	postID, ok := pathID(c, "post_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	stats, err := s.postSvc.GetPostStats(c.Request.Context(), currentUserID(c), postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}
