package handler

import (
	"Amem/internal/api/dto"
	"Amem/internal/pkg/response"
	"Amem/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentSvc service.CommentService
}

func NewCommentHandler(commentSvc service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentSvc: commentSvc,
	}
}

// CreateComment 发表评论，携带 parentCommentId 时为回复
func (s *CommentHandler) CreateComment(c *gin.Context) {
	postID, ok := pathID(c, "post_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	var req dto.CommentCreateDTO
	if !bindJSON(c, &req) {
		return
	}

	comment, err := s.commentSvc.CreateComment(c.Request.Context(), currentUserID(c), postID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comment)
}

func (s *CommentHandler) ListComments(c *gin.Context) {
	postID, ok := pathID(c, "post_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	comments, err := s.commentSvc.ListComments(c.Request.Context(), currentUserID(c), postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comments)
}

func (s *CommentHandler) EditComment(c *gin.Context) {
	commentID, ok := pathID(c, "comment_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	var req dto.CommentUpdateDTO
	if !bindJSON(c, &req) {
		return
	}

	if err := s.commentSvc.EditComment(c.Request.Context(), currentUserID(c), commentID, req.Content); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *CommentHandler) DeleteComment(c *gin.Context) {
	commentID, ok := pathID(c, "comment_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.commentSvc.DeleteComment(c.Request.Context(), currentUserID(c), commentID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ToggleLike 点赞/取消点赞评论
func (s *CommentHandler) ToggleLike(c *gin.Context) {
	commentID, ok := pathID(c, "comment_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	res, err := s.commentSvc.ToggleCommentLike(c.Request.Context(), currentUserID(c), commentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *CommentHandler) GetStats(c *gin.Context) {
	commentID, ok := pathID(c, "comment_id")
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	stats, err := s.commentSvc.GetCommentStats(c.Request.Context(), currentUserID(c), commentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}
