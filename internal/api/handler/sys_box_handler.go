package handler

import (
	"Amem/internal/api/dto"
	"Amem/internal/pkg/response"
	"Amem/internal/service"

	"github.com/gin-gonic/gin"
)

// SysBoxHandler 站内通知，仅在启用 MongoDB 时注册
type SysBoxHandler struct {
	sysBoxSvc service.SysBoxService
}

func NewSysBoxHandler(sysBoxSvc service.SysBoxService) *SysBoxHandler {
	return &SysBoxHandler{
		sysBoxSvc: sysBoxSvc,
	}
}

func (s *SysBoxHandler) GetNotificationList(c *gin.Context) {
	page, pageSize := pageQuery(c, 10)
	list, err := s.sysBoxSvc.GetNotificationList(c.Request.Context(), currentUserID(c), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *SysBoxHandler) GetUnreadCount(c *gin.Context) {
	unread, err := s.sysBoxSvc.GetUnreadCount(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, unread)
}

func (s *SysBoxHandler) MarkRead(c *gin.Context) {
	var req dto.SysBoxReadReq
	if !bindJSON(c, &req) {
		return
	}
	if err := s.sysBoxSvc.MarkRead(c.Request.Context(), currentUserID(c), req.MsgID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// MarkAllRead 返回本次标记的条数
func (s *SysBoxHandler) MarkAllRead(c *gin.Context) {
	updated, err := s.sysBoxSvc.MarkAllRead(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"updated": updated})
}
