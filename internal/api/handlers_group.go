package api

import "Amem/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	UserHandler    *handler.UserHandler
	PostHandler    *handler.PostHandler
	CommentHandler *handler.CommentHandler
	SysBoxHandler  *handler.SysBoxHandler // MongoDB 未启用时为 nil
}
