package handler

import (
	"Amem/internal/api/dto"
	"Amem/internal/api/middleware"
	"Amem/internal/pkg/consts"
	"Amem/internal/pkg/response"
	"Amem/internal/pkg/util"
	"Amem/internal/service"
	log "log/slog"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userSvc service.UserService
}

func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{
		userSvc: userSvc,
	}
}

func (s *UserHandler) Register(c *gin.Context) {
	var registerDTO dto.RegisterDTO
	if !bindJSON(c, &registerDTO) {
		return
	}
	if err := util.ValidateDTO(&registerDTO); err != nil {
		response.Fail(c, response.BadRequest, err.Error())
		return
	}

	user, err := s.userSvc.Register(c.Request.Context(), &registerDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

// Login 登录成功后写入会话，同时返回 token 供非浏览器客户端使用
func (s *UserHandler) Login(c *gin.Context) {
	var loginDTO dto.CredentialDTO
	if !bindJSON(c, &loginDTO) {
		return
	}

	res, err := s.userSvc.Login(c.Request.Context(), &loginDTO)
	if err != nil {
		response.Error(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(consts.UserIDKey, res.User.ID)
	if err = session.Save(); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *UserHandler) Logout(c *gin.Context) {
	if token := middleware.BearerToken(c); token != "" {
		if err := s.userSvc.Logout(c.Request.Context(), token); err != nil {
			response.Error(c, err)
			return
		}
	}

	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		log.WarnContext(c.Request.Context(), "clear session failed", "err", err)
	}
	response.Success(c, nil)
}

func (s *UserHandler) GetUserInfo(c *gin.Context) {
	user, err := s.userSvc.GetUserInfo(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}
