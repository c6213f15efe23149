package middleware

import (
	"Amem/internal/pkg/consts"
	"Amem/internal/pkg/logger"
	"Amem/internal/pkg/redis"
	"Amem/internal/pkg/response"
	"Amem/internal/pkg/security"
	"context"
	"errors"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

var (
	errTokenMalformed = errors.New("Token 缺失或格式错误")
	errTokenRevoked   = errors.New("Token 无效或已过期")
)

// AuthMiddleware 要求登录：优先读取会话，其次校验 Bearer Token
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := resolveUserID(c)
		if err != nil {
			if errors.Is(err, errTokenMalformed) || errors.Is(err, errTokenRevoked) {
				response.Fail(c, response.Unauthorized, err.Error())
			} else {
				response.Fail(c, response.InternalServerError, "未知错误")
			}
			c.Abort()
			return
		}
		if userID == 0 {
			response.Fail(c, response.Unauthorized, "请先登录")
			c.Abort()
			return
		}

		setUserID(c, userID)
		c.Next()
	}
}

// AuthOptionalMiddleware 可选鉴权：解析成功注入 UID，失败或缺失则 UID 为 0
func AuthOptionalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := resolveUserID(c)
		if err != nil {
			userID = 0
		}
		setUserID(c, userID)
		c.Next()
	}
}

func resolveUserID(c *gin.Context) (uint64, error) {
	if id, ok := sessions.Default(c).Get(consts.UserIDKey).(uint64); ok && id > 0 {
		return id, nil
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return 0, nil
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return 0, errTokenMalformed
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	signature, err := security.ExtractSignature(tokenString)
	if err != nil {
		return 0, errTokenMalformed
	}
	revoked, err := redis.Exists(c.Request.Context(), consts.TokenBlacklistKey+signature)
	if err != nil {
		return 0, err
	}
	if revoked {
		return 0, errTokenRevoked
	}

	claims, err := security.ValidateToken(tokenString)
	if err != nil {
		return 0, errTokenRevoked
	}
	return claims.UserID, nil
}

func setUserID(c *gin.Context, userID uint64) {
	c.Set(consts.UserIDKey, userID)
	if userID > 0 {
		ctx := context.WithValue(c.Request.Context(), logger.UserIDKey, userID)
		c.Request = c.Request.WithContext(ctx)
	}
}

// BearerToken 返回请求中携带的 Token，没有时为空串
func BearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(authHeader, "Bearer ")
}
