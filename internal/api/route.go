package api

import (
	"Amem/internal/api/config"
	"Amem/internal/api/middleware"
	"Amem/internal/pkg/logger"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRouter(group *HandlersGroup, cfg *config.Config) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Metrics & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.MetricsMiddleware())
	logger.SetupGin(r, cfg.Logstash.Index)
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	r.Use(sessions.Sessions(cfg.Session.Name, newSessionStore(cfg.Session)))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"code":    200,
				"message": "pong",
				"data":    nil,
			})
		})

		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/register", group.UserHandler.Register)
			authGroup.POST("/login", group.UserHandler.Login)

			loginGroup := authGroup.Group("")
			loginGroup.Use(middleware.AuthMiddleware())
			{
				loginGroup.POST("/logout", group.UserHandler.Logout)
				loginGroup.GET("/user", group.UserHandler.GetUserInfo)
			}
		}

		postGroup := apiGroup.Group("/posts")
		{
			authOptGroup := postGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("", group.PostHandler.ListPosts)
				authOptGroup.GET("/:post_id", group.PostHandler.GetPost)
				authOptGroup.GET("/:post_id/stats", group.PostHandler.GetStats)
				authOptGroup.GET("/:post_id/comments", group.CommentHandler.ListComments)
			}

			authGroup := postGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.PostHandler.CreatePost)
				authGroup.PUT("/:post_id", group.PostHandler.UpdatePostContent)
				authGroup.DELETE("/:post_id", group.PostHandler.DeletePost)
				authGroup.POST("/:post_id/like", group.PostHandler.LikePost)
				authGroup.POST("/:post_id/share", group.PostHandler.SharePost)
				authGroup.POST("/:post_id/comments", group.CommentHandler.CreateComment)
			}
		}

		commentGroup := apiGroup.Group("/comments")
		{
			commentGroup.GET("/:comment_id/stats", middleware.AuthOptionalMiddleware(), group.CommentHandler.GetStats)

			authGroup := commentGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.PUT("/:comment_id", group.CommentHandler.EditComment)
				authGroup.DELETE("/:comment_id", group.CommentHandler.DeleteComment)
				authGroup.POST("/:comment_id/like", group.CommentHandler.ToggleLike)
			}
		}

		if group.SysBoxHandler != nil {
			sysbox := apiGroup.Group("/sysbox")
			sysbox.Use(middleware.AuthMiddleware())
			{
				sysbox.GET("/list", group.SysBoxHandler.GetNotificationList)
				sysbox.GET("/unread", group.SysBoxHandler.GetUnreadCount)
				sysbox.POST("/read", group.SysBoxHandler.MarkRead)
				sysbox.POST("/read/all", group.SysBoxHandler.MarkAllRead)
			}
		}
	}

	return r
}

func newSessionStore(cfg config.SessionConfig) sessions.Store {
	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.MaxAge,
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return store
}
