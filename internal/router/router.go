package router

import (
	"threadnest/internal/handler"
	"threadnest/internal/middleware"

	"github.com/gin-gonic/gin"
)

func InitRouter(
	sessionSecret []byte,
	webhookH *handler.WebhookHandler,
	userH *handler.UserHandler,
	threadH *handler.ThreadHandler,
	communityH *handler.CommunityHandler,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	// webhook接口: public, verification happens inside the handler
	r.POST("/api/webhook/clerk", webhookH.Handle)

	auth := middleware.AuthMiddleware(sessionSecret)

	// 页面相关接口
	pages := r.Group("/")
	pages.Use(auth)
	{
		pages.GET("/", threadH.Home)
		pages.GET("/communities", communityH.Communities)
		pages.GET("/onboarding", userH.Onboarding)
	}

	// 用户相关接口
	userGroup := r.Group("/api/user")
	userGroup.Use(auth)
	{
		userGroup.POST("/onboard", userH.Onboard)
	}

	// 帖子相关接口
	threadGroup := r.Group("/api/thread")
	threadGroup.Use(auth)
	{
		threadGroup.POST("/create", threadH.Create)
		threadGroup.GET("/:id", threadH.Get)
	}

	// 社区相关接口
	communityGroup := r.Group("/api/community")
	communityGroup.Use(auth)
	{
		communityGroup.GET("/:id", communityH.Detail)
	}

	return r
}
