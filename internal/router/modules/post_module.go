package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-social-api/internal/container"
	handlers "github.com/oksasatya/go-social-api/internal/interface/http"
	"github.com/oksasatya/go-social-api/internal/interface/middleware"
)

// PostModule serves /posts. Reads are public with optional viewer
// resolution; writes require a token.
type PostModule struct {
	Handler  *handlers.PostHandler
	Resolver middleware.TokenResolver
}

func NewPostModule(h *handlers.PostHandler, resolver middleware.TokenResolver) *PostModule {
	return &PostModule{Handler: h, Resolver: resolver}
}

func (m *PostModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	public := rg.Group("/posts")
	public.Use(
		middleware.OptionalAuth(m.Resolver),
		middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByIP(), nil),
	)
	{
		public.GET("", m.Handler.List)
		public.GET("/:id", m.Handler.Get)
	}

	auth := rg.Group("/posts")
	auth.Use(
		middleware.Authenticate(m.Resolver),
		middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.POST("", m.Handler.Create)
		auth.PUT("/:id", m.Handler.Update)
		auth.DELETE("/:id", m.Handler.Delete)
		auth.POST("/:id/like", m.Handler.Like)
		auth.POST("/:id/comment", m.Handler.Comment)
	}
}
