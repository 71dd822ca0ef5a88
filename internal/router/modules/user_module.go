package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-social-api/internal/container"
	handlers "github.com/oksasatya/go-social-api/internal/interface/http"
	"github.com/oksasatya/go-social-api/internal/interface/middleware"
)

type UserModule struct {
	Handler  *handlers.UserHandler
	Resolver middleware.TokenResolver
}

func NewUserModule(h *handlers.UserHandler, resolver middleware.TokenResolver) *UserModule {
	return &UserModule{Handler: h, Resolver: resolver}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	public := rg.Group("/users")
	public.Use(middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByIP(), nil))
	{
		public.GET("", m.Handler.List)
		public.GET("/search/:username", middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByIPAndPath(), nil), m.Handler.Search)
		public.GET("/:id", m.Handler.Get)
		public.GET("/:id/following", m.Handler.Following)
		public.GET("/:id/followers", m.Handler.Followers)
	}

	auth := rg.Group("/users")
	auth.Use(
		middleware.Authenticate(m.Resolver),
		middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.POST("/:id/follow", m.Handler.Follow)
		auth.POST("/:id/unfollow", m.Handler.Unfollow)
	}
}
