package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-social-api/internal/container"
	handlers "github.com/oksasatya/go-social-api/internal/interface/http"
	"github.com/oksasatya/go-social-api/internal/interface/middleware"
)

type UploadModule struct {
	Handler  *handlers.UploadHandler
	Resolver middleware.TokenResolver
}

func NewUploadModule(h *handlers.UploadHandler, resolver middleware.TokenResolver) *UploadModule {
	return &UploadModule{Handler: h, Resolver: resolver}
}

func (m *UploadModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/upload")
	auth.Use(
		middleware.Authenticate(m.Resolver),
		middleware.RateLimit(container.GetRedis(), 20, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.POST("/image", m.Handler.Image)
	}
}
