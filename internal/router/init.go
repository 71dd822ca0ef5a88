package router

import (
	"github.com/oksasatya/go-social-api/internal/application"
	"github.com/oksasatya/go-social-api/internal/container"
	"github.com/oksasatya/go-social-api/internal/infrastructure/elastic"
	handlers "github.com/oksasatya/go-social-api/internal/interface/http"
	"github.com/oksasatya/go-social-api/internal/router/modules"
	"github.com/oksasatya/go-social-api/pkg/helpers"
)

type Deps struct {
	Auth   *application.AuthService
	Posts  *handlers.PostHandler
	Users  *handlers.UserHandler
	Login  *handlers.AuthHandler
	Upload *handlers.UploadHandler
}

func buildDeps() Deps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	users := container.GetUserRepository()
	posts := container.GetPostRepository()

	var index application.UserIndex
	if es := container.GetES(); es != nil && cfg.ESUsersIndex != "" {
		index = elastic.NewUserIndex(es, cfg.ESUsersIndex)
	}
	var identities application.IdentityCache
	if c := container.GetIdentityCache(); c != nil {
		identities = c
	}
	var store application.ObjectStore
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		store = helpers.NewGCSObjectStore(gcs, cfg.GCSBucket)
	}
	notify := &application.Notifications{
		Enabled: cfg.MailSendEnabled,
		AppName: cfg.AppName,
		AppURL:  cfg.AppURL,
		Logger:  logger,
	}
	if pub := container.GetRabbitPub(); pub != nil {
		notify.Pub = pub
	}

	presenter := application.NewPresenter(users, identities)
	authSvc := application.NewAuthService(users, container.GetJWT(), container.GetRedis(), index, logger)
	postSvc := application.NewPostService(posts, users, presenter, notify, logger, cfg.PaginationMaxLimit)
	userSvc := application.NewUserService(users, posts, presenter, index, notify, logger, cfg.PaginationMaxLimit)
	uploadSvc := application.NewUploadService(store, cfg.UploadMaxBytes)

	return Deps{
		Auth:   authSvc,
		Posts:  handlers.NewPostHandler(postSvc, logger),
		Users:  handlers.NewUserHandler(userSvc, logger),
		Login:  handlers.NewAuthHandler(authSvc, logger, cfg.CookieDomain, cfg.CookieSecure),
		Upload: handlers.NewUploadHandler(uploadSvc, logger),
	}
}

// InitModules builds every feature module from the container and adds it to r.
// It should be called once during startup, after the container is populated.
func InitModules(r *Registry) {
	d := buildDeps()
	r.Add(modules.NewHealthModule())
	r.Add(modules.NewAuthModule(d.Login, d.Auth))
	r.Add(modules.NewPostModule(d.Posts, d.Auth))
	r.Add(modules.NewUserModule(d.Users, d.Auth))
	r.Add(modules.NewUploadModule(d.Upload, d.Auth))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
