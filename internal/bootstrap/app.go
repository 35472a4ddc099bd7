package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/newsdesk/newsroom/internal/api/http"
	"github.com/newsdesk/newsroom/internal/api/http/handlers"
	"github.com/newsdesk/newsroom/internal/auth"
	"github.com/newsdesk/newsroom/internal/cache"
	"github.com/newsdesk/newsroom/internal/config"
	"github.com/newsdesk/newsroom/internal/envelope"
	"github.com/newsdesk/newsroom/internal/events"
	"github.com/newsdesk/newsroom/internal/observability"
	"github.com/newsdesk/newsroom/internal/persistence"
	"github.com/newsdesk/newsroom/internal/service"
	"github.com/newsdesk/newsroom/internal/web"
	"github.com/newsdesk/newsroom/internal/worker"
)

// Services bundles the domain services.
type Services struct {
	Auth     *service.AuthService
	Articles *service.ArticleService
	Comments *service.CommentService
	Users    *service.UserService
	Roles    *service.RoleService
}

// App is a fully wired HTTP application.
type App struct {
	Fiber    *fiber.App
	Services Services
	Tokens   *auth.TokenManager
	Envelope *envelope.Envelope
	Metrics  *observability.Metrics

	storage *Storage
	redis   *persistence.Redis
}

// New opens storage and Redis, then builds the fiber app.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	storage, err := OpenStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	redis := persistence.NewRedis(cfg.Redis, logger)

	app, err := Assemble(cfg, logger, storage, redis)
	if err != nil {
		redis.Close()
		storage.Close()
		return nil, err
	}
	return app, nil
}

// Assemble builds the application over an already opened backend. A nil
// redis keeps the replay guard and front-page cache in process.
func Assemble(cfg *config.Config, logger *zap.Logger, storage *Storage, redis *persistence.Redis) (*App, error) {
	env, err := envelope.New(cfg.Envelope.Key, envelope.WithMaxAge(cfg.Envelope.MaxAge()))
	if err != nil {
		return nil, fmt.Errorf("envelope: %w", err)
	}
	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, err
	}

	var replay envelope.ReplayGuard
	switch {
	case !cfg.Envelope.ReplayProtection:
	case redis != nil:
		replay = redis
	default:
		replay = envelope.NewMemoryReplayGuard()
	}

	repos := storage.Repos
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL(), cfg.App.Name)
	dispatcher := events.NewInMemoryDispatcher()
	frontPage := cache.New(redis, cache.DefaultTTL)
	worker.StartAuditWorker(dispatcher, logger)
	worker.StartFrontPageInvalidator(dispatcher, frontPage, logger)

	services := Services{
		Auth: service.NewAuthService(service.AuthDependencies{
			UserRepo:   repos.Users,
			Tokens:     tokens,
			BcryptCost: cfg.Auth.BcryptCost,
			Dispatcher: dispatcher,
			Logger:     logger,
		}),
		Articles: service.NewArticleService(service.ArticleDependencies{
			ArticleRepo: repos.Articles,
			FrontPage:   frontPage,
			Dispatcher:  dispatcher,
			Logger:      logger,
		}),
		Comments: service.NewCommentService(service.CommentDependencies{
			CommentRepo: repos.Comments,
			ArticleRepo: repos.Articles,
			Dispatcher:  dispatcher,
			Logger:      logger,
		}),
		Users: service.NewUserService(service.UserDependencies{
			UserRepo:   repos.Users,
			RoleRepo:   repos.Roles,
			BcryptCost: cfg.Auth.BcryptCost,
			Dispatcher: dispatcher,
			Logger:     logger,
		}),
		Roles: service.NewRoleService(repos.Roles),
	}

	metrics := observability.NewMetrics()
	payloads := handlers.NewPayloadReader(env, replay)
	guard := auth.NewGuard(repos.Users)

	deps := map[string]handlers.Pinger{storage.Driver: storage}
	if redis != nil {
		deps["redis"] = redis
	}

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
		BodyLimit:             8 * 1024 * 1024,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps, metrics),
		Auth: handlers.NewAuthHandler(services.Auth, payloads, handlers.CookieConfig{
			Name:     cfg.Auth.CookieName,
			HTTPOnly: cfg.Auth.CookieHTTPOnly,
			Secure:   cfg.App.IsProduction(),
			MaxAge:   tokens.TTL(),
		}),
		Articles: handlers.NewArticlesHandler(services.Articles, payloads),
		Comments: handlers.NewCommentsHandler(services.Comments, payloads),
		Users:    handlers.NewUsersHandler(services.Users, payloads),
		Roles:    handlers.NewRolesHandler(services.Roles),
		Pages: handlers.NewPagesHandler(handlers.PagesDependencies{
			Renderer: renderer,
			Articles: services.Articles,
			Comments: services.Comments,
			Users:    services.Users,
			Roles:    services.Roles,
		}),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, guard, cfg.Auth.CookieName),
		Gate:           auth.DashboardGate(tokens, cfg.Auth.CookieName, httptransport.DashboardPrefix),
	})

	return &App{
		Fiber:    app,
		Services: services,
		Tokens:   tokens,
		Envelope: env,
		Metrics:  metrics,
		storage:  storage,
		redis:    redis,
	}, nil
}

// Shutdown stops the HTTP server and releases backends.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.Fiber.ShutdownWithContext(ctx)
	a.redis.Close()
	a.storage.Close()
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("shutdown timed out: %w", err)
	}
	return err
}
