package app

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/schoolboard/core/internal/middleware"
	"github.com/schoolboard/core/internal/models"
	"github.com/schoolboard/core/internal/modules/assistant"
	"github.com/schoolboard/core/internal/modules/auth"
	appconfigs "github.com/schoolboard/core/internal/modules/configs"
	"github.com/schoolboard/core/internal/modules/content/notice"
	"github.com/schoolboard/core/internal/modules/content/page"
	"github.com/schoolboard/core/internal/modules/dashboard/workspace"
	"github.com/schoolboard/core/internal/modules/gateway"
	"github.com/schoolboard/core/internal/modules/layout/carousel"
	"github.com/schoolboard/core/internal/modules/layout/menu"
	"github.com/schoolboard/core/internal/modules/layout/sidebar"
	"github.com/schoolboard/core/internal/modules/layout/widget"
	"github.com/schoolboard/core/internal/modules/navigate"
	"github.com/schoolboard/core/internal/modules/storage/media"
	pkgredis "github.com/schoolboard/core/internal/pkg/redis"
	"github.com/schoolboard/core/internal/pkg/response"
	"go.uber.org/zap"
)

func (a *App) registerRoutes(rc *pkgredis.Client) {
	r := a.router
	db := a.db
	authMW := middleware.Auth(db)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	appInfo := gin.H{
		"name":     "schoolboard-core",
		"version":  "1.0.0",
		"homepage": "https://github.com/schoolboard/core",
	}

	apiPrefix := "/api/v1"

	// Rate limiting and idempotence run on every route (requires Redis).
	r.Use(middleware.RateLimit(rc, nil))
	r.Use(middleware.Idempotence(rc, &middleware.IdempotenceOptions{
		SkipPaths: []string{
			apiPrefix + "/auth/login",
			apiPrefix + "/assistant",
		},
	}))

	// Shared services
	cfgSvc := appconfigs.NewService(db)
	noticeSvc := notice.NewService(db)
	pageSvc := page.NewService(db)
	carouselSvc := carousel.NewService(db)
	widgetSvc := widget.NewService(db)
	sidebarSvc := sidebar.NewService(db)
	menuSvc := menu.NewService(db)

	// Dashboard workspace collections. Every board surface an editor can
	// rearrange goes through the same draft/commit cycle.
	registry := workspace.NewRegistry()
	registry.Register(workspace.NewCollection("notices",
		func(ctx context.Context) ([]json.RawMessage, error) {
			return noticeSvc.FetchAll(ctx, models.NoticeKindNotice)
		},
		func(ctx context.Context, docs []json.RawMessage) error {
			return noticeSvc.ReplaceAll(ctx, models.NoticeKindNotice, docs)
		},
	))
	registry.Register(workspace.NewCollection("news",
		func(ctx context.Context) ([]json.RawMessage, error) {
			return noticeSvc.FetchAll(ctx, models.NoticeKindNews)
		},
		func(ctx context.Context, docs []json.RawMessage) error {
			return noticeSvc.ReplaceAll(ctx, models.NoticeKindNews, docs)
		},
	))
	registry.Register(workspace.NewCollection("pages", pageSvc.FetchAll, pageSvc.ReplaceAll))
	registry.Register(workspace.NewCollection("carousel", carouselSvc.FetchAll, carouselSvc.ReplaceAll))
	registry.Register(workspace.NewCollection("widgets", widgetSvc.FetchAllWidgets, widgetSvc.ReplaceAllWidgets))
	registry.Register(workspace.NewCollection("info-cards", widgetSvc.FetchAllInfoCards, widgetSvc.ReplaceAllInfoCards))
	registry.Register(workspace.NewNormalizedCollection("sidebar",
		sidebarSvc.FetchAll, sidebarSvc.ReplaceAll, sidebarSvc.Normalize))
	registry.Register(workspace.NewNormalizedCollection("menu",
		menuSvc.FetchAll, menuSvc.ReplaceAll, menuSvc.Normalize))

	workspaceSvc := workspace.NewService(registry, a.logger)
	workspaceSvc.OnCommit(func(collection string) {
		ctx, cancelPurge := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelPurge()
		if err := middleware.PurgeHTTPCache(ctx, rc, apiPrefix); err != nil {
			a.logger.Warn("api cache purge after commit failed", zap.Error(err))
		}
		a.hub.BroadcastCollectionUpdated(collection)
	})
	a.workspace = workspaceSvc

	navigateSvc := navigate.NewService(noticeSvc, pageSvc, carouselSvc, widgetSvc, sidebarSvc, menuSvc)
	assistantSvc := assistant.NewService(cfgSvc)
	mediaSvc := media.NewService(cfgSvc, a.cfg.StaticDir)

	// Root-level endpoints (socket.io lives outside the versioned API).
	root := r.Group("")
	gateway.RegisterRoutes(root, a.hub)

	// Versioned API
	api := r.Group(apiPrefix)
	api.Use(middleware.OptionalAuth(db))
	api.Use(middleware.HTTPCache(rc, &middleware.HTTPCacheOptions{
		TTL:       15 * time.Second,
		SkipPaths: httpCacheSkipPaths(apiPrefix),
	}))

	api.GET("", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/info", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })
	api.GET("/uptime", func(c *gin.Context) {
		uptime := time.Since(processStart)
		c.JSON(http.StatusOK, gin.H{
			"timestamp": uptime.Milliseconds(),
			"humanize":  humanizeDuration(uptime),
		})
	})

	api.GET("/clean_cache", authMW, func(c *gin.Context) {
		cfgSvc.Invalidate()
		if err := middleware.PurgeHTTPCache(c.Request.Context(), rc, ""); err != nil {
			response.InternalError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	// Config
	appconfigs.NewHandler(cfgSvc).RegisterRoutes(api, authMW)

	// Auth
	auth.NewHandler(auth.NewService(db), cfgSvc).RegisterRoutes(api, authMW)

	// Content
	notice.NewHandler(noticeSvc).RegisterRoutes(api, authMW)
	page.NewHandler(pageSvc).RegisterRoutes(api, authMW)

	// Layout surfaces
	carousel.NewHandler(carouselSvc).RegisterRoutes(api, authMW)
	widget.NewHandler(widgetSvc).RegisterRoutes(api, authMW)
	sidebar.NewHandler(sidebarSvc).RegisterRoutes(api, authMW)
	menu.NewHandler(menuSvc).RegisterRoutes(api, authMW)

	// Dashboard
	workspace.NewHandler(workspaceSvc).RegisterRoutes(api, authMW)

	// Client routing
	navigate.NewHandler(navigateSvc).RegisterRoutes(api, authMW)

	// Assistant proxy
	assistant.NewHandler(assistantSvc).RegisterRoutes(api, authMW)

	// Media
	media.NewHandler(mediaSvc).RegisterRoutes(api, authMW)
}

// httpCacheSkipPaths lists API subtrees that must never be served from
// the shared response cache: anything session-bound, streaming, or
// mutating through GET-adjacent verbs.
func httpCacheSkipPaths(prefix string) []string {
	return []string{
		prefix + "/auth",
		prefix + "/workspace",
		prefix + "/assistant",
		prefix + "/configs/all",
		prefix + "/media",
	}
}
