package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-studio/components/dashboard"
	dashcommands "github.com/goliatone/go-studio/components/dashboard/commands"
	dashrouter "github.com/goliatone/go-studio/components/dashboard/gorouter"
	dashapi "github.com/goliatone/go-studio/components/dashboard/httpapi"
	"github.com/goliatone/go-studio/components/dashboard/rediscache"
	"github.com/goliatone/go-studio/components/dashboard/sqlstore"
	"github.com/goliatone/go-studio/components/studio"
	"github.com/goliatone/go-studio/components/studio/commands"
	studiorouter "github.com/goliatone/go-studio/components/studio/gorouter"
	studioapi "github.com/goliatone/go-studio/components/studio/httpapi"
	"github.com/goliatone/go-studio/components/studio/queries"
	"github.com/goliatone/go-studio/pkg/activity"
	"github.com/goliatone/go-studio/pkg/activity/usersink"
	"github.com/goliatone/go-studio/pkg/api"
	"github.com/goliatone/go-studio/pkg/auth"
	"github.com/goliatone/go-studio/pkg/config"
	"github.com/goliatone/go-studio/pkg/database"
	"github.com/goliatone/go-studio/pkg/goadmin"
	"github.com/goliatone/go-studio/pkg/telemetry"
)

const shutdownTimeout = 10 * time.Second

type pageServer interface {
	Serve(address string) error
}

// server holds both listeners: go-router (fiber) for pages and the
// dashboard API, net/http for uploads, exports, SSE and metrics.
type server struct {
	cfg       *config.Config
	log       *zap.Logger
	service   *dashboard.Service
	broadcast *dashboard.BroadcastHook
	metrics   *telemetry.Metrics
	pages     pageServer
	api       *http.Server
	handler   http.Handler
	publisher *rediscache.Publisher
	closers   []func() error
}

func build(ctx context.Context, cfg *config.Config, log *zap.Logger) (*server, error) {
	s := &server{cfg: cfg, log: log, metrics: telemetry.NewMetrics()}
	recorder := telemetry.Multi{telemetry.NewLogger(log), s.metrics}
	base := cfg.Server.BasePath

	sources, err := s.sources()
	if err != nil {
		return nil, err
	}

	var cache dashboard.RenderCache = dashboard.NewChartCache(cfg.Charts.CacheTTL)
	if cfg.Redis.Enabled {
		client, err := database.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, client.Close)
		if cache, s.publisher, err = redisBackends(client, cfg, log); err != nil {
			s.Close()
			return nil, err
		}
	}

	registry := dashboard.NewRegistry()
	if err := dashboard.UseChartRenderer(registry, cfg.Charts.Renderer, cache); err != nil {
		s.Close()
		return nil, err
	}
	pages := studio.NewPages(studio.PagesOptions{Sources: sources, Logger: log})
	if err := studio.RegisterProviders(registry, studio.ProviderDeps{
		Pages:    pages,
		Renderer: cfg.Charts.Renderer,
		Cache:    cache,
		Logger:   log,
	}); err != nil {
		s.Close()
		return nil, err
	}
	var seeds []dashboard.AddWidgetRequest
	if cfg.Server.Manifest != "" {
		doc, err := registry.LoadManifestFile(cfg.Server.Manifest)
		if err != nil {
			s.Close()
			return nil, err
		}
		seeds = doc.SeedRequests()
	}

	s.broadcast = dashboard.NewBroadcastHook()
	hooks := dashboard.RefreshHooks{s.broadcast}
	if s.publisher != nil {
		hooks = append(hooks, &dashboard.PublishHook{Publisher: s.publisher, Channel: cfg.Redis.Channel})
	}
	activityHooks := activity.Hooks{activity.LogHook(log)}
	activityCfg := activity.Config{Enabled: true}
	var (
		widgetStore dashboard.WidgetStore = dashboard.NewInMemoryWidgetStore()
		prefStore   dashboard.PreferenceStore
	)
	if cfg.Database.Driver != "" {
		db, err := database.Open(ctx, cfg.Database)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.closers = append(s.closers, db.Close)
		store, err := layoutStore(ctx, db)
		if err != nil {
			s.Close()
			return nil, err
		}
		widgetStore, prefStore = store, store
		activityHooks = append(activityHooks, usersink.Hook{Sink: sqlstore.NewActivityLog(db)})
	}

	opts := dashboard.Options{
		Authorizer:     dashboard.RoleAuthorizer{Registry: registry},
		Providers:      registry,
		RefreshHook:    hooks,
		Telemetry:      recorder,
		ActivityHooks:  activityHooks,
		ActivityConfig: activityCfg,
		WidgetStore:    widgetStore,
		Logger:         log,
	}
	if prefStore != nil {
		opts.PreferenceStore = prefStore
	}
	s.service = dashboard.NewService(opts)
	seed := dashcommands.NewSeedDashboardCommand(s.service, recorder)
	if err := seed.Execute(ctx, dashcommands.SeedDashboardInput{SeedLayout: true, Extra: seeds}); err != nil {
		s.Close()
		return nil, fmt.Errorf("studio: bootstrap dashboard: %w", err)
	}

	admin, err := goadmin.New(goadmin.Config{
		EnableDashboard: true,
		Service:         s.service,
		MenuBuilder:     logMenuBuilder{log: log},
		BasePath:        base,
	})
	if err != nil {
		s.Close()
		return nil, err
	}
	if err := admin.Bootstrap(ctx); err != nil {
		s.Close()
		return nil, err
	}

	renderer, err := dashboard.NewTemplateRenderer()
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("studio: templates: %w", err)
	}
	controller := dashboard.NewController(dashboard.ControllerOptions{
		Service:     s.service,
		Renderer:    renderer,
		Definitions: registry,
		Menu:        admin.Menu,
	})

	signer, err := auth.NewSigner(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.Expiration)
	if err != nil {
		s.Close()
		return nil, err
	}
	moderator := studio.NewModerator(studio.ModeratorOptions{
		Sources:   sources,
		Activity:  activity.NewEmitter(activityHooks, activityCfg),
		Telemetry: recorder,
		Logger:    log,
		Avatar:    uploadLimits(studio.AvatarLimits, cfg.Uploads.MaxAvatarBytes, cfg.Uploads.AvatarTypes),
		Demo:      uploadLimits(studio.DemoLimits, cfg.Uploads.MaxDemoBytes, cfg.Uploads.DemoTypes),
	})
	pageQuery := queries.NewPageQuery(pages)
	myContent := queries.NewMyContentQuery(pages)
	resolve := viewerResolver(signer, cfg.Auth.CookieName)

	executor := dashapi.NewCommandExecutor(s.service, recorder)
	editors := []string{string(studio.RoleAdmin)}
	fiberServer := router.NewFiberAdapter()
	s.pages = fiberServer
	appRouter := fiberServer.Router()
	if err := dashrouter.Register(dashrouter.Config[*fiber.App]{
		Router:         appRouter,
		Controller:     controller,
		API:            executor,
		Broadcast:      s.broadcast,
		ViewerResolver: resolve,
		BasePath:       base,
		Editors:        editors,
	}); err != nil {
		s.Close()
		return nil, err
	}
	if err := studiorouter.Mount(appRouter.Group(base), studiorouter.Options{
		Controller:      controller,
		Pages:           pageQuery,
		Overview:        queries.NewOverviewQuery(pages),
		MyContent:       myContent,
		ApproveComment:  commands.NewApproveCommentCommand(moderator),
		DeleteComment:   commands.NewDeleteCommentCommand(moderator),
		ContentStatus:   commands.NewUpdateContentStatusCommand(moderator),
		RecordingStatus: commands.NewUpdateRecordingStatusCommand(moderator),
		ViewerResolver:  resolve,
		BasePath:        base,
	}); err != nil {
		s.Close()
		return nil, err
	}

	handlers := &studioapi.Handlers{
		Upload:       commands.NewUploadCommand(moderator),
		Submit:       commands.NewSubmitContentCommand(moderator),
		Recording:    commands.NewCreateRecordingRequestCommand(moderator),
		Profile:      commands.NewUpdateProfileCommand(moderator),
		Pages:        pageQuery,
		MyContent:    myContent,
		Actor:        requestActor,
		ShareBaseURL: cfg.Server.ShareBaseURL,
		Avatar:       uploadLimits(studio.AvatarLimits, cfg.Uploads.MaxAvatarBytes, cfg.Uploads.AvatarTypes),
		Demo:         uploadLimits(studio.DemoLimits, cfg.Uploads.MaxDemoBytes, cfg.Uploads.DemoTypes),
		Logger:       log,
	}
	widgets := &dashapi.Handlers{API: executor, Viewer: requestViewer, Editors: editors}
	s.handler = apiHandler(base, apiRoutes{handlers, widgets}, s.broadcast, s.metrics, signer, cfg.Auth.CookieName)
	s.api = &http.Server{
		Addr:        cfg.Server.APIAddr,
		Handler:     s.handler,
		ReadTimeout: cfg.Server.ReadTimeout,
		// WriteTimeout stays unset: SSE responses are long lived.
	}
	return s, nil
}

func (s *server) sources() (studio.Sources, error) {
	if s.cfg.API.UseMock {
		s.log.Warn("serving demo data from the mock API client")
		return api.NewMockClient(api.DemoData(time.Now())).Sources(), nil
	}
	client, err := api.NewClient(api.Config{
		BaseURL:  s.cfg.API.BaseURL,
		Token:    api.FirstToken(api.ContextToken, api.StaticToken(s.cfg.API.Token)),
		Timeout:  s.cfg.API.Timeout,
		Logger:   s.log.Named("api"),
		Observer: s.metrics,
	})
	if err != nil {
		return studio.Sources{}, err
	}
	return client.Sources(), nil
}

func redisBackends(client redis.UniversalClient, cfg *config.Config, log *zap.Logger) (dashboard.RenderCache, *rediscache.Publisher, error) {
	cache, err := rediscache.NewCache(client, rediscache.Options{TTL: cfg.Charts.CacheTTL, Logger: log})
	if err != nil {
		return nil, nil, err
	}
	publisher, err := rediscache.NewPublisher(client, log)
	if err != nil {
		return nil, nil, err
	}
	return cache, publisher, nil
}

func layoutStore(ctx context.Context, db *sqlx.DB) (*sqlstore.Store, error) {
	if err := sqlstore.Migrate(ctx, db); err != nil {
		return nil, err
	}
	return sqlstore.New(db), nil
}

type muxRegistrar interface {
	Register(mux *http.ServeMux)
}

type apiRoutes []muxRegistrar

// apiHandler mounts the studio and widget endpoints under base behind token
// auth, with widget events as SSE and WebSocket streams. /metrics and
// /healthz stay unauthenticated.
func apiHandler(base string, routes apiRoutes, broadcast *dashboard.BroadcastHook, metrics *telemetry.Metrics, signer *auth.Signer, cookieName string) http.Handler {
	inner := http.NewServeMux()
	for _, r := range routes {
		r.Register(inner)
	}
	inner.HandleFunc("GET /dashboard/events", broadcast.ServeSSE)
	inner.HandleFunc("GET /dashboard/socket", broadcast.ServeWebSocket)

	root := http.NewServeMux()
	root.Handle("GET /metrics", metrics.Handler())
	root.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	root.Handle(base+"/", http.StripPrefix(base, authenticate(signer, cookieName, inner)))
	return root
}

func uploadLimits(defaults studio.UploadLimits, maxBytes int64, types []string) studio.UploadLimits {
	limits := defaults
	if maxBytes > 0 {
		limits.MaxBytes = maxBytes
	}
	if len(types) > 0 {
		limits.AllowedTypes = types
	}
	return limits
}

// Run serves until ctx is done, then shuts both listeners down.
func (s *server) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		errc := make(chan error, 1)
		go func() { errc <- s.pages.Serve(s.cfg.Server.Addr) }()
		select {
		case err := <-errc:
			return err
		case <-gctx.Done():
			return nil
		}
	})
	g.Go(func() error {
		if err := s.api.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if s.publisher != nil {
		g.Go(func() error {
			err := s.publisher.Subscribe(gctx, s.cfg.Redis.Channel, s.broadcast)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		return s.shutdown()
	})
	return g.Wait()
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

func (s *server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.broadcast.Close()
	err := s.api.Shutdown(ctx)
	if sd, ok := any(s.pages).(shutdowner); ok {
		err = errors.Join(err, sd.Shutdown(ctx))
	}
	return err
}

// Close releases the database and Redis connections.
func (s *server) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			s.log.Warn("close failed", zap.Error(err))
		}
	}
	s.closers = nil
}

// logMenuBuilder records the navigation at startup; the studio renders its
// menu from goadmin directly.
type logMenuBuilder struct {
	log *zap.Logger
}

func (b logMenuBuilder) EnsureMenuItem(_ context.Context, menuCode string, item goadmin.MenuItem) error {
	b.log.Debug("menu item", zap.String("menu", menuCode), zap.String("key", item.Key), zap.String("route", item.Route), zap.Strings("roles", item.Roles))
	return nil
}
