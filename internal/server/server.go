package server

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/reedfamily/a2sbot/internal/api"
	"github.com/reedfamily/a2sbot/internal/auth"
	"github.com/reedfamily/a2sbot/internal/config"
	"github.com/reedfamily/a2sbot/internal/docker"
	"github.com/reedfamily/a2sbot/internal/format"
	"github.com/reedfamily/a2sbot/internal/history"
	"github.com/reedfamily/a2sbot/internal/plugin"
	"github.com/reedfamily/a2sbot/internal/query"
	"github.com/reedfamily/a2sbot/internal/render"
	"github.com/reedfamily/a2sbot/internal/scheduler"
	"github.com/reedfamily/a2sbot/internal/steam"

	// Register game aliases
	_ "github.com/reedfamily/a2sbot/internal/game/counterstrike"
	_ "github.com/reedfamily/a2sbot/internal/game/garrysmod"
)

type Server struct {
	cfg       *config.Config
	db        *sql.DB
	router    chi.Router
	docker    *docker.Client
	scheduler *scheduler.Scheduler
}

func New(cfg *config.Config, db *sql.DB) (*Server, error) {
	ctx := context.Background()

	authSvc := auth.NewService(db, cfg.SessionTTL)
	if err := authSvc.EnsureDefaultUser(ctx, cfg.DefaultUser, cfg.DefaultPass); err != nil {
		return nil, fmt.Errorf("ensure default user: %w", err)
	}

	style, err := render.LoadConfig(cfg.StylePath, cfg.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("load style: %w", err)
	}

	var dockerClient *docker.Client
	var launcher render.Launcher = render.LocalLauncher{ExecPath: cfg.BrowserPath}
	if cfg.Browser == "docker" {
		dockerClient, err = docker.NewClient()
		if err != nil {
			return nil, fmt.Errorf("docker client: %w", err)
		}
		launcher = render.DockerLauncher{
			Docker:  dockerClient,
			Image:   cfg.BrowserImage,
			Publish: "127.0.0.1::9222",
			Dirs:    []string{cfg.BaseDir, cfg.DataDir},
		}
		log.Printf("Rendering with %s in docker", cfg.BrowserImage)
	}

	queries := query.NewService(
		query.NewA2SQuerier(cfg.QueryTimeout),
		format.Text,
		render.New(style, launcher),
		cfg.OutputPath,
	)

	locator := steam.NewLocator(cfg.SteamAPIKey)
	if !locator.Configured() {
		log.Printf("Warning: A2SBOT_STEAM_API_KEY not set, find and findt will fail")
	}

	store := history.NewStore(db)
	feed := history.NewFeed(store)
	plug := plugin.New(queries, locator, feed)

	sched := scheduler.New()
	if err := sched.Add("prune history", cfg.HousekeepingCron, func(ctx context.Context) error {
		n, err := store.Prune(ctx, cfg.HistoryRetention)
		if err == nil && n > 0 {
			log.Printf("scheduler: pruned %d invocations", n)
		}
		return err
	}); err != nil {
		return nil, err
	}
	if err := sched.Add("purge sessions", cfg.HousekeepingCron, func(ctx context.Context) error {
		_, err := authSvc.PurgeExpired(ctx)
		return err
	}); err != nil {
		return nil, err
	}
	sched.Start()

	r := Router(cfg.CORSOrigins, Handlers{
		Auth:     authSvc,
		Commands: api.NewCommandHandler(plug),
		Tools:    api.NewToolHandler(plug),
		Images:   api.NewImageHandler(cfg.DataDir),
		History:  api.NewHistoryHandler(store, feed),
		Chat:     api.NewChatHandler(plug),
	})

	return &Server{
		cfg:       cfg,
		db:        db,
		router:    r,
		docker:    dockerClient,
		scheduler: sched,
	}, nil
}

// Handlers are the bridge endpoints mounted by Router.
type Handlers struct {
	Auth     *auth.Service
	Commands *api.CommandHandler
	Tools    *api.ToolHandler
	Images   *api.ImageHandler
	History  *api.HistoryHandler
	Chat     *api.ChatHandler
}

func Router(origins []string, h Handlers) chi.Router {
	authHandler := api.NewAuthHandler(h.Auth)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(api.AuthMiddleware(h.Auth))

			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/auth/me", authHandler.Me)

			r.Get("/games", api.Games)
			r.Get("/games/{appid}", api.Game)

			r.Get("/commands", h.Commands.List)
			r.Post("/commands", h.Commands.Run)

			r.Get("/tools", h.Tools.List)
			r.Post("/tools/{name}", h.Tools.Call)

			r.Get("/images/{name}", h.Images.Get)

			r.Get("/history", h.History.List)

			// WebSocket routes (token may come as a query param)
			r.Get("/history/live", h.History.Live)
			r.Get("/chat", h.Chat.Handle)
		})
	})

	return r
}

func (s *Server) Router() chi.Router {
	return s.router
}

func (s *Server) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	if s.docker != nil {
		s.docker.Close()
	}
}

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 30 * time.Second
