package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"vkinder-bot/internal/config"
	"vkinder-bot/internal/database"
	"vkinder-bot/internal/handlers"
	"vkinder-bot/internal/middleware"
	"vkinder-bot/internal/models"
	"vkinder-bot/internal/repository"
	"vkinder-bot/internal/services"
	"vkinder-bot/internal/vk"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot and the admin HTTP API",
	RunE:  runServe,
}

// candidateSource binds the configured page size to VK search streams
type candidateSource struct {
	*vk.Client
	pageSize int
}

func (s candidateSource) SearchCandidates(_ context.Context, filter models.SearchFilter) services.CandidateStream {
	return s.Search(filter, s.pageSize)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	db, err := database.Connect(ctx, cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info().Msg("Database connection established")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	partnerRepo := repository.NewPartnerRepository(db)
	genderRepo := repository.NewGenderRepository(db)

	client := vk.NewClient(vk.Options{
		GroupToken:        cfg.VK.GroupToken,
		UserToken:         cfg.VK.UserToken,
		GroupID:           cfg.VK.GroupID,
		APIVersion:        cfg.VK.APIVersion,
		BaseURL:           cfg.VK.BaseURL,
		RequestsPerSecond: cfg.VK.RequestsPerSecond,
		RetryAttempts:     cfg.VK.RetryAttempts,
		Timeout:           cfg.VK.Timeout,
		LongPollWait:      cfg.VK.LongPollWait,
	})

	// Initialize services
	sessions := services.NewSessionStore()
	profiles := services.NewProfileResolver(client, genderRepo)
	discovery := services.NewDiscoveryService(
		candidateSource{Client: client, pageSize: cfg.Discovery.PageSize},
		userRepo,
		partnerRepo,
		sessions,
		services.DiscoveryOptions{
			AgeSpread:     cfg.Discovery.AgeSpread,
			SearchStatus:  cfg.Discovery.SearchStatus,
			TopPhotos:     cfg.Discovery.TopPhotos,
			SkipFavorites: cfg.Discovery.SkipFavorites,
		},
	)
	favorites := services.NewFavoritesService(partnerRepo, cfg.Discovery.ProfileDomain)
	authService := services.NewAuthService(cfg.Admin.JWTSecret)
	controller := services.NewController(profiles, discovery, favorites, userRepo, sessions, client, services.ControllerOptions{
		RepositoryURL: cfg.Bot.RepositoryURL,
		IsAdmin:       cfg.Admin.IsAdmin,
	})

	if err := controller.Restore(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      newRouter(cfg, controller, userRepo, favorites, authService, cancel),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	if !cfg.VK.CallbackEnabled {
		g.Go(func() error {
			return client.Listen(gctx, func(ctx context.Context, msg models.IncomingMessage) error {
				err := controller.Handle(ctx, msg)
				if errors.Is(err, services.ErrStopRequested) {
					log.Warn().Int64("user_id", msg.UserID).Msg("Stop requested from chat")
					cancel()
				}
				return err
			})
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info().Msg("Server exited")
	return nil
}

func newRouter(
	cfg *config.Config,
	messages handlers.MessageHandler,
	users handlers.UserLister,
	favorites handlers.FavoritesLister,
	tokens middleware.TokenValidator,
	onStop func(),
) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	if cfg.VK.CallbackEnabled {
		callbackHandler := handlers.NewCallbackHandler(
			messages,
			cfg.VK.GroupID,
			cfg.VK.CallbackSecret,
			cfg.VK.ConfirmationCode,
			onStop,
		)
		r.Post("/vk/callback", callbackHandler.HandleEvent)
	}

	// Admin routes are only mounted when a signing secret is configured
	if cfg.Admin.JWTSecret != "" {
		adminHandler := handlers.NewAdminHandler(users, favorites)
		r.Route("/api/v1", func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(tokens))
			r.Get("/users", adminHandler.ListUsers)
			r.Get("/users/{user_id}/favorites", adminHandler.ListFavorites)
		})
	}

	return r
}
