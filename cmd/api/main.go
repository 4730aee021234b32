package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/circlehq/circles-api/internal/http/handlers"
	"github.com/circlehq/circles-api/internal/platform/mailer"
	"github.com/circlehq/circles-api/internal/rate"
	"github.com/circlehq/circles-api/internal/repo/memory"
	"github.com/circlehq/circles-api/internal/service"
	"github.com/circlehq/circles-api/pkg/config"
	"github.com/circlehq/circles-api/pkg/database"
	"github.com/circlehq/circles-api/pkg/events"
	"github.com/circlehq/circles-api/pkg/logger"
	mw "github.com/circlehq/circles-api/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Event bus
	var eventBus events.EventBus
	if cfg.NATS.Enabled {
		bus, err := events.NewNATSEventBus(cfg.NATS.URL)
		if err != nil {
			logger.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		eventBus = bus
	} else {
		eventBus = events.NewNoopEventBus()
	}
	defer eventBus.Close()

	// Rate limiter backend
	limiter, cleanup, err := buildLimiter(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize rate limiter", "error", err, "backend", cfg.Guard.Backend)
		os.Exit(1)
	}
	if cleanup != nil {
		defer cleanup()
	}

	// Mailer
	var mail mailer.Mailer
	if cfg.Email.DevMode || cfg.Email.MailerSendKey == "" {
		mail = mailer.NewDevMailer()
	} else {
		mail = mailer.NewMailerSend(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.FromEmail)
	}

	// Repositories
	userRepo := memory.NewUserRepo()
	circleRepo := memory.NewCircleRepo()
	membershipRepo := memory.NewMembershipRepo()
	amenityRepo := memory.NewAmenityRepo()
	bookingRepo := memory.NewBookingRepo()
	incidentRepo := memory.NewIncidentRepo()
	reputationRepo := memory.NewReputationRepo()
	feedRepo := memory.NewFeedRepo()
	moderationRepo := memory.NewModerationRepo()
	pollRepo := memory.NewPollRepo()
	communityRepo := memory.NewCommunityRepo()

	// Services
	authService := service.NewAuthService(userRepo, mail, cfg.Auth)
	registryService := service.NewRegistryService(userRepo, circleRepo, membershipRepo, mail, eventBus)
	reservationService := service.NewReservationService(amenityRepo, bookingRepo, registryService, eventBus)
	incidentService := service.NewIncidentService(incidentRepo, registryService, eventBus)
	reputationService := service.NewReputationService(reputationRepo)
	guardService := service.NewGuardService(limiter, cfg.Guard)
	feedService := service.NewFeedService(feedRepo, moderationRepo, reputationService, registryService, guardService, eventBus, cfg.Feed)
	pollService := service.NewPollService(pollRepo, registryService)
	communityService := service.NewCommunityService(communityRepo, registryService)

	if err := seed(ctx, userRepo, circleRepo, membershipRepo, amenityRepo); err != nil {
		logger.Error("Failed to seed demo data", "error", err)
		os.Exit(1)
	}

	h := handlers.New(
		authService,
		registryService,
		reservationService,
		incidentService,
		reputationService,
		feedService,
		pollService,
		communityService,
		guardService,
		cfg,
	)

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("circles-api"))
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Mount("/v1", h.Routes())

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting circles API", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// TTL sweeper: expired feed posts are reaped in the background so
	// reads never serve stale content for longer than one interval.
	g.Go(func() error {
		ticker := time.NewTicker(cfg.Feed.CleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				result, err := feedService.CleanupExpired(gctx)
				if err != nil {
					logger.Error("TTL sweep failed", "error", err)
					continue
				}
				if result.CleanedPosts > 0 {
					logger.Info("TTL sweep completed",
						"cleaned_posts", result.CleanedPosts,
						"remaining_posts", result.RemainingPosts,
					)
				}
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down circles API...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Circles API error", "error", err)
		os.Exit(1)
	}
}

// buildLimiter selects the quota backend. Memory is the default; redis
// and postgres share counters across replicas.
func buildLimiter(ctx context.Context, cfg *config.Config) (rate.Limiter, func(), error) {
	switch cfg.Guard.Backend {
	case "redis":
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Redis.Password != "" {
			opts.Password = cfg.Redis.Password
		}
		opts.DB = cfg.Redis.DB
		client := redis.NewClient(opts)
		return rate.NewRedisLimiter(client), func() { client.Close() }, nil

	case "postgres":
		pool, err := database.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return nil, nil, err
		}
		return rate.NewPostgresLimiter(pool), pool.Close, nil

	default:
		return rate.NewMemoryLimiter(), nil, nil
	}
}
