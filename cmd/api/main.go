package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/temankemah/temankemah-backend/api/controllers"
	"github.com/temankemah/temankemah-backend/api/routes"
	"github.com/temankemah/temankemah-backend/internal/activities"
	"github.com/temankemah/temankemah-backend/internal/auth"
	"github.com/temankemah/temankemah-backend/internal/campareas"
	"github.com/temankemah/temankemah-backend/internal/categories"
	"github.com/temankemah/temankemah-backend/internal/events"
	"github.com/temankemah/temankemah-backend/internal/gear"
	"github.com/temankemah/temankemah-backend/internal/images"
	"github.com/temankemah/temankemah-backend/internal/interactions"
	"github.com/temankemah/temankemah-backend/internal/regions"
	"github.com/temankemah/temankemah-backend/internal/sitemap"
	"github.com/temankemah/temankemah-backend/internal/users"
	"github.com/temankemah/temankemah-backend/pkg/cdn"
	"github.com/temankemah/temankemah-backend/pkg/config"
	"github.com/temankemah/temankemah-backend/pkg/db"
	"github.com/temankemah/temankemah-backend/pkg/logger"
	"github.com/temankemah/temankemah-backend/pkg/migrate"
	"github.com/temankemah/temankemah-backend/pkg/pubsub"
	"github.com/temankemah/temankemah-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap pubsub", err)
		os.Exit(1)
	}
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing pubsub", err)
		}
	}()

	cdnClient, err := cdn.New(cfg.CDN)
	if err != nil {
		logg.Error(context.Background(), "failed to create cdn client", err)
		os.Exit(1)
	}

	deletions, err := images.NewPublisher(pubsubClient.ImageDeletionPublisher(), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create image deletion publisher", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(gormDB),
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(users.ServiceParams{
		Repo:      users.NewRepository(gormDB),
		Deletions: deletions,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	activitiesRepo := activities.NewRepository(gormDB)

	interactionsService, err := interactions.NewService(interactions.ServiceParams{
		Repo:       interactions.NewRepository(gormDB),
		Activities: activitiesRepo,
		Exp:        usersService,
		Logger:     logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create interactions service", err)
		os.Exit(1)
	}

	activitiesService, err := activities.NewService(activities.ServiceParams{
		Repo:                activitiesRepo,
		CDN:                 cdnClient,
		Deletions:           deletions,
		Exp:                 usersService,
		Counts:              interactionsService,
		Logger:              logg,
		MaxAdditionalImages: cfg.Media.MaxAdditionalImages,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create activities service", err)
		os.Exit(1)
	}

	campAreasService, err := campareas.NewService(campareas.ServiceParams{
		Repo:                campareas.NewRepository(gormDB),
		CDN:                 cdnClient,
		Deletions:           deletions,
		Logger:              logg,
		MaxAdditionalImages: cfg.Media.MaxAdditionalImages,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create camp areas service", err)
		os.Exit(1)
	}

	eventsService, err := events.NewService(events.ServiceParams{
		Repo:      events.NewRepository(gormDB),
		CDN:       cdnClient,
		Deletions: deletions,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create events service", err)
		os.Exit(1)
	}

	regionsService, err := regions.NewService(regions.ServiceParams{
		Repo:      regions.NewRepository(gormDB),
		CDN:       cdnClient,
		Deletions: deletions,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create regions service", err)
		os.Exit(1)
	}

	gearService, err := gear.NewService(gear.ServiceParams{
		Repo:   gear.NewRepository(gormDB),
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create gear service", err)
		os.Exit(1)
	}

	categoriesService, err := categories.NewService(categories.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create categories service", err)
		os.Exit(1)
	}

	sitemapService, err := sitemap.NewService(cfg.Site.BaseURL, sitemap.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create sitemap service", err)
		os.Exit(1)
	}

	readiness := map[string]controllers.Pinger{
		"database": dbClient,
		"redis":    redisClient,
		"pubsub":   pubsubClient,
	}

	router := routes.NewRouter(cfg, logg, redisClient, readiness, cdnClient, routes.Services{
		Auth:         authService,
		Users:        usersService,
		Activities:   activitiesService,
		CampAreas:    campAreasService,
		Events:       eventsService,
		Regions:      regionsService,
		Gear:         gearService,
		Categories:   categoriesService,
		Interactions: interactionsService,
		Sitemap:      sitemapService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "error shutting down api server", err)
		}
		logg.Info(ctx, "api server shut down gracefully")
	}
}
