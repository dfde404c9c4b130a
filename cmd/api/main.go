package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/wawanmain22/CaloMeter/internal/adapters/cache"
	adapterHTTP "github.com/wawanmain22/CaloMeter/internal/adapters/handler/http"
	"github.com/wawanmain22/CaloMeter/internal/adapters/repository"
	"github.com/wawanmain22/CaloMeter/internal/config"
	"github.com/wawanmain22/CaloMeter/internal/core/domain"
	"github.com/wawanmain22/CaloMeter/internal/core/services"
	"github.com/wawanmain22/CaloMeter/internal/logger"
	"github.com/wawanmain22/CaloMeter/internal/metrics"
)

// stores groups the repositories chosen by STORAGE.
type stores struct {
	users        domain.UserRepository
	aggregates   domain.DailyAggregateRepository
	entries      domain.ConsumptionEntryRepository
	calculations domain.CalorieCalculationRepository
	bmi          domain.BMIRecordRepository
}

// mustLoadConfig exits through a bare stderr logger, since the configured
// one depends on the config.
func mustLoadConfig(envFiles ...string) config.Config {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("load config")
	}
	return cfg
}

func main() {
	startTime := time.Now()

	cfg := mustLoadConfig()

	log := logger.New(cfg.AppEnv)
	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics.MustRegister(prometheus.DefaultRegisterer)

	clock, err := services.NewSystemClock(cfg.TZ)
	if err != nil {
		log.Fatal().Err(err).Str("tz", cfg.TZ).Msg("invalid timezone")
	}

	ctx := context.Background()

	var (
		db    *sqlx.DB
		repos stores
	)
	switch cfg.Storage {
	case config.StorageMemory:
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		mem := repository.NewMemoryStore()
		repos = stores{mem.Users(), mem.Aggregates(), mem.Entries(), mem.Calculations(), mem.BMIRecords()}
	default:
		log.Info().Str("driver", cfg.DB.Driver).Str("host", cfg.DB.Host).Msg("connecting to database")
		db, err = repository.Open(ctx, cfg.DB.Driver, cfg.DSN())
		if err != nil {
			log.Fatal().Err(err).Msg("database connection failed")
		}
		defer db.Close()

		if cfg.DB.AutoMigrate {
			if err := repository.Migrate(ctx, db); err != nil {
				log.Fatal().Err(err).Msg("migrations failed")
			}
		}

		repos = stores{
			users:        repository.NewPostgresUserRepository(db),
			aggregates:   repository.NewPostgresDailyAggregateRepository(db),
			entries:      repository.NewPostgresConsumptionEntryRepository(db),
			calculations: repository.NewPostgresCalorieCalculationRepository(db),
			bmi:          repository.NewPostgresBMIRecordRepository(db),
		}
	}

	var rdb *redis.Client
	if cfg.RedisEnabled() {
		rdb, err = cache.NewRedisClient(ctx, cache.Options{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, running without cache and rate limiting")
			rdb = nil
		} else {
			defer rdb.Close()
			repos.aggregates = repository.NewCachedHistoryRepository(repos.aggregates, rdb, cfg.HistoryCacheTTL, log)
		}
	}

	tokenService := services.NewTokenService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL, repos.users)
	authService := services.NewAuthService(repos.users, tokenService)
	historyService := services.NewHistoryService(repos.aggregates, repos.entries)
	suggestionService := services.NewSuggestionService(repos.calculations)
	trackerService := services.NewTrackerService(repos.aggregates, repos.entries, suggestionService, historyService, clock)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:    adapterHTTP.NewAuthHandler(authService),
		TrackerHandler: adapterHTTP.NewTrackerHandler(trackerService, historyService),
		CalculatorHandler: adapterHTTP.NewCalculatorHandler(
			services.NewCalorieService(repos.calculations),
			services.NewBMIService(repos.bmi),
		),
		TokenService: tokenService,
		DB:           db,
		Redis:        rdb,
		Logger:       log,
		RateLimit:    cfg.RateLimit.Requests,
		RateWin:      cfg.RateLimit.Window,
		StartTime:    startTime,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("storage", cfg.Storage).Msg("CaloMeter API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("stop signal received, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
		return
	}

	log.Info().Msg("server stopped gracefully")
}
