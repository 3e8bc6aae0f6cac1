package main

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/plant-store/internal/config"
	"github.com/rogerio-castellano/plant-store/internal/db"
	"github.com/rogerio-castellano/plant-store/internal/http/ban"
	"github.com/rogerio-castellano/plant-store/internal/http/handlers"
	rl "github.com/rogerio-castellano/plant-store/internal/http/rate_limiter"
	"github.com/rogerio-castellano/plant-store/internal/http/router"
	"github.com/rogerio-castellano/plant-store/internal/logging"
	"github.com/rogerio-castellano/plant-store/internal/redissvc"
	"github.com/rogerio-castellano/plant-store/internal/repo"
	log "github.com/sirupsen/logrus"
	"go.uber.org/fx"
)

// @title Plant Store API
// @version 1.0
// @description REST API for reading, restocking and removing plants.
// @host localhost:8080
// @BasePath /
func main() {
	fx.New(
		fx.Provide(
			config.Load,
			provideLogger,
			provideDatabase,
			providePlantRepository,
			provideRedis,
			provideBanStore,
			provideVisitors,
			handlers.NewPlantHandler,
			provideRouter,
		),
		fx.Invoke(startServer),
	).Run()
}

func provideLogger(cfg *config.Config) *log.Logger {
	return logging.New(cfg.LogLevel, cfg.LogFormat)
}

// provideDatabase returns nil when no database is configured.
func provideDatabase(lc fx.Lifecycle, cfg *config.Config, logger *log.Logger) (*sql.DB, error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, plants are kept in memory")
		return nil, nil
	}

	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(context.Background(), database); err != nil {
		database.Close()
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info("closing database pool")
			return database.Close()
		},
	})
	logger.Info("connected to database")
	return database, nil
}

func providePlantRepository(database *sql.DB, cfg *config.Config) repo.PlantRepository {
	if database == nil {
		return repo.NewInMemoryPlantRepository()
	}
	return repo.NewPostgresPlantRepository(database, cfg.QueryTimeout)
}

// provideRedis returns nil when no Redis address is configured.
func provideRedis(lc fx.Lifecycle, cfg *config.Config, logger *log.Logger) (*redis.Client, error) {
	if cfg.RedisAddr == "" {
		return nil, nil
	}

	rdb, err := redissvc.Connect(context.Background(), redissvc.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return rdb.Close()
		},
	})
	logger.WithField("addr", cfg.RedisAddr).Info("connected to redis")
	return rdb, nil
}

func provideBanStore(rdb *redis.Client, cfg *config.Config) ban.Store {
	policy := ban.Policy{
		MaxStrikes:   cfg.RateLimit.MaxStrikes,
		StrikeWindow: cfg.RateLimit.StrikeWindow,
		BanDuration:  cfg.RateLimit.BanDuration,
	}
	if rdb == nil {
		return ban.NewMemoryStore(policy)
	}
	return ban.NewRedisStore(rdb, policy)
}

// provideVisitors returns nil when rate limiting is disabled.
func provideVisitors(lc fx.Lifecycle, cfg *config.Config) *rl.Visitors {
	if !cfg.RateLimit.Enabled {
		return nil
	}

	visitors := rl.NewVisitors(cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.VisitorTTL)
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go visitors.StartCleanupLoop(ctx, time.Minute)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
	return visitors
}

func provideRouter(plants *handlers.PlantHandler, logger *log.Logger, visitors *rl.Visitors, bans ban.Store) http.Handler {
	return router.NewRouter(router.Deps{
		Plants:   plants,
		Logger:   logger,
		Visitors: visitors,
		Bans:     bans,
	})
}

func startServer(lc fx.Lifecycle, shutdowner fx.Shutdowner, cfg *config.Config, handler http.Handler, logger *log.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			go func() {
				logger.WithField("addr", srv.Addr).Info("✅ server running")
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.WithError(err).Error("server stopped unexpectedly")
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping HTTP server")
			ctx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	})
}
