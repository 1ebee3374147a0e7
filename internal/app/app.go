package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jakeb7757/evolve/internal/cache"
	"github.com/jakeb7757/evolve/internal/clients"
	"github.com/jakeb7757/evolve/internal/config"
	"github.com/jakeb7757/evolve/internal/db"
	httpserver "github.com/jakeb7757/evolve/internal/http"
	"github.com/jakeb7757/evolve/internal/http/handlers"
	"github.com/jakeb7757/evolve/internal/http/middleware"
	"github.com/jakeb7757/evolve/internal/password"
	"github.com/jakeb7757/evolve/internal/repository"
	"github.com/jakeb7757/evolve/internal/service"
)

// App owns the process-lifetime resources and the HTTP server.
type App struct {
	server *httpserver.Server
	db     *sql.DB
	redis  *redis.Client
	logger *zap.Logger
}

// New builds the application from configuration: database, optional
// redis listing cache, repositories, services, external clients and the
// HTTP surface. Redis and the NREL lookup are both optional; when
// absent the app runs with caching disabled and listings degraded to
// local records.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	database, err := db.NewPostgres(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	var redisClient *redis.Client
	var listingCache middleware.ResponseStore
	if cfg.Cache.Addr != "" {
		redisClient, err = cache.NewRedisClient(cfg.Cache.Addr, cfg.Cache.Password)
		if err != nil {
			database.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		listingCache = cache.NewListingStore(redisClient, cfg.ListingTTL())
	} else {
		logger.Info("redis not configured, listing cache disabled")
	}

	vehicles := repository.NewVehicleRepository(database)
	stations := repository.NewStationRepository(database)
	statuses := repository.NewStatusRepository(database)
	submissions := repository.NewSubmissionRepository(database)
	users := repository.NewUserRepository(database)

	tokens := service.NewTokenService(cfg.Auth.Secret, cfg.TokenTTL())
	hasher := password.NewBcryptHasher(cfg.Auth.BcryptCost)
	authService := service.NewAuthService(users, hasher, tokens, logger)
	calculator := service.NewCalculatorService(submissions, logger)

	var lookup service.StationLookup
	nrel := clients.NewNRELClient(cfg.Lookup.BaseURL, cfg.Lookup.APIKey,
		clients.NewDefaultHTTPClient(cfg.LookupTimeout()), logger)
	if nrel.Enabled() {
		lookup = nrel
	} else {
		logger.Info("nrel api key not configured, external lookup disabled")
	}
	directory := service.NewDirectoryService(stations, statuses, lookup, logger)

	geocoder := clients.NewGeocoder(cfg.Geocoder.BaseURL,
		clients.NewDefaultHTTPClient(cfg.GeocoderTimeout()), logger)

	router := httpserver.NewRouter(httpserver.RouterDeps{
		Signup:             handlers.NewSignupHandler(authService),
		Login:              handlers.NewLoginHandler(authService),
		VehicleHandlers:    handlers.NewVehicleHandlers(vehicles, logger),
		CalculatorHandlers: handlers.NewCalculatorHandlers(calculator, vehicles, logger),
		StationsHandlers:   handlers.NewStationsHandlers(directory, geocoder, logger),
		AdminHandlers:      handlers.NewAdminHandlers(vehicles, stations, submissions, logger),
		Health:             handlers.NewHealthHandler(),
		Tokens:             tokens,
		ListingCache:       listingCache,
		Logger:             logger,
	})

	return &App{
		server: httpserver.NewServer(cfg.HTTPAddress(), router, logger),
		db:     database,
		redis:  redisClient,
		logger: logger,
	}, nil
}

// Run serves HTTP until the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases backing connections.
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("closing redis", zap.Error(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("closing database", zap.Error(err))
	}
}
