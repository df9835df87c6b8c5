package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/rogerio-castellano/retail-inventory/internal/auth"
	"github.com/rogerio-castellano/retail-inventory/internal/config"
	"github.com/rogerio-castellano/retail-inventory/internal/db"
	"github.com/rogerio-castellano/retail-inventory/internal/http/ban"
	"github.com/rogerio-castellano/retail-inventory/internal/http/handlers"
	rl "github.com/rogerio-castellano/retail-inventory/internal/http/rate_limiter"
	"github.com/rogerio-castellano/retail-inventory/internal/http/router"
	"github.com/rogerio-castellano/retail-inventory/internal/importer"
	"github.com/rogerio-castellano/retail-inventory/internal/logging"
	"github.com/rogerio-castellano/retail-inventory/internal/redissvc"
	"github.com/rogerio-castellano/retail-inventory/internal/repo"
)

// @title Retail Inventory API
// @version 1.0
// @description REST API for the product catalog, spreadsheet imports and user accounts.
// @host localhost:5000
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("could not load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.Logger)
	if err != nil {
		log.Fatalf("could not build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

type stores struct {
	products repo.ProductRepository
	users    repo.UserRepository
	close    func()
}

func openStores(ctx context.Context, cfg config.StoreConfig) (stores, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		client, database, err := db.ConnectMongo(cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return stores{}, err
		}
		products := repo.NewMongoProductRepository(database)
		users := repo.NewMongoUserRepository(database)
		disconnect := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(ctx)
		}
		if err := products.EnsureIndexes(ctx); err != nil {
			disconnect()
			return stores{}, fmt.Errorf("product indexes: %w", err)
		}
		if err := users.EnsureIndexes(ctx); err != nil {
			disconnect()
			return stores{}, fmt.Errorf("user indexes: %w", err)
		}
		return stores{products: products, users: users, close: disconnect}, nil

	case config.DriverPostgres:
		database, err := db.ConnectPostgres(cfg.DatabaseURL)
		if err != nil {
			return stores{}, err
		}
		if err := db.EnsurePostgresSchema(ctx, database); err != nil {
			database.Close()
			return stores{}, err
		}
		return stores{
			products: repo.NewPostgresProductRepository(database),
			users:    repo.NewPostgresUserRepository(database),
			close:    func() { database.Close() },
		}, nil

	default:
		return stores{
			products: repo.NewInMemoryProductRepository(),
			users:    repo.NewInMemoryUserRepository(),
			close:    func() {},
		}, nil
	}
}

func newBanStore(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (ban.Store, func()) {
	if cfg.Addr == "" {
		logger.Info("REDIS_ADDR not set, keeping ban state in memory")
		return ban.NewMemoryStore(), func() {}
	}
	rs, err := redissvc.Connect(ctx, cfg)
	if err != nil {
		logger.Warn("could not connect to redis, keeping ban state in memory", zap.Error(err))
		return ban.NewMemoryStore(), func() {}
	}
	return ban.NewRedisStore(rs), func() { _ = rs.Close() }
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("could not open %s store: %w", cfg.Store.Driver, err)
	}
	defer st.close()
	logger.Info("store ready", zap.String("driver", cfg.Store.Driver))

	banStore, closeBans := newBanStore(ctx, cfg.Redis, logger)
	defer closeBans()
	bans := ban.NewService(banStore, cfg.RateLimit.BanStrikes, cfg.RateLimit.BanDuration, logger)

	limiter := rl.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	limiter.OnLimitExceeded = router.StrikeOnLimit(bans, logger)
	go limiter.StartVisitorCleanupLoop(ctx, time.Minute, 5*time.Minute)

	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	h := handlers.New(handlers.Deps{
		Products:  st.products,
		Users:     st.users,
		Importer:  importer.New(st.products),
		Tokens:    tokens,
		Bans:      bans,
		Logger:    logger,
		Upload:    cfg.Upload,
		StoreName: cfg.Store.Driver,
	})

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: router.NewRouter(router.Options{
			Handler: h,
			Tokens:  tokens,
			Users:   st.users,
			Limiter: limiter,
			Bans:    bans,
			Logger:  logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
