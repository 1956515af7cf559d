package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"go-storefront/internal/config"
	"go-storefront/internal/database"
	"go-storefront/internal/event"
	"go-storefront/internal/handler"
	"go-storefront/internal/hash"
	"go-storefront/internal/middleware"
	"go-storefront/internal/model"
	"go-storefront/internal/repository"
	"go-storefront/internal/repository/sqlite"
	"go-storefront/internal/router"
	"go-storefront/internal/service"
	"go-storefront/internal/storage"
)

type App struct {
	server       *http.Server
	cleanupFuncs []func()
}

// stores bundles the persistence backend selected by DB_DRIVER.
type stores struct {
	users    service.UserStore
	products service.ProductStore
	ping     func(ctx context.Context) error
	close    func()
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()
	a := &App{}

	st, err := openStores(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.cleanupFuncs = append(a.cleanupFuncs, st.close)

	blobs, err := openBlobStore(ctx, cfg)
	if err != nil {
		a.cleanup()
		return nil, err
	}

	bus := event.NewBus()
	if len(cfg.KafkaBrokers) > 0 {
		a.startKafkaForwarder(cfg, bus)
	}

	tokenService, err := service.NewTokenService(cfg.JWTSecret, cfg.JWTSigningMethod, cfg.JWTTTL)
	if err != nil {
		a.cleanup()
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	authService, err := service.NewAuthService(st.users, hash.New(cfg.BcryptCost), tokenService, cfg.DefaultRole, bus)
	if err != nil {
		a.cleanup()
		return nil, fmt.Errorf("failed to initialize auth service: %w", err)
	}
	if cfg.DefaultRole == model.RoleAdmin {
		slog.Warn("self-registration grants the admin role; set REGISTER_DEFAULT_ROLE=user to restrict it")
	}

	uploadService := service.NewUploadService(blobs, cfg.PublicBaseURL, cfg.UploadURLPrefix, bus)
	productService := service.NewProductService(st.products, uploadService, cfg.PlaceholderImageURL, bus)

	appRouter := router.New(cfg, middleware.NewAuthMiddleware(tokenService), router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Product: handler.NewProductHandler(productService, cfg.UploadField, cfg.MaxUploadSize),
		Upload:  handler.NewUploadHandler(uploadService, cfg.UploadField, cfg.MaxUploadSize),
		Health:  handler.NewHealthHandler(st.ping),
	})

	a.server = &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return a, nil
}

func openStores(ctx context.Context, cfg *config.Config) (stores, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		slog.Info("opening SQLite database")
		db, err := database.OpenSQLite(cfg.DatabaseURL)
		if err != nil {
			return stores{}, fmt.Errorf("failed to open database: %w", err)
		}
		if err := sqlite.Migrate(db); err != nil {
			_ = database.CloseSQLite(db)
			return stores{}, fmt.Errorf("failed to migrate database: %w", err)
		}

		return stores{
			users:    sqlite.NewUserRepo(db),
			products: sqlite.NewProductRepo(db),
			ping: func(ctx context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
			close: func() {
				if err := database.CloseSQLite(db); err != nil {
					slog.Warn("failed to close database", "error", err)
				}
			},
		}, nil

	default:
		slog.Info("connecting to PostgreSQL")
		db, err := database.New(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return stores{}, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return stores{}, fmt.Errorf("failed to migrate database: %w", err)
		}
		slog.Info("database ready")

		return stores{
			users:    repository.NewUserRepository(db.Pool),
			products: repository.NewProductRepository(db.Pool),
			ping:     db.Health,
			close:    db.Close,
		}, nil
	}
}

func openBlobStore(ctx context.Context, cfg *config.Config) (storage.BlobStore, error) {
	switch cfg.UploadBackend {
	case config.UploadBackendMinIO:
		client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create minio client: %w", err)
		}

		store, err := storage.NewMinIO(ctx, client, cfg.MinIO.Bucket)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize minio storage: %w", err)
		}
		slog.Info("upload storage ready", "backend", "minio", "bucket", cfg.MinIO.Bucket)
		return store, nil

	default:
		store, err := storage.NewLocal(cfg.UploadDir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize upload storage: %w", err)
		}
		slog.Info("upload storage ready", "backend", "local", "root", store.RootAbs())
		return store, nil
	}
}

func (a *App) startKafkaForwarder(cfg *config.Config, bus *event.InMemoryBus) {
	forwarder := event.NewKafkaForwarder(cfg.KafkaBrokers, cfg.KafkaTopic)
	events, unsubscribe := bus.Subscribe()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)
		forwarder.Run(ctx, events)
	}()

	a.cleanupFuncs = append(a.cleanupFuncs, func() {
		cancel()
		unsubscribe()
		<-done
		if err := forwarder.Close(); err != nil {
			slog.Warn("failed to close kafka writer", "error", err)
		}
	})

	slog.Info("forwarding events to kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
}

// cleanup runs in reverse registration order.
func (a *App) cleanup() {
	for i := len(a.cleanupFuncs) - 1; i >= 0; i-- {
		a.cleanupFuncs[i]()
	}
	a.cleanupFuncs = nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	shutdownErr := a.server.Shutdown(ctx)
	a.cleanup()

	if shutdownErr != nil {
		return fmt.Errorf("graceful shutdown failed: %w", shutdownErr)
	}

	slog.Info("server stopped")
	return nil
}
