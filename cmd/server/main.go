package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fekuna/omnipos-jewellery-service/config"
	"github.com/fekuna/omnipos-jewellery-service/internal/auth"
	authH "github.com/fekuna/omnipos-jewellery-service/internal/auth/handler"
	"github.com/fekuna/omnipos-jewellery-service/internal/category"
	catH "github.com/fekuna/omnipos-jewellery-service/internal/category/handler"
	catRepoPkg "github.com/fekuna/omnipos-jewellery-service/internal/category/repository"
	catUCPkg "github.com/fekuna/omnipos-jewellery-service/internal/category/usecase"
	"github.com/fekuna/omnipos-jewellery-service/internal/httpapi"
	"github.com/fekuna/omnipos-jewellery-service/internal/media"
	"github.com/fekuna/omnipos-jewellery-service/internal/product"
	prodH "github.com/fekuna/omnipos-jewellery-service/internal/product/handler"
	prodRepoPkg "github.com/fekuna/omnipos-jewellery-service/internal/product/repository"
	prodUCPkg "github.com/fekuna/omnipos-jewellery-service/internal/product/usecase"
	"github.com/fekuna/omnipos-jewellery-service/internal/rate"
	rateH "github.com/fekuna/omnipos-jewellery-service/internal/rate/handler"
	rateListenerPkg "github.com/fekuna/omnipos-jewellery-service/internal/rate/listener"
	rateRepoPkg "github.com/fekuna/omnipos-jewellery-service/internal/rate/repository"
	rateUCPkg "github.com/fekuna/omnipos-jewellery-service/internal/rate/usecase"
	"github.com/fekuna/omnipos-jewellery-service/internal/seed"
	"github.com/fekuna/omnipos-jewellery-service/internal/shop"
	shopH "github.com/fekuna/omnipos-jewellery-service/internal/shop/handler"
	"github.com/fekuna/omnipos-jewellery-service/pkg/database"
	"github.com/fekuna/omnipos-jewellery-service/pkg/logger"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
		FileEnable:        cfg.Logger.FileEnable,
		Filename:          cfg.Logger.Filename,
	}
	if cfg.Server.AppEnv == "dev" || cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
	}
	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Connect to Database and build repositories
	var (
		db       *sqlx.DB
		rateRepo rate.Repository
		catRepo  category.Repository
		prodRepo product.Repository
	)
	if cfg.Database.Driver == database.DriverMemory {
		appLogger.Warn("Using in-memory storage, data is lost on restart")
		rateRepo = rateRepoPkg.NewMemoryRepository()
		catRepo = catRepoPkg.NewMemoryRepository()
		prodRepo = prodRepoPkg.NewMemoryRepository()
	} else {
		db, err = database.Connect(ctx, &database.Config{
			Driver:          cfg.Database.Driver,
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			DBName:          cfg.Database.DBName,
			SSLMode:         cfg.Database.SSLMode,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
			ConnMaxIdleTime: time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second,
		})
		if err != nil {
			appLogger.Fatal("Could not connect to database", zap.Error(err))
		}
		defer db.Close()
		appLogger.Info("Connected to database", zap.String("driver", cfg.Database.Driver), zap.String("db_name", cfg.Database.DBName))

		if err := database.Migrate(ctx, db); err != nil {
			appLogger.Fatal("Could not migrate database", zap.Error(err))
		}
		rateRepo = rateRepoPkg.NewSQLRepository(db)
		catRepo = catRepoPkg.NewSQLRepository(db)
		prodRepo = prodRepoPkg.NewSQLRepository(db)
	}

	// 4. Media store
	store, err := media.NewStore(media.Config{
		Dir:          cfg.Upload.Dir,
		MaxBytes:     cfg.Upload.MaxBytes,
		MaxDimension: cfg.Upload.MaxDimension,
		AllowedExt:   cfg.Upload.AllowedExt,
	}, appLogger)
	if err != nil {
		appLogger.Fatal("Could not prepare upload directories", zap.Error(err))
	}

	// 5. Initialize UseCases
	node, err := snowflake.NewNode(cfg.Server.NodeID)
	if err != nil {
		appLogger.Fatal("Invalid NODE_ID", zap.Error(err))
	}
	defaults, err := rateUCPkg.ParseDefaults(cfg.Pricing.DefaultGoldRate, cfg.Pricing.DefaultSilverRate, cfg.Pricing.DefaultGST)
	if err != nil {
		appLogger.Fatal("Invalid default rates", zap.Error(err))
	}
	rateUC := rateUCPkg.NewRateUseCase(rateRepo, node, defaults, appLogger)
	catUC := catUCPkg.NewCategoryUseCase(catRepo, prodRepo, store, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, catRepo, rateUC, store, cfg.Pricing.Currency, appLogger)

	if cfg.Database.Seed {
		if err := seed.NewSeeder(rateUC, catUC, defaults, appLogger).Run(ctx); err != nil {
			appLogger.Fatal("Could not seed default data", zap.Error(err))
		}
	}

	verifier, err := auth.NewBcryptVerifier(cfg.Admin.Username, cfg.Admin.PasswordHash, cfg.Admin.Password)
	if err != nil {
		appLogger.Fatal("Invalid admin credentials configuration", zap.Error(err))
	}

	// 6. Start Listeners
	if len(cfg.Kafka.Brokers) > 0 {
		reader := rateListenerPkg.NewKafkaReader(rateListenerPkg.ReaderConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.RateTopic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer reader.Close()
		appLogger.Info("Connected to Kafka Consumer", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.RateTopic))
		go rateListenerPkg.NewRateListener(reader, rateUC, appLogger).Start(ctx)
	}

	// 7. HTTP server
	router := httpapi.NewServer(httpapi.Config{
		SessionSecret: cfg.Session.Secret,
		SessionSecure: cfg.Session.Secure,
		SessionMaxAge: cfg.Session.MaxAge,
		BodyLimit:     "50M",
		StaticPrefix:  "/static",
		StaticDir:     filepath.Dir(filepath.Clean(cfg.Upload.Dir)),
	}, appLogger)
	router.Admin.Use(auth.RequireAdmin)

	router.Echo.GET("/health", healthHandler(db))
	authH.NewAuthHandler(verifier, auth.NewThrottle(cfg.Admin.LoginRatePerMinute), appLogger).RegisterRoutes(router.Echo)
	rateH.NewRateHandler(rateUC, appLogger).RegisterRoutes(router.Public, router.Admin)
	catH.NewCategoryHandler(catUC, store, appLogger).RegisterRoutes(router.Public, router.Admin)
	prodH.NewProductHandler(prodUC, store, appLogger).RegisterRoutes(router.Public, router.Admin)
	prodH.NewDashboardHandler(catUC, prodUC, rateUC, appLogger).RegisterRoutes(router.Admin)
	shopH.NewShopHandler(shop.Info{
		Name:     cfg.Shop.Name,
		Area:     cfg.Shop.Area,
		Phone:    cfg.Shop.Phone,
		WhatsApp: cfg.Shop.WhatsApp,
	}).RegisterRoutes(router.Public)

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("port", cfg.Server.HTTPPort), zap.String("shop", cfg.Shop.Name), zap.String("area", cfg.Shop.Area))
		if err := router.Echo.Start(normalizePort(cfg.Server.HTTPPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve http", zap.Error(err))
		}
	}()

	// 8. Start gRPC Server
	port := normalizePort(cfg.Server.GRPCPort)
	lis, err := net.Listen("tcp", port)
	if err != nil {
		appLogger.Fatal("failed to listen", zap.Error(err))
	}

	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(auth.APIKeyInterceptor(cfg.Admin.APIKey, rateH.MutatingMethods...)),
	)
	rateH.RegisterRateServiceServer(grpcServer, rateH.NewRateServer(rateUC, cfg.Pricing.Currency, appLogger))

	healthServer := health.NewServer()
	healthServer.SetServingStatus(rateH.RateServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	go func() {
		appLogger.Info("Starting gRPC server", zap.String("port", port))
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve grpc", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	cancel()
	healthServer.Shutdown()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := router.Echo.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("http shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}

func normalizePort(port string) string {
	if !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}

func healthHandler(db *sqlx.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		if db != nil {
			if err := db.PingContext(c.Request().Context()); err != nil {
				return httpapi.Fail(c, http.StatusServiceUnavailable, "UNHEALTHY", "database unreachable", err.Error())
			}
		}
		return httpapi.OK(c, map[string]string{"status": "healthy", "database": "connected"})
	}
}
