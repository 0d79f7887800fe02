package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "github.com/zenops/zen-ops-console/api/swagger"
	"github.com/zenops/zen-ops-console/internal/assignmentlist"
	"github.com/zenops/zen-ops-console/internal/handler"
	internalmiddleware "github.com/zenops/zen-ops-console/internal/middleware"
	"github.com/zenops/zen-ops-console/internal/repository"
	"github.com/zenops/zen-ops-console/internal/service"
	"github.com/zenops/zen-ops-console/internal/session"
	"github.com/zenops/zen-ops-console/pkg/apiclient"
	"github.com/zenops/zen-ops-console/pkg/cache"
	"github.com/zenops/zen-ops-console/pkg/config"
	"github.com/zenops/zen-ops-console/pkg/jobs"
	"github.com/zenops/zen-ops-console/pkg/logger"
	corsmiddleware "github.com/zenops/zen-ops-console/pkg/middleware/cors"
	reqidmiddleware "github.com/zenops/zen-ops-console/pkg/middleware/requestid"
)

// @title Zen Ops Console API
// @version 1.0.0
// @description Session-aware gateway in front of the Zen Ops valuation backend
// @BasePath /console
// @schemes http https

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("gateway stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	var redisClient *redis.Client
	var spaces session.Namespaces = session.NewMemoryNamespaces()
	if cfg.Session.Backend == config.SessionBackendRedis {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("session store: %w", err)
		}
		defer client.Close()
		redisClient = client
		spaces = repository.NewSessionNamespaces(client, cfg.Session.TTL, logr)
	} else {
		logr.Warn("sessions kept in memory; they are lost on restart and not shared between replicas")
	}

	metricsSvc := service.NewMetricsService()
	validate := validator.New()

	api := apiclient.New(apiclient.Config{
		BaseURL:    cfg.API.BaseURL,
		Timeout:    cfg.API.Timeout,
		SlashPaths: cfg.API.SlashPaths,
		Logger:     logr.Named("apiclient"),
		Metrics:    metricsSvc,
	}, session.ContextSource{})

	authRepo := repository.NewAuthRepository(api)
	assignmentRepo := repository.NewAssignmentRepository(api)
	masterDataRepo := repository.NewMasterDataRepository(api)

	authSvc := service.NewAuthService(authRepo, validate, logr)
	accountSvc := service.NewAccountService(authRepo, assignmentRepo, logr)
	userSvc := service.NewUserAdminService(authRepo, validate, logr)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, validate, logr)
	masterDataSvc := service.NewMasterDataService(masterDataRepo, validate, logr)
	overviewSvc := service.NewOverviewService(masterDataRepo, assignmentRepo, logr)
	exportSvc := service.NewExportService(nil, metricsSvc, logr)
	healthSvc := service.NewHealthService(service.HealthConfig{BackendURL: cfg.API.BaseURL}, pinger(redisClient), metricsSvc)

	registry := service.NewListRegistry(func(s apiclient.SessionSource) assignmentlist.Requester {
		return api.WithSessions(s)
	}, service.ListRegistryConfig{
		PageSize: cfg.Lists.PageSize,
		IdleTTL:  cfg.Lists.IdleTTL,
	}, metricsSvc, logr)
	defer registry.Close()

	teardown := service.NewTeardownService(registry, spaces, jobs.QueueConfig{
		Workers:    2,
		BufferSize: 256,
		MaxRetries: 2,
		RetryDelay: time.Second,
		Logger:     logr,
	}, logr)
	// Workers outlive ctx so logouts accepted before shutdown still drain.
	teardown.Start(context.Background())

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(reqidmiddleware.Middleware())
	engine.Use(logger.GinMiddleware(logr, "/health", "/metrics"))
	engine.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	engine.Use(internalmiddleware.Metrics(metricsSvc))

	handler.Routes{
		Auth:        handler.NewAuthHandler(authSvc, accountSvc, teardown, cfg.Session.CookieName, logr),
		Lists:       handler.NewListHandler(registry, exportSvc),
		Assignments: handler.NewAssignmentHandler(assignmentSvc),
		MasterData:  handler.NewMasterDataHandler(masterDataSvc),
		Users:       handler.NewUserHandler(userSvc),
		Dashboard:   handler.NewDashboardHandler(accountSvc),
		Overview:    handler.NewOverviewHandler(overviewSvc),
		Shell:       handler.NewShellHandler(service.NewShellService()),
		Metrics:     handler.NewMetricsHandler(metricsSvc, healthSvc),
		Session: internalmiddleware.Session(internalmiddleware.SessionConfig{
			CookieName: cfg.Session.CookieName,
			TTL:        cfg.Session.TTL,
			Secure:     cfg.Env == config.EnvProduction,
		}, spaces, metricsSvc, logr),
		LoginLimiter: internalmiddleware.RateLimit(cfg.RateLimit.Login, internalmiddleware.NewRateStore(redisClient, logr), logr),
		AuditLogger:  logr.Named("audit"),
	}.Register(engine, cfg.APIPrefix)

	if cfg.Env != config.EnvProduction {
		engine.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "backend", cfg.API.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		teardown.RunSweeper(gctx, sweepInterval(cfg.Lists.IdleTTL))
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		teardown.Stop(shutdownCtx)
		logr.Info("server stopped")
		return err
	})
	return g.Wait()
}

func sweepInterval(idle time.Duration) time.Duration {
	if idle <= 0 {
		return time.Minute
	}
	if interval := idle / 4; interval > 10*time.Second {
		return interval
	}
	return 10 * time.Second
}

// pinger avoids handing the health service a typed nil.
func pinger(client *redis.Client) interface {
	Ping(ctx context.Context) *redis.StatusCmd
} {
	if client == nil {
		return nil
	}
	return client
}
