package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	cacheadapter "github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/adapters/cache"
	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/adapters/detector"
	eventadapter "github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/adapters/events"
	httpadapter "github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/adapters/http"
	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/adapters/notify"
	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/adapters/pdf"
	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/adapters/postgres"
	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/adapters/security"
	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/application"
	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/ports"
)

// kafkaTopics routes outbox event types onto their transport topics.
// Notification events never reach Kafka; the dispatcher peels them off first.
var kafkaTopics = map[string]string{
	"submission.created":            "cert.submissions",
	"submission.approved":           "cert.submissions",
	"submission.rejected":           "cert.submissions",
	"submission.revision_requested": "cert.submissions",
	"trust.updated":                 "cert.trust",
	"certificate.issued":            "cert.certificates",
	"certificate.revoked":           "cert.certificates",
}

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
	grpcServer *grpc.Server
	grpcLis    net.Listener
	outbox     *eventadapter.OutboxWorker
	cleanupFn  func(context.Context)
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)
	logger.Info("bootstrapping content certification service",
		"http_port", cfg.HTTPPort, "grpc_port", cfg.GRPCPort)

	db, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("gorm sql db: %w", err)
	}

	if err := postgres.RunMigrations(ctx, db); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	redisClient, err := cacheadapter.Connect(ctx, cfg.RedisURL)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	repos := postgres.NewRepositories(db)
	tokenSigner, err := security.NewJWTSigner(cfg.JWTSecret)
	if err != nil {
		_ = sqlDB.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("init jwt signer: %w", err)
	}

	scorer := detector.NewClassifier(detector.Config{
		APIURL:  cfg.ClassifierAPIURL,
		Token:   cfg.ClassifierToken,
		Timeout: cfg.ClassifierTimeout,
	}, logger)

	svc := application.NewService(application.Dependencies{
		Config: application.Config{
			HMACSecret:          cfg.HMACSecret,
			TokenTTL:            cfg.TokenTTL,
			MaxActiveAPIKeys:    cfg.MaxActiveAPIKeys,
			VerificationRetries: cfg.VerificationRetries,
			QueueLimit:          cfg.QueueLimit,
			ListLimit:           cfg.ListLimit,
		},
		Users:        repos.Users,
		Submissions:  repos.Submissions,
		Certificates: repos.Certificates,
		APIKeys:      repos.APIKeys,
		Outbox:       repos.Outbox,
		Scorer:       scorer,
		Hasher:       security.NewBcryptHasher(cfg.BcryptCost),
		TokenSigner:  tokenSigner,
		VerifyCache:  cacheadapter.NewRedisVerificationCache(redisClient, cfg.VerifyCacheTTL),
		RateLimiter:  cacheadapter.NewRedisRateLimiter(redisClient, cfg.RateLimitPerWindow, cfg.RateLimitWindow),
	})

	renderer := pdf.NewRenderer(cfg.FrontendURL)
	handler := httpadapter.NewHandler(svc, renderer)
	router := httpadapter.NewRouter(handler)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		_ = sqlDB.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("listen gRPC: %w", err)
	}

	var fanout ports.EventPublisher = eventadapter.NewLoggingPublisher(logger)
	var closeFanout func() error
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPub, err := eventadapter.NewKafkaPublisher(cfg.KafkaBrokers, kafkaTopics)
		if err != nil {
			_ = sqlDB.Close()
			_ = redisClient.Close()
			return nil, fmt.Errorf("init kafka publisher: %w", err)
		}
		fanout = kafkaPub
		closeFanout = kafkaPub.Close
	}

	emailSender := notify.NewResendSender(notify.Config{
		APIKey:      cfg.ResendAPIKey,
		SenderEmail: cfg.SenderEmail,
		FrontendURL: cfg.FrontendURL,
	}, logger)

	outbox := eventadapter.NewOutboxWorker(
		logger,
		repos.Outbox,
		eventadapter.NewDispatcher(fanout, emailSender),
		cfg.OutboxPollInterval,
		cfg.OutboxBatchSize,
		cfg.OutboxClaimTTL,
		cfg.OutboxMaxRetries,
	)

	return &Runtime{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpServer,
		grpcServer: grpcServer,
		grpcLis:    lis,
		outbox:     outbox,
		cleanupFn: func(ctx context.Context) {
			if closeFanout != nil {
				_ = closeFanout()
			}
			_ = redisClient.Close()
			_ = sqlDB.Close()
		},
	}, nil
}

func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	go func() {
		r.logger.Info("http server started", "addr", r.httpServer.Addr)
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		r.logger.Info("grpc server started", "addr", r.grpcLis.Addr().String())
		if err := r.grpcServer.Serve(r.grpcLis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		r.logger.Info("shutdown signal received")
	case err := <-errCh:
		r.logger.Error("server failure", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.grpcServer.GracefulStop()
	r.cleanupFn(shutdownCtx)
	return nil
}

func (r *Runtime) RunWorker(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.logger.Info("outbox worker started")
	err := r.outbox.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	r.cleanupFn(shutdownCtx)
	return nil
}
