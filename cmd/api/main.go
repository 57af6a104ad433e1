package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"tablebid/internal/config"
	"tablebid/internal/db"
	"tablebid/internal/db/migrate"
	apihttp "tablebid/internal/http"
	"tablebid/internal/metrics"
	"tablebid/internal/notify"
	"tablebid/internal/repository"
	"tablebid/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg)
	defer logger.Sync()

	var (
		userRepo    repository.UserRepository    = repository.NewMemoryUserRepository()
		sessionRepo repository.SessionRepository = repository.NewMemorySessionRepository()
		tableRepo   repository.TableRepository   = repository.NewMemoryTableRepository()
		bidRepo     repository.BidRepository     = repository.NewMemoryBidRepository()
		challenges  repository.ChallengeStore    = repository.NewMemoryChallengeStore()
		pool        *pgxpool.Pool
		redisClient *redis.Client
	)

	if cfg.DatabaseURL != "" {
		if cfg.AutoMigrate {
			if err := migrate.Run(cfg.DatabaseURL, migrate.DirectionUp); err != nil {
				logger.Fatal("migrate", zap.Error(err))
			}
			logger.Info("migrations applied")
		}
		pool, err = db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("db connect", zap.Error(err))
		}
		defer pool.Close()

		userRepo = repository.NewPgUserRepository(pool)
		sessionRepo = repository.NewPgSessionRepository(pool)
		tableRepo = repository.NewPgTableRepository(pool)
		bidRepo = repository.NewPgBidRepository(pool)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory stores")
	}

	requestLimiter := service.NewOTPRateLimiter(cfg.OTPRateLimitWindow, cfg.OTPRateLimitMax)
	verifyLimiter := service.NewOTPRateLimiter(cfg.OTPTTL, cfg.OTPVerifyMaxAttempts)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory otp store", zap.Error(err))
			redisClient = nil
		} else {
			challenges = repository.NewRedisChallengeStore(redisClient)
			requestLimiter = service.NewRedisOTPRateLimiter(redisClient, logger, "otp:rl:", cfg.OTPRateLimitWindow, cfg.OTPRateLimitMax)
			verifyLimiter = service.NewRedisOTPRateLimiter(redisClient, logger, "otp:verify:", cfg.OTPTTL, cfg.OTPVerifyMaxAttempts)
		}
		cancel()
	}

	otpSender := notify.NewLogSender(logger)
	if cfg.SMSGatewayURL != "" {
		sender, err := notify.NewSMSGatewaySender(cfg.SMSGatewayURL, cfg.SMSAPIKey, cfg.SMSSenderID)
		if err != nil {
			logger.Warn("sms sender init failed", zap.Error(err))
		} else {
			otpSender = sender
		}
	}

	m := metrics.New()
	authSvc := service.NewAuthService(logger, userRepo, sessionRepo, challenges, otpSender, service.AuthOptions{
		OTPTTL:         cfg.OTPTTL,
		SessionTTL:     cfg.SessionTTL,
		RequestLimiter: requestLimiter,
		VerifyLimiter:  verifyLimiter,
	})
	tableSvc := service.NewTableService(logger, tableRepo)
	bidSvc := service.NewBidService(logger, tableSvc, bidRepo)

	router := apihttp.NewRouter(
		logger,
		m,
		authSvc,
		apihttp.NewAuthHandler(logger, authSvc, m),
		apihttp.NewTableHandler(logger, tableSvc, m),
		apihttp.NewBidHandler(logger, bidSvc, m),
		healthCheck(pool, redisClient),
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger(cfg *config.Config) *zap.Logger {
	if cfg.LogDevelopment {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	logger, _ := zap.NewProduction()
	return logger
}

// healthCheck pinguea los stores externos configurados.
func healthCheck(pool *pgxpool.Pool, redisClient *redis.Client) apihttp.HealthCheck {
	if pool == nil && redisClient == nil {
		return nil
	}
	return func(ctx context.Context) error {
		if pool != nil {
			if err := db.Ping(ctx, pool); err != nil {
				return err
			}
		}
		if redisClient != nil {
			return redisClient.Ping(ctx).Err()
		}
		return nil
	}
}
