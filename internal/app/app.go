package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/config"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/mail"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/notify"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/postgres"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/redis"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/repository"
	memoryrepo "github.com/samiserrag/denver-songwriters-collective-sub010/internal/repository/memory"
	postgresrepo "github.com/samiserrag/denver-songwriters-collective-sub010/internal/repository/postgres"
	redisrepo "github.com/samiserrag/denver-songwriters-collective-sub010/internal/repository/redis"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/service"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/service/digest"
	"github.com/samiserrag/denver-songwriters-collective-sub010/internal/service/rsvp"
	httpgin "github.com/samiserrag/denver-songwriters-collective-sub010/internal/transport/http/gin"
	"golang.org/x/sync/errgroup"
)

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server
	services   *service.Services
	consumer   *notify.Consumer
	publisher  *notify.Publisher
	cache      *redisrepo.Cache
	pubsub     *redisrepo.OccurrencesPubSub
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	// durable store per configured backend
	var store repository.Store
	switch cfg.Store.Backend {
	case config.BackendMemory:
		store = memoryrepo.NewStore()
		logger.Info("using in-memory store")
	default:
		pool, err := postgres.New(context.Background(), postgres.Config{
			Host:     cfg.Postgres.Host,
			Port:     strconv.Itoa(cfg.Postgres.Port),
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			Database: cfg.Postgres.Name,
			SSLMode:  cfg.Postgres.SSLMode,
			MaxConns: int32(cfg.Postgres.MaxConns),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres: %w", err)
		}
		store = postgresrepo.NewStore(pool)
	}

	// redis side channels, all optional
	var (
		cache   *redisrepo.Cache
		pubsub  *redisrepo.OccurrencesPubSub
		limiter *redisrepo.SlidingWindowLimiter
		idem    *redisrepo.IdempotencyStore
	)
	if cfg.Redis.Addr != "" {
		rdb, err := redis.New(context.Background(), redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		cache = redisrepo.New(rdb)
		pubsub = redisrepo.NewOccurrencesPubSub(rdb)
		idem = redisrepo.NewIdempotencyStore(rdb, 2*time.Hour)
		if cfg.RSVP.RateLimit > 0 {
			limiter = redisrepo.NewSlidingWindowLimiter(
				rdb,
				redisrepo.RateLimitPrefix("rsvp"),
				cfg.RSVP.RateLimit,
				cfg.RSVP.RateWindow,
			)
		}
	} else {
		logger.Info("redis not configured, running without cache, rate limiting and idempotency replay")
	}

	// promotion notices over AMQP, optional
	var (
		publisher *notify.Publisher
		consumer  *notify.Consumer
		notifier  rsvp.Notifier
	)
	if cfg.AMQP.URL != "" {
		publisher = notify.NewPublisher(cfg.AMQP.URL)
		consumer = notify.NewConsumer(cfg.AMQP.URL, store, logger)
		notifier = publisher
	} else {
		logger.Info("amqp not configured, running without promotion notices")
	}

	// digest mail, optional
	var sender mail.Sender
	if cfg.SMTP.Host != "" && cfg.SMTP.FromEmail != "" {
		s, err := mail.NewSMTPSender(mail.Config{
			Host:        cfg.SMTP.Host,
			Port:        cfg.SMTP.Port,
			Username:    cfg.SMTP.Username,
			Password:    cfg.SMTP.Password,
			FromEmail:   cfg.SMTP.FromEmail,
			FromName:    cfg.SMTP.FromName,
			UseSTARTTLS: cfg.SMTP.UseSTARTTLS,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize smtp sender: %w", err)
		}
		sender = s
	}

	services := service.NewServices(store, cache, pubsub, limiter, notifier, sender, logger, service.Config{
		RSVP: rsvp.Config{MaxNoteLen: cfg.RSVP.MaxNoteLen},
		Digest: digest.Config{
			Lookahead: cfg.Digest.Lookahead,
			Recipient: cfg.Digest.Recipient,
			Subject:   cfg.Digest.Subject,
		},
	})

	router := httpgin.NewRouter(services, idem, cfg.Auth.JWTSecret, logger)

	return &App{
		cfg:       cfg,
		logger:    logger,
		services:  services,
		consumer:  consumer,
		publisher: publisher,
		cache:     cache,
		pubsub:    pubsub,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler: router,
		},
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Promotion notice consumer
	if a.consumer != nil {
		g.Go(func() error {
			if err := a.consumer.Run(gCtx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("notice consumer: %w", err)
			}
			return nil
		})
	}

	// Periodic digest
	if a.cfg.Digest.Every > 0 {
		g.Go(func() error {
			if err := a.services.Digest.Run(gCtx, a.cfg.Digest.Every); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("digest ticker: %w", err)
			}
			return nil
		})
	}

	// Occurrence-changed fanout: drop cached views changed by other instances
	if a.pubsub != nil && a.cache != nil {
		g.Go(func() error {
			err := a.pubsub.Subscribe(gCtx, func(ctx context.Context, occurrenceID int64) {
				if err := a.cache.InvalidateOccurrence(ctx, occurrenceID); err != nil {
					a.logger.Warn("cache invalidation on fanout failed",
						"occurrence_id", occurrenceID, "error", err)
				}
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("occurrences subscriber: %w", err)
			}
			return nil
		})
	}

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		if a.publisher != nil {
			_ = a.publisher.Close()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	return g.Wait()
}
