package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/ablemap/ablemap/internal/config"
	"github.com/ablemap/ablemap/internal/domain"
	"github.com/ablemap/ablemap/internal/httpserver"
	"github.com/ablemap/ablemap/internal/httpserver/deps"
	"github.com/ablemap/ablemap/internal/identity"
	"github.com/ablemap/ablemap/internal/logger"
	"github.com/ablemap/ablemap/internal/postgres"
	"github.com/ablemap/ablemap/internal/redis"
	"github.com/ablemap/ablemap/internal/retry"
	"github.com/ablemap/ablemap/internal/scheduler"
	"github.com/ablemap/ablemap/internal/service"
	"github.com/ablemap/ablemap/internal/store/memory"
	pgstore "github.com/ablemap/ablemap/internal/store/postgres"
	redisstore "github.com/ablemap/ablemap/internal/store/redis"
	"github.com/ablemap/ablemap/internal/utils"
	"github.com/ablemap/ablemap/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	pool        *pgxpool.Pool   // nil in memory mode
	redisClient *goredis.Client // nil when the identity cache is disabled
	reloader    *scheduler.AccessibilityReloader
	gc          *scheduler.OrphanCollector
}

// stores groups the domain stores of the selected backend.
type stores struct {
	bookmarks domain.BookmarkStore
	users     domain.UserStore
	feedback  domain.FeedbackStore
	reports   domain.AccessibilityStore
	checks    []deps.Check
}

func New() (*App, error) {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)
	ctx := context.Background()

	a := &App{cfg: cfg, logger: loggerClient}

	st, err := a.openStores(ctx)
	if err != nil {
		return nil, err
	}

	// Redis is optional: without it every request asks the identity provider.
	var subjectCache identity.SubjectCache
	if cfg.RedisAddr != "" {
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		a.redisClient, err = redis.New(ctx, redis.ConnectOptions{
			Addr:         cfg.RedisAddr,
			User:         cfg.RedisUser,
			Password:     cfg.RedisPassword,
			RedisDB:      cfg.RedisDB,
			DialTimeout:  cfg.RedisDT,
			ReadTimeout:  cfg.RedisRT,
			WriteTimeout: cfg.RedisWT,
			PoolSize:     cfg.RedisPoolSize,
			Retry: retry.Policy{
				ConnectTimeout: cfg.RedisConnectTimeout,
				RetryInterval:  cfg.RedisRetryInterval,
				MaxWait:        cfg.RedisMaxWait,
				PingTimeout:    cfg.RedisPingTimeout,
				WarnThreshold:  cfg.RedisWarnThreshold,
			},
		}, loggerClient)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		loggerClient.Info("Redis initialized successfully")

		cache := redisstore.NewStore(a.redisClient)
		subjectCache = cache
		st.checks = append(st.checks, deps.Check{
			Name:   "redis",
			Impact: "identity-cache-disabled",
			Ping:   cache.Ping,
		})
	} else {
		loggerClient.Info("redis not configured, identity cache disabled")
	}

	provider, providerCheck := newProvider(cfg, loggerClient)
	if providerCheck != nil {
		st.checks = append(st.checks, *providerCheck)
	}
	resolver := identity.NewResolver(provider, st.users, subjectCache, cfg.IdentityCacheTTL, loggerClient)

	// Accessibility importer (optional)
	var reloadTrigger chan struct{}
	var reloadStatus func() scheduler.ReloadStatus
	if cfg.AccessibilityFile != "" {
		reloadTrigger = make(chan struct{}, 1)
		a.reloader = scheduler.NewAccessibilityReloader(
			cfg.AccessibilityFile,
			st.reports,
			loggerClient,
			cfg.ReloadInterval,
			reloadTrigger,
		)
		reloadStatus = a.reloader.Status
	} else {
		loggerClient.Info("accessibility file not configured, importer disabled")
	}

	a.gc = scheduler.NewOrphanCollector(st.bookmarks, loggerClient, cfg.GCInterval)

	d := deps.Deps{
		Logger:             loggerClient,
		StartTime:          time.Now(),
		Version:            version.Version,
		Commit:             version.Commit,
		BuildDate:          version.BuildDate,
		GoVersion:          version.GoVersion,
		TimeNow:            time.Now,
		AllowedHosts:       cfg.AllowedHosts,
		AllowedCIDRS:       cfg.AllowedCIDRS,
		TrustProxy:         cfg.TrustProxy,
		RateLimitBurst:     cfg.RateLimitBurst,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Bookmarks:          service.NewBookmarkService(resolver, st.bookmarks, loggerClient),
		Identity:           resolver,
		Feedback:           st.feedback,
		Reports:            st.reports,
		Checks:             st.checks,
		ReloadTrigger:      reloadTrigger,
		ReloadStatus:       reloadStatus,
	}

	a.server = httpserver.New(cfg, loggerClient, d)
	return a, nil
}

func (a *App) openStores(ctx context.Context) (*stores, error) {
	cfg := a.cfg

	if cfg.StoreMode == config.StoreMemory {
		a.logger.Warn("using in-memory store, data is lost on restart")
		mem := memory.New()
		return &stores{bookmarks: mem, users: mem, feedback: mem, reports: mem}, nil
	}

	a.logger.Info("Connecting to PostgreSQL")
	pool, err := postgres.New(ctx, postgres.ConnectOptions{
		URL:      cfg.DatabaseURL,
		MaxConns: int32(cfg.DBMaxConns),
		Retry: retry.Policy{
			ConnectTimeout: cfg.DBConnectTimeout,
			RetryInterval:  cfg.DBRetryInterval,
			MaxWait:        cfg.DBMaxWait,
			PingTimeout:    cfg.DBPingTimeout,
			WarnThreshold:  cfg.DBWarnThreshold,
		},
	}, a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	a.pool = pool

	pg := pgstore.NewStore(pool)
	if cfg.DBBootstrapSchema {
		if err := pg.Bootstrap(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to bootstrap schema: %w", err)
		}
		a.logger.Info("database schema ready")
	}

	return &stores{
		bookmarks: pg,
		users:     pg.Users(),
		feedback:  pg.Feedback(),
		reports:   pg.Reports(),
		checks: []deps.Check{{
			Name:     "postgres",
			Critical: true,
			Impact:   "bookmarks-unavailable",
			Ping:     pg.Ping,
		}},
	}, nil
}

// newProvider returns the configured identity provider and, for remote
// providers, the check reporting its circuit breaker.
func newProvider(cfg *config.Config, log logger.Logger) (identity.Provider, *deps.Check) {
	if cfg.AuthProvider == config.AuthJWT {
		log.Warn("using local JWT identity provider, not for production")
		return identity.NewJWTProvider(cfg.JWTSecret, cfg.JWTIssuer), nil
	}

	kakao := identity.NewKakaoProvider(cfg.KakaoBaseURL, cfg.IdentityTimeout, log)
	return kakao, &deps.Check{
		Name:   "identity",
		Impact: "sign-in-unavailable",
		Ping: func(context.Context) error {
			if state := kakao.State(); state == "open" {
				return errors.New("circuit breaker open")
			}
			return nil
		},
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting AbleMap v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("AbleMap %s (commit=%s, built=%s, go=%s, store=%s, auth=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion,
		a.cfg.StoreMode, a.cfg.AuthProvider)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start accessibility reloader (imports the file and starts periodic refresh)
	if a.reloader != nil {
		if err := a.reloader.Start(ctx); err != nil {
			a.close()
			return fmt.Errorf("failed to start accessibility reloader: %w", err)
		}
		a.logger.Info("accessibility reloader started",
			logger.Duration("interval", a.cfg.ReloadInterval))
	}

	// Start orphan collector
	if err := a.gc.Start(ctx); err != nil {
		a.close()
		return fmt.Errorf("failed to start orphan collector: %w", err)
	}
	a.logger.Info("orphan collector started",
		logger.Duration("interval", a.cfg.GCInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		a.stopWorkers()
		a.close()
		return err
	}

	a.stopWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		a.close()
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.close()
	a.logger.Info("✅ AbleMap stopped cleanly")
	_ = a.logger.Sync()
	return nil
}

func (a *App) stopWorkers() {
	if a.reloader != nil {
		a.reloader.Stop()
	}
	a.gc.Stop()
}

// close releases the backing connections. Safe to call on a partially built App.
func (a *App) close() {
	if a.redisClient != nil {
		utils.Close(a.redisClient)
		a.redisClient = nil
		a.logger.Info("✅ Redis closed")
	}
	if a.pool != nil {
		a.pool.Close()
		a.pool = nil
		a.logger.Info("✅ PostgreSQL pool closed")
	}
}
