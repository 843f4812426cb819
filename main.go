package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/skillshare-dao/skillshare-dao/handlers"
	"github.com/skillshare-dao/skillshare-dao/internal/archive"
	"github.com/skillshare-dao/skillshare-dao/internal/config"
	"github.com/skillshare-dao/skillshare-dao/internal/database"
	"github.com/skillshare-dao/skillshare-dao/internal/events"
	"github.com/skillshare-dao/skillshare-dao/internal/marketplace"
	marketHandler "github.com/skillshare-dao/skillshare-dao/internal/marketplace/handler"
	marketService "github.com/skillshare-dao/skillshare-dao/internal/marketplace/service"
	"github.com/skillshare-dao/skillshare-dao/internal/oidc"
	principalHandler "github.com/skillshare-dao/skillshare-dao/internal/principal/handler"
	"github.com/skillshare-dao/skillshare-dao/internal/profile"
	profileHandler "github.com/skillshare-dao/skillshare-dao/internal/profile/handler"
	profileService "github.com/skillshare-dao/skillshare-dao/internal/profile/service"
	"github.com/skillshare-dao/skillshare-dao/internal/proposal"
	proposalHandler "github.com/skillshare-dao/skillshare-dao/internal/proposal/handler"
	proposalService "github.com/skillshare-dao/skillshare-dao/internal/proposal/service"
	"github.com/skillshare-dao/skillshare-dao/internal/sessions"
	"github.com/skillshare-dao/skillshare-dao/internal/store"
	"github.com/skillshare-dao/skillshare-dao/internal/tokens"
	"github.com/skillshare-dao/skillshare-dao/pkg/apperror"
	"github.com/skillshare-dao/skillshare-dao/pkg/logger"
	"github.com/skillshare-dao/skillshare-dao/pkg/metrics"
	"github.com/skillshare-dao/skillshare-dao/pkg/middleware"
)

var startTime = time.Now()

// backends holds whichever storage clients were configured and reachable.
type backends struct {
	kind      string
	namespace string
	mongo     *mongo.Database
	redis     *redis.Client
	pg        *sqlx.DB
}

// newMap returns the persistent map called name on the selected backend.
func newMap[V any](b backends, name string) store.Map[V] {
	switch b.kind {
	case "mongo":
		return store.NewMongoMap[V](b.mongo.Collection(name))
	case "redis":
		return store.NewRedisMap[V](b.redis, b.namespace+":"+name)
	case "postgres":
		return store.NewPostgresMap[V](b.pg, b.namespace+"."+name)
	default:
		return store.NewMemoryMap[V]()
	}
}

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	defer func() { _ = logger.Sync() }()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: store=%s identity=%v mongo=%v redis=%v postgres=%v events=%s",
		cfg.Store.Backend, cfg.Identity.URL != "", cfg.MongoDB.URI != "", cfg.Redis.Addr() != "", cfg.Postgres.DSN != "", cfg.Events.Backend)

	ctx := context.Background()

	// Connect to Redis early so the rate limiter, sessions and blacklist can use it.
	var redisClient *redis.Client
	if addr := cfg.Redis.Addr(); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s): %v", addr, err)
			_ = client.Close()
		} else {
			redisClient = client
			defer func() { _ = redisClient.Close() }()
			logger.Infof("connected to Redis at %s", addr)
		}
	}

	var mongoClient *mongo.Client
	if cfg.MongoDB.URI != "" {
		client, err := database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
		if err != nil {
			logger.Warnf("could not connect to MongoDB: %v", err)
		} else {
			mongoClient = client
			defer func() { _ = mongoClient.Disconnect(context.Background()) }()
		}
	}

	var pg *sqlx.DB
	if cfg.Postgres.DSN != "" {
		db, err := database.OpenPostgres(ctx, cfg.Postgres.DSN, 10*time.Second)
		if err != nil {
			logger.Warnf("could not connect to Postgres: %v", err)
		} else if err := store.EnsureSchema(ctx, db); err != nil {
			logger.Warnf("failed to prepare Postgres schema: %v", err)
			_ = db.Close()
		} else {
			pg = db
			defer func() { _ = pg.Close() }()
		}
	}

	b := backends{kind: cfg.Store.Backend, namespace: cfg.Store.Namespace, redis: redisClient, pg: pg}
	if mongoClient != nil {
		b.mongo = mongoClient.Database(cfg.MongoDB.Database)
	}
	switch {
	case b.kind == "mongo" && b.mongo == nil,
		b.kind == "redis" && b.redis == nil,
		b.kind == "postgres" && b.pg == nil:
		logger.Fatalf("store backend %q selected but not reachable", b.kind)
	case b.kind != "mongo" && b.kind != "redis" && b.kind != "postgres":
		b.kind = "memory"
	}
	logger.Infof("using %s store (namespace %q)", b.kind, b.namespace)

	publisher, err := events.New(cfg.Events)
	if err != nil {
		logger.Warnf("events disabled: %v", err)
		publisher = events.Nop{}
	}
	defer func() { _ = publisher.Close() }()

	proposalOpts := []proposalService.Option{proposalService.WithPublisher(publisher)}
	var archiveReady bool
	if cfg.Archive.Endpoint != "" {
		arc, err := archive.NewMinIOArchive(ctx, cfg.Archive)
		if err != nil {
			logger.Warnf("proposal archive disabled: %v", err)
		} else {
			archiveReady = true
			proposalOpts = append(proposalOpts, proposalService.WithArchiver(arc))
		}
	}

	profiles := profileService.New(newMap[profile.Profile](b, "profiles"))
	proposals := proposalService.New(newMap[proposal.Proposal](b, "proposals"), proposalOpts...)
	market := marketService.New(newMap[marketplace.Product](b, "products"), newMap[marketplace.Order](b, "orders"), publisher)

	// Sessions: Redis, then Mongo, then process memory.
	var sessionRepo sessions.Repository
	var blacklist sessions.Blacklist
	switch {
	case redisClient != nil:
		sessionRepo = sessions.NewRedisRepository(redisClient, "")
		blacklist = sessions.NewRedisBlacklist(redisClient)
	case mongoClient != nil:
		sessionRepo = sessions.NewMongoRepository(b.mongo.Collection("sessions"))
		blacklist = sessions.NewMemoryBlacklist()
	default:
		sessionRepo = sessions.NewMemoryRepository()
		blacklist = sessions.NewMemoryBlacklist()
	}
	sessionsSvc := sessions.NewService(sessionRepo, cfg.Identity.MaxSessionTTL)

	secret := cfg.JWT.Secret
	if secret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			logger.Fatalf("failed to generate signing secret: %v", err)
		}
		secret = hex.EncodeToString(buf)
		logger.Warnf("JWT_SECRET not set; using an ephemeral secret, tokens will not survive a restart")
	}
	issuer, err := tokens.NewIssuer(secret, cfg.JWT.AccessTokenTTL)
	if err != nil {
		logger.Fatalf("failed to create token issuer: %v", err)
	}

	// Identity provider: verify ID tokens via discovery, or parse them
	// unverified when ALLOW_INSECURE_TOKEN is set (integration mode).
	var idp handlers.IdentityProvider
	var idVerifier middleware.Verifier
	if iss := cfg.Identity.Issuer(); iss != "" && cfg.Identity.ClientID != "" {
		tokenURL := ""
		if ver, err := oidc.NewVerifier(ctx, iss, cfg.Identity.ClientID); err != nil {
			logger.Warnf("failed to initialize OIDC verifier: %v", err)
		} else {
			idVerifier = ver
			tokenURL = ver.TokenURL()
		}
		if idVerifier == nil && cfg.Identity.AllowInsecure {
			logger.Warn("enabling insecure OIDC verifier (integration mode)")
			idVerifier = oidc.NewInsecureVerifier()
		}
		if idVerifier != nil {
			idp = oidc.NewProvider(iss, tokenURL, cfg.Identity.ClientID, cfg.Identity.ClientSecret, idVerifier)
		}
	}
	if idp == nil {
		logger.Warnf("identity provider not configured; /auth/login answers 503")
	}

	r := gin.New()

	// Lightweight CORS for the browser client.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	})
	r.Use(gin.Logger(), gin.Recovery(), middleware.Metrics(), middleware.ErrorHandler())
	// attribute callers before rate limiting so limits are per principal
	r.Use(middleware.OptionalAuth(issuer, blacklist))

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
		logger.Infof("rate limiter enabled: rps=%.1f burst=%d redis=%v", cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.UseRedis && redisClient != nil)
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness: 200 only when the selected store and configured optional deps are up
	r.GET("/ready", func(c *gin.Context) {
		rctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		deps := map[string]bool{"store": true}
		switch b.kind {
		case "mongo":
			deps["store"] = mongoClient.Ping(rctx, nil) == nil
		case "redis":
			deps["store"] = redisClient.Ping(rctx).Err() == nil
		case "postgres":
			deps["store"] = pg.PingContext(rctx) == nil
		}
		if cfg.Redis.Addr() != "" {
			deps["redis"] = redisClient != nil && redisClient.Ping(rctx).Err() == nil
		}
		if cfg.Identity.URL != "" {
			deps["identity"] = idp != nil
		}
		if cfg.Archive.Endpoint != "" {
			deps["archive"] = archiveReady
		}
		ready := true
		for _, ok := range deps {
			ready = ready && ok
		}
		status, code := "ready", http.StatusOK
		if !ready {
			status, code = "not_ready", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	handlers.NewAuthHandler(idp, sessionsSvc, issuer, blacklist).Register(r)
	handlers.RegisterSwagger(r)
	profileHandler.RegisterProfileRoutes(r, profiles)
	proposalHandler.RegisterProposalRoutes(r, proposals)
	marketHandler.RegisterMarketplaceRoutes(r, market)
	principalHandler.RegisterPrincipalRoutes(r)

	api := r.Group("/api/v1")
	api.GET("/me", middleware.AuthMiddleware(issuer, blacklist), func(c *gin.Context) {
		p, _ := middleware.Principal(c)
		prof, err := profiles.Get(c.Request.Context(), p)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, gin.H{"principal": p, "profile": prof})
		case errors.Is(err, apperror.ErrNotFound):
			c.JSON(http.StatusOK, gin.H{"principal": p})
		default:
			_ = c.Error(err)
		}
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("starting DAO service on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Infof("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
}
