package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/5w1tchy/catalog-api/internal/api/handlers"
	"github.com/5w1tchy/catalog-api/internal/api/handlers/authors"
	"github.com/5w1tchy/catalog-api/internal/api/handlers/books"
	mw "github.com/5w1tchy/catalog-api/internal/api/middlewares"
	"github.com/5w1tchy/catalog-api/internal/api/router"
	"github.com/5w1tchy/catalog-api/internal/auth"
	"github.com/5w1tchy/catalog-api/internal/cache/listcache"
	"github.com/5w1tchy/catalog-api/internal/config"
	"github.com/5w1tchy/catalog-api/internal/maintenance"
	"github.com/5w1tchy/catalog-api/internal/query"
	jwtutil "github.com/5w1tchy/catalog-api/internal/security/jwt"
	"github.com/5w1tchy/catalog-api/internal/security/password"
	"github.com/5w1tchy/catalog-api/internal/snapshot"
	"github.com/5w1tchy/catalog-api/internal/storage/s3"
	"github.com/5w1tchy/catalog-api/internal/store/catalog"
	"github.com/5w1tchy/catalog-api/internal/validate"
	"github.com/5w1tchy/catalog-api/pkg/utils"
)

func main() {
	cfg := config.Load(".env", "../../.env")
	if err := validate.Env(cfg); err != nil {
		log.Fatalf("config: %v", err)
	}
	for _, w := range validate.HardeningWarnings(cfg) {
		log.Printf("[config] WARNING: %s", w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, db, err := catalog.Open(ctx, cfg.Store)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	var users auth.UserStore = auth.NewMemStore()
	if db != nil {
		defer db.Close()
		users = auth.NewSQLStore(db)
	}

	rdb := newRedis(ctx, cfg.Redis)
	if rdb != nil {
		defer rdb.Close()
	}

	hasher := password.NewHasher(password.DefaultParams().WithCost(
		cfg.Auth.Argon2.Memory, cfg.Auth.Argon2.Iterations, cfg.Auth.Argon2.Parallelism,
	))
	signer := jwtutil.NewSigner(jwtutil.Config{
		Secret:    []byte(cfg.Auth.JWTSecret),
		AccessTTL: cfg.Auth.AccessTTL,
		ClockSkew: cfg.Auth.ClockSkew,
	})
	if cfg.Auth.BootstrapUser != "" {
		if err := auth.EnsureUser(ctx, users, hasher, cfg.Auth.BootstrapUser, cfg.Auth.BootstrapPassword); err != nil {
			log.Fatalf("bootstrap user: %v", err)
		}
	}

	cache := listcache.New(rdb, cfg.Cache.ListTTL)
	mux := router.Router(router.Deps{
		Books:      books.New(store, cache, mw.IsAuthenticated, time.Now),
		Authors:    authors.New(store, cache, mw.IsAuthenticated),
		Auth:       auth.New(users, hasher, signer),
		Health:     handlers.Health(store, cache, rdb != nil),
		LoginLimit: mw.LoginRateLimit(rdb, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow),
	})

	var limiter utils.Middleware
	if rdb != nil {
		limiter = mw.NewRedisTokenBucket(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, mw.PerIPKey("tb")).Middleware
	} else {
		limiter = mw.NewLocalLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, mw.PerIPKey("tb")).Middleware
	}

	secureMux := utils.ApplyMiddleware(mux,
		mw.RequestID,
		mw.ClientIP(cfg.HTTP.TrustProxy),
		mw.Recovery,
		mw.Cors(cfg.HTTP.AllowedOrigins),
		mw.ResponseTime,
		mw.SecurityHeaders(cfg.HTTP.StrictSecurity),
		mw.BodySizeLimit(cfg.HTTP.MaxBodySize),
		limiter,
		mw.Compression,
		mw.HPP(query.Params()),
		mw.OptionalAuth(signer, users),
	)

	if cfg.Snapshot.At != "" && cfg.S3.Bucket != "" {
		startSnapshots(ctx, cfg, store)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           secureMux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
	}

	go func() {
		var err error
		if cfg.HTTP.TLSCert != "" {
			log.Println("Server is running with TLS on port:", cfg.HTTP.Port)
			err = server.ListenAndServeTLS(cfg.HTTP.TLSCert, cfg.HTTP.TLSKey)
		} else {
			log.Println("Server is running on port:", cfg.HTTP.Port)
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalln("Error starting server:", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func startSnapshots(ctx context.Context, cfg *config.Config, store catalog.AuthorStore) {
	bucket, err := s3.NewClient(ctx, cfg.S3)
	if err != nil {
		log.Printf("[snapshot] disabled: %v", err)
		return
	}
	job := func(ctx context.Context) {
		if _, err := snapshot.Run(ctx, store, bucket, cfg.Snapshot.Keep, time.Now()); err != nil {
			log.Printf("[snapshot] export failed: %v", err)
		}
	}
	if err := maintenance.StartDaily(ctx, "snapshot", cfg.Snapshot.At, cfg.Snapshot.TZ, job); err != nil {
		log.Printf("[snapshot] disabled: SNAPSHOT_AT: %v", err)
	}
}
