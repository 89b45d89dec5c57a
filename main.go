package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"nikodex/config"
	"nikodex/db"
	"nikodex/handlers"
	"nikodex/locks"
	"nikodex/logger"
	"nikodex/models"
	"nikodex/scheduler"
	"nikodex/storage"
	"nikodex/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	if err := config.Load(); err != nil {
		panic(err)
	}
	if err := logger.Init(); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Instance

	if config.SECRET_KEY == "" {
		if !config.DEBUG_MODE {
			log.Fatal("NIKODEX_SECRET_KEY must be set")
		}
		config.SECRET_KEY = "debug-only-secret"
		log.Warn("using the debug signing key, tokens are not safe")
	}
	if err := db.Init(); err != nil {
		log.Fatal("database", zap.Error(err))
	}
	defer db.Close()
	if err := models.Migrate(); err != nil {
		log.Fatal("migrations", zap.Error(err))
	}
	if err := storage.Init(); err != nil {
		log.Fatal("storage", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if config.REDIS_ADDR != "" {
		locker := locks.NewRedisLocker(&redis.Options{Addr: config.REDIS_ADDR, Password: config.REDIS_PASSWORD})
		defer locker.Close()
		if err := locker.Ping(ctx); err != nil {
			log.Warn("redis unreachable, daily pick selection runs unlocked until it is back", zap.Error(err))
		}
		models.PickLocker = locker
	}

	runner := scheduler.New(log, ctx, config.PickLocation())
	if _, err := runner.Add("daily-pick", config.PICK_CRON, models.RollDailyPick); err != nil {
		log.Fatal("cron", zap.String("spec", config.PICK_CRON), zap.Error(err))
	}
	runner.Start()
	defer runner.Stop()

	if !config.DEBUG_MODE {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), utils.RequestLogger())
	_ = router.SetTrustedProxies([]string{})
	if config.DEBUG_MODE {
		router.Use(utils.ErrorLogMiddleware)
	}
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "PUT", "POST", "DELETE"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length", "X-RefreshAt"},
		MaxAge:        30 * 24 * time.Hour,
	}
	if origins := utils.SplitList(config.CORS_ORIGINS); len(origins) == 0 || origins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}
	router.Use(cors.New(corsConfig))
	if !config.DEBUG_MODE {
		// PNGs are already compressed
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPathsRegexs([]string{`/image$`, `/profile_picture$`})))
	}
	handlers.Routes(router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("address", config.BIND_ADDRESS), zap.String("tls", config.TLS_DOMAINS))
		if config.TLS_DOMAINS != "" {
			errCh <- autotls.Run(router, strings.Split(config.TLS_DOMAINS, ",")...)
			return
		}
		errCh <- router.Run(config.BIND_ADDRESS)
	}()
	select {
	case err := <-errCh:
		log.Error("server stopped", zap.Error(err))
	case <-ctx.Done():
		log.Info("shutting down")
	}
}
