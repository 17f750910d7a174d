package main // Entry point package

import (
    "context"
    "log"
    "os"
    "os/signal"
    "syscall"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"
    "github.com/rs/zerolog"

    "github.com/lehoang/visit-registration/internal/config"
    "github.com/lehoang/visit-registration/internal/database"
    "github.com/lehoang/visit-registration/internal/handler"
    "github.com/lehoang/visit-registration/internal/hub"
    "github.com/lehoang/visit-registration/internal/middleware"
    "github.com/lehoang/visit-registration/internal/queue"
    "github.com/lehoang/visit-registration/internal/repository"
    "github.com/lehoang/visit-registration/internal/router"
    "github.com/lehoang/visit-registration/internal/service"
)

func main() {
    _ = godotenv.Load() // .env is optional; real deployments use the environment

    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("open database: %v", err)
    }
    defer db.Close()

    // Redis is optional: without it the rate limiter and the config cache
    // degrade to pass-through.
    rdb := config.NewRedisClient()

    regRepo := repository.NewRegistrationRepo(db)
    cfgRepo := repository.NewFormConfigRepo(db)
    userRepo := repository.NewUserRepo(db)
    emailRepo := repository.NewEmailConfigRepo(db)

    events := hub.New()
    notifier := &service.AsyncNotifier{URL: cfg.RabbitURL}

    // Background mail consumer.  It reconnects on its own, so a broker that
    // is down at boot only delays notifications.
    ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()
    mailLog := zerolog.New(os.Stderr).With().Timestamp().Str("component", "mail-consumer").Logger()
    consumer := queue.NewConsumer(cfg.RabbitURL, cfg.SMTP, emailRepo, mailLog)
    go func() {
        if err := consumer.Start(ctx); err != nil {
            mailLog.Error().Err(err).Msg("mail consumer stopped")
        }
    }()

    cache := middleware.NewConfigCache(config.LoadCacheConfig(), rdb)
    limit := middleware.RateLimit(config.LoadRateLimitConfig(), rdb)

    pub := handler.NewPublicHandler(regRepo, cfgRepo, events)
    admin := handler.NewAdminHandler(regRepo, events, notifier)
    adminCfg := handler.NewAdminConfigHandler(cfgRepo, emailRepo, events, cache)
    auth := handler.NewAuthHandler(cfg, userRepo)

    e := echo.New()
    e.HideBanner = true
    e.Use(echomw.Recover())
    e.Use(echomw.CORS())

    router.RegisterRoutes(e)
    router.RegisterPublic(e, pub, limit, cache)
    router.RegisterEvents(e, events.Handler("/v1/events"))
    router.RegisterAuth(e, auth, cfg.JWTSecret)
    router.RegisterAdmin(e, admin, adminCfg, cfg.JWTSecret)

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)

    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
