package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/parketr3s/parke-tres/internal/config"
	"github.com/parketr3s/parke-tres/internal/database"
	"github.com/parketr3s/parke-tres/internal/handler"
	"github.com/parketr3s/parke-tres/internal/metrics"
	"github.com/parketr3s/parke-tres/internal/middleware"
	"github.com/parketr3s/parke-tres/internal/notify"
	"github.com/parketr3s/parke-tres/internal/queue"
	"github.com/parketr3s/parke-tres/internal/repository"
	"github.com/parketr3s/parke-tres/internal/router"
	"github.com/parketr3s/parke-tres/internal/tracking"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	visitorRepo := repository.NewVisitorRepo(db)
	purchaseRepo := repository.NewPurchaseRepo(db)
	packageRepo := repository.NewTimePackageRepo(db)

	// The tracking engine is the in-memory source of truth for live
	// sessions; MySQL is the write-through backup it reloads from.
	engine := tracking.NewEngine(tracking.NewStore(), visitorRepo)
	unfinished, err := visitorRepo.ListUnfinished(context.Background())
	if err != nil {
		log.Fatalf("reload sessions: %v", err)
	}
	for _, v := range unfinished {
		engine.Load(v)
	}
	log.Printf("tracking engine loaded %d unfinished visitors", len(unfinished))

	announcer := notify.NewAnnouncer()
	collector := metrics.NewCollector()
	dispatcher := notify.NewQueueDispatcher(announcer)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	poller := tracking.NewPoller(engine, dispatcher, collector, cfg.TrackerTick)
	go poller.Run(ctx)
	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true

	rdb := config.NewRedisClient()
	var cacheMW echo.MiddlewareFunc
	if rdb != nil {
		rlCfg := config.LoadRateLimitConfig()
		if rlCfg.Enabled {
			e.Use(middleware.NewTokenBucket(rlCfg, rdb))
		}
		// The response cache fronts the public catalog route only;
		// anything behind JWTAuth must never be served from cache.
		cacheCfg := config.LoadCacheConfig()
		if cacheCfg.Enabled {
			cacheMW = middleware.NewRedisCache(cacheCfg, rdb)
		}
	}

	authH := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	saleH := handler.NewSaleHandler(engine, visitorRepo, purchaseRepo, packageRepo)
	checkInH := handler.NewCheckInHandler(engine)
	trackingH := handler.NewTrackingHandler(engine)
	adminUserH := handler.NewAdminUserHandler(cfg, userRepo, tokenRepo)
	packageH := handler.NewPackageHandler(packageRepo)
	settingsH := handler.NewSettingsHandler(announcer)
	reportH := handler.NewReportHandler(cfg, purchaseRepo, packageRepo, visitorRepo, engine)

	router.RegisterRoutes(e, packageH, collector.Handler(), cacheMW)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterWorker(e, saleH, checkInH, trackingH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminUserH, packageH, settingsH, reportH, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, tick=%s)", addr, cfg.Env, cfg.TrackerTick)

	go func() {
		<-ctx.Done()
		if err := e.Shutdown(context.Background()); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()
	if err := e.Start(addr); err != nil {
		log.Println(err)
	}
}
