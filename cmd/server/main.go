package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"linkwrap-platform/internal/botdetect"
	"linkwrap-platform/internal/clicks"
	"linkwrap-platform/internal/config"
	"linkwrap-platform/internal/handler"
	"linkwrap-platform/internal/metrics"
	"linkwrap-platform/internal/middleware"
	"linkwrap-platform/internal/service"
	"linkwrap-platform/internal/shortcode"
	"linkwrap-platform/internal/store"
	"linkwrap-platform/internal/urlsafe"
	"linkwrap-platform/pkg/database"
	auth "linkwrap-platform/pkg/jwt"
	"linkwrap-platform/pkg/logger"
	"linkwrap-platform/pkg/redis"
	"linkwrap-platform/web"

	_ "linkwrap-platform/docs"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title Link Wrap API
// @version 1.0
// @description 链接包装与跳转服务
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	configPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "配置加载失败: %v\n", err)
		os.Exit(1)
	}

	logger.InitLogger(logger.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
	})
	defer func() {
		if err := logger.Logger.Sync(); err != nil {
			fmt.Println("日志同步失败:", err)
		}
	}()
	sugaredLogger := zap.S()

	db, err := database.Open(database.Options{
		Driver:   cfg.Database.Driver,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Name:     cfg.Database.Name,
		Charset:  cfg.Database.Charset,
		Path:     cfg.Database.Path,
	})
	if err != nil {
		sugaredLogger.Fatalf("数据库初始化失败: %v", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()
	sugaredLogger.Infof("✅ 数据库连接成功 (%s)", cfg.Database.Driver)

	rdb, err := redis.NewRedisClient(redis.Options{
		Host:     cfg.Cache.Host,
		Port:     cfg.Cache.Port,
		Password: cfg.Cache.Password,
		DB:       cfg.Cache.DB,
	})
	if err != nil {
		sugaredLogger.Warnf("缓存连接失败, 使用进程内缓存和限流: %v", err)
		rdb = nil
	}
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				sugaredLogger.Errorf("关闭 Redis 连接失败: %v", err)
			}
		}()
		sugaredLogger.Info("✅ 缓存连接成功")
	}

	local, err := store.NewLocalCache(cfg.Cache.LocalMaxItems)
	if err != nil {
		sugaredLogger.Fatalf("本地缓存初始化失败: %v", err)
	}
	defer local.Close()

	gormStore := store.NewGormStore(db)
	linkStore := store.NewCachedStore(gormStore, local, rdb,
		time.Duration(cfg.Cache.TTLMinutes)*time.Minute, sugaredLogger)

	codec, err := urlsafe.NewCodec(cfg.Security.URLEncryptionKey)
	if err != nil {
		sugaredLogger.Fatalf("链接加密密钥无效: %v", err)
	}

	generator, err := shortcode.NewGenerator()
	if err != nil {
		sugaredLogger.Fatalf("短码生成器初始化失败: %v", err)
	}

	m := metrics.New()

	// 点击统计直接写库, 不经过缓存
	tracker := clicks.NewTracker(gormStore, clicks.Config{
		Workers:   cfg.Link.ClickWorkers,
		QueueSize: cfg.Link.ClickQueueSize,
		Timeout:   time.Duration(cfg.Link.ClickTimeoutSeconds) * time.Second,
	}, sugaredLogger)
	tracker.OnDrop = m.ClickDropped
	tracker.Start()
	sugaredLogger.Info("✅ 点击统计已启动")

	linkService := service.NewLinkService(service.Options{
		Store:      linkStore,
		Generator:  generator,
		Classifier: service.NewClassifier(cfg.Classification.NormalDomains, cfg.Classification.SensitiveDomains),
		Codec:      codec,
		Tracker:    tracker,
		Logger:     sugaredLogger,
		MaxRetries: cfg.Link.CreateRetries,
	})

	detector := botdetect.New(botdetect.Options{
		ExtraSearchCrawlers: cfg.BotDetection.ExtraSearchCrawlers,
		ExtraSocialPreviews: cfg.BotDetection.ExtraSocialPreviews,
		ExtraAutomation:     cfg.BotDetection.ExtraAutomation,
		BlockPaths:          cfg.BotDetection.BlockPaths,
	})

	tokenManager := auth.NewManager(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.ExpirationHours)
	sugaredLogger.Info("✅ 认证管理器初始化成功")

	if cfg.App.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.GinZapRecovery(logger.Logger, true))
	router.Use(middleware.GinZapLogger(logger.Logger))
	router.Use(middleware.ContextTimeout(cfg.Server.StoreTimeout()))
	router.SetHTMLTemplate(web.Templates())

	router.GET("/metrics", gin.WrapH(m.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	linkHandler := handler.NewLinkHandler(handler.Options{
		Service:     linkService,
		Detector:    detector,
		Tokens:      tokenManager,
		Metrics:     m,
		Logger:      sugaredLogger,
		MaxIDLength: cfg.Link.MaxShortIDLength,
		UnlockTTL:   time.Duration(cfg.Link.UnlockTokenMinutes) * time.Minute,
	})
	handler.RegisterRoutes(router, linkHandler,
		middleware.RateLimit(rdb, &cfg.RateLimit),
		middleware.OptionalAuth(tokenManager),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		sugaredLogger.Infof("🚀 服务启动成功, 访问 http://localhost:%d", cfg.Server.Port)
		sugaredLogger.Infof("📚 Swagger 文档地址: http://localhost:%d/swagger/index.html", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugaredLogger.Fatalf("服务启动失败: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	sugaredLogger.Info("正在关闭服务...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		sugaredLogger.Errorf("服务关闭失败: %v", err)
	}

	// 等待队列中的点击写完再关闭数据库
	tracker.Stop()
	sugaredLogger.Infof("点击统计已停止, 已处理 %d, 丢弃 %d", tracker.Processed(), tracker.Dropped())
}
