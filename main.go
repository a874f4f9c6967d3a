package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chaos-io/closetcut/config"
	"github.com/chaos-io/closetcut/handler"
	"github.com/chaos-io/closetcut/middleware"
	"github.com/chaos-io/closetcut/service"
	"github.com/chaos-io/closetcut/util"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", "config.yaml", "配置文件路径")
	input := flag.String("input", "", "一次性处理的图片路径或URL，留空则启动HTTP服务")
	output := flag.String("output", "", "一次性处理的输出目录，默认取配置")
	mode := flag.String("mode", "", "处理模式 auto|local|api，默认取配置")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// 配置文件缺失时用内置默认值
		cfg = config.New()
	}

	if err := util.InitLogger(cfg.Server.Mode); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer util.Sync()

	if *mode != "" {
		cfg.Cutout.Mode = *mode
	}
	if *output != "" {
		cfg.Upload.OutputDir = *output
	}

	if *input != "" {
		runOnce(cfg, *input)
		return
	}

	runServer(cfg)
}

// runOnce 一次性处理单张图片后退出
func runOnce(cfg *config.Config, input string) {
	processService, err := service.NewProcessService(cfg)
	if err != nil {
		util.Logger.Fatal("invalid cutout config", zap.Error(err))
	}

	data, err := util.ReadImageData(input)
	if err != nil {
		util.Logger.Fatal("failed to load image",
			zap.String("input", input), zap.Error(err))
	}

	result, err := processService.ProcessImage(context.Background(), data,
		util.BytesMD5(data), processService.Processor().Mode, nil)
	if err != nil {
		util.Logger.Fatal("failed to process image", zap.Error(err))
	}
	if result.SavedPath == "" {
		util.Logger.Fatal("failed to save output file")
	}

	util.Logger.Info("done",
		zap.String("mode", result.Mode),
		zap.Int("width", result.Width),
		zap.Int("height", result.Height),
		zap.String("output", result.SavedPath))
}

func runServer(cfg *config.Config) {
	util.Logger.Info("starting closetcut server",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit))

	// 确保输出目录存在
	if err := os.MkdirAll(cfg.Upload.OutputDir, 0755); err != nil {
		util.Logger.Fatal("failed to create output directory", zap.Error(err))
	}

	// 初始化Redis
	cacheService := service.NewCacheService(&cfg.Redis)
	ctx := context.Background()
	if err := cacheService.Ping(ctx); err != nil {
		util.Logger.Warn("redis connection failed, cache degraded", zap.Error(err))
	} else {
		util.Logger.Info("redis connected successfully")
	}
	defer func() {
		_ = cacheService.Close()
	}()

	processService, err := service.NewProcessService(cfg)
	if err != nil {
		util.Logger.Fatal("invalid cutout config", zap.Error(err))
	}

	// 过期输出文件清理
	cleanup := service.NewCleanupService(cfg.Upload.OutputDir, cfg.Upload.RetainFor)
	if err := cleanup.Start(); err != nil {
		util.Logger.Warn("failed to start cleanup cron", zap.Error(err))
	}
	defer cleanup.Stop()

	cutoutHandler := handler.NewCutoutHandler(cfg, cacheService, processService)

	// 设置Gin模式
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS())

	// 健康检查和版本信息
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"version": Version,
		})
	})

	r.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// API路由
	api := r.Group("/api/v1")
	{
		api.POST("/cutout", cutoutHandler.Cutout)
		api.GET("/cutout/:hash", cutoutHandler.GetByHash)
		api.POST("/adjust", cutoutHandler.Adjust)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	util.Logger.Info("server starting", zap.String("port", cfg.Server.Port))
	if err := srv.ListenAndServe(); err != nil {
		util.Logger.Fatal("failed to start server", zap.Error(err))
	}
}
