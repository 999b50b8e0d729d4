package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	applocation "github.com/xiebiao/inventory/internal/application/location"
	appreservation "github.com/xiebiao/inventory/internal/application/reservation"
	appstock "github.com/xiebiao/inventory/internal/application/stock"
	"github.com/xiebiao/inventory/internal/events"
	"github.com/xiebiao/inventory/internal/infrastructure/config"
	"github.com/xiebiao/inventory/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/inventory/internal/infrastructure/persistence/redis"
	httpiface "github.com/xiebiao/inventory/internal/interface/http"
	"github.com/xiebiao/inventory/internal/interface/http/handler"
	metricsupdater "github.com/xiebiao/inventory/internal/metrics"
	"github.com/xiebiao/inventory/internal/sweeper"
	"github.com/xiebiao/inventory/pkg/metrics"
)

// main 服务入口
// 启动顺序：配置 → 指标 → 存储 → 事件 → 应用服务 → HTTP/后台任务
// 关闭顺序与启动相反，保证在途请求与当前清理轮次完成后退出
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 初始化指标
	metrics.InitMetrics()

	// 3. 连接MySQL（含AutoMigrate）
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	// 4. Redis统计缓存（可选，未启用时降级为空实现）
	var statsCache appstock.StatsCache = appstock.NoopStatsCache{}
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(cfg)
		if err != nil {
			log.Fatalf("初始化Redis失败: %v", err)
		}
		defer redisClient.Close()
		statsCache = redis.NewStatsCache(redisClient, cfg.Redis.StatsTTL)
	}

	// 5. 事件发布器
	publisher, err := events.NewPublisher(cfg)
	if err != nil {
		log.Fatalf("初始化事件发布器失败: %v", err)
	}
	defer publisher.Close()

	// 6. 仓储与事务管理器
	txManager := mysql.NewTxManager(db)
	locRepo := mysql.NewLocationRepository(db)
	invRepo := mysql.NewInventoryRepository(db)
	adjRepo := mysql.NewAdjustmentRepository(db)
	resRepo := mysql.NewReservationRepository(db)

	// 7. 应用服务
	locationSvc := applocation.NewService(locRepo)
	stockSvc := appstock.NewService(invRepo, adjRepo, resRepo, locRepo, txManager, statsCache, publisher, cfg.Inventory)
	reservationSvc := appreservation.NewService(resRepo, invRepo, txManager, statsCache, publisher)

	// 8. 后台任务：过期预留清理 + 指标采样
	sw := sweeper.New(reservationSvc, cfg.Sweeper)
	sw.Start()
	defer sw.Stop()

	updater := metricsupdater.NewUpdater(invRepo, resRepo, locRepo, 30*time.Second)
	updater.Start()
	defer updater.Stop()

	// 9. HTTP服务
	router := httpiface.NewRouter(
		cfg.Server.Mode,
		handler.NewLocationHandler(locationSvc),
		handler.NewInventoryHandler(stockSvc),
		handler.NewReservationHandler(reservationSvc),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Printf("✓ 库存服务启动 port=%d mode=%s", cfg.Server.Port, cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP服务异常退出: %v", err)
		}
	}()

	// 10. 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("收到退出信号，开始优雅关闭...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("HTTP服务关闭超时: %v", err)
	}

	log.Println("服务已退出")
}
