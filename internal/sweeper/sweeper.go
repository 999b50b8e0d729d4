package sweeper

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/xiebiao/inventory/internal/domain/reservation"
	"github.com/xiebiao/inventory/internal/infrastructure/config"
)

// Reaper 过期预留回收接口（由应用层预留服务实现）
type Reaper interface {
	// GetExpired 查询已超时但仍活跃的预留
	GetExpired(ctx context.Context, limit int) ([]*reservation.Reservation, error)

	// Expire 回收单条预留（账本回补+状态迁移，独立事务）
	Expire(ctx context.Context, id uint) error
}

// Sweeper 过期预留清理任务
//
// 设计说明：
// 1. 固定间隔扫描超时且仍为active的预留，逐条回收
// 2. 逐条独立事务：单条失败记日志后继续，不阻塞同批其他预留
// 3. 回收动作复用预留服务的Expire（账本回补+状态迁移+事件）
type Sweeper struct {
	svc      Reaper
	interval time.Duration
	batch    int

	quit chan struct{}
	wg   sync.WaitGroup
}

// New 创建清理任务
func New(svc Reaper, cfg config.SweeperConfig) *Sweeper {
	return &Sweeper{
		svc:      svc,
		interval: cfg.Interval,
		batch:    cfg.BatchSize,
		quit:     make(chan struct{}),
	}
}

// Start 启动后台清理循环
func (s *Sweeper) Start() {
	s.wg.Add(1)
	go s.loop()
	log.Printf("✓ 过期预留清理任务启动 interval=%v batch=%d", s.interval, s.batch)
}

// Stop 停止清理循环（等待当前轮次完成）
func (s *Sweeper) Stop() {
	close(s.quit)
	s.wg.Wait()
	log.Println("过期预留清理任务已停止")
}

func (s *Sweeper) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.SweepOnce(context.Background())
		case <-s.quit:
			return
		}
	}
}

// SweepOnce 执行一轮清理，返回成功回收的数量
func (s *Sweeper) SweepOnce(ctx context.Context) int {
	expired, err := s.svc.GetExpired(ctx, s.batch)
	if err != nil {
		log.Printf("查询过期预留失败: %v", err)
		return 0
	}
	if len(expired) == 0 {
		return 0
	}

	recovered := 0
	for _, res := range expired {
		if err := s.svc.Expire(ctx, res.ID); err != nil {
			// 可能与手动释放/完成并发竞争，跳过即可
			log.Printf("回收过期预留失败 reservation_id=%d: %v", res.ID, err)
			continue
		}
		recovered++
	}

	log.Printf("过期预留清理完成: 发现%d条, 回收%d条", len(expired), recovered)
	return recovered
}
