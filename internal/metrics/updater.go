package metrics

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/xiebiao/inventory/internal/domain/location"
	"github.com/xiebiao/inventory/internal/domain/reservation"
	"github.com/xiebiao/inventory/internal/domain/stock"
	"github.com/xiebiao/inventory/pkg/metrics"
)

// Updater 后台指标更新器
// 定期从数据库刷新规模类Gauge（库存记录数、活跃预留数、活跃库位数），
// 这类指标按请求路径维护成本太高，周期采样足够
type Updater struct {
	invRepo  stock.Repository
	resRepo  reservation.Repository
	locRepo  location.Repository
	interval time.Duration

	quit chan struct{}
	wg   sync.WaitGroup
}

// NewUpdater 创建指标更新器
func NewUpdater(invRepo stock.Repository, resRepo reservation.Repository, locRepo location.Repository, interval time.Duration) *Updater {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Updater{
		invRepo:  invRepo,
		resRepo:  resRepo,
		locRepo:  locRepo,
		interval: interval,
		quit:     make(chan struct{}),
	}
}

// Start 启动后台刷新循环（启动时立即采样一次）
func (u *Updater) Start() {
	u.wg.Add(1)
	go func() {
		defer u.wg.Done()

		u.Refresh(context.Background())

		ticker := time.NewTicker(u.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				u.Refresh(context.Background())
			case <-u.quit:
				return
			}
		}
	}()
	log.Printf("✓ 指标更新器启动 interval=%v", u.interval)
}

// Stop 停止刷新循环
func (u *Updater) Stop() {
	close(u.quit)
	u.wg.Wait()
}

// Refresh 采样一次并更新Gauge
func (u *Updater) Refresh(ctx context.Context) {
	if count, err := u.invRepo.CountRecords(ctx); err != nil {
		log.Printf("采样库存记录数失败: %v", err)
	} else {
		metrics.SetInventoryRecords(count)
	}

	if count, err := u.resRepo.CountActive(ctx); err != nil {
		log.Printf("采样活跃预留数失败: %v", err)
	} else {
		metrics.SetActiveReservations(count)
	}

	if count, err := u.locRepo.CountActive(ctx); err != nil {
		log.Printf("采样活跃库位数失败: %v", err)
	} else {
		metrics.SetActiveLocations(count)
	}
}
