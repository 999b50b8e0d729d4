package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/inventory/internal/domain/reservation"
)

// reservationRepository MySQL预留仓储实现
//
// 状态迁移（Mark*）采用"锁定-校验-更新"：FOR UPDATE锁住目标行后检查
// 当前状态，只有active才允许迁移。区分两种失败：记录不存在返回
// ErrNotFound，已处于终态返回ErrNotActive，调用方据此映射不同的
// 业务错误码。
type reservationRepository struct {
	db *gorm.DB
}

// NewReservationRepository 创建预留仓储实例
func NewReservationRepository(db *gorm.DB) reservation.Repository {
	return &reservationRepository{db: db}
}

// Create 创建预留记录
func (r *reservationRepository) Create(ctx context.Context, res *reservation.Reservation) error {
	if err := res.Validate(); err != nil {
		return err
	}

	if err := getDB(ctx, r.db).Create(res).Error; err != nil {
		return fmt.Errorf("创建预留失败: %w", err)
	}

	return nil
}

// GetByID 根据ID获取预留
func (r *reservationRepository) GetByID(ctx context.Context, id uint) (*reservation.Reservation, error) {
	var res reservation.Reservation

	if err := getDB(ctx, r.db).First(&res, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reservation.ErrNotFound
		}
		return nil, fmt.Errorf("查询预留失败: %w", err)
	}

	return &res, nil
}

// GetActiveByOrder 获取订单的所有活跃预留
func (r *reservationRepository) GetActiveByOrder(ctx context.Context, orderID uint) ([]*reservation.Reservation, error) {
	var list []*reservation.Reservation

	err := getDB(ctx, r.db).
		Where("order_id = ? AND status = ?", orderID, reservation.StatusActive).
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("查询订单预留失败: %w", err)
	}

	return list, nil
}

// List 预留列表（最新在前）
func (r *reservationRepository) List(ctx context.Context, filter reservation.ListFilter) ([]*reservation.Reservation, error) {
	query := getDB(ctx, r.db).Model(&reservation.Reservation{})

	if filter.OrderID != 0 {
		query = query.Where("order_id = ?", filter.OrderID)
	}
	if filter.ProductID != 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var list []*reservation.Reservation
	err := query.Order("created_at DESC").
		Limit(filter.Limit).Offset(filter.Offset).
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("查询预留列表失败: %w", err)
	}

	return list, nil
}

// GetExpired 获取已超时但仍为active的预留
// 按过期时间升序，最早过期的优先回收
func (r *reservationRepository) GetExpired(ctx context.Context, now time.Time, limit int) ([]*reservation.Reservation, error) {
	var list []*reservation.Reservation

	err := getDB(ctx, r.db).
		Where("status = ? AND expires_at <= ?", reservation.StatusActive, now).
		Order("expires_at ASC").
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("查询过期预留失败: %w", err)
	}

	return list, nil
}

// MarkCompleted active → completed
func (r *reservationRepository) MarkCompleted(ctx context.Context, id uint) error {
	return r.transition(ctx, id, reservation.StatusCompleted)
}

// MarkReleased active → released
func (r *reservationRepository) MarkReleased(ctx context.Context, id uint) error {
	return r.transition(ctx, id, reservation.StatusReleased)
}

// MarkExpired active → expired
func (r *reservationRepository) MarkExpired(ctx context.Context, id uint) error {
	return r.transition(ctx, id, reservation.StatusExpired)
}

// transition 状态迁移（只允许active出发）
func (r *reservationRepository) transition(ctx context.Context, id uint, to reservation.Status) error {
	return getDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		var res reservation.Reservation

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&res, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return reservation.ErrNotFound
			}
			return fmt.Errorf("锁定预留失败: %w", err)
		}

		// 终态不可再迁移（completed/released/expired都是终点）
		if !res.IsActive() {
			return reservation.ErrNotActive
		}

		if err := tx.Model(&res).Update("status", to).Error; err != nil {
			return fmt.Errorf("更新预留状态失败: %w", err)
		}

		return nil
	})
}

// CountActive 活跃预留总数
func (r *reservationRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&reservation.Reservation{}).
		Where("status = ?", reservation.StatusActive).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("统计活跃预留失败: %w", err)
	}
	return count, nil
}
