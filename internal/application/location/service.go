package location

import (
	"context"
	"errors"

	"github.com/xiebiao/inventory/internal/domain/location"
)

// Service 库位应用服务
// 库位本身没有并发计数器，服务层只做校验、错误映射与仓储编排
type Service struct {
	repo location.Repository
}

// NewService 创建库位应用服务
func NewService(repo location.Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput 创建库位请求
type CreateInput struct {
	Name    string
	Address string
	Type    location.LocationType
}

// Create 创建库位
// 名称全局唯一；类型必须是已定义的枚举值
func (s *Service) Create(ctx context.Context, in CreateInput) (*location.Location, error) {
	if in.Name == "" {
		return nil, location.ErrEmptyName
	}
	if _, err := location.ParseLocationType(string(in.Type)); err != nil {
		return nil, err
	}

	loc := &location.Location{
		Name:    in.Name,
		Address: in.Address,
		Type:    in.Type,
		Active:  true,
	}
	if err := s.repo.Create(ctx, loc); err != nil {
		return nil, err
	}

	return loc, nil
}

// GetByID 根据ID获取库位
func (s *Service) GetByID(ctx context.Context, id uint) (*location.Location, error) {
	return s.repo.GetByID(ctx, id)
}

// List 库位列表
func (s *Service) List(ctx context.Context, filter location.ListFilter) ([]*location.Location, int64, error) {
	if filter.Type != "" {
		if _, err := location.ParseLocationType(string(filter.Type)); err != nil {
			return nil, 0, err
		}
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, filter)
}

// Update 更新库位信息
// 改名时先确认新名称未被其他库位占用
func (s *Service) Update(ctx context.Context, id uint, upd location.LocationUpdate) (*location.Location, error) {
	if upd.Name != nil && *upd.Name != "" {
		existing, err := s.repo.GetByName(ctx, *upd.Name)
		if err != nil && !errors.Is(err, location.ErrNotFound) {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, location.ErrNameDuplicate
		}
	}

	return s.repo.Update(ctx, id, upd)
}

// Deactivate 停用库位（幂等：重复停用返回成功）
// 软删除——历史库存与预留仍引用该库位，不做物理删除
func (s *Service) Deactivate(ctx context.Context, id uint) error {
	return s.repo.Deactivate(ctx, id)
}

// GetByType 按类型查询激活库位
func (s *Service) GetByType(ctx context.Context, t location.LocationType) ([]*location.Location, error) {
	if _, err := location.ParseLocationType(string(t)); err != nil {
		return nil, err
	}
	return s.repo.GetByType(ctx, t)
}
