package repositories

import (
	"context"
	"errors"

	"ecell/app/models/order"
	"ecell/pkg/payment/types"

	"gorm.io/gorm"
)

// OrderRepository 订单仓库
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建仓库实例
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{
		db: db,
	}
}

// Create 创建订单
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

// GetByID 根据 ID 获取订单，不存在时返回 types.ErrNotFound
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	var o order.Order
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NotFound("order %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}
