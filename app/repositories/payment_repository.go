package repositories

import (
	"context"
	"errors"
	"time"

	"ecell/app/models/order"
	"ecell/app/models/payment"
	"ecell/pkg/payment/types"

	"gorm.io/gorm"
)

// PaymentRepository 付款记录仓库
type PaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository 创建仓库实例
func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{
		db: db,
	}
}

// Create 创建付款记录
func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// GetByTransactionID 根据交易号获取最早的一条付款记录
func (r *PaymentRepository) GetByTransactionID(ctx context.Context, transactionID string) (*payment.Payment, error) {
	var p payment.Payment
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("created_at ASC").
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NotFound("transaction %s", transactionID)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Verify 核验交易号下的全部付款，并在同一事务中确认对应订单
// 交易号不存在时返回 types.ErrNotFound，不修改任何数据
func (r *PaymentRepository) Verify(ctx context.Context, transactionID, verifiedBy string) (*payment.Payment, error) {
	var verified payment.Payment

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var payments []payment.Payment
		if err := tx.Where("transaction_id = ?", transactionID).
			Order("created_at ASC").
			Find(&payments).Error; err != nil {
			return err
		}
		if len(payments) == 0 {
			return types.NotFound("transaction %s", transactionID)
		}

		now := time.Now()
		if err := tx.Model(&payment.Payment{}).
			Where("transaction_id = ?", transactionID).
			Updates(map[string]interface{}{
				"verified":    true,
				"verified_by": verifiedBy,
				"verified_at": now,
			}).Error; err != nil {
			return err
		}

		orderIDs := make([]string, 0, len(payments))
		for _, p := range payments {
			orderIDs = append(orderIDs, p.OrderID)
		}
		if err := tx.Model(&order.Order{}).
			Where("id IN ?", orderIDs).
			Update("confirmed", true).Error; err != nil {
			return err
		}

		verified = payments[0]
		verified.Verified = true
		verified.VerifiedBy = verifiedBy
		verified.VerifiedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &verified, nil
}
