// Package payment 付款记录模型
package payment

import (
	"time"

	"ecell/app/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment 付款记录，用户点击“我已付款”时创建，属于自我声明
type Payment struct {
	ID            string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OrderID       string     `gorm:"type:varchar(36);index" json:"order_id"`
	TransactionID string     `gorm:"type:varchar(64);index" json:"transaction_id"`
	Amount        int64      `json:"amount"`
	Method        string     `gorm:"type:varchar(20)" json:"method"`
	Verified      bool       `gorm:"default:false;index" json:"verified"`
	VerifiedBy    string     `gorm:"type:varchar(255)" json:"verified_by,omitempty"`
	VerifiedAt    *time.Time `json:"verified_at,omitempty"`
	ExtraData     JSON       `gorm:"type:json" json:"extra_data,omitempty"`

	// 冗余订单信息，方便人工对账
	Email    string `gorm:"type:varchar(255)" json:"email"`
	FullName string `gorm:"type:varchar(120)" json:"full_name"`
	Branch   string `gorm:"type:varchar(80)" json:"branch"`

	models.CommonTimestampsField
}

// TableName 指定表名
func (Payment) TableName() string {
	return "payments"
}

// BeforeCreate GORM 钩子，补全主键
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
