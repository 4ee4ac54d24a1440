// Package order 报名订单模型
package order

import (
	"ecell/app/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order 报名订单，提交表单时创建，confirmed 只由核验付款修改
type Order struct {
	ID        string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	FullName  string `gorm:"type:varchar(120)" json:"full_name"`
	Email     string `gorm:"type:varchar(255);index" json:"email"`
	Phone     string `gorm:"column:ph_no;type:varchar(20)" json:"ph_no"`
	RollNo    string `gorm:"type:varchar(40);index" json:"roll_no"`
	Year      string `gorm:"type:varchar(20)" json:"year"`
	Branch    string `gorm:"type:varchar(80)" json:"branch"`
	Referral  string `gorm:"column:referal;type:varchar(80)" json:"referal"`
	EventName string `gorm:"type:varchar(120)" json:"event_name"`
	Amount    int64  `json:"amount"`
	Method    string `gorm:"type:varchar(20)" json:"method"`
	Confirmed bool   `gorm:"default:false;index" json:"confirmed"`

	models.CommonTimestampsField
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// BeforeCreate GORM 钩子，补全主键
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}
