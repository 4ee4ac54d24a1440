// Package subscriber 订阅者模型
package subscriber

import (
	"ecell/app/models"
)

// Subscriber 邮件订阅，重复订阅也会写入新行
type Subscriber struct {
	ID    uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Name  string `gorm:"type:varchar(120)" json:"name"`
	Email string `gorm:"type:varchar(255);index" json:"email"`

	models.CommonTimestampsField
}

// TableName 指定表名
func (Subscriber) TableName() string {
	return "subscribers"
}
