// Package contact 联系表单留言
package contact

import (
	"ecell/app/models"
)

// ContactMessage 联系表单提交，直接入库，无唯一约束
type ContactMessage struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName string `gorm:"type:varchar(80)" json:"first_name"`
	LastName  string `gorm:"type:varchar(80)" json:"last_name"`
	Email     string `gorm:"type:varchar(255);index" json:"email"`
	Subject   string `gorm:"type:varchar(255)" json:"subject"`
	Message   string `gorm:"type:text" json:"message"`

	models.CommonTimestampsField
}

// TableName 指定表名
func (ContactMessage) TableName() string {
	return "contacts"
}

// FullName 拼接姓名
func (m *ContactMessage) FullName() string {
	if m.LastName == "" {
		return m.FirstName
	}
	return m.FirstName + " " + m.LastName
}
