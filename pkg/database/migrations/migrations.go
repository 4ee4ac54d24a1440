package migrations

import (
	"ecell/app/models/contact"
	"ecell/app/models/order"
	"ecell/app/models/payment"
	"ecell/app/models/subscriber"
)

// RegisterTables 返回需要迁移的表的模型列表
func RegisterTables() []interface{} {
	return []interface{}{
		&order.Order{},
		&payment.Payment{},
		&contact.ContactMessage{},
		&subscriber.Subscriber{},
	}
}
