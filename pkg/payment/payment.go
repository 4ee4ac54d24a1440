// Package payment 根据配置装配支付服务
package payment

import (
	"ecell/app/models/payment"
	"ecell/config"
	pkgconfig "ecell/pkg/config"
	"ecell/pkg/payment/factory"
	"ecell/pkg/payment/types"
)

// NewFromConfig 读取 payment.method 创建支付服务
func NewFromConfig(orders types.OrderRepository, payments types.PaymentRepository, notifier types.Notifier) (types.Service, error) {
	method := payment.Method(pkgconfig.GetString("payment.method", string(payment.MethodUPI)))

	var cfg interface{}
	switch method {
	case payment.MethodUPI:
		cfg = config.LoadUPIConfig()
	}
	return factory.NewPaymentService(method, orders, payments, cfg, notifier)
}
