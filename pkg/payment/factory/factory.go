package factory

import (
	"fmt"

	"ecell/app/models/payment"
	"ecell/config"
	"ecell/pkg/payment/types"
	"ecell/pkg/payment/upipay"
)

// NewPaymentService 按支付方式创建支付服务
func NewPaymentService(method payment.Method, orders types.OrderRepository, payments types.PaymentRepository, cfg interface{}, notifier types.Notifier) (types.Service, error) {
	switch method {
	case payment.MethodUPI:
		ucfg, ok := cfg.(config.UPIConfig)
		if !ok {
			return nil, fmt.Errorf("invalid upi config type %T", cfg)
		}
		if ucfg.Handle == "" {
			return nil, fmt.Errorf("upi handle is not configured")
		}
		return upipay.NewUPIService(ucfg, orders, payments, notifier), nil

	default:
		return nil, fmt.Errorf("unsupported payment method: %s", method)
	}
}
