package factory

import (
	"testing"

	"ecell/app/models/payment"
	"ecell/config"
	"ecell/pkg/payment/upipay"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaymentService(t *testing.T) {
	svc, err := NewPaymentService(payment.MethodUPI, nil, nil, config.UPIConfig{Handle: "abc@upi"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &upipay.UPIService{}, svc)

	_, err = NewPaymentService(payment.MethodUPI, nil, nil, config.UPIConfig{}, nil)
	assert.EqualError(t, err, "upi handle is not configured")

	_, err = NewPaymentService(payment.MethodUPI, nil, nil, "abc@upi", nil)
	assert.Error(t, err)

	_, err = NewPaymentService(payment.Method("card"), nil, nil, nil, nil)
	assert.EqualError(t, err, "unsupported payment method: card")
}
