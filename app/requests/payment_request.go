package requests

import (
	"ecell/pkg/payment/types"

	"github.com/gin-gonic/gin"
	"github.com/thedevsaddam/govalidator"
)

// VerifyPaymentRequest 管理员核验付款
type VerifyPaymentRequest struct {
	TransactionID string `json:"transaction_id"`
}

// ValidateCreateOrder 报名下单表单
func ValidateCreateOrder(c *gin.Context) (*types.OrderRequest, error) {
	rules := govalidator.MapData{
		"amount":     []string{"required", "numeric_between:1,1000000"},
		"method":     []string{"required", "in:upi"},
		"full_name":  []string{"required", "max:120"},
		"email":      []string{"required", "email"},
		"ph_no":      []string{"required", "max:20"},
		"roll_no":    []string{"required", "max:40"},
		"year":       []string{"required", "max:20"},
		"branch":     []string{"required", "max:80"},
		"referal":    []string{"max:80"},
		"event_name": []string{"max:120"},
	}
	messages := govalidator.MapData{
		"amount": []string{
			"required:The amount field is required",
			"numeric_between:The amount must be a positive number",
		},
		"method": []string{
			"required:The method field is required",
			"in:Only UPI payments are supported",
		},
		"email": []string{
			"required:The email field is required",
			"email:Please enter a valid email address",
		},
	}
	return ValidateRequest[types.OrderRequest](c, rules, messages)
}

// ValidateRecordPayment “我已付款”提交
func ValidateRecordPayment(c *gin.Context) (*types.RecordRequest, error) {
	rules := govalidator.MapData{
		"order_id":       []string{"required", "max:36"},
		"transaction_id": []string{"required", "max:64"},
		"amount":         []string{"required", "numeric_between:1,1000000"},
		"method":         []string{"required", "in:upi"},
	}
	messages := govalidator.MapData{
		"order_id": []string{
			"required:The order_id field is required",
			"max:The order_id must be a valid order reference",
		},
		"method": []string{
			"required:The method field is required",
			"in:Only UPI payments are supported",
		},
	}
	return ValidateRequest[types.RecordRequest](c, rules, messages)
}

// ValidateVerifyPayment 核验请求
func ValidateVerifyPayment(c *gin.Context) (*VerifyPaymentRequest, error) {
	rules := govalidator.MapData{
		"transaction_id": []string{"required", "max:64"},
	}
	return ValidateRequest[VerifyPaymentRequest](c, rules, nil)
}
