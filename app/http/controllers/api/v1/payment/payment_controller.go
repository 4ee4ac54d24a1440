// Package payment 报名付款接口
package payment

import (
	"net/http"

	v1 "ecell/app/http/controllers/api/v1"
	"ecell/app/http/middlewares"
	"ecell/app/requests"
	"ecell/pkg/payment/types"
	"ecell/pkg/response"
	"ecell/pkg/upi"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
)

type PaymentController struct {
	paymentService types.Service
}

// NewPaymentController 创建支付控制器
func NewPaymentController(service types.Service) *PaymentController {
	return &PaymentController{
		paymentService: service,
	}
}

// CreateOrder 提交报名表单，返回订单与付款引导
// POST /api/payment/create-order
func (pc *PaymentController) CreateOrder(c *gin.Context) {
	req, err := requests.ValidateCreateOrder(c)
	if err != nil {
		v1.RenderRequestError(c, err)
		return
	}

	result, err := pc.paymentService.CreateOrder(c.Request.Context(), req, platformOf(c))
	if err != nil {
		v1.RenderError(c, err)
		return
	}

	response.Created(c, gin.H{
		"order_id":     result.Order.ID,
		"order":        result.Order,
		"instructions": result.Instructions,
	}, "Order created")
}

// RecordPayment 用户声明已付款
// POST /api/payment/record
func (pc *PaymentController) RecordPayment(c *gin.Context) {
	req, err := requests.ValidateRecordPayment(c)
	if err != nil {
		v1.RenderRequestError(c, err)
		return
	}

	p, err := pc.paymentService.RecordPayment(c.Request.Context(), req)
	if err != nil {
		v1.RenderError(c, err)
		return
	}

	response.Created(c, gin.H{
		"payment_id": p.ID,
		"payment":    p,
	}, "Payment recorded, awaiting verification")
}

// VerifyPayment 管理员核验交易号
// POST /api/payment/verify
func (pc *PaymentController) VerifyPayment(c *gin.Context) {
	req, err := requests.ValidateVerifyPayment(c)
	if err != nil {
		v1.RenderRequestError(c, err)
		return
	}

	p, err := pc.paymentService.VerifyPayment(c.Request.Context(), req.TransactionID, c.GetString(middlewares.AdminEmailKey))
	if err != nil {
		v1.RenderError(c, err)
		return
	}

	response.Data(c, p)
}

// ShowOrder 订单状态及付款引导
// GET /api/payment/orders/:id
func (pc *PaymentController) ShowOrder(c *gin.Context) {
	result, err := pc.paymentService.GetOrder(c.Request.Context(), c.Param("id"), platformOf(c))
	if err != nil {
		v1.RenderError(c, err)
		return
	}
	response.Data(c, result)
}

// OrderQRCode 订单付款二维码，?size= 指定边长
// GET /api/payment/orders/:id/qr.png
func (pc *PaymentController) OrderQRCode(c *gin.Context) {
	size := cast.ToInt(c.Query("size"))
	if size < 0 || size > 1024 {
		response.Abort400(c, "size must be between 1 and 1024")
		return
	}

	png, err := pc.paymentService.QRCode(c.Request.Context(), c.Param("id"), size)
	if err != nil {
		v1.RenderError(c, err)
		return
	}

	c.Header("Cache-Control", "private, max-age=300")
	c.Data(http.StatusOK, "image/png", png)
}

// ShowTransaction 按交易号查询付款状态
// GET /api/payment/transactions/:transaction_id
func (pc *PaymentController) ShowTransaction(c *gin.Context) {
	p, err := pc.paymentService.QueryPayment(c.Request.Context(), c.Param("transaction_id"))
	if err != nil {
		v1.RenderError(c, err)
		return
	}
	response.Data(c, p)
}

// platformOf ?platform= 优先，否则按 User-Agent 判断
func platformOf(c *gin.Context) upi.Platform {
	switch p := upi.Platform(c.Query("platform")); p {
	case upi.PlatformIOS, upi.PlatformAndroid, upi.PlatformDesktop:
		return p
	}
	return upi.DetectPlatform(c.Request.UserAgent())
}
