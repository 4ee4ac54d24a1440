package types

import (
	"context"

	"ecell/app/models/order"
	"ecell/app/models/payment"
	"ecell/pkg/upi"
)

// OrderRequest 创建订单请求参数
type OrderRequest struct {
	Amount    float64        `json:"amount"`
	Method    payment.Method `json:"method"`
	FullName  string         `json:"full_name"`
	Email     string         `json:"email"`
	Phone     string         `json:"ph_no"`
	RollNo    string         `json:"roll_no"`
	Year      string         `json:"year"`
	Branch    string         `json:"branch"`
	Referral  string         `json:"referal"`
	EventName string         `json:"event_name"`
}

// RecordRequest 记录付款请求参数
type RecordRequest struct {
	OrderID       string                 `json:"order_id"`
	TransactionID string                 `json:"transaction_id"`
	Amount        float64                `json:"amount"`
	Method        payment.Method         `json:"method"`
	ExtraData     map[string]interface{} `json:"extra_data,omitempty"`
}

// Instructions 付款引导信息，客户端据此渲染二维码并尝试唤起 App
type Instructions struct {
	Handle     string          `json:"handle"`
	Amount     string          `json:"amount"`
	Note       string          `json:"note"`
	URI        string          `json:"uri"`
	QRCode     string          `json:"qr_code"`
	WebURL     string          `json:"web_url"`
	Platform   upi.Platform    `json:"platform"`
	Candidates []upi.Candidate `json:"candidates"`
	Manual     string          `json:"manual"`
}

// OrderResult 订单及其付款引导
type OrderResult struct {
	Order        *order.Order  `json:"order"`
	Instructions *Instructions `json:"instructions"`
}

// Service 支付服务接口
type Service interface {
	CreateOrder(ctx context.Context, req *OrderRequest, platform upi.Platform) (*OrderResult, error)
	GetOrder(ctx context.Context, orderID string, platform upi.Platform) (*OrderResult, error)
	QRCode(ctx context.Context, orderID string, size int) ([]byte, error)
	RecordPayment(ctx context.Context, req *RecordRequest) (*payment.Payment, error)
	VerifyPayment(ctx context.Context, transactionID, verifiedBy string) (*payment.Payment, error)
	QueryPayment(ctx context.Context, transactionID string) (*payment.Payment, error)
}

// OrderRepository 订单仓储接口
type OrderRepository interface {
	Create(ctx context.Context, order *order.Order) error
	GetByID(ctx context.Context, id string) (*order.Order, error)
}

// PaymentRepository 付款仓储接口
type PaymentRepository interface {
	Create(ctx context.Context, payment *payment.Payment) error
	GetByTransactionID(ctx context.Context, transactionID string) (*payment.Payment, error)
	// Verify 将交易号对应的付款标记为已核验，并确认其订单
	Verify(ctx context.Context, transactionID, verifiedBy string) (*payment.Payment, error)
}

// Notifier 订单事件通知，失败只记录日志
type Notifier interface {
	OrderCreated(ctx context.Context, order *order.Order, instructions *Instructions)
	PaymentVerified(ctx context.Context, payment *payment.Payment, order *order.Order)
}
