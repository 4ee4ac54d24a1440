// Package upipay 基于 UPI 链接的报名付款服务
//
// 付款结果由用户自行声明，服务端无法确认资金到账，
// 只有管理员核验后订单才会被确认。
package upipay

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"ecell/app/models/order"
	"ecell/app/models/payment"
	"ecell/config"
	"ecell/pkg/logger"
	"ecell/pkg/payment/types"
	"ecell/pkg/upi"

	"go.uber.org/zap"
)

// UPIService UPI 付款服务
type UPIService struct {
	orders   types.OrderRepository
	payments types.PaymentRepository
	notifier types.Notifier
	handle   string
	payee    string
	event    string
	qrSize   int
}

// NewUPIService 创建 UPI 付款服务，notifier 可以为 nil
func NewUPIService(cfg config.UPIConfig, orders types.OrderRepository, payments types.PaymentRepository, notifier types.Notifier) *UPIService {
	qrSize := cfg.QRSize
	if qrSize <= 0 {
		qrSize = upi.DefaultQRSize
	}
	return &UPIService{
		orders:   orders,
		payments: payments,
		notifier: notifier,
		handle:   cfg.Handle,
		payee:    cfg.PayeeName,
		event:    cfg.EventName,
		qrSize:   qrSize,
	}
}

// CreateOrder 校验并保存报名订单，返回订单及付款引导
func (s *UPIService) CreateOrder(ctx context.Context, req *types.OrderRequest, platform upi.Platform) (*types.OrderResult, error) {
	o := &order.Order{
		FullName:  strings.TrimSpace(req.FullName),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		RollNo:    strings.TrimSpace(req.RollNo),
		Year:      strings.TrimSpace(req.Year),
		Branch:    strings.TrimSpace(req.Branch),
		Referral:  strings.TrimSpace(req.Referral),
		EventName: strings.TrimSpace(req.EventName),
		Amount:    roundRupees(req.Amount),
		Method:    string(req.Method),
		Confirmed: false,
	}
	if missing := o.MissingFields(); len(missing) > 0 {
		return nil, types.NewMissingFieldsError(missing)
	}
	if o.EventName == "" {
		o.EventName = s.event
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, &types.BackendError{Op: "create order", Err: err}
	}
	logger.Info("Payment", zap.String("order", o.ID), zap.Int64("amount", o.Amount), zap.String("event", o.EventName))

	ins, err := s.instructions(o, platform)
	if err != nil {
		// 订单已保存，二维码可稍后通过 qr.png 获取
		logger.Warn("Payment", zap.String("order", o.ID), zap.Error(err))
	}

	if s.notifier != nil {
		s.notifier.OrderCreated(ctx, o, ins)
	}
	return &types.OrderResult{Order: o, Instructions: ins}, nil
}

// GetOrder 查询订单并重新生成付款引导
func (s *UPIService) GetOrder(ctx context.Context, orderID string, platform upi.Platform) (*types.OrderResult, error) {
	o, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	ins, err := s.instructions(o, platform)
	if err != nil {
		return nil, &types.BackendError{Op: "render qr code", Err: err}
	}
	return &types.OrderResult{Order: o, Instructions: ins}, nil
}

// QRCode 订单付款链接的 PNG 二维码
func (s *UPIService) QRCode(ctx context.Context, orderID string, size int) ([]byte, error) {
	o, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = s.qrSize
	}
	png, err := upi.QRCode(upi.BuildURI(s.paymentData(o)), size)
	if err != nil {
		return nil, &types.BackendError{Op: "render qr code", Err: err}
	}
	return png, nil
}

// RecordPayment 记录用户声明的付款，不修改订单确认状态
func (s *UPIService) RecordPayment(ctx context.Context, req *types.RecordRequest) (*payment.Payment, error) {
	p := &payment.Payment{
		OrderID:       strings.TrimSpace(req.OrderID),
		TransactionID: strings.TrimSpace(req.TransactionID),
		Amount:        roundRupees(req.Amount),
		Method:        string(req.Method),
		ExtraData:     req.ExtraData,
	}
	if missing := p.MissingFields(); len(missing) > 0 {
		return nil, types.NewMissingFieldsError(missing)
	}

	o, err := s.findOrder(ctx, p.OrderID)
	if err != nil {
		return nil, err
	}
	p.Email = o.Email
	p.FullName = o.FullName
	p.Branch = o.Branch

	if err := s.payments.Create(ctx, p); err != nil {
		return nil, &types.BackendError{Op: "record payment", Err: err}
	}
	logger.Info("Payment", zap.String("order", o.ID), zap.String("transaction", p.TransactionID), zap.String("payment", p.ID))
	return p, nil
}

// VerifyPayment 核验交易号，同时确认订单并发送确认邮件
func (s *UPIService) VerifyPayment(ctx context.Context, transactionID, verifiedBy string) (*payment.Payment, error) {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return nil, types.NewMissingFieldsError([]string{"transaction_id"})
	}

	p, err := s.payments.Verify(ctx, transactionID, verifiedBy)
	if err != nil {
		if types.IsNotFound(err) {
			return nil, err
		}
		return nil, &types.BackendError{Op: "verify payment", Err: err}
	}
	logger.Info("Payment", zap.String("transaction", transactionID), zap.String("verified_by", verifiedBy))

	if s.notifier != nil {
		o, err := s.orders.GetByID(ctx, p.OrderID)
		if err != nil {
			logger.Warn("Payment", zap.String("order", p.OrderID), zap.Error(err))
		}
		s.notifier.PaymentVerified(ctx, p, o)
	}
	return p, nil
}

// QueryPayment 按交易号查询付款状态
func (s *UPIService) QueryPayment(ctx context.Context, transactionID string) (*payment.Payment, error) {
	p, err := s.payments.GetByTransactionID(ctx, strings.TrimSpace(transactionID))
	if err != nil {
		if types.IsNotFound(err) {
			return nil, err
		}
		return nil, &types.BackendError{Op: "query payment", Err: err}
	}
	return p, nil
}

func (s *UPIService) findOrder(ctx context.Context, orderID string) (*order.Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, err
		}
		return nil, &types.BackendError{Op: "load order", Err: err}
	}
	return o, nil
}

func (s *UPIService) paymentData(o *order.Order) upi.PaymentData {
	return upi.PaymentData{
		Handle: s.handle,
		Amount: strconv.FormatInt(o.Amount, 10),
		Name:   s.payee,
		Note:   upi.RegistrationNote(o.EventName, o.FullName),
	}
}

// instructions 生成付款引导，二维码失败时其余字段仍然可用
func (s *UPIService) instructions(o *order.Order, platform upi.Platform) (*types.Instructions, error) {
	d := s.paymentData(o)
	uri := upi.BuildURI(d)
	ins := &types.Instructions{
		Handle:     d.Handle,
		Amount:     d.Amount,
		Note:       d.Note,
		URI:        uri,
		WebURL:     upi.WebURL(d),
		Platform:   platform,
		Candidates: upi.CandidatesFor(platform, d),
		Manual:     upi.ManualInstructions(d),
	}

	qr, err := upi.QRDataURL(uri, s.qrSize)
	if err != nil {
		return ins, err
	}
	ins.QRCode = qr
	return ins, nil
}

// roundRupees 金额四舍五入到整数卢比
func roundRupees(amount float64) int64 {
	return int64(math.Round(amount))
}
