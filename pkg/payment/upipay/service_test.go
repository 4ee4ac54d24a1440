package upipay

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ecell/app/models/order"
	"ecell/app/models/payment"
	"ecell/app/repositories"
	"ecell/config"
	"ecell/pkg/database/migrations"
	"ecell/pkg/logger"
	"ecell/pkg/payment/types"
	"ecell/pkg/upi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeNotifier struct {
	created  []*order.Order
	verified []*payment.Payment
	orders   []*order.Order
}

func (n *fakeNotifier) OrderCreated(_ context.Context, o *order.Order, _ *types.Instructions) {
	n.created = append(n.created, o)
}

func (n *fakeNotifier) PaymentVerified(_ context.Context, p *payment.Payment, o *order.Order) {
	n.verified = append(n.verified, p)
	n.orders = append(n.orders, o)
}

func setup(t *testing.T) (*UPIService, *gorm.DB, *fakeNotifier) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.NewGormLogger()})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(migrations.RegisterTables()...))

	n := &fakeNotifier{}
	svc := NewUPIService(
		config.UPIConfig{Handle: "abc@upi", PayeeName: "E-Cell SMEC", EventName: "AUGUST 2025", QRSize: 128},
		repositories.NewOrderRepository(db),
		repositories.NewPaymentRepository(db),
		n,
	)
	return svc, db, n
}

func orderRequest() *types.OrderRequest {
	return &types.OrderRequest{
		Amount:   100,
		Method:   payment.MethodUPI,
		FullName: "Jane Doe",
		Email:    "jane@example.com",
		Phone:    "9876543210",
		RollNo:   "21CS001",
		Year:     "3",
		Branch:   "CSE",
		Referral: "FRIEND10",
	}
}

func count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestCreateOrder(t *testing.T) {
	svc, db, n := setup(t)

	result, err := svc.CreateOrder(context.Background(), orderRequest(), upi.PlatformIOS)
	require.NoError(t, err)

	o := result.Order
	assert.NotEmpty(t, o.ID)
	assert.False(t, o.Confirmed)
	assert.Equal(t, "AUGUST 2025", o.EventName)
	assert.Equal(t, "FRIEND10", o.Referral)

	ins := result.Instructions
	require.NotNil(t, ins)
	assert.Equal(t,
		"upi://pay?pa=abc@upi&am=100&tn=Registration%20for%20AUGUST%202025%20-%20Jane%20Doe&pn=E-Cell%20SMEC&cu=INR",
		ins.URI,
	)
	assert.Equal(t, "Registration for AUGUST 2025 - Jane Doe", ins.Note)
	assert.True(t, strings.HasPrefix(ins.QRCode, "data:image/png;base64,"))
	assert.Len(t, ins.Candidates, 9)
	assert.Contains(t, ins.Manual, "abc@upi")

	assert.Equal(t, int64(1), count(t, db, &order.Order{}))
	require.Len(t, n.created, 1)
	assert.Equal(t, o.ID, n.created[0].ID)
}

func TestCreateOrderRoundsAmount(t *testing.T) {
	svc, _, _ := setup(t)

	req := orderRequest()
	req.Amount = 99.5
	result, err := svc.CreateOrder(context.Background(), req, upi.PlatformAndroid)
	require.NoError(t, err)
	assert.Equal(t, int64(100), result.Order.Amount)
	assert.Equal(t, "100", result.Instructions.Amount)
	assert.Len(t, result.Instructions.Candidates, 2)
}

func TestCreateOrderMissingFieldWritesNothing(t *testing.T) {
	cases := map[string]func(r *types.OrderRequest){
		"amount":    func(r *types.OrderRequest) { r.Amount = 0 },
		"email":     func(r *types.OrderRequest) { r.Email = "" },
		"method":    func(r *types.OrderRequest) { r.Method = "" },
		"full_name": func(r *types.OrderRequest) { r.FullName = "  " },
		"ph_no":     func(r *types.OrderRequest) { r.Phone = "" },
		"year":      func(r *types.OrderRequest) { r.Year = "" },
		"roll_no":   func(r *types.OrderRequest) { r.RollNo = "" },
		"branch":    func(r *types.OrderRequest) { r.Branch = "" },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			svc, db, n := setup(t)
			req := orderRequest()
			mutate(req)

			_, err := svc.CreateOrder(context.Background(), req, upi.PlatformDesktop)

			var vErr *types.ValidationError
			require.True(t, errors.As(err, &vErr), "got %v", err)
			assert.Contains(t, vErr.Errors, field)
			assert.Zero(t, count(t, db, &order.Order{}))
			assert.Empty(t, n.created)
		})
	}
}

func TestCreateThenRecordPayment(t *testing.T) {
	svc, db, _ := setup(t)
	ctx := context.Background()

	result, err := svc.CreateOrder(ctx, orderRequest(), upi.PlatformDesktop)
	require.NoError(t, err)

	p, err := svc.RecordPayment(ctx, &types.RecordRequest{
		OrderID:       result.Order.ID,
		TransactionID: "TXN-1",
		Amount:        100,
		Method:        payment.MethodUPI,
	})
	require.NoError(t, err)

	assert.Equal(t, result.Order.ID, p.OrderID)
	assert.Equal(t, "jane@example.com", p.Email)
	assert.Equal(t, "Jane Doe", p.FullName)
	assert.Equal(t, "CSE", p.Branch)
	assert.False(t, p.Verified)

	// 记录付款不改变订单确认状态
	got, err := svc.GetOrder(ctx, result.Order.ID, upi.PlatformDesktop)
	require.NoError(t, err)
	assert.False(t, got.Order.Confirmed)
	assert.Equal(t, int64(1), count(t, db, &payment.Payment{}))
}

func TestRecordPaymentUnknownOrder(t *testing.T) {
	svc, db, _ := setup(t)

	_, err := svc.RecordPayment(context.Background(), &types.RecordRequest{
		OrderID:       "00000000-0000-0000-0000-000000000000",
		TransactionID: "TXN-1",
		Amount:        100,
		Method:        payment.MethodUPI,
	})
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Zero(t, count(t, db, &payment.Payment{}))
}

func TestRecordPaymentMissingField(t *testing.T) {
	svc, db, _ := setup(t)

	_, err := svc.RecordPayment(context.Background(), &types.RecordRequest{OrderID: "x", Amount: 100, Method: payment.MethodUPI})
	var vErr *types.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Errors, "transaction_id")
	assert.Zero(t, count(t, db, &payment.Payment{}))
}

func TestVerifyPayment(t *testing.T) {
	svc, _, n := setup(t)
	ctx := context.Background()

	result, err := svc.CreateOrder(ctx, orderRequest(), upi.PlatformDesktop)
	require.NoError(t, err)
	_, err = svc.RecordPayment(ctx, &types.RecordRequest{
		OrderID: result.Order.ID, TransactionID: "TXN-1", Amount: 100, Method: payment.MethodUPI,
	})
	require.NoError(t, err)

	p, err := svc.VerifyPayment(ctx, "TXN-1", "admin@ecellsmec.com")
	require.NoError(t, err)
	assert.True(t, p.Verified)

	got, err := svc.GetOrder(ctx, result.Order.ID, upi.PlatformDesktop)
	require.NoError(t, err)
	assert.True(t, got.Order.Confirmed)

	queried, err := svc.QueryPayment(ctx, "TXN-1")
	require.NoError(t, err)
	assert.True(t, queried.Verified)
	assert.Equal(t, "admin@ecellsmec.com", queried.VerifiedBy)

	require.Len(t, n.verified, 1)
	require.NotNil(t, n.orders[0])
	assert.Equal(t, "21CS001", n.orders[0].RollNo)
}

func TestVerifySharedTransactionID(t *testing.T) {
	svc, _, n := setup(t)
	ctx := context.Background()

	first, err := svc.CreateOrder(ctx, orderRequest(), upi.PlatformDesktop)
	require.NoError(t, err)
	req := orderRequest()
	req.FullName = "John Roe"
	req.Email = "john@example.com"
	second, err := svc.CreateOrder(ctx, req, upi.PlatformDesktop)
	require.NoError(t, err)

	for _, id := range []string{first.Order.ID, second.Order.ID} {
		_, err = svc.RecordPayment(ctx, &types.RecordRequest{
			OrderID: id, TransactionID: "TXN-SHARED", Amount: 100, Method: payment.MethodUPI,
		})
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}

	p, err := svc.VerifyPayment(ctx, "TXN-SHARED", "admin@ecellsmec.com")
	require.NoError(t, err)
	assert.Equal(t, first.Order.ID, p.OrderID)

	for _, id := range []string{first.Order.ID, second.Order.ID} {
		got, err := svc.GetOrder(ctx, id, upi.PlatformDesktop)
		require.NoError(t, err)
		assert.True(t, got.Order.Confirmed)
	}

	// 只通知最早一笔付款的报名人
	require.Len(t, n.verified, 1)
	assert.Equal(t, "jane@example.com", n.verified[0].Email)
}

func TestVerifyUnknownTransactionAltersNothing(t *testing.T) {
	svc, db, n := setup(t)
	ctx := context.Background()

	result, err := svc.CreateOrder(ctx, orderRequest(), upi.PlatformDesktop)
	require.NoError(t, err)
	_, err = svc.RecordPayment(ctx, &types.RecordRequest{
		OrderID: result.Order.ID, TransactionID: "TXN-1", Amount: 100, Method: payment.MethodUPI,
	})
	require.NoError(t, err)

	_, err = svc.VerifyPayment(ctx, "TXN-404", "admin@ecellsmec.com")
	assert.ErrorIs(t, err, types.ErrNotFound)

	var verified int64
	require.NoError(t, db.Model(&payment.Payment{}).Where("verified = ?", true).Count(&verified).Error)
	assert.Zero(t, verified)
	got, err := svc.GetOrder(ctx, result.Order.ID, upi.PlatformDesktop)
	require.NoError(t, err)
	assert.False(t, got.Order.Confirmed)
	assert.Empty(t, n.verified)
}

func TestQRCodeAndQueries(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	result, err := svc.CreateOrder(ctx, orderRequest(), upi.PlatformDesktop)
	require.NoError(t, err)

	png, err := svc.QRCode(ctx, result.Order.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])

	_, err = svc.QRCode(ctx, "missing", 0)
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = svc.GetOrder(ctx, "missing", upi.PlatformDesktop)
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = svc.QueryPayment(ctx, "missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

var errStorage = errors.New("connection refused")

// brokenOrders 写入失败，读取时返回 readErr（为 nil 时委托给真实仓储）
type brokenOrders struct {
	types.OrderRepository
	readErr error
}

func (b brokenOrders) Create(context.Context, *order.Order) error { return errStorage }

func (b brokenOrders) GetByID(ctx context.Context, id string) (*order.Order, error) {
	if b.readErr != nil {
		return nil, b.readErr
	}
	return b.OrderRepository.GetByID(ctx, id)
}

// brokenPayments 所有写操作失败
type brokenPayments struct {
	types.PaymentRepository
}

func (brokenPayments) Create(context.Context, *payment.Payment) error { return errStorage }

func (brokenPayments) Verify(context.Context, string, string) (*payment.Payment, error) {
	return nil, errStorage
}

func TestStorageFailuresBecomeBackendErrors(t *testing.T) {
	_, db, _ := setup(t)
	ctx := context.Background()
	cfg := config.UPIConfig{Handle: "abc@upi", EventName: "AUGUST 2025"}
	orders := repositories.NewOrderRepository(db)
	payments := repositories.NewPaymentRepository(db)

	existing := &order.Order{FullName: "Jane Doe", Email: "jane@example.com", Phone: "1", RollNo: "R1", Year: "3", Branch: "CSE", Amount: 100, Method: "upi"}
	require.NoError(t, orders.Create(ctx, existing))

	t.Run("create order", func(t *testing.T) {
		n := &fakeNotifier{}
		svc := NewUPIService(cfg, brokenOrders{OrderRepository: orders}, payments, n)

		_, err := svc.CreateOrder(ctx, orderRequest(), upi.PlatformDesktop)

		var bErr *types.BackendError
		require.True(t, errors.As(err, &bErr), "got %v", err)
		assert.Equal(t, "create order", bErr.Op)
		assert.ErrorIs(t, err, errStorage)
		assert.Empty(t, n.created)
		assert.Equal(t, int64(1), count(t, db, &order.Order{}))
	})

	t.Run("record payment", func(t *testing.T) {
		svc := NewUPIService(cfg, orders, brokenPayments{PaymentRepository: payments}, nil)

		_, err := svc.RecordPayment(ctx, &types.RecordRequest{
			OrderID: existing.ID, TransactionID: "TXN-1", Amount: 100, Method: payment.MethodUPI,
		})

		var bErr *types.BackendError
		require.True(t, errors.As(err, &bErr), "got %v", err)
		assert.Equal(t, "record payment", bErr.Op)
		assert.Zero(t, count(t, db, &payment.Payment{}))
	})

	t.Run("load order", func(t *testing.T) {
		svc := NewUPIService(cfg, brokenOrders{OrderRepository: orders, readErr: errStorage}, payments, nil)

		_, err := svc.RecordPayment(ctx, &types.RecordRequest{
			OrderID: existing.ID, TransactionID: "TXN-1", Amount: 100, Method: payment.MethodUPI,
		})

		var bErr *types.BackendError
		require.True(t, errors.As(err, &bErr), "got %v", err)
		assert.False(t, types.IsNotFound(err))
		assert.Zero(t, count(t, db, &payment.Payment{}))
	})

	t.Run("verify payment", func(t *testing.T) {
		n := &fakeNotifier{}
		svc := NewUPIService(cfg, orders, brokenPayments{PaymentRepository: payments}, n)

		_, err := svc.VerifyPayment(ctx, "TXN-1", "admin@ecellsmec.com")

		var bErr *types.BackendError
		require.True(t, errors.As(err, &bErr), "got %v", err)
		assert.Equal(t, "verify payment", bErr.Op)
		assert.Empty(t, n.verified)
	})
}

func TestNilNotifier(t *testing.T) {
	_, db, _ := setup(t)
	svc := NewUPIService(config.UPIConfig{Handle: "abc@upi"},
		repositories.NewOrderRepository(db), repositories.NewPaymentRepository(db), nil)

	result, err := svc.CreateOrder(context.Background(), orderRequest(), upi.PlatformDesktop)
	require.NoError(t, err)
	assert.Empty(t, result.Order.EventName)
}
