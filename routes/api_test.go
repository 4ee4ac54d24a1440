package routes

import (
	"bytes"
	"context"
	"errors"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ecell/app/repositories"
	"ecell/config"
	"ecell/pkg/auth"
	"ecell/pkg/database/migrations"
	"ecell/pkg/logger"
	"ecell/app/models/order"
	"ecell/app/models/payment"
	"ecell/pkg/payment/types"
	"ecell/pkg/payment/upipay"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

type envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.NewGormLogger()})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(migrations.RegisterTables()...))
	return db
}

func buildRouter(db *gorm.DB, orders types.OrderRepository, payments types.PaymentRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := upipay.NewUPIService(
		config.UPIConfig{Handle: "abc@upi", PayeeName: "E-Cell SMEC", EventName: "AUGUST 2025"},
		orders,
		payments,
		nil,
	)

	r := gin.New()
	RegisterAPIRoutes(r, Dependencies{
		DB:             db,
		Payment:        svc,
		Contacts:       repositories.NewContactRepository(db),
		Subscribers:    repositories.NewSubscriberRepository(db),
		AdminJWTSecret: testSecret,
	})
	return r
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db := openDB(t)
	return buildRouter(db, repositories.NewOrderRepository(db), repositories.NewPaymentRepository(db))
}

func do(r *gin.Engine, method, path string, body interface{}, header ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func registration() gin.H {
	return gin.H{
		"amount":    100,
		"method":    "upi",
		"full_name": "Jane Doe",
		"email":     "jane@example.com",
		"ph_no":     "9876543210",
		"roll_no":   "21CS001",
		"year":      "3",
		"branch":    "CSE",
		"referal":   "",
	}
}

func createOrder(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := do(r, http.MethodPost, "/api/payment/create-order", registration())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var data struct {
		OrderID      string `json:"order_id"`
		Instructions struct {
			URI    string `json:"uri"`
			QRCode string `json:"qr_code"`
		} `json:"instructions"`
	}
	env := decode(t, w, &data)
	assert.Equal(t, "success", env.Status)
	assert.NotEmpty(t, data.OrderID)
	assert.Contains(t, data.Instructions.URI, "upi://pay?pa=abc@upi&am=100")
	assert.NotEmpty(t, data.Instructions.QRCode)
	return data.OrderID
}

func TestCreateOrderRoute(t *testing.T) {
	r := newRouter(t)
	createOrder(t, r)
}

func TestCreateOrderMissingFields(t *testing.T) {
	r := newRouter(t)

	body := registration()
	delete(body, "email")
	w := do(r, http.MethodPost, "/api/payment/create-order", body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var errs map[string][]string
	env := decode(t, w, &errs)
	assert.Equal(t, "error", env.Status)
	assert.Contains(t, errs, "email")
}

func TestCreateOrderMalformedBody(t *testing.T) {
	r := newRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/payment/create-order", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecordUnknownOrder(t *testing.T) {
	r := newRouter(t)

	for _, orderID := range []string{"6f1c2a4e-8b7d-4c3a-9e2f-1a2b3c4d5e6f", "order-123"} {
		w := do(r, http.MethodPost, "/api/payment/record", gin.H{
			"order_id":       orderID,
			"transaction_id": "TXN-1",
			"amount":         100,
			"method":         "upi",
		})
		assert.Equal(t, http.StatusNotFound, w.Code, orderID)

		w = do(r, http.MethodGet, "/api/payment/orders/"+orderID, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, orderID)
	}
}

func TestRecordAndVerify(t *testing.T) {
	r := newRouter(t)
	orderID := createOrder(t, r)

	w := do(r, http.MethodPost, "/api/payment/record", gin.H{
		"order_id":       orderID,
		"transaction_id": "TXN-42",
		"amount":         100,
		"method":         "upi",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	verify := gin.H{"transaction_id": "TXN-42"}

	w = do(r, http.MethodPost, "/api/payment/verify", verify)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodPost, "/api/payment/verify", verify, "Authorization", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := auth.IssueAdminToken(testSecret, "admin@ecellsmec.com", time.Hour)
	require.NoError(t, err)

	w = do(r, http.MethodPost, "/api/payment/verify", gin.H{"transaction_id": "TXN-404"}, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodPost, "/api/payment/verify", verify, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var p struct {
		Verified   bool   `json:"verified"`
		VerifiedBy string `json:"verified_by"`
	}
	decode(t, w, &p)
	assert.True(t, p.Verified)
	assert.Equal(t, "admin@ecellsmec.com", p.VerifiedBy)

	w = do(r, http.MethodGet, "/api/payment/orders/"+orderID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var result struct {
		Order struct {
			Confirmed bool `json:"confirmed"`
		} `json:"order"`
	}
	decode(t, w, &result)
	assert.True(t, result.Order.Confirmed)

	w = do(r, http.MethodGet, "/api/payment/transactions/TXN-42", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOrderQRCodeRoute(t *testing.T) {
	r := newRouter(t)
	orderID := createOrder(t, r)

	w := do(r, http.MethodGet, "/api/payment/orders/"+orderID+"/qr.png?size=200", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, []byte("\x89PNG"), w.Body.Bytes()[:4])

	w = do(r, http.MethodGet, "/api/payment/orders/"+orderID+"/qr.png?size=5000", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/api/payment/orders/missing/qr.png", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestContactAndSubscribe(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodPost, "/api/contact", gin.H{
		"first_name": "Jane",
		"last_name":  "Doe",
		"email":      "jane@example.com",
		"subject":    "Sponsorship",
		"message":    "Hello there",
	})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(r, http.MethodPost, "/api/subscribe", gin.H{"name": "Jane", "email": "jane@example.com"})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(r, http.MethodPost, "/api/subscribe", gin.H{"name": "Jane", "email": "not-an-email"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHealthAndSecurityHeaders(t *testing.T) {
	r := newRouter(t)

	w := do(r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/payment/transactions/none", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Limit"))
}

type failingOrders struct {
	types.OrderRepository
}

func (failingOrders) Create(context.Context, *order.Order) error {
	return errors.New("connection refused")
}

type failingPayments struct {
	types.PaymentRepository
}

func (failingPayments) Create(context.Context, *payment.Payment) error {
	return errors.New("connection refused")
}

func TestStorageFailureReturns500(t *testing.T) {
	db := openDB(t)
	orders := repositories.NewOrderRepository(db)

	r := buildRouter(db, failingOrders{OrderRepository: orders}, repositories.NewPaymentRepository(db))
	w := do(r, http.MethodPost, "/api/payment/create-order", registration())
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	env := decode(t, w, nil)
	assert.Equal(t, "error", env.Status)
	assert.NotContains(t, w.Body.String(), "connection refused")

	var n int64
	require.NoError(t, db.Model(&order.Order{}).Count(&n).Error)
	assert.Zero(t, n)

	// 订单正常写入，付款写入失败
	r = buildRouter(db, orders, failingPayments{PaymentRepository: repositories.NewPaymentRepository(db)})
	orderID := createOrder(t, r)
	w = do(r, http.MethodPost, "/api/payment/record", gin.H{
		"order_id":       orderID,
		"transaction_id": "TXN-500",
		"amount":         100,
		"method":         "upi",
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.NoError(t, db.Model(&payment.Payment{}).Count(&n).Error)
	assert.Zero(t, n)
}
