// Package routes 注册路由
package routes

import (
	v1 "ecell/app/http/controllers/api/v1"
	"ecell/app/http/controllers/api/v1/payment"
	"ecell/app/http/controllers/api/v1/site"
	"ecell/app/http/middlewares"
	"ecell/pkg/payment/types"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// 路由限流配置
const (
	// 🌍 全局限流：每小时每IP 30000 请求
	GlobalRateLimit = "30000-H"
	// 📝 提交表单限流：每小时每IP 30 请求
	SubmitFormLimit = "30-H"
	// 🔍 查询限流：每分钟每IP 300 请求
	QueryLimit = "300-M"
)

// Dependencies 路由依赖的服务
type Dependencies struct {
	DB             *gorm.DB
	Payment        types.Service
	Contacts       site.ContactStore
	Subscribers    site.SubscriberStore
	SiteNotifier   site.Notifier
	Queue          v1.QueueStatus
	AdminJWTSecret string
	CorsOrigins    []string
}

// RegisterAPIRoutes 注册所有 API 路由
func RegisterAPIRoutes(r *gin.Engine, deps Dependencies) {
	hc := v1.NewHealthController(deps.DB, deps.Queue)
	r.GET("/health", hc.Show)

	api := r.Group("/api")
	api.Use(
		middlewares.SecurityHeaders(),
		middlewares.Cors(deps.CorsOrigins),
		middlewares.LimitIP(GlobalRateLimit),
	)

	// 💳 报名付款
	paymentRoutes := api.Group("/payment")
	{
		pc := payment.NewPaymentController(deps.Payment)

		// POST /api/payment/create-order
		paymentRoutes.POST("/create-order", middlewares.LimitPerRoute(SubmitFormLimit), pc.CreateOrder)
		// POST /api/payment/record
		paymentRoutes.POST("/record", middlewares.LimitPerRoute(SubmitFormLimit), pc.RecordPayment)
		// POST /api/payment/verify，仅管理员
		paymentRoutes.POST("/verify", middlewares.AdminAuth(deps.AdminJWTSecret), pc.VerifyPayment)

		paymentRoutes.GET("/orders/:id", middlewares.LimitPerRoute(QueryLimit), pc.ShowOrder)
		paymentRoutes.GET("/orders/:id/qr.png", middlewares.LimitPerRoute(QueryLimit), pc.OrderQRCode)
		paymentRoutes.GET("/transactions/:transaction_id", middlewares.LimitPerRoute(QueryLimit), pc.ShowTransaction)
	}

	// ✉️ 联系与订阅
	sc := site.NewSiteController(deps.Contacts, deps.Subscribers, deps.SiteNotifier)
	api.POST("/contact", middlewares.LimitPerRoute(SubmitFormLimit), sc.Contact)
	api.POST("/subscribe", middlewares.LimitPerRoute(SubmitFormLimit), sc.Subscribe)
}
