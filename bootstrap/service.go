package bootstrap

import (
	"strings"

	"ecell/app/repositories"
	btsConfig "ecell/config"
	"ecell/pkg/config"
	"ecell/pkg/database"
	"ecell/pkg/mail"
	"ecell/pkg/payment"
	"ecell/routes"
)

// SetupServices 组装仓库、支付服务与邮件通知，返回路由依赖
func SetupServices(mailer *Mailer) (routes.Dependencies, error) {
	notifier := mail.NewNotifier(
		mailer.Dispatcher,
		mailer.Config.From,
		mailer.Config.ClubBox,
		config.GetString("app.name"),
		config.GetString("app.url"),
	)

	paymentService, err := payment.NewFromConfig(
		repositories.NewOrderRepository(database.DB),
		repositories.NewPaymentRepository(database.DB),
		notifier,
	)
	if err != nil {
		return routes.Dependencies{}, err
	}

	deps := routes.Dependencies{
		DB:             database.DB,
		Payment:        paymentService,
		Contacts:       repositories.NewContactRepository(database.DB),
		Subscribers:    repositories.NewSubscriberRepository(database.DB),
		SiteNotifier:   notifier,
		AdminJWTSecret: btsConfig.LoadAdminConfig().JWTSecret,
		CorsOrigins:    splitOrigins(config.GetString("app.cors_origins")),
	}
	// 接口变量不能持有 nil 指针
	if mailer.Queue != nil {
		deps.Queue = mailer.Queue
	}
	return deps, nil
}

func splitOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
