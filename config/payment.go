package config

import "ecell/pkg/config"

// UPIConfig UPI 收款配置
type UPIConfig struct {
	Handle    string // 收款方 VPA，如 ecell@upi
	PayeeName string // 收款方显示名称
	EventName string // 备注中默认的活动名称
	QRSize    int    // 二维码边长（像素）
}

// AdminConfig 管理端配置，核验付款接口使用
type AdminConfig struct {
	JWTSecret string
}

func init() {
	config.Add("payment", func() map[string]interface{} {
		return map[string]interface{}{
			// 默认支付方式，目前只有 upi
			"method": config.Env("PAYMENT_METHOD", "upi"),

			"upi": map[string]interface{}{
				"handle":     config.Env("UPI_HANDLE", ""),
				"payee_name": config.Env("UPI_PAYEE_NAME", "E-Cell SMEC"),
				"event_name": config.Env("UPI_EVENT_NAME", "E-Cell SMEC Event"),
				"qr_size":    config.Env("UPI_QR_SIZE", 256),
			},

			// 为空时核验接口关闭
			"admin_jwt_secret": config.Env("PAYMENT_ADMIN_JWT_SECRET", ""),
		}
	})
}

// LoadUPIConfig 从配置中读取 UPI 收款配置
func LoadUPIConfig() UPIConfig {
	return UPIConfig{
		Handle:    config.GetString("payment.upi.handle"),
		PayeeName: config.GetString("payment.upi.payee_name"),
		EventName: config.GetString("payment.upi.event_name"),
		QRSize:    config.GetInt("payment.upi.qr_size", 256),
	}
}

// LoadAdminConfig 读取管理端配置
func LoadAdminConfig() AdminConfig {
	return AdminConfig{
		JWTSecret: config.GetString("payment.admin_jwt_secret"),
	}
}
