package config

import "ecell/pkg/config"

// MailConfig 邮件发送配置
type MailConfig struct {
	Driver  string // resend, smtp, log
	From    string
	ClubBox string // 社团邮箱，接收联系表单并抄送确认邮件

	Resend ResendConfig
	SMTP   SMTPConfig
}

// ResendConfig Resend HTTP API 配置
type ResendConfig struct {
	APIKey  string
	BaseURL string
	Timeout int // 秒
}

// SMTPConfig SMTP 配置
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

func init() {
	config.Add("mail", func() map[string]interface{} {
		return map[string]interface{}{
			"driver":   config.Env("MAIL_DRIVER", "log"),
			"from":     config.Env("MAIL_FROM", "noreply@ecellsmec.com"),
			"club_box": config.Env("MAIL_CLUB_BOX", "ecell.smec@gmail.com"),

			"resend": map[string]interface{}{
				"api_key":  config.Env("RESEND_API_KEY", ""),
				"base_url": config.Env("RESEND_BASE_URL", "https://api.resend.com"),
				"timeout":  config.Env("RESEND_TIMEOUT", 10),
			},

			"smtp": map[string]interface{}{
				"host":     config.Env("SMTP_HOST", ""),
				"port":     config.Env("SMTP_PORT", 587),
				"username": config.Env("SMTP_USERNAME", ""),
				"password": config.Env("SMTP_PASSWORD", ""),
			},
		}
	})
}

// LoadMailConfig 读取邮件配置
func LoadMailConfig() MailConfig {
	return MailConfig{
		Driver:  config.GetString("mail.driver"),
		From:    config.GetString("mail.from"),
		ClubBox: config.GetString("mail.club_box"),
		Resend: ResendConfig{
			APIKey:  config.GetString("mail.resend.api_key"),
			BaseURL: config.GetString("mail.resend.base_url"),
			Timeout: config.GetInt("mail.resend.timeout", 10),
		},
		SMTP: SMTPConfig{
			Host:     config.GetString("mail.smtp.host"),
			Port:     config.GetInt("mail.smtp.port", 587),
			Username: config.GetString("mail.smtp.username"),
			Password: config.GetString("mail.smtp.password"),
		},
	}
}
