// Package config 站点配置信息
package config

import "ecell/pkg/config"

func init() {
	config.Add("app", func() map[string]interface{} {
		return map[string]interface{}{

			// 应用名称
			"name": config.Env("APP_NAME", "E-Cell SMEC"),

			// 当前环境，用以区分多环境，一般为 local, stage, production, testing
			"env": config.Env("APP_ENV", "production"),

			// 是否进入调试模式
			"debug": config.Env("APP_DEBUG", false),

			// 应用服务端口
			"port": config.Env("APP_PORT", "5000"),

			// 设置时区，邮件和日志里会使用到
			"timezone": config.Env("TIMEZONE", "Asia/Kolkata"),

			// 站点地址，邮件中的链接使用
			"url": config.Env("APP_URL", "https://ecellsmec.com"),

			// 允许跨域的来源，逗号分隔，* 表示全部
			"cors_origins": config.Env("CORS_ORIGINS", "*"),
		}
	})
}
