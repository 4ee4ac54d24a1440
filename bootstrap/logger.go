package bootstrap

import (
	"ecell/pkg/config"
	"ecell/pkg/logger"
)

// SetupLogger 按 config/log.go 的 log.* 配置初始化日志
// LOG_TYPE=daily 时按天切分文件，single 时写入 LOG_NAME 指定的单个文件，
// 轮转由 LOG_MAX_SIZE、LOG_MAX_BACKUP、LOG_MAX_AGE 控制
func SetupLogger() {
	logger.InitLogger(
		config.GetString("log.filename", "storage/logs/logs.log"),
		config.GetInt("log.max_size", 64),
		config.GetInt("log.max_backup", 5),
		config.GetInt("log.max_age", 30),
		config.GetBool("log.compress"),
		config.GetString("log.type", "single"),
		config.GetString("log.level", "info"),
	)
}
