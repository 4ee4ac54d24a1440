package bootstrap

import (
	"fmt"

	"ecell/pkg/config"
	"ecell/pkg/logger"
	"ecell/pkg/redis"
)

// SetupRedis 初始化 Redis，未启用时跳过
func SetupRedis() error {
	if !config.GetBool("redis.enabled") {
		logger.InfoString("Redis", "Setup", "redis disabled, using in-memory limiter and direct mail delivery")
		return nil
	}

	return redis.InitRedis(
		fmt.Sprintf("%v:%v", config.GetString("redis.host"), config.GetString("redis.port")),
		config.GetString("redis.username"),
		config.GetString("redis.password"),
		config.GetInt("redis.database"),
		config.GetInt("redis.queue_database"),
	)
}
