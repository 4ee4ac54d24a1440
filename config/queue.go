package config

import "ecell/pkg/config"

func init() {
	config.Add("queue", func() map[string]interface{} {
		return map[string]interface{}{
			// 入队速率（每秒）与突发量
			"rate_limit":   config.Env("QUEUE_RATE_LIMIT", 10),
			"rate_burst":   config.Env("QUEUE_RATE_BURST", 50),
			"worker_count": config.Env("QUEUE_WORKER_COUNT", 2),
			"retry_times":  config.Env("QUEUE_RETRY_TIMES", 3),
			"retry_delay":  config.Env("QUEUE_RETRY_DELAY", 2),
		}
	})
}
