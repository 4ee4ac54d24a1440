package bootstrap

import (
	"time"

	btsConfig "ecell/config"
	"ecell/pkg/config"
	"ecell/pkg/logger"
	"ecell/pkg/mail"
	"ecell/pkg/queue"
	"ecell/pkg/redis"
)

// Mailer 邮件投递组件
type Mailer struct {
	Dispatcher mail.Dispatcher
	Queue      *queue.QueueService // 未启用 Redis 时为 nil
	Worker     *queue.Worker
	Config     btsConfig.MailConfig
}

// SetupMailer 初始化邮件发送
// 启用 Redis 时邮件进入队列由工作器发送，否则直接异步发送
func SetupMailer() (*Mailer, error) {
	cfg := btsConfig.LoadMailConfig()
	sender, err := mail.NewSender(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.GetRedis(redis.QueueDB)
	if client == nil {
		logger.InfoString("Mail", "Setup", "mail driver "+cfg.Driver+", async delivery")
		return &Mailer{
			Dispatcher: mail.AsyncDispatcher{Sender: sender, Timeout: 30 * time.Second},
			Config:     cfg,
		}, nil
	}

	queueService := queue.NewQueueService(client, queue.Options{
		Prefix:    config.GetString("redis.queue_prefix"),
		RateLimit: config.GetInt("queue.rate_limit", 10),
		RateBurst: config.GetInt("queue.rate_burst", 50),
	})

	worker := queue.NewWorker(queueService, sender, queue.WorkerConfig{
		WorkerCount:     config.GetInt("queue.worker_count", 2),
		MaxRetries:      config.GetInt("queue.retry_times", 3),
		RetryInterval:   time.Duration(config.GetInt("queue.retry_delay", 2)) * time.Second,
		PopTimeout:      time.Duration(config.GetInt("redis.queue_timeout", 5)) * time.Second,
		ShutdownTimeout: 30 * time.Second,
	})
	worker.Start()

	logger.InfoString("Queue", "Setup", "mail queue started with driver "+cfg.Driver)
	return &Mailer{
		Dispatcher: queueService,
		Queue:      queueService,
		Worker:     worker,
		Config:     cfg,
	}, nil
}
