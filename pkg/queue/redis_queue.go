package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ecell/pkg/mail"
	"ecell/pkg/redis"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// MailTask 邮件发送任务
type MailTask struct {
	ID        string        `json:"id"`
	Message   *mail.Message `json:"message"`
	Attempts  int           `json:"attempts"`
	CreatedAt time.Time     `json:"created_at"`
}

// Options 队列配置
type Options struct {
	Prefix    string
	RateLimit int // 每秒入队数
	RateBurst int
}

// QueueService Redis 邮件队列，LPUSH 入队，BRPOP 出队
type QueueService struct {
	client      *redis.RedisClient
	prefix      string
	rateLimiter *rate.Limiter
	metrics     *QueueMetrics
}

// NewQueueService 创建新的队列服务实例
func NewQueueService(client *redis.RedisClient, opts Options) *QueueService {
	if opts.RateLimit <= 0 {
		opts.RateLimit = 10
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = opts.RateLimit
	}
	if opts.Prefix == "" {
		opts.Prefix = "ecell:queue"
	}

	return &QueueService{
		client:      client,
		prefix:      opts.Prefix,
		rateLimiter: rate.NewLimiter(rate.Limit(opts.RateLimit), opts.RateBurst),
		metrics:     NewQueueMetrics(),
	}
}

// Dispatch 实现 mail.Dispatcher，把邮件放入队列
func (q *QueueService) Dispatch(ctx context.Context, msg *mail.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	return q.PushTask(ctx, &MailTask{
		ID:        uuid.New().String(),
		Message:   msg,
		CreatedAt: time.Now(),
	})
}

// PushTask 将任务推送到队列，受入队速率限制
func (q *QueueService) PushTask(ctx context.Context, task *MailTask) error {
	if err := q.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit exceeded: %w", err)
	}

	start := time.Now()
	defer func() {
		q.metrics.RecordPushLatency(time.Since(start))
	}()

	taskJSON, err := json.Marshal(task)
	if err != nil {
		q.metrics.RecordError(OpPush)
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	if err := q.client.Client.LPush(ctx, q.key(), taskJSON).Err(); err != nil {
		q.metrics.RecordError(OpPush)
		return fmt.Errorf("failed to push task: %w", err)
	}

	q.metrics.RecordSuccess(OpPush)
	return nil
}

// PopTask 阻塞等待任务，timeout 内无任务时返回 nil, nil
func (q *QueueService) PopTask(ctx context.Context, timeout time.Duration) (*MailTask, error) {
	start := time.Now()
	result, err := q.client.Client.BRPop(ctx, timeout, q.key()).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to pop task from queue: %w", err)
	}
	q.metrics.RecordPopLatency(time.Since(start))

	if len(result) != 2 {
		return nil, fmt.Errorf("invalid result from queue")
	}

	var task MailTask
	if err := json.Unmarshal([]byte(result[1]), &task); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task: %w", err)
	}
	return &task, nil
}

// Length 当前队列长度
func (q *QueueService) Length(ctx context.Context) (int64, error) {
	return q.client.Client.LLen(ctx, q.key()).Result()
}

// Ping 检查队列服务健康状态
func (q *QueueService) Ping(ctx context.Context) error {
	return q.client.Ping(ctx)
}

// Metrics 入队指标
func (q *QueueService) Metrics() *QueueMetrics {
	return q.metrics
}

func (q *QueueService) key() string {
	return fmt.Sprintf("%s:mails", q.prefix)
}
