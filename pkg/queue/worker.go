package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ecell/pkg/logger"
	"ecell/pkg/mail"

	"go.uber.org/zap"
)

// Source 任务来源，QueueService 实现该接口
type Source interface {
	PopTask(ctx context.Context, timeout time.Duration) (*MailTask, error)
	PushTask(ctx context.Context, task *MailTask) error
	Metrics() *QueueMetrics
}

// Worker 邮件队列工作器
type Worker struct {
	source   Source
	sender   mail.Sender
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	config   WorkerConfig
}

// WorkerConfig 工作器配置
type WorkerConfig struct {
	WorkerCount     int           // 并发工作器数量
	MaxRetries      int           // 最大重试次数
	RetryInterval   time.Duration // 重试间隔
	PopTimeout      time.Duration // BRPOP 阻塞时间
	SendTimeout     time.Duration // 单封邮件发送超时
	ShutdownTimeout time.Duration // 关闭超时时间
}

// NewWorker 创建新的工作器组
func NewWorker(source Source, sender mail.Sender, config WorkerConfig) *Worker {
	if config.WorkerCount <= 0 {
		config.WorkerCount = 2
	}
	if config.PopTimeout <= 0 {
		config.PopTimeout = 5 * time.Second
	}
	if config.SendTimeout <= 0 {
		config.SendTimeout = 20 * time.Second
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = 30 * time.Second
	}

	return &Worker{
		source:   source,
		sender:   sender,
		stopChan: make(chan struct{}),
		config:   config,
	}
}

// Start 启动工作器组
func (w *Worker) Start() {
	for i := 0; i < w.config.WorkerCount; i++ {
		w.wg.Add(1)
		go w.startWorker(i)
	}
}

// startWorker 启动单个工作器
func (w *Worker) startWorker(id int) {
	defer w.wg.Done()

	logger.InfoString("Worker", "Start", fmt.Sprintf("Worker %d started", id))

	for {
		select {
		case <-w.stopChan:
			logger.InfoString("Worker", "Stop", fmt.Sprintf("Worker %d stopping", id))
			return
		default:
		}

		if err := w.processNextTask(); err != nil {
			logger.Error("Worker", zap.Int("worker", id), zap.Error(err))
			// 错误恢复延迟
			select {
			case <-w.stopChan:
				return
			case <-time.After(time.Second):
			}
		}
	}
}

// processNextTask 取出并处理一个任务，队列为空时返回 nil
func (w *Worker) processNextTask() error {
	ctx, cancel := context.WithTimeout(context.Background(), w.config.PopTimeout+time.Second)
	defer cancel()

	task, err := w.source.PopTask(ctx, w.config.PopTimeout)
	if err != nil {
		w.source.Metrics().RecordError(OpPop)
		return fmt.Errorf("pop task error: %w", err)
	}
	if task == nil {
		return nil
	}
	w.source.Metrics().RecordSuccess(OpPop)

	return w.handleTask(task)
}

// handleTask 发送邮件，失败时按配置重新入队
func (w *Worker) handleTask(task *MailTask) error {
	start := time.Now()
	defer func() {
		w.source.Metrics().RecordProcessLatency(time.Since(start))
	}()

	ctx, cancel := context.WithTimeout(context.Background(), w.config.SendTimeout)
	defer cancel()

	err := w.sender.Send(ctx, task.Message)
	if err == nil {
		w.source.Metrics().RecordSuccess(OpProcess)
		logger.Debug("Worker", zap.String("task", task.ID), zap.Strings("to", task.Message.To))
		return nil
	}

	w.source.Metrics().RecordError(OpProcess)
	task.Attempts++
	if task.Attempts > w.config.MaxRetries {
		logger.Error("Worker",
			zap.String("task", task.ID),
			zap.Int("attempts", task.Attempts),
			zap.String("subject", task.Message.Subject),
			zap.Error(err),
		)
		return nil
	}

	logger.Warn("Worker", zap.String("task", task.ID), zap.Int("attempts", task.Attempts), zap.Error(err))
	if w.config.RetryInterval > 0 {
		select {
		case <-w.stopChan:
		case <-time.After(w.config.RetryInterval):
		}
	}

	pushCtx, pushCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pushCancel()
	if pushErr := w.source.PushTask(pushCtx, task); pushErr != nil {
		return fmt.Errorf("requeue task %s: %w", task.ID, pushErr)
	}
	return nil
}

// Stop 优雅关闭工作器组
func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.stopChan) })

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.InfoString("Worker", "Stop", "All workers stopped gracefully")
	case <-time.After(w.config.ShutdownTimeout):
		logger.WarnString("Worker", "Stop", "Worker shutdown timed out")
	}
}
