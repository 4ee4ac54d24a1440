package queue

import (
	"sync"
	"sync/atomic"
	"time"
)

// MetricOperation 定义指标操作类型
type MetricOperation string

const (
	OpPush    MetricOperation = "push"
	OpPop     MetricOperation = "pop"
	OpProcess MetricOperation = "process"
)

// LatencyStats 延迟统计
type LatencyStats struct {
	mu    sync.Mutex
	count int64
	total time.Duration
	min   time.Duration
	max   time.Duration
}

// LatencySnapshot 延迟统计快照
type LatencySnapshot struct {
	Count int64         `json:"count"`
	Avg   time.Duration `json:"avg"`
	Min   time.Duration `json:"min"`
	Max   time.Duration `json:"max"`
}

// QueueMetrics 队列指标收集器
type QueueMetrics struct {
	succeeded sync.Map // MetricOperation -> *atomic.Int64
	failed    sync.Map // MetricOperation -> *atomic.Int64

	pushLatency    LatencyStats
	popLatency     LatencyStats
	processLatency LatencyStats
}

// Snapshot 指标快照，健康检查接口输出
type Snapshot struct {
	Succeeded map[MetricOperation]int64 `json:"succeeded"`
	Failed    map[MetricOperation]int64 `json:"failed"`
	Push      LatencySnapshot           `json:"push"`
	Pop       LatencySnapshot           `json:"pop"`
	Process   LatencySnapshot           `json:"process"`
}

// NewQueueMetrics 创建新的指标收集器
func NewQueueMetrics() *QueueMetrics {
	return &QueueMetrics{}
}

// RecordSuccess 记录成功操作
func (m *QueueMetrics) RecordSuccess(op MetricOperation) {
	counter(&m.succeeded, op).Add(1)
}

// RecordError 记录失败操作
func (m *QueueMetrics) RecordError(op MetricOperation) {
	counter(&m.failed, op).Add(1)
}

// RecordPushLatency 记录推送延迟
func (m *QueueMetrics) RecordPushLatency(d time.Duration) {
	m.pushLatency.record(d)
}

// RecordPopLatency 记录获取延迟
func (m *QueueMetrics) RecordPopLatency(d time.Duration) {
	m.popLatency.record(d)
}

// RecordProcessLatency 记录处理延迟
func (m *QueueMetrics) RecordProcessLatency(d time.Duration) {
	m.processLatency.record(d)
}

// Snapshot 导出当前指标
func (m *QueueMetrics) Snapshot() Snapshot {
	return Snapshot{
		Succeeded: collect(&m.succeeded),
		Failed:    collect(&m.failed),
		Push:      m.pushLatency.snapshot(),
		Pop:       m.popLatency.snapshot(),
		Process:   m.processLatency.snapshot(),
	}
}

func counter(m *sync.Map, op MetricOperation) *atomic.Int64 {
	v, _ := m.LoadOrStore(op, new(atomic.Int64))
	return v.(*atomic.Int64)
}

func collect(m *sync.Map) map[MetricOperation]int64 {
	out := make(map[MetricOperation]int64)
	m.Range(func(key, value interface{}) bool {
		out[key.(MetricOperation)] = value.(*atomic.Int64).Load()
		return true
	})
	return out
}

// record 记录延迟数据
func (s *LatencyStats) record(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.count++
	s.total += d
	if s.min == 0 || d < s.min {
		s.min = d
	}
	if d > s.max {
		s.max = d
	}
}

func (s *LatencyStats) snapshot() LatencySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := LatencySnapshot{Count: s.count, Min: s.min, Max: s.max}
	if s.count > 0 {
		snap.Avg = s.total / time.Duration(s.count)
	}
	return snap
}
