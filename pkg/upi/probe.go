package upi

import (
	"time"

	"ecell/pkg/visibility"
)

const (
	// DefaultProbeWindow 每次唤起后等待页面隐藏的时间
	DefaultProbeWindow = 2 * time.Second
	// MaxProbeWindow 单次尝试的上限
	MaxProbeWindow = 3 * time.Second
	// PageKey 页面可见性在 Observer 中的 key，上报 false 表示页面隐藏
	PageKey = "page"
	// FocusKey 文档焦点在 Observer 中的 key，上报 false 表示失去焦点
	FocusKey = "focus"
)

// Launcher 把控制权交给外部 App，由宿主环境实现（WebView 桥接、系统 URL 打开等）
type Launcher interface {
	Open(url string) error
}

// LauncherFunc 函数适配 Launcher
type LauncherFunc func(url string) error

// Open 实现 Launcher
func (f LauncherFunc) Open(url string) error {
	return f(url)
}

// AttemptState 单次唤起的状态
type AttemptState string

const (
	StateIdle       AttemptState = "idle"
	StateLinkOpened AttemptState = "link_opened"
	StateHidden     AttemptState = "hidden"  // 页面隐藏或失去焦点，推测 App 已打开
	StateTimeout    AttemptState = "timeout" // 窗口内无信号，推测失败
	StateFailed     AttemptState = "failed"  // 宿主拒绝打开链接
)

// Attempt 单次唤起记录
type Attempt struct {
	Candidate Candidate
	State     AttemptState
	Signal    string // 触发 StateHidden 的 key：PageKey 或 FocusKey
	Err       error
	Elapsed   time.Duration
}

// ProbeResult 唤起结果
//
// Opened 只代表页面在窗口内被隐藏过，后台切换等无关原因同样会触发，
// 不能作为付款成功的依据。
type ProbeResult struct {
	Opened    bool
	Candidate *Candidate
	Attempts  []Attempt
}

// Prober 依次尝试候选链接，直到某次唤起后页面隐藏或候选耗尽
type Prober struct {
	launcher Launcher
	observer *visibility.Observer[string]
	window   time.Duration
	fallback func(instructions string)
}

// ProberOption Prober 配置项
type ProberOption func(*Prober)

// WithWindow 设置每次尝试的等待窗口，超过 MaxProbeWindow 时取上限
func WithWindow(d time.Duration) ProberOption {
	return func(p *Prober) {
		if d > 0 {
			p.window = min(d, MaxProbeWindow)
		}
	}
}

// WithFallback 设置候选耗尽后的手动付款回调（分享、复制到剪贴板或弹窗）
func WithFallback(fn func(instructions string)) ProberOption {
	return func(p *Prober) {
		p.fallback = fn
	}
}

// NewProber 创建 Prober，宿主通过 observer 上报 PageKey（页面可见性）与 FocusKey（文档焦点）
func NewProber(launcher Launcher, observer *visibility.Observer[string], opts ...ProberOption) *Prober {
	p := &Prober{
		launcher: launcher,
		observer: observer,
		window:   DefaultProbeWindow,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe 按顺序唤起 candidates，阻塞直到成功或耗尽。
// 每次尝试由等待窗口自行结束，中途不可取消。
func (p *Prober) Probe(d PaymentData, candidates []Candidate) *ProbeResult {
	result := &ProbeResult{}

	for _, c := range candidates {
		attempt := p.attempt(c)
		result.Attempts = append(result.Attempts, attempt)

		if attempt.State == StateHidden {
			opened := c
			result.Opened = true
			result.Candidate = &opened
			return result
		}
	}

	if p.fallback != nil {
		p.fallback(ManualInstructions(d))
	}
	return result
}

// attempt Idle -> LinkOpened -> Hidden | Timeout
func (p *Prober) attempt(c Candidate) Attempt {
	start := time.Now()
	a := Attempt{Candidate: c, State: StateIdle}

	// 先订阅再打开链接，避免错过同步触发的隐藏事件
	page, cancelPage := p.observer.Observe(PageKey)
	defer cancelPage()
	focus, cancelFocus := p.observer.Observe(FocusKey)
	defer cancelFocus()

	if err := p.launcher.Open(c.URL); err != nil {
		a.State = StateFailed
		a.Err = err
		a.Elapsed = time.Since(start)
		return a
	}
	a.State = StateLinkOpened

	timer := time.NewTimer(p.window)
	defer timer.Stop()

	for a.State == StateLinkOpened {
		select {
		case visible, ok := <-page:
			a.settle(PageKey, visible, ok)
		case focused, ok := <-focus:
			a.settle(FocusKey, focused, ok)
		case <-timer.C:
			a.State = StateTimeout
		}
	}
	a.Elapsed = time.Since(start)
	return a
}

// settle 处理一次信号，通道关闭说明 observer 已关闭
func (a *Attempt) settle(key string, value, ok bool) {
	switch {
	case !ok:
		a.State = StateTimeout
	case !value:
		a.State = StateHidden
		a.Signal = key
	}
}
