// Package visibility 可见性订阅
//
// 取代组件各自维护的全局可见状态：任何观察对象以 key 标识，
// 上报方调用 Report，订阅方通过 Observe 拿到只读的布尔流。
package visibility

import "sync"

// Observer 以 key 区分观察对象的可见性广播器，零值不可用，请使用 New
type Observer[K comparable] struct {
	mu     sync.Mutex
	subs   map[K]map[uint64]chan bool
	nextID uint64
	closed bool
}

// New 创建 Observer
func New[K comparable]() *Observer[K] {
	return &Observer[K]{
		subs: make(map[K]map[uint64]chan bool),
	}
}

// Observe 订阅 key 的可见性变化，只接收订阅之后的上报。
// 返回的 cancel 可重复调用，调用后通道关闭。
func (o *Observer[K]) Observe(key K) (<-chan bool, func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	ch := make(chan bool, 1)
	if o.closed {
		close(ch)
		return ch, func() {}
	}

	id := o.nextID
	o.nextID++
	if o.subs[key] == nil {
		o.subs[key] = make(map[uint64]chan bool)
	}
	o.subs[key][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			if subs, ok := o.subs[key]; ok {
				if c, ok := subs[id]; ok {
					delete(subs, id)
					close(c)
				}
				if len(subs) == 0 {
					delete(o.subs, key)
				}
			}
		})
	}
	return ch, cancel
}

// Report 上报 key 当前是否可见。
// 不会阻塞：订阅方来不及消费时只保留一个值，未消费的隐藏不会被随后的可见覆盖。
func (o *Observer[K]) Report(key K, visible bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, ch := range o.subs[key] {
		select {
		case ch <- visible:
			continue
		default:
		}

		v := visible
		select {
		case pending := <-ch:
			if !pending {
				v = false
			}
		default:
		}
		select {
		case ch <- v:
		default:
		}
	}
}

// Subscribers 当前订阅 key 的数量
func (o *Observer[K]) Subscribers(key K) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.subs[key])
}

// Close 关闭所有订阅，之后的 Observe 立即返回已关闭的通道
func (o *Observer[K]) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return
	}
	o.closed = true
	for key, subs := range o.subs {
		for id, ch := range subs {
			close(ch)
			delete(subs, id)
		}
		delete(o.subs, key)
	}
}
