package sdp

import "sync"

// promise 只能兑现一次的结果槽
type promise[T any] struct {
	once sync.Once
	done chan struct{}
	val  T
}

func newPromise[T any]() *promise[T] {
	return &promise[T]{done: make(chan struct{})}
}

// fulfill 兑现结果，只有第一次调用生效
func (p *promise[T]) fulfill(v T) bool {
	fulfilled := false
	p.once.Do(func() {
		p.val = v
		close(p.done)
		fulfilled = true
	})
	return fulfilled
}

// Done 兑现后关闭
func (p *promise[T]) Done() <-chan struct{} {
	return p.done
}

// value 返回已兑现的值
func (p *promise[T]) value() (T, bool) {
	select {
	case <-p.done:
		return p.val, true
	default:
		var zero T
		return zero, false
	}
}
