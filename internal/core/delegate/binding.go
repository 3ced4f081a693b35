package delegate

import (
	"fmt"
	"sync"
	"sync/atomic"

	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/dep2p/go-rfcomm/pkg/lib/log"
)

var logger = log.Logger("core/delegate")

// resolution 一个描述符的解析结果，写入后不再修改
type resolution struct {
	method MethodSpec
	found  bool
	owner  string
}

// Binding 把目标能力绑定到底层类型和（可选的）实例
type Binding struct {
	target   string
	typ      *Type
	instance any

	cache     cmap.ConcurrentMap[string, resolution]
	resolveMu sync.Mutex

	// resolveCount 实际执行解析的次数
	resolveCount atomic.Int64
}

// Bind 创建绑定
//
// instance 为 nil 时只能调用静态方法。
func Bind(target string, t *Type, instance any) (*Binding, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: bind %s", ErrTypeNotFound, target)
	}
	return &Binding{
		target:   target,
		typ:      t,
		instance: instance,
		cache:    cmap.New[resolution](),
	}, nil
}

// BindByName 按名称从 Registry 查找底层类型后绑定
func BindByName(reg *Registry, target, typeName string, instance any) (*Binding, error) {
	t, err := reg.Lookup(typeName)
	if err != nil {
		return nil, err
	}
	return Bind(target, t, instance)
}

// Target 返回目标能力名
func (b *Binding) Target() string {
	return b.target
}

// Type 返回底层类型
func (b *Binding) Type() *Type {
	return b.typ
}

// Instance 返回绑定的实例
func (b *Binding) Instance() any {
	return b.instance
}

// Supports 检查底层是否具备描述符对应的能力
func (b *Binding) Supports(d Descriptor) bool {
	return b.resolve(d).found
}

// Invoke 按描述符调用底层方法
func (b *Binding) Invoke(d Descriptor, args ...any) Result {
	res := b.resolve(d)
	if !res.found {
		return Result{Status: StatusUnsupported}
	}

	m := res.method
	var recv any
	if !m.Static {
		if b.instance == nil {
			return Result{Status: StatusUnsupported}
		}
		recv = b.instance
	}

	if len(args) != len(m.Params) {
		return Result{
			Status: StatusFailed,
			Err:    fmt.Errorf("%w: %s got %d", ErrArgCount, d, len(args)),
		}
	}

	return call(m, recv, args)
}

// Call 调用并把 Unsupported 视为错误
//
// 用于调用方认为必需的能力。
func (b *Binding) Call(d Descriptor, args ...any) (any, error) {
	r := b.Invoke(d, args...)
	if err := r.Error(); err != nil {
		if r.Unsupported() {
			return nil, fmt.Errorf("%s.%s: %w", b.target, d, err)
		}
		return nil, err
	}
	return r.Value, nil
}

// ResolveCount 返回实际解析次数
func (b *Binding) ResolveCount() int64 {
	return b.resolveCount.Load()
}

func call(m MethodSpec, recv any, args []any) (r Result) {
	defer func() {
		if p := recover(); p != nil {
			r = Result{
				Status: StatusFailed,
				Err:    fmt.Errorf("delegate: %s panicked: %v", m.Descriptor(), p),
			}
		}
	}()

	v, err := m.Fn(recv, args)
	if err != nil {
		return Result{Status: StatusFailed, Err: err}
	}
	return Result{Status: StatusSucceeded, Value: v}
}

// ============================================================================
//                              解析
// ============================================================================

func (b *Binding) resolve(d Descriptor) resolution {
	key := d.String()
	if res, ok := b.cache.Get(key); ok {
		return res
	}

	b.resolveMu.Lock()
	defer b.resolveMu.Unlock()

	// 双重检查，并发的首次调用只解析一次
	if res, ok := b.cache.Get(key); ok {
		return res
	}

	res := b.lookup(key)
	b.resolveCount.Add(1)
	b.cache.Set(key, res)

	if res.found {
		logger.Debug("委托方法已解析", "target", b.target, "method", key, "owner", res.owner)
	} else {
		logger.Debug("底层类型缺少能力", "target", b.target, "method", key, "type", b.typ.Name)
	}
	return res
}

func (b *Binding) lookup(key string) resolution {
	chain := b.typ.Chain()

	// 公开方法，最派生优先
	for _, t := range chain {
		if m, ok := t.lookup(key); ok && m.Public && m.Fn != nil {
			return resolution{method: m, found: true, owner: t.Name}
		}
	}

	// 各层自身声明的方法，任意可见性
	for _, t := range chain {
		if m, ok := t.lookup(key); ok && m.Fn != nil {
			return resolution{method: m, found: true, owner: t.Name}
		}
	}

	return resolution{}
}
