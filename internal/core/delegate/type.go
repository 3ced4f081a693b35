package delegate

import (
	"fmt"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// MethodFunc 底层方法实现
//
// 静态方法的 recv 为 nil。
type MethodFunc func(recv any, args []any) (any, error)

// MethodSpec 底层类型上声明的一个方法
type MethodSpec struct {
	Name   string
	Params []string

	// Static 静态方法不需要实例
	Static bool

	// Public 是否为公开方法
	Public bool

	Fn MethodFunc
}

// Descriptor 返回方法的描述符
func (m MethodSpec) Descriptor() Descriptor {
	return Descriptor{Name: m.Name, Params: m.Params}
}

// Type 底层类型的运行时形状
//
// Super 构成继承链，nil 表示链的根。
type Type struct {
	Name  string
	Super *Type

	methods map[string]MethodSpec
	order   []string
}

// NewType 创建底层类型
func NewType(name string, super *Type, methods ...MethodSpec) *Type {
	t := &Type{
		Name:    name,
		Super:   super,
		methods: make(map[string]MethodSpec, len(methods)),
	}
	for _, m := range methods {
		t.Declare(m)
	}
	return t
}

// Declare 声明方法，同描述符的方法会被覆盖
//
// 只应在类型被绑定之前调用。
func (t *Type) Declare(m MethodSpec) {
	key := m.Descriptor().String()
	if _, exists := t.methods[key]; !exists {
		t.order = append(t.order, key)
	}
	t.methods[key] = m
}

// Declared 返回本层声明的方法（不含父类）
func (t *Type) Declared() []MethodSpec {
	out := make([]MethodSpec, 0, len(t.order))
	for _, key := range t.order {
		out = append(out, t.methods[key])
	}
	return out
}

// lookup 在本层声明中查找
func (t *Type) lookup(key string) (MethodSpec, bool) {
	m, ok := t.methods[key]
	return m, ok
}

// Chain 返回从自身到根的继承链
func (t *Type) Chain() []*Type {
	var chain []*Type
	for cur := t; cur != nil; cur = cur.Super {
		chain = append(chain, cur)
	}
	return chain
}

// String 返回类型名
func (t *Type) String() string {
	return t.Name
}

// ============================================================================
//                              Registry
// ============================================================================

// Registry 按名称索引的底层类型表
//
// 对应平台上"按名称加载类"的能力。
type Registry struct {
	types cmap.ConcurrentMap[string, *Type]
}

// NewRegistry 创建类型表
func NewRegistry() *Registry {
	return &Registry{types: cmap.New[*Type]()}
}

// Register 注册类型
func (r *Registry) Register(t *Type) error {
	if t == nil {
		return ErrNilType
	}
	if !r.types.SetIfAbsent(t.Name, t) {
		return fmt.Errorf("%w: %s", ErrDuplicateType, t.Name)
	}
	return nil
}

// Lookup 按名称查找类型
func (r *Registry) Lookup(name string) (*Type, error) {
	t, ok := r.types.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTypeNotFound, name)
	}
	return t, nil
}

// Names 返回已注册的类型名
func (r *Registry) Names() []string {
	return r.types.Keys()
}
