package delegated

import (
	"github.com/dep2p/go-rfcomm/internal/core/delegate"
	"github.com/dep2p/go-rfcomm/pkg/interfaces"
	"github.com/dep2p/go-rfcomm/pkg/lib/log"
)

var logger = log.Logger("transport/delegated")

// InstanceFunc 创建底层平台对象
type InstanceFunc func() (any, error)

// Transport 每次 Open 创建一个底层实例并绑定
type Transport struct {
	typ         *delegate.Type
	newInstance InstanceFunc
}

var _ interfaces.Transport = (*Transport)(nil)

// NewTransport 创建委托传输
func NewTransport(typ *delegate.Type, newInstance InstanceFunc) (*Transport, error) {
	if typ == nil {
		return nil, delegate.ErrTypeNotFound
	}
	return &Transport{typ: typ, newInstance: newInstance}, nil
}

// NewTransportByName 按类型名从 Registry 查找底层类型
//
// 类型不存在时在构造阶段失败。
func NewTransportByName(reg *delegate.Registry, typeName string, newInstance InstanceFunc) (*Transport, error) {
	typ, err := reg.Lookup(typeName)
	if err != nil {
		return nil, err
	}
	logger.Debug("委托传输已创建", "type", typeName)
	return NewTransport(typ, newInstance)
}

// Open 实现 interfaces.Transport
func (t *Transport) Open() (interfaces.RfcommHandle, error) {
	inst, err := t.newInstance()
	if err != nil {
		return nil, err
	}
	b, err := delegate.Bind(TargetName, t.typ, inst)
	if err != nil {
		return nil, err
	}
	return Wrap(b), nil
}
