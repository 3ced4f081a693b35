package mocks

import (
	"sync"

	"github.com/dep2p/go-rfcomm/pkg/interfaces"
	"github.com/dep2p/go-rfcomm/pkg/types"
)

// MockDirectory 模拟 ServiceDirectory 接口实现
//
// 默认保存回调而不调用，测试通过 Deliver 手动触发结果。
type MockDirectory struct {
	// 可覆盖的方法
	SubmitLookupFunc func(addr types.Address, uuid16 uint16, cb interfaces.LookupCallback) (bool, error)

	mu      sync.Mutex
	lookups []LookupCall
}

// LookupCall 记录 SubmitLookup 调用
type LookupCall struct {
	Addr     types.Address
	UUID16   uint16
	Callback interfaces.LookupCallback
}

// NewMockDirectory 创建 MockDirectory
func NewMockDirectory() *MockDirectory {
	return &MockDirectory{}
}

// ReplyWith 返回一个立即在新 goroutine 上回调固定信道的 MockDirectory
func ReplyWith(ch types.Channel) *MockDirectory {
	d := NewMockDirectory()
	d.SubmitLookupFunc = func(addr types.Address, _ uint16, cb interfaces.LookupCallback) (bool, error) {
		go cb(addr, ch)
		return true, nil
	}
	return d
}

// SubmitLookup 提交查询
func (m *MockDirectory) SubmitLookup(addr types.Address, uuid16 uint16, cb interfaces.LookupCallback) (bool, error) {
	m.mu.Lock()
	m.lookups = append(m.lookups, LookupCall{Addr: addr, UUID16: uuid16, Callback: cb})
	m.mu.Unlock()

	if m.SubmitLookupFunc != nil {
		return m.SubmitLookupFunc(addr, uuid16, cb)
	}
	return true, nil
}

// Lookups 返回查询记录
func (m *MockDirectory) Lookups() []LookupCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]LookupCall(nil), m.lookups...)
}

// Deliver 对最近一次查询回调结果
func (m *MockDirectory) Deliver(ch types.Channel) bool {
	m.mu.Lock()
	if len(m.lookups) == 0 {
		m.mu.Unlock()
		return false
	}
	last := m.lookups[len(m.lookups)-1]
	m.mu.Unlock()

	last.Callback(last.Addr, ch)
	return true
}

var _ interfaces.ServiceDirectory = (*MockDirectory)(nil)
