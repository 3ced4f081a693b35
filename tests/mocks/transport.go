package mocks

import (
	"sync"

	"github.com/dep2p/go-rfcomm/pkg/interfaces"
)

// MockTransport 模拟 Transport 接口实现
//
// 依次返回预置句柄，用完后创建新的 MockHandle。
type MockTransport struct {
	// 可覆盖的方法
	OpenFunc func() (interfaces.RfcommHandle, error)

	mu      sync.Mutex
	queue   []*MockHandle
	opened  []*MockHandle
	openCnt int
}

// NewMockTransport 创建 MockTransport，handles 按 Open 调用顺序分发
func NewMockTransport(handles ...*MockHandle) *MockTransport {
	return &MockTransport{queue: handles}
}

// Open 创建句柄
func (m *MockTransport) Open() (interfaces.RfcommHandle, error) {
	m.mu.Lock()
	m.openCnt++
	m.mu.Unlock()

	if m.OpenFunc != nil {
		return m.OpenFunc()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var h *MockHandle
	if len(m.queue) > 0 {
		h = m.queue[0]
		m.queue = m.queue[1:]
	} else {
		h = NewMockHandle()
	}
	m.opened = append(m.opened, h)
	return h, nil
}

// OpenCalls 返回 Open 调用次数
func (m *MockTransport) OpenCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.openCnt
}

// Opened 返回已分发的句柄
func (m *MockTransport) Opened() []*MockHandle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*MockHandle(nil), m.opened...)
}

var _ interfaces.Transport = (*MockTransport)(nil)
