package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/dep2p/go-rfcomm/internal/core/delegate"
	"github.com/dep2p/go-rfcomm/pkg/interfaces"
	"github.com/dep2p/go-rfcomm/pkg/lib/log"
	"github.com/dep2p/go-rfcomm/pkg/types"
)

var logger = log.Logger("transport/memory")

// Hub 进程内设备注册表与服务目录
type Hub struct {
	mu       sync.RWMutex
	devices  map[types.Address]*Device
	services map[types.Address]map[uint16]types.Channel

	// LookupDelay 模拟查询延迟，0 表示立即回调
	LookupDelay time.Duration
}

// 确保实现接口
var (
	_ interfaces.ServiceDirectory = (*Hub)(nil)
	_ interfaces.ServiceRegistrar = (*Hub)(nil)
)

// NewHub 创建 Hub
func NewHub() *Hub {
	return &Hub{
		devices:  make(map[types.Address]*Device),
		services: make(map[types.Address]map[uint16]types.Channel),
	}
}

// Device 返回指定地址的设备，不存在时创建
func (h *Hub) Device(addr types.Address) *Device {
	h.mu.Lock()
	defer h.mu.Unlock()
	if d, ok := h.devices[addr]; ok {
		return d
	}
	d := &Device{
		hub:   h,
		addr:  addr,
		ports: make(map[types.Channel]*Handle),
	}
	h.devices[addr] = d
	logger.Debug("设备已加入", "addr", addr)
	return d
}

// Remove 移除设备，之后对它的连接以 ErrHostDown 失败
func (h *Hub) Remove(addr types.Address) {
	h.mu.Lock()
	delete(h.devices, addr)
	delete(h.services, addr)
	h.mu.Unlock()
}

func (h *Hub) lookupDevice(addr types.Address) (*Device, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	d, ok := h.devices[addr]
	return d, ok
}

// ============================================================================
//                              服务目录
// ============================================================================

// RegisterService 在 addr 上登记服务记录
func (h *Hub) RegisterService(addr types.Address, id types.ServiceID, ch types.Channel) error {
	if err := ch.Validate(); err != nil {
		return fmt.Errorf("register service %s: %w", id, err)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	recs, ok := h.services[addr]
	if !ok {
		recs = make(map[uint16]types.Channel)
		h.services[addr] = recs
	}
	recs[id.UUID16()] = ch
	logger.Debug("服务记录已登记", "addr", addr, "uuid", id, "channel", ch)
	return nil
}

// UnregisterService 移除服务记录
func (h *Hub) UnregisterService(addr types.Address, id types.ServiceID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if recs, ok := h.services[addr]; ok {
		delete(recs, id.UUID16())
	}
}

// SubmitLookup 异步查询服务信道
//
// 设备不存在或没有对应记录时回调 InvalidChannel。
func (h *Hub) SubmitLookup(addr types.Address, uuid16 uint16, cb interfaces.LookupCallback) (bool, error) {
	if cb == nil {
		return false, fmt.Errorf("memory: nil lookup callback")
	}
	delay := h.LookupDelay
	go func() {
		if delay > 0 {
			time.Sleep(delay)
		}
		cb(addr, h.resolve(addr, uuid16))
	}()
	return true, nil
}

func (h *Hub) resolve(addr types.Address, uuid16 uint16) types.Channel {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if ch, ok := h.services[addr][uuid16]; ok {
		return ch
	}
	return types.InvalidChannel
}

// ============================================================================
//                              Device
// ============================================================================

// Device 一个模拟的蓝牙设备
type Device struct {
	hub  *Hub
	addr types.Address

	mu    sync.Mutex
	ports map[types.Channel]*Handle
}

var _ interfaces.Transport = (*Device)(nil)

// Address 返回设备地址
func (d *Device) Address() types.Address {
	return d.addr
}

// Open 实现 interfaces.Transport
func (d *Device) Open() (interfaces.RfcommHandle, error) {
	return d.NewHandle(), nil
}

// NewHandle 创建句柄
func (d *Device) NewHandle() *Handle {
	return &Handle{
		dev:  d,
		done: make(chan struct{}),
	}
}

// bind 占用信道，AnyChannel 选择最小的空闲信道
func (d *Device) bind(ch types.Channel, h *Handle) (types.Channel, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if ch == types.AnyChannel {
		for c := types.MinChannel; c <= types.MaxChannel; c++ {
			if _, used := d.ports[c]; !used {
				d.ports[c] = h
				return c, nil
			}
		}
		return types.InvalidChannel, ErrNoFreeChannel
	}

	if err := ch.Validate(); err != nil {
		return types.InvalidChannel, err
	}
	if _, used := d.ports[ch]; used {
		return types.InvalidChannel, fmt.Errorf("%w: %s", ErrAddrInUse, ch)
	}
	d.ports[ch] = h
	return ch, nil
}

func (d *Device) release(ch types.Channel, h *Handle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ports[ch] == h {
		delete(d.ports, ch)
	}
}

func (d *Device) listener(ch types.Channel) (*Handle, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	h, ok := d.ports[ch]
	return h, ok
}

// Describe 返回句柄的委托类型描述
func (d *Device) Describe() *delegate.Type {
	return Describe()
}

// NewInstance 创建句柄，供委托传输使用
func (d *Device) NewInstance() (any, error) {
	return d.NewHandle(), nil
}
