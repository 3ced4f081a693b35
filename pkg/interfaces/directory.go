package interfaces

import "github.com/dep2p/go-rfcomm/pkg/types"

// LookupCallback 服务目录查询回调
//
// 由目录协作者在独立的 goroutine 上调用，每个被接受的查询恰好调用一次。
// ch 小于 1 表示查询失败。
type LookupCallback func(addr types.Address, ch types.Channel)

// ServiceDirectory 远端服务目录（SDP 查询协作者）
type ServiceDirectory interface {
	// SubmitLookup 异步查询 addr 上 uuid16 服务的 RFCOMM 信道
	//
	// 返回 started=false 表示查询未启动，此时不会回调。
	SubmitLookup(addr types.Address, uuid16 uint16, cb LookupCallback) (started bool, err error)
}

// ServiceRegistrar 本地服务记录注册
type ServiceRegistrar interface {
	// RegisterService 在 addr 上登记服务记录
	RegisterService(addr types.Address, id types.ServiceID, ch types.Channel) error

	// UnregisterService 移除服务记录
	UnregisterService(addr types.Address, id types.ServiceID)
}
