// Package types 定义 go-rfcomm 的基础类型
//
// 本文件定义所有公共错误类型。
package types

import (
	"errors"
	"fmt"
)

// ============================================================================
//                              值类型错误
// ============================================================================

var (
	// ErrInvalidAddress 无效的设备地址
	ErrInvalidAddress = errors.New("invalid device address")

	// ErrInvalidServiceID 无效的服务标识
	ErrInvalidServiceID = errors.New("invalid service id")

	// ErrInvalidChannel 无效的 RFCOMM 信道
	ErrInvalidChannel = errors.New("invalid rfcomm channel")
)

// ============================================================================
//                              Socket 状态错误
// ============================================================================

var (
	// ErrSocketClosed 在已关闭的 socket 上执行操作（StateError）
	ErrSocketClosed = errors.New("socket closed")

	// ErrNoRemoteDevice socket 没有远端设备，无法发起连接
	ErrNoRemoteDevice = errors.New("socket has no remote device")

	// ErrNotConnected 流在连接建立前不可用
	ErrNotConnected = errors.New("socket not connected")

	// ErrAcceptTimeout 有限超时的 accept 到期（TimeoutError）
	ErrAcceptTimeout = errors.New("accept timed out")

	// ErrUnsupported 刻意未实现的能力（UnsupportedOperation）
	ErrUnsupported = errors.New("operation not supported")
)

// ============================================================================
//                              服务发现错误
// ============================================================================

var (
	// ErrDiscoveryStartFailed 查询请求无法提交
	ErrDiscoveryStartFailed = errors.New("unable to start service discovery")

	// ErrDiscoveryCanceled 查询被并发的 close 中断
	ErrDiscoveryCanceled = errors.New("service discovery canceled")

	// ErrDiscoveryFailed 未得到有效信道（仅在严格回退策略下返回）
	ErrDiscoveryFailed = errors.New("service discovery failed")
)

// ============================================================================
//                              委托错误
// ============================================================================

// ErrTypeNotFound 委托引擎找不到指定名称的底层类型
var ErrTypeNotFound = errors.New("delegate type not found")

// ============================================================================
//                              TransportError
// ============================================================================

// TransportError 传输层 I/O 失败（bind/listen/connect/accept）
type TransportError struct {
	Op  string // 操作名称
	Err error  // 原始错误
}

// NewTransportError 创建传输层错误
func NewTransportError(op string, err error) *TransportError {
	return &TransportError{Op: op, Err: err}
}

// Error 实现 error 接口
func (e *TransportError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("rfcomm transport: %s failed", e.Op)
	}
	return fmt.Sprintf("rfcomm transport: %s: %v", e.Op, e.Err)
}

// Unwrap 支持 errors.Unwrap
func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransportError 检查错误链中是否包含 TransportError
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
