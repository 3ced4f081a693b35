package memory

import "errors"

var (
	// ErrHostDown 目标设备不存在
	ErrHostDown = errors.New("memory: host is down")

	// ErrConnRefused 目标信道没有监听者
	ErrConnRefused = errors.New("memory: connection refused")

	// ErrAddrInUse 信道已被占用
	ErrAddrInUse = errors.New("memory: channel already in use")

	// ErrNoFreeChannel 没有空闲信道
	ErrNoFreeChannel = errors.New("memory: no free channel")

	// ErrNotBound 句柄尚未绑定
	ErrNotBound = errors.New("memory: handle not bound")

	// ErrNotListening 句柄未处于监听状态
	ErrNotListening = errors.New("memory: handle not listening")

	// ErrShutdown 句柄已关闭
	ErrShutdown = errors.New("memory: handle shut down")

	// ErrAlreadyConnected 句柄已连接
	ErrAlreadyConnected = errors.New("memory: handle already connected")

	// ErrForeignHandle accept 的子句柄不是内存句柄
	ErrForeignHandle = errors.New("memory: child handle is not a memory handle")
)
