package transport

import "errors"

var (
	// ErrNoSource 未提供传输来源
	ErrNoSource = errors.New("transport: no source")

	// ErrUnknownMode 未知的传输模式
	ErrUnknownMode = errors.New("transport: unknown mode")
)
