package types

import "fmt"

// ============================================================================
//                              Channel - RFCOMM 信道
// ============================================================================

// Channel RFCOMM 信道号
type Channel int

const (
	// InvalidChannel 无效信道（未解析）
	InvalidChannel Channel = -1

	// AnyChannel 服务端绑定时表示"任选空闲信道"
	AnyChannel Channel = 0

	// MinChannel 最小有效信道
	MinChannel Channel = 1

	// MaxChannel 最大有效信道
	MaxChannel Channel = 30
)

// Valid 检查信道是否在 [1, 30] 范围内
func (c Channel) Valid() bool {
	return c >= MinChannel && c <= MaxChannel
}

// Validate 校验信道，失败时返回 ErrInvalidChannel
func (c Channel) Validate() error {
	if !c.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidChannel, int(c))
	}
	return nil
}

// String 返回信道字符串
func (c Channel) String() string {
	if !c.Valid() {
		return fmt.Sprintf("invalid(%d)", int(c))
	}
	return fmt.Sprintf("%d", int(c))
}
