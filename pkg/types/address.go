package types

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// ============================================================================
//                              Address - 远端设备地址
// ============================================================================

// Address 蓝牙设备地址（RemoteDevice 标识）
//
// 规范格式为 6 组大写十六进制，以冒号分隔：
//
//	00:11:22:AA:BB:CC
//
// 零值表示地址未知。对于服务端 accept 产生的 socket，
// 只有在 accept 成功后才会被赋值，之后不再改变。
type Address string

// ZeroAddress 未知地址
const ZeroAddress Address = ""

// addressOctets 地址字节数
const addressOctets = 6

// ParseAddress 解析并规范化设备地址
//
// 接受 ':' 或 '-' 作为分隔符，大小写不敏感。
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ':' || r == '-' })
	if len(parts) != addressOctets {
		return ZeroAddress, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}

	for i, p := range parts {
		if len(p) != 2 {
			return ZeroAddress, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
		}
		if _, err := hex.DecodeString(p); err != nil {
			return ZeroAddress, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
		}
		parts[i] = strings.ToUpper(p)
	}

	return Address(strings.Join(parts, ":")), nil
}

// MustParseAddress 解析地址，失败时 panic（用于常量和测试）
func MustParseAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return addr
}

// String 返回地址字符串
func (a Address) String() string {
	return string(a)
}

// IsZero 检查地址是否未设置
func (a Address) IsZero() bool {
	return a == ZeroAddress
}
