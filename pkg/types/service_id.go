package types

import (
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// ============================================================================
//                              ServiceID - 服务标识
// ============================================================================

// baseUUID 蓝牙基础 UUID（0000xxxx-0000-1000-8000-00805F9B34FB）
var baseUUID = uuid.MustParse("00000000-0000-1000-8000-00805F9B34FB")

// SerialPortServiceID 串口服务（SPP）的标准服务标识 0x1101
var SerialPortServiceID = ServiceIDFromUUID16(0x1101)

// ServiceID 128 位服务标识
//
// SDP 查询使用其 16 位短格式（见 UUID16）。
type ServiceID struct {
	uuid.UUID
}

// NewServiceID 从 uuid.UUID 创建服务标识
func NewServiceID(u uuid.UUID) ServiceID {
	return ServiceID{UUID: u}
}

// ParseServiceID 解析服务标识字符串
//
// 支持标准 UUID 字符串，以及 4 位十六进制的 16 位短格式（例如 "1101"）。
func ParseServiceID(s string) (ServiceID, error) {
	if len(s) == 4 {
		if short, err := strconv.ParseUint(s, 16, 16); err == nil {
			return ServiceIDFromUUID16(uint16(short)), nil
		}
	}

	u, err := uuid.Parse(s)
	if err != nil {
		return ServiceID{}, fmt.Errorf("%w: %v", ErrInvalidServiceID, err)
	}
	return ServiceID{UUID: u}, nil
}

// ServiceIDFromUUID16 由 16 位短格式构造完整服务标识
func ServiceIDFromUUID16(short uint16) ServiceID {
	u := baseUUID
	binary.BigEndian.PutUint16(u[2:4], short)
	return ServiceID{UUID: u}
}

// UUID16 返回 16 位短格式
//
// 取高 64 位中的 [32,48) 位，即基础 UUID 布局中 xxxx 所在位置。
func (id ServiceID) UUID16() uint16 {
	return binary.BigEndian.Uint16(id.UUID[2:4])
}

// IsShortForm 检查是否为基于蓝牙基础 UUID 的短格式标识
func (id ServiceID) IsShortForm() bool {
	u := id.UUID
	copy(u[2:4], baseUUID[2:4])
	return u == baseUUID
}

// IsZero 检查是否为空标识
func (id ServiceID) IsZero() bool {
	return id.UUID == uuid.Nil
}
