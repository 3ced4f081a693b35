package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseAddress 测试地址解析与规范化
func TestParseAddress(t *testing.T) {
	tests := []struct {
		in   string
		want Address
	}{
		{"00:11:22:aa:bb:cc", "00:11:22:AA:BB:CC"},
		{"00-11-22-AA-BB-CC", "00:11:22:AA:BB:CC"},
		{" 01:02:03:04:05:06 ", "01:02:03:04:05:06"},
	}

	for _, tt := range tests {
		got, err := ParseAddress(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

// TestParseAddress_Invalid 测试非法地址
func TestParseAddress_Invalid(t *testing.T) {
	for _, in := range []string{"", "00:11:22:33:44", "00:11:22:33:44:5G", "001:1:22:33:44:55"} {
		_, err := ParseAddress(in)
		assert.ErrorIs(t, err, ErrInvalidAddress, in)
	}
}

// TestAddress_IsZero 测试零值地址
func TestAddress_IsZero(t *testing.T) {
	assert.True(t, ZeroAddress.IsZero())
	assert.False(t, MustParseAddress("00:11:22:33:44:55").IsZero())
}

// TestChannel_Valid 测试信道范围
func TestChannel_Valid(t *testing.T) {
	assert.False(t, InvalidChannel.Valid())
	assert.False(t, AnyChannel.Valid())
	assert.True(t, MinChannel.Valid())
	assert.True(t, MaxChannel.Valid())
	assert.False(t, Channel(31).Valid())

	assert.ErrorIs(t, Channel(31).Validate(), ErrInvalidChannel)
	assert.NoError(t, Channel(3).Validate())
}

// TestBindStatus_Values 测试返回码字面值
func TestBindStatus_Values(t *testing.T) {
	assert.Equal(t, 0, int(BindOK))
	assert.Equal(t, 77, int(BindBadState))
	assert.Equal(t, 98, int(BindAddressInUse))
	assert.True(t, BindOK.OK())
	assert.Equal(t, "address-in-use", BindAddressInUse.String())
}
