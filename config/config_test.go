package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewConfig 测试创建默认配置
func TestNewConfig(t *testing.T) {
	cfg := NewConfig()
	require.NotNil(t, cfg)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 500*time.Millisecond, cfg.Socket.AcceptPollInterval.Duration())
	assert.Equal(t, 12*time.Second, cfg.Discovery.Timeout.Duration())
	assert.Equal(t, FallbackDefaultChannel, cfg.Discovery.Fallback)
	assert.Equal(t, 1, cfg.Discovery.FallbackChannel)
	assert.Equal(t, TransportNative, cfg.Transport.Mode)
}

// TestConfig_Validate 测试配置验证
func TestConfig_Validate(t *testing.T) {
	t.Run("Nil", func(t *testing.T) {
		var cfg *Config
		assert.Error(t, cfg.Validate())
	})

	t.Run("PollInterval", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Socket.AcceptPollInterval = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("FallbackPolicy", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Discovery.Fallback = "guess"
		assert.Error(t, cfg.Validate())

		cfg.Discovery.Fallback = FallbackFail
		cfg.Discovery.FallbackChannel = 0
		assert.NoError(t, cfg.Validate())

		cfg.Discovery.Fallback = FallbackDefaultChannel
		assert.Error(t, cfg.Validate())
	})

	t.Run("TransportMode", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Transport.Mode = TransportDelegated
		assert.NoError(t, cfg.Validate())

		cfg.Transport.Mode = "kernel"
		assert.Error(t, cfg.Validate())
	})

	t.Run("Metrics", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Metrics.Namespace = ""
		assert.Error(t, cfg.Validate())

		cfg.Metrics.Enable = false
		assert.NoError(t, cfg.Validate())
	})
}

// TestFromJSON 测试 JSON 加载
func TestFromJSON(t *testing.T) {
	data := []byte(`{
		"socket": {"accept_poll_interval": "100ms", "default_channel": 5},
		"discovery": {"timeout": "3s", "fallback": "fail"}
	}`)

	cfg, err := FromJSON(data)
	require.NoError(t, err)

	assert.Equal(t, 100*time.Millisecond, cfg.Socket.AcceptPollInterval.Duration())
	assert.Equal(t, 5, cfg.Socket.DefaultChannel)
	assert.Equal(t, 3*time.Second, cfg.Discovery.Timeout.Duration())
	assert.Equal(t, FallbackFail, cfg.Discovery.Fallback)
	// 未出现的字段保留默认值
	assert.Equal(t, TransportNative, cfg.Transport.Mode)
}

// TestFromJSON_Invalid 测试非法 JSON
func TestFromJSON_Invalid(t *testing.T) {
	_, err := FromJSON([]byte(`{"discovery": {"timeout": "soon"}}`))
	assert.Error(t, err)

	_, err = FromJSON([]byte(`{"socket": {"accept_poll_interval": "-1s"}}`))
	assert.Error(t, err)
}

// TestLoadFile 测试文件加载与序列化往返
func TestLoadFile(t *testing.T) {
	cfg := NewConfig()
	cfg.Transport.Mode = TransportDelegated

	data, err := cfg.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"accept_poll_interval": "500ms"`)

	path := filepath.Join(t.TempDir(), "rfcomm.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

// TestDuration_Number 测试纳秒数字格式
func TestDuration_Number(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalJSON([]byte("1000000")))
	assert.Equal(t, time.Millisecond, d.Duration())
	assert.Error(t, d.UnmarshalJSON([]byte("true")))
}
