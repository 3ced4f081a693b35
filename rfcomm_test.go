package rfcomm

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-rfcomm/config"
	"github.com/dep2p/go-rfcomm/internal/core/socket"
	"github.com/dep2p/go-rfcomm/internal/core/transport/memory"
)

var (
	serverAddr = MustParseAddress("00:00:00:00:00:01")
	clientAddr = MustParseAddress("00:00:00:00:00:02")
)

func newPair(t *testing.T, hub *memory.Hub, opts ...Option) (server, client *Stack) {
	t.Helper()

	var err error
	server, err = New(append([]Option{WithSource(hub.Device(serverAddr)), WithDirectory(hub)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = server.Close() })

	client, err = New(append([]Option{WithSource(hub.Device(clientAddr)), WithDirectory(hub)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return server, client
}

func echo(t *testing.T, hub *memory.Hub, server, client *Stack) {
	t.Helper()

	ln, err := server.Listen(AnyChannel)
	require.NoError(t, err)
	require.NoError(t, hub.RegisterService(serverAddr, SerialPortServiceID, ln.Channel()))

	id := SerialPortServiceID
	sock, err := client.NewSocket(serverAddr, &id)
	require.NoError(t, err)

	var g errgroup.Group
	g.Go(func() error {
		child, err := ln.Accept(context.Background(), 2*time.Second)
		if err != nil {
			return err
		}
		defer child.Close()
		in, err := child.InputStream()
		if err != nil {
			return err
		}
		out, err := child.OutputStream()
		if err != nil {
			return err
		}
		buf := make([]byte, 4)
		if _, err := io.ReadFull(in, buf); err != nil {
			return err
		}
		_, err = out.Write(buf)
		return err
	})

	require.NoError(t, sock.Connect(context.Background()))
	assert.Equal(t, ln.Channel(), sock.Channel())

	out, err := sock.OutputStream()
	require.NoError(t, err)
	in, err := sock.InputStream()
	require.NoError(t, err)

	_, err = out.Write([]byte("ping"))
	require.NoError(t, err)
	buf := make([]byte, 4)
	_, err = io.ReadFull(in, buf)
	require.NoError(t, err)
	assert.Equal(t, "ping", string(buf))

	require.NoError(t, g.Wait())
	require.NoError(t, sock.Close())
}

func TestStack_Native(t *testing.T) {
	hub := memory.NewHub()
	server, client := newPair(t, hub)
	echo(t, hub, server, client)
}

func TestStack_Delegated(t *testing.T) {
	hub := memory.NewHub()
	server, client := newPair(t, hub, WithDelegation(true))
	echo(t, hub, server, client)
}

func TestStack_Metrics(t *testing.T) {
	hub := memory.NewHub()
	reg := prometheus.NewPedanticRegistry()

	server, err := New(WithSource(hub.Device(serverAddr)), WithDirectory(hub), WithRegisterer(reg))
	require.NoError(t, err)
	defer server.Close()
	client, err := New(WithSource(hub.Device(clientAddr)), WithDirectory(hub))
	require.NoError(t, err)
	defer client.Close()

	echo(t, hub, server, client)

	n, err := testutil.GatherAndCount(reg, "rfcomm_accepts_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStack_Close(t *testing.T) {
	hub := memory.NewHub()
	s, err := New(WithTransport(hub.Device(serverAddr)))
	require.NoError(t, err)

	ln, err := s.Listen(AnyChannel)
	require.NoError(t, err)

	require.NoError(t, s.Close())
	assert.True(t, ln.IsClosed())

	// 重复关闭
	require.NoError(t, s.Close())
}

func TestStack_ListenAddressInUse(t *testing.T) {
	hub := memory.NewHub()
	s, err := New(WithTransport(hub.Device(serverAddr)))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Listen(3)
	require.NoError(t, err)
	_, err = s.Listen(3)
	assert.Error(t, err)
}

func TestStack_ListenChannelFromConfig(t *testing.T) {
	hub := memory.NewHub()
	cfg := config.NewConfig()
	cfg.Socket.ListenChannel = 7

	s, err := New(WithConfig(cfg), WithTransport(hub.Device(serverAddr)))
	require.NoError(t, err)
	defer s.Close()

	ln, err := s.Listen(AnyChannel)
	require.NoError(t, err)
	assert.Equal(t, Channel(7), ln.Channel())
}

func TestStack_FromHandleUnsupported(t *testing.T) {
	hub := memory.NewHub()
	s, err := New(WithTransport(hub.Device(serverAddr)))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.NewSocketFromHandle(struct{}{})
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestNew_Options(t *testing.T) {
	hub := memory.NewHub()

	t.Run("no transport", func(t *testing.T) {
		_, err := New()
		assert.Error(t, err)
	})

	t.Run("both transports", func(t *testing.T) {
		_, err := New(WithTransport(hub.Device(serverAddr)), WithSource(hub.Device(serverAddr)))
		assert.Error(t, err)
	})

	t.Run("delegated without source", func(t *testing.T) {
		_, err := New(WithTransport(hub.Device(serverAddr)), WithDelegation(true))
		assert.Error(t, err)
	})

	t.Run("bad durations", func(t *testing.T) {
		_, err := New(WithTransport(hub.Device(serverAddr)), WithDiscoveryTimeout(0))
		assert.Error(t, err)
		_, err = New(WithTransport(hub.Device(serverAddr)), WithAcceptPollInterval(-time.Second))
		assert.Error(t, err)
	})

	t.Run("fx option", func(t *testing.T) {
		var live int
		s, err := New(WithTransport(hub.Device(serverAddr)), WithFxOption(fx.Invoke(func(f *socket.Factory) {
			live = f.Live() + 1
		})))
		require.NoError(t, err)
		defer s.Close()
		assert.Equal(t, 1, live)
	})

	t.Run("config file", func(t *testing.T) {
		cfg := config.NewConfig()
		cfg.Discovery.Fallback = config.FallbackFail
		data, err := cfg.ToJSON()
		require.NoError(t, err)

		path := filepath.Join(t.TempDir(), "rfcomm.json")
		require.NoError(t, os.WriteFile(path, data, 0o600))

		s, err := New(WithConfigFile(path), WithTransport(hub.Device(clientAddr)), WithDirectory(hub))
		require.NoError(t, err)
		defer s.Close()

		// 目录中没有该服务，严格模式下连接失败
		id := SerialPortServiceID
		sock, err := s.NewSocket(serverAddr, &id)
		require.NoError(t, err)
		assert.ErrorIs(t, sock.Connect(context.Background()), ErrDiscoveryFailed)
	})
}
