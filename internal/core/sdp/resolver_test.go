package sdp

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-rfcomm/config"
	"github.com/dep2p/go-rfcomm/internal/core/metrics"
	"github.com/dep2p/go-rfcomm/pkg/interfaces"
	"github.com/dep2p/go-rfcomm/pkg/types"
	"github.com/dep2p/go-rfcomm/tests/mocks"
)

var testAddr = types.MustParseAddress("00:11:22:33:44:55")

type recordingReporter struct {
	metrics.Nop
	mu        sync.Mutex
	discovery []string
}

func (r *recordingReporter) DiscoveryOutcome(o string) {
	r.mu.Lock()
	r.discovery = append(r.discovery, o)
	r.mu.Unlock()
}

func (r *recordingReporter) outcomes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.discovery...)
}

type outcome struct {
	ch  types.Channel
	err error
}

func doAsync(ctx context.Context, q *Request) <-chan outcome {
	done := make(chan outcome, 1)
	go func() {
		ch, err := q.Do(ctx)
		done <- outcome{ch, err}
	}()
	return done
}

// advanceUntil 推进 mock 时钟直到 Do 返回
func advanceUntil(t *testing.T, mock *clock.Mock, done <-chan outcome) outcome {
	t.Helper()
	var got outcome
	require.Eventually(t, func() bool {
		select {
		case got = <-done:
			return true
		default:
			mock.Add(time.Second)
			return false
		}
	}, 2*time.Second, 5*time.Millisecond)
	return got
}

func TestRequest_Success(t *testing.T) {
	dir := mocks.ReplyWith(7)
	r := NewResolver(dir, DefaultConfig())

	q := r.NewRequest(testAddr, types.SerialPortServiceID)
	ch, err := q.Do(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.Channel(7), ch)
	assert.Equal(t, types.Channel(7), q.Channel())

	lookups := dir.Lookups()
	require.Len(t, lookups, 1)
	assert.Equal(t, uint16(0x1101), lookups[0].UUID16)
	assert.Equal(t, testAddr, lookups[0].Addr)
}

func TestRequest_TimeoutFallback(t *testing.T) {
	mock := clock.NewMock()
	dir := mocks.NewMockDirectory()
	rep := &recordingReporter{}
	r := NewResolver(dir, DefaultConfig(), WithClock(mock), WithReporter(rep))

	q := r.NewRequest(testAddr, types.SerialPortServiceID)
	got := advanceUntil(t, mock, doAsync(context.Background(), q))

	require.NoError(t, got.err)
	assert.Equal(t, types.Channel(1), got.ch)
	assert.Equal(t, []string{metrics.OutcomeFallback}, rep.outcomes())
}

func TestRequest_CeilingIsTwelveSeconds(t *testing.T) {
	mock := clock.NewMock()
	dir := mocks.NewMockDirectory()
	r := NewResolver(dir, DefaultConfig(), WithClock(mock))

	q := r.NewRequest(testAddr, types.SerialPortServiceID)
	done := doAsync(context.Background(), q)

	require.Eventually(t, func() bool { return len(dir.Lookups()) == 1 }, time.Second, time.Millisecond)
	// 让 Do 进入等待并注册定时器
	time.Sleep(20 * time.Millisecond)

	mock.Add(11 * time.Second)
	select {
	case <-done:
		t.Fatal("returned before ceiling")
	case <-time.After(50 * time.Millisecond):
	}

	mock.Add(time.Second)
	select {
	case got := <-done:
		require.NoError(t, got.err)
		assert.Equal(t, types.Channel(1), got.ch)
	case <-time.After(time.Second):
		t.Fatal("did not return at ceiling")
	}
}

func TestRequest_FailPolicy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Fallback = PolicyFail

	t.Run("Timeout", func(t *testing.T) {
		mock := clock.NewMock()
		r := NewResolver(mocks.NewMockDirectory(), cfg, WithClock(mock))
		got := advanceUntil(t, mock, doAsync(context.Background(), r.NewRequest(testAddr, types.SerialPortServiceID)))
		assert.ErrorIs(t, got.err, ErrFailed)
		assert.Equal(t, types.InvalidChannel, got.ch)
	})

	t.Run("LookupFailed", func(t *testing.T) {
		r := NewResolver(mocks.ReplyWith(-1), cfg)
		_, err := r.Resolve(context.Background(), testAddr, types.SerialPortServiceID)
		assert.ErrorIs(t, err, ErrFailed)
	})
}

func TestRequest_LookupFailedFallsBack(t *testing.T) {
	r := NewResolver(mocks.ReplyWith(0), DefaultConfig())
	ch, err := r.Resolve(context.Background(), testAddr, types.SerialPortServiceID)
	require.NoError(t, err)
	assert.Equal(t, types.Channel(1), ch)
}

func TestRequest_CancelIsPrompt(t *testing.T) {
	dir := mocks.NewMockDirectory()
	r := NewResolver(dir, DefaultConfig())

	q := r.NewRequest(testAddr, types.SerialPortServiceID)
	done := doAsync(context.Background(), q)
	require.Eventually(t, func() bool { return len(dir.Lookups()) == 1 }, time.Second, time.Millisecond)

	start := time.Now()
	q.Cancel()
	q.Cancel()

	select {
	case got := <-done:
		assert.ErrorIs(t, got.err, ErrCanceled)
		assert.Less(t, time.Since(start), 500*time.Millisecond)
	case <-time.After(time.Second):
		t.Fatal("cancel did not unblock Do")
	}

	// 取消后到达的结果被忽略
	dir.Deliver(9)
	assert.Equal(t, types.InvalidChannel, q.Channel())
	assert.True(t, q.Canceled())
}

func TestRequest_CanceledBeforeDo(t *testing.T) {
	dir := mocks.NewMockDirectory()
	q := NewResolver(dir, DefaultConfig()).NewRequest(testAddr, types.SerialPortServiceID)
	q.Cancel()

	_, err := q.Do(context.Background())
	assert.ErrorIs(t, err, ErrCanceled)
	assert.Empty(t, dir.Lookups())
}

func TestRequest_ContextCanceled(t *testing.T) {
	r := NewResolver(mocks.NewMockDirectory(), DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())

	q := r.NewRequest(testAddr, types.SerialPortServiceID)
	done := doAsync(ctx, q)
	cancel()

	got := <-done
	assert.ErrorIs(t, got.err, ErrCanceled)
	assert.ErrorIs(t, got.err, context.Canceled)
}

func TestRequest_StartFailed(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		dir := mocks.NewMockDirectory()
		dir.SubmitLookupFunc = func(types.Address, uint16, interfaces.LookupCallback) (bool, error) {
			return false, errors.New("adapter off")
		}
		_, err := NewResolver(dir, DefaultConfig()).Resolve(context.Background(), testAddr, types.SerialPortServiceID)
		assert.ErrorIs(t, err, ErrStartFailed)
		assert.Contains(t, err.Error(), "adapter off")
	})

	t.Run("NotStarted", func(t *testing.T) {
		dir := mocks.NewMockDirectory()
		dir.SubmitLookupFunc = func(types.Address, uint16, interfaces.LookupCallback) (bool, error) {
			return false, nil
		}
		_, err := NewResolver(dir, DefaultConfig()).Resolve(context.Background(), testAddr, types.SerialPortServiceID)
		assert.ErrorIs(t, err, ErrStartFailed)
	})

	t.Run("NoDirectory", func(t *testing.T) {
		_, err := NewResolver(nil, DefaultConfig()).Resolve(context.Background(), testAddr, types.SerialPortServiceID)
		assert.ErrorIs(t, err, ErrStartFailed)
		assert.ErrorIs(t, err, ErrNoDirectory)
	})
}

func TestRequest_SingleUse(t *testing.T) {
	q := NewResolver(mocks.ReplyWith(3), DefaultConfig()).NewRequest(testAddr, types.SerialPortServiceID)
	_, err := q.Do(context.Background())
	require.NoError(t, err)

	_, err = q.Do(context.Background())
	assert.ErrorIs(t, err, ErrRequestReused)
}

func TestRequest_OnResultOneShot(t *testing.T) {
	dir := mocks.NewMockDirectory()
	q := NewResolver(dir, DefaultConfig()).NewRequest(testAddr, types.SerialPortServiceID)
	done := doAsync(context.Background(), q)
	require.Eventually(t, func() bool { return len(dir.Lookups()) == 1 }, time.Second, time.Millisecond)

	dir.Deliver(5)
	dir.Deliver(6)

	got := <-done
	require.NoError(t, got.err)
	assert.Equal(t, types.Channel(5), got.ch)
}

func TestRequest_OnResultAddressMismatch(t *testing.T) {
	dir := mocks.NewMockDirectory()
	q := NewResolver(dir, DefaultConfig()).NewRequest(testAddr, types.SerialPortServiceID)
	done := doAsync(context.Background(), q)
	require.Eventually(t, func() bool { return len(dir.Lookups()) == 1 }, time.Second, time.Millisecond)

	// 地址不一致的结果仍然记录，不会等到超时
	q.OnResult(types.MustParseAddress("AA:BB:CC:DD:EE:FF"), 4)

	select {
	case got := <-done:
		require.NoError(t, got.err)
		assert.Equal(t, types.Channel(4), got.ch)
	case <-time.After(time.Second):
		t.Fatal("result with another address was dropped")
	}
}

func TestConfigFromUnified(t *testing.T) {
	assert.Equal(t, DefaultConfig(), ConfigFromUnified(nil))

	cfg := config.NewConfig()
	cfg.Discovery.Timeout = config.Duration(3 * time.Second)
	cfg.Discovery.Fallback = config.FallbackFail
	c := ConfigFromUnified(cfg)
	assert.Equal(t, 3*time.Second, c.Timeout)
	assert.Equal(t, PolicyFail, c.Fallback)
	require.NoError(t, c.Validate())

	bad := DefaultConfig()
	bad.FallbackChannel = 31
	assert.Error(t, bad.Validate())

	_, err := ParsePolicy("guess")
	assert.Error(t, err)
	assert.Equal(t, "fail", PolicyFail.String())
}

func TestPromise(t *testing.T) {
	p := newPromise[int]()
	_, ok := p.value()
	assert.False(t, ok)

	assert.True(t, p.fulfill(1))
	assert.False(t, p.fulfill(2))

	v, ok := p.value()
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}
