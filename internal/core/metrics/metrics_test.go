package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-rfcomm/config"
)

func TestCollector(t *testing.T) {
	c := NewCollector("rfcomm")

	c.ConnectOutcome(OutcomeSuccess)
	c.ConnectOutcome(OutcomeSuccess)
	c.ConnectOutcome(OutcomeClosed)
	c.AcceptOutcome(OutcomeTimeout)
	c.DiscoveryOutcome(OutcomeFallback)
	c.SocketOpened()
	c.SocketOpened()
	c.SocketClosed()

	assert.Equal(t, 2.0, testutil.ToFloat64(c.connects.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.connects.WithLabelValues(OutcomeClosed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.accepts.WithLabelValues(OutcomeTimeout)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.discovery.WithLabelValues(OutcomeFallback)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.closes))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.open))
}

func TestCollector_Register(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector("rfcomm")
	require.NoError(t, reg.Register(c))

	c.SocketOpened()
	c.ConnectOutcome(OutcomeError)

	n, err := testutil.GatherAndCount(reg, "rfcomm_open_sockets", "rfcomm_connect_attempts_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestNewReporterFromParams(t *testing.T) {
	t.Run("Default", func(t *testing.T) {
		r, err := NewReporterFromParams(Params{})
		require.NoError(t, err)
		assert.IsType(t, &Collector{}, r)
	})

	t.Run("Disabled", func(t *testing.T) {
		cfg := config.NewConfig()
		cfg.Metrics.Enable = false
		r, err := NewReporterFromParams(Params{UnifiedCfg: cfg})
		require.NoError(t, err)
		assert.Equal(t, Nop{}, r)
	})

	t.Run("Registers", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		r, err := NewReporterFromParams(Params{Registerer: reg})
		require.NoError(t, err)
		r.SocketOpened()

		n, err := testutil.GatherAndCount(reg, "rfcomm_open_sockets")
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		_, err = NewReporterFromParams(Params{Registerer: reg})
		assert.Error(t, err)
	})
}

func TestOrNop(t *testing.T) {
	assert.Equal(t, Nop{}, OrNop(nil))
	c := NewCollector("x")
	assert.Same(t, c, OrNop(c))
}
