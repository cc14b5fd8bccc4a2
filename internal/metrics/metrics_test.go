package metrics

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()
	m.Formatted("receipt", 3)
	m.Formatted("receipt", 1)
	m.Failed("receipt", "argument")
	m.Degraded("difficulty")

	require.Equal(t, float64(4), testutil.ToFloat64(m.formatted.WithLabelValues("receipt")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.failures.WithLabelValues("receipt", "argument")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.degradations.WithLabelValues("difficulty")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.Formatted("receipt", 1)
		m.Failed("receipt", "type")
		m.Degraded("callAddress")
	})
}

func TestWriteText(t *testing.T) {
	m := New()
	m.Formatted("transaction", 2)

	var buf bytes.Buffer
	require.NoError(t, m.WriteText(&buf))
	require.Contains(t, buf.String(), `rpcformat_records_formatted_total{kind="transaction"} 2`)
}

func TestRegistryGathersOnlyObservedSeries(t *testing.T) {
	m := New()
	m.Degraded("callAddress")

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	require.Equal(t, "rpcformat_degradations_total", families[0].GetName())
}
