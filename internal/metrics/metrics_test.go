package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.OverviewRenders.WithLabelValues("course").Inc()
	m.AppointmentSaves.WithLabelValues("savegrade", "ok").Add(2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.OverviewRenders.WithLabelValues("course")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.AppointmentSaves.WithLabelValues("savegrade", "ok")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 2) // гистограмма без наблюдений не выводится
}
