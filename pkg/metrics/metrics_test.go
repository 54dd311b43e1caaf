package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewMetricDescriptors tests creation and registration of room metrics
func TestNewMetricDescriptors(t *testing.T) {
	registry := prometheus.NewRegistry()
	md, err := NewMetricDescriptorsWithRegisterer(registry)
	require.NoError(t, err)
	require.NotNil(t, md)

	// Registering the same metrics twice fails
	_, err = NewMetricDescriptorsWithRegisterer(registry)
	assert.Error(t, err)
}

// TestMetricDescriptors_SetAndReset tests setting and resetting room gauges
func TestMetricDescriptors_SetAndReset(t *testing.T) {
	registry := prometheus.NewRegistry()
	md, err := NewMetricDescriptorsWithRegisterer(registry)
	require.NoError(t, err)

	labels := []string{"100", "Home", "200", "Bathroom"}
	md.TemperatureCurrentCelsius.WithLabelValues(labels...).Set(21.5)
	md.RunMode.WithLabelValues(labels...).Set(RunModeSchedule)

	assert.Equal(t, 21.5, testutil.ToFloat64(md.TemperatureCurrentCelsius.WithLabelValues(labels...)))

	md.Reset()
	assert.Equal(t, 0, testutil.CollectAndCount(&md.TemperatureCurrentCelsius, "warmup_room_temperature_current_celsius"))
	assert.Equal(t, 0, testutil.CollectAndCount(&md.RunMode, "warmup_room_run_mode"))
}

// TestRunModeValue tests the run mode string mapping
func TestRunModeValue(t *testing.T) {
	tests := []struct {
		name     string
		runMode  string
		expected float64
	}{
		{name: "Off", runMode: "off", expected: RunModeOff},
		{name: "Program schedule", runMode: "prog", expected: RunModeSchedule},
		{name: "Schedule alias", runMode: "schedule", expected: RunModeSchedule},
		{name: "Override", runMode: "override", expected: RunModeOverride},
		{name: "Fixed", runMode: "fixed", expected: RunModeFixed},
		{name: "Frost", runMode: "frost", expected: RunModeFrost},
		{name: "Anti frost alias", runMode: "anti_frost", expected: RunModeFrost},
		{name: "Unknown", runMode: "holiday", expected: RunModeUnknown},
		{name: "Empty", runMode: "", expected: RunModeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RunModeValue(tt.runMode))
		})
	}
}
