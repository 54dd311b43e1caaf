// Package metrics defines the Prometheus metrics published by the exporter.
//
// Room-level metrics carry location_id, location_name, room_id and room_name
// labels. The Warmup API reports temperatures as fixed-point integers
// (degrees x 10); descriptors here hold plain degrees Celsius, converted by
// the collector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Run mode gauge values published by warmup_room_run_mode
const (
	RunModeUnknown  = -1
	RunModeOff      = 0
	RunModeSchedule = 1
	RunModeOverride = 2
	RunModeFixed    = 3
	RunModeFrost    = 4
)

// roomLabels are the labels applied to every room-level metric
var roomLabels = []string{"location_id", "location_name", "room_id", "room_name"}

// MetricDescriptors holds all Prometheus metric descriptors for Warmup
type MetricDescriptors struct {
	// Room-level metrics
	TemperatureCurrentCelsius prometheus.GaugeVec
	TemperatureTargetCelsius  prometheus.GaugeVec
	OverrideRemainingMinutes  prometheus.GaugeVec
	RunMode                   prometheus.GaugeVec
	ThermostatCount           prometheus.GaugeVec

	// Location-level metrics
	LocationRooms prometheus.GaugeVec
}

// NewMetricDescriptors creates all Prometheus metrics and registers them
// with the default registerer
func NewMetricDescriptors() (*MetricDescriptors, error) {
	return NewMetricDescriptorsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewMetricDescriptorsWithRegisterer creates all Prometheus metrics and
// registers them with the given registerer (useful for testing)
func NewMetricDescriptorsWithRegisterer(reg prometheus.Registerer) (*MetricDescriptors, error) {
	md := &MetricDescriptors{
		TemperatureCurrentCelsius: *prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "warmup_room_temperature_current_celsius",
				Help: "Current measured room temperature in Celsius",
			},
			roomLabels,
		),

		TemperatureTargetCelsius: *prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "warmup_room_temperature_target_celsius",
				Help: "Target room temperature in Celsius",
			},
			roomLabels,
		),

		OverrideRemainingMinutes: *prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "warmup_room_override_remaining_minutes",
				Help: "Minutes remaining on the active temperature override (0 when no override)",
			},
			roomLabels,
		),

		RunMode: *prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "warmup_room_run_mode",
				Help: "Room run mode (-1 = unknown, 0 = off, 1 = schedule, 2 = override, 3 = fixed, 4 = frost protection)",
			},
			roomLabels,
		),

		ThermostatCount: *prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "warmup_room_thermostat_count",
				Help: "Number of thermostat devices in the room",
			},
			roomLabels,
		),

		LocationRooms: *prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "warmup_location_rooms",
				Help: "Number of rooms at the location",
			},
			[]string{"location_id", "location_name"},
		),
	}

	// Register all metrics with Prometheus
	if err := md.register(reg); err != nil {
		return nil, err
	}

	return md, nil
}

// register registers all metrics with the given registerer
func (md *MetricDescriptors) register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		&md.TemperatureCurrentCelsius,
		&md.TemperatureTargetCelsius,
		&md.OverrideRemainingMinutes,
		&md.RunMode,
		&md.ThermostatCount,
		&md.LocationRooms,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Reset clears all metric values (useful for testing, and between scrapes so
// removed rooms do not linger)
func (md *MetricDescriptors) Reset() {
	md.TemperatureCurrentCelsius.Reset()
	md.TemperatureTargetCelsius.Reset()
	md.OverrideRemainingMinutes.Reset()
	md.RunMode.Reset()
	md.ThermostatCount.Reset()
	md.LocationRooms.Reset()
}

// RunModeValue maps a Warmup API run mode string to its gauge value
func RunModeValue(runMode string) float64 {
	switch runMode {
	case "off":
		return RunModeOff
	case "prog", "schedule":
		return RunModeSchedule
	case "override":
		return RunModeOverride
	case "fixed":
		return RunModeFixed
	case "frost", "anti_frost":
		return RunModeFrost
	default:
		return RunModeUnknown
	}
}
