// Package metrics exposes the latest sensor reading as Prometheus gauges.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"purpleair_monitor/internal/models"
)

// AirGauges mirrors the cached reading into a Prometheus registry. A failed
// poll clears the value series so scrapes see missing data points instead of
// a stale last value; the freshness gauge gives a direct liveness signal.
type AirGauges struct {
	pm25        *prometheus.GaugeVec
	aqi         *prometheus.GaugeVec
	humidity    *prometheus.GaugeVec
	temperature *prometheus.GaugeVec
	voc         *prometheus.GaugeVec
	fresh       *prometheus.GaugeVec
	polls       *prometheus.CounterVec
}

func newGauge(name, help string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: name, Help: help},
		[]string{"sensor_id"},
	)
}

// NewAirGauges registers the gauge set with reg.
func NewAirGauges(reg prometheus.Registerer) *AirGauges {
	g := &AirGauges{
		pm25:        newGauge("air_pm25", "Corrected PM2.5 mass density (units: µg/m³)"),
		aqi:         newGauge("air_aqi", "EPA Air Quality Index derived from PM2.5"),
		humidity:    newGauge("air_humidity", "Relative humidity (units: %)"),
		temperature: newGauge("air_temperature", "Air temperature (units: degrees Celsius)"),
		voc:         newGauge("air_voc", "Volatile organic compound density"),
		fresh:       newGauge("air_reading_fresh", "1 when the cached reading is fresh, 0 otherwise"),
		polls: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "air_polls_total", Help: "Poll attempts by result"},
			[]string{"sensor_id", "result"},
		),
	}
	reg.MustRegister(g.pm25, g.aqi, g.humidity, g.temperature, g.voc, g.fresh, g.polls)
	return g
}

// Observe records a successful poll.
func (g *AirGauges) Observe(sensorID string, r models.SensorReading) {
	g.pm25.WithLabelValues(sensorID).Set(r.PM25)
	g.aqi.WithLabelValues(sensorID).Set(r.AQI)
	g.humidity.WithLabelValues(sensorID).Set(r.Humidity)
	if r.Temperature != nil {
		g.temperature.WithLabelValues(sensorID).Set(*r.Temperature)
	} else {
		g.temperature.DeleteLabelValues(sensorID)
	}
	if r.VOC != nil {
		g.voc.WithLabelValues(sensorID).Set(*r.VOC)
	} else {
		g.voc.DeleteLabelValues(sensorID)
	}
	g.fresh.WithLabelValues(sensorID).Set(1)
	g.polls.WithLabelValues(sensorID, "ok").Inc()
}

// Clear records a failed poll and drops the value series.
func (g *AirGauges) Clear(sensorID string) {
	g.pm25.DeleteLabelValues(sensorID)
	g.aqi.DeleteLabelValues(sensorID)
	g.humidity.DeleteLabelValues(sensorID)
	g.temperature.DeleteLabelValues(sensorID)
	g.voc.DeleteLabelValues(sensorID)
	g.fresh.WithLabelValues(sensorID).Set(0)
	g.polls.WithLabelValues(sensorID, "error").Inc()
}

// SetFresh updates only the freshness gauge, for staleness observed between
// polls.
func (g *AirGauges) SetFresh(sensorID string, fresh bool) {
	v := 0.0
	if fresh {
		v = 1
	}
	g.fresh.WithLabelValues(sensorID).Set(v)
}
