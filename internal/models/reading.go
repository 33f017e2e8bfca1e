package models

import (
	"time"

	"purpleair_monitor/internal/aqi"
)

// SensorReading is the canonical normalized reading produced once per
// successful fetch cycle. It is an immutable value: the poller replaces the
// cached reading wholesale, never mutates it in place.
type SensorReading struct {
	// UpdatedAt is the wall-clock time at which the fetch completed,
	// never the sensor's self-reported timestamp.
	UpdatedAt   time.Time `json:"updated_at"`
	PM25        float64   `json:"pm2_5"` // corrected µg/m³
	AQI         float64   `json:"aqi"`
	Category    aqi.Level `json:"category"` // 1..5, 0 = unknown
	Temperature *float64  `json:"temperature_c,omitempty"`
	Humidity    float64   `json:"humidity"` // relative %
	VOC         *float64  `json:"voc,omitempty"`
}

// Fresh reports whether the reading is still trustworthy at query time given
// the configured update interval.
func (r *SensorReading) Fresh(now time.Time, interval time.Duration) bool {
	if r == nil {
		return false
	}
	return now.Sub(r.UpdatedAt) < interval
}
