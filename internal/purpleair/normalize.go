package purpleair

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"purpleair_monitor/internal/aqi"
	"purpleair_monitor/internal/models"
)

// Window selects which source-reported averaging span feeds the conversion.
// Only cloud payloads carry multiple windows; local payloads always report
// the realtime value.
type Window string

const (
	WindowRealtime Window = "realtime"
	Window10m      Window = "10m"
	Window30m      Window = "30m"
	Window60m      Window = "60m"
)

// ParseWindow matches a config string.
func ParseWindow(s string) (Window, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "realtime":
		return WindowRealtime, nil
	case "10m":
		return Window10m, nil
	case "30m":
		return Window30m, nil
	case "60m":
		return Window60m, nil
	}
	return "", fmt.Errorf("unknown averaging window %q (want realtime, 10m, 30m, or 60m)", s)
}

// Normalize converts a raw payload into the canonical reading. It is pure:
// the reading's timestamp is the supplied now, never a source-embedded time.
// A missing humidity or PM field is a *ParseError; temperature and VOC are
// optional and simply absent from the result.
func Normalize(p Payload, w Window, conv aqi.Conversion, now time.Time) (models.SensorReading, error) {
	var (
		rawPM, humidity float64
		tempF, voc      *float64
		err             error
	)
	switch {
	case p.Local != nil:
		rawPM, humidity, tempF, voc, err = extractLocal(p.Local)
	case p.Cloud != nil:
		rawPM, humidity, tempF, err = extractCloud(p.Cloud, w)
	default:
		err = &ParseError{Field: "payload"}
	}
	if err != nil {
		return models.SensorReading{}, err
	}

	pm := aqi.CorrectDensity(rawPM, conv)
	index := aqi.FromDensity(pm)

	r := models.SensorReading{
		UpdatedAt: now,
		PM25:      pm,
		AQI:       index,
		Category:  aqi.Category(index),
		Humidity:  humidity,
		VOC:       voc,
	}
	if tempF != nil {
		c := fahrenheitToCelsius(*tempF)
		r.Temperature = &c
	}
	return r, nil
}

func extractLocal(p *LocalPayload) (pm, humidity float64, tempF, voc *float64, err error) {
	if p.PM25Atm == nil {
		return 0, 0, nil, nil, &ParseError{Field: "pm2_5_atm"}
	}
	if p.Humidity == nil {
		return 0, 0, nil, nil, &ParseError{Field: "current_humidity"}
	}
	return *p.PM25Atm, *p.Humidity, p.TempF, p.Gas680, nil
}

func extractCloud(p *CloudPayload, w Window) (pm, humidity float64, tempF *float64, err error) {
	if len(p.Results) == 0 {
		return 0, 0, nil, &ParseError{Field: "results"}
	}
	sensor := p.Results[0]

	pm, err = cloudPM(sensor, w)
	if err != nil {
		return 0, 0, nil, err
	}
	if sensor.Humidity == "" {
		return 0, 0, nil, &ParseError{Field: "humidity"}
	}
	humidity, err = strconv.ParseFloat(sensor.Humidity, 64)
	if err != nil {
		return 0, 0, nil, &ParseError{Field: "humidity", Err: err}
	}
	if sensor.TempF != "" {
		f, perr := strconv.ParseFloat(sensor.TempF, 64)
		if perr == nil {
			tempF = &f
		}
	}
	return pm, humidity, tempF, nil
}

// cloudPM picks the raw density for the requested window from the embedded
// stats document, falling back to the realtime PM2_5Value when the stats are
// absent or don't carry the window.
func cloudPM(s CloudSensor, w Window) (float64, error) {
	if s.Stats != "" {
		var stats cloudStats
		if err := json.Unmarshal([]byte(s.Stats), &stats); err == nil {
			var v *float64
			switch w {
			case Window10m:
				v = stats.V1
			case Window30m:
				v = stats.V2
			case Window60m:
				v = stats.V3
			default:
				v = stats.V
			}
			if v != nil {
				return *v, nil
			}
		}
	}
	if s.PM25 == "" {
		return 0, &ParseError{Field: "PM2_5Value"}
	}
	pm, err := strconv.ParseFloat(s.PM25, 64)
	if err != nil {
		return 0, &ParseError{Field: "PM2_5Value", Err: err}
	}
	return pm, nil
}

func fahrenheitToCelsius(f float64) float64 {
	return (f - 32) * 5 / 9
}
