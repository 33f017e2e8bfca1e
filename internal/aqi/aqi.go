// Package aqi converts raw PM2.5 mass density (µg/m³) into the EPA Air
// Quality Index and a small ordinal category scale. All functions are pure.
package aqi

import (
	"fmt"
	"math"
	"strings"
)

// Conversion selects the correction curve applied to a raw density value
// before AQI mapping. AQandU and LRAPA are field-calibration formulas for
// PurpleAir hardware.
type Conversion string

const (
	ConversionNone   Conversion = "none"
	ConversionAQandU Conversion = "AQandU"
	ConversionLRAPA  Conversion = "LRAPA"
)

// ParseConversion matches a config string case-insensitively.
func ParseConversion(s string) (Conversion, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return ConversionNone, nil
	case "aqandu":
		return ConversionAQandU, nil
	case "lrapa":
		return ConversionLRAPA, nil
	}
	return "", fmt.Errorf("unknown conversion formula %q (want none, AQandU, or LRAPA)", s)
}

// Level is the 1..5 ordinal air-quality category reported to consumers.
// Zero means the quality is unknown (no reading, or garbage input).
type Level int

const (
	LevelUnknown   Level = 0
	LevelExcellent Level = 1
	LevelGood      Level = 2
	LevelFair      Level = 3
	LevelInferior  Level = 4
	LevelPoor      Level = 5
)

// CorrectDensity applies the selected correction formula to a raw PM2.5
// density. The result is never negative.
func CorrectDensity(raw float64, f Conversion) float64 {
	var pm float64
	switch f {
	case ConversionAQandU:
		pm = 0.778*raw + 2.65
	case ConversionLRAPA:
		pm = 0.5*raw - 0.66
	default:
		pm = raw
	}
	if pm < 0 {
		return 0
	}
	return pm
}

// breakpoint is one row of the EPA PM2.5 table: densities in
// [ConcLow, ConcHigh] map linearly onto [AQILow, AQIHigh].
type breakpoint struct {
	ConcLow, ConcHigh float64
	AQILow, AQIHigh   float64
}

// EPA 2012 PM2.5 breakpoints, ordered ascending.
var breakpoints = [...]breakpoint{
	{0.0, 12.0, 0, 50},
	{12.1, 35.4, 51, 100},
	{35.5, 55.4, 101, 150},
	{55.5, 150.4, 151, 200},
	{150.5, 250.4, 201, 300},
	{250.5, 350.4, 301, 400},
	{350.5, 500.4, 401, 500},
}

// FromDensity maps a corrected PM2.5 density onto the AQI scale via
// piecewise-linear interpolation. Inputs below the table floor are clamped to
// zero; inputs above the top bracket extrapolate along the top bracket's
// slope, so the result is finite and non-decreasing for any finite input.
func FromDensity(pm25 float64) float64 {
	if math.IsNaN(pm25) || pm25 <= 0 {
		return 0
	}
	bp := breakpoints[len(breakpoints)-1]
	for _, b := range breakpoints {
		if pm25 <= b.ConcHigh {
			bp = b
			break
		}
	}
	aqi := (bp.AQIHigh-bp.AQILow)/(bp.ConcHigh-bp.ConcLow)*(pm25-bp.ConcLow) + bp.AQILow
	if aqi < 0 {
		return 0
	}
	return aqi
}

// Category maps an AQI value to its ordinal level. Negative or NaN input
// should not occur given the density floor in FromDensity, but maps to
// LevelUnknown rather than a bogus category.
func Category(aqi float64) Level {
	switch {
	case math.IsNaN(aqi) || aqi < 0:
		return LevelUnknown
	case aqi <= 50:
		return LevelExcellent
	case aqi <= 100:
		return LevelGood
	case aqi <= 150:
		return LevelFair
	case aqi <= 200:
		return LevelInferior
	default:
		return LevelPoor
	}
}
