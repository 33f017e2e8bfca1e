package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"purpleair_monitor/internal/aqi"
	"purpleair_monitor/internal/purpleair"
)

func writeConfig(t *testing.T, yml string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte(yml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func TestLoad_FullConfig(t *testing.T) {
	dir := writeConfig(t, `
port: "8080"
log_level: info
db:
  path: app.db
auth:
  signing_key: secret
sensor:
  id: "12345"
  read_key: rk
  api_key: ak
  average: 10m
  conversion: AQandU
  update_interval: 5m
  report: density
`)
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Sensor.ID != "12345" || cfg.Sensor.ReadKey != "rk" || cfg.Sensor.APIKey != "ak" {
		t.Fatalf("sensor identity not loaded: %+v", cfg.Sensor)
	}
	if cfg.Sensor.Average != purpleair.Window10m {
		t.Errorf("Average = %v, want 10m", cfg.Sensor.Average)
	}
	if cfg.Sensor.Conversion != aqi.ConversionAQandU {
		t.Errorf("Conversion = %v, want AQandU", cfg.Sensor.Conversion)
	}
	if cfg.Sensor.UpdateInterval != 5*time.Minute {
		t.Errorf("UpdateInterval = %v, want 5m", cfg.Sensor.UpdateInterval)
	}
	if cfg.Sensor.Report != ReportDensity {
		t.Errorf("Report = %v, want density", cfg.Sensor.Report)
	}
}

func TestLoad_Defaults(t *testing.T) {
	dir := writeConfig(t, `
auth:
  signing_key: secret
sensor:
  id: "12345"
`)
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Sensor.UpdateInterval != defaultUpdateInterval {
		t.Errorf("UpdateInterval = %v, want default %v", cfg.Sensor.UpdateInterval, defaultUpdateInterval)
	}
	if cfg.Sensor.Average != purpleair.WindowRealtime {
		t.Errorf("Average = %v, want realtime", cfg.Sensor.Average)
	}
	if cfg.Sensor.Conversion != aqi.ConversionNone {
		t.Errorf("Conversion = %v, want none", cfg.Sensor.Conversion)
	}
	if cfg.Sensor.Report != ReportAQI {
		t.Errorf("Report = %v, want aqi", cfg.Sensor.Report)
	}
}

func TestLoad_LocalIPWithoutSensorID(t *testing.T) {
	dir := writeConfig(t, `
auth:
  signing_key: secret
sensor:
  local_ip: 192.168.1.50
`)
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Sensor.LocalIP != "192.168.1.50" {
		t.Fatalf("LocalIP = %q", cfg.Sensor.LocalIP)
	}
}

func TestLoad_MissingSensorID(t *testing.T) {
	dir := writeConfig(t, `
auth:
  signing_key: secret
sensor:
  average: realtime
`)
	if _, err := Load(dir); err == nil {
		t.Fatalf("expected validation error for missing sensor.id")
	}
}

func TestLoad_BadConversion(t *testing.T) {
	dir := writeConfig(t, `
auth:
  signing_key: secret
sensor:
  id: "12345"
  conversion: woodsmoke
`)
	if _, err := Load(dir); err == nil {
		t.Fatalf("expected error for unknown conversion")
	}
}
