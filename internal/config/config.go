// Package config loads and validates the service configuration from
// configs/config.yml, with AQM_-prefixed environment overrides.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"purpleair_monitor/internal/aqi"
	"purpleair_monitor/internal/purpleair"
)

// ReportMode selects which value of the reading the API surfaces as the
// headline number. It does not affect the internal model.
type ReportMode string

const (
	ReportAQI     ReportMode = "aqi"
	ReportDensity ReportMode = "density"
)

const defaultUpdateInterval = 5 * time.Minute

// SensorConfig describes the single sensor this instance polls.
type SensorConfig struct {
	ID      string
	ReadKey string
	APIKey  string
	// LocalIP, when set, always wins over the cloud source.
	LocalIP        string
	Average        purpleair.Window
	Conversion     aqi.Conversion
	UpdateInterval time.Duration
	Report         ReportMode
}

// Config is the full immutable service configuration.
type Config struct {
	Port       string
	LogLevel   string
	DBPath     string
	SigningKey string
	Sensor     SensorConfig
}

// Load reads configs/config.yml relative to path (the working directory when
// empty), applies env overrides, and validates.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = "configs"
	}
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetEnvPrefix("AQM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	window, err := purpleair.ParseWindow(v.GetString("sensor.average"))
	if err != nil {
		return nil, err
	}
	conv, err := aqi.ParseConversion(v.GetString("sensor.conversion"))
	if err != nil {
		return nil, err
	}
	report, err := parseReport(v.GetString("sensor.report"))
	if err != nil {
		return nil, err
	}

	interval := v.GetDuration("sensor.update_interval")
	if interval <= 0 {
		interval = defaultUpdateInterval
	}

	cfg := &Config{
		Port:       v.GetString("port"),
		LogLevel:   v.GetString("log_level"),
		DBPath:     v.GetString("db.path"),
		SigningKey: v.GetString("auth.signing_key"),
		Sensor: SensorConfig{
			ID:             v.GetString("sensor.id"),
			ReadKey:        v.GetString("sensor.read_key"),
			APIKey:         v.GetString("sensor.api_key"),
			LocalIP:        v.GetString("sensor.local_ip"),
			Average:        window,
			Conversion:     conv,
			UpdateInterval: interval,
			Report:         report,
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseReport(s string) (ReportMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "aqi":
		return ReportAQI, nil
	case "density":
		return ReportDensity, nil
	}
	return "", fmt.Errorf("unknown report mode %q (want aqi or density)", s)
}

func (c *Config) validate() error {
	// The cloud source needs a sensor id; a local device is addressed by IP
	// alone.
	if c.Sensor.LocalIP == "" && c.Sensor.ID == "" {
		return errors.New("sensor.id is required unless sensor.local_ip is set")
	}
	if c.SigningKey == "" {
		return errors.New("auth.signing_key is required")
	}
	return nil
}
