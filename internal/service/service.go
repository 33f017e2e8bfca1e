package service

import (
	"context"
	"time"

	"purpleair_monitor/internal/config"
	"purpleair_monitor/internal/logger"
	"purpleair_monitor/internal/metrics"
	"purpleair_monitor/internal/models"
	"purpleair_monitor/internal/purpleair"
	"purpleair_monitor/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// AirQuality exposes the cached reading to consumers. None of these calls
// block on network I/O: queries read the last snapshot and at most schedule
// an opportunistic refresh.
type AirQuality interface {
	// LastReading returns the latest reading, or nil when the last attempt
	// failed or no attempt has completed yet.
	LastReading() *models.SensorReading
	// IsActive reports whether the cached reading is still fresh at now,
	// and schedules an opportunistic refresh as a side effect.
	IsActive(now time.Time) bool
	// Refresh requests an on-demand poll, subject to the rate guard.
	Refresh()
	// Subscribe registers a callback invoked on every poll completion with
	// the new reading, or nil when the cache was cleared. The returned
	// function unsubscribes.
	Subscribe(fn func(*models.SensorReading)) (unsubscribe func())
}

// EventLog exposes the poll diagnostics log with filtering.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.PollEvent, error)
}

// Poller runs the recurring poll loop. Stop via context cancellation in
// main() for graceful shutdown.
type Poller interface {
	Run(ctx context.Context)
}

// Service aggregates all sub-services. The Engine backs both the Poller and
// AirQuality facets.
type Service struct {
	AirQuality
	EventLog
	Poller
	Authorization
}

// NewService wires config and repositories into concrete services. gauges
// may be nil when metrics are disabled (tests).
func NewService(cfg *config.Config, repos *repository.Repository, gauges *metrics.AirGauges, log *logger.Logger) *Service {
	engine := NewEngine(cfg.Sensor, purpleair.NewClient("", nil), repos.Events, gauges, log)
	return &Service{
		AirQuality:    engine,
		Poller:        engine,
		EventLog:      NewEventLogService(repos.Events),
		Authorization: NewAuthService(repos.Auth, cfg.SigningKey),
	}
}
