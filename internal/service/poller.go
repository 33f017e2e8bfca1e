package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"purpleair_monitor/internal/config"
	"purpleair_monitor/internal/logger"
	"purpleair_monitor/internal/metrics"
	"purpleair_monitor/internal/models"
	"purpleair_monitor/internal/purpleair"
	"purpleair_monitor/internal/repository"
)

// minPollSpacing is the floor between two fetches regardless of the
// configured interval or how often on-demand refreshes arrive. Not
// configurable.
const minPollSpacing = 30 * time.Second

// Fetcher is the data-source dependency of the engine, satisfied by
// *purpleair.Client in production and by fakes in tests.
type Fetcher interface {
	Fetch(ctx context.Context, src purpleair.Source) (purpleair.Payload, error)
	URL(src purpleair.Source) string
}

// Engine owns the poll loop and the single-slot reading cache. It is the
// only writer of the cache; readers take immutable snapshots.
type Engine struct {
	cfg     config.SensorConfig
	fetcher Fetcher
	events  repository.EventRepo
	gauges  *metrics.AirGauges
	log     *logger.Logger

	// inFlight serializes attempts: a tick or refresh arriving while an
	// attempt is running observes the skip instead of queueing.
	inFlight sync.Mutex

	mu   sync.RWMutex
	last *models.SensorReading

	subsMu  sync.Mutex
	subs    map[int]func(*models.SensorReading)
	nextSub int

	// failing tracks a run of failed attempts, guarded by inFlight.
	failing bool

	refresh chan struct{}
}

func NewEngine(cfg config.SensorConfig, fetcher Fetcher, events repository.EventRepo, gauges *metrics.AirGauges, log *logger.Logger) *Engine {
	return &Engine{
		cfg:     cfg,
		fetcher: fetcher,
		events:  events,
		gauges:  gauges,
		log:     log,
		subs:    make(map[int]func(*models.SensorReading)),
		refresh: make(chan struct{}, 1),
	}
}

// Run fires an immediate first attempt, then polls at the configured
// interval until ctx is canceled. On-demand refresh requests are drained on
// the same goroutine so that attempts stay serialized.
func (e *Engine) Run(ctx context.Context) {
	e.appendEvent(ctx, models.PollEvent{
		Type:        models.EventEngineStart,
		Description: "poll engine started",
		Metadata: map[string]any{
			"sensor_id":       e.cfg.ID,
			"local_ip":        e.cfg.LocalIP,
			"update_interval": e.cfg.UpdateInterval.String(),
		},
	})

	e.poll(ctx)

	t := time.NewTicker(e.cfg.UpdateInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			e.poll(ctx)
		case <-e.refresh:
			e.poll(ctx)
		}
	}
}

// poll performs one rate-guarded attempt. Failures never stop the loop.
func (e *Engine) poll(ctx context.Context) {
	if !e.inFlight.TryLock() {
		e.log.Debugw("poll_skipped_in_flight", "sensor_id", e.cfg.ID)
		return
	}
	defer e.inFlight.Unlock()

	if last := e.LastReading(); last != nil {
		if elapsed := time.Since(last.UpdatedAt); elapsed < minPollSpacing {
			e.log.Debugw("poll_skipped_rate_guard", "sensor_id", e.cfg.ID, "elapsed", elapsed, "floor", minPollSpacing)
			return
		}
	}

	src := e.source()
	payload, err := e.fetcher.Fetch(ctx, src)
	if err != nil {
		e.fail(ctx, src, err)
		return
	}
	reading, err := purpleair.Normalize(payload, e.cfg.Average, e.cfg.Conversion, time.Now().UTC())
	if err != nil {
		e.fail(ctx, src, err)
		return
	}

	e.store(&reading)
	if e.gauges != nil {
		e.gauges.Observe(e.sensorLabel(), reading)
	}
	if e.failing {
		e.failing = false
		e.appendEvent(ctx, models.PollEvent{
			Type:        models.EventRecovered,
			Description: "sensor reading recovered after failures",
		})
	}
	e.notify(&reading)
	e.log.Infow("reading_updated",
		"sensor_id", e.cfg.ID,
		"pm2_5", reading.PM25,
		"aqi", reading.AQI,
		"category", reading.Category,
		"humidity", reading.Humidity,
	)
}

// fail clears the cache so freshness queries go false, records the failure,
// and leaves the timer running.
func (e *Engine) fail(ctx context.Context, src purpleair.Source, err error) {
	e.store(nil)
	if e.gauges != nil {
		e.gauges.Clear(e.sensorLabel())
	}
	e.failing = true

	url := e.fetcher.URL(src)
	eventType := models.EventFetchError
	meta := map[string]any{"url": url, "error": err.Error()}

	var ferr *purpleair.FetchError
	var perr *purpleair.ParseError
	switch {
	case errors.As(err, &ferr):
		meta["kind"] = string(ferr.Kind)
		if ferr.Kind == purpleair.FetchHTTPStatus {
			meta["status"] = ferr.Status
			meta["body"] = ferr.Body
		}
	case errors.As(err, &perr):
		eventType = models.EventParseError
		meta["field"] = perr.Field
	}

	e.appendEvent(ctx, models.PollEvent{
		Type:        eventType,
		Description: "poll attempt failed",
		Metadata:    meta,
	})
	e.notify(nil)
	e.log.Errorw("poll_failed", "sensor_id", e.cfg.ID, "url", url, "err", err)
}

func (e *Engine) source() purpleair.Source {
	return purpleair.Source{
		SensorID: e.cfg.ID,
		ReadKey:  e.cfg.ReadKey,
		APIKey:   e.cfg.APIKey,
		LocalIP:  e.cfg.LocalIP,
	}
}

// sensorLabel identifies the sensor in metrics, falling back to the local
// address for cloud-less configs.
func (e *Engine) sensorLabel() string {
	if e.cfg.ID != "" {
		return e.cfg.ID
	}
	return e.cfg.LocalIP
}

func (e *Engine) appendEvent(ctx context.Context, ev models.PollEvent) {
	if e.events == nil {
		return
	}
	if err := e.events.Append(ctx, ev); err != nil {
		e.log.Warnw("event_append_failed", "type", ev.Type, "err", err)
	}
}
