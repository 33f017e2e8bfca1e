package service

import (
	"time"

	"purpleair_monitor/internal/models"
)

// LastReading returns an immutable snapshot of the cached reading, or nil
// when there is none. Never blocks on I/O.
func (e *Engine) LastReading() *models.SensorReading {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.last
}

// store atomically replaces the cache slot. The engine is the only writer.
func (e *Engine) store(r *models.SensorReading) {
	e.mu.Lock()
	e.last = r
	e.mu.Unlock()
}

// IsActive reports whether the cached reading is younger than the update
// interval. Probing status also schedules an opportunistic refresh so a
// consumer has a chance at a fresher value without waiting for the next
// tick; the rate guard keeps that from exceeding the spacing floor.
func (e *Engine) IsActive(now time.Time) bool {
	defer e.Refresh()

	r := e.LastReading()
	active := r.Fresh(now, e.cfg.UpdateInterval)
	if e.gauges != nil {
		e.gauges.SetFresh(e.sensorLabel(), active)
	}
	return active
}

// Refresh requests an on-demand poll without blocking. When a request is
// already pending the extra one is dropped; at most one fetch proceeds and
// concurrent callers observe the skip.
func (e *Engine) Refresh() {
	select {
	case e.refresh <- struct{}{}:
	default:
	}
}

// Subscribe registers a poll-completion callback (reading, or nil when the
// cache was cleared). Callbacks run on the poll goroutine and must not
// block.
func (e *Engine) Subscribe(fn func(*models.SensorReading)) (unsubscribe func()) {
	e.subsMu.Lock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	e.subsMu.Unlock()

	return func() {
		e.subsMu.Lock()
		delete(e.subs, id)
		e.subsMu.Unlock()
	}
}

func (e *Engine) notify(r *models.SensorReading) {
	e.subsMu.Lock()
	fns := make([]func(*models.SensorReading), 0, len(e.subs))
	for _, fn := range e.subs {
		fns = append(fns, fn)
	}
	e.subsMu.Unlock()

	for _, fn := range fns {
		fn(r)
	}
}
