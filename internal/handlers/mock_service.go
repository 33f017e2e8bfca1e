package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"purpleair_monitor/internal/config"
	"purpleair_monitor/internal/models"
	"purpleair_monitor/internal/service"
)

// ---- Service mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastParseToken string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	return m.signUpID, m.signUpErr
}

func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	return m.genTokenToken, m.genTokenErr
}

func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockAirQuality struct {
	mu      sync.Mutex
	reading *models.SensorReading
	active  bool

	isActiveCalls int
	refreshCalls  int
	subscribers   []func(*models.SensorReading)
}

func (m *mockAirQuality) LastReading() *models.SensorReading {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reading
}

func (m *mockAirQuality) IsActive(now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isActiveCalls++
	return m.active
}

func (m *mockAirQuality) Refresh() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshCalls++
}

func (m *mockAirQuality) Subscribe(fn func(*models.SensorReading)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
	return func() {}
}

// notify invokes every registered subscriber, as the engine would on poll
// completion.
func (m *mockAirQuality) notify(r *models.SensorReading) {
	m.mu.Lock()
	subs := append([]func(*models.SensorReading){}, m.subscribers...)
	m.mu.Unlock()
	for _, fn := range subs {
		fn(r)
	}
}

func (m *mockAirQuality) subscriberCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subscribers)
}

type mockEventLog struct {
	events  []models.PollEvent
	listErr error

	lastFilter service.LogFilter
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.PollEvent, error) {
	m.lastFilter = f
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.events, nil
}

// ---- Test helpers ----

func newTestRouter(s *service.Service, report config.ReportMode) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewHandler(s, report, nil).InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+token)
	return h
}
