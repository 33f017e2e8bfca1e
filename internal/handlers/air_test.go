package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"purpleair_monitor/internal/aqi"
	"purpleair_monitor/internal/config"
	"purpleair_monitor/internal/models"
	"purpleair_monitor/internal/service"
)

func doRequest(r http.Handler, method, target string, header http.Header) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	for k, vv := range header {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	r.ServeHTTP(w, req)
	return w
}

func testReading() *models.SensorReading {
	temp := 21.0
	return &models.SensorReading{
		UpdatedAt:   time.Now().UTC(),
		PM25:        12.3,
		AQI:         51.4,
		Category:    aqi.LevelGood,
		Temperature: &temp,
		Humidity:    45,
	}
}

func TestAirHandlers_RequireAuth(t *testing.T) {
	s := &service.Service{
		Authorization: &mockAuth{parseErr: service.ErrInvalidToken},
		AirQuality:    &mockAirQuality{},
	}
	r := newTestRouter(s, config.ReportAQI)

	for _, target := range []string{"/api/v1/air/reading", "/api/v1/air/status"} {
		w := doRequest(r, http.MethodGet, target, nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s without auth: status = %d, want 401", target, w.Code)
		}
	}
}

func TestGetReading_ReportsAQI(t *testing.T) {
	air := &mockAirQuality{reading: testReading(), active: true}
	s := &service.Service{
		Authorization: &mockAuth{parseID: 7},
		AirQuality:    air,
	}
	r := newTestRouter(s, config.ReportAQI)

	w := doRequest(r, http.MethodGet, "/api/v1/air/reading", authHeader("valid"))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Reading  models.SensorReading `json:"reading"`
		Reported float64              `json:"reported"`
		Active   bool                 `json:"active"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Reported != 51.4 {
		t.Errorf("reported = %v, want AQI 51.4", resp.Reported)
	}
	if !resp.Active {
		t.Errorf("active = false, want true")
	}
	if resp.Reading.Humidity != 45 {
		t.Errorf("reading.humidity = %v", resp.Reading.Humidity)
	}
}

func TestGetReading_ReportsDensity(t *testing.T) {
	s := &service.Service{
		Authorization: &mockAuth{parseID: 7},
		AirQuality:    &mockAirQuality{reading: testReading(), active: true},
	}
	r := newTestRouter(s, config.ReportDensity)

	w := doRequest(r, http.MethodGet, "/api/v1/air/reading", authHeader("valid"))
	var resp struct {
		Reported float64 `json:"reported"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Reported != 12.3 {
		t.Errorf("reported = %v, want PM2.5 12.3", resp.Reported)
	}
}

func TestGetReading_NoReading(t *testing.T) {
	s := &service.Service{
		Authorization: &mockAuth{parseID: 7},
		AirQuality:    &mockAirQuality{},
	}
	r := newTestRouter(s, config.ReportAQI)

	w := doRequest(r, http.MethodGet, "/api/v1/air/reading", authHeader("valid"))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestGetStatus(t *testing.T) {
	air := &mockAirQuality{reading: testReading(), active: true}
	s := &service.Service{
		Authorization: &mockAuth{parseID: 7},
		AirQuality:    air,
	}
	r := newTestRouter(s, config.ReportAQI)

	w := doRequest(r, http.MethodGet, "/api/v1/air/status", authHeader("valid"))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Active      bool       `json:"active"`
		LastUpdated *time.Time `json:"last_updated"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Active || resp.LastUpdated == nil {
		t.Fatalf("unexpected status response: %s", w.Body.String())
	}
	if air.isActiveCalls != 1 {
		t.Fatalf("IsActive calls = %d, want 1", air.isActiveCalls)
	}
}

func TestGetStatus_NoReadingOmitsTimestamp(t *testing.T) {
	s := &service.Service{
		Authorization: &mockAuth{parseID: 7},
		AirQuality:    &mockAirQuality{},
	}
	r := newTestRouter(s, config.ReportAQI)

	w := doRequest(r, http.MethodGet, "/api/v1/air/status", authHeader("valid"))
	var resp map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["active"] != false {
		t.Errorf("active = %v, want false", resp["active"])
	}
	if _, ok := resp["last_updated"]; ok {
		t.Errorf("last_updated present without a reading")
	}
}

func TestPostRefresh(t *testing.T) {
	air := &mockAirQuality{}
	s := &service.Service{
		Authorization: &mockAuth{parseID: 7},
		AirQuality:    air,
	}
	r := newTestRouter(s, config.ReportAQI)

	w := doRequest(r, http.MethodPost, "/api/v1/air/refresh", authHeader("valid"))
	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", w.Code)
	}
	if air.refreshCalls != 1 {
		t.Fatalf("Refresh calls = %d, want 1", air.refreshCalls)
	}
}
