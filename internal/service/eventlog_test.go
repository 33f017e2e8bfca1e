package service

import (
	"context"
	"testing"
	"time"

	"purpleair_monitor/internal/models"
)

func TestEventLogService_List_InvalidRange(t *testing.T) {
	s := NewEventLogService(&fakeEventRepo{})
	_, err := s.List(context.Background(), LogFilter{
		From: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err == nil {
		t.Fatalf("expected error for From > To")
	}
}

func TestEventLogService_List_NormalizesType(t *testing.T) {
	repo := &fakeEventRepo{events: []models.PollEvent{
		{Type: models.EventFetchError, Description: "boom"},
		{Type: models.EventRecovered, Description: "ok"},
	}}
	s := NewEventLogService(repo)

	events, err := s.List(context.Background(), LogFilter{Type: " fetch_error "})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(events) != 1 || events[0].Type != models.EventFetchError {
		t.Fatalf("unexpected events: %+v", events)
	}
}
