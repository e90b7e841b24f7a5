// Coachplan - Training Plan Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coachplan

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

type mockRefresher struct {
	calls atomic.Int32
	err   error
}

func (m *mockRefresher) RefreshPlanStats(_ context.Context) error {
	m.calls.Add(1)
	return m.err
}

func TestStatsRefreshService_Interface(t *testing.T) {
	var _ suture.Service = (*StatsRefreshService)(nil)
}

func TestStatsRefreshService_RefreshOnStartup(t *testing.T) {
	mock := &mockRefresher{}
	svc := NewStatsRefreshService(mock, StatsRefreshConfig{
		RefreshOnStartup: true,
		RefreshInterval:  time.Hour,
	}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}

	if got := mock.calls.Load(); got != 1 {
		t.Errorf("RefreshPlanStats called %d times, want 1", got)
	}
}

func TestStatsRefreshService_PeriodicRefresh(t *testing.T) {
	mock := &mockRefresher{}
	svc := NewStatsRefreshService(mock, StatsRefreshConfig{
		RefreshInterval: 20 * time.Millisecond,
	}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	time.Sleep(150 * time.Millisecond)
	cancel()
	<-done

	if got := mock.calls.Load(); got < 2 {
		t.Errorf("RefreshPlanStats called %d times, want at least 2", got)
	}
}

func TestStatsRefreshService_RefreshErrorDoesNotCrash(t *testing.T) {
	mock := &mockRefresher{err: errors.New("table locked")}
	svc := NewStatsRefreshService(mock, StatsRefreshConfig{
		RefreshOnStartup: true,
		RefreshInterval:  20 * time.Millisecond,
	}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	err := <-done
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled despite refresh errors", err)
	}
	if got := mock.calls.Load(); got < 2 {
		t.Errorf("RefreshPlanStats called %d times, want retries after failure", got)
	}
}

func TestStatsRefreshService_String(t *testing.T) {
	svc := NewStatsRefreshService(&mockRefresher{}, StatsRefreshConfig{}, zerolog.Nop())
	if svc.String() != "stats-refresh" {
		t.Errorf("String() = %q, want stats-refresh", svc.String())
	}
}
