// Copyright (C) 2024 The Dagu Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardenwatch/timerflow/internal/action"
	"github.com/gardenwatch/timerflow/internal/daytime"
	"github.com/gardenwatch/timerflow/internal/runner"
	"github.com/gardenwatch/timerflow/internal/timer"
	"github.com/gardenwatch/timerflow/internal/timerstore"
)

func newTestServer(t *testing.T, cfg Config) (*Server, *timerstore.Listenable) {
	t.Helper()
	store := timerstore.NewListenable(timerstore.NewMemoryStore())
	clock := func() (daytime.DayTime, error) { return daytime.MustNew(12, 0, 0), nil }
	r := runner.New(store, action.NoopController{}, clock, runner.WithMinPollPeriod(time.Hour))
	return NewServer(cfg, store, r, nil), store
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthcheck(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	rec := doJSON(t, s.routes(), http.MethodGet, "/api/v1/healthcheck", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "true", rec.Body.String())
}

func TestListTimers_EmptyStore(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	rec := doJSON(t, s.routes(), http.MethodGet, "/api/v1/timers", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestCreateTimer_Succeeds(t *testing.T) {
	s, store := newTestServer(t, Config{})
	rec := doJSON(t, s.routes(), http.MethodPost, "/api/v1/timers", timerDTO{
		Name:      "lights",
		StartTime: "08:00:00",
		Duration:  3600,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var got timerDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "lights", got.Name)
	assert.Equal(t, "08:00:00", got.StartTime)
	require.NotNil(t, got.ID)
	assert.Equal(t, 1, store.Len())
}

func TestCreateTimer_RejectsBodyWithID(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	id := 5
	rec := doJSON(t, s.routes(), http.MethodPost, "/api/v1/timers", timerDTO{
		ID:        &id,
		Name:      "lights",
		StartTime: "08:00:00",
		Duration:  3600,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateTimer_RejectsInvalidStartTime(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	rec := doJSON(t, s.routes(), http.MethodPost, "/api/v1/timers", timerDTO{
		Name:      "lights",
		StartTime: "not-a-time",
		Duration:  3600,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTimer_RejectsEmptyName(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	rec := doJSON(t, s.routes(), http.MethodPost, "/api/v1/timers", timerDTO{
		StartTime: "08:00:00",
		Duration:  3600,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateTimer_ReplacesPreservingID(t *testing.T) {
	s, store := newTestServer(t, Config{})
	tm, err := timer.New("lights", daytime.MustNew(8, 0, 0), mustDur(t, time.Hour))
	require.NoError(t, err)
	added, err := store.Add(tm)
	require.NoError(t, err)

	rec := doJSON(t, s.routes(), http.MethodPut, "/api/v1/timers/"+strconv.Itoa(added.ID()), timerDTO{
		Name:      "lights-renamed",
		StartTime: "09:00:00",
		Duration:  1800,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	stored, err := store.Get(added.ID())
	require.NoError(t, err)
	assert.Equal(t, "lights-renamed", stored.Name())
	assert.Equal(t, added.ID(), stored.ID())
}

func TestUpdateTimer_UnknownIDReturnsNotFound(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	rec := doJSON(t, s.routes(), http.MethodPut, "/api/v1/timers/42", timerDTO{
		Name:      "lights",
		StartTime: "09:00:00",
		Duration:  1800,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteTimer_RemovesAndReturnsTrue(t *testing.T) {
	s, store := newTestServer(t, Config{})
	tm, err := timer.New("lights", daytime.MustNew(8, 0, 0), mustDur(t, time.Hour))
	require.NoError(t, err)
	added, err := store.Add(tm)
	require.NoError(t, err)

	rec := doJSON(t, s.routes(), http.MethodDelete, "/api/v1/timers/"+strconv.Itoa(added.ID()), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, store.Len())
}

func TestDeleteTimer_UnknownIDReturnsNotFound(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	rec := doJSON(t, s.routes(), http.MethodDelete, "/api/v1/timers/99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSchedule_ReflectsMergedIntervals(t *testing.T) {
	s, store := newTestServer(t, Config{})
	tm, err := timer.New("lights", daytime.MustNew(8, 0, 0), mustDur(t, time.Hour))
	require.NoError(t, err)
	_, err = store.Add(tm)
	require.NoError(t, err)

	rec := doJSON(t, s.routes(), http.MethodGet, "/api/v1/schedule", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var got scheduleDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Intervals, 1)
	assert.Equal(t, "08:00:00", got.Intervals[0].StartTime)
	assert.Equal(t, "09:00:00", got.Intervals[0].EndTime)
	assert.False(t, got.IsOn)
}

func TestStop_RequestsRunnerStop(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	rec := doJSON(t, s.routes(), http.MethodPost, "/api/v1/stop", nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestBasicAuth_RejectsWrongCredentials(t *testing.T) {
	s, _ := newTestServer(t, Config{BasicAuthUsername: "admin", BasicAuthPassword: "secret"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/timers", nil)
	req.SetBasicAuth("admin", "wrong")
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBasicAuth_AcceptsCorrectCredentials(t *testing.T) {
	s, _ := newTestServer(t, Config{BasicAuthUsername: "admin", BasicAuthPassword: "secret"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/timers", nil)
	req.SetBasicAuth("admin", "secret")
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBasicAuth_NotEnforcedWhenUnconfigured(t *testing.T) {
	s, _ := newTestServer(t, Config{})
	rec := doJSON(t, s.routes(), http.MethodGet, "/api/v1/timers", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func mustDur(t *testing.T, d time.Duration) daytime.Duration {
	t.Helper()
	dur, err := daytime.NewDuration(d)
	require.NoError(t, err)
	return dur
}
