// Copyright (C) 2024 The Dagu Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gardenwatch/timerflow/internal/logger"
	"github.com/gardenwatch/timerflow/internal/timerstore"
)

// handleHealthcheck mirrors timeventx's GET /api/v1/healthcheck.
func handleHealthcheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, true)
}

func (s *Server) handleListTimers(w http.ResponseWriter, r *http.Request) {
	timers := s.store.Iter()
	dtos := make([]timerDTO, 0, len(timers))
	for _, t := range timers {
		dtos = append(dtos, timerToDTO(t))
	}
	writeJSON(w, dtos)
}

func (s *Server) handleCreateTimer(w http.ResponseWriter, r *http.Request) {
	var dto timerDTO
	if err := decodeJSON(r, &dto); err != nil {
		writeError(w, err)
		return
	}
	if dto.ID != nil {
		writeError(w, errTimerHasID)
		return
	}
	t, err := dto.toTimer()
	if err != nil {
		writeError(w, err)
		return
	}
	added, err := s.store.Add(t)
	if err != nil {
		writeError(w, err)
		return
	}
	logger.FromContext(r.Context()).Info("timer created", "timer", added.String())
	writeJSONStatus(w, http.StatusCreated, timerToDTO(added))
}

func (s *Server) handleUpdateTimer(w http.ResponseWriter, r *http.Request) {
	id, err := timerIDFromPath(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var dto timerDTO
	if err := decodeJSON(r, &dto); err != nil {
		writeError(w, err)
		return
	}
	newTimer, err := dto.toTimer()
	if err != nil {
		writeError(w, err)
		return
	}

	if _, err := s.store.Get(id); err != nil {
		writeError(w, err)
		return
	}
	if _, err := s.store.Remove(id); err != nil {
		writeError(w, err)
		return
	}
	updated, err := s.store.AddWithID(newTimer, id)
	if err != nil {
		writeError(w, err)
		return
	}
	logger.FromContext(r.Context()).Info("timer updated", "timer", updated.String())
	writeJSONStatus(w, http.StatusCreated, timerToDTO(updated))
}

func (s *Server) handleDeleteTimer(w http.ResponseWriter, r *http.Request) {
	id, err := timerIDFromPath(r)
	if err != nil {
		writeError(w, err)
		return
	}
	removed, err := s.store.Remove(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !removed {
		writeError(w, timerstore.ErrNotFound)
		return
	}
	logger.FromContext(r.Context()).Info("timer removed", "id", id)
	writeJSON(w, true)
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	intervals := s.runner.OnOffIntervals()
	dtos := make([]intervalDTO, 0, len(intervals))
	for _, iv := range intervals {
		dtos = append(dtos, intervalDTO{StartTime: iv.Start.String(), EndTime: iv.End.String()})
	}
	isOn, err := s.runner.IsOn()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, scheduleDTO{Intervals: dtos, IsOn: isOn})
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	logger.FromContext(r.Context()).Info("stop requested via HTTP")
	s.runner.RequestStop()
	writeJSONStatus(w, http.StatusAccepted, map[string]string{"status": "stopping"})
}

func timerIDFromPath(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest("invalid timer id " + strconv.Quote(raw))
	}
	return id, nil
}
