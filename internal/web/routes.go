// Copyright (C) 2024 The Dagu Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(withRequestID(s.log))
	r.Use(permissiveCORS())

	protect := func(h http.HandlerFunc) http.HandlerFunc {
		if s.basicAuthUsername == "" && s.basicAuthPassword == "" {
			return h
		}
		return basicAuth(s.basicAuthUsername, s.basicAuthPassword, h).ServeHTTP
	}

	r.Get("/api/v1/healthcheck", handleHealthcheck)

	r.Get("/api/v1/timers", protect(s.handleListTimers))
	r.Post("/api/v1/timers", protect(s.handleCreateTimer))
	r.Put("/api/v1/timers/{id}", protect(s.handleUpdateTimer))
	r.Delete("/api/v1/timers/{id}", protect(s.handleDeleteTimer))

	r.Get("/api/v1/schedule", protect(s.handleSchedule))
	r.Post("/api/v1/stop", protect(s.handleStop))

	return r
}
