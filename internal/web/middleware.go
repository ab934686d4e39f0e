// Copyright (C) 2024 The Dagu Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package web

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/gardenwatch/timerflow/internal/logger"
)

// basicAuth wraps next with HTTP basic auth, comparing credentials by
// hash under constant time so timing cannot leak how many characters
// matched.
//
// Grounded on the teacher's internal/admin/basicauth.go.
func basicAuth(expectedUsername, expectedPassword string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if ok {
			usernameHash := sha256.Sum256([]byte(username))
			passwordHash := sha256.Sum256([]byte(password))
			expectedUsernameHash := sha256.Sum256([]byte(expectedUsername))
			expectedPasswordHash := sha256.Sum256([]byte(expectedPassword))
			usernameMatch := subtle.ConstantTimeCompare(usernameHash[:], expectedUsernameHash[:]) == 1
			passwordMatch := subtle.ConstantTimeCompare(passwordHash[:], expectedPasswordHash[:]) == 1
			if usernameMatch && passwordMatch {
				next.ServeHTTP(w, r)
				return
			}
		}
		w.Header().Set("WWW-Authenticate", `Basic realm="timerflow", charset="UTF-8"`)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	})
}

// permissiveCORS matches the original's microdot_cors configuration
// (allow any origin, allow credentials) — this service has no browser
// session/cookie state, only basic auth, so a permissive origin policy
// does not widen the actual attack surface.
func permissiveCORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

type requestIDKey struct{}

// withRequestID assigns every request a uuid, attaches a logger carrying
// it to the request context, and logs completion with status and
// latency. Grounded on the teacher's _before_request/_after_request
// hooks in web_server.py and on NewServer's requestLogger.
func withRequestID(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := uuid.NewString()
			reqLog := log.With("request_id", id, "method", r.Method, "path", r.URL.Path)
			ctx := logger.WithLogger(r.Context(), reqLog)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			reqLog.Debug("request started")
			next.ServeHTTP(rec, r.WithContext(ctx))
			reqLog.Info("request completed", "status", rec.status, "duration", time.Since(start).String())
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
