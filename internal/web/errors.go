// Copyright (C) 2024 The Dagu Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package web

import (
	"errors"
	"net/http"

	"github.com/gardenwatch/timerflow/internal/daytime"
	"github.com/gardenwatch/timerflow/internal/timer"
	"github.com/gardenwatch/timerflow/internal/timerstore"
)

// errBadRequest wraps a client input error with an explicit message,
// distinguishing "you sent something invalid" from an internal failure.
type errBadRequest struct{ msg string }

func (e *errBadRequest) Error() string { return e.msg }

func badRequest(msg string) error { return &errBadRequest{msg: msg} }

// errTimerHasID mirrors the original's explicit 403 ("Timer cannot be
// posted with an ID, it will be automatically assigned") rather than
// folding it into the generic 400 bad-request case.
var errTimerHasID = errors.New("timer must not carry an id; one is assigned automatically")

// writeError maps a domain error to the appropriate HTTP status and
// writes a JSON error body.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errTimerHasID):
		writeJSONStatus(w, http.StatusForbidden, map[string]string{"error": err.Error()})
	case errors.Is(err, timerstore.ErrNotFound):
		writeJSONStatus(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, timerstore.ErrConflict):
		writeJSONStatus(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, timer.ErrInvalidName):
		writeJSONStatus(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case isValidationError(err):
		writeJSONStatus(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case isBadRequest(err):
		writeJSONStatus(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		writeJSONStatus(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func isBadRequest(err error) bool {
	var e *errBadRequest
	return errors.As(err, &e)
}

func isValidationError(err error) bool {
	var e *daytime.ValidationError
	return errors.As(err, &e)
}
