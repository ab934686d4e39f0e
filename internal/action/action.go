// Copyright (C) 2024 The Dagu Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package action provides the runner's two opaque asynchronous
// side-effect callbacks (spec.md §6): turning the actuator on and off.
// Implementations are selected explicitly by the caller — there is no
// package-level global controller, unlike the original's
// set_global_action_controller/get_global_action_controller indirection
// (see spec.md §9's "Global state" design note).
//
// Grounded on original_source/backend/garden_water/actions/actions.py
// (the ActionController contract) and
// original_source/backend/timeventx/actions/noop.py (NoopActionController).
package action

import (
	"context"
	"fmt"

	"github.com/gardenwatch/timerflow/internal/logger"
)

// Controller turns the actuator on and off. Implementations must be
// safely re-entrant: the runner never calls the same method twice in a
// row without an intervening call to the other, but a call may still
// race with process shutdown.
type Controller interface {
	On(ctx context.Context) error
	Off(ctx context.Context) error
}

// NewController resolves name (a Config.ActionModule value) to a
// concrete Controller. Unknown names return an error rather than
// silently falling back to noop, so a misconfigured deployment fails
// fast at startup instead of silently never actuating anything. log is
// only consulted by the "logging" module and may be nil otherwise.
func NewController(name string, log logger.Logger) (Controller, error) {
	switch name {
	case "", "noop":
		return NoopController{}, nil
	case "logging":
		return NewLoggingController(log), nil
	default:
		return nil, fmt.Errorf("action: unknown action module %q", name)
	}
}
