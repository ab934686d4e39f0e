// Copyright (C) 2024 The Dagu Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package action

import (
	"context"

	"github.com/gardenwatch/timerflow/internal/logger"
)

// LoggingController implements Controller by logging each transition
// instead of driving real hardware. It has no counterpart in
// original_source — the Python project only ships NoopActionController
// (timeventx/actions/noop.py) — but a deployment without an actuator
// still wants to see transitions happen, so it exists as the
// in-between step between noop and a real GPIO/relay controller.
type LoggingController struct {
	log logger.Logger
}

// NewLoggingController returns a LoggingController that logs through l.
// A nil l falls back to a new logger.NewLogger() with default options.
func NewLoggingController(l logger.Logger) LoggingController {
	if l == nil {
		l = logger.NewLogger()
	}
	return LoggingController{log: l}
}

func (c LoggingController) On(context.Context) error {
	c.log.Info("actuator on")
	return nil
}

func (c LoggingController) Off(context.Context) error {
	c.log.Info("actuator off")
	return nil
}
