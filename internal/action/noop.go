// Copyright (C) 2024 The Dagu Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package action

import "context"

// NoopController performs no side effect. Useful in tests and for
// dry-run deployments where the runner's scheduling decisions matter
// but no physical actuator is attached.
type NoopController struct{}

var _ Controller = NoopController{}

func (NoopController) On(context.Context) error  { return nil }
func (NoopController) Off(context.Context) error { return nil }
