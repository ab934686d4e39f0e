// Copyright (C) 2024 The Dagu Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// Command timerflowd runs the timer-scheduled actuator service: an
// HTTP API for managing timers (internal/web) backed by the runner
// state machine (internal/runner) that actually flips the actuator on
// schedule via an internal/action.Controller.
//
// Grounded on the teacher's cmd package: one cobra.Command factory per
// subcommand (serveCmd, timersCmd, versionCmd), a root command that
// just registers them, and config.Load/logger.NewLogger wired at the
// top of each Run func rather than in a shared init.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gardenwatch/timerflow/internal/build"
)

func main() {
	root := &cobra.Command{
		Use:   build.Slug + "d",
		Short: build.AppName + " is a scheduled actuator service.",
		Long:  build.AppName + " runs user-editable daily timers that turn a single actuator on and off.",
	}

	root.AddCommand(serveCmd())
	root.AddCommand(timersCmd())
	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
