// Copyright (C) 2024 The Dagu Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/gardenwatch/timerflow/internal/config"
	"github.com/gardenwatch/timerflow/internal/daytime"
	"github.com/gardenwatch/timerflow/internal/timer"
	"github.com/gardenwatch/timerflow/internal/timerstore"
)

// timersCmd groups offline timer administration against the configured
// store directly, without going through the HTTP API — useful for
// seeding or inspecting a file-backed store before the service starts,
// or for scripting against it from a sidecar. Grounded on the teacher's
// table-rendering idiom in internal/agent/reporter.go.
func timersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timers",
		Short: "Inspect or edit the timer store directly",
	}
	cmd.AddCommand(timersListCmd())
	cmd.AddCommand(timersAddCmd())
	cmd.AddCommand(timersRemoveCmd())
	return cmd
}

func timersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all stored timers",
		Run: func(cmd *cobra.Command, _ []string) {
			store := mustOpenCLIStore(cmd)
			timers := store.Iter()

			t := table.NewWriter()
			t.AppendHeader(table.Row{"ID", "Name", "Start", "End", "Duration"})
			for _, it := range timers {
				t.AppendRow(table.Row{
					it.ID(),
					it.Name(),
					it.StartTime().String(),
					it.EndTime().String(),
					it.Duration().String(),
				})
			}
			fmt.Println(t.Render())
		},
	}
}

func timersAddCmd() *cobra.Command {
	var name, start string
	var durationSeconds int
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a timer to the store",
		Run: func(cmd *cobra.Command, _ []string) {
			store := mustOpenCLIStore(cmd)

			var h, m, s int
			if _, err := fmt.Sscanf(start, "%d:%d:%d", &h, &m, &s); err != nil {
				log.Fatalf("invalid --start %q, expected HH:MM:SS: %v", start, err)
			}
			startTime, err := daytime.New(h, m, s)
			if err != nil {
				log.Fatalf("invalid --start %q: %v", start, err)
			}
			dur, err := daytime.NewDuration(time.Duration(durationSeconds) * time.Second)
			if err != nil {
				log.Fatalf("invalid --duration: %v", err)
			}
			tm, err := timer.New(name, startTime, dur)
			if err != nil {
				log.Fatalf("invalid timer: %v", err)
			}
			added, err := store.Add(tm)
			if err != nil {
				log.Fatalf("failed to add timer: %v", err)
			}
			fmt.Printf("added timer %d: %s\n", added.ID(), added.String())
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "timer name")
	cmd.Flags().StringVar(&start, "start", "", "start time, HH:MM:SS")
	cmd.Flags().IntVar(&durationSeconds, "duration", 0, "duration in seconds")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("duration")
	return cmd
}

func timersRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a timer from the store",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				log.Fatalf("invalid timer id %q: %v", args[0], err)
			}
			store := mustOpenCLIStore(cmd)
			removed, err := store.Remove(id)
			if err != nil {
				log.Fatalf("failed to remove timer %d: %v", id, err)
			}
			if !removed {
				log.Fatalf("no timer with id %d", id)
			}
			fmt.Printf("removed timer %d\n", id)
		},
	}
}

func mustOpenCLIStore(_ *cobra.Command) timerstore.Store {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration load failed: %v", err)
	}
	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("failed to open timer store: %v", err)
	}
	return store
}
