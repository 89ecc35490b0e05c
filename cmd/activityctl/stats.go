package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/rpggio/recipe-activity/internal/domain/session"
)

func newStatsCmd() *cobra.Command {
	var src sourceFlags

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize sessions from an activity log",
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := src.reconstruct(cmd)
			if err != nil {
				return err
			}
			stats := session.Summarize(sessions)

			cmd.Printf("Sessions: %d (active %d, completed %d, expired %d)\n",
				stats.TotalSessions, stats.ActiveSessions, stats.CompletedSessions, stats.ExpiredSessions)
			cmd.Printf("Users: %d\n", stats.UniqueUsers)
			cmd.Printf("Events: %d\n", stats.TotalEvents)
			cmd.Printf("Page visits: %d\n", stats.TotalPageVisits)
			cmd.Printf("Average duration: %s\n", (time.Duration(stats.AverageDurationMs) * time.Millisecond).Round(time.Second))
			return nil
		},
	}

	src.register(cmd)
	return cmd
}
