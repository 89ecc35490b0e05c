package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rpggio/recipe-activity/internal/domain/session"
)

func newSessionsCmd() *cobra.Command {
	var (
		src    sourceFlags
		filter session.Filter
		status string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Reconstruct sessions from an activity log",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter.Status = session.SessionStatus(status)
			if filter.Status != "" && !filter.Status.Valid() {
				return fmt.Errorf("unknown status %q", status)
			}

			sessions, err := src.reconstruct(cmd)
			if err != nil {
				return err
			}
			sessions = filter.Apply(sessions)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(sessions)
			}
			return printSessions(cmd.OutOrStdout(), sessions)
		},
	}

	src.register(cmd)
	cmd.Flags().StringVar(&status, "status", "", "only sessions with this status (active, completed, expired)")
	cmd.Flags().StringVar(&filter.Username, "user", "", "only sessions of this user")
	cmd.Flags().StringVar(&filter.Search, "search", "", "match username, role or page names")
	cmd.Flags().IntVar(&filter.Limit, "limit", 0, "maximum sessions to print")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func printSessions(out io.Writer, sessions []session.Session) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(out, "no sessions")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tUSER\tROLE\tSTART\tDURATION\tEVENTS\tPAGES")
	for _, s := range sessions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			s.ID,
			s.Status,
			s.Username,
			s.Role,
			s.StartTime.UTC().Format(time.RFC3339),
			(time.Duration(s.DurationMs) * time.Millisecond).Round(time.Second),
			s.EventCount(),
			strings.Join(s.PagesVisited, ", "),
		)
	}
	return w.Flush()
}
