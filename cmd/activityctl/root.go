package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rpggio/recipe-activity/internal/domain/activity"
	"github.com/rpggio/recipe-activity/internal/domain/session"
	"github.com/rpggio/recipe-activity/internal/feed"
)

// sourceFlags selects where events come from and how they are grouped.
type sourceFlags struct {
	file            string
	feedURL         string
	feedToken       string
	limit           int
	gap             time.Duration
	activeThreshold time.Duration
	now             string
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "activityctl",
		Short:        "Inspect recipe app activity and the sessions derived from it",
		SilenceUsage: true,
	}

	root.AddCommand(
		newSessionsCmd(),
		newStatsCmd(),
		newScaleCmd(),
		newAPIKeyCmd(),
		newTokenCmd(),
	)
	return root
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", `JSON array of activity events ("-" for stdin)`)
	cmd.Flags().StringVar(&f.feedURL, "feed-url", os.Getenv("ACTIVITY_FEED_BASE_URL"), "base URL of the recipe API")
	cmd.Flags().StringVar(&f.feedToken, "feed-token", os.Getenv("ACTIVITY_FEED_TOKEN"), "bearer token for the recipe API")
	cmd.Flags().IntVar(&f.limit, "fetch-limit", session.DefaultFetchLimit, "events to fetch from the feed")
	cmd.Flags().DurationVar(&f.gap, "gap", session.DefaultSessionGap, "inactivity gap that starts a new session")
	cmd.Flags().DurationVar(&f.activeThreshold, "active-threshold", session.DefaultActiveThreshold, "idle time after which a session is expired")
	cmd.Flags().StringVar(&f.now, "now", "", "RFC 3339 reference time (default: current time)")
}

func (f *sourceFlags) options() session.Options {
	return session.Options{SessionGap: f.gap, ActiveThreshold: f.activeThreshold}
}

func (f *sourceFlags) referenceTime() (time.Time, error) {
	if f.now == "" {
		return time.Now(), nil
	}
	now, err := time.Parse(time.RFC3339, f.now)
	if err != nil {
		return time.Time{}, fmt.Errorf("--now must be RFC 3339: %w", err)
	}
	return now, nil
}

func (f *sourceFlags) loadEvents(ctx context.Context, stdin io.Reader) ([]activity.Event, error) {
	switch {
	case f.file == "-":
		return feed.DecodeEvents(stdin)
	case f.file != "":
		file, err := os.Open(f.file)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return feed.DecodeEvents(file)
	case f.feedURL != "":
		client, err := feed.New(feed.Config{BaseURL: f.feedURL, Token: f.feedToken}, nil)
		if err != nil {
			return nil, err
		}
		return client.List(ctx, "", activity.ListOptions{Limit: f.limit})
	default:
		return nil, fmt.Errorf("one of --file or --feed-url is required")
	}
}

// reconstruct loads events and groups them into sessions.
func (f *sourceFlags) reconstruct(cmd *cobra.Command) ([]session.Session, error) {
	now, err := f.referenceTime()
	if err != nil {
		return nil, err
	}
	events, err := f.loadEvents(cmd.Context(), cmd.InOrStdin())
	if err != nil {
		return nil, err
	}
	return session.Reconstruct(events, now, f.options())
}
