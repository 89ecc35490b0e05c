package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/recipe-activity/internal/domain/activity"
	"github.com/rpggio/recipe-activity/internal/repository"
)

// DefaultFetchLimit caps how many recent events feed one reconstruction.
const DefaultFetchLimit = 1000

// Settings configures the session service.
type Settings struct {
	Options    Options
	FetchLimit int
	Clock      func() time.Time
	Observer   Observer
}

// Service derives sessions from an event source on every call.
type Service struct {
	events    EventSource
	overrides OverrideRepository
	settings  Settings
	logger    *slog.Logger
}

// NewService creates a new session service. overrides may be nil, in which
// case manual completion is unavailable.
func NewService(events EventSource, overrides OverrideRepository, settings Settings, logger *slog.Logger) *Service {
	if settings.FetchLimit <= 0 {
		settings.FetchLimit = DefaultFetchLimit
	}
	if settings.Clock == nil {
		settings.Clock = time.Now
	}
	return &Service{
		events:    events,
		overrides: overrides,
		settings:  settings,
		logger:    logger,
	}
}

// List reconstructs the tenant's sessions and applies filter.
func (s *Service) List(ctx context.Context, tenantID string, filter Filter) ([]Session, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, filter.Status)
	}
	sessions, err := s.reconstruct(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return filter.Apply(sessions), nil
}

// Get returns the session with the given id.
func (s *Service) Get(ctx context.Context, tenantID, id string) (*Session, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	sessions, err := s.reconstruct(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return find(sessions, id)
}

// Stats reconstructs the tenant's sessions and summarizes them.
func (s *Service) Stats(ctx context.Context, tenantID string) (Stats, error) {
	sessions, err := s.reconstruct(ctx, tenantID)
	if err != nil {
		return Stats{}, err
	}
	return Summarize(sessions), nil
}

// Delete re-derives the grouping from a fresh fetch and deletes every event
// of the session independently. Partial failure is reported, not returned as an error.
func (s *Service) Delete(ctx context.Context, tenantID, id string) (activity.DeleteResult, error) {
	sess, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return activity.DeleteResult{}, err
	}

	result := activity.DeleteEach(ctx, s.events, tenantID, sess.EventIDs(), s.logger)
	if result.Failed == 0 && s.overrides != nil {
		if err := s.overrides.Clear(ctx, tenantID, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
			s.logWarn("failed to clear session override", "session_id", id, "error", err)
		}
	}

	if s.logger != nil {
		s.logger.Info("deleted session events",
			"tenant_id", tenantID,
			"session_id", id,
			"succeeded", result.Succeeded,
			"failed", result.Failed,
		)
	}
	return result, nil
}

// MarkCompleted records a manual completion for the session.
func (s *Service) MarkCompleted(ctx context.Context, tenantID, id string) error {
	if s.overrides == nil {
		return ErrOverridesUnavailable
	}
	if _, err := s.Get(ctx, tenantID, id); err != nil {
		return err
	}
	if err := s.overrides.MarkCompleted(ctx, tenantID, id, s.settings.Clock()); err != nil {
		return fmt.Errorf("marking session completed: %w", err)
	}
	return nil
}

// Reopen removes a manual completion.
func (s *Service) Reopen(ctx context.Context, tenantID, id string) error {
	if s.overrides == nil {
		return ErrOverridesUnavailable
	}
	if id == "" {
		return ErrInvalidInput
	}
	if err := s.overrides.Clear(ctx, tenantID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("clearing session override: %w", err)
	}
	return nil
}

func (s *Service) reconstruct(ctx context.Context, tenantID string) ([]Session, error) {
	events, err := s.events.List(ctx, tenantID, activity.ListOptions{Limit: s.settings.FetchLimit})
	if err != nil {
		return nil, fmt.Errorf("loading activity: %w", err)
	}

	opts := s.settings.Options
	if s.overrides != nil {
		ids, err := s.overrides.List(ctx, tenantID)
		if err != nil {
			return nil, fmt.Errorf("loading session overrides: %w", err)
		}
		opts.Overrides = make(map[string]bool, len(ids))
		for _, id := range ids {
			opts.Overrides[id] = true
		}
	}

	started := time.Now()
	sessions, err := Reconstruct(events, s.settings.Clock(), opts)
	if err != nil {
		return nil, fmt.Errorf("reconstructing sessions: %w", err)
	}
	if s.settings.Observer != nil {
		s.settings.Observer.ObserveReconstruction(tenantID, len(events), sessions, time.Since(started))
	}
	if s.logger != nil {
		s.logger.Debug("reconstructed sessions", "tenant_id", tenantID, "events", len(events), "sessions", len(sessions))
	}
	return sessions, nil
}

func (s *Service) logWarn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}

func find(sessions []Session, id string) (*Session, error) {
	for i := range sessions {
		if sessions[i].ID == id {
			return &sessions[i], nil
		}
	}
	return nil, ErrSessionNotFound
}
