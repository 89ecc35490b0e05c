package activity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/recipe-activity/internal/repository"
)

// Service handles activity log operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new activity service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// LogActivity stores an event, assigning an id and the current timestamp if missing.
func (s *Service) LogActivity(ctx context.Context, tenantID string, event *Event) error {
	if event == nil {
		return ErrInvalidInput
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	if err := Validate(*event); err != nil {
		return err
	}
	if err := s.repo.Log(ctx, tenantID, event); err != nil {
		return fmt.Errorf("logging activity: %w", err)
	}
	return nil
}

// List returns events matching the filters, newest first.
func (s *Service) List(ctx context.Context, tenantID string, opts ListOptions) ([]Event, error) {
	events, err := s.repo.List(ctx, tenantID, opts)
	if err != nil {
		return nil, fmt.Errorf("listing activity: %w", err)
	}
	return events, nil
}

// Delete removes a single event.
func (s *Service) Delete(ctx context.Context, tenantID, id string) error {
	if id == "" {
		return ErrInvalidInput
	}
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("deleting activity: %w", err)
	}
	return nil
}

// DeleteMany removes each event independently and reports the count pair.
func (s *Service) DeleteMany(ctx context.Context, tenantID string, ids []string) DeleteResult {
	result := DeleteEach(ctx, s.repo, tenantID, ids, s.logger)
	if s.logger != nil {
		s.logger.Info("bulk activity delete", "tenant_id", tenantID, "succeeded", result.Succeeded, "failed", result.Failed)
	}
	return result
}
