package mocks

import (
	"context"
	"time"

	"github.com/rpggio/recipe-activity/internal/domain/activity"
	"github.com/stretchr/testify/mock"
)

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, tenantID string, event *activity.Event) error {
	args := m.Called(ctx, tenantID, event)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, tenantID string, opts activity.ListOptions) ([]activity.Event, error) {
	args := m.Called(ctx, tenantID, opts)
	if events, ok := args.Get(0).([]activity.Event); ok {
		return events, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityRepository) Delete(ctx context.Context, tenantID, id string) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// OverrideRepository is a mock for session.OverrideRepository.
type OverrideRepository struct {
	mock.Mock
}

func (m *OverrideRepository) MarkCompleted(ctx context.Context, tenantID, sessionID string, at time.Time) error {
	args := m.Called(ctx, tenantID, sessionID, at)
	return args.Error(0)
}

func (m *OverrideRepository) Clear(ctx context.Context, tenantID, sessionID string) error {
	args := m.Called(ctx, tenantID, sessionID)
	return args.Error(0)
}

func (m *OverrideRepository) List(ctx context.Context, tenantID string) ([]string, error) {
	args := m.Called(ctx, tenantID)
	if ids, ok := args.Get(0).([]string); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}
