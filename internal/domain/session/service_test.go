package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rpggio/recipe-activity/internal/domain/activity"
	"github.com/rpggio/recipe-activity/internal/domain/session"
	"github.com/rpggio/recipe-activity/internal/repository"
	"github.com/rpggio/recipe-activity/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	tenantID string
	events   int
	sessions int
	calls    int
}

func (o *recordingObserver) ObserveReconstruction(tenantID string, eventCount int, sessions []session.Session, _ time.Duration) {
	o.calls++
	o.tenantID = tenantID
	o.events = eventCount
	o.sessions = len(sessions)
}

func feed() []activity.Event {
	return []activity.Event{
		ev("a1", "alice", activity.TypeLogin, 0),
		nav("a2", "alice", "/recipes", time.Minute),
		ev("b1", "bob", activity.TypeLogin, 2*time.Minute),
		ev("b2", "bob", activity.TypeLogout, 3*time.Minute),
	}
}

func newTestService(events *mocks.ActivityRepository, overrides *mocks.OverrideRepository, observer session.Observer) *session.Service {
	var ov session.OverrideRepository
	if overrides != nil {
		ov = overrides
	}
	return session.NewService(events, ov, session.Settings{
		Options:    defaultOpts(),
		FetchLimit: 50,
		Clock:      func() time.Time { return t0.Add(5 * time.Minute) },
		Observer:   observer,
	}, nil)
}

func TestSessionService_List(t *testing.T) {
	ctx := context.Background()
	events := &mocks.ActivityRepository{}
	overrides := &mocks.OverrideRepository{}
	observer := &recordingObserver{}

	events.On("List", ctx, "tenant1", activity.ListOptions{Limit: 50}).Return(feed(), nil)
	overrides.On("List", ctx, "tenant1").Return([]string{}, nil)

	svc := newTestService(events, overrides, observer)
	sessions, err := svc.List(ctx, "tenant1", session.Filter{})
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	require.Equal(t, "bob", sessions[0].Username)
	require.Equal(t, session.StatusCompleted, sessions[0].Status)
	require.Equal(t, session.StatusActive, sessions[1].Status)

	require.Equal(t, 1, observer.calls)
	require.Equal(t, "tenant1", observer.tenantID)
	require.Equal(t, 4, observer.events)
	require.Equal(t, 2, observer.sessions)

	active, err := svc.List(ctx, "tenant1", session.Filter{Status: session.StatusActive})
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "alice", active[0].Username)

	_, err = svc.List(ctx, "tenant1", session.Filter{Status: "sleeping"})
	require.ErrorIs(t, err, session.ErrInvalidInput)
}

func TestSessionService_ListAppliesOverrides(t *testing.T) {
	ctx := context.Background()
	events := &mocks.ActivityRepository{}
	overrides := &mocks.OverrideRepository{}

	events.On("List", ctx, "tenant1", mock.Anything).Return(feed(), nil)
	overrides.On("List", ctx, "tenant1").Return([]string{session.SessionID("alice", t0)}, nil)

	svc := newTestService(events, overrides, nil)
	sess, err := svc.Get(ctx, "tenant1", session.SessionID("alice", t0))
	require.NoError(t, err)
	require.Equal(t, session.StatusCompleted, sess.Status)
	require.True(t, sess.ManuallyCompleted)
}

func TestSessionService_GetNotFound(t *testing.T) {
	ctx := context.Background()
	events := &mocks.ActivityRepository{}
	events.On("List", ctx, "tenant1", mock.Anything).Return(feed(), nil)

	svc := newTestService(events, nil, nil)
	_, err := svc.Get(ctx, "tenant1", "nobody-0")
	require.ErrorIs(t, err, session.ErrSessionNotFound)

	_, err = svc.Get(ctx, "tenant1", "")
	require.ErrorIs(t, err, session.ErrInvalidInput)
}

func TestSessionService_InvalidFeedAborts(t *testing.T) {
	ctx := context.Background()
	events := &mocks.ActivityRepository{}
	events.On("List", ctx, "tenant1", mock.Anything).Return([]activity.Event{
		{ID: "x", ActivityType: activity.TypeLogin, CreatedAt: t0},
	}, nil)

	svc := newTestService(events, nil, nil)
	_, err := svc.Stats(ctx, "tenant1")
	require.ErrorIs(t, err, session.ErrInvalidEvent)
}

func TestSessionService_Stats(t *testing.T) {
	ctx := context.Background()
	events := &mocks.ActivityRepository{}
	events.On("List", ctx, "tenant1", mock.Anything).Return(feed(), nil)

	svc := newTestService(events, nil, nil)
	stats, err := svc.Stats(ctx, "tenant1")
	require.NoError(t, err)
	require.Equal(t, 2, stats.TotalSessions)
	require.Equal(t, 2, stats.UniqueUsers)
	require.Equal(t, 4, stats.TotalEvents)
	require.Equal(t, 1, stats.TotalPageVisits)
}

func TestSessionService_DeletePartialFailure(t *testing.T) {
	ctx := context.Background()
	events := &mocks.ActivityRepository{}
	overrides := &mocks.OverrideRepository{}

	events.On("List", ctx, "tenant1", mock.Anything).Return(feed(), nil)
	events.On("Delete", ctx, "tenant1", "a1").Return(nil)
	events.On("Delete", ctx, "tenant1", "a2").Return(errors.New("upstream 500"))
	overrides.On("List", ctx, "tenant1").Return([]string{}, nil)

	svc := newTestService(events, overrides, nil)
	result, err := svc.Delete(ctx, "tenant1", session.SessionID("alice", t0))
	require.NoError(t, err)
	require.Equal(t, 1, result.Succeeded)
	require.Equal(t, 1, result.Failed)
	require.Equal(t, []string{"a2"}, result.FailedIDs)
	overrides.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything, mock.Anything)
}

func TestSessionService_DeleteClearsOverride(t *testing.T) {
	ctx := context.Background()
	events := &mocks.ActivityRepository{}
	overrides := &mocks.OverrideRepository{}
	id := session.SessionID("bob", t0.Add(2*time.Minute))

	events.On("List", ctx, "tenant1", mock.Anything).Return(feed(), nil)
	events.On("Delete", ctx, "tenant1", "b1").Return(nil)
	events.On("Delete", ctx, "tenant1", "b2").Return(nil)
	overrides.On("List", ctx, "tenant1").Return([]string{}, nil)
	overrides.On("Clear", ctx, "tenant1", id).Return(repository.ErrNotFound)

	svc := newTestService(events, overrides, nil)
	result, err := svc.Delete(ctx, "tenant1", id)
	require.NoError(t, err)
	require.Equal(t, 2, result.Succeeded)
	require.Zero(t, result.Failed)
	overrides.AssertExpectations(t)
}

func TestSessionService_MarkCompletedAndReopen(t *testing.T) {
	ctx := context.Background()
	events := &mocks.ActivityRepository{}
	overrides := &mocks.OverrideRepository{}
	id := session.SessionID("alice", t0)

	events.On("List", ctx, "tenant1", mock.Anything).Return(feed(), nil)
	overrides.On("List", ctx, "tenant1").Return([]string{}, nil)
	overrides.On("MarkCompleted", ctx, "tenant1", id, t0.Add(5*time.Minute)).Return(nil)
	overrides.On("Clear", ctx, "tenant1", id).Return(nil)
	overrides.On("Clear", ctx, "tenant1", "ghost").Return(repository.ErrNotFound)

	svc := newTestService(events, overrides, nil)
	require.NoError(t, svc.MarkCompleted(ctx, "tenant1", id))
	require.ErrorIs(t, svc.MarkCompleted(ctx, "tenant1", "ghost"), session.ErrSessionNotFound)
	require.NoError(t, svc.Reopen(ctx, "tenant1", id))
	require.ErrorIs(t, svc.Reopen(ctx, "tenant1", "ghost"), session.ErrSessionNotFound)
}

func TestSessionService_OverridesUnavailable(t *testing.T) {
	svc := newTestService(&mocks.ActivityRepository{}, nil, nil)
	require.ErrorIs(t, svc.MarkCompleted(context.Background(), "tenant1", "x"), session.ErrOverridesUnavailable)
	require.ErrorIs(t, svc.Reopen(context.Background(), "tenant1", "x"), session.ErrOverridesUnavailable)
}
