package service

import (
	"context"
	"testing"
	"time"

	"github.com/careerfindr/careerfindr-api/internal/model"
	"github.com/careerfindr/careerfindr-api/internal/modules/event/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeEventRepo struct {
	events map[uuid.UUID]*model.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: map[uuid.UUID]*model.Event{}}
}

func (f *fakeEventRepo) Create(ctx context.Context, event *model.Event) error {
	event.ID = uuid.New()
	f.events[event.ID] = event
	return nil
}

func (f *fakeEventRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return event, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, event *model.Event) error {
	f.events[event.ID] = event
	return nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.events, id)
	return nil
}

func (f *fakeEventRepo) FindUpcomingForUser(ctx context.Context, userID uuid.UUID) ([]model.Event, error) {
	return nil, nil
}

func (f *fakeEventRepo) FindDueForReminder(ctx context.Context, within time.Duration) ([]model.Event, error) {
	var due []model.Event
	now := time.Now()
	for _, event := range f.events {
		if !event.ReminderSent && event.StartsAt.After(now) && event.StartsAt.Before(now.Add(within)) {
			due = append(due, *event)
		}
	}
	return due, nil
}

func (f *fakeEventRepo) MarkReminderSent(ctx context.Context, id uuid.UUID) error {
	f.events[id].ReminderSent = true
	return nil
}

type recordingNotifier struct {
	notifications []*model.Notification
}

func (r *recordingNotifier) CreateNotification(ctx context.Context, n *model.Notification) error {
	r.notifications = append(r.notifications, n)
	return nil
}
func (r *recordingNotifier) GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, error) {
	return nil, nil
}
func (r *recordingNotifier) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error  { return nil }
func (r *recordingNotifier) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error   { return nil }
func (r *recordingNotifier) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

func TestCreateEventNotifiesParticipants(t *testing.T) {
	repo := newFakeEventRepo()
	notifier := &recordingNotifier{}
	svc := NewEventService(repo, notifier, nil)

	participants := []uuid.UUID{uuid.New(), uuid.New()}
	event, err := svc.Create(context.Background(), uuid.New(), dto.CreateEventInput{
		Title:        "Final interview",
		Type:         model.EventInterview,
		StartsAt:     time.Now().Add(48 * time.Hour),
		Participants: participants,
	})
	require.NoError(t, err)

	require.Len(t, notifier.notifications, 2)
	for i, n := range notifier.notifications {
		assert.Equal(t, participants[i], n.UserID)
		assert.Equal(t, model.NotificationEvent, n.Type)
	}
	assert.False(t, event.ReminderSent)
}

func TestSendDueRemindersRemindsOnce(t *testing.T) {
	repo := newFakeEventRepo()
	notifier := &recordingNotifier{}
	svc := NewEventService(repo, notifier, nil)

	_, err := svc.Create(context.Background(), uuid.New(), dto.CreateEventInput{
		Title:        "Campus session",
		Type:         model.EventSession,
		StartsAt:     time.Now().Add(6 * time.Hour),
		Participants: []uuid.UUID{uuid.New()},
	})
	require.NoError(t, err)
	invites := len(notifier.notifications)

	reminded, err := svc.SendDueReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, reminded)
	assert.Len(t, notifier.notifications, invites+1)

	// The second sweep finds nothing.
	reminded, err = svc.SendDueReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, reminded)
	assert.Len(t, notifier.notifications, invites+1)
}

func TestSendDueRemindersSkipsDistantEvents(t *testing.T) {
	repo := newFakeEventRepo()
	notifier := &recordingNotifier{}
	svc := NewEventService(repo, notifier, nil)

	_, err := svc.Create(context.Background(), uuid.New(), dto.CreateEventInput{
		Title:        "Graduation",
		Type:         model.EventOther,
		StartsAt:     time.Now().Add(30 * 24 * time.Hour),
		Participants: []uuid.UUID{uuid.New()},
	})
	require.NoError(t, err)

	reminded, err := svc.SendDueReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, reminded)
}

func TestUpdateRearmsReminderOnReschedule(t *testing.T) {
	repo := newFakeEventRepo()
	notifier := &recordingNotifier{}
	svc := NewEventService(repo, notifier, nil)

	owner := uuid.New()
	event, err := svc.Create(context.Background(), owner, dto.CreateEventInput{
		Title:    "Deadline",
		Type:     model.EventDeadline,
		StartsAt: time.Now().Add(2 * time.Hour),
	})
	require.NoError(t, err)

	repo.events[event.ID].ReminderSent = true

	newStart := time.Now().Add(3 * time.Hour)
	updated, err := svc.Update(context.Background(), owner, event.ID, dto.UpdateEventInput{
		StartsAt: &newStart,
	})
	require.NoError(t, err)
	assert.False(t, updated.ReminderSent)
}
