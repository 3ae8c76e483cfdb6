package service

import (
	"context"
	"errors"
	"testing"

	"github.com/careerfindr/careerfindr-api/internal/model"
	"github.com/careerfindr/careerfindr-api/internal/modules/announcement/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnnouncementRepo struct {
	created []*model.Announcement
}

func (f *fakeAnnouncementRepo) Create(ctx context.Context, a *model.Announcement) error {
	a.ID = uuid.New()
	f.created = append(f.created, a)
	return nil
}

func (f *fakeAnnouncementRepo) Update(ctx context.Context, a *model.Announcement) error { return nil }
func (f *fakeAnnouncementRepo) Delete(ctx context.Context, id uuid.UUID) error          { return nil }
func (f *fakeAnnouncementRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Announcement, error) {
	for _, a := range f.created {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, errors.New("not found")
}
func (f *fakeAnnouncementRepo) FindAll(ctx context.Context) ([]model.Announcement, error) {
	return nil, nil
}
func (f *fakeAnnouncementRepo) FindActiveForAudience(ctx context.Context, role string) ([]model.Announcement, error) {
	return nil, nil
}

type fakeDirectory struct {
	byRole map[string][]uuid.UUID
}

func (f *fakeDirectory) FindAllIDs(ctx context.Context) ([]uuid.UUID, error) {
	var all []uuid.UUID
	for _, ids := range f.byRole {
		all = append(all, ids...)
	}
	return all, nil
}

func (f *fakeDirectory) FindIDsByRole(ctx context.Context, role string) ([]uuid.UUID, error) {
	return f.byRole[role], nil
}

type fakeNotifier struct {
	received []*model.Notification
	failFor  map[uuid.UUID]bool
}

func (f *fakeNotifier) CreateNotification(ctx context.Context, n *model.Notification) error {
	if f.failFor[n.UserID] {
		return errors.New("write failed")
	}
	f.received = append(f.received, n)
	return nil
}

func newDirectory(students, companies int) (*fakeDirectory, []uuid.UUID) {
	dir := &fakeDirectory{byRole: map[string][]uuid.UUID{}}
	var studentIDs []uuid.UUID
	for i := 0; i < students; i++ {
		id := uuid.New()
		studentIDs = append(studentIDs, id)
		dir.byRole[model.RoleStudent] = append(dir.byRole[model.RoleStudent], id)
	}
	for i := 0; i < companies; i++ {
		dir.byRole[model.RoleCompany] = append(dir.byRole[model.RoleCompany], uuid.New())
	}
	return dir, studentIDs
}

func TestCreateFansOutToTargetAudience(t *testing.T) {
	repo := &fakeAnnouncementRepo{}
	dir, studentIDs := newDirectory(3, 2)
	notifier := &fakeNotifier{}

	svc := NewAnnouncementService(repo, dir, notifier)

	announcement, count, err := svc.Create(context.Background(), uuid.New(), dto.CreateAnnouncementInput{
		Title:          "Career fair",
		Message:        "Next Friday in the main hall",
		Type:           "info",
		TargetAudience: model.RoleStudent,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, count)
	require.Len(t, notifier.received, 3)

	seen := map[uuid.UUID]bool{}
	for _, n := range notifier.received {
		seen[n.UserID] = true
		assert.Equal(t, model.NotificationAnnouncement, n.Type)
		assert.Equal(t, "Career fair", n.Title)
		assert.Equal(t, "Next Friday in the main hall", n.Message)
		require.NotNil(t, n.AnnouncementID)
		assert.Equal(t, announcement.ID, *n.AnnouncementID)
	}
	for _, id := range studentIDs {
		assert.True(t, seen[id], "student %s should have been notified", id)
	}
}

func TestCreateFansOutToEveryone(t *testing.T) {
	repo := &fakeAnnouncementRepo{}
	dir, _ := newDirectory(3, 2)
	notifier := &fakeNotifier{}

	svc := NewAnnouncementService(repo, dir, notifier)

	_, count, err := svc.Create(context.Background(), uuid.New(), dto.CreateAnnouncementInput{
		Title:          "Maintenance window",
		Message:        "The portal will be down Sunday night",
		Type:           "warning",
		TargetAudience: model.AudienceAll,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestCreateInactiveSkipsFanOut(t *testing.T) {
	repo := &fakeAnnouncementRepo{}
	dir, _ := newDirectory(3, 2)
	notifier := &fakeNotifier{}

	svc := NewAnnouncementService(repo, dir, notifier)

	inactive := false
	announcement, count, err := svc.Create(context.Background(), uuid.New(), dto.CreateAnnouncementInput{
		Title:          "Draft",
		Message:        "Not ready yet",
		Type:           "info",
		TargetAudience: model.AudienceAll,
		IsActive:       &inactive,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, count)
	assert.Empty(t, notifier.received)
	assert.False(t, announcement.IsActive)
	require.Len(t, repo.created, 1)
}

func TestCreateSurvivesPartialFanOutFailure(t *testing.T) {
	repo := &fakeAnnouncementRepo{}
	dir, studentIDs := newDirectory(3, 0)
	notifier := &fakeNotifier{failFor: map[uuid.UUID]bool{studentIDs[1]: true}}

	svc := NewAnnouncementService(repo, dir, notifier)

	_, count, err := svc.Create(context.Background(), uuid.New(), dto.CreateAnnouncementInput{
		Title:          "Career fair",
		Message:        "Next Friday",
		Type:           "info",
		TargetAudience: model.RoleStudent,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, count)
	assert.Len(t, notifier.received, 2)
}

func TestUpdateNeverTouchesNotifications(t *testing.T) {
	repo := &fakeAnnouncementRepo{}
	dir, _ := newDirectory(2, 0)
	notifier := &fakeNotifier{}

	svc := NewAnnouncementService(repo, dir, notifier)

	announcement, _, err := svc.Create(context.Background(), uuid.New(), dto.CreateAnnouncementInput{
		Title:          "Career fair",
		Message:        "Next Friday",
		Type:           "info",
		TargetAudience: model.RoleStudent,
	})
	require.NoError(t, err)
	written := len(notifier.received)

	newAudience := model.AudienceAll
	newTitle := "Career fair (rescheduled)"
	_, err = svc.Update(context.Background(), announcement.ID, dto.UpdateAnnouncementInput{
		Title:          &newTitle,
		TargetAudience: &newAudience,
	})
	require.NoError(t, err)

	assert.Len(t, notifier.received, written, "updates must not fan out again")
}
