package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/careerfindr/careerfindr-api/internal/model"
	"github.com/careerfindr/careerfindr-api/internal/modules/application/dto"
	jobRepo "github.com/careerfindr/careerfindr-api/internal/modules/job/repository"
	"github.com/careerfindr/careerfindr-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeApplicationRepo struct {
	applications map[uuid.UUID]*model.Application
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{applications: map[uuid.UUID]*model.Application{}}
}

func (f *fakeApplicationRepo) Create(ctx context.Context, application *model.Application) error {
	application.ID = uuid.New()
	f.applications[application.ID] = application
	return nil
}

func (f *fakeApplicationRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	application, ok := f.applications[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return application, nil
}

func (f *fakeApplicationRepo) FindByJob(ctx context.Context, jobID uuid.UUID) ([]model.Application, error) {
	var out []model.Application
	for _, a := range f.applications {
		if a.JobID == jobID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeApplicationRepo) FindByStudent(ctx context.Context, studentID uuid.UUID) ([]model.Application, error) {
	var out []model.Application
	for _, a := range f.applications {
		if a.StudentID == studentID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeApplicationRepo) FindByJobAndStudent(ctx context.Context, jobID, studentID uuid.UUID) (*model.Application, error) {
	for _, a := range f.applications {
		if a.JobID == jobID && a.StudentID == studentID {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeApplicationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	f.applications[id].Status = status
	return nil
}

func (f *fakeApplicationRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.applications)), nil
}

type fakeJobRepo struct {
	jobs map[uuid.UUID]*model.JobPosting
}

func (f *fakeJobRepo) Create(ctx context.Context, job *model.JobPosting) error { return nil }
func (f *fakeJobRepo) Update(ctx context.Context, job *model.JobPosting) error { return nil }
func (f *fakeJobRepo) Delete(ctx context.Context, id uuid.UUID) error          { return nil }
func (f *fakeJobRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.JobPosting, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return job, nil
}
func (f *fakeJobRepo) FindAll(ctx context.Context, filter jobRepo.JobFilter) ([]model.JobPosting, int64, error) {
	return nil, 0, nil
}
func (f *fakeJobRepo) FindByCompany(ctx context.Context, companyID uuid.UUID) ([]model.JobPosting, error) {
	return nil, nil
}
func (f *fakeJobRepo) Count(ctx context.Context) (int64, error) { return 0, nil }

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
func (r *recordingNotifier) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error { return nil }
func (r *recordingNotifier) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error  { return nil }
func (r *recordingNotifier) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

func newApplicationFixture() (ApplicationService, *fakeApplicationRepo, *recordingNotifier, *model.JobPosting) {
	job := &model.JobPosting{
		ID:        uuid.New(),
		CompanyID: uuid.New(),
		Title:     "Backend Engineer",
		IsActive:  true,
	}

	repo := newFakeApplicationRepo()
	jobs := &fakeJobRepo{jobs: map[uuid.UUID]*model.JobPosting{job.ID: job}}
	notifier := &recordingNotifier{}

	return NewApplicationService(repo, jobs, notifier, nil), repo, notifier, job
}

func TestApplyNotifiesCompany(t *testing.T) {
	svc, _, notifier, job := newApplicationFixture()

	application, err := svc.Apply(context.Background(), uuid.New(), job.ID, dto.ApplyInput{})
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationPending, application.Status)

	require.Len(t, notifier.notifications, 1)
	assert.Equal(t, job.CompanyID, notifier.notifications[0].UserID)
	assert.Equal(t, model.NotificationApplication, notifier.notifications[0].Type)
}

func TestApplyTwiceConflicts(t *testing.T) {
	svc, _, _, job := newApplicationFixture()
	studentID := uuid.New()

	_, err := svc.Apply(context.Background(), studentID, job.ID, dto.ApplyInput{})
	require.NoError(t, err)

	_, err = svc.Apply(context.Background(), studentID, job.ID, dto.ApplyInput{})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestApplyToInactiveJob(t *testing.T) {
	svc, _, _, job := newApplicationFixture()
	job.IsActive = false

	_, err := svc.Apply(context.Background(), uuid.New(), job.ID, dto.ApplyInput{})
	assert.Error(t, err)
}

func TestApplyThrottlesRapidApplications(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	jobA := &model.JobPosting{ID: uuid.New(), CompanyID: uuid.New(), Title: "Backend Engineer", IsActive: true}
	jobB := &model.JobPosting{ID: uuid.New(), CompanyID: uuid.New(), Title: "Data Analyst", IsActive: true}
	jobs := &fakeJobRepo{jobs: map[uuid.UUID]*model.JobPosting{jobA.ID: jobA, jobB.ID: jobB}}
	svc := NewApplicationService(newFakeApplicationRepo(), jobs, &recordingNotifier{}, rdb)

	studentID := uuid.New()
	ctx := context.Background()

	_, err := svc.Apply(ctx, studentID, jobA.ID, dto.ApplyInput{})
	require.NoError(t, err)

	_, err = svc.Apply(ctx, studentID, jobB.ID, dto.ApplyInput{})
	assert.ErrorIs(t, err, apperror.ErrRateLimitExceeded)

	mr.FastForward(time.Minute)
	_, err = svc.Apply(ctx, studentID, jobB.ID, dto.ApplyInput{})
	require.NoError(t, err)
}

func TestUpdateStatusNotifiesStudent(t *testing.T) {
	svc, repo, notifier, job := newApplicationFixture()
	studentID := uuid.New()

	application, err := svc.Apply(context.Background(), studentID, job.ID, dto.ApplyInput{})
	require.NoError(t, err)
	repo.applications[application.ID].Job = job

	updated, err := svc.UpdateStatus(context.Background(), job.CompanyID, application.ID, dto.UpdateStatusInput{
		Status: model.ApplicationShortlisted,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ApplicationShortlisted, updated.Status)

	last := notifier.notifications[len(notifier.notifications)-1]
	assert.Equal(t, studentID, last.UserID)
	assert.Equal(t, model.NotificationApplication, last.Type)
	assert.Contains(t, last.Message, model.ApplicationShortlisted)
}

func TestUpdateStatusRejectsForeignCompany(t *testing.T) {
	svc, repo, _, job := newApplicationFixture()

	application, err := svc.Apply(context.Background(), uuid.New(), job.ID, dto.ApplyInput{})
	require.NoError(t, err)
	repo.applications[application.ID].Job = job

	_, err = svc.UpdateStatus(context.Background(), uuid.New(), application.ID, dto.UpdateStatusInput{
		Status: model.ApplicationRejected,
	})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}
