package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/careerfindr/careerfindr-api/internal/model"
	"github.com/careerfindr/careerfindr-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeUserDirectory struct {
	users map[string]*model.User
}

func (f *fakeUserDirectory) FindByID(ctx context.Context, id string) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserDirectory) Create(ctx context.Context, user *model.User) error { return nil }
func (f *fakeUserDirectory) CreateWithCandidateProfile(ctx context.Context, user *model.User, profile *model.CandidateProfile) error {
	return nil
}
func (f *fakeUserDirectory) CreateWithOrgProfile(ctx context.Context, user *model.User, profile *model.OrgProfile) error {
	return nil
}
func (f *fakeUserDirectory) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeUserDirectory) FindAll(ctx context.Context, role, status string) ([]*model.User, error) {
	return nil, nil
}
func (f *fakeUserDirectory) FindIDsByRole(ctx context.Context, role string) ([]uuid.UUID, error) {
	return nil, nil
}
func (f *fakeUserDirectory) FindAllIDs(ctx context.Context) ([]uuid.UUID, error) { return nil, nil }
func (f *fakeUserDirectory) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return nil
}
func (f *fakeUserDirectory) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return nil
}
func (f *fakeUserDirectory) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (f *fakeUserDirectory) FindRoleByName(ctx context.Context, name string) (*model.Role, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeUserDirectory) CountByRole(ctx context.Context, role string) (int64, error) {
	return 0, nil
}
func (f *fakeUserDirectory) CreatePasswordReset(ctx context.Context, reset *model.PasswordReset) error {
	return nil
}
func (f *fakeUserDirectory) FindPasswordReset(ctx context.Context, token string) (*model.PasswordReset, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeUserDirectory) DeletePasswordReset(ctx context.Context, token string) error { return nil }

func newImpersonationFixture(t *testing.T) (ImpersonationService, uuid.UUID) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	target := &model.User{ID: uuid.New(), FullName: "Target"}
	users := &fakeUserDirectory{users: map[string]*model.User{
		target.ID.String(): target,
	}}

	return NewImpersonationService(rdb, users), target.ID
}

func TestImpersonationStartStop(t *testing.T) {
	svc, targetID := newImpersonationFixture(t)
	ctx := context.Background()
	adminID := uuid.New()

	require.NoError(t, svc.Start(ctx, adminID, model.RoleAdmin, targetID))

	status, err := svc.Status(ctx, adminID)
	require.NoError(t, err)
	assert.True(t, status.Active)
	require.NotNil(t, status.TargetID)
	assert.Equal(t, targetID, *status.TargetID)

	require.NoError(t, svc.Stop(ctx, adminID))

	status, err = svc.Status(ctx, adminID)
	require.NoError(t, err)
	assert.False(t, status.Active)
	assert.Nil(t, status.TargetID)
}

func TestImpersonationIgnoresNonAdmin(t *testing.T) {
	svc, targetID := newImpersonationFixture(t)
	ctx := context.Background()
	companyID := uuid.New()

	// Not an error, but also not a session.
	require.NoError(t, svc.Start(ctx, companyID, model.RoleCompany, targetID))

	status, err := svc.Status(ctx, companyID)
	require.NoError(t, err)
	assert.False(t, status.Active)
}

func TestImpersonationUnknownTarget(t *testing.T) {
	svc, _ := newImpersonationFixture(t)

	err := svc.Start(context.Background(), uuid.New(), model.RoleAdmin, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestImpersonationStopWithoutSession(t *testing.T) {
	svc, _ := newImpersonationFixture(t)

	assert.NoError(t, svc.Stop(context.Background(), uuid.New()))
}

func TestImpersonationSessionsAreIndependent(t *testing.T) {
	svc, targetID := newImpersonationFixture(t)
	ctx := context.Background()
	adminA := uuid.New()
	adminB := uuid.New()

	require.NoError(t, svc.Start(ctx, adminA, model.RoleAdmin, targetID))

	status, err := svc.Status(ctx, adminB)
	require.NoError(t, err)
	assert.False(t, status.Active, "one admin's session must not leak to another")
}
