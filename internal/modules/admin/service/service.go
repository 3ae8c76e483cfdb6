package service

import (
	"context"
	"errors"
	"log"

	"github.com/careerfindr/careerfindr-api/internal/model"
	applicationRepo "github.com/careerfindr/careerfindr-api/internal/modules/application/repository"
	jobRepo "github.com/careerfindr/careerfindr-api/internal/modules/job/repository"
	notifService "github.com/careerfindr/careerfindr-api/internal/modules/notification/service"
	userRepo "github.com/careerfindr/careerfindr-api/internal/modules/user/repository"
	"github.com/careerfindr/careerfindr-api/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DashboardStats is the admin landing-page summary.
type DashboardStats struct {
	Students     int64 `json:"students"`
	Institutes   int64 `json:"institutes"`
	Companies    int64 `json:"companies"`
	PendingOrgs  int64 `json:"pending_orgs"`
	Jobs         int64 `json:"jobs"`
	Applications int64 `json:"applications"`
}

type AdminService interface {
	ListUsers(ctx context.Context, role, status string) ([]*model.User, error)
	ApproveUser(ctx context.Context, userID uuid.UUID) error
	RejectUser(ctx context.Context, userID uuid.UUID) error
	DeleteUser(ctx context.Context, userID uuid.UUID) error
	Dashboard(ctx context.Context) (*DashboardStats, error)
}

type adminService struct {
	users         userRepo.UserRepository
	jobs          jobRepo.JobRepository
	applications  applicationRepo.ApplicationRepository
	notifications notifService.NotificationService
}

func NewAdminService(users userRepo.UserRepository, jobs jobRepo.JobRepository, applications applicationRepo.ApplicationRepository, notifications notifService.NotificationService) AdminService {
	return &adminService{
		users:         users,
		jobs:          jobs,
		applications:  applications,
		notifications: notifications,
	}
}

func (s *adminService) ListUsers(ctx context.Context, role, status string) ([]*model.User, error) {
	return s.users.FindAll(ctx, role, status)
}

func (s *adminService) ApproveUser(ctx context.Context, userID uuid.UUID) error {
	return s.setStatus(ctx, userID, model.UserStatusActive,
		"Account approved", "Your organization account has been approved. You can now sign in and use the portal.")
}

func (s *adminService) RejectUser(ctx context.Context, userID uuid.UUID) error {
	return s.setStatus(ctx, userID, model.UserStatusRejected,
		"Account rejected", "Your organization account was not approved. Contact support for details.")
}

func (s *adminService) setStatus(ctx context.Context, userID uuid.UUID, status, title, message string) error {
	if _, err := s.users.FindByID(ctx, userID.String()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if err := s.users.UpdateStatus(ctx, userID, status); err != nil {
		return err
	}

	notification := &model.Notification{
		UserID:  userID,
		Type:    model.NotificationAccount,
		Title:   title,
		Message: message,
	}
	if err := s.notifications.CreateNotification(ctx, notification); err != nil {
		log.Printf("failed to notify user %s about status %s: %v", userID, status, err)
	}

	return nil
}

func (s *adminService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.users.FindByID(ctx, userID.String()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}
	return s.users.Delete(ctx, userID)
}

func (s *adminService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	var err error
	if stats.Students, err = s.users.CountByRole(ctx, model.RoleStudent); err != nil {
		return nil, err
	}
	if stats.Institutes, err = s.users.CountByRole(ctx, model.RoleInstitute); err != nil {
		return nil, err
	}
	if stats.Companies, err = s.users.CountByRole(ctx, model.RoleCompany); err != nil {
		return nil, err
	}

	pending, err := s.users.FindAll(ctx, "", model.UserStatusPending)
	if err != nil {
		return nil, err
	}
	stats.PendingOrgs = int64(len(pending))

	if stats.Jobs, err = s.jobs.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Applications, err = s.applications.Count(ctx); err != nil {
		return nil, err
	}

	return stats, nil
}
