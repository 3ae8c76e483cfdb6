package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/careerfindr/careerfindr-api/internal/model"
	"github.com/careerfindr/careerfindr-api/internal/modules/application/dto"
	applicationRepo "github.com/careerfindr/careerfindr-api/internal/modules/application/repository"
	jobRepo "github.com/careerfindr/careerfindr-api/internal/modules/job/repository"
	jobService "github.com/careerfindr/careerfindr-api/internal/modules/job/service"
	notifService "github.com/careerfindr/careerfindr-api/internal/modules/notification/service"
	"github.com/careerfindr/careerfindr-api/pkg/apperror"
	"github.com/careerfindr/careerfindr-api/pkg/ratelimiter"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type ApplicationService interface {
	Apply(ctx context.Context, studentID, jobID uuid.UUID, input dto.ApplyInput) (*model.Application, error)
	ListForJob(ctx context.Context, companyID, jobID uuid.UUID) ([]dto.ApplicantResponse, error)
	ListMine(ctx context.Context, studentID uuid.UUID) ([]model.Application, error)
	UpdateStatus(ctx context.Context, companyID, applicationID uuid.UUID, input dto.UpdateStatusInput) (*model.Application, error)
}

type applicationService struct {
	repo          applicationRepo.ApplicationRepository
	jobs          jobRepo.JobRepository
	notifications notifService.NotificationService
	redisClient   *redis.Client
}

func NewApplicationService(repo applicationRepo.ApplicationRepository, jobs jobRepo.JobRepository, notifications notifService.NotificationService, redisClient *redis.Client) ApplicationService {
	return &applicationService{
		repo:          repo,
		jobs:          jobs,
		notifications: notifications,
		redisClient:   redisClient,
	}
}

func (s *applicationService) Apply(ctx context.Context, studentID, jobID uuid.UUID, input dto.ApplyInput) (*model.Application, error) {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if !job.IsActive {
		return nil, errors.New("job posting is no longer active")
	}

	if _, err := s.repo.FindByJobAndStudent(ctx, jobID, studentID); err == nil {
		return nil, apperror.ErrConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cooldown := ratelimiter.GetDurationFromEnv("RATE_LIMIT_APPLY", 30*time.Second)
	allowed, err := ratelimiter.CheckAndSetRateLimit(ctx, s.redisClient, studentID, "apply", cooldown)
	if err != nil {
		return nil, fmt.Errorf("failed to check rate limit: %w", err)
	}
	if !allowed {
		return nil, apperror.ErrRateLimitExceeded
	}

	application := &model.Application{
		JobID:     jobID,
		StudentID: studentID,
		Status:    model.ApplicationPending,
		CoverNote: input.CoverNote,
	}

	if err := s.repo.Create(ctx, application); err != nil {
		_ = ratelimiter.ClearRateLimit(ctx, s.redisClient, studentID, "apply") // rollback cooldown
		return nil, err
	}

	// Tell the company about the new applicant; failure doesn't fail the apply.
	link := fmt.Sprintf("/jobs/%s/applicants", jobID)
	notification := &model.Notification{
		UserID:  job.CompanyID,
		Type:    model.NotificationApplication,
		Title:   "New applicant",
		Message: fmt.Sprintf("A new candidate applied to %q", job.Title),
		Link:    &link,
	}
	if err := s.notifications.CreateNotification(ctx, notification); err != nil {
		log.Printf("failed to notify company %s about application: %v", job.CompanyID, err)
	}

	return application, nil
}

// ListForJob returns the job's applicants, each scored against the job's
// current requirements.
func (s *applicationService) ListForJob(ctx context.Context, companyID, jobID uuid.UUID) ([]dto.ApplicantResponse, error) {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if job.CompanyID != companyID {
		return nil, apperror.ErrForbidden
	}

	applications, err := s.repo.FindByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	applicants := make([]dto.ApplicantResponse, 0, len(applications))
	for _, application := range applications {
		var skills []string
		var experience string
		if application.Student != nil && application.Student.CandidateProfile != nil {
			skills = application.Student.CandidateProfile.Skills
			experience = application.Student.CandidateProfile.ExperienceLevel
		}

		applicants = append(applicants, dto.ApplicantResponse{
			Application: application,
			MatchScore:  jobService.MatchScore(job.Skills, job.ExperienceLevel, skills, experience),
		})
	}

	return applicants, nil
}

func (s *applicationService) ListMine(ctx context.Context, studentID uuid.UUID) ([]model.Application, error) {
	return s.repo.FindByStudent(ctx, studentID)
}

func (s *applicationService) UpdateStatus(ctx context.Context, companyID, applicationID uuid.UUID, input dto.UpdateStatusInput) (*model.Application, error) {
	application, err := s.repo.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if application.Job == nil || application.Job.CompanyID != companyID {
		return nil, apperror.ErrForbidden
	}

	if err := s.repo.UpdateStatus(ctx, applicationID, input.Status); err != nil {
		return nil, err
	}
	application.Status = input.Status

	link := fmt.Sprintf("/applications/%s", application.ID)
	notification := &model.Notification{
		UserID:  application.StudentID,
		Type:    model.NotificationApplication,
		Title:   "Application update",
		Message: fmt.Sprintf("Your application for %q is now %s", application.Job.Title, input.Status),
		Link:    &link,
	}
	if err := s.notifications.CreateNotification(ctx, notification); err != nil {
		log.Printf("failed to notify student %s about status change: %v", application.StudentID, err)
	}

	return application, nil
}
