package service

import (
	"context"
	"errors"
	"log"

	"github.com/careerfindr/careerfindr-api/internal/model"
	"github.com/careerfindr/careerfindr-api/internal/modules/job/dto"
	jobRepo "github.com/careerfindr/careerfindr-api/internal/modules/job/repository"
	searchService "github.com/careerfindr/careerfindr-api/internal/modules/search/service"
	userRepo "github.com/careerfindr/careerfindr-api/internal/modules/user/repository"
	"github.com/careerfindr/careerfindr-api/pkg/apperror"
	pkgdto "github.com/careerfindr/careerfindr-api/pkg/dto"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JobService interface {
	Create(ctx context.Context, companyID uuid.UUID, input dto.CreateJobInput) (*model.JobPosting, error)
	Update(ctx context.Context, companyID, jobID uuid.UUID, input dto.UpdateJobInput) (*model.JobPosting, error)
	Delete(ctx context.Context, companyID, jobID uuid.UUID) error
	Get(ctx context.Context, jobID uuid.UUID, viewerID uuid.UUID) (*model.JobPosting, error)
	List(ctx context.Context, filter dto.JobListFilter) (*dto.JobListResponse, error)
	MyJobs(ctx context.Context, companyID uuid.UUID) ([]model.JobPosting, error)
	MatchForCandidate(ctx context.Context, jobID, studentID uuid.UUID) (*dto.MatchResponse, error)
}

type jobService struct {
	repo   jobRepo.JobRepository
	users  userRepo.UserRepository
	search searchService.SearchService
	views  ViewCounter
}

func NewJobService(repo jobRepo.JobRepository, users userRepo.UserRepository, search searchService.SearchService, views ViewCounter) JobService {
	return &jobService{
		repo:   repo,
		users:  users,
		search: search,
		views:  views,
	}
}

func (s *jobService) Create(ctx context.Context, companyID uuid.UUID, input dto.CreateJobInput) (*model.JobPosting, error) {
	job := &model.JobPosting{
		CompanyID:       companyID,
		Title:           input.Title,
		Description:     input.Description,
		Skills:          input.Skills,
		ExperienceLevel: input.ExperienceLevel,
		Location:        input.Location,
		SalaryMin:       input.SalaryMin,
		SalaryMax:       input.SalaryMax,
		Deadline:        input.Deadline,
		IsActive:        true,
	}

	if err := s.repo.Create(ctx, job); err != nil {
		return nil, err
	}

	if s.search != nil {
		if err := s.search.IndexJob(job); err != nil {
			log.Printf("failed to index job %s: %v", job.ID, err)
		}
	}

	return job, nil
}

func (s *jobService) Update(ctx context.Context, companyID, jobID uuid.UUID, input dto.UpdateJobInput) (*model.JobPosting, error) {
	job, err := s.repo.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if job.CompanyID != companyID {
		return nil, apperror.ErrForbidden
	}

	if input.Title != nil {
		job.Title = *input.Title
	}
	if input.Description != nil {
		job.Description = *input.Description
	}
	if input.Skills != nil {
		job.Skills = input.Skills
	}
	if input.ExperienceLevel != nil {
		job.ExperienceLevel = *input.ExperienceLevel
	}
	if input.Location != nil {
		job.Location = input.Location
	}
	if input.SalaryMin != nil {
		job.SalaryMin = input.SalaryMin
	}
	if input.SalaryMax != nil {
		job.SalaryMax = input.SalaryMax
	}
	if input.Deadline != nil {
		job.Deadline = input.Deadline
	}
	if input.IsActive != nil {
		job.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, job); err != nil {
		return nil, err
	}

	if s.search != nil {
		if err := s.search.IndexJob(job); err != nil {
			log.Printf("failed to reindex job %s: %v", job.ID, err)
		}
	}

	return job, nil
}

func (s *jobService) Delete(ctx context.Context, companyID, jobID uuid.UUID) error {
	job, err := s.repo.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.ErrNotFound
		}
		return err
	}

	if job.CompanyID != companyID {
		return apperror.ErrForbidden
	}

	if err := s.repo.Delete(ctx, jobID); err != nil {
		return err
	}

	if s.search != nil {
		if err := s.search.DeleteJob(jobID.String()); err != nil {
			log.Printf("failed to remove job %s from index: %v", jobID, err)
		}
	}

	return nil
}

func (s *jobService) Get(ctx context.Context, jobID uuid.UUID, viewerID uuid.UUID) (*model.JobPosting, error) {
	job, err := s.repo.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if s.views != nil {
		if err := s.views.IncrementView(ctx, jobID, viewerID); err != nil {
			log.Printf("failed to count view for job %s: %v", jobID, err)
		}
	}

	return job, nil
}

func (s *jobService) List(ctx context.Context, filter dto.JobListFilter) (*dto.JobListResponse, error) {
	jobs, total, err := s.repo.FindAll(ctx, jobRepo.JobFilter{
		ExperienceLevel: filter.ExperienceLevel,
		Location:        filter.Location,
		ActiveOnly:      true,
		Limit:           filter.Limit,
		Offset:          (filter.Page - 1) * filter.Limit,
	})
	if err != nil {
		return nil, err
	}

	totalPages := 0
	if filter.Limit > 0 {
		totalPages = int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	}

	return &dto.JobListResponse{
		Data: jobs,
		Meta: pkgdto.PaginationMeta{
			CurrentPage: filter.Page,
			TotalPages:  totalPages,
			TotalItems:  total,
			Limit:       filter.Limit,
		},
	}, nil
}

func (s *jobService) MyJobs(ctx context.Context, companyID uuid.UUID) ([]model.JobPosting, error) {
	return s.repo.FindByCompany(ctx, companyID)
}

// MatchForCandidate scores the student against the job's requirements. The
// score is always derived from the current documents on both sides.
func (s *jobService) MatchForCandidate(ctx context.Context, jobID, studentID uuid.UUID) (*dto.MatchResponse, error) {
	job, err := s.repo.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	student, err := s.users.FindByID(ctx, studentID.String())
	if err != nil {
		return nil, err
	}

	var candidateSkills []string
	var candidateExperience string
	if student.CandidateProfile != nil {
		candidateSkills = student.CandidateProfile.Skills
		candidateExperience = student.CandidateProfile.ExperienceLevel
	}

	score := MatchScore(job.Skills, job.ExperienceLevel, candidateSkills, candidateExperience)

	return &dto.MatchResponse{
		JobID: job.ID.String(),
		Score: score,
	}, nil
}
