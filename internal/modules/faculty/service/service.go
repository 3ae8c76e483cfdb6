package service

import (
	"context"
	"errors"
	"log"

	"github.com/careerfindr/careerfindr-api/internal/model"
	"github.com/careerfindr/careerfindr-api/internal/modules/faculty/dto"
	facultyRepo "github.com/careerfindr/careerfindr-api/internal/modules/faculty/repository"
	searchService "github.com/careerfindr/careerfindr-api/internal/modules/search/service"
	"github.com/careerfindr/careerfindr-api/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FacultyService interface {
	CreateFaculty(ctx context.Context, instituteID uuid.UUID, input dto.CreateFacultyInput) (*model.Faculty, error)
	UpdateFaculty(ctx context.Context, instituteID, facultyID uuid.UUID, input dto.UpdateFacultyInput) (*model.Faculty, error)
	DeleteFaculty(ctx context.Context, instituteID, facultyID uuid.UUID) error
	ListFaculties(ctx context.Context, instituteID uuid.UUID) ([]model.Faculty, error)

	CreateCourse(ctx context.Context, instituteID, facultyID uuid.UUID, input dto.CreateCourseInput) (*model.Course, error)
	UpdateCourse(ctx context.Context, instituteID, courseID uuid.UUID, input dto.UpdateCourseInput) (*model.Course, error)
	DeleteCourse(ctx context.Context, instituteID, courseID uuid.UUID) error
}

type facultyService struct {
	repo   facultyRepo.FacultyRepository
	search searchService.SearchService
}

func NewFacultyService(repo facultyRepo.FacultyRepository, search searchService.SearchService) FacultyService {
	return &facultyService{
		repo:   repo,
		search: search,
	}
}

func (s *facultyService) CreateFaculty(ctx context.Context, instituteID uuid.UUID, input dto.CreateFacultyInput) (*model.Faculty, error) {
	faculty := &model.Faculty{
		InstituteID: instituteID,
		Name:        input.Name,
		Description: input.Description,
	}
	if err := s.repo.CreateFaculty(ctx, faculty); err != nil {
		return nil, err
	}
	return faculty, nil
}

func (s *facultyService) UpdateFaculty(ctx context.Context, instituteID, facultyID uuid.UUID, input dto.UpdateFacultyInput) (*model.Faculty, error) {
	faculty, err := s.ownedFaculty(ctx, instituteID, facultyID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		faculty.Name = *input.Name
	}
	if input.Description != nil {
		faculty.Description = input.Description
	}

	if err := s.repo.UpdateFaculty(ctx, faculty); err != nil {
		return nil, err
	}
	return faculty, nil
}

// DeleteFaculty removes the faculty and its courses; each course is also
// dropped from the search index.
func (s *facultyService) DeleteFaculty(ctx context.Context, instituteID, facultyID uuid.UUID) error {
	faculty, err := s.ownedFaculty(ctx, instituteID, facultyID)
	if err != nil {
		return err
	}

	for _, course := range faculty.Courses {
		if s.search != nil {
			if err := s.search.DeleteCourse(course.ID.String()); err != nil {
				log.Printf("failed to remove course %s from index: %v", course.ID, err)
			}
		}
	}

	return s.repo.DeleteFaculty(ctx, facultyID)
}

func (s *facultyService) ListFaculties(ctx context.Context, instituteID uuid.UUID) ([]model.Faculty, error) {
	return s.repo.FindFacultiesByInstitute(ctx, instituteID)
}

func (s *facultyService) CreateCourse(ctx context.Context, instituteID, facultyID uuid.UUID, input dto.CreateCourseInput) (*model.Course, error) {
	faculty, err := s.ownedFaculty(ctx, instituteID, facultyID)
	if err != nil {
		return nil, err
	}

	course := &model.Course{
		FacultyID:      facultyID,
		Name:           input.Name,
		Description:    input.Description,
		DurationMonths: input.DurationMonths,
		Level:          input.Level,
	}
	if err := s.repo.CreateCourse(ctx, course); err != nil {
		return nil, err
	}

	if s.search != nil {
		if err := s.search.IndexCourse(course, faculty.Name); err != nil {
			log.Printf("failed to index course %s: %v", course.ID, err)
		}
	}

	return course, nil
}

func (s *facultyService) UpdateCourse(ctx context.Context, instituteID, courseID uuid.UUID, input dto.UpdateCourseInput) (*model.Course, error) {
	course, faculty, err := s.ownedCourse(ctx, instituteID, courseID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		course.Name = *input.Name
	}
	if input.Description != nil {
		course.Description = input.Description
	}
	if input.DurationMonths != nil {
		course.DurationMonths = input.DurationMonths
	}
	if input.Level != nil {
		course.Level = input.Level
	}

	if err := s.repo.UpdateCourse(ctx, course); err != nil {
		return nil, err
	}

	if s.search != nil {
		if err := s.search.IndexCourse(course, faculty.Name); err != nil {
			log.Printf("failed to reindex course %s: %v", course.ID, err)
		}
	}

	return course, nil
}

func (s *facultyService) DeleteCourse(ctx context.Context, instituteID, courseID uuid.UUID) error {
	course, _, err := s.ownedCourse(ctx, instituteID, courseID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteCourse(ctx, courseID); err != nil {
		return err
	}

	if s.search != nil {
		if err := s.search.DeleteCourse(course.ID.String()); err != nil {
			log.Printf("failed to remove course %s from index: %v", course.ID, err)
		}
	}

	return nil
}

func (s *facultyService) ownedFaculty(ctx context.Context, instituteID, facultyID uuid.UUID) (*model.Faculty, error) {
	faculty, err := s.repo.FindFacultyByID(ctx, facultyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	if faculty.InstituteID != instituteID {
		return nil, apperror.ErrForbidden
	}
	return faculty, nil
}

func (s *facultyService) ownedCourse(ctx context.Context, instituteID, courseID uuid.UUID) (*model.Course, *model.Faculty, error) {
	course, err := s.repo.FindCourseByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperror.ErrNotFound
		}
		return nil, nil, err
	}
	faculty, err := s.ownedFaculty(ctx, instituteID, course.FacultyID)
	if err != nil {
		return nil, nil, err
	}
	return course, faculty, nil
}
