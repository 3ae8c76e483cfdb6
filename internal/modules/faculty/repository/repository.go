package repository

import (
	"context"

	"github.com/careerfindr/careerfindr-api/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FacultyRepository interface {
	CreateFaculty(ctx context.Context, faculty *model.Faculty) error
	FindFacultyByID(ctx context.Context, id uuid.UUID) (*model.Faculty, error)
	FindFacultiesByInstitute(ctx context.Context, instituteID uuid.UUID) ([]model.Faculty, error)
	UpdateFaculty(ctx context.Context, faculty *model.Faculty) error
	DeleteFaculty(ctx context.Context, id uuid.UUID) error

	CreateCourse(ctx context.Context, course *model.Course) error
	FindCourseByID(ctx context.Context, id uuid.UUID) (*model.Course, error)
	UpdateCourse(ctx context.Context, course *model.Course) error
	DeleteCourse(ctx context.Context, id uuid.UUID) error
}

type facultyRepository struct {
	db *gorm.DB
}

func NewFacultyRepository(db *gorm.DB) FacultyRepository {
	return &facultyRepository{db: db}
}

func (r *facultyRepository) CreateFaculty(ctx context.Context, faculty *model.Faculty) error {
	return r.db.WithContext(ctx).Create(faculty).Error
}

func (r *facultyRepository) FindFacultyByID(ctx context.Context, id uuid.UUID) (*model.Faculty, error) {
	var faculty model.Faculty
	err := r.db.WithContext(ctx).
		Preload("Courses").
		Where("id = ?", id).
		First(&faculty).Error
	if err != nil {
		return nil, err
	}
	return &faculty, nil
}

func (r *facultyRepository) FindFacultiesByInstitute(ctx context.Context, instituteID uuid.UUID) ([]model.Faculty, error) {
	var faculties []model.Faculty
	err := r.db.WithContext(ctx).
		Preload("Courses").
		Where("institute_id = ?", instituteID).
		Order("name asc").
		Find(&faculties).Error
	return faculties, err
}

func (r *facultyRepository) UpdateFaculty(ctx context.Context, faculty *model.Faculty) error {
	return r.db.WithContext(ctx).Save(faculty).Error
}

func (r *facultyRepository) DeleteFaculty(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Faculty{}, "id = ?", id).Error
}

func (r *facultyRepository) CreateCourse(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *facultyRepository) FindCourseByID(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *facultyRepository) UpdateCourse(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

func (r *facultyRepository) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Course{}, "id = ?", id).Error
}
