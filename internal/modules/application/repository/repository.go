package repository

import (
	"context"

	"github.com/careerfindr/careerfindr-api/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApplicationRepository interface {
	Create(ctx context.Context, application *model.Application) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Application, error)
	FindByJob(ctx context.Context, jobID uuid.UUID) ([]model.Application, error)
	FindByStudent(ctx context.Context, studentID uuid.UUID) ([]model.Application, error)
	FindByJobAndStudent(ctx context.Context, jobID, studentID uuid.UUID) (*model.Application, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Count(ctx context.Context) (int64, error)
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(ctx context.Context, application *model.Application) error {
	return r.db.WithContext(ctx).Create(application).Error
}

func (r *applicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	var application model.Application
	err := r.db.WithContext(ctx).
		Preload("Job").
		Preload("Student", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "full_name", "email", "avatar_url")
		}).
		Preload("Student.CandidateProfile").
		Where("id = ?", id).
		First(&application).Error
	if err != nil {
		return nil, err
	}
	return &application, nil
}

func (r *applicationRepository) FindByJob(ctx context.Context, jobID uuid.UUID) ([]model.Application, error) {
	var applications []model.Application
	err := r.db.WithContext(ctx).
		Preload("Student", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "full_name", "email", "avatar_url")
		}).
		Preload("Student.CandidateProfile").
		Where("job_id = ?", jobID).
		Order("created_at desc").
		Find(&applications).Error
	return applications, err
}

func (r *applicationRepository) FindByStudent(ctx context.Context, studentID uuid.UUID) ([]model.Application, error) {
	var applications []model.Application
	err := r.db.WithContext(ctx).
		Preload("Job").
		Where("student_id = ?", studentID).
		Order("created_at desc").
		Find(&applications).Error
	return applications, err
}

func (r *applicationRepository) FindByJobAndStudent(ctx context.Context, jobID, studentID uuid.UUID) (*model.Application, error) {
	var application model.Application
	err := r.db.WithContext(ctx).
		Where("job_id = ? AND student_id = ?", jobID, studentID).
		First(&application).Error
	if err != nil {
		return nil, err
	}
	return &application, nil
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.Application{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *applicationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Application{}).Count(&count).Error
	return count, err
}
