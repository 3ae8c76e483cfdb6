package repository

import (
	"context"

	"github.com/careerfindr/careerfindr-api/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JobFilter struct {
	ExperienceLevel string
	Location        string
	ActiveOnly      bool
	Limit           int
	Offset          int
}

type JobRepository interface {
	Create(ctx context.Context, job *model.JobPosting) error
	Update(ctx context.Context, job *model.JobPosting) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.JobPosting, error)
	FindAll(ctx context.Context, filter JobFilter) ([]model.JobPosting, int64, error)
	FindByCompany(ctx context.Context, companyID uuid.UUID) ([]model.JobPosting, error)
	Count(ctx context.Context) (int64, error)
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) Create(ctx context.Context, job *model.JobPosting) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *jobRepository) Update(ctx context.Context, job *model.JobPosting) error {
	return r.db.WithContext(ctx).Save(job).Error
}

func (r *jobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.JobPosting{}, "id = ?", id).Error
}

func (r *jobRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.JobPosting, error) {
	var job model.JobPosting
	err := r.db.WithContext(ctx).
		Preload("Company", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "full_name", "avatar_url")
		}).
		Where("id = ?", id).
		First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *jobRepository) FindAll(ctx context.Context, filter JobFilter) ([]model.JobPosting, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.JobPosting{})

	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.ExperienceLevel != "" {
		query = query.Where("experience_level = ?", filter.ExperienceLevel)
	}
	if filter.Location != "" {
		query = query.Where("location ILIKE ?", "%"+filter.Location+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var jobs []model.JobPosting
	err := query.
		Preload("Company", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "full_name", "avatar_url")
		}).
		Order("created_at desc").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&jobs).Error
	return jobs, total, err
}

func (r *jobRepository) FindByCompany(ctx context.Context, companyID uuid.UUID) ([]model.JobPosting, error) {
	var jobs []model.JobPosting
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at desc").
		Find(&jobs).Error
	return jobs, err
}

func (r *jobRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.JobPosting{}).Count(&count).Error
	return count, err
}
