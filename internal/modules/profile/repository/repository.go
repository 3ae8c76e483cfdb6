package repository

import (
	"context"

	"github.com/careerfindr/careerfindr-api/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileRepository interface {
	FindCandidateByUserID(ctx context.Context, userID uuid.UUID) (*model.CandidateProfile, error)
	SaveCandidate(ctx context.Context, profile *model.CandidateProfile) error
	FindOrgByUserID(ctx context.Context, userID uuid.UUID) (*model.OrgProfile, error)
	SaveOrg(ctx context.Context, profile *model.OrgProfile) error
	UpdateAvatar(ctx context.Context, userID uuid.UUID, url string) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) FindCandidateByUserID(ctx context.Context, userID uuid.UUID) (*model.CandidateProfile, error) {
	var profile model.CandidateProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) SaveCandidate(ctx context.Context, profile *model.CandidateProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

func (r *profileRepository) FindOrgByUserID(ctx context.Context, userID uuid.UUID) (*model.OrgProfile, error) {
	var profile model.OrgProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) SaveOrg(ctx context.Context, profile *model.OrgProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

func (r *profileRepository) UpdateAvatar(ctx context.Context, userID uuid.UUID, url string) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		Update("avatar_url", url).Error
}
