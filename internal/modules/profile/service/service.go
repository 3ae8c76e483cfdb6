package service

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/careerfindr/careerfindr-api/internal/model"
	"github.com/careerfindr/careerfindr-api/internal/modules/profile/dto"
	profileRepo "github.com/careerfindr/careerfindr-api/internal/modules/profile/repository"
	"github.com/careerfindr/careerfindr-api/pkg/apperror"
	"github.com/careerfindr/careerfindr-api/pkg/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileService interface {
	GetCandidate(ctx context.Context, userID uuid.UUID) (*model.CandidateProfile, error)
	UpdateCandidate(ctx context.Context, userID uuid.UUID, input dto.UpdateCandidateInput) (*model.CandidateProfile, error)
	UploadResume(ctx context.Context, userID uuid.UUID, r io.Reader, fileName string) (*model.CandidateProfile, error)

	GetOrg(ctx context.Context, userID uuid.UUID) (*model.OrgProfile, error)
	UpdateOrg(ctx context.Context, userID uuid.UUID, input dto.UpdateOrgInput) (*model.OrgProfile, error)
	UploadLogo(ctx context.Context, userID uuid.UUID, r io.Reader, fileName string) (*model.OrgProfile, error)
	UploadVerification(ctx context.Context, userID uuid.UUID, r io.Reader, fileName string) (*model.OrgProfile, error)

	UploadAvatar(ctx context.Context, userID uuid.UUID, r io.Reader, fileName string) (string, error)
}

type profileService struct {
	repo    profileRepo.ProfileRepository
	storage storage.FileStorage
}

func NewProfileService(repo profileRepo.ProfileRepository, fileStorage storage.FileStorage) ProfileService {
	return &profileService{
		repo:    repo,
		storage: fileStorage,
	}
}

func (s *profileService) GetCandidate(ctx context.Context, userID uuid.UUID) (*model.CandidateProfile, error) {
	profile, err := s.repo.FindCandidateByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (s *profileService) UpdateCandidate(ctx context.Context, userID uuid.UUID, input dto.UpdateCandidateInput) (*model.CandidateProfile, error) {
	profile, err := s.GetCandidate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Headline != nil {
		profile.Headline = input.Headline
	}
	if input.Bio != nil {
		profile.Bio = input.Bio
	}
	if input.Skills != nil {
		profile.Skills = input.Skills
	}
	if input.ExperienceLevel != nil {
		profile.ExperienceLevel = *input.ExperienceLevel
	}
	if input.Education != nil {
		profile.Education = input.Education
	}

	if err := s.repo.SaveCandidate(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *profileService) UploadResume(ctx context.Context, userID uuid.UUID, r io.Reader, fileName string) (*model.CandidateProfile, error) {
	profile, err := s.GetCandidate(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := s.uploadReplacing(ctx, r, "resumes", fileName, profile.ResumeURL)
	if err != nil {
		return nil, err
	}

	profile.ResumeURL = &url
	if err := s.repo.SaveCandidate(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *profileService) GetOrg(ctx context.Context, userID uuid.UUID) (*model.OrgProfile, error) {
	profile, err := s.repo.FindOrgByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (s *profileService) UpdateOrg(ctx context.Context, userID uuid.UUID, input dto.UpdateOrgInput) (*model.OrgProfile, error) {
	profile, err := s.GetOrg(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.OrgName != nil {
		profile.OrgName = *input.OrgName
	}
	if input.Website != nil {
		profile.Website = input.Website
	}
	if input.About != nil {
		profile.About = input.About
	}
	if input.Address != nil {
		profile.Address = input.Address
	}

	if err := s.repo.SaveOrg(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *profileService) UploadLogo(ctx context.Context, userID uuid.UUID, r io.Reader, fileName string) (*model.OrgProfile, error) {
	profile, err := s.GetOrg(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := s.uploadReplacing(ctx, r, "logos", fileName, profile.LogoURL)
	if err != nil {
		return nil, err
	}

	profile.LogoURL = &url
	if err := s.repo.SaveOrg(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *profileService) UploadVerification(ctx context.Context, userID uuid.UUID, r io.Reader, fileName string) (*model.OrgProfile, error) {
	profile, err := s.GetOrg(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := s.uploadReplacing(ctx, r, "verifications", fileName, profile.VerificationURL)
	if err != nil {
		return nil, err
	}

	profile.VerificationURL = &url
	if err := s.repo.SaveOrg(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *profileService) UploadAvatar(ctx context.Context, userID uuid.UUID, r io.Reader, fileName string) (string, error) {
	if s.storage == nil {
		return "", apperror.ErrInternal
	}

	url, err := s.storage.UploadFile(ctx, r, "avatars", fileName)
	if err != nil {
		return "", err
	}

	if err := s.repo.UpdateAvatar(ctx, userID, url); err != nil {
		return "", err
	}
	return url, nil
}

// uploadReplacing uploads the new file and best-effort deletes the one it
// replaces.
func (s *profileService) uploadReplacing(ctx context.Context, r io.Reader, folder, fileName string, oldURL *string) (string, error) {
	if s.storage == nil {
		return "", apperror.ErrInternal
	}

	url, err := s.storage.UploadFile(ctx, r, folder, fileName)
	if err != nil {
		return "", err
	}

	if oldURL != nil && *oldURL != "" {
		if err := s.storage.DeleteFile(ctx, *oldURL); err != nil {
			log.Printf("failed to delete replaced file %s: %v", *oldURL, err)
		}
	}

	return url, nil
}
