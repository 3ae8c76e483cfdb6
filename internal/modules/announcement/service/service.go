package service

import (
	"context"
	"fmt"
	"log"

	"github.com/careerfindr/careerfindr-api/internal/model"
	"github.com/careerfindr/careerfindr-api/internal/modules/announcement/dto"
	announcementRepo "github.com/careerfindr/careerfindr-api/internal/modules/announcement/repository"
	"github.com/google/uuid"
)

// RecipientDirectory resolves fan-out recipients; the user repository
// satisfies it.
type RecipientDirectory interface {
	FindAllIDs(ctx context.Context) ([]uuid.UUID, error)
	FindIDsByRole(ctx context.Context, role string) ([]uuid.UUID, error)
}

// Notifier writes one notification; the notification service satisfies it.
type Notifier interface {
	CreateNotification(ctx context.Context, notification *model.Notification) error
}

type AnnouncementService interface {
	Create(ctx context.Context, createdBy uuid.UUID, input dto.CreateAnnouncementInput) (*model.Announcement, int, error)
	Update(ctx context.Context, id uuid.UUID, input dto.UpdateAnnouncementInput) (*model.Announcement, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetAll(ctx context.Context) ([]model.Announcement, error)
	GetActiveForRole(ctx context.Context, role string) ([]model.Announcement, error)
}

type announcementService struct {
	repo          announcementRepo.AnnouncementRepository
	users         RecipientDirectory
	notifications Notifier
}

func NewAnnouncementService(repo announcementRepo.AnnouncementRepository, users RecipientDirectory, notifications Notifier) AnnouncementService {
	return &announcementService{
		repo:          repo,
		users:         users,
		notifications: notifications,
	}
}

// Create stores the announcement and, when it is active, fans one
// notification out to every account in the target audience. The returned
// count is the number of notifications actually written.
//
// Fan-out runs at creation time only: later edits or is_active toggles never
// create, update or remove notifications for the new audience.
func (s *announcementService) Create(ctx context.Context, createdBy uuid.UUID, input dto.CreateAnnouncementInput) (*model.Announcement, int, error) {
	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	announcement := &model.Announcement{
		Title:          input.Title,
		Message:        input.Message,
		Type:           input.Type,
		TargetAudience: input.TargetAudience,
		IsActive:       isActive,
		CreatedBy:      createdBy,
	}

	if err := s.repo.Create(ctx, announcement); err != nil {
		return nil, 0, err
	}

	created := 0
	if announcement.IsActive {
		created = s.fanOut(ctx, announcement)
	}

	return announcement, created, nil
}

// fanOut materializes one notification per recipient. Failures are logged and
// swallowed: a partially failed fan-out never fails the create operation.
func (s *announcementService) fanOut(ctx context.Context, announcement *model.Announcement) int {
	var (
		recipients []uuid.UUID
		err        error
	)

	if announcement.TargetAudience == model.AudienceAll {
		recipients, err = s.users.FindAllIDs(ctx)
	} else {
		recipients, err = s.users.FindIDsByRole(ctx, announcement.TargetAudience)
	}
	if err != nil {
		log.Printf("announcement fan-out: failed to resolve recipients: %v", err)
		return 0
	}

	link := fmt.Sprintf("/announcements/%s", announcement.ID)

	created := 0
	for _, recipient := range recipients {
		announcementID := announcement.ID
		notification := &model.Notification{
			UserID:         recipient,
			Type:           model.NotificationAnnouncement,
			Title:          announcement.Title,
			Message:        announcement.Message,
			Link:           &link,
			AnnouncementID: &announcementID,
		}
		if err := s.notifications.CreateNotification(ctx, notification); err != nil {
			log.Printf("announcement fan-out: failed to notify %s: %v", recipient, err)
			continue
		}
		created++
	}

	return created
}

func (s *announcementService) Update(ctx context.Context, id uuid.UUID, input dto.UpdateAnnouncementInput) (*model.Announcement, error) {
	announcement, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		announcement.Title = *input.Title
	}
	if input.Message != nil {
		announcement.Message = *input.Message
	}
	if input.Type != nil {
		announcement.Type = *input.Type
	}
	if input.TargetAudience != nil {
		announcement.TargetAudience = *input.TargetAudience
	}
	if input.IsActive != nil {
		announcement.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, announcement); err != nil {
		return nil, err
	}

	return announcement, nil
}

func (s *announcementService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *announcementService) GetAll(ctx context.Context) ([]model.Announcement, error) {
	return s.repo.FindAll(ctx)
}

func (s *announcementService) GetActiveForRole(ctx context.Context, role string) ([]model.Announcement, error) {
	return s.repo.FindActiveForAudience(ctx, role)
}
