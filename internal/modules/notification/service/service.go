package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/careerfindr/careerfindr-api/internal/model"
	notifRepo "github.com/careerfindr/careerfindr-api/internal/modules/notification/repository"
	"github.com/careerfindr/careerfindr-api/internal/realtime"
	"github.com/google/uuid"
)

// ChannelFor names the realtime channel carrying one user's notifications.
func ChannelFor(userID uuid.UUID) string {
	return fmt.Sprintf("user_notifications:%s", userID.String())
}

type NotificationService interface {
	CreateNotification(ctx context.Context, notification *model.Notification) error
	GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, error)
	MarkAsRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

type notificationService struct {
	repo notifRepo.NotificationRepository
	rt   *realtime.Manager
}

func NewNotificationService(repo notifRepo.NotificationRepository, rt *realtime.Manager) NotificationService {
	return &notificationService{
		repo: repo,
		rt:   rt,
	}
}

func (s *notificationService) CreateNotification(ctx context.Context, notification *model.Notification) error {
	// 1. Save to DB
	if err := s.repo.Create(ctx, notification); err != nil {
		return err
	}

	// 2. Signal the recipient's live view. Subscribers reload the full
	// snapshot, so the payload is informational only.
	if payload, err := json.Marshal(notification); err == nil {
		s.rt.Publish(ctx, ChannelFor(notification.UserID), payload)
	}

	return nil
}

func (s *notificationService) GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, error) {
	return s.repo.GetByUserID(ctx, userID, limit, offset)
}

func (s *notificationService) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, id, userID)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}
