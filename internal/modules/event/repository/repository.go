package repository

import (
	"context"
	"time"

	"github.com/careerfindr/careerfindr-api/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error)
	Update(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindUpcomingForUser(ctx context.Context, userID uuid.UUID) ([]model.Event, error)
	FindDueForReminder(ctx context.Context, within time.Duration) ([]model.Event, error)
	MarkReminderSent(ctx context.Context, id uuid.UUID) error
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	var event model.Event
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) Update(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *eventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Event{}, "id = ?", id).Error
}

// FindUpcomingForUser returns future events the user created or participates
// in. Participants is a serialized JSON array, so membership is matched as a
// substring of the stored document.
func (r *eventRepository) FindUpcomingForUser(ctx context.Context, userID uuid.UUID) ([]model.Event, error) {
	var events []model.Event
	err := r.db.WithContext(ctx).
		Where("starts_at >= ?", time.Now()).
		Where("created_by = ? OR participants::text LIKE ?", userID, "%"+userID.String()+"%").
		Order("starts_at asc").
		Find(&events).Error
	return events, err
}

func (r *eventRepository) FindDueForReminder(ctx context.Context, within time.Duration) ([]model.Event, error) {
	var events []model.Event
	now := time.Now()
	err := r.db.WithContext(ctx).
		Where("reminder_sent = false").
		Where("starts_at > ? AND starts_at <= ?", now, now.Add(within)).
		Find(&events).Error
	return events, err
}

func (r *eventRepository) MarkReminderSent(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Event{}).
		Where("id = ?", id).
		Update("reminder_sent", true).Error
}
