package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/careerfindr/careerfindr-api/internal/model"
	"github.com/careerfindr/careerfindr-api/internal/modules/event/dto"
	eventRepo "github.com/careerfindr/careerfindr-api/internal/modules/event/repository"
	notifService "github.com/careerfindr/careerfindr-api/internal/modules/notification/service"
	"github.com/careerfindr/careerfindr-api/internal/realtime"
	"github.com/careerfindr/careerfindr-api/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// reminderWindow is how far ahead the reminder sweep looks.
const reminderWindow = 24 * time.Hour

// ChannelFor names the realtime channel carrying one user's calendar.
func ChannelFor(userID uuid.UUID) string {
	return fmt.Sprintf("user_events:%s", userID.String())
}

type EventService interface {
	Create(ctx context.Context, createdBy uuid.UUID, input dto.CreateEventInput) (*model.Event, error)
	Update(ctx context.Context, userID, eventID uuid.UUID, input dto.UpdateEventInput) (*model.Event, error)
	Delete(ctx context.Context, userID, eventID uuid.UUID) error
	GetUpcoming(ctx context.Context, userID uuid.UUID) ([]model.Event, error)
	SendDueReminders(ctx context.Context) (int, error)
	StartReminderWorker(ctx context.Context, interval time.Duration)
}

type eventService struct {
	repo          eventRepo.EventRepository
	notifications notifService.NotificationService
	rt            *realtime.Manager
}

func NewEventService(repo eventRepo.EventRepository, notifications notifService.NotificationService, rt *realtime.Manager) EventService {
	return &eventService{
		repo:          repo,
		notifications: notifications,
		rt:            rt,
	}
}

func (s *eventService) Create(ctx context.Context, createdBy uuid.UUID, input dto.CreateEventInput) (*model.Event, error) {
	event := &model.Event{
		Title:        input.Title,
		Description:  input.Description,
		Type:         input.Type,
		Location:     input.Location,
		StartsAt:     input.StartsAt,
		EndsAt:       input.EndsAt,
		CreatedBy:    createdBy,
		Participants: input.Participants,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}

	s.notifyParticipants(ctx, event, "Event invitation",
		fmt.Sprintf("You have been invited to %q on %s", event.Title, event.StartsAt.Format("Jan 2, 15:04")))
	s.signalCalendars(ctx, event)

	return event, nil
}

func (s *eventService) Update(ctx context.Context, userID, eventID uuid.UUID, input dto.UpdateEventInput) (*model.Event, error) {
	event, err := s.ownedEvent(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		event.Title = *input.Title
	}
	if input.Description != nil {
		event.Description = input.Description
	}
	if input.Type != nil {
		event.Type = *input.Type
	}
	if input.Location != nil {
		event.Location = input.Location
	}
	if input.StartsAt != nil {
		event.StartsAt = *input.StartsAt
		// A rescheduled event earns a fresh reminder.
		event.ReminderSent = false
	}
	if input.EndsAt != nil {
		event.EndsAt = input.EndsAt
	}

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, err
	}
	s.signalCalendars(ctx, event)

	return event, nil
}

func (s *eventService) Delete(ctx context.Context, userID, eventID uuid.UUID) error {
	event, err := s.ownedEvent(ctx, userID, eventID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, eventID); err != nil {
		return err
	}
	s.signalCalendars(ctx, event)
	return nil
}

func (s *eventService) GetUpcoming(ctx context.Context, userID uuid.UUID) ([]model.Event, error) {
	return s.repo.FindUpcomingForUser(ctx, userID)
}

// SendDueReminders notifies participants of events starting within the
// reminder window. Each event is reminded at most once; a failed sweep leaves
// the flag unset so the next run retries.
func (s *eventService) SendDueReminders(ctx context.Context) (int, error) {
	events, err := s.repo.FindDueForReminder(ctx, reminderWindow)
	if err != nil {
		return 0, err
	}

	reminded := 0
	for i := range events {
		event := &events[i]
		s.notifyParticipants(ctx, event, "Upcoming event",
			fmt.Sprintf("%q starts at %s", event.Title, event.StartsAt.Format("Jan 2, 15:04")))

		if err := s.repo.MarkReminderSent(ctx, event.ID); err != nil {
			log.Printf("failed to mark reminder sent for event %s: %v", event.ID, err)
			continue
		}
		reminded++
	}

	return reminded, nil
}

// StartReminderWorker sweeps for due reminders on an interval until ctx ends.
func (s *eventService) StartReminderWorker(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := s.SendDueReminders(ctx); err != nil {
					log.Printf("event reminder sweep failed: %v", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (s *eventService) ownedEvent(ctx context.Context, userID, eventID uuid.UUID) (*model.Event, error) {
	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	if event.CreatedBy != userID {
		return nil, apperror.ErrForbidden
	}
	return event, nil
}

// signalCalendars tells the creator's and every participant's live calendar
// view to reload.
func (s *eventService) signalCalendars(ctx context.Context, event *model.Event) {
	s.rt.Publish(ctx, ChannelFor(event.CreatedBy), nil)
	for _, participantID := range event.Participants {
		s.rt.Publish(ctx, ChannelFor(participantID), nil)
	}
}

func (s *eventService) notifyParticipants(ctx context.Context, event *model.Event, title, message string) {
	link := fmt.Sprintf("/events/%s", event.ID)
	for _, participantID := range event.Participants {
		notification := &model.Notification{
			UserID:  participantID,
			Type:    model.NotificationEvent,
			Title:   title,
			Message: message,
			Link:    &link,
		}
		if err := s.notifications.CreateNotification(ctx, notification); err != nil {
			log.Printf("failed to notify participant %s for event %s: %v", participantID, event.ID, err)
		}
	}
}
