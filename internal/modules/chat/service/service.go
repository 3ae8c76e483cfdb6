package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/careerfindr/careerfindr-api/internal/model"
	chatRepo "github.com/careerfindr/careerfindr-api/internal/modules/chat/repository"
	"github.com/careerfindr/careerfindr-api/internal/realtime"
	"github.com/careerfindr/careerfindr-api/pkg/apperror"
	"github.com/careerfindr/careerfindr-api/pkg/ratelimiter"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// MessageChannelFor names the realtime channel carrying one chat's messages.
func MessageChannelFor(chatID uuid.UUID) string {
	return fmt.Sprintf("chat_messages:%s", chatID.String())
}

// ListChannelFor names the realtime channel carrying one user's chat list.
func ListChannelFor(userID uuid.UUID) string {
	return fmt.Sprintf("user_chats:%s", userID.String())
}

// ParticipantLookup resolves the profile snapshot embedded on a chat.
type ParticipantLookup interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

type ChatService interface {
	GetOrCreateChat(ctx context.Context, userID, partnerID uuid.UUID) (*model.Chat, error)
	ListChats(ctx context.Context, userID uuid.UUID) ([]model.Chat, error)
	GetMessages(ctx context.Context, userID, chatID uuid.UUID, limit, offset int) ([]model.ChatMessage, error)
	SendMessage(ctx context.Context, senderID, chatID uuid.UUID, text string) (*model.ChatMessage, error)
	MarkRead(ctx context.Context, userID, chatID uuid.UUID) error
}

type chatService struct {
	repo        chatRepo.ChatRepository
	users       ParticipantLookup
	rt          *realtime.Manager
	redisClient *redis.Client
}

func NewChatService(repo chatRepo.ChatRepository, users ParticipantLookup, rt *realtime.Manager, redisClient *redis.Client) ChatService {
	return &chatService{
		repo:        repo,
		users:       users,
		rt:          rt,
		redisClient: redisClient,
	}
}

// canonicalPair orders two participant IDs so the unordered pair has exactly
// one stored representation.
func canonicalPair(a, b uuid.UUID) (low, high uuid.UUID) {
	if a.String() < b.String() {
		return a, b
	}
	return b, a
}

// GetOrCreateChat returns the existing conversation between the two users, or
// creates it when none exists. Uniqueness of the pair rests on this
// lookup-before-create, so concurrent first messages may race; the chat list
// surfaces whichever conversation the client ends up writing to.
func (s *chatService) GetOrCreateChat(ctx context.Context, userID, partnerID uuid.UUID) (*model.Chat, error) {
	if userID == partnerID {
		return nil, apperror.ErrBadRequest
	}

	low, high := canonicalPair(userID, partnerID)

	chat, err := s.repo.FindByPair(ctx, low, high)
	if err == nil {
		return chat, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	partner, err := s.users.FindByID(ctx, partnerID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	self, err := s.users.FindByID(ctx, userID.String())
	if err != nil {
		return nil, err
	}

	chat = &model.Chat{
		ParticipantLow:  low,
		ParticipantHigh: high,
		Participants: map[string]model.ChatParticipant{
			self.ID.String():    participantSnapshot(self),
			partner.ID.String(): participantSnapshot(partner),
		},
		UnreadCounts: map[string]int{
			self.ID.String():    0,
			partner.ID.String(): 0,
		},
	}

	if err := s.repo.Create(ctx, chat); err != nil {
		return nil, err
	}

	return chat, nil
}

func participantSnapshot(user *model.User) model.ChatParticipant {
	return model.ChatParticipant{
		Name:   user.FullName,
		Email:  user.Email,
		Avatar: user.AvatarURL,
		Role:   user.Role.Name,
	}
}

func (s *chatService) ListChats(ctx context.Context, userID uuid.UUID) ([]model.Chat, error) {
	return s.repo.FindByUser(ctx, userID)
}

func (s *chatService) memberChat(ctx context.Context, userID, chatID uuid.UUID) (*model.Chat, error) {
	chat, err := s.repo.FindByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	if chat.ParticipantLow != userID && chat.ParticipantHigh != userID {
		return nil, apperror.ErrForbidden
	}
	return chat, nil
}

func (s *chatService) GetMessages(ctx context.Context, userID, chatID uuid.UUID, limit, offset int) ([]model.ChatMessage, error) {
	if _, err := s.memberChat(ctx, userID, chatID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 100
	}
	return s.repo.FindMessages(ctx, chatID, limit, offset)
}

// SendMessage appends to the conversation, bumps the recipient's unread
// count, and signals both participants' live views. Messages are immutable
// once written.
func (s *chatService) SendMessage(ctx context.Context, senderID, chatID uuid.UUID, text string) (*model.ChatMessage, error) {
	chat, err := s.memberChat(ctx, senderID, chatID)
	if err != nil {
		return nil, err
	}

	cooldown := ratelimiter.GetDurationFromEnv("RATE_LIMIT_MESSAGE", time.Second)
	allowed, err := ratelimiter.CheckAndSetRateLimit(ctx, s.redisClient, senderID, "message", cooldown)
	if err != nil {
		return nil, fmt.Errorf("failed to check rate limit: %w", err)
	}
	if !allowed {
		return nil, apperror.ErrRateLimitExceeded
	}

	senderName := ""
	if participant, ok := chat.Participants[senderID.String()]; ok {
		senderName = participant.Name
	}

	message := &model.ChatMessage{
		ChatID:     chatID,
		SenderID:   senderID,
		SenderName: senderName,
		Text:       text,
	}
	if err := s.repo.CreateMessage(ctx, message); err != nil {
		_ = ratelimiter.ClearRateLimit(ctx, s.redisClient, senderID, "message") // rollback cooldown
		return nil, err
	}

	recipientID := chat.ParticipantLow
	if recipientID == senderID {
		recipientID = chat.ParticipantHigh
	}

	now := message.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	chat.LastMessage = &message.Text
	chat.LastMessageTime = &now
	if chat.UnreadCounts == nil {
		chat.UnreadCounts = map[string]int{}
	}
	chat.UnreadCounts[recipientID.String()]++

	if err := s.repo.UpdateLastMessage(ctx, chat); err != nil {
		log.Printf("failed to update chat %s after message: %v", chatID, err)
	}

	s.signalChange(ctx, chat, message)

	return message, nil
}

// MarkRead zeroes the reader's unread counter and flags the partner's
// messages as read.
func (s *chatService) MarkRead(ctx context.Context, userID, chatID uuid.UUID) error {
	chat, err := s.memberChat(ctx, userID, chatID)
	if err != nil {
		return err
	}

	if err := s.repo.MarkMessagesRead(ctx, chatID, userID); err != nil {
		return err
	}

	if chat.UnreadCounts == nil {
		chat.UnreadCounts = map[string]int{}
	}
	chat.UnreadCounts[userID.String()] = 0
	if err := s.repo.UpdateLastMessage(ctx, chat); err != nil {
		return err
	}

	s.signalChange(ctx, chat, nil)
	return nil
}

func (s *chatService) signalChange(ctx context.Context, chat *model.Chat, message *model.ChatMessage) {
	var payload []byte
	if message != nil {
		payload, _ = json.Marshal(message)
	}
	s.rt.Publish(ctx, MessageChannelFor(chat.ID), payload)
	s.rt.Publish(ctx, ListChannelFor(chat.ParticipantLow), payload)
	s.rt.Publish(ctx, ListChannelFor(chat.ParticipantHigh), payload)
}
