package repository

import (
	"context"
	"time"

	"github.com/careerfindr/careerfindr-api/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatRepository interface {
	Create(ctx context.Context, chat *model.Chat) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Chat, error)
	FindByPair(ctx context.Context, low, high uuid.UUID) (*model.Chat, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]model.Chat, error)
	CreateMessage(ctx context.Context, message *model.ChatMessage) error
	FindMessages(ctx context.Context, chatID uuid.UUID, limit, offset int) ([]model.ChatMessage, error)
	UpdateLastMessage(ctx context.Context, chat *model.Chat) error
	MarkMessagesRead(ctx context.Context, chatID, readerID uuid.UUID) error
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Create(ctx context.Context, chat *model.Chat) error {
	return r.db.WithContext(ctx).Create(chat).Error
}

func (r *chatRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Chat, error) {
	var chat model.Chat
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&chat).Error
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *chatRepository) FindByPair(ctx context.Context, low, high uuid.UUID) (*model.Chat, error) {
	var chat model.Chat
	err := r.db.WithContext(ctx).
		Where("participant_low = ? AND participant_high = ?", low, high).
		First(&chat).Error
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *chatRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]model.Chat, error) {
	var chats []model.Chat
	err := r.db.WithContext(ctx).
		Where("participant_low = ? OR participant_high = ?", userID, userID).
		Order("updated_at desc").
		Find(&chats).Error
	return chats, err
}

func (r *chatRepository) CreateMessage(ctx context.Context, message *model.ChatMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *chatRepository) FindMessages(ctx context.Context, chatID uuid.UUID, limit, offset int) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at asc").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	return messages, err
}

func (r *chatRepository) UpdateLastMessage(ctx context.Context, chat *model.Chat) error {
	chat.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).
		Model(chat).
		Select("last_message", "last_message_time", "unread_counts", "updated_at").
		Updates(chat).Error
}

func (r *chatRepository) MarkMessagesRead(ctx context.Context, chatID, readerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.ChatMessage{}).
		Where("chat_id = ? AND sender_id <> ? AND is_read = false", chatID, readerID).
		Update("is_read", true).Error
}
