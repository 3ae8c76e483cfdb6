package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/careerfindr/careerfindr-api/internal/model"
	"github.com/careerfindr/careerfindr-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeChatRepo struct {
	chats    map[uuid.UUID]*model.Chat
	messages []*model.ChatMessage
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{chats: map[uuid.UUID]*model.Chat{}}
}

func (f *fakeChatRepo) Create(ctx context.Context, chat *model.Chat) error {
	chat.ID = uuid.New()
	f.chats[chat.ID] = chat
	return nil
}

func (f *fakeChatRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Chat, error) {
	chat, ok := f.chats[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return chat, nil
}

func (f *fakeChatRepo) FindByPair(ctx context.Context, low, high uuid.UUID) (*model.Chat, error) {
	for _, chat := range f.chats {
		if chat.ParticipantLow == low && chat.ParticipantHigh == high {
			return chat, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeChatRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]model.Chat, error) {
	var out []model.Chat
	for _, chat := range f.chats {
		if chat.ParticipantLow == userID || chat.ParticipantHigh == userID {
			out = append(out, *chat)
		}
	}
	return out, nil
}

func (f *fakeChatRepo) CreateMessage(ctx context.Context, message *model.ChatMessage) error {
	message.ID = uuid.New()
	f.messages = append(f.messages, message)
	return nil
}

func (f *fakeChatRepo) FindMessages(ctx context.Context, chatID uuid.UUID, limit, offset int) ([]model.ChatMessage, error) {
	var out []model.ChatMessage
	for _, m := range f.messages {
		if m.ChatID == chatID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeChatRepo) UpdateLastMessage(ctx context.Context, chat *model.Chat) error {
	f.chats[chat.ID] = chat
	return nil
}

func (f *fakeChatRepo) MarkMessagesRead(ctx context.Context, chatID, readerID uuid.UUID) error {
	for _, m := range f.messages {
		if m.ChatID == chatID && m.SenderID != readerID {
			m.IsRead = true
		}
	}
	return nil
}

type fakeUserLookup struct {
	users map[string]*model.User
}

func (f *fakeUserLookup) FindByID(ctx context.Context, id string) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func testUser(name, role string) *model.User {
	return &model.User{
		ID:       uuid.New(),
		FullName: name,
		Email:    name + "@example.com",
		Role:     model.Role{Name: role},
	}
}

func newChatFixture() (ChatService, *fakeChatRepo, *model.User, *model.User) {
	student := testUser("student", model.RoleStudent)
	company := testUser("company", model.RoleCompany)

	repo := newFakeChatRepo()
	users := &fakeUserLookup{users: map[string]*model.User{
		student.ID.String(): student,
		company.ID.String(): company,
	}}

	return NewChatService(repo, users, nil, nil), repo, student, company
}

func TestGetOrCreateChatReturnsSameChatBothDirections(t *testing.T) {
	svc, repo, student, company := newChatFixture()
	ctx := context.Background()

	first, err := svc.GetOrCreateChat(ctx, student.ID, company.ID)
	require.NoError(t, err)

	second, err := svc.GetOrCreateChat(ctx, company.ID, student.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "pair order must not create a second conversation")
	assert.Len(t, repo.chats, 1)

	// The canonical pair is sorted.
	assert.Less(t, first.ParticipantLow.String(), first.ParticipantHigh.String())
}

func TestGetOrCreateChatEmbedsParticipantSnapshots(t *testing.T) {
	svc, _, student, company := newChatFixture()

	chat, err := svc.GetOrCreateChat(context.Background(), student.ID, company.ID)
	require.NoError(t, err)

	require.Contains(t, chat.Participants, student.ID.String())
	require.Contains(t, chat.Participants, company.ID.String())
	assert.Equal(t, "student", chat.Participants[student.ID.String()].Name)
	assert.Equal(t, model.RoleCompany, chat.Participants[company.ID.String()].Role)
	assert.Equal(t, 0, chat.UnreadCounts[student.ID.String()])
	assert.Equal(t, 0, chat.UnreadCounts[company.ID.String()])
}

func TestGetOrCreateChatRejectsSelf(t *testing.T) {
	svc, _, student, _ := newChatFixture()

	_, err := svc.GetOrCreateChat(context.Background(), student.ID, student.ID)
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
}

func TestGetOrCreateChatUnknownPartner(t *testing.T) {
	svc, _, student, _ := newChatFixture()

	_, err := svc.GetOrCreateChat(context.Background(), student.ID, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestSendMessageBumpsRecipientUnreadCount(t *testing.T) {
	svc, repo, student, company := newChatFixture()
	ctx := context.Background()

	chat, err := svc.GetOrCreateChat(ctx, student.ID, company.ID)
	require.NoError(t, err)

	message, err := svc.SendMessage(ctx, student.ID, chat.ID, "hello")
	require.NoError(t, err)
	assert.Equal(t, "student", message.SenderName)

	stored := repo.chats[chat.ID]
	assert.Equal(t, 1, stored.UnreadCounts[company.ID.String()])
	assert.Equal(t, 0, stored.UnreadCounts[student.ID.String()])
	require.NotNil(t, stored.LastMessage)
	assert.Equal(t, "hello", *stored.LastMessage)
}

func TestSendMessageRejectsNonMember(t *testing.T) {
	svc, _, student, company := newChatFixture()
	ctx := context.Background()

	chat, err := svc.GetOrCreateChat(ctx, student.ID, company.ID)
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, uuid.New(), chat.ID, "intruder")
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestSendMessageThrottlesRapidSends(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	student := testUser("student", model.RoleStudent)
	company := testUser("company", model.RoleCompany)
	repo := newFakeChatRepo()
	users := &fakeUserLookup{users: map[string]*model.User{
		student.ID.String(): student,
		company.ID.String(): company,
	}}
	svc := NewChatService(repo, users, nil, rdb)
	ctx := context.Background()

	chat, err := svc.GetOrCreateChat(ctx, student.ID, company.ID)
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, student.ID, chat.ID, "first")
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, student.ID, chat.ID, "second")
	assert.ErrorIs(t, err, apperror.ErrRateLimitExceeded)

	// The other participant has their own cooldown.
	_, err = svc.SendMessage(ctx, company.ID, chat.ID, "reply")
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)
	_, err = svc.SendMessage(ctx, student.ID, chat.ID, "after cooldown")
	require.NoError(t, err)
}

func TestMarkReadResetsCounterAndFlagsMessages(t *testing.T) {
	svc, repo, student, company := newChatFixture()
	ctx := context.Background()

	chat, err := svc.GetOrCreateChat(ctx, student.ID, company.ID)
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, student.ID, chat.ID, "one")
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, student.ID, chat.ID, "two")
	require.NoError(t, err)

	require.NoError(t, svc.MarkRead(ctx, company.ID, chat.ID))

	stored := repo.chats[chat.ID]
	assert.Equal(t, 0, stored.UnreadCounts[company.ID.String()])
	for _, m := range repo.messages {
		assert.True(t, m.IsRead)
	}
}
