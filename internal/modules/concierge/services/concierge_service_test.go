package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sergedenimes/denim-atelier-be/internal/modules/concierge/models"
	"github.com/sergedenimes/denim-atelier-be/internal/modules/concierge/repositories"
)

func newTestService(t *testing.T) *ConciergeService {
	t.Helper()

	// A named shared-cache DSN keeps every pooled connection on the same
	// in-memory database for the duration of the test.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Conversation{}, &models.Message{}))

	return NewConciergeService(
		repositories.NewUserRepo(db),
		repositories.NewConversationRepo(db),
		repositories.NewMessageRepo(db),
	)
}

func strPtr(s string) *string { return &s }

func verdictPtr(v models.Verdict) *models.Verdict { return &v }

func seedConversation(t *testing.T, s *ConciergeService) *models.Conversation {
	t.Helper()
	user, err := s.GetOrCreateUser("Ada", "ada@example.com")
	require.NoError(t, err)
	conversation, err := s.GetOrCreateConversation(user.ID.String())
	require.NoError(t, err)
	return conversation
}

func TestGetOrCreateUserIsIdempotent(t *testing.T) {
	s := newTestService(t)

	first, err := s.GetOrCreateUser("Ada", "Ada@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", first.Email)

	// Same email, different casing and name: same account.
	again, err := s.GetOrCreateUser("Someone Else", "ADA@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "Ada", again.Name)
}

func TestGetOrCreateUserValidation(t *testing.T) {
	s := newTestService(t)

	_, err := s.GetOrCreateUser("Ada", "not-an-email")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)

	_, err = s.GetOrCreateUser("", "new@example.com")
	require.ErrorAs(t, err, &vErr)
}

func TestGetOrCreateConversationReturnsSameThread(t *testing.T) {
	s := newTestService(t)
	user, err := s.GetOrCreateUser("Ada", "ada@example.com")
	require.NoError(t, err)

	first, err := s.GetOrCreateConversation(user.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.ConversationOpen, first.Status)
	assert.Equal(t, user.ID, first.User.ID)

	again, err := s.GetOrCreateConversation(user.ID.String())
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
}

func TestGetOrCreateConversationUnknownUser(t *testing.T) {
	s := newTestService(t)

	_, err := s.GetOrCreateConversation("9e5a2f3c-0000-4000-8000-000000000000")
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)
}

func TestPostMessageTypeValidation(t *testing.T) {
	s := newTestService(t)
	conversation := seedConversation(t, s)

	cases := []struct {
		name string
		in   PostMessageInput
	}{
		{"text without body", PostMessageInput{
			SenderRole: models.SenderUser, MessageType: models.MessageUserText,
		}},
		{"user_text from admin", PostMessageInput{
			SenderRole: models.SenderAdmin, MessageType: models.MessageUserText, Body: strPtr("hi"),
		}},
		{"design upload without file", PostMessageInput{
			SenderRole: models.SenderUser, MessageType: models.MessageDesignUpload,
		}},
		{"design upload from admin", PostMessageInput{
			SenderRole: models.SenderAdmin, MessageType: models.MessageDesignUpload, FileURL: strPtr("https://cdn.test/a"),
		}},
		{"review from user", PostMessageInput{
			SenderRole: models.SenderUser, MessageType: models.MessageReview, Verdict: verdictPtr(models.VerdictPossible),
		}},
		{"review without verdict", PostMessageInput{
			SenderRole: models.SenderAdmin, MessageType: models.MessageReview,
		}},
		{"depends without explanation", PostMessageInput{
			SenderRole: models.SenderAdmin, MessageType: models.MessageReview, Verdict: verdictPtr(models.VerdictDepends),
		}},
		{"review body too long", PostMessageInput{
			SenderRole: models.SenderAdmin, MessageType: models.MessageReview,
			Verdict: verdictPtr(models.VerdictPossible), Body: strPtr(strings.Repeat("x", 501)),
		}},
		{"unknown type", PostMessageInput{
			SenderRole: models.SenderUser, MessageType: models.MessageType("voice_note"), Body: strPtr("hi"),
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.in.ConversationID = conversation.ID.String()
			_, err := s.PostMessage(tc.in)
			var vErr *ValidationError
			assert.ErrorAs(t, err, &vErr)
		})
	}
}

func TestPostMessageAcceptsValidShapes(t *testing.T) {
	s := newTestService(t)
	conversation := seedConversation(t, s)

	valid := []PostMessageInput{
		{SenderRole: models.SenderUser, MessageType: models.MessageUserText, Body: strPtr("can you add pearls?")},
		{SenderRole: models.SenderAdmin, MessageType: models.MessageAdminText, Body: strPtr("of course")},
		{SenderRole: models.SenderUser, MessageType: models.MessageDesignUpload, FileURL: strPtr("https://cdn.test/design.png"), FileName: strPtr("design.png")},
		{SenderRole: models.SenderAdmin, MessageType: models.MessageReview, Verdict: verdictPtr(models.VerdictDepends), Body: strPtr("depends on the wash")},
		{SenderRole: models.SenderAdmin, MessageType: models.MessageReview, Verdict: verdictPtr(models.VerdictNotPossible)},
	}

	for _, in := range valid {
		in.ConversationID = conversation.ID.String()
		_, err := s.PostMessage(in)
		require.NoError(t, err, "type %s from %s", in.MessageType, in.SenderRole)
	}

	messages, err := s.ListMessages(conversation.ID.String())
	require.NoError(t, err)
	require.Len(t, messages, len(valid))
	// Oldest first.
	assert.Equal(t, models.MessageUserText, messages[0].MessageType)
	assert.Equal(t, models.MessageReview, messages[len(messages)-1].MessageType)
}

func TestOnlyUserMessagesBumpActivity(t *testing.T) {
	s := newTestService(t)
	conversation := seedConversation(t, s)
	before := conversation.UpdatedAt

	_, err := s.PostMessage(PostMessageInput{
		ConversationID: conversation.ID.String(),
		SenderRole:     models.SenderAdmin,
		MessageType:    models.MessageAdminText,
		Body:           strPtr("checking in"),
	})
	require.NoError(t, err)

	afterAdmin, err := s.GetConversation(conversation.ID.String())
	require.NoError(t, err)
	assert.True(t, afterAdmin.UpdatedAt.Equal(before), "admin message must not bump updated_at")

	_, err = s.PostMessage(PostMessageInput{
		ConversationID: conversation.ID.String(),
		SenderRole:     models.SenderUser,
		MessageType:    models.MessageUserText,
		Body:           strPtr("any update?"),
	})
	require.NoError(t, err)

	afterUser, err := s.GetConversation(conversation.ID.String())
	require.NoError(t, err)
	assert.True(t, afterUser.UpdatedAt.After(before), "user message must bump updated_at")
}

func TestDecideOrderRequiresPossibleVerdict(t *testing.T) {
	s := newTestService(t)
	conversation := seedConversation(t, s)

	_, err := s.DecideOrder(conversation.ID.String(), true)
	require.ErrorIs(t, err, ErrNoPossibleVerdict)

	// not_possible does not unlock the decision.
	_, err = s.PostMessage(PostMessageInput{
		ConversationID: conversation.ID.String(),
		SenderRole:     models.SenderAdmin,
		MessageType:    models.MessageReview,
		Verdict:        verdictPtr(models.VerdictNotPossible),
	})
	require.NoError(t, err)
	_, err = s.DecideOrder(conversation.ID.String(), true)
	require.ErrorIs(t, err, ErrNoPossibleVerdict)

	_, err = s.PostMessage(PostMessageInput{
		ConversationID: conversation.ID.String(),
		SenderRole:     models.SenderAdmin,
		MessageType:    models.MessageReview,
		Verdict:        verdictPtr(models.VerdictPossible),
	})
	require.NoError(t, err)

	decided, err := s.DecideOrder(conversation.ID.String(), true)
	require.NoError(t, err)
	assert.Equal(t, models.ConversationAccepted, decided.Status)
}

func TestDecideOrderIsFinal(t *testing.T) {
	s := newTestService(t)
	conversation := seedConversation(t, s)

	_, err := s.PostMessage(PostMessageInput{
		ConversationID: conversation.ID.String(),
		SenderRole:     models.SenderAdmin,
		MessageType:    models.MessageReview,
		Verdict:        verdictPtr(models.VerdictPossible),
	})
	require.NoError(t, err)

	decided, err := s.DecideOrder(conversation.ID.String(), false)
	require.NoError(t, err)
	assert.Equal(t, models.ConversationDeclined, decided.Status)

	_, err = s.DecideOrder(conversation.ID.String(), true)
	require.ErrorIs(t, err, ErrOrderAlreadyDecided)
}

func TestDecideOrderDoesNotBumpActivity(t *testing.T) {
	s := newTestService(t)
	conversation := seedConversation(t, s)
	before := conversation.UpdatedAt

	_, err := s.PostMessage(PostMessageInput{
		ConversationID: conversation.ID.String(),
		SenderRole:     models.SenderAdmin,
		MessageType:    models.MessageReview,
		Verdict:        verdictPtr(models.VerdictPossible),
	})
	require.NoError(t, err)

	decided, err := s.DecideOrder(conversation.ID.String(), true)
	require.NoError(t, err)
	assert.True(t, decided.UpdatedAt.Equal(before), "status change must not bump updated_at")
}

func TestListConversationsOrdersByActivity(t *testing.T) {
	s := newTestService(t)

	alice, err := s.GetOrCreateUser("Alice", "alice@example.com")
	require.NoError(t, err)
	bob, err := s.GetOrCreateUser("Bob", "bob@example.com")
	require.NoError(t, err)

	aliceConv, err := s.GetOrCreateConversation(alice.ID.String())
	require.NoError(t, err)
	bobConv, err := s.GetOrCreateConversation(bob.ID.String())
	require.NoError(t, err)

	// Alice speaks last, so her thread leads the inbox.
	_, err = s.PostMessage(PostMessageInput{
		ConversationID: aliceConv.ID.String(),
		SenderRole:     models.SenderUser,
		MessageType:    models.MessageUserText,
		Body:           strPtr("is my jacket ready?"),
	})
	require.NoError(t, err)

	conversations, err := s.ListConversations()
	require.NoError(t, err)
	require.Len(t, conversations, 2)
	assert.Equal(t, aliceConv.ID, conversations[0].ID)
	assert.Equal(t, bobConv.ID, conversations[1].ID)
}
