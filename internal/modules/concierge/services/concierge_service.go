package services

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sergedenimes/denim-atelier-be/internal/modules/concierge/models"
	"github.com/sergedenimes/denim-atelier-be/internal/modules/concierge/repositories"
)

// ConciergeService runs the user/admin conversation workflow: one open
// conversation per user, typed messages, admin review verdicts, and the
// final accept/decline gate.
type ConciergeService struct {
	users         repositories.UserRepo
	conversations repositories.ConversationRepo
	messages      repositories.MessageRepo
}

func NewConciergeService(
	users repositories.UserRepo,
	conversations repositories.ConversationRepo,
	messages repositories.MessageRepo,
) *ConciergeService {
	return &ConciergeService{
		users:         users,
		conversations: conversations,
		messages:      messages,
	}
}

// GetOrCreateUser looks a user up by email and registers one when absent.
// Emails are matched case-insensitively so repeated sign-ins land on the
// same account.
func (s *ConciergeService) GetOrCreateUser(name, email string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if email == "" || !strings.Contains(email, "@") {
		return nil, invalidf("a valid email is required")
	}

	user, err := s.users.GetByEmail(email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, err
	}

	if name == "" {
		return nil, invalidf("name is required to register a new user")
	}

	user = &models.User{Name: name, Email: email}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetOrCreateConversation returns the user's conversation, opening one on
// first contact. Each user has exactly one conversation thread.
func (s *ConciergeService) GetOrCreateConversation(userID string) (*models.Conversation, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}

	conversation, err := s.conversations.GetByUserID(user.ID)
	if err == nil {
		return conversation, nil
	}
	if !errors.Is(err, repositories.ErrConversationNotFound) {
		return nil, err
	}

	conversation = &models.Conversation{
		UserID: user.ID,
		Status: models.ConversationOpen,
	}
	if err := s.conversations.Create(conversation); err != nil {
		return nil, err
	}
	return s.conversations.GetByID(conversation.ID.String())
}

// ListConversations returns every conversation for the admin inbox, most
// recently active first.
func (s *ConciergeService) ListConversations() ([]models.Conversation, error) {
	return s.conversations.ListAll()
}

func (s *ConciergeService) GetConversation(id string) (*models.Conversation, error) {
	return s.conversations.GetByID(id)
}

// PostMessageInput carries one message submission. Optional fields stay nil
// when the message type has no use for them.
type PostMessageInput struct {
	ConversationID string
	SenderRole     models.SenderRole
	MessageType    models.MessageType
	Body           *string
	FileURL        *string
	FileName       *string
	FileType       *string
	LinkURL        *string
	Verdict        *models.Verdict
}

// PostMessage validates and appends a message to a conversation. Only
// user-authored messages bump the conversation's activity timestamp, so the
// admin inbox orders threads by when the customer last spoke.
func (s *ConciergeService) PostMessage(in PostMessageInput) (*models.Message, error) {
	conversation, err := s.conversations.GetByID(in.ConversationID)
	if err != nil {
		return nil, err
	}

	if in.SenderRole != models.SenderUser && in.SenderRole != models.SenderAdmin {
		return nil, invalidf("unknown sender role %q", in.SenderRole)
	}

	if err := s.validateMessage(in); err != nil {
		return nil, err
	}

	message := &models.Message{
		ConversationID: conversation.ID,
		SenderRole:     in.SenderRole,
		MessageType:    in.MessageType,
		Body:           in.Body,
		FileURL:        in.FileURL,
		FileName:       in.FileName,
		FileType:       in.FileType,
		LinkURL:        in.LinkURL,
		Verdict:        in.Verdict,
	}
	if err := s.messages.Create(message); err != nil {
		return nil, err
	}

	if in.SenderRole == models.SenderUser {
		if err := s.conversations.Touch(conversation.ID, time.Now().UTC()); err != nil {
			return nil, err
		}
	}
	return message, nil
}

func (s *ConciergeService) validateMessage(in PostMessageInput) error {
	hasBody := in.Body != nil && strings.TrimSpace(*in.Body) != ""

	switch in.MessageType {
	case models.MessageUserText:
		if in.SenderRole != models.SenderUser {
			return invalidf("user_text messages can only be sent by users")
		}
		if !hasBody {
			return invalidf("text messages require a body")
		}
	case models.MessageAdminText:
		if in.SenderRole != models.SenderAdmin {
			return invalidf("admin_text messages can only be sent by admins")
		}
		if !hasBody {
			return invalidf("text messages require a body")
		}
	case models.MessageDesignUpload:
		if in.SenderRole != models.SenderUser {
			return invalidf("design uploads can only be sent by users")
		}
		if in.FileURL == nil || strings.TrimSpace(*in.FileURL) == "" {
			return invalidf("design uploads require a file")
		}
	case models.MessageReview:
		if in.SenderRole != models.SenderAdmin {
			return invalidf("reviews can only be sent by admins")
		}
		if in.Verdict == nil {
			return invalidf("reviews require a verdict")
		}
		switch *in.Verdict {
		case models.VerdictPossible, models.VerdictNotPossible:
		case models.VerdictDepends:
			if !hasBody {
				return invalidf("verdict 'depends' requires an explanation")
			}
		default:
			return invalidf("unknown verdict %q", *in.Verdict)
		}
		if in.Body != nil && utf8.RuneCountInString(*in.Body) > models.MaxReviewBodyLength {
			return invalidf("review body must be at most %d characters", models.MaxReviewBodyLength)
		}
	default:
		return invalidf("unknown message type %q", in.MessageType)
	}
	return nil
}

func (s *ConciergeService) ListMessages(conversationID string) ([]models.Message, error) {
	if _, err := s.conversations.GetByID(conversationID); err != nil {
		return nil, err
	}
	return s.messages.ListByConversation(conversationID)
}

// DecideOrder closes a conversation as accepted or declined. A decision is
// only valid after an admin review judged the request possible, and each
// conversation is decided at most once.
func (s *ConciergeService) DecideOrder(conversationID string, accept bool) (*models.Conversation, error) {
	conversation, err := s.conversations.GetByID(conversationID)
	if err != nil {
		return nil, err
	}
	if conversation.Decided() {
		return nil, ErrOrderAlreadyDecided
	}

	approved, err := s.messages.HasReviewWithVerdict(conversation.ID, models.VerdictPossible)
	if err != nil {
		return nil, err
	}
	if !approved {
		return nil, ErrNoPossibleVerdict
	}

	status := models.ConversationDeclined
	if accept {
		status = models.ConversationAccepted
	}
	if err := s.conversations.UpdateStatus(conversation.ID, status); err != nil {
		return nil, err
	}
	return s.conversations.GetByID(conversationID)
}
