package repository

import (
	"context"

	"github.com/xujalz/Lost-And-Found/internal/domain/entity"
)

// ChatRepository is the single source of truth for chats, messages and
// unread counters. Implementations must serialize concurrent mutations
// against the same chat so increments and resets never race each other.
type ChatRepository interface {
	// GetOrCreateByParticipants returns the chat for the unordered pair,
	// creating it atomically when absent. The boolean reports creation.
	GetOrCreateByParticipants(ctx context.Context, userID, otherID string) (*entity.Chat, bool, error)
	GetByID(ctx context.Context, id string) (*entity.Chat, error)
	// ListByUserID returns every chat containing userID, newest activity first.
	ListByUserID(ctx context.Context, userID string) ([]*entity.Chat, error)

	// CreateMessage persists the message with status sent and, in the same
	// logical unit, updates the chat's lastMessage snapshot and increments
	// the receiver's unread counter.
	CreateMessage(ctx context.Context, message *entity.Message) error
	GetMessageByID(ctx context.Context, messageID string) (*entity.Message, error)
	// ListMessagesByChat returns the chat's messages ordered by creation
	// time ascending.
	ListMessagesByChat(ctx context.Context, chatID string) ([]*entity.Message, error)

	// UpdateMessageStatus applies a forward-only status transition and
	// reports whether it took effect. Attempts to move a message backward
	// are discarded, not errors.
	UpdateMessageStatus(ctx context.Context, messageID, status string) (bool, error)
	// MarkChatRead transitions every message addressed to readerID in the
	// chat to read and resets readerID's unread counter to zero.
	MarkChatRead(ctx context.Context, chatID, readerID string) error
}
