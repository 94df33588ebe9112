package repository

import (
	"context"
	goerrors "errors"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/xujalz/Lost-And-Found/internal/domain/entity"
	"github.com/xujalz/Lost-And-Found/internal/domain/repository"
	"github.com/xujalz/Lost-And-Found/pkg/errors"
)

// firestoreChatRepository keeps chats in the "chats" collection, messages in
// a top-level "messages" collection, and one "chat_pairs" document per
// normalized participant pair. The pair document's ID is the pair key, so
// chat creation is race-free: two concurrent first contacts collide on the
// same document and exactly one transaction creates the chat.
type firestoreChatRepository struct {
	client *firestore.Client
}

func NewFirestoreChatRepository(client *firestore.Client) repository.ChatRepository {
	return &firestoreChatRepository{
		client: client,
	}
}

type pairDoc struct {
	ChatID string `firestore:"chatId"`
}

// passthrough returns domain errors untouched and wraps raw storage
// failures as internal.
func passthrough(err error, message string) error {
	var appErr *errors.AppError
	if goerrors.As(err, &appErr) {
		return err
	}
	return errors.Internal(message, err)
}

func (r *firestoreChatRepository) GetOrCreateByParticipants(ctx context.Context, userID, otherID string) (*entity.Chat, bool, error) {
	pairKey := entity.PairKey(userID, otherID)
	pairRef := r.client.Collection("chat_pairs").Doc(pairKey)

	var result *entity.Chat
	var created bool

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		result = nil
		created = false

		snap, err := tx.Get(pairRef)
		if err == nil {
			var pair pairDoc
			if err := snap.DataTo(&pair); err != nil {
				return err
			}
			chatSnap, err := tx.Get(r.client.Collection("chats").Doc(pair.ChatID))
			if err != nil {
				return err
			}
			var chat entity.Chat
			if err := chatSnap.DataTo(&chat); err != nil {
				return err
			}
			result = &chat
			return nil
		}
		if status.Code(err) != codes.NotFound {
			return err
		}

		now := time.Now()
		chat := &entity.Chat{
			ID:           uuid.New().String(),
			Participants: []string{userID, otherID},
			PairKey:      pairKey,
			UnreadCounts: map[string]int{userID: 0, otherID: 0},
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if err := tx.Create(r.client.Collection("chats").Doc(chat.ID), chat); err != nil {
			return err
		}
		if err := tx.Create(pairRef, pairDoc{ChatID: chat.ID}); err != nil {
			return err
		}
		result = chat
		created = true
		return nil
	})
	if err != nil {
		return nil, false, passthrough(err, "Failed to open chat")
	}

	return result, created, nil
}

func (r *firestoreChatRepository) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	doc, err := r.client.Collection("chats").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Chat", err)
		}
		return nil, errors.Internal("Failed to get chat", err)
	}

	var chat entity.Chat
	if err := doc.DataTo(&chat); err != nil {
		return nil, errors.Internal("Failed to parse chat data", err)
	}
	return &chat, nil
}

func (r *firestoreChatRepository) ListByUserID(ctx context.Context, userID string) ([]*entity.Chat, error) {
	query := r.client.Collection("chats").
		Where("participants", "array-contains", userID).
		OrderBy("updatedAt", firestore.Desc)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to fetch chats", err)
	}

	chats := make([]*entity.Chat, 0, len(docs))
	for _, doc := range docs {
		var chat entity.Chat
		if err := doc.DataTo(&chat); err != nil {
			return nil, errors.Internal("Failed to parse chat data", err)
		}
		chats = append(chats, &chat)
	}
	return chats, nil
}

// CreateMessage writes the message and, in the same transaction, refreshes
// the chat's lastMessage snapshot and increments the receiver's unread
// counter. Concurrent appends to one chat serialize on the chat document.
func (r *firestoreChatRepository) CreateMessage(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}

	chatRef := r.client.Collection("chats").Doc(message.ChatID)
	msgRef := r.client.Collection("messages").Doc(message.ID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		chatSnap, err := tx.Get(chatRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Chat", err)
			}
			return err
		}
		var chat entity.Chat
		if err := chatSnap.DataTo(&chat); err != nil {
			return err
		}

		if err := tx.Create(msgRef, message); err != nil {
			return err
		}

		if chat.UnreadCounts == nil {
			chat.UnreadCounts = make(map[string]int)
		}
		chat.UnreadCounts[message.ReceiverID]++
		chat.LastMessage = &entity.LastMessage{
			Text:      message.Content,
			Sender:    message.SenderID,
			CreatedAt: message.CreatedAt,
			Type:      message.Type,
			FileURL:   message.FileURL,
		}
		chat.UpdatedAt = time.Now()

		return tx.Set(chatRef, &chat)
	})
	if err != nil {
		return passthrough(err, "Failed to create message")
	}
	return nil
}

func (r *firestoreChatRepository) GetMessageByID(ctx context.Context, messageID string) (*entity.Message, error) {
	doc, err := r.client.Collection("messages").Doc(messageID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Message", err)
		}
		return nil, errors.Internal("Failed to get message", err)
	}

	var message entity.Message
	if err := doc.DataTo(&message); err != nil {
		return nil, errors.Internal("Failed to parse message data", err)
	}
	return &message, nil
}

func (r *firestoreChatRepository) ListMessagesByChat(ctx context.Context, chatID string) ([]*entity.Message, error) {
	query := r.client.Collection("messages").
		Where("chatId", "==", chatID).
		OrderBy("createdAt", firestore.Asc)

	iter := query.Documents(ctx)
	var messages []*entity.Message
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate messages", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			return nil, errors.Internal("Failed to parse message data", err)
		}
		messages = append(messages, &message)
	}
	return messages, nil
}

// UpdateMessageStatus applies a forward-only transition under a transaction
// and reports whether it took effect. A transition that would move the
// message backward (or sideways) is discarded, which keeps status
// monotonic under racing delivery and read acknowledgements.
func (r *firestoreChatRepository) UpdateMessageStatus(ctx context.Context, messageID, newStatus string) (bool, error) {
	msgRef := r.client.Collection("messages").Doc(messageID)

	var applied bool
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		applied = false

		snap, err := tx.Get(msgRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Message", err)
			}
			return err
		}
		var message entity.Message
		if err := snap.DataTo(&message); err != nil {
			return err
		}

		if entity.StatusRank(newStatus) <= entity.StatusRank(message.Status) {
			return nil
		}

		applied = true
		return tx.Update(msgRef, []firestore.Update{{Path: "status", Value: newStatus}})
	})
	if err != nil {
		return false, passthrough(err, "Failed to update message status")
	}
	return applied, nil
}

// MarkChatRead transitions every unread message addressed to readerID in
// the chat to read and zeroes the reader's unread counter, all in one
// transaction so a racing append cannot observe a partial reset.
func (r *firestoreChatRepository) MarkChatRead(ctx context.Context, chatID, readerID string) error {
	chatRef := r.client.Collection("chats").Doc(chatID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		chatSnap, err := tx.Get(chatRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Chat", err)
			}
			return err
		}
		var chat entity.Chat
		if err := chatSnap.DataTo(&chat); err != nil {
			return err
		}

		pending := r.client.Collection("messages").
			Where("chatId", "==", chatID).
			Where("receiverId", "==", readerID).
			Where("status", "in", []string{entity.StatusSent, entity.StatusDelivered})

		docs, err := tx.Documents(pending).GetAll()
		if err != nil {
			return err
		}
		for _, doc := range docs {
			if err := tx.Update(doc.Ref, []firestore.Update{{Path: "status", Value: entity.StatusRead}}); err != nil {
				return err
			}
		}

		if chat.UnreadCounts == nil {
			chat.UnreadCounts = make(map[string]int)
		}
		chat.UnreadCounts[readerID] = 0
		chat.UpdatedAt = time.Now()

		return tx.Set(chatRef, &chat)
	})
	if err != nil {
		return passthrough(err, "Failed to mark chat read")
	}
	return nil
}
