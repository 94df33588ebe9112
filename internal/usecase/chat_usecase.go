package usecase

import (
	"context"

	"github.com/xujalz/Lost-And-Found/internal/domain/entity"
	"github.com/xujalz/Lost-And-Found/internal/domain/repository"
	"github.com/xujalz/Lost-And-Found/pkg/errors"
	"github.com/xujalz/Lost-And-Found/pkg/logger"
)

// EventPusher is the live-connection fan-out surface. Implemented by the
// websocket hub; pushes are best effort and never fail the operation that
// triggered them.
type EventPusher interface {
	IsOnline(userID string) bool
	PushNewMessage(toUserID string, message *entity.Message)
	PushMessageStatus(toUserID, messageID, status string)
	PushMessagesRead(toUserID, chatID, byUserID string)
}

// ChatUseCase implements two-party messaging: chat-pair deduplication,
// message append with unread bookkeeping, delivery-status transitions and
// fan-out to live connections.
type ChatUseCase struct {
	chatRepo repository.ChatRepository
	userRepo repository.UserRepository
	pusher   EventPusher
}

func NewChatUseCase(chatRepo repository.ChatRepository, userRepo repository.UserRepository, pusher EventPusher) *ChatUseCase {
	return &ChatUseCase{
		chatRepo: chatRepo,
		userRepo: userRepo,
		pusher:   pusher,
	}
}

// UserSummary is the participant display projection: identity and name
// only, never credentials or contact details.
type UserSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ChatResponse struct {
	*entity.Chat
	Other *UserSummary `json:"other,omitempty"`
}

// ChatSummary annotates a chat for the requesting user's chat list.
type ChatSummary struct {
	*entity.Chat
	Other  *UserSummary `json:"other,omitempty"`
	Unread int          `json:"unread"`
}

// OpenChat returns the chat between userID and otherID, creating it on
// first contact. Calls with the arguments in either order return the same
// chat; a user cannot open a chat with themself.
func (uc *ChatUseCase) OpenChat(ctx context.Context, userID, otherID string) (*ChatResponse, error) {
	if otherID == "" {
		return nil, errors.BadRequest("Recipient is required", nil)
	}
	if userID == otherID {
		return nil, errors.BadRequest("You cannot chat with yourself", nil)
	}

	other, err := uc.userRepo.GetByID(ctx, otherID)
	if err != nil {
		return nil, err
	}

	chat, created, err := uc.chatRepo.GetOrCreateByParticipants(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}
	if created {
		logger.Info("chat: created chat %s for pair %s", chat.ID, chat.PairKey)
	}

	return &ChatResponse{
		Chat:  chat,
		Other: &UserSummary{ID: other.ID, Name: other.Name},
	}, nil
}

// ListChats returns every chat of userID, newest activity first, annotated
// with the other participant and the caller's own unread count.
func (uc *ChatUseCase) ListChats(ctx context.Context, userID string) ([]*ChatSummary, error) {
	chats, err := uc.chatRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]*ChatSummary, 0, len(chats))
	for _, chat := range chats {
		summary := &ChatSummary{
			Chat:   chat,
			Unread: chat.UnreadFor(userID),
		}

		if otherID := chat.OtherParticipant(userID); otherID != "" {
			other, err := uc.userRepo.GetByID(ctx, otherID)
			if err == nil {
				summary.Other = &UserSummary{ID: other.ID, Name: other.Name}
			} else {
				logger.Warn("chat: participant %s of chat %s not found: %v", otherID, chat.ID, err)
				summary.Other = &UserSummary{ID: otherID}
			}
		}

		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// GetMessages returns the chat's messages ordered by creation time
// ascending. Only participants may read a chat.
func (uc *ChatUseCase) GetMessages(ctx context.Context, userID, chatID string) ([]*entity.Message, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(userID) {
		return nil, errors.Forbidden("Not a participant of this chat", nil)
	}

	return uc.chatRepo.ListMessagesByChat(ctx, chatID)
}

// SendMessage appends a message to a chat. The receiver is always the other
// participant; the new message, the chat's lastMessage snapshot and the
// receiver's unread increment land as one unit. The stored message is then
// fanned out to the receiver's live connections, and if any exist the
// status advances to delivered with a notification to the sender's
// connections.
func (uc *ChatUseCase) SendMessage(ctx context.Context, senderID, chatID, content, msgType, fileURL string) (*entity.Message, error) {
	if chatID == "" {
		return nil, errors.BadRequest("Chat id is required", nil)
	}
	if msgType == "" {
		msgType = entity.MessageTypeText
	}
	if msgType != entity.MessageTypeText && msgType != entity.MessageTypeFile {
		return nil, errors.BadRequest("Message type must be text or file", nil)
	}
	if content == "" && fileURL == "" {
		return nil, errors.BadRequest("Message content is required", nil)
	}

	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(senderID) {
		return nil, errors.Forbidden("Not a participant of this chat", nil)
	}
	receiverID := chat.OtherParticipant(senderID)

	message := &entity.Message{
		ChatID:     chatID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		Type:       msgType,
		FileURL:    fileURL,
		Status:     entity.StatusSent,
	}

	if err := uc.chatRepo.CreateMessage(ctx, message); err != nil {
		logger.Error("chat: failed to append message to chat %s: %v", chatID, err)
		return nil, err
	}

	uc.pusher.PushNewMessage(receiverID, message)

	if uc.pusher.IsOnline(receiverID) {
		applied, err := uc.chatRepo.UpdateMessageStatus(ctx, message.ID, entity.StatusDelivered)
		if err != nil {
			logger.Warn("chat: failed to mark message %s delivered: %v", message.ID, err)
		} else if applied {
			message.Status = entity.StatusDelivered
			uc.pusher.PushMessageStatus(senderID, message.ID, entity.StatusDelivered)
		}
	}

	return message, nil
}

// MarkMessageDelivered records a client's explicit acknowledgement that a
// pushed message arrived. Only the receiver may acknowledge. A message
// already read keeps its status; stale transitions are discarded without
// notifying anyone, so observers never see delivery state move backward.
func (uc *ChatUseCase) MarkMessageDelivered(ctx context.Context, callerID, messageID string) error {
	message, err := uc.chatRepo.GetMessageByID(ctx, messageID)
	if err != nil {
		return err
	}
	if message.ReceiverID != callerID {
		return errors.Forbidden("Not the receiver of this message", nil)
	}

	applied, err := uc.chatRepo.UpdateMessageStatus(ctx, messageID, entity.StatusDelivered)
	if err != nil {
		return err
	}
	if applied {
		uc.pusher.PushMessageStatus(message.SenderID, messageID, entity.StatusDelivered)
	}
	return nil
}

// MarkChatRead transitions every message addressed to readerID in the chat
// to read and zeroes readerID's unread counter. Reading implies delivery,
// so messages may go sent -> read directly. The other participant's live
// connections learn the chat was read.
func (uc *ChatUseCase) MarkChatRead(ctx context.Context, chatID, readerID string) error {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return err
	}
	if !chat.HasParticipant(readerID) {
		return errors.Forbidden("Not a participant of this chat", nil)
	}

	if err := uc.chatRepo.MarkChatRead(ctx, chatID, readerID); err != nil {
		logger.Error("chat: failed to mark chat %s read for %s: %v", chatID, readerID, err)
		return err
	}

	if otherID := chat.OtherParticipant(readerID); otherID != "" {
		uc.pusher.PushMessagesRead(otherID, chatID, readerID)
	}
	return nil
}
