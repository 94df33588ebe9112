package websocket

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"sync"

	"github.com/xujalz/Lost-And-Found/internal/domain/entity"
	"github.com/xujalz/Lost-And-Found/internal/domain/service"
	"github.com/xujalz/Lost-And-Found/pkg/errors"
	"github.com/xujalz/Lost-And-Found/pkg/logger"
)

// ChatService is the messaging core as the gateway sees it. Implemented by
// usecase.ChatUseCase and injected after construction to keep the wiring
// acyclic.
type ChatService interface {
	SendMessage(ctx context.Context, senderID, chatID, content, msgType, fileURL string) (*entity.Message, error)
	MarkMessageDelivered(ctx context.Context, callerID, messageID string) error
	MarkChatRead(ctx context.Context, chatID, readerID string) error
}

// Hub owns the presence registry and routes events between clients and the
// messaging core. One hub per process. Besides the registry of authenticated
// identities it tracks every open connection, so presence broadcasts reach
// sockets that have upgraded but not yet authenticated.
type Hub struct {
	registry *Registry
	verifier service.TokenVerifier
	chats    ChatService

	mu    sync.Mutex
	conns map[*Client]struct{}
}

func NewHub(registry *Registry, verifier service.TokenVerifier) *Hub {
	return &Hub{
		registry: registry,
		verifier: verifier,
		conns:    make(map[*Client]struct{}),
	}
}

// SetChatService wires the messaging core in. Must be called before the hub
// accepts connections.
func (h *Hub) SetChatService(chats ChatService) {
	h.chats = chats
}

func (h *Hub) Registry() *Registry {
	return h.registry
}

// handleEvent dispatches one inbound frame. It runs on the client's read
// pump, so per-connection ordering is the pump's ordering. Failures are
// reported on the reply path of the triggering event and never tear down
// the connection.
func (h *Hub) handleEvent(c *Client, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		h.sendError(c, "", errors.BadRequest("Invalid event format", err))
		return
	}

	switch env.Type {
	case EventAuthenticate:
		h.handleAuthenticate(c, env)
	case EventSendMessage:
		h.handleSendMessage(c, env)
	case EventMessageReceived:
		h.handleMessageReceived(c, env)
	case EventMarkRead:
		h.handleMarkRead(c, env)
	default:
		h.sendError(c, env.ID, errors.BadRequest("Unknown event type", nil))
	}
}

func (h *Hub) handleAuthenticate(c *Client, env Envelope) {
	var payload authenticatePayload
	if err := json.Unmarshal(env.Data, &payload); err != nil || payload.Token == "" {
		h.sendError(c, env.ID, errors.Unauthorized("Missing credential", err))
		return
	}

	userID, err := h.verifier.VerifyToken(context.Background(), payload.Token)
	if err != nil {
		logger.Warn("websocket: authentication failed: %v", err)
		h.sendError(c, env.ID, errors.Unauthorized("Invalid or expired credential", err))
		return
	}

	if bound := c.UserID(); bound != "" {
		if bound == userID {
			h.sendAck(c, env.ID, map[string]string{"userId": userID})
			return
		}
		// Switching identity releases the old binding with its full
		// presence edge.
		if oldID, wentOffline := h.registry.Unregister(c); wentOffline {
			logger.Info("websocket: user %s went offline", oldID)
			h.broadcast(EventUserOffline, presenceData{UserID: oldID})
		}
	}

	c.setUserID(userID)
	cameOnline := h.registry.Register(userID, c)
	logger.Info("websocket: authenticated user %s", userID)

	h.sendAck(c, env.ID, map[string]string{"userId": userID})

	if cameOnline {
		h.broadcast(EventUserOnline, presenceData{UserID: userID})
	}
}

func (h *Hub) handleSendMessage(c *Client, env Envelope) {
	senderID := c.UserID()
	if senderID == "" {
		h.sendError(c, env.ID, errors.Unauthorized("Authentication required", nil))
		return
	}

	var payload sendMessagePayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		h.sendError(c, env.ID, errors.BadRequest("Invalid sendMessage payload", err))
		return
	}

	message, err := h.chats.SendMessage(context.Background(), senderID, payload.ChatID, payload.Content, payload.Type, payload.FileURL)
	if err != nil {
		h.sendError(c, env.ID, err)
		return
	}

	h.sendAck(c, env.ID, map[string]interface{}{"ok": true, "message": message})
}

func (h *Hub) handleMessageReceived(c *Client, env Envelope) {
	callerID := c.UserID()
	if callerID == "" {
		h.sendError(c, env.ID, errors.Unauthorized("Authentication required", nil))
		return
	}

	var payload messageReceivedPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil || payload.MessageID == "" {
		h.sendError(c, env.ID, errors.BadRequest("Invalid messageReceived payload", err))
		return
	}

	if err := h.chats.MarkMessageDelivered(context.Background(), callerID, payload.MessageID); err != nil {
		h.sendError(c, env.ID, err)
		return
	}

	h.sendAck(c, env.ID, map[string]bool{"ok": true})
}

func (h *Hub) handleMarkRead(c *Client, env Envelope) {
	readerID := c.UserID()
	if readerID == "" {
		h.sendError(c, env.ID, errors.Unauthorized("Authentication required", nil))
		return
	}

	var payload markReadPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil || payload.ChatID == "" {
		h.sendError(c, env.ID, errors.BadRequest("Invalid markRead payload", err))
		return
	}

	if err := h.chats.MarkChatRead(context.Background(), payload.ChatID, readerID); err != nil {
		h.sendError(c, env.ID, err)
		return
	}

	h.sendAck(c, env.ID, map[string]bool{"ok": true})
}

func (h *Hub) trackClient(c *Client) {
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()
}

// dropClient removes a connection from the registry and closes it. If this
// was the user's last connection, everyone learns they went offline.
func (h *Hub) dropClient(c *Client) {
	h.mu.Lock()
	delete(h.conns, c)
	h.mu.Unlock()

	userID, wentOffline := h.registry.Unregister(c)
	c.close()

	if wentOffline {
		logger.Info("websocket: user %s went offline", userID)
		h.broadcast(EventUserOffline, presenceData{UserID: userID})
	}
}

// IsOnline reports whether the user has at least one live connection.
func (h *Hub) IsOnline(userID string) bool {
	return h.registry.IsOnline(userID)
}

// PushNewMessage fans a freshly stored message out to every live connection
// of the receiver.
func (h *Hub) PushNewMessage(toUserID string, message *entity.Message) {
	h.sendToUser(toUserID, EventNewMessage, message)
}

// PushMessageStatus notifies a user's connections of a delivery-status
// change for one message.
func (h *Hub) PushMessageStatus(toUserID, messageID, status string) {
	h.sendToUser(toUserID, EventMessageStatus, messageStatusData{MessageID: messageID, Status: status})
}

// PushMessagesRead notifies a user's connections that the other participant
// read a chat.
func (h *Hub) PushMessagesRead(toUserID, chatID, byUserID string) {
	h.sendToUser(toUserID, EventMessagesRead, messagesReadData{ChatID: chatID, By: byUserID})
}

func (h *Hub) sendToUser(userID, eventType string, data interface{}) {
	frame, err := json.Marshal(newOutEnvelope(eventType, "", data))
	if err != nil {
		logger.Error("websocket: failed to marshal %s event: %v", eventType, err)
		return
	}
	for _, c := range h.registry.ConnectionsFor(userID) {
		c.enqueue(frame)
	}
}

// broadcast addresses every open connection, authenticated or not, so a
// socket still completing its handshake does not miss presence edges.
func (h *Hub) broadcast(eventType string, data interface{}) {
	frame, err := json.Marshal(newOutEnvelope(eventType, "", data))
	if err != nil {
		logger.Error("websocket: failed to marshal %s broadcast: %v", eventType, err)
		return
	}

	h.mu.Lock()
	targets := make([]*Client, 0, len(h.conns))
	for c := range h.conns {
		targets = append(targets, c)
	}
	h.mu.Unlock()

	for _, c := range targets {
		c.enqueue(frame)
	}
}

func (h *Hub) sendAck(c *Client, requestID string, data interface{}) {
	frame, err := json.Marshal(newOutEnvelope(EventAck, requestID, data))
	if err != nil {
		logger.Error("websocket: failed to marshal ack: %v", err)
		return
	}
	c.enqueue(frame)
}

func (h *Hub) sendError(c *Client, requestID string, err error) {
	var appErr *errors.AppError
	if !goerrors.As(err, &appErr) {
		appErr = errors.Internal("An unexpected error occurred", err)
	}

	env := newOutEnvelope(EventError, requestID, nil)
	env.Error = &errorData{Code: appErr.Code, Message: appErr.Message}

	frame, marshalErr := json.Marshal(env)
	if marshalErr != nil {
		logger.Error("websocket: failed to marshal error reply: %v", marshalErr)
		return
	}
	c.enqueue(frame)
}
