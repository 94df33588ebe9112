package websocket

import (
	"encoding/json"
	"time"
)

// Client -> server events.
const (
	EventAuthenticate    = "authenticate"
	EventSendMessage     = "sendMessage"
	EventMessageReceived = "messageReceived"
	EventMarkRead        = "markRead"
)

// Server -> client events.
const (
	EventAck           = "ack"
	EventError         = "error"
	EventNewMessage    = "newMessage"
	EventMessageStatus = "messageStatus"
	EventMessagesRead  = "messagesRead"
	EventUserOnline    = "user-online"
	EventUserOffline   = "user-offline"
)

// Envelope is the wire format for inbound events. ID is an optional request
// id echoed back on the ack so clients can correlate replies on a channel
// that otherwise only pushes.
type Envelope struct {
	Type string          `json:"type"`
	ID   string          `json:"id,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

type outEnvelope struct {
	Type      string      `json:"type"`
	ID        string      `json:"id,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     *errorData  `json:"error,omitempty"`
	Timestamp string      `json:"timestamp"`
}

type errorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newOutEnvelope(eventType, requestID string, data interface{}) outEnvelope {
	return outEnvelope{
		Type:      eventType,
		ID:        requestID,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

type authenticatePayload struct {
	Token string `json:"token"`
}

type sendMessagePayload struct {
	ChatID  string `json:"chatId"`
	To      string `json:"to"`
	Content string `json:"content"`
	Type    string `json:"type,omitempty"`
	FileURL string `json:"fileUrl,omitempty"`
}

type messageReceivedPayload struct {
	MessageID string `json:"messageId"`
}

type markReadPayload struct {
	ChatID string `json:"chatId"`
}

type messageStatusData struct {
	MessageID string `json:"messageId"`
	Status    string `json:"status"`
}

type messagesReadData struct {
	ChatID string `json:"chatId"`
	By     string `json:"by"`
}

type presenceData struct {
	UserID string `json:"userId"`
}
