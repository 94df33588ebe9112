package websocket

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xujalz/Lost-And-Found/internal/domain/entity"
	"github.com/xujalz/Lost-And-Found/pkg/errors"
)

type fakeVerifier struct{}

// VerifyToken accepts tokens of the form "token-<uid>".
func (fakeVerifier) VerifyToken(_ context.Context, token string) (string, error) {
	uid := strings.TrimPrefix(token, "token-")
	if uid == token || uid == "" {
		return "", errors.Unauthorized("Invalid or expired token", nil)
	}
	return uid, nil
}

type fakeChatService struct {
	sent      []string
	delivered []string
	read      []string
	failWith  error
}

func (f *fakeChatService) SendMessage(_ context.Context, senderID, chatID, content, msgType, fileURL string) (*entity.Message, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.sent = append(f.sent, chatID+":"+content)
	return &entity.Message{
		ID:       "m1",
		ChatID:   chatID,
		SenderID: senderID,
		Content:  content,
		Type:     entity.MessageTypeText,
		Status:   entity.StatusSent,
	}, nil
}

func (f *fakeChatService) MarkMessageDelivered(_ context.Context, callerID, messageID string) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.delivered = append(f.delivered, callerID+":"+messageID)
	return nil
}

func (f *fakeChatService) MarkChatRead(_ context.Context, chatID, readerID string) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.read = append(f.read, chatID+":"+readerID)
	return nil
}

type testFrame struct {
	Type  string          `json:"type"`
	ID    string          `json:"id"`
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestHub(chats ChatService) *Hub {
	hub := NewHub(NewRegistry(), fakeVerifier{})
	hub.SetChatService(chats)
	return hub
}

// nextFrame pops one queued frame from the client's send buffer.
func nextFrame(t *testing.T, c *Client) testFrame {
	t.Helper()
	select {
	case raw := <-c.send:
		var frame testFrame
		require.NoError(t, json.Unmarshal(raw, &frame))
		return frame
	default:
		t.Fatal("no frame queued")
		return testFrame{}
	}
}

func assertNoFrame(t *testing.T, c *Client) {
	t.Helper()
	select {
	case raw := <-c.send:
		t.Fatalf("unexpected frame: %s", raw)
	default:
	}
}

func authenticate(t *testing.T, hub *Hub, c *Client, uid string) {
	t.Helper()
	hub.handleEvent(c, []byte(`{"type":"authenticate","id":"auth","data":{"token":"token-`+uid+`"}}`))
	frame := nextFrame(t, c)
	require.Equal(t, EventAck, frame.Type)
	require.Equal(t, "auth", frame.ID)
}

func TestHubAuthenticate(t *testing.T) {
	hub := newTestHub(&fakeChatService{})
	c := NewClient(hub, nil)

	hub.handleEvent(c, []byte(`{"type":"authenticate","id":"r1","data":{"token":"token-alice"}}`))

	frame := nextFrame(t, c)
	assert.Equal(t, EventAck, frame.Type)
	assert.Equal(t, "r1", frame.ID)
	assert.Equal(t, "alice", c.UserID())
	assert.True(t, hub.IsOnline("alice"))

	// The authenticating connection hears its own user-online broadcast.
	frame = nextFrame(t, c)
	assert.Equal(t, EventUserOnline, frame.Type)
}

func TestHubAuthenticateBadToken(t *testing.T) {
	hub := newTestHub(&fakeChatService{})
	c := NewClient(hub, nil)

	hub.handleEvent(c, []byte(`{"type":"authenticate","id":"r1","data":{"token":"garbage"}}`))

	frame := nextFrame(t, c)
	assert.Equal(t, EventError, frame.Type)
	require.NotNil(t, frame.Error)
	assert.Equal(t, "UNAUTHENTICATED", frame.Error.Code)
	assert.Empty(t, c.UserID())
	assert.False(t, hub.IsOnline("alice"))
}

func TestHubSecondDeviceNoOnlineBroadcast(t *testing.T) {
	hub := newTestHub(&fakeChatService{})
	first := NewClient(hub, nil)
	second := NewClient(hub, nil)

	authenticate(t, hub, first, "alice")
	nextFrame(t, first) // user-online from own authentication

	authenticate(t, hub, second, "alice")

	assertNoFrame(t, first)
	assertNoFrame(t, second)
}

func TestHubRejectsUnauthenticatedEvents(t *testing.T) {
	chats := &fakeChatService{}
	hub := newTestHub(chats)
	c := NewClient(hub, nil)

	for _, raw := range []string{
		`{"type":"sendMessage","id":"r1","data":{"chatId":"c1","content":"hi"}}`,
		`{"type":"messageReceived","id":"r2","data":{"messageId":"m1"}}`,
		`{"type":"markRead","id":"r3","data":{"chatId":"c1"}}`,
	} {
		hub.handleEvent(c, []byte(raw))
		frame := nextFrame(t, c)
		assert.Equal(t, EventError, frame.Type)
		require.NotNil(t, frame.Error)
		assert.Equal(t, "UNAUTHENTICATED", frame.Error.Code)
	}

	assert.Empty(t, chats.sent)
	assert.Empty(t, chats.delivered)
	assert.Empty(t, chats.read)
}

func TestHubSendMessageAck(t *testing.T) {
	chats := &fakeChatService{}
	hub := newTestHub(chats)
	c := NewClient(hub, nil)
	authenticate(t, hub, c, "alice")
	nextFrame(t, c) // user-online

	hub.handleEvent(c, []byte(`{"type":"sendMessage","id":"r9","data":{"chatId":"c1","content":"hello"}}`))

	frame := nextFrame(t, c)
	assert.Equal(t, EventAck, frame.Type)
	assert.Equal(t, "r9", frame.ID)
	assert.Equal(t, []string{"c1:hello"}, chats.sent)
}

func TestHubSendMessageFailureKeepsConnection(t *testing.T) {
	chats := &fakeChatService{failWith: errors.Forbidden("You are not a participant of this chat", nil)}
	hub := newTestHub(chats)
	c := NewClient(hub, nil)
	authenticate(t, hub, c, "alice")
	nextFrame(t, c) // user-online

	hub.handleEvent(c, []byte(`{"type":"sendMessage","id":"r2","data":{"chatId":"c1","content":"hi"}}`))

	frame := nextFrame(t, c)
	assert.Equal(t, EventError, frame.Type)
	assert.Equal(t, "r2", frame.ID)
	require.NotNil(t, frame.Error)
	assert.Equal(t, "FORBIDDEN", frame.Error.Code)

	// Error replies never tear the connection down.
	assert.True(t, hub.IsOnline("alice"))

	chats.failWith = nil
	hub.handleEvent(c, []byte(`{"type":"markRead","id":"r3","data":{"chatId":"c1"}}`))
	frame = nextFrame(t, c)
	assert.Equal(t, EventAck, frame.Type)
	assert.Equal(t, []string{"c1:alice"}, chats.read)
}

func TestHubMessageReceived(t *testing.T) {
	chats := &fakeChatService{}
	hub := newTestHub(chats)
	c := NewClient(hub, nil)
	authenticate(t, hub, c, "bob")
	nextFrame(t, c) // user-online

	hub.handleEvent(c, []byte(`{"type":"messageReceived","id":"r4","data":{"messageId":"m7"}}`))

	frame := nextFrame(t, c)
	assert.Equal(t, EventAck, frame.Type)
	assert.Equal(t, []string{"bob:m7"}, chats.delivered)
}

func TestHubUnknownEvent(t *testing.T) {
	hub := newTestHub(&fakeChatService{})
	c := NewClient(hub, nil)

	hub.handleEvent(c, []byte(`{"type":"teleport","id":"r1"}`))

	frame := nextFrame(t, c)
	assert.Equal(t, EventError, frame.Type)
	assert.Equal(t, "r1", frame.ID)
}

func TestHubDropLastConnectionBroadcastsOffline(t *testing.T) {
	hub := newTestHub(&fakeChatService{})
	alice := NewClient(hub, nil)
	bob := NewClient(hub, nil)

	authenticate(t, hub, alice, "alice")
	nextFrame(t, alice) // user-online alice
	authenticate(t, hub, bob, "bob")
	nextFrame(t, alice) // user-online bob
	nextFrame(t, bob)   // user-online bob

	hub.dropClient(alice)
	assert.False(t, hub.IsOnline("alice"))

	frame := nextFrame(t, bob)
	assert.Equal(t, EventUserOffline, frame.Type)
	var data presenceData
	require.NoError(t, json.Unmarshal(frame.Data, &data))
	assert.Equal(t, "alice", data.UserID)
}

func TestHubIdentitySwitchBroadcastsOffline(t *testing.T) {
	hub := newTestHub(&fakeChatService{})
	alice := NewClient(hub, nil)
	bob := NewClient(hub, nil)

	authenticate(t, hub, alice, "alice")
	nextFrame(t, alice) // user-online alice
	authenticate(t, hub, bob, "bob")
	nextFrame(t, alice) // user-online bob
	nextFrame(t, bob)   // user-online bob

	// The connection switches to a different identity; alice had no other
	// connections, so her offline edge must be announced before the new
	// binding comes online.
	hub.handleEvent(alice, []byte(`{"type":"authenticate","id":"switch","data":{"token":"token-carol"}}`))
	assert.False(t, hub.IsOnline("alice"))
	assert.True(t, hub.IsOnline("carol"))

	var data presenceData
	for _, c := range []*Client{bob, alice} {
		frame := nextFrame(t, c)
		assert.Equal(t, EventUserOffline, frame.Type)
		require.NoError(t, json.Unmarshal(frame.Data, &data))
		assert.Equal(t, "alice", data.UserID)
	}

	frame := nextFrame(t, alice)
	assert.Equal(t, EventAck, frame.Type)
	assert.Equal(t, "switch", frame.ID)

	for _, c := range []*Client{bob, alice} {
		frame := nextFrame(t, c)
		assert.Equal(t, EventUserOnline, frame.Type)
		require.NoError(t, json.Unmarshal(frame.Data, &data))
		assert.Equal(t, "carol", data.UserID)
	}
}

func TestHubBroadcastReachesAnonymousConnections(t *testing.T) {
	hub := newTestHub(&fakeChatService{})
	anonymous := NewClient(hub, nil)
	alice := NewClient(hub, nil)

	authenticate(t, hub, alice, "alice")

	// A socket that upgraded but has not authenticated still hears
	// presence edges.
	frame := nextFrame(t, anonymous)
	assert.Equal(t, EventUserOnline, frame.Type)
	var data presenceData
	require.NoError(t, json.Unmarshal(frame.Data, &data))
	assert.Equal(t, "alice", data.UserID)

	hub.dropClient(anonymous)
	hub.dropClient(alice)
	frame = nextFrame(t, alice)
	assert.Equal(t, EventUserOnline, frame.Type) // own edge, queued earlier
}

func TestHubPushFansOutToAllConnections(t *testing.T) {
	hub := newTestHub(&fakeChatService{})
	first := NewClient(hub, nil)
	second := NewClient(hub, nil)
	authenticate(t, hub, first, "bob")
	nextFrame(t, first) // user-online
	authenticate(t, hub, second, "bob")

	hub.PushMessageStatus("bob", "m1", entity.StatusRead)

	for _, c := range []*Client{first, second} {
		frame := nextFrame(t, c)
		assert.Equal(t, EventMessageStatus, frame.Type)
		var data messageStatusData
		require.NoError(t, json.Unmarshal(frame.Data, &data))
		assert.Equal(t, "m1", data.MessageID)
		assert.Equal(t, entity.StatusRead, data.Status)
	}

	hub.PushMessagesRead("bob", "c1", "alice")
	frame := nextFrame(t, first)
	assert.Equal(t, EventMessagesRead, frame.Type)
}
