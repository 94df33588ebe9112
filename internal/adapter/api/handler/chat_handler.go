package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/xujalz/Lost-And-Found/internal/usecase"
	"github.com/xujalz/Lost-And-Found/pkg/response"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type openChatRequest struct {
	RecipientID string `json:"recipient_id" validate:"required"`
}

type sendMessageRequest struct {
	Content string `json:"content"`
	Type    string `json:"type" validate:"omitempty,oneof=text file"`
	FileURL string `json:"file_url" validate:"omitempty,url"`
}

// OpenChat returns the caller's chat with the recipient, creating it on
// first contact.
func (h *ChatHandler) OpenChat(c echo.Context) error {
	var req openChatRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	chat, err := h.chatUseCase.OpenChat(c.Request().Context(), userID, req.RecipientID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, chat)
}

// ListChats returns the caller's chats, newest activity first.
func (h *ChatHandler) ListChats(c echo.Context) error {
	userID := c.Get("uid").(string)

	chats, err := h.chatUseCase.ListChats(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, chats)
}

// GetMessages returns a chat's full history, oldest first.
func (h *ChatHandler) GetMessages(c echo.Context) error {
	userID := c.Get("uid").(string)
	chatID := c.Param("id")

	messages, err := h.chatUseCase.GetMessages(c.Request().Context(), userID, chatID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}

// SendMessage is the HTTP fallback for clients without a live socket. The
// recorded message still fans out to the recipient's connections.
func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)
	chatID := c.Param("id")

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), userID, chatID, req.Content, req.Type, req.FileURL)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

// MarkChatRead marks every message addressed to the caller in the chat as
// read and resets the caller's unread counter.
func (h *ChatHandler) MarkChatRead(c echo.Context) error {
	userID := c.Get("uid").(string)
	chatID := c.Param("id")

	if err := h.chatUseCase.MarkChatRead(c.Request().Context(), chatID, userID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"status": "read",
	})
}
