package assistant

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/irfan7230/EmpowHer-sub001/internal/dto"
)

const maxMessageLength = 2000

type Handler struct {
	resolve Resolver
}

func NewHandler(resolve Resolver) *Handler {
	return &Handler{resolve: resolve}
}

type ConversationResponse struct {
	Messages   []ChatMessage `json:"messages"`
	IsAITyping bool          `json:"is_ai_typing"`
}

type SendMessageRequest struct {
	Text string `json:"text"`
}

type AddResponseRequest struct {
	Text string      `json:"text"`
	Type MessageType `json:"type"`
}

type SetTypingRequest struct {
	IsTyping *bool `json:"is_typing"`
}

// WithStore resolves the session's conversation before calling fn.
func (h *Handler) WithStore(fn func(c *fiber.Ctx, store *Store) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		store, err := h.resolve(c)
		if err != nil {
			return dto.Fail(c, fiber.StatusUnauthorized, "Session required")
		}
		return fn(c, store)
	}
}

func (h *Handler) Conversation(c *fiber.Ctx, store *Store) error {
	return c.JSON(ConversationResponse{Messages: store.Messages(), IsAITyping: store.IsAITyping()})
}

// SendMessage appends the user's message. The reply arrives later and is
// visible through Conversation.
func (h *Handler) SendMessage(c *fiber.Ctx, store *Store) error {
	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return dto.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if reason := validateText(req.Text); reason != "" {
		return dto.Fail(c, fiber.StatusBadRequest, reason)
	}

	msg := store.AddChatMessage(req.Text)
	return c.Status(fiber.StatusAccepted).JSON(msg)
}

func (h *Handler) AddResponse(c *fiber.Ctx, store *Store) error {
	var req AddResponseRequest
	if err := c.BodyParser(&req); err != nil {
		return dto.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if reason := validateText(req.Text); reason != "" {
		return dto.Fail(c, fiber.StatusBadRequest, reason)
	}

	msg, err := store.AddAIResponse(req.Text, req.Type)
	if err != nil {
		return dto.WriteError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

func (h *Handler) SetTyping(c *fiber.Ctx, store *Store) error {
	var req SetTypingRequest
	if err := c.BodyParser(&req); err != nil || req.IsTyping == nil {
		return dto.Fail(c, fiber.StatusBadRequest, "is_typing is required")
	}

	store.SetAITyping(*req.IsTyping)
	return h.Conversation(c, store)
}

func (h *Handler) Clear(c *fiber.Ctx, store *Store) error {
	store.ClearChat()
	return h.Conversation(c, store)
}

func validateText(text string) string {
	if strings.TrimSpace(text) == "" {
		return "text is required"
	}
	if len(text) > maxMessageLength {
		return "text is too long"
	}
	return ""
}
