package assistant

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, store *Store) *fiber.App {
	t.Helper()
	app := fiber.New()
	resolve := func(c *fiber.Ctx) (*Store, error) {
		if c.Get("X-Session-ID") == "" {
			return nil, errors.New("no session")
		}
		return store, nil
	}
	NewPlugin(resolve).RegisterRoutes(app.Group("/api"))
	return app
}

func send(t *testing.T, app *fiber.App, method, path, body string, out any) int {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-ID", "s-1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	if out != nil {
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, out), string(raw))
	}
	return resp.StatusCode
}

func TestHandlerSendMessageRepliesLater(t *testing.T) {
	store, clk := newTestStore(t)
	app := newTestApp(t, store)

	var msg ChatMessage
	code := send(t, app, http.MethodPost, "/api/assistant/messages", `{"text": "fake call now"}`, &msg)
	require.Equal(t, http.StatusAccepted, code)
	assert.Equal(t, SenderUser, msg.Sender)

	var conv ConversationResponse
	send(t, app, http.MethodGet, "/api/assistant/messages", "", &conv)
	assert.Len(t, conv.Messages, 2)
	assert.True(t, conv.IsAITyping)

	clk.Advance(DefaultReplyDelay)
	send(t, app, http.MethodGet, "/api/assistant/messages", "", &conv)
	require.Len(t, conv.Messages, 3)
	assert.Equal(t, TypeFakeCall, conv.Messages[2].Type)
	assert.False(t, conv.IsAITyping)
}

func TestHandlerClearCancelsPendingReply(t *testing.T) {
	store, clk := newTestStore(t)
	app := newTestApp(t, store)

	send(t, app, http.MethodPost, "/api/assistant/messages", `{"text": "help"}`, nil)

	var conv ConversationResponse
	require.Equal(t, http.StatusOK, send(t, app, http.MethodDelete, "/api/assistant/messages", "", &conv))
	assert.Len(t, conv.Messages, 1)

	clk.Advance(time.Minute)
	send(t, app, http.MethodGet, "/api/assistant/messages", "", &conv)
	assert.Len(t, conv.Messages, 1)
}

func TestHandlerAddResponseAndTyping(t *testing.T) {
	store, _ := newTestStore(t)
	app := newTestApp(t, store)

	var conv ConversationResponse
	require.Equal(t, http.StatusOK, send(t, app, http.MethodPut, "/api/assistant/typing", `{"is_typing": true}`, &conv))
	assert.True(t, conv.IsAITyping)
	assert.Equal(t, http.StatusBadRequest, send(t, app, http.MethodPut, "/api/assistant/typing", `{}`, nil))

	var msg ChatMessage
	require.Equal(t, http.StatusCreated, send(t, app, http.MethodPost, "/api/assistant/responses", `{"text": "Stay on the main road", "type": "guidance"}`, &msg))
	assert.Equal(t, TypeGuidance, msg.Type)
	assert.False(t, store.IsAITyping())

	assert.Equal(t, http.StatusBadRequest, send(t, app, http.MethodPost, "/api/assistant/responses", `{"text": "x", "type": "video"}`, nil))
	assert.Equal(t, http.StatusBadRequest, send(t, app, http.MethodPost, "/api/assistant/messages", `{"text": "   "}`, nil))
}
