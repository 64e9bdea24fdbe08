package assistant

import "time"

type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

type MessageType string

const (
	TypeText     MessageType = "text"
	TypeFakeCall MessageType = "fake-call"
	TypeGuidance MessageType = "guidance"
)

func (t MessageType) Valid() bool {
	switch t {
	case TypeText, TypeFakeCall, TypeGuidance:
		return true
	}
	return false
}

// ChatMessage is one entry of the conversation log.
type ChatMessage struct {
	ID        string      `json:"id"`
	Text      string      `json:"text"`
	Sender    Sender      `json:"sender"`
	Timestamp time.Time   `json:"timestamp"`
	Type      MessageType `json:"type,omitempty"`
}

type Op string

const (
	OpUserMessage Op = "user_message"
	OpAIResponse  Op = "ai_response"
	OpSetTyping   Op = "set_typing"
	OpClear       Op = "clear"
)

// Change is delivered to subscribers after every mutation.
type Change struct {
	Op Op
	// Intent is set for replies produced by the scripted pipeline.
	Intent     string
	Messages   []ChatMessage
	IsAITyping bool
}
