package assistant

import (
	"log/slog"
	"sync"
	"time"

	"github.com/irfan7230/EmpowHer-sub001/internal/apperr"
	"github.com/irfan7230/EmpowHer-sub001/internal/clock"
	"github.com/irfan7230/EmpowHer-sub001/internal/idgen"
	"github.com/irfan7230/EmpowHer-sub001/internal/pubsub"
)

// DefaultReplyDelay is how long the assistant "types" before replying.
const DefaultReplyDelay = 1500 * time.Millisecond

// Store owns one conversation with the scripted assistant.
type Store struct {
	mu       sync.Mutex
	seed     ChatMessage
	messages []ChatMessage
	typing   bool
	pending  map[uint64]clock.Timer
	nextTask uint64
	closed   bool

	script *Script
	delay  time.Duration
	ids    idgen.Generator
	clock  clock.Clock
	logger *slog.Logger
	hub    *pubsub.Hub[Change]
}

type Option func(*Store)

func WithScript(s *Script) Option {
	return func(st *Store) {
		if s != nil {
			st.script = s
		}
	}
}

func WithReplyDelay(d time.Duration) Option {
	return func(s *Store) { s.delay = d }
}

func WithIDGenerator(g idgen.Generator) Option {
	return func(s *Store) { s.ids = g }
}

func WithClock(c clock.Clock) Option {
	return func(s *Store) { s.clock = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore creates a conversation seeded with the script's greeting.
func NewStore(opts ...Option) *Store {
	s := &Store{
		pending: make(map[uint64]clock.Timer),
		delay:   DefaultReplyDelay,
		ids:     idgen.UUIDv7{},
		clock:   clock.Real{},
		logger:  slog.Default(),
		hub:     pubsub.NewHub[Change](),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.script == nil {
		s.script = DefaultScript()
	}
	s.logger = s.logger.With("store", "assistant")
	s.seed = ChatMessage{
		ID:        s.ids.NewID(),
		Text:      s.script.Greeting,
		Sender:    SenderAI,
		Timestamp: s.clock.Now(),
		Type:      TypeText,
	}
	s.messages = []ChatMessage{s.seed}
	return s
}

func (s *Store) Subscribe(fn func(Change)) func() {
	return s.hub.Subscribe(fn)
}

// Messages returns the conversation in insertion order.
func (s *Store) Messages() []ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ChatMessage{}, s.messages...)
}

func (s *Store) IsAITyping() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.typing
}

// PendingReplies returns how many scheduled replies have not landed yet.
func (s *Store) PendingReplies() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// AddChatMessage appends the user's message, marks the assistant as typing
// and schedules one reply after the reply delay. It does not wait for the
// reply. Every call schedules its own reply, so several may be in flight.
// A closed store only appends the message.
func (s *Store) AddChatMessage(text string) ChatMessage {
	s.mu.Lock()
	msg := ChatMessage{
		ID:        s.ids.NewID(),
		Text:      text,
		Sender:    SenderUser,
		Timestamp: s.clock.Now(),
		Type:      TypeText,
	}
	s.messages = append(s.messages, msg)
	if !s.closed {
		s.typing = true
		s.nextTask++
		task := s.nextTask
		s.pending[task] = s.clock.AfterFunc(s.delay, func() { s.deliver(task, text) })
	}
	change := s.changeLocked(OpUserMessage, "")
	s.mu.Unlock()

	s.hub.Publish(change)
	return msg
}

// deliver runs on the timer. A task removed by ClearChat or Close is dropped.
func (s *Store) deliver(task uint64, text string) {
	s.mu.Lock()
	if _, ok := s.pending[task]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.pending, task)
	intent := s.script.Classify(text)
	s.appendAILocked(intent.Reply, intent.Type)
	change := s.changeLocked(OpAIResponse, intent.Name)
	s.mu.Unlock()

	s.logger.Debug("assistant replied", "intent", intent.Name, "type", string(intent.Type))
	s.hub.Publish(change)
}

// AddAIResponse appends an assistant message immediately and clears the
// typing indicator. An empty type means TypeText.
func (s *Store) AddAIResponse(text string, typ MessageType) (ChatMessage, error) {
	if typ == "" {
		typ = TypeText
	}
	if !typ.Valid() {
		return ChatMessage{}, apperr.Newf(apperr.KindInvalidArgument, "unknown message type %q", typ)
	}

	s.mu.Lock()
	msg := s.appendAILocked(text, typ)
	change := s.changeLocked(OpAIResponse, "")
	s.mu.Unlock()

	s.hub.Publish(change)
	return msg, nil
}

func (s *Store) SetAITyping(typing bool) {
	s.mu.Lock()
	s.typing = typing
	change := s.changeLocked(OpSetTyping, "")
	s.mu.Unlock()

	s.hub.Publish(change)
}

// ClearChat starts a new conversation: the log goes back to the seed
// greeting, typing is cleared and every pending reply is cancelled.
func (s *Store) ClearChat() {
	s.mu.Lock()
	cancelled := s.cancelPendingLocked()
	s.messages = []ChatMessage{s.seed}
	s.typing = false
	change := s.changeLocked(OpClear, "")
	s.mu.Unlock()

	if cancelled > 0 {
		s.logger.Info("cancelled pending assistant replies", "count", cancelled)
	}
	s.hub.Publish(change)
}

// Close cancels pending replies and stops scheduling new ones. The log is
// kept readable.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelPendingLocked()
	s.closed = true
}

func (s *Store) cancelPendingLocked() int {
	n := len(s.pending)
	for task, timer := range s.pending {
		timer.Stop()
		delete(s.pending, task)
	}
	return n
}

func (s *Store) appendAILocked(text string, typ MessageType) ChatMessage {
	msg := ChatMessage{
		ID:        s.ids.NewID(),
		Text:      text,
		Sender:    SenderAI,
		Timestamp: s.clock.Now(),
		Type:      typ,
	}
	s.messages = append(s.messages, msg)
	s.typing = false
	return msg
}

func (s *Store) changeLocked(op Op, intent string) Change {
	return Change{
		Op:         op,
		Intent:     intent,
		Messages:   append([]ChatMessage{}, s.messages...),
		IsAITyping: s.typing,
	}
}
