package store

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mostaqbalcity/forumclient/internal/api"
	"github.com/mostaqbalcity/forumclient/internal/models"
)

// Conversation is the derived per-counterpart grouping of direct messages.
// It is a pure view recomputed from the message set, never stored.
type Conversation struct {
	UserID      int64
	Username    string
	Messages    []models.Message
	UnreadCount int
	LastMessage *models.Message
}

// ConversationStore maintains all direct messages involving the current
// identity and derives the conversation view from them.
type ConversationStore struct {
	client *api.Client
	logger zerolog.Logger
	self   models.User

	mu       sync.RWMutex
	messages []models.Message

	onChange func()
}

// NewConversationStore creates a store scoped to the given identity.
func NewConversationStore(client *api.Client, self models.User, logger zerolog.Logger) *ConversationStore {
	return &ConversationStore{client: client, self: self, logger: logger}
}

// SetOnChange registers the callback invoked after every state change. Must
// be set before the store is shared across goroutines.
func (s *ConversationStore) SetOnChange(fn func()) {
	s.onChange = fn
}

// Load fetches every message where the current identity is sender or
// recipient, replacing local state. On failure the last-good state is
// retained. Read receipts for already-held unread messages are the opened
// screen's call to make, not Load's.
func (s *ConversationStore) Load(ctx context.Context) error {
	messages, err := s.client.GetMessages(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to load messages")
		return err
	}

	s.mu.Lock()
	s.messages = messages
	s.mu.Unlock()
	s.notify()
	return nil
}

// ApplyRemoteEvent merges a push-delivered message. Deliveries are
// at-least-once, so a message whose id is already present is dropped. A new
// unread message addressed to self triggers an automatic read receipt.
func (s *ConversationStore) ApplyRemoteEvent(ctx context.Context, message models.Message) {
	s.mu.Lock()
	for _, m := range s.messages {
		if m.ID == message.ID {
			s.mu.Unlock()
			s.logger.Debug().Int64("messageID", message.ID).Msg("Dropped duplicate message delivery")
			return
		}
	}
	s.messages = append(s.messages, message)
	s.mu.Unlock()
	s.notify()

	if message.Sender.ID != s.self.ID && !message.IsRead {
		s.MarkRead(ctx, message.ID)
	}
}

// Snapshot recomputes the conversation grouping from the full message set.
// Messages partition by the participant who is not self, so both directions
// of a pair land in one bucket. UnreadCount counts counterpart-authored
// unread messages; LastMessage is the maximum by creation time, not arrival
// order.
func (s *ConversationStore) Snapshot() map[int64]*Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *ConversationStore) snapshotLocked() map[int64]*Conversation {
	groups := make(map[int64]*Conversation)
	for i := range s.messages {
		m := s.messages[i]
		other := m.Counterpart(s.self.ID)

		conv, ok := groups[other.ID]
		if !ok {
			conv = &Conversation{UserID: other.ID, Username: other.Username}
			groups[other.ID] = conv
		}

		conv.Messages = append(conv.Messages, m)

		if m.Sender.ID != s.self.ID && !m.IsRead {
			conv.UnreadCount++
		}

		if conv.LastMessage == nil || m.CreatedAt.After(conv.LastMessage.CreatedAt) {
			last := m
			conv.LastMessage = &last
		}
	}
	return groups
}

// Conversations returns the derived conversations ordered by most recent
// activity, for list rendering.
func (s *ConversationStore) Conversations() []*Conversation {
	groups := s.Snapshot()
	list := make([]*Conversation, 0, len(groups))
	for _, conv := range groups {
		list = append(list, conv)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].LastMessage.CreatedAt.After(list[j].LastMessage.CreatedAt)
	})
	return list
}

// AdminConversation resolves the single conversation a resident sees: the
// first one whose message set involves an admin participant on either side.
// Returns nil for an admin identity or when no such conversation exists;
// absence is not an error.
func (s *ConversationStore) AdminConversation() *Conversation {
	if s.self.IsAdmin {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := s.snapshotLocked()
	// Scan messages in arrival order so "first" is deterministic.
	for _, m := range s.messages {
		conv := groups[m.Counterpart(s.self.ID).ID]
		if conv == nil {
			continue
		}
		for _, cm := range conv.Messages {
			if cm.Sender.IsAdmin || cm.Recipient.IsAdmin {
				return conv
			}
		}
	}
	return nil
}

// MarkRead marks one message read: backend call first, then the local flag is
// set regardless of the response. Read receipts are best-effort; failures are
// logged and never surfaced. Idempotent.
func (s *ConversationStore) MarkRead(ctx context.Context, messageID int64) {
	if err := s.client.MarkMessageRead(ctx, messageID); err != nil {
		s.logger.Warn().Err(err).Int64("messageID", messageID).Msg("Failed to mark message read")
	}

	s.mu.Lock()
	changed := false
	for i := range s.messages {
		if s.messages[i].ID == messageID && !s.messages[i].IsRead {
			s.messages[i].IsRead = true
			changed = true
			break
		}
	}
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// Send dispatches a message without touching local state; the message shows
// up through its push echo. Residents always address the admin and toUserID
// is ignored; an admin identity addresses the given user.
func (s *ConversationStore) Send(ctx context.Context, toUserID int64, content string) error {
	req := api.SendMessageRequest{Content: content}
	if s.self.IsAdmin {
		return s.client.ReplyToUser(ctx, toUserID, req)
	}
	return s.client.MessageAdmin(ctx, req)
}

// Delete removes a message through the backend's (sender, recipient, message)
// triple, then refreshes the full set.
func (s *ConversationStore) Delete(ctx context.Context, messageID int64) error {
	s.mu.RLock()
	var target models.Message
	found := false
	for i := range s.messages {
		if s.messages[i].ID == messageID {
			target = s.messages[i]
			found = true
			break
		}
	}
	s.mu.RUnlock()

	if !found {
		return nil
	}

	if err := s.client.DeleteMessage(ctx, target.Sender.ID, target.Recipient.ID, messageID); err != nil {
		s.logger.Warn().Err(err).Int64("messageID", messageID).Msg("Failed to delete message")
		return err
	}
	return s.Load(ctx)
}

// Messages returns a copy of the raw message set, oldest arrival first.
func (s *ConversationStore) Messages() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *ConversationStore) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}
