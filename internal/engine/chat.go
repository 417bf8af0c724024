package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/musedating/muse-engine/internal/domain"
)

// replyPool feeds the simulated counterpart. Drawn uniformly.
var replyPool = []string{
	"That sounds amazing!",
	"I'd love that!",
	"Tell me more about yourself",
	"Haha that's funny!",
	"What else do you like to do?",
	"That's so interesting!",
	"Can't wait to chat more!",
}

// CreateChat opens a conversation against a match and returns the new chat
// id. There is no dedup: a second call for the same match yields a second,
// parallel chat.
func (e *Engine) CreateChat(matchedProfile domain.CandidateProfile) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	chat := domain.Chat{
		ID:      uuid.NewString(),
		Profile: matchedProfile,
	}
	e.chats = append([]domain.Chat{chat}, e.chats...)
	e.persistLocked()
	return chat.ID
}

// DeleteChat removes the chat and its messages. Replies already in flight
// for it are dropped silently when they fire.
func (e *Engine) DeleteChat(chatID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, c := range e.chats {
		if c.ID == chatID {
			e.chats = append(e.chats[:i], e.chats[i+1:]...)
			delete(e.messages, chatID)
			e.persistLocked()
			return
		}
	}
}

// SendMessage appends a self message and schedules the simulated
// counterpart reply. Unknown chat ids are a safe no-op.
func (e *Engine) SendMessage(chatID, text string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	chat := e.findChatLocked(chatID)
	if chat == nil {
		return
	}

	now := e.now()
	msg := domain.Message{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		Text:      text,
		Sender:    domain.SenderSelf,
		Timestamp: now,
	}
	e.messages[chatID] = append(e.messages[chatID], msg)
	chat.LastMessage = text
	chat.LastMessageTime = &now

	e.scheduleReplyLocked(chatID)
	e.persistLocked()
}

// MarkChatRead zeroes the unread counter and flips the read flag on every
// message in the chat.
func (e *Engine) MarkChatRead(chatID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	chat := e.findChatLocked(chatID)
	if chat == nil {
		return
	}
	chat.UnreadCount = 0
	msgs := e.messages[chatID]
	for i := range msgs {
		msgs[i].Read = true
	}
	e.persistLocked()
}

func (e *Engine) findChatLocked(chatID string) *domain.Chat {
	for i := range e.chats {
		if e.chats[i].ID == chatID {
			return &e.chats[i]
		}
	}
	return nil
}

// scheduleReplyLocked arms a one-shot timer per outgoing message. Timers
// are tracked by token so Close can stop them; logout does not.
func (e *Engine) scheduleReplyLocked(chatID string) {
	if e.closed {
		return
	}
	token := uuid.NewString()
	e.replyTimers[token] = time.AfterFunc(e.replyDelay, func() {
		e.deliverReply(chatID, token)
	})
}

// deliverReply runs on the timer goroutine. It re-enters through the engine
// lock and re-validates that the target chat still exists; if it was
// deleted in the interim the write is dropped, never raised.
func (e *Engine) deliverReply(chatID, token string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	delete(e.replyTimers, token)
	if e.closed {
		return
	}

	chat := e.findChatLocked(chatID)
	if chat == nil {
		e.log.Debug("reply dropped, chat gone", "chat_id", chatID)
		return
	}

	now := e.now()
	reply := domain.Message{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		Text:      replyPool[e.appCtx.Rand.IntN(len(replyPool))],
		Sender:    domain.SenderCounterpart,
		Timestamp: now,
	}
	e.messages[chatID] = append(e.messages[chatID], reply)
	chat.LastMessage = reply.Text
	chat.LastMessageTime = &now
	chat.UnreadCount++
	e.profileStats.Messages++

	e.persistLocked()
}
