package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musedating/muse-engine/internal/domain"
	"github.com/musedating/muse-engine/internal/engine"
)

const testReplyDelay = 5 * time.Millisecond

func matchedProfile() domain.CandidateProfile {
	return domain.CandidateProfile{ID: "cand-1", Name: "Priya", Age: 26}
}

func TestCreateChat(t *testing.T) {
	f := newFixture(t, engine.Options{ReplyDelay: time.Hour})

	id := f.eng.CreateChat(matchedProfile())
	require.NotEmpty(t, id)

	chats := f.eng.Chats()
	require.Len(t, chats, 1)
	assert.Equal(t, id, chats[0].ID)
	assert.Equal(t, "Priya", chats[0].Profile.Name)
	assert.Empty(t, chats[0].LastMessage)
	assert.Zero(t, chats[0].UnreadCount)
}

// No dedup: opening a chat twice for the same match yields two parallel
// chats.
func TestCreateChatDoesNotDeduplicate(t *testing.T) {
	f := newFixture(t, engine.Options{ReplyDelay: time.Hour})

	first := f.eng.CreateChat(matchedProfile())
	second := f.eng.CreateChat(matchedProfile())

	assert.NotEqual(t, first, second)
	chats := f.eng.Chats()
	require.Len(t, chats, 2)
	// Newest chat sits at the front of the list.
	assert.Equal(t, second, chats[0].ID)
	assert.Equal(t, first, chats[1].ID)
}

func TestSendMessageUnknownChatIsNoop(t *testing.T) {
	f := newFixture(t, engine.Options{ReplyDelay: testReplyDelay})

	f.eng.SendMessage("no-such-chat", "hello?")

	assert.Empty(t, f.eng.Chats())
	assert.Empty(t, f.eng.ChatMessages("no-such-chat"))
	// Nothing was scheduled either; give a would-be reply time to misfire.
	time.Sleep(4 * testReplyDelay)
	assert.Empty(t, f.eng.ChatMessages("no-such-chat"))
}

func TestSendMessageAndSimulatedReply(t *testing.T) {
	f := newFixture(t, engine.Options{ReplyDelay: testReplyDelay})
	chatID := f.eng.CreateChat(matchedProfile())

	f.eng.SendMessage(chatID, "hey there")

	msgs := f.eng.ChatMessages(chatID)
	require.Len(t, msgs, 1)
	assert.Equal(t, domain.SenderSelf, msgs[0].Sender)
	assert.Equal(t, "hey there", msgs[0].Text)
	assert.Equal(t, "hey there", f.eng.Chats()[0].LastMessage)
	require.NotNil(t, f.eng.Chats()[0].LastMessageTime)

	require.Eventually(t, func() bool {
		return len(f.eng.ChatMessages(chatID)) == 2
	}, time.Second, time.Millisecond)

	reply := f.eng.ChatMessages(chatID)[1]
	assert.Equal(t, domain.SenderCounterpart, reply.Sender)
	assert.NotEmpty(t, reply.Text)
	assert.Equal(t, 1, f.eng.Chats()[0].UnreadCount)
	assert.Equal(t, 1, f.eng.Stats().Messages)
}

func TestReplyDroppedWhenChatDeleted(t *testing.T) {
	f := newFixture(t, engine.Options{ReplyDelay: testReplyDelay})
	chatID := f.eng.CreateChat(matchedProfile())

	f.eng.SendMessage(chatID, "hello")
	f.eng.DeleteChat(chatID)

	// The deferred reply must neither raise nor resurrect the chat.
	time.Sleep(10 * testReplyDelay)
	assert.Empty(t, f.eng.Chats())
	assert.Empty(t, f.eng.ChatMessages(chatID))
}

func TestMessageOrderingWithinChat(t *testing.T) {
	f := newFixture(t, engine.Options{ReplyDelay: testReplyDelay})
	chatID := f.eng.CreateChat(matchedProfile())

	f.eng.SendMessage(chatID, "first")
	f.eng.SendMessage(chatID, "second")

	require.Eventually(t, func() bool {
		return len(f.eng.ChatMessages(chatID)) == 4
	}, time.Second, time.Millisecond)

	msgs := f.eng.ChatMessages(chatID)
	// Self messages keep call order; both replies append after the sends
	// that triggered them.
	assert.Equal(t, "first", msgs[0].Text)
	assert.Equal(t, domain.SenderSelf, msgs[0].Sender)
	assert.Equal(t, "second", msgs[1].Text)
	assert.Equal(t, domain.SenderSelf, msgs[1].Sender)
	assert.Equal(t, domain.SenderCounterpart, msgs[2].Sender)
	assert.Equal(t, domain.SenderCounterpart, msgs[3].Sender)
}

func TestRepliesInterleaveByChat(t *testing.T) {
	f := newFixture(t, engine.Options{ReplyDelay: testReplyDelay})
	chatA := f.eng.CreateChat(matchedProfile())
	chatB := f.eng.CreateChat(domain.CandidateProfile{ID: "cand-2", Name: "Sarah"})

	f.eng.SendMessage(chatA, "to A")
	f.eng.SendMessage(chatB, "to B")

	require.Eventually(t, func() bool {
		return len(f.eng.ChatMessages(chatA)) == 2 && len(f.eng.ChatMessages(chatB)) == 2
	}, time.Second, time.Millisecond)

	assert.Equal(t, domain.SenderCounterpart, f.eng.ChatMessages(chatA)[1].Sender)
	assert.Equal(t, domain.SenderCounterpart, f.eng.ChatMessages(chatB)[1].Sender)
}

func TestDeleteUnknownChatIsNoop(t *testing.T) {
	f := newFixture(t, engine.Options{ReplyDelay: time.Hour})
	chatID := f.eng.CreateChat(matchedProfile())

	f.eng.DeleteChat("no-such-chat")
	require.Len(t, f.eng.Chats(), 1)
	assert.Equal(t, chatID, f.eng.Chats()[0].ID)
}

func TestMarkChatRead(t *testing.T) {
	f := newFixture(t, engine.Options{ReplyDelay: testReplyDelay})
	chatID := f.eng.CreateChat(matchedProfile())

	f.eng.SendMessage(chatID, "hello")
	require.Eventually(t, func() bool {
		return f.eng.Chats()[0].UnreadCount == 1
	}, time.Second, time.Millisecond)

	f.eng.MarkChatRead(chatID)
	assert.Zero(t, f.eng.Chats()[0].UnreadCount)
	for _, m := range f.eng.ChatMessages(chatID) {
		assert.True(t, m.Read)
	}
}

func TestLogoutDoesNotCancelPendingReply(t *testing.T) {
	f := newFixture(t, engine.Options{ReplyDelay: testReplyDelay})
	f.login(t)
	chatID := f.eng.CreateChat(matchedProfile())

	f.eng.SendMessage(chatID, "hello")
	require.NoError(t, f.eng.Logout(t.Context()))

	// Logout does not cancel timers: the in-flight reply still applies.
	require.Eventually(t, func() bool {
		return len(f.eng.ChatMessages(chatID)) == 2
	}, time.Second, time.Millisecond)
}
