package bot

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"postcraft-bot/internal/bot/state_manager"
	"postcraft-bot/internal/domain"
	"postcraft-bot/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const (
	testChatID  int64 = 42
	testPanelID       = 500
	testChannel       = "-100777"
)

type call struct {
	op        string
	chatID    int64
	channelID string
	messageID int
	text      string
	markup    *tgbotapi.InlineKeyboardMarkup
	alert     bool
	item      domain.Content
}

// fakeTransport records every outbound call. Sent messages get increasing ids.
type fakeTransport struct {
	mu     sync.Mutex
	nextID int
	calls  []call

	copyErr   map[int]error
	resendErr error
	editErr   error
	buttonErr error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{nextID: 1000, copyErr: map[int]error{}}
}

func (f *fakeTransport) record(c call) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	f.nextID++
	return f.nextID
}

func (f *fakeTransport) Send(_ context.Context, chatID int64, text string, markup *tgbotapi.InlineKeyboardMarkup) (int, error) {
	return f.record(call{op: "send", chatID: chatID, text: text, markup: markup}), nil
}

func (f *fakeTransport) Edit(_ context.Context, chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	f.record(call{op: "edit", chatID: chatID, messageID: messageID, text: text, markup: markup})
	return f.editErr
}

func (f *fakeTransport) Delete(_ context.Context, chatID int64, messageID int) error {
	f.record(call{op: "delete", chatID: chatID, messageID: messageID})
	return errors.New("message can't be deleted")
}

func (f *fakeTransport) AnswerCallback(_ context.Context, _ string, text string, alert bool) error {
	f.record(call{op: "answer", text: text, alert: alert})
	return nil
}

func (f *fakeTransport) SendDocument(_ context.Context, chatID int64, name string, _ []byte) error {
	f.record(call{op: "document", chatID: chatID, text: name})
	return nil
}

func (f *fakeTransport) Copy(_ context.Context, channelID string, fromChatID int64, messageID int) (int, error) {
	id := f.record(call{op: "copy", channelID: channelID, chatID: fromChatID, messageID: messageID})
	if err := f.copyErr[messageID]; err != nil {
		return 0, err
	}
	return id, nil
}

func (f *fakeTransport) Resend(_ context.Context, channelID string, item domain.Content) (int, error) {
	id := f.record(call{op: "resend", channelID: channelID, messageID: item.MessageID, item: item})
	if f.resendErr != nil {
		return 0, f.resendErr
	}
	return id, nil
}

func (f *fakeTransport) SendToChannel(_ context.Context, channelID string, text string, markup *tgbotapi.InlineKeyboardMarkup) (int, error) {
	id := f.record(call{op: "channel_send", channelID: channelID, text: text, markup: markup})
	if f.buttonErr != nil {
		return 0, f.buttonErr
	}
	return id, nil
}

func (f *fakeTransport) ops(op string) []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []call
	for _, c := range f.calls {
		if c.op == op {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeTransport) last(op string) call {
	calls := f.ops(op)
	if len(calls) == 0 {
		return call{}
	}
	return calls[len(calls)-1]
}

func (f *fakeTransport) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

type harness struct {
	t         *testing.T
	bot       *Bot
	transport *fakeTransport
	registry  *storage.FileRegistry
	state     *state_manager.UserDialogStateManager
	nextMsgID int
}

func newHarness(t *testing.T, channels ...domain.Channel) *harness {
	t.Helper()
	logger := zaptest.NewLogger(t)

	registry := storage.NewFileRegistry(filepath.Join(t.TempDir(), "channels.json"), logger)
	for _, ch := range channels {
		require.NoError(t, registry.Add(context.Background(), ch.ID, ch.Title))
	}

	transport := newFakeTransport()
	state := state_manager.New(state_manager.NewMemoryStorage())

	return &harness{
		t:         t,
		bot:       New(transport, registry, state, logger, Options{ButtonsText: "Links"}),
		transport: transport,
		registry:  registry,
		state:     state,
		nextMsgID: 10,
	}
}

func privateChat() *tgbotapi.Chat {
	return &tgbotapi.Chat{ID: testChatID, Type: "private"}
}

func (h *harness) message(msg *tgbotapi.Message) int {
	h.nextMsgID++
	msg.MessageID = h.nextMsgID
	if msg.Chat == nil {
		msg.Chat = privateChat()
	}
	msg.From = &tgbotapi.User{ID: testChatID, FirstName: "Ann"}
	h.bot.HandleUpdate(context.Background(), tgbotapi.Update{Message: msg})
	return msg.MessageID
}

func (h *harness) text(text string) int {
	return h.message(&tgbotapi.Message{Text: text})
}

func (h *harness) command(name string) {
	text := "/" + name
	h.message(&tgbotapi.Message{
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}},
	})
}

func (h *harness) press(data string) call {
	h.bot.HandleUpdate(context.Background(), tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: testChatID, FirstName: "Ann"},
		Message: &tgbotapi.Message{MessageID: testPanelID, Chat: privateChat()},
		Data:    data,
	}})
	return h.transport.last("answer")
}

func (h *harness) record() (domain.ConversationRecord, bool) {
	rec, ok, err := h.state.Get(context.Background(), testChatID)
	require.NoError(h.t, err)
	return rec, ok
}

func (h *harness) compose() {
	h.press(CallbackCreatePost)
	h.press(CallbackSelectChannel + ":" + testChannel)
	rec, ok := h.record()
	require.True(h.t, ok)
	require.Equal(h.t, domain.ModeCollectPost, rec.Mode)
}

func news() domain.Channel {
	return domain.Channel{ID: testChannel, Title: "News"}
}

func keyboardData(kb *tgbotapi.InlineKeyboardMarkup) []string {
	if kb == nil {
		return nil
	}
	var data []string
	for _, row := range kb.InlineKeyboard {
		for _, btn := range row {
			if btn.CallbackData != nil {
				data = append(data, *btn.CallbackData)
			}
		}
	}
	return data
}

func TestStartWithoutChannelsShowsAddChannelPromptOnly(t *testing.T) {
	h := newHarness(t)

	h.command(CommandStart)

	sends := h.transport.ops("send")
	require.Len(t, sends, 1)
	assert.Equal(t, msgAddChannelFirst, sends[0].text)
	assert.Equal(t, []string{CallbackAddChannel}, keyboardData(sends[0].markup))
	assert.NotContains(t, keyboardData(sends[0].markup), CallbackCreatePost)
}

func TestStartWithChannelsShowsMainMenu(t *testing.T) {
	h := newHarness(t, news())

	h.command(CommandStart)

	sent := h.transport.last("send")
	assert.Contains(t, sent.text, "Ann")
	assert.Contains(t, keyboardData(sent.markup), CallbackCreatePost)
}

func TestStartClearsConversation(t *testing.T) {
	h := newHarness(t, news())
	h.compose()

	h.command(CommandStart)

	_, ok := h.record()
	assert.False(t, ok)
}

func TestAddChannelFlow(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	h.press(CallbackAddChannel)
	rec, ok := h.record()
	require.True(t, ok)
	assert.Equal(t, domain.ModeAddChannel, rec.Mode)
	assert.Equal(t, testPanelID, rec.PanelMessageID)
	assert.Equal(t, msgAddChannelSteps, h.transport.last("edit").text)

	h.message(&tgbotapi.Message{
		Text:            "from a group",
		ForwardFromChat: &tgbotapi.Chat{ID: -555, Type: "supergroup", Title: "Group"},
	})
	assert.Equal(t, msgForwardOnly, h.transport.last("send").text)
	rec, ok = h.record()
	require.True(t, ok)
	assert.Equal(t, domain.ModeAddChannel, rec.Mode)
	channels, err := h.registry.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, channels)

	h.text("plain text")
	rec, ok = h.record()
	require.True(t, ok)
	assert.Equal(t, domain.ModeAddChannel, rec.Mode)

	h.message(&tgbotapi.Message{
		Text:            "from the channel",
		ForwardFromChat: &tgbotapi.Chat{ID: -100777, Type: "channel", Title: "News <daily>"},
	})

	ch, err := h.registry.Get(ctx, "-100777")
	require.NoError(t, err)
	assert.Equal(t, "News <daily>", ch.Title)

	_, ok = h.record()
	assert.False(t, ok)

	edit := h.transport.last("edit")
	assert.Equal(t, testPanelID, edit.messageID)
	assert.Contains(t, edit.text, "News &lt;daily&gt;")
	assert.Contains(t, keyboardData(edit.markup), CallbackCreatePost)
}

func TestCreatePostWithoutChannelsRedirects(t *testing.T) {
	h := newHarness(t)

	h.press(CallbackCreatePost)

	assert.Equal(t, msgAddChannelFirst, h.transport.last("edit").text)
	_, ok := h.record()
	assert.False(t, ok)
}

func TestCreatePostShowsPicker(t *testing.T) {
	h := newHarness(t, news(), domain.Channel{ID: "-2", Title: "Two"}, domain.Channel{ID: "-3", Title: "Three"})

	h.press(CallbackCreatePost)

	edit := h.transport.last("edit")
	assert.Equal(t, msgPickChannel, edit.text)
	require.Len(t, edit.markup.InlineKeyboard, 3)
	assert.Len(t, edit.markup.InlineKeyboard[0], 2)
	assert.Equal(t, []string{
		"select_channel:" + testChannel,
		"select_channel:-2",
		"select_channel:-3",
		CallbackBackHome,
	}, keyboardData(edit.markup))

	_, ok := h.record()
	assert.False(t, ok)
}

func TestSelectUnknownChannel(t *testing.T) {
	h := newHarness(t, news())

	answer := h.press(CallbackSelectChannel + ":-404")

	assert.Equal(t, answerChannelNotFound, answer.text)
	_, ok := h.record()
	assert.False(t, ok)
}

func TestSelectChannelStartsWithEmptyBuffers(t *testing.T) {
	h := newHarness(t, news())

	h.compose()
	h.text("draft")
	h.press(CallbackAddURLButtons)
	h.text("Shop | https://x.example")
	h.press(CallbackBackHome)

	h.compose()
	rec, _ := h.record()
	assert.Empty(t, rec.Buffer)
	assert.Empty(t, rec.Buttons)
	assert.Equal(t, testChannel, rec.ChannelID)
	assert.Equal(t, "News", rec.ChannelTitle)
	assert.Equal(t, testPanelID, rec.PanelMessageID)
}

func TestContentIsBufferedAndAcknowledged(t *testing.T) {
	h := newHarness(t, news())
	h.compose()

	first := h.text("hello")
	second := h.message(&tgbotapi.Message{Photo: []tgbotapi.PhotoSize{{FileID: "p1"}, {FileID: "p2"}}, Caption: "pic"})

	rec, _ := h.record()
	require.Len(t, rec.Buffer, 2)
	assert.Equal(t, first, rec.Buffer[0].MessageID)
	assert.Equal(t, domain.KindText, rec.Buffer[0].Kind)
	assert.Equal(t, second, rec.Buffer[1].MessageID)
	assert.Equal(t, domain.KindPhoto, rec.Buffer[1].Kind)
	assert.Equal(t, "p2", rec.Buffer[1].FileID)
	assert.NotZero(t, rec.Buffer[1].AckMessageID)

	sends := h.transport.ops("send")
	require.Len(t, sends, 2)
	assert.Contains(t, sends[1].text, "<b>2</b>")
}

func TestUnsupportedContentIsRejected(t *testing.T) {
	h := newHarness(t, news())
	h.compose()

	h.message(&tgbotapi.Message{Location: &tgbotapi.Location{Latitude: 1, Longitude: 2}})

	assert.Equal(t, msgUnsupported, h.transport.last("send").text)
	rec, _ := h.record()
	assert.Empty(t, rec.Buffer)
}

func TestContentInIdleIsIgnored(t *testing.T) {
	h := newHarness(t, news())

	h.text("hello")
	h.message(&tgbotapi.Message{Sticker: &tgbotapi.Sticker{FileID: "s"}})
	h.command("unknown")

	assert.Empty(t, h.transport.calls)
	_, ok := h.record()
	assert.False(t, ok)
}

func TestNonPrivateChatsAreIgnored(t *testing.T) {
	h := newHarness(t, news())

	h.message(&tgbotapi.Message{
		Text:     "/start",
		Chat:     &tgbotapi.Chat{ID: -1, Type: "group"},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 6}},
	})

	assert.Empty(t, h.transport.calls)
}

func TestAddURLButton(t *testing.T) {
	h := newHarness(t, news())
	h.compose()

	h.press(CallbackAddURLButtons)
	rec, _ := h.record()
	assert.Equal(t, domain.ModeAddURLButton, rec.Mode)
	assert.Equal(t, msgButtonPrompt, h.transport.last("edit").text)

	h.text("Shop | https://x.example")

	rec, _ = h.record()
	assert.Equal(t, domain.ModeCollectPost, rec.Mode)
	assert.Equal(t, []domain.Button{{Label: "Shop", URL: "https://x.example"}}, rec.Buttons)
	assert.Empty(t, rec.Buffer)
}

func TestAddURLButtonRejectsBadInput(t *testing.T) {
	h := newHarness(t, news())
	h.compose()
	h.text("kept")
	h.press(CallbackAddURLButtons)

	h.text("no separator here")

	assert.Equal(t, msgButtonFormat, h.transport.last("send").text)
	rec, _ := h.record()
	assert.Equal(t, domain.ModeAddURLButton, rec.Mode)
	assert.Empty(t, rec.Buttons)
	assert.Len(t, rec.Buffer, 1)

	h.message(&tgbotapi.Message{Photo: []tgbotapi.PhotoSize{{FileID: "p"}}})
	rec, _ = h.record()
	assert.Equal(t, domain.ModeAddURLButton, rec.Mode)
	assert.Len(t, rec.Buffer, 1)
}

func TestAttachMediaLeavesButtonMode(t *testing.T) {
	h := newHarness(t, news())
	h.compose()
	h.text("kept")
	h.press(CallbackAddURLButtons)

	h.press(CallbackAttachMedia)

	rec, _ := h.record()
	assert.Equal(t, domain.ModeCollectPost, rec.Mode)
	assert.Len(t, rec.Buffer, 1)
}

func TestDeleteLastOnEmptyBufferIsNoop(t *testing.T) {
	h := newHarness(t, news())
	h.compose()
	before, _ := h.record()

	answer := h.press(CallbackDeleteLast)

	assert.Equal(t, answerNothingToDelete, answer.text)
	assert.Empty(t, h.transport.ops("delete"))
	after, _ := h.record()
	assert.Equal(t, before.Mode, after.Mode)
	assert.Empty(t, after.Buffer)
}

func TestDeleteLastRemovesMessageAndAck(t *testing.T) {
	h := newHarness(t, news())
	h.compose()
	h.text("one")
	second := h.text("two")
	rec, _ := h.record()
	ack := rec.Buffer[1].AckMessageID

	h.press(CallbackDeleteLast)

	rec, _ = h.record()
	require.Len(t, rec.Buffer, 1)
	assert.Equal(t, "one", rec.Buffer[0].Text)

	deletes := h.transport.ops("delete")
	require.Len(t, deletes, 2)
	assert.Equal(t, second, deletes[0].messageID)
	assert.Equal(t, ack, deletes[1].messageID)
}

func TestDeleteAllKeepsButtons(t *testing.T) {
	h := newHarness(t, news())
	h.compose()
	h.text("one")
	h.text("two")
	h.press(CallbackAddURLButtons)
	h.text("Shop | https://x.example")

	answer := h.press(CallbackDeleteAll)

	assert.Equal(t, answerAllDeleted, answer.text)
	rec, _ := h.record()
	assert.Empty(t, rec.Buffer)
	assert.Len(t, rec.Buttons, 1)
	assert.Equal(t, domain.ModeCollectPost, rec.Mode)
	assert.Len(t, h.transport.ops("delete"), 4)
}

func TestPreviewReportsCounts(t *testing.T) {
	h := newHarness(t, news())
	h.compose()
	h.text("one")
	h.text("two")
	h.message(&tgbotapi.Message{Video: &tgbotapi.Video{FileID: "v"}})

	answer := h.press(CallbackPreviewPost)

	assert.True(t, answer.alert)
	assert.Equal(t, "Items: 3\n📝 Text: 2\n🎬 Video: 1\nButtons: 0", answer.text)
	rec, _ := h.record()
	assert.Len(t, rec.Buffer, 3)
}

func TestSendEmptyPostIsRejected(t *testing.T) {
	h := newHarness(t, news())
	h.compose()

	answer := h.press(CallbackSendPost)

	assert.Equal(t, answerPostEmpty, answer.text)
	assert.True(t, answer.alert)
	assert.Empty(t, h.transport.ops("copy"))
	assert.Empty(t, h.transport.ops("resend"))
	assert.Empty(t, h.transport.ops("channel_send"))
	rec, ok := h.record()
	require.True(t, ok)
	assert.Equal(t, domain.ModeCollectPost, rec.Mode)
}

func TestSendReplaysBufferInOrder(t *testing.T) {
	h := newHarness(t, news())
	h.compose()
	m1 := h.text("first")
	m2 := h.message(&tgbotapi.Message{Document: &tgbotapi.Document{FileID: "doc"}})
	h.transport.reset()

	h.press(CallbackSendPost)

	copies := h.transport.ops("copy")
	require.Len(t, copies, 2)
	assert.Equal(t, m1, copies[0].messageID)
	assert.Equal(t, m2, copies[1].messageID)
	for _, c := range copies {
		assert.Equal(t, testChannel, c.channelID)
		assert.Equal(t, testChatID, c.chatID)
	}
	assert.Empty(t, h.transport.ops("channel_send"))

	_, ok := h.record()
	assert.False(t, ok)

	edit := h.transport.last("edit")
	assert.Equal(t, testPanelID, edit.messageID)
	assert.Contains(t, edit.text, "Delivered items: 2")
	assert.Contains(t, keyboardData(edit.markup), CallbackCreatePost)
}

func TestSendButtonsOnly(t *testing.T) {
	h := newHarness(t, news())
	h.compose()
	h.press(CallbackAddURLButtons)
	h.text("Shop | https://x.example")
	h.press(CallbackAddURLButtons)
	h.text("Docs | https://docs.example")

	h.press(CallbackSendPost)

	assert.Empty(t, h.transport.ops("copy"))
	sends := h.transport.ops("channel_send")
	require.Len(t, sends, 1)
	assert.Equal(t, "Links", sends[0].text)
	assert.Equal(t, testChannel, sends[0].channelID)
	require.Len(t, sends[0].markup.InlineKeyboard, 2)
	assert.Equal(t, "Shop", sends[0].markup.InlineKeyboard[0][0].Text)
	assert.Equal(t, "https://x.example", *sends[0].markup.InlineKeyboard[0][0].URL)
	assert.Equal(t, "Docs", sends[0].markup.InlineKeyboard[1][0].Text)

	_, ok := h.record()
	assert.False(t, ok)
}

func TestSendContinuesAfterFailedItem(t *testing.T) {
	h := newHarness(t, news())
	h.compose()
	m1 := h.message(&tgbotapi.Message{Photo: []tgbotapi.PhotoSize{{FileID: "p"}}, Caption: "c"})
	m2 := h.text("second")
	m3 := h.text("third")
	h.transport.copyErr[m1] = errors.New("copy refused")
	h.transport.copyErr[m2] = errors.New("copy refused")
	h.transport.resendErr = errors.New("resend refused")
	h.transport.buttonErr = errors.New("unused")

	h.press(CallbackSendPost)

	copies := h.transport.ops("copy")
	require.Len(t, copies, 3)
	assert.Equal(t, m3, copies[2].messageID)

	resends := h.transport.ops("resend")
	require.Len(t, resends, 2)
	assert.Equal(t, domain.KindPhoto, resends[0].item.Kind)
	assert.Equal(t, "p", resends[0].item.FileID)
	assert.Equal(t, "c", resends[0].item.Caption)

	edit := h.transport.last("edit")
	assert.Contains(t, edit.text, "Delivered items: 1")
	assert.Contains(t, edit.text, "Failed items: 2")
	assert.NotContains(t, edit.text, "URL buttons")

	_, ok := h.record()
	assert.False(t, ok)
}

func TestSendReportsFailedButtons(t *testing.T) {
	h := newHarness(t, news())
	h.compose()
	h.press(CallbackAddURLButtons)
	h.text("Shop | https://x.example")
	h.transport.buttonErr = errors.New("forbidden")

	h.press(CallbackSendPost)

	assert.Contains(t, h.transport.last("edit").text, msgButtonsFailed)
	_, ok := h.record()
	assert.False(t, ok)
}

func TestPanelIsResentWhenEditFails(t *testing.T) {
	h := newHarness(t, news())
	h.transport.editErr = errors.New("message to edit not found")

	h.press(CallbackCreatePost)
	h.press(CallbackSelectChannel + ":" + testChannel)

	rec, ok := h.record()
	require.True(t, ok)
	assert.NotEqual(t, testPanelID, rec.PanelMessageID)
	assert.Equal(t, h.transport.last("send").text, composePanelText(rec))
}

func TestBackHomeDiscardsComposition(t *testing.T) {
	h := newHarness(t, news())
	h.compose()
	h.text("draft")

	h.press(CallbackBackHome)

	_, ok := h.record()
	assert.False(t, ok)
	assert.Empty(t, h.transport.ops("copy"))
	edit := h.transport.last("edit")
	assert.Equal(t, msgMainMenu, edit.text)
}

func TestBackHomeWithoutChannelsShowsAddPrompt(t *testing.T) {
	h := newHarness(t)
	h.press(CallbackAddChannel)

	h.press(CallbackBackHome)

	_, ok := h.record()
	assert.False(t, ok)
	assert.Equal(t, msgAddChannelFirst, h.transport.last("edit").text)
}

func TestUnrelatedCallbacksDuringComposition(t *testing.T) {
	h := newHarness(t, news())
	h.compose()
	h.text("draft")

	for _, data := range []string{CallbackSettings, CallbackCreatePost, "bogus", CallbackSelectChannel + ":-2"} {
		answer := h.press(data)
		assert.Equal(t, answerComposeHint, answer.text, data)
	}

	rec, ok := h.record()
	require.True(t, ok)
	assert.Equal(t, domain.ModeCollectPost, rec.Mode)
	assert.Len(t, rec.Buffer, 1)
}

func TestCompositionCallbacksWhileIdle(t *testing.T) {
	h := newHarness(t, news())

	answer := h.press(CallbackSendPost)

	assert.Equal(t, answerNoPostInProgress, answer.text)
	assert.Empty(t, h.transport.ops("copy"))
}

func TestComingSoonCallbacks(t *testing.T) {
	h := newHarness(t, news())
	h.compose()

	tests := map[string]string{
		CallbackScheduledPosts: answerComingSoonScheduled,
		CallbackEditPost:       answerComingSoonEdit,
		CallbackChannelStats:   answerComingSoonStats,
	}
	for data, want := range tests {
		answer := h.press(data)
		assert.Equal(t, want, answer.text)
		assert.True(t, answer.alert)
	}

	rec, ok := h.record()
	require.True(t, ok)
	assert.Equal(t, domain.ModeCollectPost, rec.Mode)
}

func TestEveryCallbackIsAnswered(t *testing.T) {
	h := newHarness(t, news())

	presses := []string{
		CallbackSettings, CallbackDeleteChannel, CallbackCreatePost,
		CallbackSelectChannel + ":" + testChannel, CallbackPreviewPost,
		CallbackAddURLButtons, CallbackAttachMedia, CallbackDeleteAll,
		CallbackSendPost, CallbackBackHome, "bogus",
	}
	for _, data := range presses {
		h.press(data)
	}

	assert.Len(t, h.transport.ops("answer"), len(presses))
}

func TestSettingsAndRemoveChannel(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, news(), domain.Channel{ID: "-2", Title: "Two"})

	h.press(CallbackSettings)
	assert.Equal(t, msgSettings, h.transport.last("edit").text)

	h.press(CallbackDeleteChannel)
	edit := h.transport.last("edit")
	assert.Equal(t, msgPickToDelete, edit.text)
	assert.Equal(t, []string{
		"remove_channel:" + testChannel,
		"remove_channel:-2",
		CallbackSettings,
	}, keyboardData(edit.markup))

	answer := h.press(CallbackRemoveChannel + ":" + testChannel)
	assert.Equal(t, answerChannelRemoved, answer.text)
	_, err := h.registry.Get(ctx, testChannel)
	assert.ErrorIs(t, err, domain.ErrChannelNotFound)
	assert.Equal(t, []string{"remove_channel:-2", CallbackSettings}, keyboardData(h.transport.last("edit").markup))

	answer = h.press(CallbackRemoveChannel + ":" + testChannel)
	assert.Equal(t, answerChannelNotFound, answer.text)

	h.press(CallbackRemoveChannel + ":-2")
	assert.Equal(t, msgNoChannelsToDrop, h.transport.last("edit").text)
}

func TestExportCommand(t *testing.T) {
	h := newHarness(t, news())
	h.bot.now = func() time.Time { return time.Date(2024, time.May, 1, 9, 30, 0, 0, time.UTC) }

	h.command(CommandExport)

	doc := h.transport.last("document")
	assert.Equal(t, testChatID, doc.chatID)
	assert.Equal(t, "channels_20240501_0930.xlsx", doc.text)
}

func TestExportWithoutChannels(t *testing.T) {
	h := newHarness(t)

	h.command(CommandExport)

	assert.Empty(t, h.transport.ops("document"))
	assert.Equal(t, msgNothingToExport, h.transport.last("send").text)
}

func TestHelpCommand(t *testing.T) {
	h := newHarness(t)

	h.command(CommandHelp)

	assert.True(t, strings.HasPrefix(h.transport.last("send").text, "Available commands"))
}

func TestStartConsumesUpdatesUntilClosed(t *testing.T) {
	h := newHarness(t, news())

	updates := make(chan tgbotapi.Update, 4)
	for i := 0; i < 3; i++ {
		updates <- tgbotapi.Update{UpdateID: i, Message: &tgbotapi.Message{
			MessageID: i + 1,
			Chat:      privateChat(),
			Text:      "/help",
			Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 5}},
		}}
	}
	close(updates)

	require.NoError(t, h.bot.Start(context.Background(), updates))
	assert.Len(t, h.transport.ops("send"), 3)
}

func TestStartStopsOnContextCancel(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- h.bot.Start(ctx, make(chan tgbotapi.Update)) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
