package bot

import (
	"context"
	"fmt"
	"time"

	"postcraft-bot/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Options struct {
	// ButtonsText is the body of the channel message that carries the
	// collected link buttons.
	ButtonsText string
}

type Bot struct {
	transport Transport
	registry  Registry
	state     StateManager
	logger    *zap.Logger
	opts      Options
	now       func() time.Time

	dispatcher *dispatcher
	commands   map[string]func(context.Context, *tgbotapi.Message)
	callbacks  map[string]callbackHandler
}

// callbackRequest is a parsed button press together with the chat's
// conversation record at the time of the press.
type callbackRequest struct {
	chatID  int64
	panelID int
	arg     string
	user    *tgbotapi.User
	record  domain.ConversationRecord
	active  bool
}

type callbackAnswer struct {
	text  string
	alert bool
}

type callbackHandler func(context.Context, callbackRequest) callbackAnswer

func New(transport Transport, registry Registry, state StateManager, logger *zap.Logger, opts Options) *Bot {
	if opts.ButtonsText == "" {
		opts.ButtonsText = "🔗"
	}

	b := &Bot{
		transport:  transport,
		registry:   registry,
		state:      state,
		logger:     logger,
		opts:       opts,
		now:        time.Now,
		dispatcher: newDispatcher(),
	}

	b.registerHandlers()
	return b
}

func (b *Bot) registerHandlers() {
	b.commands = map[string]func(context.Context, *tgbotapi.Message){
		CommandStart:  b.handleStart,
		CommandHelp:   b.handleHelp,
		CommandExport: b.handleExport,
	}

	b.callbacks = map[string]callbackHandler{
		CallbackAddChannel:     b.handleAddChannel,
		CallbackSettings:       b.handleSettings,
		CallbackDeleteChannel:  b.handleDeleteChannel,
		CallbackRemoveChannel:  b.handleRemoveChannel,
		CallbackBackHome:       b.handleBackHome,
		CallbackCreatePost:     b.handleCreatePost,
		CallbackSelectChannel:  b.handleSelectChannel,
		CallbackAttachMedia:    b.handleAttachMedia,
		CallbackAddURLButtons:  b.handleAddURLButtons,
		CallbackDeleteLast:     b.handleDeleteLast,
		CallbackDeleteAll:      b.handleDeleteAll,
		CallbackPreviewPost:    b.handlePreview,
		CallbackSendPost:       b.handleSend,
		CallbackScheduledPosts: comingSoon(answerComingSoonScheduled),
		CallbackEditPost:       comingSoon(answerComingSoonEdit),
		CallbackChannelStats:   comingSoon(answerComingSoonStats),
	}
}

// Start consumes updates until ctx is cancelled or the channel is closed.
// Updates of one chat are handled in order; chats are handled in parallel.
// Start returns after every in-flight update has been handled.
func (b *Bot) Start(ctx context.Context, updates tgbotapi.UpdatesChannel) error {
	b.logger.Info("Starting bot")
	defer b.dispatcher.Wait()

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Shutting down bot")
			return nil

		case update, ok := <-updates:
			if !ok {
				b.logger.Info("Updates channel closed")
				return nil
			}

			chatID, ok := updateChatID(update)
			if !ok {
				b.logger.Debug("Skipping update without chat", zap.Int("update_id", update.UpdateID))
				continue
			}

			b.dispatcher.Dispatch(chatID, func() {
				defer func() {
					if r := recover(); r != nil {
						b.logger.Error("Update handler panicked",
							zap.Int64("chat_id", chatID),
							zap.Int("update_id", update.UpdateID),
							zap.Any("panic", r))
					}
				}()
				b.HandleUpdate(ctx, update)
			})
		}
	}
}

// HandleUpdate processes a single update synchronously.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		b.processMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.processCallback(ctx, update.CallbackQuery)
	}
}

func updateChatID(update tgbotapi.Update) (int64, bool) {
	switch {
	case update.Message != nil:
		return update.Message.Chat.ID, true
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		return update.CallbackQuery.Message.Chat.ID, true
	}
	return 0, false
}

func (b *Bot) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if !msg.Chat.IsPrivate() {
		b.logger.Debug("Ignoring message from non-private chat", zap.Int64("chat_id", chatID))
		return
	}

	b.logger.Debug("Processing message",
		zap.Int64("chat_id", chatID),
		zap.Int("message_id", msg.MessageID))

	if msg.IsCommand() {
		if handler, exists := b.commands[msg.Command()]; exists {
			handler(ctx, msg)
			return
		}
	}

	rec, active, err := b.state.Get(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to get conversation record",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.send(ctx, chatID, answerSomethingWrong, nil)
		return
	}
	if !active {
		b.logger.Debug("Ignoring message outside of a flow", zap.Int64("chat_id", chatID))
		return
	}

	switch rec.Mode {
	case domain.ModeAddChannel:
		b.handleChannelForward(ctx, msg, rec)
	case domain.ModeCollectPost:
		b.handleContent(ctx, msg, rec)
	case domain.ModeAddURLButton:
		b.handleButtonInput(ctx, msg, rec)
	default:
		b.logger.Warn("Conversation record in unknown mode",
			zap.Int64("chat_id", chatID),
			zap.String("mode", string(rec.Mode)))
	}
}

func (b *Bot) processCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil {
		b.answer(ctx, callback.ID, callbackAnswer{})
		return
	}

	chatID := callback.Message.Chat.ID
	action, arg := parseCallback(callback.Data)

	b.logger.Debug("Processing callback",
		zap.Int64("chat_id", chatID),
		zap.String("data", callback.Data))

	rec, active, err := b.state.Get(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to get conversation record",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.answer(ctx, callback.ID, callbackAnswer{text: answerSomethingWrong, alert: true})
		return
	}

	req := callbackRequest{
		chatID:  chatID,
		panelID: callback.Message.MessageID,
		arg:     arg,
		user:    callback.From,
		record:  rec,
		active:  active,
	}
	if active && rec.PanelMessageID != 0 {
		req.panelID = rec.PanelMessageID
	}

	handler, exists := b.callbacks[action]
	if !exists || !allowed(action, rec.Mode, active) {
		b.answer(ctx, callback.ID, hintFor(rec.Mode, active))
		return
	}

	b.answer(ctx, callback.ID, handler(ctx, req))
}

// allowed reports whether action may run in the given conversation mode.
func allowed(action string, mode domain.Mode, active bool) bool {
	switch action {
	case CallbackBackHome, CallbackScheduledPosts, CallbackEditPost, CallbackChannelStats:
		return true
	case CallbackAttachMedia, CallbackAddURLButtons, CallbackDeleteLast,
		CallbackDeleteAll, CallbackPreviewPost, CallbackSendPost:
		return active && mode.Composing()
	case CallbackAddChannel:
		return !active || mode == domain.ModeAddChannel
	}
	return !active
}

func hintFor(mode domain.Mode, active bool) callbackAnswer {
	switch {
	case !active:
		return callbackAnswer{text: answerNoPostInProgress, alert: true}
	case mode == domain.ModeAddChannel:
		return callbackAnswer{text: answerAddChannelHint, alert: true}
	}
	return callbackAnswer{text: answerComposeHint, alert: true}
}

func comingSoon(text string) callbackHandler {
	return func(context.Context, callbackRequest) callbackAnswer {
		return callbackAnswer{text: text, alert: true}
	}
}

func (b *Bot) answer(ctx context.Context, callbackID string, a callbackAnswer) {
	if err := b.transport.AnswerCallback(ctx, callbackID, a.text, a.alert); err != nil {
		b.logger.Warn("Failed to answer callback",
			zap.String("callback_id", callbackID),
			zap.Error(err))
	}
}

// send delivers a notice to the operator chat. A failure is logged and
// returned as the outcome; the message id is zero in that case.
func (b *Bot) send(ctx context.Context, chatID int64, text string, markup *tgbotapi.InlineKeyboardMarkup) (int, Outcome) {
	id, err := b.transport.Send(ctx, chatID, text, markup)
	if err != nil {
		b.logger.Warn("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
	return id, Outcome{Op: "send", Err: err}
}

// showPanel edits the panel message in place, or sends a new panel when
// there is none or it can no longer be edited. It returns the id of the
// message now acting as panel.
func (b *Bot) showPanel(ctx context.Context, chatID int64, panelID int, text string, markup tgbotapi.InlineKeyboardMarkup) int {
	if panelID != 0 {
		err := b.transport.Edit(ctx, chatID, panelID, text, &markup)
		if err == nil {
			return panelID
		}
		b.logger.Warn("Failed to edit panel, sending a new one",
			zap.Int64("chat_id", chatID),
			zap.Int("message_id", panelID),
			zap.Error(err))
	}

	id, outcome := b.send(ctx, chatID, text, &markup)
	if !outcome.OK() {
		return panelID
	}
	return id
}

func (b *Bot) deleteMessage(ctx context.Context, chatID int64, messageID int) Outcome {
	if messageID == 0 {
		return Outcome{Op: "delete"}
	}
	err := b.transport.Delete(ctx, chatID, messageID)
	if err != nil {
		b.logger.Warn("Failed to delete message",
			zap.Int64("chat_id", chatID),
			zap.Int("message_id", messageID),
			zap.Error(err))
	}
	return Outcome{Op: "delete", Err: err}
}

// channels lists the registry. A failing registry reads as empty.
func (b *Bot) channels(ctx context.Context) []domain.Channel {
	channels, err := b.registry.List(ctx)
	if err != nil {
		b.logger.Error("Failed to list channels", zap.Error(err))
		return nil
	}
	return channels
}

// renderHome shows the main menu, or the add-channel prompt when no channel
// is registered yet.
func (b *Bot) renderHome(ctx context.Context, chatID int64, panelID int, text string) int {
	if len(b.channels(ctx)) == 0 {
		return b.showPanel(ctx, chatID, panelID, msgAddChannelFirst, addChannelKeyboard())
	}
	return b.showPanel(ctx, chatID, panelID, text, mainMenuKeyboard())
}

func (b *Bot) saveRecord(ctx context.Context, rec domain.ConversationRecord) error {
	if err := b.state.Save(ctx, rec); err != nil {
		b.logger.Error("Failed to save conversation record",
			zap.Int64("chat_id", rec.ChatID),
			zap.String("mode", string(rec.Mode)),
			zap.Error(err))
		return fmt.Errorf("save record: %w", err)
	}
	return nil
}

func (b *Bot) clearRecord(ctx context.Context, chatID int64) {
	if err := b.state.Clear(ctx, chatID); err != nil {
		b.logger.Error("Failed to clear conversation record",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
}
