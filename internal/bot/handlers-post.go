package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"postcraft-bot/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (b *Bot) handleCreatePost(ctx context.Context, req callbackRequest) callbackAnswer {
	channels := b.channels(ctx)
	if len(channels) == 0 {
		b.showPanel(ctx, req.chatID, req.panelID, msgAddChannelFirst, addChannelKeyboard())
		return callbackAnswer{}
	}

	b.showPanel(ctx, req.chatID, req.panelID, msgPickChannel, channelsKeyboard(channels))
	return callbackAnswer{}
}

// handleSelectChannel starts a composition with empty buffers.
func (b *Bot) handleSelectChannel(ctx context.Context, req callbackRequest) callbackAnswer {
	ch, err := b.registry.Get(ctx, req.arg)
	if err != nil {
		if !errors.Is(err, domain.ErrChannelNotFound) {
			b.logger.Error("Failed to look up channel",
				zap.Int64("chat_id", req.chatID),
				zap.String("channel_id", req.arg),
				zap.Error(err))
		}
		b.handleCreatePost(ctx, req)
		return callbackAnswer{text: answerChannelNotFound, alert: true}
	}

	rec := domain.ConversationRecord{
		ChatID:       req.chatID,
		Mode:         domain.ModeCollectPost,
		ChannelID:    ch.ID,
		ChannelTitle: ch.Title,
	}
	rec.PanelMessageID = b.showPanel(ctx, req.chatID, req.panelID, composePanelText(rec), postBuilderKeyboard())

	if err := b.saveRecord(ctx, rec); err != nil {
		return callbackAnswer{text: answerSomethingWrong, alert: true}
	}
	return callbackAnswer{}
}

func (b *Bot) handleAttachMedia(ctx context.Context, req callbackRequest) callbackAnswer {
	rec := req.record
	rec.Mode = domain.ModeCollectPost
	b.refreshPanel(ctx, &rec)

	if err := b.saveRecord(ctx, rec); err != nil {
		return callbackAnswer{text: answerSomethingWrong, alert: true}
	}
	return callbackAnswer{}
}

func (b *Bot) handleAddURLButtons(ctx context.Context, req callbackRequest) callbackAnswer {
	rec := req.record
	rec.Mode = domain.ModeAddURLButton
	b.refreshPanel(ctx, &rec)

	if err := b.saveRecord(ctx, rec); err != nil {
		return callbackAnswer{text: answerSomethingWrong, alert: true}
	}
	return callbackAnswer{}
}

func (b *Bot) handleDeleteLast(ctx context.Context, req callbackRequest) callbackAnswer {
	rec := req.record
	if len(rec.Buffer) == 0 {
		return callbackAnswer{text: answerNothingToDelete}
	}

	last := rec.Buffer[len(rec.Buffer)-1]
	rec.Buffer = rec.Buffer[:len(rec.Buffer)-1]
	if err := b.saveRecord(ctx, rec); err != nil {
		return callbackAnswer{text: answerSomethingWrong, alert: true}
	}

	b.deleteItem(ctx, rec.ChatID, last)
	b.refreshPanel(ctx, &rec)
	return callbackAnswer{text: fmt.Sprintf(answerLastDeleted, len(rec.Buffer))}
}

// handleDeleteAll empties the content buffer. Buttons are kept.
func (b *Bot) handleDeleteAll(ctx context.Context, req callbackRequest) callbackAnswer {
	rec := req.record
	if len(rec.Buffer) == 0 {
		return callbackAnswer{text: answerNothingToDelete}
	}

	removed := rec.Buffer
	rec.Buffer = nil
	if err := b.saveRecord(ctx, rec); err != nil {
		return callbackAnswer{text: answerSomethingWrong, alert: true}
	}

	for _, item := range removed {
		b.deleteItem(ctx, rec.ChatID, item)
	}
	b.refreshPanel(ctx, &rec)
	return callbackAnswer{text: answerAllDeleted}
}

func (b *Bot) handlePreview(_ context.Context, req callbackRequest) callbackAnswer {
	return callbackAnswer{text: previewText(req.record), alert: true}
}

func (b *Bot) handleSend(ctx context.Context, req callbackRequest) callbackAnswer {
	rec := req.record
	if rec.Empty() {
		return callbackAnswer{text: answerPostEmpty, alert: true}
	}

	report := b.publish(ctx, rec)

	title := rec.ChannelTitle
	if title == "" {
		title = rec.ChannelID
	}
	text := fmt.Sprintf(msgPublished, html.EscapeString(title), report.Delivered)
	if report.Failed > 0 {
		text += fmt.Sprintf(msgPublishFailed, report.Failed)
	}
	if report.ButtonsFailed {
		text += msgButtonsFailed
	}

	b.clearRecord(ctx, rec.ChatID)
	b.showPanel(ctx, rec.ChatID, rec.PanelMessageID, text, mainMenuKeyboard())
	return callbackAnswer{}
}

// handleContent buffers one operator message and acknowledges it.
func (b *Bot) handleContent(ctx context.Context, msg *tgbotapi.Message, rec domain.ConversationRecord) {
	item, ok := contentFromMessage(msg)
	if !ok {
		b.send(ctx, rec.ChatID, msgUnsupported, nil)
		return
	}

	item.AckMessageID, _ = b.send(ctx, rec.ChatID, fmt.Sprintf(msgItemAdded, len(rec.Buffer)+1), nil)
	rec.Buffer = append(rec.Buffer, item)
	if err := b.saveRecord(ctx, rec); err != nil {
		b.send(ctx, rec.ChatID, answerSomethingWrong, nil)
		return
	}

	b.logger.Debug("Content buffered",
		zap.Int64("chat_id", rec.ChatID),
		zap.Int("message_id", item.MessageID),
		zap.String("kind", string(item.Kind)),
		zap.Int("items", len(rec.Buffer)))

	b.refreshPanel(ctx, &rec)
}

// handleButtonInput parses "label | url". On success the chat returns to
// COLLECT_POST; on bad input it stays put.
func (b *Bot) handleButtonInput(ctx context.Context, msg *tgbotapi.Message, rec domain.ConversationRecord) {
	btn, ok := parseButton(msg.Text)
	if !ok {
		b.send(ctx, rec.ChatID, msgButtonFormat, nil)
		return
	}

	rec.Buttons = append(rec.Buttons, btn)
	rec.Mode = domain.ModeCollectPost
	if err := b.saveRecord(ctx, rec); err != nil {
		b.send(ctx, rec.ChatID, answerSomethingWrong, nil)
		return
	}

	b.send(ctx, rec.ChatID, fmt.Sprintf(msgButtonAdded, html.EscapeString(btn.Label), len(rec.Buttons)), nil)
	b.refreshPanel(ctx, &rec)
}

// deleteItem removes a buffered message and its acknowledgement from the
// operator chat.
func (b *Bot) deleteItem(ctx context.Context, chatID int64, item domain.Content) {
	b.deleteMessage(ctx, chatID, item.MessageID)
	b.deleteMessage(ctx, chatID, item.AckMessageID)
}

// refreshPanel redraws the composition panel for the record's mode. When a
// new panel had to be sent the record is updated and saved again.
func (b *Bot) refreshPanel(ctx context.Context, rec *domain.ConversationRecord) {
	text := composePanelText(*rec)
	if rec.Mode == domain.ModeAddURLButton {
		text = msgButtonPrompt
	}

	panelID := b.showPanel(ctx, rec.ChatID, rec.PanelMessageID, text, postBuilderKeyboard())
	if panelID == rec.PanelMessageID {
		return
	}
	rec.PanelMessageID = panelID
	_ = b.saveRecord(ctx, *rec)
}

func composePanelText(rec domain.ConversationRecord) string {
	title := rec.ChannelTitle
	if title == "" {
		title = rec.ChannelID
	}
	return fmt.Sprintf(msgComposePanel, html.EscapeString(title), len(rec.Buffer), len(rec.Buttons))
}

func previewText(rec domain.ConversationRecord) string {
	counts := rec.CountByKind()

	var kinds strings.Builder
	for _, kind := range domain.Kinds {
		if n := counts[kind]; n > 0 {
			fmt.Fprintf(&kinds, "\n%s: %d", kind.Label(), n)
		}
	}
	return fmt.Sprintf(answerPreview, len(rec.Buffer), kinds.String(), len(rec.Buttons))
}
