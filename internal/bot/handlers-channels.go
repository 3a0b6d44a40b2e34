package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"

	"postcraft-bot/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (b *Bot) handleAddChannel(ctx context.Context, req callbackRequest) callbackAnswer {
	rec := domain.ConversationRecord{
		ChatID: req.chatID,
		Mode:   domain.ModeAddChannel,
	}
	rec.PanelMessageID = b.showPanel(ctx, req.chatID, req.panelID, msgAddChannelSteps, backKeyboard(CallbackBackHome))

	if err := b.saveRecord(ctx, rec); err != nil {
		return callbackAnswer{text: answerSomethingWrong, alert: true}
	}
	return callbackAnswer{}
}

// handleChannelForward registers the origin of a channel forward. Anything
// else is rejected and the chat stays in ADD_CHANNEL.
func (b *Bot) handleChannelForward(ctx context.Context, msg *tgbotapi.Message, rec domain.ConversationRecord) {
	chatID := msg.Chat.ID

	if !isChannelForward(msg) {
		b.send(ctx, chatID, msgForwardOnly, nil)
		return
	}

	origin := msg.ForwardFromChat
	id := strconv.FormatInt(origin.ID, 10)
	title := origin.Title
	if title == "" {
		title = id
	}

	if err := b.registry.Add(ctx, id, title); err != nil {
		b.logger.Error("Failed to add channel",
			zap.Int64("chat_id", chatID),
			zap.String("channel_id", id),
			zap.Error(err))
		b.send(ctx, chatID, msgChannelSaveError, nil)
		return
	}

	// The first title wins when the channel was already registered.
	if ch, err := b.registry.Get(ctx, id); err == nil {
		title = ch.Title
	}

	b.logger.Info("Channel registered",
		zap.Int64("chat_id", chatID),
		zap.String("channel_id", id),
		zap.String("title", title))

	b.clearRecord(ctx, chatID)
	b.showPanel(ctx, chatID, rec.PanelMessageID,
		fmt.Sprintf(msgChannelAdded, html.EscapeString(title)), mainMenuKeyboard())
}

func (b *Bot) handleSettings(ctx context.Context, req callbackRequest) callbackAnswer {
	b.showPanel(ctx, req.chatID, req.panelID, msgSettings, settingsKeyboard())
	return callbackAnswer{}
}

func (b *Bot) handleDeleteChannel(ctx context.Context, req callbackRequest) callbackAnswer {
	b.renderDeleteList(ctx, req.chatID, req.panelID)
	return callbackAnswer{}
}

func (b *Bot) handleRemoveChannel(ctx context.Context, req callbackRequest) callbackAnswer {
	ch, err := b.registry.Get(ctx, req.arg)
	if err != nil {
		if !errors.Is(err, domain.ErrChannelNotFound) {
			b.logger.Error("Failed to look up channel",
				zap.Int64("chat_id", req.chatID),
				zap.String("channel_id", req.arg),
				zap.Error(err))
		}
		b.renderDeleteList(ctx, req.chatID, req.panelID)
		return callbackAnswer{text: answerChannelNotFound, alert: true}
	}

	if err := b.registry.Remove(ctx, ch.ID); err != nil {
		b.logger.Error("Failed to remove channel",
			zap.Int64("chat_id", req.chatID),
			zap.String("channel_id", ch.ID),
			zap.Error(err))
		return callbackAnswer{text: answerRemoveFailed, alert: true}
	}

	b.logger.Info("Channel removed",
		zap.Int64("chat_id", req.chatID),
		zap.String("channel_id", ch.ID))

	b.renderDeleteList(ctx, req.chatID, req.panelID)
	return callbackAnswer{text: answerChannelRemoved}
}

func (b *Bot) renderDeleteList(ctx context.Context, chatID int64, panelID int) {
	channels := b.channels(ctx)
	if len(channels) == 0 {
		b.showPanel(ctx, chatID, panelID, msgNoChannelsToDrop, backKeyboard(CallbackSettings))
		return
	}
	b.showPanel(ctx, chatID, panelID, msgPickToDelete, deleteChannelsKeyboard(channels))
}

// handleBackHome abandons any flow without publishing.
func (b *Bot) handleBackHome(ctx context.Context, req callbackRequest) callbackAnswer {
	if req.active {
		b.clearRecord(ctx, req.chatID)
	}
	b.renderHome(ctx, req.chatID, req.panelID, msgMainMenu)
	return callbackAnswer{}
}
