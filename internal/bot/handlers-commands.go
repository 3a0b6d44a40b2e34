package bot

import (
	"context"
	"fmt"
	"html"

	"postcraft-bot/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// handleStart drops whatever the chat was doing and sends a fresh panel.
func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	b.clearRecord(ctx, chatID)

	if len(b.channels(ctx)) == 0 {
		kb := addChannelKeyboard()
		b.send(ctx, chatID, msgAddChannelFirst, &kb)
		return
	}

	kb := mainMenuKeyboard()
	b.send(ctx, chatID, fmt.Sprintf(msgGreeting, html.EscapeString(firstName(msg.From))), &kb)
}

func (b *Bot) handleHelp(ctx context.Context, msg *tgbotapi.Message) {
	b.send(ctx, msg.Chat.ID, msgHelp, nil)
}

func (b *Bot) handleExport(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	channels := b.channels(ctx)
	if len(channels) == 0 {
		b.send(ctx, chatID, msgNothingToExport, nil)
		return
	}

	data, name, err := storage.ExportChannelsToExcel(channels, b.now())
	if err != nil {
		b.logger.Error("Failed to export channels",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.send(ctx, chatID, msgExportFailed, nil)
		return
	}

	if err := b.transport.SendDocument(ctx, chatID, name, data); err != nil {
		b.logger.Error("Failed to send channels export",
			zap.Int64("chat_id", chatID),
			zap.String("file", name),
			zap.Error(err))
		b.send(ctx, chatID, msgExportFailed, nil)
		return
	}

	b.logger.Info("Channels exported",
		zap.Int64("chat_id", chatID),
		zap.Int("channels", len(channels)))
}

func firstName(user *tgbotapi.User) string {
	if user == nil || user.FirstName == "" {
		return "there"
	}
	return user.FirstName
}
