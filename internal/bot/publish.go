package bot

import (
	"context"

	"postcraft-bot/internal/domain"

	"go.uber.org/zap"
)

type PublishReport struct {
	Delivered     int
	Failed        int
	ButtonsFailed bool
}

// publish replays the buffer into the record's channel in insertion order,
// then sends the link buttons as one keyboard. A failed item never stops
// the items after it.
func (b *Bot) publish(ctx context.Context, rec domain.ConversationRecord) PublishReport {
	var report PublishReport

	for _, item := range rec.Buffer {
		if b.replay(ctx, rec, item) {
			report.Delivered++
		} else {
			report.Failed++
		}
	}

	if len(rec.Buttons) > 0 {
		kb := urlButtonsKeyboard(rec.Buttons)
		if _, err := b.transport.SendToChannel(ctx, rec.ChannelID, b.opts.ButtonsText, &kb); err != nil {
			b.logger.Error("Failed to send link buttons",
				zap.Int64("chat_id", rec.ChatID),
				zap.String("channel_id", rec.ChannelID),
				zap.Int("buttons", len(rec.Buttons)),
				zap.Error(err))
			report.ButtonsFailed = true
		}
	}

	b.logger.Info("Post published",
		zap.Int64("chat_id", rec.ChatID),
		zap.String("channel_id", rec.ChannelID),
		zap.Int("delivered", report.Delivered),
		zap.Int("failed", report.Failed),
		zap.Int("buttons", len(rec.Buttons)),
		zap.Bool("buttons_failed", report.ButtonsFailed))

	return report
}

// replay copies one buffered message, falling back to re-sending it from
// its captured file id when the copy is refused.
func (b *Bot) replay(ctx context.Context, rec domain.ConversationRecord, item domain.Content) bool {
	_, err := b.transport.Copy(ctx, rec.ChannelID, rec.ChatID, item.MessageID)
	if err == nil {
		return true
	}
	b.logger.Warn("Failed to copy message, resending",
		zap.Int64("chat_id", rec.ChatID),
		zap.String("channel_id", rec.ChannelID),
		zap.Int("message_id", item.MessageID),
		zap.String("kind", string(item.Kind)),
		zap.Error(err))

	if _, err := b.transport.Resend(ctx, rec.ChannelID, item); err != nil {
		b.logger.Error("Failed to publish item",
			zap.Int64("chat_id", rec.ChatID),
			zap.String("channel_id", rec.ChannelID),
			zap.Int("message_id", item.MessageID),
			zap.Error(err))
		return false
	}
	return true
}
