package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"postcraft-bot/internal/domain"

	"github.com/cenkalti/backoff/v4"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// TelegramTransport implements Transport over the Bot API. Calls rejected
// with 429 Too Many Requests are retried after the advertised delay; every
// other failure is returned as is so a delivered message is never repeated.
type TelegramTransport struct {
	api        *tgbotapi.BotAPI
	maxRetries uint64
	logger     *zap.Logger
}

func NewTelegramTransport(api *tgbotapi.BotAPI, maxRetries uint64, logger *zap.Logger) *TelegramTransport {
	return &TelegramTransport{api: api, maxRetries: maxRetries, logger: logger}
}

func (t *TelegramTransport) Send(ctx context.Context, chatID int64, text string, markup *tgbotapi.InlineKeyboardMarkup) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if markup != nil {
		msg.ReplyMarkup = *markup
	}
	return t.send(ctx, "send", msg)
}

func (t *TelegramTransport) Edit(ctx context.Context, chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	edit.ReplyMarkup = markup

	_, err := t.send(ctx, "edit", edit)
	if err != nil && strings.Contains(err.Error(), "message is not modified") {
		return nil
	}
	return err
}

func (t *TelegramTransport) Delete(ctx context.Context, chatID int64, messageID int) error {
	return t.request(ctx, "delete", tgbotapi.NewDeleteMessage(chatID, messageID))
}

func (t *TelegramTransport) AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error {
	cb := tgbotapi.NewCallback(callbackID, text)
	if alert {
		cb = tgbotapi.NewCallbackWithAlert(callbackID, text)
	}
	return t.request(ctx, "answer_callback", cb)
}

func (t *TelegramTransport) SendDocument(ctx context.Context, chatID int64, name string, data []byte) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	_, err := t.send(ctx, "send_document", doc)
	return err
}

func (t *TelegramTransport) Copy(ctx context.Context, channelID string, fromChatID int64, messageID int) (int, error) {
	cfg := tgbotapi.CopyMessageConfig{
		BaseChat:   channelChat(channelID),
		FromChatID: fromChatID,
		MessageID:  messageID,
	}

	var id tgbotapi.MessageID
	err := t.retry(ctx, "copy", func() error {
		var err error
		id, err = t.api.CopyMessage(cfg)
		return err
	})
	return id.MessageID, err
}

// Resend rebuilds the message from its captured file id and caption. It is
// the per-kind fallback when a copy is refused.
func (t *TelegramTransport) Resend(ctx context.Context, channelID string, item domain.Content) (int, error) {
	chat := channelChat(channelID)
	file := tgbotapi.FileID(item.FileID)

	var c tgbotapi.Chattable
	switch item.Kind {
	case domain.KindText:
		c = tgbotapi.MessageConfig{BaseChat: chat, Text: item.Text}
	case domain.KindPhoto:
		cfg := tgbotapi.NewPhoto(0, file)
		cfg.BaseChat = chat
		cfg.Caption = item.Caption
		c = cfg
	case domain.KindVideo:
		cfg := tgbotapi.NewVideo(0, file)
		cfg.BaseChat = chat
		cfg.Caption = item.Caption
		c = cfg
	case domain.KindDocument:
		cfg := tgbotapi.NewDocument(0, file)
		cfg.BaseChat = chat
		cfg.Caption = item.Caption
		c = cfg
	case domain.KindAnimation:
		cfg := tgbotapi.NewAnimation(0, file)
		cfg.BaseChat = chat
		cfg.Caption = item.Caption
		c = cfg
	case domain.KindAudio:
		cfg := tgbotapi.NewAudio(0, file)
		cfg.BaseChat = chat
		cfg.Caption = item.Caption
		c = cfg
	case domain.KindVoice:
		cfg := tgbotapi.NewVoice(0, file)
		cfg.BaseChat = chat
		cfg.Caption = item.Caption
		c = cfg
	case domain.KindVideoNote:
		cfg := tgbotapi.NewVideoNote(0, 0, file)
		cfg.BaseChat = chat
		c = cfg
	case domain.KindSticker:
		cfg := tgbotapi.NewSticker(0, file)
		cfg.BaseChat = chat
		c = cfg
	default:
		return 0, fmt.Errorf("resend: unsupported content kind %q", item.Kind)
	}

	return t.send(ctx, "resend_"+string(item.Kind), c)
}

func (t *TelegramTransport) SendToChannel(ctx context.Context, channelID string, text string, markup *tgbotapi.InlineKeyboardMarkup) (int, error) {
	msg := tgbotapi.MessageConfig{
		BaseChat: channelChat(channelID),
		Text:     text,
	}
	if markup != nil {
		msg.ReplyMarkup = *markup
	}
	return t.send(ctx, "send_to_channel", msg)
}

func (t *TelegramTransport) send(ctx context.Context, op string, c tgbotapi.Chattable) (int, error) {
	var sent tgbotapi.Message
	err := t.retry(ctx, op, func() error {
		var err error
		sent, err = t.api.Send(c)
		return err
	})
	return sent.MessageID, err
}

func (t *TelegramTransport) request(ctx context.Context, op string, c tgbotapi.Chattable) error {
	return t.retry(ctx, op, func() error {
		_, err := t.api.Request(c)
		return err
	})
}

func (t *TelegramTransport) retry(ctx context.Context, op string, fn func() error) error {
	wait := &retryAfterBackOff{fallback: time.Second}
	policy := backoff.WithContext(backoff.WithMaxRetries(wait, t.maxRetries), ctx)

	return backoff.RetryNotify(
		func() error {
			err := fn()
			if err == nil {
				return nil
			}
			var apiErr *tgbotapi.Error
			if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
				wait.next = time.Duration(apiErr.RetryAfter) * time.Second
				return err
			}
			return backoff.Permanent(err)
		},
		policy,
		func(err error, next time.Duration) {
			t.logger.Warn("Telegram rate limit hit, retrying",
				zap.String("op", op),
				zap.Duration("next_attempt_in", next),
				zap.Error(err))
		},
	)
}

// retryAfterBackOff waits for whatever the last 429 response asked for.
type retryAfterBackOff struct {
	fallback time.Duration
	next     time.Duration
}

func (b *retryAfterBackOff) NextBackOff() time.Duration {
	if b.next > 0 {
		return b.next
	}
	return b.fallback
}

func (b *retryAfterBackOff) Reset() { b.next = 0 }

// channelChat addresses a channel by numeric id or by @username.
func channelChat(channelID string) tgbotapi.BaseChat {
	if id, err := strconv.ParseInt(channelID, 10, 64); err == nil {
		return tgbotapi.BaseChat{ChatID: id}
	}
	username := channelID
	if !strings.HasPrefix(username, "@") {
		username = "@" + username
	}
	return tgbotapi.BaseChat{ChannelUsername: username}
}
