package bot

import (
	"context"

	"postcraft-bot/internal/bot/state_manager"
	"postcraft-bot/internal/domain"
	"postcraft-bot/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Registry interface {
	List(ctx context.Context) ([]domain.Channel, error)
	Get(ctx context.Context, id string) (domain.Channel, error)
	Add(ctx context.Context, id, title string) error
	Remove(ctx context.Context, id string) error
}

type StateManager interface {
	Get(ctx context.Context, chatID int64) (domain.ConversationRecord, bool, error)
	Save(ctx context.Context, record domain.ConversationRecord) error
	Clear(ctx context.Context, chatID int64) error
}

// Transport is the outbound side of the chat API. Operator chats are
// addressed by numeric id, channels by their registry id.
type Transport interface {
	Send(ctx context.Context, chatID int64, text string, markup *tgbotapi.InlineKeyboardMarkup) (int, error)
	Edit(ctx context.Context, chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) error
	Delete(ctx context.Context, chatID int64, messageID int) error
	AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error
	SendDocument(ctx context.Context, chatID int64, name string, data []byte) error

	Copy(ctx context.Context, channelID string, fromChatID int64, messageID int) (int, error)
	Resend(ctx context.Context, channelID string, item domain.Content) (int, error)
	SendToChannel(ctx context.Context, channelID string, text string, markup *tgbotapi.InlineKeyboardMarkup) (int, error)
}

var (
	_ Registry     = (storage.Registry)(nil)
	_ StateManager = (*state_manager.UserDialogStateManager)(nil)
	_ Transport    = (*TelegramTransport)(nil)
)
