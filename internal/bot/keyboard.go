package bot

import (
	"fmt"

	"postcraft-bot/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BOT KEYBOARDS

const channelsPerRow = 2

func addChannelKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("+ Add Channel", CallbackAddChannel),
		),
	)
}

func backKeyboard(to string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("« Back", to),
		),
	)
}

func mainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Create Post", CallbackCreatePost),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Scheduled Posts", CallbackScheduledPosts),
			tgbotapi.NewInlineKeyboardButtonData("Edit Post", CallbackEditPost),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Channel Stats", CallbackChannelStats),
			tgbotapi.NewInlineKeyboardButtonData("Settings", CallbackSettings),
		),
	)
}

func settingsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Add Channel", CallbackAddChannel),
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete Channel", CallbackDeleteChannel),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("« Back", CallbackBackHome),
		),
	)
}

// channelGrid lays channels out two per row, each button carrying action:<id>,
// followed by a back button.
func channelGrid(channels []domain.Channel, action, back string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, ch := range channels {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(ch.Title, fmt.Sprintf("%s:%s", action, ch.ID)))
		if len(row) == channelsPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("« Back", back),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func channelsKeyboard(channels []domain.Channel) tgbotapi.InlineKeyboardMarkup {
	return channelGrid(channels, CallbackSelectChannel, CallbackBackHome)
}

func deleteChannelsKeyboard(channels []domain.Channel) tgbotapi.InlineKeyboardMarkup {
	return channelGrid(channels, CallbackRemoveChannel, CallbackSettings)
}

func postBuilderKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Attach Media", CallbackAttachMedia),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Add URL Buttons", CallbackAddURLButtons),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Delete Message", CallbackDeleteLast),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Delete All", CallbackDeleteAll),
			tgbotapi.NewInlineKeyboardButtonData("Preview", CallbackPreviewPost),
			tgbotapi.NewInlineKeyboardButtonData("Send", CallbackSendPost),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("« Back", CallbackBackHome),
		),
	)
}

// urlButtonsKeyboard renders the collected link buttons one per row, in order.
func urlButtonsKeyboard(buttons []domain.Button) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(buttons))
	for _, btn := range buttons {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(btn.Label, btn.URL),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
