package bot

import (
	"strings"

	"postcraft-bot/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Outcome is the result of a best-effort call such as deleting an old
// message. The failure is already logged when the Outcome is returned, so
// callers are free to drop it.
type Outcome struct {
	Op  string
	Err error
}

func (o Outcome) OK() bool { return o.Err == nil }

// parseCallback splits "action:arg" callback data.
func parseCallback(data string) (action, arg string) {
	action, arg, _ = strings.Cut(data, ":")
	return action, arg
}

// parseButton parses "label | url". Both sides are trimmed and must be
// non-empty; only the first separator splits.
func parseButton(text string) (domain.Button, bool) {
	label, url, found := strings.Cut(text, ButtonSeparator)
	if !found {
		return domain.Button{}, false
	}
	label = strings.TrimSpace(label)
	url = strings.TrimSpace(url)
	if label == "" || url == "" {
		return domain.Button{}, false
	}
	return domain.Button{Label: label, URL: url}, true
}

// contentFromMessage classifies an operator message. ok is false for
// message types that cannot be part of a post.
func contentFromMessage(msg *tgbotapi.Message) (domain.Content, bool) {
	item := domain.Content{MessageID: msg.MessageID, Caption: msg.Caption}

	switch {
	case len(msg.Photo) > 0:
		item.Kind = domain.KindPhoto
		item.FileID = msg.Photo[len(msg.Photo)-1].FileID
	case msg.Video != nil:
		item.Kind = domain.KindVideo
		item.FileID = msg.Video.FileID
	// Animations also carry a Document, so they are matched first.
	case msg.Animation != nil:
		item.Kind = domain.KindAnimation
		item.FileID = msg.Animation.FileID
	case msg.Document != nil:
		item.Kind = domain.KindDocument
		item.FileID = msg.Document.FileID
	case msg.Audio != nil:
		item.Kind = domain.KindAudio
		item.FileID = msg.Audio.FileID
	case msg.Voice != nil:
		item.Kind = domain.KindVoice
		item.FileID = msg.Voice.FileID
	case msg.VideoNote != nil:
		item.Kind = domain.KindVideoNote
		item.FileID = msg.VideoNote.FileID
	case msg.Sticker != nil:
		item.Kind = domain.KindSticker
		item.FileID = msg.Sticker.FileID
	case msg.Text != "":
		item.Kind = domain.KindText
		item.Text = msg.Text
	default:
		return domain.Content{}, false
	}
	return item, true
}

// isChannelForward reports whether msg was forwarded from a channel.
func isChannelForward(msg *tgbotapi.Message) bool {
	return msg.ForwardFromChat != nil && msg.ForwardFromChat.Type == "channel"
}
