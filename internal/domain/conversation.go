package domain

import "time"

type Mode string

const (
	ModeIdle         Mode = ""
	ModeAddChannel   Mode = "add_channel"
	ModeCollectPost  Mode = "collect_post"
	ModeAddURLButton Mode = "add_url_button"
)

// Composing reports whether the mode belongs to post composition.
func (m Mode) Composing() bool {
	return m == ModeCollectPost || m == ModeAddURLButton
}

// ContentKind tags a buffered message. Adding a kind means adding a case to
// every switch over it (Label, the transport resend strategy).
type ContentKind string

const (
	KindText      ContentKind = "text"
	KindPhoto     ContentKind = "photo"
	KindVideo     ContentKind = "video"
	KindDocument  ContentKind = "document"
	KindAnimation ContentKind = "animation"
	KindAudio     ContentKind = "audio"
	KindVoice     ContentKind = "voice"
	KindVideoNote ContentKind = "video_note"
	KindSticker   ContentKind = "sticker"
)

// Kinds lists every supported content kind in display order.
var Kinds = []ContentKind{
	KindText,
	KindPhoto,
	KindVideo,
	KindDocument,
	KindAnimation,
	KindAudio,
	KindVoice,
	KindVideoNote,
	KindSticker,
}

func (k ContentKind) Label() string {
	switch k {
	case KindText:
		return "📝 Text"
	case KindPhoto:
		return "🖼 Photo"
	case KindVideo:
		return "🎬 Video"
	case KindDocument:
		return "📄 Document"
	case KindAnimation:
		return "🎞 Animation"
	case KindAudio:
		return "🎵 Audio"
	case KindVoice:
		return "🎙 Voice"
	case KindVideoNote:
		return "📹 Video note"
	case KindSticker:
		return "🏷 Sticker"
	}
	return string(k)
}

// Content references one operator message to be replayed into the channel.
// FileID, Text and Caption are captured only for the resend fallback; the
// primary replay copies the message by id.
type Content struct {
	MessageID    int         `json:"message_id"`
	AckMessageID int         `json:"ack_message_id,omitempty"`
	Kind         ContentKind `json:"kind"`
	FileID       string      `json:"file_id,omitempty"`
	Text         string      `json:"text,omitempty"`
	Caption      string      `json:"caption,omitempty"`
}

type Button struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// ConversationRecord is the per-chat state. A chat without a record is IDLE.
type ConversationRecord struct {
	ChatID         int64     `json:"chat_id"`
	Mode           Mode      `json:"mode"`
	ChannelID      string    `json:"channel_id,omitempty"`
	ChannelTitle   string    `json:"channel_title,omitempty"`
	PanelMessageID int       `json:"panel_message_id"`
	Buffer         []Content `json:"buffer,omitempty"`
	Buttons        []Button  `json:"buttons,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Clone returns a copy that shares no slices with r.
func (r ConversationRecord) Clone() ConversationRecord {
	out := r
	if r.Buffer != nil {
		out.Buffer = append([]Content(nil), r.Buffer...)
	}
	if r.Buttons != nil {
		out.Buttons = append([]Button(nil), r.Buttons...)
	}
	return out
}

// Empty reports whether there is nothing to publish.
func (r ConversationRecord) Empty() bool {
	return len(r.Buffer) == 0 && len(r.Buttons) == 0
}

// CountByKind returns buffered item counts per kind.
func (r ConversationRecord) CountByKind() map[ContentKind]int {
	counts := make(map[ContentKind]int, len(Kinds))
	for _, item := range r.Buffer {
		counts[item.Kind]++
	}
	return counts
}
