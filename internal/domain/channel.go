package domain

import "errors"

var ErrChannelNotFound = errors.New("channel not found")

// Channel is a broadcast destination posts are published to.
// ID is the natural key as Telegram reports it (e.g. "-1001234567890").
type Channel struct {
	ID    string `json:"id" db:"channel_id"`
	Title string `json:"title" db:"title"`
}
