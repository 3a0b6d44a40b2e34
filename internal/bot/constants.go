package bot

// Callback data sent by inline keyboards. Parameterised actions carry the
// channel id after a colon, e.g. "select_channel:-1001234567890".
const (
	CallbackAddChannel     = "add_channel"
	CallbackSettings       = "settings"
	CallbackDeleteChannel  = "delete_channel"
	CallbackRemoveChannel  = "remove_channel"
	CallbackBackHome       = "back_home"
	CallbackCreatePost     = "create_post"
	CallbackSelectChannel  = "select_channel"
	CallbackAttachMedia    = "attach_media"
	CallbackAddURLButtons  = "add_url_buttons"
	CallbackDeleteLast     = "delete_last_msg"
	CallbackDeleteAll      = "delete_all"
	CallbackPreviewPost    = "preview_post"
	CallbackSendPost       = "send_post"
	CallbackScheduledPosts = "scheduled_posts"
	CallbackEditPost       = "edit_post"
	CallbackChannelStats   = "channel_stats"
)

const (
	CommandStart  = "start"
	CommandHelp   = "help"
	CommandExport = "export"
)

// ButtonSeparator splits "label | url" input.
const ButtonSeparator = "|"

const (
	msgAddChannelFirst = "📌 <b>Please add a channel to continue.</b>"
	msgGreeting        = "Hello <b>%s</b>! 👋\n\n" +
		"Here you can create rich posts, view stats and accomplish other tasks.\n\n" +
		"Choose an option below:"
	msgMainMenu        = "🏠 <b>Main menu</b>\n\nChoose an option below:"
	msgAddChannelSteps = "➡ Add this bot as <b>Admin (full rights)</b> in your channel.\n\n" +
		"➡ Then <b>forward any one message</b> from that channel to me."
	msgChannelAdded     = "✅ Channel <b>%s</b> added successfully!\n\nChoose an option below:"
	msgForwardOnly      = "❌ Please forward a <b>message from a channel</b> only."
	msgChannelSaveError = "⚠️ Could not save the channel. Please forward the message again."
	msgSettings         = "⚙ <b>Settings</b>"
	msgNoChannelsToDrop = "⚙ <b>Settings</b>\n\nThere are no channels to delete."
	msgPickToDelete     = "🗑 <b>Select a channel to delete:</b>"
	msgPickChannel      = "📌 <b>Select a channel to create a new post:</b>"
	msgComposePanel     = "📝 <b>New post for %s</b>\n\n" +
		"Send the post content now: text, photo, video, document, animation, " +
		"audio, voice, video note or sticker.\n\n" +
		"Items: <b>%d</b> · Buttons: <b>%d</b>"
	msgButtonPrompt = "🔗 <b>Add a URL button</b>\n\n" +
		"Send the button as <code>Label | https://example.com</code>"
	msgItemAdded      = "✅ Added to post. Items: <b>%d</b>"
	msgUnsupported    = "❌ This message type is not supported yet."
	msgButtonFormat   = "❌ Wrong format. Send the button as <code>Label | https://example.com</code>"
	msgButtonAdded    = "✅ Button <b>%s</b> added. Buttons: <b>%d</b>"
	msgPublished      = "✅ <b>Post sent successfully to %s!</b>\n\nDelivered items: %d"
	msgPublishFailed  = "\n⚠️ Failed items: %d"
	msgButtonsFailed  = "\n⚠️ The URL buttons could not be sent."
	msgHelp           = "Available commands:\n/start - open the menu\n/help - show this help\n/export - download the channel list\n\n" +
		"Use <b>Create Post</b> to compose a post, send any number of messages, " +
		"add URL buttons and press <b>Send</b>."
	msgNothingToExport = "There are no channels to export yet."
	msgExportFailed    = "⚠️ Failed to export channels."

	answerComingSoonScheduled = "⏰ Scheduled posts → coming soon!"
	answerComingSoonEdit      = "✏ Edit Post → coming soon!"
	answerComingSoonStats     = "📊 Channel stats → coming soon!"
	answerPostEmpty           = "❌ Post is empty. Send some content first."
	answerNothingToDelete     = "Nothing to delete."
	answerLastDeleted         = "🗑 Last item removed. Items left: %d"
	answerAllDeleted          = "🗑 All items removed."
	answerChannelNotFound     = "❌ Channel not found."
	answerChannelRemoved      = "🗑 Channel removed."
	answerRemoveFailed        = "⚠️ Failed to remove the channel."
	answerNoPostInProgress    = "No post in progress. Use Create Post first."
	answerComposeHint         = "A post is in progress: use the buttons below, Send it or go Back."
	answerAddChannelHint      = "Forward a message from your channel, or press Back."
	answerSomethingWrong      = "⚠️ Something went wrong, please try again."
	answerPreview             = "Items: %d%s\nButtons: %d"
)
