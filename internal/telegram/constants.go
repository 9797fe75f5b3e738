package telegram

const (
	// StartCommand is the handshake a user sends to initiate contact.
	StartCommand = "/start"

	// CommandPrefix marks bot commands. During code verification anything
	// starting with it is noise, not a candidate code.
	CommandPrefix = "/"
)
