package models

// Event is the decoded form of an inbound platform update. The controller
// produces it once at the boundary so the logic layer never touches
// Telegram's wire types.
type Event struct {
	ChatID  int64
	Text    string
	Command string // e.g. "start"; empty for plain text
}
