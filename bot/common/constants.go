package common

// Discord color constants
const (
	ColorPrimary = 0x5865F2 // Discord blurple
	ColorSuccess = 0x57F287 // Green
	ColorDanger  = 0xED4245 // Red
	ColorWarning = 0xFEE75C // Yellow
	ColorInfo    = 0x3498DB // Blue
	ColorPink    = 0xFF69B4
)

// Game reactions
const (
	EmojiWrong     = "❌"
	EmojiExhausted = "☠️"
	EmojiGroup     = "✅"
	EmojiLeft      = "⬅️"
	EmojiRight     = "➡️"
)

// GuessPrefix starts a guess message
const GuessPrefix = "!"
