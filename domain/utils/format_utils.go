package utils

import (
	"strconv"
	"strings"
)

var numberEmojis = []string{"0️⃣", "1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣", "6️⃣", "7️⃣", "8️⃣", "9️⃣", "🔟"}

// NumberEmoji returns the keycap emoji for 0..10 and false for anything else
func NumberEmoji(n int) (string, bool) {
	if n < 0 || n >= len(numberEmojis) {
		return "", false
	}
	return numberEmojis[n], true
}

// FormatThousands renders a number with comma separators (e.g. 12,345)
func FormatThousands(value int64) string {
	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}

	digits := strconv.FormatInt(value, 10)
	if len(digits) <= 3 {
		return sign + digits
	}

	var b strings.Builder
	b.WriteString(sign)
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > len(sign) {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// RankLabel renders a 1-based leaderboard position, medals for the podium
func RankLabel(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return "#" + strconv.Itoa(rank)
	}
}
