package entities

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Pollination is one counted pollination post
type Pollination struct {
	ID             int64
	DiscordID      string
	Number         int64
	MessageID      string
	ContentNumbers string
	PostedAt       time.Time
}

// PollinationCount is a user's pollination tally
type PollinationCount struct {
	DiscordID string
	Count     int64
}

// ScannedMessage is a channel message as seen by the pollination scanner
type ScannedMessage struct {
	ID        string
	AuthorID  string
	Content   string
	CreatedAt time.Time
}

// ScanReport summarizes a pollination scan run
type ScanReport struct {
	ChannelID         string
	MessagesScanned   int
	PollinationsAdded int
	NextNumber        int64
	LastMessageID     string
}

// keycap digits are the ASCII digit followed by U+FE0F U+20E3
var keycapRun = regexp.MustCompile(`(?:[0-9]\x{FE0F}?\x{20E3} ?)+`)

// ExtractPollinationNumbers finds keycap-emoji numbers ("6️⃣9️⃣", "6️⃣ 9️⃣") in a
// message and returns the distinct positive values in ascending order.
func ExtractPollinationNumbers(content string) []int64 {
	runs := keycapRun.FindAllString(content, -1)
	if len(runs) == 0 {
		return nil
	}

	seen := make(map[int64]struct{})
	var numbers []int64
	for _, run := range runs {
		var digits strings.Builder
		for _, r := range run {
			if r >= '0' && r <= '9' {
				digits.WriteRune(r)
			}
		}
		n, err := strconv.ParseInt(digits.String(), 10, 64)
		if err != nil || n <= 0 {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		numbers = append(numbers, n)
	}

	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })
	return numbers
}

// FormatContentNumbers renders numbers the way they are stored on a pollination row
func FormatContentNumbers(numbers []int64) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = strconv.FormatInt(n, 10)
	}
	return strings.Join(parts, ", ")
}

// NumberRange is an inclusive range of pollination numbers
type NumberRange struct {
	From int64
	To   int64
}

// Single reports whether the range names one number
func (r NumberRange) Single() bool {
	return r.From == r.To
}

func (r NumberRange) String() string {
	if r.Single() {
		return strconv.FormatInt(r.From, 10)
	}
	return fmt.Sprintf("%d-%d", r.From, r.To)
}

// ParseNumberRange reads "50" or "50-60". The bounds may be given in either order.
func ParseNumberRange(s string) (NumberRange, error) {
	s = strings.TrimSpace(s)
	if from, to, ok := strings.Cut(s, "-"); ok {
		a, errA := strconv.ParseInt(strings.TrimSpace(from), 10, 64)
		b, errB := strconv.ParseInt(strings.TrimSpace(to), 10, 64)
		if errA != nil || errB != nil {
			return NumberRange{}, fmt.Errorf("invalid pollination range %q", s)
		}
		return NumberRange{From: min(a, b), To: max(a, b)}, nil
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return NumberRange{}, fmt.Errorf("invalid pollination number %q", s)
	}
	return NumberRange{From: n, To: n}, nil
}
