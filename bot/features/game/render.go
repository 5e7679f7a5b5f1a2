package game

import (
	"fmt"
	"strings"

	"idolbot/bot/common"
	"idolbot/domain/entities"
	"idolbot/domain/utils"
)

// ParseGuess extracts the guess from a chat message, reporting false for
// messages that are not guesses
func ParseGuess(content string) (string, bool) {
	if !strings.HasPrefix(content, common.GuessPrefix) {
		return "", false
	}
	guess := entities.NormalizeAnswer(strings.TrimPrefix(content, common.GuessPrefix))
	if guess == "" {
		return "", false
	}
	return guess, true
}

// GuessReactions lists the reactions added to a guess message, in order
func GuessReactions(r entities.GuessResult) []string {
	switch r.Outcome {
	case entities.GuessOutcomeWrong:
		reactions := []string{common.EmojiWrong}
		if emoji, ok := utils.NumberEmoji(r.Remaining); ok {
			reactions = append(reactions, emoji)
		}
		if r.ExhaustedNow {
			reactions = append(reactions, common.EmojiExhausted)
		}
		return reactions
	case entities.GuessOutcomeAttemptsExhausted:
		return []string{common.EmojiExhausted}
	case entities.GuessOutcomeGroupNameFirst:
		return []string{common.EmojiGroup}
	default:
		return nil
	}
}

// GroupClaimedReply tells a late group guesser who named the group first.
// It is empty for every other outcome.
func GroupClaimedReply(r entities.GuessResult) string {
	if r.Outcome != entities.GuessOutcomeGroupNameAlreadyGuessed || r.GroupGuesser == nil {
		return ""
	}
	return fmt.Sprintf("The group name was already guessed by %s!", common.Mention(r.GroupGuesser.UserID))
}

// StartAnnouncement renders the channel message that opens a round
func StartAnnouncement(session *entities.GameSession, pingRoleID string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s started a 🎮 Guess-the-Idol 🎮 game! \nType `!idolname` to guess. You have **%d** tries.",
		common.Mention(session.Starter.UserID), session.AttemptLimit)
	if session.HasGroupName() {
		b.WriteString("\nA group name has been provided!")
	}
	if session.NoHints {
		b.WriteString("\nNo hints this round. Good luck!")
	}
	if pingRoleID != "" && pingRoleID != "0" {
		fmt.Fprintf(&b, " <@&%s>", pingRoleID)
	}
	return b.String()
}

// WinAnnouncement renders the reveal posted when a round is won
func WinAnnouncement(r entities.GuessResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎉 %s guessed right! It was **%s**.", common.Mention(r.User.UserID), r.Target)

	if r.Rewards != nil {
		if share, ok := r.Rewards.Share(entities.RewardSourceWinning); ok {
			fmt.Fprintf(&b, " +%s coins awarded!", utils.FormatThousands(share.Currency))
		}
		if share, ok := r.Rewards.Share(entities.RewardSourceStarting); ok {
			fmt.Fprintf(&b, "\nA percentage of the prize was also given to the coordinator %s. +%s",
				common.Mention(share.Player.UserID), utils.FormatThousands(share.Currency))
		}
		if share, ok := r.Rewards.Share(entities.RewardSourceAssist); ok {
			fmt.Fprintf(&b, "\n%s named the group first and earned +%s",
				common.Mention(share.Player.UserID), utils.FormatThousands(share.Currency))
		}
	}

	if r.ImageURL != "" {
		fmt.Fprintf(&b, "\n**Image Reveal:**\n%s", r.ImageURL)
	}
	return b.String()
}

// EndAnnouncement renders the follow-up posted when a round is ended by hand
func EndAnnouncement(r *entities.EndResult) string {
	if r.ImageURL == "" {
		return "No image was provided for this round."
	}
	return fmt.Sprintf("Here is the idol image!\n%s", r.ImageURL)
}
