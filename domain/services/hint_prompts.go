package services

import (
	"fmt"
	"strings"

	"idolbot/domain/entities"
)

// cheekyTemplates are used when a round was started with hints disabled.
// Each template takes the guesser description and the wrong guess(es).
var cheekyTemplates = []string{
	`%s guessed "%s" for the kpop idol in the picture and got it wrong. Hints are switched off this round, so tease them a little instead. Be cheeky but never mean, and keep it 2 sentences or shorter.`,
	`%s confidently said "%s" and missed. Roast the guess in a playful way without giving any hint about the real idol. Keep it 2 sentences or shorter.`,
	`%s really thought "%s" was the answer. Pretend to be a smug idol who knows the answer and refuses to help. No hints. Keep it 2 sentences or shorter.`,
	`%s guessed "%s" and it's wrong. Give an over-the-top dramatic reaction as if they insulted the idol, with zero hints. Keep it 2 sentences or shorter.`,
}

func groupString(groupName string) string {
	if groupName == "" {
		return ""
	}
	return fmt.Sprintf("The group name is %q.", groupName)
}

// buildHintPrompt builds the prompt for the immediate reply to a wrong guess
func buildHintPrompt(g WrongGuess, tone entities.HintTone, cheekyIndex int) string {
	switch tone {
	case entities.HintToneCheeky:
		return fmt.Sprintf(cheekyTemplates[cheekyIndex%len(cheekyTemplates)], g.DisplayName, g.Guess)
	case entities.HintToneHint:
		return strings.TrimSpace(fmt.Sprintf(
			`%s guessed "%s" but it's wrong. Respond with a slightly short, witty, and playful message, and give a gentle hint about the idol. Keep it 3 sentences or shorter. `+
				`If you know anything about the idol, hint with it. Otherwise help them figure out the name with a rhyme or some other smart and entertaining clue. `+
				`"%s" is the idol they're trying to guess and you must not say the name or the group name. %s`,
			g.DisplayName, g.Guess, g.Target, groupString(g.GroupName)))
	default:
		return fmt.Sprintf(
			`%s guessed "%s" as the kpop idol in the picture, but it's wrong. Respond with a slightly short, witty, and playful message. Keep it 3 sentences or shorter.`,
			g.DisplayName, g.Guess)
	}
}

// buildBatchPrompt builds the single follow-up prompt for guesses queued during a cooldown
func buildBatchPrompt(guesses []string, target, groupName string, tone entities.HintTone, cheekyIndex int) string {
	replies := strings.Join(guesses, ", ")

	switch tone {
	case entities.HintToneCheeky:
		return fmt.Sprintf(cheekyTemplates[cheekyIndex%len(cheekyTemplates)], "Several players", replies)
	case entities.HintToneHint:
		return strings.TrimSpace(fmt.Sprintf(
			`Multiple people guessed (%s) but all were wrong. Respond with a slightly short, playful and teasing message and give a light hint about the idol. Keep it 3 sentences or shorter. `+
				`If you know anything about the idol, hint with it. Otherwise help them figure out the name with a rhyme or some other smart and entertaining clue. `+
				`"%s" is the idol they're trying to guess and you must not say the name or the group name. %s`,
			replies, target, groupString(groupName)))
	default:
		return fmt.Sprintf(
			`Multiple users guessed the idol in the picture's name to be (%s) and were wrong. Respond with a slightly short and witty group comment, playful and fun. Keep it 3 sentences or shorter.`,
			replies)
	}
}
