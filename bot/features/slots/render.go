package slots

import (
	"fmt"
	"strings"

	"idolbot/domain/entities"
)

// SpinText renders a spin as the slot machine window plus a verdict line
func SpinText(r *entities.SpinResult) string {
	var b strings.Builder
	b.WriteString("**Slot Machine Result:**\n")
	for _, row := range r.Rows {
		fmt.Fprintf(&b, "%s | %s | %s\n", row[0], row[1], row[2])
	}
	b.WriteString("\n")

	switch {
	case r.Jackpot:
		fmt.Fprintf(&b, "**Jackpot!!! You won %d coins!**", r.Winnings)
	case r.Outcome == entities.SlotOutcomeThreeMatch:
		fmt.Fprintf(&b, "**Congratulations! You won %d coins!**", r.Winnings)
	case r.Outcome == entities.SlotOutcomeThreeUnique:
		fmt.Fprintf(&b, "**Good job! You won %d coins!**", r.Winnings)
	case r.FreeSpin:
		b.WriteString("**Better luck next time! The free spin cost nothing.**")
	default:
		fmt.Fprintf(&b, "**Better luck next time! -%d coins.**", r.Cost)
	}

	var notes []string
	if r.FreeSpin {
		notes = append(notes, fmt.Sprintf("🎰 Free spin used, %d left", r.FreeSpins))
	}
	switch r.Ticket {
	case entities.TicketSilver:
		notes = append(notes, "🎫 Silver ticket applied")
	case entities.TicketGolden:
		notes = append(notes, "🎫 Golden ticket applied")
	}
	if r.Rerolled {
		notes = append(notes, "🔁 Rerolled once")
	}
	if len(notes) > 0 {
		b.WriteString("\n")
		b.WriteString(strings.Join(notes, " • "))
	}

	return b.String()
}

// BuffsText lists the buffs a user holds
func BuffsText(buffs *entities.TicketBuffs, freeSpins int) string {
	var b strings.Builder
	hasAny := false

	b.WriteString("🎮 **Your Active Buffs:**\n\n")
	if freeSpins > 0 {
		hasAny = true
		fmt.Fprintf(&b, "🎰 **Free Spins:** %d remaining\n• No entry cost\n• ⚠️ Ticket buffs are NOT active during free spins\n\n", freeSpins)
	}
	if buffs.SilverTickets > 0 {
		hasAny = true
		fmt.Fprintf(&b, "🥈 **Silver Ticket Buff:** %d rounds\n• +50%% slot winnings\n• 30%% chance of reroll on a loss\n• ⚠️ Double losses on losing spins\n\n", buffs.SilverTickets)
	}
	if buffs.GoldenTickets > 0 {
		hasAny = true
		fmt.Fprintf(&b, "🥇 **Golden Ticket Buff:** %d rounds\n• +200%% slot winnings\n• Minimum 30 coin wins\n\n", buffs.GoldenTickets)
	}

	if !hasAny {
		return "❌ **No Active Buffs**\n\n💡 **How to get buffs:**\n• Free spins and tickets are gifted by admins"
	}

	b.WriteString("💡 Use `/slots` to play and consume these buffs automatically!")
	if buffs.SilverTickets > 0 && buffs.GoldenTickets > 0 {
		b.WriteString("\n✨ Golden tickets are used before silver ones.")
	}
	return b.String()
}

// FreeSpinsText reports the free spins left
func FreeSpinsText(spins int) string {
	if spins > 0 {
		return fmt.Sprintf("🎰 You have **%d** free spins remaining!\nUse `/slots` to use them.", spins)
	}
	return "🎰 You have no free spins remaining."
}
