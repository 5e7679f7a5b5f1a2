package entities

// SlotSymbol is one face of a slot reel
type SlotSymbol string

const (
	SlotButterfly SlotSymbol = ":butterfly:"
	SlotClover    SlotSymbol = ":four_leaf_clover:"
	SlotCherries  SlotSymbol = ":cherries:"
	SlotLemon     SlotSymbol = ":lemon:"
	SlotStar      SlotSymbol = ":star:"
)

// SlotSymbols is the base reel order
var SlotSymbols = []SlotSymbol{SlotButterfly, SlotClover, SlotCherries, SlotLemon, SlotStar}

// SlotReels returns the three reels: the base order, the reversed order and a shuffled order
func SlotReels() [3][]SlotSymbol {
	base := append([]SlotSymbol(nil), SlotSymbols...)

	reversed := make([]SlotSymbol, len(base))
	for i, s := range base {
		reversed[len(base)-1-i] = s
	}

	third := []SlotSymbol{base[1], base[4], base[0], base[2], base[3]}

	return [3][]SlotSymbol{base, reversed, third}
}

// SlotOutcome classifies a spin
type SlotOutcome string

const (
	SlotOutcomeThreeMatch  SlotOutcome = "three_match"
	SlotOutcomeThreeUnique SlotOutcome = "three_unique"
	SlotOutcomeLoss        SlotOutcome = "loss"
)

// TicketKind is a slots buff a user can hold
type TicketKind string

const (
	TicketSilver TicketKind = "silver"
	TicketGolden TicketKind = "golden"
)

// TicketBuffs counts the tickets a user holds
type TicketBuffs struct {
	DiscordID     string
	SilverTickets int
	GoldenTickets int
}

// Active returns the ticket that will be consumed by the next paid spin; golden wins over silver
func (b TicketBuffs) Active() (TicketKind, bool) {
	switch {
	case b.GoldenTickets > 0:
		return TicketGolden, true
	case b.SilverTickets > 0:
		return TicketSilver, true
	default:
		return "", false
	}
}

// SpinResult is the full outcome of one slots spin
type SpinResult struct {
	// Rows holds the visible window: above, payline, below
	Rows      [3][3]SlotSymbol
	Payline   [3]SlotSymbol
	Outcome   SlotOutcome
	Winnings  int64 // positive on a win
	Cost      int64 // positive on a loss
	FreeSpin  bool
	Ticket    TicketKind
	Rerolled  bool
	Jackpot   bool
	FreeSpins int // free spins left after this spin
}

// IsWin reports whether the spin paid out
func (r SpinResult) IsWin() bool {
	return r.Outcome != SlotOutcomeLoss
}
