package game

import (
	"github.com/cardroom/cardroom/poker"
)

// Player represents one seat's occupant. The Room owns Player records and
// passes a seat-keyed map into the Table per call; the Table mutates the
// chip and bet fields directly.
type Player struct {
	SID  string // opaque session token
	Name string
	Seat int

	Chips      int
	BuyinTotal int
	Ready      bool

	Hand poker.Hand // 0 or 2 hole cards

	Bet      int // chips committed in the current betting round
	TotalBet int // chips committed across all rounds of this hand

	Folded bool
	AllIn  bool

	// Left marks a seat vacated mid-hand. The player stays in the hand map
	// (folded) so their contributions keep funding the pot, and the Room
	// purges the seat between hands.
	Left bool

	LastAction string
}

// CanAct reports whether the player can still take actions this round.
func (p *Player) CanAct() bool {
	return !p.Folded && !p.AllIn && p.Chips > 0
}

// InHand reports whether the player is still contesting the pot.
func (p *Player) InHand() bool {
	return !p.Folded
}

// Net returns winnings relative to total buy-ins, for display.
func (p *Player) Net() int {
	return p.Chips - p.BuyinTotal
}

func (p *Player) resetForHand() {
	p.Hand = 0
	p.Bet = 0
	p.TotalBet = 0
	p.Folded = false
	p.AllIn = false
	p.LastAction = ""
}
