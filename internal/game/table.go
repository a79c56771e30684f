package game

import (
	"fmt"
	rand "math/rand/v2"
	"sort"

	"github.com/cardroom/cardroom/poker"
)

// Stage represents the phase of a hand.
type Stage int

const (
	Waiting Stage = iota
	Preflop
	Flop
	Turn
	River
	Showdown
)

func (s Stage) String() string {
	return [...]string{"waiting", "preflop", "flop", "turn", "river", "showdown"}[s]
}

// Config holds the fixed parameters of a Table.
type Config struct {
	SmallBlind int
	BigBlind   int

	// ShortAllInReopens controls whether an all-in raise below the minimum
	// raise increment reopens the action for players who already acted.
	// True matches the loose ruleset most home games use; tournament rules
	// want false.
	ShortAllInReopens bool
}

// DefaultConfig returns the default table stakes.
func DefaultConfig() Config {
	return Config{SmallBlind: 5, BigBlind: 10, ShortAllInReopens: true}
}

// Table is the hand state machine. It owns the deck for the duration of a
// hand and mutates the Player records handed to each call. All methods must
// be externally serialized per table; see the Room.
type Table struct {
	cfg Config
	rng *rand.Rand

	Started bool
	HandNo  int

	Stage Stage
	Board []poker.Card
	Pot   int

	// Seat designations; 0 means unset.
	DealerSeat int
	SBSeat     int
	BBSeat     int
	UTGSeat    int
	ActionSeat int

	CurrentBet int
	MinRaise   int

	toAct []int

	// dealt holds the seats dealt into the current hand, in ascending order.
	// Busted seats sit out, so this is the set that decides heads-up play.
	dealt []int

	// noRaise holds seats barred from re-raising this round: under strict
	// rules a short all-in puts players who already acted on call-or-fold
	// until a full raise reopens the betting.
	noRaise map[int]bool

	deck *poker.Deck

	// nextDeck, when set, replaces the shuffled deck for the next hand.
	// Tests use this for deterministic runouts.
	nextDeck *poker.Deck

	ShowdownReveal map[int][]poker.Card

	// LastLog carries a human-readable description of the most recent
	// engine event for the Room's log.
	LastLog string
}

// NewTable creates a table. The RNG seeds each hand's shuffle.
func NewTable(cfg Config, rng *rand.Rand) *Table {
	t := &Table{cfg: cfg, rng: rng}
	t.resetHandState()
	return t
}

// Config returns the table's fixed configuration.
func (t *Table) Config() Config {
	return t.cfg
}

// UseDeck stacks a deck for the next hand. Testing hook.
func (t *Table) UseDeck(d *poker.Deck) {
	t.nextDeck = d
}

// ToAct returns the seats whose turn has not yet resolved this round, in
// acting order.
func (t *Table) ToAct() []int {
	out := make([]int, len(t.toAct))
	copy(out, t.toAct)
	return out
}

func (t *Table) resetHandState() {
	t.Started = false
	t.Stage = Waiting
	t.Board = nil
	t.Pot = 0
	t.SBSeat = 0
	t.BBSeat = 0
	t.UTGSeat = 0
	t.ActionSeat = 0
	t.CurrentBet = 0
	t.MinRaise = t.cfg.BigBlind
	t.toAct = nil
	t.noRaise = nil
	t.dealt = nil
	t.deck = nil
	t.ShowdownReveal = map[int][]poker.Card{}
}

// seatOrder returns the seats sorted ascending and rotated so that start
// comes first. When start is not present the rotation begins at the seat
// that would follow it cyclically.
func seatOrder(seats []int, start int) []int {
	if len(seats) == 0 {
		return nil
	}
	sorted := append([]int(nil), seats...)
	sort.Ints(sorted)

	idx := 0
	for i, s := range sorted {
		if s >= start {
			idx = i
			break
		}
		if i == len(sorted)-1 {
			idx = 0 // wrapped past the highest seat
		}
	}
	return append(sorted[idx:], sorted[:idx]...)
}

// nextSeat returns the seat after current in numeric-cyclic order.
func nextSeat(seats []int, current int) int {
	sorted := append([]int(nil), seats...)
	sort.Ints(sorted)
	if len(sorted) == 0 {
		return 0
	}
	for _, s := range sorted {
		if s > current {
			return s
		}
	}
	return sorted[0]
}

func handSeats(players map[int]*Player) []int {
	seats := make([]int, 0, len(players))
	for seat := range players {
		seats = append(seats, seat)
	}
	sort.Ints(seats)
	return seats
}

func inHandSeats(players map[int]*Player) []int {
	seats := make([]int, 0, len(players))
	for seat, p := range players {
		if p.InHand() {
			seats = append(seats, seat)
		}
	}
	sort.Ints(seats)
	return seats
}

// StartHand begins a new hand for the given seat map. At least two seats
// must hold chips.
func (t *Table) StartHand(players map[int]*Player) error {
	funded := 0
	for _, p := range players {
		if p.Chips > 0 {
			funded++
		}
	}
	if funded < 2 {
		return ErrMinPlayers
	}

	t.resetHandState()
	t.Started = true
	t.HandNo++
	t.Stage = Preflop

	for _, p := range players {
		p.resetForHand()
		if p.Chips == 0 {
			p.Folded = true // busted seats sit the hand out
		}
	}

	if t.nextDeck != nil {
		t.deck = t.nextDeck
		t.nextDeck = nil
	} else {
		t.deck = poker.NewDeck(t.rng)
	}

	seats := inHandSeats(players)
	t.dealt = seats

	// Rotate the button among the seats dealt in.
	if t.DealerSeat == 0 {
		t.DealerSeat = seats[0]
	} else {
		t.DealerSeat = nextSeat(seats, t.DealerSeat)
	}

	// Two cards each, dealt one at a time starting left of the button.
	order := seatOrder(seats, nextSeat(seats, t.DealerSeat))
	for range 2 {
		for _, seat := range order {
			players[seat].Hand.AddCard(t.deck.DrawOne())
		}
	}

	if len(seats) == 2 {
		// Heads-up: the button posts the small blind.
		t.SBSeat = t.DealerSeat
		t.BBSeat = nextSeat(seats, t.DealerSeat)
	} else {
		t.SBSeat = nextSeat(seats, t.DealerSeat)
		t.BBSeat = nextSeat(seats, t.SBSeat)
	}

	sbPaid := t.postBlind(players[t.SBSeat], t.cfg.SmallBlind)
	bbPaid := t.postBlind(players[t.BBSeat], t.cfg.BigBlind)

	t.CurrentBet = max(sbPaid, bbPaid)
	t.MinRaise = t.cfg.BigBlind

	var first int
	if len(seats) == 2 {
		first = t.SBSeat
	} else {
		first = nextSeat(seats, t.BBSeat)
	}
	t.UTGSeat = first

	t.startBettingRound(players, first)
	t.LastLog = fmt.Sprintf("hand #%d started, blinds %d/%d", t.HandNo, sbPaid, bbPaid)

	// Everyone can be all-in from the blinds alone.
	t.autoRunOut(players)
	return nil
}

func (t *Table) postBlind(p *Player, amount int) int {
	pay := min(amount, p.Chips)
	p.Chips -= pay
	p.Bet += pay
	p.TotalBet += pay
	t.Pot += pay
	if p.Chips == 0 {
		p.AllIn = true
	}
	return pay
}

// startBettingRound builds the to-act queue from the seats that can still
// act, in cyclic order from the given first seat.
func (t *Table) startBettingRound(players map[int]*Player, first int) {
	t.noRaise = nil
	t.toAct = t.toAct[:0]
	for _, seat := range seatOrder(handSeats(players), first) {
		if players[seat].CanAct() {
			t.toAct = append(t.toAct, seat)
		}
	}
	if len(t.toAct) == 0 {
		t.ActionSeat = 0
		return
	}
	t.ActionSeat = t.toAct[0]
}

func (t *Table) removeFromToAct(seat int) {
	for i, s := range t.toAct {
		if s == seat {
			t.toAct = append(t.toAct[:i], t.toAct[i+1:]...)
			break
		}
	}
	if len(t.toAct) > 0 {
		t.ActionSeat = t.toAct[0]
	} else {
		t.ActionSeat = 0
	}
}

// advanceStage deals the next street and opens its betting round.
func (t *Table) advanceStage(players map[int]*Player) {
	t.dealNextStreet()
	if t.Stage == Showdown {
		t.ActionSeat = 0
		t.toAct = nil
		return
	}

	for _, p := range players {
		p.Bet = 0
	}
	t.CurrentBet = 0
	t.MinRaise = t.cfg.BigBlind

	var first int
	if len(t.dealt) == 2 {
		first = t.DealerSeat // dealer acts first postflop heads-up
	} else {
		first = nextSeat(t.dealt, t.DealerSeat)
	}
	t.startBettingRound(players, first)
}

func (t *Table) dealNextStreet() {
	switch t.Stage {
	case Preflop:
		t.Stage = Flop
		t.Board = append(t.Board, t.deck.Draw(3)...)
	case Flop:
		t.Stage = Turn
		t.Board = append(t.Board, t.deck.DrawOne())
	case Turn:
		t.Stage = River
		t.Board = append(t.Board, t.deck.DrawOne())
	case River:
		t.Stage = Showdown
	}
}

// finishEarly awards the pot when only one player remains and returns true.
func (t *Table) finishEarly(players map[int]*Player) bool {
	inHand := inHandSeats(players)
	if len(inHand) != 1 {
		return false
	}

	winner := inHand[0]
	players[winner].Chips += t.Pot
	t.LastLog = fmt.Sprintf("seat %d wins %d uncontested", winner, t.Pot)

	t.Pot = 0
	t.Stage = Waiting
	t.Started = false
	t.ActionSeat = 0
	t.toAct = nil
	return true
}

func (t *Table) allMatchedOrAllIn(players map[int]*Player) bool {
	for _, p := range players {
		if p.Folded || p.AllIn {
			continue
		}
		if p.Bet != t.CurrentBet {
			return false
		}
	}
	return true
}

// autoRunOut deals the remaining streets back to back once no further
// action is possible, stopping at showdown.
func (t *Table) autoRunOut(players map[int]*Player) {
	if t.ActionSeat != 0 || !t.Started {
		return
	}
	if !t.allMatchedOrAllIn(players) {
		return
	}
	for t.Stage == Preflop || t.Stage == Flop || t.Stage == Turn || t.Stage == River {
		t.dealNextStreet()
	}
	t.toAct = nil
}

func (t *Table) boardHand() poker.Hand {
	return poker.NewHand(t.Board...)
}

// BestFive returns the five cards making the given seat's best hand with
// the current board. Display only.
func (t *Table) BestFive(p *Player) []poker.Card {
	five, _ := poker.BestFive(p.Hand | t.boardHand())
	return five.Cards()
}
