package game

import (
	"fmt"
	"sort"

	"github.com/cardroom/cardroom/poker"
)

// SeatScore pairs a seat with its showdown score (lower is stronger).
type SeatScore struct {
	Seat  int         `json:"seat"`
	Score poker.Score `json:"score"`
}

// HandResult reports the settlement of a hand.
type HandResult struct {
	Winners []int       `json:"winners"`
	Payouts map[int]int `json:"payouts"`
	Ranking []SeatScore `json:"ranking"`
}

// ResolveShowdown compares the remaining hands, builds side pots from each
// player's total contribution, and credits the payouts. The hand returns to
// the idle state afterwards.
//
// The pot is carved into layers at each distinct contribution level; every
// player funds the layers up to their own total (folded players included),
// and each layer goes to the best hand among its non-folded contributors.
// Odd chips go one at a time to winners in ascending seat order.
func (t *Table) ResolveShowdown(players map[int]*Player) (*HandResult, error) {
	if t.Stage != Showdown {
		return nil, fmt.Errorf("%w: settlement outside showdown", ErrInternal)
	}

	contenders := inHandSeats(players)
	if len(contenders) == 0 {
		return nil, fmt.Errorf("%w: no contenders at showdown", ErrInternal)
	}

	if len(contenders) == 1 {
		winner := contenders[0]
		players[winner].Chips += t.Pot
		t.ShowdownReveal[winner] = players[winner].Hand.Cards()
		result := &HandResult{
			Winners: []int{winner},
			Payouts: map[int]int{winner: t.Pot},
			Ranking: []SeatScore{{Seat: winner}},
		}
		t.finishHand()
		return result, nil
	}

	board := t.boardHand()
	scores := make(map[int]poker.Score, len(contenders))
	for _, seat := range contenders {
		scores[seat] = poker.Evaluate7(players[seat].Hand | board)
	}

	ranking := make([]SeatScore, 0, len(contenders))
	for _, seat := range contenders {
		ranking = append(ranking, SeatScore{Seat: seat, Score: scores[seat]})
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Score != ranking[j].Score {
			return ranking[i].Score < ranking[j].Score
		}
		return ranking[i].Seat < ranking[j].Seat
	})

	// Side pots layered by contribution level. Folded players fund the
	// layers below their own total but never win one.
	totals := make(map[int]int, len(players))
	levels := make([]int, 0, len(players))
	for seat, p := range players {
		totals[seat] = p.TotalBet
		if p.TotalBet > 0 {
			levels = append(levels, p.TotalBet)
		}
	}
	sort.Ints(levels)
	levels = dedupe(levels)

	payouts := make(map[int]int)
	prev := 0
	for _, level := range levels {
		contributors := 0
		for _, total := range totals {
			if total >= level {
				contributors++
			}
		}
		potAmount := (level - prev) * contributors
		prev = level

		eligible := make([]int, 0, len(contenders))
		for _, seat := range contenders {
			if totals[seat] >= level {
				eligible = append(eligible, seat)
			}
		}
		if len(eligible) == 0 {
			continue
		}

		best := poker.MaxScore
		for _, seat := range eligible {
			if scores[seat] < best {
				best = scores[seat]
			}
		}
		winners := make([]int, 0, len(eligible))
		for _, seat := range eligible {
			if scores[seat] == best {
				winners = append(winners, seat)
			}
		}
		sort.Ints(winners)

		share := potAmount / len(winners)
		remainder := potAmount - share*len(winners)
		for _, seat := range winners {
			payouts[seat] += share
		}
		for i := range remainder {
			payouts[winners[i%len(winners)]]++
		}
	}

	paid := 0
	for _, amount := range payouts {
		paid += amount
	}
	if paid != t.Pot {
		return nil, fmt.Errorf("%w: payouts %d != pot %d", ErrInternal, paid, t.Pot)
	}

	winners := make([]int, 0, len(payouts))
	for seat, amount := range payouts {
		players[seat].Chips += amount
		if amount > 0 {
			winners = append(winners, seat)
		}
	}
	sort.Ints(winners)

	for _, seat := range contenders {
		t.ShowdownReveal[seat] = players[seat].Hand.Cards()
	}

	t.finishHand()
	return &HandResult{Winners: winners, Payouts: payouts, Ranking: ranking}, nil
}

// finishHand returns the table to the idle state. The dealer seat and hand
// counter survive into the next hand; the pot has been paid out.
func (t *Table) finishHand() {
	t.Pot = 0
	t.Stage = Waiting
	t.Started = false
	t.ActionSeat = 0
	t.toAct = nil
}

func dedupe(sorted []int) []int {
	out := sorted[:0]
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			out = append(out, v)
		}
	}
	return out
}
