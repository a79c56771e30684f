package game

import (
	"reflect"
	"testing"

	"github.com/cardroom/cardroom/internal/randutil"
	"github.com/cardroom/cardroom/poker"
)

// stackedRunout builds a deck that deals the given cards in order.
func stackedRunout(t *testing.T, ss ...string) *poker.Deck {
	t.Helper()
	cards, err := poker.ParseCards(ss)
	if err != nil {
		t.Fatal(err)
	}
	return poker.NewStackedDeck(cards...)
}

func TestShowdownRequiresShowdownStage(t *testing.T) {
	t.Parallel()

	tbl := newTestTable()
	players := testPlayers(1000, 1000)
	if err := tbl.StartHand(players); err != nil {
		t.Fatal(err)
	}

	if _, err := tbl.ResolveShowdown(players); err == nil {
		t.Error("Settlement outside showdown should fail")
	}
}

// Short stack shoves preflop, big stack calls, third player folds. The
// all-in hand runs out and the main pot goes to the better hand.
func TestAllInCallRunsOutToShowdown(t *testing.T) {
	t.Parallel()

	tbl := NewTable(DefaultConfig(), nil)
	// Rotation puts the button on seat 3, so seat 1 posts the small blind.
	tbl.DealerSeat = 2
	// Deal order starts left of the button: seats 1, 2, 3.
	tbl.UseDeck(stackedRunout(t,
		"As", "Ks", "2c", "Ah", "Kh", "7d",
		"Qc", "8d", "3h", "Jc", "4s",
	))

	players := testPlayers(100, 1000, 1000)
	if err := tbl.StartHand(players); err != nil {
		t.Fatal(err)
	}
	if tbl.DealerSeat != 3 || tbl.SBSeat != 1 || tbl.BBSeat != 2 || tbl.ActionSeat != 3 {
		t.Fatalf("positions: dealer=%d sb=%d bb=%d action=%d",
			tbl.DealerSeat, tbl.SBSeat, tbl.BBSeat, tbl.ActionSeat)
	}

	if err := tbl.ApplyAction(players, 3, Fold, 0); err != nil {
		t.Fatal(err)
	}
	if err := tbl.ApplyAction(players, 1, Raise, 100); err != nil {
		t.Fatal(err)
	}
	if !players[1].AllIn {
		t.Fatal("Seat 1 should be all-in")
	}
	if err := tbl.ApplyAction(players, 2, Call, 0); err != nil {
		t.Fatal(err)
	}

	// Seat 2 still has chips, so it checks down the streets alone.
	for tbl.Stage != Showdown {
		if err := tbl.ApplyAction(players, 2, Check, 0); err != nil {
			t.Fatal(err)
		}
	}

	result, err := tbl.ResolveShowdown(players)
	if err != nil {
		t.Fatal(err)
	}

	// Aces beat kings on a dry board.
	if !reflect.DeepEqual(result.Winners, []int{1}) {
		t.Errorf("winners = %v, want [1]", result.Winners)
	}
	if result.Payouts[1] != 200 {
		t.Errorf("payout = %d, want 200", result.Payouts[1])
	}
	if players[1].Chips != 200 || players[2].Chips != 900 || players[3].Chips != 1000 {
		t.Errorf("chips = %d/%d/%d, want 200/900/1000",
			players[1].Chips, players[2].Chips, players[3].Chips)
	}
	if result.Ranking[0].Seat != 1 {
		t.Errorf("Best hand should rank first, got seat %d", result.Ranking[0].Seat)
	}
	if tbl.Started || tbl.Stage != Waiting {
		t.Error("Table should be idle after settlement")
	}
}

// Three equal stacks all-in preflop: the best hand collects everything.
func TestThreeWayAllInWinnerTakesAll(t *testing.T) {
	t.Parallel()

	tbl := NewTable(DefaultConfig(), nil)
	// Dealer lands on seat 1; dealing starts with seat 2.
	tbl.UseDeck(stackedRunout(t,
		"Kc", "Qc", "As", "Kd", "Qd", "Ah",
		"2c", "7d", "9h", "3s", "Jd",
	))

	players := testPlayers(300, 300, 300)
	if err := tbl.StartHand(players); err != nil {
		t.Fatal(err)
	}

	if err := tbl.ApplyAction(players, 1, Raise, 300); err != nil {
		t.Fatal(err)
	}
	if err := tbl.ApplyAction(players, 2, Call, 0); err != nil {
		t.Fatal(err)
	}
	if err := tbl.ApplyAction(players, 3, Call, 0); err != nil {
		t.Fatal(err)
	}

	if tbl.Stage != Showdown {
		t.Fatalf("All-in hand should run out, stage = %v", tbl.Stage)
	}
	if len(tbl.Board) != 5 {
		t.Fatalf("Board has %d cards", len(tbl.Board))
	}

	result, err := tbl.ResolveShowdown(players)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(result.Winners, []int{1}) {
		t.Errorf("winners = %v, want [1]", result.Winners)
	}
	if players[1].Chips != 900 || players[2].Chips != 0 || players[3].Chips != 0 {
		t.Errorf("chips = %d/%d/%d, want 900/0/0",
			players[1].Chips, players[2].Chips, players[3].Chips)
	}
	if len(tbl.ShowdownReveal) != 3 {
		t.Errorf("All contenders should be revealed, got %d", len(tbl.ShowdownReveal))
	}
}

// A folded short contribution seeds the bottom layer; three players tie on
// a board that plays, and the odd chips walk up from the lowest seat.
func TestSidePotLayersAndRemainders(t *testing.T) {
	t.Parallel()

	tbl := NewTable(DefaultConfig(), nil)
	tbl.Stage = Showdown
	tbl.Started = true
	tbl.Pot = 650

	board, err := poker.ParseCards([]string{"Ac", "Kd", "Qh", "Js", "Tc"})
	if err != nil {
		t.Fatal(err)
	}
	tbl.Board = board

	players := testPlayers(0, 0, 0, 0)
	players[1].Folded = true
	players[1].TotalBet = 50
	players[2].TotalBet = 200
	players[3].TotalBet = 200
	players[4].TotalBet = 200
	players[2].Hand = mustHand(t, "2c", "3d")
	players[3].Hand = mustHand(t, "4c", "5d")
	players[4].Hand = mustHand(t, "6c", "7d")

	result, err := tbl.ResolveShowdown(players)
	if err != nil {
		t.Fatal(err)
	}

	// Layer 50 splits 200 three ways (67/67/66 ascending); layer 200
	// splits 450 evenly.
	want := map[int]int{2: 217, 3: 217, 4: 216}
	if !reflect.DeepEqual(result.Payouts, want) {
		t.Errorf("payouts = %v, want %v", result.Payouts, want)
	}
	if !reflect.DeepEqual(result.Winners, []int{2, 3, 4}) {
		t.Errorf("winners = %v, want [2 3 4]", result.Winners)
	}

	paid := 0
	for _, amount := range result.Payouts {
		paid += amount
	}
	if paid != 650 {
		t.Errorf("Σ payouts = %d, want the full pot 650", paid)
	}

	// The folded seat funded the bottom layer but won nothing.
	if _, ok := result.Payouts[1]; ok {
		t.Error("Folded seat must not be paid")
	}
}

// A player can never win chips from layers above their own contribution.
func TestSidePotIsolation(t *testing.T) {
	t.Parallel()

	tbl := NewTable(DefaultConfig(), nil)
	tbl.Stage = Showdown
	tbl.Started = true
	tbl.Pot = 500

	board, err := poker.ParseCards([]string{"2c", "7d", "9h", "3s", "Jd"})
	if err != nil {
		t.Fatal(err)
	}
	tbl.Board = board

	// Short stack holds the nuts but only contributed 100.
	players := testPlayers(0, 0)
	players[1].TotalBet = 100
	players[2].TotalBet = 400
	players[1].Hand = mustHand(t, "As", "Ah")
	players[2].Hand = mustHand(t, "Kc", "Kd")

	result, err := tbl.ResolveShowdown(players)
	if err != nil {
		t.Fatal(err)
	}

	// Main pot 200 to the aces; the 300 overage returns to seat 2.
	want := map[int]int{1: 200, 2: 300}
	if !reflect.DeepEqual(result.Payouts, want) {
		t.Errorf("payouts = %v, want %v", result.Payouts, want)
	}
}

func TestUncontestedShowdown(t *testing.T) {
	t.Parallel()

	tbl := NewTable(DefaultConfig(), nil)
	tbl.Stage = Showdown
	tbl.Started = true
	tbl.Pot = 120

	players := testPlayers(0, 0, 0)
	players[1].Folded = true
	players[2].Folded = true
	players[3].TotalBet = 40
	players[3].Hand = mustHand(t, "2c", "3d")

	result, err := tbl.ResolveShowdown(players)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(result.Winners, []int{3}) || players[3].Chips != 120 {
		t.Errorf("winners = %v, chips = %d", result.Winners, players[3].Chips)
	}
}

func TestDeterministicReplay(t *testing.T) {
	t.Parallel()

	play := func() (map[int]*Player, *HandResult) {
		tbl := NewTable(DefaultConfig(), randutil.New(99))
		players := testPlayers(1000, 1000)
		if err := tbl.StartHand(players); err != nil {
			t.Fatal(err)
		}

		// Check the hand down to showdown.
		if err := tbl.ApplyAction(players, 1, Call, 0); err != nil {
			t.Fatal(err)
		}
		if err := tbl.ApplyAction(players, 2, Check, 0); err != nil {
			t.Fatal(err)
		}
		for tbl.Stage != Showdown {
			if err := tbl.ApplyAction(players, tbl.ActionSeat, Check, 0); err != nil {
				t.Fatal(err)
			}
		}

		result, err := tbl.ResolveShowdown(players)
		if err != nil {
			t.Fatal(err)
		}
		return players, result
	}

	p1, r1 := play()
	p2, r2 := play()

	for seat := range p1 {
		if p1[seat].Chips != p2[seat].Chips {
			t.Errorf("Seat %d diverged: %d vs %d", seat, p1[seat].Chips, p2[seat].Chips)
		}
	}
	if !reflect.DeepEqual(r1.Ranking, r2.Ranking) {
		t.Errorf("Rankings diverged: %v vs %v", r1.Ranking, r2.Ranking)
	}
}

func mustHand(t *testing.T, ss ...string) poker.Hand {
	t.Helper()
	cards, err := poker.ParseCards(ss)
	if err != nil {
		t.Fatal(err)
	}
	return poker.NewHand(cards...)
}
