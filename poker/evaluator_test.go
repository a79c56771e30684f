package poker

import (
	"testing"
)

func score5(t *testing.T, ss ...string) Score {
	t.Helper()
	return Score5(mustParseHand(t, ss...))
}

func TestScore5Classes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		cards []string
		want  HandType
	}{
		{"royal flush", []string{"As", "Ks", "Qs", "Js", "Ts"}, StraightFlush},
		{"straight flush", []string{"9h", "8h", "7h", "6h", "5h"}, StraightFlush},
		{"steel wheel", []string{"Ad", "2d", "3d", "4d", "5d"}, StraightFlush},
		{"quads", []string{"Ac", "Ad", "Ah", "As", "2c"}, FourOfAKind},
		{"full house", []string{"Kc", "Kd", "Kh", "2s", "2c"}, FullHouse},
		{"flush", []string{"As", "Js", "8s", "6s", "3s"}, Flush},
		{"broadway", []string{"Ac", "Kd", "Qh", "Js", "Tc"}, Straight},
		{"wheel", []string{"Ac", "2d", "3h", "4s", "5c"}, Straight},
		{"trips", []string{"7c", "7d", "7h", "Ks", "2c"}, ThreeOfAKind},
		{"two pair", []string{"Jc", "Jd", "4h", "4s", "9c"}, TwoPair},
		{"pair", []string{"8c", "8d", "Ah", "Ks", "2c"}, Pair},
		{"high card", []string{"Ac", "Jd", "9h", "6s", "3c"}, HighCard},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := score5(t, tc.cards...).Type()
			if got != tc.want {
				t.Errorf("Score5(%v).Type() = %v, want %v", tc.cards, got, tc.want)
			}
		})
	}
}

func TestScoreOrdering(t *testing.T) {
	t.Parallel()

	// Strongest to weakest; lower score must win.
	hands := [][]string{
		{"As", "Ks", "Qs", "Js", "Ts"}, // royal flush
		{"9h", "8h", "7h", "6h", "5h"}, // straight flush
		{"Ad", "2d", "3d", "4d", "5d"}, // steel wheel
		{"Ac", "Ad", "Ah", "As", "Kc"}, // quads
		{"2c", "2d", "2h", "2s", "3c"}, // lower quads
		{"Kc", "Kd", "Kh", "2s", "2c"}, // full house
		{"As", "Js", "8s", "6s", "3s"}, // flush
		{"Ac", "Kd", "Qh", "Js", "Tc"}, // broadway straight
		{"Ac", "2d", "3h", "4s", "5c"}, // wheel straight
		{"7c", "7d", "7h", "Ks", "2c"}, // trips
		{"Jc", "Jd", "4h", "4s", "9c"}, // two pair
		{"8c", "8d", "Ah", "Ks", "2c"}, // pair
		{"Ac", "Jd", "9h", "6s", "3c"}, // ace high
		{"Kc", "Jd", "9h", "6s", "3c"}, // king high
	}

	for i := 1; i < len(hands); i++ {
		stronger := score5(t, hands[i-1]...)
		weaker := score5(t, hands[i]...)
		if stronger >= weaker {
			t.Errorf("hand %v (score %d) should beat %v (score %d)", hands[i-1], stronger, hands[i], weaker)
		}
	}
}

func TestKickersBreakTies(t *testing.T) {
	t.Parallel()

	aceKicker := score5(t, "8c", "8d", "Ah", "7s", "2c")
	kingKicker := score5(t, "8h", "8s", "Kh", "7d", "2d")
	if aceKicker >= kingKicker {
		t.Error("pair of eights with ace kicker should beat king kicker")
	}

	// Identical ranks in different suits score identically.
	a := score5(t, "Ac", "Kd", "9h", "6s", "3c")
	b := score5(t, "Ad", "Kh", "9s", "6c", "3d")
	if a != b {
		t.Errorf("suit permutation changed score: %d vs %d", a, b)
	}
}

func TestEvaluate7PicksBestFive(t *testing.T) {
	t.Parallel()

	// Seven cards containing a flush that beats the straight.
	h := mustParseHand(t, "As", "Ks", "Qs", "Js", "9s", "Tc", "Td")
	got := Evaluate7(h).Type()
	if got != Flush {
		t.Errorf("Expected flush from 7 cards, got %v", got)
	}

	// Board plays: both hole cards are irrelevant.
	board := mustParseHand(t, "Ac", "Kd", "Qh", "Js", "Tc")
	holes := mustParseHand(t, "2c", "3d")
	if Evaluate7(board|holes) != Score5(board) {
		t.Error("board-plays hand should score exactly the board")
	}
}

func TestEvaluate7EqualsBestSubset(t *testing.T) {
	t.Parallel()

	h := mustParseHand(t, "Ah", "Ad", "7c", "7d", "7h", "2s", "3s")
	score := Evaluate7(h)
	if score.Type() != FullHouse {
		t.Errorf("Expected full house, got %v", score.Type())
	}

	five, best := BestFive(h)
	if best != score {
		t.Errorf("BestFive score %d != Evaluate7 score %d", best, score)
	}
	if five.CountCards() != 5 {
		t.Errorf("BestFive returned %d cards", five.CountCards())
	}
	want := mustParseHand(t, "7c", "7d", "7h", "Ah", "Ad")
	if five != want {
		t.Errorf("BestFive = %v, want %v", five, want)
	}
}

func TestScoreString(t *testing.T) {
	t.Parallel()

	if s := score5(t, "As", "Ks", "Qs", "Js", "Ts").String(); s != "Royal Flush" {
		t.Errorf("Expected Royal Flush, got %q", s)
	}
	if s := score5(t, "Kc", "Kd", "Kh", "2s", "2c").String(); s != "Full House" {
		t.Errorf("Expected Full House, got %q", s)
	}
}
