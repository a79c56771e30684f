package poker

import (
	"testing"

	"github.com/cardroom/cardroom/internal/randutil"
)

func TestDeckDeals52UniqueCards(t *testing.T) {
	t.Parallel()

	d := NewDeck(randutil.New(1))

	var seen Hand
	for i := 0; i < 52; i++ {
		c := d.DrawOne()
		if c == 0 {
			t.Fatalf("Deck ran out at card %d", i)
		}
		if seen.HasCard(c) {
			t.Fatalf("Duplicate card %s at position %d", c, i)
		}
		seen.AddCard(c)
	}

	if d.Remaining() != 0 {
		t.Errorf("Expected empty deck, got %d remaining", d.Remaining())
	}
	if d.DrawOne() != 0 {
		t.Error("Drawing from an empty deck should return the zero card")
	}
}

func TestDeckDeterministicWithSeed(t *testing.T) {
	t.Parallel()

	d1 := NewDeck(randutil.New(42))
	d2 := NewDeck(randutil.New(42))

	for i := 0; i < 52; i++ {
		c1, c2 := d1.DrawOne(), d2.DrawOne()
		if c1 != c2 {
			t.Fatalf("Decks diverged at card %d: %s vs %s", i, c1, c2)
		}
	}
}

func TestDeckDifferentSeeds(t *testing.T) {
	t.Parallel()

	d1 := NewDeck(randutil.New(1))
	d2 := NewDeck(randutil.New(2))

	same := true
	for i := 0; i < 52; i++ {
		if d1.DrawOne() != d2.DrawOne() {
			same = false
			break
		}
	}
	if same {
		t.Error("Different seeds produced identical deck order")
	}
}

func TestStackedDeck(t *testing.T) {
	t.Parallel()

	top, err := ParseCards([]string{"As", "Kd", "Qh", "Jc"})
	if err != nil {
		t.Fatal(err)
	}

	d := NewStackedDeck(top...)
	for i, want := range top {
		got := d.DrawOne()
		if got != want {
			t.Errorf("Card %d: got %s, want %s", i, got, want)
		}
	}

	// The remainder still completes a full deck without duplicates.
	seen := NewHand(top...)
	for d.Remaining() > 0 {
		c := d.DrawOne()
		if seen.HasCard(c) {
			t.Fatalf("Duplicate card %s in stacked deck remainder", c)
		}
		seen.AddCard(c)
	}
	if seen.CountCards() != 52 {
		t.Errorf("Stacked deck dealt %d unique cards", seen.CountCards())
	}
}

func TestDrawBatch(t *testing.T) {
	t.Parallel()

	d := NewDeck(randutil.New(7))
	flop := d.Draw(3)
	if len(flop) != 3 {
		t.Fatalf("Draw(3) returned %d cards", len(flop))
	}
	if d.Remaining() != 49 {
		t.Errorf("Expected 49 remaining, got %d", d.Remaining())
	}
	if d.Draw(50) != nil {
		t.Error("Overdraw should return nil")
	}
}
