package poker

import (
	rand "math/rand/v2"
)

// Deck represents a standard 52-card deck. Cards are drawn from the top in
// the order produced by the last shuffle, so a deck built from a fixed RNG
// (or stacked explicitly) replays identically.
type Deck struct {
	cards [52]Card
	next  int
	rng   *rand.Rand
}

// NewDeck creates a new shuffled deck using the provided RNG.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}

	i := 0
	for suit := range uint8(4) {
		for rank := range uint8(13) {
			d.cards[i] = NewCard(rank, suit)
			i++
		}
	}

	d.Shuffle()
	return d
}

// NewStackedDeck creates a deck that deals the given cards in order,
// followed by the rest of the pack. Used by tests that need a known runout.
func NewStackedDeck(top ...Card) *Deck {
	d := &Deck{}

	seen := NewHand(top...)
	copy(d.cards[:], top)
	i := len(top)
	for suit := range uint8(4) {
		for rank := range uint8(13) {
			c := NewCard(rank, suit)
			if !seen.HasCard(c) {
				d.cards[i] = c
				i++
			}
		}
	}
	return d
}

// Shuffle reshuffles the full deck using Fisher-Yates.
func (d *Deck) Shuffle() {
	d.next = 0
	if d.rng == nil {
		return // stacked decks keep their order
	}
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw deals n cards from the top of the deck.
func (d *Deck) Draw(n int) []Card {
	if d.next+n > len(d.cards) {
		return nil
	}
	cards := d.cards[d.next : d.next+n]
	d.next += n
	return cards
}

// DrawOne deals a single card from the top of the deck.
func (d *Deck) DrawOne() Card {
	if d.next >= len(d.cards) {
		return 0
	}
	card := d.cards[d.next]
	d.next++
	return card
}

// Remaining returns the number of cards left in the deck.
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}
