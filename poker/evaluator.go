package poker

import (
	"math/bits"
)

// Score represents the strength of a five-card poker hand. Lower values are
// stronger. The top bits carry the hand class (straight flush = 0 through
// high card = 8) and the low 20 bits carry up to five tie-break ranks packed
// as nibbles, so scores of the same class order exactly by standard poker
// tie-breaking. Suits never influence the score.
type Score uint32

// HandType enumerates the categories of poker hands ordered from weakest to
// strongest.
type HandType uint8

const (
	HighCard HandType = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

const (
	classShift = 20

	classStraightFlush = 0
	classFourOfAKind   = 1
	classFullHouse     = 2
	classFlush         = 3
	classStraight      = 4
	classThreeOfAKind  = 5
	classTwoPair       = 6
	classPair          = 7
	classHighCard      = 8

	// MaxScore is weaker than any real hand.
	MaxScore Score = Score(classHighCard+1) << classShift
)

// Type returns the hand class of a score.
func (s Score) Type() HandType {
	return HandType(classHighCard - uint8(s>>classShift))
}

// String returns a human-readable hand description.
func (s Score) String() string {
	if s>>classShift == classStraightFlush && s&(1<<classShift-1) == 0 {
		return "Royal Flush"
	}
	switch s.Type() {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

func score(class uint32, ranks ...uint8) Score {
	detail := uint32(0)
	shift := 16
	for _, r := range ranks {
		detail |= uint32(12-r) << shift
		shift -= 4
	}
	return Score(class<<classShift | detail)
}

// Score5 evaluates a hand of exactly five cards.
func Score5(hand Hand) Score {
	var suitMasks [4]uint16
	var rankMask uint16
	for suit := uint8(0); suit < 4; suit++ {
		mask := hand.SuitMask(suit)
		suitMasks[suit] = mask
		rankMask |= mask
	}

	// Flush: with five cards at most one suit can hold all of them.
	for _, suitMask := range suitMasks {
		if bits.OnesCount16(suitMask) == 5 {
			if high := straightHigh(suitMask); high > 0 {
				return score(classStraightFlush, high)
			}
			return score(classFlush, ranksDesc(suitMask, 5)...)
		}
	}

	s0, s1, s2, s3 := suitMasks[0], suitMasks[1], suitMasks[2], suitMasks[3]

	quadsMask := s0 & s1 & s2 & s3
	tripCandidates := (s0 & s1 & s2) | (s0 & s1 & s3) | (s0 & s2 & s3) | (s1 & s2 & s3)
	tripsMask := tripCandidates &^ quadsMask
	pairsMask := ((s0 & s1) | (s0 & s2) | (s0 & s3) | (s1 & s2) | (s1 & s3) | (s2 & s3)) &^ tripCandidates

	if quadsMask != 0 {
		quad := uint8(bits.Len16(quadsMask) - 1)
		kicker := uint8(bits.Len16(rankMask&^quadsMask) - 1)
		return score(classFourOfAKind, quad, kicker)
	}

	if tripsMask != 0 {
		trip := uint8(bits.Len16(tripsMask) - 1)
		if pairsMask != 0 {
			pair := uint8(bits.Len16(pairsMask) - 1)
			return score(classFullHouse, trip, pair)
		}
		kickers := ranksDesc(rankMask&^tripsMask, 2)
		return score(classThreeOfAKind, trip, kickers[0], kickers[1])
	}

	if high := straightHigh(rankMask); high > 0 {
		return score(classStraight, high)
	}

	switch bits.OnesCount16(pairsMask) {
	case 2:
		highPair := uint8(bits.Len16(pairsMask) - 1)
		lowPair := uint8(bits.TrailingZeros16(pairsMask))
		kicker := uint8(bits.Len16(rankMask&^pairsMask) - 1)
		return score(classTwoPair, highPair, lowPair, kicker)
	case 1:
		pair := uint8(bits.Len16(pairsMask) - 1)
		kickers := ranksDesc(rankMask&^pairsMask, 3)
		return score(classPair, pair, kickers[0], kickers[1], kickers[2])
	}

	return score(classHighCard, ranksDesc(rankMask, 5)...)
}

// Evaluate7 evaluates the best five-card hand from seven cards by taking the
// minimum score over the 21 five-card subsets.
func Evaluate7(hand Hand) Score {
	best, _ := bestFive(hand)
	return best
}

// BestFive returns the five cards producing the best score from a seven-card
// hand, for display at showdown.
func BestFive(hand Hand) (Hand, Score) {
	best, five := bestFive(hand)
	return five, best
}

func bestFive(hand Hand) (Score, Hand) {
	cards := hand.Cards()
	if len(cards) == 5 {
		return Score5(hand), hand
	}

	best := MaxScore
	var bestHand Hand
	for i := 0; i < len(cards)-1; i++ {
		for j := i + 1; j < len(cards); j++ {
			five := hand &^ Hand(cards[i]) &^ Hand(cards[j])
			if s := Score5(five); s < best {
				best = s
				bestHand = five
			}
		}
	}
	return best, bestHand
}

// straightHigh returns the high-card rank of the best straight present in
// the rank mask (0 if none). The wheel reports its five as the high card.
func straightHigh(mask uint16) uint8 {
	const wheelMask = 0x100F // Ace + 2-3-4-5
	mask &= rankMask

	// Bitwise cascade identifies five consecutive ranks in one pass.
	seq := mask & (mask >> 1) & (mask >> 2) & (mask >> 3) & (mask >> 4)
	if seq != 0 {
		low := uint8(bits.Len16(seq) - 1)
		return low + 4
	}

	if mask&wheelMask == wheelMask {
		return 3
	}
	return 0
}

// ranksDesc returns the top n ranks present in the mask, highest first.
func ranksDesc(mask uint16, n int) []uint8 {
	ranks := make([]uint8, 0, n)
	for len(ranks) < n && mask != 0 {
		top := uint8(bits.Len16(mask) - 1)
		ranks = append(ranks, top)
		mask &^= 1 << top
	}
	return ranks
}
