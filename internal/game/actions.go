package game

import (
	"fmt"
)

// ActionType is a player action verb.
type ActionType int

const (
	Fold ActionType = iota
	Check
	Call
	Raise
)

func (a ActionType) String() string {
	return [...]string{"fold", "check", "call", "raise"}[a]
}

// ParseAction maps a wire action string to an ActionType.
func ParseAction(s string) (ActionType, error) {
	switch s {
	case "fold":
		return Fold, nil
	case "check":
		return Check, nil
	case "call":
		return Call, nil
	case "raise":
		return Raise, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// ApplyAction validates and applies an action for the given seat. For Raise
// the amount is the raise-TO value: the absolute per-round bet the player
// moves to. Protocol violations leave the table unchanged.
func (t *Table) ApplyAction(players map[int]*Player, seat int, action ActionType, amount int) error {
	if !t.Started || t.Stage == Waiting || t.Stage == Showdown {
		return ErrNotStarted
	}

	p, ok := players[seat]
	if !ok {
		return ErrNotSeated
	}
	if p.Folded {
		return ErrAlreadyFolded
	}
	if seat != t.ActionSeat {
		return ErrNotYourTurn
	}

	switch action {
	case Fold:
		p.Folded = true
		p.LastAction = "fold"
		t.LastLog = fmt.Sprintf("%s folds", p.Name)
		t.removeFromToAct(seat)
		if t.finishEarly(players) {
			return nil
		}

	case Check:
		if p.Bet != t.CurrentBet {
			return ErrCannotCheck
		}
		p.LastAction = "check"
		t.LastLog = fmt.Sprintf("%s checks", p.Name)
		t.removeFromToAct(seat)

	case Call:
		t.applyCall(p)
		t.removeFromToAct(seat)

	case Raise:
		if amount <= t.CurrentBet {
			// Raising to no more than the current bet is just a call.
			t.applyCall(p)
			t.removeFromToAct(seat)
			break
		}
		if err := t.applyRaise(players, p, amount); err != nil {
			return err
		}

	default:
		return ErrUnknownAction
	}

	if len(t.toAct) == 0 && t.Started && t.Stage >= Preflop && t.Stage <= River {
		t.advanceStage(players)
	}
	t.autoRunOut(players)
	return nil
}

// FoldOut folds a seat regardless of whose turn it is, used when a seat is
// vacated mid-hand. The betting round advances exactly as if the seat had
// folded in turn. All-in seats have no decisions left and are not folded;
// their hand stays live to showdown.
func (t *Table) FoldOut(players map[int]*Player, seat int) {
	p, ok := players[seat]
	if !ok || !t.Started || p.Folded || p.AllIn {
		return
	}

	p.Folded = true
	p.LastAction = "fold"
	t.LastLog = fmt.Sprintf("%s folds", p.Name)
	t.removeFromToAct(seat)
	if t.finishEarly(players) {
		return
	}

	if len(t.toAct) == 0 && t.Started && t.Stage >= Preflop && t.Stage <= River {
		t.advanceStage(players)
	}
	t.autoRunOut(players)
}

// applyCall matches the current bet, going all-in when short. A call with
// nothing owed reads as a check.
func (t *Table) applyCall(p *Player) {
	need := max(0, t.CurrentBet-p.Bet)
	pay := min(need, p.Chips)

	p.Chips -= pay
	p.Bet += pay
	p.TotalBet += pay
	t.Pot += pay

	if p.Chips == 0 && need > 0 {
		p.AllIn = true
	}

	if need > 0 {
		p.LastAction = "call"
		t.LastLog = fmt.Sprintf("%s calls %d", p.Name, pay)
	} else {
		p.LastAction = "check"
		t.LastLog = fmt.Sprintf("%s checks", p.Name)
	}
}

func (t *Table) applyRaise(players map[int]*Player, p *Player, amount int) error {
	if t.noRaise[p.Seat] {
		return fmt.Errorf("%w: short all-in did not reopen the betting", ErrBelowMinRaise)
	}
	if amount > p.Bet+p.Chips {
		return ErrInsufficientChips
	}

	raiseBy := amount - t.CurrentBet
	isAllIn := amount == p.Bet+p.Chips

	if raiseBy < t.MinRaise && !isAllIn {
		return fmt.Errorf("%w: minimum increment %d", ErrBelowMinRaise, t.MinRaise)
	}

	fullRaise := raiseBy >= t.MinRaise

	delta := amount - p.Bet
	if delta > p.Chips {
		return fmt.Errorf("%w: raise delta %d exceeds stack %d", ErrInternal, delta, p.Chips)
	}

	// Under strict rules a short all-in bars everyone who has already acted
	// this round from re-raising, until a full raise reopens the betting.
	// The acted set is read off the queue before it is rebuilt.
	if fullRaise || t.cfg.ShortAllInReopens {
		t.noRaise = nil
	} else {
		if t.noRaise == nil {
			t.noRaise = make(map[int]bool)
		}
		queued := make(map[int]bool, len(t.toAct))
		for _, seat := range t.toAct {
			queued[seat] = true
		}
		for seat, pl := range players {
			if seat != p.Seat && pl.CanAct() && !queued[seat] {
				t.noRaise[seat] = true
			}
		}
	}

	p.Chips -= delta
	p.Bet = amount
	p.TotalBet += delta
	t.Pot += delta
	if p.Chips == 0 {
		p.AllIn = true
	}

	t.MinRaise = max(t.MinRaise, raiseBy)
	t.CurrentBet = amount

	p.LastAction = "raise"
	t.LastLog = fmt.Sprintf("%s raises to %d", p.Name, amount)

	// Every raise puts the rest of the field back on the clock; whether
	// they may re-raise is governed by noRaise.
	t.reopenAction(players, p.Seat)
	return nil
}

// reopenAction rebuilds the to-act queue with every player who can still
// act, ordered cyclically from the seat after the raiser.
func (t *Table) reopenAction(players map[int]*Player, raiser int) {
	seats := handSeats(players)
	t.toAct = t.toAct[:0]
	for _, seat := range seatOrder(seats, nextSeat(seats, raiser)) {
		if seat == raiser {
			continue
		}
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
