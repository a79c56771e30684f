// Package room coordinates players, chat, and the table for one game room.
// All methods on a Room must be serialized by the caller; the server holds
// one mutex per room. Rooms never share mutable state with each other.
package room

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/cardroom/cardroom/internal/game"
)

const (
	maxSeats      = 9
	historyLimit  = 200
	chatTextLimit = 300
)

var (
	ErrRoomFull       = errors.New("room is full")
	ErrNotReady       = errors.New("not all players are ready")
	ErrHandInProgress = errors.New("hand in progress")
)

// Config holds per-room settings.
type Config struct {
	Table game.Config
	BuyIn int // starting stack granted on join, and the default re-buy
}

// DefaultConfig returns the default room settings.
func DefaultConfig() Config {
	return Config{Table: game.DefaultConfig(), BuyIn: 1000}
}

// LogEntry is one line of the room's event log.
type LogEntry struct {
	Time    int64  `json:"t"`
	Message string `json:"msg"`
}

// ChatEntry is one chat message.
type ChatEntry struct {
	Time int64  `json:"t"`
	Name string `json:"name"`
	Text string `json:"text"`
}

// Room owns a Table and the session-to-player mapping.
type Room struct {
	ID string

	cfg    Config
	table  *game.Table
	logger *log.Logger
	clock  quartz.Clock

	players map[string]*game.Player // sid -> player

	logs []LogEntry
	chat []ChatEntry
}

// New creates an empty room. The RNG drives the table's shuffles and the
// clock stamps log entries.
func New(id string, cfg Config, rng *rand.Rand, clock quartz.Clock, logger *log.Logger) *Room {
	return &Room{
		ID:      id,
		cfg:     cfg,
		table:   game.NewTable(cfg.Table, rng),
		logger:  logger.WithPrefix("room").With("room", id),
		clock:   clock,
		players: make(map[string]*game.Player),
	}
}

// Table exposes the underlying table, mainly for tests.
func (r *Room) Table() *game.Table {
	return r.table
}

// Player returns the player for a session, or nil.
func (r *Room) Player(sid string) *game.Player {
	return r.players[sid]
}

// Players returns the number of seated players.
func (r *Room) Players() int {
	return len(r.players)
}

// Sessions returns the session ids of all seated players.
func (r *Room) Sessions() []string {
	sids := make([]string, 0, len(r.players))
	for sid := range r.players {
		sids = append(sids, sid)
	}
	return sids
}

func (r *Room) bySeat() map[int]*game.Player {
	m := make(map[int]*game.Player, len(r.players))
	for _, p := range r.players {
		m[p.Seat] = p
	}
	return m
}

func (r *Room) nextFreeSeat() (int, error) {
	used := make(map[int]bool, len(r.players))
	for _, p := range r.players {
		used[p.Seat] = true
	}
	for seat := 1; seat <= maxSeats; seat++ {
		if !used[seat] {
			return seat, nil
		}
	}
	return 0, ErrRoomFull
}

// AddLog appends to the room log, keeping the last 200 entries.
func (r *Room) AddLog(message string) {
	r.logs = append(r.logs, LogEntry{Time: r.clock.Now().Unix(), Message: message})
	if len(r.logs) > historyLimit {
		r.logs = r.logs[len(r.logs)-historyLimit:]
	}
}

// AddChat appends a chat message, keeping the last 200 entries.
func (r *Room) AddChat(sid, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if runes := []rune(text); len(runes) > chatTextLimit {
		text = string(runes[:chatTextLimit])
	}
	name := "?"
	if p := r.players[sid]; p != nil {
		name = p.Name
	}
	r.chat = append(r.chat, ChatEntry{Time: r.clock.Now().Unix(), Name: name, Text: text})
	if len(r.chat) > historyLimit {
		r.chat = r.chat[len(r.chat)-historyLimit:]
	}
}

// AddPlayer seats a session at the lowest free seat and grants the starting
// stack. Joining again just renames the player.
func (r *Room) AddPlayer(sid, name string) (*game.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("Player%d", 100+rand.IntN(900))
	}

	if p, ok := r.players[sid]; ok {
		p.Name = name
		return p, nil
	}

	seat, err := r.nextFreeSeat()
	if err != nil {
		return nil, err
	}

	p := &game.Player{
		SID:        sid,
		Name:       name,
		Seat:       seat,
		Chips:      r.cfg.BuyIn,
		BuyinTotal: r.cfg.BuyIn,
	}
	r.players[sid] = p
	r.AddLog(fmt.Sprintf("%s joined (seat %d)", p.Name, p.Seat))
	return p, nil
}

// BuyIn adds chips to a player's stack between hands.
func (r *Room) BuyIn(sid string, amount int) error {
	p, ok := r.players[sid]
	if !ok {
		return game.ErrNotSeated
	}
	if r.table.Started {
		return ErrHandInProgress
	}
	if amount <= 0 {
		return game.ErrInvalidAmount
	}

	p.Chips += amount
	p.BuyinTotal += amount
	r.AddLog(fmt.Sprintf("%s bought in for %d (stack %d, net %+d)", p.Name, amount, p.Chips, p.Net()))
	return nil
}

// ToggleReady flips a player's ready flag.
func (r *Room) ToggleReady(sid string) error {
	p, ok := r.players[sid]
	if !ok {
		return game.ErrNotSeated
	}
	p.Ready = !p.Ready
	if p.Ready {
		r.AddLog(fmt.Sprintf("%s is ready", p.Name))
	} else {
		r.AddLog(fmt.Sprintf("%s is no longer ready", p.Name))
	}
	return nil
}

// AllReady reports whether every seated player is ready.
func (r *Room) AllReady() bool {
	for _, p := range r.players {
		if !p.Ready {
			return false
		}
	}
	return len(r.players) > 0
}

// StartHand begins a new hand. Requires at least two seated players, all
// ready, and no hand in progress.
func (r *Room) StartHand(sid string) error {
	if _, ok := r.players[sid]; !ok {
		return game.ErrNotSeated
	}
	if r.table.Started {
		return ErrHandInProgress
	}
	if len(r.players) < 2 {
		return game.ErrMinPlayers
	}
	if !r.AllReady() {
		return ErrNotReady
	}

	if err := r.table.StartHand(r.bySeat()); err != nil {
		return err
	}
	r.AddLog(r.table.LastLog)
	r.logger.Info("hand started", "hand", r.table.HandNo, "players", len(r.players))

	// Blinds alone can leave everyone all-in.
	_, err := r.settleIfDone()
	return err
}

// ApplyAction routes a player action into the table and settles the hand
// when it reaches showdown. The returned result is non-nil only when the
// hand settled.
func (r *Room) ApplyAction(sid, actionType string, amount int) (*game.HandResult, error) {
	p, ok := r.players[sid]
	if !ok {
		return nil, game.ErrNotSeated
	}

	action, err := game.ParseAction(actionType)
	if err != nil {
		return nil, err
	}

	players := r.bySeat()
	if err := r.table.ApplyAction(players, p.Seat, action, amount); err != nil {
		return nil, err
	}
	r.AddLog(r.table.LastLog)

	return r.settleIfDone()
}

// settleIfDone resolves the showdown if the hand reached it, and performs
// the between-hands reset when the hand is over for any reason.
func (r *Room) settleIfDone() (*game.HandResult, error) {
	if r.table.Stage == game.Showdown {
		players := r.bySeat()
		result, err := r.table.ResolveShowdown(players)
		if err != nil {
			// Invariant failure: the hand is aborted, not repaired.
			r.logger.Error("settlement failed", "error", err)
			return nil, err
		}
		r.logShowdown(players, result)

		// Force explicit re-ready for the next hand.
		for _, p := range r.players {
			p.Ready = false
		}
		r.purgeVacated()
		return result, nil
	}

	if !r.table.Started && r.table.Stage == game.Waiting {
		r.purgeVacated()
	}
	return nil, nil
}

func (r *Room) logShowdown(players map[int]*game.Player, result *game.HandResult) {
	r.AddLog("showdown")
	for _, rs := range result.Ranking {
		p := players[rs.Seat]
		if p == nil {
			continue
		}
		r.AddLog(fmt.Sprintf("%s shows %s (%s)", p.Name, p.Hand, rs.Score))
	}
	for _, rs := range result.Ranking {
		if amount, ok := result.Payouts[rs.Seat]; ok && amount > 0 {
			p := players[rs.Seat]
			r.AddLog(fmt.Sprintf("%s wins %d (stack %d)", p.Name, amount, p.Chips))
		}
	}
}

// RemovePlayer handles a session leaving. A leaver with live betting
// decisions is folded out first; an all-in leaver stays in contention to
// showdown. If the hand survives, the seat is only marked vacated so its
// contributions keep funding the pot, and it is purged at the next
// between-hands reset.
func (r *Room) RemovePlayer(sid string) {
	p, ok := r.players[sid]
	if !ok {
		return
	}

	if r.table.Started && p.InHand() && !p.AllIn {
		r.table.FoldOut(r.bySeat(), p.Seat)
		if r.table.LastLog != "" {
			r.AddLog(r.table.LastLog)
		}
		if _, err := r.settleIfDone(); err != nil {
			r.logger.Error("settlement after leave failed", "error", err, "seat", p.Seat)
		}
	}

	if r.table.Started {
		p.Left = true
		r.AddLog(fmt.Sprintf("%s left (seat %d vacated)", p.Name, p.Seat))
		return
	}

	delete(r.players, sid)
	r.AddLog(fmt.Sprintf("%s left", p.Name))
}

func (r *Room) purgeVacated() {
	for sid, p := range r.players {
		if p.Left {
			delete(r.players, sid)
		}
	}
}
