package server

import (
	"errors"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/cardroom/cardroom/internal/game"
	"github.com/cardroom/cardroom/internal/randutil"
	"github.com/cardroom/cardroom/internal/room"
)

// Manager owns every room and serializes access to each one. Rooms are
// created on first join and torn down when their last connection leaves.
type Manager struct {
	cfg    room.Config
	logger *log.Logger
	clock  quartz.Clock

	mu    sync.RWMutex
	rooms map[string]*roomEntry
}

// roomEntry pairs a room with its connections. All room mutations happen
// under the entry's mutex; the broadcast snapshot is taken under the same
// lock so clients never observe a half-applied action.
type roomEntry struct {
	mu    sync.Mutex
	room  *room.Room
	conns map[*Connection]bool
}

// NewManager creates the room registry.
func NewManager(cfg room.Config, clock quartz.Clock, logger *log.Logger) *Manager {
	return &Manager{
		cfg:    cfg,
		logger: logger.WithPrefix("rooms"),
		clock:  clock,
		rooms:  make(map[string]*roomEntry),
	}
}

func (m *Manager) entry(roomID string) *roomEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.rooms[roomID]
	if !ok {
		rng := randutil.NewCryptoSeeded()
		e = &roomEntry{
			room:  room.New(roomID, m.cfg, rng, m.clock, m.logger),
			conns: make(map[*Connection]bool),
		}
		m.rooms[roomID] = e
		m.logger.Info("room created", "room", roomID)
	}
	return e
}

func (m *Manager) lookup(roomID string) *roomEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rooms[roomID]
}

// RoomCount returns the number of live rooms.
func (m *Manager) RoomCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// Join seats a connection in a room, creating the room on demand.
func (m *Manager) Join(c *Connection, roomID, name string) error {
	// Joining a second room implicitly leaves the first.
	if prev := c.GetRoom(); prev != "" && prev != roomID {
		m.Disconnect(c)
	}

	e := m.entry(roomID)
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.room.AddPlayer(c.Session(), name)
	if err != nil {
		return err
	}
	e.conns[c] = true
	c.SetRoom(roomID)

	joined, _ := NewMessage(MessageTypeJoined, JoinedData{
		Room: roomID,
		Seat: p.Seat,
		Name: p.Name,
	})
	_ = c.SendMessage(joined)

	m.broadcastLocked(e)
	return nil
}

// Disconnect removes a connection from its room, auto-folding if it holds
// the action, and drops the room once empty.
func (m *Manager) Disconnect(c *Connection) {
	roomID := c.GetRoom()
	if roomID == "" {
		return
	}
	c.SetRoom("")

	e := m.lookup(roomID)
	if e == nil {
		return
	}

	e.mu.Lock()
	e.room.RemovePlayer(c.Session())
	delete(e.conns, c)
	empty := len(e.conns) == 0
	if !empty {
		m.broadcastLocked(e)
	}
	e.mu.Unlock()

	if empty {
		m.mu.Lock()
		if cur, ok := m.rooms[roomID]; ok && cur == e {
			delete(m.rooms, roomID)
		}
		m.mu.Unlock()
		m.logger.Info("room closed", "room", roomID)
	}
}

// withRoom runs fn on the connection's room under its lock, then broadcasts
// the updated state. fn errors are returned to the caller unbroadcast.
func (m *Manager) withRoom(c *Connection, fn func(*room.Room) error) error {
	roomID := c.GetRoom()
	if roomID == "" {
		return game.ErrNotSeated
	}
	e := m.lookup(roomID)
	if e == nil {
		return game.ErrNotSeated
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := fn(e.room); err != nil {
		return err
	}
	m.broadcastLocked(e)
	return nil
}

// BuyIn adds chips between hands.
func (m *Manager) BuyIn(c *Connection, amount int) error {
	return m.withRoom(c, func(r *room.Room) error {
		return r.BuyIn(c.Session(), amount)
	})
}

// ToggleReady flips the ready flag and auto-starts the hand once everyone
// at a table of two or more is ready.
func (m *Manager) ToggleReady(c *Connection) error {
	return m.withRoom(c, func(r *room.Room) error {
		if err := r.ToggleReady(c.Session()); err != nil {
			return err
		}
		if r.Players() >= 2 && r.AllReady() && !r.Table().Started {
			if err := r.StartHand(c.Session()); err != nil {
				return err
			}
		}
		return nil
	})
}

// StartHand starts a hand explicitly.
func (m *Manager) StartHand(c *Connection) error {
	return m.withRoom(c, func(r *room.Room) error {
		return r.StartHand(c.Session())
	})
}

// Action applies a betting action and fans out the result.
func (m *Manager) Action(c *Connection, actionType string, amount int) error {
	roomID := c.GetRoom()
	if roomID == "" {
		return game.ErrNotSeated
	}
	e := m.lookup(roomID)
	if e == nil {
		return game.ErrNotSeated
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	handNo := e.room.Table().HandNo
	result, err := e.room.ApplyAction(c.Session(), actionType, amount)
	if err != nil {
		return err
	}

	if result != nil {
		msg, merr := NewMessage(MessageTypeHandResult, HandResultData{
			Room:    roomID,
			HandNo:  handNo,
			Winners: result.Winners,
			Payouts: result.Payouts,
		})
		if merr == nil {
			for conn := range e.conns {
				_ = conn.SendMessage(msg)
			}
		}
	}

	m.broadcastLocked(e)
	return nil
}

// Chat appends a chat line.
func (m *Manager) Chat(c *Connection, text string) error {
	return m.withRoom(c, func(r *room.Room) error {
		r.AddChat(c.Session(), text)
		return nil
	})
}

// broadcastLocked fans the public snapshot to every connection in the room
// and each seated player's private snapshot to its own connection. Caller
// holds e.mu.
func (m *Manager) broadcastLocked(e *roomEntry) {
	public, err := NewMessage(MessageTypeRoomState, e.room.PublicState())
	if err != nil {
		m.logger.Error("failed to encode room state", "error", err)
		return
	}

	for conn := range e.conns {
		if err := conn.SendMessage(public); err != nil {
			m.logger.Debug("dropping slow connection", "session", conn.Session())
			continue
		}
		if pv := e.room.PrivateState(conn.Session()); pv != nil {
			if private, err := NewMessage(MessageTypePrivateState, pv); err == nil {
				_ = conn.SendMessage(private)
			}
		}
	}
}

// errorCode maps engine and room errors to wire error codes.
func errorCode(err error) string {
	switch {
	case errors.Is(err, game.ErrNotYourTurn):
		return "not_your_turn"
	case errors.Is(err, game.ErrNotSeated):
		return "not_seated"
	case errors.Is(err, game.ErrNotStarted):
		return "not_started"
	case errors.Is(err, game.ErrAlreadyFolded):
		return "already_folded"
	case errors.Is(err, game.ErrCannotCheck):
		return "cannot_check"
	case errors.Is(err, game.ErrInsufficientChips):
		return "insufficient_chips"
	case errors.Is(err, game.ErrBelowMinRaise):
		return "below_min_raise"
	case errors.Is(err, game.ErrUnknownAction):
		return "unknown_action"
	case errors.Is(err, game.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, game.ErrMinPlayers):
		return "min_players"
	case errors.Is(err, room.ErrRoomFull):
		return "room_full"
	case errors.Is(err, room.ErrNotReady):
		return "not_ready"
	case errors.Is(err, room.ErrHandInProgress):
		return "hand_in_progress"
	case errors.Is(err, game.ErrInternal):
		return "internal"
	}
	return "error"
}
