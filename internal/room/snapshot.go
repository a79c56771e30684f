package room

import (
	"sort"
	"strconv"

	"github.com/cardroom/cardroom/poker"
)

// PlayerView is the public projection of one seat.
type PlayerView struct {
	Seat       int    `json:"seat"`
	Name       string `json:"name"`
	Chips      int    `json:"chips"`
	BuyinTotal int    `json:"buyinTotal"`
	Net        int    `json:"net"`
	Bet        int    `json:"bet"`
	TotalBet   int    `json:"totalBet"`
	Folded     bool   `json:"folded"`
	AllIn      bool   `json:"allIn"`
	Ready      bool   `json:"ready"`
	Left       bool   `json:"left"`
	LastAction string `json:"lastAction,omitempty"`
}

// PublicView is the room state broadcast to every session. Hole cards only
// appear in the showdown reveal.
type PublicView struct {
	Room    string `json:"room"`
	HandNo  int    `json:"handNo"`
	Started bool   `json:"started"`
	Stage   string `json:"stage"`

	DealerSeat int `json:"dealerSeat"`
	SBSeat     int `json:"sbSeat"`
	BBSeat     int `json:"bbSeat"`
	ActionSeat int `json:"actionSeat"`

	Pot        int      `json:"pot"`
	Board      []string `json:"board"`
	CurrentBet int      `json:"currentBet"`
	MinRaise   int      `json:"minRaise"`

	SmallBlind int `json:"smallBlind"`
	BigBlind   int `json:"bigBlind"`

	Players []PlayerView `json:"players"`

	Showdown map[string][]string `json:"showdown,omitempty"`

	Logs []LogEntry  `json:"logs"`
	Chat []ChatEntry `json:"chat"`
}

// PrivateView is the per-session state: the viewer's own hole cards.
type PrivateView struct {
	Seat int      `json:"seat"`
	Hand []string `json:"hand"`
}

// PublicState snapshots the room for broadcast.
func (r *Room) PublicState() PublicView {
	t := r.table

	views := make([]PlayerView, 0, len(r.players))
	for _, p := range r.players {
		views = append(views, PlayerView{
			Seat:       p.Seat,
			Name:       p.Name,
			Chips:      p.Chips,
			BuyinTotal: p.BuyinTotal,
			Net:        p.Net(),
			Bet:        p.Bet,
			TotalBet:   p.TotalBet,
			Folded:     p.Folded,
			AllIn:      p.AllIn,
			Ready:      p.Ready,
			Left:       p.Left,
			LastAction: p.LastAction,
		})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Seat < views[j].Seat })

	var showdown map[string][]string
	if len(t.ShowdownReveal) > 0 {
		showdown = make(map[string][]string, len(t.ShowdownReveal))
		for seat, cards := range t.ShowdownReveal {
			showdown[strconv.Itoa(seat)] = poker.CardStrings(cards)
		}
	}

	return PublicView{
		Room:       r.ID,
		HandNo:     t.HandNo,
		Started:    t.Started,
		Stage:      t.Stage.String(),
		DealerSeat: t.DealerSeat,
		SBSeat:     t.SBSeat,
		BBSeat:     t.BBSeat,
		ActionSeat: t.ActionSeat,
		Pot:        t.Pot,
		Board:      poker.CardStrings(t.Board),
		CurrentBet: t.CurrentBet,
		MinRaise:   t.MinRaise,
		SmallBlind: t.Config().SmallBlind,
		BigBlind:   t.Config().BigBlind,
		Players:    views,
		Showdown:   showdown,
		Logs:       append([]LogEntry(nil), r.logs...),
		Chat:       append([]ChatEntry(nil), r.chat...),
	}
}

// PrivateState snapshots the viewer's own hole cards, or nil if not seated.
func (r *Room) PrivateState(sid string) *PrivateView {
	p, ok := r.players[sid]
	if !ok {
		return nil
	}
	return &PrivateView{
		Seat: p.Seat,
		Hand: poker.CardStrings(p.Hand.Cards()),
	}
}

// Config returns the room's settings.
func (r *Room) Config() Config {
	return r.cfg
}
