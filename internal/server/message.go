package server

import (
	"encoding/json"
	"time"

	"github.com/cardroom/cardroom/internal/room"
)

// MessageType tags a wire message.
type MessageType string

// Client → server message types.
const (
	MessageTypeJoin   MessageType = "join"
	MessageTypeLeave  MessageType = "leave"
	MessageTypeBuyIn  MessageType = "buyin"
	MessageTypeReady  MessageType = "ready"
	MessageTypeStart  MessageType = "start"
	MessageTypeAction MessageType = "action"
	MessageTypeChat   MessageType = "chat"
)

// Server → client message types.
const (
	MessageTypeWelcome      MessageType = "welcome"
	MessageTypeJoined       MessageType = "joined"
	MessageTypeRoomState    MessageType = "room_state"
	MessageTypePrivateState MessageType = "private_state"
	MessageTypeHandResult   MessageType = "hand_result"
	MessageTypeError        MessageType = "error"
)

func (t MessageType) String() string {
	return string(t)
}

// Message is the WebSocket envelope.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage wraps a payload in an envelope, stamped now.
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → server payloads

type JoinData struct {
	Room string `json:"room"`
	Name string `json:"name"`
}

type BuyInData struct {
	Amount int `json:"amount"`
}

type ActionData struct {
	Action string `json:"action"`
	Amount int    `json:"amount,omitempty"`
}

type ChatData struct {
	Text string `json:"text"`
}

// Server → client payloads

type WelcomeData struct {
	Session string `json:"session"`
}

type JoinedData struct {
	Room string `json:"room"`
	Seat int    `json:"seat"`
	Name string `json:"name"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RoomStateData is the broadcast room snapshot.
type RoomStateData = room.PublicView

// PrivateStateData is the per-session snapshot.
type PrivateStateData = room.PrivateView

// HandResultData reports a settled hand.
type HandResultData struct {
	Room    string      `json:"room"`
	HandNo  int         `json:"handNo"`
	Winners []int       `json:"winners"`
	Payouts map[int]int `json:"payouts"`
}
