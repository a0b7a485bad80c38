package party

import (
	"encoding/json"
	"sync"

	"github.com/wikihop/wikihop/internal/wikihop"
)

// Event is the payload published to party subscribers.
type Event struct {
	Type       string         `json:"type"`
	Player     string         `json:"playerName,omitempty"`
	Clicks     int            `json:"clicks,omitempty"`
	Finished   bool           `json:"finished,omitempty"`
	Winner     string         `json:"winner,omitempty"`
	Mode       wikihop.ModeID `json:"mode,omitempty"`
	StartPage  string         `json:"startPage,omitempty"`
	TargetPage string         `json:"targetPage,omitempty"`
	DurationMs int64          `json:"durationMs,omitempty"`
}

// Event types.
const (
	EventRoster   = "roster"
	EventStarted  = "started"
	EventProgress = "progress"
	EventWin      = "win"
)

// Broker is an in-process pub/sub for party events, keyed by party code.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded events for the
// given party.
func (b *Broker) Subscribe(code string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[code] == nil {
		b.subs[code] = make(map[chan []byte]struct{})
	}
	b.subs[code][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the party's subscribers.
func (b *Broker) Unsubscribe(code string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[code], ch)
	if len(b.subs[code]) == 0 {
		delete(b.subs, code)
	}
	b.mu.Unlock()
}

// Publish sends an event to all subscribers of the given party.
func (b *Broker) Publish(code string, event Event) {
	data, _ := json.Marshal(event)
	b.publish(code, data)
}

// PublishJSON marshals an arbitrary payload to a topic's subscribers.
func (b *Broker) PublishJSON(topic string, v any) {
	data, _ := json.Marshal(v)
	b.publish(topic, data)
}

func (b *Broker) publish(code string, data []byte) {
	b.mu.RLock()
	for ch := range b.subs[code] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}

// Notifier adapts the store and broker to the game session's party
// callbacks for one player. The player id is written by the party HTTP
// handlers and read by concurrent navigation callbacks, so access to it
// is locked.
type Notifier struct {
	Store  *Store
	Broker *Broker

	mu       sync.Mutex
	playerID string
}

// SetPlayerID records the player's roster id after a join or create.
func (n *Notifier) SetPlayerID(id string) {
	n.mu.Lock()
	n.playerID = id
	n.mu.Unlock()
}

// PlayerID returns the player's roster id, or "" outside a party.
func (n *Notifier) PlayerID() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.playerID
}

// UpdateProgress records the player's click count and fans it out.
func (n *Notifier) UpdateProgress(code, player string, clicks int, finished bool) {
	if err := n.Store.UpdatePlayer(code, n.PlayerID(), clicks, finished); err != nil {
		return
	}
	n.Broker.Publish(code, Event{
		Type:     EventProgress,
		Player:   player,
		Clicks:   clicks,
		Finished: finished,
	})
}

// NotifyWin marks the winner and fans the win out to the party.
func (n *Notifier) NotifyWin(code, player string, res wikihop.WinResult) {
	if err := n.Store.SetWinner(code, player); err != nil {
		return
	}
	n.Broker.Publish(code, Event{
		Type:       EventWin,
		Player:     player,
		Winner:     player,
		Clicks:     res.Clicks,
		DurationMs: res.Duration.Milliseconds(),
	})
}
