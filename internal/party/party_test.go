package party

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/wikihop/wikihop/internal/wikihop"
)

func TestCreateAndJoin(t *testing.T) {
	s := NewStore()
	code, hostID := s.Create("Alice", "en")
	if len(code) != codeLen {
		t.Fatalf("code %q, want %d characters", code, codeLen)
	}

	bobID, err := s.Join(code, "Bob")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if bobID == hostID {
		t.Error("player ids must be unique")
	}

	view, err := s.Snapshot(code)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if view.Status != StatusLobby {
		t.Errorf("status = %s, want lobby", view.Status)
	}
	if view.HostID != hostID {
		t.Errorf("host = %s, want %s", view.HostID, hostID)
	}
	if len(view.Players) != 2 || view.Players[0].Name != "Alice" {
		t.Errorf("players = %+v", view.Players)
	}

	if _, err := s.Join("ZZZZZZ", "Eve"); !errors.Is(err, ErrPartyNotFound) {
		t.Errorf("join unknown party: err = %v, want ErrPartyNotFound", err)
	}
}

func TestSetGameIsHostOnly(t *testing.T) {
	s := NewStore()
	code, hostID := s.Create("Alice", "en")
	bobID, _ := s.Join(code, "Bob")

	err := s.SetGame(code, bobID, wikihop.ModeCompetition, "Finland", "Helsinki")
	if !errors.Is(err, ErrNotHost) {
		t.Fatalf("non-host start: err = %v, want ErrNotHost", err)
	}

	if err := s.SetGame(code, hostID, wikihop.ModeCompetition, "Finland", "Helsinki"); err != nil {
		t.Fatalf("host start: %v", err)
	}
	view, _ := s.Snapshot(code)
	if view.Status != StatusPlaying {
		t.Errorf("status = %s, want playing", view.Status)
	}
	if view.StartPage != "Finland" || view.TargetPage != "Helsinki" {
		t.Errorf("pair = (%q, %q)", view.StartPage, view.TargetPage)
	}
}

func TestProgressAndWinner(t *testing.T) {
	s := NewStore()
	code, hostID := s.Create("Alice", "en")
	bobID, _ := s.Join(code, "Bob")
	if err := s.SetGame(code, hostID, wikihop.ModeCompetition, "A", "B"); err != nil {
		t.Fatalf("start: %v", err)
	}

	if err := s.UpdatePlayer(code, bobID, 3, false); err != nil {
		t.Fatalf("update: %v", err)
	}
	view, _ := s.Snapshot(code)
	for _, p := range view.Players {
		if p.ID == bobID && p.Clicks != 3 {
			t.Errorf("bob clicks = %d, want 3", p.Clicks)
		}
	}

	if err := s.SetWinner(code, "Bob"); err != nil {
		t.Fatalf("winner: %v", err)
	}
	// A later win does not displace the first.
	if err := s.SetWinner(code, "Alice"); err != nil {
		t.Fatalf("second winner: %v", err)
	}
	view, _ = s.Snapshot(code)
	if view.Winner != "Bob" {
		t.Errorf("winner = %s, want Bob", view.Winner)
	}
	if view.Status != StatusFinished {
		t.Errorf("status = %s, want finished", view.Status)
	}
}

func TestLeaveDropsEmptyParty(t *testing.T) {
	s := NewStore()
	code, hostID := s.Create("Alice", "en")
	if err := s.Leave(code, hostID); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if _, err := s.Snapshot(code); !errors.Is(err, ErrPartyNotFound) {
		t.Errorf("snapshot after last leave: err = %v, want ErrPartyNotFound", err)
	}
}

func TestBrokerFanOut(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe("ABC123")
	defer b.Unsubscribe("ABC123", ch)

	b.Publish("ABC123", Event{Type: EventProgress, Player: "Bob", Clicks: 2})
	b.Publish("OTHER1", Event{Type: EventWin, Player: "Eve"})

	select {
	case data := <-ch:
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if ev.Type != EventProgress || ev.Player != "Bob" {
			t.Errorf("event = %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}

	select {
	case data := <-ch:
		t.Fatalf("received an event for another party: %s", data)
	default:
	}
}

func TestNotifier(t *testing.T) {
	s := NewStore()
	b := NewBroker()
	code, hostID := s.Create("Alice", "en")
	_ = s.SetGame(code, hostID, wikihop.ModeTeamwork, "A", "B")

	ch := b.Subscribe(code)
	defer b.Unsubscribe(code, ch)

	n := &Notifier{Store: s, Broker: b}
	n.SetPlayerID(hostID)
	n.UpdateProgress(code, "Alice", 4, false)
	n.NotifyWin(code, "Alice", wikihop.WinResult{Clicks: 4, Duration: 9 * time.Second})

	view, _ := s.Snapshot(code)
	if view.Winner != "Alice" {
		t.Errorf("winner = %s, want Alice", view.Winner)
	}
	if len(ch) != 2 {
		t.Errorf("events delivered = %d, want 2", len(ch))
	}
}

func TestNotifierConcurrentRejoin(t *testing.T) {
	// The party handlers rewrite the player id while navigation
	// callbacks read it. Exercised under the race detector.
	s := NewStore()
	b := NewBroker()
	code, hostID := s.Create("Alice", "en")
	_ = s.SetGame(code, hostID, wikihop.ModeCompetition, "A", "B")

	n := &Notifier{Store: s, Broker: b}
	n.SetPlayerID(hostID)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			n.UpdateProgress(code, "Alice", i, false)
		}
	}()
	for i := 0; i < 100; i++ {
		n.SetPlayerID(hostID)
		_ = n.PlayerID()
	}
	<-done
}
