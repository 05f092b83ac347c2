package session

import (
	"errors"
	"sync"
	"testing"

	"github.com/vovakirdan/snake-arena/internal/arena"
	"github.com/vovakirdan/snake-arena/internal/core"
)

type fakeKeeper struct {
	mu       sync.Mutex
	recorded []LeaderboardEntry
	err      error
}

func (k *fakeKeeper) RecordScore(name string, score int) (bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.err != nil {
		return false, k.err
	}
	k.recorded = append(k.recorded, LeaderboardEntry{PlayerName: name, Score: score})
	return true, nil
}

func (k *fakeKeeper) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.err != nil {
		return nil, k.err
	}
	out := append([]LeaderboardEntry(nil), k.recorded...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (k *fakeKeeper) calls() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.recorded)
}

func newTestManager(t *testing.T) (*Manager, *fakeKeeper) {
	t.Helper()
	a, err := arena.New(arena.Config{
		Board:  core.Board{Width: arena.DefaultWidth, Height: arena.DefaultHeight},
		SpawnX: arena.DefaultSpawnX,
		Seed:   7,
	})
	if err != nil {
		t.Fatalf("arena.New() failed: %v", err)
	}
	m := NewManager(a, DefaultManagerConfig(), nil)
	k := &fakeKeeper{}
	m.SetScoreKeeper(k)
	return m, k
}

func drain(s *ChannelSession) []Event {
	var out []Event
	for {
		select {
		case evt := <-s.Events():
			out = append(out, evt)
		default:
			return out
		}
	}
}

func TestChannelSessionDropsOldest(t *testing.T) {
	s := NewChannelSession("a", 2)
	s.Send(StateEvent{Cause: "1"})
	s.Send(StateEvent{Cause: "2"})
	s.Send(StateEvent{Cause: "3"})

	got := drain(s)
	if len(got) != 2 {
		t.Fatalf("expected 2 queued events, got %d", len(got))
	}
	if got[0].(StateEvent).Cause != "2" || got[1].(StateEvent).Cause != "3" {
		t.Errorf("expected events 2,3, got %v", got)
	}
}

func TestChannelSessionClosed(t *testing.T) {
	s := NewChannelSession("a", 4)
	s.Close()
	s.Close()
	s.Send(StateEvent{})

	if got := drain(s); len(got) != 0 {
		t.Errorf("closed session queued %d events", len(got))
	}
	select {
	case <-s.Done():
	default:
		t.Error("Done() not closed after Close()")
	}
}

func TestRegistryBroadcastSkipsSender(t *testing.T) {
	r := NewRegistry()
	a := NewChannelSession("a", 4)
	b := NewChannelSession("b", 4)
	r.Register(a)
	r.Register(b)

	r.Broadcast(StateEvent{Cause: "a"}, "a")

	if got := drain(a); len(got) != 0 {
		t.Errorf("sender received %d events", len(got))
	}
	if got := drain(b); len(got) != 1 {
		t.Errorf("other session received %d events, want 1", len(got))
	}

	r.Unregister("b")
	if r.Count() != 1 {
		t.Errorf("Count() = %d, want 1", r.Count())
	}
	if _, ok := r.Get("b"); ok {
		t.Error("Get() found unregistered session")
	}
}

func TestManagerJoin(t *testing.T) {
	m, _ := newTestManager(t)
	a := NewChannelSession("a", 8)
	b := NewChannelSession("b", 8)

	upd := m.Join("a", "Alice", a)
	body, ok := upd.Snapshot.Snakes["a"]
	if !ok {
		t.Fatal("joined player missing from snapshot")
	}
	if len(body) != 1 || body[0] != (core.Position{X: 5, Y: 10}) {
		t.Errorf("spawn = %v, want [(5,10)]", body)
	}
	if upd.Snapshot.Players["a"].Name != "Alice" {
		t.Errorf("name = %q, want Alice", upd.Snapshot.Players["a"].Name)
	}

	m.Join("b", "", b)
	if got := drain(a); len(got) != 1 {
		t.Fatalf("existing player got %d events on join, want 1", len(got))
	}
	if got := drain(b); len(got) != 0 {
		t.Errorf("joining player got %d broadcast events, want 0", len(got))
	}
	if name := m.Snapshot().Players["b"].Name; name != "Player_b" {
		t.Errorf("default name = %q, want Player_b", name)
	}
}

func TestManagerIntentMovesAndBroadcasts(t *testing.T) {
	m, k := newTestManager(t)
	a := NewChannelSession("a", 8)
	b := NewChannelSession("b", 8)
	m.Join("a", "Alice", a)
	m.Join("b", "Bob", b)
	drain(a)
	m.Arena().SetFood(core.Position{X: 0, Y: 0})

	upd := m.Intent("a", "up")
	if upd.Result.Outcome != arena.OutcomeMoved {
		t.Fatalf("outcome = %v, want moved", upd.Result.Outcome)
	}
	if head := upd.Snapshot.Snakes["a"][0]; head != (core.Position{X: 5, Y: 9}) {
		t.Errorf("head = %v, want (5,9)", head)
	}
	if upd.GameOver != nil {
		t.Error("GameOver set on a plain move")
	}
	if k.calls() != 0 {
		t.Errorf("score recorded on a plain move")
	}

	evts := drain(b)
	if len(evts) != 1 {
		t.Fatalf("other player got %d events, want 1", len(evts))
	}
	if evt := evts[0].(StateEvent); evt.Cause != "a" {
		t.Errorf("Cause = %q, want a", evt.Cause)
	}
}

func TestManagerIgnoredIntentDoesNotBroadcast(t *testing.T) {
	m, _ := newTestManager(t)
	a := NewChannelSession("a", 8)
	b := NewChannelSession("b", 8)
	m.Join("a", "Alice", a)
	m.Join("b", "Bob", b)
	drain(b)

	tests := []string{"north", "", "UP"}
	for _, raw := range tests {
		upd := m.Intent("a", raw)
		if upd.Result.Outcome != arena.OutcomeIgnored {
			t.Errorf("Intent(%q) outcome = %v, want ignored", raw, upd.Result.Outcome)
		}
	}
	if got := drain(b); len(got) != 0 {
		t.Errorf("ignored intents broadcast %d events", len(got))
	}

	if upd := m.Intent("ghost", "up"); upd.Result.Outcome != arena.OutcomeIgnored {
		t.Errorf("unknown player outcome = %v, want ignored", upd.Result.Outcome)
	}
}

func TestManagerRecordsScoreOnce(t *testing.T) {
	m, k := newTestManager(t)
	m.Join("a", "Alice", nil)
	m.Arena().PlaceSnake("a", []core.Position{{X: 35, Y: 10}})
	m.Arena().SetFood(core.Position{X: 0, Y: 0})

	upd := m.Intent("a", "right")
	if upd.Result.Outcome != arena.OutcomeWallCollision {
		t.Fatalf("outcome = %v, want wall_collision", upd.Result.Outcome)
	}
	if upd.GameOver == nil {
		t.Fatal("GameOver not set on terminal transition")
	}
	if !upd.GameOver.IsTopN {
		t.Error("IsTopN = false, want true")
	}
	if len(upd.GameOver.TopScores) != 1 || upd.GameOver.TopScores[0].PlayerName != "Alice" {
		t.Errorf("TopScores = %v", upd.GameOver.TopScores)
	}
	if _, ok := upd.Snapshot.Snakes["a"]; ok {
		t.Error("terminal snake still in snapshot")
	}

	for _, raw := range []string{"up", "left", "down"} {
		upd = m.Intent("a", raw)
		if upd.GameOver != nil {
			t.Errorf("Intent(%q) after game over set GameOver", raw)
		}
	}
	if k.calls() != 1 {
		t.Errorf("RecordScore called %d times, want 1", k.calls())
	}
}

func TestManagerScoreErrorStillReturnsUpdate(t *testing.T) {
	m, k := newTestManager(t)
	k.err = errors.New("disk full")
	m.Join("a", "Alice", nil)
	m.Arena().PlaceSnake("a", []core.Position{{X: 0, Y: 10}})
	m.Arena().SetFood(core.Position{X: 20, Y: 0})

	upd := m.Intent("a", "left")
	if upd.GameOver == nil {
		t.Fatal("GameOver not set when store fails")
	}
	if upd.GameOver.IsTopN {
		t.Error("IsTopN = true despite store error")
	}
	if !upd.Snapshot.Players["a"].Terminal {
		t.Error("player not terminal")
	}
}

func TestManagerResetAfterGameOver(t *testing.T) {
	m, _ := newTestManager(t)
	m.Join("a", "Alice", nil)
	m.Arena().PlaceSnake("a", []core.Position{{X: 5, Y: 0}})
	m.Arena().SetFood(core.Position{X: 20, Y: 15})
	m.Intent("a", "up")

	upd := m.Reset("a")
	st := upd.Snapshot.Players["a"]
	if st.Terminal || st.Score != 0 {
		t.Errorf("after reset: %+v", st)
	}
	if body := upd.Snapshot.Snakes["a"]; len(body) != 1 || body[0] != (core.Position{X: 5, Y: 10}) {
		t.Errorf("after reset body = %v", body)
	}
}

func TestManagerDisconnectIdempotent(t *testing.T) {
	m, _ := newTestManager(t)
	a := NewChannelSession("a", 8)
	b := NewChannelSession("b", 8)
	m.Join("a", "Alice", a)
	m.Join("b", "Bob", b)
	drain(a)

	m.Disconnect("b")
	m.Disconnect("b")

	if m.Arena().Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Arena().Len())
	}
	if m.Sessions().Count() != 1 {
		t.Errorf("sessions = %d, want 1", m.Sessions().Count())
	}
	if got := drain(a); len(got) != 1 {
		t.Errorf("remaining player got %d events, want 1", len(got))
	}
}

func TestManagerWithoutScoreKeeper(t *testing.T) {
	a, err := arena.New(arena.DefaultArenaConfig())
	if err != nil {
		t.Fatalf("arena.New() failed: %v", err)
	}
	m := NewManager(a, ManagerConfig{}, nil)
	m.Join("a", "", nil)
	m.Arena().PlaceSnake("a", []core.Position{{X: 5, Y: 19}})
	m.Arena().SetFood(core.Position{X: 0, Y: 0})

	upd := m.Intent("a", "down")
	if upd.GameOver == nil || upd.GameOver.FinalScore != 0 {
		t.Fatalf("GameOver = %+v", upd.GameOver)
	}
	if top, err := m.Leaderboard(0); err != nil || top != nil {
		t.Errorf("Leaderboard() = %v, %v; want nil, nil", top, err)
	}
}
