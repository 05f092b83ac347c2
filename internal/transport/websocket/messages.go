package websocket

import (
	"encoding/json"
	"time"

	"github.com/vovakirdan/snake-arena/internal/arena"
	"github.com/vovakirdan/snake-arena/internal/core"
	"github.com/vovakirdan/snake-arena/internal/session"
)

// clientMessage is any frame a player sends. Pointers distinguish an
// absent key from an empty value.
type clientMessage struct {
	PlayerName *string `json:"player_name,omitempty"`
	Direction  *string `json:"direction,omitempty"`
	Action     string  `json:"action,omitempty"`
}

// stateMessage is the state frame sent to players.
type stateMessage struct {
	Players   map[string][][2]int `json:"players"`
	Food      [2]int              `json:"food"`
	BoardSize [2]int              `json:"board_size"`
	Scores    map[string]int      `json:"scores"`
	GameOver  map[string]bool     `json:"game_over"`
	Names     map[string]string   `json:"names"`
	IsTop10   *bool               `json:"is_top_10,omitempty"`
	TopScores []scoreMessage      `json:"top_scores,omitempty"`
}

// scoreMessage is one leaderboard row, as served by /top-scores.
type scoreMessage struct {
	PlayerName string `json:"player_name"`
	Score      int    `json:"score"`
	Date       string `json:"date"`
}

func point(p core.Position) [2]int {
	return [2]int{p.X, p.Y}
}

func newStateMessage(snap arena.Snapshot, over *session.GameOver) stateMessage {
	msg := stateMessage{
		Players:   make(map[string][][2]int, len(snap.Snakes)),
		Food:      point(snap.Food),
		BoardSize: [2]int{snap.Board.Width, snap.Board.Height},
		Scores:    make(map[string]int, len(snap.Players)),
		GameOver:  make(map[string]bool, len(snap.Players)),
		Names:     make(map[string]string, len(snap.Players)),
	}
	for id, body := range snap.Snakes {
		cells := make([][2]int, len(body))
		for i, p := range body {
			cells[i] = point(p)
		}
		msg.Players[id] = cells
	}
	for id, st := range snap.Players {
		msg.Scores[id] = st.Score
		msg.GameOver[id] = st.Terminal
		msg.Names[id] = st.Name
	}
	if over != nil {
		isTop := over.IsTopN
		msg.IsTop10 = &isTop
		msg.TopScores = newScoreMessages(over.TopScores)
	}
	return msg
}

// newScoreMessages never returns nil so an empty board encodes as [].
func newScoreMessages(entries []session.LeaderboardEntry) []scoreMessage {
	out := make([]scoreMessage, 0, len(entries))
	for _, e := range entries {
		out = append(out, scoreMessage{
			PlayerName: e.PlayerName,
			Score:      e.Score,
			Date:       e.Date.UTC().Format(time.RFC3339),
		})
	}
	return out
}

func encodeState(snap arena.Snapshot, over *session.GameOver) ([]byte, error) {
	return json.Marshal(newStateMessage(snap, over))
}
