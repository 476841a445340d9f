package game

import (
	"time"

	"github.com/kiliankoe/taash/internal/cards"
	"github.com/kiliankoe/taash/internal/rules"
)

type Status string

const (
	StatusWaiting    Status = "waiting"
	StatusInProgress Status = "in_progress"
	StatusFinished   Status = "finished"
)

// Capacity is the number of seats at every table.
const Capacity = 4

type Player struct {
	ID        string
	Name      string
	Hand      []cards.Card
	Position  int
	TricksWon int
	Score     int
	JoinedAt  time.Time
}

// PlayerView is the public face of a player: no cards, only how many.
type PlayerView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Position  int       `json:"position"`
	HandsWon  int       `json:"handsWon"`
	Score     int       `json:"score"`
	CardCount int       `json:"cardCount"`
	JoinedAt  time.Time `json:"joinedAt"`
}

// RoomView is a read-only copy of a room taken after a mutation completes.
type RoomView struct {
	ID                 string        `json:"id"`
	Code               string        `json:"code"`
	IsPublic           bool          `json:"isPublic"`
	GameType           rules.Variant `json:"gameType"`
	Players            []PlayerView  `json:"players"`
	MaxPlayers         int           `json:"maxPlayers"`
	Status             Status        `json:"status"`
	CurrentTurn        int           `json:"currentTurn"`
	DeckCount          int           `json:"deckCount"`
	TrumpSuit          cards.Suit    `json:"trumpSuit,omitempty"`
	TrumpDecided       bool          `json:"trumpDecided"`
	TrumpDecisionPhase bool          `json:"trumpDecisionPhase"`
	CardsPerPlayer     int           `json:"cardsPerPlayer"`
	CurrentHand        rules.Trick   `json:"currentHand"`
	CompletedHands     []rules.Trick `json:"completedHands"`
	TotalHands         int           `json:"totalHands"`
	CreatedAt          time.Time     `json:"createdAt"`
	StartedAt          *time.Time    `json:"startedAt,omitempty"`
	FinishedAt         *time.Time    `json:"finishedAt,omitempty"`
}

// PlayerAt returns the seated player at a table position.
func (v RoomView) PlayerAt(position int) (PlayerView, bool) {
	for _, p := range v.Players {
		if p.Position == position {
			return p, true
		}
	}
	return PlayerView{}, false
}

// Summary is one row of the active room list.
type Summary struct {
	ID          string        `json:"id"`
	Code        string        `json:"code"`
	IsPublic    bool          `json:"isPublic"`
	GameType    rules.Variant `json:"gameType"`
	PlayerCount int           `json:"playerCount"`
	MaxPlayers  int           `json:"maxPlayers"`
	Status      Status        `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
}

type Score struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	HandsWon   int    `json:"handsWon"`
	Score      int    `json:"score"`
}

type GameState struct {
	CurrentHand    rules.Trick   `json:"currentHand"`
	CompletedHands []rules.Trick `json:"completedHands"`
	TrumpSuit      cards.Suit    `json:"trumpSuit,omitempty"`
	TrumpDecided   bool          `json:"trumpDecided"`
	TotalHands     int           `json:"totalHands"`
	HandsPlayed    int           `json:"handsPlayed"`
	GameType       rules.Variant `json:"gameType"`
	Scores         []Score       `json:"scores"`
}

// PlayResult describes an accepted card play.
type PlayResult struct {
	Play          rules.Play
	LeadingSuit   cards.Suit
	TrickSize     int
	TrickComplete bool
	// NextTurn is the position to act next; unchanged when the trick is full.
	NextTurn int
}

// TrickResult describes a resolved trick.
type TrickResult struct {
	Trick           rules.Trick
	WinnerID        string
	WinnerName      string
	WinnerPosition  int
	WinningCard     cards.Card
	TricksWon       int
	TrumpDecision   *rules.TrumpDecision
	AdditionalDealt bool
	WinningTen      bool
	GameOver        bool
	NextTurn        int
}
