package game

import (
	"time"

	"github.com/kiliankoe/taash/internal/cards"
	"github.com/kiliankoe/taash/internal/rules"
)

// Room is the authoritative state of one table. Only RoomManager touches it.
type Room struct {
	ID       string
	Code     string
	IsPublic bool
	Variant  rules.Variant

	Players     []*Player
	Status      Status
	CurrentTurn int
	Deck        []cards.Card

	TrumpSuit          cards.Suit
	TrumpDecided       bool
	TrumpDecisionPhase bool
	CardsPerPlayer     int
	secondDealDone     bool

	CurrentHand    *rules.Trick
	CompletedHands []rules.Trick
	TotalHands     int

	CreatedAt  time.Time
	StartedAt  time.Time
	FinishedAt time.Time
}

func (r *Room) player(id string) *Player {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *Room) playerAt(position int) *Player {
	for _, p := range r.Players {
		if p.Position == position {
			return p
		}
	}
	return nil
}

// remove drops a player and re-packs positions in their existing order.
func (r *Room) remove(id string) bool {
	kept := r.Players[:0]
	removed := false
	for _, p := range r.Players {
		if p.ID == id {
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	for i := len(kept); i < len(r.Players); i++ {
		r.Players[i] = nil
	}
	r.Players = kept
	for i, p := range r.Players {
		p.Position = i
	}
	return removed
}

func (r *Room) finish(now time.Time) {
	r.Status = StatusFinished
	r.FinishedAt = now
}

func (r *Room) standings() []rules.Standing {
	out := make([]rules.Standing, 0, len(r.Players))
	for _, p := range r.Players {
		out = append(out, rules.Standing{ID: p.ID, Name: p.Name, TricksWon: p.TricksWon})
	}
	return out
}

func (r *Room) scores() []Score {
	out := make([]Score, 0, len(r.Players))
	for _, p := range r.Players {
		out = append(out, Score{PlayerID: p.ID, PlayerName: p.Name, HandsWon: p.TricksWon, Score: p.Score})
	}
	return out
}

func (r *Room) completed() []rules.Trick {
	out := make([]rules.Trick, 0, len(r.CompletedHands))
	for i := range r.CompletedHands {
		out = append(out, r.CompletedHands[i].Clone())
	}
	return out
}

func (r *Room) view() RoomView {
	v := RoomView{
		ID:                 r.ID,
		Code:               r.Code,
		IsPublic:           r.IsPublic,
		GameType:           r.Variant,
		Players:            make([]PlayerView, 0, len(r.Players)),
		MaxPlayers:         Capacity,
		Status:             r.Status,
		CurrentTurn:        r.CurrentTurn,
		DeckCount:          len(r.Deck),
		TrumpSuit:          r.TrumpSuit,
		TrumpDecided:       r.TrumpDecided,
		TrumpDecisionPhase: r.TrumpDecisionPhase,
		CardsPerPlayer:     r.CardsPerPlayer,
		CurrentHand:        r.CurrentHand.Clone(),
		CompletedHands:     r.completed(),
		TotalHands:         r.TotalHands,
		CreatedAt:          r.CreatedAt,
	}
	for _, p := range r.Players {
		v.Players = append(v.Players, PlayerView{
			ID:        p.ID,
			Name:      p.Name,
			Position:  p.Position,
			HandsWon:  p.TricksWon,
			Score:     p.Score,
			CardCount: len(p.Hand),
			JoinedAt:  p.JoinedAt,
		})
	}
	if !r.StartedAt.IsZero() {
		t := r.StartedAt
		v.StartedAt = &t
	}
	if !r.FinishedAt.IsZero() {
		t := r.FinishedAt
		v.FinishedAt = &t
	}
	return v
}

func (r *Room) summary() Summary {
	return Summary{
		ID:          r.ID,
		Code:        r.Code,
		IsPublic:    r.IsPublic,
		GameType:    r.Variant,
		PlayerCount: len(r.Players),
		MaxPlayers:  Capacity,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
	}
}
