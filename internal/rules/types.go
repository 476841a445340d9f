package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kiliankoe/taash/internal/cards"
)

var (
	ErrTrickNotFull   = errors.New("a trick must have exactly 4 cards")
	ErrUnknownVariant = errors.New("unknown game type")
)

// TrickSize is the number of plays in a full trick (one per seat).
const TrickSize = 4

type Variant string

const (
	EasyPeasy   Variant = "easy_peasy"
	DehlaPakad  Variant = "dehla_pakad"
	TeenDoPanch Variant = "teen_do_panch"
)

var Variants = []Variant{EasyPeasy, DehlaPakad, TeenDoPanch}

func ParseVariant(s string) (Variant, error) {
	v := Variant(strings.ToLower(strings.TrimSpace(s)))
	switch v {
	case EasyPeasy, DehlaPakad, TeenDoPanch:
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownVariant, s)
}

func (v Variant) DisplayName() string {
	switch v {
	case EasyPeasy:
		return "Easy-Peasy"
	case DehlaPakad:
		return "Dehla-Pakad"
	case TeenDoPanch:
		return "Teen-Do-Panch"
	}
	return "Unknown Game"
}

func (v Variant) Description() string {
	switch v {
	case EasyPeasy:
		return "Fixed trump suit (Spades). Play 13 hands, highest trump or leading suit wins each hand."
	case DehlaPakad:
		return "Trump is decided during play from the order suits appear. Five cards first, eight more once trump is known."
	case TeenDoPanch:
		return "Fixed trump suit (Spades) over a short game of 10 hands."
	}
	return ""
}

// Play is one card laid on the table.
type Play struct {
	Card       cards.Card `json:"card"`
	PlayerID   string     `json:"playerId"`
	PlayerName string     `json:"playerName"`
	Position   int        `json:"playerPosition"`
}

// Trick is one round of play. WinnerPosition is -1 until resolved.
type Trick struct {
	Number         int        `json:"handNumber"`
	Plays          []Play     `json:"cards"`
	LeadingSuit    cards.Suit `json:"leadingSuit,omitempty"`
	WinnerID       string     `json:"winnerId,omitempty"`
	WinnerPosition int        `json:"winnerPosition"`
}

func NewTrick(number int) *Trick {
	return &Trick{Number: number, Plays: []Play{}, WinnerPosition: -1}
}

func (t *Trick) Full() bool { return len(t.Plays) == TrickSize }

// Clone returns a copy that shares nothing with t.
func (t *Trick) Clone() Trick {
	c := *t
	c.Plays = append([]Play(nil), t.Plays...)
	return c
}

// PlayAt returns the play made from the given table position.
func (t *Trick) PlayAt(position int) (Play, bool) {
	for _, p := range t.Plays {
		if p.Position == position {
			return p, true
		}
	}
	return Play{}, false
}

type Standing struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	TricksWon int    `json:"handsWon"`
}

// TrumpDecision reports the outcome of trump discovery on one trick.
type TrumpDecision struct {
	Decided     bool         `json:"trumpDecided"`
	Suit        cards.Suit   `json:"trumpSuit,omitempty"`
	Case        int          `json:"case"`
	SuitsPlayed []cards.Suit `json:"suitsPlayed"`
}
