package rules

import (
	"fmt"

	"github.com/kiliankoe/taash/internal/cards"
	"github.com/rs/zerolog/log"
)

// Engine is the rule set bound to a single room for its lifetime.
type Engine interface {
	Variant() Variant
	// TrumpSuit reports the current trump, if any has been set.
	TrumpSuit() (cards.Suit, bool)
	// DetermineTrickWinner returns the table position that wins a full trick.
	DetermineTrickWinner(t *Trick) (int, error)
	IsGameOver(completed, target int) bool
	DetermineGameWinners(players []Standing) []Standing
	InitialCardCount() int
	TotalTricks() int
}

// TrumpDiscoverer is implemented by engines whose trump is found during play.
type TrumpDiscoverer interface {
	Engine
	DecideTrump(t *Trick) (TrumpDecision, error)
	TrumpDecided() bool
	AdditionalCardCount() int
	CardsPerPlayer() int
	TricksBeforeTrump() int
	DiscoveryExhausted() bool
	HasWinningTen(t *Trick) bool
}

// New builds the engine for a game type. Fixed-trump variants default to spades.
func New(v Variant) (Engine, error) {
	return NewWithTrump(v, cards.Spades)
}

func NewWithTrump(v Variant, trump cards.Suit) (Engine, error) {
	if trump == "" {
		trump = cards.Spades
	}
	switch v {
	case EasyPeasy:
		return newFixedTrump(EasyPeasy, trump, 13, 13), nil
	case TeenDoPanch:
		return newFixedTrump(TeenDoPanch, trump, 10, 10), nil
	case DehlaPakad:
		return NewDynamicTrump(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, v)
}

func CardValue(c cards.Card) int { return c.Rank.Value() }

func CardName(c cards.Card) string { return c.Name() }

// LeadingSuit is the suit of the first play, or "" for an empty trick.
func LeadingSuit(plays []Play) cards.Suit {
	if len(plays) == 0 {
		return ""
	}
	return plays[0].Card.Suit
}

// highest returns the position of the highest-valued play; the first seen
// wins a tie. plays must not be empty.
func highest(plays []Play) int {
	best, pos := -1, plays[0].Position
	for _, p := range plays {
		if v := CardValue(p.Card); v > best {
			best, pos = v, p.Position
		}
	}
	return pos
}

// resolveWithTrump is the shared winner rule: highest trump, else highest of
// the leading suit, else the first play.
func resolveWithTrump(t *Trick, trump cards.Suit) (int, error) {
	if len(t.Plays) != TrickSize {
		return 0, ErrTrickNotFull
	}
	lead := t.LeadingSuit
	if lead == "" {
		lead = LeadingSuit(t.Plays)
	}
	var trumps, leading []Play
	for _, p := range t.Plays {
		switch {
		case trump != "" && p.Card.Suit == trump:
			trumps = append(trumps, p)
		case p.Card.Suit == lead:
			leading = append(leading, p)
		}
	}
	if len(trumps) > 0 {
		return highest(trumps), nil
	}
	if len(leading) > 0 {
		return highest(leading), nil
	}
	log.Warn().Int("hand", t.Number).Msg("no trump or leading-suit card in trick, first play wins")
	return t.Plays[0].Position, nil
}

func gameWinners(players []Standing) []Standing {
	if len(players) == 0 {
		return []Standing{}
	}
	top := players[0].TricksWon
	for _, p := range players[1:] {
		if p.TricksWon > top {
			top = p.TricksWon
		}
	}
	out := make([]Standing, 0, len(players))
	for _, p := range players {
		if p.TricksWon == top {
			out = append(out, p)
		}
	}
	return out
}
