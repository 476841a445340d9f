package rules

import (
	"github.com/kiliankoe/taash/internal/cards"
	"github.com/rs/zerolog/log"
)

const (
	dynamicInitialCards    = 5
	dynamicAdditionalCards = 8
	dynamicTotalCards      = 13
)

// DynamicTrump is Dehla-Pakad. Trump starts undecided and is taken from the
// order in which new suits appear in a trick: with k distinct suits (k >= 2)
// the k-th suit introduced becomes trump. A trick of one suit leaves trump
// open and counts against the final trick total.
type DynamicTrump struct {
	trump       cards.Suit
	decided     bool
	decidedOn   int
	beforeTrump int
	exhausted   bool
}

func NewDynamicTrump() *DynamicTrump { return &DynamicTrump{} }

func (d *DynamicTrump) Variant() Variant { return DehlaPakad }

func (d *DynamicTrump) TrumpSuit() (cards.Suit, bool) { return d.trump, d.decided }

func (d *DynamicTrump) TrumpDecided() bool { return d.decided }

func (d *DynamicTrump) TricksBeforeTrump() int { return d.beforeTrump }

// DiscoveryExhausted reports that every opening card went into one-suit
// tricks, so trump can no longer be found before the second deal.
func (d *DynamicTrump) DiscoveryExhausted() bool { return !d.decided && d.exhausted }

func (d *DynamicTrump) InitialCardCount() int { return dynamicInitialCards }

func (d *DynamicTrump) AdditionalCardCount() int { return dynamicAdditionalCards }

// CardsPerPlayer is the per-player card target once trump is known.
func (d *DynamicTrump) CardsPerPlayer() int { return dynamicTotalCards - d.beforeTrump }

func (d *DynamicTrump) TotalTricks() int { return dynamicTotalCards - d.beforeTrump }

func (d *DynamicTrump) IsGameOver(completed, target int) bool { return completed >= target }

func (d *DynamicTrump) DetermineGameWinners(players []Standing) []Standing {
	return gameWinners(players)
}

// discover runs trump discovery over the plays without touching engine state.
func discover(plays []Play) TrumpDecision {
	suits := make([]cards.Suit, 0, 4)
	seen := map[cards.Suit]bool{}
	for _, p := range plays {
		if !seen[p.Card.Suit] {
			seen[p.Card.Suit] = true
			suits = append(suits, p.Card.Suit)
		}
	}
	k := len(suits)
	if k < 2 {
		return TrumpDecision{Decided: false, Case: 1, SuitsPlayed: suits}
	}
	return TrumpDecision{Decided: true, Suit: suits[k-1], Case: k, SuitsPlayed: suits}
}

// DecideTrump records the discovery outcome of a full trick. Once trump is
// known it reports the existing trump with Case 1 and no suits.
func (d *DynamicTrump) DecideTrump(t *Trick) (TrumpDecision, error) {
	if d.decided {
		return TrumpDecision{Decided: true, Suit: d.trump, Case: 1, SuitsPlayed: []cards.Suit{}}, nil
	}
	if len(t.Plays) != TrickSize {
		return TrumpDecision{}, ErrTrickNotFull
	}
	dec := discover(t.Plays)
	if dec.Decided {
		d.trump = dec.Suit
		d.decided = true
		d.decidedOn = t.Number
	} else if d.beforeTrump < dynamicInitialCards-1 {
		d.beforeTrump++
	} else {
		// the last opening card is gone; the counter stays at 4
		d.exhausted = true
	}
	return dec, nil
}

func (d *DynamicTrump) DetermineTrickWinner(t *Trick) (int, error) {
	if len(t.Plays) != TrickSize {
		return 0, ErrTrickNotFull
	}
	if !d.decided {
		dec := discover(t.Plays)
		if !dec.Decided {
			return highest(t.Plays), nil
		}
		return decidingWinner(t, dec.Suit), nil
	}
	if t.Number == d.decidedOn {
		return decidingWinner(t, d.trump), nil
	}
	return resolveWithTrump(t, d.trump)
}

// decidingWinner resolves the trick on which trump was found.
func decidingWinner(t *Trick, trump cards.Suit) int {
	var trumps []Play
	for _, p := range t.Plays {
		if p.Card.Suit == trump {
			trumps = append(trumps, p)
		}
	}
	if len(trumps) > 0 {
		return highest(trumps)
	}
	// The discovered suit is always in the trick; this guards direct calls.
	log.Warn().Int("hand", t.Number).Str("trump", string(trump)).Msg("deciding trick holds no trump card, highest card wins")
	return highest(t.Plays)
}

// HasWinningTen reports whether the resolved trick was won with a 10.
func (d *DynamicTrump) HasWinningTen(t *Trick) bool {
	if t.WinnerID == "" {
		return false
	}
	for _, p := range t.Plays {
		if p.PlayerID == t.WinnerID && p.Card.IsTen() {
			return true
		}
	}
	return false
}
