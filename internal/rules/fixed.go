package rules

import "github.com/kiliankoe/taash/internal/cards"

// FixedTrump covers the variants whose trump is set at room creation and
// never changes (Easy-Peasy, Teen-Do-Panch).
type FixedTrump struct {
	variant     Variant
	trump       cards.Suit
	cardCount   int
	totalTricks int
}

func newFixedTrump(v Variant, trump cards.Suit, cardCount, totalTricks int) *FixedTrump {
	return &FixedTrump{variant: v, trump: trump, cardCount: cardCount, totalTricks: totalTricks}
}

func (f *FixedTrump) Variant() Variant { return f.variant }

func (f *FixedTrump) TrumpSuit() (cards.Suit, bool) { return f.trump, true }

func (f *FixedTrump) DetermineTrickWinner(t *Trick) (int, error) {
	return resolveWithTrump(t, f.trump)
}

func (f *FixedTrump) IsGameOver(completed, target int) bool { return completed >= target }

func (f *FixedTrump) DetermineGameWinners(players []Standing) []Standing {
	return gameWinners(players)
}

func (f *FixedTrump) InitialCardCount() int { return f.cardCount }

func (f *FixedTrump) TotalTricks() int { return f.totalTricks }
