package cards

import (
	"math/rand"

	"github.com/google/uuid"
)

// Deck is an ordered pile of cards. Dealing takes from the end.
type Deck struct {
	cards []Card
}

// NewDeck returns a fresh, unshuffled 52-card deck with new card ids.
func NewDeck() *Deck {
	out := make([]Card, 0, len(Suits)*len(Ranks))
	for _, s := range Suits {
		for _, r := range Ranks {
			out = append(out, Card{ID: uuid.NewString(), Suit: s, Rank: r})
		}
	}
	return &Deck{cards: out}
}

// FromCards wraps a copy of the given cards.
func FromCards(cs []Card) *Deck {
	d := &Deck{}
	d.SetCards(cs)
	return d
}

// Shuffle permutes the deck uniformly (Fisher-Yates).
func (d *Deck) Shuffle() {
	rand.Shuffle(len(d.cards), func(i, j int) { d.cards[i], d.cards[j] = d.cards[j], d.cards[i] })
}

// Deal hands out cardsPerPlayer cards to each of numPlayers, one card per
// player per pass. A short deck yields short hands.
func (d *Deck) Deal(numPlayers, cardsPerPlayer int) [][]Card {
	hands := make([][]Card, numPlayers)
	for i := range hands {
		hands[i] = make([]Card, 0, cardsPerPlayer)
	}
	for round := 0; round < cardsPerPlayer; round++ {
		for p := 0; p < numPlayers; p++ {
			if len(d.cards) == 0 {
				return hands
			}
			last := len(d.cards) - 1
			hands[p] = append(hands[p], d.cards[last])
			d.cards = d.cards[:last]
		}
	}
	return hands
}

func (d *Deck) SetCards(cs []Card) {
	d.cards = make([]Card, len(cs))
	copy(d.cards, cs)
}

// Remaining returns a copy of the undealt cards.
func (d *Deck) Remaining() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}

func (d *Deck) Count() int { return len(d.cards) }
