package cards

import (
	"fmt"
	"strings"
)

type Suit string

const (
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
	Clubs    Suit = "clubs"
	Spades   Suit = "spades"
)

// Suits lists the four suits in deck-construction order.
var Suits = []Suit{Hearts, Diamonds, Clubs, Spades}

type Rank string

const (
	Ace   Rank = "A"
	Two   Rank = "2"
	Three Rank = "3"
	Four  Rank = "4"
	Five  Rank = "5"
	Six   Rank = "6"
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
)

var Ranks = []Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}

var rankValues = map[Rank]int{
	Two: 2, Three: 3, Four: 4, Five: 5, Six: 6, Seven: 7, Eight: 8,
	Nine: 9, Ten: 10, Jack: 11, Queen: 12, King: 13, Ace: 14,
}

var rankNames = map[Rank]string{
	Ace: "Ace", Jack: "Jack", Queen: "Queen", King: "King",
}

// Value orders ranks 2..14 with Ace high. Unknown ranks are 0.
func (r Rank) Value() int {
	return rankValues[r]
}

func (s Suit) Valid() bool {
	switch s {
	case Hearts, Diamonds, Clubs, Spades:
		return true
	}
	return false
}

func (s Suit) Title() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// ParseSuit accepts the lower-case wire name in any case.
func ParseSuit(v string) (Suit, error) {
	s := Suit(strings.ToLower(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown suit %q", v)
	}
	return s, nil
}

type Card struct {
	ID   string `json:"id"`
	Suit Suit   `json:"suit"`
	Rank Rank   `json:"rank"`
}

// Name renders a card for people, e.g. "Ace of Spades" or "10 of Hearts".
func (c Card) Name() string {
	rank, ok := rankNames[c.Rank]
	if !ok {
		rank = string(c.Rank)
	}
	return rank + " of " + c.Suit.Title()
}

func (c Card) IsTen() bool { return c.Rank == Ten }

func (c Card) String() string { return string(c.Rank) + " " + string(c.Suit) }
