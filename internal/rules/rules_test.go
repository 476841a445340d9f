package rules

import (
	"errors"
	"testing"

	"github.com/kiliankoe/taash/internal/cards"
)

func c(r cards.Rank, s cards.Suit) cards.Card {
	return cards.Card{ID: string(r) + string(s), Rank: r, Suit: s}
}

func trickOf(number int, cs ...cards.Card) *Trick {
	t := NewTrick(number)
	for i, card := range cs {
		t.Plays = append(t.Plays, Play{Card: card, PlayerID: string(rune('a' + i)), Position: i})
	}
	t.LeadingSuit = LeadingSuit(t.Plays)
	return t
}

func TestFixedTrumpWinner(t *testing.T) {
	tests := []struct {
		name     string
		trick    *Trick
		expected int
	}{
		{
			name:     "Lone low trump beats high leading suit",
			trick:    trickOf(1, c(cards.Two, cards.Spades), c(cards.Ace, cards.Hearts), c(cards.King, cards.Hearts), c(cards.Queen, cards.Clubs)),
			expected: 0,
		},
		{
			name:     "No trump: highest of leading suit, off-suit ignored",
			trick:    trickOf(1, c(cards.Ten, cards.Hearts), c(cards.Ace, cards.Clubs), c(cards.King, cards.Hearts), c(cards.Two, cards.Hearts)),
			expected: 2,
		},
		{
			name:     "Highest of several trumps",
			trick:    trickOf(1, c(cards.Ace, cards.Hearts), c(cards.Three, cards.Spades), c(cards.Jack, cards.Spades), c(cards.Nine, cards.Spades)),
			expected: 2,
		},
		{
			name:     "Trump led",
			trick:    trickOf(1, c(cards.Four, cards.Spades), c(cards.Ace, cards.Hearts), c(cards.Two, cards.Spades), c(cards.King, cards.Spades)),
			expected: 3,
		},
		{
			name:     "Leader wins when nobody follows",
			trick:    trickOf(1, c(cards.Two, cards.Diamonds), c(cards.Ace, cards.Hearts), c(cards.Ace, cards.Clubs), c(cards.King, cards.Clubs)),
			expected: 0,
		},
	}

	for _, v := range []Variant{EasyPeasy, TeenDoPanch} {
		e, err := New(v)
		if err != nil {
			t.Fatalf("should build %s: %v", v, err)
		}
		for _, tt := range tests {
			t.Run(string(v)+"/"+tt.name, func(t *testing.T) {
				got, err := e.DetermineTrickWinner(tt.trick)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got != tt.expected {
					t.Fatalf("expected winner %d, got %d", tt.expected, got)
				}
			})
		}
	}
}

func TestWinnerIsReportedByPosition(t *testing.T) {
	e, _ := New(EasyPeasy)
	tr := NewTrick(1)
	positions := []int{2, 3, 0, 1}
	played := []cards.Card{c(cards.Five, cards.Hearts), c(cards.Ace, cards.Hearts), c(cards.Two, cards.Clubs), c(cards.Three, cards.Hearts)}
	for i, card := range played {
		tr.Plays = append(tr.Plays, Play{Card: card, Position: positions[i]})
	}
	tr.LeadingSuit = cards.Hearts
	got, err := e.DetermineTrickWinner(tr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 3 {
		t.Fatalf("expected ace of hearts at position 3 to win, got %d", got)
	}
}

func TestCustomTrump(t *testing.T) {
	e, err := NewWithTrump(EasyPeasy, cards.Hearts)
	if err != nil {
		t.Fatalf("should build engine: %v", err)
	}
	if s, ok := e.TrumpSuit(); !ok || s != cards.Hearts {
		t.Fatalf("expected hearts trump, got %q", s)
	}
	got, _ := e.DetermineTrickWinner(trickOf(1, c(cards.Ace, cards.Spades), c(cards.Two, cards.Hearts), c(cards.King, cards.Spades), c(cards.Queen, cards.Spades)))
	if got != 1 {
		t.Fatalf("expected the two of hearts to win, got %d", got)
	}
}

func TestTrickMustBeFull(t *testing.T) {
	for _, v := range Variants {
		e, _ := New(v)
		_, err := e.DetermineTrickWinner(trickOf(1, c(cards.Ace, cards.Spades), c(cards.Two, cards.Spades)))
		if !errors.Is(err, ErrTrickNotFull) {
			t.Fatalf("%s: expected ErrTrickNotFull, got %v", v, err)
		}
	}
	d := NewDynamicTrump()
	if _, err := d.DecideTrump(trickOf(1, c(cards.Ace, cards.Spades))); !errors.Is(err, ErrTrickNotFull) {
		t.Fatalf("expected ErrTrickNotFull from DecideTrump, got %v", err)
	}
}

func TestVariantCounts(t *testing.T) {
	tests := []struct {
		variant  Variant
		initial  int
		total    int
		hasTrump bool
	}{
		{EasyPeasy, 13, 13, true},
		{TeenDoPanch, 10, 10, true},
		{DehlaPakad, 5, 13, false},
	}
	for _, tt := range tests {
		e, err := New(tt.variant)
		if err != nil {
			t.Fatalf("%s: %v", tt.variant, err)
		}
		if e.Variant() != tt.variant {
			t.Fatalf("expected variant %s, got %s", tt.variant, e.Variant())
		}
		if e.InitialCardCount() != tt.initial {
			t.Fatalf("%s: expected %d initial cards, got %d", tt.variant, tt.initial, e.InitialCardCount())
		}
		if e.TotalTricks() != tt.total {
			t.Fatalf("%s: expected %d tricks, got %d", tt.variant, tt.total, e.TotalTricks())
		}
		if _, ok := e.TrumpSuit(); ok != tt.hasTrump {
			t.Fatalf("%s: expected trump set=%v", tt.variant, tt.hasTrump)
		}
	}
	if _, err := New("bridge"); !errors.Is(err, ErrUnknownVariant) {
		t.Fatalf("expected ErrUnknownVariant, got %v", err)
	}
}

func TestIsGameOverMonotonic(t *testing.T) {
	for _, v := range Variants {
		e, _ := New(v)
		for target := 1; target <= 13; target++ {
			over := false
			for done := 0; done <= 15; done++ {
				got := e.IsGameOver(done, target)
				if over && !got {
					t.Fatalf("%s: game over flipped back at %d/%d", v, done, target)
				}
				if got != (done >= target) {
					t.Fatalf("%s: IsGameOver(%d, %d) = %v", v, done, target, got)
				}
				over = got
			}
		}
	}
}

func TestDetermineGameWinners(t *testing.T) {
	e, _ := New(EasyPeasy)
	tests := []struct {
		name     string
		players  []Standing
		expected []string
	}{
		{"Single winner", []Standing{{ID: "a", TricksWon: 5}, {ID: "b", TricksWon: 3}, {ID: "c", TricksWon: 4}, {ID: "d", TricksWon: 1}}, []string{"a"}},
		{"Two-way tie", []Standing{{ID: "a", TricksWon: 4}, {ID: "b", TricksWon: 4}, {ID: "c", TricksWon: 3}, {ID: "d", TricksWon: 2}}, []string{"a", "b"}},
		{"Everyone tied", []Standing{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}, []string{"a", "b", "c", "d"}},
		{"Lone player", []Standing{{ID: "a", TricksWon: 2}}, []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.DetermineGameWinners(tt.players)
			if len(got) != len(tt.expected) {
				t.Fatalf("expected %d winners, got %d (%+v)", len(tt.expected), len(got), got)
			}
			for i, id := range tt.expected {
				if got[i].ID != id {
					t.Fatalf("expected winner %s at %d, got %s", id, i, got[i].ID)
				}
			}
		})
	}
	if got := e.DetermineGameWinners(nil); len(got) != 0 {
		t.Fatalf("expected no winners for no players, got %+v", got)
	}
}

func TestLeadingSuit(t *testing.T) {
	if s := LeadingSuit(nil); s != "" {
		t.Fatalf("expected no leading suit for empty trick, got %q", s)
	}
	tr := trickOf(1, c(cards.Two, cards.Clubs), c(cards.Ace, cards.Hearts))
	if s := LeadingSuit(tr.Plays); s != cards.Clubs {
		t.Fatalf("expected clubs, got %q", s)
	}
}

func TestCardValueAndName(t *testing.T) {
	tests := []struct {
		card  cards.Card
		value int
		name  string
	}{
		{c(cards.Ace, cards.Spades), 14, "Ace of Spades"},
		{c(cards.Ten, cards.Hearts), 10, "10 of Hearts"},
		{c(cards.Two, cards.Clubs), 2, "2 of Clubs"},
	}
	for _, tt := range tests {
		if got := CardValue(tt.card); got != tt.value {
			t.Fatalf("%s: expected value %d, got %d", tt.name, tt.value, got)
		}
		if got := CardName(tt.card); got != tt.name {
			t.Fatalf("expected %q, got %q", tt.name, got)
		}
	}
}
