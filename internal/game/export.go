package game

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/kiliankoe/taash/internal/rules"
)

// ExportResults appends a plain-text summary of a finished game to filename.
func ExportResults(v RoomView, winners []rules.Standing, filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	fileExists := false
	if _, err := os.Stat(filename); err == nil {
		fileExists = true
	}

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(formatResults(v, winners, fileExists)); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	return nil
}

func formatResults(v RoomView, winners []rules.Standing, separate bool) string {
	var sb strings.Builder
	if separate {
		sb.WriteString("\n\n")
	}
	sb.WriteString(fmt.Sprintf("%s - Room %s\n", v.GameType.DisplayName(), v.Code))
	if v.StartedAt != nil {
		sb.WriteString(fmt.Sprintf("Started: %s\n", v.StartedAt.Format("2006-01-02 15:04:05")))
	}
	if v.TrumpSuit != "" {
		sb.WriteString(fmt.Sprintf("Trump: %s\n", v.TrumpSuit.Title()))
	}
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")

	sb.WriteString(fmt.Sprintf("Hands played: %d of %d\n", len(v.CompletedHands), v.TotalHands))
	for _, h := range v.CompletedHands {
		played := make([]string, 0, len(h.Plays))
		for _, p := range h.Plays {
			played = append(played, fmt.Sprintf("%s: %s", p.PlayerName, rules.CardName(p.Card)))
		}
		winner := "?"
		if p, ok := h.PlayAt(h.WinnerPosition); ok {
			winner = p.PlayerName
		}
		sb.WriteString(fmt.Sprintf("%2d. %s -> %s\n", h.Number, strings.Join(played, ", "), winner))
	}

	players := append([]PlayerView(nil), v.Players...)
	sort.SliceStable(players, func(i, j int) bool { return players[i].HandsWon > players[j].HandsWon })
	sb.WriteString("\nHands won:\n")
	for _, p := range players {
		sb.WriteString(fmt.Sprintf("- %s: %d\n", p.Name, p.HandsWon))
	}

	if len(winners) > 0 {
		names := make([]string, 0, len(winners))
		for _, w := range winners {
			names = append(names, w.Name)
		}
		sb.WriteString(fmt.Sprintf("\nWinner(s): %s\n", strings.Join(names, ", ")))
	}

	ended := time.Now()
	if v.FinishedAt != nil {
		ended = *v.FinishedAt
	}
	sb.WriteString(fmt.Sprintf("Game ended at %s\n", ended.Format("2006-01-02 15:04:05")))
	sb.WriteString(strings.Repeat("=", 50) + "\n")
	return sb.String()
}
