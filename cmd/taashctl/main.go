// Command taashctl prints the live rooms of a running Taash server.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kiliankoe/taash/internal/api"
	"github.com/kiliankoe/taash/internal/game"
	"github.com/pterm/pterm"
)

func main() {
	server := flag.String("server", "http://localhost:3001", "Base URL of the Taash server")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [-server URL] [rooms | room CODE | games]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	c := &client{base: strings.TrimRight(*server, "/"), http: &http.Client{Timeout: 5 * time.Second}}
	args := flag.Args()
	var err error
	switch {
	case len(args) == 0 || args[0] == "rooms":
		err = showRooms(c)
	case args[0] == "room" && len(args) == 2:
		err = showRoom(c, args[1])
	case args[0] == "games":
		err = showGames(c)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

type client struct {
	base string
	http *http.Client
}

func (c *client) get(path string, out any) error {
	resp, err := c.http.Get(c.base + path)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		var body struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		if body.Error == "" {
			body.Error = resp.Status
		}
		return fmt.Errorf("%s: %s", path, body.Error)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *client) rooms() ([]game.Summary, error) {
	var body struct {
		Rooms []game.Summary `json:"rooms"`
	}
	err := c.get("/api/rooms", &body)
	return body.Rooms, err
}

func (c *client) room(code string) (game.RoomView, error) {
	var body struct {
		Room game.RoomView `json:"room"`
	}
	err := c.get("/api/rooms/"+url.PathEscape(code), &body)
	return body.Room, err
}

func (c *client) gameTypes() ([]api.GameType, error) {
	var body struct {
		GameTypes []api.GameType `json:"gameTypes"`
	}
	err := c.get("/api/game-types", &body)
	return body.GameTypes, err
}

func showGames(c *client) error {
	types, err := c.gameTypes()
	if err != nil {
		return err
	}
	return pterm.DefaultTable.WithHasHeader().WithData(gameRows(types)).Render()
}

func gameRows(types []api.GameType) pterm.TableData {
	data := pterm.TableData{{"Id", "Game", "Rules"}}
	for _, gt := range types {
		data = append(data, []string{string(gt.ID), gt.Name, gt.Description})
	}
	return data
}

func showRooms(c *client) error {
	rooms, err := c.rooms()
	if err != nil {
		return err
	}
	if len(rooms) == 0 {
		pterm.Info.Println("no active rooms")
		return nil
	}
	return pterm.DefaultTable.WithHasHeader().WithData(roomRows(rooms)).Render()
}

func showRoom(c *client, code string) error {
	room, err := c.room(code)
	if err != nil {
		return err
	}
	pterm.DefaultBox.WithTitle(pterm.LightYellow("|" + room.Code + "|")).WithTitleTopCenter().Println(roomInfo(room))
	return pterm.DefaultTable.WithHasHeader().WithData(playerRows(room)).Render()
}

func roomRows(rooms []game.Summary) pterm.TableData {
	data := pterm.TableData{{"Code", "Game", "Public", "Players", "Status", "Created"}}
	for _, r := range rooms {
		data = append(data, []string{
			r.Code,
			r.GameType.DisplayName(),
			strconv.FormatBool(r.IsPublic),
			fmt.Sprintf("%d/%d", r.PlayerCount, r.MaxPlayers),
			string(r.Status),
			r.CreatedAt.Format(time.RFC3339),
		})
	}
	return data
}

func roomInfo(r game.RoomView) string {
	trump := "undecided"
	if r.TrumpSuit != "" {
		trump = r.TrumpSuit.Title()
	}
	return fmt.Sprintf("%s, %s\nTrump: %s\nHand %d of %d, %d cards undealt",
		r.GameType.DisplayName(), r.Status, trump, len(r.CompletedHands), r.TotalHands, r.DeckCount)
}

func playerRows(r game.RoomView) pterm.TableData {
	data := pterm.TableData{{"Seat", "Name", "Cards", "Hands won", ""}}
	for _, p := range r.Players {
		turn := ""
		if r.Status == game.StatusInProgress && p.Position == r.CurrentTurn {
			turn = pterm.LightGreen("to play")
		}
		data = append(data, []string{
			strconv.Itoa(p.Position),
			p.Name,
			strconv.Itoa(p.CardCount),
			strconv.Itoa(p.HandsWon),
			turn,
		})
	}
	return data
}
