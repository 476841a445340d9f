package ws

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/googollee/go-socket.io/engineio"
	"github.com/googollee/go-socket.io/engineio/transport"
	"github.com/googollee/go-socket.io/engineio/transport/polling"
	"github.com/googollee/go-socket.io/engineio/transport/websocket"
	"github.com/kiliankoe/taash/internal/config"
	"github.com/kiliankoe/taash/internal/game"
	"github.com/kiliankoe/taash/internal/rules"
	"github.com/rs/zerolog/log"
)

const namespace = "/"

type CreateRoomRequest struct {
	PlayerName string `json:"playerName"`
	IsPublic   bool   `json:"isPublic"`
	GameType   string `json:"gameType"`
}

type JoinRoomRequest struct {
	PlayerName string `json:"playerName"`
	RoomCode   string `json:"roomCode"`
	GameType   string `json:"gameType"`
}

type PlayCardRequest struct {
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
	CardID   string `json:"cardId"`
}

type Server struct {
	RM     *game.RoomManager
	config config.Config
	out    Broadcaster
	seats  *bindings
	after  func(d time.Duration, f func())
}

func New(rm *game.RoomManager, cfg config.Config) *Server {
	return &Server{
		RM:     rm,
		config: cfg,
		seats:  newBindings(),
		after:  func(d time.Duration, f func()) { time.AfterFunc(d, f) },
	}
}

// SetBroadcaster replaces the room fan-out; Mount installs the socket.io server.
func (srv *Server) SetBroadcaster(b Broadcaster) { srv.out = b }

// Mount attaches the Socket.IO server with handlers to the given Gin engine.
func (srv *Server) Mount(r *gin.Engine) *socketio.Server {
	checkOrigin := func(req *http.Request) bool {
		origin := req.Header.Get("Origin")
		return origin == "" || srv.config.AllowOrigin(origin)
	}
	io := socketio.NewServer(&engineio.Options{
		Transports: []transport.Transport{
			&polling.Transport{CheckOrigin: checkOrigin},
			&websocket.Transport{CheckOrigin: checkOrigin},
		},
	})
	srv.out = io

	io.OnConnect(namespace, func(s socketio.Conn) error {
		log.Info().Str("sid", s.ID()).Msg("socket connected")
		return nil
	})
	io.OnEvent(namespace, "create_room", func(s socketio.Conn, req CreateRoomRequest) {
		srv.CreateRoom(s, req)
	})
	io.OnEvent(namespace, "join_room", func(s socketio.Conn, req JoinRoomRequest) {
		srv.JoinRoom(s, req)
	})
	io.OnEvent(namespace, "leave_room", func(s socketio.Conn) {
		srv.LeaveRoom(s)
	})
	io.OnEvent(namespace, "play_card", func(s socketio.Conn, req PlayCardRequest) {
		srv.PlayCard(s, req)
	})
	io.OnEvent(namespace, "send_message", func(s socketio.Conn, msg string) {
		srv.SendMessage(s, msg)
	})
	io.OnError(namespace, func(s socketio.Conn, e error) {
		if s == nil {
			log.Error().Err(e).Msg("socket error")
			return
		}
		log.Error().Str("sid", s.ID()).Err(e).Msg("socket error")
	})
	io.OnDisconnect(namespace, func(s socketio.Conn, reason string) {
		log.Info().Str("sid", s.ID()).Str("reason", reason).Msg("socket disconnected")
		srv.LeaveRoom(s)
	})

	go func() {
		if err := io.Serve(); err != nil {
			log.Error().Err(err).Msg("socket.io server stopped")
		}
	}()

	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))
	// CORS headers come from the router middleware
	r.OPTIONS("/socket.io/*any", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	return io
}

func (srv *Server) CreateRoom(s Conn, req CreateRoomRequest) {
	name := strings.TrimSpace(req.PlayerName)
	if name == "" {
		srv.fail(s, "playerName required")
		return
	}
	v, err := srv.variant(req.GameType)
	if err != nil {
		srv.fail(s, err.Error())
		return
	}
	srv.LeaveRoom(s)
	room, playerID, err := srv.RM.CreateAndJoin(name, req.IsPublic, v)
	if err != nil {
		log.Error().Err(err).Str("sid", s.ID()).Msg("create_room failed")
		srv.fail(s, "Failed to create room")
		return
	}
	srv.seats.bind(s, playerID, room.ID)
	s.Join(room.ID)
	s.Emit("room_created", gin.H{"room": room, "playerId": playerID})
	log.Info().Str("room", room.ID).Str("code", room.Code).Str("player", name).Str("gameType", string(v)).Msg("room created")
}

func (srv *Server) JoinRoom(s Conn, req JoinRoomRequest) {
	name := strings.TrimSpace(req.PlayerName)
	if name == "" {
		srv.fail(s, "playerName required")
		return
	}
	srv.LeaveRoom(s)

	var (
		room     game.RoomView
		playerID string
		err      error
	)
	if code := strings.TrimSpace(req.RoomCode); code != "" {
		room, playerID, err = srv.RM.JoinByCode(code, name)
	} else {
		v, verr := srv.variant(req.GameType)
		if verr != nil {
			srv.fail(s, verr.Error())
			return
		}
		room, playerID, err = srv.RM.JoinPublic(v, name)
	}
	switch {
	case errors.Is(err, game.ErrRoomNotFound):
		s.Emit("room_not_found")
		return
	case errors.Is(err, game.ErrRoomFull):
		s.Emit("room_full")
		return
	case err != nil:
		srv.fail(s, err.Error())
		return
	}

	srv.seats.bind(s, playerID, room.ID)
	s.Join(room.ID)
	s.Emit("room_joined", gin.H{"room": room, "playerId": playerID})
	player, _ := findPlayer(room, playerID)
	srv.broadcast(room.ID, "player_joined", gin.H{"player": player, "room": room})
	log.Info().Str("room", room.ID).Str("code", room.Code).Str("player", name).Msg("player joined")

	if room.Status == game.StatusInProgress {
		srv.startGame(room)
	}
}

func (srv *Server) startGame(room game.RoomView) {
	srv.broadcast(room.ID, "game_start", gin.H{"room": room, "message": "Game is starting!"})
	srv.sendHands(room, "cards_dealt", false)
	log.Info().Str("room", room.ID).Str("code", room.Code).Msg("cards dealt")
}

// sendHands delivers each seat its own cards and nobody else's.
func (srv *Server) sendHands(room game.RoomView, event string, withTotal bool) {
	for _, p := range room.Players {
		c := srv.seats.conn(p.ID)
		if c == nil {
			continue
		}
		hand, err := srv.RM.Hand(room.ID, p.ID)
		if err != nil {
			continue
		}
		payload := gin.H{"hand": hand}
		if withTotal {
			payload["totalCards"] = len(hand)
		}
		c.Emit(event, payload)
	}
}

func (srv *Server) LeaveRoom(s Conn) {
	b, ok := srv.seats.unbind(s.ID())
	if !ok {
		return
	}
	s.Leave(b.roomID)
	player, err := srv.RM.Player(b.roomID, b.playerID)
	if err != nil {
		return
	}
	before, _ := srv.RM.Room(b.roomID)
	srv.RM.RemovePlayer(b.roomID, b.playerID)
	room, err := srv.RM.Room(b.roomID)
	if err != nil {
		room = before
	}
	srv.broadcast(b.roomID, "player_left", gin.H{"playerId": b.playerID, "playerName": player.Name, "room": room})
	log.Info().Str("room", b.roomID).Str("player", player.Name).Str("status", string(room.Status)).Msg("player left")
}

func (srv *Server) PlayCard(s Conn, req PlayCardRequest) {
	b, ok := srv.seats.lookup(s.ID())
	if !ok {
		srv.fail(s, game.ErrPlayerNotFound.Error())
		return
	}
	if req.RoomID != "" && req.RoomID != b.roomID {
		srv.fail(s, game.ErrRoomNotFound.Error())
		return
	}
	if req.PlayerID != "" && req.PlayerID != b.playerID {
		srv.fail(s, game.ErrPlayerNotFound.Error())
		return
	}
	res, err := srv.RM.PlayCard(b.roomID, b.playerID, req.CardID)
	if err != nil {
		srv.fail(s, err.Error())
		return
	}
	srv.broadcast(b.roomID, "card_played", gin.H{
		"playerId":       res.Play.PlayerID,
		"playerName":     res.Play.PlayerName,
		"playerPosition": res.Play.Position,
		"card":           res.Play.Card,
		"cardsInHand":    res.TrickSize,
		"leadingSuit":    res.LeadingSuit,
	})
	log.Debug().Str("room", b.roomID).Str("player", res.Play.PlayerName).Str("card", res.Play.Card.String()).Msg("card played")

	if res.TrickComplete {
		srv.completeTrick(b.roomID)
		return
	}
	srv.emitTurn(b.roomID)
}

func (srv *Server) completeTrick(roomID string) {
	res, err := srv.RM.CompleteTrick(roomID)
	if err != nil {
		log.Error().Err(err).Str("room", roomID).Msg("failed to resolve hand")
		return
	}
	srv.broadcast(roomID, "hand_complete", gin.H{"handNumber": res.Trick.Number, "cards": res.Trick.Plays})
	srv.broadcast(roomID, "hand_winner", gin.H{
		"playerId":       res.WinnerID,
		"playerName":     res.WinnerName,
		"playerPosition": res.WinnerPosition,
		"winningCard":    res.WinningCard,
		"handNumber":     res.Trick.Number,
		"handsWon":       res.TricksWon,
		"winningTen":     res.WinningTen,
	})
	if d := res.TrumpDecision; d != nil && d.Decided {
		srv.broadcast(roomID, "trump_decided", gin.H{"trumpSuit": d.Suit, "case": d.Case, "suitsPlayed": d.SuitsPlayed})
	}
	if res.AdditionalDealt {
		if room, err := srv.RM.Room(roomID); err == nil {
			srv.sendHands(room, "additional_cards_dealt", true)
		}
	}
	if gs, err := srv.RM.GameState(roomID); err == nil {
		srv.broadcast(roomID, "score_update", gin.H{"scores": gs.Scores})
	}
	log.Info().Str("room", roomID).Int("hand", res.Trick.Number).Str("winner", res.WinnerName).Str("card", res.WinningCard.String()).Msg("hand won")

	if res.GameOver {
		srv.endGame(roomID)
		return
	}
	srv.after(srv.config.NextHandDelay, func() {
		room, err := srv.RM.Room(roomID)
		if err != nil || room.Status != game.StatusInProgress {
			return
		}
		starter, _ := room.PlayerAt(room.CurrentTurn)
		srv.broadcast(roomID, "new_hand_start", gin.H{"handNumber": room.CurrentHand.Number, "startingPlayer": starter})
		srv.emitTurn(roomID)
	})
}

func (srv *Server) endGame(roomID string) {
	winners := srv.RM.GameWinners(roomID)
	gs, err := srv.RM.GameState(roomID)
	if err != nil {
		return
	}
	if len(winners) > 0 {
		srv.broadcast(roomID, "game_winner", gin.H{"winners": winners, "finalScores": gs.Scores, "totalHands": gs.TotalHands})
	}
	log.Info().Str("room", roomID).Int("winners", len(winners)).Msg("game over")

	if !srv.config.ExportEnabled {
		return
	}
	room, err := srv.RM.Room(roomID)
	if err != nil {
		return
	}
	if err := game.ExportResults(room, winners, srv.config.ExportFile); err != nil {
		log.Error().Err(err).Str("room", roomID).Msg("failed to export game results")
	} else {
		log.Info().Str("room", roomID).Str("file", srv.config.ExportFile).Msg("exported game results")
	}
}

func (srv *Server) emitTurn(roomID string) {
	room, err := srv.RM.Room(roomID)
	if err != nil {
		return
	}
	next, _ := room.PlayerAt(room.CurrentTurn)
	srv.broadcast(roomID, "turn_change", gin.H{"currentTurn": room.CurrentTurn, "nextPlayer": next})
}

func (srv *Server) SendMessage(s Conn, msg string) {
	b, ok := srv.seats.lookup(s.ID())
	if !ok || strings.TrimSpace(msg) == "" {
		return
	}
	player, err := srv.RM.Player(b.roomID, b.playerID)
	if err != nil {
		return
	}
	srv.broadcast(b.roomID, "receive_message", gin.H{
		"playerId":   player.ID,
		"playerName": player.Name,
		"message":    msg,
		"timestamp":  time.Now().UTC(),
	})
}

func (srv *Server) variant(name string) (rules.Variant, error) {
	if strings.TrimSpace(name) == "" {
		return srv.config.DefaultGameType, nil
	}
	return rules.ParseVariant(name)
}

func (srv *Server) broadcast(roomID, event string, payload any) {
	if srv.out == nil {
		return
	}
	srv.out.BroadcastToRoom(namespace, roomID, event, payload)
}

func (srv *Server) fail(s Conn, message string) {
	s.Emit("error", gin.H{"message": message})
}

func findPlayer(room game.RoomView, id string) (game.PlayerView, bool) {
	for _, p := range room.Players {
		if p.ID == id {
			return p, true
		}
	}
	return game.PlayerView{}, false
}
