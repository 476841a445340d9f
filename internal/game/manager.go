package game

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kiliankoe/taash/internal/cards"
	"github.com/kiliankoe/taash/internal/rules"
	"github.com/rs/zerolog/log"
)

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomFull          = errors.New("room full")
	ErrRoomClosed        = errors.New("room closed")
	ErrRulesNotFound     = errors.New("rules not found")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrCardNotInHand     = errors.New("card not found in hand")
	ErrGameNotInProgress = errors.New("game not in progress")
	ErrTrickPending      = errors.New("hand awaiting resolution")
	ErrTrickIncomplete   = errors.New("hand not complete")
	ErrNotDynamicTrump   = errors.New("game type has no trump discovery")
	ErrTrumpUndecided    = errors.New("trump not decided")
	ErrAlreadyDealt      = errors.New("additional cards already dealt")
)

const codeLength = 6

// RoomManager owns every live room together with its code and rules engine.
// Each exported method runs under one lock, so requests apply one at a time.
type RoomManager struct {
	mu      sync.Mutex
	rooms   map[string]*Room
	byCode  map[string]string         // code -> room id
	engines map[string]rules.Engine   // room id -> engine
	public  map[rules.Variant][]string // open public rooms in creation order

	intn func(n int) int
	now  func() time.Time
}

func NewRoomManager() *RoomManager {
	return &RoomManager{
		rooms:   make(map[string]*Room),
		byCode:  make(map[string]string),
		engines: make(map[string]rules.Engine),
		public:  make(map[rules.Variant][]string),
		intn:    rand.Intn,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (rm *RoomManager) CreateRoom(isPublic bool, v rules.Variant) (RoomView, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	r, err := rm.createRoom(isPublic, v)
	if err != nil {
		return RoomView{}, err
	}
	return r.view(), nil
}

func (rm *RoomManager) createRoom(isPublic bool, v rules.Variant) (*Room, error) {
	engine, err := rules.New(v)
	if err != nil {
		return nil, err
	}
	code := randomCode(codeLength)
	for rm.byCode[code] != "" {
		code = randomCode(codeLength)
	}
	trump, fixed := engine.TrumpSuit()
	r := &Room{
		ID:                 uuid.NewString(),
		Code:               code,
		IsPublic:           isPublic,
		Variant:            v,
		Players:            []*Player{},
		Status:             StatusWaiting,
		Deck:               []cards.Card{},
		TrumpDecided:       fixed,
		TrumpDecisionPhase: !fixed,
		CardsPerPlayer:     engine.InitialCardCount(),
		CurrentHand:        rules.NewTrick(1),
		CompletedHands:     []rules.Trick{},
		TotalHands:         engine.TotalTricks(),
		CreatedAt:          rm.now(),
	}
	if fixed {
		r.TrumpSuit = trump
	}
	rm.rooms[r.ID] = r
	rm.byCode[code] = r.ID
	rm.engines[r.ID] = engine
	if isPublic {
		rm.public[v] = append(rm.public[v], r.ID)
	}
	log.Debug().Str("room", r.ID).Str("code", code).Str("gameType", string(v)).Bool("public", isPublic).Msg("room created")
	return r, nil
}

// FindOrCreatePublicRoom returns the first open public room of the game type
// with a free seat, creating one when none exists.
func (rm *RoomManager) FindOrCreatePublicRoom(v rules.Variant) (RoomView, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	r, err := rm.findOrCreatePublic(v)
	if err != nil {
		return RoomView{}, err
	}
	return r.view(), nil
}

func (rm *RoomManager) findOrCreatePublic(v rules.Variant) (*Room, error) {
	for _, id := range rm.public[v] {
		if r := rm.rooms[id]; r != nil && len(r.Players) < Capacity {
			return r, nil
		}
	}
	return rm.createRoom(true, v)
}

func (rm *RoomManager) AddPlayer(roomID, playerID, name string) error {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	r := rm.rooms[roomID]
	if r == nil {
		return ErrRoomNotFound
	}
	return rm.addPlayer(r, playerID, name)
}

func (rm *RoomManager) addPlayer(r *Room, playerID, name string) error {
	if len(r.Players) >= Capacity {
		return ErrRoomFull
	}
	if r.Status != StatusWaiting {
		return ErrRoomClosed
	}
	r.Players = append(r.Players, &Player{
		ID:       playerID,
		Name:     name,
		Hand:     []cards.Card{},
		Position: len(r.Players),
		JoinedAt: rm.now(),
	})
	if len(r.Players) == Capacity {
		rm.unpublish(r)
		rm.startGame(r)
	}
	return nil
}

func (rm *RoomManager) startGame(r *Room) {
	engine := rm.engines[r.ID]
	if engine == nil {
		return
	}
	d := cards.NewDeck()
	d.Shuffle()
	hands := d.Deal(Capacity, engine.InitialCardCount())
	for i, p := range r.Players {
		p.Hand = hands[i]
	}
	r.Deck = d.Remaining()
	r.Status = StatusInProgress
	r.StartedAt = rm.now()
	r.CurrentTurn = 0
	if r.Variant == rules.DehlaPakad {
		r.CurrentTurn = rm.intn(Capacity)
	}
	log.Info().Str("room", r.ID).Str("code", r.Code).Str("gameType", string(r.Variant)).Int("firstTurn", r.CurrentTurn).Msg("game started")
}

// RemovePlayer takes a player out of a room. A game in progress ends, and a
// room left empty is torn down.
func (rm *RoomManager) RemovePlayer(roomID, playerID string) bool {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	r := rm.rooms[roomID]
	if r == nil || !r.remove(playerID) {
		return false
	}
	if r.Status == StatusInProgress && len(r.Players) < Capacity {
		r.finish(rm.now())
		rm.unpublish(r)
		log.Info().Str("room", r.ID).Str("player", playerID).Msg("game ended early, player left")
	}
	if len(r.Players) == 0 {
		rm.deleteRoom(r)
	}
	return true
}

func (rm *RoomManager) deleteRoom(r *Room) {
	rm.unpublish(r)
	delete(rm.byCode, r.Code)
	delete(rm.engines, r.ID)
	delete(rm.rooms, r.ID)
	log.Debug().Str("room", r.ID).Str("code", r.Code).Msg("room deleted")
}

func (rm *RoomManager) unpublish(r *Room) {
	ids := rm.public[r.Variant]
	for i, id := range ids {
		if id == r.ID {
			rm.public[r.Variant] = append(ids[:i:i], ids[i+1:]...)
			return
		}
	}
}

func (rm *RoomManager) PlayCard(roomID, playerID, cardID string) (PlayResult, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	r := rm.rooms[roomID]
	if r == nil {
		return PlayResult{}, ErrRoomNotFound
	}
	if rm.engines[roomID] == nil {
		return PlayResult{}, ErrRulesNotFound
	}
	p := r.player(playerID)
	if p == nil {
		return PlayResult{}, ErrPlayerNotFound
	}
	if r.Status != StatusInProgress {
		return PlayResult{}, ErrGameNotInProgress
	}
	if r.CurrentHand.Full() {
		return PlayResult{}, ErrTrickPending
	}
	if r.CurrentTurn != p.Position {
		return PlayResult{}, ErrNotYourTurn
	}
	idx := -1
	for i, c := range p.Hand {
		if c.ID == cardID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return PlayResult{}, ErrCardNotInHand
	}
	card := p.Hand[idx]
	p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)

	play := rules.Play{Card: card, PlayerID: p.ID, PlayerName: p.Name, Position: p.Position}
	hand := r.CurrentHand
	hand.Plays = append(hand.Plays, play)
	if len(hand.Plays) == 1 {
		hand.LeadingSuit = rules.LeadingSuit(hand.Plays)
	}
	if !hand.Full() {
		r.CurrentTurn = (p.Position + 1) % Capacity
	}
	return PlayResult{
		Play:          play,
		LeadingSuit:   hand.LeadingSuit,
		TrickSize:     len(hand.Plays),
		TrickComplete: hand.Full(),
		NextTurn:      r.CurrentTurn,
	}, nil
}

func (rm *RoomManager) IsTrickComplete(roomID string) bool {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	r := rm.rooms[roomID]
	return r != nil && r.CurrentHand.Full()
}

// CompleteTrick resolves the full current trick: trump discovery where the
// game has it, winner credit, archive, then the next trick or game over.
func (rm *RoomManager) CompleteTrick(roomID string) (TrickResult, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	r := rm.rooms[roomID]
	if r == nil {
		return TrickResult{}, ErrRoomNotFound
	}
	if r.Status != StatusInProgress {
		return TrickResult{}, ErrGameNotInProgress
	}
	if !r.CurrentHand.Full() {
		return TrickResult{}, ErrTrickIncomplete
	}
	engine := rm.engines[roomID]
	if engine == nil {
		return TrickResult{}, ErrRulesNotFound
	}

	var decision *rules.TrumpDecision
	justDecided := false
	disc, dynamic := engine.(rules.TrumpDiscoverer)
	if dynamic && !r.TrumpDecided {
		dec, err := disc.DecideTrump(r.CurrentHand)
		if err != nil {
			return TrickResult{}, fmt.Errorf("deciding trump for hand %d: %w", r.CurrentHand.Number, err)
		}
		decision = &dec
		if dec.Decided {
			r.TrumpDecided = true
			r.TrumpSuit = dec.Suit
			r.TrumpDecisionPhase = false
			justDecided = true
			log.Info().Str("room", r.ID).Str("trump", string(dec.Suit)).Int("case", dec.Case).Msg("trump decided")
		}
	}

	pos, err := engine.DetermineTrickWinner(r.CurrentHand)
	if err != nil {
		return TrickResult{}, fmt.Errorf("resolving hand %d: %w", r.CurrentHand.Number, err)
	}
	play, ok := r.CurrentHand.PlayAt(pos)
	if !ok {
		return TrickResult{}, fmt.Errorf("resolving hand %d: no play at position %d", r.CurrentHand.Number, pos)
	}
	winner := r.player(play.PlayerID)
	if winner == nil {
		return TrickResult{}, ErrPlayerNotFound
	}
	winner.TricksWon++
	winner.Score++
	r.CurrentHand.WinnerID = winner.ID
	r.CurrentHand.WinnerPosition = pos
	archived := r.CurrentHand.Clone()
	r.CompletedHands = append(r.CompletedHands, archived)

	res := TrickResult{
		Trick:          archived,
		WinnerID:       winner.ID,
		WinnerName:     winner.Name,
		WinnerPosition: pos,
		WinningCard:    play.Card,
		TricksWon:      winner.TricksWon,
		TrumpDecision:  decision,
	}
	if dynamic {
		res.WinningTen = disc.HasWinningTen(&archived)
	}
	if justDecided {
		if err := rm.distributeAdditionalCards(r); err != nil {
			log.Error().Err(err).Str("room", r.ID).Msg("second deal failed")
		} else {
			res.AdditionalDealt = true
		}
	}

	gameOver := engine.IsGameOver(len(r.CompletedHands), r.TotalHands)
	if dynamic && disc.DiscoveryExhausted() {
		log.Warn().Str("room", r.ID).Int("hands", len(r.CompletedHands)).Msg("no trump after the opening cards, ending game")
		r.TotalHands = len(r.CompletedHands)
		gameOver = true
	}
	if gameOver {
		r.finish(rm.now())
		rm.unpublish(r)
		res.GameOver = true
		log.Info().Str("room", r.ID).Int("hands", len(r.CompletedHands)).Msg("game finished")
	} else {
		r.CurrentHand = rules.NewTrick(len(r.CompletedHands) + 1)
		r.CurrentTurn = pos
	}
	res.NextTurn = r.CurrentTurn
	return res, nil
}

func (rm *RoomManager) GameWinners(roomID string) []rules.Standing {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	r := rm.rooms[roomID]
	engine := rm.engines[roomID]
	if r == nil || engine == nil {
		return []rules.Standing{}
	}
	return engine.DetermineGameWinners(r.standings())
}

// DistributeAdditionalCards runs the Dehla-Pakad second deal: the undealt
// remainder is reshuffled and dealt out round-robin.
func (rm *RoomManager) DistributeAdditionalCards(roomID string) error {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	r := rm.rooms[roomID]
	if r == nil {
		return ErrRoomNotFound
	}
	return rm.distributeAdditionalCards(r)
}

func (rm *RoomManager) distributeAdditionalCards(r *Room) error {
	engine := rm.engines[r.ID]
	if engine == nil {
		return ErrRulesNotFound
	}
	disc, ok := engine.(rules.TrumpDiscoverer)
	if !ok {
		return ErrNotDynamicTrump
	}
	if !r.TrumpDecided {
		return ErrTrumpUndecided
	}
	if r.secondDealDone {
		return ErrAlreadyDealt
	}
	d := cards.FromCards(r.Deck)
	d.Shuffle()
	hands := d.Deal(Capacity, disc.AdditionalCardCount())
	for i, p := range r.Players {
		p.Hand = append(p.Hand, hands[i]...)
	}
	r.Deck = d.Remaining()
	r.CardsPerPlayer = disc.CardsPerPlayer()
	r.TotalHands = r.CardsPerPlayer
	r.secondDealDone = true
	return nil
}

func (rm *RoomManager) Room(roomID string) (RoomView, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	r := rm.rooms[roomID]
	if r == nil {
		return RoomView{}, ErrRoomNotFound
	}
	return r.view(), nil
}

// RoomByCode looks a room up by its join code, ignoring case.
func (rm *RoomManager) RoomByCode(code string) (RoomView, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	r := rm.byCodeLocked(code)
	if r == nil {
		return RoomView{}, ErrRoomNotFound
	}
	return r.view(), nil
}

func (rm *RoomManager) byCodeLocked(code string) *Room {
	id := rm.byCode[strings.ToUpper(strings.TrimSpace(code))]
	if id == "" {
		return nil
	}
	return rm.rooms[id]
}

// Rooms lists every live room, oldest first.
func (rm *RoomManager) Rooms() []Summary {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	out := make([]Summary, 0, len(rm.rooms))
	for _, r := range rm.rooms {
		out = append(out, r.summary())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Code < out[j].Code
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (rm *RoomManager) Count() int {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return len(rm.rooms)
}

// Hand returns a copy of one player's cards for private delivery.
func (rm *RoomManager) Hand(roomID, playerID string) ([]cards.Card, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	r := rm.rooms[roomID]
	if r == nil {
		return nil, ErrRoomNotFound
	}
	p := r.player(playerID)
	if p == nil {
		return nil, ErrPlayerNotFound
	}
	return append([]cards.Card{}, p.Hand...), nil
}

func (rm *RoomManager) Player(roomID, playerID string) (PlayerView, error) {
	v, err := rm.Room(roomID)
	if err != nil {
		return PlayerView{}, err
	}
	for _, p := range v.Players {
		if p.ID == playerID {
			return p, nil
		}
	}
	return PlayerView{}, ErrPlayerNotFound
}

func (rm *RoomManager) GameState(roomID string) (GameState, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	r := rm.rooms[roomID]
	if r == nil {
		return GameState{}, ErrRoomNotFound
	}
	return GameState{
		CurrentHand:    r.CurrentHand.Clone(),
		CompletedHands: r.completed(),
		TrumpSuit:      r.TrumpSuit,
		TrumpDecided:   r.TrumpDecided,
		TotalHands:     r.TotalHands,
		HandsPlayed:    len(r.CompletedHands),
		GameType:       r.Variant,
		Scores:         r.scores(),
	}, nil
}

// CreateAndJoin opens a room and seats its creator.
func (rm *RoomManager) CreateAndJoin(name string, isPublic bool, v rules.Variant) (RoomView, string, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	r, err := rm.createRoom(isPublic, v)
	if err != nil {
		return RoomView{}, "", err
	}
	return rm.join(r, name)
}

func (rm *RoomManager) JoinByCode(code, name string) (RoomView, string, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	r := rm.byCodeLocked(code)
	if r == nil {
		return RoomView{}, "", ErrRoomNotFound
	}
	return rm.join(r, name)
}

// JoinPublic seats a player in the first open public room of the game type.
func (rm *RoomManager) JoinPublic(v rules.Variant, name string) (RoomView, string, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	r, err := rm.findOrCreatePublic(v)
	if err != nil {
		return RoomView{}, "", err
	}
	return rm.join(r, name)
}

func (rm *RoomManager) join(r *Room, name string) (RoomView, string, error) {
	playerID := uuid.NewString()
	if err := rm.addPlayer(r, playerID, name); err != nil {
		return RoomView{}, "", err
	}
	return r.view(), playerID, nil
}

func randomCode(n int) string {
	letters := []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")
	b := make([]rune, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}
