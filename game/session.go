package game

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

type Settings struct {
	DrawingSeconds   int
	AnsweringSeconds int
	DefaultRounds    int
	SendBuffer       int
	InboundRate      float64
	InboundBurst     int
	PingPeriod       time.Duration
}

// Session coordinates one process-wide drawing-and-guessing game. All
// mutable state below is owned by the goroutine running Run; connections
// talk to it exclusively through the inbox and attach/detach channels.
type Session struct {
	settings Settings
	clock    clockwork.Clock
	prompts  PromptSource
	shuffle  func([]string)

	registry *registry
	chatLog  []ChatEntry

	phase            Phase
	turnOrder        []string
	currentTurnIndex int
	currentRound     int
	maxRounds        int
	promptToken      string

	countdown *countdown

	inbox      chan clientEnvelope
	attachReqs chan *Client
	detachReqs chan *Client
}

func NewSession(settings Settings, clock clockwork.Clock, prompts PromptSource, shuffle func([]string)) *Session {
	if shuffle == nil {
		shuffle = shuffleStrings
	}
	return &Session{
		settings:     settings,
		clock:        clock,
		prompts:      prompts,
		shuffle:      shuffle,
		registry:     newRegistry(),
		chatLog:      make([]ChatEntry, 0),
		phase:        PhaseIdle,
		turnOrder:    make([]string, 0),
		currentRound: 1,
		maxRounds:    settings.DefaultRounds,
		inbox:        make(chan clientEnvelope, 1024),
		attachReqs:   make(chan *Client, 64),
		detachReqs:   make(chan *Client, 64),
	}
}

func (s *Session) Attach(c *Client) {
	s.attachReqs <- c
}

func (s *Session) Detach(c *Client) {
	s.detachReqs <- c
}

func (s *Session) Deliver(env clientEnvelope) {
	s.inbox <- env
}

// Run is the session actor. Inbound events, connection churn and timer
// ticks are all serialized here, so no two transitions can race.
func (s *Session) Run(started chan<- struct{}) {
	pingTicker := s.clock.NewTicker(s.settings.PingPeriod)
	defer pingTicker.Stop()

	close(started)

	for {
		select {
		case env := <-s.inbox:
			s.dispatch(env)

		case c := <-s.attachReqs:
			s.handleAttach(c)

		case c := <-s.detachReqs:
			s.handleDetach(c)

		case <-s.tickChan():
			s.handleTick()

		case <-pingTicker.Chan():
			s.registry.pingAll()
		}
	}
}

func (s *Session) dispatch(env clientEnvelope) {
	// The read pump queues envelopes and the detach request on separate
	// channels, so an envelope can arrive after its connection was
	// detached and its outbox closed. Those envelopes are dead.
	if !s.registry.contains(env.from) {
		slog.Debug("dropping message from detached connection", "conn", env.from.id)
		return
	}

	switch env.msg.Type {
	case kindJoin:
		s.handleJoin(env)
	case kindStart:
		s.handleStart(env)
	case kindDrawingFinished:
		s.handleDrawingFinished(env)
	case kindSubmitAnswer:
		s.handleSubmitAnswer(env)
	case kindChat:
		s.handleChat(env)
	case kindPaint, kindClearCanvas:
		s.handleRelay(env)
	default:
		slog.Info("unknown message type", "type", env.msg.Type, "from", env.msg.ID)
	}
}

func (s *Session) handleAttach(c *Client) {
	s.registry.attach(c)
	slog.Info("new connection established", "conn", c.id)
	s.unicast(c, s.makeInitMessage())
	s.broadcastPlayers()
}

func (s *Session) handleDetach(c *Client) {
	if !s.registry.detach(c) {
		return
	}
	close(c.outbox)
	slog.Info("connection closed", "conn", c.id, "player", c.playerID)

	if c.playerID == "" {
		return
	}
	if !s.registry.removePlayer(c.playerID) {
		return
	}
	s.broadcastPlayers()
	s.broadcast(makeChatMessage(c.playerID, "left the room"))
	// turnOrder keeps the departed identity; if it was their turn the
	// phase runs out on the countdown.
}

func (s *Session) handleJoin(env clientEnvelope) {
	if !s.registry.addPlayer(env.msg.ID) {
		return
	}
	env.from.playerID = env.msg.ID
	slog.Info("player joined", "player", env.msg.ID)
	s.broadcastPlayers()
	s.broadcast(makeChatMessage(env.msg.ID, "entered the room"))
}

func (s *Session) handleStart(env clientEnvelope) {
	if s.phase != PhaseIdle {
		s.unicast(env.from, makeErrorMessage(ErrGameInProgress))
		return
	}
	if s.registry.numPlayers() == 0 {
		s.unicast(env.from, makeErrorMessage(ErrNoPlayers))
		return
	}

	s.maxRounds = s.settings.DefaultRounds
	if env.msg.Rounds > 0 {
		s.maxRounds = env.msg.Rounds
	}
	s.turnOrder = s.registry.players()
	s.shuffle(s.turnOrder)
	s.currentTurnIndex = 0
	s.currentRound = 1
	s.promptToken = s.prompts.Next()

	slog.Info("game started",
		"firstChar", s.promptToken,
		"turnOrder", s.turnOrder,
		"maxRounds", s.maxRounds,
	)
	s.enterDrawing()
}

func (s *Session) handleDrawingFinished(env clientEnvelope) {
	if s.phase != PhaseDrawing || !s.isCurrentPlayer(env.msg.ID) {
		slog.Debug("blocked drawing_finished", "player", env.msg.ID, "phase", s.phase)
		s.unicast(env.from, makeErrorMessage(ErrNotDrawingTurn))
		return
	}
	slog.Info("player finished drawing", "player", env.msg.ID)
	s.disarm()
	s.enterAnswering()
}

func (s *Session) handleSubmitAnswer(env clientEnvelope) {
	if s.phase != PhaseAnswering || !s.isCurrentPlayer(env.msg.ID) {
		slog.Debug("blocked submit_answer", "player", env.msg.ID, "phase", s.phase)
		s.unicast(env.from, makeErrorMessage(ErrNotAnswerTurn))
		return
	}
	slog.Info("player submitted answer", "player", env.msg.ID, "answer", env.msg.Answer)
	s.broadcast(makeChatMessage(env.msg.ID, fmt.Sprintf("answered %q", env.msg.Answer)))
	s.disarm()
	s.advanceTurn()
}

func (s *Session) handleChat(env clientEnvelope) {
	entry := ChatEntry{ID: env.msg.ID, Text: env.msg.Text}
	s.chatLog = append(s.chatLog, entry)
	s.broadcast(makeChatMessage(entry.ID, entry.Text))
}

// handleRelay forwards paint and clear_canvas payloads verbatim. Only the
// current drawer may relay, and only during the drawing phase; anything
// else is dropped without a reply.
func (s *Session) handleRelay(env clientEnvelope) {
	if s.phase != PhaseDrawing || !s.isCurrentPlayer(env.msg.ID) {
		return
	}
	s.broadcastRaw(env.raw)
}

// --- State machine transitions ---

func (s *Session) enterDrawing() {
	s.phase = PhaseDrawing
	s.arm(s.settings.DrawingSeconds)
	s.broadcastGameState()
	s.broadcast(makeTimerMessage(s.timeLeft()))
}

func (s *Session) enterAnswering() {
	s.phase = PhaseAnswering
	s.arm(s.settings.AnsweringSeconds)
	s.broadcastGameState()
	s.broadcast(makeTimerMessage(s.timeLeft()))
}

func (s *Session) advanceTurn() {
	s.currentTurnIndex++
	if s.currentTurnIndex >= len(s.turnOrder) {
		s.currentTurnIndex = 0
		s.currentRound++
	}

	if s.currentRound > s.maxRounds {
		slog.Info("game over", "rounds", s.maxRounds)
		s.phase = PhaseIdle
		s.promptToken = ""
		s.disarm()
		s.broadcastGameState()
		s.broadcast(makeGameOverMessage())
		return
	}

	s.promptToken = s.prompts.Next()
	slog.Info("next turn",
		"player", s.turnOrder[s.currentTurnIndex],
		"round", s.currentRound,
		"firstChar", s.promptToken,
	)
	s.enterDrawing()
}

func (s *Session) isCurrentPlayer(id string) bool {
	return len(s.turnOrder) > 0 && s.turnOrder[s.currentTurnIndex] == id
}

// --- Countdown ---

func (s *Session) arm(seconds int) {
	s.disarm()
	s.countdown = newCountdown(s.clock, seconds)
}

func (s *Session) disarm() {
	if s.countdown != nil {
		s.countdown.stop()
		s.countdown = nil
	}
}

func (s *Session) timeLeft() int {
	if s.countdown == nil {
		return 0
	}
	return s.countdown.remaining
}

// tickChan is nil while no countdown is armed, which parks the timer arm
// of the Run select.
func (s *Session) tickChan() <-chan time.Time {
	if s.countdown == nil {
		return nil
	}
	return s.countdown.ticker.Chan()
}

func (s *Session) handleTick() {
	if s.countdown == nil {
		return
	}
	expired := s.countdown.tick()
	s.broadcast(makeTimerMessage(s.countdown.remaining))
	if !expired {
		return
	}

	phase := s.phase
	s.disarm()
	switch phase {
	case PhaseDrawing:
		slog.Info("drawing time up, moving to answering phase")
		s.enterAnswering()
	case PhaseAnswering:
		slog.Info("answering time up, moving to next turn")
		s.advanceTurn()
	}
}

// --- Broadcasts ---

func (s *Session) broadcast(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to marshal outbound message", "error", err)
		return
	}
	s.broadcastRaw(data)
}

func (s *Session) broadcastRaw(data []byte) {
	for c := range s.registry.clients {
		if !c.trySend(data) {
			slog.Warn("send buffer full, dropping message", "conn", c.id)
		}
	}
}

func (s *Session) unicast(c *Client, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to marshal outbound message", "error", err)
		return
	}
	if !c.trySend(data) {
		slog.Warn("send buffer full, dropping message", "conn", c.id)
	}
}

func (s *Session) broadcastPlayers() {
	s.broadcast(makePlayersMessage(s.registry.players()))
}

func (s *Session) broadcastGameState() {
	var currentPlayer *string
	if len(s.turnOrder) > 0 && s.currentTurnIndex < len(s.turnOrder) {
		currentPlayer = &s.turnOrder[s.currentTurnIndex]
	}
	s.broadcast(gameStateMessage{
		Type:             "game_state_update",
		GamePhase:        s.phase,
		TurnOrder:        s.turnOrder,
		CurrentTurnIndex: s.currentTurnIndex,
		CurrentRound:     s.currentRound,
		MaxRounds:        s.maxRounds,
		FirstChar:        s.promptToken,
		TimeLeft:         s.timeLeft(),
		CurrentPlayer:    currentPlayer,
	})
}

func (s *Session) makeInitMessage() initMessage {
	chatHistory := make([]ChatEntry, len(s.chatLog))
	copy(chatHistory, s.chatLog)
	return initMessage{
		Type:             "init",
		Players:          s.registry.players(),
		ChatHistory:      chatHistory,
		GamePhase:        s.phase,
		TurnOrder:        s.turnOrder,
		CurrentTurnIndex: s.currentTurnIndex,
		CurrentRound:     s.currentRound,
		MaxRounds:        s.maxRounds,
		FirstChar:        s.promptToken,
		TimeLeft:         s.timeLeft(),
	}
}
