package game

// Phase is the current stage of the session. The string values go on the
// wire as-is in init and game_state_update messages.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseDrawing   Phase = "drawing"
	PhaseAnswering Phase = "answering"
)

// Inbound message kinds.
const (
	kindJoin            = "join"
	kindStart           = "start"
	kindDrawingFinished = "drawing_finished"
	kindSubmitAnswer    = "submit_answer"
	kindChat            = "chat"
	kindPaint           = "paint"
	kindClearCanvas     = "clear_canvas"
)

// clientMessage is the decoded shape of every inbound message. Only the
// fields relevant to the message's type are populated; paint and
// clear_canvas bodies stay opaque and are relayed from the raw bytes.
type clientMessage struct {
	Type   string `json:"type"`
	ID     string `json:"id"`
	Rounds int    `json:"rounds"`
	Answer string `json:"answer"`
	Text   string `json:"text"`
}

// clientEnvelope carries one decoded inbound message, the raw bytes it
// was decoded from, and the connection it arrived on.
type clientEnvelope struct {
	msg  clientMessage
	raw  []byte
	from *Client
}

// ChatEntry is one line of the session chat log.
type ChatEntry struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type initMessage struct {
	Type             string      `json:"type"`
	Players          []string    `json:"players"`
	ChatHistory      []ChatEntry `json:"chatHistory"`
	GamePhase        Phase       `json:"gamePhase"`
	TurnOrder        []string    `json:"turnOrder"`
	CurrentTurnIndex int         `json:"currentTurnIndex"`
	CurrentRound     int         `json:"currentRound"`
	MaxRounds        int         `json:"maxRounds"`
	FirstChar        string      `json:"firstChar"`
	TimeLeft         int         `json:"timeLeft"`
}

type playersMessage struct {
	Type    string   `json:"type"`
	Players []string `json:"players"`
}

type gameStateMessage struct {
	Type             string   `json:"type"`
	GamePhase        Phase    `json:"gamePhase"`
	TurnOrder        []string `json:"turnOrder"`
	CurrentTurnIndex int      `json:"currentTurnIndex"`
	CurrentRound     int      `json:"currentRound"`
	MaxRounds        int      `json:"maxRounds"`
	FirstChar        string   `json:"firstChar"`
	TimeLeft         int      `json:"timeLeft"`
	CurrentPlayer    *string  `json:"currentPlayer"`
}

type timerMessage struct {
	Type     string `json:"type"`
	TimeLeft int    `json:"timeLeft"`
}

type chatMessage struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Text string `json:"text"`
}

type gameOverMessage struct {
	Type string `json:"type"`
}

type errorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func makePlayersMessage(players []string) playersMessage {
	return playersMessage{Type: "players", Players: players}
}

func makeTimerMessage(timeLeft int) timerMessage {
	return timerMessage{Type: "timer_update", TimeLeft: timeLeft}
}

func makeChatMessage(id, text string) chatMessage {
	return chatMessage{Type: "chat", ID: id, Text: text}
}

func makeGameOverMessage() gameOverMessage {
	return gameOverMessage{Type: "game_over"}
}

func makeErrorMessage(err error) errorMessage {
	return errorMessage{Type: "error", Message: err.Error()}
}
