package game

import "errors"

var (
	ErrGameInProgress = errors.New("a game is already in progress")
	ErrNoPlayers      = errors.New("at least one player is required to start a game")
	ErrNotDrawingTurn = errors.New("it is not your drawing turn right now")
	ErrNotAnswerTurn  = errors.New("it is not your answering turn right now")
)
