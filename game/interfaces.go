package game

type NetworkSession interface {
	Close(errCode string)
	Write(data []byte) error
	Read() ([]byte, error)
	Ping() error
}

// PromptSource hands out the single-character prompt shown to players
// at the start of every drawing turn.
type PromptSource interface {
	Next() string
}
