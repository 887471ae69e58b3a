package game

import "math/rand"

// The prompt alphabet: the 46 basic hiragana. Every turn shows the drawer
// one character drawn from this table.
var hiraganaTable = []rune("あいうえおかきくけこさしすせそたちつてとなにぬねのはひふへほまみむめもやゆよらりるれろわをん")

type hiraganaPrompts struct{}

func (hiraganaPrompts) Next() string {
	return string(hiraganaTable[rand.Intn(len(hiraganaTable))])
}

func NewHiraganaPrompts() PromptSource {
	return hiraganaPrompts{}
}

// shuffleStrings is the default turn-order shuffler. Tests inject their
// own to keep the permutation deterministic.
func shuffleStrings(players []string) {
	rand.Shuffle(len(players), func(i, j int) {
		players[i], players[j] = players[j], players[i]
	})
}
