package game

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// countdown is the authoritative phase timer: a one-second ticker plus
// the seconds remaining. At most one countdown is live per session; the
// session arms a fresh one on every timed phase entry and stops it
// before any transition that supersedes it.
type countdown struct {
	remaining int
	ticker    clockwork.Ticker
}

func newCountdown(clock clockwork.Clock, seconds int) *countdown {
	return &countdown{
		remaining: seconds,
		ticker:    clock.NewTicker(time.Second),
	}
}

func (cd *countdown) stop() {
	cd.ticker.Stop()
}

// tick consumes one second and reports whether the countdown has expired.
func (cd *countdown) tick() bool {
	cd.remaining--
	return cd.remaining <= 0
}
