package session

import (
	"time"

	"github.com/plus3/planetdrop/config"
	"github.com/plus3/planetdrop/physics"
)

// settled reports whether a body counts as at rest.
func settled(body physics.BodyState, rules config.Rules) bool {
	return body.Speed() < rules.SettleSpeed
}

// endangered reports whether a body is settled above the danger line.
func endangered(body physics.BodyState, rules config.Rules) bool {
	return settled(body, rules) && body.Y < rules.DangerLine
}

// advanceDanger recomputes a piece's timer for this tick. The timer opens the
// first tick the piece is endangered and closes the moment it is not; expired
// is true once it has stayed open for longer than grace.
func advanceDanger(timer Danger, isEndangered bool, now time.Time, grace time.Duration) (next Danger, expired bool) {
	if !isEndangered {
		return Danger{}, false
	}
	if !timer.Open {
		return Danger{Since: now, Open: true}, false
	}
	return timer, now.Sub(timer.Since) > grace
}
