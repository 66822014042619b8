// Package merge turns one step's contact pairs into merge decisions without
// touching the world.
package merge

import (
	"github.com/kamstrup/intmap"
	"github.com/plus3/planetdrop/physics"
	"github.com/plus3/planetdrop/ranks"
)

// Lookup returns the current state of a body. ok is false for bodies that no
// longer exist.
type Lookup func(id physics.BodyID) (physics.BodyState, bool)

// Decision is the outcome of one claimed pair.
type Decision struct {
	Consumed [2]physics.BodyID
	X, Y     float64
	From     ranks.Rank
	// Into is the rank of the fused piece. Zero when Terminal is set.
	Into     ranks.Rank
	Terminal bool
	Score    int
}

// Resolve walks contacts in order. The first eligible pair touching a body
// claims it; any later pair referencing a claimed body is skipped entirely.
// A pair is eligible when both sides are live pieces of the same rank.
func Resolve(contacts []physics.Contact, lookup Lookup, table *ranks.Table) []Decision {
	if len(contacts) == 0 {
		return nil
	}

	claimed := intmap.New[physics.BodyID, struct{}](2 * len(contacts))
	var out []Decision

	for _, c := range contacts {
		if c.A == c.B || isClaimed(claimed, c.A) || isClaimed(claimed, c.B) {
			continue
		}

		a, okA := lookup(c.A)
		b, okB := lookup(c.B)
		if !okA || !okB || a.Kind != physics.KindPiece || b.Kind != physics.KindPiece {
			continue
		}
		if a.Rank != b.Rank {
			continue
		}

		from, err := table.Get(a.Rank)
		if err != nil {
			continue
		}
		d := Decision{
			Consumed: [2]physics.BodyID{c.A, c.B},
			X:        (a.X + b.X) / 2,
			Y:        (a.Y + b.Y) / 2,
			From:     from,
			Score:    from.Score,
		}
		if next, ok, _ := table.Successor(from.Index); ok {
			d.Into = next
		} else {
			d.Terminal = true
		}

		claimed.Put(c.A, struct{}{})
		claimed.Put(c.B, struct{}{})
		out = append(out, d)
	}
	return out
}

func isClaimed(claimed *intmap.Map[physics.BodyID, struct{}], id physics.BodyID) bool {
	_, ok := claimed.Get(id)
	return ok
}

// Total sums the score of a batch of decisions.
func Total(decisions []Decision) int {
	n := 0
	for _, d := range decisions {
		n += d.Score
	}
	return n
}
