// Package ranks holds the ordered chain of piece ranks. Two pieces of the same
// rank fuse into the next rank; the last rank is terminal.
package ranks

import (
	"errors"
	"fmt"
)

// ErrInvalidRank is returned for rank indices outside the table.
var ErrInvalidRank = errors.New("invalid rank")

// Def describes one rank before it is loaded into a Table.
type Def struct {
	Name        string
	Label       string
	DisplaySize float64
	Score       int
	Image       string
}

// Rank is an immutable entry of a Table.
type Rank struct {
	Index           int
	Name            string
	Label           string
	DisplaySize     float64
	Score           int
	CollisionRadius float64
	Image           string
}

// Table is the loaded, ordered rank chain. It is never mutated after NewTable.
type Table struct {
	ranks  []Rank
	byName map[string]int
}

// NewTable builds a table from defs in merge order. The collision radius of
// every rank is its display size scaled by ratio.
func NewTable(defs []Def, ratio float64) (*Table, error) {
	if len(defs) < 2 {
		return nil, fmt.Errorf("rank table needs at least 2 ranks, got %d", len(defs))
	}
	if ratio <= 0 {
		return nil, fmt.Errorf("collision ratio must be positive, got %v", ratio)
	}

	t := &Table{
		ranks:  make([]Rank, len(defs)),
		byName: make(map[string]int, len(defs)),
	}
	for i, def := range defs {
		if def.DisplaySize <= 0 {
			return nil, fmt.Errorf("rank %d (%s): display size must be positive", i, def.Name)
		}
		if def.Name != "" {
			if _, dup := t.byName[def.Name]; dup {
				return nil, fmt.Errorf("rank %d: duplicate name %q", i, def.Name)
			}
			t.byName[def.Name] = i
		}
		t.ranks[i] = Rank{
			Index:           i,
			Name:            def.Name,
			Label:           def.Label,
			DisplaySize:     def.DisplaySize,
			Score:           def.Score,
			CollisionRadius: def.DisplaySize * ratio,
			Image:           def.Image,
		}
	}
	return t, nil
}

// Len returns the number of ranks.
func (t *Table) Len() int {
	return len(t.ranks)
}

// Valid reports whether index names a rank.
func (t *Table) Valid(index int) bool {
	return index >= 0 && index < len(t.ranks)
}

// Get returns the rank at index or an error wrapping ErrInvalidRank.
func (t *Table) Get(index int) (Rank, error) {
	if !t.Valid(index) {
		return Rank{}, fmt.Errorf("%w: index %d not in [0, %d)", ErrInvalidRank, index, len(t.ranks))
	}
	return t.ranks[index], nil
}

// At returns the rank at index and panics if it is out of range.
func (t *Table) At(index int) Rank {
	r, err := t.Get(index)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup finds a rank by name.
func (t *Table) Lookup(name string) (Rank, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Rank{}, false
	}
	return t.ranks[i], true
}

// IsTerminal reports whether index is the last rank of the chain.
func (t *Table) IsTerminal(index int) bool {
	return index == len(t.ranks)-1
}

// Successor returns the rank a pair of index-ranked pieces fuses into. ok is
// false for the terminal rank.
func (t *Table) Successor(index int) (next Rank, ok bool, err error) {
	if !t.Valid(index) {
		return Rank{}, false, fmt.Errorf("%w: index %d", ErrInvalidRank, index)
	}
	if t.IsTerminal(index) {
		return Rank{}, false, nil
	}
	return t.ranks[index+1], true, nil
}

// All returns a copy of every rank in order.
func (t *Table) All() []Rank {
	out := make([]Rank, len(t.ranks))
	copy(out, t.ranks)
	return out
}

// Largest returns the biggest collision radius in the table.
func (t *Table) Largest() float64 {
	var r float64
	for _, rank := range t.ranks {
		r = max(r, rank.CollisionRadius)
	}
	return r
}
