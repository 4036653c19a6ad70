package lineup

import (
	"cmp"

	"github.com/WTMsoft/PremScout/internal/player"
	"golang.org/x/exp/slices"
)

// Slot asks for Count players at one position.
type Slot struct {
	Position player.Position `json:"position"`
	Count    int             `json:"count"`
}

type Formation []Slot

// DefaultFormation is one keeper, four defenders, three midfielders and three forwards.
var DefaultFormation = Formation{
	{Position: player.Goalkeeper, Count: 1},
	{Position: player.Defender, Count: 4},
	{Position: player.Midfielder, Count: 3},
	{Position: player.Forward, Count: 3},
}

func (f Formation) Size() int {
	n := 0
	for _, s := range f {
		n += max(s.Count, 0)
	}
	return n
}

type Row struct {
	Position player.Position `json:"position"`
	Players  []player.Record `json:"players"`
}

// Lineup holds one row per formation slot, in formation order.
type Lineup struct {
	Rows []Row `json:"rows"`
}

func (l Lineup) Size() int {
	n := 0
	for _, r := range l.Rows {
		n += len(r.Players)
	}
	return n
}

// Players flattens the rows.
func (l Lineup) Players() []player.Record {
	out := make([]player.Record, 0, l.Size())
	for _, r := range l.Rows {
		out = append(out, r.Players...)
	}
	return out
}

// Select picks the highest predicted scorers for every slot. Ties keep input
// order and a short pool yields a short row.
func Select(records []player.Record, formation Formation) Lineup {
	rows := make([]Row, 0, len(formation))
	for _, slot := range formation {
		var pool []player.Record
		for _, r := range records {
			if r.Position == slot.Position {
				pool = append(pool, r)
			}
		}
		slices.SortStableFunc(pool, func(a, b player.Record) int {
			return cmp.Compare(b.PredictedPoints, a.PredictedPoints)
		})
		n := min(max(slot.Count, 0), len(pool))
		picked := make([]player.Record, n)
		copy(picked, pool[:n])
		rows = append(rows, Row{Position: slot.Position, Players: picked})
	}
	return Lineup{Rows: rows}
}
