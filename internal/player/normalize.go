package player

import (
	"math"
	"strconv"
	"strings"
)

const (
	MinValue = 1
	MaxValue = 5
)

// Column names of the player dataset.
const (
	ColName            = "name"
	ColTeam            = "team"
	ColPosition        = "position"
	ColNowCost         = "now_cost"
	ColTotalPoints     = "total_points"
	ColGoalsScored     = "goals_scored"
	ColAssists         = "assists"
	ColCleanSheets     = "clean_sheets"
	ColYellowCards     = "yellow_cards"
	ColRedCards        = "red_cards"
	ColMinutes         = "minutes"
	ColForm            = "form"
	ColSavesPer90      = "saves_per_90"
	ColPredictedPoints = "predicted_points"
	ColExpectedGoals   = "expected_goals"
)

// Issue is a non-fatal problem found in a single cell.
type Issue struct {
	Row    int    `json:"row"`
	Column string `json:"column"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

// Normalize converts raw rows into records and assigns each a value score
// relative to the best predicted points at the same position. Input order is
// preserved. Only a structurally unusable dataset is an error.
func Normalize(rows []RawRow) ([]Record, []Issue, error) {
	if len(rows) == 0 {
		return nil, nil, &MalformedDatasetError{Reason: "no rows"}
	}
	if !hasColumn(rows, ColName) {
		return nil, nil, &MalformedDatasetError{Reason: "missing name column"}
	}

	var issues []Issue
	records := make([]Record, len(rows))
	for i, row := range rows {
		p := cellParser{row: row, index: i}
		records[i] = Record{
			Name:            strings.TrimSpace(row[ColName]),
			Team:            strings.TrimSpace(row[ColTeam]),
			Position:        Position(strings.TrimSpace(row[ColPosition])),
			NowCost:         p.integer(ColNowCost),
			TotalPoints:     p.integer(ColTotalPoints),
			GoalsScored:     p.integer(ColGoalsScored),
			Assists:         p.integer(ColAssists),
			CleanSheets:     p.integer(ColCleanSheets),
			YellowCards:     p.integer(ColYellowCards),
			RedCards:        p.integer(ColRedCards),
			Minutes:         p.integer(ColMinutes),
			Form:            p.number(ColForm),
			SavesPer90:      p.number(ColSavesPer90),
			PredictedPoints: p.number(ColPredictedPoints),
			ExpectedGoals:   p.number(ColExpectedGoals),
		}
		if pos := records[i].Position; pos != "" && !pos.Known() {
			p.issues = append(p.issues, Issue{Row: i, Column: ColPosition, Value: string(pos), Reason: "unknown position"})
		}
		issues = append(issues, p.issues...)
	}

	maxByPosition := positionMaxima(records)
	for i := range records {
		records[i].Value = valueScore(records[i].PredictedPoints, maxByPosition[records[i].Position])
	}
	return records, issues, nil
}

// positionMaxima returns the highest predicted points per position, floored at 1.
func positionMaxima(records []Record) map[Position]float64 {
	out := make(map[Position]float64)
	for _, r := range records {
		cur, ok := out[r.Position]
		if !ok {
			cur = 1
		}
		out[r.Position] = math.Max(cur, r.PredictedPoints)
	}
	return out
}

func valueScore(predicted, positionMax float64) int {
	if positionMax < 1 {
		positionMax = 1
	}
	v := int(math.Round(math.Min(MaxValue, predicted/positionMax*MaxValue)))
	return min(max(v, MinValue), MaxValue)
}

func hasColumn(rows []RawRow, col string) bool {
	for _, row := range rows {
		if _, ok := row[col]; ok {
			return true
		}
	}
	return false
}

type cellParser struct {
	row    RawRow
	index  int
	issues []Issue
}

func (p *cellParser) number(col string) float64 {
	raw, ok := p.row[col]
	if !ok {
		return 0
	}
	v, ok := ParseNumber(raw)
	if !ok && strings.TrimSpace(raw) != "" {
		p.issues = append(p.issues, Issue{Row: p.index, Column: col, Value: raw, Reason: "not a number"})
	}
	return v
}

// integer rounds to the nearest int. Values outside the int range become 0.
func (p *cellParser) integer(col string) int {
	v := math.Round(p.number(col))
	if v < math.MinInt || v >= math.MaxInt {
		p.issues = append(p.issues, Issue{Row: p.index, Column: col, Value: p.row[col], Reason: "out of range"})
		return 0
	}
	return int(v)
}

// ParseNumber leniently parses a numeric cell. Empty, malformed and
// non-finite input yields (0, false).
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
