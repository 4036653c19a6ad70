package query

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/WTMsoft/PremScout/internal/player"
	"golang.org/x/exp/slices"
)

var ErrUnknownField = errors.New("unknown sort field")

// Field names a sortable record attribute. The zero value means unsorted.
type Field string

const (
	FieldNone            Field = ""
	FieldName            Field = player.ColName
	FieldTeam            Field = player.ColTeam
	FieldPosition        Field = player.ColPosition
	FieldNowCost         Field = player.ColNowCost
	FieldTotalPoints     Field = player.ColTotalPoints
	FieldGoalsScored     Field = player.ColGoalsScored
	FieldAssists         Field = player.ColAssists
	FieldCleanSheets     Field = player.ColCleanSheets
	FieldYellowCards     Field = player.ColYellowCards
	FieldRedCards        Field = player.ColRedCards
	FieldMinutes         Field = player.ColMinutes
	FieldForm            Field = player.ColForm
	FieldSavesPer90      Field = player.ColSavesPer90
	FieldPredictedPoints Field = player.ColPredictedPoints
	FieldExpectedGoals   Field = player.ColExpectedGoals
	FieldValue           Field = "value"
)

// Fields lists every sortable field.
var Fields = []Field{
	FieldName, FieldTeam, FieldPosition, FieldNowCost, FieldTotalPoints,
	FieldGoalsScored, FieldAssists, FieldCleanSheets, FieldYellowCards,
	FieldRedCards, FieldMinutes, FieldForm, FieldSavesPer90,
	FieldPredictedPoints, FieldExpectedGoals, FieldValue,
}

var fieldAliases = map[string]Field{
	"nowcost":         FieldNowCost,
	"price":           FieldNowCost,
	"totalpoints":     FieldTotalPoints,
	"points":          FieldTotalPoints,
	"goalsscored":     FieldGoalsScored,
	"goals":           FieldGoalsScored,
	"cleansheets":     FieldCleanSheets,
	"yellowcards":     FieldYellowCards,
	"redcards":        FieldRedCards,
	"savesper90":      FieldSavesPer90,
	"predictedpoints": FieldPredictedPoints,
	"expectedgoals":   FieldExpectedGoals,
	"xg":              FieldExpectedGoals,
}

// ParseField resolves a column name or camelCase alias. An empty string is FieldNone.
func ParseField(s string) (Field, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return FieldNone, nil
	}
	lower := strings.ToLower(s)
	for _, f := range Fields {
		if string(f) == lower {
			return f, nil
		}
	}
	if f, ok := fieldAliases[strings.ReplaceAll(lower, "_", "")]; ok {
		return f, nil
	}
	return FieldNone, fmt.Errorf("%w: %q", ErrUnknownField, s)
}

type SortSpec struct {
	Field      Field `json:"field,omitempty"`
	Descending bool  `json:"descending"`
}

// Sort returns a stably sorted copy. Equal keys keep their input order.
func Sort(records []player.Record, spec SortSpec) []player.Record {
	out := slices.Clone(records)
	if spec.Field == FieldNone {
		return out
	}
	slices.SortStableFunc(out, func(a, b player.Record) int {
		c := compareKeys(keyOf(a, spec.Field), keyOf(b, spec.Field))
		if spec.Descending {
			return -c
		}
		return c
	})
	return out
}

type sortKey struct {
	num   float64
	str   string
	isNum bool
}

func numKey(v float64) sortKey { return sortKey{num: v, isNum: true} }

// strKey coerces numeric-looking text to a number.
func strKey(s string) sortKey {
	if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
		return numKey(v)
	}
	return sortKey{str: strings.ToLower(s)}
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

func keyOf(r player.Record, f Field) sortKey {
	switch f {
	case FieldName:
		return strKey(r.Name)
	case FieldTeam:
		return strKey(r.Team)
	case FieldPosition:
		return strKey(string(r.Position))
	case FieldNowCost:
		return numKey(float64(r.NowCost))
	case FieldTotalPoints:
		return numKey(float64(r.TotalPoints))
	case FieldGoalsScored:
		return numKey(float64(r.GoalsScored))
	case FieldAssists:
		return numKey(float64(r.Assists))
	case FieldCleanSheets:
		return numKey(float64(r.CleanSheets))
	case FieldYellowCards:
		return numKey(float64(r.YellowCards))
	case FieldRedCards:
		return numKey(float64(r.RedCards))
	case FieldMinutes:
		return numKey(float64(r.Minutes))
	case FieldForm:
		return numKey(r.Form)
	case FieldSavesPer90:
		return numKey(r.SavesPer90)
	case FieldPredictedPoints:
		return numKey(roundTenth(r.PredictedPoints))
	case FieldExpectedGoals:
		return numKey(roundTenth(r.ExpectedGoals))
	case FieldValue:
		return numKey(float64(r.Value))
	}
	return sortKey{}
}

// compareKeys orders numbers before strings.
func compareKeys(a, b sortKey) int {
	switch {
	case a.isNum && b.isNum:
		return cmp.Compare(a.num, b.num)
	case a.isNum:
		return -1
	case b.isNum:
		return 1
	}
	return cmp.Compare(a.str, b.str)
}
