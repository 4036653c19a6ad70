package player

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeValueExample(t *testing.T) {
	rows := []RawRow{
		{"name": " Bob ", "team": "X", "position": "FWD", "predicted_points": "8.0"},
		{"name": "Al", "team": "X", "position": "FWD", "predicted_points": "4.0"},
	}

	records, issues, err := Normalize(rows)
	require.NoError(t, err)
	require.Empty(t, issues)
	require.Len(t, records, 2)
	require.Equal(t, "Bob", records[0].Name)
	require.Equal(t, 5, records[0].Value)
	require.Equal(t, "Al", records[1].Name)
	require.Equal(t, 3, records[1].Value)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	rows := []RawRow{
		{"name": "Saka", "team": "ARS", "position": "MID", "now_cost": "10.2", "predicted_points": "6.4", "form": "7.1"},
		{"name": "Raya", "team": "ARS", "position": "GKP", "now_cost": "55", "predicted_points": "", "saves_per_90": "2.3"},
		{"name": "Haaland", "team": "MCI", "position": "FWD", "now_cost": "150", "predicted_points": "9.8", "goals_scored": "27"},
	}

	first, firstIssues, err := Normalize(rows)
	require.NoError(t, err)
	second, secondIssues, err := Normalize(rows)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, firstIssues, secondIssues)
}

func TestNormalizeValueBounds(t *testing.T) {
	rows := []RawRow{
		{"name": "a", "position": "DEF", "predicted_points": "0"},
		{"name": "b", "position": "DEF", "predicted_points": "0.1"},
		{"name": "c", "position": "DEF", "predicted_points": "3.3"},
		{"name": "d", "position": "DEF", "predicted_points": "6.6"},
		{"name": "e", "position": "MID", "predicted_points": "0.4"},
		{"name": "f", "position": "GKP", "predicted_points": "-2"},
		{"name": "g", "position": "", "predicted_points": "abc"},
	}

	records, _, err := Normalize(rows)
	require.NoError(t, err)
	for _, r := range records {
		require.GreaterOrEqual(t, r.Value, MinValue, r.Name)
		require.LessOrEqual(t, r.Value, MaxValue, r.Name)
	}
	require.Equal(t, 5, records[3].Value, "position max scores 5")
	require.Equal(t, 3, records[2].Value)
	require.Equal(t, 1, records[0].Value)
	// Max floors at 1, so a lone 0.4 scores round(2.0) = 2.
	require.Equal(t, 2, records[4].Value)
}

func TestNormalizeTiedMaximum(t *testing.T) {
	records, _, err := Normalize([]RawRow{
		{"name": "a", "position": "FWD", "predicted_points": "8.4"},
		{"name": "b", "position": "FWD", "predicted_points": "4.2"},
		{"name": "c", "position": "FWD", "predicted_points": "8.4"},
	})
	require.NoError(t, err)
	require.Equal(t, 5, records[0].Value)
	require.Equal(t, 5, records[2].Value)
	require.Equal(t, 3, records[1].Value)
}

func TestNormalizeLenientCells(t *testing.T) {
	rows := []RawRow{
		{
			"name":             "Palmer",
			"team":             " CHE ",
			"position":         "MID",
			"now_cost":         "10.6",
			"total_points":     "n/a",
			"minutes":          " 2100 ",
			"form":             "NaN",
			"expected_goals":   "Inf",
			"predicted_points": "7.25",
		},
	}

	records, issues, err := Normalize(rows)
	require.NoError(t, err)
	r := records[0]
	require.Equal(t, "CHE", r.Team)
	require.Equal(t, 11, r.NowCost)
	require.Equal(t, 0, r.TotalPoints)
	require.Equal(t, 2100, r.Minutes)
	require.InDelta(t, 0, r.Form, 0)
	require.InDelta(t, 0, r.ExpectedGoals, 0)
	require.InDelta(t, 7.25, r.PredictedPoints, 1e-9)
	require.Equal(t, 0, r.Assists, "missing column defaults to zero")

	cols := make([]string, 0, len(issues))
	for _, is := range issues {
		require.Equal(t, 0, is.Row)
		cols = append(cols, is.Column)
	}
	require.ElementsMatch(t, []string{ColTotalPoints, ColForm, ColExpectedGoals}, cols)
}

func TestNormalizeIntegerOutOfRange(t *testing.T) {
	records, issues, err := Normalize([]RawRow{
		{"name": "x", "now_cost": "1e20", "minutes": "-1e30", "total_points": "9.3e18"},
	})
	require.NoError(t, err)
	r := records[0]
	require.Equal(t, 0, r.NowCost)
	require.Equal(t, 0, r.Minutes)
	require.Equal(t, 0, r.TotalPoints)

	cols := make([]string, 0, len(issues))
	for _, is := range issues {
		require.Equal(t, "out of range", is.Reason)
		cols = append(cols, is.Column)
	}
	require.ElementsMatch(t, []string{ColNowCost, ColMinutes, ColTotalPoints}, cols)
}

func TestNormalizeUnknownPosition(t *testing.T) {
	records, issues, err := Normalize([]RawRow{{"name": "x", "position": " GK "}})
	require.NoError(t, err)
	require.Equal(t, Position("GK"), records[0].Position)
	require.Len(t, issues, 1)
	require.Equal(t, ColPosition, issues[0].Column)
}

func TestNormalizeMalformed(t *testing.T) {
	tests := []struct {
		name string
		rows []RawRow
	}{
		{name: "empty", rows: nil},
		{name: "no name column", rows: []RawRow{{"team": "ARS"}, {"position": "MID"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Normalize(tt.rows)
			require.Error(t, err)
			malformed, ok := AsMalformedDatasetError(err)
			require.True(t, ok)
			require.NotEmpty(t, malformed.Reason)
		})
	}
}

func TestRecordDisplay(t *testing.T) {
	r := Record{NowCost: 75, Value: 3}
	require.Equal(t, "$7.5M", r.DisplayPrice())
	require.Equal(t, "★★★☆☆", r.ValueStars())
	require.Equal(t, "Forward", Forward.Label())
	require.Equal(t, "XYZ", Position("XYZ").Label())
}
