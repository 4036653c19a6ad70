package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const testCSV = `name,team,position,now_cost,total_points,minutes,predicted_points
Bukayo Saka,Arsenal,MID,102,180,2890,6.4
David Raya,Arsenal,GKP,55,150,3420,4.1
Erling Haaland,Man City,FWD,150,200,2500,9.8
Cole Palmer,Chelsea,MID,106,210,3000,7.0
`

const testHeadshotsCSV = `name,url
Erling Haaland,https://img/haaland.png
`

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	dir := t.TempDir()
	dataset := filepath.Join(dir, "players.csv")
	headshots := filepath.Join(dir, "headshots.csv")
	require.NoError(t, os.WriteFile(dataset, []byte(testCSV), 0o600))
	require.NoError(t, os.WriteFile(headshots, []byte(testHeadshotsCSV), 0o600))

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{
		"--dataset-url", dataset,
		"--headshots-url", headshots,
		"--cache-dir", filepath.Join(dir, "cache"),
		"--log-level", "error",
	}, args...))
	require.NoError(t, root.ExecuteContext(context.Background()))
	return out.String()
}

func TestPlayersCommandJSON(t *testing.T) {
	out := runCLI(t, "players", "--team", "Arsenal", "--sort", "predicted_points", "--json")

	var got ListPlayersOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, 2, got.TotalItems)
	require.Equal(t, "Bukayo Saka", got.Players[0].Name)
	require.Equal(t, "David Raya", got.Players[1].Name)
}

func TestPlayersCommandTable(t *testing.T) {
	out := runCLI(t, "players", "--max-price", "10.5", "--sort", "now_cost", "--asc")
	require.Contains(t, out, "David Raya")
	require.Contains(t, out, "2,890")
	require.Contains(t, out, "sorted by now_cost asc")
	require.NotContains(t, out, "Haaland")
	require.Less(t, strings.Index(out, "David Raya"), strings.Index(out, "Bukayo Saka"))
}

func TestLineupCommand(t *testing.T) {
	out := runCLI(t, "lineup")
	require.Contains(t, out, "Team of the week 1-4-3-3")
	require.Contains(t, out, "4 short")
	require.Contains(t, out, "Erling Haaland (Man City, 9.8)")
}

func TestPlayerCommand(t *testing.T) {
	out := runCLI(t, "player", "erling", "--json")

	var card PlayerCard
	require.NoError(t, json.Unmarshal([]byte(out), &card))
	require.Equal(t, "Erling Haaland", card.Name)
	require.Equal(t, "https://img/haaland.png", card.ImageURL)
	require.Equal(t, "$15.0M", card.Price)
}

func TestTeamsCommand(t *testing.T) {
	out := runCLI(t, "teams")
	require.Equal(t, "Arsenal\nChelsea\nMan City\n", out)
}

func TestRenderCard(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderCard(&buf, PlayerCard{
		Name:          "Cole Palmer",
		Team:          "Chelsea",
		PositionLabel: "Midfielder",
		Price:         "$10.6M",
		Minutes:       3000,
		ValueStars:    "★★★★☆",
	}))
	out := buf.String()
	require.Contains(t, out, "Cole Palmer")
	require.Contains(t, out, "Midfielder")
	require.Contains(t, out, "3,000")
	require.Contains(t, out, "★★★★☆")
}

func TestFetchCommand(t *testing.T) {
	out := runCLI(t, "fetch")
	require.Contains(t, out, "Loaded 4 players from 3 teams")
	require.Contains(t, out, "3 players without a headshot")
	require.Contains(t, out, "players.csv cached")
	require.Contains(t, out, "headshots.csv cached")
}
