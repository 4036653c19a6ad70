package feed

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/WTMsoft/PremScout/internal/fetch"
	"github.com/WTMsoft/PremScout/internal/headshot"
	"github.com/WTMsoft/PremScout/internal/player"
	"github.com/WTMsoft/PremScout/internal/store"
	"github.com/stretchr/testify/require"
)

func TestParseRows(t *testing.T) {
	in := "\ufeffname, team ,position,now_cost\n" +
		"Saka,ARS,MID,102\n" +
		"\n" +
		",,,\n" +
		"Raya,ARS\n" +
		"\"Smith Rowe, Emile\",FUL,MID,60,extra\n"

	rows, err := ParseRows(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, []player.RawRow{
		{"name": "Saka", "team": "ARS", "position": "MID", "now_cost": "102"},
		{"name": "Raya", "team": "ARS"},
		{"name": "Smith Rowe, Emile", "team": "FUL", "position": "MID", "now_cost": "60"},
	}, rows)
}

func TestParseRowsEmpty(t *testing.T) {
	rows, err := ParseRows(strings.NewReader(""))
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestParseHeadshotsDiscardsFirstLine(t *testing.T) {
	in := "player,image\nSaka,https://img/saka.png\nNoURL\n\nRice,https://img/rice.png\n"

	entries, err := ParseHeadshots(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, []headshot.Entry{
		{Name: "Saka", ImageURL: "https://img/saka.png"},
		{Name: "NoURL"},
		{Name: "Rice", ImageURL: "https://img/rice.png"},
	}, entries)
}

func TestWriteHeadshotsRoundTrip(t *testing.T) {
	entries := []headshot.Entry{
		{Name: "Saka", ImageURL: "https://img/saka.png"},
		{Name: "O'Reilly, Jr", ImageURL: "https://img/o.png"},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteHeadshots(&buf, entries))
	require.True(t, strings.HasPrefix(buf.String(), "name,url\n"))

	got, err := ParseHeadshots(&buf)
	require.NoError(t, err)
	require.Equal(t, entries, got)
}

func TestCSVProvidersOverHTTP(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/players.csv", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("name,team\nSaka,ARS\n"))
	})
	mux.HandleFunc("/headshots.csv", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("name,url\nSaka,https://img/saka.png\n"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := fetch.NewClient(store.NewFileStore(t.TempDir()))
	res, err := LoadAll(context.Background(),
		&CSVDataset{Client: client, Source: srv.URL + "/players.csv"},
		&CSVHeadshots{Client: client, Source: srv.URL + "/headshots.csv"},
	)
	require.NoError(t, err)
	require.Equal(t, []player.RawRow{{"name": "Saka", "team": "ARS"}}, res.Rows)
	require.Equal(t, []headshot.Entry{{Name: "Saka", ImageURL: "https://img/saka.png"}}, res.Entries)
}

func TestCSVHeadshotsEmptySource(t *testing.T) {
	entries, err := (&CSVHeadshots{}).FetchHeadshotEntries(context.Background())
	require.NoError(t, err)
	require.Nil(t, entries)
}

type slowDataset struct {
	started chan struct{}
	done    atomic.Bool
}

func (s *slowDataset) FetchPlayerRows(ctx context.Context) ([]player.RawRow, error) {
	close(s.started)
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(5 * time.Second):
		s.done.Store(true)
		return nil, nil
	}
}

type failingHeadshots struct {
	wait <-chan struct{}
}

func (f failingHeadshots) FetchHeadshotEntries(context.Context) ([]headshot.Entry, error) {
	<-f.wait
	return nil, errors.New("headshots down")
}

func TestLoadAllCancelsOnFirstError(t *testing.T) {
	ds := &slowDataset{started: make(chan struct{})}

	start := time.Now()
	_, err := LoadAll(context.Background(), ds, failingHeadshots{wait: ds.started})
	require.EqualError(t, err, "headshots down")
	require.False(t, ds.done.Load())
	require.Less(t, time.Since(start), 5*time.Second)
}

func TestLoadAllWithoutHeadshots(t *testing.T) {
	res, err := LoadAll(context.Background(), StaticDataset{{"name": "a"}}, nil)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	require.Nil(t, res.Entries)
}
