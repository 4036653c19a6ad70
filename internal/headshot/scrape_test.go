package headshot

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScraperCollectsPlayerImages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/players", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body>
			<a class="playerName" href="/players/1/saka">Bukayo Saka</a>
			<a class="playerName" href="/players/2/rice"> Declan Rice </a>
			<a class="playerName" href="/players/3/gone">Gone Player</a>
			<a class="playerName" href="/players/4/noimg">No Image</a>
			<a class="other" href="/players/5/skip">Skipped</a>
		</body></html>`)
	})
	mux.HandleFunc("/players/1/saka", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<img class="playerImage" src="https://img/saka.png">`)
	})
	mux.HandleFunc("/players/2/rice", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<img class="playerImage" src=" https://img/rice.png ">`)
	})
	mux.HandleFunc("/players/3/gone", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/players/4/noimg", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<p>nothing here</p>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := NewScraper(nil)
	s.BaseURL = srv.URL

	entries, err := s.Scrape(context.Background())
	require.NoError(t, err)
	require.Equal(t, []Entry{
		{Name: "Bukayo Saka", ImageURL: "https://img/saka.png"},
		{Name: "Declan Rice", ImageURL: "https://img/rice.png"},
	}, entries)
}

func TestScraperIndexFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := NewScraper(nil)
	s.BaseURL = srv.URL

	_, err := s.Scrape(context.Background())
	require.ErrorIs(t, err, errScrape)
}
