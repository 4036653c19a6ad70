package headshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

var errScrape = errors.New("headshot scrape failed")

const DefaultBaseURL = "https://www.premierleague.com"

// Scraper collects headshots from the Premier League players index.
type Scraper struct {
	HTTP      *http.Client
	BaseURL   string
	UserAgent string
	Logger    *slog.Logger
}

func NewScraper(logger *slog.Logger) *Scraper {
	return &Scraper{
		HTTP:      &http.Client{Timeout: 20 * time.Second},
		BaseURL:   DefaultBaseURL,
		UserAgent: "premscout/1.0",
		Logger:    logger,
	}
}

// Scrape reads the players index and visits each player page for its image.
// Players whose page fails are skipped.
func (s *Scraper) Scrape(ctx context.Context) ([]Entry, error) {
	base, err := url.Parse(s.BaseURL)
	if err != nil {
		return nil, errors.Join(err, errScrape)
	}
	index, err := s.document(ctx, base.JoinPath("players").String())
	if err != nil {
		return nil, errors.Join(err, errScrape)
	}

	type link struct{ name, href string }
	var links []link
	index.Find("a.playerName").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		name := strings.TrimSpace(sel.Text())
		if !ok || href == "" || name == "" {
			return
		}
		links = append(links, link{name: name, href: href})
	})

	entries := make([]Entry, 0, len(links))
	for _, l := range links {
		if err := ctx.Err(); err != nil {
			return entries, err
		}
		ref, err := url.Parse(l.href)
		if err != nil {
			s.warn("bad player link", l.name, err)
			continue
		}
		page, err := s.document(ctx, base.ResolveReference(ref).String())
		if err != nil {
			s.warn("player page fetch failed", l.name, err)
			continue
		}
		src, ok := page.Find("img.playerImage").First().Attr("src")
		if !ok || strings.TrimSpace(src) == "" {
			s.warn("player image missing", l.name, nil)
			continue
		}
		entries = append(entries, Entry{Name: l.name, ImageURL: strings.TrimSpace(src)})
	}
	return entries, nil
}

func (s *Scraper) document(ctx context.Context, target string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}
	client := s.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s failed: %d", target, resp.StatusCode)
	}
	return goquery.NewDocumentFromReader(resp.Body)
}

func (s *Scraper) warn(msg, name string, err error) {
	if s.Logger == nil {
		return
	}
	args := []any{slog.String("player", name)}
	if err != nil {
		args = append(args, slog.String("error", err.Error()))
	}
	s.Logger.Warn(msg, args...)
}
