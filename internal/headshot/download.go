package headshot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/WTMsoft/PremScout/internal/store"
	"golang.org/x/sync/errgroup"
)

const downloadWorkers = 4

// FileName is the on-disk name of a player's headshot.
func FileName(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	return clean + ".jpg"
}

// Download saves each entry's image into st and returns how many were written.
// A failed image is logged and skipped. Relative URLs resolve against BaseURL.
func (s *Scraper) Download(ctx context.Context, st *store.FileStore, entries []Entry) (int, error) {
	base, err := url.Parse(s.BaseURL)
	if err != nil {
		return 0, err
	}

	var saved atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(downloadWorkers)
	for _, e := range entries {
		if strings.TrimSpace(e.Name) == "" || strings.TrimSpace(e.ImageURL) == "" {
			continue
		}
		g.Go(func() error {
			ref, err := url.Parse(strings.TrimSpace(e.ImageURL))
			if err != nil {
				s.warn("bad image url", e.Name, err)
				return nil
			}
			body, err := s.image(ctx, base.ResolveReference(ref).String())
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				s.warn("image download failed", e.Name, err)
				return nil
			}
			if err := st.WriteRaw(FileName(e.Name), body); err != nil {
				return err
			}
			saved.Add(1)
			return nil
		})
	}
	err = g.Wait()
	return int(saved.Load()), err
}

func (s *Scraper) image(ctx context.Context, target string) ([]byte, error) {
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
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s failed: %d", target, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
