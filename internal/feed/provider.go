package feed

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/WTMsoft/PremScout/internal/fetch"
	"github.com/WTMsoft/PremScout/internal/headshot"
	"github.com/WTMsoft/PremScout/internal/player"
)

// DefaultDatasetURL is the published player dataset.
const DefaultDatasetURL = "https://black-selected-toucan-858.mypinata.cloud/ipfs/QmdGnDedJiUxYtsSiZ2j79DTrkBcaU1prfqdjgogNgCNBt"

// DatasetProvider yields raw player rows.
type DatasetProvider interface {
	FetchPlayerRows(ctx context.Context) ([]player.RawRow, error)
}

// HeadshotProvider yields name to image URL entries.
type HeadshotProvider interface {
	FetchHeadshotEntries(ctx context.Context) ([]headshot.Entry, error)
}

// CSVDataset reads the player CSV through a fetch client.
type CSVDataset struct {
	Client *fetch.Client
	Source string
	Force  bool
}

func (d *CSVDataset) FetchPlayerRows(ctx context.Context) ([]player.RawRow, error) {
	body, err := d.Client.Dataset(ctx, d.Source, d.Force)
	if err != nil {
		return nil, err
	}
	rows, err := ParseRows(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", d.Source, err)
	}
	return rows, nil
}

// CSVHeadshots reads the headshot CSV. An empty Source yields no entries.
type CSVHeadshots struct {
	Client *fetch.Client
	Source string
	Force  bool
}

func (h *CSVHeadshots) FetchHeadshotEntries(ctx context.Context) ([]headshot.Entry, error) {
	if strings.TrimSpace(h.Source) == "" {
		return nil, nil
	}
	body, err := h.Client.Headshots(ctx, h.Source, h.Force)
	if err != nil {
		return nil, err
	}
	entries, err := ParseHeadshots(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("headshots %s: %w", h.Source, err)
	}
	return entries, nil
}

// StaticDataset serves fixed rows, for fixtures and tests.
type StaticDataset []player.RawRow

func (s StaticDataset) FetchPlayerRows(context.Context) ([]player.RawRow, error) {
	return s, nil
}

// StaticHeadshots serves fixed entries, for fixtures and tests.
type StaticHeadshots []headshot.Entry

func (s StaticHeadshots) FetchHeadshotEntries(context.Context) ([]headshot.Entry, error) {
	return s, nil
}
