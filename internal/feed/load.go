package feed

import (
	"context"

	"github.com/WTMsoft/PremScout/internal/headshot"
	"github.com/WTMsoft/PremScout/internal/player"
	"golang.org/x/sync/errgroup"
)

// Result holds both feeds once they have resolved.
type Result struct {
	Rows    []player.RawRow
	Entries []headshot.Entry
}

// LoadAll fetches the dataset and headshots concurrently. The first failure
// cancels the other fetch.
func LoadAll(ctx context.Context, ds DatasetProvider, hs HeadshotProvider) (Result, error) {
	var res Result
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := ds.FetchPlayerRows(gctx)
		if err != nil {
			return err
		}
		res.Rows = rows
		return nil
	})

	if hs != nil {
		g.Go(func() error {
			entries, err := hs.FetchHeadshotEntries(gctx)
			if err != nil {
				return err
			}
			res.Entries = entries
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	return res, nil
}
