package fetch

import "context"

// Feed names, used for metrics and cache keys.
const (
	FeedDataset   = "dataset"
	FeedHeadshots = "headshots"
)

// Cache paths, relative to the store root.
const (
	DatasetCachePath   = "feeds/players.csv"
	HeadshotsCachePath = "feeds/headshots.csv"
)

// Dataset fetches the player CSV.
func (c *Client) Dataset(ctx context.Context, source string, force bool) ([]byte, error) {
	return c.Fetch(ctx, FeedDataset, source, DatasetCachePath, force)
}

// Headshots fetches the name,url CSV.
func (c *Client) Headshots(ctx context.Context, source string, force bool) ([]byte, error) {
	return c.Fetch(ctx, FeedHeadshots, source, HeadshotsCachePath, force)
}
