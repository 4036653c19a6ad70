package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/WTMsoft/PremScout/internal/catalog"
	"github.com/WTMsoft/PremScout/internal/feed"
	"github.com/WTMsoft/PremScout/internal/fetch"
	"github.com/WTMsoft/PremScout/internal/headshot"
	"github.com/WTMsoft/PremScout/internal/logging"
	"github.com/WTMsoft/PremScout/internal/store"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Download both feeds into the cache",
		Long:  "Download the player dataset and headshot CSVs, bypassing the cache, and report what was loaded.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			cat, err := a.catalogLoader(true).Load(cmd.Context())
			if err != nil {
				return err
			}
			return printSummary(cmd, a, cat)
		},
	}
}

func printSummary(cmd *cobra.Command, a *app, cat *catalog.Catalog) error {
	sum := cat.Summary()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Loaded %s players from %d teams (%s)\n",
		humanize.Comma(int64(sum.Records)), sum.Teams, sum.ID)
	fmt.Fprintf(out, "  %d rows with issues, %d headshot warnings, %d players without a headshot\n",
		sum.Issues, sum.Warnings, sum.Missing)

	st := store.NewFileStore(a.cfg.CacheDir)
	for _, rel := range []string{fetch.DatasetCachePath, fetch.HeadshotsCachePath} {
		mod, err := st.ModTime(rel)
		if err != nil {
			continue
		}
		fmt.Fprintf(out, "  %s cached %s\n", st.Path(rel), humanize.Time(mod))
	}
	return nil
}

func newHeadshotsCmd() *cobra.Command {
	var (
		outPath  string
		download string
	)
	cmd := &cobra.Command{
		Use:   "headshots",
		Short: "Scrape player headshots into a name,url CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			scraper := headshot.NewScraper(a.logger)
			scraper.BaseURL = a.cfg.HeadshotsBaseURL
			scraper.UserAgent = a.cfg.UserAgent

			entries, err := scraper.Scrape(cmd.Context())
			if err != nil && len(entries) == 0 {
				return errors.Join(err, errApp)
			}
			if err != nil {
				a.logger.Warn("Scrape stopped early", logging.Err(err))
			}
			a.logger.Info("Scraped headshots", slog.Int(logging.FieldCount, len(entries)))

			if err := writeHeadshots(cmd, outPath, entries); err != nil {
				return errors.Join(err, errApp)
			}

			if strings.TrimSpace(download) == "" {
				return nil
			}
			saved, err := scraper.Download(cmd.Context(), store.NewFileStore(download), entries)
			a.logger.Info("Downloaded headshots",
				slog.Int(logging.FieldCount, saved), slog.String(logging.FieldPath, download))
			return err
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", "CSV output path (default stdout)")
	cmd.Flags().StringVar(&download, "download", "", "Also save each image into this directory")
	return cmd
}

func writeHeadshots(cmd *cobra.Command, path string, entries []headshot.Entry) error {
	if path == "" || path == "-" {
		return feed.WriteHeadshots(cmd.OutOrStdout(), entries)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := feed.WriteHeadshots(f, entries); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
