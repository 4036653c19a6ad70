package feed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/WTMsoft/PremScout/internal/headshot"
	"github.com/WTMsoft/PremScout/internal/player"
)

const utf8BOM = "\ufeff"

func newReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader
}

// ParseRows reads a CSV with a header row into raw rows keyed by column name.
// Short rows simply lack the missing keys. Rows with no content are dropped.
func ParseRows(r io.Reader) ([]player.RawRow, error) {
	reader := newReader(r)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], utf8BOM))
	}

	var rows []player.RawRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		if blank(record) {
			continue
		}

		row := make(player.RawRow, len(header))
		for i, value := range record {
			if i >= len(header) || header[i] == "" {
				continue
			}
			if _, dup := row[header[i]]; dup {
				continue
			}
			row[header[i]] = value
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ParseHeadshots reads a two-column name,url CSV. The first line is always a header.
func ParseHeadshots(r io.Reader) ([]headshot.Entry, error) {
	reader := newReader(r)

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read headshot header: %w", err)
	}

	var entries []headshot.Entry
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read headshot row: %w", err)
		}
		if blank(record) {
			continue
		}
		e := headshot.Entry{Name: record[0]}
		if len(record) > 1 {
			e.ImageURL = record[1]
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// WriteHeadshots writes entries in the format ParseHeadshots reads.
func WriteHeadshots(w io.Writer, entries []headshot.Entry) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"name", "url"}); err != nil {
		return err
	}
	for _, e := range entries {
		if err := writer.Write([]string{e.Name, e.ImageURL}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
