package headshot

import (
	"strings"

	"github.com/WTMsoft/PremScout/internal/player"
)

// Placeholder is attached to players without a known headshot.
const Placeholder = "/placeholder.png"

// Entry maps a player name to an image URL.
type Entry struct {
	Name     string `json:"name"`
	ImageURL string `json:"url"`
}

type WarningKind string

const (
	WarnEmptyName WarningKind = "empty_name"
	WarnEmptyURL  WarningKind = "empty_url"
	WarnDuplicate WarningKind = "duplicate"
)

// Warning is a non-fatal problem with one headshot entry.
type Warning struct {
	Index int         `json:"index"`
	Name  string      `json:"name"`
	Kind  WarningKind `json:"kind"`
}

// NormalizeName is the join key shared by records and headshot entries.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Index is a name lookup built from headshot entries.
type Index map[string]string

// BuildIndex keeps the first URL seen for each normalized name.
func BuildIndex(entries []Entry) (Index, []Warning) {
	var warnings []Warning
	idx := make(Index, len(entries))
	for i, e := range entries {
		key := NormalizeName(e.Name)
		url := strings.TrimSpace(e.ImageURL)
		switch {
		case key == "":
			warnings = append(warnings, Warning{Index: i, Name: e.Name, Kind: WarnEmptyName})
			continue
		case url == "":
			warnings = append(warnings, Warning{Index: i, Name: e.Name, Kind: WarnEmptyURL})
			continue
		}
		if _, ok := idx[key]; ok {
			warnings = append(warnings, Warning{Index: i, Name: e.Name, Kind: WarnDuplicate})
			continue
		}
		idx[key] = url
	}
	return idx, warnings
}

// Lookup returns the URL for name, or Placeholder.
func (idx Index) Lookup(name string) string {
	if url, ok := idx[NormalizeName(name)]; ok {
		return url
	}
	return Placeholder
}

// Join attaches an image URL to every record. Output order and length match the input.
func Join(records []player.Record, entries []Entry) ([]player.Record, []Warning) {
	idx, warnings := BuildIndex(entries)
	out := make([]player.Record, len(records))
	for i, r := range records {
		r.ImageURL = idx.Lookup(r.Name)
		out[i] = r
	}
	return out, warnings
}
