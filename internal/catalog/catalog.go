package catalog

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/WTMsoft/PremScout/internal/headshot"
	"github.com/WTMsoft/PremScout/internal/lineup"
	"github.com/WTMsoft/PremScout/internal/player"
	"github.com/WTMsoft/PremScout/internal/query"
	"github.com/google/uuid"
)

// Catalog is an immutable snapshot of normalized, joined player records.
// All accessors return copies.
type Catalog struct {
	id       uuid.UUID
	loadedAt time.Time
	records  []player.Record
	teams    []string
	issues   []player.Issue
	warnings []headshot.Warning
}

type Option func(*Catalog)

func WithClock(now func() time.Time) Option {
	return func(c *Catalog) { c.loadedAt = now() }
}

// Build normalizes rows and joins headshots into a new snapshot.
func Build(rows []player.RawRow, entries []headshot.Entry, opts ...Option) (*Catalog, error) {
	records, issues, err := player.Normalize(rows)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}
	joined, warnings := headshot.Join(records, entries)

	c := &Catalog{
		id:       uuid.New(),
		loadedAt: time.Now(),
		records:  joined,
		teams:    uniqueTeams(joined),
		issues:   issues,
		warnings: warnings,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func uniqueTeams(records []player.Record) []string {
	seen := make(map[string]struct{})
	var teams []string
	for _, r := range records {
		if r.Team == "" {
			continue
		}
		if _, ok := seen[r.Team]; ok {
			continue
		}
		seen[r.Team] = struct{}{}
		teams = append(teams, r.Team)
	}
	sort.Strings(teams)
	return teams
}

func (c *Catalog) ID() uuid.UUID       { return c.id }
func (c *Catalog) LoadedAt() time.Time { return c.loadedAt }
func (c *Catalog) Len() int            { return len(c.records) }

func (c *Catalog) Records() []player.Record {
	return append([]player.Record(nil), c.records...)
}

func (c *Catalog) Teams() []string {
	return append([]string(nil), c.teams...)
}

func (c *Catalog) Issues() []player.Issue {
	return append([]player.Issue(nil), c.issues...)
}

func (c *Catalog) Warnings() []headshot.Warning {
	return append([]headshot.Warning(nil), c.warnings...)
}

// Query applies the state's filter, sort and page to the snapshot.
func (c *Catalog) Query(s query.State, pageSize int) query.Page {
	return s.Apply(c.records, pageSize)
}

func (c *Catalog) Lineup(f lineup.Formation) lineup.Lineup {
	return lineup.Select(c.records, f)
}

// Lookup finds a player by exact normalized name, then by first substring match.
func (c *Catalog) Lookup(name string) (player.Record, bool) {
	key := headshot.NormalizeName(name)
	if key == "" {
		return player.Record{}, false
	}
	for _, r := range c.records {
		if headshot.NormalizeName(r.Name) == key {
			return r, true
		}
	}
	for _, r := range c.records {
		if r.Name != "" && strings.Contains(headshot.NormalizeName(r.Name), key) {
			return r, true
		}
	}
	return player.Record{}, false
}

// Summary describes the snapshot for status output.
type Summary struct {
	ID       string    `json:"id"`
	LoadedAt time.Time `json:"loaded_at"`
	Records  int       `json:"records"`
	Teams    int       `json:"teams"`
	Issues   int       `json:"issues"`
	Warnings int       `json:"warnings"`
	Missing  int       `json:"missing_headshots"`
}

func (c *Catalog) Summary() Summary {
	missing := 0
	for _, r := range c.records {
		if r.ImageURL == headshot.Placeholder {
			missing++
		}
	}
	return Summary{
		ID:       c.id.String(),
		LoadedAt: c.loadedAt,
		Records:  len(c.records),
		Teams:    len(c.teams),
		Issues:   len(c.issues),
		Warnings: len(c.warnings),
		Missing:  missing,
	}
}
