package main

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/WTMsoft/PremScout/internal/catalog"
	"github.com/WTMsoft/PremScout/internal/lineup"
	"github.com/WTMsoft/PremScout/internal/player"
	"github.com/WTMsoft/PremScout/internal/query"
	"github.com/go-playground/validator/v10"
)

var (
	errInvalidArgs    = errors.New("invalid arguments")
	errPlayerNotFound = errors.New("player not found")
)

var validate = validator.New()

// ListPlayersArgs are the input arguments for the list_players tool.
type ListPlayersArgs struct {
	Name     string   `json:"name,omitempty" jsonschema:"Case-insensitive substring of the player name"`
	Position string   `json:"position,omitempty" jsonschema:"Position code: GKP|DEF|MID|FWD" validate:"omitempty,oneof=GKP DEF MID FWD"`
	Team     string   `json:"team,omitempty" jsonschema:"Exact team name (see list_teams)"`
	MinPrice *float64 `json:"min_price,omitempty" jsonschema:"Minimum price in millions (default 0)" validate:"omitempty,gte=0"`
	MaxPrice *float64 `json:"max_price,omitempty" jsonschema:"Maximum price in millions (default 20.0)" validate:"omitempty,gte=0"`
	Sort     string   `json:"sort,omitempty" jsonschema:"Sort field, e.g. predicted_points, total_points, now_cost, name"`
	Desc     *bool    `json:"desc,omitempty" jsonschema:"Sort descending (default true)"`
	Page     int      `json:"page,omitempty" jsonschema:"1-based page number (default 1); out-of-range pages are clamped"`
	PageSize int      `json:"page_size,omitempty" jsonschema:"Players per page (default 20)" validate:"gte=0,lte=100"`
}

// PlayerCardArgs are the input arguments for the player_card tool.
type PlayerCardArgs struct {
	Name string `json:"name" jsonschema:"Player name (exact or partial)" validate:"required"`
}

// PlayerCard is the display form of one player.
type PlayerCard struct {
	Name            string  `json:"name"`
	Team            string  `json:"team"`
	Position        string  `json:"position"`
	PositionLabel   string  `json:"position_label"`
	Price           string  `json:"price"`
	NowCost         int     `json:"now_cost"`
	TotalPoints     int     `json:"total_points"`
	GoalsScored     int     `json:"goals_scored"`
	Assists         int     `json:"assists"`
	CleanSheets     int     `json:"clean_sheets"`
	YellowCards     int     `json:"yellow_cards"`
	RedCards        int     `json:"red_cards"`
	Minutes         int     `json:"minutes"`
	Form            float64 `json:"form"`
	SavesPer90      float64 `json:"saves_per_90"`
	PredictedPoints float64 `json:"predicted_points"`
	ExpectedGoals   float64 `json:"expected_goals"`
	Value           int     `json:"value"`
	ValueStars      string  `json:"value_stars"`
	ImageURL        string  `json:"image_url"`
}

func newPlayerCard(r player.Record) PlayerCard {
	return PlayerCard{
		Name:            r.Name,
		Team:            r.Team,
		Position:        string(r.Position),
		PositionLabel:   r.Position.Label(),
		Price:           r.DisplayPrice(),
		NowCost:         r.NowCost,
		TotalPoints:     r.TotalPoints,
		GoalsScored:     r.GoalsScored,
		Assists:         r.Assists,
		CleanSheets:     r.CleanSheets,
		YellowCards:     r.YellowCards,
		RedCards:        r.RedCards,
		Minutes:         r.Minutes,
		Form:            r.Form,
		SavesPer90:      r.SavesPer90,
		PredictedPoints: r.PredictedPoints,
		ExpectedGoals:   r.ExpectedGoals,
		Value:           r.Value,
		ValueStars:      r.ValueStars(),
		ImageURL:        r.ImageURL,
	}
}

func newPlayerCards(records []player.Record) []PlayerCard {
	out := make([]PlayerCard, len(records))
	for i, r := range records {
		out[i] = newPlayerCard(r)
	}
	return out
}

// ListPlayersOutput is the output of the list_players tool.
type ListPlayersOutput struct {
	Filter      query.FilterCriteria `json:"filter"`
	Sort        query.SortSpec       `json:"sort"`
	CurrentPage int                  `json:"current_page"`
	TotalPages  int                  `json:"total_pages"`
	TotalItems  int                  `json:"total_items"`
	PageSize    int                  `json:"page_size"`
	Players     []PlayerCard         `json:"players"`
}

// listState turns tool arguments into a browsing state.
func listState(args ListPlayersArgs) (query.State, error) {
	if err := validate.Struct(args); err != nil {
		return query.State{}, errors.Join(errInvalidArgs, err)
	}

	criteria := query.DefaultFilter()
	criteria.NamePattern = strings.TrimSpace(args.Name)
	criteria.Position = player.Position(args.Position)
	criteria.Team = strings.TrimSpace(args.Team)
	if args.MinPrice != nil {
		criteria.MinPrice = toTenths(*args.MinPrice)
	}
	if args.MaxPrice != nil {
		criteria.MaxPrice = toTenths(*args.MaxPrice)
	}
	if criteria.MinPrice > criteria.MaxPrice {
		return query.State{}, fmt.Errorf("%w: min_price above max_price", errInvalidArgs)
	}

	field, err := query.ParseField(args.Sort)
	if err != nil {
		return query.State{}, errors.Join(errInvalidArgs, err)
	}
	desc := true
	if args.Desc != nil {
		desc = *args.Desc
	}

	return query.NewState().
		WithFilter(criteria).
		WithSort(query.SortSpec{Field: field, Descending: desc}).
		WithPage(args.Page), nil
}

func toTenths(millions float64) float64 {
	return math.Round(millions * 10)
}

func buildListPlayers(cat *catalog.Catalog, args ListPlayersArgs, defaultPageSize int) (ListPlayersOutput, error) {
	state, err := listState(args)
	if err != nil {
		return ListPlayersOutput{}, err
	}
	size := args.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	page := cat.Query(state, size)
	return ListPlayersOutput{
		Filter:      state.Filter,
		Sort:        state.Sort,
		CurrentPage: page.CurrentPage,
		TotalPages:  page.TotalPages,
		TotalItems:  page.TotalItems,
		PageSize:    page.PageSize,
		Players:     newPlayerCards(page.Items),
	}, nil
}

// LineupRow is one formation line of the team of the week.
type LineupRow struct {
	Position string       `json:"position"`
	Label    string       `json:"label"`
	Wanted   int          `json:"wanted"`
	Players  []PlayerCard `json:"players"`
}

// LineupOutput is the output of the team_of_the_week tool.
type LineupOutput struct {
	Formation string      `json:"formation"`
	Size      int         `json:"size"`
	Rows      []LineupRow `json:"rows"`
}

func buildTeamOfTheWeek(cat *catalog.Catalog) LineupOutput {
	f := lineup.DefaultFormation
	lu := cat.Lineup(f)

	counts := make([]string, 0, len(f))
	rows := make([]LineupRow, len(lu.Rows))
	for i, row := range lu.Rows {
		counts = append(counts, fmt.Sprint(f[i].Count))
		rows[i] = LineupRow{
			Position: string(row.Position),
			Label:    row.Position.Label(),
			Wanted:   f[i].Count,
			Players:  newPlayerCards(row.Players),
		}
	}
	return LineupOutput{
		Formation: strings.Join(counts, "-"),
		Size:      lu.Size(),
		Rows:      rows,
	}
}

func buildPlayerCard(cat *catalog.Catalog, args PlayerCardArgs) (PlayerCard, error) {
	if err := validate.Struct(args); err != nil {
		return PlayerCard{}, errors.Join(errInvalidArgs, err)
	}
	r, ok := cat.Lookup(args.Name)
	if !ok {
		return PlayerCard{}, fmt.Errorf("%w: %s", errPlayerNotFound, args.Name)
	}
	return newPlayerCard(r), nil
}

// TeamsOutput is the output of the list_teams tool.
type TeamsOutput struct {
	Count int      `json:"count"`
	Teams []string `json:"teams"`
}

func buildTeams(cat *catalog.Catalog) TeamsOutput {
	teams := cat.Teams()
	return TeamsOutput{Count: len(teams), Teams: teams}
}

// StatusOutput is the output of the dataset_status tool.
type StatusOutput struct {
	Status  catalog.Status   `json:"status"`
	Error   string           `json:"error,omitempty"`
	Catalog *catalog.Summary `json:"catalog,omitempty"`
}

func buildStatus(h *catalog.Holder) StatusOutput {
	out := StatusOutput{Status: h.Status()}
	cat, err := h.Catalog()
	switch {
	case err == nil:
		sum := cat.Summary()
		out.Catalog = &sum
	case out.Status == catalog.StatusFailed:
		out.Error = err.Error()
	}
	return out
}
