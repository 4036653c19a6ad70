package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true)
)

func newUnstyledTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderColumn(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderTop(false).
		BorderHeader(true).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newPlayersCmd() *cobra.Command {
	var (
		args     ListPlayersArgs
		minPrice float64
		maxPrice float64
		asc      bool
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "players",
		Short: "Filter, sort and page the player list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("min-price") {
				args.MinPrice = &minPrice
			}
			if cmd.Flags().Changed("max-price") {
				args.MaxPrice = &maxPrice
			}
			if cmd.Flags().Changed("asc") {
				desc := !asc
				args.Desc = &desc
			}
			cat, err := a.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			out, err := buildListPlayers(cat, args, a.cfg.PageSize)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			return renderPlayers(cmd.OutOrStdout(), out)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&args.Name, "name", "", "Case-insensitive substring of the player name")
	flags.StringVar(&args.Position, "position", "", "Position code: GKP|DEF|MID|FWD")
	flags.StringVar(&args.Team, "team", "", "Exact team name")
	flags.Float64Var(&minPrice, "min-price", 0, "Minimum price in millions")
	flags.Float64Var(&maxPrice, "max-price", 20, "Maximum price in millions")
	flags.StringVar(&args.Sort, "sort", "", "Sort field, e.g. predicted_points or now_cost (unsorted when empty)")
	flags.BoolVar(&asc, "asc", false, "Sort ascending")
	flags.IntVar(&args.Page, "page", 1, "Page number")
	flags.IntVar(&args.PageSize, "page-size", 0, "Players per page")
	flags.BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func renderPlayers(w io.Writer, out ListPlayersOutput) error {
	t := newUnstyledTable("Name", "Team", "Pos", "Price", "Pts", "Pred", "xG", "Mins", "Value")
	for _, p := range out.Players {
		t.Row(
			p.Name,
			p.Team,
			p.Position,
			p.Price,
			strconv.Itoa(p.TotalPoints),
			strconv.FormatFloat(p.PredictedPoints, 'f', 1, 64),
			strconv.FormatFloat(p.ExpectedGoals, 'f', 1, 64),
			humanize.Comma(int64(p.Minutes)),
			p.ValueStars,
		)
	}
	order := "unsorted"
	if out.Sort.Field != "" {
		dir := "desc"
		if !out.Sort.Descending {
			dir = "asc"
		}
		order = fmt.Sprintf("sorted by %s %s", out.Sort.Field, dir)
	}
	_, err := fmt.Fprintf(w, "%s\nPage %d of %d, %s players, %s\n",
		t.Render(), out.CurrentPage, out.TotalPages,
		humanize.Comma(int64(out.TotalItems)), order)
	return err
}

func newLineupCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "lineup",
		Short: "Show the team of the week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			cat, err := a.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			out := buildTeamOfTheWeek(cat)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			return renderLineup(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func renderLineup(w io.Writer, out LineupOutput) error {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Team of the week " + out.Formation))
	b.WriteString("\n")
	for _, row := range out.Rows {
		names := make([]string, len(row.Players))
		for i, p := range row.Players {
			names[i] = fmt.Sprintf("%s (%s, %.1f)", p.Name, p.Team, p.PredictedPoints)
		}
		if len(names) < row.Wanted {
			names = append(names, fmt.Sprintf("%d short", row.Wanted-len(names)))
		}
		fmt.Fprintf(&b, "%-12s %s\n", row.Label, strings.Join(names, "  "))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func newPlayerCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "player NAME",
		Short: "Show one player's card",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			cat, err := a.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			card, err := buildPlayerCard(cat, PlayerCardArgs{Name: strings.Join(args, " ")})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), card)
			}
			return renderCard(cmd.OutOrStdout(), card)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a card")
	return cmd
}

func renderCard(w io.Writer, c PlayerCard) error {
	t := newUnstyledTable("Stat", "Value")
	t.Row("Team", c.Team)
	t.Row("Position", c.PositionLabel)
	t.Row("Price", c.Price)
	t.Row("Total points", strconv.Itoa(c.TotalPoints))
	t.Row("Goals", strconv.Itoa(c.GoalsScored))
	t.Row("Assists", strconv.Itoa(c.Assists))
	t.Row("Clean sheets", strconv.Itoa(c.CleanSheets))
	t.Row("Cards", fmt.Sprintf("%d yellow, %d red", c.YellowCards, c.RedCards))
	t.Row("Minutes", humanize.Comma(int64(c.Minutes)))
	t.Row("Form", strconv.FormatFloat(c.Form, 'f', 1, 64))
	t.Row("Saves per 90", strconv.FormatFloat(c.SavesPer90, 'f', 1, 64))
	t.Row("Predicted", strconv.FormatFloat(c.PredictedPoints, 'f', 1, 64))
	t.Row("Expected goals", strconv.FormatFloat(c.ExpectedGoals, 'f', 1, 64))
	t.Row("Value", c.ValueStars)
	t.Row("Headshot", c.ImageURL)
	_, err := fmt.Fprintf(w, "%s\n%s\n", titleStyle.Render(c.Name), t.Render())
	return err
}

func newTeamsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "teams",
		Short: "List the teams in the dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			cat, err := a.loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			out := buildTeams(cat)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", strings.Join(out.Teams, "\n"))
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a list")
	return cmd
}
