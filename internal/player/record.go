package player

import (
	"fmt"
	"strings"
)

type Position string

const (
	Goalkeeper Position = "GKP"
	Defender   Position = "DEF"
	Midfielder Position = "MID"
	Forward    Position = "FWD"
)

// Positions lists the known codes in formation order.
var Positions = []Position{Goalkeeper, Defender, Midfielder, Forward}

func (p Position) Known() bool {
	switch p {
	case Goalkeeper, Defender, Midfielder, Forward:
		return true
	}
	return false
}

// Label returns the long display name, or the raw code for unknown positions.
func (p Position) Label() string {
	switch p {
	case Goalkeeper:
		return "Goalkeeper"
	case Defender:
		return "Defender"
	case Midfielder:
		return "Midfielder"
	case Forward:
		return "Forward"
	}
	return string(p)
}

// RawRow is one parsed CSV row keyed by column name.
type RawRow map[string]string

// Record is a typed, immutable player row.
type Record struct {
	Name            string   `json:"name"`
	Team            string   `json:"team"`
	Position        Position `json:"position"`
	NowCost         int      `json:"now_cost"`
	TotalPoints     int      `json:"total_points"`
	GoalsScored     int      `json:"goals_scored"`
	Assists         int      `json:"assists"`
	CleanSheets     int      `json:"clean_sheets"`
	YellowCards     int      `json:"yellow_cards"`
	RedCards        int      `json:"red_cards"`
	Minutes         int      `json:"minutes"`
	Form            float64  `json:"form"`
	SavesPer90      float64  `json:"saves_per_90"`
	PredictedPoints float64  `json:"predicted_points"`
	ExpectedGoals   float64  `json:"expected_goals"`
	Value           int      `json:"value"`
	ImageURL        string   `json:"image_url"`
}

// Price returns the cost in millions.
func (r Record) Price() float64 {
	return float64(r.NowCost) / 10
}

// DisplayPrice formats the cost as "$7.5M".
func (r Record) DisplayPrice() string {
	return fmt.Sprintf("$%.1fM", r.Price())
}

// ValueStars renders Value as five filled/empty stars.
func (r Record) ValueStars() string {
	v := min(max(r.Value, 0), MaxValue)
	return strings.Repeat("★", v) + strings.Repeat("☆", MaxValue-v)
}
