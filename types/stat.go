package types

import "time"

// StatDateLayout is the layout used when stats are rendered for display.
const StatDateLayout = "2006-01-02 15:04:05"

// Stat is a performance entry recorded by a user for a sport.
type Stat struct {
	// ID is the unique identifier of the entry.
	ID int `json:"id" db:"id"`

	// UserID references the user the entry belongs to.
	UserID int `json:"user_id" db:"user_id"`

	// Category is a free-form tag such as "training" or "league".
	Category string `json:"category" db:"category"`

	// Sport selects which variant Line holds.
	Sport Sport `json:"sport" db:"sport"`

	// Value is a generic score attached to the entry.
	Value float64 `json:"value" db:"value"`

	// RecordedAt is the timestamp when the entry was recorded.
	RecordedAt time.Time `json:"recorded_at" db:"recorded_at"`

	// Line carries the sport-specific measurements. Its concrete type
	// always matches Sport.
	Line StatLine `json:"metrics"`
}

// Metric is a single named measurement of a StatLine.
type Metric struct {
	Name  string
	Value float64
}

// StatLine is the sport-specific part of a Stat. Each sport has its own
// implementation carrying only the measurements that make sense for it.
type StatLine interface {
	Sport() Sport
	// Fields flattens the line into the storage columns.
	Fields() StatFields
	// Metrics lists the measurements in a stable order.
	Metrics() []Metric
}

// StatFields is the flat column layout used by storage and request payloads.
// Every sport-specific measurement defaults to zero.
type StatFields struct {
	Goals         int     `json:"goals"`
	Assists       int     `json:"assists"`
	MinutesPlayed int     `json:"minutes_played"`
	Rebounds      int     `json:"rebounds"`
	Aces          int     `json:"aces"`
	DoubleFaults  int     `json:"double_faults"`
	GamesWon      int     `json:"games_won"`
	DistanceSwum  float64 `json:"distance_swum"`
	Strokes       int     `json:"strokes"`
}

// NewStatLine builds the variant for sport out of flat fields, dropping the
// measurements that do not apply. It returns false for unsupported sports.
func NewStatLine(sport Sport, f StatFields) (StatLine, bool) {
	switch sport {
	case SportFootball:
		return FootballLine{Goals: f.Goals, Assists: f.Assists, MinutesPlayed: f.MinutesPlayed}, true
	case SportBasketball:
		return BasketballLine{Goals: f.Goals, Assists: f.Assists, Rebounds: f.Rebounds, MinutesPlayed: f.MinutesPlayed}, true
	case SportTennis:
		return TennisLine{Aces: f.Aces, DoubleFaults: f.DoubleFaults, GamesWon: f.GamesWon, MinutesPlayed: f.MinutesPlayed}, true
	case SportSwimming:
		return SwimmingLine{DistanceSwum: f.DistanceSwum, Strokes: f.Strokes, MinutesPlayed: f.MinutesPlayed}, true
	default:
		return nil, false
	}
}

type FootballLine struct {
	Goals         int `json:"goals"`
	Assists       int `json:"assists"`
	MinutesPlayed int `json:"minutes_played"`
}

func (FootballLine) Sport() Sport { return SportFootball }

func (l FootballLine) Fields() StatFields {
	return StatFields{Goals: l.Goals, Assists: l.Assists, MinutesPlayed: l.MinutesPlayed}
}

func (l FootballLine) Metrics() []Metric {
	return []Metric{
		{Name: "goals", Value: float64(l.Goals)},
		{Name: "assists", Value: float64(l.Assists)},
		{Name: "minutes_played", Value: float64(l.MinutesPlayed)},
	}
}

type BasketballLine struct {
	Goals         int `json:"goals"`
	Assists       int `json:"assists"`
	Rebounds      int `json:"rebounds"`
	MinutesPlayed int `json:"minutes_played"`
}

func (BasketballLine) Sport() Sport { return SportBasketball }

func (l BasketballLine) Fields() StatFields {
	return StatFields{Goals: l.Goals, Assists: l.Assists, Rebounds: l.Rebounds, MinutesPlayed: l.MinutesPlayed}
}

func (l BasketballLine) Metrics() []Metric {
	return []Metric{
		{Name: "goals", Value: float64(l.Goals)},
		{Name: "assists", Value: float64(l.Assists)},
		{Name: "rebounds", Value: float64(l.Rebounds)},
		{Name: "minutes_played", Value: float64(l.MinutesPlayed)},
	}
}

type TennisLine struct {
	Aces          int `json:"aces"`
	DoubleFaults  int `json:"double_faults"`
	GamesWon      int `json:"games_won"`
	MinutesPlayed int `json:"minutes_played"`
}

func (TennisLine) Sport() Sport { return SportTennis }

func (l TennisLine) Fields() StatFields {
	return StatFields{Aces: l.Aces, DoubleFaults: l.DoubleFaults, GamesWon: l.GamesWon, MinutesPlayed: l.MinutesPlayed}
}

func (l TennisLine) Metrics() []Metric {
	return []Metric{
		{Name: "aces", Value: float64(l.Aces)},
		{Name: "double_faults", Value: float64(l.DoubleFaults)},
		{Name: "games_won", Value: float64(l.GamesWon)},
		{Name: "minutes_played", Value: float64(l.MinutesPlayed)},
	}
}

type SwimmingLine struct {
	DistanceSwum  float64 `json:"distance_swum"`
	Strokes       int     `json:"strokes"`
	MinutesPlayed int     `json:"minutes_played"`
}

func (SwimmingLine) Sport() Sport { return SportSwimming }

func (l SwimmingLine) Fields() StatFields {
	return StatFields{DistanceSwum: l.DistanceSwum, Strokes: l.Strokes, MinutesPlayed: l.MinutesPlayed}
}

func (l SwimmingLine) Metrics() []Metric {
	return []Metric{
		{Name: "distance_swum", Value: l.DistanceSwum},
		{Name: "strokes", Value: float64(l.Strokes)},
		{Name: "minutes_played", Value: float64(l.MinutesPlayed)},
	}
}

// StatView is the display projection of a Stat.
type StatView struct {
	ID       int      `json:"id"`
	Category string   `json:"category"`
	Sport    Sport    `json:"sport"`
	Value    float64  `json:"value"`
	Date     string   `json:"date"`
	Metrics  StatLine `json:"metrics"`
}

// View projects s for display.
func (s Stat) View() StatView {
	return StatView{
		ID:       s.ID,
		Category: s.Category,
		Sport:    s.Sport,
		Value:    s.Value,
		Date:     s.RecordedAt.Format(StatDateLayout),
		Metrics:  s.Line,
	}
}
