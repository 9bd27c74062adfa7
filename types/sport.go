package types

import (
	"errors"
	"strings"
)

var (
	// ErrUnknownSport is returned when a sport is outside the supported set.
	ErrUnknownSport = errors.New("unknown sport")

	// ErrUnknownLevel is returned when a level is outside the supported set.
	ErrUnknownLevel = errors.New("unknown level")
)

// Sport identifies one of the sports the platform organises matches
// and records statistics for.
type Sport string

const (
	SportFootball   Sport = "Football"
	SportBasketball Sport = "Basketball"
	SportTennis     Sport = "Tennis"
	SportSwimming   Sport = "Swimming"
)

// Level is the skill tier of a user or the tier required by a match.
type Level string

const (
	LevelBeginner     Level = "Beginner"
	LevelIntermediate Level = "Intermediate"
	LevelAdvanced     Level = "Advanced"
)

var sportsByName = map[string]Sport{
	"football":   SportFootball,
	"basketball": SportBasketball,
	"tennis":     SportTennis,
	"swimming":   SportSwimming,
	"natation":   SportSwimming,
}

// French labels are kept as aliases because early clients still send them.
var levelsByName = map[string]Level{
	"beginner":      LevelBeginner,
	"débutant":      LevelBeginner,
	"debutant":      LevelBeginner,
	"intermediate":  LevelIntermediate,
	"intermédiaire": LevelIntermediate,
	"intermediaire": LevelIntermediate,
	"advanced":      LevelAdvanced,
	"avancé":        LevelAdvanced,
	"avance":        LevelAdvanced,
}

// Sports returns the supported sports in display order.
func Sports() []Sport {
	return []Sport{SportFootball, SportBasketball, SportTennis, SportSwimming}
}

// Levels returns the supported levels from lowest to highest.
func Levels() []Level {
	return []Level{LevelBeginner, LevelIntermediate, LevelAdvanced}
}

// ParseSport normalises raw input into a supported Sport.
func ParseSport(raw string) (Sport, error) {
	sport, ok := sportsByName[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return "", ErrUnknownSport
	}
	return sport, nil
}

// ParseLevel normalises raw input into a supported Level.
func ParseLevel(raw string) (Level, error) {
	level, ok := levelsByName[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return "", ErrUnknownLevel
	}
	return level, nil
}

// Valid reports whether s is a canonical supported sport.
func (s Sport) Valid() bool {
	parsed, err := ParseSport(string(s))
	return err == nil && parsed == s
}

// Valid reports whether l is a canonical supported level.
func (l Level) Valid() bool {
	parsed, err := ParseLevel(string(l))
	return err == nil && parsed == l
}
