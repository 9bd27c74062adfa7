package types

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewStatLineDropsForeignFields(t *testing.T) {
	fields := StatFields{Goals: 2, Assists: 1, MinutesPlayed: 90, Aces: 7, Strokes: 40}

	line, ok := NewStatLine(SportFootball, fields)
	if !ok {
		t.Fatalf("expected football line")
	}
	got := line.Fields()
	if got.Aces != 0 || got.Strokes != 0 {
		t.Fatalf("unexpected foreign fields: %+v", got)
	}
	if got.Goals != 2 || got.Assists != 1 || got.MinutesPlayed != 90 {
		t.Fatalf("unexpected football fields: %+v", got)
	}
}

func TestNewStatLineUnknownSport(t *testing.T) {
	if _, ok := NewStatLine(Sport("Curling"), StatFields{}); ok {
		t.Fatalf("expected unknown sport to be rejected")
	}
}

func TestStatViewOnlyCarriesSportMetrics(t *testing.T) {
	cases := []struct {
		sport Sport
		keys  []string
	}{
		{SportFootball, []string{"goals", "assists", "minutes_played"}},
		{SportBasketball, []string{"goals", "assists", "rebounds", "minutes_played"}},
		{SportTennis, []string{"aces", "double_faults", "games_won", "minutes_played"}},
		{SportSwimming, []string{"distance_swum", "strokes", "minutes_played"}},
	}

	for _, tc := range cases {
		line, _ := NewStatLine(tc.sport, StatFields{Goals: 1, Rebounds: 1, Aces: 1, DistanceSwum: 1})
		stat := Stat{ID: 1, Category: "match", Sport: tc.sport, Line: line, RecordedAt: time.Date(2024, 5, 1, 18, 30, 0, 0, time.UTC)}

		data, err := json.Marshal(stat.View())
		if err != nil {
			t.Fatalf("marshal %s: %v", tc.sport, err)
		}
		var decoded struct {
			Date    string             `json:"date"`
			Metrics map[string]float64 `json:"metrics"`
		}
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.sport, err)
		}
		if decoded.Date != "2024-05-01 18:30:00" {
			t.Fatalf("unexpected date %q", decoded.Date)
		}
		if len(decoded.Metrics) != len(tc.keys) {
			t.Fatalf("%s: expected %d metrics, got %v", tc.sport, len(tc.keys), decoded.Metrics)
		}
		for _, key := range tc.keys {
			if _, ok := decoded.Metrics[key]; !ok {
				t.Fatalf("%s: missing metric %q in %v", tc.sport, key, decoded.Metrics)
			}
		}
	}
}
