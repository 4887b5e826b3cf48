// Package model contains domain models passed between layers.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// AllTopics is the topic selector meaning "no topic filter".
const AllTopics = "all"

// Dimension selects how records are grouped and which rebel-score
// variant applies: relative to the political group or to the country.
type Dimension string

// Supported grouping dimensions.
const (
	ByGroup   Dimension = "group"
	ByCountry Dimension = "country"
)

// ParseDimension parses a dimension name as it appears in API queries.
// An empty value defaults to ByGroup.
func ParseDimension(s string) (Dimension, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "group":
		return ByGroup, nil
	case "country":
		return ByCountry, nil
	default:
		return "", fmt.Errorf("unknown dimension %q", s)
	}
}

// Score is a nullable float decoded tolerantly. The upstream exporter is a
// pandas pipeline, so score fields may arrive as numbers, numeric strings,
// or null. Anything else decodes as invalid rather than failing the record.
type Score struct {
	value float64
	valid bool
}

// ScoreOf wraps a plain float into a valid Score.
func ScoreOf(v float64) Score {
	return Score{value: v, valid: !math.IsNaN(v)}
}

// InvalidScore returns the zero, invalid Score.
func InvalidScore() Score { return Score{} }

// Float64 returns the numeric value and whether it is usable.
func (s Score) Float64() (float64, bool) { return s.value, s.valid }

// Valid reports whether the score holds a usable number.
func (s Score) Valid() bool { return s.valid }

// UnmarshalJSON accepts numbers, numeric strings and null.
func (s *Score) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = Score{}
		return nil
	}
	raw := string(b)
	if raw[0] == '"' {
		unquoted, err := strconv.Unquote(raw)
		if err != nil {
			*s = Score{}
			return nil
		}
		raw = unquoted
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) {
		*s = Score{}
		return nil
	}
	*s = Score{value: v, valid: true}
	return nil
}

// MarshalJSON renders invalid scores as null.
func (s Score) MarshalJSON() ([]byte, error) {
	if !s.valid {
		return []byte("null"), nil
	}
	return json.Marshal(s.value)
}

// MemberRecord is one parliamentarian's aggregated stats for the current
// (period, topic) selection. Field names mirror the exported JSON.
type MemberRecord struct {
	ID        int64  `json:"member.id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Group     string `json:"group"`
	Country   string `json:"country"`
	Votes     int    `json:"n_votes"`

	AvgRebelScore   Score `json:"avg_rebel_score"`
	TotalRebelScore Score `json:"total_rebel_score"`
	GroupAvgRebel   Score `json:"group_avg_rebel"`
	GroupZScore     Score `json:"group_z_score"`
	GroupOutlier    bool  `json:"group_is_outlier"`

	AvgCountryRebelScore Score `json:"avg_country_rebel_score"`
	CountryAvgRebel      Score `json:"country_avg_rebel"`
	CountryZScore        Score `json:"country_z_score"`
	CountryOutlier       bool  `json:"country_is_outlier"`

	Topics string `json:"topics"`
}

// DisplayName returns the member's full name for labels and tooltips.
func (r MemberRecord) DisplayName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

// Key returns the record's category key for the given dimension.
// An empty key means the record carries no value for that dimension.
func (r MemberRecord) Key(d Dimension) string {
	if d == ByCountry {
		return r.Country
	}
	return r.Group
}

// RebelScore returns the dimension-specific rebel score.
func (r MemberRecord) RebelScore(d Dimension) Score {
	if d == ByCountry {
		return r.AvgCountryRebelScore
	}
	return r.AvgRebelScore
}

// ZScore returns the dimension-specific standardized deviation.
func (r MemberRecord) ZScore(d Dimension) Score {
	if d == ByCountry {
		return r.CountryZScore
	}
	return r.GroupZScore
}

// IsOutlier returns the dimension-specific outlier flag.
func (r MemberRecord) IsOutlier(d Dimension) bool {
	if d == ByCountry {
		return r.CountryOutlier
	}
	return r.GroupOutlier
}

// Meta describes the scope of a dataset.
type Meta struct {
	TotalVotes int `json:"total_votes"`
	TotalMEPs  int `json:"total_meps"`
}

// Dataset is the full result of one (period, topic) fetch. Datasets are
// immutable snapshots; a new selection replaces the whole value.
type Dataset struct {
	Meta Meta           `json:"meta"`
	MEPs []MemberRecord `json:"meps"`
}

// Period is one parliamentary term selectable in the UI.
type Period struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Start     string `json:"start"`
	End       string `json:"end"`
	IsDefault bool   `json:"is_default"`
}

// BoardConfig is the startup configuration exported next to the data:
// the topic index (label -> slug), the period list and the default period.
type BoardConfig struct {
	Topics        map[string]string `json:"topics"`
	Periods       []Period          `json:"periods"`
	DefaultPeriod string            `json:"default_period"`
}
