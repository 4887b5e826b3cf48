// Package fixture generates a synthetic data tree with the same layout the
// vote processing pipeline exports, for local development and demos.
package fixture

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/epwatch/rebelboard/internal/domain/model"
)

// Config holds generation parameters.
type Config struct {
	OutputDir  string // root directory of the generated tree
	MEPsPerSet int    // member records per dataset
	Seed       int64  // random seed; 0 means a fixed default
}

// Default generation constants.
const (
	defaultMEPsPerSet = 120
	defaultSeed       = 42

	outlierThreshold = 2.0
	votesMin         = 20
	votesRange       = 400
)

var groupCodes = []string{
	"GUE_NGL", "GREEN_EFA", "SD", "RENEW", "EPP", "ECR", "PFE", "ID", "ESN", "NI",
}

var countryCodes = []string{
	"AUT", "BEL", "BGR", "HRV", "CYP", "CZE", "DNK", "EST", "FIN", "FRA",
	"DEU", "GRC", "HUN", "IRL", "ITA", "LVA", "LTU", "LUX", "MLT", "NLD",
	"POL", "PRT", "ROU", "SVK", "SVN", "ESP", "SWE",
}

var topicLabels = []string{
	"Biodiversity",
	"Climate and environment",
	"Consumer protection",
	"Digital",
	"Economy and budget",
	"Energy",
	"Food and agriculture",
	"Foreign affairs",
	"Health",
	"Migration",
	"Taxation",
}

var periods = []model.Period{
	{ID: "ep10", Label: "EP10 (2024-2029)", Start: "2024-07-16", End: "2029-07-15", IsDefault: true},
	{ID: "ep9", Label: "EP9 (2019-2024)", Start: "2019-07-02", End: "2024-07-15"},
}

// firstNames and lastNames seed plausible member names.
var firstNames = []string{
	"Anna", "Marek", "Sofia", "Luca", "Ingrid", "Pierre", "Elena", "Jan",
	"Maria", "Tomas", "Claire", "Andrei", "Katrin", "Paulo", "Nora", "Milan",
}

var lastNames = []string{
	"Novak", "Bergmann", "Rossi", "Dubois", "Kowalski", "Jensen", "Petrov",
	"Silva", "Virtanen", "Horvath", "Lindqvist", "Moreau", "Papadopoulos",
	"Vasilev", "Keller", "O'Brien",
}

// Generator produces datasets from a deterministic random source.
type Generator struct {
	rng *rand.Rand
	cfg Config
}

// NewGenerator creates a Generator from config, applying defaults.
func NewGenerator(cfg Config) *Generator {
	if cfg.MEPsPerSet <= 0 {
		cfg.MEPsPerSet = defaultMEPsPerSet
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = defaultSeed
	}
	return &Generator{
		rng: rand.New(rand.NewSource(seed)), //nolint:gosec // synthetic fixtures, determinism wanted
		cfg: cfg,
	}
}

// BoardConfig returns the config.json payload for the generated tree.
func (g *Generator) BoardConfig() model.BoardConfig {
	topics := make(map[string]string, len(topicLabels))
	for _, label := range topicLabels {
		topics[label] = Slugify(label)
	}
	return model.BoardConfig{
		Topics:        topics,
		Periods:       periods,
		DefaultPeriod: "ep10",
	}
}

// Periods returns the generated period list.
func (g *Generator) Periods() []model.Period { return periods }

// TopicSlugs returns the slugs of all generated topics.
func (g *Generator) TopicSlugs() []string {
	slugs := make([]string, len(topicLabels))
	for i, label := range topicLabels {
		slugs[i] = Slugify(label)
	}
	return slugs
}

// Dataset generates one dataset of MEPsPerSet records. Each call draws fresh
// records; the same generator seed yields the same tree.
func (g *Generator) Dataset() model.Dataset {
	meps := make([]model.MemberRecord, g.cfg.MEPsPerSet)
	totalVotes := votesMin + g.rng.Intn(votesRange)
	for i := range meps {
		meps[i] = g.record(int64(i + 1))
	}
	return model.Dataset{
		Meta: model.Meta{TotalVotes: totalVotes, TotalMEPs: len(meps)},
		MEPs: meps,
	}
}

func (g *Generator) record(id int64) model.MemberRecord {
	groupScore := g.rng.Float64() * 0.4
	countryScore := g.rng.Float64() * 0.4
	groupZ := g.rng.NormFloat64()
	countryZ := g.rng.NormFloat64()
	votes := votesMin + g.rng.Intn(votesRange)

	return model.MemberRecord{
		ID:        id,
		FirstName: firstNames[g.rng.Intn(len(firstNames))],
		LastName:  lastNames[g.rng.Intn(len(lastNames))],
		Group:     groupCodes[g.rng.Intn(len(groupCodes))],
		Country:   countryCodes[g.rng.Intn(len(countryCodes))],
		Votes:     votes,

		AvgRebelScore:   model.ScoreOf(groupScore),
		TotalRebelScore: model.ScoreOf(groupScore * float64(votes)),
		GroupAvgRebel:   model.ScoreOf(groupScore * 0.8),
		GroupZScore:     model.ScoreOf(groupZ),
		GroupOutlier:    groupZ > outlierThreshold,

		AvgCountryRebelScore: model.ScoreOf(countryScore),
		CountryAvgRebel:      model.ScoreOf(countryScore * 0.8),
		CountryZScore:        model.ScoreOf(countryZ),
		CountryOutlier:       countryZ > outlierThreshold,

		Topics: topicLabels[g.rng.Intn(len(topicLabels))],
	}
}

// RunID returns a unique identifier for one generation run, used to stamp
// log lines and output directories.
func RunID() string {
	return uuid.NewString()
}
