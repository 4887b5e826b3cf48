// Package app provides the core business service that implements the
// dependencies required by the HTTP API: topic search, period listing and
// plot building over the most recently fetched dataset.
package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/epwatch/rebelboard/internal/adapters/dataset"
	"github.com/epwatch/rebelboard/internal/domain/aggregate"
	"github.com/epwatch/rebelboard/internal/domain/fuzzy"
	"github.com/epwatch/rebelboard/internal/domain/groups"
	"github.com/epwatch/rebelboard/internal/domain/model"
	"github.com/epwatch/rebelboard/internal/domain/types"
	"github.com/epwatch/rebelboard/pkg/logger"
	"github.com/epwatch/rebelboard/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultMaxTopicResults = 20
	defaultProfileURLBase  = "https://www.europarl.europa.eu/meps/en/"
)

// ViewState is the current selection. It is an immutable value replaced
// wholesale whenever the selection changes; nothing mutates it in place.
type ViewState struct {
	Period    string
	Topic     string // topic slug, model.AllTopics when unfiltered
	Dimension model.Dimension
}

// Service composes the data provider, the fuzzy matcher and the category
// aggregator behind the HTTP API.
type Service struct {
	mu sync.RWMutex

	provider dataset.Provider
	jitter   *aggregate.Jitterer
	log      logger.Logger

	// Populated once at Start from the exported config.
	board       model.BoardConfig
	candidates  []fuzzy.Candidate
	slugToLabel map[string]string

	// Current selection and the dataset backing it. data is nil until a
	// fetch for the current view succeeded; it never mixes selections.
	view ViewState
	data *model.Dataset

	// fetchSeq orders fetches so a slow response never overwrites the
	// state installed by a newer one.
	fetchSeq atomic.Uint64

	maxTopicResults int
	profileURLBase  string
	started         bool
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithProvider sets the dataset provider.
func WithProvider(p dataset.Provider) Option {
	return func(s *Service) {
		if p != nil {
			s.provider = p
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithJitterer sets the jitterer used when building plot points.
func WithJitterer(j *aggregate.Jitterer) Option {
	return func(s *Service) {
		if j != nil {
			s.jitter = j
		}
	}
}

// WithMaxTopicResults caps the number of fuzzy search hits returned.
func WithMaxTopicResults(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxTopicResults = n
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		maxTopicResults: defaultMaxTopicResults,
		profileURLBase:  defaultProfileURLBase,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the board configuration and installs the default view. The
// default dataset is fetched eagerly but a failure there only logs; the
// first view request will retry.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.provider == nil {
		return errors.New("no dataset provider configured")
	}
	if s.log == nil {
		s.log = logger.Get().Named("app")
	}
	if s.jitter == nil {
		s.jitter = aggregate.NewJitterer()
	}

	board, err := s.provider.Config(ctx)
	if err != nil {
		return fmt.Errorf("load board config: %w", err)
	}
	s.board = board

	labels := make([]string, 0, len(board.Topics))
	for label := range board.Topics {
		labels = append(labels, label)
	}
	// Alphabetical baseline so equal fuzzy scores resolve predictably.
	sort.Strings(labels)
	s.candidates = make([]fuzzy.Candidate, 0, len(labels))
	s.slugToLabel = make(map[string]string, len(labels))
	for _, label := range labels {
		slug := board.Topics[label]
		s.candidates = append(s.candidates, fuzzy.Candidate{Label: label, Slug: slug})
		s.slugToLabel[slug] = label
	}

	s.view = ViewState{
		Period:    board.DefaultPeriod,
		Topic:     model.AllTopics,
		Dimension: model.ByGroup,
	}
	s.started = true

	s.log.Info(ctx, "dashboard service started",
		logger.Int("topics", len(s.candidates)),
		logger.Int("periods", len(board.Periods)),
		logger.String("default_period", board.DefaultPeriod),
	)

	if ds, err := s.provider.Fetch(ctx, s.view.Period, s.view.Topic); err != nil {
		s.log.Warn(ctx, "default dataset not preloaded", logger.Error(err))
	} else {
		s.data = &ds
		s.fetchSeq.Add(1)
		metrics.UpdateDatasetSize(len(ds.MEPs), ds.Meta.TotalVotes)
	}

	return nil
}

// Periods returns the selectable periods in export order.
func (s *Service) Periods(_ context.Context) []model.Period {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Period, len(s.board.Periods))
	copy(out, s.board.Periods)
	return out
}

// DefaultPeriod returns the period selected on first load.
func (s *Service) DefaultPeriod() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.board.DefaultPeriod
}

// SearchTopics ranks topic labels against query. An empty query returns
// every topic in the alphabetical baseline order.
func (s *Service) SearchTopics(ctx context.Context, query string) []types.TopicMatch {
	s.mu.RLock()
	candidates := s.candidates
	limit := s.maxTopicResults
	s.mu.RUnlock()

	start := time.Now()
	ranked := fuzzy.Rank(query, candidates)
	metrics.RecordTopicSearch(float64(time.Since(start).Microseconds()) / 1e3)

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]types.TopicMatch, len(ranked))
	for i, r := range ranked {
		out[i] = types.TopicMatch{Label: r.Label, Slug: r.Slug, Score: r.Score}
	}
	s.log.Debug(ctx, "topic search",
		logger.String("query", query),
		logger.Int("hits", len(out)),
	)
	return out
}

// View returns the plot payload for a selection, fetching the dataset when
// the selection differs from the current one. The caller always gets the
// data for its own selection; shared state is only updated when this fetch
// is still the latest issued.
func (s *Service) View(ctx context.Context, period, topic, by string) (types.PlotData, error) {
	dim, err := model.ParseDimension(by)
	if err != nil {
		return types.PlotData{}, err
	}

	s.mu.RLock()
	if !s.started {
		s.mu.RUnlock()
		return types.PlotData{}, ErrNotStarted
	}
	if period == "" {
		period = s.board.DefaultPeriod
	}
	if topic == "" {
		topic = model.AllTopics
	}
	if !s.knownPeriod(period) {
		s.mu.RUnlock()
		return types.PlotData{}, fmt.Errorf("%w: %s", ErrUnknownPeriod, period)
	}
	if topic != model.AllTopics {
		if _, ok := s.slugToLabel[topic]; !ok {
			s.mu.RUnlock()
			return types.PlotData{}, fmt.Errorf("%w: %s", ErrUnknownTopic, topic)
		}
	}
	current := s.view
	cached := s.data
	s.mu.RUnlock()

	next := ViewState{Period: period, Topic: topic, Dimension: dim}

	var ds model.Dataset
	switch {
	case cached != nil && current.Period == period && current.Topic == topic:
		// Same dataset scope; only the dimension may differ.
		ds = *cached
	default:
		seq := s.fetchSeq.Add(1)
		fetched, err := s.provider.Fetch(ctx, period, topic)
		if err != nil {
			if errors.Is(err, dataset.ErrNoData) {
				// Clear rather than leave a half-updated chart behind.
				s.commitIfLatest(ctx, seq, next, nil)
			}
			return types.PlotData{}, err
		}
		ds = fetched
		s.commitIfLatest(ctx, seq, next, &fetched)
	}

	// Dimension switches re-aggregate the same dataset; record the new view.
	if cached != nil && current.Period == period && current.Topic == topic && current.Dimension != dim {
		s.mu.Lock()
		if s.view == current {
			s.view = next
		}
		s.mu.Unlock()
	}

	return s.buildPlot(next, ds), nil
}

// commitIfLatest replaces the view state and its dataset, unless a newer
// fetch has been issued since seq, in which case the response is dropped
// from shared state (the caller still gets it).
func (s *Service) commitIfLatest(ctx context.Context, seq uint64, view ViewState, ds *model.Dataset) {
	s.mu.Lock()
	if s.fetchSeq.Load() != seq {
		s.mu.Unlock()
		metrics.RecordStaleFetchDropped()
		s.log.Debug(ctx, "stale fetch not applied",
			logger.String("period", view.Period),
			logger.String("topic", view.Topic),
		)
		return
	}
	s.view = view
	s.data = ds
	s.mu.Unlock()

	if ds != nil {
		metrics.UpdateDatasetSize(len(ds.MEPs), ds.Meta.TotalVotes)
	} else {
		metrics.UpdateDatasetSize(0, 0)
	}
}

func (s *Service) knownPeriod(id string) bool {
	for _, p := range s.board.Periods {
		if p.ID == id {
			return true
		}
	}
	return false
}

// buildPlot aggregates the dataset and shapes it for the renderer.
func (s *Service) buildPlot(view ViewState, ds model.Dataset) types.PlotData {
	start := time.Now()
	result := aggregate.Aggregate(ds.MEPs, view.Dimension)
	metrics.RecordAggregation(string(view.Dimension), float64(time.Since(start).Microseconds())/1e3)

	cats := make([]types.Category, 0, len(result.Categories))
	for _, cat := range result.Categories {
		out := types.Category{
			Key:      cat.Key,
			Label:    s.categoryLabel(view.Dimension, cat),
			Color:    s.categoryColor(view.Dimension, cat),
			Position: cat.Position,
			Mean:     cat.Mean,
			Count:    cat.Count,
		}
		for _, r := range result.Records[cat.Key] {
			y, ok := r.RebelScore(view.Dimension).Float64()
			if !ok {
				// Counted in Count above, but nothing to plot.
				continue
			}
			p := types.Point{
				MemberID:   r.ID,
				Name:       r.DisplayName(),
				X:          s.jitter.Jitter(float64(cat.Position)),
				Y:          y,
				Votes:      r.Votes,
				Outlier:    r.IsOutlier(view.Dimension),
				Tooltip:    s.tooltip(r, view.Dimension, y),
				ProfileURL: fmt.Sprintf("%s%d", s.profileURLBase, r.ID),
			}
			if z, ok := r.ZScore(view.Dimension).Float64(); ok {
				p.ZScore = &z
			}
			out.Points = append(out.Points, p)
		}
		cats = append(cats, out)
	}

	topicLabel := view.Topic
	if view.Topic == model.AllTopics {
		topicLabel = "All topics"
	} else if label, ok := s.slugToLabel[view.Topic]; ok {
		topicLabel = label
	}

	return types.PlotData{
		Period:     view.Period,
		Topic:      topicLabel,
		Dimension:  string(view.Dimension),
		TotalVotes: ds.Meta.TotalVotes,
		TotalMEPs:  ds.Meta.TotalMEPs,
		Categories: cats,
	}
}

func (s *Service) categoryLabel(d model.Dimension, cat aggregate.Category) string {
	if d == model.ByCountry {
		return groups.CountryName(cat.Key)
	}
	return groups.Name(cat.Key)
}

func (s *Service) categoryColor(d model.Dimension, cat aggregate.Category) string {
	if d == model.ByCountry {
		return groups.CountryColor(cat.Position)
	}
	return groups.Color(cat.Key)
}

func (s *Service) tooltip(r model.MemberRecord, d model.Dimension, score float64) string {
	return fmt.Sprintf("%s (%s) · rebel %.3f · %d votes", r.DisplayName(), r.Key(d), score, r.Votes)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":        s.started,
		"topics":         len(s.candidates),
		"periods":        len(s.board.Periods),
		"default_period": s.board.DefaultPeriod,
		"view_period":    s.view.Period,
		"view_topic":     s.view.Topic,
		"view_dimension": string(s.view.Dimension),
	}
	if s.data != nil {
		stats["dataset_meps"] = len(s.data.MEPs)
		stats["dataset_total_votes"] = s.data.Meta.TotalVotes
	}
	return stats
}
