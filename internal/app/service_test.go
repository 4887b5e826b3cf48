package app_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/epwatch/rebelboard/internal/adapters/dataset"
	app "github.com/epwatch/rebelboard/internal/app"
	"github.com/epwatch/rebelboard/internal/domain/aggregate"
	"github.com/epwatch/rebelboard/internal/domain/model"
	"github.com/epwatch/rebelboard/internal/domain/types"
	"github.com/epwatch/rebelboard/pkg/logger"
	"github.com/epwatch/rebelboard/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// fakeProvider serves canned configs and datasets and records fetch calls.
type fakeProvider struct {
	board    model.BoardConfig
	datasets map[string]model.Dataset
	errs     map[string]error
	fetches  []string
}

func (f *fakeProvider) Config(_ context.Context) (model.BoardConfig, error) {
	return f.board, nil
}

func (f *fakeProvider) Fetch(_ context.Context, period, topic string) (model.Dataset, error) {
	key := period + "/" + topic
	f.fetches = append(f.fetches, key)
	if err, ok := f.errs[key]; ok {
		return model.Dataset{}, err
	}
	ds, ok := f.datasets[key]
	if !ok {
		return model.Dataset{}, fmt.Errorf("%w: %s", dataset.ErrNoData, key)
	}
	return ds, nil
}

func testBoard() model.BoardConfig {
	return model.BoardConfig{
		Topics: map[string]string{
			"Energy":                  "energy",
			"Climate and environment": "climate_and_environment",
			"Taxation":                "taxation",
		},
		Periods: []model.Period{
			{ID: "ep10", Label: "EP10", IsDefault: true},
			{ID: "ep9", Label: "EP9"},
		},
		DefaultPeriod: "ep10",
	}
}

func testDataset() model.Dataset {
	return model.Dataset{
		Meta: model.Meta{TotalVotes: 500, TotalMEPs: 3},
		MEPs: []model.MemberRecord{
			{
				ID: 1, FirstName: "Anna", LastName: "Novak",
				Group: "EPP", Country: "AUT", Votes: 100,
				AvgRebelScore:        model.ScoreOf(0.10),
				GroupZScore:          model.ScoreOf(0.5),
				AvgCountryRebelScore: model.ScoreOf(0.12),
			},
			{
				ID: 2, FirstName: "Marek", LastName: "Rossi",
				Group: "SD", Country: "ITA", Votes: 90,
				AvgRebelScore:        model.ScoreOf(0.30),
				GroupZScore:          model.ScoreOf(2.5),
				GroupOutlier:         true,
				AvgCountryRebelScore: model.ScoreOf(0.28),
			},
			{
				ID: 3, FirstName: "Sofia", LastName: "Jensen",
				Group: "EPP", Country: "AUT", Votes: 80,
				AvgRebelScore:        model.InvalidScore(),
				AvgCountryRebelScore: model.ScoreOf(0.05),
			},
		},
	}
}

func newProvider() *fakeProvider {
	return &fakeProvider{
		board: testBoard(),
		datasets: map[string]model.Dataset{
			"ep10/all":    testDataset(),
			"ep10/energy": testDataset(),
			"ep9/all":     testDataset(),
		},
		errs: map[string]error{},
	}
}

func TestServiceStart(t *testing.T) {
	Convey("Given a service over a fake provider", t, func() {
		provider := newProvider()
		svc := app.New(app.WithProvider(provider))

		Convey("When starting", func() {
			err := svc.Start(context.Background())

			Convey("Then the board config is installed", func() {
				So(err, ShouldBeNil)
				stats := svc.GetStats()
				So(stats["started"], ShouldBeTrue)
				So(stats["topics"], ShouldEqual, 3)
				So(stats["default_period"], ShouldEqual, "ep10")
			})

			Convey("And the default dataset is preloaded", func() {
				So(err, ShouldBeNil)
				stats := svc.GetStats()
				So(stats["dataset_meps"], ShouldEqual, 3)
				So(stats["view_period"], ShouldEqual, "ep10")
				So(stats["view_topic"], ShouldEqual, model.AllTopics)
			})

			Convey("And starting again is a no-op", func() {
				So(svc.Start(context.Background()), ShouldBeNil)
			})
		})

		Convey("When no provider is configured", func() {
			bare := app.New()

			Convey("Then starting fails", func() {
				So(bare.Start(context.Background()), ShouldNotBeNil)
			})
		})

		Convey("When the preload fails", func() {
			provider.errs["ep10/all"] = dataset.ErrUnavailable

			Convey("Then starting still succeeds", func() {
				So(svc.Start(context.Background()), ShouldBeNil)
				stats := svc.GetStats()
				So(stats["started"], ShouldBeTrue)
				_, loaded := stats["dataset_meps"]
				So(loaded, ShouldBeFalse)
			})
		})
	})
}

func TestServiceSearchTopics(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := app.New(app.WithProvider(newProvider()))
		So(svc.Start(context.Background()), ShouldBeNil)

		Convey("When searching with an empty query", func() {
			matches := svc.SearchTopics(context.Background(), "")

			Convey("Then every topic returns in alphabetical order", func() {
				So(len(matches), ShouldEqual, 3)
				So(matches[0].Label, ShouldEqual, "Climate and environment")
				So(matches[1].Label, ShouldEqual, "Energy")
				So(matches[2].Label, ShouldEqual, "Taxation")
			})
		})

		Convey("When searching with a query", func() {
			matches := svc.SearchTopics(context.Background(), "energy")

			Convey("Then the closest label ranks first with its slug", func() {
				So(len(matches), ShouldBeGreaterThanOrEqualTo, 1)
				So(matches[0].Label, ShouldEqual, "Energy")
				So(matches[0].Slug, ShouldEqual, "energy")
				So(matches[0].Score, ShouldEqual, 0)
			})
		})

		Convey("When nothing matches", func() {
			matches := svc.SearchTopics(context.Background(), "zzzz")

			Convey("Then the result is empty", func() {
				So(matches, ShouldBeEmpty)
			})
		})

		Convey("When a result cap is configured", func() {
			capped := app.New(
				app.WithProvider(newProvider()),
				app.WithMaxTopicResults(1),
			)
			So(capped.Start(context.Background()), ShouldBeNil)

			matches := capped.SearchTopics(context.Background(), "")

			Convey("Then hits are truncated to the cap", func() {
				So(len(matches), ShouldEqual, 1)
			})
		})
	})
}

func TestServiceView(t *testing.T) {
	Convey("Given a started service", t, func() {
		provider := newProvider()
		svc := app.New(
			app.WithProvider(provider),
			app.WithJitterer(aggregate.NewJitterer(aggregate.WithAmount(0))),
		)
		So(svc.Start(context.Background()), ShouldBeNil)

		Convey("When requesting the default view", func() {
			plot, err := svc.View(context.Background(), "", "", "")

			Convey("Then the default selection is used", func() {
				So(err, ShouldBeNil)
				So(plot.Period, ShouldEqual, "ep10")
				So(plot.Topic, ShouldEqual, "All topics")
				So(plot.Dimension, ShouldEqual, "group")
				So(plot.TotalVotes, ShouldEqual, 500)
				So(plot.TotalMEPs, ShouldEqual, 3)
			})

			Convey("Then categories follow the ideological order", func() {
				So(err, ShouldBeNil)
				So(len(plot.Categories), ShouldEqual, 2)
				So(plot.Categories[0].Key, ShouldEqual, "SD")
				So(plot.Categories[1].Key, ShouldEqual, "EPP")
			})

			Convey("Then unusable scores are counted but not plotted", func() {
				So(err, ShouldBeNil)
				epp := plot.Categories[1]
				So(epp.Count, ShouldEqual, 2)
				So(len(epp.Points), ShouldEqual, 1)
			})

			Convey("Then points carry tooltips and profile links", func() {
				So(err, ShouldBeNil)
				p := plot.Categories[1].Points[0]
				So(p.Tooltip, ShouldEqual, "Anna Novak (EPP) · rebel 0.100 · 100 votes")
				So(p.ProfileURL, ShouldEqual, "https://www.europarl.europa.eu/meps/en/1")
			})

			Convey("Then outliers and z-scores pass through", func() {
				So(err, ShouldBeNil)
				sd := plot.Categories[0].Points[0]
				So(sd.Outlier, ShouldBeTrue)
				So(sd.ZScore, ShouldNotBeNil)
				So(*sd.ZScore, ShouldAlmostEqual, 2.5)
			})

			Convey("And the preloaded dataset is reused without a new fetch", func() {
				So(err, ShouldBeNil)
				// One fetch from Start's preload only.
				So(len(provider.fetches), ShouldEqual, 1)
			})
		})

		Convey("When switching only the dimension", func() {
			before := len(provider.fetches)
			plot, err := svc.View(context.Background(), "ep10", "all", "country")

			Convey("Then the same dataset is re-aggregated without a fetch", func() {
				So(err, ShouldBeNil)
				So(plot.Dimension, ShouldEqual, "country")
				So(len(provider.fetches), ShouldEqual, before)
			})

			Convey("Then countries sort by ascending mean", func() {
				So(err, ShouldBeNil)
				So(plot.Categories[0].Key, ShouldEqual, "AUT")
				So(plot.Categories[1].Key, ShouldEqual, "ITA")
			})

			Convey("Then the view records the new dimension", func() {
				So(err, ShouldBeNil)
				So(svc.GetStats()["view_dimension"], ShouldEqual, "country")
			})
		})

		Convey("When selecting a topic", func() {
			plot, err := svc.View(context.Background(), "ep10", "energy", "group")

			Convey("Then the topic dataset is fetched and labeled", func() {
				So(err, ShouldBeNil)
				So(plot.Topic, ShouldEqual, "Energy")
				So(provider.fetches[len(provider.fetches)-1], ShouldEqual, "ep10/energy")
			})
		})

		Convey("When the selection has no export", func() {
			_, err := svc.View(context.Background(), "ep9", "energy", "group")

			Convey("Then the no-data sentinel surfaces", func() {
				So(errors.Is(err, dataset.ErrNoData), ShouldBeTrue)
			})

			Convey("And the shared dataset is cleared", func() {
				stats := svc.GetStats()
				_, loaded := stats["dataset_meps"]
				So(loaded, ShouldBeFalse)
			})
		})

		Convey("When the period is unknown", func() {
			_, err := svc.View(context.Background(), "ep7", "all", "group")

			Convey("Then the unknown-period sentinel surfaces", func() {
				So(errors.Is(err, app.ErrUnknownPeriod), ShouldBeTrue)
			})
		})

		Convey("When the topic slug is unknown", func() {
			_, err := svc.View(context.Background(), "ep10", "nonsense", "group")

			Convey("Then the unknown-topic sentinel surfaces", func() {
				So(errors.Is(err, app.ErrUnknownTopic), ShouldBeTrue)
			})
		})

		Convey("When the dimension is unknown", func() {
			_, err := svc.View(context.Background(), "ep10", "all", "region")

			Convey("Then the request is rejected", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When the service has not started", func() {
			cold := app.New(app.WithProvider(provider))
			_, err := cold.View(context.Background(), "", "", "")

			Convey("Then the not-started sentinel surfaces", func() {
				So(errors.Is(err, app.ErrNotStarted), ShouldBeTrue)
			})
		})

		Convey("When many requests render plots concurrently", func() {
			const workers = 4
			const calls = 25

			errs := make(chan error, workers*calls)
			var wg sync.WaitGroup
			for w := 0; w < workers; w++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < calls; i++ {
						_, err := svc.View(context.Background(), "ep10", "all", "group")
						errs <- err
					}
				}()
			}
			wg.Wait()
			close(errs)

			Convey("Then every request succeeds", func() {
				for err := range errs {
					So(err, ShouldBeNil)
				}
			})
		})
	})
}

// gatedProvider blocks one selection's fetch until released, letting a test
// overtake it with a newer fetch.
type gatedProvider struct {
	*fakeProvider
	gateKey string
	entered chan struct{}
	release chan struct{}
}

func (g *gatedProvider) Fetch(ctx context.Context, period, topic string) (model.Dataset, error) {
	if period+"/"+topic == g.gateKey {
		g.entered <- struct{}{}
		<-g.release
	}
	return g.fakeProvider.Fetch(ctx, period, topic)
}

func staleDropCount() float64 {
	families, err := metrics.GetRegistry().Gather()
	So(err, ShouldBeNil)
	for _, mf := range families {
		if mf.GetName() == "rebelboard_dashboard_stale_fetches_dropped_total" {
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	return 0
}

func TestServiceStaleFetch(t *testing.T) {
	Convey("Given a started service over a gated provider", t, func() {
		provider := &gatedProvider{
			fakeProvider: newProvider(),
			gateKey:      "ep10/energy",
			entered:      make(chan struct{}),
			release:      make(chan struct{}),
		}
		svc := app.New(app.WithProvider(provider))
		So(svc.Start(context.Background()), ShouldBeNil)

		Convey("When a newer fetch completes while an older one is in flight", func() {
			type viewResult struct {
				plot types.PlotData
				err  error
			}
			slow := make(chan viewResult, 1)
			go func() {
				plot, err := svc.View(context.Background(), "ep10", "energy", "group")
				slow <- viewResult{plot: plot, err: err}
			}()
			<-provider.entered

			_, err := svc.View(context.Background(), "ep9", "all", "group")
			So(err, ShouldBeNil)

			dropsBefore := staleDropCount()
			close(provider.release)
			res := <-slow

			Convey("Then the older response still answers its own caller", func() {
				So(res.err, ShouldBeNil)
				So(res.plot.Period, ShouldEqual, "ep10")
				So(res.plot.Topic, ShouldEqual, "Energy")
			})

			Convey("And the shared view keeps the newer selection", func() {
				stats := svc.GetStats()
				So(stats["view_period"], ShouldEqual, "ep9")
				So(stats["view_topic"], ShouldEqual, model.AllTopics)
			})

			Convey("And the dropped response is counted", func() {
				So(staleDropCount(), ShouldEqual, dropsBefore+1)
			})
		})
	})
}

func TestServicePeriods(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := app.New(app.WithProvider(newProvider()))
		So(svc.Start(context.Background()), ShouldBeNil)

		Convey("When listing periods", func() {
			periods := svc.Periods(context.Background())

			Convey("Then export order is preserved", func() {
				So(len(periods), ShouldEqual, 2)
				So(periods[0].ID, ShouldEqual, "ep10")
				So(periods[1].ID, ShouldEqual, "ep9")
			})
		})

		Convey("When asking for the default period", func() {
			So(svc.DefaultPeriod(), ShouldEqual, "ep10")
		})
	})
}
