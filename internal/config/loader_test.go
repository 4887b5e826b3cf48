package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	config "github.com/epwatch/rebelboard/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func clearEnv() {
	for _, kv := range os.Environ() {
		for i := 0; i < len(kv); i++ {
			if kv[i] == '=' {
				key := kv[:i]
				if len(key) > 11 && key[:11] == "REBELBOARD_" {
					os.Unsetenv(key)
				}
				break
			}
		}
	}
}

func TestLoad(t *testing.T) {
	Convey("Given a clean environment", t, func() {
		clearEnv()
		Reset(clearEnv)

		Convey("When loading without overrides", func() {
			cfg, err := config.Load(context.Background())

			Convey("Then defaults apply", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":9090")
				So(cfg.LogLevel, ShouldEqual, "info")
				So(cfg.FetchTimeoutMS, ShouldEqual, 10_000)
				So(cfg.DatasetCacheSize, ShouldEqual, 64)
				So(cfg.JitterAmount, ShouldAlmostEqual, 0.3)
				So(cfg.MaxTopicResults, ShouldEqual, 20)
			})
		})

		Convey("When environment variables override defaults", func() {
			os.Setenv("REBELBOARD_ADDR", ":8088")
			os.Setenv("REBELBOARD_LOG_LEVEL", "debug")
			os.Setenv("REBELBOARD_MAX_TOPIC_RESULTS", "5")

			cfg, err := config.Load(context.Background())

			Convey("Then the env values win", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":8088")
				So(cfg.LogLevel, ShouldEqual, "debug")
				So(cfg.MaxTopicResults, ShouldEqual, 5)
			})
		})

		Convey("When a config file is provided", func() {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			body := []byte("addr: \":7070\"\ndata_base_url: \"http://localhost:8000/data\"\n")
			So(os.WriteFile(path, body, 0o644), ShouldBeNil)
			os.Setenv("REBELBOARD_CONFIG", path)

			cfg, err := config.Load(context.Background())

			Convey("Then file values override defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":7070")
				So(cfg.DataBaseURL, ShouldEqual, "http://localhost:8000/data")
			})

			Convey("And env values override the file", func() {
				os.Setenv("REBELBOARD_ADDR", ":6060")
				cfg, err := config.Load(context.Background())
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":6060")
				So(cfg.DataBaseURL, ShouldEqual, "http://localhost:8000/data")
			})
		})

		Convey("When the config file does not exist", func() {
			os.Setenv("REBELBOARD_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

			_, err := config.Load(context.Background())

			Convey("Then loading fails with the load sentinel", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)
			})
		})

		Convey("When a required value is blanked out", func() {
			os.Setenv("REBELBOARD_DATA_BASE_URL", "")

			_, err := config.Load(context.Background())

			Convey("Then validation rejects the config", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})
		})

		Convey("When jitter is configured negative", func() {
			os.Setenv("REBELBOARD_JITTER_AMOUNT", "-0.5")

			_, err := config.Load(context.Background())

			Convey("Then validation rejects the config", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})
		})
	})
}
