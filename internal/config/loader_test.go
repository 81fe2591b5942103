package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/scoreboard/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("SCOREBOARD_LOG_LEVEL", "debug")
			_ = os.Setenv("SCOREBOARD_TEAM_NAME_MAX_LENGTH", "32")
			_ = os.Setenv("SCOREBOARD_STRICT_LIFECYCLE", "true")
			_ = os.Setenv("SCOREBOARD_FEED_QUEUE_SIZE", "256")
			_ = os.Setenv("SCOREBOARD_FEED_DEDUPE_SIZE", "0")
			_ = os.Setenv("SCOREBOARD_METRICS_NAMESPACE", "wc")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.TeamNameMaxLength, convey.ShouldEqual, 32)
				convey.So(cfg.StrictLifecycle, convey.ShouldBeTrue)
				convey.So(cfg.FeedQueueSize, convey.ShouldEqual, 256)
				convey.So(cfg.FeedDedupeSize, convey.ShouldEqual, 0)
				convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "wc")
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			tmpFile := createTempConfigFile(`
# World cup replay
log_level: warn
strict_lifecycle: true
feed_queue_size: 64  # small feeds only
metrics_enabled: false
metrics_subsystem: replay
metrics_latency_buckets: [0.001, 0.01, 0.1]
metrics_const_labels:
  tournament: world-cup
`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("SCOREBOARD_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should merge the file over defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "warn")
				convey.So(cfg.StrictLifecycle, convey.ShouldBeTrue)
				convey.So(cfg.FeedQueueSize, convey.ShouldEqual, 64)
				convey.So(cfg.FeedDedupeSize, convey.ShouldEqual, 10_000)
				convey.So(cfg.MetricsEnabled, convey.ShouldBeFalse)
				convey.So(cfg.MetricsSubsystem, convey.ShouldEqual, "replay")
				convey.So(cfg.MetricsLatencyBuckets, convey.ShouldResemble, []float64{0.001, 0.01, 0.1})
				convey.So(cfg.MetricsConstLabels, convey.ShouldResemble, map[string]string{"tournament": "world-cup"})
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(`
log_level: warn
feed_queue_size: 64
`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("SCOREBOARD_FEED_QUEUE_SIZE", "128")

			cfg, err := config.LoadFrom(ctx, tmpFile)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "warn")
				convey.So(cfg.FeedQueueSize, convey.ShouldEqual, 128)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			cfg, err := config.LoadFrom(ctx, tmpFile)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			cfg, err := config.LoadFrom(ctx, "/non/existent/file.yaml")

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("SCOREBOARD_FEED_QUEUE_SIZE", "invalid")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config that fails validation", func() {
			_ = os.Setenv("SCOREBOARD_FEED_QUEUE_SIZE", "-1")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return ErrInvalidConfig", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "feed_queue_size")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"SCOREBOARD_CONFIG",
		"SCOREBOARD_LOG_LEVEL",
		"SCOREBOARD_TEAM_NAME_MAX_LENGTH",
		"SCOREBOARD_STRICT_LIFECYCLE",
		"SCOREBOARD_FEED_QUEUE_SIZE",
		"SCOREBOARD_FEED_DEDUPE_SIZE",
		"SCOREBOARD_METRICS_NAMESPACE",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "scoreboard-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
