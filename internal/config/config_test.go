package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/govdash/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Backend, convey.ShouldEqual, config.BackendPostgREST)
			convey.So(cfg.FetchTimeout(), convey.ShouldEqual, 10*time.Second)
			convey.So(cfg.SessionIdleTTL(), convey.ShouldEqual, 30*time.Minute)
			convey.So(cfg.MaxSessions, convey.ShouldEqual, 10_000)
			convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "govdash")
			convey.So(cfg.MetricsSubsystem, convey.ShouldEqual, "dashboard")
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a postgrest config", t, func() {
		cfg := config.New()
		cfg.Endpoint = "https://project.supabase.co"
		cfg.Credential = "anon-key"

		convey.Convey("Then a complete config should validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When the endpoint is not an http URL", func() {
			cfg.Endpoint = "ftp://project"
			err := cfg.Validate()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "endpoint must be an http(s) URL")
		})

		convey.Convey("When the credential is missing", func() {
			cfg.Credential = " "
			err := cfg.Validate()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "credential is required")
		})

		convey.Convey("When the fetch timeout is negative", func() {
			cfg.FetchTimeoutMS = -1
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the metrics prefix is not a valid series name", func() {
			cfg.MetricsNamespace = "gov-dash"
			convey.So(cfg.Validate().Error(), convey.ShouldContainSubstring, "metrics_namespace must match")

			cfg.MetricsNamespace = "portfolio"
			cfg.MetricsSubsystem = ""
			convey.So(cfg.Validate().Error(), convey.ShouldContainSubstring, "metrics_subsystem must match")

			cfg.MetricsSubsystem = "web_2"
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When a tracing collector is configured", func() {
			cfg.OTelEndpoint = "http://collector:4318"
			convey.So(cfg.Validate(), convey.ShouldBeNil)

			cfg.OTelEndpoint = "collector:4318"
			convey.So(cfg.Validate().Error(), convey.ShouldContainSubstring, "otel_endpoint must be an http(s) URL")
		})
	})

	convey.Convey("Given other backends", t, func() {
		cfg := config.New()

		convey.Convey("When postgres has no database_url", func() {
			cfg.Backend = config.BackendPostgres
			convey.So(cfg.Validate().Error(), convey.ShouldContainSubstring, "database_url is required")
			cfg.DatabaseURL = "postgres://localhost/portfolio"
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When sqlite has no path", func() {
			cfg.Backend = config.BackendSQLite
			convey.So(cfg.Validate().Error(), convey.ShouldContainSubstring, "sqlite_path is required")
			cfg.SQLitePath = "/tmp/portfolio.db"
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When the backend is unknown", func() {
			cfg.Backend = "mongo"
			convey.So(cfg.Validate().Error(), convey.ShouldContainSubstring, `unknown backend "mongo"`)
		})
	})
}
