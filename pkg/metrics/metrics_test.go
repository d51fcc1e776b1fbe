package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should use the dashboard namespace", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "govdash")
				So(manager.subsystem, ShouldEqual, "dashboard")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options should be applied", func() {
				So(manager.namespace, ShouldEqual, "test_namespace")
				So(manager.subsystem, ShouldEqual, "test_subsystem")
			})

			Convey("And metrics should be registered under the custom names", func() {
				manager.activeSessions.Set(3)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "test_namespace_test_subsystem_active_sessions" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When passing empty option values", func() {
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults should be kept", func() {
				So(manager.namespace, ShouldEqual, "govdash")
				So(manager.subsystem, ShouldEqual, "dashboard")
				So(manager.histogramBuckets, ShouldNotBeEmpty)
			})
		})
	})
}

func TestInit(t *testing.T) {
	Convey("Given the global manager rebuilt with a custom namespace", t, func() {
		Init(WithNamespace("portfolio"), WithSubsystem("web"))
		Reset(func() { Init() })

		RecordHTTPRequest("views", "GET", "200")

		Convey("Then the served registry uses the new names only", func() {
			rec := httptest.NewRecorder()
			promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{}).
				ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
			body := rec.Body.String()
			So(body, ShouldContainSubstring, "portfolio_web_http_requests_total")
			So(body, ShouldNotContainSubstring, "govdash_dashboard_")
		})

		Convey("And resetting restores the default names", func() {
			Init()
			RecordHTTPRequest("views", "GET", "200")
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			names := make([]string, 0, len(families))
			for _, f := range families {
				names = append(names, f.GetName())
			}
			So(names, ShouldContain, "govdash_dashboard_http_requests_total")
		})
	})
}

func TestGatewayMetrics(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		fetches := globalManager.fetches.WithLabelValues("tools")
		failures := globalManager.fetchFailures.WithLabelValues("tools")
		records := globalManager.fetchRecords.WithLabelValues("tools")
		beforeFetches := testutil.ToFloat64(fetches)
		beforeFailures := testutil.ToFloat64(failures)
		beforeRecords := testutil.ToFloat64(records)

		Convey("When recording a successful and a failed fetch", func() {
			RecordFetch("tools", 12, 7)
			RecordFetchFailure("tools", 30)

			Convey("Then both count as fetches and only one as a failure", func() {
				So(testutil.ToFloat64(fetches)-beforeFetches, ShouldEqual, 2)
				So(testutil.ToFloat64(failures)-beforeFailures, ShouldEqual, 1)
				So(testutil.ToFloat64(records)-beforeRecords, ShouldEqual, 7)
			})
		})
	})
}

func TestViewMetrics(t *testing.T) {
	Convey("Given view metrics", t, func() {
		renders := globalManager.viewRenders.WithLabelValues("dashboard", "unavailable")
		before := testutil.ToFloat64(renders)
		staleBefore := testutil.ToFloat64(globalManager.staleActivations)

		Convey("When recording renders, sessions and stale activations", func() {
			RecordViewRender("dashboard", "unavailable")
			UpdateActiveSessions(4)
			RecordStaleActivation()

			Convey("Then the values should be reflected", func() {
				So(testutil.ToFloat64(renders)-before, ShouldEqual, 1)
				So(testutil.ToFloat64(globalManager.activeSessions), ShouldEqual, 4)
				So(testutil.ToFloat64(globalManager.staleActivations)-staleBefore, ShouldEqual, 1)
			})
		})
	})
}

func TestHTTPAndSystemMetrics(t *testing.T) {
	Convey("Given HTTP and system metrics", t, func() {
		Convey("When recording them", func() {
			So(func() {
				RecordHTTPRequest("views", "GET", "200")
				RecordHTTPRequestDuration("views", "GET", "200", 5.0)
				RecordErrorByEndpoint("views", "GET", "not_found")
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.4)
			}, ShouldNotPanic)

			Convey("Then the custom registry should expose them", func() {
				rec := httptest.NewRecorder()
				promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{}).
					ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
				So(rec.Code, ShouldEqual, http.StatusOK)
				body := rec.Body.String()
				So(strings.Contains(body, "govdash_dashboard_http_requests_total"), ShouldBeTrue)
				So(strings.Contains(body, "govdash_dashboard_system_goroutine_count 12"), ShouldBeTrue)
			})
		})
	})
}
