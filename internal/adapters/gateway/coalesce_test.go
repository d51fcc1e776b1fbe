package gateway_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/govdash/internal/adapters/gateway"
	"github.com/okian/govdash/internal/adapters/gateway/gatewaytest"
	"github.com/okian/govdash/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func waitForQueries(fake *gatewaytest.Reader, kind model.Kind, n int) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(fake.Queries(kind)) >= n {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func TestCoalesce(t *testing.T) {
	ctx := context.Background()

	Convey("Given a coalescing reader over a blocked backend", t, func() {
		fake := gatewaytest.New()
		fake.KPIRows = []model.KPI{{ID: "k1", Name: "Couverture"}}
		release := fake.Block(model.KindKPI)
		Reset(release)
		r := gateway.Coalesce(fake)

		Convey("Concurrent identical fetches share one backend call", func() {
			const callers = 5
			var wg sync.WaitGroup
			results := make([][]model.KPI, callers)
			errs := make([]error, callers)
			for i := range callers {
				wg.Add(1)
				go func() {
					defer wg.Done()
					results[i], errs[i] = r.KPIs(ctx, gateway.Query{OrderBy: "name"})
				}()
			}
			So(waitForQueries(fake, model.KindKPI, 1), ShouldBeTrue)
			time.Sleep(50 * time.Millisecond)
			release()
			wg.Wait()

			So(fake.Queries(model.KindKPI), ShouldHaveLength, 1)
			for i := range callers {
				So(errs[i], ShouldBeNil)
				So(results[i], ShouldHaveLength, 1)
			}

			Convey("And callers get independent slices", func() {
				results[0][0].Name = "changed"
				So(results[1][0].Name, ShouldEqual, "Couverture")
			})
		})

		Convey("A different query is not shared", func() {
			release()
			_, err := r.KPIs(ctx, gateway.Query{OrderBy: "name"})
			So(err, ShouldBeNil)
			_, err = r.KPIs(ctx, gateway.Query{OrderBy: "id"})
			So(err, ShouldBeNil)
			So(fake.Queries(model.KindKPI), ShouldHaveLength, 2)
		})

		Convey("A caller whose context ends stops waiting", func() {
			cctx, cancel := context.WithCancel(ctx)
			done := make(chan error, 1)
			go func() {
				_, err := r.KPIs(cctx, gateway.Query{})
				done <- err
			}()
			So(waitForQueries(fake, model.KindKPI, 1), ShouldBeTrue)
			cancel()

			err := <-done
			So(errors.Is(err, gateway.ErrFetch), ShouldBeTrue)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})

		Convey("Undeclared order fields are rejected before sharing", func() {
			_, err := r.Tools(ctx, gateway.Query{OrderBy: "drop"})
			So(errors.Is(err, gateway.ErrUnknownField), ShouldBeTrue)
			So(fake.Queries(model.KindTool), ShouldBeEmpty)
		})

		Convey("Failures are reported as fetch errors", func() {
			fake.FailWith(model.KindProject, errors.New("boom"))
			_, err := r.Projects(ctx, gateway.Query{Limit: 1})
			So(errors.Is(err, gateway.ErrFetch), ShouldBeTrue)
		})
	})
}
