package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/govdash/internal/adapters/gateway"
	. "github.com/smartystreets/goconvey/convey"
)

const schema = `
CREATE TABLE projects (
	id TEXT PRIMARY KEY, title TEXT NOT NULL, description TEXT NOT NULL, period TEXT NOT NULL,
	context TEXT NOT NULL, objectives TEXT, results TEXT, status TEXT NOT NULL, created_at TEXT NOT NULL
);
CREATE TABLE deliverables (
	id TEXT PRIMARY KEY, project_id TEXT NOT NULL, title TEXT NOT NULL, description TEXT NOT NULL,
	category TEXT NOT NULL, completion_percentage INTEGER NOT NULL, delivery_date TEXT, created_at TEXT NOT NULL
);
CREATE TABLE kpis (
	id TEXT PRIMARY KEY, name TEXT NOT NULL, initial_value REAL NOT NULL, target_value REAL NOT NULL,
	current_value REAL NOT NULL, unit TEXT NOT NULL, improvement_percentage REAL, created_at TEXT NOT NULL
);
CREATE TABLE tools (
	id TEXT PRIMARY KEY, name TEXT NOT NULL, category TEXT NOT NULL, description TEXT, icon TEXT, created_at TEXT NOT NULL
);
CREATE TABLE methodology_steps (
	id TEXT PRIMARY KEY, step_number INTEGER NOT NULL, title TEXT NOT NULL, description TEXT NOT NULL,
	activities TEXT, created_at TEXT NOT NULL
);
`

const fixtures = `
INSERT INTO projects VALUES ('p1', 'Gouvernance', 'desc', '2024', 'ctx', '["Cartographier","Qualifier"]', NULL, 'active', '2024-01-01T00:00:00Z');
INSERT INTO deliverables VALUES
	('d1', 'p1', 'Glossaire', 'desc', 'Documentation', 100, '2024-03-15', '2024-01-02T00:00:00Z'),
	('d2', 'p1', 'Modèle', 'desc', 'Architecture', 40, NULL, '2024-01-03T00:00:00Z');
INSERT INTO kpis VALUES
	('k1', 'Qualité', 55, 80, 79, '%', 24.5, '2024-01-01T00:00:00Z'),
	('k2', 'Couverture', 0, 25, 27, '%', NULL, '2024-01-01T00:00:00Z');
INSERT INTO tools VALUES
	('t1', 'Postgres', 'Stockage', 'db', 'database', '2024-01-01T00:00:00Z'),
	('t2', 'Grafana', 'Observabilité', NULL, NULL, '2024-01-01T00:00:00Z');
INSERT INTO methodology_steps VALUES
	('s3', 3, 'Déployer', 'desc', '["a"]', '2024-01-01T00:00:00Z'),
	('s1', 1, 'Cadrer', 'desc', '[]', '2024-01-01T00:00:00Z'),
	('s2', 2, 'Construire', 'desc', NULL, '2024-01-01T00:00:00Z');
`

func seed(t *testing.T, statements ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "portfolio.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = db.Close() }()
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return path
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given a seeded snapshot", t, func() {
		s, err := Open(seed(t, schema, fixtures))
		So(err, ShouldBeNil)
		Reset(func() { _ = s.Close() })

		Convey("Projects decode JSON arrays and keep their order", func() {
			ps, err := s.Projects(ctx, gateway.Query{Limit: 1})
			So(err, ShouldBeNil)
			So(ps, ShouldHaveLength, 1)
			So(ps[0].Objectives, ShouldResemble, []string{"Cartographier", "Qualifier"})
			So(ps[0].Results, ShouldNotBeNil)
			So(ps[0].Results, ShouldBeEmpty)
		})

		Convey("Deliverables carry optional delivery dates", func() {
			ds, err := s.Deliverables(ctx, gateway.Query{OrderBy: "category"})
			So(err, ShouldBeNil)
			So(ds, ShouldHaveLength, 2)
			So(ds[0].Category, ShouldEqual, "Architecture")
			So(ds[0].DeliveryDate, ShouldBeNil)
			So(ds[1].DeliveryDate.Day(), ShouldEqual, 15)
		})

		Convey("KPIs keep a missing improvement as nil", func() {
			ks, err := s.KPIs(ctx, gateway.Query{OrderBy: "name"})
			So(err, ShouldBeNil)
			So(ks[0].Name, ShouldEqual, "Couverture")
			So(ks[0].ImprovementPercentage, ShouldBeNil)
			So(*ks[1].ImprovementPercentage, ShouldEqual, 24.5)
		})

		Convey("Tools keep optional description and icon", func() {
			ts, err := s.Tools(ctx, gateway.Query{OrderBy: "name"})
			So(err, ShouldBeNil)
			So(ts[0].Name, ShouldEqual, "Grafana")
			So(ts[0].Icon, ShouldBeNil)
			So(*ts[1].Icon, ShouldEqual, "database")
		})

		Convey("Methodology steps are ordered by step number", func() {
			st, err := s.MethodologySteps(ctx, gateway.Query{OrderBy: "step_number"})
			So(err, ShouldBeNil)
			So(st, ShouldHaveLength, 3)
			So(st[0].StepNumber, ShouldEqual, 1)
			So(st[2].Activities, ShouldResemble, []string{"a"})
			So(st[1].Activities, ShouldBeEmpty)
		})

		Convey("Undeclared order columns are rejected", func() {
			_, err := s.Tools(ctx, gateway.Query{OrderBy: "1; DELETE FROM tools"})
			So(errors.Is(err, gateway.ErrUnknownField), ShouldBeTrue)
		})

		Convey("The snapshot is read-only", func() {
			_, err := s.sqlDB.ExecContext(ctx, "DELETE FROM tools")
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given an empty snapshot", t, func() {
		s, err := Open(seed(t, schema))
		So(err, ShouldBeNil)
		Reset(func() { _ = s.Close() })

		ks, err := s.KPIs(ctx, gateway.Query{OrderBy: "name"})
		So(err, ShouldBeNil)
		So(ks, ShouldNotBeNil)
		So(ks, ShouldBeEmpty)
	})

	Convey("Given a snapshot missing a table", t, func() {
		s, err := Open(seed(t, "CREATE TABLE kpis (id TEXT)"))
		So(err, ShouldBeNil)
		Reset(func() { _ = s.Close() })

		_, err = s.Tools(ctx, gateway.Query{})
		So(errors.Is(err, gateway.ErrFetch), ShouldBeTrue)
	})

	Convey("Given a malformed array column", t, func() {
		s, err := Open(seed(t, schema,
			`INSERT INTO methodology_steps VALUES ('s1', 1, 't', 'd', 'not json', '2024-01-01T00:00:00Z')`))
		So(err, ShouldBeNil)
		Reset(func() { _ = s.Close() })

		_, err = s.MethodologySteps(ctx, gateway.Query{})
		So(errors.Is(err, gateway.ErrFetch), ShouldBeTrue)
	})

	Convey("Given a snapshot whose file name holds URI delimiters", t, func() {
		odd := filepath.Join(t.TempDir(), "snap?mode=rw#1.db")
		So(os.Rename(seed(t, schema, fixtures), odd), ShouldBeNil)

		s, err := Open(odd)
		So(err, ShouldBeNil)
		Reset(func() { _ = s.Close() })

		tools, err := s.Tools(ctx, gateway.Query{OrderBy: "name"})
		So(err, ShouldBeNil)
		So(tools, ShouldHaveLength, 2)

		Convey("And it is still opened read-only", func() {
			_, err := s.sqlDB.ExecContext(ctx, "DELETE FROM tools")
			So(err, ShouldNotBeNil)
		})
	})

	Convey("The DSN escapes the path and keeps the read-only query", t, func() {
		dsn := readOnlyDSN("/data/a?b#c.db")
		So(dsn, ShouldEqual, "file:///data/a%3Fb%23c.db?mode=ro&_pragma=busy_timeout(5000)")
	})

	Convey("Given no path", t, func() {
		_, err := Open(" ")
		So(err, ShouldNotBeNil)
	})

	Convey("A nil store closes cleanly", t, func() {
		var s *Store
		So(s.Close(), ShouldBeNil)
	})
}
