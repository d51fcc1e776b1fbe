// Package sqlite reads portfolio tables from a local SQLite snapshot.
//
// Timestamps are stored as RFC 3339 text (date-only for delivery_date is
// accepted) and array columns as JSON text arrays.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/okian/govdash/internal/adapters/gateway"
	"github.com/okian/govdash/internal/domain/model"
)

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05", time.DateOnly}

// Store implements gateway.Reader over a read-only SQLite database.
type Store struct {
	sqlDB *sql.DB
}

// Open opens the snapshot at path in read-only mode.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	sqlDB, err := sql.Open("sqlite", readOnlyDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// readOnlyDSN builds a file: URI for path. The path is percent-encoded so '?'
// and '#' in file names do not start the query or fragment.
func readOnlyDSN(path string) string {
	u := url.URL{
		Scheme:   "file",
		Path:     filepath.ToSlash(filepath.Clean(path)),
		RawQuery: "mode=ro&_pragma=busy_timeout(5000)",
	}
	return u.String()
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) Projects(ctx context.Context, q gateway.Query) ([]model.Project, error) {
	return query(ctx, s, model.KindProject, q,
		"id, title, description, period, context, objectives, results, status, created_at",
		func(rows *sql.Rows) (model.Project, error) {
			var (
				p                   model.Project
				objectives, results sql.NullString
				createdAt           string
			)
			err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Period, &p.Context,
				&objectives, &results, &p.Status, &createdAt)
			if err != nil {
				return p, err
			}
			if p.Objectives, err = decodeList(objectives); err != nil {
				return p, fmt.Errorf("objectives: %w", err)
			}
			if p.Results, err = decodeList(results); err != nil {
				return p, fmt.Errorf("results: %w", err)
			}
			p.CreatedAt, err = parseTime(createdAt)
			return p, err
		})
}

func (s *Store) Deliverables(ctx context.Context, q gateway.Query) ([]model.Deliverable, error) {
	return query(ctx, s, model.KindDeliverable, q,
		"id, project_id, title, description, category, completion_percentage, delivery_date, created_at",
		func(rows *sql.Rows) (model.Deliverable, error) {
			var (
				d            model.Deliverable
				deliveryDate sql.NullString
				createdAt    string
			)
			err := rows.Scan(&d.ID, &d.ProjectID, &d.Title, &d.Description, &d.Category,
				&d.CompletionPercentage, &deliveryDate, &createdAt)
			if err != nil {
				return d, err
			}
			if deliveryDate.Valid && deliveryDate.String != "" {
				t, err := parseTime(deliveryDate.String)
				if err != nil {
					return d, fmt.Errorf("delivery_date: %w", err)
				}
				d.DeliveryDate = &t
			}
			d.CreatedAt, err = parseTime(createdAt)
			return d, err
		})
}

func (s *Store) KPIs(ctx context.Context, q gateway.Query) ([]model.KPI, error) {
	return query(ctx, s, model.KindKPI, q,
		"id, name, initial_value, target_value, current_value, unit, improvement_percentage, created_at",
		func(rows *sql.Rows) (model.KPI, error) {
			var (
				k           model.KPI
				improvement sql.NullFloat64
				createdAt   string
			)
			err := rows.Scan(&k.ID, &k.Name, &k.InitialValue, &k.TargetValue, &k.CurrentValue,
				&k.Unit, &improvement, &createdAt)
			if err != nil {
				return k, err
			}
			if improvement.Valid {
				v := improvement.Float64
				k.ImprovementPercentage = &v
			}
			k.CreatedAt, err = parseTime(createdAt)
			return k, err
		})
}

func (s *Store) Tools(ctx context.Context, q gateway.Query) ([]model.Tool, error) {
	return query(ctx, s, model.KindTool, q,
		"id, name, category, description, icon, created_at",
		func(rows *sql.Rows) (model.Tool, error) {
			var (
				t                 model.Tool
				description, icon sql.NullString
				createdAt         string
			)
			err := rows.Scan(&t.ID, &t.Name, &t.Category, &description, &icon, &createdAt)
			if err != nil {
				return t, err
			}
			t.Description = optional(description)
			t.Icon = optional(icon)
			t.CreatedAt, err = parseTime(createdAt)
			return t, err
		})
}

func (s *Store) MethodologySteps(ctx context.Context, q gateway.Query) ([]model.MethodologyStep, error) {
	return query(ctx, s, model.KindMethodologyStep, q,
		"id, step_number, title, description, activities, created_at",
		func(rows *sql.Rows) (model.MethodologyStep, error) {
			var (
				st         model.MethodologyStep
				activities sql.NullString
				createdAt  string
			)
			err := rows.Scan(&st.ID, &st.StepNumber, &st.Title, &st.Description, &activities, &createdAt)
			if err != nil {
				return st, err
			}
			if st.Activities, err = decodeList(activities); err != nil {
				return st, fmt.Errorf("activities: %w", err)
			}
			st.CreatedAt, err = parseTime(createdAt)
			return st, err
		})
}

func query[T any](
	ctx context.Context,
	s *Store,
	kind model.Kind,
	q gateway.Query,
	columns string,
	scan func(*sql.Rows) (T, error),
) ([]T, error) {
	if err := gateway.Check(kind, q); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, gateway.Fail(kind, gateway.ErrClosed)
	}

	stmt := "SELECT " + columns + " FROM " + kind.Table()
	if q.OrderBy != "" {
		stmt += " ORDER BY " + q.OrderBy + " ASC"
	}
	if q.Limit > 0 {
		stmt += " LIMIT " + strconv.Itoa(q.Limit)
	}

	rows, err := s.sqlDB.QueryContext(ctx, stmt)
	if err != nil {
		return nil, gateway.Fail(kind, err)
	}
	defer func() { _ = rows.Close() }()

	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, gateway.Fail(kind, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, gateway.Fail(kind, err)
	}
	return out, nil
}

// decodeList reads a JSON text array. NULL and empty text decode to an empty list.
func decodeList(s sql.NullString) ([]string, error) {
	if !s.Valid || strings.TrimSpace(s.String) == "" {
		return []string{}, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s.String), &out); err != nil {
		return nil, err
	}
	return gateway.NonNil(out), nil
}

func optional(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}
