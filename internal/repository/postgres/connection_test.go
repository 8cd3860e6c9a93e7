package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"curriculum/internal/domain"
)

func TestNewTableNames(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{prefix: "dev_", want: "dev_courses"},
		{prefix: "prod_", want: "prod_courses"},
		{prefix: "", want: "courses"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := NewTableNames(tt.prefix).Courses; got != tt.want {
				t.Errorf("Courses = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorClassification(t *testing.T) {
	if !IsPgNoRowsError(fmt.Errorf("get: %w", pgx.ErrNoRows)) {
		t.Error("wrapped ErrNoRows not detected")
	}
	if IsPgNoRowsError(errors.New("x")) {
		t.Error("plain error reported as no rows")
	}
	if !IsPgUndefinedTableError(fmt.Errorf("query: %w", &pgconn.PgError{Code: "42P01"})) {
		t.Error("wrapped undefined table not detected")
	}
	if IsPgUndefinedTableError(&pgconn.PgError{Code: "23505"}) {
		t.Error("unique violation reported as undefined table")
	}
}

func TestCourseError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantConfig bool
	}{
		{name: "missing table", err: &pgconn.PgError{Code: "42P01"}, wantConfig: true},
		{name: "other postgres error", err: &pgconn.PgError{Code: "57014"}},
		{name: "transport error", err: errors.New("connection reset")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := courseError("get course c1", tt.err)
			if errors.Is(got, domain.ErrConfiguration) != tt.wantConfig {
				t.Errorf("courseError() = %v, configuration error = %v, want %v", got, !tt.wantConfig, tt.wantConfig)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("courseError() = %v, does not wrap %v", got, tt.err)
			}
		})
	}
}
