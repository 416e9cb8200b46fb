package errors

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"
)

func TestClassifyStore(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		transient bool
	}{
		{"sqlite busy", errors.New("database is locked (5) (SQLITE_BUSY)"), true},
		{"closed pool", errors.New("sql: database is closed"), true},
		{"bad connection", fmt.Errorf("exec statement: %w", driver.ErrBadConn), true},
		{"serialization failure", errors.New("ERROR: could not serialize access due to concurrent update (SQLSTATE 40001)"), true},
		{"deadlock", errors.New("ERROR: deadlock detected (SQLSTATE 40P01)"), true},
		{"constraint violation", errors.New("UNIQUE constraint failed: career_paths.slug"), false},
		{"record not found", fmt.Errorf("get course: %w", errors.New("record not found")), false},
	}
	for _, tc := range cases {
		got := ClassifyStore(tc.err)
		if IsTransient(got) != tc.transient {
			t.Fatalf("%s: IsTransient = %v, want %v", tc.name, IsTransient(got), tc.transient)
		}
		if !errors.Is(got, tc.err) {
			t.Fatalf("%s: original error lost from the chain", tc.name)
		}
	}
}

func TestClassifyStore_SentinelsPassThrough(t *testing.T) {
	wrapped := fmt.Errorf("course x: %w", ErrNotFound)
	if got := ClassifyStore(wrapped); got != wrapped {
		t.Fatalf("not-found sentinel rewrapped: %v", got)
	}
	already := fmt.Errorf("retry me: %w", ErrTransient)
	if got := ClassifyStore(already); got != already {
		t.Fatalf("transient sentinel double-wrapped: %v", got)
	}
	if got := ClassifyStore(nil); got != nil {
		t.Fatalf("nil classified as %v", got)
	}
}
