package domain

import (
	"math"
	"testing"

	"github.com/google/uuid"
)

func ids(n int) []uuid.UUID {
	out := make([]uuid.UUID, n)
	for i := range out {
		out[i] = uuid.New()
	}
	return out
}

func TestRemoveIDPreservesOrder(t *testing.T) {
	list := ids(4) // stands in for [3, 5, 4, 6]
	got := RemoveID(list, list[1])

	want := []uuid.UUID{list[0], list[2], list[3]}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestRemoveIDAbsentIsNoop(t *testing.T) {
	list := ids(3)
	got := RemoveID(list, uuid.New())
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i := range list {
		if got[i] != list[i] {
			t.Fatalf("position %d changed", i)
		}
	}
}

func TestHasDuplicateIDs(t *testing.T) {
	list := ids(3)
	if HasDuplicateIDs(list) {
		t.Fatal("unique list reported as duplicated")
	}
	if !HasDuplicateIDs(append(list, list[0])) {
		t.Fatal("duplicated list not detected")
	}
	if HasDuplicateIDs(nil) {
		t.Fatal("empty list reported as duplicated")
	}
}

func TestIntersectIDsClampsToList(t *testing.T) {
	list := ids(3)
	set := []uuid.UUID{list[2], uuid.New(), list[0]}

	got := IntersectIDs(set, list)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	// Output follows list order, not set order.
	if got[0] != list[0] || got[1] != list[2] {
		t.Fatalf("got %v, want [%s %s]", got, list[0], list[2])
	}
}

func TestPercentOf(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		total     int
		want      float64
	}{
		{"zero total", 0, 0, 0},
		{"negative total", 1, -1, 0},
		{"half", 1, 2, 50},
		{"third", 1, 3, 100.0 / 3},
		{"all", 3, 3, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentOf(tt.completed, tt.total)
			if math.IsNaN(got) {
				t.Fatal("got NaN")
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}
