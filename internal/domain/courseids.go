package domain

import "github.com/google/uuid"

// Helpers for the two shapes course ids travel in: CourseIDs is an ordered
// list, CompletedCourses a set. Keeping the operations separate keeps the
// no-duplicates and order-preservation invariants independently checkable.

func ContainsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// RemoveID filters id out of ids, preserving the relative order of the
// survivors. Removing an absent id returns the input unchanged.
func RemoveID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	if !ContainsID(ids, id) {
		return ids
	}
	out := make([]uuid.UUID, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func HasDuplicateIDs(ids []uuid.UUID) bool {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, v := range ids {
		if _, ok := seen[v]; ok {
			return true
		}
		seen[v] = struct{}{}
	}
	return false
}

// IntersectIDs returns the members of set that are also in list, in list
// order. Used to clamp a completed-course set to the current membership.
func IntersectIDs(set []uuid.UUID, list []uuid.UUID) []uuid.UUID {
	members := make(map[uuid.UUID]struct{}, len(set))
	for _, v := range set {
		members[v] = struct{}{}
	}
	out := make([]uuid.UUID, 0, len(set))
	for _, v := range list {
		if _, ok := members[v]; ok {
			out = append(out, v)
		}
	}
	return out
}

// PercentOf computes 100 * completed / total, defined as exactly 0 when
// total is 0. Never NaN.
func PercentOf(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return 100 * float64(completed) / float64(total)
}
