package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "github.com/edvance/edvance-backend/internal/pkg/errors"
	"github.com/edvance/edvance-backend/internal/repos"
	"github.com/edvance/edvance-backend/internal/repos/testutil"
)

func newCareerPathService(t *testing.T, db *gorm.DB) CareerPathService {
	t.Helper()
	log := testutil.Logger(t)
	return NewCareerPathService(db, log, repos.NewCareerPathRepo(db, log))
}

func TestCareerPathService_CreatePath_RejectsDuplicates(t *testing.T) {
	db := testutil.DB(t)
	svc := newCareerPathService(t, db)
	ctx := context.Background()

	dup := uuid.New()
	_, err := svc.CreatePath(ctx, CreateCareerPathInput{
		Slug:      "backend-engineer",
		Name:      "Backend Engineer",
		CourseIDs: []uuid.UUID{dup, uuid.New(), dup},
	})
	if !apperrors.IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestCareerPathService_CreatePath_MissingSlug(t *testing.T) {
	db := testutil.DB(t)
	svc := newCareerPathService(t, db)
	ctx := context.Background()

	if _, err := svc.CreatePath(ctx, CreateCareerPathInput{Name: "No Slug"}); !apperrors.IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestCareerPathService_SetCourses_AtomicSwap(t *testing.T) {
	db := testutil.DB(t)
	svc := newCareerPathService(t, db)
	ctx := context.Background()

	path, err := svc.CreatePath(ctx, CreateCareerPathInput{Slug: "data-engineer", Name: "Data Engineer"})
	if err != nil {
		t.Fatalf("CreatePath: %v", err)
	}

	want := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	got, err := svc.SetCourses(ctx, path.ID, want)
	if err != nil {
		t.Fatalf("SetCourses: %v", err)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d = %s, want %s", i, got[i], want[i])
		}
	}

	reloaded, err := svc.GetPath(ctx, path.ID)
	if err != nil {
		t.Fatalf("GetPath: %v", err)
	}
	if len(reloaded.CourseIDs) != 3 {
		t.Fatalf("persisted len = %d, want 3", len(reloaded.CourseIDs))
	}
}

func TestCareerPathService_SetCourses_RejectsDuplicates(t *testing.T) {
	db := testutil.DB(t)
	svc := newCareerPathService(t, db)
	ctx := context.Background()

	path, err := svc.CreatePath(ctx, CreateCareerPathInput{Slug: "platform-engineer", Name: "Platform Engineer"})
	if err != nil {
		t.Fatalf("CreatePath: %v", err)
	}

	dup := uuid.New()
	if _, err := svc.SetCourses(ctx, path.ID, []uuid.UUID{dup, uuid.New(), dup}); !apperrors.IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}

	// The rejected swap must leave the stored list untouched.
	reloaded, err := svc.GetPath(ctx, path.ID)
	if err != nil {
		t.Fatalf("GetPath: %v", err)
	}
	if len(reloaded.CourseIDs) != 0 {
		t.Fatalf("membership list mutated by rejected write: %v", reloaded.CourseIDs)
	}
}

func TestCareerPathService_SetCourses_UnknownPath(t *testing.T) {
	db := testutil.DB(t)
	svc := newCareerPathService(t, db)
	ctx := context.Background()

	if _, err := svc.SetCourses(ctx, uuid.New(), nil); !apperrors.IsNotFound(err) {
		t.Fatalf("err = %v, want not-found", err)
	}
}

func TestCareerPathService_RemoveCourseFromAllPaths_PreservesOrder(t *testing.T) {
	db := testutil.DB(t)
	svc := newCareerPathService(t, db)
	ctx := context.Background()

	// Membership [a, b, c, d]; removing b must leave [a, c, d].
	a, b, c, d := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	withB := testutil.SeedCareerPath(t, db, "with-b", a, b, c, d)
	withoutB := testutil.SeedCareerPath(t, db, "without-b", a, c)

	updated, err := svc.RemoveCourseFromAllPaths(ctx, nil, b)
	if err != nil {
		t.Fatalf("RemoveCourseFromAllPaths: %v", err)
	}
	if len(updated) != 1 || updated[0] != withB.ID {
		t.Fatalf("updated = %v, want exactly [%s]", updated, withB.ID)
	}

	got, err := svc.GetPath(ctx, withB.ID)
	if err != nil {
		t.Fatalf("GetPath: %v", err)
	}
	want := []uuid.UUID{a, c, d}
	if len(got.CourseIDs) != len(want) {
		t.Fatalf("len = %d, want %d", len(got.CourseIDs), len(want))
	}
	for i := range want {
		if got.CourseIDs[i] != want[i] {
			t.Fatalf("position %d = %s, want %s", i, got.CourseIDs[i], want[i])
		}
	}

	untouched, err := svc.GetPath(ctx, withoutB.ID)
	if err != nil {
		t.Fatalf("GetPath: %v", err)
	}
	if len(untouched.CourseIDs) != 2 {
		t.Fatalf("non-member path was modified: %v", untouched.CourseIDs)
	}
}

func TestCareerPathService_RemoveCourseFromAllPaths_AbsentIsNoop(t *testing.T) {
	db := testutil.DB(t)
	svc := newCareerPathService(t, db)
	ctx := context.Background()

	testutil.SeedCareerPath(t, db, "stable", uuid.New(), uuid.New())

	updated, err := svc.RemoveCourseFromAllPaths(ctx, nil, uuid.New())
	if err != nil {
		t.Fatalf("RemoveCourseFromAllPaths: %v", err)
	}
	if len(updated) != 0 {
		t.Fatalf("updated = %v, want none", updated)
	}
}
