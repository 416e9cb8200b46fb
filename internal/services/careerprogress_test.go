package services

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/edvance/edvance-backend/internal/domain"
	apperrors "github.com/edvance/edvance-backend/internal/pkg/errors"
	"github.com/edvance/edvance-backend/internal/repos"
	"github.com/edvance/edvance-backend/internal/repos/testutil"
)

func newCareerProgressService(t *testing.T, db *gorm.DB) CareerProgressService {
	t.Helper()
	log := testutil.Logger(t)
	return NewCareerProgressService(
		db, log,
		repos.NewUserRepo(db, log),
		repos.NewCareerPathRepo(db, log),
		repos.NewUserCareerProgressRepo(db, log),
	)
}

func TestCareerProgressService_StartPath_IsIdempotent(t *testing.T) {
	db := testutil.DB(t)
	svc := newCareerProgressService(t, db)
	ctx := context.Background()

	user := testutil.SeedUser(t, db)
	path := testutil.SeedCareerPath(t, db, "backend-engineer", uuid.New())

	first, err := svc.StartPath(ctx, user.ID, path.ID)
	if err != nil {
		t.Fatalf("StartPath: %v", err)
	}
	second, err := svc.StartPath(ctx, user.ID, path.ID)
	if err != nil {
		t.Fatalf("StartPath again: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("second start created a new row: %s vs %s", first.ID, second.ID)
	}
	if first.ProgressPercent != 0 || len(first.CompletedCourses) != 0 {
		t.Fatalf("fresh row not empty: %v", first)
	}
}

func TestCareerProgressService_StartPath_UnknownUserOrPath(t *testing.T) {
	db := testutil.DB(t)
	svc := newCareerProgressService(t, db)
	ctx := context.Background()

	user := testutil.SeedUser(t, db)
	path := testutil.SeedCareerPath(t, db, "ml-engineer")

	if _, err := svc.StartPath(ctx, uuid.New(), path.ID); !apperrors.IsNotFound(err) {
		t.Fatalf("unknown user: err = %v, want not-found", err)
	}
	if _, err := svc.StartPath(ctx, user.ID, uuid.New()); !apperrors.IsNotFound(err) {
		t.Fatalf("unknown path: err = %v, want not-found", err)
	}
}

func TestCareerProgressService_OnCourseCompleted_UpdatesPercentAndIndex(t *testing.T) {
	db := testutil.DB(t)
	svc := newCareerProgressService(t, db)
	ctx := context.Background()

	user := testutil.SeedUser(t, db)
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	path := testutil.SeedCareerPath(t, db, "backend-engineer", a, b, c)

	if _, err := svc.StartPath(ctx, user.ID, path.ID); err != nil {
		t.Fatalf("StartPath: %v", err)
	}

	row, err := svc.OnCourseCompleted(ctx, user.ID, path.ID, a)
	if err != nil {
		t.Fatalf("OnCourseCompleted: %v", err)
	}
	if math.Abs(row.ProgressPercent-100.0/3) > 1e-9 {
		t.Fatalf("percent = %v, want %v", row.ProgressPercent, 100.0/3)
	}
	if row.CurrentCourseIndex != 1 {
		t.Fatalf("current index = %d, want 1", row.CurrentCourseIndex)
	}

	// Completing the same course again changes nothing.
	row, err = svc.OnCourseCompleted(ctx, user.ID, path.ID, a)
	if err != nil {
		t.Fatalf("OnCourseCompleted repeat: %v", err)
	}
	if len(row.CompletedCourses) != 1 {
		t.Fatalf("completed set grew on repeat: %v", row.CompletedCourses)
	}

	for _, id := range []uuid.UUID{b, c} {
		if row, err = svc.OnCourseCompleted(ctx, user.ID, path.ID, id); err != nil {
			t.Fatalf("OnCourseCompleted: %v", err)
		}
	}
	if math.Abs(row.ProgressPercent-100) > 1e-9 {
		t.Fatalf("percent = %v, want 100", row.ProgressPercent)
	}
	if row.CurrentCourseIndex != 3 {
		t.Fatalf("current index = %d, want len(course_ids) when done", row.CurrentCourseIndex)
	}
}

func TestCareerProgressService_OnCourseCompleted_NonMemberIsNoop(t *testing.T) {
	db := testutil.DB(t)
	svc := newCareerProgressService(t, db)
	ctx := context.Background()

	user := testutil.SeedUser(t, db)
	path := testutil.SeedCareerPath(t, db, "backend-engineer", uuid.New())

	if _, err := svc.StartPath(ctx, user.ID, path.ID); err != nil {
		t.Fatalf("StartPath: %v", err)
	}

	row, err := svc.OnCourseCompleted(ctx, user.ID, path.ID, uuid.New())
	if err != nil {
		t.Fatalf("OnCourseCompleted: %v", err)
	}
	if len(row.CompletedCourses) != 0 || row.ProgressPercent != 0 {
		t.Fatalf("non-member completion mutated the row: %v", row)
	}
}

func TestCareerProgressService_OnCourseCompleted_CorruptMembershipList(t *testing.T) {
	db := testutil.DB(t)
	svc := newCareerProgressService(t, db)
	ctx := context.Background()

	user := testutil.SeedUser(t, db)
	a, b := uuid.New(), uuid.New()
	path := testutil.SeedCareerPath(t, db, "backend-engineer", a, b)

	if _, err := svc.StartPath(ctx, user.ID, path.ID); err != nil {
		t.Fatalf("StartPath: %v", err)
	}

	// Duplicates are rejected at write time, so plant one behind the
	// service's back.
	corrupt := datatypes.JSONSlice[uuid.UUID]{a, a, b}
	if err := db.Model(&domain.CareerPath{}).Where("id = ?", path.ID).Update("course_ids", corrupt).Error; err != nil {
		t.Fatalf("corrupt path row: %v", err)
	}

	if _, err := svc.OnCourseCompleted(ctx, user.ID, path.ID, a); !apperrors.IsConsistency(err) {
		t.Fatalf("err = %v, want consistency violation for duplicated membership list", err)
	}

	// The rejected write must not have touched the progress row.
	row, err := svc.GetProgress(ctx, user.ID, path.ID)
	if err != nil {
		t.Fatalf("GetProgress: %v", err)
	}
	if len(row.CompletedCourses) != 0 || row.ProgressPercent != 0 {
		t.Fatalf("progress row mutated by rejected write: %v", row)
	}
}

func TestCareerProgressService_OnCourseRemovedFromPath_RecomputesAgainstNewList(t *testing.T) {
	db := testutil.DB(t)
	svc := newCareerProgressService(t, db)
	pathSvc := newCareerPathService(t, db)
	ctx := context.Background()

	user := testutil.SeedUser(t, db)
	a, b, c, d := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	path := testutil.SeedCareerPath(t, db, "backend-engineer", a, b, c, d)

	if _, err := svc.StartPath(ctx, user.ID, path.ID); err != nil {
		t.Fatalf("StartPath: %v", err)
	}
	// 2 of 4 done -> 50 percent.
	for _, id := range []uuid.UUID{a, b} {
		if _, err := svc.OnCourseCompleted(ctx, user.ID, path.ID, id); err != nil {
			t.Fatalf("OnCourseCompleted: %v", err)
		}
	}

	// Remove completed course b: 1 of 3 -> 33.3 percent.
	if _, err := pathSvc.RemoveCourseFromAllPaths(ctx, nil, b); err != nil {
		t.Fatalf("RemoveCourseFromAllPaths: %v", err)
	}
	recalculated, failed, err := svc.OnCourseRemovedFromPath(ctx, nil, path.ID, b)
	if err != nil {
		t.Fatalf("OnCourseRemovedFromPath: %v", err)
	}
	if recalculated != 1 || len(failed) != 0 {
		t.Fatalf("recalculated = %d, failed = %v", recalculated, failed)
	}

	row, err := svc.GetProgress(ctx, user.ID, path.ID)
	if err != nil {
		t.Fatalf("GetProgress: %v", err)
	}
	if math.Abs(row.ProgressPercent-100.0/3) > 1e-9 {
		t.Fatalf("percent = %v, want %v", row.ProgressPercent, 100.0/3)
	}
	if len(row.CompletedCourses) != 1 || row.CompletedCourses[0] != a {
		t.Fatalf("completed = %v, want [%s]", row.CompletedCourses, a)
	}
}

func TestCareerProgressService_OnCourseRemovedFromPath_LastCourseGone(t *testing.T) {
	db := testutil.DB(t)
	svc := newCareerProgressService(t, db)
	pathSvc := newCareerPathService(t, db)
	ctx := context.Background()

	user := testutil.SeedUser(t, db)
	only := uuid.New()
	path := testutil.SeedCareerPath(t, db, "single-course", only)

	if _, err := svc.StartPath(ctx, user.ID, path.ID); err != nil {
		t.Fatalf("StartPath: %v", err)
	}
	if _, err := svc.OnCourseCompleted(ctx, user.ID, path.ID, only); err != nil {
		t.Fatalf("OnCourseCompleted: %v", err)
	}

	if _, err := pathSvc.RemoveCourseFromAllPaths(ctx, nil, only); err != nil {
		t.Fatalf("RemoveCourseFromAllPaths: %v", err)
	}
	if _, _, err := svc.OnCourseRemovedFromPath(ctx, nil, path.ID, only); err != nil {
		t.Fatalf("OnCourseRemovedFromPath: %v", err)
	}

	row, err := svc.GetProgress(ctx, user.ID, path.ID)
	if err != nil {
		t.Fatalf("GetProgress: %v", err)
	}
	// Empty membership list means exactly 0, never NaN.
	if row.ProgressPercent != 0 {
		t.Fatalf("percent = %v, want 0 for empty path", row.ProgressPercent)
	}
	if len(row.CompletedCourses) != 0 {
		t.Fatalf("completed = %v, want empty", row.CompletedCourses)
	}
}
