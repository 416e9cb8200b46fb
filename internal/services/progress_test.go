package services

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "github.com/edvance/edvance-backend/internal/pkg/errors"
	"github.com/edvance/edvance-backend/internal/repos"
	"github.com/edvance/edvance-backend/internal/repos/testutil"
)

func newProgressService(t *testing.T, db *gorm.DB) ProgressService {
	t.Helper()
	log := testutil.Logger(t)
	return NewProgressService(
		db, log,
		repos.NewUserRepo(db, log),
		repos.NewCourseRepo(db, log),
		repos.NewCourseModuleRepo(db, log),
		repos.NewLessonRepo(db, log),
		repos.NewEnrollmentRepo(db, log),
		repos.NewLessonProgressRepo(db, log),
	)
}

func TestProgressService_Enroll_TwiceReturnsExistingRow(t *testing.T) {
	db := testutil.DB(t)
	svc := newProgressService(t, db)
	ctx := context.Background()

	user := testutil.SeedUser(t, db)
	course := testutil.SeedCourse(t, db, "Go Fundamentals")

	first, err := svc.Enroll(ctx, user.ID, course.ID)
	if err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	second, err := svc.Enroll(ctx, user.ID, course.ID)
	if err != nil {
		t.Fatalf("Enroll again: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("second enroll created a new row: %s vs %s", first.ID, second.ID)
	}
}

func TestProgressService_Enroll_UnknownUserOrCourse(t *testing.T) {
	db := testutil.DB(t)
	svc := newProgressService(t, db)
	ctx := context.Background()

	user := testutil.SeedUser(t, db)
	course := testutil.SeedCourse(t, db, "SQL for Engineers")

	if _, err := svc.Enroll(ctx, uuid.New(), course.ID); !apperrors.IsNotFound(err) {
		t.Fatalf("unknown user: err = %v, want not-found", err)
	}
	if _, err := svc.Enroll(ctx, user.ID, uuid.New()); !apperrors.IsNotFound(err) {
		t.Fatalf("unknown course: err = %v, want not-found", err)
	}
}

func TestProgressService_RecordLessonCompletion_UpdatesPercent(t *testing.T) {
	db := testutil.DB(t)
	svc := newProgressService(t, db)
	ctx := context.Background()

	user := testutil.SeedUser(t, db)
	course, lessons := testutil.SeedCourseTree(t, db, "Go Fundamentals", 2, 2)
	if _, err := svc.Enroll(ctx, user.ID, course.ID); err != nil {
		t.Fatalf("Enroll: %v", err)
	}

	percent, err := svc.RecordLessonCompletion(ctx, user.ID, lessons[0].ID)
	if err != nil {
		t.Fatalf("RecordLessonCompletion: %v", err)
	}
	if math.Abs(percent-25) > 1e-9 {
		t.Fatalf("percent = %v, want 25", percent)
	}

	// Completing the same lesson again must not change the number.
	percent, err = svc.RecordLessonCompletion(ctx, user.ID, lessons[0].ID)
	if err != nil {
		t.Fatalf("RecordLessonCompletion repeat: %v", err)
	}
	if math.Abs(percent-25) > 1e-9 {
		t.Fatalf("repeat percent = %v, want 25", percent)
	}

	for _, l := range lessons[1:] {
		if percent, err = svc.RecordLessonCompletion(ctx, user.ID, l.ID); err != nil {
			t.Fatalf("RecordLessonCompletion: %v", err)
		}
	}
	if math.Abs(percent-100) > 1e-9 {
		t.Fatalf("percent = %v, want 100", percent)
	}

	enrollment, err := repos.NewEnrollmentRepo(db, testutil.Logger(t)).GetByUserAndCourse(ctx, nil, user.ID, course.ID)
	if err != nil {
		t.Fatalf("GetByUserAndCourse: %v", err)
	}
	if !enrollment.Completed {
		t.Fatal("enrollment not marked completed at 100 percent")
	}
}

func TestProgressService_RecordLessonCompletion_NotEnrolled(t *testing.T) {
	db := testutil.DB(t)
	svc := newProgressService(t, db)
	ctx := context.Background()

	user := testutil.SeedUser(t, db)
	_, lessons := testutil.SeedCourseTree(t, db, "Distributed Systems", 1)

	if _, err := svc.RecordLessonCompletion(ctx, user.ID, lessons[0].ID); !apperrors.IsNotFound(err) {
		t.Fatalf("err = %v, want not-found for unenrolled user", err)
	}
}

func TestProgressService_RecordLessonCompletion_UnknownLesson(t *testing.T) {
	db := testutil.DB(t)
	svc := newProgressService(t, db)
	ctx := context.Background()

	user := testutil.SeedUser(t, db)
	if _, err := svc.RecordLessonCompletion(ctx, user.ID, uuid.New()); !apperrors.IsNotFound(err) {
		t.Fatalf("err = %v, want not-found for unknown lesson", err)
	}
}

func TestProgressService_RecalculateEnrollmentProgress_ShrunkenCourse(t *testing.T) {
	db := testutil.DB(t)
	svc := newProgressService(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	user := testutil.SeedUser(t, db)
	course, lessons := testutil.SeedCourseTree(t, db, "Go Fundamentals", 4)
	if _, err := svc.Enroll(ctx, user.ID, course.ID); err != nil {
		t.Fatalf("Enroll: %v", err)
	}

	// Complete 2 of 4 -> 50 percent.
	for _, l := range lessons[:2] {
		if _, err := svc.RecordLessonCompletion(ctx, user.ID, l.ID); err != nil {
			t.Fatalf("RecordLessonCompletion: %v", err)
		}
	}

	// Drop one completed lesson: its progress rows first, then the row
	// itself, then recompute. 1 of 3 -> 33.3 percent.
	lessonRepo := repos.NewLessonRepo(db, log)
	if _, err := svc.RemoveLessonProgress(ctx, nil, []uuid.UUID{lessons[0].ID}); err != nil {
		t.Fatalf("RemoveLessonProgress: %v", err)
	}
	if err := lessonRepo.FullDeleteByIDs(ctx, nil, []uuid.UUID{lessons[0].ID}); err != nil {
		t.Fatalf("FullDeleteByIDs: %v", err)
	}
	failed, err := svc.RecalculateEnrollmentProgress(ctx, nil, course.ID)
	if err != nil {
		t.Fatalf("RecalculateEnrollmentProgress: %v", err)
	}
	if len(failed) != 0 {
		t.Fatalf("failed users = %v, want none", failed)
	}

	enrollment, err := repos.NewEnrollmentRepo(db, log).GetByUserAndCourse(ctx, nil, user.ID, course.ID)
	if err != nil {
		t.Fatalf("GetByUserAndCourse: %v", err)
	}
	if math.Abs(enrollment.ProgressPercent-100.0/3) > 1e-9 {
		t.Fatalf("percent = %v, want %v", enrollment.ProgressPercent, 100.0/3)
	}
}

func TestProgressService_RecalculateEnrollmentProgress_NoLessonsMeansZero(t *testing.T) {
	db := testutil.DB(t)
	svc := newProgressService(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	user := testutil.SeedUser(t, db)
	course, lessons := testutil.SeedCourseTree(t, db, "SQL for Engineers", 1)
	if _, err := svc.Enroll(ctx, user.ID, course.ID); err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	if _, err := svc.RecordLessonCompletion(ctx, user.ID, lessons[0].ID); err != nil {
		t.Fatalf("RecordLessonCompletion: %v", err)
	}

	if _, err := svc.RemoveLessonProgress(ctx, nil, []uuid.UUID{lessons[0].ID}); err != nil {
		t.Fatalf("RemoveLessonProgress: %v", err)
	}
	if err := repos.NewLessonRepo(db, log).FullDeleteByIDs(ctx, nil, []uuid.UUID{lessons[0].ID}); err != nil {
		t.Fatalf("FullDeleteByIDs: %v", err)
	}
	if _, err := svc.RecalculateEnrollmentProgress(ctx, nil, course.ID); err != nil {
		t.Fatalf("RecalculateEnrollmentProgress: %v", err)
	}

	enrollment, err := repos.NewEnrollmentRepo(db, log).GetByUserAndCourse(ctx, nil, user.ID, course.ID)
	if err != nil {
		t.Fatalf("GetByUserAndCourse: %v", err)
	}
	if enrollment.ProgressPercent != 0 {
		t.Fatalf("percent = %v, want exactly 0 for a course with no lessons", enrollment.ProgressPercent)
	}
	if enrollment.Completed {
		t.Fatal("zero-lesson course must not be marked completed")
	}
}
