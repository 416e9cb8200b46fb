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

func newHierarchyService(t *testing.T, db *gorm.DB) HierarchyService {
	t.Helper()
	log := testutil.Logger(t)
	return NewHierarchyService(
		db, log,
		repos.NewCourseRepo(db, log),
		repos.NewCourseModuleRepo(db, log),
		repos.NewLessonRepo(db, log),
		repos.NewEnrollmentRepo(db, log),
	)
}

func TestHierarchyService_CreateCourse_RequiresTitle(t *testing.T) {
	db := testutil.DB(t)
	svc := newHierarchyService(t, db)
	ctx := context.Background()

	if _, err := svc.CreateCourse(ctx, CreateCourseInput{}); !apperrors.IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestHierarchyService_UpdateCourse_PartialUpdate(t *testing.T) {
	db := testutil.DB(t)
	svc := newHierarchyService(t, db)
	ctx := context.Background()

	course, err := svc.CreateCourse(ctx, CreateCourseInput{Title: "Go Fundamentals", Level: "beginner"})
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}

	published := true
	updated, err := svc.UpdateCourse(ctx, course.ID, UpdateCourseInput{Published: &published})
	if err != nil {
		t.Fatalf("UpdateCourse: %v", err)
	}
	if !updated.Published {
		t.Fatal("published flag not applied")
	}
	if updated.Title != "Go Fundamentals" || updated.Level != "beginner" {
		t.Fatalf("unset fields were modified: %+v", updated)
	}

	empty := ""
	if _, err := svc.UpdateCourse(ctx, course.ID, UpdateCourseInput{Title: &empty}); !apperrors.IsValidation(err) {
		t.Fatalf("err = %v, want validation error for empty title", err)
	}
	if _, err := svc.UpdateCourse(ctx, uuid.New(), UpdateCourseInput{Published: &published}); !apperrors.IsNotFound(err) {
		t.Fatalf("err = %v, want not-found for unknown course", err)
	}
}

func TestHierarchyService_CreateModule_ParentMustExist(t *testing.T) {
	db := testutil.DB(t)
	svc := newHierarchyService(t, db)
	ctx := context.Background()

	if _, err := svc.CreateModule(ctx, uuid.New(), "Orphan", 0); !apperrors.IsNotFound(err) {
		t.Fatalf("err = %v, want not-found for missing course", err)
	}

	course, err := svc.CreateCourse(ctx, CreateCourseInput{Title: "Go Fundamentals"})
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}
	module, err := svc.CreateModule(ctx, course.ID, "Getting Started", 0)
	if err != nil {
		t.Fatalf("CreateModule: %v", err)
	}
	if module.CourseID != course.ID {
		t.Fatalf("module.CourseID = %s, want %s", module.CourseID, course.ID)
	}
}

func TestHierarchyService_CreateLesson_ParentMustExist(t *testing.T) {
	db := testutil.DB(t)
	svc := newHierarchyService(t, db)
	ctx := context.Background()

	if _, err := svc.CreateLesson(ctx, uuid.New(), "Orphan", 0, nil); !apperrors.IsNotFound(err) {
		t.Fatalf("err = %v, want not-found for missing module", err)
	}
}

func TestHierarchyService_ListLessonIDsForCourse(t *testing.T) {
	db := testutil.DB(t)
	svc := newHierarchyService(t, db)
	ctx := context.Background()

	course, lessons := testutil.SeedCourseTree(t, db, "SQL for Engineers", 2, 3)
	// A second course proves the join is scoped to one course.
	testutil.SeedCourseTree(t, db, "Go Fundamentals", 1)

	ids, err := svc.ListLessonIDsForCourse(ctx, nil, course.ID)
	if err != nil {
		t.Fatalf("ListLessonIDsForCourse: %v", err)
	}
	if len(ids) != len(lessons) {
		t.Fatalf("len = %d, want %d", len(ids), len(lessons))
	}
}

func TestHierarchyService_DeleteCourseRows_ChildrenBeforeParents(t *testing.T) {
	db := testutil.DB(t)
	svc := newHierarchyService(t, db)
	ctx := context.Background()

	user := testutil.SeedUser(t, db)
	course, _ := testutil.SeedCourseTree(t, db, "Distributed Systems", 2, 1)
	testutil.SeedEnrollment(t, db, user.ID, course.ID)

	if err := svc.DeleteCourseRows(ctx, nil, course.ID); err != nil {
		t.Fatalf("DeleteCourseRows: %v", err)
	}

	if _, err := svc.GetCourse(ctx, course.ID); !apperrors.IsNotFound(err) {
		t.Fatalf("course still present after delete: %v", err)
	}
	ids, err := svc.ListLessonIDsForCourse(ctx, nil, course.ID)
	if err != nil {
		t.Fatalf("ListLessonIDsForCourse: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("lessons survived delete: %v", ids)
	}
}
