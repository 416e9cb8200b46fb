package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/edvance/edvance-backend/internal/repos/testutil"
)

func TestCareerPathRepo_UpdateCourseIDs_ReplacesList(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	repo := NewCareerPathRepo(db, log)
	ctx := context.Background()

	a, b, c := uuid.New(), uuid.New(), uuid.New()
	path := testutil.SeedCareerPath(t, db, "backend-engineer", a, b, c)

	if err := repo.UpdateCourseIDs(ctx, nil, path.ID, []uuid.UUID{a, c}); err != nil {
		t.Fatalf("UpdateCourseIDs: %v", err)
	}

	got, err := repo.GetByID(ctx, nil, path.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.CourseIDs) != 2 || got.CourseIDs[0] != a || got.CourseIDs[1] != c {
		t.Fatalf("CourseIDs = %v, want [%s %s]", got.CourseIDs, a, c)
	}
}

func TestCareerPathRepo_UpdateCourseIDs_EmptyList(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	repo := NewCareerPathRepo(db, log)
	ctx := context.Background()

	path := testutil.SeedCareerPath(t, db, "solo", uuid.New())

	if err := repo.UpdateCourseIDs(ctx, nil, path.ID, nil); err != nil {
		t.Fatalf("UpdateCourseIDs: %v", err)
	}
	got, err := repo.GetByID(ctx, nil, path.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.CourseIDs) != 0 {
		t.Fatalf("CourseIDs = %v, want empty", got.CourseIDs)
	}
}

func TestCareerPathRepo_GetBySlug(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	repo := NewCareerPathRepo(db, log)
	ctx := context.Background()

	seeded := testutil.SeedCareerPath(t, db, "data-engineer")

	got, err := repo.GetBySlug(ctx, nil, "data-engineer")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if got.ID != seeded.ID {
		t.Fatalf("ID = %s, want %s", got.ID, seeded.ID)
	}
}

func TestCareerPathRepo_TxRollback(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	repo := NewCareerPathRepo(db, log)
	ctx := context.Background()

	path := testutil.SeedCareerPath(t, db, "rollback", uuid.New())

	tx := testutil.Tx(t, db)
	if err := repo.UpdateCourseIDs(ctx, tx, path.ID, nil); err != nil {
		t.Fatalf("UpdateCourseIDs: %v", err)
	}
	tx.Rollback()

	got, err := repo.GetByID(ctx, nil, path.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.CourseIDs) != 1 {
		t.Fatalf("CourseIDs = %v, want the seeded id back after rollback", got.CourseIDs)
	}
}
