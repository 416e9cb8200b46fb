package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/edvance/edvance-backend/internal/domain"
)

func SeedUser(tb testing.TB, db *gorm.DB) *domain.User {
	tb.Helper()
	u := &domain.User{
		Email:     fmt.Sprintf("%s@example.com", uuid.NewString()[:8]),
		FirstName: "Test",
		LastName:  "User",
	}
	if err := db.Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCourse(tb testing.TB, db *gorm.DB, title string) *domain.Course {
	tb.Helper()
	c := &domain.Course{
		Title:     title,
		Category:  "backend",
		Level:     "beginner",
		Published: true,
	}
	if err := db.Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedModule(tb testing.TB, db *gorm.DB, courseID uuid.UUID, index int) *domain.CourseModule {
	tb.Helper()
	m := &domain.CourseModule{
		CourseID: courseID,
		Index:    index,
		Title:    fmt.Sprintf("Module %d", index),
	}
	if err := db.Create(m).Error; err != nil {
		tb.Fatalf("seed module: %v", err)
	}
	return m
}

func SeedLesson(tb testing.TB, db *gorm.DB, moduleID uuid.UUID, index int) *domain.Lesson {
	tb.Helper()
	l := &domain.Lesson{
		ModuleID:    moduleID,
		Index:       index,
		Title:       fmt.Sprintf("Lesson %d", index),
		ContentJSON: datatypes.JSON([]byte(`{"body":"text"}`)),
	}
	if err := db.Create(l).Error; err != nil {
		tb.Fatalf("seed lesson: %v", err)
	}
	return l
}

// SeedCourseTree builds a course with the given module/lesson shape and
// returns the course plus the lessons in creation order.
func SeedCourseTree(tb testing.TB, db *gorm.DB, title string, lessonsPerModule ...int) (*domain.Course, []*domain.Lesson) {
	tb.Helper()
	course := SeedCourse(tb, db, title)
	var lessons []*domain.Lesson
	for mi, n := range lessonsPerModule {
		module := SeedModule(tb, db, course.ID, mi)
		for li := 0; li < n; li++ {
			lessons = append(lessons, SeedLesson(tb, db, module.ID, li))
		}
	}
	return course, lessons
}

func SeedEnrollment(tb testing.TB, db *gorm.DB, userID, courseID uuid.UUID) *domain.Enrollment {
	tb.Helper()
	e := &domain.Enrollment{UserID: userID, CourseID: courseID}
	if err := db.Create(e).Error; err != nil {
		tb.Fatalf("seed enrollment: %v", err)
	}
	return e
}

func SeedLessonProgress(tb testing.TB, db *gorm.DB, userID, lessonID uuid.UUID) *domain.LessonProgress {
	tb.Helper()
	now := time.Now().UTC()
	p := &domain.LessonProgress{UserID: userID, LessonID: lessonID, Completed: true, CompletedAt: &now}
	if err := db.Create(p).Error; err != nil {
		tb.Fatalf("seed lesson progress: %v", err)
	}
	return p
}

func SeedCareerPath(tb testing.TB, db *gorm.DB, slug string, courseIDs ...uuid.UUID) *domain.CareerPath {
	tb.Helper()
	p := &domain.CareerPath{
		Slug:      slug,
		Name:      slug,
		CourseIDs: datatypes.NewJSONSlice(courseIDs),
	}
	if err := db.Create(p).Error; err != nil {
		tb.Fatalf("seed career path: %v", err)
	}
	return p
}

func SeedUserCareerProgress(tb testing.TB, db *gorm.DB, userID, pathID uuid.UUID, completed []uuid.UUID, percent float64) *domain.UserCareerProgress {
	tb.Helper()
	row := &domain.UserCareerProgress{
		UserID:           userID,
		CareerPathID:     pathID,
		CompletedCourses: datatypes.NewJSONSlice(completed),
		ProgressPercent:  percent,
	}
	if err := db.Create(row).Error; err != nil {
		tb.Fatalf("seed user career progress: %v", err)
	}
	return row
}
