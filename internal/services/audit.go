package services

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/edvance/edvance-backend/internal/domain"
	"github.com/edvance/edvance-backend/internal/pkg/logger"
	"github.com/edvance/edvance-backend/internal/repos"
)

type AuditFinding struct {
	Kind     string    `json:"kind"`
	PathID   uuid.UUID `json:"path_id,omitempty"`
	UserID   uuid.UUID `json:"user_id,omitempty"`
	CourseID uuid.UUID `json:"course_id,omitempty"`
	LessonID uuid.UUID `json:"lesson_id,omitempty"`
	Detail   string    `json:"detail"`
}

type AuditReport struct {
	PathsChecked    int            `json:"paths_checked"`
	UsersChecked    int            `json:"users_checked"`
	Findings        []AuditFinding `json:"findings"`
	OrphanProgress  int            `json:"orphan_progress_rows"`
	DanglingCourses int            `json:"dangling_course_refs"`
}

const (
	FindingDanglingCourseRef  = "dangling_course_ref"
	FindingCompletedNotMember = "completed_not_member"
	FindingStalePercent       = "stale_percent"
	FindingOrphanProgress     = "orphan_lesson_progress"
)

// AuditService is a read-only consistency sweep over career paths and
// lesson progress. Different paths have no cross-ordering requirement, so
// they are checked concurrently.
type AuditService interface {
	Run(ctx context.Context) (*AuditReport, error)
}

type auditService struct {
	db           *gorm.DB
	log          *logger.Logger
	courseRepo   repos.CourseRepo
	lessonRepo   repos.LessonRepo
	pathRepo     repos.CareerPathRepo
	progressRepo repos.UserCareerProgressRepo
}

func NewAuditService(db *gorm.DB, log *logger.Logger, courseRepo repos.CourseRepo, lessonRepo repos.LessonRepo, pathRepo repos.CareerPathRepo, progressRepo repos.UserCareerProgressRepo) AuditService {
	serviceLog := log.With("service", "AuditService")
	return &auditService{
		db:           db,
		log:          serviceLog,
		courseRepo:   courseRepo,
		lessonRepo:   lessonRepo,
		pathRepo:     pathRepo,
		progressRepo: progressRepo,
	}
}

func (s *auditService) Run(ctx context.Context) (*AuditReport, error) {
	paths, err := s.pathRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list career paths: %w", err)
	}

	report := &AuditReport{PathsChecked: len(paths), Findings: []AuditFinding{}}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, path := range paths {
		path := path
		g.Go(func() error {
			findings, users, err := s.auditPath(gctx, path)
			if err != nil {
				return err
			}
			mu.Lock()
			report.Findings = append(report.Findings, findings...)
			report.UsersChecked += users
			for _, f := range findings {
				if f.Kind == FindingDanglingCourseRef {
					report.DanglingCourses++
				}
			}
			mu.Unlock()
			return nil
		})
	}
	g.Go(func() error {
		orphans, err := s.auditOrphanLessonProgress(gctx)
		if err != nil {
			return err
		}
		mu.Lock()
		report.Findings = append(report.Findings, orphans...)
		report.OrphanProgress = len(orphans)
		mu.Unlock()
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(report.Findings) > 0 {
		s.log.Warn("Consistency audit found violations", "findings", len(report.Findings))
	} else {
		s.log.Info("Consistency audit clean", "paths_checked", report.PathsChecked, "users_checked", report.UsersChecked)
	}
	return report, nil
}

func (s *auditService) auditPath(ctx context.Context, path *domain.CareerPath) ([]AuditFinding, int, error) {
	var findings []AuditFinding

	for _, courseID := range path.CourseIDs {
		exists, err := s.courseRepo.Exists(ctx, nil, courseID)
		if err != nil {
			return nil, 0, fmt.Errorf("check course %s: %w", courseID, err)
		}
		if !exists {
			findings = append(findings, AuditFinding{
				Kind:     FindingDanglingCourseRef,
				PathID:   path.ID,
				CourseID: courseID,
				Detail:   "course_ids references a course that no longer exists",
			})
		}
	}

	rows, err := s.progressRepo.GetByPathID(ctx, nil, path.ID)
	if err != nil {
		return nil, 0, fmt.Errorf("list progress rows for path %s: %w", path.ID, err)
	}
	for _, row := range rows {
		for _, courseID := range row.CompletedCourses {
			if !domain.ContainsID(path.CourseIDs, courseID) {
				findings = append(findings, AuditFinding{
					Kind:     FindingCompletedNotMember,
					PathID:   path.ID,
					UserID:   row.UserID,
					CourseID: courseID,
					Detail:   "completed_courses contains a course outside the path",
				})
			}
		}
		expected := domain.PercentOf(len(domain.IntersectIDs(row.CompletedCourses, path.CourseIDs)), len(path.CourseIDs))
		if math.Abs(expected-row.ProgressPercent) > 1e-9 {
			findings = append(findings, AuditFinding{
				Kind:   FindingStalePercent,
				PathID: path.ID,
				UserID: row.UserID,
				Detail: fmt.Sprintf("progress_percent is %.4f, expected %.4f", row.ProgressPercent, expected),
			})
		}
	}
	return findings, len(rows), nil
}

func (s *auditService) auditOrphanLessonProgress(ctx context.Context) ([]AuditFinding, error) {
	// LessonProgress rows whose lesson no longer exists. Kept as raw SQL;
	// it is a single anti-join either dialect handles.
	var rows []struct {
		ID       uuid.UUID
		UserID   uuid.UUID
		LessonID uuid.UUID
	}
	if err := s.db.WithContext(ctx).
		Table("lesson_progress").
		Select("lesson_progress.id, lesson_progress.user_id, lesson_progress.lesson_id").
		Joins("LEFT JOIN lesson ON lesson.id = lesson_progress.lesson_id").
		Where("lesson.id IS NULL").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("scan orphan lesson progress: %w", err)
	}

	findings := make([]AuditFinding, 0, len(rows))
	for _, row := range rows {
		findings = append(findings, AuditFinding{
			Kind:     FindingOrphanProgress,
			UserID:   row.UserID,
			LessonID: row.LessonID,
			Detail:   "lesson_progress row references a deleted lesson",
		})
	}
	return findings, nil
}
