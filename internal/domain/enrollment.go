package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Enrollment struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index:idx_user_course,unique,priority:1" json:"user_id"`
	User            *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	CourseID        uuid.UUID `gorm:"type:uuid;not null;index:idx_user_course,unique,priority:2" json:"course_id"`
	Course          *Course   `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	ProgressPercent float64   `gorm:"column:progress_percent;not null;default:0" json:"progress_percent"`
	Completed       bool      `gorm:"column:completed;not null;default:false" json:"completed"`
	EnrolledAt      time.Time `gorm:"not null" json:"enrolled_at"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}

func (Enrollment) TableName() string { return "enrollment" }

func (e *Enrollment) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.EnrolledAt.IsZero() {
		e.EnrolledAt = time.Now().UTC()
	}
	return nil
}

type LessonProgress struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index:idx_user_lesson,unique,priority:1" json:"user_id"`
	User        *User      `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	LessonID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_user_lesson,unique,priority:2" json:"lesson_id"`
	Lesson      *Lesson    `gorm:"constraint:OnDelete:CASCADE;foreignKey:LessonID;references:ID" json:"lesson,omitempty"`
	Completed   bool       `gorm:"column:completed;not null;default:false" json:"completed"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

func (LessonProgress) TableName() string { return "lesson_progress" }

func (p *LessonProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
