package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CareerPath references courses by id without owning them. CourseIDs is an
// ordered list: the position of an id implies the suggested completion
// sequence, so removals must never reorder the survivors.
type CareerPath struct {
	ID          uuid.UUID                     `gorm:"type:uuid;primaryKey" json:"id"`
	Slug        string                        `gorm:"column:slug;uniqueIndex;not null" json:"slug"`
	Name        string                        `gorm:"column:name;not null" json:"name"`
	Description string                        `gorm:"column:description;type:text" json:"description,omitempty"`
	CourseIDs   datatypes.JSONSlice[uuid.UUID] `gorm:"column:course_ids" json:"course_ids"`
	CreatedAt   time.Time                     `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time                     `gorm:"not null" json:"updated_at"`
}

func (CareerPath) TableName() string { return "career_path" }

func (p *CareerPath) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// UserCareerProgress is a derived aggregate over CareerPath membership and
// per-user completion. CompletedCourses is a set (stored as a JSON array)
// and must stay a subset of the owning path's CourseIDs.
type UserCareerProgress struct {
	ID                 uuid.UUID                     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID                     `gorm:"type:uuid;not null;index:idx_user_path,unique,priority:1" json:"user_id"`
	User               *User                         `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	CareerPathID       uuid.UUID                     `gorm:"type:uuid;not null;index:idx_user_path,unique,priority:2" json:"career_path_id"`
	CareerPath         *CareerPath                   `gorm:"constraint:OnDelete:CASCADE;foreignKey:CareerPathID;references:ID" json:"career_path,omitempty"`
	CompletedCourses   datatypes.JSONSlice[uuid.UUID] `gorm:"column:completed_courses" json:"completed_courses"`
	ProgressPercent    float64                       `gorm:"column:progress_percent;not null;default:0" json:"progress_percent"`
	CurrentCourseIndex int                           `gorm:"column:current_course_index;not null;default:0" json:"current_course_index"`
	StartedAt          time.Time                     `gorm:"not null" json:"started_at"`
	CreatedAt          time.Time                     `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time                     `gorm:"not null" json:"updated_at"`
}

func (UserCareerProgress) TableName() string { return "user_career_progress" }

func (p *UserCareerProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.StartedAt.IsZero() {
		p.StartedAt = time.Now().UTC()
	}
	return nil
}
