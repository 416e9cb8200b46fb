package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Course struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title           string    `gorm:"column:title;not null" json:"title"`
	Description     string    `gorm:"column:description;type:text" json:"description,omitempty"`
	Category        string    `gorm:"column:category;index" json:"category"`
	Level           string    `gorm:"column:level" json:"level"`
	DurationMinutes int       `gorm:"column:duration_minutes;not null;default:0" json:"duration_minutes"`
	Published       bool      `gorm:"column:published;not null;default:false" json:"published"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}

func (Course) TableName() string { return "course" }

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type CourseModule struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null;index:idx_course_module,unique,priority:1" json:"course_id"`
	Course    *Course   `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	Index     int       `gorm:"column:index;not null;index:idx_course_module,unique,priority:2" json:"index"`
	Title     string    `gorm:"column:title;not null" json:"title"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (CourseModule) TableName() string { return "course_module" }

func (m *CourseModule) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
