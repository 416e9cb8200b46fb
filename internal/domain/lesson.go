package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Lesson struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ModuleID  uuid.UUID      `gorm:"type:uuid;not null;index:idx_module_lesson,unique,priority:1" json:"module_id"`
	Module    *CourseModule  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ModuleID;references:ID" json:"module,omitempty"`
	Index     int            `gorm:"column:index;not null;index:idx_module_lesson,unique,priority:2" json:"index"`
	Title     string         `gorm:"column:title;not null" json:"title"`
	// Ordered content blocks (text, video, code, quiz refs) as an opaque
	// JSON document; the consistency engine never looks inside.
	ContentJSON datatypes.JSON `gorm:"column:content_json" json:"content_json,omitempty"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
}

func (Lesson) TableName() string { return "lesson" }

func (l *Lesson) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
