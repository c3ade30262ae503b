package models

import (
	"time"

	"gorm.io/gorm"
)

// Course is a sellable online course. A paid enrollment (or a paid order
// containing a course line) unlocks its lessons.
type Course struct {
	gorm.Model
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	ImageURL    string   `json:"image_url"`
	IsActive    bool     `json:"is_active" gorm:"default:true"`
	Modules     []Module `json:"modules,omitempty" gorm:"foreignKey:CourseID"`
}

// Module groups a course's lessons in a fixed order.
type Module struct {
	ID       uint     `gorm:"primaryKey" json:"id"`
	CourseID uint     `json:"course_id"`
	Title    string   `json:"title"`
	Position int      `json:"position"`
	Lessons  []Lesson `json:"lessons,omitempty" gorm:"foreignKey:ModuleID"`
}

type Lesson struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	ModuleID uint   `json:"module_id"`
	Module   Module `json:"-" gorm:"foreignKey:ModuleID"`
	Title    string `json:"title"`
	VideoURL string `json:"video_url"`
	Content  string `json:"content"`
	Position int    `json:"position" gorm:"default:1"`
}

// LessonView records that a student opened a lesson, once per
// (student, lesson) pair.
type LessonView struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StudentID uint      `json:"student_id" gorm:"uniqueIndex:idx_lesson_views_student_lesson"`
	LessonID  uint      `json:"lesson_id" gorm:"uniqueIndex:idx_lesson_views_student_lesson"`
	CreatedAt time.Time `json:"created_at"`
}
