package model

// Lesson is ordered inside its courses by Position. Item is the lesson's
// catalogue number shown to students.
type Lesson struct {
	ID       uint     `json:"id" gorm:"primaryKey"`
	Slug     string   `json:"slug" gorm:"size:200;index"`
	Title    string   `json:"title" gorm:"size:200;not null"`
	Item     int      `json:"item"`
	Position int      `json:"position"`
	Courses  []Course `json:"-" gorm:"many2many:course_lessons"`
}
